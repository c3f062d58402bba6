/*
Crypto-Licensing - Ed25519-signed software license issuance and verification.
Copyright (C) 2026 Crypto-Licensing contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package resolver implements the check/authorize algorithm: it
// matches candidate keypairs against candidate licenses yielded by an
// external discovery stream, issues a new sub-license where one can be
// derived, and, when authorized, creates and persists a new keypair.
// Issued sub-licenses are returned to the caller, not persisted.
//
// The discovery stream itself -- walking a filesystem, a bundled
// resource set, whatever -- is external to this package; Discovery is
// the narrow interface the core needs from it.
package resolver

// Candidate is one discovered file: its origin (for diagnostics and,
// on the write path, as the location to persist to) and its raw
// bytes.
type Candidate struct {
	Origin string
	Data   []byte
}

// Discovery is the external collaborator that yields candidate
// keypair and license files matching basename, and persists newly
// created keypairs back to storage.
//
// Read-path ordering is caller-defined (most specific to most
// general, or the reverse); Persist's target is the first origin the
// implementation considers most appropriate for new writes -- the
// core does not dictate where that is, only that it receives
// confirmation of where the data landed.
type Discovery interface {
	Keypairs(basename string) ([]Candidate, error)
	Licenses(basename string) ([]Candidate, error)
	Persist(suggestedOrigin string, data []byte) (actualOrigin string, err error)
}
