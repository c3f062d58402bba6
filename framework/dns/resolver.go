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


// Package dns defines the DNS lookup interface consumed by the DKIM
// public-key retrieval component, plus IDNA-aware domain helpers.
//
// The only lookup the licensing core needs is a single TXT query; the
// interface stays narrow so a filesystem-discovery-only deployment (or
// a test fixture) never needs to stub out host/MX resolution it has no
// use for.
package dns

import (
	"context"
	"net"
)

// Resolver describes the DNS TXT lookup used by dkim.Lookup.
//
// *net.Resolver implements it with its standard signature; tests swap
// in github.com/foxcpp/go-mockdns instead of touching the network.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// DefaultResolver returns the process-wide resolver: Go's standard
// net.Resolver, honoring the system's configured DNS servers.
func DefaultResolver() Resolver {
	return net.DefaultResolver
}
