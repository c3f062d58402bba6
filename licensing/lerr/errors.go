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

// Package lerr defines the error kinds shared across the licensing core,
// so that every package (values, dkim, keypair, resolver and the root
// licensing package) can construct and a caller can discriminate them
// with errors.As without an import cycle back to the root package.
package lerr

import "fmt"

// InvalidField reports a coercion failure for a single named field.
type InvalidField struct {
	Field  string
	Detail string
}

func (e *InvalidField) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Detail)
}

// IncompatibleTimespan reports that a dependency chain's validity
// windows do not overlap.
type IncompatibleTimespan struct {
	Author  string
	Product string
	Detail  string
}

func (e *IncompatibleTimespan) Error() string {
	if e.Author == "" && e.Product == "" {
		return fmt.Sprintf("incompatible timespan: %s", e.Detail)
	}
	return fmt.Sprintf("incompatible timespan for %s/%s: %s", e.Author, e.Product, e.Detail)
}

// MachineMismatch reports that a license's machine binding does not
// match the machine verification is running on.
type MachineMismatch struct {
	Required string
	Detected string
}

func (e *MachineMismatch) Error() string {
	return fmt.Sprintf("machine mismatch: license requires %s, detected %s", e.Required, e.Detected)
}

// SignatureMismatch reports that an Ed25519 signature failed to verify.
type SignatureMismatch struct {
	Detail string
}

func (e *SignatureMismatch) Error() string {
	return fmt.Sprintf("signature mismatch: %s", e.Detail)
}

// DkimLookupFailed reports any failure to retrieve or parse a DKIM TXT
// record: zero or multiple records, wrong v=/k=, missing/malformed p=,
// or a resolver/timeout error.
type DkimLookupFailed struct {
	Detail string
}

func (e *DkimLookupFailed) Error() string {
	return fmt.Sprintf("DKIM lookup failed: %s", e.Detail)
}

// ChainBroken reports that a dependency's client pubkey does not match
// the issuing license's author pubkey.
type ChainBroken struct {
	Detail string
}

func (e *ChainBroken) Error() string {
	return fmt.Sprintf("chain broken: %s", e.Detail)
}

// KeypairCredentialError reports that decrypting a KeypairEncrypted
// container with the supplied username/password failed its
// authentication tag check.
type KeypairCredentialError struct{}

func (e *KeypairCredentialError) Error() string {
	return "keypair credential error: authentication failed"
}

// GrantMalformed reports that a Grant's top-level value for Key is not
// itself a JSON object.
type GrantMalformed struct {
	Key string
}

func (e *GrantMalformed) Error() string {
	return fmt.Sprintf("grant malformed: key %q is not an object", e.Key)
}

// NoKeypairAndRegisteringDisabled reports that check found no usable
// keypair and the caller has not opted into authorize's
// keypair-creation fallback.
type NoKeypairAndRegisteringDisabled struct {
	Basename string
}

func (e *NoKeypairAndRegisteringDisabled) Error() string {
	return fmt.Sprintf("no keypair found for %q and registering a new one is disabled", e.Basename)
}
