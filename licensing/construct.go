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

package licensing

import (
	"context"
	"fmt"

	"github.com/pjkundert/crypto-licensing/licensing/keys"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// NewLicenseOptions collects the fields of a License under
// construction, plus the VerifyOptions the new license must pass
// before it leaves the Drafted state.
type NewLicenseOptions struct {
	Author       values.Agent
	Client       values.Agent
	HasClient    bool
	Dependencies []LicenseSigned
	Machine      values.MachineBinding
	Timespan     values.Timespan
	Grant        values.Grant

	Verify VerifyOptions
}

// NewLicense drafts a License from the given fields and immediately
// runs it through Verify: construction fails, yielding no partially
// built object, unless every §4.5 invariant holds. The successful
// result carries the narrowed constraints alongside the Verified
// License, e.g. for a caller composing a sub-license next.
func NewLicense(opts NewLicenseOptions) (License, Constraints, error) {
	if err := opts.Author.Validate(); err != nil {
		return License{}, Constraints{}, err
	}
	if opts.HasClient {
		if err := opts.Client.Validate(); err != nil {
			return License{}, Constraints{}, err
		}
	}

	draft := draftLicense(opts.Author, opts.Client, opts.HasClient, opts.Dependencies, opts.Machine, opts.Timespan, opts.Grant)

	unsigned := LicenseSigned{License: draft}
	constraints, err := unsigned.Verify(context.Background(), opts.Verify)
	if err != nil {
		return License{}, Constraints{}, err
	}

	draft.state = stateVerified
	return draft, constraints, nil
}

// Sign pairs a Verified License with its author's Ed25519 signature,
// transitioning it to Signed. sk is either l.Author's 32-byte seed or
// its 64-byte expansion (see keys.ExpandSK); a 64-byte sk's upper half
// is cross-checked against l.Author.Pubkey when the latter is present.
func Sign(l License, sk []byte) (LicenseSigned, error) {
	if !l.IsVerified() {
		return LicenseSigned{}, &lerr.InvalidField{Field: "license", Detail: "must be verified before signing"}
	}
	var vkHint []byte
	if l.Author.HasPubkey() {
		vkHint = l.Author.Pubkey
	}
	fullSK, vk, err := keys.ExpandSK(sk, vkHint)
	if err != nil {
		return LicenseSigned{}, err
	}
	if !l.Author.HasPubkey() {
		l.Author.Pubkey = vk
	}

	msg, err := l.Bytes()
	if err != nil {
		return LicenseSigned{}, fmt.Errorf("licensing: canonicalizing license: %w", err)
	}
	sig := keys.Sign(msg, fullSK)

	l.state = stateSigned
	return LicenseSigned{License: l, Signature: sig}, nil
}
