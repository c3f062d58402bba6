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
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pjkundert/crypto-licensing/framework/dns"
	"github.com/pjkundert/crypto-licensing/licensing/dkim"
	"github.com/pjkundert/crypto-licensing/licensing/keys"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// VerifyOptions parameterizes a verification pass. All fields are
// optional. The zero value pins no author pubkey, performs DKIM
// confirmation, carries no incoming constraints, and leaves the
// machine check enabled against the zero MachineUUID, so a license
// bound to a concrete machine fails it (see the machine-check step for
// the exact rule).
type VerifyOptions struct {
	// Resolver performs the DKIM TXT lookup; required whenever
	// Confirm is true or unset and the author of the license, or of
	// any of its dependencies, has a Domain.
	Resolver dns.Resolver

	// AuthorPubkey, if non-empty, must equal the license's author
	// pubkey.
	AuthorPubkey []byte

	// Confirm controls DKIM confirmation: nil or true performs the
	// lookup, false skips it.
	Confirm *bool

	// Dependencies, when true, appends this LicenseSigned to the
	// returned Constraints' Dependencies list, ready to feed a
	// sub-License constructor.
	Dependencies bool

	// Constraints carries any incoming bounds (from a parent
	// verification pass, or from a caller wanting to pre-narrow a
	// license) that this pass must additionally satisfy.
	Constraints Constraints

	// MachineSuppressed disables the machine-binding check entirely,
	// regardless of what license.machine or Constraints.Machine say.
	MachineSuppressed bool

	// MachineUUID is the local machine's identity, used only when the
	// machine check is not suppressed and some binding in the chain
	// requires it.
	MachineUUID uuid.UUID
}

func confirmWanted(c *bool) bool {
	return c == nil || *c
}

// Verify performs §4.5's pipeline in order: author pubkey match, DKIM
// confirmation, signature check, depth-first dependency verification
// and chain-of-custody checks, timespan intersection, and machine
// binding check. On success it returns the narrowed Constraints; on
// any failure it returns the first error encountered, and ls is left
// unmodified (no partial state is ever exposed).
func (ls LicenseSigned) Verify(ctx context.Context, opts VerifyOptions) (Constraints, error) {
	lic := ls.License

	// 1. Author pubkey match.
	if len(opts.AuthorPubkey) > 0 {
		if !lic.Author.HasPubkey() || !bytes.Equal(opts.AuthorPubkey, lic.Author.Pubkey) {
			return Constraints{}, &lerr.SignatureMismatch{Detail: "author pubkey does not match required pubkey"}
		}
	}

	// 2. DKIM confirmation.
	authorPubkey := lic.Author.Pubkey
	if confirmWanted(opts.Confirm) && lic.Author.Domain != "" {
		if opts.Resolver == nil {
			return Constraints{}, &lerr.DkimLookupFailed{Detail: "no DNS resolver configured for confirmation"}
		}
		service, err := lic.Author.ResolvedService()
		if err != nil {
			return Constraints{}, err
		}
		confirmed, err := dkim.Lookup(ctx, opts.Resolver, service, lic.Author.Domain)
		if err != nil {
			return Constraints{}, err
		}
		if lic.Author.HasPubkey() && !bytes.Equal(confirmed, lic.Author.Pubkey) {
			return Constraints{}, &lerr.DkimLookupFailed{Detail: "DNS-published key does not match license author pubkey"}
		}
		authorPubkey = confirmed
	}

	// 3. Signature check.
	if len(ls.Signature) > 0 {
		if len(authorPubkey) != 32 {
			return Constraints{}, &lerr.SignatureMismatch{Detail: "no author pubkey available to verify signature"}
		}
		msg, err := lic.Bytes()
		if err != nil {
			return Constraints{}, fmt.Errorf("licensing: canonicalizing license: %w", err)
		}
		if !keys.Verify(ls.Signature, msg, authorPubkey) {
			return Constraints{}, &lerr.SignatureMismatch{Detail: "Ed25519 signature does not verify"}
		}
	}

	// 4. Dependency verification, depth-first, left to right.
	running := lic.Timespan
	for i, dep := range lic.Dependencies {
		depOpts := VerifyOptions{
			Resolver:          opts.Resolver,
			Confirm:           opts.Confirm,
			MachineSuppressed: opts.MachineSuppressed,
			MachineUUID:       opts.MachineUUID,
		}
		depConstraints, err := dep.Verify(ctx, depOpts)
		if err != nil {
			return Constraints{}, fmt.Errorf("licensing: dependency %d: %w", i, err)
		}

		if dep.License.HasClient && dep.License.Client.HasPubkey() {
			if !lic.Author.HasPubkey() || !bytes.Equal(dep.License.Client.Pubkey, lic.Author.Pubkey) {
				return Constraints{}, &lerr.ChainBroken{Detail: fmt.Sprintf("dependency %d's client pubkey does not match this license's author pubkey", i)}
			}
		}

		depTimespan := depConstraints.Timespan
		if !depConstraints.HasTimespan {
			depTimespan = dep.License.Timespan
		}
		running, err = running.Intersect(depTimespan)
		if err != nil {
			return Constraints{}, err
		}
	}

	// 5. Intersect with any incoming timespan constraint.
	if opts.Constraints.HasTimespan {
		var err error
		running, err = running.Intersect(opts.Constraints.Timespan)
		if err != nil {
			return Constraints{}, err
		}
	}

	// 6. Machine check.
	machineOut := lic.Machine
	if !opts.MachineSuppressed {
		constraintMachine := opts.Constraints.Machine
		needsCheck := !lic.Machine.IsUnset() || (opts.Constraints.HasMachine && !constraintMachine.IsUnset())
		if needsCheck {
			if !lic.Machine.Satisfies(opts.MachineUUID) {
				return Constraints{}, &lerr.MachineMismatch{Required: lic.Machine.String(), Detected: opts.MachineUUID.String()}
			}
			if opts.Constraints.HasMachine && !constraintMachine.Satisfies(opts.MachineUUID) {
				return Constraints{}, &lerr.MachineMismatch{Detected: opts.MachineUUID.String()}
			}
		}
	}

	result := Constraints{
		Timespan:    running,
		HasTimespan: true,
		Machine:     machineOut,
		HasMachine:  !machineOut.IsUnset(),
	}
	if opts.Dependencies {
		result.Dependencies = append(append([]LicenseSigned{}, opts.Constraints.Dependencies...), ls)
		result.WantDependencies = true
	}
	return result, nil
}
