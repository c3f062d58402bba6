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

// Package licensing implements the core license data model: the
// License and LicenseSigned types, their canonical serialization, and
// the verification pipeline that chains dependency, timespan, machine
// and DKIM-confirmation checks into one pass.
package licensing

import (
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// state tracks the construction lifecycle of a License: Drafted
// (fields assembled but not yet verified), Verified (all §4.5
// invariants hold), and Signed (paired with a signature). There is no
// path back from a later state.
type state int

const (
	stateDrafted state = iota
	stateVerified
	stateSigned
)

// License is an unsigned declaration of author, client, timespan,
// machine, grant and dependencies. NewLicense and Sign hand back
// Verified and Signed values. ParseLicense, ParseLicenseSigned and
// UnmarshalLicenseSigned return Drafted values, and
// LicenseSigned.Verify does not change the state of the value it
// checks.
type License struct {
	Author       values.Agent
	Client       values.Agent
	HasClient    bool
	Dependencies []LicenseSigned
	Machine      values.MachineBinding
	Timespan     values.Timespan
	Grant        values.Grant

	state state
}

// LicenseSigned pairs a License with the 64-byte Ed25519 signature of
// its canonical serialization, produced under the author's signing
// key. A LicenseSigned is immutable once constructed.
type LicenseSigned struct {
	License   License
	Signature []byte
}

// Constraints is both the input to, and narrowed output of, a
// verification pass: the caller's requested bounds going in, the
// actual intersected bounds (and, optionally, the accumulated
// dependency chain) coming out -- ready to feed directly into a
// sub-License's NewLicense call.
type Constraints struct {
	Timespan         values.Timespan
	HasTimespan      bool
	Machine          values.MachineBinding
	HasMachine       bool
	Dependencies     []LicenseSigned
	WantDependencies bool
}

// draftLicense builds a License in the Drafted state, for NewLicense
// and the Parse* functions.
func draftLicense(author values.Agent, client values.Agent, hasClient bool, deps []LicenseSigned, machine values.MachineBinding, timespan values.Timespan, grant values.Grant) License {
	return License{
		Author:       author,
		Client:       client,
		HasClient:    hasClient,
		Dependencies: deps,
		Machine:      machine,
		Timespan:     timespan,
		Grant:        grant,
		state:        stateDrafted,
	}
}

// IsVerified reports whether l has passed Verify.
func (l License) IsVerified() bool { return l.state == stateVerified || l.state == stateSigned }

// IsSigned reports whether l has been paired with a signature.
func (l License) IsSigned() bool { return l.state == stateSigned }
