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

package values

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// bindingKind discriminates the three states a MachineBinding can
// hold: absent, bound to any verifying machine, or bound to one
// specific machine UUID.
type bindingKind int

const (
	bindingUnset bindingKind = iota
	bindingAny
	bindingUUID
)

// MachineBinding models the `machine` field's tri-state sentinel: a
// License may carry no binding, a binding to "any machine that
// verifies it" (the boolean-true sentinel in the original data
// model), or a binding to one concrete machine UUID.
type MachineBinding struct {
	kind bindingKind
	id   uuid.UUID
}

// UnsetMachineBinding is the absent state: no machine restriction.
func UnsetMachineBinding() MachineBinding { return MachineBinding{kind: bindingUnset} }

// AnyMachineBinding is the "true" sentinel: bound to whichever machine
// verifies it, recorded at sub-licensing time but not pinned yet.
func AnyMachineBinding() MachineBinding { return MachineBinding{kind: bindingAny} }

// BoundMachineBinding pins the license to one concrete machine UUID.
func BoundMachineBinding(id uuid.UUID) MachineBinding {
	return MachineBinding{kind: bindingUUID, id: id}
}

func (m MachineBinding) IsUnset() bool { return m.kind == bindingUnset }
func (m MachineBinding) IsAny() bool   { return m.kind == bindingAny }
func (m MachineBinding) IsBound() bool { return m.kind == bindingUUID }

// UUID returns the bound machine UUID; valid only when IsBound.
func (m MachineBinding) UUID() uuid.UUID { return m.id }

// Satisfies reports whether this binding is compatible with the
// detected machine UUID: unset and "any" are always compatible, a
// bound UUID must match exactly.
func (m MachineBinding) Satisfies(detected uuid.UUID) bool {
	switch m.kind {
	case bindingUnset, bindingAny:
		return true
	case bindingUUID:
		return m.id == detected
	default:
		return false
	}
}

// String renders the binding for diagnostics: "unset", "any", or the
// bound UUID's string form.
func (m MachineBinding) String() string {
	switch m.kind {
	case bindingAny:
		return "any"
	case bindingUUID:
		return m.id.String()
	default:
		return "unset"
	}
}

// Canonical returns the value placed into the canonical serialization
// tree: nil when unset, the boolean true for "any", or the UUID's
// canonical string form when bound.
func (m MachineBinding) Canonical() interface{} {
	switch m.kind {
	case bindingAny:
		return true
	case bindingUUID:
		return m.id.String()
	default:
		return nil
	}
}

// CoerceMachineBinding accepts a MachineBinding, a bool (only `true`
// is meaningful: "any machine"), a uuid.UUID, a string UUID, or nil,
// and is idempotent.
func CoerceMachineBinding(v interface{}) (MachineBinding, error) {
	switch val := v.(type) {
	case MachineBinding:
		return val, nil
	case nil:
		return UnsetMachineBinding(), nil
	case bool:
		if val {
			return AnyMachineBinding(), nil
		}
		return UnsetMachineBinding(), nil
	case uuid.UUID:
		return BoundMachineBinding(val), nil
	case string:
		if val == "" {
			return UnsetMachineBinding(), nil
		}
		id, err := uuid.Parse(val)
		if err != nil {
			return MachineBinding{}, &lerr.InvalidField{Field: "machine", Detail: fmt.Sprintf("invalid UUID %q: %v", val, err)}
		}
		return BoundMachineBinding(id), nil
	default:
		return MachineBinding{}, &lerr.InvalidField{Field: "machine", Detail: fmt.Sprintf("unsupported type %T", v)}
	}
}
