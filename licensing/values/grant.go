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
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// Grant is a mapping from capability-group name to a sub-mapping of
// key/value pairs. Grant semantics are opaque to the core: only the
// author of a license interprets its own keys.
type Grant map[string]map[string]interface{}

// IsEmpty reports whether g has no entries; an empty Grant is treated
// as absent and does not affect the signing pre-image.
func (g Grant) IsEmpty() bool { return len(g) == 0 }

// Canonical returns the value placed into the canonical serialization
// tree: the Grant itself (a map of maps, whose keys sort
// lexicographically when marshaled), or nil when empty.
func (g Grant) Canonical() interface{} {
	if g.IsEmpty() {
		return nil
	}
	out := make(map[string]interface{}, len(g))
	for k, v := range g {
		sub := make(map[string]interface{}, len(v))
		for sk, sv := range v {
			sub[sk] = sv
		}
		out[k] = sub
	}
	return out
}

// CoerceGrant accepts a Grant, a map[string]interface{} whose values
// must each be an object (else GrantMalformed), or nil, and is
// idempotent.
func CoerceGrant(v interface{}) (Grant, error) {
	switch val := v.(type) {
	case Grant:
		return val, nil
	case nil:
		return Grant{}, nil
	case map[string]map[string]interface{}:
		return Grant(val), nil
	case map[string]interface{}:
		out := make(Grant, len(val))
		for k, raw := range val {
			sub, ok := raw.(map[string]interface{})
			if !ok {
				return nil, &lerr.GrantMalformed{Key: k}
			}
			out[k] = sub
		}
		return out, nil
	default:
		return nil, &lerr.InvalidField{Field: "grant", Detail: "unsupported representation"}
	}
}
