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

// Package canon implements the deterministic serialization used as
// the Ed25519 signing pre-image: UTF-8, keys sorted lexicographically
// at every depth, no insignificant whitespace, absent/empty fields
// omitted. Every signable type in this module implements Canonical()
// interface{}, returning a tree of maps/slices/primitives; this
// package marshals that tree with Go's native object-key sort and a
// compact encoder, so the byte stream is stable across repeated
// invocations and across processes.
package canon

import (
	"bytes"
	"encoding/json"
)

// Canonicalizer is implemented by every signable value type: its
// Canonical method returns the value that should appear in the
// serialization tree (a primitive, a map[string]interface{}, a slice,
// or nil to omit the field entirely).
type Canonicalizer interface {
	Canonical() interface{}
}

// Marshal renders v's canonical tree as compact, sorted-key JSON.
// v is typically the map[string]interface{} returned by a top-level
// Canonical() call, but any json.Marshal-able value is accepted.
//
// encoding/json already sorts map[string]interface{} keys
// lexicographically when marshaling, at every nesting depth, which is
// exactly the ordering the signing pre-image requires; this function
// additionally disables HTML-escaping (which would otherwise mangle
// '<', '>' and '&' inside strings) and strips the trailing newline the
// stdlib Encoder always appends.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalValue resolves v through Canonical() (if it implements
// Canonicalizer) before marshaling, so callers can pass a typed value
// directly.
func MarshalValue(v interface{}) ([]byte, error) {
	if c, ok := v.(Canonicalizer); ok {
		v = c.Canonical()
	}
	return Marshal(v)
}

// Unmarshal parses canonical (or any valid) JSON into an
// interface{} tree of map[string]interface{}/[]interface{}/primitives,
// suitable for feeding into the values package's Coerce* functions.
func Unmarshal(data []byte) (interface{}, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
