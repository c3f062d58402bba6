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
	"encoding/base64"

	"github.com/pjkundert/crypto-licensing/licensing/canon"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// Canonical returns the License's canonical serialization tree: only
// present fields, dependencies recursively canonicalized.
func (l License) Canonical() interface{} {
	m := map[string]interface{}{}
	if author := l.Author.Canonical(); author != nil {
		m["author"] = author
	}
	if l.HasClient {
		if client := l.Client.Canonical(); client != nil {
			m["client"] = client
		}
	}
	if len(l.Dependencies) > 0 {
		deps := make([]interface{}, len(l.Dependencies))
		for i, d := range l.Dependencies {
			deps[i] = d.Canonical()
		}
		m["dependencies"] = deps
	}
	if machine := l.Machine.Canonical(); machine != nil {
		m["machine"] = machine
	}
	if ts := l.Timespan.Canonical(); ts != nil {
		m["timespan"] = ts
	}
	if grant := l.Grant.Canonical(); grant != nil {
		m["grant"] = grant
	}
	return m
}

// Bytes returns the canonical JSON signing pre-image for l.
func (l License) Bytes() ([]byte, error) {
	return canon.Marshal(l.Canonical())
}

// Canonical returns the LicenseSigned's canonical serialization tree:
// the license and its base64-encoded signature.
func (ls LicenseSigned) Canonical() interface{} {
	m := map[string]interface{}{
		"license": ls.License.Canonical(),
	}
	if len(ls.Signature) > 0 {
		m["signature"] = base64.StdEncoding.EncodeToString(ls.Signature)
	}
	return m
}

// Bytes returns the canonical JSON form of the signed license.
func (ls LicenseSigned) Bytes() ([]byte, error) {
	return canon.Marshal(ls.Canonical())
}

// ParseLicense decodes the intermediate map form (as produced by
// canon.Unmarshal) of a License's "license" sub-tree, without
// verifying it -- the result is Drafted and must be passed through
// Verify before use.
func ParseLicense(v interface{}) (License, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return License{}, &lerr.InvalidField{Field: "license", Detail: "not an object"}
	}

	author, err := values.CoerceAgent(m["author"])
	if err != nil {
		return License{}, err
	}
	if err := author.Validate(); err != nil {
		return License{}, err
	}

	var client values.Agent
	hasClient := false
	if raw, ok := m["client"]; ok && raw != nil {
		client, err = values.CoerceAgent(raw)
		if err != nil {
			return License{}, err
		}
		hasClient = true
	}

	var deps []LicenseSigned
	if raw, ok := m["dependencies"]; ok && raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return License{}, &lerr.InvalidField{Field: "license.dependencies", Detail: "not an array"}
		}
		deps = make([]LicenseSigned, len(list))
		for i, item := range list {
			ls, err := ParseLicenseSigned(item)
			if err != nil {
				return License{}, err
			}
			deps[i] = ls
		}
	}

	machine, err := values.CoerceMachineBinding(m["machine"])
	if err != nil {
		return License{}, err
	}

	timespan, err := values.CoerceTimespan(m["timespan"])
	if err != nil {
		return License{}, err
	}

	grant, err := values.CoerceGrant(m["grant"])
	if err != nil {
		return License{}, err
	}

	return draftLicense(author, client, hasClient, deps, machine, timespan, grant), nil
}

// ParseLicenseSigned decodes the intermediate map form of a
// {license, signature} pair, without verifying it.
func ParseLicenseSigned(v interface{}) (LicenseSigned, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return LicenseSigned{}, &lerr.InvalidField{Field: "licenseSigned", Detail: "not an object"}
	}
	lic, err := ParseLicense(m["license"])
	if err != nil {
		return LicenseSigned{}, err
	}
	var sig []byte
	if raw, ok := m["signature"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return LicenseSigned{}, &lerr.InvalidField{Field: "signature", Detail: "not a string"}
		}
		sig, err = base64.StdEncoding.DecodeString(s)
		if err != nil || len(sig) != 64 {
			return LicenseSigned{}, &lerr.InvalidField{Field: "signature", Detail: "not a valid base64 64-byte signature"}
		}
	}
	return LicenseSigned{License: lic, Signature: sig}, nil
}

// UnmarshalLicenseSigned parses canonical (or any valid) JSON bytes
// into a Drafted LicenseSigned.
func UnmarshalLicenseSigned(data []byte) (LicenseSigned, error) {
	tree, err := canon.Unmarshal(data)
	if err != nil {
		return LicenseSigned{}, &lerr.InvalidField{Field: "licenseSigned", Detail: "malformed JSON: " + err.Error()}
	}
	return ParseLicenseSigned(tree)
}
