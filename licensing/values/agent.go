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
	"encoding/base64"
	"strings"

	"github.com/pjkundert/crypto-licensing/framework/dns"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// Agent identifies an author or a client. Either Pubkey is given, or
// Domain plus one of Product/Service is -- sufficient to perform a
// DKIM lookup.
type Agent struct {
	Name    string
	Domain  string
	Product string
	Service string
	Pubkey  []byte // 32 bytes, optional at construction
}

// serviceReplacer turns the characters the DNS-label derivation
// treats as separators into '-'.
var serviceReplacer = strings.NewReplacer(
	" ", "-",
	".", "-",
	"_", "-",
	"/", "-",
)

// DeriveService computes the DNS service label from a product name:
// lowercase, replace {space, '.', '_', '/'} with '-', then IDNA-encode
// (a no-op for the ASCII case, punycode-encodes any remaining
// non-ASCII runes).
func DeriveService(product string) (string, error) {
	label := serviceReplacer.Replace(strings.ToLower(product))
	encoded, err := dns.SelectIDNA(false, label)
	if err != nil {
		// Not every candidate label is representable as a domain
		// label (e.g. leftover characters IDNA rejects); fall back to
		// the un-encoded lowercase/replaced form rather than fail the
		// whole Agent construction over a cosmetic concern.
		return label, nil
	}
	return encoded, nil
}

// ResolvedService returns a.Service if explicitly set, else derives it
// from a.Product.
func (a Agent) ResolvedService() (string, error) {
	if a.Service != "" {
		return a.Service, nil
	}
	if a.Product == "" {
		return "", &lerr.InvalidField{Field: "agent.service", Detail: "neither service nor product given"}
	}
	return DeriveService(a.Product)
}

// HasPubkey reports whether a.Pubkey is a well-formed 32-byte key.
func (a Agent) HasPubkey() bool { return len(a.Pubkey) == 32 }

// Validate enforces the construction invariant: either Pubkey is
// given, or Domain plus one of Product/Service is.
func (a Agent) Validate() error {
	if a.HasPubkey() {
		return nil
	}
	if a.Domain != "" && (a.Product != "" || a.Service != "") {
		return nil
	}
	return &lerr.InvalidField{Field: "agent", Detail: "requires pubkey, or domain plus product/service"}
}

// Canonical returns the value placed into the canonical serialization
// tree: only the present fields, pubkey base64-encoded.
func (a Agent) Canonical() interface{} {
	m := map[string]interface{}{}
	if a.Name != "" {
		m["name"] = a.Name
	}
	if a.Domain != "" {
		m["domain"] = a.Domain
	}
	if a.Product != "" {
		m["product"] = a.Product
	}
	if a.Service != "" {
		m["service"] = a.Service
	}
	if a.HasPubkey() {
		m["pubkey"] = base64.StdEncoding.EncodeToString(a.Pubkey)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// CoerceAgent accepts an Agent, a map[string]interface{} in the
// intermediate/parsed form, or nil, and is idempotent.
func CoerceAgent(v interface{}) (Agent, error) {
	switch val := v.(type) {
	case Agent:
		return val, nil
	case nil:
		return Agent{}, nil
	case map[string]interface{}:
		a := Agent{}
		if s, ok := val["name"].(string); ok {
			a.Name = s
		}
		if s, ok := val["domain"].(string); ok {
			a.Domain = s
		}
		if s, ok := val["product"].(string); ok {
			a.Product = s
		}
		if s, ok := val["service"].(string); ok {
			a.Service = s
		}
		if raw, ok := val["pubkey"]; ok && raw != nil {
			s, ok := raw.(string)
			if !ok {
				return Agent{}, &lerr.InvalidField{Field: "agent.pubkey", Detail: "not a string"}
			}
			pk, err := base64.StdEncoding.DecodeString(s)
			if err != nil || len(pk) != 32 {
				return Agent{}, &lerr.InvalidField{Field: "agent.pubkey", Detail: "not a valid base64 32-byte key"}
			}
			a.Pubkey = pk
		}
		return a, nil
	default:
		return Agent{}, &lerr.InvalidField{Field: "agent", Detail: "unsupported representation"}
	}
}
