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

// Package dkim retrieves an Author's Ed25519 public key from DNS,
// repurposing the DKIM TXT-record convention (RFC 6376 §3.6.1) as a
// key-distribution channel: the record lives at
// <service>.crypto-licensing._domainkey.<domain>. and carries
// "v=DKIM1; k=ed25519; p=<base64 pubkey>".
package dkim

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pjkundert/crypto-licensing/framework/dns"
	"github.com/pjkundert/crypto-licensing/framework/exterrors"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// SubDomain is the fixed label inserted between the service selector
// and the author's domain, mirroring DKIM's "_domainkey" convention.
const SubDomain = "crypto-licensing._domainkey"

// Name composes the DNS name queried for a given service selector and
// domain: "<service>.crypto-licensing._domainkey.<domain>.".
func Name(service, domain string) string {
	domain = dns.FQDN(domain)
	return fmt.Sprintf("%s.%s.%s", service, SubDomain, domain)
}

// Lookup performs the DNS TXT query and parses the result, returning
// the 32-byte Ed25519 public key. Any deviation from the expected
// record shape is reported as *lerr.DkimLookupFailed.
func Lookup(ctx context.Context, resolver dns.Resolver, service, domain string) ([]byte, error) {
	name := Name(service, domain)
	records, err := resolver.LookupTXT(ctx, name)
	if err != nil {
		reason, _ := exterrors.UnwrapDNSErr(err)
		if reason == "" {
			reason = err.Error()
		}
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("TXT lookup for %s: %s", name, reason)}
	}
	if len(records) != 1 {
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("expected exactly one TXT record at %s, got %d", name, len(records))}
	}
	return ParseRecord(records[0])
}

// ParseRecord parses one already-concatenated TXT record value per
// RFC 6376: split on ';', trim, split each token on '=' at most once.
// Requires v=DKIM1 and k=ed25519; extracts p=<base64> as the 32-byte
// public key.
func ParseRecord(record string) ([]byte, error) {
	tags := map[string]string{}
	for _, tok := range strings.Split(record, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, "=", 2)
		if len(parts) != 2 {
			return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("malformed tag %q", tok)}
		}
		tags[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	if v := tags["v"]; v != "DKIM1" {
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("unsupported version %q", v)}
	}
	if k := tags["k"]; k != "ed25519" {
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("unsupported key type %q", k)}
	}
	p, ok := tags["p"]
	if !ok || p == "" {
		return nil, &lerr.DkimLookupFailed{Detail: "missing p= public key tag"}
	}
	pubkey, err := base64.StdEncoding.DecodeString(p)
	if err != nil {
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("malformed base64 in p=: %v", err)}
	}
	if len(pubkey) != 32 {
		return nil, &lerr.DkimLookupFailed{Detail: fmt.Sprintf("expected 32-byte public key, got %d", len(pubkey))}
	}
	return pubkey, nil
}
