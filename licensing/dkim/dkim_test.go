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

package dkim

import (
	"context"
	"encoding/base64"
	"net"
	"testing"

	"github.com/foxcpp/go-mockdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dnsPublicKey is the §8 scenario 2 fixture: the record published at
// crypto-licensing.crypto-licensing._domainkey.dominionrnd.com.
const dnsPublicKey = "v=DKIM1; k=ed25519; p=5cijeUNWyR1mvbIJpqNmUJ6V4Od7vPEgVWOEjxiim8w="

var testZones = map[string]mockdns.Zone{
	"crypto-licensing.crypto-licensing._domainkey.dominionrnd.com.": {
		TXT: []string{dnsPublicKey},
	},
}

func TestLookupSucceeds(t *testing.T) {
	srv, err := mockdns.NewServer(testZones, false)
	require.NoError(t, err)
	defer srv.Close()

	resolver := &net.Resolver{}
	srv.PatchNet(resolver)
	defer mockdns.UnpatchNet(resolver)

	pubkey, err := Lookup(context.Background(), resolver, "crypto-licensing", "dominionrnd.com")
	require.NoError(t, err)

	want, err := base64.StdEncoding.DecodeString("5cijeUNWyR1mvbIJpqNmUJ6V4Od7vPEgVWOEjxiim8w=")
	require.NoError(t, err)
	assert.Equal(t, want, pubkey)
}

func TestLookupNoRecord(t *testing.T) {
	srv, err := mockdns.NewServer(map[string]mockdns.Zone{}, false)
	require.NoError(t, err)
	defer srv.Close()

	resolver := &net.Resolver{}
	srv.PatchNet(resolver)
	defer mockdns.UnpatchNet(resolver)

	_, err = Lookup(context.Background(), resolver, "crypto-licensing", "example.com")
	assert.Error(t, err)
}

func TestParseRecordVariants(t *testing.T) {
	good := "v=DKIM1; k=ed25519; p=" + base64.StdEncoding.EncodeToString(make([]byte, 32))
	pubkey, err := ParseRecord(good)
	require.NoError(t, err)
	assert.Len(t, pubkey, 32)

	_, err = ParseRecord("v=DKIM2; k=ed25519; p=" + base64.StdEncoding.EncodeToString(make([]byte, 32)))
	assert.Error(t, err)

	_, err = ParseRecord("v=DKIM1; k=rsa; p=" + base64.StdEncoding.EncodeToString(make([]byte, 32)))
	assert.Error(t, err)

	_, err = ParseRecord("v=DKIM1; k=ed25519")
	assert.Error(t, err)

	_, err = ParseRecord("v=DKIM1; k=ed25519; p=not-base64-!!!")
	assert.Error(t, err)
}

func TestNameComposition(t *testing.T) {
	assert.Equal(t, "crypto-licensing.crypto-licensing._domainkey.dominionrnd.com.", Name("crypto-licensing", "dominionrnd.com"))
	assert.Equal(t, "crypto-licensing.crypto-licensing._domainkey.dominionrnd.com.", Name("crypto-licensing", "dominionrnd.com."))
}
