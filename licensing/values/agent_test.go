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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeriveServiceVectors covers spec §4.2/§8's two worked examples.
func TestDeriveServiceVectors(t *testing.T) {
	got, err := DeriveService("Something Awesome v1.0")
	require.NoError(t, err)
	assert.Equal(t, "something-awesome-v1-0", got)

	got, err = DeriveService("a/b.c_d e")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c-d-e", got)
}

func TestAgentValidateRequiresPubkeyOrDomain(t *testing.T) {
	assert.Error(t, Agent{Name: "nobody"}.Validate())
	assert.NoError(t, Agent{Pubkey: make([]byte, 32)}.Validate())
	assert.NoError(t, Agent{Domain: "b.c", Product: "Something"}.Validate())
	assert.NoError(t, Agent{Domain: "b.c", Service: "something"}.Validate())
}

func TestAgentResolvedServiceDerivesFromProduct(t *testing.T) {
	a := Agent{Domain: "b.c", Product: "Something"}
	svc, err := a.ResolvedService()
	require.NoError(t, err)
	assert.Equal(t, "something", svc)
}

func TestAgentResolvedServicePrefersExplicit(t *testing.T) {
	a := Agent{Domain: "b.c", Product: "Something", Service: "custom-label"}
	svc, err := a.ResolvedService()
	require.NoError(t, err)
	assert.Equal(t, "custom-label", svc)
}

func TestAgentCoerceRoundTrip(t *testing.T) {
	a := Agent{Name: "Author", Domain: "b.c", Product: "Something", Pubkey: make([]byte, 32)}
	tree := a.Canonical()
	coerced, err := CoerceAgent(tree)
	require.NoError(t, err)
	assert.Equal(t, a.Name, coerced.Name)
	assert.Equal(t, a.Domain, coerced.Domain)
	assert.Equal(t, a.Product, coerced.Product)
	assert.Equal(t, a.Pubkey, coerced.Pubkey)
}
