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

	"github.com/pjkundert/crypto-licensing/licensing/lerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantEmptyIsAbsent(t *testing.T) {
	g := Grant{}
	assert.True(t, g.IsEmpty())
	assert.Nil(t, g.Canonical())
}

func TestGrantCoerceValid(t *testing.T) {
	raw := map[string]interface{}{
		"some": map[string]interface{}{"capability": float64(1)},
	}
	g, err := CoerceGrant(raw)
	require.NoError(t, err)
	assert.False(t, g.IsEmpty())
	assert.Equal(t, float64(1), g["some"]["capability"])
}

func TestGrantCoerceMalformed(t *testing.T) {
	raw := map[string]interface{}{
		"some": "not an object",
	}
	_, err := CoerceGrant(raw)
	require.Error(t, err)
	var malformed *lerr.GrantMalformed
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, "some", malformed.Key)
}
