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

package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypairFromSeedDeterministic(t *testing.T) {
	var seed [32]byte // all-zero, per spec scenario 1
	vk, sk := KeypairFromSeed(seed)

	assert.Equal(t, seed[:], []byte(sk[:32]))
	assert.Len(t, vk, 32)

	vk2, sk2 := KeypairFromSeed(seed)
	assert.Equal(t, vk, vk2)
	assert.Equal(t, sk, sk2)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x42
	vk, sk := KeypairFromSeed(seed)

	msg := []byte("hello licensing")
	sig := Sign(msg, sk)
	assert.True(t, Verify(sig, msg, vk))
	assert.False(t, Verify(sig, []byte("tampered"), vk))
}

func TestRegisterProducesUsableKeypair(t *testing.T) {
	vk, sk, err := Register()
	require.NoError(t, err)
	msg := []byte("registered key works")
	sig := Sign(msg, sk)
	assert.True(t, Verify(sig, msg, vk))
}

func TestValidateSKCrossCheck(t *testing.T) {
	var seed [32]byte
	vk, sk := KeypairFromSeed(seed)
	assert.NoError(t, ValidateSK(sk, vk))

	otherVK, _ := KeypairFromSeed([32]byte{1})
	assert.Error(t, ValidateSK(sk, otherVK))
}

func TestExpandSKFromSeed(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	fullSK, vk, err := ExpandSK(seed[:], nil)
	require.NoError(t, err)
	assert.Len(t, fullSK, 64)
	assert.Len(t, vk, 32)
}
