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

// Package keys implements the Ed25519 signing primitives used
// throughout the licensing core: key derivation from a fixed 32-byte
// seed, signing, and verification.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// KeypairFromSeed derives the 32-byte verify key and 64-byte sign key
// (seed || vk, the standard Ed25519 concatenation) from a 32-byte
// seed.
func KeypairFromSeed(seed [32]byte) (vk ed25519.PublicKey, sk ed25519.PrivateKey) {
	sk = ed25519.NewKeyFromSeed(seed[:])
	vk = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(vk, sk[32:])
	return vk, sk
}

// Register picks a fresh 32-byte seed from a CSPRNG and derives a
// keypair from it.
func Register() (vk ed25519.PublicKey, sk ed25519.PrivateKey, err error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, nil, fmt.Errorf("keys: unable to read random seed: %w", err)
	}
	vk, sk = KeypairFromSeed(seed)
	return vk, sk, nil
}

// Sign returns the 64-byte Ed25519 signature of message under sk.
func Sign(message []byte, sk ed25519.PrivateKey) []byte {
	return ed25519.Sign(sk, message)
}

// Verify reports whether sig is a valid Ed25519 signature of message
// under vk.
func Verify(sig, message, vk []byte) bool {
	if len(vk) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(vk), message, sig)
}

// ValidateSK checks a possibly 32- or 64-byte secret key against a
// stated verify key: when sk is 64 bytes (seed||vk form), its upper
// half must equal vk exactly. A 32-byte sk is a bare seed and always
// passes (the caller derives vk from it).
func ValidateSK(sk []byte, vk []byte) error {
	switch len(sk) {
	case ed25519.SeedSize:
		return nil
	case ed25519.PrivateKeySize:
		if len(vk) != ed25519.PublicKeySize {
			return &lerr.InvalidField{Field: "sk", Detail: "no vk given to cross-check 64-byte sk against"}
		}
		if !bytes.Equal(sk[32:], vk) {
			return &lerr.InvalidField{Field: "sk", Detail: "upper half does not match stated vk"}
		}
		return nil
	default:
		return &lerr.InvalidField{Field: "sk", Detail: fmt.Sprintf("must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(sk))}
	}
}

// ExpandSK returns the full 64-byte sk and 32-byte vk from either a
// 32-byte seed or an already-expanded 64-byte sk; a 64-byte sk is
// validated against vkHint when vkHint is non-empty.
func ExpandSK(sk []byte, vkHint []byte) (fullSK ed25519.PrivateKey, vk ed25519.PublicKey, err error) {
	switch len(sk) {
	case ed25519.SeedSize:
		var seed [32]byte
		copy(seed[:], sk)
		vk, fullSK = KeypairFromSeed(seed)
		return fullSK, vk, nil
	case ed25519.PrivateKeySize:
		if len(vkHint) == ed25519.PublicKeySize {
			if err := ValidateSK(sk, vkHint); err != nil {
				return nil, nil, err
			}
		}
		fullSK = make(ed25519.PrivateKey, ed25519.PrivateKeySize)
		copy(fullSK, sk)
		vk = make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(vk, fullSK[32:])
		return fullSK, vk, nil
	default:
		return nil, nil, &lerr.InvalidField{Field: "sk", Detail: fmt.Sprintf("must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(sk))}
	}
}
