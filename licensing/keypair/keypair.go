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

// Package keypair implements the at-rest containers for an Ed25519
// signing keypair: a plaintext form for trusted storage, and a
// ChaCha20-Poly1305-encrypted form keyed by a username/password pair.
// Decrypted seed material is held in a memguard.LockedBuffer and wiped
// as soon as the caller is done with it.
package keypair

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/pjkundert/crypto-licensing/licensing/keys"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

func readRandom(b []byte) (int, error) { return rand.Read(b) }

// Plaintext is the unencrypted on-disk keypair container: {sk: base64
// (64-byte seed||vk), vk: base64 (32-byte, may be omitted when sk is
// 64 bytes)}.
type Plaintext struct {
	SK string `json:"sk"`
	VK string `json:"vk,omitempty"`
}

// NewPlaintext builds a Plaintext container from a keypair.
func NewPlaintext(vk, sk []byte) Plaintext {
	return Plaintext{
		SK: base64.StdEncoding.EncodeToString(sk),
		VK: base64.StdEncoding.EncodeToString(vk),
	}
}

// Keypair decodes and cross-checks the container, returning the
// expanded 64-byte sk and 32-byte vk.
func (p Plaintext) Keypair() (vk, sk []byte, err error) {
	skBytes, err := base64.StdEncoding.DecodeString(p.SK)
	if err != nil {
		return nil, nil, &lerr.InvalidField{Field: "sk", Detail: "invalid base64"}
	}
	var vkHint []byte
	if p.VK != "" {
		vkHint, err = base64.StdEncoding.DecodeString(p.VK)
		if err != nil {
			return nil, nil, &lerr.InvalidField{Field: "vk", Detail: "invalid base64"}
		}
	}
	fullSK, derivedVK, err := keys.ExpandSK(skBytes, vkHint)
	if err != nil {
		return nil, nil, err
	}
	return derivedVK, fullSK, nil
}

// Encrypted is the password-protected on-disk keypair container:
// {salt: hex(12), ciphertext: hex(48)}. The symmetric key is
// sha256(salt || lower(username) || password); the nonce is the salt
// itself; the 32-byte seed is sealed with ChaCha20-Poly1305, producing
// 48 bytes laid out as ciphertext(32) || tag(16).
type Encrypted struct {
	Salt       string `json:"salt"`
	Ciphertext string `json:"ciphertext"`
}

func deriveKey(salt []byte, username, password string) [32]byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(strings.ToLower(username)))
	h.Write([]byte(password))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Seal encrypts a 32-byte seed under username/password, generating a
// fresh random salt (reused as the AEAD nonce). A fresh salt for every
// call keeps the (key, nonce) pair unique even when the same
// credentials are reused across many keypairs, satisfying
// ChaCha20-Poly1305's single-use nonce requirement.
func Seal(seed [32]byte, username, password string) (Encrypted, error) {
	salt := make([]byte, chacha20poly1305.NonceSize)
	if _, err := readRandom(salt); err != nil {
		return Encrypted{}, err
	}
	return sealWithSalt(seed, salt, username, password)
}

func sealWithSalt(seed [32]byte, salt []byte, username, password string) (Encrypted, error) {
	key := deriveKey(salt, username, password)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return Encrypted{}, err
	}
	ciphertext := aead.Seal(nil, salt, seed[:], nil)
	return Encrypted{
		Salt:       hex.EncodeToString(salt),
		Ciphertext: hex.EncodeToString(ciphertext),
	}, nil
}

// Open decrypts e under username/password, returning the 32-byte seed
// in a locked buffer that the caller must Destroy once it has derived
// whatever it needs (typically an Ed25519 keypair). Any authentication
// failure is reported as *lerr.KeypairCredentialError, never a schema
// error, since the container's shape was already known to be correct.
func (e Encrypted) Open(username, password string) (*memguard.LockedBuffer, error) {
	salt, err := hex.DecodeString(e.Salt)
	if err != nil {
		return nil, &lerr.InvalidField{Field: "salt", Detail: "invalid hex"}
	}
	ciphertext, err := hex.DecodeString(e.Ciphertext)
	if err != nil {
		return nil, &lerr.InvalidField{Field: "ciphertext", Detail: "invalid hex"}
	}
	if len(salt) != chacha20poly1305.NonceSize {
		return nil, &lerr.InvalidField{Field: "salt", Detail: "must be 12 bytes"}
	}

	key := deriveKey(salt, username, password)
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, salt, ciphertext, nil)
	if err != nil {
		return nil, &lerr.KeypairCredentialError{}
	}
	// NewBufferFromBytes copies plain into locked, guarded memory and
	// wipes the source slice itself.
	return memguard.NewBufferFromBytes(plain), nil
}

// KeypairFromSeed derives the Ed25519 keypair from a seed held in a
// locked buffer, and destroys the buffer once done.
func KeypairFromSeed(buf *memguard.LockedBuffer) (vk, sk []byte, err error) {
	defer buf.Destroy()
	if buf.Size() != 32 {
		return nil, nil, &lerr.InvalidField{Field: "seed", Detail: "must be 32 bytes"}
	}
	var seed [32]byte
	copy(seed[:], buf.Bytes())
	vkOut, skOut := keys.KeypairFromSeed(seed)
	return vkOut, skOut, nil
}

// encoding/json round-trips Encrypted/Plaintext directly via the
// struct tags above; ToJSON and the *FromJSON functions are provided
// as narrow helpers matching the rest of this package's byte-oriented
// API.

func (p Plaintext) ToJSON() ([]byte, error) { return json.Marshal(p) }
func (e Encrypted) ToJSON() ([]byte, error) { return json.Marshal(e) }

func PlaintextFromJSON(data []byte) (Plaintext, error) {
	var p Plaintext
	if err := json.Unmarshal(data, &p); err != nil {
		return Plaintext{}, &lerr.InvalidField{Field: "keypair", Detail: "malformed plaintext JSON"}
	}
	return p, nil
}

func EncryptedFromJSON(data []byte) (Encrypted, error) {
	var e Encrypted
	if err := json.Unmarshal(data, &e); err != nil {
		return Encrypted{}, &lerr.InvalidField{Field: "keypair", Detail: "malformed encrypted JSON"}
	}
	return e, nil
}
