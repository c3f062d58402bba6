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

package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjkundert/crypto-licensing/framework/log"
	"github.com/pjkundert/crypto-licensing/licensing"
	"github.com/pjkundert/crypto-licensing/licensing/keypair"
	"github.com/pjkundert/crypto-licensing/licensing/keys"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// fakeDiscovery is an in-memory Discovery used to exercise Check and
// Authorize without touching the filesystem or DNS.
type fakeDiscovery struct {
	keypairs []Candidate
	licenses []Candidate
	persisted []Candidate
}

func (f *fakeDiscovery) Keypairs(basename string) ([]Candidate, error) { return f.keypairs, nil }
func (f *fakeDiscovery) Licenses(basename string) ([]Candidate, error) { return f.licenses, nil }
func (f *fakeDiscovery) Persist(suggestedOrigin string, data []byte) (string, error) {
	f.persisted = append(f.persisted, Candidate{Origin: suggestedOrigin, Data: data})
	f.keypairs = append(f.keypairs, Candidate{Origin: suggestedOrigin, Data: data})
	return suggestedOrigin, nil
}

func falseConfirm() *bool { f := false; return &f }

// TestCheckIssuesSubLicense exercises spec §8 scenario 6: a client
// holding only a keypair (no client named on the parent license) asks
// Check to resolve a license; since no license is already issued
// directly to them, Check issues exactly one new sub-license, naming
// the parent as its sole dependency and the keypair as its author.
func TestCheckIssuesSubLicense(t *testing.T) {
	var parentSeed [32]byte
	parentSeed[0] = 1
	parentVK, parentSK := keys.KeypairFromSeed(parentSeed)

	parentLic, _, err := licensing.NewLicense(licensing.NewLicenseOptions{
		Author: values.Agent{Name: "Parent", Pubkey: parentVK},
		Grant:  values.Grant{"capability": {"enabled": true}},
		Verify: licensing.VerifyOptions{Confirm: falseConfirm()},
	})
	require.NoError(t, err)
	parentSigned, err := licensing.Sign(parentLic, parentSK)
	require.NoError(t, err)
	parentData, err := parentSigned.Bytes()
	require.NoError(t, err)

	var clientSeed [32]byte
	clientSeed[0] = 2
	clientVK, clientSK := keys.KeypairFromSeed(clientSeed)
	plain := keypair.NewPlaintext(clientVK, clientSK)
	kpData, err := plain.ToJSON()
	require.NoError(t, err)

	disc := &fakeDiscovery{
		keypairs: []Candidate{{Origin: "client.crypto-keypair", Data: kpData}},
		licenses: []Candidate{{Origin: "parent.crypto-license", Data: parentData}},
	}

	results, failures, err := Check(context.Background(), disc, Config{
		Basename: "app",
		Confirm:  falseConfirm(),
		Log:      log.Logger{Name: "test"},
	})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, results, 1)

	got := results[0]
	require.NotNil(t, got.License)
	assert.Equal(t, clientVK, []byte(got.Keypair.VK))
	assert.Equal(t, clientVK, []byte(got.License.License.Author.Pubkey))
	require.Len(t, got.License.License.Dependencies, 1)
	assert.Equal(t, parentSigned.Signature, got.License.License.Dependencies[0].Signature)

	_, err = got.License.Verify(context.Background(), licensing.VerifyOptions{Confirm: falseConfirm()})
	assert.NoError(t, err)
}

// TestCheckMatchesExistingSubLicense covers the "already sub-licensed"
// branch: a license already names the keypair as its author.
func TestCheckMatchesExistingSubLicense(t *testing.T) {
	var seed [32]byte
	seed[0] = 5
	vk, sk := keys.KeypairFromSeed(seed)

	lic, _, err := licensing.NewLicense(licensing.NewLicenseOptions{
		Author: values.Agent{Name: "Self", Pubkey: vk},
		Verify: licensing.VerifyOptions{Confirm: falseConfirm()},
	})
	require.NoError(t, err)
	signed, err := licensing.Sign(lic, sk)
	require.NoError(t, err)
	data, err := signed.Bytes()
	require.NoError(t, err)

	plain := keypair.NewPlaintext(vk, sk)
	kpData, err := plain.ToJSON()
	require.NoError(t, err)

	disc := &fakeDiscovery{
		keypairs: []Candidate{{Origin: "self.crypto-keypair", Data: kpData}},
		licenses: []Candidate{{Origin: "self.crypto-license", Data: data}},
	}

	results, failures, err := Check(context.Background(), disc, Config{
		Basename: "app",
		Confirm:  falseConfirm(),
		Log:      log.Logger{Name: "test"},
	})
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, results, 1)
	assert.Equal(t, signed.Signature, results[0].License.Signature)
}

// TestAuthorizeRegistersWhenNoneFound covers the case where Check
// finds zero keypairs; Authorize should create and persist one, then
// succeed (with no matched license -- simply surfaced as a failure).
func TestAuthorizeRegistersWhenNoneFound(t *testing.T) {
	disc := &fakeDiscovery{}

	results, _, err := Authorize(context.Background(), disc, Config{
		Basename:      "app",
		Confirm:       falseConfirm(),
		AllowRegister: true,
		Log:           log.Logger{Name: "test"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, disc.persisted, 1)
	assert.Nil(t, results[0].License)
}

// TestAuthorizeFailsFastWhenRegisteringDisabled covers the
// no-keypair-found, registering-disabled case.
func TestAuthorizeFailsFastWhenRegisteringDisabled(t *testing.T) {
	disc := &fakeDiscovery{}

	_, _, err := Authorize(context.Background(), disc, Config{
		Basename:      "app",
		Confirm:       falseConfirm(),
		AllowRegister: false,
		Log:           log.Logger{Name: "test"},
	})
	require.Error(t, err)
}
