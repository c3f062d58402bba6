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
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pjkundert/crypto-licensing/framework/dns"
	"github.com/pjkundert/crypto-licensing/framework/log"
	"github.com/pjkundert/crypto-licensing/licensing"
	"github.com/pjkundert/crypto-licensing/licensing/keypair"
	"github.com/pjkundert/crypto-licensing/licensing/keys"
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

// EnvUsername and EnvPassword name the environment variables check's
// callers conventionally source credentials from when none are
// supplied directly; this package never reads the environment itself
// -- that belongs to the CLI front-end.
const (
	EnvUsername = "ENVUSERNAME"
	EnvPassword = "ENVPASSWORD"
)

// Keypair is a resolved Ed25519 keypair plus the origin it was loaded
// from (or, for a freshly authorized keypair, persisted to).
type Keypair struct {
	Origin string
	VK     []byte
	SK     []byte // 64-byte expanded sk||vk
}

// DescribeKeypair renders a keypair for diagnostic/CLI display;
// discloseKey controls whether the secret key is included.
func DescribeKeypair(kp Keypair, discloseKey bool) string {
	if discloseKey {
		return fmt.Sprintf("%s: vk=%s sk=%s", kp.Origin, base64.StdEncoding.EncodeToString(kp.VK), base64.StdEncoding.EncodeToString(kp.SK))
	}
	return fmt.Sprintf("%s: vk=%s", kp.Origin, base64.StdEncoding.EncodeToString(kp.VK))
}

// MatchFailure reports that no candidate license could be matched (as
// an already-held sub-license) or extended (as a fresh sub-license)
// for a given keypair.
type MatchFailure struct {
	Keypair Keypair
	Reasons []error
}

func (m *MatchFailure) Error() string {
	return fmt.Sprintf("%s: no license matched or could be sub-licensed (%d candidate(s) tried)", m.Keypair.Origin, len(m.Reasons))
}

// Config parameterizes a Check/Authorize call. It is passed explicitly
// by the caller rather than stashed on shared mutable state.
type Config struct {
	Basename string
	Username string
	Password string

	Confirm           *bool
	Resolver          dns.Resolver
	MachineSuppressed bool
	MachineUUID       uuid.UUID
	Constraints       licensing.Constraints

	// Grant, when non-empty, overrides the parent license's grant on
	// any newly issued sub-license; otherwise the parent's grant is
	// carried forward unchanged.
	Grant values.Grant

	ExtraPaths []string
	Reverse    bool

	// AllowRegister permits Authorize to create and persist a new
	// keypair when Check finds none; when false, Authorize fails fast
	// with NoKeypairAndRegisteringDisabled instead.
	AllowRegister bool

	Log log.Logger
}

// Result pairs a resolved keypair with the license it matched or was
// newly sub-licensed under; License is nil when every candidate
// failed (the reasons are carried by the corresponding MatchFailure).
type Result struct {
	Keypair Keypair
	License *licensing.LicenseSigned
}

func schemaLooksEncrypted(m map[string]interface{}) bool {
	_, hasSalt := m["salt"]
	_, hasCT := m["ciphertext"]
	return hasSalt && hasCT
}

func schemaLooksPlaintext(m map[string]interface{}) bool {
	_, hasSK := m["sk"]
	return hasSK
}

// loadKeypairs iterates the discovery stream's keypair candidates,
// decoding each as Encrypted or Plaintext per its field shape, and
// dedupes by public key.
func loadKeypairs(cfg Config, candidates []Candidate) ([]Keypair, []error) {
	var out []Keypair
	var errs []error
	seen := map[string]bool{}

	for _, c := range candidates {
		var shape map[string]interface{}
		if err := json.Unmarshal(c.Data, &shape); err != nil {
			errs = append(errs, fmt.Errorf("%s: malformed JSON: %w", c.Origin, err))
			continue
		}

		var vk, sk []byte
		switch {
		case schemaLooksEncrypted(shape):
			enc, err := keypair.EncryptedFromJSON(c.Data)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
				continue
			}
			buf, err := enc.Open(cfg.Username, cfg.Password)
			if err != nil {
				// Credentials were wrong for a correctly-shaped
				// encrypted container: do not fall through to
				// plaintext parsing.
				errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
				continue
			}
			vk, sk, err = keypair.KeypairFromSeed(buf)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
				continue
			}
		case schemaLooksPlaintext(shape):
			plain, err := keypair.PlaintextFromJSON(c.Data)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
				continue
			}
			vk, sk, err = plain.Keypair()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
				continue
			}
		default:
			errs = append(errs, fmt.Errorf("%s: %w", c.Origin, &lerr.InvalidField{Field: "keypair", Detail: "neither encrypted nor plaintext schema recognized"}))
			continue
		}

		key := base64.StdEncoding.EncodeToString(vk)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Keypair{Origin: c.Origin, VK: vk, SK: sk})
	}
	return out, errs
}

// loadLicenses parses each license candidate to a verified
// LicenseSigned; parse/verify failures are reported as errors but do
// not abort the remaining candidates.
func loadLicenses(ctx context.Context, cfg Config, candidates []Candidate) ([]licensing.LicenseSigned, []error) {
	var out []licensing.LicenseSigned
	var errs []error
	for _, c := range candidates {
		ls, err := licensing.UnmarshalLicenseSigned(c.Data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
			continue
		}
		if _, err := ls.Verify(ctx, licensing.VerifyOptions{
			Resolver:          cfg.Resolver,
			Confirm:           cfg.Confirm,
			MachineSuppressed: cfg.MachineSuppressed,
			MachineUUID:       cfg.MachineUUID,
		}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Origin, err))
			continue
		}
		out = append(out, ls)
	}
	return out, errs
}

// Check matches every unique discovered keypair against every
// discovered license per §4.7: first attempting "already
// sub-licensed", then "issue a new sub-license". It returns one
// Result per unique keypair (with a nil License for a keypair that
// exhausted every candidate), and one MatchFailure per such keypair.
func Check(ctx context.Context, disc Discovery, cfg Config) ([]Result, []MatchFailure, error) {
	kpCandidates, err := disc.Keypairs(cfg.Basename)
	if err != nil {
		return nil, nil, fmt.Errorf("resolver: discovering keypairs: %w", err)
	}
	keypairs, kpErrs := loadKeypairs(cfg, kpCandidates)
	for _, e := range kpErrs {
		cfg.Log.Debugf("keypair load: %v", e)
	}

	licCandidates, err := disc.Licenses(cfg.Basename)
	if err != nil {
		return nil, nil, fmt.Errorf("resolver: discovering licenses: %w", err)
	}
	licenses, licErrs := loadLicenses(ctx, cfg, licCandidates)
	for _, e := range licErrs {
		cfg.Log.Debugf("license load: %v", e)
	}

	var results []Result
	var failures []MatchFailure

	for _, kp := range keypairs {
		var reasons []error
		matched := false

		for _, ls := range licenses {
			// (a) Already sub-licensed directly to us?
			if _, err := ls.Verify(ctx, licensing.VerifyOptions{
				Resolver:          cfg.Resolver,
				AuthorPubkey:      kp.VK,
				Confirm:           cfg.Confirm,
				MachineSuppressed: cfg.MachineSuppressed,
				MachineUUID:       cfg.MachineUUID,
				Constraints:       cfg.Constraints,
			}); err == nil {
				lsCopy := ls
				results = append(results, Result{Keypair: kp, License: &lsCopy})
				matched = true
				break
			}

			// (b) Issue a new sub-license against this license as a
			// dependency.
			constraints, err := ls.Verify(ctx, licensing.VerifyOptions{
				Resolver:          cfg.Resolver,
				Confirm:           cfg.Confirm,
				Dependencies:      true,
				MachineSuppressed: cfg.MachineSuppressed,
				MachineUUID:       cfg.MachineUUID,
				Constraints:       cfg.Constraints,
			})
			if err != nil {
				reasons = append(reasons, fmt.Errorf("%s: %w", ls.License.Author.Name, err))
				continue
			}

			client := values.Agent{Pubkey: kp.VK}
			if ls.License.HasClient {
				client = ls.License.Client
			}

			grant := cfg.Grant
			if grant.IsEmpty() {
				grant = ls.License.Grant
			}

			draft, _, err := licensing.NewLicense(licensing.NewLicenseOptions{
				Author:       values.Agent{Pubkey: kp.VK},
				Client:       client,
				HasClient:    true,
				Dependencies: constraints.Dependencies,
				Machine:      constraints.Machine,
				Timespan:     constraints.Timespan,
				Grant:        grant,
				Verify: licensing.VerifyOptions{
					Resolver:          cfg.Resolver,
					Confirm:           boolPtr(false),
					MachineSuppressed: cfg.MachineSuppressed,
					MachineUUID:       cfg.MachineUUID,
				},
			})
			if err != nil {
				reasons = append(reasons, fmt.Errorf("%s: composing sub-license: %w", ls.License.Author.Name, err))
				continue
			}

			signed, err := licensing.Sign(draft, kp.SK)
			if err != nil {
				reasons = append(reasons, fmt.Errorf("%s: signing sub-license: %w", ls.License.Author.Name, err))
				continue
			}

			results = append(results, Result{Keypair: kp, License: &signed})
			matched = true
			break
		}

		if !matched {
			failures = append(failures, MatchFailure{Keypair: kp, Reasons: reasons})
			results = append(results, Result{Keypair: kp, License: nil})
		}
	}

	return results, failures, nil
}

func boolPtr(b bool) *bool { return &b }

// Authorize wraps Check: if Check finds no keypair at all, it creates
// one (encrypted when Username and Password are both set, plaintext
// otherwise), persists it via disc.Persist, and re-runs Check.
func Authorize(ctx context.Context, disc Discovery, cfg Config) ([]Result, []MatchFailure, error) {
	results, failures, err := Check(ctx, disc, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(results) > 0 {
		return results, failures, nil
	}

	if !cfg.AllowRegister {
		return nil, nil, &lerr.NoKeypairAndRegisteringDisabled{Basename: cfg.Basename}
	}

	vk, sk, err := keys.Register()
	if err != nil {
		return nil, nil, fmt.Errorf("resolver: generating keypair: %w", err)
	}

	var seed [32]byte
	copy(seed[:], sk[:32])

	var payload []byte
	var suggested string
	if cfg.Username != "" && cfg.Password != "" {
		enc, err := keypair.Seal(seed, cfg.Username, cfg.Password)
		if err != nil {
			return nil, nil, fmt.Errorf("resolver: encrypting keypair: %w", err)
		}
		payload, err = enc.ToJSON()
		if err != nil {
			return nil, nil, fmt.Errorf("resolver: serializing keypair: %w", err)
		}
		suggested = cfg.Basename + ".crypto-keypair"
	} else {
		plain := keypair.NewPlaintext(vk, sk)
		payload, err = plain.ToJSON()
		if err != nil {
			return nil, nil, fmt.Errorf("resolver: serializing keypair: %w", err)
		}
		suggested = cfg.Basename + ".crypto-keypair"
	}

	if _, err := disc.Persist(suggested, payload); err != nil {
		return nil, nil, fmt.Errorf("resolver: persisting new keypair: %w", err)
	}

	return Check(ctx, disc, cfg)
}
