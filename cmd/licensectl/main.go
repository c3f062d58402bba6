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

// Command licensectl is the CLI front-end over the licensing core: it
// supplies the filesystem discovery stream and the system DNS
// resolver the core consumes at its interface boundary, and otherwise
// contains no verification logic of its own.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pjkundert/crypto-licensing/framework/dns"
	"github.com/pjkundert/crypto-licensing/framework/log"
	"github.com/pjkundert/crypto-licensing/licensing"
	"github.com/pjkundert/crypto-licensing/licensing/resolver"
	"github.com/pjkundert/crypto-licensing/licensing/values"
)

var logger = log.Logger{Name: "licensectl"}

func main() {
	app := &cli.App{
		Name:  "licensectl",
		Usage: "crypto-licensing keypair and license management utility",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Accepted for command-line compatibility; no output is suppressed"},
			&cli.BoolFlag{Name: "disclose-private-key", Aliases: []string{"p"}, Usage: "Include secret key material in output"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Usage: "Write log output to `FILE` instead of stderr"},
			&cli.BoolFlag{Name: "why", Aliases: []string{"w"}, Usage: "Explain every match failure reason"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Basename for keypair/license discovery (default: derived from the working directory)"},
			&cli.StringSliceFlag{Name: "extra", Aliases: []string{"e"}, Usage: "Additional search `PATH` (repeatable)"},
			&cli.BoolFlag{Name: "reverse", Aliases: []string{"r"}, Usage: "Search paths from most general to most specific"},
			&cli.BoolFlag{Name: "registering", Value: true, Usage: "Allow creating a new keypair when none is found"},
			&cli.BoolFlag{Name: "no-registering", Usage: "Fail instead of creating a new keypair when none is found"},
		},
		Before: func(c *cli.Context) error {
			logger.Debug = c.Bool("verbose")
			if path := c.String("log"); path != "" {
				f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				logger.Out = log.WriterOutput(f, true)
			}
			return nil
		},
		Commands: []*cli.Command{
			checkCommand,
			registeredCommand,
			licenseCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "licensectl:", err)
		os.Exit(1)
	}
}

func basenameFlag(c *cli.Context) string {
	if n := c.String("name"); n != "" {
		return n
	}
	wd, err := os.Getwd()
	if err != nil {
		return "license"
	}
	return filepath.Base(wd)
}

func discoveryFromContext(c *cli.Context) *fsDiscovery {
	wd, _ := os.Getwd()
	paths := append([]string{wd}, c.StringSlice("extra")...)
	return newFSDiscovery(paths, c.Bool("reverse"))
}

func configFromContext(c *cli.Context) resolver.Config {
	return resolver.Config{
		Basename:      basenameFlag(c),
		Username:      os.Getenv(resolver.EnvUsername),
		Password:      os.Getenv(resolver.EnvPassword),
		Resolver:      dns.DefaultResolver(),
		ExtraPaths:    c.StringSlice("extra"),
		Reverse:       c.Bool("reverse"),
		AllowRegister: c.Bool("registering") && !c.Bool("no-registering"),
		Log:           logger,
	}
}

func printResults(c *cli.Context, results []resolver.Result, failures []resolver.MatchFailure) {
	disclose := c.Bool("disclose-private-key")
	for _, r := range results {
		fmt.Println(resolver.DescribeKeypair(r.Keypair, disclose))
		if r.License == nil {
			fmt.Println("  no license")
			continue
		}
		data, err := r.License.Bytes()
		if err != nil {
			fmt.Fprintln(os.Stderr, "  error serializing license:", err)
			continue
		}
		fmt.Println("  " + string(data))
	}
	if c.Bool("why") {
		for _, f := range failures {
			fmt.Fprintln(os.Stderr, f.Error())
			for _, reason := range f.Reasons {
				fmt.Fprintln(os.Stderr, "  -", reason)
			}
		}
	}
}

var checkCommand = &cli.Command{
	Name:  "check",
	Usage: "Match existing keypairs to licenses and print the results, without creating a keypair",
	Action: func(c *cli.Context) error {
		disc := discoveryFromContext(c)
		cfg := configFromContext(c)
		results, failures, err := resolver.Check(context.Background(), disc, cfg)
		if err != nil {
			return err
		}
		printResults(c, results, failures)
		return nil
	},
}

var registeredCommand = &cli.Command{
	Name:  "registered",
	Usage: "Find a keypair, creating and persisting one when none exists (unless --no-registering)",
	Action: func(c *cli.Context) error {
		disc := discoveryFromContext(c)
		cfg := configFromContext(c)
		results, failures, err := resolver.Authorize(context.Background(), disc, cfg)
		if err != nil {
			return err
		}
		printResults(c, results, failures)
		return nil
	},
}

var licenseCommand = &cli.Command{
	Name:  "license",
	Usage: "Issue and sign a new license",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "author-name", Usage: "Author's display `NAME`"},
		&cli.StringFlag{Name: "domain", Usage: "Author's DNS `DOMAIN`"},
		&cli.StringFlag{Name: "product", Usage: "Author's `PRODUCT` name (derives the DKIM service label)"},
		&cli.StringFlag{Name: "service", Usage: "Override the derived DKIM `SERVICE` label"},
		&cli.StringFlag{Name: "author-pubkey", Usage: "Author's base64 `PUBKEY` (derived from --seed when omitted)"},
		&cli.StringFlag{Name: "seed", Usage: "base64-encoded 32-byte signing `SEED`"},
		&cli.StringFlag{Name: "client", Usage: "Client's display `NAME`"},
		&cli.StringFlag{Name: "client-domain", Usage: "Client's DNS `DOMAIN`"},
		&cli.StringFlag{Name: "client-pubkey", Usage: "Client's base64 `PUBKEY`"},
		&cli.StringSliceFlag{Name: "dependency", Usage: "`PATH` to a .crypto-license dependency (repeatable)"},
		&cli.StringFlag{Name: "grant", Usage: "Grant, as a `JSON` object of objects"},
		&cli.StringFlag{Name: "machine", Usage: "Bind to machine `UUID`, or \"any\""},
		&cli.StringFlag{Name: "start", Usage: "Timespan start, `RFC3339`"},
		&cli.StringFlag{Name: "length", Usage: "Timespan `LENGTH`, e.g. \"1y\""},
		&cli.BoolFlag{Name: "no-confirm", Usage: "Skip DKIM confirmation of the author's published key"},
	},
	Action: func(c *cli.Context) error {
		author := values.Agent{
			Name:    c.String("author-name"),
			Domain:  c.String("domain"),
			Product: c.String("product"),
			Service: c.String("service"),
		}
		if pk := c.String("author-pubkey"); pk != "" {
			pkBytes, err := decodeBase64(pk)
			if err != nil {
				return fmt.Errorf("decoding --author-pubkey: %w", err)
			}
			author.Pubkey = pkBytes
		}

		var dependencies []licensing.LicenseSigned
		for _, path := range c.StringSlice("dependency") {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading --dependency %s: %w", path, err)
			}
			dep, err := licensing.UnmarshalLicenseSigned(data)
			if err != nil {
				return fmt.Errorf("parsing --dependency %s: %w", path, err)
			}
			dependencies = append(dependencies, dep)
		}

		var sk []byte
		if seedStr := c.String("seed"); seedStr != "" {
			seedBytes, err := decodeBase64(seedStr)
			if err != nil {
				return fmt.Errorf("decoding --seed: %w", err)
			}
			if len(seedBytes) != 32 {
				return fmt.Errorf("--seed must decode to 32 bytes, got %d", len(seedBytes))
			}
			sk = seedBytes
		} else {
			return fmt.Errorf("--seed is required")
		}

		grant := values.Grant{}
		if g := c.String("grant"); g != "" {
			var raw map[string]interface{}
			if err := json.Unmarshal([]byte(g), &raw); err != nil {
				return fmt.Errorf("parsing --grant: %w", err)
			}
			parsed, err := values.CoerceGrant(raw)
			if err != nil {
				return err
			}
			grant = parsed
		}

		machine, err := parseMachineFlag(c.String("machine"))
		if err != nil {
			return err
		}

		timespan, err := parseTimespanFlags(c.String("start"), c.String("length"))
		if err != nil {
			return err
		}

		hasClient := c.String("client") != "" || c.String("client-domain") != "" || c.String("client-pubkey") != ""
		var client values.Agent
		if hasClient {
			client.Name = c.String("client")
			client.Domain = c.String("client-domain")
			if pk := c.String("client-pubkey"); pk != "" {
				pkBytes, err := decodeBase64(pk)
				if err != nil {
					return fmt.Errorf("decoding --client-pubkey: %w", err)
				}
				client.Pubkey = pkBytes
			}
		}

		confirm := !c.Bool("no-confirm")
		draft, _, err := licensing.NewLicense(licensing.NewLicenseOptions{
			Author:       author,
			Client:       client,
			HasClient:    hasClient,
			Dependencies: dependencies,
			Machine:      machine,
			Timespan:     timespan,
			Grant:        grant,
			Verify: licensing.VerifyOptions{
				Resolver: dns.DefaultResolver(),
				Confirm:  &confirm,
			},
		})
		if err != nil {
			return err
		}

		signed, err := licensing.Sign(draft, sk)
		if err != nil {
			return err
		}

		data, err := signed.Bytes()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func parseMachineFlag(s string) (values.MachineBinding, error) {
	if s == "" {
		return values.UnsetMachineBinding(), nil
	}
	if s == "any" || s == "true" {
		return values.AnyMachineBinding(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return values.MachineBinding{}, fmt.Errorf("parsing --machine: %w", err)
	}
	return values.BoundMachineBinding(id), nil
}

func parseTimespanFlags(start, length string) (values.Timespan, error) {
	if start == "" && length == "" {
		return values.Timespan{}, nil
	}
	var startPtr *values.Timestamp
	if start != "" {
		ts, err := values.ParseTimestamp(start)
		if err != nil {
			return values.Timespan{}, fmt.Errorf("parsing --start: %w", err)
		}
		startPtr = &ts
	}
	var lengthPtr *values.Duration
	if length != "" {
		d, err := values.ParseDuration(length)
		if err != nil {
			return values.Timespan{}, fmt.Errorf("parsing --length: %w", err)
		}
		lengthPtr = &d
	}
	return values.NewTimespan(startPtr, lengthPtr)
}
