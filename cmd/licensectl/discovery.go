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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pjkundert/crypto-licensing/licensing/resolver"
)

// keypairGlob and licenseGlob are the discovery patterns; canonical
// extensions (used for creation) are narrower than what's matched here.
const (
	keypairGlob      = "crypto-key*"
	licenseGlob      = "crypto-lic*"
	keypairExtension = ".crypto-keypair"
	licenseExtension = ".crypto-license"
)

// fsDiscovery implements resolver.Discovery over a fixed, ordered list
// of directories: the working directory + extraPaths, optionally reversed so the
// most general location is tried first on reads (and, inverted again,
// last on writes).
type fsDiscovery struct {
	dirs    []string
	reverse bool
}

func newFSDiscovery(searchPaths []string, reverse bool) *fsDiscovery {
	dirs := append([]string{}, searchPaths...)
	if reverse {
		for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
			dirs[i], dirs[j] = dirs[j], dirs[i]
		}
	}
	return &fsDiscovery{dirs: dirs, reverse: reverse}
}

func (d *fsDiscovery) find(basename, glob string) ([]resolver.Candidate, error) {
	var out []resolver.Candidate
	for _, dir := range d.dirs {
		matches, err := filepath.Glob(filepath.Join(dir, basename+"."+glob))
		if err != nil {
			return nil, fmt.Errorf("globbing %s in %s: %w", glob, dir, err)
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			out = append(out, resolver.Candidate{Origin: path, Data: data})
		}
	}
	return out, nil
}

func (d *fsDiscovery) Keypairs(basename string) ([]resolver.Candidate, error) {
	return d.find(basename, keypairGlob)
}

func (d *fsDiscovery) Licenses(basename string) ([]resolver.Candidate, error) {
	return d.find(basename, licenseGlob)
}

// Persist writes to the first directory in the (un-reversed) write
// order, defaulting to the inverse of the read order: most-general
// location first, per §4.7. The write is atomic: a temp file in the
// same directory, fsynced, then renamed over the final path.
func (d *fsDiscovery) Persist(suggestedOrigin string, data []byte) (string, error) {
	writeDirs := append([]string{}, d.dirs...)
	for i, j := 0, len(writeDirs)-1; i < j; i, j = i+1, j-1 {
		writeDirs[i], writeDirs[j] = writeDirs[j], writeDirs[i]
	}
	if len(writeDirs) == 0 {
		writeDirs = []string{"."}
	}
	path := filepath.Join(writeDirs[0], filepath.Base(suggestedOrigin))

	tmp, err := os.CreateTemp(writeDirs[0], filepath.Base(suggestedOrigin)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed away

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return "", fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return path, nil
}
