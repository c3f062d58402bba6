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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// Duration wraps time.Duration with the human-friendly canonical
// rendering required by §4.1 ("1y", "30d", ...).
//
// The decomposition used for rendering is approximate for the longer
// units (1y = 365d, 1mo = 30d, 1w = 7d) since a Duration, unlike a
// calendar span, carries no anchor date to measure exact months or
// years against. It is exact for d/h/m/s. Round-tripping through
// String/ParseDuration recovers the identical time.Duration for any
// whole number of seconds; String drops a sub-second remainder.
type Duration struct {
	d time.Duration
}

func NewDuration(d time.Duration) Duration { return Duration{d: d} }

func (d Duration) Duration() time.Duration { return d.d }
func (d Duration) IsZero() bool            { return d.d == 0 }

type durationUnit struct {
	suffix string
	length time.Duration
}

var durationUnits = []durationUnit{
	{"y", 365 * 24 * time.Hour},
	{"mo", 30 * 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// String renders d as a greedy, largest-unit-first breakdown, e.g.
// "1y, 7mo" or "30d". A zero duration renders as "0s".
func (d Duration) String() string {
	remaining := d.d
	if remaining == 0 {
		return "0s"
	}
	neg := remaining < 0
	if neg {
		remaining = -remaining
	}

	var parts []string
	for _, u := range durationUnits {
		if remaining < u.length {
			continue
		}
		n := remaining / u.length
		remaining -= n * u.length
		parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
	}
	out := strings.Join(parts, ", ")
	if neg {
		out = "-" + out
	}
	return out
}

// Canonical returns the value placed into the canonical serialization
// tree for this field: the human-friendly string form.
func (d Duration) Canonical() interface{} {
	return d.String()
}

// ParseDuration accepts the canonical human-friendly form ("1y, 7mo"),
// a bare numeric string of seconds ("12345"), or anything
// time.ParseDuration already understands ("1h30m").
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, &lerr.InvalidField{Field: "duration", Detail: "empty"}
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		total := time.Duration(secs * float64(time.Second))
		if neg {
			total = -total
		}
		return Duration{d: total}, nil
	}

	if std, err := time.ParseDuration(s); err == nil {
		if neg {
			std = -std
		}
		return Duration{d: std}, nil
	}

	var total time.Duration
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		unit, ok := matchUnit(token)
		if !ok {
			return Duration{}, &lerr.InvalidField{Field: "duration", Detail: fmt.Sprintf("cannot parse component %q of %q", token, s)}
		}
		numStr := strings.TrimSuffix(token, unit.suffix)
		n, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return Duration{}, &lerr.InvalidField{Field: "duration", Detail: fmt.Sprintf("cannot parse quantity in %q", token)}
		}
		total += time.Duration(n * float64(unit.length))
	}
	if neg {
		total = -total
	}
	return Duration{d: total}, nil
}

// matchUnit finds the longest matching suffix (so "mo" is tried before
// "m", and "mo"/"m" before an ambiguous bare "s").
func matchUnit(token string) (durationUnit, bool) {
	var best durationUnit
	found := false
	for _, u := range durationUnits {
		if strings.HasSuffix(token, u.suffix) {
			if !found || len(u.suffix) > len(best.suffix) {
				best = u
				found = true
			}
		}
	}
	return best, found
}

// CoerceDuration accepts a Duration, a time.Duration, a numeric
// seconds value, or a string in the canonical/flexible forms above,
// and is idempotent.
func CoerceDuration(v interface{}) (Duration, error) {
	switch val := v.(type) {
	case Duration:
		return val, nil
	case time.Duration:
		return Duration{d: val}, nil
	case float64:
		return Duration{d: time.Duration(val * float64(time.Second))}, nil
	case int:
		return Duration{d: time.Duration(val) * time.Second}, nil
	case int64:
		return Duration{d: time.Duration(val) * time.Second}, nil
	case string:
		return ParseDuration(val)
	case nil:
		return Duration{}, nil
	default:
		return Duration{}, &lerr.InvalidField{Field: "duration", Detail: fmt.Sprintf("unsupported type %T", v)}
	}
}
