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

// Package values implements coercion for the license data model's
// primitive value types (Timestamp, Duration, Timespan, Grant, Agent,
// MachineBinding) per spec §4.2: every constructor accepts the
// serialized string form, the intermediate mapping form, or an
// already-typed value, and is idempotent.
package values

import (
	"fmt"
	"strings"
	"time"

	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// CanonicalTimeLayout is the wire format fixed by §4.1: UTC,
// second precision, explicit "+00:00" offset, no milliseconds.
const CanonicalTimeLayout = "2006-01-02 15:04:05-07:00"

// Timestamp is a UTC instant, truncated to second precision (the
// canonical wire format carries no finer granularity).
type Timestamp struct {
	t time.Time
}

// NewTimestamp truncates t to UTC, second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Second)}
}

// Now returns the current instant as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// Time returns the underlying time.Time, in UTC.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether ts is the zero Timestamp.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Add returns ts shifted by d.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return NewTimestamp(ts.t.Add(d))
}

// Before, After and Equal delegate to the underlying time.Time.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }
func (ts Timestamp) After(other Timestamp) bool  { return ts.t.After(other.t) }
func (ts Timestamp) Equal(other Timestamp) bool  { return ts.t.Equal(other.t) }

// Sub returns the duration ts - other.
func (ts Timestamp) Sub(other Timestamp) time.Duration {
	return ts.t.Sub(other.t)
}

// String renders ts in the canonical wire format.
func (ts Timestamp) String() string {
	return ts.t.Format(CanonicalTimeLayout)
}

// Canonical returns the value placed into the canonical serialization
// tree for this field: the wire-format string.
func (ts Timestamp) Canonical() interface{} {
	return ts.String()
}

// ParseTimestamp parses the canonical wire format, or, leniently,
// RFC 3339 (accepted as an equivalent intermediate form since it
// carries the same information with a different separator/offset
// spelling).
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, &lerr.InvalidField{Field: "timestamp", Detail: "empty"}
	}
	if t, err := time.Parse(CanonicalTimeLayout, s); err == nil {
		return NewTimestamp(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewTimestamp(t), nil
	}
	return Timestamp{}, &lerr.InvalidField{Field: "timestamp", Detail: fmt.Sprintf("cannot parse %q", s)}
}

// CoerceTimestamp accepts a Timestamp, a time.Time, or a string in
// either the canonical or RFC 3339 form, and is idempotent.
func CoerceTimestamp(v interface{}) (Timestamp, error) {
	switch val := v.(type) {
	case Timestamp:
		return val, nil
	case time.Time:
		return NewTimestamp(val), nil
	case string:
		return ParseTimestamp(val)
	case nil:
		return Timestamp{}, nil
	default:
		return Timestamp{}, &lerr.InvalidField{Field: "timestamp", Detail: fmt.Sprintf("unsupported type %T", v)}
	}
}
