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
	"github.com/pjkundert/crypto-licensing/licensing/lerr"
)

// Timespan is a validity window: an optional start and an optional
// non-negative length. An absent start means "perpetual from the
// beginning of time"; an absent length means "no upper bound". A
// Timespan with neither set is the two-sided identity for Intersect.
type Timespan struct {
	Start    Timestamp
	HasStart bool
	Length   Duration
	HasLength bool
}

// NewTimespan constructs a Timespan. Supplying a length without a
// start is a constructor-time error per §3's invariant.
func NewTimespan(start *Timestamp, length *Duration) (Timespan, error) {
	ts := Timespan{}
	if start != nil {
		ts.Start = *start
		ts.HasStart = true
	}
	if length != nil {
		ts.Length = *length
		ts.HasLength = true
	}
	if ts.HasLength && !ts.HasStart {
		return Timespan{}, &lerr.InvalidField{Field: "timespan.length", Detail: "length without start is invalid"}
	}
	return ts, nil
}

// IsEmpty reports whether neither start nor length is set (serializes
// as absent).
func (t Timespan) IsEmpty() bool {
	return !t.HasStart && !t.HasLength
}

// end returns the end instant and whether it is bounded.
func (t Timespan) end() (Timestamp, bool) {
	if !t.HasStart || !t.HasLength {
		return Timestamp{}, false
	}
	return t.Start.Add(t.Length.Duration()), true
}

// Intersect computes the overlap of t and other per §4.5: begun is the
// later of the two starts (an absent start loses to any present one);
// ended is the earlier of the two ends (an absent end loses to any
// present one). Intersection is commutative and associative, and the
// empty (both-absent) Timespan is a two-sided identity. A zero-length
// or negative result (ended <= begun, when both are bounded and
// nonempty on input) is IncompatibleTimespan.
func (t Timespan) Intersect(other Timespan) (Timespan, error) {
	if t.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return t, nil
	}

	var begun Timestamp
	hasBegun := t.HasStart || other.HasStart
	switch {
	case t.HasStart && other.HasStart:
		if t.Start.After(other.Start) {
			begun = t.Start
		} else {
			begun = other.Start
		}
	case t.HasStart:
		begun = t.Start
	case other.HasStart:
		begun = other.Start
	}

	tEnd, tBounded := t.end()
	oEnd, oBounded := other.end()

	var ended Timestamp
	hasEnded := tBounded || oBounded
	switch {
	case tBounded && oBounded:
		if tEnd.Before(oEnd) {
			ended = tEnd
		} else {
			ended = oEnd
		}
	case tBounded:
		ended = tEnd
	case oBounded:
		ended = oEnd
	}

	if hasBegun && hasEnded && !ended.After(begun) {
		return Timespan{}, &lerr.IncompatibleTimespan{Detail: "overlap is empty or negative"}
	}

	result := Timespan{}
	if hasBegun {
		result.Start = begun
		result.HasStart = true
	}
	if hasEnded {
		result.Length = NewDuration(ended.Sub(begun))
		result.HasLength = true
	}
	return result, nil
}

// Canonical returns the value placed into the canonical serialization
// tree: a map with only the present fields, or nil when empty (the
// wire format omits an empty Timespan entirely).
func (t Timespan) Canonical() interface{} {
	if t.IsEmpty() {
		return nil
	}
	m := map[string]interface{}{}
	if t.HasStart {
		m["start"] = t.Start.Canonical()
	}
	if t.HasLength {
		m["length"] = t.Length.Canonical()
	}
	return m
}

// CoerceTimespan accepts a Timespan, a map with optional "start"/
// "length" keys, or nil, and is idempotent.
func CoerceTimespan(v interface{}) (Timespan, error) {
	switch val := v.(type) {
	case Timespan:
		return val, nil
	case nil:
		return Timespan{}, nil
	case map[string]interface{}:
		var startPtr *Timestamp
		var lengthPtr *Duration
		if raw, ok := val["start"]; ok && raw != nil {
			st, err := CoerceTimestamp(raw)
			if err != nil {
				return Timespan{}, err
			}
			startPtr = &st
		}
		if raw, ok := val["length"]; ok && raw != nil {
			d, err := CoerceDuration(raw)
			if err != nil {
				return Timespan{}, err
			}
			lengthPtr = &d
		}
		return NewTimespan(startPtr, lengthPtr)
	default:
		return Timespan{}, &lerr.InvalidField{Field: "timespan", Detail: "unsupported representation"}
	}
}
