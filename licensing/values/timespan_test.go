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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTimespan(t *testing.T, start time.Time, length time.Duration) Timespan {
	t.Helper()
	st := NewTimestamp(start)
	d := NewDuration(length)
	ts, err := NewTimespan(&st, &d)
	require.NoError(t, err)
	return ts
}

// TestTimespanOverlapBoundary covers spec scenario 4: License A starts
// 2020-01-01Z for 2 years, License B starts 2021-06-01Z for 2 years.
// Their overlap begins at B's start (the later of the two) and ends
// at A's end (the earlier of the two), asserted against the computed
// instants rather than a humanized duration string.
func TestTimespanOverlapBoundary(t *testing.T) {
	a := mustTimespan(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2*365*24*time.Hour)
	b := mustTimespan(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), 2*365*24*time.Hour)

	overlap, err := a.Intersect(b)
	require.NoError(t, err)
	require.True(t, overlap.HasStart)
	require.True(t, overlap.HasLength)

	wantStart := NewTimestamp(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	// A's end is 2*365 days after 2020-01-01; 2020 is a leap year, so
	// that lands on 2021-12-31, not 2022-01-01.
	wantEnd := NewTimestamp(time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC))

	assert.True(t, overlap.Start.Equal(wantStart))
	gotEnd := overlap.Start.Add(overlap.Length.Duration())
	assert.True(t, gotEnd.Equal(wantEnd))
}

// TestTimespanIncompatible covers spec scenario 4's License C: a
// one-day span starting after A has already ended.
func TestTimespanIncompatible(t *testing.T) {
	a := mustTimespan(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2*365*24*time.Hour)
	c := mustTimespan(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour)

	_, err := a.Intersect(c)
	assert.Error(t, err)
}

func TestTimespanZeroLengthOverlapFails(t *testing.T) {
	a := mustTimespan(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour)
	// b starts exactly when a ends: overlap is zero-length, which the
	// source treats as "no overlap".
	b := mustTimespan(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), 24*time.Hour)

	_, err := a.Intersect(b)
	assert.Error(t, err)
}

func TestTimespanEmptyIsIdentity(t *testing.T) {
	a := mustTimespan(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour)
	empty := Timespan{}

	left, err := empty.Intersect(a)
	require.NoError(t, err)
	assert.True(t, left.Start.Equal(a.Start))

	right, err := a.Intersect(empty)
	require.NoError(t, err)
	assert.True(t, right.Start.Equal(a.Start))
}

func TestTimespanIntersectCommutative(t *testing.T) {
	a := mustTimespan(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2*365*24*time.Hour)
	b := mustTimespan(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), 2*365*24*time.Hour)

	ab, err := a.Intersect(b)
	require.NoError(t, err)
	ba, err := b.Intersect(a)
	require.NoError(t, err)

	assert.True(t, ab.Start.Equal(ba.Start))
	assert.Equal(t, ab.Length.Duration(), ba.Length.Duration())
}

func TestTimespanLengthWithoutStartInvalid(t *testing.T) {
	d := NewDuration(time.Hour)
	_, err := NewTimespan(nil, &d)
	assert.Error(t, err)
}
