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

func TestDurationStringBreakdown(t *testing.T) {
	d := NewDuration(365*24*time.Hour + 30*24*time.Hour)
	assert.Equal(t, "1y, 1mo", d.String())
}

func TestDurationZero(t *testing.T) {
	assert.Equal(t, "0s", Duration{}.String())
}

func TestDurationParseHumanForm(t *testing.T) {
	d, err := ParseDuration("1y, 7mo")
	require.NoError(t, err)
	expect := 365*24*time.Hour + 7*30*24*time.Hour
	assert.Equal(t, expect, d.Duration())
}

func TestDurationParseNumericSeconds(t *testing.T) {
	d, err := ParseDuration("3600")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d.Duration())
}

func TestDurationParseGoForm(t *testing.T) {
	d, err := ParseDuration("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d.Duration())
}

func TestDurationRoundTrip(t *testing.T) {
	d := NewDuration(90 * 24 * time.Hour)
	parsed, err := ParseDuration(d.String())
	require.NoError(t, err)
	assert.Equal(t, d.Duration(), parsed.Duration())
}

func TestDurationCoerceIdempotent(t *testing.T) {
	d := NewDuration(time.Hour)
	coerced, err := CoerceDuration(d)
	require.NoError(t, err)
	assert.Equal(t, d.Duration(), coerced.Duration())

	again, err := CoerceDuration(coerced)
	require.NoError(t, err)
	assert.Equal(t, d.Duration(), again.Duration())
}
