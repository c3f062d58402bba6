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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineBindingUnsetSatisfiesAnything(t *testing.T) {
	m := UnsetMachineBinding()
	assert.True(t, m.Satisfies(uuid.New()))
}

func TestMachineBindingAnySatisfiesAnything(t *testing.T) {
	m := AnyMachineBinding()
	assert.True(t, m.Satisfies(uuid.New()))
	assert.Equal(t, true, m.Canonical())
}

func TestMachineBindingBoundRequiresExactMatch(t *testing.T) {
	id := uuid.New()
	m := BoundMachineBinding(id)
	assert.True(t, m.Satisfies(id))
	assert.False(t, m.Satisfies(uuid.New()))
}

func TestMachineBindingCoerceRoundTrip(t *testing.T) {
	id := uuid.New()
	m := BoundMachineBinding(id)
	coerced, err := CoerceMachineBinding(m.Canonical())
	require.NoError(t, err)
	assert.True(t, coerced.IsBound())
	assert.Equal(t, id, coerced.UUID())
}

func TestMachineBindingCoerceNilIsUnset(t *testing.T) {
	m, err := CoerceMachineBinding(nil)
	require.NoError(t, err)
	assert.True(t, m.IsUnset())
}
