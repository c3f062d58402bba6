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

package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeysAtEveryDepth(t *testing.T) {
	tree := map[string]interface{}{
		"zebra": 1,
		"apple": map[string]interface{}{
			"zz": 1,
			"aa": 2,
		},
	}
	data, err := Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":{"aa":2,"zz":1},"zebra":1}`, string(data))
}

func TestMarshalNoTrailingNewlineOrHTMLEscaping(t *testing.T) {
	data, err := Marshal(map[string]interface{}{"a": "<b>&c"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<b>&c"}`, string(data))
}

type stubCanonicalizer struct{}

func (stubCanonicalizer) Canonical() interface{} { return map[string]interface{}{"k": "v"} }

func TestMarshalValueResolvesCanonicalizer(t *testing.T) {
	data, err := MarshalValue(stubCanonicalizer{})
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, string(data))
}

func TestUnmarshalRoundTrip(t *testing.T) {
	data := []byte(`{"b":2,"a":1}`)
	tree, err := Unmarshal(data)
	require.NoError(t, err)

	reencoded, err := Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(reencoded))
}

func TestUnmarshalInvalidJSON(t *testing.T) {
	_, err := Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}
