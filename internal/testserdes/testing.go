package testserdes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// MarshalUnmarshalJSON checks if expected stays the same after
// marshal/unmarshal via JSON.
func MarshalUnmarshalJSON(t *testing.T, expected, actual interface{}) {
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// UnmarshalMarshalJSON checks if the given JSON stays semantically the same
// after unmarshaling into v and marshaling it back.
func UnmarshalMarshalJSON(t *testing.T, data string, v interface{}) {
	require.NoError(t, json.Unmarshal([]byte(data), v))
	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, data, string(out))
}
