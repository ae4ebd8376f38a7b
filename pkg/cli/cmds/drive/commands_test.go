package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		a, b float64
		err  bool
	}{
		{"ok", []string{"0.5", "-1"}, 0.5, -1, false},
		{"missing", []string{"0.5"}, 0, 0, true},
		{"extra", []string{"1", "2", "3"}, 0, 0, true},
		{"invalid", []string{"x", "1"}, 0, 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, b, err := ParsePair(tc.args)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.a, a)
			require.Equal(t, tc.b, b)
		})
	}
}

func TestStickCommand(t *testing.T) {
	cmd := StickCommand(0, 1)
	assert.InDelta(t, 1, cmd.Left, 1e-6)
	assert.InDelta(t, 1, cmd.Right, 1e-6)

	cmd = StickCommand(1, 0)
	assert.InDelta(t, 1.0/3, cmd.Left, 1e-6)
	assert.InDelta(t, -1.0/3, cmd.Right, 1e-6)

	// unclamped mapper output is clamped before sending.
	cmd = StickCommand(1.0/3, 1)
	require.Equal(t, float32(1), cmd.Left)
	require.True(t, cmd.Right < 1)
}
