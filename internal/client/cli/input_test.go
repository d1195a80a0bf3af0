package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInteractive_UsesSeam(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(int) bool { return true }
	require.True(t, interactive())
	isTerminal = func(int) bool { return false }
	require.False(t, interactive())
}
