package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("hunter2")
	require.NoError(t, err)
	require.NoError(t, Compare(hash, "hunter2"))
	require.Error(t, Compare(hash, "hunter3"))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal("abc", "abc"))
	require.False(t, Equal("abc", "abd"))
	require.False(t, Equal("abc", "ab"))
	require.False(t, Equal("abc", ""))
}
