package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStringToUUID5(t *testing.T) {
	a := StringToUUID5("123456789")
	b := StringToUUID5("123456789")
	c := StringToUUID5("987654321")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 36)
}

func TestExpired(t *testing.T) {
	require.True(t, Expired(time.Now().Add(-time.Second)))
	require.False(t, Expired(time.Now().Add(time.Hour)))
}

func TestDeduplicate(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, Deduplicate([]string{"a", "b", "a", "c", "b"}))
}

func TestSliceToSet(t *testing.T) {
	set := SliceToSet([]string{"a", "b"})
	_, ok := set["a"]
	require.True(t, ok)
	_, ok = set["z"]
	require.False(t, ok)
}
