package idgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexID = regexp.MustCompile(`^[0-9a-f]+$`)

func TestUUIDHex(t *testing.T) {
	for _, n := range []int{1, DefaultLength, 12, MaxLength} {
		gen, err := UUIDHex(n)
		require.NoError(t, err)

		id, err := gen()
		require.NoError(t, err)
		assert.Len(t, id, n)
		assert.Regexp(t, hexID, id)
	}
}

func TestUUIDHex_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1, MaxLength + 1} {
		_, err := UUIDHex(n)
		assert.Error(t, err, "length %d", n)
	}
}

func TestUUIDHex_Varies(t *testing.T) {
	gen, err := UUIDHex(DefaultLength)
	require.NoError(t, err)

	// 1000 draws from 2^32 values: a repeat is astronomically unlikely.
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := gen()
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 990)
}

func TestSequence(t *testing.T) {
	gen := Sequence("aaaa1111", "aaaa1111", "bbbb2222")

	for _, want := range []string{"aaaa1111", "aaaa1111", "bbbb2222"} {
		got, err := gen()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := gen()
	assert.Error(t, err)
}
