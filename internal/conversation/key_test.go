package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOrderIndependent(t *testing.T) {
	pairs := [][2]int{{1, 2}, {2, 1}, {42, 7}, {7, 42}, {100, 100}}
	for _, p := range pairs {
		require.Equal(t, Key(p[0], p[1]), Key(p[1], p[0]))
	}
}

func TestKeySortsLexicographically(t *testing.T) {
	// "10" < "2" as strings, so 10 comes first regardless of numeric order.
	assert.Equal(t, "10-2", Key(2, 10))
	assert.Equal(t, "10-2", Key(10, 2))
	assert.Equal(t, "1-2", Key(1, 2))
}

func TestDirectRoomMatchesKey(t *testing.T) {
	assert.Equal(t, Key(3, 9), DirectRoom(3, 9))
	assert.Equal(t, Key(9, 3), DirectRoom(3, 9))
}

func TestGroupRoom(t *testing.T) {
	assert.Equal(t, "group-15", GroupRoom(15))
}
