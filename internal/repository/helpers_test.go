package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_placeholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}

func Test_idArgs(t *testing.T) {
	assert.Equal(t, []any{uint64(3), uint64(1)}, idArgs([]uint64{3, 1}))
	assert.Empty(t, idArgs(nil))
}

func Test_splitIDs(t *testing.T) {
	ids, err := splitIDs("1,5, 12")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 5, 12}, ids)

	_, err = splitIDs("1,x")
	assert.Error(t, err)

	_, err = splitIDs("")
	assert.Error(t, err, "GROUP_CONCAT never yields an empty list for a joined lesson")
}
