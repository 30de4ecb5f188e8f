package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyIsFirstPage(t *testing.T) {
	c, err := Decode("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestEncodeDecode(t *testing.T) {
	token, err := Encode(Cursor{LikerID: 9, CreatedUnix: 1700000000123})
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, Cursor{LikerID: 9, CreatedUnix: 1700000000123}, c)
	assert.False(t, c.IsZero())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("%%%not-base64")
	assert.Error(t, err)

	_, err = Decode("bm90IGpzb24=") // "not json"
	assert.Error(t, err)
}
