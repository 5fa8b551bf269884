package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlob(t *testing.T) {
	vec := []float32{0.5, -1.25, 3}
	b := EncodeBlob(vec)
	assert.Len(t, b, 12)

	got, err := DecodeBlob(b)
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	assert.Nil(t, EncodeBlob(nil))
	empty, err := DecodeBlob(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeBlob([]byte{1, 2, 3})
	assert.Error(t, err)
}
