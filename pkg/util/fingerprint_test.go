package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMd5ThenHex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5ThenHex(nil))
	assert.Equal(t, Md5ThenHex([]byte("abc")), Md5ThenHex([]byte("abc")))
}

func TestBufferUUID_Deterministic(t *testing.T) {
	a := BufferUUID([]byte{1, 2, 3})
	b := BufferUUID([]byte{1, 2, 3})
	c := BufferUUID([]byte{1, 2, 4})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}
