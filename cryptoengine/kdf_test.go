package cryptoengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2Deterministic(t *testing.T) {
	t.Parallel()
	out1, err := PBKDF2Derive(SHA256, []byte("password"), []byte("salt"), 1000, 32)
	require.NoError(t, err)
	out2, err := PBKDF2Derive(SHA256, []byte("password"), []byte("salt"), 1000, 32)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Len(t, out1, 32)
}

func TestHKDFDefaultsSaltToZeros(t *testing.T) {
	t.Parallel()
	out1, err := HKDFDerive(SHA256, []byte("ikm"), nil, []byte("info"), 32)
	require.NoError(t, err)
	zeros := make([]byte, 32)
	out2, err := HKDFDerive(SHA256, []byte("ikm"), zeros, []byte("info"), 32)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}
