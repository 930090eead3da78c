package cryptoengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSignVerify(t *testing.T) {
	t.Parallel()
	key := []byte("secret-key")
	mac, err := HMACSign(SHA256, key, []byte("message"))
	require.NoError(t, err)

	ok, err := HMACVerify(SHA256, key, []byte("message"), mac)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HMACVerify(SHA256, key, []byte("tampered"), mac)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHMACGenerateKeyMatchesBlockSize(t *testing.T) {
	t.Parallel()
	key, err := HMACGenerateKey(NewStatic(), SHA256)
	require.NoError(t, err)
	assert.Len(t, key, 64)
}
