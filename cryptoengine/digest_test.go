package cryptoengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestSizes(t *testing.T) {
	t.Parallel()
	cases := map[Algorithm]int{SHA1: 20, SHA256: 32, SHA384: 48, SHA512: 64}
	for alg, size := range cases {
		out, err := Digest(alg, []byte("hello"))
		require.NoError(t, err)
		assert.Len(t, out, size)
	}
}

func TestDigestUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()
	_, err := Digest("MD5", []byte("x"))
	assert.Error(t, err)
}
