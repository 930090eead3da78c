package cryptoengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestECDSASignVerify(t *testing.T) {
	t.Parallel()
	pair, err := GenerateECDSAKeyPair(P256)
	require.NoError(t, err)

	sig, err := ECDSASign(pair.PrivateKeyDER, SHA256, []byte("message"))
	require.NoError(t, err)
	ok, err := ECDSAVerify(pair.PublicKeyDER, SHA256, []byte("message"), sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ECDSAVerify(pair.PublicKeyDER, SHA256, []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestECDHSharedSecretMatches(t *testing.T) {
	t.Parallel()
	alice, err := GenerateECDSAKeyPair(P256)
	require.NoError(t, err)
	bob, err := GenerateECDSAKeyPair(P256)
	require.NoError(t, err)

	secretA, err := ECDHDeriveBits(P256, alice.PrivateKeyDER, bob.PublicKeyDER)
	require.NoError(t, err)
	secretB, err := ECDHDeriveBits(P256, bob.PrivateKeyDER, alice.PublicKeyDER)
	require.NoError(t, err)
	assert.Equal(t, secretA, secretB)
}

func TestUnsupportedCurve(t *testing.T) {
	t.Parallel()
	_, err := GenerateECDSAKeyPair("P-192")
	assert.Error(t, err)
}
