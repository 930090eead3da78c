package cryptoengine

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"

	"github.com/speedboat/jsrt/internal/jserr"
)

const defaultPublicExponent = 65537

// RSAKeyPair holds DER-serialized key material, the stable exchange format
// between JavaScript buffers and this engine, per spec.md §4.11.
type RSAKeyPair struct {
	PrivateKeyDER []byte
	PublicKeyDER  []byte
}

// GenerateRSAKeyPair accepts a modulus length between 1024 and 4096 bits.
// The public exponent is fixed to 65537, matching Go's crypto/rsa default
// and the spec's default.
func GenerateRSAKeyPair(modulusBits int) (*RSAKeyPair, error) {
	if modulusBits < 1024 || modulusBits > 4096 {
		return nil, jserr.New(jserr.CodeOperationError, "RSA modulus length out of range (1024-4096)")
	}
	key, err := rsa.GenerateKey(rand.Reader, modulusBits)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "RSA key generation failed", err)
	}
	if key.PublicKey.E != defaultPublicExponent {
		return nil, jserr.New(jserr.CodeOperationError, "unexpected RSA public exponent")
	}
	priv := x509.MarshalPKCS1PrivateKey(key)
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "RSA public key marshal failed", err)
	}
	return &RSAKeyPair{PrivateKeyDER: priv, PublicKeyDER: pub}, nil
}

// ImportRSAPrivateKey reconstructs an engine key from DER.
func ImportRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "invalid RSA private key DER", err)
	}
	return key, nil
}

// ImportRSAPublicKey reconstructs an engine public key from DER.
func ImportRSAPublicKey(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "invalid RSA public key DER", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, jserr.New(jserr.CodeOperationError, "DER key is not an RSA public key")
	}
	return rsaPub, nil
}

func hashFor(alg Algorithm) (crypto.Hash, error) {
	switch alg {
	case SHA1:
		return crypto.SHA1, nil
	case SHA256:
		return crypto.SHA256, nil
	case SHA384:
		return crypto.SHA384, nil
	case SHA512:
		return crypto.SHA512, nil
	default:
		return 0, jserr.New(jserr.CodeNotSupported, "unsupported digest algorithm: "+string(alg))
	}
}

// RSAOAEPEncrypt configures OAEP padding with the chosen hash and optional
// label.
func RSAOAEPEncrypt(pub *rsa.PublicKey, alg Algorithm, label, plaintext []byte) ([]byte, error) {
	h, err := hashFor(alg)
	if err != nil {
		return nil, err
	}
	ct, err := rsa.EncryptOAEP(h.New(), rand.Reader, pub, plaintext, label)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "RSA-OAEP encrypt failed", err)
	}
	return ct, nil
}

// RSAOAEPDecrypt reverses RSAOAEPEncrypt.
func RSAOAEPDecrypt(priv *rsa.PrivateKey, alg Algorithm, label, ciphertext []byte) ([]byte, error) {
	h, err := hashFor(alg)
	if err != nil {
		return nil, err
	}
	pt, err := rsa.DecryptOAEP(h.New(), rand.Reader, priv, ciphertext, label)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "RSA-OAEP decrypt failed", err)
	}
	return pt, nil
}

// RSAPKCS1Sign signs the digest of message (computed with alg) using
// PKCS1-v1_5.
func RSAPKCS1Sign(priv *rsa.PrivateKey, alg Algorithm, message []byte) ([]byte, error) {
	h, err := hashFor(alg)
	if err != nil {
		return nil, err
	}
	digest, err := Digest(alg, message)
	if err != nil {
		return nil, err
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, h, digest)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "RSA PKCS1-v1.5 sign failed", err)
	}
	return sig, nil
}

// RSAPKCS1Verify verifies a PKCS1-v1_5 signature over message.
func RSAPKCS1Verify(pub *rsa.PublicKey, alg Algorithm, message, signature []byte) (bool, error) {
	h, err := hashFor(alg)
	if err != nil {
		return false, err
	}
	digest, err := Digest(alg, message)
	if err != nil {
		return false, err
	}
	if err := rsa.VerifyPKCS1v15(pub, h, digest, signature); err != nil {
		return false, nil
	}
	return true, nil
}
