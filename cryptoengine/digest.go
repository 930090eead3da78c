package cryptoengine

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is part of the supported digest set, not used for signing here
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/speedboat/jsrt/internal/jserr"
)

// Algorithm identifies one of the four supported digest algorithms from
// spec.md §4.11.
type Algorithm string

const (
	SHA1   Algorithm = "SHA-1"
	SHA256 Algorithm = "SHA-256"
	SHA384 Algorithm = "SHA-384"
	SHA512 Algorithm = "SHA-512"
)

func newHash(alg Algorithm) (func() hash.Hash, error) {
	switch alg {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, jserr.New(jserr.CodeNotSupported, "unsupported digest algorithm: "+string(alg))
	}
}

// Digest hashes data with the named algorithm over a single buffer.
func Digest(alg Algorithm, data []byte) ([]byte, error) {
	factory, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	h := factory()
	h.Write(data)
	return h.Sum(nil), nil
}

// BlockSize returns the hash's block size, used by HMAC key generation.
func BlockSize(alg Algorithm) (int, error) {
	factory, err := newHash(alg)
	if err != nil {
		return 0, err
	}
	return factory().BlockSize(), nil
}

// Size returns the hash's output size in bytes.
func Size(alg Algorithm) (int, error) {
	factory, err := newHash(alg)
	if err != nil {
		return 0, err
	}
	return factory().Size(), nil
}
