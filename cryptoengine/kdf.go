package cryptoengine

import (
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/speedboat/jsrt/internal/jserr"
)

// PBKDF2Derive is a direct call to golang.org/x/crypto/pbkdf2, matching
// spec.md §4.11's PBKDF2 engine primitive.
func PBKDF2Derive(alg Algorithm, password, salt []byte, iterations, keyLen int) ([]byte, error) {
	factory, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	if iterations <= 0 || keyLen <= 0 {
		return nil, jserr.New(jserr.CodeOperationError, "PBKDF2 iterations and key length must be positive")
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, factory), nil
}

// HKDFDerive is built on golang.org/x/crypto/hkdf; a missing salt implies
// salt of zeros of hash length, per spec.md §4.11.
func HKDFDerive(alg Algorithm, ikm, salt, info []byte, keyLen int) ([]byte, error) {
	factory, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	if keyLen <= 0 {
		return nil, jserr.New(jserr.CodeOperationError, "HKDF output length must be positive")
	}
	if salt == nil {
		size, err := Size(alg)
		if err != nil {
			return nil, err
		}
		salt = make([]byte, size)
	}
	reader := hkdf.New(factory, ikm, salt, info)
	out := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "HKDF derive failed", err)
	}
	return out, nil
}
