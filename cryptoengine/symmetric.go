package cryptoengine

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/speedboat/jsrt/internal/jserr"
)

// keyedCipher returns an AES block cipher sized by key length (16/24/32 ->
// AES-128/192/256), per spec.md §4.10.
func keyedCipher(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
		return aes.NewCipher(key)
	default:
		return nil, jserr.New(jserr.CodeOperationError, "invalid AES key length")
	}
}

// EncryptCBC applies PKCS#7 padding and returns ciphertext including the
// padding block. iv must be exactly 16 bytes.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := keyedCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, jserr.New(jserr.CodeOperationError, "CBC IV must be 16 bytes")
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// DecryptCBC reverses EncryptCBC, stripping PKCS#7 padding.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := keyedCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, jserr.New(jserr.CodeOperationError, "invalid CBC ciphertext or IV")
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out)
}

const gcmTagLength = 16

// EncryptGCM feeds aad (if any) before the plaintext and appends the
// authentication tag to the ciphertext, per spec.md §4.10.
func EncryptGCM(key, iv, aad, plaintext []byte) ([]byte, error) {
	block, err := keyedCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "invalid GCM IV length", err)
	}
	return gcm.Seal(nil, iv, plaintext, aad), nil
}

// DecryptGCM splits the trailing tag from ciphertext and verifies it as
// part of Open; a failed tag comparison is indistinguishable from any other
// decryption failure, both returning a single OperationError.
func DecryptGCM(key, iv, aad, ciphertext []byte) ([]byte, error) {
	block, err := keyedCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcmTagLength {
		return nil, jserr.New(jserr.CodeOperationError, "GCM ciphertext shorter than tag")
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(iv))
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeOperationError, "invalid GCM IV length", err)
	}
	plaintext, err := gcm.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, jserr.New(jserr.CodeOperationError, "GCM authentication failed")
	}
	return plaintext, nil
}

// EncryptCTR/DecryptCTR are symmetric: CTR mode has no finalization data and
// output length always equals input length.
func EncryptCTR(key, iv, input []byte) ([]byte, error) {
	block, err := keyedCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, jserr.New(jserr.CodeOperationError, "CTR IV must be 16 bytes")
	}
	out := make([]byte, len(input))
	cipher.NewCTR(block, iv).XORKeyStream(out, input)
	return out, nil
}

func DecryptCTR(key, iv, input []byte) ([]byte, error) {
	return EncryptCTR(key, iv, input)
}

// GenerateKey produces a random AES key of the given length (16, 24, or 32)
// using the installed table's random source.
func GenerateKey(table OperationTable, length int) ([]byte, error) {
	switch length {
	case 16, 24, 32:
	default:
		return nil, jserr.New(jserr.CodeOperationError, "invalid AES key length")
	}
	key := make([]byte, length)
	if err := table.Random(key); err != nil {
		return nil, err
	}
	return key, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, jserr.New(jserr.CodeOperationError, "empty CBC plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, jserr.New(jserr.CodeOperationError, "invalid PKCS#7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, jserr.New(jserr.CodeOperationError, "invalid PKCS#7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}
