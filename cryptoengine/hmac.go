package cryptoengine

import (
	"crypto/hmac"
	"crypto/subtle"
)

// HMACSign computes the keyed digest over data with the named hash.
func HMACSign(alg Algorithm, key, data []byte) ([]byte, error) {
	factory, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(factory, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// HMACVerify computes the MAC over the whole input and compares in constant
// time, per spec.md §4.11 - it does not early-exit on byte mismatch.
func HMACVerify(alg Algorithm, key, data, expectedMAC []byte) (bool, error) {
	computed, err := HMACSign(alg, key, data)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(computed, expectedMAC) == 1, nil
}

// HMACGenerateKey produces a random key of the hash's block size.
func HMACGenerateKey(table OperationTable, alg Algorithm) ([]byte, error) {
	size, err := BlockSize(alg)
	if err != nil {
		return nil, err
	}
	key := make([]byte, size)
	if err := table.Random(key); err != nil {
		return nil, err
	}
	return key, nil
}
