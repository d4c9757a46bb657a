package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

const ivSize = aes.BlockSize

// DeriveKey derives the 32-byte AES key from a secret string.
// The key is the first 32 characters of the base64 encoded SHA-256 digest
// of the secret, which matches the format already used for credential
// files encrypted by earlier deployments.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	return []byte(encoded[:32])
}

// Encrypt encrypts data with AES-256-CTR using a key derived from secret.
// A random 16-byte IV is generated and prefixed to the ciphertext.
func Encrypt(secret string, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(DeriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	out := make([]byte, ivSize+len(data))
	iv := out[:ivSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	cipher.NewCTR(block, iv).XORKeyStream(out[ivSize:], data)
	return out, nil
}

// Decrypt reverses Encrypt, expecting the IV as the first 16 bytes.
func Decrypt(secret string, encrypted []byte) ([]byte, error) {
	if len(encrypted) < ivSize {
		return nil, fmt.Errorf("ciphertext too short: %d bytes", len(encrypted))
	}

	block, err := aes.NewCipher(DeriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := encrypted[:ivSize]
	out := make([]byte, len(encrypted)-ivSize)
	cipher.NewCTR(block, iv).XORKeyStream(out, encrypted[ivSize:])
	return out, nil
}
