package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest secret accepted for at-rest encryption.
const MinSecretLength = 32

const keyInfo = "prequal/vault/aes-256-gcm/v1"

var (
	// ErrSecretTooShort is returned when the configured secret cannot be used.
	ErrSecretTooShort = errors.New("encryption secret must be at least 32 characters")
	// ErrMalformedCiphertext indicates a sealed value that cannot be opened.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
)

// Cipher seals bureau responses with AES-256-GCM. Output is
// base64(nonce || ciphertext || tag).
type Cipher struct {
	aead cipher.AEAD
}

// Usable reports whether secret is long enough to key a Cipher.
func Usable(secret string) bool {
	return len(secret) >= MinSecretLength
}

// New derives a 256-bit key from secret with HKDF-SHA256.
func New(secret string) (*Cipher, error) {
	if !Usable(secret) {
		return nil, ErrSecretTooShort
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedCiphertext
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return nil, ErrMalformedCiphertext
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, ErrMalformedCiphertext
	}
	return plain, nil
}
