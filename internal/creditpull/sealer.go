package creditpull

import (
	"encoding/json"
	"errors"

	"github.com/forward-rent/prequal/internal/risk"
	"github.com/forward-rent/prequal/internal/vault"
)

// ErrNotEncrypted is returned by Open for records stored as a summary.
var ErrNotEncrypted = errors.New("credit pull response was not stored encrypted")

// Sealer decides how a bureau response is kept at rest. With a usable
// secret the full response is encrypted; otherwise only a summary is kept.
type Sealer struct {
	cipher *vault.Cipher
}

// NewSealer builds a Sealer. A secret shorter than vault.MinSecretLength
// selects summary mode and is not an error.
func NewSealer(secret string) (*Sealer, error) {
	if !vault.Usable(secret) {
		return &Sealer{}, nil
	}
	c, err := vault.New(secret)
	if err != nil {
		return nil, err
	}
	return &Sealer{cipher: c}, nil
}

// Encrypts reports whether full responses are stored.
func (s *Sealer) Encrypts() bool {
	return s.cipher != nil
}

// Seal fills exactly one of the response fields on rec.
func (s *Sealer) Seal(rec *Record, response map[string]any) error {
	if s.cipher == nil {
		summary := risk.Summarize(response)
		rec.Summary = &summary
		rec.EncryptedResponse = ""
		return nil
	}
	plaintext, err := json.Marshal(response)
	if err != nil {
		return err
	}
	sealed, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return err
	}
	rec.EncryptedResponse = sealed
	rec.Summary = nil
	return nil
}

// Open decrypts the full bureau response of rec.
func (s *Sealer) Open(rec Record) (map[string]any, error) {
	if rec.EncryptedResponse == "" || s.cipher == nil {
		return nil, ErrNotEncrypted
	}
	plaintext, err := s.cipher.Decrypt(rec.EncryptedResponse)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(plaintext, &out); err != nil {
		return nil, err
	}
	return out, nil
}
