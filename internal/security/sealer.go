package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrUnsealable = errors.New("sealed value cannot be opened")

// Sealer encrypts third-party tokens before they are stored. A Sealer
// without a key stores nothing: Seal returns "" and Open reports
// ErrUnsealable.
type Sealer struct {
	key *[32]byte
}

func NewSealer(key *[32]byte) *Sealer {
	return &Sealer{key: key}
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.key != nil
}

func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() || plaintext == "" {
		return "", nil
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, s.key)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	if !s.Enabled() || sealed == "" {
		return "", ErrUnsealable
	}

	raw, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < 24+secretbox.Overhead {
		return "", ErrUnsealable
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plaintext, ok := secretbox.Open(nil, raw[24:], &nonce, s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plaintext), nil
}
