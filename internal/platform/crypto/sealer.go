// Package crypto seals signature images at rest with AES-256-GCM.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// sealedPrefix marks blobs written by Seal. Rows stored before a key was configured carry no prefix
// and are returned unchanged by Decrypt.
var sealedPrefix = []byte("pts1:")

var ErrSealedWithoutKey = errors.New("signature is sealed but no DATA_ENCRYPTION_KEY is configured")

type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a 32-byte key given as hex, base64 or raw text. An empty key yields a
// pass-through Sealer.
func New(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Configured() bool {
	return s.aead != nil
}

func (s *Sealer) Encrypt(plain []byte) ([]byte, error) {
	if len(plain) == 0 || !s.Configured() {
		return plain, nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(sealedPrefix)+len(nonce)+len(plain)+s.aead.Overhead())
	out = append(out, sealedPrefix...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plain, sealedPrefix), nil
}

func (s *Sealer) Decrypt(sealed []byte) ([]byte, error) {
	if !bytes.HasPrefix(sealed, sealedPrefix) {
		return sealed, nil
	}
	if !s.Configured() {
		return nil, ErrSealedWithoutKey
	}
	body := sealed[len(sealedPrefix):]
	if len(body) < s.aead.NonceSize() {
		return nil, errors.New("sealed signature too short")
	}
	nonce, data := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, data, sealedPrefix)
	if err != nil {
		return nil, fmt.Errorf("open sealed signature: %w", err)
	}
	return plain, nil
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
