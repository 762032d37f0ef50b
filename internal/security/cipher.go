// Package security provides authenticated encryption for documents and secrets at rest.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 16
	tagSize   = 16

	documentKeyInfo = "kyc-document-encryption"
)

var (
	ErrEmptySecret      = errors.New("encryption secret must not be empty")
	ErrMissingParams    = errors.New("iv and auth tag must both be present")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrMalformedSecret  = errors.New("malformed encrypted secret")
)

// Sealed is an encrypted payload with its hex-encoded IV and auth tag.
type Sealed struct {
	Ciphertext []byte
	IV         string
	AuthTag    string
}

// Cipher is AES-256-GCM keyed once from a configured secret.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the key from secret with HKDF-SHA256.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(documentKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random IV.
func (c *Cipher) Encrypt(plaintext []byte) (*Sealed, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := c.aead.Seal(nil, nonce, plaintext, nil)
	split := len(out) - tagSize
	return &Sealed{
		Ciphertext: out[:split],
		IV:         hex.EncodeToString(nonce),
		AuthTag:    hex.EncodeToString(out[split:]),
	}, nil
}

// Decrypt opens ciphertext; it fails if the IV or tag is missing or does not verify.
func (c *Cipher) Decrypt(ciphertext []byte, ivHex, tagHex string) ([]byte, error) {
	if ivHex == "" || tagHex == "" {
		return nil, ErrMissingParams
	}
	nonce, err := hex.DecodeString(ivHex)
	if err != nil || len(nonce) != nonceSize {
		return nil, ErrDecryptionFailed
	}
	tag, err := hex.DecodeString(tagHex)
	if err != nil || len(tag) != tagSize {
		return nil, ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

// EncryptString seals a short secret as "iv:tag:ciphertext" in hex.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	s, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return strings.Join([]string{s.IV, s.AuthTag, hex.EncodeToString(s.Ciphertext)}, ":"), nil
}

// DecryptString reverses EncryptString.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 3 {
		return "", ErrMalformedSecret
	}
	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedSecret
	}
	plain, err := c.Decrypt(ct, parts[0], parts[1])
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
