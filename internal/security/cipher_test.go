package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	plain := []byte("%PDF-1.4 passport scan bytes")
	sealed, err := c.Encrypt(plain)
	require.NoError(t, err)

	assert.Len(t, sealed.IV, nonceSize*2)
	assert.Len(t, sealed.AuthTag, tagSize*2)
	assert.NotEqual(t, plain, sealed.Ciphertext)

	out, err := c.Decrypt(sealed.Ciphertext, sealed.IV, sealed.AuthTag)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestCipher_FreshIVPerCall(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
}

func TestCipher_TamperDetected(t *testing.T) {
	c, err := NewCipher("test-secret")
	require.NoError(t, err)

	sealed, err := c.Encrypt([]byte("document"))
	require.NoError(t, err)

	sealed.Ciphertext[0] ^= 0xff
	_, err = c.Decrypt(sealed.Ciphertext, sealed.IV, sealed.AuthTag)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCipher_WrongKey(t *testing.T) {
	a, _ := NewCipher("key-a")
	b, _ := NewCipher("key-b")

	sealed, err := a.Encrypt([]byte("document"))
	require.NoError(t, err)

	_, err = b.Decrypt(sealed.Ciphertext, sealed.IV, sealed.AuthTag)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCipher_MissingParams(t *testing.T) {
	c, _ := NewCipher("test-secret")

	_, err := c.Decrypt([]byte("x"), "", "abcd")
	assert.ErrorIs(t, err, ErrMissingParams)
	_, err = c.Decrypt([]byte("x"), "abcd", "")
	assert.ErrorIs(t, err, ErrMissingParams)
}

func TestNewCipher_EmptySecret(t *testing.T) {
	_, err := NewCipher("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCipher_StringSecrets(t *testing.T) {
	c, _ := NewCipher("test-secret")

	enc, err := c.EncryptString("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	dec, err := c.DecryptString(enc)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", dec)

	_, err = c.DecryptString("not-a-triple")
	assert.ErrorIs(t, err, ErrMalformedSecret)
}
