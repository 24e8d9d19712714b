package vault

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestNewRejectsShortSecret(t *testing.T) {
	_, err := New("short")
	require.ErrorIs(t, err, ErrSecretTooShort)
	assert.False(t, Usable(strings.Repeat("x", 31)))
	assert.True(t, Usable(strings.Repeat("x", 32)))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New(secret)
	require.NoError(t, err)

	sealed, err := c.Encrypt([]byte(`{"score":760}`))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "760")

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"score":760}`, string(plain))
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c, err := New(secret)
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	c1, err := New(secret)
	require.NoError(t, err)
	c2, err := New(strings.Repeat("z", 32))
	require.NoError(t, err)

	sealed, err := c1.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = c2.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = c1.Decrypt("not base64!")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}
