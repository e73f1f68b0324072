package envelope

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, KeySize)
	_, err := rand.Read(k)
	require.NoError(t, err)
	return k
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte(`{"id":42,"jsonrpc":"2.0","method":"wc_sessionRequest"}`)

	env, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	require.Len(t, env.IV, 32) // 16 bytes hex-encoded

	got, err := Decrypt(env, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptTamperedDataFailsHMAC(t *testing.T) {
	key := testKey(t)
	env, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)

	tampered := flipHexNibble(env.Data)
	env.Data = tampered

	_, err = Decrypt(env, key)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HmacMismatch")
}

func TestDecryptTamperedIVFailsHMAC(t *testing.T) {
	key := testKey(t)
	env, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)

	env.IV = flipHexNibble(env.IV)

	_, err = Decrypt(env, key)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HmacMismatch")
}

func TestDecryptWrongKeyFailsHMAC(t *testing.T) {
	key := testKey(t)
	other := testKey(t)
	env, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)

	_, err = Decrypt(env, other)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HmacMismatch")
}

func TestJSONRoundTrip(t *testing.T) {
	key := testKey(t)
	env, err := Encrypt([]byte("payload"), key)
	require.NoError(t, err)

	s, err := ToJSON(env)
	require.NoError(t, err)

	back, err := FromJSON(s)
	require.NoError(t, err)
	require.Equal(t, env, back)
}

func flipHexNibble(s string) string {
	b := []byte(s)
	switch b[0] {
	case '0':
		b[0] = '1'
	default:
		b[0] = '0'
	}
	return string(b)
}
