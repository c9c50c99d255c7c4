package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicPerSalt(t *testing.T) {
	pass := []byte("correct horse")

	k1 := DeriveKey(pass, []byte("salt-1"))
	k2 := DeriveKey(pass, []byte("salt-1"))
	k3 := DeriveKey(pass, []byte("salt-2"))

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	plain := []byte(`{"1":{"draftId":1,"status":"IN_PROGRESS"}}`)

	sealed, err := Seal(plain, key)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, []byte("IN_PROGRESS")))

	got, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSeal_FreshNonceEachCall(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_Failures(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	other := DeriveKey([]byte("other"), []byte("salt"))

	sealed, err := Seal([]byte("data"), key)
	require.NoError(t, err)

	_, err = Open(sealed, other)
	assert.Error(t, err)

	_, err = Open([]byte{1, 2}, key)
	assert.ErrorIs(t, err, ErrShortCiphertext)

	_, err = Seal([]byte("x"), []byte("short"))
	assert.Error(t, err)
}

func TestMakeVerifier(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	assert.Equal(t, MakeVerifier(key), MakeVerifier(key))
	assert.Len(t, MakeVerifier(key), 32)
}
