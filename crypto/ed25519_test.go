package crypto

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_SignMessage(t *testing.T) {
	account, err := NewAccount()
	assert.NoError(t, err)
	assert.False(t, account.PublicKey().IsZero())

	msg := []byte("abc123")
	sig, err := account.SignMessage(msg)
	assert.NoError(t, err)
	assert.Len(t, sig, ed25519.SignatureSize)
	assert.True(t, account.Verify(msg, sig))
	assert.False(t, account.Verify([]byte("other"), sig))
}

func TestAccountFromSecretKey(t *testing.T) {
	account, err := NewAccount()
	assert.NoError(t, err)

	rebuilt, err := AccountFromSecretKey(account.privateKey)
	assert.NoError(t, err)
	assert.Equal(t, account.Address, rebuilt.Address)

	_, err = AccountFromSecretKey([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestKeypairFromEnv(t *testing.T) {
	account, err := NewAccount()
	assert.NoError(t, err)

	raw, err := json.Marshal([]byte(account.privateKey))
	assert.NoError(t, err)
	t.Setenv("EPOCH_TEST_KEYPAIR", string(raw))

	fromEnv, err := KeypairFromEnv("EPOCH_TEST_KEYPAIR")
	assert.NoError(t, err)
	assert.Equal(t, account.Address, fromEnv.Address)

	_, err = KeypairFromEnv("EPOCH_TEST_KEYPAIR_MISSING")
	assert.Error(t, err)

	t.Setenv("EPOCH_TEST_KEYPAIR_BAD", "not json")
	_, err = KeypairFromEnv("EPOCH_TEST_KEYPAIR_BAD")
	assert.Error(t, err)
}
