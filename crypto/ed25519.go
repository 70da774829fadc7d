package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
)

// Signer is the minimum capability the client needs from a wallet: it can
// tell us who it is.
type Signer interface {
	PublicKey() PublicKey
}

// MessageSigner is the optional capability used by wallet verification.
// Hardware wallets or restricted adapters may expose [Signer] without it.
type MessageSigner interface {
	Signer
	SignMessage(msg []byte) ([]byte, error)
}

// TransactionSigner signs a serialized transaction message.  The submission
// plumbing asserts this on every required signer.
type TransactionSigner interface {
	Signer
	Sign(message []byte) ([]byte, error)
}

// Account is an ed25519 keypair implementing all signer capabilities.  It
// backs bots and tests; browser wallets implement the interfaces directly.
type Account struct {
	Address    PublicKey
	privateKey ed25519.PrivateKey
}

// NewAccount generates a fresh random keypair.
func NewAccount() (*Account, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	address, err := PublicKeyFromBytes(pub)
	if err != nil {
		return nil, err
	}
	return &Account{Address: address, privateKey: priv}, nil
}

// AccountFromSecretKey rebuilds an account from a 64-byte ed25519 secret key.
func AccountFromSecretKey(secretKey []byte) (*Account, error) {
	if len(secretKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid secret key: %d bytes, want %d", len(secretKey), ed25519.PrivateKeySize)
	}
	priv := ed25519.PrivateKey(make([]byte, ed25519.PrivateKeySize))
	copy(priv, secretKey)
	address, err := PublicKeyFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Account{Address: address, privateKey: priv}, nil
}

// KeypairFromEnv reads a secret key from the named environment variable.
// The value is a JSON array of bytes, the same layout solana-keygen writes
// to disk.
func KeypairFromEnv(name string) (*Account, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return nil, fmt.Errorf("%s not found in env", name)
	}
	var secretKey []byte
	if err := json.Unmarshal([]byte(raw), &secretKey); err != nil {
		return nil, fmt.Errorf("%s is not a JSON byte array: %w", name, err)
	}
	return AccountFromSecretKey(secretKey)
}

// PublicKey implements [Signer].
func (account *Account) PublicKey() PublicKey {
	return account.Address
}

// SignMessage implements [MessageSigner].
func (account *Account) SignMessage(msg []byte) ([]byte, error) {
	return ed25519.Sign(account.privateKey, msg), nil
}

// Sign implements [TransactionSigner].
func (account *Account) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(account.privateKey, message), nil
}

// Verify checks an ed25519 signature against the account's public key.
func (account *Account) Verify(msg []byte, sig []byte) bool {
	return ed25519.Verify(account.Address[:], msg, sig)
}
