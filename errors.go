package epoch

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPublicKey is returned when a signer reports a zero public key.
	ErrMissingPublicKey = errors.New("wallet missing public key")

	// ErrSignMessageUnsupported is returned when a signer does not expose the
	// message-signing capability required for wallet verification.
	ErrSignMessageUnsupported = errors.New("wallet does not support signMessage")

	// ErrSignTransactionUnsupported is returned when a signer cannot sign
	// transactions, which on-chain profile creation requires.
	ErrSignTransactionUnsupported = errors.New("wallet does not support signTransaction")

	// ErrAuthenticationFailed is returned when the challenge/signature flow
	// did not yield a token.
	ErrAuthenticationFailed = errors.New("signature verification failed")

	// ErrUnauthenticated is returned when an operation requiring a bearer
	// token runs before one was obtained.
	ErrUnauthenticated = errors.New("api key not set")

	// ErrProfileExists is returned before any instruction is built when the
	// target profile address already holds ledger account data.
	ErrProfileExists = errors.New("profile already exists")

	// ErrInvariantViolation marks a reconciliation state that the presence
	// matrix should make unreachable.
	ErrInvariantViolation = errors.New("unexpected reconciliation state")
)

// ProfileCreationError wraps a ledger rejection of the combined
// profile+vault creation transaction.
type ProfileCreationError struct {
	Err error
}

func (e *ProfileCreationError) Error() string {
	return fmt.Sprintf("failed to create profile: %v", e.Err)
}

func (e *ProfileCreationError) Unwrap() error {
	return e.Err
}

// VaultCreationError wraps a ledger rejection of a vault creation
// transaction.
type VaultCreationError struct {
	Err error
}

func (e *VaultCreationError) Error() string {
	return fmt.Sprintf("failed to create vault: %v", e.Err)
}

func (e *VaultCreationError) Unwrap() error {
	return e.Err
}
