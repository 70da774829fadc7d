// Package crypto holds the key material used by the Epoch SDK: base58
// public keys, ed25519 accounts, and the signer capability interfaces the
// client consumes.  Wallet adapters and bots both plug in through [Signer]
// and [MessageSigner].
package crypto
