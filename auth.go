package epoch

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/sync/errgroup"

	"github.com/0xBreath/epoch-app/crypto"
)

// VerifyWallet proves ownership of the wallet key to the Epoch service and
// returns the session api key.  The wallet must expose message signing; the
// signature is taken over the raw UTF-8 bytes of the challenge.
func (client *Client) VerifyWallet(signer crypto.Signer) (string, error) {
	messageSigner, ok := signer.(crypto.MessageSigner)
	if !ok {
		return "", ErrSignMessageUnsupported
	}
	key := signer.PublicKey()
	if key.IsZero() {
		return "", ErrMissingPublicKey
	}

	challenge, err := client.api.RequestChallenge(key)
	if err != nil {
		client.log.Error().Err(err).Str("wallet", key.String()).Msg("challenge request failed")
		return "", err
	}
	signature, err := messageSigner.SignMessage([]byte(challenge))
	if err != nil {
		return "", fmt.Errorf("sign challenge: %w", err)
	}
	token, err := client.api.AuthenticateSignature(key, base58.Encode(signature))
	if err != nil {
		client.log.Error().Err(err).Str("wallet", key.String()).Msg("authentication failed")
		return "", err
	}
	if token == "" {
		return "", ErrAuthenticationFailed
	}
	client.log.Debug().Str("wallet", key.String()).Msg("wallet verified")
	return token, nil
}

// reconcileState tags one cell of the profile/user presence matrix.
type reconcileState int

const (
	reconcileNone reconcileState = iota
	reconcileProfileOnly
	reconcileUserOnly
	reconcileMatch
	reconcileMismatch
)

func reconcile(profile *PlayerProfile, userProfile crypto.PublicKey, hasUser bool) reconcileState {
	switch {
	case profile == nil && !hasUser:
		return reconcileNone
	case profile != nil && !hasUser:
		return reconcileProfileOnly
	case profile == nil && hasUser:
		return reconcileUserOnly
	case profile.Key == userProfile:
		return reconcileMatch
	default:
		return reconcileMismatch
	}
}

// Connect authenticates the wallet and reconciles its on-chain profile with
// the service-side user record, creating whichever side is missing.  On
// success CurrentUser holds the connected user; the api key persists even
// when reconciliation fails, so a caller can retry without re-signing.
func (client *Client) Connect(signer crypto.Signer) (*EpochUser, error) {
	apiKey, err := client.VerifyWallet(signer)
	if err != nil {
		return nil, err
	}
	client.setApiKey(apiKey)

	var (
		profile     *PlayerProfile
		userProfile crypto.PublicKey
		hasUser     bool
	)
	var group errgroup.Group
	group.Go(func() error {
		var err error
		profile, err = client.EpochProfile(signer.PublicKey())
		return err
	})
	group.Go(func() error {
		var err error
		userProfile, hasUser, err = client.api.ReadUser(apiKey)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var stored crypto.PublicKey
	switch reconcile(profile, userProfile, hasUser) {
	case reconcileNone:
		created, err := client.CreateProfile(signer)
		if err != nil {
			return nil, err
		}
		stored, err = client.api.CreateUser(created.Key, apiKey)
		if err != nil {
			return nil, err
		}
	case reconcileProfileOnly:
		stored, err = client.api.CreateUser(profile.Key, apiKey)
		if err != nil {
			return nil, err
		}
	case reconcileUserOnly:
		created, err := client.CreateProfile(signer)
		if err != nil {
			return nil, err
		}
		stored, err = client.api.UpdateUser(created.Key, apiKey)
		if err != nil {
			return nil, err
		}
	case reconcileMatch:
		// Re-read so the returned record is the service's, not the
		// reconciliation snapshot.
		refreshed, found, err := client.api.ReadUser(apiKey)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrInvariantViolation
		}
		stored = refreshed
	case reconcileMismatch:
		// The stored record is stale: drop it, start the wallet over with
		// a fresh profile, and point the record at that.
		client.log.Warn().
			Str("onchain", profile.Key.String()).
			Str("stored", userProfile.String()).
			Msg("user record points at a stale profile")
		if _, err := client.api.DeleteUser(userProfile, apiKey); err != nil {
			return nil, err
		}
		created, err := client.CreateProfile(signer)
		if err != nil {
			return nil, err
		}
		stored, err = client.api.UpdateUser(created.Key, apiKey)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvariantViolation
	}

	balance, err := client.api.UserBalance(apiKey)
	if err != nil {
		return nil, err
	}
	user := &EpochUser{
		Profile: stored,
		ApiKey:  apiKey,
		Vault:   Vault(stored),
		Balance: &balance,
	}
	client.setUser(user)
	client.log.Info().Str("profile", stored.String()).Msg("connected")
	return user, nil
}

// EpochProfile returns the wallet's canonical profile: the first on-chain
// profile whose auth is the wallet key, nil when none exists.
func (client *Client) EpochProfile(auth crypto.PublicKey) (*PlayerProfile, error) {
	profiles, err := ProfilesForKey(client.conn, auth, nil)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// ProfilesForKey lists every profile owned by auth, optionally narrowed to
// those carrying searchKey in any key slot.
func (client *Client) ProfilesForKey(auth crypto.PublicKey, searchKey *crypto.PublicKey) ([]PlayerProfile, error) {
	return ProfilesForKey(client.conn, auth, searchKey)
}

// GetOrCreateProfile returns the wallet's canonical profile, creating one
// when the wallet has none.
func (client *Client) GetOrCreateProfile(signer crypto.Signer) (*PlayerProfile, error) {
	profile, err := client.EpochProfile(signer.PublicKey())
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	return client.CreateProfile(signer)
}

// CreateProfile creates an on-chain profile for the wallet under a fresh
// client-side keypair, bundling profile creation and vault creation into a
// single transaction.  The wallet must be able to sign transactions.  A
// ledger rejection comes back as a *ProfileCreationError; a collision on the
// profile address fails fast with [ErrProfileExists] before anything is
// submitted.
func (client *Client) CreateProfile(signer crypto.Signer) (*PlayerProfile, error) {
	txnSigner, ok := signer.(crypto.TransactionSigner)
	if !ok {
		return nil, ErrSignTransactionUnsupported
	}
	auth := signer.PublicKey()
	if auth.IsZero() {
		return nil, ErrMissingPublicKey
	}

	profileId, err := crypto.NewAccount()
	if err != nil {
		return nil, err
	}

	profileIxs, err := EpochProfileIxs(CreateProfileConfig{
		Conn:        client.conn,
		ProfileId:   profileId.Address,
		ProfileAuth: auth,
		ProtocolKey: EpochProtocol,
	})
	if err != nil {
		return nil, err
	}
	vaultIxs := CreateVaultIxs(CreateVaultConfig{
		Profile: profileId.Address,
		Auth:    auth,
		Mint:    EpochMint,
		Payer:   auth,
	})

	instructions := append(profileIxs, vaultIxs...)
	signature, err := SendTransaction(client.conn, instructions, txnSigner, profileId)
	if err != nil {
		return nil, &ProfileCreationError{Err: err}
	}
	client.log.Info().
		Str("profile", profileId.Address.String()).
		Str("signature", signature).
		Msg("profile created")

	account, err := client.conn.AccountInfo(profileId.Address)
	if err != nil {
		return nil, err
	}
	if account == nil {
		// Submission accepted but the account is not yet visible.
		return &PlayerProfile{Key: profileId.Address, KeyThreshold: 1}, nil
	}
	return ParsePlayerProfile(profileId.Address, account.Data)
}
