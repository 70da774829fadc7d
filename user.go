package epoch

import (
	"github.com/0xBreath/epoch-app/api"
	"github.com/0xBreath/epoch-app/crypto"
)

// CreateUser registers the profile as this session's user record and loads
// it as CurrentUser with a fresh balance.  The api key is provided by the
// caller when it was obtained out of band, e.g. from a stored session.
func (client *Client) CreateUser(profile crypto.PublicKey, apiKey string) (*EpochUser, error) {
	return client.writeUser(profile, apiKey, client.api.CreateUser)
}

// UpdateUser points the session's user record at a different profile and
// reloads CurrentUser.
func (client *Client) UpdateUser(profile crypto.PublicKey, apiKey string) (*EpochUser, error) {
	return client.writeUser(profile, apiKey, client.api.UpdateUser)
}

func (client *Client) writeUser(profile crypto.PublicKey, apiKey string, write func(crypto.PublicKey, string) (crypto.PublicKey, error)) (*EpochUser, error) {
	client.setApiKey(apiKey)
	stored, err := write(profile, apiKey)
	if err != nil {
		return nil, err
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
	return user, nil
}

// ReadEpochUser fetches the user record under the given api key and returns
// it fully materialized, without touching CurrentUser.  Returns nil when no
// record exists.
func (client *Client) ReadEpochUser(apiKey string) (*EpochUser, error) {
	profile, found, err := client.api.ReadUser(apiKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	balance, err := client.api.UserBalance(apiKey)
	if err != nil {
		return nil, err
	}
	return &EpochUser{
		Profile: profile,
		ApiKey:  apiKey,
		Vault:   Vault(profile),
		Balance: &balance,
	}, nil
}

// ReadUser fetches the profile key stored under the session's api key.
// found is false when no user record exists.
func (client *Client) ReadUser() (crypto.PublicKey, bool, error) {
	if client.apiKey == "" {
		return crypto.PublicKey{}, false, ErrUnauthenticated
	}
	return client.api.ReadUser(client.apiKey)
}

// DeleteUser removes the session's user record when one exists, clearing
// CurrentUser.  Deleting an absent record is not an error.
func (client *Client) DeleteUser() error {
	if client.apiKey == "" {
		return ErrUnauthenticated
	}
	profile, found, err := client.api.ReadUser(client.apiKey)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if _, err := client.api.DeleteUser(profile, client.apiKey); err != nil {
		return err
	}
	client.setUser(nil)
	client.log.Info().Str("profile", profile.String()).Msg("user deleted")
	return nil
}

// UserBalance fetches the live vault balance for the session's user.  The
// result is never served from the cached CurrentUser.
func (client *Client) UserBalance() (*api.VaultBalance, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	balance, err := client.api.UserBalance(client.apiKey)
	if err != nil {
		return nil, err
	}
	if client.CurrentUser != nil {
		client.CurrentUser.Balance = &balance
		client.notify()
	}
	return &balance, nil
}

// Airdrop requests test tokens to the given wallet key, then refreshes the
// cached balance.
func (client *Client) Airdrop(key crypto.PublicKey) error {
	if err := client.api.Airdrop(key); err != nil {
		return err
	}
	return client.refreshBalance()
}

// refreshBalance reloads CurrentUser.Balance after a billable call.  A
// missing user is not an error; there is simply nothing to refresh.
func (client *Client) refreshBalance() error {
	if client.CurrentUser == nil {
		client.log.Debug().Msg("no user loaded, skipping balance refresh")
		return nil
	}
	balance, err := client.api.UserBalance(client.apiKey)
	if err != nil {
		return err
	}
	client.CurrentUser.Balance = &balance
	client.notify()
	return nil
}
