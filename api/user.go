package api

import (
	"net/http"

	"github.com/0xBreath/epoch-app/crypto"
)

// RequestChallenge asks the service for a one-time challenge string for the
// given wallet key.
func (c *Client) RequestChallenge(key crypto.PublicKey) (string, error) {
	var challenge string
	err := c.Post("/challenge", "", RequestChallenge{Key: key.String()}, &challenge)
	if err != nil {
		return "", err
	}
	return challenge, nil
}

// AuthenticateSignature submits a base58 signature over the challenge.  The
// returned token is empty when the service rejected the signature; deciding
// whether that is an error belongs to the caller.
func (c *Client) AuthenticateSignature(key crypto.PublicKey, signature string) (string, error) {
	var token string
	err := c.Post("/authenticate", "", AuthenticateSignature{Key: key.String(), Signature: signature}, &token)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Airdrop requests a test-token airdrop to the given wallet key.
func (c *Client) Airdrop(key crypto.PublicKey) error {
	return c.Post("/airdrop", "", RequestAirdrop{Key: key.String()}, nil)
}

// CreateUser registers the profile as the user record for this api key.  The
// service echoes the stored profile key back.
func (c *Client) CreateUser(profile crypto.PublicKey, apiKey string) (crypto.PublicKey, error) {
	return c.writeUser("/create-user", profile, apiKey)
}

// UpdateUser overwrites the user record to point at the given profile.
func (c *Client) UpdateUser(profile crypto.PublicKey, apiKey string) (crypto.PublicKey, error) {
	return c.writeUser("/update-user", profile, apiKey)
}

func (c *Client) writeUser(path string, profile crypto.PublicKey, apiKey string) (crypto.PublicKey, error) {
	var raw string
	if err := c.Post(path, apiKey, EpochProfile{Profile: profile.String()}, &raw); err != nil {
		return crypto.PublicKey{}, err
	}
	stored, err := crypto.ParsePublicKey(raw)
	if err != nil {
		return crypto.PublicKey{}, &TransportError{StatusCode: http.StatusOK, Method: http.MethodPost, URL: c.BaseUrl + path, Err: err}
	}
	return stored, nil
}

// DeleteUser removes the user record.  Returns the service's confirmation
// message.
func (c *Client) DeleteUser(profile crypto.PublicKey, apiKey string) (string, error) {
	var msg string
	err := c.Post("/delete-user", apiKey, EpochProfile{Profile: profile.String()}, &msg)
	if err != nil {
		return "", err
	}
	return msg, nil
}

// ReadUser fetches the profile key stored server-side under the api key.
// found is false when no user record exists.
func (c *Client) ReadUser(apiKey string) (profile crypto.PublicKey, found bool, err error) {
	var raw string
	if err := c.Get("/read-user", apiKey, &raw); err != nil {
		return crypto.PublicKey{}, false, err
	}
	if raw == "" {
		return crypto.PublicKey{}, false, nil
	}
	profile, parseErr := crypto.ParsePublicKey(raw)
	if parseErr != nil {
		return crypto.PublicKey{}, false, &TransportError{StatusCode: http.StatusOK, Method: http.MethodGet, URL: c.BaseUrl + "/read-user", Err: parseErr}
	}
	return profile, true, nil
}

// UserBalance fetches the current vault balance for the api key's user.
func (c *Client) UserBalance(apiKey string) (VaultBalance, error) {
	var balance VaultBalance
	err := c.Get("/user-balance", apiKey, &balance)
	return balance, err
}
