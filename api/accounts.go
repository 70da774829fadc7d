package api

// AccountId queries a single raw account by id.
func (c *Client) AccountId(apiKey string, body QueryAccountId) (EpochAccount, error) {
	var account EpochAccount
	err := c.Post("/account-id", apiKey, body, &account)
	return account, err
}

// Accounts queries raw accounts by the given filters.
func (c *Client) Accounts(apiKey string, body QueryAccounts) ([]EpochAccount, error) {
	var accounts []EpochAccount
	err := c.Post("/accounts", apiKey, body, &accounts)
	return accounts, err
}

// DecodedAccounts queries decoded accounts by the given filters.
func (c *Client) DecodedAccounts(apiKey string, body QueryDecodedAccounts) ([]JsonEpochAccount, error) {
	var accounts []JsonEpochAccount
	err := c.Post("/decoded-accounts", apiKey, body, &accounts)
	return accounts, err
}
