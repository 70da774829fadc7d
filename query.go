package epoch

import (
	"github.com/0xBreath/epoch-app/api"
)

// Billable queries.  Every method gates on the session api key before any
// network traffic, and refreshes the cached vault balance after a successful
// call so CurrentUser reflects what the query cost.

// AccountId fetches a single raw account by id.
func (client *Client) AccountId(query api.QueryAccountId) (*api.EpochAccount, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	account, err := client.api.AccountId(client.apiKey, query)
	if err != nil {
		return nil, err
	}
	if err := client.refreshBalance(); err != nil {
		return nil, err
	}
	return &account, nil
}

// Accounts fetches raw accounts matching the query filters.
func (client *Client) Accounts(query api.QueryAccounts) ([]api.EpochAccount, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	accounts, err := client.api.Accounts(client.apiKey, query)
	if err != nil {
		return nil, err
	}
	if err := client.refreshBalance(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// DecodedAccounts fetches accounts decoded into JSON-like maps.
func (client *Client) DecodedAccounts(query api.QueryDecodedAccounts) ([]api.JsonEpochAccount, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	accounts, err := client.api.DecodedAccounts(client.apiKey, query)
	if err != nil {
		return nil, err
	}
	if err := client.refreshBalance(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// RegisteredTypes fetches every account type descriptor the decoding service
// knows about.
func (client *Client) RegisteredTypes() ([]api.RegisteredType, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	types, err := client.api.RegisteredTypes(client.apiKey)
	if err != nil {
		return nil, err
	}
	if err := client.refreshBalance(); err != nil {
		return nil, err
	}
	return types, nil
}

// FilteredRegisteredTypes fetches the type descriptors matching the filter.
func (client *Client) FilteredRegisteredTypes(query api.QueryRegisteredTypes) ([]api.RegisteredType, error) {
	if client.apiKey == "" {
		return nil, ErrUnauthenticated
	}
	types, err := client.api.FilteredRegisteredTypes(client.apiKey, query)
	if err != nil {
		return nil, err
	}
	if err := client.refreshBalance(); err != nil {
		return nil, err
	}
	return types, nil
}
