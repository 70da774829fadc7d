package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xBreath/epoch-app/api"
	"github.com/0xBreath/epoch-app/crypto"
)

// Every billable query must refuse to touch the network before
// authentication.
func Test_Queries_RequireAuth(t *testing.T) {
	client, gateway, _ := newTestClient(t)

	_, err := client.AccountId(api.QueryAccountId{Id: 1})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.Accounts(api.QueryAccounts{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	owner := PlayerProfileProgramID.String()
	_, err = client.DecodedAccounts(api.QueryDecodedAccounts{Owner: owner, Discriminant: "deadbeef"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.RegisteredTypes()
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = client.FilteredRegisteredTypes(api.QueryRegisteredTypes{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	for path, count := range gateway.calls {
		assert.Zero(t, count, "unexpected call to %s", path)
	}
}

func Test_Accounts_RefreshesBalance(t *testing.T) {
	client, gateway, _ := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	_, err = client.Connect(wallet)
	assert.NoError(t, err)

	before := gateway.callCount("/user-balance")
	accounts, err := client.Accounts(api.QueryAccounts{})
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, before+1, gateway.callCount("/user-balance"))
}

func Test_AccountId(t *testing.T) {
	client, _, _ := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	_, err = client.Connect(wallet)
	assert.NoError(t, err)

	account, err := client.AccountId(api.QueryAccountId{Id: 1})
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), account.Id)
}

func Test_DecodedAccounts(t *testing.T) {
	client, _, _ := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	_, err = client.Connect(wallet)
	assert.NoError(t, err)

	owner := PlayerProfileProgramID.String()
	accounts, err := client.DecodedAccounts(api.QueryDecodedAccounts{Owner: owner, Discriminant: "deadbeef"})
	assert.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, float64(7), accounts[0].Decoded["points"])
}

// GET serves the full catalog; POST on the same path filters it.
func Test_RegisteredTypes(t *testing.T) {
	client, _, _ := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	_, err = client.Connect(wallet)
	assert.NoError(t, err)

	all, err := client.RegisteredTypes()
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	name := "player_profile"
	filtered, err := client.FilteredRegisteredTypes(api.QueryRegisteredTypes{ProgramName: &name})
	assert.NoError(t, err)
	assert.Len(t, filtered, 1)
}

// A query against a session with no loaded user still succeeds; there is
// simply no cached balance to refresh.
func Test_Query_NoUserLoaded(t *testing.T) {
	client, gateway, _ := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	apiKey, err := client.VerifyWallet(wallet)
	assert.NoError(t, err)
	client.setApiKey(apiKey)

	before := gateway.callCount("/user-balance")
	_, err = client.RegisteredTypes()
	assert.NoError(t, err)
	assert.Equal(t, before, gateway.callCount("/user-balance"))
}
