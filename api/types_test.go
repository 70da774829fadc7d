package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_VaultBalance(t *testing.T) {
	testJson := `{
		"amount": 10000,
		"ui_amount": 100.0,
		"withheld_amount": 1500,
		"ui_withheld_amount": 15.0,
		"decimals": 2
	}`
	data := &VaultBalance{}
	err := json.Unmarshal([]byte(testJson), &data)
	assert.NoError(t, err)
	assert.Equal(t, uint64(10000), data.Amount)
	assert.Equal(t, uint64(1500), data.WithheldAmount)
	assert.Equal(t, uint8(2), data.Decimals)
}

func Test_QueryAccountsOmitsNothing(t *testing.T) {
	// The service treats explicit nulls as "match anything"; the filter is
	// always sent in full.
	encoded, err := json.Marshal(QueryAccounts{})
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"key": null,
		"slot": null,
		"min_slot": null,
		"max_slot": null,
		"owner": null,
		"limit": null,
		"offset": null
	}`, string(encoded))
}

func Test_JsonEpochAccount(t *testing.T) {
	testJson := `{
		"key": "pprofELXjL5Kck7Jn5hCpwAL82DpTkSYBENzahVtbc9",
		"slot": 1234,
		"owner": "C6ciL8mZc85Le8TR6Pr312aiwD5frUA8ZrAXnWSqeihC",
		"decoded": {"version": 1, "auth_key_count": 2}
	}`
	data := &JsonEpochAccount{}
	err := json.Unmarshal([]byte(testJson), &data)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1234), data.Slot)
	assert.Equal(t, float64(1), data.Decoded["version"])
}
