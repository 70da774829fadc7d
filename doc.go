// Package epoch is a Go interface into the Epoch account-decoding service
// and its on-chain profile and vault programs.
//
// The Epoch Go SDK provides a way to authenticate a wallet, manage the
// on-chain player profile and billing vault tied to it, and run billed
// account queries against the service.
//
// You can connect a wallet and run a query with the below example:
//
//	// Create a Client
//	client, err := epoch.NewClient(epoch.DevnetConfig)
//	if err != nil {
//	panic("Failed to create client " + err.Error())
//	}
//
//	// Load the wallet keypair from the environment
//	wallet, err := crypto.KeypairFromEnv("WALLET_KEYPAIR")
//	if err != nil {
//	panic("Failed to load wallet:" + err.Error())
//	}
//
//	// Connect: verifies the wallet, then creates or reconciles the
//	// on-chain profile and the service-side user record
//	user, err := client.Connect(wallet)
//	if err != nil {
//	panic("Failed to connect:" + err.Error())
//	}
//	fmt.Printf("Connected as profile %s with %f credits\n", user.Profile, user.Balance.UiAmount)
//
//	// Run a billed query; the cached balance refreshes afterwards
//	owner := epoch.PlayerProfileProgramID.String()
//	accounts, err := client.Accounts(api.QueryAccounts{Owner: &owner})
//	if err != nil {
//	panic("Failed to query accounts:" + err.Error())
//	}
//	fmt.Printf("Found %d accounts\n", len(accounts))
package epoch
