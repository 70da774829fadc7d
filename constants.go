package epoch

import "github.com/0xBreath/epoch-app/crypto"

// Epoch REST service endpoints per environment.
const (
	DevEpochEndpoint  = "https://api.dev.epoch.fm"
	ProdEpochEndpoint = "https://api.epoch.fm"
)

// Default ledger RPC endpoints per environment.
const (
	DevRpcEndpoint  = "https://api.devnet.solana.com"
	ProdRpcEndpoint = "https://api.mainnet-beta.solana.com"
)

var (
	// PlayerProfileProgramID is the on-chain player-profile identity program.
	PlayerProfileProgramID = crypto.MustParsePublicKey("pprofELXjL5Kck7Jn5hCpwAL82DpTkSYBENzahVtbc9")

	// ProfileVaultProgramID is the on-chain token-vault program.
	ProfileVaultProgramID = crypto.MustParsePublicKey("C6ciL8mZc85Le8TR6Pr312aiwD5frUA8ZrAXnWSqeihC")

	// Token2022ProgramID owns all vault token accounts.
	Token2022ProgramID = crypto.MustParsePublicKey("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// AssociatedTokenProgramID creates deterministic token accounts.
	AssociatedTokenProgramID = crypto.MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// EpochMint is the protocol billing-credit mint every vault is tied to.
	EpochMint = crypto.MustParsePublicKey("8ZFW8jdZq5sGMWkmbxHvsDFHQBpntaMJZybyypvrfwbX")

	// EpochProtocol is the protocol-controlled key granted drain permission
	// on every profile's vault scope.
	EpochProtocol = crypto.MustParsePublicKey("GsdJTfgGBvuyJN9jtGAFgbmDXQmkgZq5LkWrHUUfsRt9")
)

// VaultAuthKeyIndex is the designated vault-authority slot in a profile's
// key list: 0 is the profile auth, 1 the vault authority, 2 the drainer.
const (
	ProfileAuthKeyIndex  = 0
	VaultAuthKeyIndex    = 1
	VaultDrainerKeyIndex = 2
)
