package api

// VaultBalance is a snapshot of a vault token account's available and
// withheld balances.
//
// Example:
//
//	{
//		"amount": 10000,
//		"ui_amount": 100.0,
//		"withheld_amount": 0,
//		"ui_withheld_amount": 0.0,
//		"decimals": 2
//	}
type VaultBalance struct {
	Amount           uint64  `json:"amount"`
	UiAmount         float64 `json:"ui_amount"`
	WithheldAmount   uint64  `json:"withheld_amount"`
	UiWithheldAmount float64 `json:"ui_withheld_amount"`
	Decimals         uint8   `json:"decimals"`
}

// RequestChallenge is the body of POST /challenge.
type RequestChallenge struct {
	Key string `json:"key"`
}

// AuthenticateSignature is the body of POST /authenticate.
type AuthenticateSignature struct {
	Key       string `json:"key"`
	Signature string `json:"signature"`
}

// RequestAirdrop is the body of POST /airdrop.
type RequestAirdrop struct {
	Key string `json:"key"`
}

// EpochProfile is the body of the create-user, update-user, and delete-user
// endpoints.
type EpochProfile struct {
	Profile string `json:"profile"`
}

// QueryAccountId queries a single raw account by its row id.
type QueryAccountId struct {
	Id uint64 `json:"id"`
}

// QueryAccounts filters raw accounts.  Nil fields are omitted from the
// filter, matching everything.
type QueryAccounts struct {
	Key     *string `json:"key"`
	Slot    *uint64 `json:"slot"`
	MinSlot *uint64 `json:"min_slot"`
	MaxSlot *uint64 `json:"max_slot"`
	Owner   *string `json:"owner"`
	Limit   *uint64 `json:"limit"`
	Offset  *uint64 `json:"offset"`
}

// EpochAccount is a raw on-chain account record served by the gateway.
type EpochAccount struct {
	Id           uint64 `json:"id"`
	Key          string `json:"key"`
	Slot         uint64 `json:"slot"`
	Lamports     uint64 `json:"lamports"`
	Owner        string `json:"owner"`
	Executable   bool   `json:"executable"`
	RentEpoch    uint64 `json:"rent_epoch"`
	Discriminant []byte `json:"discriminant"`
	Data         []byte `json:"data"`
}

// QueryDecodedAccounts filters decoded accounts.  Owner and discriminant are
// required: decoding is only defined for registered layouts.
type QueryDecodedAccounts struct {
	Key          *string `json:"key"`
	Slot         *uint64 `json:"slot"`
	MinSlot      *uint64 `json:"min_slot"`
	MaxSlot      *uint64 `json:"max_slot"`
	Owner        string  `json:"owner"`
	Discriminant string  `json:"discriminant"`
	Limit        *uint64 `json:"limit"`
	Offset       *uint64 `json:"offset"`
}

// JsonEpochAccount is a decoded account record.  Decoded is schemaless; its
// shape is described by the matching [RegisteredType].
type JsonEpochAccount struct {
	Key     string         `json:"key"`
	Slot    uint64         `json:"slot"`
	Owner   string         `json:"owner"`
	Decoded map[string]any `json:"decoded"`
}

// QueryRegisteredTypes filters registered type descriptors.
type QueryRegisteredTypes struct {
	ProgramName  *string `json:"program_name"`
	Program      *string `json:"program"`
	Discriminant *string `json:"discriminant"`
}

// RegisteredType is a schema descriptor for a decodable on-chain account
// layout.
type RegisteredType struct {
	ProgramName         string `json:"program_name"`
	Program             string `json:"program"`
	AccountDiscriminant string `json:"account_discriminant"`
	AccountType         any    `json:"account_type"`
}
