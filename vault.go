package epoch

import (
	"bytes"

	"github.com/0xBreath/epoch-app/crypto"
	"github.com/0xBreath/epoch-app/internal/util"
)

// FindVaultSigner derives the vault signing authority for a profile and
// mint.  The derivation is deterministic, so both sides of the protocol
// arrive at the same address without coordination.
func FindVaultSigner(profile crypto.PublicKey, mint crypto.PublicKey) crypto.PublicKey {
	return derivedKey([]byte("vault_signer"), profile[:], mint[:], ProfileVaultProgramID[:])
}

// AssociatedTokenAddress derives the deterministic token-2022 account for an
// owner and mint.
func AssociatedTokenAddress(mint crypto.PublicKey, owner crypto.PublicKey) crypto.PublicKey {
	return derivedKey(owner[:], Token2022ProgramID[:], mint[:], AssociatedTokenProgramID[:])
}

func derivedKey(chunks ...[]byte) crypto.PublicKey {
	var key crypto.PublicKey
	copy(key[:], util.Sha256(chunks...))
	return key
}

// VaultAuth derives the vault authority for a profile under the protocol
// billing mint.
func VaultAuth(profile crypto.PublicKey) crypto.PublicKey {
	return FindVaultSigner(profile, EpochMint)
}

// Vault derives the token account holding a profile's billing credits.
func Vault(profile crypto.PublicKey) crypto.PublicKey {
	return AssociatedTokenAddress(EpochMint, VaultAuth(profile))
}

// CreateVaultConfig configures [CreateVaultIxs].
type CreateVaultConfig struct {
	Profile crypto.PublicKey
	Auth    crypto.PublicKey
	Mint    crypto.PublicKey
	Payer   crypto.PublicKey
}

// CreateVaultIxs builds the instructions that open a vault for a profile:
// create the vault token account, then register it with the vault program
// under the profile's designated vault-authority key slot.
func CreateVaultIxs(cfg CreateVaultConfig) []Instruction {
	vaultSigner := FindVaultSigner(cfg.Profile, cfg.Mint)
	vault := AssociatedTokenAddress(cfg.Mint, vaultSigner)

	createAccount := Instruction{
		ProgramID: AssociatedTokenProgramID,
		Accounts: []AccountMeta{
			{Key: cfg.Payer, IsSigner: true, IsWritable: true},
			{Key: vault, IsWritable: true},
			{Key: vaultSigner},
			{Key: cfg.Mint},
			{Key: Token2022ProgramID},
		},
	}

	var data bytes.Buffer
	data.Write(InstructionDiscriminator("init_vault"))
	data.WriteByte(VaultAuthKeyIndex)
	initVault := Instruction{
		ProgramID: ProfileVaultProgramID,
		Accounts: []AccountMeta{
			{Key: cfg.Profile, IsWritable: true},
			{Key: cfg.Auth, IsSigner: true},
			{Key: vaultSigner},
			{Key: vault, IsWritable: true},
			{Key: cfg.Mint},
			{Key: Token2022ProgramID},
		},
		Data: data.Bytes(),
	}

	return []Instruction{createAccount, initVault}
}

// CreateVault opens a vault for an existing profile in its own transaction.
// Profile creation bundles [CreateVaultIxs] instead, so this is only needed
// when a vault was drained of its account or created out of band.
func CreateVault(conn Connection, cfg CreateVaultConfig, payer crypto.TransactionSigner) (string, error) {
	sig, err := SendTransaction(conn, CreateVaultIxs(cfg), payer)
	if err != nil {
		return "", &VaultCreationError{Err: err}
	}
	return sig, nil
}

// CreditVaultConfig configures [CreditVaultIx].
type CreditVaultConfig struct {
	Profile crypto.PublicKey
	Funder  crypto.PublicKey
	Mint    crypto.PublicKey
	Amount  uint64
}

// CreditVaultIx builds a transfer of billing credits from the funder's token
// account into a profile's vault.
func CreditVaultIx(cfg CreditVaultConfig) Instruction {
	vault := AssociatedTokenAddress(cfg.Mint, FindVaultSigner(cfg.Profile, cfg.Mint))
	source := AssociatedTokenAddress(cfg.Mint, cfg.Funder)

	var data bytes.Buffer
	data.Write(InstructionDiscriminator("credit_vault"))
	writeU64(&data, cfg.Amount)
	return Instruction{
		ProgramID: ProfileVaultProgramID,
		Accounts: []AccountMeta{
			{Key: cfg.Profile},
			{Key: source, IsWritable: true},
			{Key: vault, IsWritable: true},
			{Key: cfg.Funder, IsSigner: true},
			{Key: cfg.Mint},
			{Key: Token2022ProgramID},
		},
		Data: data.Bytes(),
	}
}

// CreditVault transfers billing credits into a profile's vault.
func CreditVault(conn Connection, cfg CreditVaultConfig, funder crypto.TransactionSigner) (string, error) {
	return SendTransaction(conn, []Instruction{CreditVaultIx(cfg)}, funder)
}

// DebitVaultConfig configures [DebitVault].
type DebitVaultConfig struct {
	Profile crypto.PublicKey
	Drainer crypto.PublicKey
	Mint    crypto.PublicKey
	Amount  uint64 // zero drains the full balance
}

// CreateVault opens a vault for the profile through the client's ledger
// connection.
func (client *Client) CreateVault(cfg CreateVaultConfig, payer crypto.TransactionSigner) (string, error) {
	return CreateVault(client.conn, cfg, payer)
}

// CreditVault transfers billing credits into the profile's vault through the
// client's ledger connection.
func (client *Client) CreditVault(cfg CreditVaultConfig, funder crypto.TransactionSigner) (string, error) {
	return CreditVault(client.conn, cfg, funder)
}

// DebitVault drains the profile's vault through the client's ledger
// connection.
func (client *Client) DebitVault(cfg DebitVaultConfig, drainer crypto.TransactionSigner) (string, error) {
	return DebitVault(client.conn, cfg, drainer)
}

// DebitVault drains credits from a profile's vault to the drainer's token
// account, creating that account first when it does not exist yet.  Only a
// key holding drain permission on the vault scope can sign this.
func DebitVault(conn Connection, cfg DebitVaultConfig, drainer crypto.TransactionSigner) (string, error) {
	vaultSigner := FindVaultSigner(cfg.Profile, cfg.Mint)
	vault := AssociatedTokenAddress(cfg.Mint, vaultSigner)
	destination := AssociatedTokenAddress(cfg.Mint, cfg.Drainer)

	var instructions []Instruction
	existing, err := conn.AccountInfo(destination)
	if err != nil {
		return "", err
	}
	if existing == nil {
		instructions = append(instructions, Instruction{
			ProgramID: AssociatedTokenProgramID,
			Accounts: []AccountMeta{
				{Key: cfg.Drainer, IsSigner: true, IsWritable: true},
				{Key: destination, IsWritable: true},
				{Key: cfg.Drainer},
				{Key: cfg.Mint},
				{Key: Token2022ProgramID},
			},
		})
	}

	var data bytes.Buffer
	data.Write(InstructionDiscriminator("drain_vault"))
	data.WriteByte(VaultDrainerKeyIndex)
	writeU64(&data, cfg.Amount)
	instructions = append(instructions, Instruction{
		ProgramID: ProfileVaultProgramID,
		Accounts: []AccountMeta{
			{Key: cfg.Profile},
			{Key: cfg.Drainer, IsSigner: true},
			{Key: vaultSigner},
			{Key: vault, IsWritable: true},
			{Key: destination, IsWritable: true},
			{Key: cfg.Mint},
			{Key: Token2022ProgramID},
		},
		Data: data.Bytes(),
	})

	return SendTransaction(conn, instructions, drainer)
}
