package epoch

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/0xBreath/epoch-app/crypto"
)

// Permissions is a bitmask of what a profile key entry may do within its
// scope program.
type Permissions uint8

const (
	PermissionAuth Permissions = 1 << iota
	PermissionManageKeys
	PermissionDeposit
	PermissionWithdraw
	PermissionDrainVault
)

// AllProfilePermissions grants every profile-program permission.
func AllProfilePermissions() Permissions {
	return PermissionAuth | PermissionManageKeys
}

// AllVaultPermissions grants every vault-program permission.
func AllVaultPermissions() Permissions {
	return PermissionDeposit | PermissionWithdraw | PermissionDrainVault
}

// DrainVaultPermissions grants only the vault drain permission, the scope
// given to the protocol key on every profile.
func DrainVaultPermissions() Permissions {
	return PermissionDrainVault
}

// KeyEntry is one authorized signing key on a profile: the key, an optional
// expiry, the program scope the permissions apply to, and the permissions
// themselves.
type KeyEntry struct {
	Key         crypto.PublicKey
	ExpireTime  *int64
	Scope       crypto.PublicKey
	Permissions Permissions
}

// PlayerProfile is a decoded on-chain profile account.  ProfileKeys[0] is
// the profile auth; the first profile owned by a wallet is treated as
// canonical.
type PlayerProfile struct {
	Key          crypto.PublicKey
	KeyThreshold uint8
	ProfileKeys  []KeyEntry
}

// CreateProfileConfig configures [EpochProfileIxs].
type CreateProfileConfig struct {
	Conn         Connection
	ProfileId    crypto.PublicKey
	ProfileAuth  crypto.PublicKey
	ProtocolKey  crypto.PublicKey
	KeyThreshold uint8 // zero means 1
}

// CreateProfileIxs builds the create-profile instruction for the given key
// entries.  It fails fast with [ErrProfileExists], before building anything,
// when the target address already holds ledger account data.
func CreateProfileIxs(conn Connection, profileId crypto.PublicKey, auth crypto.PublicKey, keys []KeyEntry, keyThreshold uint8) ([]Instruction, error) {
	if !auth.IsZero() {
		entry := KeyEntry{
			Key:         auth,
			Scope:       PlayerProfileProgramID,
			Permissions: AllProfilePermissions(),
		}
		keys = append([]KeyEntry{entry}, keys...)
	}

	existing, err := conn.AccountInfo(profileId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileExists, profileId)
	}

	if keyThreshold == 0 {
		keyThreshold = 1
	}
	var data bytes.Buffer
	data.Write(InstructionDiscriminator("create_profile"))
	data.WriteByte(keyThreshold)
	writeU16(&data, uint16(len(keys)))
	for _, entry := range keys {
		writeKeyEntry(&data, entry)
	}

	ix := Instruction{
		ProgramID: PlayerProfileProgramID,
		Accounts: []AccountMeta{
			{Key: profileId, IsSigner: true, IsWritable: true},
			{Key: auth, IsSigner: true},
		},
		Data: data.Bytes(),
	}
	return []Instruction{ix}, nil
}

// EpochProfileIxs builds the instructions for an Epoch profile: the auth key
// gets full permissions on both the profile and vault scopes, and the
// protocol key gets drain-only permission on the vault scope.
func EpochProfileIxs(cfg CreateProfileConfig) ([]Instruction, error) {
	keys := []KeyEntry{
		{
			Key:         cfg.ProfileAuth,
			Scope:       ProfileVaultProgramID,
			Permissions: AllVaultPermissions(),
		},
		{
			Key:         cfg.ProtocolKey,
			Scope:       ProfileVaultProgramID,
			Permissions: DrainVaultPermissions(),
		},
	}
	return CreateProfileIxs(cfg.Conn, cfg.ProfileId, cfg.ProfileAuth, keys, cfg.KeyThreshold)
}

// ProfilesForKey fetches every profile whose auth (key entry 0) is the given
// key.  A non-nil searchKey narrows the result to profiles that carry it in
// any key slot.
func ProfilesForKey(conn Connection, auth crypto.PublicKey, searchKey *crypto.PublicKey) ([]PlayerProfile, error) {
	accounts, err := conn.ProgramAccounts(PlayerProfileProgramID)
	if err != nil {
		return nil, err
	}
	var profiles []PlayerProfile
	for _, entry := range accounts {
		profile, err := ParsePlayerProfile(entry.Key, entry.Account.Data)
		if err != nil {
			// Not every program account is a profile.
			continue
		}
		if len(profile.ProfileKeys) == 0 || profile.ProfileKeys[ProfileAuthKeyIndex].Key != auth {
			continue
		}
		if searchKey != nil && !profile.hasKey(*searchKey) {
			continue
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

func (profile *PlayerProfile) hasKey(key crypto.PublicKey) bool {
	for _, entry := range profile.ProfileKeys {
		if entry.Key == key {
			return true
		}
	}
	return false
}

// ParsePlayerProfile decodes a profile account's data.
func ParsePlayerProfile(key crypto.PublicKey, data []byte) (*PlayerProfile, error) {
	reader := bytes.NewReader(data)
	discriminant := make([]byte, 8)
	if _, err := reader.Read(discriminant); err != nil {
		return nil, fmt.Errorf("profile %s: %w", key, err)
	}
	if !bytes.Equal(discriminant, AccountDiscriminator("player_profile")) {
		return nil, fmt.Errorf("profile %s: wrong account discriminant", key)
	}
	profile := &PlayerProfile{Key: key}
	if err := binary.Read(reader, binary.LittleEndian, &profile.KeyThreshold); err != nil {
		return nil, fmt.Errorf("profile %s: %w", key, err)
	}
	count, err := readU16(reader)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", key, err)
	}
	for i := uint16(0); i < count; i++ {
		entry, err := readKeyEntry(reader)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", key, err)
		}
		profile.ProfileKeys = append(profile.ProfileKeys, entry)
	}
	return profile, nil
}

// encodeProfileAccountData is the inverse of [ParsePlayerProfile]; the
// in-memory ledger fake materializes created profiles with it.
func encodeProfileAccountData(keyThreshold uint8, keys []KeyEntry) []byte {
	var buf bytes.Buffer
	buf.Write(AccountDiscriminator("player_profile"))
	buf.WriteByte(keyThreshold)
	writeU16(&buf, uint16(len(keys)))
	for _, entry := range keys {
		writeKeyEntry(&buf, entry)
	}
	return buf.Bytes()
}

func writeKeyEntry(buf *bytes.Buffer, entry KeyEntry) {
	buf.Write(entry.Key[:])
	if entry.ExpireTime != nil {
		buf.WriteByte(1)
		writeU64(buf, uint64(*entry.ExpireTime))
	} else {
		buf.WriteByte(0)
		writeU64(buf, 0)
	}
	buf.Write(entry.Scope[:])
	buf.WriteByte(byte(entry.Permissions))
}

func readKeyEntry(reader *bytes.Reader) (KeyEntry, error) {
	var entry KeyEntry
	if _, err := reader.Read(entry.Key[:]); err != nil {
		return entry, err
	}
	hasExpiry, err := reader.ReadByte()
	if err != nil {
		return entry, err
	}
	var expiry uint64
	if err := binary.Read(reader, binary.LittleEndian, &expiry); err != nil {
		return entry, err
	}
	if hasExpiry == 1 {
		signed := int64(expiry)
		entry.ExpireTime = &signed
	}
	if _, err := reader.Read(entry.Scope[:]); err != nil {
		return entry, err
	}
	permissions, err := reader.ReadByte()
	if err != nil {
		return entry, err
	}
	entry.Permissions = Permissions(permissions)
	return entry, nil
}
