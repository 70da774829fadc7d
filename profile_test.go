package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xBreath/epoch-app/crypto"
)

func Test_CreateProfileIxs_Collision(t *testing.T) {
	_, _, ledger := newTestClient(t)
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	taken := ledger.seedProfile(t, wallet.Address)

	// Fails before any instruction is built.
	_, err = CreateProfileIxs(ledger, taken, wallet.Address, nil, 1)
	assert.ErrorIs(t, err, ErrProfileExists)
}

func Test_ProfileRoundTrip(t *testing.T) {
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)
	profileId, err := crypto.NewAccount()
	assert.NoError(t, err)

	expiry := int64(1700000000)
	keys := []KeyEntry{
		{Key: wallet.Address, Scope: PlayerProfileProgramID, Permissions: AllProfilePermissions()},
		{Key: wallet.Address, ExpireTime: &expiry, Scope: ProfileVaultProgramID, Permissions: AllVaultPermissions()},
		{Key: EpochProtocol, Scope: ProfileVaultProgramID, Permissions: DrainVaultPermissions()},
	}
	data := encodeProfileAccountData(2, keys)

	profile, err := ParsePlayerProfile(profileId.Address, data)
	assert.NoError(t, err)
	assert.Equal(t, profileId.Address, profile.Key)
	assert.Equal(t, uint8(2), profile.KeyThreshold)
	assert.Equal(t, keys, profile.ProfileKeys)
}

func Test_ParsePlayerProfile_WrongDiscriminant(t *testing.T) {
	wallet, err := crypto.NewAccount()
	assert.NoError(t, err)

	data := append(AccountDiscriminator("token_vault"), 1)
	_, err = ParsePlayerProfile(wallet.Address, data)
	assert.Error(t, err)
}

func Test_ProfilesForKey(t *testing.T) {
	_, _, ledger := newTestClient(t)
	mine, err := crypto.NewAccount()
	assert.NoError(t, err)
	theirs, err := crypto.NewAccount()
	assert.NoError(t, err)

	first := ledger.seedProfile(t, mine.Address)
	second := ledger.seedProfile(t, mine.Address)
	ledger.seedProfile(t, theirs.Address)

	profiles, err := ProfilesForKey(ledger, mine.Address, nil)
	assert.NoError(t, err)
	assert.Len(t, profiles, 2)
	found := map[crypto.PublicKey]bool{}
	for _, profile := range profiles {
		found[profile.Key] = true
	}
	assert.True(t, found[first])
	assert.True(t, found[second])

	// Narrowed by search key: the protocol drainer is on every profile.
	profiles, err = ProfilesForKey(ledger, mine.Address, &EpochProtocol)
	assert.NoError(t, err)
	assert.Len(t, profiles, 2)

	stranger, err := crypto.NewAccount()
	assert.NoError(t, err)
	profiles, err = ProfilesForKey(ledger, mine.Address, &stranger.Address)
	assert.NoError(t, err)
	assert.Empty(t, profiles)
}
