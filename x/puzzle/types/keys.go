package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "puzzle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

var (
	// ModuleNamespace is the namespace byte for the puzzle module (0x0A)
	ModuleNamespace = byte(0x0A)

	ParamsKey      = []byte{0x0A, 0x01}
	GameConfigKey  = []byte{0x0A, 0x02}
	GameInfoKey    = []byte{0x0A, 0x03}
	PuzzleCountKey = []byte{0x0A, 0x04}
	RosterCountKey = []byte{0x0A, 0x05}
	NextTokenIDKey = []byte{0x0A, 0x06}

	// FinalizationKey holds the record of the most recent rank finalization pass
	FinalizationKey = []byte{0x0A, 0x07}

	PuzzleKeyPrefix        = []byte{0x0A, 0x10}
	PlayerKeyPrefix        = []byte{0x0A, 0x11}
	RosterKeyPrefix        = []byte{0x0A, 0x12}
	FinalRankKeyPrefix     = []byte{0x0A, 0x13}
	CreatorKeyPrefix       = []byte{0x0A, 0x14}
	RewardTokenKeyPrefix   = []byte{0x0A, 0x15}
	RewardByOwnerKeyPrefix = []byte{0x0A, 0x16}
)

// DefaultAuthority returns the governance module address, the default sole
// administrative authority of the game.
func DefaultAuthority() string {
	return authtypes.NewModuleAddress(govtypes.ModuleName).String()
}

// ModuleAddress is the account address the module signs attestation digests against.
func ModuleAddress() sdk.AccAddress {
	return address.Module(ModuleName)
}

func uint64Key(prefix []byte, id uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], id)
	return key
}

func addressKey(prefix []byte, addr sdk.AccAddress) []byte {
	key := make([]byte, 0, len(prefix)+len(addr))
	key = append(key, prefix...)
	return append(key, addr...)
}

// GetPuzzleKey returns the store key for a puzzle definition
func GetPuzzleKey(id uint64) []byte {
	return uint64Key(PuzzleKeyPrefix, id)
}

// GetPlayerKey returns the store key for a player's stats
func GetPlayerKey(player sdk.AccAddress) []byte {
	return addressKey(PlayerKeyPrefix, player)
}

// GetRosterKey returns the store key for the roster slot at index
func GetRosterKey(index uint64) []byte {
	return uint64Key(RosterKeyPrefix, index)
}

// GetFinalRankKey returns the store key for a player's final rank
func GetFinalRankKey(player sdk.AccAddress) []byte {
	return addressKey(FinalRankKeyPrefix, player)
}

// GetCreatorKey returns the store key marking a creator-role holder
func GetCreatorKey(creator sdk.AccAddress) []byte {
	return addressKey(CreatorKeyPrefix, creator)
}

// GetRewardTokenKey returns the store key for a minted reward token
func GetRewardTokenKey(id uint64) []byte {
	return uint64Key(RewardTokenKeyPrefix, id)
}

// GetRewardByOwnerKey returns the index key mapping an owner to their token id
func GetRewardByOwnerKey(owner sdk.AccAddress) []byte {
	return addressKey(RewardByOwnerKeyPrefix, owner)
}

// Uint64ToBytes encodes a counter value big-endian
func Uint64ToBytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

// BytesToUint64 decodes a big-endian counter value; short input decodes to zero
func BytesToUint64(bz []byte) uint64 {
	if len(bz) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
