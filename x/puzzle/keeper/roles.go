package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// IsCreator reports whether addr holds the creator role.
func (k Keeper) IsCreator(ctx context.Context, addr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.GetCreatorKey(addr))
}

// GrantCreator assigns the creator role.
func (k Keeper) GrantCreator(ctx context.Context, addr sdk.AccAddress) {
	k.getStore(ctx).Set(types.GetCreatorKey(addr), []byte{0x01})
}

// RevokeCreator removes the creator role; revoking a non-holder is a no-op.
func (k Keeper) RevokeCreator(ctx context.Context, addr sdk.AccAddress) {
	k.getStore(ctx).Delete(types.GetCreatorKey(addr))
}

// GetAllCreators lists creator-role holders in key order.
func (k Keeper) GetAllCreators(ctx context.Context) []sdk.AccAddress {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.CreatorKeyPrefix)
	defer iter.Close()

	var creators []sdk.AccAddress
	for ; iter.Valid(); iter.Next() {
		creators = append(creators, sdk.AccAddress(iter.Key()[len(types.CreatorKeyPrefix):]))
	}
	return creators
}

// CanManagePuzzles reports whether addr is the authority or a creator.
func (k Keeper) CanManagePuzzles(ctx context.Context, addr sdk.AccAddress) bool {
	if addr.String() == k.authority {
		return true
	}
	return k.IsCreator(ctx, addr)
}

// GetGameConfig returns the relay and judge key configuration.
func (k Keeper) GetGameConfig(ctx context.Context) (types.GameConfig, error) {
	var cfg types.GameConfig
	if _, err := k.getRecord(ctx, types.GameConfigKey, &cfg); err != nil {
		return types.GameConfig{}, err
	}
	return cfg, nil
}

func (k Keeper) setGameConfig(ctx context.Context, cfg types.GameConfig) error {
	return k.setRecord(ctx, types.GameConfigKey, cfg)
}

// SetRelay replaces the relay address.
func (k Keeper) SetRelay(ctx context.Context, relay sdk.AccAddress) error {
	cfg, err := k.GetGameConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Relay = relay.String()
	return k.setGameConfig(ctx, cfg)
}

// SetJudgeKey replaces the judge public key.
func (k Keeper) SetJudgeKey(ctx context.Context, pubKey []byte) error {
	if err := types.ValidateJudgePubKey(pubKey); err != nil {
		return err
	}
	cfg, err := k.GetGameConfig(ctx)
	if err != nil {
		return err
	}
	cfg.JudgePubKey = append([]byte(nil), pubKey...)
	return k.setGameConfig(ctx, cfg)
}
