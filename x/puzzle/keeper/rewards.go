package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// ClaimReward mints the player's reward token. Each player can claim once,
// after the game is over and ranks have been assigned.
func (k Keeper) ClaimReward(ctx context.Context, player sdk.AccAddress) (types.RewardToken, error) {
	if err := k.requireGameOver(ctx); err != nil {
		return types.RewardToken{}, err
	}

	rank := k.GetFinalRank(ctx, player)
	if rank == 0 {
		return types.RewardToken{}, types.ErrRankNotAssigned.Wrapf("player %s", player)
	}

	stats, found, err := k.GetPlayer(ctx, player)
	if err != nil {
		return types.RewardToken{}, err
	}
	if !found {
		return types.RewardToken{}, types.ErrPlayerNotFound.Wrapf("player %s", player)
	}
	if stats.ClaimedReward {
		return types.RewardToken{}, types.ErrAlreadyClaimed.Wrapf("player %s", player)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	token := types.RewardToken{
		Id:            k.nextTokenID(ctx),
		Owner:         player.String(),
		Rank:          rank,
		Score:         stats.Score,
		PuzzlesSolved: stats.PuzzleIndex,
		MintedHeight:  sdkCtx.BlockHeight(),
		MintedAt:      sdkCtx.BlockTime().Unix(),
	}

	stats.ClaimedReward = true
	if err := k.setPlayer(ctx, player, stats); err != nil {
		return types.RewardToken{}, err
	}
	if err := k.setRewardToken(ctx, token); err != nil {
		return types.RewardToken{}, err
	}
	k.setCounter(ctx, types.NextTokenIDKey, token.Id+1)

	return token, nil
}

// nextTokenID returns the id the next claim mints; ids start at 1.
func (k Keeper) nextTokenID(ctx context.Context) uint64 {
	if id := k.getCounter(ctx, types.NextTokenIDKey); id > 0 {
		return id
	}
	return 1
}

func (k Keeper) setRewardToken(ctx context.Context, token types.RewardToken) error {
	owner, err := sdk.AccAddressFromBech32(token.Owner)
	if err != nil {
		return err
	}
	if err := k.setRecord(ctx, types.GetRewardTokenKey(token.Id), token); err != nil {
		return err
	}
	k.setCounter(ctx, types.GetRewardByOwnerKey(owner), token.Id)
	return nil
}

// GetRewardToken returns a minted token by id.
func (k Keeper) GetRewardToken(ctx context.Context, id uint64) (types.RewardToken, bool, error) {
	var token types.RewardToken
	found, err := k.getRecord(ctx, types.GetRewardTokenKey(id), &token)
	return token, found, err
}

// GetRewardTokenByOwner returns the token minted to owner.
func (k Keeper) GetRewardTokenByOwner(ctx context.Context, owner sdk.AccAddress) (types.RewardToken, bool, error) {
	id := k.getCounter(ctx, types.GetRewardByOwnerKey(owner))
	if id == 0 {
		return types.RewardToken{}, false, nil
	}
	return k.GetRewardToken(ctx, id)
}

// GetAllRewardTokens returns every minted token in id order.
func (k Keeper) GetAllRewardTokens(ctx context.Context) ([]types.RewardToken, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.RewardTokenKeyPrefix)
	defer iter.Close()

	var tokens []types.RewardToken
	for ; iter.Valid(); iter.Next() {
		var tok types.RewardToken
		if err := k.cdc.UnmarshalJSON(iter.Value(), &tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
