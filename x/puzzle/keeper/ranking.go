package keeper

import (
	"context"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paw-chain/puzzlehunt/app/telemetry"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// FinalizeRanks snapshots the roster, sorts it with the three-key comparator
// and writes competition ranks. It may run any number of times once the game
// is over; there is no finalized lock.
func (k Keeper) FinalizeRanks(ctx context.Context) ([]types.RankedStanding, error) {
	_, span := telemetry.StartModuleSpan(ctx, types.ModuleName, "finalize_ranks")
	defer span.End()

	if err := k.requireGameOver(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	players, err := k.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]types.Standing, len(players))
	for i, p := range players {
		standings[i] = p.Standing()
	}
	ranked := types.RankStandings(standings)

	for _, r := range ranked {
		addr, err := sdk.AccAddressFromBech32(r.Player)
		if err != nil {
			return nil, err
		}
		k.setCounter(ctx, types.GetFinalRankKey(addr), r.Rank)
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record := types.FinalizationRecord{
		Height:  sdkCtx.BlockHeight(),
		Time:    sdkCtx.BlockTime().Unix(),
		Players: uint64(len(ranked)),
	}
	if err := k.setRecord(ctx, types.FinalizationKey, record); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("puzzle.players", len(ranked)))
	k.metrics.Finalizations.Inc()
	k.metrics.FinalizationLatency.Observe(time.Since(started).Seconds())
	k.Logger(ctx).Info("final ranks assigned", "players", len(ranked), "height", record.Height)

	return ranked, nil
}

// GetFinalRank returns a player's rank, zero if unassigned.
func (k Keeper) GetFinalRank(ctx context.Context, player sdk.AccAddress) uint64 {
	return k.getCounter(ctx, types.GetFinalRankKey(player))
}

// GetAllFinalRanks returns every assigned rank.
func (k Keeper) GetAllFinalRanks(ctx context.Context) []types.FinalRank {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.FinalRankKeyPrefix)
	defer iter.Close()

	var ranks []types.FinalRank
	for ; iter.Valid(); iter.Next() {
		addr := sdk.AccAddress(iter.Key()[len(types.FinalRankKeyPrefix):])
		ranks = append(ranks, types.FinalRank{Player: addr.String(), Rank: types.BytesToUint64(iter.Value())})
	}
	return ranks
}

// GetFinalization returns the latest finalization record, if any.
func (k Keeper) GetFinalization(ctx context.Context) (types.FinalizationRecord, bool, error) {
	var record types.FinalizationRecord
	found, err := k.getRecord(ctx, types.FinalizationKey, &record)
	return record, found, err
}

// GetLeaderboard orders the live roster with the ranking comparator. Final
// ranks are attached when they have been assigned.
func (k Keeper) GetLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error) {
	players, err := k.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]types.Standing, len(players))
	for i, p := range players {
		standings[i] = p.Standing()
	}

	entries := make([]types.LeaderboardEntry, 0, len(players))
	for _, r := range types.RankStandings(standings) {
		addr, err := sdk.AccAddressFromBech32(r.Player)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.LeaderboardEntry{
			Player:        r.Player,
			Score:         r.Score,
			PuzzleIndex:   r.PuzzleIndex,
			LastSolveTime: r.LastSolveTime,
			Position:      r.Rank,
			FinalRank:     k.GetFinalRank(ctx, addr),
		})
	}
	return entries, nil
}
