package keeper

import (
	"context"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// GetPlayer returns a player's stats.
func (k Keeper) GetPlayer(ctx context.Context, player sdk.AccAddress) (types.PlayerStats, bool, error) {
	var stats types.PlayerStats
	found, err := k.getRecord(ctx, types.GetPlayerKey(player), &stats)
	return stats, found, err
}

func (k Keeper) setPlayer(ctx context.Context, player sdk.AccAddress, stats types.PlayerStats) error {
	return k.setRecord(ctx, types.GetPlayerKey(player), stats)
}

// GetPlayerCount returns the roster length.
func (k Keeper) GetPlayerCount(ctx context.Context) uint64 {
	return k.getCounter(ctx, types.RosterCountKey)
}

// appendToRoster adds a player at the end of the roster. Callers guard
// against duplicates with PlayerStats.IsActive.
func (k Keeper) appendToRoster(ctx context.Context, player sdk.AccAddress) {
	n := k.GetPlayerCount(ctx)
	k.getStore(ctx).Set(types.GetRosterKey(n), player)
	k.setCounter(ctx, types.RosterCountKey, n+1)
	k.metrics.Players.Set(float64(n + 1))
}

// GetRoster returns the roster in append order.
func (k Keeper) GetRoster(ctx context.Context) []sdk.AccAddress {
	n := k.GetPlayerCount(ctx)
	store := k.getStore(ctx)
	roster := make([]sdk.AccAddress, 0, n)
	for i := uint64(0); i < n; i++ {
		roster = append(roster, sdk.AccAddress(store.Get(types.GetRosterKey(i))))
	}
	return roster
}

// GetRosterPage returns a page of the roster in append order.
func (k Keeper) GetRosterPage(ctx context.Context, pageReq *query.PageRequest) ([]string, *query.PageResponse, error) {
	rosterStore := prefix.NewStore(k.getStore(ctx), types.RosterKeyPrefix)

	var players []string
	pageRes, err := query.Paginate(rosterStore, pageReq, func(_ []byte, value []byte) error {
		players = append(players, sdk.AccAddress(value).String())
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return players, pageRes, nil
}

// GetAllPlayers returns every roster player's stats in roster order.
func (k Keeper) GetAllPlayers(ctx context.Context) ([]types.PlayerStats, error) {
	roster := k.GetRoster(ctx)
	out := make([]types.PlayerStats, 0, len(roster))
	for _, addr := range roster {
		stats, found, err := k.GetPlayer(ctx, addr)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, types.ErrPlayerNotFound.Wrapf("roster entry %s has no stats", addr)
		}
		out = append(out, stats)
	}
	return out, nil
}
