package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// InitGenesis initializes the puzzle module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return err
	}

	if err := k.SetParams(ctx, data.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	if err := k.setGameConfig(ctx, data.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	if err := k.setGameInfo(ctx, data.Game); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	for _, p := range data.Puzzles {
		if _, err := k.SetPuzzle(ctx, p.Id, p.CanonicalHash, p.BasePoints); err != nil {
			return fmt.Errorf("failed to set puzzle %d: %w", p.Id, err)
		}
		if !p.Active {
			if err := k.DeactivatePuzzle(ctx, p.Id); err != nil {
				return fmt.Errorf("failed to deactivate puzzle %d: %w", p.Id, err)
			}
		}
	}

	for _, stats := range data.Players {
		addr, err := sdk.AccAddressFromBech32(stats.Address)
		if err != nil {
			return err
		}
		if err := k.setPlayer(ctx, addr, stats); err != nil {
			return fmt.Errorf("failed to set player %s: %w", stats.Address, err)
		}
	}
	for _, entry := range data.Roster {
		addr, err := sdk.AccAddressFromBech32(entry)
		if err != nil {
			return err
		}
		k.appendToRoster(ctx, addr)
	}

	for _, c := range data.Creators {
		addr, err := sdk.AccAddressFromBech32(c)
		if err != nil {
			return err
		}
		k.GrantCreator(ctx, addr)
	}

	for _, r := range data.Ranks {
		addr, err := sdk.AccAddressFromBech32(r.Player)
		if err != nil {
			return err
		}
		k.setCounter(ctx, types.GetFinalRankKey(addr), r.Rank)
	}

	for _, tok := range data.Tokens {
		if err := k.setRewardToken(ctx, tok); err != nil {
			return fmt.Errorf("failed to set token %d: %w", tok.Id, err)
		}
	}
	k.setCounter(ctx, types.NextTokenIDKey, data.NextTokenId)

	if data.Finalization != nil {
		if err := k.setRecord(ctx, types.FinalizationKey, *data.Finalization); err != nil {
			return fmt.Errorf("failed to set finalization record: %w", err)
		}
	}

	return nil
}

// ExportGenesis exports the puzzle module's state to a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}
	cfg, err := k.GetGameConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	puzzles, err := k.GetAllPuzzles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzles: %w", err)
	}
	players, err := k.GetAllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	tokens, err := k.GetAllRewardTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward tokens: %w", err)
	}

	gs := types.DefaultGenesis()
	gs.Params = params
	gs.Config = cfg
	gs.Game = game
	gs.NextTokenId = k.nextTokenID(ctx)

	if puzzles != nil {
		gs.Puzzles = puzzles
	}
	if players != nil {
		gs.Players = players
	}
	for _, addr := range k.GetRoster(ctx) {
		gs.Roster = append(gs.Roster, addr.String())
	}
	for _, addr := range k.GetAllCreators(ctx) {
		gs.Creators = append(gs.Creators, addr.String())
	}
	if ranks := k.GetAllFinalRanks(ctx); ranks != nil {
		gs.Ranks = ranks
	}
	if tokens != nil {
		gs.Tokens = tokens
	}

	record, found, err := k.GetFinalization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get finalization record: %w", err)
	}
	if found {
		gs.Finalization = &record
	}

	return gs, nil
}
