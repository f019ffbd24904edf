package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// GetGameInfo returns the lifecycle record; a fresh store reports NOT_STARTED.
func (k Keeper) GetGameInfo(ctx context.Context) (types.GameInfo, error) {
	var game types.GameInfo
	if _, err := k.getRecord(ctx, types.GameInfoKey, &game); err != nil {
		return types.GameInfo{}, err
	}
	return game, nil
}

func (k Keeper) setGameInfo(ctx context.Context, game types.GameInfo) error {
	if err := k.setRecord(ctx, types.GameInfoKey, game); err != nil {
		return err
	}
	k.metrics.GameState.Set(float64(game.State))
	return nil
}

// StartGame moves NOT_STARTED to ACTIVE with a window of duration seconds
// starting at the current block time.
func (k Keeper) StartGame(ctx context.Context, duration uint64) (types.GameInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.GameInfo{}, err
	}
	if duration == 0 || duration > params.MaxGameDuration {
		return types.GameInfo{}, types.ErrInvalidRequest.Wrapf("duration %d outside (0, %d]", duration, params.MaxGameDuration)
	}

	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return types.GameInfo{}, err
	}
	if game.State != types.GameStateNotStarted {
		return types.GameInfo{}, types.ErrInvalidGameState.Wrapf("cannot start game in state %s", game.State)
	}

	game = types.GameInfo{
		State:     types.GameStateActive,
		StartTime: sdkCtx.BlockTime().Unix(),
		Duration:  duration,
	}
	if err := k.setGameInfo(ctx, game); err != nil {
		return types.GameInfo{}, err
	}

	k.Logger(ctx).Info("puzzle game started", "duration", duration, "deadline", game.Deadline())
	return game, nil
}

// EndGame moves ACTIVE to ENDED.
func (k Keeper) EndGame(ctx context.Context) (types.GameInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return types.GameInfo{}, err
	}
	if game.State != types.GameStateActive {
		return types.GameInfo{}, types.ErrInvalidGameState.Wrapf("cannot end game in state %s", game.State)
	}

	game.State = types.GameStateEnded
	game.EndTime = sdkCtx.BlockTime().Unix()
	if err := k.setGameInfo(ctx, game); err != nil {
		return types.GameInfo{}, err
	}

	k.Logger(ctx).Info("puzzle game ended", "end_time", game.EndTime)
	return game, nil
}

// TimeRemaining returns the seconds left in the submission window.
func (k Keeper) TimeRemaining(ctx context.Context) (uint64, error) {
	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return 0, err
	}
	return game.TimeRemaining(sdk.UnwrapSDKContext(ctx).BlockTime()), nil
}

// IsGameOver reports whether the game has ended explicitly or by deadline.
func (k Keeper) IsGameOver(ctx context.Context) (bool, error) {
	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return false, err
	}
	return game.IsOver(sdk.UnwrapSDKContext(ctx).BlockTime()), nil
}

// requireAcceptingResults enforces the dual gate: ACTIVE state and within the deadline.
func (k Keeper) requireAcceptingResults(ctx context.Context) error {
	game, err := k.GetGameInfo(ctx)
	if err != nil {
		return err
	}
	if game.State != types.GameStateActive {
		return types.ErrInvalidGameState.Wrapf("results are only accepted while ACTIVE, game is %s", game.State)
	}
	now := sdk.UnwrapSDKContext(ctx).BlockTime()
	if !game.AcceptingResults(now) {
		return types.ErrSubmissionWindowClosed.Wrapf("deadline %d passed at %d", game.Deadline(), now.Unix())
	}
	return nil
}

// requireGameOver gates finalize and claim.
func (k Keeper) requireGameOver(ctx context.Context) error {
	over, err := k.IsGameOver(ctx)
	if err != nil {
		return err
	}
	if !over {
		return types.ErrGameNotOver
	}
	return nil
}
