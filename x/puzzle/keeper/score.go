package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// ResultOutcome describes the effect of an applied attestation.
type ResultOutcome struct {
	Stats         types.PlayerStats
	PointsAwarded uint64
	NewPlayer     bool
}

// SubmitResult verifies and applies one attestation. All checks run before
// the first write, so a rejected attestation leaves state untouched.
func (k Keeper) SubmitResult(ctx context.Context, relay sdk.AccAddress, att types.Attestation, sig []byte) (ResultOutcome, error) {
	if err := k.requireAcceptingResults(ctx); err != nil {
		return ResultOutcome{}, err
	}
	if err := k.VerifyAttestation(ctx, relay, att, sig); err != nil {
		return ResultOutcome{}, err
	}

	stats, found, err := k.GetPlayer(ctx, att.Player)
	if err != nil {
		return ResultOutcome{}, err
	}
	if !found {
		stats = types.PlayerStats{Address: att.Player.String()}
	}

	if att.PuzzleId != stats.PuzzleIndex {
		return ResultOutcome{}, types.ErrPuzzleSequence.Wrapf("player %s expects puzzle %d, got %d", att.Player, stats.PuzzleIndex, att.PuzzleId)
	}
	puzzle, found, err := k.GetPuzzle(ctx, att.PuzzleId)
	if err != nil {
		return ResultOutcome{}, err
	}
	if !found {
		return ResultOutcome{}, types.ErrPuzzleNotFound.Wrapf("puzzle %d", att.PuzzleId)
	}
	if !puzzle.Active {
		return ResultOutcome{}, types.ErrPuzzleInactive.Wrapf("puzzle %d", att.PuzzleId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return ResultOutcome{}, err
	}

	return k.applyResult(ctx, att, stats, puzzle, params)
}

// applyResult mutates the player record for a verified attestation.
func (k Keeper) applyResult(ctx context.Context, att types.Attestation, stats types.PlayerStats, puzzle types.Puzzle, params types.Params) (ResultOutcome, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	outcome := ResultOutcome{}

	stats.Attempts++
	if att.Correct {
		points, err := params.PointsFor(puzzle.BasePoints, att.TimeRemaining)
		if err != nil {
			return ResultOutcome{}, err
		}
		score, err := types.AddPoints(stats.Score, points)
		if err != nil {
			return ResultOutcome{}, err
		}
		outcome.PointsAwarded = points
		stats.Score = score
		stats.PuzzleIndex++
		stats.Solved++
		stats.LastSolveTime = sdkCtx.BlockTime().Unix()
	} else {
		stats.Score = params.ApplyPenalty(stats.Score)
	}

	if !stats.IsActive {
		stats.IsActive = true
		outcome.NewPlayer = true
		k.appendToRoster(ctx, att.Player)
	}

	if err := k.setPlayer(ctx, att.Player, stats); err != nil {
		return ResultOutcome{}, err
	}

	outcome.Stats = stats
	return outcome, nil
}
