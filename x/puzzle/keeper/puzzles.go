package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// SetPuzzle writes or overwrites a puzzle and marks it active. Overwriting a
// puzzle players are working on is allowed. It returns the puzzle count.
func (k Keeper) SetPuzzle(ctx context.Context, id uint64, hash []byte, basePoints uint64) (uint64, error) {
	if err := types.ValidatePuzzleID(id); err != nil {
		return 0, err
	}
	if len(hash) != 32 {
		return 0, types.ErrInvalidRequest.Wrapf("canonical hash must be 32 bytes, got %d", len(hash))
	}

	puzzle := types.Puzzle{
		Id:            id,
		CanonicalHash: append([]byte(nil), hash...),
		BasePoints:    basePoints,
		Active:        true,
	}
	if err := k.setRecord(ctx, types.GetPuzzleKey(id), puzzle); err != nil {
		return 0, err
	}

	count := k.GetPuzzleCount(ctx)
	if id >= count {
		count = id + 1
		k.setCounter(ctx, types.PuzzleCountKey, count)
		k.metrics.Puzzles.Set(float64(count))
	}
	return count, nil
}

// DeactivatePuzzle marks an existing puzzle inactive.
func (k Keeper) DeactivatePuzzle(ctx context.Context, id uint64) error {
	puzzle, found, err := k.GetPuzzle(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrPuzzleNotFound.Wrapf("puzzle %d", id)
	}
	puzzle.Active = false
	return k.setRecord(ctx, types.GetPuzzleKey(id), puzzle)
}

// GetPuzzle returns a puzzle definition.
func (k Keeper) GetPuzzle(ctx context.Context, id uint64) (types.Puzzle, bool, error) {
	var puzzle types.Puzzle
	found, err := k.getRecord(ctx, types.GetPuzzleKey(id), &puzzle)
	return puzzle, found, err
}

// GetPuzzleCount returns one past the highest puzzle id ever set.
func (k Keeper) GetPuzzleCount(ctx context.Context) uint64 {
	return k.getCounter(ctx, types.PuzzleCountKey)
}

// GetAllPuzzles returns every stored puzzle in id order.
func (k Keeper) GetAllPuzzles(ctx context.Context) ([]types.Puzzle, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PuzzleKeyPrefix)
	defer iter.Close()

	var puzzles []types.Puzzle
	for ; iter.Valid(); iter.Next() {
		var p types.Puzzle
		if err := k.cdc.UnmarshalJSON(iter.Value(), &p); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}
