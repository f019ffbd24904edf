package app

import (
	"fmt"
	"os"

	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// ReadGenesisFile loads and validates a puzzle genesis document.
func ReadGenesisFile(enc EncodingConfig, path string) (*puzzletypes.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}

	var gs puzzletypes.GenesisState
	if err := enc.Amino.UnmarshalJSON(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to decode genesis: %w", err)
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return &gs, nil
}

// WriteGenesisFile writes an indented genesis document.
func WriteGenesisFile(enc EncodingConfig, path string, gs *puzzletypes.GenesisState) error {
	bz, err := enc.Amino.MarshalJSONIndent(gs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode genesis: %w", err)
	}
	return os.WriteFile(path, bz, 0o600)
}
