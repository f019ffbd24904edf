package app

import (
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/std"

	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// EncodingConfig specifies the concrete encoding types used by the ledger.
type EncodingConfig struct {
	Amino *codec.LegacyAmino
}

// MakeEncodingConfig creates an EncodingConfig with every puzzle message registered.
func MakeEncodingConfig() EncodingConfig {
	amino := codec.NewLegacyAmino()
	RegisterLegacyAminoCodec(amino)
	return EncodingConfig{Amino: amino}
}

// RegisterLegacyAminoCodec registers the sdk and puzzle message types.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	std.RegisterLegacyAminoCodec(cdc)
	puzzletypes.RegisterLegacyAminoCodec(cdc)
}
