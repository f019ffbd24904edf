package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the x/puzzle messages on the provided
// LegacyAmino codec for Amino JSON serialization.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgStartGame{}, "puzzle/MsgStartGame", nil)
	cdc.RegisterConcrete(&MsgEndGame{}, "puzzle/MsgEndGame", nil)
	cdc.RegisterConcrete(&MsgGrantCreator{}, "puzzle/MsgGrantCreator", nil)
	cdc.RegisterConcrete(&MsgRevokeCreator{}, "puzzle/MsgRevokeCreator", nil)
	cdc.RegisterConcrete(&MsgSetRelay{}, "puzzle/MsgSetRelay", nil)
	cdc.RegisterConcrete(&MsgSetJudgeKey{}, "puzzle/MsgSetJudgeKey", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "puzzle/MsgUpdateParams", nil)
	cdc.RegisterConcrete(&MsgSetPuzzle{}, "puzzle/MsgSetPuzzle", nil)
	cdc.RegisterConcrete(&MsgDeactivatePuzzle{}, "puzzle/MsgDeactivatePuzzle", nil)
	cdc.RegisterConcrete(&MsgSubmitResult{}, "puzzle/MsgSubmitResult", nil)
	cdc.RegisterConcrete(&MsgFinalizeRanks{}, "puzzle/MsgFinalizeRanks", nil)
	cdc.RegisterConcrete(&MsgClaimReward{}, "puzzle/MsgClaimReward", nil)
}

var (
	// ModuleCdc is the amino codec used for messages and stored records
	ModuleCdc = codec.NewLegacyAmino()
)

func init() {
	RegisterLegacyAminoCodec(ModuleCdc)
	ModuleCdc.Seal()
}
