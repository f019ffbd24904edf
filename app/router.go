package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	puzzletypes "github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// Msg is any puzzle message carried by a Tx.
type Msg interface {
	ValidateBasic() error
	GetSigners() []sdk.AccAddress
}

// route dispatches msg to its handler.
func route(ctx sdk.Context, ms puzzletypes.MsgServer, msg Msg) (any, error) {
	switch m := msg.(type) {
	case *puzzletypes.MsgStartGame:
		return ms.StartGame(ctx, m)
	case *puzzletypes.MsgEndGame:
		return ms.EndGame(ctx, m)
	case *puzzletypes.MsgGrantCreator:
		return ms.GrantCreator(ctx, m)
	case *puzzletypes.MsgRevokeCreator:
		return ms.RevokeCreator(ctx, m)
	case *puzzletypes.MsgSetRelay:
		return ms.SetRelay(ctx, m)
	case *puzzletypes.MsgSetJudgeKey:
		return ms.SetJudgeKey(ctx, m)
	case *puzzletypes.MsgUpdateParams:
		return ms.UpdateParams(ctx, m)
	case *puzzletypes.MsgSetPuzzle:
		return ms.SetPuzzle(ctx, m)
	case *puzzletypes.MsgDeactivatePuzzle:
		return ms.DeactivatePuzzle(ctx, m)
	case *puzzletypes.MsgSubmitResult:
		return ms.SubmitResult(ctx, m)
	case *puzzletypes.MsgFinalizeRanks:
		return ms.FinalizeRanks(ctx, m)
	case *puzzletypes.MsgClaimReward:
		return ms.ClaimReward(ctx, m)
	default:
		return nil, puzzletypes.ErrInvalidRequest.Wrapf("unrecognized message type %T", msg)
	}
}
