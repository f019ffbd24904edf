package keeper

import (
	"context"
	"encoding/hex"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paw-chain/puzzlehunt/app/telemetry"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
	sharedkeeper "github.com/paw-chain/puzzlehunt/x/shared/keeper"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns the message handlers of the puzzle module.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// execute runs fn on a cached branch of the store and writes it back only
// when fn succeeds. The returned events are emitted after the write, so a
// rejected message leaves neither state nor events behind.
func (ms msgServer) execute(goCtx context.Context, fn func(ctx sdk.Context) (sdk.Events, error)) error {
	ctx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, writeFn := ctx.CacheContext()

	events, err := fn(cacheCtx)
	if err != nil {
		return err
	}

	writeFn()
	ctx.EventManager().EmitEvents(events)
	return nil
}

func (ms msgServer) requireAuthority(actual string) error {
	return sharedkeeper.ValidateAuthority(ms.authority, actual, types.ErrUnauthorized)
}

func blockHeightAttr(ctx sdk.Context) sdk.Attribute {
	return sdk.NewAttribute(types.AttributeKeyBlockHeight, strconv.FormatInt(ctx.BlockHeight(), 10))
}

// StartGame opens the submission window.
func (ms msgServer) StartGame(goCtx context.Context, msg *types.MsgStartGame) (*types.MsgStartGameResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		game, err := ms.Keeper.StartGame(ctx, msg.Duration)
		if err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeGameStarted,
			sdk.NewAttribute(types.AttributeKeyStartTime, strconv.FormatInt(game.StartTime, 10)),
			sdk.NewAttribute(types.AttributeKeyDuration, strconv.FormatUint(game.Duration, 10)),
			blockHeightAttr(ctx),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgStartGameResponse{}, nil
}

// EndGame closes an active game.
func (ms msgServer) EndGame(goCtx context.Context, msg *types.MsgEndGame) (*types.MsgEndGameResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		game, err := ms.Keeper.EndGame(ctx)
		if err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeGameEnded,
			sdk.NewAttribute(types.AttributeKeyEndTime, strconv.FormatInt(game.EndTime, 10)),
			blockHeightAttr(ctx),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgEndGameResponse{}, nil
}

// GrantCreator gives an address the creator role.
func (ms msgServer) GrantCreator(goCtx context.Context, msg *types.MsgGrantCreator) (*types.MsgGrantCreatorResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid creator address: %s", err)
	}

	err = ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		ms.Keeper.GrantCreator(ctx, creator)
		return sdk.Events{sdk.NewEvent(
			types.EventTypeCreatorGranted,
			sdk.NewAttribute(types.AttributeKeyCreator, msg.Creator),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgGrantCreatorResponse{}, nil
}

// RevokeCreator removes the creator role.
func (ms msgServer) RevokeCreator(goCtx context.Context, msg *types.MsgRevokeCreator) (*types.MsgRevokeCreatorResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid creator address: %s", err)
	}

	err = ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		ms.Keeper.RevokeCreator(ctx, creator)
		return sdk.Events{sdk.NewEvent(
			types.EventTypeCreatorRevoked,
			sdk.NewAttribute(types.AttributeKeyCreator, msg.Creator),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgRevokeCreatorResponse{}, nil
}

// SetRelay configures the only address allowed to submit results.
func (ms msgServer) SetRelay(goCtx context.Context, msg *types.MsgSetRelay) (*types.MsgSetRelayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}
	relay, err := sdk.AccAddressFromBech32(msg.Relay)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid relay address: %s", err)
	}

	err = ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		if err := ms.Keeper.SetRelay(ctx, relay); err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeRelayUpdated,
			sdk.NewAttribute(types.AttributeKeyRelay, msg.Relay),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgSetRelayResponse{}, nil
}

// SetJudgeKey configures the public key attestations must recover to.
func (ms msgServer) SetJudgeKey(goCtx context.Context, msg *types.MsgSetJudgeKey) (*types.MsgSetJudgeKeyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		if err := ms.Keeper.SetJudgeKey(ctx, msg.PubKey); err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeJudgeKeyUpdated,
			sdk.NewAttribute(types.AttributeKeyJudge, types.JudgeAddress(msg.PubKey).String()),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgSetJudgeKeyResponse{}, nil
}

// UpdateParams replaces the module parameters.
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requireAuthority(msg.Authority); err != nil {
		return nil, err
	}

	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		if err := ms.Keeper.SetParams(ctx, msg.Params); err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyActor, msg.Authority),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

// SetPuzzle writes a puzzle definition. Creators and the authority may call it.
func (ms msgServer) SetPuzzle(goCtx context.Context, msg *types.MsgSetPuzzle) (*types.MsgSetPuzzleResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requirePuzzleManager(goCtx, msg.Sender); err != nil {
		return nil, err
	}

	var count uint64
	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		var err error
		count, err = ms.Keeper.SetPuzzle(ctx, msg.PuzzleId, msg.CanonicalHash, msg.BasePoints)
		if err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypePuzzleSet,
			sdk.NewAttribute(types.AttributeKeyPuzzleID, strconv.FormatUint(msg.PuzzleId, 10)),
			sdk.NewAttribute(types.AttributeKeyHash, hex.EncodeToString(msg.CanonicalHash)),
			sdk.NewAttribute(types.AttributeKeyBasePoints, strconv.FormatUint(msg.BasePoints, 10)),
			sdk.NewAttribute(types.AttributeKeyActor, msg.Sender),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgSetPuzzleResponse{PuzzleCount: count}, nil
}

// DeactivatePuzzle stops a puzzle from accepting results.
func (ms msgServer) DeactivatePuzzle(goCtx context.Context, msg *types.MsgDeactivatePuzzle) (*types.MsgDeactivatePuzzleResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := ms.requirePuzzleManager(goCtx, msg.Sender); err != nil {
		return nil, err
	}

	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		if err := ms.Keeper.DeactivatePuzzle(ctx, msg.PuzzleId); err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypePuzzleDisabled,
			sdk.NewAttribute(types.AttributeKeyPuzzleID, strconv.FormatUint(msg.PuzzleId, 10)),
			sdk.NewAttribute(types.AttributeKeyActor, msg.Sender),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgDeactivatePuzzleResponse{}, nil
}

func (ms msgServer) requirePuzzleManager(goCtx context.Context, sender string) error {
	return sharedkeeper.ValidateAuthorityOr(ms.authority, sender, func(addr string) bool {
		acc, err := sdk.AccAddressFromBech32(addr)
		return err == nil && ms.Keeper.IsCreator(goCtx, acc)
	}, types.ErrUnauthorized)
}

// SubmitResult applies a judge-signed attestation delivered by the relay.
func (ms msgServer) SubmitResult(goCtx context.Context, msg *types.MsgSubmitResult) (*types.MsgSubmitResultResponse, error) {
	_, span := telemetry.StartModuleSpan(goCtx, types.ModuleName, "submit_result")
	defer span.End()
	span.SetAttributes(
		attribute.String("puzzle.player", msg.Player),
		attribute.Int64("puzzle.id", int64(msg.PuzzleId)),
	)

	res, err := ms.submitResult(goCtx, msg)
	if err != nil {
		ms.metrics.ResultsRejected.WithLabelValues(string(types.Classify(err))).Inc()
		span.RecordError(err)
		return nil, err
	}

	ms.metrics.ResultsApplied.WithLabelValues(strconv.FormatBool(msg.Correct)).Inc()
	if msg.Correct {
		ms.metrics.PointsAwarded.Add(float64(res.PointsAwarded))
	} else {
		ms.metrics.PenaltiesApplied.Inc()
	}
	return res, nil
}

func (ms msgServer) submitResult(goCtx context.Context, msg *types.MsgSubmitResult) (*types.MsgSubmitResultResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	relay, err := sdk.AccAddressFromBech32(msg.Relay)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid relay address: %s", err)
	}
	att, err := msg.Attestation()
	if err != nil {
		return nil, err
	}

	var outcome ResultOutcome
	err = ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		var err error
		outcome, err = ms.Keeper.SubmitResult(ctx, relay, att, msg.Signature)
		if err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeResult,
			sdk.NewAttribute(types.AttributeKeyPlayer, msg.Player),
			sdk.NewAttribute(types.AttributeKeyPuzzleID, strconv.FormatUint(msg.PuzzleId, 10)),
			sdk.NewAttribute(types.AttributeKeyCorrect, strconv.FormatBool(msg.Correct)),
			sdk.NewAttribute(types.AttributeKeyScore, strconv.FormatUint(outcome.Stats.Score, 10)),
			sdk.NewAttribute(types.AttributeKeyPoints, strconv.FormatUint(outcome.PointsAwarded, 10)),
		)}, nil
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgSubmitResultResponse{
		NewScore:      outcome.Stats.Score,
		PointsAwarded: outcome.PointsAwarded,
		PuzzleIndex:   outcome.Stats.PuzzleIndex,
	}, nil
}

// FinalizeRanks assigns competition ranks once the game is over. Anyone may call it.
func (ms msgServer) FinalizeRanks(goCtx context.Context, msg *types.MsgFinalizeRanks) (*types.MsgFinalizeRanksResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var players uint64
	err := ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		ranked, err := ms.Keeper.FinalizeRanks(ctx)
		if err != nil {
			return nil, err
		}
		players = uint64(len(ranked))
		return sdk.Events{sdk.NewEvent(
			types.EventTypeRanksFinalized,
			sdk.NewAttribute(types.AttributeKeyPlayers, strconv.FormatUint(players, 10)),
			sdk.NewAttribute(types.AttributeKeyActor, msg.Sender),
			blockHeightAttr(ctx),
		)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgFinalizeRanksResponse{Players: players}, nil
}

// ClaimReward mints the caller's reward token.
func (ms msgServer) ClaimReward(goCtx context.Context, msg *types.MsgClaimReward) (*types.MsgClaimRewardResponse, error) {
	res, err := ms.claimReward(goCtx, msg)
	if err != nil {
		ms.metrics.ClaimsRejected.WithLabelValues(string(types.Classify(err))).Inc()
		return nil, err
	}
	ms.metrics.RewardsClaimed.Inc()
	return res, nil
}

func (ms msgServer) claimReward(goCtx context.Context, msg *types.MsgClaimReward) (*types.MsgClaimRewardResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	player, err := sdk.AccAddressFromBech32(msg.Player)
	if err != nil {
		return nil, types.ErrInvalidRequest.Wrapf("invalid player address: %s", err)
	}

	var token types.RewardToken
	err = ms.execute(goCtx, func(ctx sdk.Context) (sdk.Events, error) {
		var err error
		token, err = ms.Keeper.ClaimReward(ctx, player)
		if err != nil {
			return nil, err
		}
		return sdk.Events{sdk.NewEvent(
			types.EventTypeRewardClaimed,
			sdk.NewAttribute(types.AttributeKeyPlayer, msg.Player),
			sdk.NewAttribute(types.AttributeKeyTokenID, strconv.FormatUint(token.Id, 10)),
			sdk.NewAttribute(types.AttributeKeyRank, strconv.FormatUint(token.Rank, 10)),
		)}, nil
	})
	if err != nil {
		return nil, err
	}

	ms.Logger(goCtx).Info("reward claimed", "player", msg.Player, "token_id", token.Id, "rank", token.Rank)
	return &types.MsgClaimRewardResponse{TokenId: token.Id, Rank: token.Rank}, nil
}
