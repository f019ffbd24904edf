package keeper

import (
	"bytes"
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// AttestationDigest returns the digest the judge must sign for this game instance.
func (k Keeper) AttestationDigest(ctx context.Context, att types.Attestation) []byte {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return att.Digest(sdkCtx.ChainID(), types.ModuleAddress())
}

// VerifyAttestation checks that relay is the configured relay and that sig
// recovers to the configured judge key over the instance-bound digest.
func (k Keeper) VerifyAttestation(ctx context.Context, relay sdk.AccAddress, att types.Attestation, sig []byte) error {
	cfg, err := k.GetGameConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Relay == "" {
		return types.ErrRelayNotSet
	}
	if len(cfg.JudgePubKey) == 0 {
		return types.ErrJudgeKeyNotSet
	}

	if relay.String() != cfg.Relay {
		return types.ErrInvalidRelay.Wrapf("expected %s, got %s", cfg.Relay, relay)
	}

	signer, err := types.RecoverSigner(k.AttestationDigest(ctx, att), sig)
	if err != nil {
		return types.ErrInvalidJudgeSignature.Wrap(err.Error())
	}
	if !bytes.Equal(signer, cfg.JudgePubKey) {
		k.Logger(ctx).Warn("attestation signer mismatch",
			"player", att.Player.String(),
			"puzzle_id", att.PuzzleId,
			"recovered", types.JudgeAddress(signer).String(),
		)
		return types.ErrInvalidJudgeSignature.Wrapf("recovered signer %s", types.JudgeAddress(signer))
	}

	return nil
}
