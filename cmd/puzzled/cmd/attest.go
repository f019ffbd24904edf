package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

const (
	flagPlayer        = "player"
	flagPuzzleID      = "puzzle-id"
	flagCorrect       = "correct"
	flagTimeRemaining = "time-remaining"
	flagPubKey        = "pub-key"
	flagSignature     = "signature"
)

// AttestCmd groups attestation commands.
func AttestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attest",
		Short: "Sign and verify judge attestations",
	}
	cmd.AddCommand(signCmd(), verifyCmd())
	return cmd
}

// SignedAttestation is the output of `attest sign`.
type SignedAttestation struct {
	ChainID       string `json:"chain_id"`
	Player        string `json:"player"`
	PuzzleId      uint64 `json:"puzzle_id"`
	Correct       bool   `json:"correct"`
	TimeRemaining uint64 `json:"time_remaining"`
	Digest        string `json:"digest"`
	Signature     string `json:"signature"`
	Judge         string `json:"judge"`
}

func attestationFromFlags(cmd *cobra.Command) (types.Attestation, error) {
	playerStr, _ := cmd.Flags().GetString(flagPlayer)
	puzzleID, _ := cmd.Flags().GetUint64(flagPuzzleID)
	correct, _ := cmd.Flags().GetBool(flagCorrect)
	remaining, _ := cmd.Flags().GetUint64(flagTimeRemaining)

	player, err := sdk.AccAddressFromBech32(playerStr)
	if err != nil {
		return types.Attestation{}, fmt.Errorf("invalid player address: %w", err)
	}
	return types.Attestation{
		Player:        player,
		PuzzleId:      puzzleID,
		Correct:       correct,
		TimeRemaining: remaining,
	}, nil
}

func addAttestationFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagPlayer, "", "player address")
	cmd.Flags().Uint64(flagPuzzleID, 0, "puzzle id")
	cmd.Flags().Bool(flagCorrect, false, "whether the answer was judged correct")
	cmd.Flags().Uint64(flagTimeRemaining, 0, "seconds remaining when the answer was judged")
	_ = cmd.MarkFlagRequired(flagPlayer)
}

func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an attestation with a judge key",
		Long: `Sign the attestation (player, puzzle id, correct, time remaining) for the
configured chain id.

Example:
  puzzled attest sign --key-file judge.json --player cosmos1... --puzzle-id 0 --correct --time-remaining 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := runtimeFrom(cmd)
			chainID := rt.v.GetString(flagChainID)

			keyFile, _ := cmd.Flags().GetString(flagKeyFile)
			priv, err := ReadJudgeKeyFile(keyFile)
			if err != nil {
				return err
			}
			att, err := attestationFromFlags(cmd)
			if err != nil {
				return err
			}

			module := types.ModuleAddress()
			sig, err := types.SignAttestation(priv, chainID, module, att)
			if err != nil {
				return err
			}

			rt.logger.Debug("attestation signed", "player", att.Player.String(), "puzzle_id", att.PuzzleId)
			return printJSON(cmd, SignedAttestation{
				ChainID:       chainID,
				Player:        att.Player.String(),
				PuzzleId:      att.PuzzleId,
				Correct:       att.Correct,
				TimeRemaining: att.TimeRemaining,
				Digest:        hex.EncodeToString(att.Digest(chainID, module)),
				Signature:     hex.EncodeToString(sig),
				Judge:         types.JudgeAddress(priv.PubKey().Bytes()).String(),
			})
		},
	}
	cmd.Flags().String(flagKeyFile, "judge.json", "judge key file")
	addAttestationFlags(cmd)
	return cmd
}

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a signature recovers to the judge public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := runtimeFrom(cmd)
			chainID := rt.v.GetString(flagChainID)

			pubHex, _ := cmd.Flags().GetString(flagPubKey)
			sigHex, _ := cmd.Flags().GetString(flagSignature)

			pub, err := hex.DecodeString(pubHex)
			if err != nil {
				return fmt.Errorf("invalid public key hex: %w", err)
			}
			if err := types.ValidateJudgePubKey(pub); err != nil {
				return err
			}
			sig, err := hex.DecodeString(sigHex)
			if err != nil {
				return fmt.Errorf("invalid signature hex: %w", err)
			}
			att, err := attestationFromFlags(cmd)
			if err != nil {
				return err
			}

			recovered, err := types.RecoverSigner(att.Digest(chainID, types.ModuleAddress()), sig)
			if err != nil {
				return types.ErrInvalidJudgeSignature.Wrap(err.Error())
			}
			if !bytes.Equal(recovered, pub) {
				return types.ErrInvalidJudgeSignature.Wrapf("signed by %s", types.JudgeAddress(recovered))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "valid: signed by judge %s\n", types.JudgeAddress(pub))
			return nil
		},
	}
	cmd.Flags().String(flagPubKey, "", "judge compressed public key (hex)")
	cmd.Flags().String(flagSignature, "", "65-byte signature (hex)")
	_ = cmd.MarkFlagRequired(flagPubKey)
	_ = cmd.MarkFlagRequired(flagSignature)
	addAttestationFlags(cmd)
	return cmd
}
