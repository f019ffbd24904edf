package cmd

import (
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/paw-chain/puzzlehunt/app"
)

const (
	flagRate          = "rate"
	flagGenesis       = "genesis"
	flagExportGenesis = "export-genesis"
)

// SimulateCmd replays a scenario file against an in-memory ledger.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "Replay a game scenario against an in-memory puzzle ledger",
		Long: `Replay a YAML scenario. Each step is one of submit, end, finalize, claim
or deactivate; "at" moves block time to that many seconds after the start
and "expect" asserts the error class of the step (none, authorization,
state, sequence, already_claimed, rank_not_assigned, validation, unknown).
Every participant signs with a key derived from its name; "as" makes another
participant sign the step.

Example scenario:

  duration: 3600
  puzzles:
    - {base_points: 100, answer: "first"}
  steps:
    - {at: 60, action: submit, player: alice, puzzle: 0, correct: true}
    - {at: 3601, action: finalize}
    - {action: claim, player: alice}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := runtimeFrom(cmd)

			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			var judge *secp256k1.PrivKey
			if keyFile, _ := cmd.Flags().GetString(flagKeyFile); keyFile != "" {
				if judge, err = ReadJudgeKeyFile(keyFile); err != nil {
					return err
				}
			}

			enc := app.MakeEncodingConfig()
			var opts []RunnerOption
			if path, _ := cmd.Flags().GetString(flagGenesis); path != "" {
				gs, err := app.ReadGenesisFile(enc, path)
				if err != nil {
					return err
				}
				opts = append(opts, WithGenesis(gs))
			}

			runner, err := NewScenarioRunner(cmd.Context(), rt.v.GetString(flagChainID), judge, scenario, rt.logger, opts...)
			if err != nil {
				return err
			}

			if perSec, _ := cmd.Flags().GetFloat64(flagRate); perSec > 0 {
				runner.Limiter = rate.NewLimiter(rate.Limit(perSec), 1)
			}

			report, err := runner.Run(cmd.Context(), scenario)
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString(flagExportGenesis); path != "" {
				gs, err := runner.Chain.ExportGenesis()
				if err != nil {
					return err
				}
				if err := app.WriteGenesisFile(enc, path, gs); err != nil {
					return err
				}
				rt.logger.Info("exported genesis", "path", path)
			}
			return printJSON(cmd, report)
		},
	}

	cmd.Flags().String(flagKeyFile, "", "judge key file (a fresh key is generated when empty)")
	cmd.Flags().Float64(flagRate, 0, "maximum steps per second (0 for unlimited)")
	cmd.Flags().String(flagGenesis, "", "start from this genesis file (the game must not be started)")
	cmd.Flags().String(flagExportGenesis, "", "write the final state to this genesis file")
	return cmd
}
