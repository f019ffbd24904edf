package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/paw-chain/puzzlehunt/app"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// Scenario is a scripted game replayed against a LocalChain.
type Scenario struct {
	Duration uint64           `yaml:"duration"`
	Puzzles  []ScenarioPuzzle `yaml:"puzzles"`
	Creators []string         `yaml:"creators"`
	Steps    []map[string]any `yaml:"steps"`
}

// ScenarioPuzzle defines one puzzle; its id is its position in the list.
type ScenarioPuzzle struct {
	BasePoints uint64 `yaml:"base_points"`
	Answer     string `yaml:"answer"`
}

// Step actions
const (
	ActionSubmit     = "submit"
	ActionEnd        = "end"
	ActionFinalize   = "finalize"
	ActionClaim      = "claim"
	ActionDeactivate = "deactivate"
)

// StepResult records the outcome of one scenario step.
type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Player string `json:"player,omitempty"`
	Class  string `json:"class"`
	Error  string `json:"error,omitempty"`
}

// ScenarioReport is the summary printed by `simulate`.
type ScenarioReport struct {
	ChainID     string                   `json:"chain_id"`
	Judge       string                   `json:"judge"`
	Steps       []StepResult             `json:"steps"`
	Leaderboard []types.LeaderboardEntry `json:"leaderboard"`
	Tokens      []types.RewardToken      `json:"tokens"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(bz, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if s.Duration == 0 {
		return nil, fmt.Errorf("scenario duration must be positive")
	}
	return &s, nil
}

// Reserved participant names
const (
	AuthorityName = "authority"
	RelayName     = "relay"
)

// NamedKey derives a stable account key for a scenario participant.
func NamedKey(name string) *secp256k1.PrivKey {
	return secp256k1.GenPrivKeyFromSecret([]byte("puzzled/participant/" + name))
}

// NamedAddress returns the account address of NamedKey(name).
func NamedAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(NamedKey(name).PubKey().Address())
}

// ScenarioRunner replays a scenario.
type ScenarioRunner struct {
	Chain   *app.LocalChain
	Judge   *secp256k1.PrivKey
	Relay   sdk.AccAddress
	Limiter *rate.Limiter
	Logger  log.Logger

	authority *secp256k1.PrivKey
	relay     *secp256k1.PrivKey
	start     time.Time
}

// RunnerOption customizes NewScenarioRunner.
type RunnerOption func(*app.ChainConfig)

// WithGenesis starts the chain from gs instead of the default genesis. The
// game in gs must not have been started.
func WithGenesis(gs *types.GenesisState) RunnerOption {
	return func(cfg *app.ChainConfig) {
		cfg.Genesis = gs
	}
}

// NewScenarioRunner creates a chain and configures relay, judge and puzzles.
// Administrative setup is signed by the "authority" participant key.
func NewScenarioRunner(ctx context.Context, chainID string, judge *secp256k1.PrivKey, s *Scenario, logger log.Logger, opts ...RunnerOption) (*ScenarioRunner, error) {
	if judge == nil {
		judge = secp256k1.GenPrivKey()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	cfg := app.ChainConfig{ChainID: chainID, Authority: NamedAddress(AuthorityName).String()}
	for _, opt := range opts {
		opt(&cfg)
	}
	chain, err := app.NewLocalChain(cfg, logger)
	if err != nil {
		return nil, err
	}

	r := &ScenarioRunner{
		Chain:     chain,
		Judge:     judge,
		Relay:     NamedAddress(RelayName),
		Logger:    logger,
		authority: NamedKey(AuthorityName),
		relay:     NamedKey(RelayName),
	}
	authority := cfg.Authority

	setup := []app.Msg{
		&types.MsgSetRelay{Authority: authority, Relay: r.Relay.String()},
		&types.MsgSetJudgeKey{Authority: authority, PubKey: judge.PubKey().Bytes()},
	}
	for _, name := range s.Creators {
		setup = append(setup, &types.MsgGrantCreator{Authority: authority, Creator: NamedAddress(name).String()})
	}
	for i, p := range s.Puzzles {
		setup = append(setup, &types.MsgSetPuzzle{
			Sender:        authority,
			PuzzleId:      uint64(i),
			CanonicalHash: types.Keccak256([]byte(p.Answer)),
			BasePoints:    p.BasePoints,
		})
	}
	setup = append(setup, &types.MsgStartGame{Authority: authority, Duration: s.Duration})

	for _, msg := range setup {
		if _, err := chain.SignAndDeliver(ctx, r.authority, msg); err != nil {
			return nil, fmt.Errorf("scenario setup %T: %w", msg, err)
		}
	}
	r.start = chain.BlockTime()
	chain.Commit()
	return r, nil
}

// Run executes every step. Rejected steps are recorded, not fatal.
func (r *ScenarioRunner) Run(ctx context.Context, s *Scenario) (*ScenarioReport, error) {
	report := &ScenarioReport{
		ChainID: r.Chain.ChainID(),
		Judge:   types.JudgeAddress(r.Judge.PubKey().Bytes()).String(),
	}

	for i, step := range s.Steps {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		res, err := r.runStep(ctx, i, step, s.Duration)
		if err != nil {
			return nil, err
		}
		report.Steps = append(report.Steps, res)
	}

	if msg, broken := r.Chain.CheckInvariants(); broken {
		return nil, fmt.Errorf("invariant broken: %s", msg)
	}

	err := r.Chain.Query(ctx, func(qctx context.Context, qs types.QueryServer) error {
		lb, err := qs.Leaderboard(qctx, &types.QueryLeaderboardRequest{})
		if err != nil {
			return err
		}
		report.Leaderboard = lb.Entries
		return nil
	})
	if err != nil {
		return nil, err
	}

	genesis, err := r.Chain.ExportGenesis()
	if err != nil {
		return nil, err
	}
	report.Tokens = genesis.Tokens
	return report, nil
}

func (r *ScenarioRunner) runStep(ctx context.Context, i int, step map[string]any, duration uint64) (StepResult, error) {
	action := cast.ToString(step["action"])
	playerName := cast.ToString(step["player"])
	res := StepResult{Index: i, Action: action, Player: playerName}

	if at, ok := step["at"]; ok {
		offset, err := cast.ToUint64E(at)
		if err != nil {
			return res, fmt.Errorf("step %d: invalid at: %w", i, err)
		}
		target := r.start.Add(time.Duration(offset) * time.Second)
		if target.After(r.Chain.BlockTime()) {
			if err := r.Chain.CommitAt(target); err != nil {
				return res, err
			}
		}
	}

	key, msg, err := r.buildMsg(i, action, playerName, step, duration)
	if err != nil {
		return res, err
	}
	if as := cast.ToString(step["as"]); as != "" {
		key = NamedKey(as)
	}

	_, deliverErr := r.Chain.SignAndDeliver(ctx, key, msg)
	res.Class = string(types.Classify(deliverErr))
	if deliverErr != nil {
		res.Error = deliverErr.Error()
		r.Logger.Info("step rejected", "index", i, "action", action, "class", res.Class)
	}

	if expect, ok := step["expect"]; ok && cast.ToString(expect) != res.Class {
		return res, fmt.Errorf("step %d (%s): expected %s, got %s: %v", i, action, cast.ToString(expect), res.Class, deliverErr)
	}
	return res, nil
}

// buildMsg returns the message for a step and the key of the participant who
// sends it by default.
func (r *ScenarioRunner) buildMsg(i int, action, playerName string, step map[string]any, duration uint64) (*secp256k1.PrivKey, app.Msg, error) {
	authority := NamedAddress(AuthorityName).String()
	player := NamedAddress(playerName)

	switch action {
	case ActionSubmit:
		if playerName == "" {
			return nil, nil, fmt.Errorf("step %d: submit requires a player", i)
		}
		att := types.Attestation{
			Player:   player,
			PuzzleId: cast.ToUint64(step["puzzle"]),
			Correct:  cast.ToBool(step["correct"]),
		}
		if tr, ok := step["time_remaining"]; ok {
			att.TimeRemaining = cast.ToUint64(tr)
		} else {
			elapsed := uint64(r.Chain.BlockTime().Sub(r.start) / time.Second)
			if elapsed < duration {
				att.TimeRemaining = duration - elapsed
			}
		}
		sig, err := types.SignAttestation(r.Judge, r.Chain.ChainID(), types.ModuleAddress(), att)
		if err != nil {
			return nil, nil, err
		}
		return r.relay, &types.MsgSubmitResult{
			Relay:         r.Relay.String(),
			Player:        player.String(),
			PuzzleId:      att.PuzzleId,
			Correct:       att.Correct,
			TimeRemaining: att.TimeRemaining,
			Signature:     sig,
		}, nil
	case ActionEnd:
		return r.authority, &types.MsgEndGame{Authority: authority}, nil
	case ActionFinalize:
		if playerName != "" {
			return NamedKey(playerName), &types.MsgFinalizeRanks{Sender: player.String()}, nil
		}
		return r.authority, &types.MsgFinalizeRanks{Sender: authority}, nil
	case ActionClaim:
		return NamedKey(playerName), &types.MsgClaimReward{Player: player.String()}, nil
	case ActionDeactivate:
		return r.authority, &types.MsgDeactivatePuzzle{Sender: authority, PuzzleId: cast.ToUint64(step["puzzle"])}, nil
	default:
		return nil, nil, fmt.Errorf("step %d: unknown action %q", i, action)
	}
}
