package types

import (
	"fmt"
	"time"
)

// GameState is the lifecycle phase of the game.
type GameState int32

const (
	GameStateNotStarted GameState = 0
	GameStateActive     GameState = 1
	GameStateEnded      GameState = 2
)

func (s GameState) String() string {
	switch s {
	case GameStateNotStarted:
		return "NOT_STARTED"
	case GameStateActive:
		return "ACTIVE"
	case GameStateEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(s))
	}
}

// GameInfo is the single global lifecycle record.
type GameInfo struct {
	State GameState `json:"state"`
	// StartTime is the unix time (seconds) at which StartGame was applied
	StartTime int64 `json:"start_time"`
	// Duration is the submission window length in seconds
	Duration uint64 `json:"duration"`
	// EndTime is set when the game is ended explicitly
	EndTime int64 `json:"end_time"`
}

// Deadline returns the unix time after which the submission window is closed.
func (g GameInfo) Deadline() int64 {
	return g.StartTime + int64(g.Duration)
}

// AcceptingResults reports whether results may still be applied at now.
func (g GameInfo) AcceptingResults(now time.Time) bool {
	return g.State == GameStateActive && now.Unix() <= g.Deadline()
}

// IsOver reports whether the game is over, either explicitly ended or past its deadline.
func (g GameInfo) IsOver(now time.Time) bool {
	switch g.State {
	case GameStateEnded:
		return true
	case GameStateActive:
		return now.Unix() > g.Deadline()
	default:
		return false
	}
}

// TimeRemaining returns the seconds left in the active window, zero otherwise.
func (g GameInfo) TimeRemaining(now time.Time) uint64 {
	if g.State != GameStateActive {
		return 0
	}
	left := g.Deadline() - now.Unix()
	if left < 0 {
		return 0
	}
	return uint64(left)
}

// Puzzle is a registered puzzle definition.
type Puzzle struct {
	Id            uint64 `json:"id"`
	CanonicalHash []byte `json:"canonical_hash"`
	BasePoints    uint64 `json:"base_points"`
	Active        bool   `json:"active"`
}

// PlayerStats is the per-player progress record.
type PlayerStats struct {
	Address       string `json:"address"`
	Score         uint64 `json:"score"`
	PuzzleIndex   uint64 `json:"puzzle_index"`
	ClaimedReward bool   `json:"claimed_reward"`
	IsActive      bool   `json:"is_active"`
	LastSolveTime int64  `json:"last_solve_time"`
	Attempts      uint64 `json:"attempts"`
	Solved        uint64 `json:"solved"`
}

// Standing projects the ranking keys of a player.
func (p PlayerStats) Standing() Standing {
	return Standing{
		Player:        p.Address,
		Score:         p.Score,
		PuzzleIndex:   p.PuzzleIndex,
		LastSolveTime: p.LastSolveTime,
	}
}

// FinalRank is an exported rank assignment.
type FinalRank struct {
	Player string `json:"player"`
	Rank   uint64 `json:"rank"`
}

// RewardToken is a unique reward minted once per player on claim.
type RewardToken struct {
	Id            uint64 `json:"id"`
	Owner         string `json:"owner"`
	Rank          uint64 `json:"rank"`
	Score         uint64 `json:"score"`
	PuzzlesSolved uint64 `json:"puzzles_solved"`
	MintedHeight  int64  `json:"minted_height"`
	MintedAt      int64  `json:"minted_at"`
}

// GameConfig holds the submission trust anchors.
type GameConfig struct {
	// Relay is the only address allowed to deliver attestations
	Relay string `json:"relay"`
	// JudgePubKey is the compressed secp256k1 key attestations must recover to
	JudgePubKey []byte `json:"judge_pub_key"`
}

// FinalizationRecord describes the most recent rank finalization pass.
type FinalizationRecord struct {
	Height  int64  `json:"height"`
	Time    int64  `json:"time"`
	Players uint64 `json:"players"`
}
