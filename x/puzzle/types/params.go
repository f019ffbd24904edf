package types

import (
	"fmt"

	"cosmossdk.io/math"
)

const (
	// DefaultWrongAnswerPenalty is subtracted from a score on an incorrect attestation
	DefaultWrongAnswerPenalty uint64 = 2
	// DefaultSecondsPerBonusPoint converts remaining time into bonus points
	DefaultSecondsPerBonusPoint uint64 = 60
	// DefaultMaxGameDuration caps StartGame durations at 30 days
	DefaultMaxGameDuration uint64 = 30 * 24 * 60 * 60
)

// Params defines the tunable scoring parameters of the module.
type Params struct {
	WrongAnswerPenalty   uint64 `json:"wrong_answer_penalty"`
	SecondsPerBonusPoint uint64 `json:"seconds_per_bonus_point"`
	MaxGameDuration      uint64 `json:"max_game_duration"`
}

// DefaultParams returns default puzzle parameters
func DefaultParams() Params {
	return Params{
		WrongAnswerPenalty:   DefaultWrongAnswerPenalty,
		SecondsPerBonusPoint: DefaultSecondsPerBonusPoint,
		MaxGameDuration:      DefaultMaxGameDuration,
	}
}

// Validate checks the parameter set.
func (p Params) Validate() error {
	if p.SecondsPerBonusPoint == 0 {
		return fmt.Errorf("seconds per bonus point must be positive")
	}
	if p.MaxGameDuration == 0 {
		return fmt.Errorf("max game duration must be positive")
	}
	return nil
}

// PointsFor returns the points awarded for a correct answer.
func (p Params) PointsFor(basePoints, timeRemaining uint64) (uint64, error) {
	return AddPoints(basePoints, timeRemaining/p.SecondsPerBonusPoint)
}

// AddPoints returns a+b, or ErrPointsOverflow when the sum exceeds uint64.
func AddPoints(a, b uint64) (uint64, error) {
	sum := math.NewIntFromUint64(a).Add(math.NewIntFromUint64(b))
	if !sum.IsUint64() {
		return 0, ErrPointsOverflow.Wrapf("%d + %d", a, b)
	}
	return sum.Uint64(), nil
}

// ApplyPenalty returns score reduced by the wrong-answer penalty, floored at zero.
func (p Params) ApplyPenalty(score uint64) uint64 {
	if score < p.WrongAnswerPenalty {
		return 0
	}
	return score - p.WrongAnswerPenalty
}
