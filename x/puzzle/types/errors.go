package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Puzzle module sentinel errors
var (
	// Authorization errors
	ErrUnauthorized          = sdkerrors.Register(ModuleName, 2, "unauthorized")
	ErrInvalidJudgeSignature = sdkerrors.Register(ModuleName, 3, "attestation not signed by judge")
	ErrInvalidRelay          = sdkerrors.Register(ModuleName, 4, "caller is not the relay")
	ErrInvalidTxSignature    = sdkerrors.Register(ModuleName, 5, "transaction signature verification failed")
	ErrWrongTxSequence       = sdkerrors.Register(ModuleName, 6, "incorrect account sequence")

	// Lifecycle errors
	ErrInvalidGameState       = sdkerrors.Register(ModuleName, 10, "invalid game state")
	ErrSubmissionWindowClosed = sdkerrors.Register(ModuleName, 11, "submission window closed")
	ErrGameNotOver            = sdkerrors.Register(ModuleName, 12, "game is not over")

	// Sequencing errors
	ErrPuzzleSequence = sdkerrors.Register(ModuleName, 20, "puzzle id does not match expected index")
	ErrPuzzleInactive = sdkerrors.Register(ModuleName, 21, "puzzle is not active")
	ErrPuzzleNotFound = sdkerrors.Register(ModuleName, 22, "puzzle not found")

	// Reward errors
	ErrAlreadyClaimed  = sdkerrors.Register(ModuleName, 30, "reward already claimed")
	ErrRankNotAssigned = sdkerrors.Register(ModuleName, 31, "final rank not assigned")
	ErrTokenNotFound   = sdkerrors.Register(ModuleName, 32, "reward token not found")
	ErrPlayerNotFound  = sdkerrors.Register(ModuleName, 33, "player not found")

	// Configuration and validation errors
	ErrInvalidRequest  = sdkerrors.Register(ModuleName, 40, "invalid request")
	ErrInvalidParams   = sdkerrors.Register(ModuleName, 41, "invalid params")
	ErrJudgeKeyNotSet  = sdkerrors.Register(ModuleName, 42, "judge key not configured")
	ErrRelayNotSet     = sdkerrors.Register(ModuleName, 43, "relay address not configured")
	ErrInvalidJudgeKey = sdkerrors.Register(ModuleName, 44, "invalid judge public key")
	ErrInvalidGenesis  = sdkerrors.Register(ModuleName, 45, "invalid genesis state")
	ErrPointsOverflow  = sdkerrors.Register(ModuleName, 46, "points overflow")
	ErrInvalidPuzzleID = sdkerrors.Register(ModuleName, 47, "invalid puzzle id")
)

// ErrorClass groups sentinel errors into the rejection classes surfaced to callers.
type ErrorClass string

const (
	ClassNone            ErrorClass = "none"
	ClassUnknown         ErrorClass = "unknown"
	ClassAuthorization   ErrorClass = "authorization"
	ClassState           ErrorClass = "state"
	ClassSequence        ErrorClass = "sequence"
	ClassAlreadyClaimed  ErrorClass = "already_claimed"
	ClassRankNotAssigned ErrorClass = "rank_not_assigned"
	ClassValidation      ErrorClass = "validation"
)

var errorClasses = []struct {
	class ErrorClass
	errs  []error
}{
	{ClassAuthorization, []error{ErrUnauthorized, ErrInvalidJudgeSignature, ErrInvalidRelay, ErrInvalidTxSignature, ErrWrongTxSequence}},
	{ClassState, []error{ErrInvalidGameState, ErrSubmissionWindowClosed, ErrGameNotOver}},
	{ClassSequence, []error{ErrPuzzleSequence, ErrPuzzleInactive, ErrPuzzleNotFound}},
	{ClassAlreadyClaimed, []error{ErrAlreadyClaimed}},
	{ClassRankNotAssigned, []error{ErrRankNotAssigned}},
	{ClassValidation, []error{ErrInvalidRequest, ErrInvalidParams, ErrJudgeKeyNotSet, ErrRelayNotSet, ErrInvalidJudgeKey, ErrInvalidGenesis, ErrTokenNotFound, ErrPlayerNotFound, ErrPointsOverflow, ErrInvalidPuzzleID}},
}

// Classify reports which rejection class err belongs to.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	for _, group := range errorClasses {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.class
			}
		}
	}
	return ClassUnknown
}
