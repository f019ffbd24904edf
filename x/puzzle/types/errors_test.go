package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want types.ErrorClass
	}{
		{nil, types.ClassNone},
		{types.ErrUnauthorized, types.ClassAuthorization},
		{types.ErrInvalidJudgeSignature.Wrap("bad"), types.ClassAuthorization},
		{types.ErrInvalidRelay, types.ClassAuthorization},
		{types.ErrInvalidTxSignature, types.ClassAuthorization},
		{types.ErrWrongTxSequence.Wrap("expected 3"), types.ClassAuthorization},
		{types.ErrInvalidGameState, types.ClassState},
		{types.ErrSubmissionWindowClosed, types.ClassState},
		{types.ErrGameNotOver, types.ClassState},
		{types.ErrPuzzleSequence.Wrapf("expected %d", 1), types.ClassSequence},
		{types.ErrPuzzleInactive, types.ClassSequence},
		{types.ErrAlreadyClaimed, types.ClassAlreadyClaimed},
		{types.ErrRankNotAssigned, types.ClassRankNotAssigned},
		{types.ErrInvalidRequest, types.ClassValidation},
		{types.ErrPointsOverflow, types.ClassValidation},
		{types.ErrInvalidPuzzleID, types.ClassValidation},
		{fmt.Errorf("outer: %w", types.ErrRankNotAssigned), types.ClassRankNotAssigned},
		{errors.New("something else"), types.ClassUnknown},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, types.Classify(tt.err))
		})
	}
}

func TestErrorCodesAreDistinct(t *testing.T) {
	errs := []error{
		types.ErrUnauthorized, types.ErrInvalidJudgeSignature, types.ErrInvalidRelay,
		types.ErrInvalidGameState, types.ErrSubmissionWindowClosed, types.ErrGameNotOver,
		types.ErrPuzzleSequence, types.ErrPuzzleInactive, types.ErrPuzzleNotFound,
		types.ErrAlreadyClaimed, types.ErrRankNotAssigned,
		types.ErrInvalidTxSignature, types.ErrWrongTxSequence, types.ErrPointsOverflow, types.ErrInvalidPuzzleID,
	}
	for i := range errs {
		for j := range errs {
			if i != j {
				require.NotErrorIs(t, errs[i], errs[j])
			}
		}
	}
}
