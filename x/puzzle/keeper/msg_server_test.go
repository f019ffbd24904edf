package keeper_test

import (
	"math"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/puzzlehunt/testutil/keeper"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

func eventOfType(events sdk.Events, typ string) (sdk.Event, bool) {
	for _, ev := range events {
		if ev.Type == typ {
			return ev, true
		}
	}
	return sdk.Event{}, false
}

func attributeValue(ev sdk.Event, key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func (s *KeeperTestSuite) TestSubmitBeforeStart() {
	_, err := s.submit(testAddr("alice"), 0, true, 100)
	s.Require().ErrorIs(err, types.ErrInvalidGameState)
	s.Require().Equal(types.ClassState, types.Classify(err))
	s.Require().Zero(s.keeper.GetPlayerCount(s.ctx))
}

func (s *KeeperTestSuite) TestCorrectAnswerAwardsTimeBonus() {
	s.startGame()
	alice := testAddr("alice")

	s.advance(30 * time.Second)
	res := s.mustSubmit(alice, 0, true, 100)
	s.Require().Equal(uint64(11), res.PointsAwarded)
	s.Require().Equal(uint64(11), res.NewScore)
	s.Require().Equal(uint64(1), res.PuzzleIndex)

	stats := s.player(alice)
	s.Require().Equal(uint64(11), stats.Score)
	s.Require().Equal(uint64(1), stats.PuzzleIndex)
	s.Require().Equal(s.ctx.BlockTime().Unix(), stats.LastSolveTime)
	s.Require().True(stats.IsActive)
	s.Require().False(stats.ClaimedReward)
	s.Require().Equal(uint64(1), s.keeper.GetPlayerCount(s.ctx))

	ev, ok := eventOfType(s.ctx.EventManager().Events(), types.EventTypeResult)
	s.Require().True(ok)
	s.Require().Equal(alice.String(), attributeValue(ev, types.AttributeKeyPlayer))
	s.Require().Equal("true", attributeValue(ev, types.AttributeKeyCorrect))
	s.Require().Equal("11", attributeValue(ev, types.AttributeKeyScore))
	s.Require().Equal("11", attributeValue(ev, types.AttributeKeyPoints))

	// 20 + 3599/60
	res = s.mustSubmit(alice, 1, true, 3599)
	s.Require().Equal(uint64(79), res.PointsAwarded)
	s.Require().Equal(uint64(90), res.NewScore)
}

func (s *KeeperTestSuite) TestWrongAnswerPenaltyFloorsAtZero() {
	s.startGame()
	alice := testAddr("alice")

	res := s.mustSubmit(alice, 0, false, 100)
	s.Require().Zero(res.NewScore)
	s.Require().Zero(res.PointsAwarded)

	stats := s.player(alice)
	s.Require().Zero(stats.Score)
	s.Require().Zero(stats.PuzzleIndex)
	s.Require().True(stats.IsActive)
	s.Require().Equal(uint64(1), s.keeper.GetPlayerCount(s.ctx), "first attestation joins the roster")

	s.mustSubmit(alice, 0, true, 0)
	res = s.mustSubmit(alice, 1, false, 0)
	s.Require().Equal(uint64(8), res.NewScore)
	s.Require().Equal(uint64(1), res.PuzzleIndex)

	// repeated attestations never add the player twice
	s.Require().Equal(uint64(1), s.keeper.GetPlayerCount(s.ctx))
	s.Require().Equal(uint64(3), s.player(alice).Attempts)
}

func (s *KeeperTestSuite) TestSubmitRejections() {
	s.startGame()
	alice := testAddr("alice")
	s.mustSubmit(alice, 0, true, 0)

	impostor := secp256k1.GenPrivKey()

	tests := []struct {
		name  string
		msg   func() *types.MsgSubmitResult
		err   error
		class types.ErrorClass
	}{
		{
			name: "relay other than the configured one",
			msg: func() *types.MsgSubmitResult {
				m := s.signedResult(s.judge, alice, 1, true, 0)
				m.Relay = testAddr("mallory").String()
				return m
			},
			err:   types.ErrInvalidRelay,
			class: types.ClassAuthorization,
		},
		{
			name:  "signed by a key other than the judge",
			msg:   func() *types.MsgSubmitResult { return s.signedResult(impostor, alice, 1, true, 0) },
			err:   types.ErrInvalidJudgeSignature,
			class: types.ClassAuthorization,
		},
		{
			name: "correct flag flipped after signing",
			msg: func() *types.MsgSubmitResult {
				m := s.signedResult(s.judge, alice, 1, false, 0)
				m.Correct = true
				return m
			},
			err:   types.ErrInvalidJudgeSignature,
			class: types.ClassAuthorization,
		},
		{
			name: "time remaining inflated after signing",
			msg: func() *types.MsgSubmitResult {
				m := s.signedResult(s.judge, alice, 1, true, 10)
				m.TimeRemaining = 3600
				return m
			},
			err:   types.ErrInvalidJudgeSignature,
			class: types.ClassAuthorization,
		},
		{
			name: "attestation for another player",
			msg: func() *types.MsgSubmitResult {
				m := s.signedResult(s.judge, alice, 1, true, 0)
				m.Player = testAddr("bob").String()
				return m
			},
			err:   types.ErrInvalidJudgeSignature,
			class: types.ClassAuthorization,
		},
		{
			name:  "replay of an already solved puzzle",
			msg:   func() *types.MsgSubmitResult { return s.signedResult(s.judge, alice, 0, true, 0) },
			err:   types.ErrPuzzleSequence,
			class: types.ClassSequence,
		},
		{
			name:  "skipping ahead",
			msg:   func() *types.MsgSubmitResult { return s.signedResult(s.judge, alice, 2, true, 0) },
			err:   types.ErrPuzzleSequence,
			class: types.ClassSequence,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			before, err := s.keeper.ExportGenesis(s.ctx)
			s.Require().NoError(err)
			events := len(s.ctx.EventManager().Events())

			_, err = s.msgServer.SubmitResult(s.ctx, tc.msg())
			s.Require().ErrorIs(err, tc.err)
			s.Require().Equal(tc.class, types.Classify(err))

			after, err := s.keeper.ExportGenesis(s.ctx)
			s.Require().NoError(err)
			s.Require().Equal(before, after, "rejected submission changed state")
			s.Require().Len(s.ctx.EventManager().Events(), events, "rejected submission emitted events")
		})
	}
}

func (s *KeeperTestSuite) TestAttestationBoundToChain() {
	s.startGame()
	alice := testAddr("alice")

	att := types.Attestation{Player: alice, PuzzleId: 0, Correct: true, TimeRemaining: 0}
	sig, err := types.SignAttestation(s.judge, "other-chain-1", types.ModuleAddress(), att)
	s.Require().NoError(err)

	_, err = s.msgServer.SubmitResult(s.ctx, &types.MsgSubmitResult{
		Relay:     s.relay.String(),
		Player:    alice.String(),
		PuzzleId:  0,
		Correct:   true,
		Signature: sig,
	})
	s.Require().ErrorIs(err, types.ErrInvalidJudgeSignature)
}

func (s *KeeperTestSuite) TestSubmitWithoutTrustAnchors() {
	k, ctx := keepertest.PuzzleKeeper(s.T())
	_, err := k.StartGame(ctx, testDuration)
	s.Require().NoError(err)

	att := types.Attestation{Player: testAddr("alice")}
	_, err = k.SubmitResult(ctx, s.relay, att, make([]byte, types.SignatureLength))
	s.Require().ErrorIs(err, types.ErrRelayNotSet)

	s.Require().NoError(k.SetRelay(ctx, s.relay))
	_, err = k.SubmitResult(ctx, s.relay, att, make([]byte, types.SignatureLength))
	s.Require().ErrorIs(err, types.ErrJudgeKeyNotSet)
}

func (s *KeeperTestSuite) TestInactiveAndMissingPuzzles() {
	s.startGame()
	alice, bob := testAddr("alice"), testAddr("bob")

	_, err := s.msgServer.DeactivatePuzzle(s.ctx, &types.MsgDeactivatePuzzle{Sender: s.authority, PuzzleId: 0})
	s.Require().NoError(err)
	_, err = s.submit(alice, 0, true, 0)
	s.Require().ErrorIs(err, types.ErrPuzzleInactive)
	s.Require().Equal(types.ClassSequence, types.Classify(err))
	s.Require().Zero(s.keeper.GetPlayerCount(s.ctx))

	// setting the puzzle again reactivates it
	s.setPuzzle(s.authority, 0, 10)
	for id := uint64(0); id < 3; id++ {
		s.mustSubmit(bob, id, true, 0)
	}
	_, err = s.submit(bob, 3, true, 0)
	s.Require().ErrorIs(err, types.ErrPuzzleNotFound)
	s.Require().Equal(types.ClassSequence, types.Classify(err))
}

func (s *KeeperTestSuite) TestFinalizeRequiresGameOver() {
	_, err := s.msgServer.FinalizeRanks(s.ctx, &types.MsgFinalizeRanks{Sender: testAddr("anyone").String()})
	s.Require().ErrorIs(err, types.ErrGameNotOver)

	s.startGame()
	_, err = s.msgServer.FinalizeRanks(s.ctx, &types.MsgFinalizeRanks{Sender: testAddr("anyone").String()})
	s.Require().ErrorIs(err, types.ErrGameNotOver)
	s.Require().Equal(types.ClassState, types.Classify(err))

	_, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: testAddr("anyone").String()})
	s.Require().ErrorIs(err, types.ErrGameNotOver)

	// the deadline alone ends the game
	s.advance(time.Duration(testDuration+1) * time.Second)
	s.finalize()
}

func (s *KeeperTestSuite) TestTiedPlayersRankedByLastSolveTime() {
	s.startGame()
	alice, bob, carol, dave := testAddr("alice"), testAddr("bob"), testAddr("carol"), testAddr("dave")

	s.advance(10 * time.Second)
	s.mustSubmit(alice, 0, true, 120)
	s.mustSubmit(carol, 0, true, 120)
	s.advance(10 * time.Second)
	s.mustSubmit(bob, 0, true, 120)
	s.mustSubmit(dave, 0, false, 0)

	s.Require().Equal(s.player(alice).Score, s.player(bob).Score)
	s.Require().Less(s.player(alice).LastSolveTime, s.player(bob).LastSolveTime)

	s.endGame()
	s.finalize()

	s.Require().Equal(uint64(1), s.keeper.GetFinalRank(s.ctx, alice))
	s.Require().Equal(uint64(1), s.keeper.GetFinalRank(s.ctx, carol))
	s.Require().Equal(uint64(3), s.keeper.GetFinalRank(s.ctx, bob))
	s.Require().Equal(uint64(4), s.keeper.GetFinalRank(s.ctx, dave))
	s.Require().Zero(s.keeper.GetFinalRank(s.ctx, testAddr("spectator")))

	ev, ok := eventOfType(s.ctx.EventManager().Events(), types.EventTypeRanksFinalized)
	s.Require().True(ok)
	s.Require().Equal("4", attributeValue(ev, types.AttributeKeyPlayers))
	s.checkInvariants()
}

func (s *KeeperTestSuite) TestRankingKeyOrder() {
	s.startGame()
	fast, deep := testAddr("fast"), testAddr("deep")

	// fast scores more on one puzzle, deep solves more puzzles for fewer points
	s.mustSubmit(fast, 0, true, 3600)
	s.mustSubmit(deep, 0, true, 0)
	s.mustSubmit(deep, 1, true, 0)
	s.Require().Greater(s.player(fast).Score, s.player(deep).Score)

	s.endGame()
	s.finalize()
	s.Require().Equal(uint64(1), s.keeper.GetFinalRank(s.ctx, fast))
	s.Require().Equal(uint64(2), s.keeper.GetFinalRank(s.ctx, deep))
}

func (s *KeeperTestSuite) TestFinalizeIsRepeatable() {
	s.startGame()
	alice, bob := testAddr("alice"), testAddr("bob")
	s.mustSubmit(alice, 0, true, 600)
	s.mustSubmit(bob, 0, true, 60)
	s.endGame()

	s.finalize()
	first := s.keeper.GetAllFinalRanks(s.ctx)
	s.Require().Len(first, 2)

	s.advance(5 * time.Second)
	s.finalize()
	s.Require().Equal(first, s.keeper.GetAllFinalRanks(s.ctx))

	record, found, err := s.keeper.GetFinalization(s.ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(s.ctx.BlockHeight(), record.Height)
	s.Require().Equal(uint64(2), record.Players)
}

func (s *KeeperTestSuite) TestClaimReward() {
	s.startGame()
	alice, bob := testAddr("alice"), testAddr("bob")
	s.mustSubmit(alice, 0, true, 600)
	s.mustSubmit(bob, 0, false, 0)
	s.endGame()

	_, err := s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: alice.String()})
	s.Require().ErrorIs(err, types.ErrRankNotAssigned)
	s.Require().Equal(types.ClassRankNotAssigned, types.Classify(err))

	s.finalize()

	res, err := s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: alice.String()})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), res.TokenId)
	s.Require().Equal(uint64(1), res.Rank)
	s.Require().True(s.player(alice).ClaimedReward)

	ev, ok := eventOfType(s.ctx.EventManager().Events(), types.EventTypeRewardClaimed)
	s.Require().True(ok)
	s.Require().Equal("1", attributeValue(ev, types.AttributeKeyTokenID))

	events := len(s.ctx.EventManager().Events())
	_, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: alice.String()})
	s.Require().ErrorIs(err, types.ErrAlreadyClaimed)
	s.Require().Equal(types.ClassAlreadyClaimed, types.Classify(err))
	s.Require().Len(s.ctx.EventManager().Events(), events)

	_, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: testAddr("spectator").String()})
	s.Require().ErrorIs(err, types.ErrRankNotAssigned)

	res, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: bob.String()})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), res.TokenId)
	s.Require().Equal(uint64(2), res.Rank)

	token, found, err := s.keeper.GetRewardTokenByOwner(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(uint64(1), token.Id)
	s.Require().Equal(uint64(20), token.Score)
	s.Require().Equal(uint64(1), token.PuzzlesSolved)

	// finalizing again after claims keeps ranks and tokens consistent
	s.finalize()
	s.Require().Equal(uint64(1), s.keeper.GetFinalRank(s.ctx, alice))
	s.checkInvariants()
}

func (s *KeeperTestSuite) TestScoreOverflowIsRejected() {
	alice := testAddr("alice")
	s.setPuzzle(s.authority, 0, math.MaxUint64)
	s.startGame()

	before, err := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(err)

	// bonus pushes the award past uint64
	_, err = s.submit(alice, 0, true, 60)
	s.Require().ErrorIs(err, types.ErrPointsOverflow)
	after, err := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(before, after)

	// award fits, but the running score would not
	res := s.mustSubmit(alice, 0, true, 0)
	s.Require().Equal(uint64(math.MaxUint64), res.NewScore)
	s.setPuzzle(s.authority, 1, 1)
	_, err = s.submit(alice, 1, true, 0)
	s.Require().ErrorIs(err, types.ErrPointsOverflow)
	s.Require().Equal(uint64(math.MaxUint64), s.player(alice).Score)
	s.Require().Equal(uint64(1), s.player(alice).PuzzleIndex)
}
