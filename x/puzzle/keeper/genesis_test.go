package keeper_test

import (
	"time"

	keepertest "github.com/paw-chain/puzzlehunt/testutil/keeper"
	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

func (s *KeeperTestSuite) TestGenesisDefaultExport() {
	k, ctx := keepertest.PuzzleKeeper(s.T())
	s.Require().NoError(k.InitGenesis(ctx, *types.DefaultGenesis()))

	gs, err := k.ExportGenesis(ctx)
	s.Require().NoError(err)
	s.Require().NoError(gs.Validate())
	s.Require().Equal(types.DefaultParams(), gs.Params)
	s.Require().Equal(types.GameStateNotStarted, gs.Game.State)
	s.Require().Empty(gs.Config.Relay)
	s.Require().Empty(gs.Config.JudgePubKey)
	s.Require().Empty(gs.Puzzles)
	s.Require().Empty(gs.Roster)
	s.Require().Empty(gs.Tokens)
	s.Require().Equal(uint64(1), gs.NextTokenId)
	s.Require().Nil(gs.Finalization)
}

func (s *KeeperTestSuite) TestGenesisRoundTripOfPlayedGame() {
	creator := testAddr("creator")
	_, err := s.msgServer.GrantCreator(s.ctx, &types.MsgGrantCreator{Authority: s.authority, Creator: creator.String()})
	s.Require().NoError(err)
	_, err = s.msgServer.DeactivatePuzzle(s.ctx, &types.MsgDeactivatePuzzle{Sender: creator.String(), PuzzleId: 2})
	s.Require().NoError(err)

	s.startGame()
	alice, bob, carol := testAddr("alice"), testAddr("bob"), testAddr("carol")
	s.mustSubmit(alice, 0, true, 300)
	s.advance(time.Minute)
	s.mustSubmit(bob, 0, true, 30)
	s.mustSubmit(carol, 0, false, 0)
	s.mustSubmit(alice, 1, true, 0)
	s.endGame()
	s.finalize()
	_, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: bob.String()})
	s.Require().NoError(err)

	exported, err := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Roster, 3)
	s.Require().Len(exported.Ranks, 3)
	s.Require().Len(exported.Tokens, 1)
	s.Require().Equal(uint64(2), exported.NextTokenId)
	s.Require().NotNil(exported.Finalization)

	k, ctx := keepertest.PuzzleKeeper(s.T())
	s.Require().NoError(k.InitGenesis(ctx, *exported))

	reimported, err := k.ExportGenesis(ctx)
	s.Require().NoError(err)
	s.Require().Equal(exported, reimported)

	msg, broken := keeperInvariants(k)(ctx)
	s.Require().False(broken, msg)

	// the imported game continues where it stopped
	_, err = k.ClaimReward(ctx, bob)
	s.Require().ErrorIs(err, types.ErrAlreadyClaimed)
	token, err := k.ClaimReward(ctx, alice)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), token.Id)
	s.Require().Equal(uint64(1), token.Rank)
}

func (s *KeeperTestSuite) TestInitGenesisRejectsInvalidState() {
	k, ctx := keepertest.PuzzleKeeper(s.T())
	gs := types.DefaultGenesis()
	gs.Roster = []string{testAddr("ghost").String()}
	s.Require().ErrorIs(k.InitGenesis(ctx, *gs), types.ErrInvalidGenesis)
}
