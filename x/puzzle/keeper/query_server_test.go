package keeper_test

import (
	"time"

	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

func (s *KeeperTestSuite) requireCode(err error, code codes.Code) {
	s.Require().Error(err)
	st, ok := status.FromError(err)
	s.Require().True(ok, "not a grpc status: %v", err)
	s.Require().Equal(code, st.Code())
}

func (s *KeeperTestSuite) TestQueryEmptyRequests() {
	_, err := s.queryServer.Game(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
	_, err = s.queryServer.Player(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
	_, err = s.queryServer.Roster(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
	_, err = s.queryServer.Leaderboard(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
	_, err = s.queryServer.Player(s.ctx, &types.QueryPlayerRequest{Player: "not-an-address"})
	s.requireCode(err, codes.InvalidArgument)
}

func (s *KeeperTestSuite) TestQueryGameAndConfig() {
	game, err := s.queryServer.Game(s.ctx, &types.QueryGameRequest{})
	s.Require().NoError(err)
	s.Require().Equal(types.GameStateNotStarted, game.Game.State)
	s.Require().False(game.AcceptingResults)
	s.Require().False(game.Over)

	s.startGame()
	s.advance(100 * time.Second)

	game, err = s.queryServer.Game(s.ctx, &types.QueryGameRequest{})
	s.Require().NoError(err)
	s.Require().True(game.AcceptingResults)
	s.Require().Equal(testDuration-100, game.TimeRemaining)

	remaining, err := s.queryServer.TimeRemaining(s.ctx, &types.QueryTimeRemainingRequest{})
	s.Require().NoError(err)
	s.Require().Equal(testDuration-100, remaining.Seconds)

	cfg, err := s.queryServer.Config(s.ctx, &types.QueryConfigRequest{})
	s.Require().NoError(err)
	s.Require().Equal(s.relay.String(), cfg.Config.Relay)
	s.Require().Equal(types.JudgeAddress(s.judge.PubKey().Bytes()).String(), cfg.JudgeAddress)
	s.Require().Equal(s.authority, cfg.Authority)

	params, err := s.queryServer.Params(s.ctx, &types.QueryParamsRequest{})
	s.Require().NoError(err)
	s.Require().Equal(types.DefaultParams(), params.Params)
}

func (s *KeeperTestSuite) TestQueryPlayersAndPuzzles() {
	s.startGame()
	alice, bob := testAddr("alice"), testAddr("bob")
	s.mustSubmit(alice, 0, true, 0)
	s.mustSubmit(bob, 0, false, 0)

	count, err := s.queryServer.PlayerCount(s.ctx, &types.QueryPlayerCountRequest{})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), count.Count)

	player, err := s.queryServer.Player(s.ctx, &types.QueryPlayerRequest{Player: alice.String()})
	s.Require().NoError(err)
	s.Require().True(player.Found)
	s.Require().Equal(uint64(10), player.Stats.Score)

	player, err = s.queryServer.Player(s.ctx, &types.QueryPlayerRequest{Player: testAddr("stranger").String()})
	s.Require().NoError(err)
	s.Require().False(player.Found)
	s.Require().Zero(player.Stats.Score)
	s.Require().False(player.Stats.IsActive)

	puzzle, err := s.queryServer.Puzzle(s.ctx, &types.QueryPuzzleRequest{PuzzleId: 2})
	s.Require().NoError(err)
	s.Require().Equal(uint64(30), puzzle.Puzzle.BasePoints)
	_, err = s.queryServer.Puzzle(s.ctx, &types.QueryPuzzleRequest{PuzzleId: 9})
	s.requireCode(err, codes.NotFound)

	puzzles, err := s.queryServer.PuzzleCount(s.ctx, &types.QueryPuzzleCountRequest{})
	s.Require().NoError(err)
	s.Require().Equal(uint64(3), puzzles.Count)

	creator, err := s.queryServer.IsCreator(s.ctx, &types.QueryIsCreatorRequest{Address: alice.String()})
	s.Require().NoError(err)
	s.Require().False(creator.IsCreator)
}

func (s *KeeperTestSuite) TestQueryRosterPagination() {
	s.startGame()
	names := []string{"p0", "p1", "p2", "p3", "p4"}
	for _, name := range names {
		s.mustSubmit(testAddr(name), 0, false, 0)
	}

	page, err := s.queryServer.Roster(s.ctx, &types.QueryRosterRequest{Pagination: &query.PageRequest{Limit: 2, CountTotal: true}})
	s.Require().NoError(err)
	s.Require().Equal([]string{testAddr("p0").String(), testAddr("p1").String()}, page.Players)
	s.Require().Equal(uint64(len(names)), page.Pagination.Total)
	s.Require().NotEmpty(page.Pagination.NextKey)

	var all []string
	var next []byte
	for {
		res, err := s.queryServer.Roster(s.ctx, &types.QueryRosterRequest{Pagination: &query.PageRequest{Key: next, Limit: 2}})
		s.Require().NoError(err)
		all = append(all, res.Players...)
		if len(res.Pagination.NextKey) == 0 {
			break
		}
		next = res.Pagination.NextKey
	}
	s.Require().Len(all, len(names))
	for i, name := range names {
		s.Require().Equal(testAddr(name).String(), all[i], "roster keeps join order")
	}
}

func (s *KeeperTestSuite) TestQueryLeaderboardAndRewards() {
	s.startGame()
	alice, bob := testAddr("alice"), testAddr("bob")
	s.mustSubmit(bob, 0, true, 0)
	s.mustSubmit(alice, 0, true, 600)

	board, err := s.queryServer.Leaderboard(s.ctx, &types.QueryLeaderboardRequest{})
	s.Require().NoError(err)
	s.Require().Len(board.Entries, 2)
	s.Require().Equal(alice.String(), board.Entries[0].Player)
	s.Require().Equal(uint64(1), board.Entries[0].Position)
	s.Require().Zero(board.Entries[0].FinalRank)

	s.endGame()
	s.finalize()

	board, err = s.queryServer.Leaderboard(s.ctx, &types.QueryLeaderboardRequest{})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), board.Entries[0].FinalRank)
	s.Require().Equal(uint64(2), board.Entries[1].FinalRank)

	rank, err := s.queryServer.FinalRank(s.ctx, &types.QueryFinalRankRequest{Player: bob.String()})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), rank.Rank)

	_, err = s.queryServer.RewardTokenByOwner(s.ctx, &types.QueryRewardTokenByOwnerRequest{Owner: bob.String()})
	s.requireCode(err, codes.NotFound)

	_, err = s.msgServer.ClaimReward(s.ctx, &types.MsgClaimReward{Player: bob.String()})
	s.Require().NoError(err)

	byOwner, err := s.queryServer.RewardTokenByOwner(s.ctx, &types.QueryRewardTokenByOwnerRequest{Owner: bob.String()})
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), byOwner.Token.Rank)

	byID, err := s.queryServer.RewardToken(s.ctx, &types.QueryRewardTokenRequest{TokenId: byOwner.Token.Id})
	s.Require().NoError(err)
	s.Require().Equal(bob.String(), byID.Token.Owner)

	_, err = s.queryServer.RewardToken(s.ctx, &types.QueryRewardTokenRequest{TokenId: 99})
	s.requireCode(err, codes.NotFound)
}
