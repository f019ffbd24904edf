package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// sanitizePagination enforces sensible defaults and caps for paginated queries.
func sanitizePagination(p *query.PageRequest) *query.PageRequest {
	if p == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}
	if p.Limit == 0 {
		p.Limit = defaultPaginationLimit
	}
	if p.Limit > maxPaginationLimit {
		p.Limit = maxPaginationLimit
	}
	return p
}

func parseAddress(field, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid %s address: %s", field, err)
	}
	return acc, nil
}

// Game returns the lifecycle record and derived window flags.
func (qs queryServer) Game(goCtx context.Context, req *types.QueryGameRequest) (*types.QueryGameResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	game, err := qs.GetGameInfo(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	now := sdk.UnwrapSDKContext(goCtx).BlockTime()

	return &types.QueryGameResponse{
		Game:             game,
		TimeRemaining:    game.TimeRemaining(now),
		AcceptingResults: game.AcceptingResults(now),
		Over:             game.IsOver(now),
	}, nil
}

// Params returns the module parameters.
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	params, err := qs.GetParams(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Config returns relay and judge configuration.
func (qs queryServer) Config(goCtx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	cfg, err := qs.GetGameConfig(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	res := &types.QueryConfigResponse{Config: cfg, Authority: qs.authority}
	if len(cfg.JudgePubKey) > 0 {
		res.JudgeAddress = types.JudgeAddress(cfg.JudgePubKey).String()
	}
	return res, nil
}

// TimeRemaining returns seconds left in the submission window.
func (qs queryServer) TimeRemaining(goCtx context.Context, req *types.QueryTimeRemainingRequest) (*types.QueryTimeRemainingResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	secs, err := qs.Keeper.TimeRemaining(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryTimeRemainingResponse{Seconds: secs}, nil
}

// PlayerCount returns the roster length.
func (qs queryServer) PlayerCount(goCtx context.Context, req *types.QueryPlayerCountRequest) (*types.QueryPlayerCountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	return &types.QueryPlayerCountResponse{Count: qs.GetPlayerCount(goCtx)}, nil
}

// Player returns a player's stats. Unknown players report zero stats.
func (qs queryServer) Player(goCtx context.Context, req *types.QueryPlayerRequest) (*types.QueryPlayerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := parseAddress("player", req.Player)
	if err != nil {
		return nil, err
	}

	stats, found, err := qs.GetPlayer(goCtx, addr)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		stats = types.PlayerStats{Address: req.Player}
	}
	return &types.QueryPlayerResponse{Stats: stats, Found: found}, nil
}

// Puzzle returns a puzzle definition.
func (qs queryServer) Puzzle(goCtx context.Context, req *types.QueryPuzzleRequest) (*types.QueryPuzzleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	puzzle, found, err := qs.GetPuzzle(goCtx, req.PuzzleId)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "puzzle %d not found", req.PuzzleId)
	}
	return &types.QueryPuzzleResponse{Puzzle: puzzle}, nil
}

// PuzzleCount returns one past the highest puzzle id.
func (qs queryServer) PuzzleCount(goCtx context.Context, req *types.QueryPuzzleCountRequest) (*types.QueryPuzzleCountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	return &types.QueryPuzzleCountResponse{Count: qs.GetPuzzleCount(goCtx)}, nil
}

// FinalRank returns a player's rank; zero means unassigned.
func (qs queryServer) FinalRank(goCtx context.Context, req *types.QueryFinalRankRequest) (*types.QueryFinalRankResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := parseAddress("player", req.Player)
	if err != nil {
		return nil, err
	}
	return &types.QueryFinalRankResponse{Rank: qs.GetFinalRank(goCtx, addr)}, nil
}

// Roster pages through players in join order.
func (qs queryServer) Roster(goCtx context.Context, req *types.QueryRosterRequest) (*types.QueryRosterResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	players, pageRes, err := qs.GetRosterPage(goCtx, sanitizePagination(req.Pagination))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryRosterResponse{Players: players, Pagination: pageRes}, nil
}

// Leaderboard returns the roster in ranking order.
func (qs queryServer) Leaderboard(goCtx context.Context, req *types.QueryLeaderboardRequest) (*types.QueryLeaderboardResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	entries, err := qs.GetLeaderboard(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryLeaderboardResponse{Entries: entries}, nil
}

// RewardToken returns a minted token by id.
func (qs queryServer) RewardToken(goCtx context.Context, req *types.QueryRewardTokenRequest) (*types.QueryRewardTokenResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	token, found, err := qs.GetRewardToken(goCtx, req.TokenId)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "token %d not found", req.TokenId)
	}
	return &types.QueryRewardTokenResponse{Token: token}, nil
}

// RewardTokenByOwner returns the token minted to an owner.
func (qs queryServer) RewardTokenByOwner(goCtx context.Context, req *types.QueryRewardTokenByOwnerRequest) (*types.QueryRewardTokenByOwnerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	token, found, err := qs.GetRewardTokenByOwner(goCtx, owner)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "no token for %s", req.Owner)
	}
	return &types.QueryRewardTokenByOwnerResponse{Token: token}, nil
}

// IsCreator reports whether an address holds the creator role.
func (qs queryServer) IsCreator(goCtx context.Context, req *types.QueryIsCreatorRequest) (*types.QueryIsCreatorResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := parseAddress("address", req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryIsCreatorResponse{IsCreator: qs.Keeper.IsCreator(goCtx, addr)}, nil
}
