package types

import "github.com/cosmos/cosmos-sdk/types/query"

// QueryGameRequest is the request type for the Query/Game method.
type QueryGameRequest struct{}

type QueryGameResponse struct {
	Game             GameInfo `json:"game"`
	TimeRemaining    uint64   `json:"time_remaining"`
	AcceptingResults bool     `json:"accepting_results"`
	Over             bool     `json:"over"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config       GameConfig `json:"config"`
	JudgeAddress string     `json:"judge_address"`
	Authority    string     `json:"authority"`
}

type QueryTimeRemainingRequest struct{}

type QueryTimeRemainingResponse struct {
	Seconds uint64 `json:"seconds"`
}

type QueryPlayerCountRequest struct{}

type QueryPlayerCountResponse struct {
	Count uint64 `json:"count"`
}

type QueryPlayerRequest struct {
	Player string `json:"player"`
}

type QueryPlayerResponse struct {
	Stats PlayerStats `json:"stats"`
	Found bool        `json:"found"`
}

type QueryPuzzleRequest struct {
	PuzzleId uint64 `json:"puzzle_id"`
}

type QueryPuzzleResponse struct {
	Puzzle Puzzle `json:"puzzle"`
}

type QueryPuzzleCountRequest struct{}

type QueryPuzzleCountResponse struct {
	Count uint64 `json:"count"`
}

type QueryFinalRankRequest struct {
	Player string `json:"player"`
}

type QueryFinalRankResponse struct {
	Rank uint64 `json:"rank"`
}

type QueryRosterRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryRosterResponse struct {
	Players    []string            `json:"players"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QueryLeaderboardRequest struct{}

// LeaderboardEntry is one row of the leaderboard. FinalRank is zero until ranks are finalized.
type LeaderboardEntry struct {
	Player        string `json:"player"`
	Score         uint64 `json:"score"`
	PuzzleIndex   uint64 `json:"puzzle_index"`
	LastSolveTime int64  `json:"last_solve_time"`
	Position      uint64 `json:"position"`
	FinalRank     uint64 `json:"final_rank"`
}

type QueryLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

type QueryRewardTokenRequest struct {
	TokenId uint64 `json:"token_id"`
}

type QueryRewardTokenResponse struct {
	Token RewardToken `json:"token"`
}

type QueryRewardTokenByOwnerRequest struct {
	Owner string `json:"owner"`
}

type QueryRewardTokenByOwnerResponse struct {
	Token RewardToken `json:"token"`
}

type QueryIsCreatorRequest struct {
	Address string `json:"address"`
}

type QueryIsCreatorResponse struct {
	IsCreator bool `json:"is_creator"`
}
