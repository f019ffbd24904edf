package types

import "context"

// MsgServer is the message handler surface of the puzzle module.
type MsgServer interface {
	StartGame(context.Context, *MsgStartGame) (*MsgStartGameResponse, error)
	EndGame(context.Context, *MsgEndGame) (*MsgEndGameResponse, error)
	GrantCreator(context.Context, *MsgGrantCreator) (*MsgGrantCreatorResponse, error)
	RevokeCreator(context.Context, *MsgRevokeCreator) (*MsgRevokeCreatorResponse, error)
	SetRelay(context.Context, *MsgSetRelay) (*MsgSetRelayResponse, error)
	SetJudgeKey(context.Context, *MsgSetJudgeKey) (*MsgSetJudgeKeyResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	SetPuzzle(context.Context, *MsgSetPuzzle) (*MsgSetPuzzleResponse, error)
	DeactivatePuzzle(context.Context, *MsgDeactivatePuzzle) (*MsgDeactivatePuzzleResponse, error)
	SubmitResult(context.Context, *MsgSubmitResult) (*MsgSubmitResultResponse, error)
	FinalizeRanks(context.Context, *MsgFinalizeRanks) (*MsgFinalizeRanksResponse, error)
	ClaimReward(context.Context, *MsgClaimReward) (*MsgClaimRewardResponse, error)
}

// QueryServer is the read surface of the puzzle module.
type QueryServer interface {
	Game(context.Context, *QueryGameRequest) (*QueryGameResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	TimeRemaining(context.Context, *QueryTimeRemainingRequest) (*QueryTimeRemainingResponse, error)
	PlayerCount(context.Context, *QueryPlayerCountRequest) (*QueryPlayerCountResponse, error)
	Player(context.Context, *QueryPlayerRequest) (*QueryPlayerResponse, error)
	Puzzle(context.Context, *QueryPuzzleRequest) (*QueryPuzzleResponse, error)
	PuzzleCount(context.Context, *QueryPuzzleCountRequest) (*QueryPuzzleCountResponse, error)
	FinalRank(context.Context, *QueryFinalRankRequest) (*QueryFinalRankResponse, error)
	Roster(context.Context, *QueryRosterRequest) (*QueryRosterResponse, error)
	Leaderboard(context.Context, *QueryLeaderboardRequest) (*QueryLeaderboardResponse, error)
	RewardToken(context.Context, *QueryRewardTokenRequest) (*QueryRewardTokenResponse, error)
	RewardTokenByOwner(context.Context, *QueryRewardTokenByOwnerRequest) (*QueryRewardTokenByOwnerResponse, error)
	IsCreator(context.Context, *QueryIsCreatorRequest) (*QueryIsCreatorResponse, error)
}
