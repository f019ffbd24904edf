package types

// Event types for the puzzle module
const (
	EventTypeGameStarted     = "puzzle_game_started"
	EventTypeGameEnded       = "puzzle_game_ended"
	EventTypePuzzleSet       = "puzzle_set"
	EventTypePuzzleDisabled  = "puzzle_disabled"
	EventTypeResult          = "puzzle_result"
	EventTypeRanksFinalized  = "puzzle_ranks_finalized"
	EventTypeRewardClaimed   = "puzzle_reward_claimed"
	EventTypeCreatorGranted  = "puzzle_creator_granted"
	EventTypeCreatorRevoked  = "puzzle_creator_revoked"
	EventTypeRelayUpdated    = "puzzle_relay_updated"
	EventTypeJudgeKeyUpdated = "puzzle_judge_key_updated"
	EventTypeParamsUpdated   = "puzzle_params_updated"
)

// Event attribute keys for the puzzle module
const (
	AttributeKeyPlayer      = "player"
	AttributeKeyPuzzleID    = "puzzle_id"
	AttributeKeyHash        = "hash"
	AttributeKeyBasePoints  = "base_points"
	AttributeKeyCorrect     = "correct"
	AttributeKeyScore       = "score"
	AttributeKeyPoints      = "points"
	AttributeKeyPuzzleIndex = "puzzle_index"
	AttributeKeyTokenID     = "token_id"
	AttributeKeyRank        = "rank"
	AttributeKeyPlayers     = "players"
	AttributeKeyCreator     = "creator"
	AttributeKeyRelay       = "relay"
	AttributeKeyJudge       = "judge"
	AttributeKeyDuration    = "duration"
	AttributeKeyStartTime   = "start_time"
	AttributeKeyEndTime     = "end_time"
	AttributeKeyActor       = "actor"
	AttributeKeyBlockHeight = "block_height"
)
