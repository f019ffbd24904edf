package types

import (
	"math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MaxPuzzleID is the largest puzzle id; the puzzle count is max id + 1.
const MaxPuzzleID uint64 = math.MaxUint64 - 1

// ValidatePuzzleID rejects ids whose count would not fit in a uint64.
func ValidatePuzzleID(id uint64) error {
	if id > MaxPuzzleID {
		return ErrInvalidPuzzleID.Wrapf("%d exceeds %d", id, MaxPuzzleID)
	}
	return nil
}

// Message type names
const (
	TypeMsgStartGame        = "start_game"
	TypeMsgEndGame          = "end_game"
	TypeMsgGrantCreator     = "grant_creator"
	TypeMsgRevokeCreator    = "revoke_creator"
	TypeMsgSetRelay         = "set_relay"
	TypeMsgSetJudgeKey      = "set_judge_key"
	TypeMsgUpdateParams     = "update_params"
	TypeMsgSetPuzzle        = "set_puzzle"
	TypeMsgDeactivatePuzzle = "deactivate_puzzle"
	TypeMsgSubmitResult     = "submit_result"
	TypeMsgFinalizeRanks    = "finalize_ranks"
	TypeMsgClaimReward      = "claim_reward"
)

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidRequest.Wrapf("invalid %s address: %s", field, err)
	}
	return nil
}

// MsgStartGame opens the submission window for Duration seconds.
type MsgStartGame struct {
	Authority string `json:"authority"`
	Duration  uint64 `json:"duration"`
}

func (msg *MsgStartGame) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if msg.Duration == 0 {
		return ErrInvalidRequest.Wrap("duration must be positive")
	}
	return nil
}

type MsgStartGameResponse struct{}

// MsgEndGame closes the game explicitly.
type MsgEndGame struct {
	Authority string `json:"authority"`
}

func (msg *MsgEndGame) ValidateBasic() error {
	return validateAddress("authority", msg.Authority)
}

type MsgEndGameResponse struct{}

// MsgGrantCreator gives an address the creator role.
type MsgGrantCreator struct {
	Authority string `json:"authority"`
	Creator   string `json:"creator"`
}

func (msg *MsgGrantCreator) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return validateAddress("creator", msg.Creator)
}

type MsgGrantCreatorResponse struct{}

// MsgRevokeCreator removes the creator role from an address.
type MsgRevokeCreator struct {
	Authority string `json:"authority"`
	Creator   string `json:"creator"`
}

func (msg *MsgRevokeCreator) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return validateAddress("creator", msg.Creator)
}

type MsgRevokeCreatorResponse struct{}

// MsgSetRelay configures the address allowed to deliver attestations.
type MsgSetRelay struct {
	Authority string `json:"authority"`
	Relay     string `json:"relay"`
}

func (msg *MsgSetRelay) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return validateAddress("relay", msg.Relay)
}

type MsgSetRelayResponse struct{}

// MsgSetJudgeKey configures the public key attestations must be signed with.
type MsgSetJudgeKey struct {
	Authority string `json:"authority"`
	PubKey    []byte `json:"pub_key"`
}

func (msg *MsgSetJudgeKey) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	return ValidateJudgePubKey(msg.PubKey)
}

type MsgSetJudgeKeyResponse struct{}

// MsgUpdateParams replaces the module parameters.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

func (msg *MsgUpdateParams) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := msg.Params.Validate(); err != nil {
		return ErrInvalidParams.Wrap(err.Error())
	}
	return nil
}

type MsgUpdateParamsResponse struct{}

// MsgSetPuzzle writes or overwrites a puzzle definition and marks it active.
type MsgSetPuzzle struct {
	Sender        string `json:"sender"`
	PuzzleId      uint64 `json:"puzzle_id"`
	CanonicalHash []byte `json:"canonical_hash"`
	BasePoints    uint64 `json:"base_points"`
}

func (msg *MsgSetPuzzle) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	if err := ValidatePuzzleID(msg.PuzzleId); err != nil {
		return err
	}
	if len(msg.CanonicalHash) != 32 {
		return ErrInvalidRequest.Wrapf("canonical hash must be 32 bytes, got %d", len(msg.CanonicalHash))
	}
	return nil
}

type MsgSetPuzzleResponse struct {
	PuzzleCount uint64 `json:"puzzle_count"`
}

// MsgDeactivatePuzzle marks a puzzle inactive.
type MsgDeactivatePuzzle struct {
	Sender   string `json:"sender"`
	PuzzleId uint64 `json:"puzzle_id"`
}

func (msg *MsgDeactivatePuzzle) ValidateBasic() error {
	return validateAddress("sender", msg.Sender)
}

type MsgDeactivatePuzzleResponse struct{}

// MsgSubmitResult delivers a judge-signed attestation through the relay.
type MsgSubmitResult struct {
	Relay         string `json:"relay"`
	Player        string `json:"player"`
	PuzzleId      uint64 `json:"puzzle_id"`
	Correct       bool   `json:"correct"`
	TimeRemaining uint64 `json:"time_remaining"`
	Signature     []byte `json:"signature"`
}

func (msg *MsgSubmitResult) ValidateBasic() error {
	if err := validateAddress("relay", msg.Relay); err != nil {
		return err
	}
	if err := validateAddress("player", msg.Player); err != nil {
		return err
	}
	if len(msg.Signature) != SignatureLength {
		return ErrInvalidJudgeSignature.Wrapf("signature must be %d bytes, got %d", SignatureLength, len(msg.Signature))
	}
	return nil
}

// Attestation returns the signed tuple carried by the message.
func (msg *MsgSubmitResult) Attestation() (Attestation, error) {
	player, err := sdk.AccAddressFromBech32(msg.Player)
	if err != nil {
		return Attestation{}, ErrInvalidRequest.Wrapf("invalid player address: %s", err)
	}
	return Attestation{
		Player:        player,
		PuzzleId:      msg.PuzzleId,
		Correct:       msg.Correct,
		TimeRemaining: msg.TimeRemaining,
	}, nil
}

type MsgSubmitResultResponse struct {
	NewScore      uint64 `json:"new_score"`
	PointsAwarded uint64 `json:"points_awarded"`
	PuzzleIndex   uint64 `json:"puzzle_index"`
}

// MsgFinalizeRanks computes final ranks; any sender may submit it.
type MsgFinalizeRanks struct {
	Sender string `json:"sender"`
}

func (msg *MsgFinalizeRanks) ValidateBasic() error {
	return validateAddress("sender", msg.Sender)
}

type MsgFinalizeRanksResponse struct {
	Players uint64 `json:"players"`
}

// MsgClaimReward mints the caller's reward token.
type MsgClaimReward struct {
	Player string `json:"player"`
}

func (msg *MsgClaimReward) ValidateBasic() error {
	return validateAddress("player", msg.Player)
}

type MsgClaimRewardResponse struct {
	TokenId uint64 `json:"token_id"`
	Rank    uint64 `json:"rank"`
}

func signerOf(addr string) []sdk.AccAddress {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil
	}
	return []sdk.AccAddress{acc}
}

// GetSigners returns the account that must sign each message. Administrative
// messages are signed by the authority, attestations by the relay.
func (msg *MsgStartGame) GetSigners() []sdk.AccAddress        { return signerOf(msg.Authority) }
func (msg *MsgEndGame) GetSigners() []sdk.AccAddress          { return signerOf(msg.Authority) }
func (msg *MsgGrantCreator) GetSigners() []sdk.AccAddress     { return signerOf(msg.Authority) }
func (msg *MsgRevokeCreator) GetSigners() []sdk.AccAddress    { return signerOf(msg.Authority) }
func (msg *MsgSetRelay) GetSigners() []sdk.AccAddress         { return signerOf(msg.Authority) }
func (msg *MsgSetJudgeKey) GetSigners() []sdk.AccAddress      { return signerOf(msg.Authority) }
func (msg *MsgUpdateParams) GetSigners() []sdk.AccAddress     { return signerOf(msg.Authority) }
func (msg *MsgSetPuzzle) GetSigners() []sdk.AccAddress        { return signerOf(msg.Sender) }
func (msg *MsgDeactivatePuzzle) GetSigners() []sdk.AccAddress { return signerOf(msg.Sender) }
func (msg *MsgSubmitResult) GetSigners() []sdk.AccAddress     { return signerOf(msg.Relay) }
func (msg *MsgFinalizeRanks) GetSigners() []sdk.AccAddress    { return signerOf(msg.Sender) }
func (msg *MsgClaimReward) GetSigners() []sdk.AccAddress      { return signerOf(msg.Player) }
