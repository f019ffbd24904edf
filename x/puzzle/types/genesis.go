package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the exported state of the puzzle module.
type GenesisState struct {
	Params       Params              `json:"params"`
	Config       GameConfig          `json:"config"`
	Game         GameInfo            `json:"game"`
	Puzzles      []Puzzle            `json:"puzzles"`
	Players      []PlayerStats       `json:"players"`
	Roster       []string            `json:"roster"`
	Creators     []string            `json:"creators"`
	Ranks        []FinalRank         `json:"ranks"`
	Tokens       []RewardToken       `json:"tokens"`
	NextTokenId  uint64              `json:"next_token_id"`
	Finalization *FinalizationRecord `json:"finalization,omitempty"`
}

// DefaultGenesis returns the default genesis state for the puzzle module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Game:        GameInfo{State: GameStateNotStarted},
		Puzzles:     []Puzzle{},
		Players:     []PlayerStats{},
		Roster:      []string{},
		Creators:    []string{},
		Ranks:       []FinalRank{},
		Tokens:      []RewardToken{},
		NextTokenId: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return ErrInvalidGenesis.Wrapf("params: %s", err)
	}
	if gs.Config.Relay != "" {
		if _, err := sdk.AccAddressFromBech32(gs.Config.Relay); err != nil {
			return ErrInvalidGenesis.Wrapf("relay: %s", err)
		}
	}
	if len(gs.Config.JudgePubKey) > 0 {
		if err := ValidateJudgePubKey(gs.Config.JudgePubKey); err != nil {
			return ErrInvalidGenesis.Wrapf("judge key: %s", err)
		}
	}
	if gs.Game.State < GameStateNotStarted || gs.Game.State > GameStateEnded {
		return ErrInvalidGenesis.Wrapf("unknown game state %d", gs.Game.State)
	}

	seenPuzzles := make(map[uint64]struct{}, len(gs.Puzzles))
	for _, p := range gs.Puzzles {
		if _, dup := seenPuzzles[p.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate puzzle %d", p.Id)
		}
		if p.Id > MaxPuzzleID {
			return ErrInvalidGenesis.Wrapf("puzzle id %d exceeds %d", p.Id, MaxPuzzleID)
		}
		if len(p.CanonicalHash) != 32 {
			return ErrInvalidGenesis.Wrapf("puzzle %d: canonical hash must be 32 bytes", p.Id)
		}
		seenPuzzles[p.Id] = struct{}{}
	}

	players := make(map[string]PlayerStats, len(gs.Players))
	for _, p := range gs.Players {
		if _, err := sdk.AccAddressFromBech32(p.Address); err != nil {
			return ErrInvalidGenesis.Wrapf("player %q: %s", p.Address, err)
		}
		if _, dup := players[p.Address]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate player %s", p.Address)
		}
		players[p.Address] = p
	}

	inRoster := make(map[string]struct{}, len(gs.Roster))
	for _, addr := range gs.Roster {
		if _, dup := inRoster[addr]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate roster entry %s", addr)
		}
		stats, ok := players[addr]
		if !ok || !stats.IsActive {
			return ErrInvalidGenesis.Wrapf("roster entry %s has no active stats", addr)
		}
		inRoster[addr] = struct{}{}
	}
	for addr, stats := range players {
		if _, ok := inRoster[addr]; stats.IsActive && !ok {
			return ErrInvalidGenesis.Wrapf("active player %s missing from roster", addr)
		}
	}

	for _, c := range gs.Creators {
		if _, err := sdk.AccAddressFromBech32(c); err != nil {
			return ErrInvalidGenesis.Wrapf("creator %q: %s", c, err)
		}
	}

	for _, r := range gs.Ranks {
		if _, ok := inRoster[r.Player]; !ok {
			return ErrInvalidGenesis.Wrapf("rank for unknown player %s", r.Player)
		}
		if r.Rank == 0 {
			return ErrInvalidGenesis.Wrapf("zero rank for %s", r.Player)
		}
	}

	if gs.NextTokenId == 0 {
		return ErrInvalidGenesis.Wrap("next token id must be positive")
	}
	owners := make(map[string]struct{}, len(gs.Tokens))
	for _, tok := range gs.Tokens {
		if tok.Id == 0 || tok.Id >= gs.NextTokenId {
			return ErrInvalidGenesis.Wrapf("token id %d out of range", tok.Id)
		}
		if _, dup := owners[tok.Owner]; dup {
			return ErrInvalidGenesis.Wrapf("owner %s holds more than one token", tok.Owner)
		}
		stats, ok := players[tok.Owner]
		if !ok || !stats.ClaimedReward {
			return ErrInvalidGenesis.Wrapf("token %d owner %s has not claimed", tok.Id, tok.Owner)
		}
		owners[tok.Owner] = struct{}{}
	}
	for addr, stats := range players {
		if _, ok := owners[addr]; stats.ClaimedReward && !ok {
			return ErrInvalidGenesis.Wrapf("player %s claimed without a token", addr)
		}
	}

	return nil
}
