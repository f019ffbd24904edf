package keeper

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/puzzlehunt/x/puzzle/types"
)

// RegisterInvariants registers all puzzle module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "roster-consistency",
		RosterConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reward-ownership",
		RewardOwnershipInvariant(k))
	ir.RegisterRoute(types.ModuleName, "rank-assignment",
		RankAssignmentInvariant(k))
}

func formatIssues(route string, issues []string) (string, bool) {
	var msg string
	if len(issues) > 0 {
		msg = fmt.Sprintf("%d issues:\n  - %s\n", len(issues), strings.Join(issues, "\n  - "))
	}
	return sdk.FormatInvariant(types.ModuleName, route, msg), len(issues) > 0
}

// RosterConsistencyInvariant checks that the roster holds each active player exactly once.
func RosterConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		seen := make(map[string]struct{})
		for i, addr := range k.GetRoster(ctx) {
			key := addr.String()
			if _, dup := seen[key]; dup {
				issues = append(issues, fmt.Sprintf("roster position %d duplicates %s", i, key))
				continue
			}
			seen[key] = struct{}{}

			stats, found, err := k.GetPlayer(ctx, addr)
			switch {
			case err != nil:
				issues = append(issues, fmt.Sprintf("player %s: %v", key, err))
			case !found || !stats.IsActive:
				issues = append(issues, fmt.Sprintf("roster entry %s has no active stats", key))
			case stats.PuzzleIndex != stats.Solved:
				issues = append(issues, fmt.Sprintf("player %s index %d but solved %d", key, stats.PuzzleIndex, stats.Solved))
			}
		}

		return formatIssues("roster-consistency", issues)
	}
}

// RewardOwnershipInvariant checks that every claim has exactly one token and ids are dense.
func RewardOwnershipInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		tokens, err := k.GetAllRewardTokens(ctx)
		if err != nil {
			return formatIssues("reward-ownership", []string{err.Error()})
		}
		if next := k.nextTokenID(ctx); uint64(len(tokens)) != next-1 {
			issues = append(issues, fmt.Sprintf("%d tokens minted but next id is %d", len(tokens), next))
		}

		owners := make(map[string]uint64, len(tokens))
		for _, tok := range tokens {
			if prev, dup := owners[tok.Owner]; dup {
				issues = append(issues, fmt.Sprintf("owner %s holds tokens %d and %d", tok.Owner, prev, tok.Id))
			}
			owners[tok.Owner] = tok.Id
		}

		players, err := k.GetAllPlayers(ctx)
		if err != nil {
			return formatIssues("reward-ownership", []string{err.Error()})
		}
		for _, p := range players {
			_, owns := owners[p.Address]
			if p.ClaimedReward != owns {
				issues = append(issues, fmt.Sprintf("player %s claimed=%t owns token=%t", p.Address, p.ClaimedReward, owns))
			}
		}

		return formatIssues("reward-ownership", issues)
	}
}

// RankAssignmentInvariant checks that ranks exist only after the game is over
// and fall within the roster size.
func RankAssignmentInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		ranks := k.GetAllFinalRanks(ctx)
		if len(ranks) > 0 {
			over, err := k.IsGameOver(ctx)
			if err != nil {
				issues = append(issues, err.Error())
			} else if !over {
				issues = append(issues, fmt.Sprintf("%d ranks assigned before the game is over", len(ranks)))
			}
		}

		n := k.GetPlayerCount(ctx)
		for _, r := range ranks {
			if r.Rank == 0 || r.Rank > n {
				issues = append(issues, fmt.Sprintf("player %s rank %d outside [1, %d]", r.Player, r.Rank, n))
			}
		}

		return formatIssues("rank-assignment", issues)
	}
}
