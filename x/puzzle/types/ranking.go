package types

import "slices"

// Standing carries the three ranking keys of a player.
type Standing struct {
	Player        string
	Score         uint64
	PuzzleIndex   uint64
	LastSolveTime int64
}

// RankedStanding is a standing with its competition rank.
type RankedStanding struct {
	Standing
	Rank uint64
}

// IsBetter reports whether a strictly outranks b: higher score, then higher
// puzzle index, then earlier last solve time.
func IsBetter(a, b Standing) bool {
	return CompareStandings(a, b) < 0
}

// AreTied reports whether a and b agree on all three ranking keys.
func AreTied(a, b Standing) bool {
	return a.Score == b.Score && a.PuzzleIndex == b.PuzzleIndex && a.LastSolveTime == b.LastSolveTime
}

// CompareStandings orders a before b when a is better.
func CompareStandings(a, b Standing) int {
	switch {
	case a.Score != b.Score:
		if a.Score > b.Score {
			return -1
		}
		return 1
	case a.PuzzleIndex != b.PuzzleIndex:
		if a.PuzzleIndex > b.PuzzleIndex {
			return -1
		}
		return 1
	case a.LastSolveTime != b.LastSolveTime:
		if a.LastSolveTime < b.LastSolveTime {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// RankStandings sorts a copy of standings and assigns competition ranks:
// tied neighbours share a rank, later distinct entries take their position.
func RankStandings(standings []Standing) []RankedStanding {
	sorted := slices.Clone(standings)
	slices.SortStableFunc(sorted, CompareStandings)
	return AssignCompetitionRanks(sorted)
}

// AssignCompetitionRanks assigns ranks to an already sorted slice.
func AssignCompetitionRanks(sorted []Standing) []RankedStanding {
	ranked := make([]RankedStanding, len(sorted))
	for i, s := range sorted {
		rank := uint64(i + 1)
		if i > 0 && AreTied(s, sorted[i-1]) {
			rank = ranked[i-1].Rank
		}
		ranked[i] = RankedStanding{Standing: s, Rank: rank}
	}
	return ranked
}
