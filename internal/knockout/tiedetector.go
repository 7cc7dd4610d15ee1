package knockout

import (
	"fmt"
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

// RankedTeam is one team's position in a single match's raw-points
// ranking, used to determine knockout progression (distinct from
// scoring.Normalize's league-points ranking, which feeds standings
// rather than bracket advancement).
type RankedTeam struct {
	ID        compstate.TeamID
	RawPoints int
}

// RankMatch orders a ScoreReport's non-disqualified teams by raw game
// points, descending, breaking exact ties by TeamID for determinism.
func RankMatch(report *compstate.ScoreReport) []RankedTeam {
	var ranked []RankedTeam
	for id, data := range report.Teams {
		if data.Disqualified {
			continue
		}
		ranked = append(ranked, RankedTeam{ID: id, RawPoints: data.GamePoints})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RawPoints != ranked[j].RawPoints {
			return ranked[i].RawPoints > ranked[j].RawPoints
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// TieDetector tracks, per match and progression cutoff, whether a
// tiebreaker has already been raised for an ambiguous ranking boundary.
//
// Grounded on the teacher's CycleDetector (internal/engine/cycle.go): a
// per-key record of "have we already flagged this" that the caller
// inspects and resolves by composition, rather than a condition
// discovered via a thrown exception — directly implementing the "tie
// detection is not control flow" redesign note.
type TieDetector struct {
	raised map[string]bool
}

// NewTieDetector creates an empty TieDetector.
func NewTieDetector() *TieDetector {
	return &TieDetector{raised: map[string]bool{}}
}

// key identifies one progression cutoff: a specific match's boundary
// between the cutoff-th and (cutoff+1)-th ranked team.
func key(match compstate.MatchID, cutoff int) string {
	return fmt.Sprintf("%s/%d@%d", match.Arena, match.Num, cutoff)
}

// CheckCutoff inspects ranked (already sorted by RankMatch) for an
// ambiguous boundary at position cutoff (1-indexed: the cutoff-th and
// (cutoff+1)-th places must be strictly ordered for progression to be
// well-defined). It returns the tied TeamIDs spanning that boundary and
// true if a tiebreaker is needed and has not already been raised for
// this (match, cutoff) pair.
func (d *TieDetector) CheckCutoff(match compstate.MatchID, ranked []RankedTeam, cutoff int) ([]compstate.TeamID, bool) {
	if cutoff <= 0 || cutoff >= len(ranked) {
		return nil, false
	}
	boundaryPoints := ranked[cutoff-1].RawPoints
	if ranked[cutoff].RawPoints != boundaryPoints {
		return nil, false
	}

	// Gather every team sharing the boundary's raw point value, from
	// both sides of the cutoff.
	var tied []compstate.TeamID
	for _, r := range ranked {
		if r.RawPoints == boundaryPoints {
			tied = append(tied, r.ID)
		}
	}

	k := key(match, cutoff)
	if d.raised[k] {
		return tied, false
	}
	d.raised[k] = true
	return tied, true
}

// ResolveWithTiebreaker reports the effective winners at cutoff once a
// tiebreaker match's ScoreReport is available: the tiebreaker's ranking
// overrides the tie between exactly the teams it was raised for.
func ResolveWithTiebreaker(ranked []RankedTeam, tiebreaker *compstate.ScoreReport, cutoff int) []compstate.TeamID {
	tieRanked := RankMatch(tiebreaker)
	tieOrder := make(map[compstate.TeamID]int, len(tieRanked))
	for i, r := range tieRanked {
		tieOrder[r.ID] = i
	}

	resolved := make([]RankedTeam, len(ranked))
	copy(resolved, ranked)
	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].RawPoints != resolved[j].RawPoints {
			return resolved[i].RawPoints > resolved[j].RawPoints
		}
		oi, iok := tieOrder[resolved[i].ID]
		oj, jok := tieOrder[resolved[j].ID]
		if iok && jok {
			return oi < oj
		}
		return resolved[i].ID < resolved[j].ID
	})

	out := make([]compstate.TeamID, 0, cutoff)
	for i := 0; i < cutoff && i < len(resolved); i++ {
		out = append(out, resolved[i].ID)
	}
	return out
}
