package knockout

import "github.com/compcore/compcore/internal/compstate"

// SelectSeeds walks standings (already ordered best-to-worst, as
// produced by scoring.BuildStandings) and returns the top k teams to
// seed into the knockout bracket.
//
// If the boundary falls inside a tied-position group larger than the
// number of slots remaining, the selection is ambiguous: seeds holds
// only the definite teams above the boundary, tied holds every team in
// the ambiguous group, and needsTiebreaker is true. The caller must
// schedule a Tiebreaker match among tied and, once it is scored, rank
// it with RankTiebreaker to fill the remaining seeds before seeding can
// proceed.
func SelectSeeds(standings []compstate.Standing, k int) (seeds []compstate.TeamID, tied []compstate.TeamID, needsTiebreaker bool) {
	for _, s := range standings {
		remaining := k - len(seeds)
		if remaining <= 0 {
			break
		}
		if len(s.Teams) <= remaining {
			seeds = append(seeds, s.Teams...)
			continue
		}
		return seeds, s.Teams, true
	}
	return seeds, nil, false
}

// RankTiebreaker orders tied by a Tiebreaker match's ScoreReport,
// highest raw points (i.e. the winner) first. It assumes report
// contains exactly the teams in tied and no disqualifications among
// them — the tiebreaker's only purpose is to produce a strict order.
func RankTiebreaker(report *compstate.ScoreReport) []compstate.TeamID {
	ranked := RankMatch(report)
	out := make([]compstate.TeamID, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}
