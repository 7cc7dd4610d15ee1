// Package winners resolves the final awards once league standings and
// the knockout bracket are settled: the league champion, the knockout
// champion, and whatever other awards the compstate's awards.yaml
// declares.
package winners

import "github.com/compcore/compcore/internal/compstate"

// Result is the full set of resolved awards for one evaluation.
type Result struct {
	LeagueWinner   *compstate.TeamID
	KnockoutWinner *compstate.TeamID
	Other          map[compstate.AwardKind][]compstate.TeamID
}

// Resolve computes LeagueWinner from standings, folds in knockoutWinner
// (already determined by the caller — internal/facade resolves the
// final via internal/knockout, materializing and then consulting a
// Tiebreaker match if the final is scored but tied) and passthrough (the
// raw awards.yaml content), into one Result.
//
// LeagueWinner is nil ("undetermined") only if standings is empty or the
// top position holds more than one team. Knockout seeding tiebreakers
// never change the league standings, so a shared top position can occur
// and is represented rather than assumed away.
func Resolve(standings []compstate.Standing, knockoutWinner *compstate.TeamID, passthrough map[compstate.AwardKind][]compstate.TeamID) *Result {
	r := &Result{
		KnockoutWinner: knockoutWinner,
		Other:          map[compstate.AwardKind][]compstate.TeamID{},
	}

	if len(standings) > 0 && standings[0].Position == 1 && len(standings[0].Teams) == 1 {
		id := standings[0].Teams[0]
		r.LeagueWinner = &id
	}

	for kind, teams := range passthrough {
		if kind == compstate.AwardLeagueWinner || kind == compstate.AwardKnockoutWinner {
			// These two are computed, not read back from the compstate's
			// own awards.yaml passthrough — a compstate author declaring
			// them explicitly there is ignored in favour of the computed
			// value, which is always authoritative.
			continue
		}
		cp := make([]compstate.TeamID, len(teams))
		copy(cp, teams)
		r.Other[kind] = cp
	}

	return r
}

// All flattens the resolved result into one (AwardKind, []TeamID) map,
// including the computed LeagueWinner/KnockoutWinner entries alongside
// every passthrough award — the shape spec.md §4.7 describes for
// presentation.
func (r *Result) All() map[compstate.AwardKind][]compstate.TeamID {
	out := make(map[compstate.AwardKind][]compstate.TeamID, len(r.Other)+2)
	for kind, teams := range r.Other {
		out[kind] = teams
	}
	if r.LeagueWinner != nil {
		out[compstate.AwardLeagueWinner] = []compstate.TeamID{*r.LeagueWinner}
	}
	if r.KnockoutWinner != nil {
		out[compstate.AwardKnockoutWinner] = []compstate.TeamID{*r.KnockoutWinner}
	}
	return out
}
