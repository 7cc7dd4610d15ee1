package compstate

// Team is a competing team's identity and lifecycle metadata.
type Team struct {
	ID       TeamID
	Name     string
	Rookie   bool

	// DroppedOutAfter is the last match number the team is considered
	// present for. Nil means the team never drops out.
	DroppedOutAfter *MatchNumber
}

// IsStillAround reports whether the team should still be treated as
// present at the given match number: it has not dropped out, or the
// match number is at or before its drop-out point.
func (t *Team) IsStillAround(matchNum MatchNumber) bool {
	if t.DroppedOutAfter == nil {
		return true
	}
	return matchNum <= *t.DroppedOutAfter
}

// Registry holds every team's metadata and resolves per-match
// participation, including the conversion of a dropped team's later
// slots to Empty.
type Registry struct {
	teams map[TeamID]*Team
	order []TeamID // declaration order, preserved for presentation fallback
}

// NewRegistry builds a Registry from teams in their declared (compstate
// file) order. Declaration order is preserved and exposed via Order,
// since it is the ultimate tie-break fallback for standings presentation
// (never for bracket seeding).
func NewRegistry(teams []*Team) *Registry {
	r := &Registry{teams: make(map[TeamID]*Team, len(teams))}
	for _, t := range teams {
		r.teams[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r
}

// Team looks up a team by ID. Returns nil, false if unknown.
func (r *Registry) Team(id TeamID) (*Team, bool) {
	t, ok := r.teams[id]
	return t, ok
}

// Order returns team IDs in their original declaration order.
func (r *Registry) Order() []TeamID {
	out := make([]TeamID, len(r.order))
	copy(out, r.order)
	return out
}

// ApplyDropouts converts any team slot in match whose team has dropped
// out by matchNum into an Empty slot, in place on a copy of the teams
// slice. It does not mutate the match prior to the drop-out boundary:
// a dropped team still appears in any match with num <= its drop-out
// match number.
func (r *Registry) ApplyDropouts(teams []*TeamID, matchNum MatchNumber) []*TeamID {
	out := make([]*TeamID, len(teams))
	for i, slot := range teams {
		if slot == nil {
			continue
		}
		team, ok := r.teams[*slot]
		if !ok || team.IsStillAround(matchNum) {
			out[i] = slot
			continue
		}
		out[i] = nil
	}
	return out
}

// KnockoutEligible returns the TeamIDs eligible for knockout seeding:
// all non-dropped teams that played at least one league match, in
// declaration order.
func (r *Registry) KnockoutEligible(playedLeagueMatch map[TeamID]bool, firstKnockoutMatch MatchNumber) []TeamID {
	var out []TeamID
	for _, id := range r.order {
		team := r.teams[id]
		if !team.IsStillAround(firstKnockoutMatch) {
			continue
		}
		if !playedLeagueMatch[id] {
			continue
		}
		out = append(out, id)
	}
	return out
}
