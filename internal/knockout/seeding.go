// Package knockout builds the knockout bracket: seeding the first
// round from league standings (or a static plan), generating and
// filling later rounds as earlier ones resolve, and reporting (as
// TiebreakerNeed values) where progression would otherwise be
// ambiguous; internal/facade schedules the resulting Tiebreaker matches.
//
// Grounded on the original source's automatic_scheduler.py /
// base_scheduler.py (round construction, winners-of-predecessor
// progression, display naming), reimplemented without the
// Python-specific config plumbing. The seed-fold first round pairing
// itself follows the literal expected groupings worked through in
// scenario 5 of the bracket-seeding examples (1 vs 8, 4 vs 5, 2 vs 7,
// 3 vs 6 for an 8-entrant field), not a source file in this tree.
package knockout

import "github.com/compcore/compcore/internal/compstate"

// SeedOrder returns the canonical single-elimination bracket seed order
// for n entrants (n a power of two): the position-1 entry plays the
// position-2 entry, position-3 plays position-4, and so on, with seeds
// assigned so that the highest seed always meets the lowest surviving
// seed at each depth. For n=8 this is [1,8,4,5,2,7,3,6].
func SeedOrder(n int) []int {
	if n <= 1 {
		return []int{1}
	}
	prev := SeedOrder(n / 2)
	out := make([]int, 0, n)
	for _, s := range prev {
		out = append(out, s, n+1-s)
	}
	return out
}

// FirstRoundGroups folds seeds (ordered best-to-worst, 1-indexed
// conceptually) into first-round match groups of groupSize using the
// canonical seed order, then chunks the resulting sequence into
// consecutive groups of groupSize.
func FirstRoundGroups(seeds []compstate.TeamID, groupSize int) [][]compstate.TeamID {
	order := SeedOrder(len(seeds))
	ordered := make([]compstate.TeamID, len(seeds))
	for i, seed := range order {
		ordered[i] = seeds[seed-1]
	}

	var groups [][]compstate.TeamID
	for i := 0; i < len(ordered); i += groupSize {
		end := i + groupSize
		if end > len(ordered) {
			end = len(ordered)
		}
		groups = append(groups, ordered[i:end])
	}
	return groups
}
