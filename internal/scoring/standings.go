package scoring

import (
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

// TeamStats is one team's accumulated season record, used both for its
// standings Points total and to resolve ties between equal-points teams.
type TeamStats struct {
	ID             compstate.TeamID
	TotalPoints    float64
	Wins           int
	RawPointsSum   int
	LastPlaceCount int
}

// Accumulate folds every scored league match into per-team TeamStats.
// reports and leaguePoints must be keyed by the same MatchID set;
// matches missing from leaguePoints (not yet scored) are skipped.
func Accumulate(reports map[compstate.MatchID]*compstate.ScoreReport, leaguePoints map[compstate.MatchID]compstate.LeaguePoints) map[compstate.TeamID]*TeamStats {
	stats := map[compstate.TeamID]*TeamStats{}
	statsFor := func(id compstate.TeamID) *TeamStats {
		s, ok := stats[id]
		if !ok {
			s = &TeamStats{ID: id}
			stats[id] = s
		}
		return s
	}

	for matchID, report := range reports {
		points, ok := leaguePoints[matchID]
		if !ok {
			continue
		}

		best := -1
		bestCount := 0
		for _, data := range report.Teams {
			if data.Disqualified {
				continue
			}
			switch {
			case data.GamePoints > best:
				best, bestCount = data.GamePoints, 1
			case data.GamePoints == best:
				bestCount++
			}
		}

		lowestPoints := 0.0
		first := true
		for _, p := range points {
			if first || p < lowestPoints {
				lowestPoints = p
				first = false
			}
		}

		for id, data := range report.Teams {
			s := statsFor(id)
			s.TotalPoints += points[id]
			s.RawPointsSum += data.GamePoints
			if !data.Disqualified && data.GamePoints == best && best >= 0 && bestCount == 1 {
				s.Wins++
			}
			if points[id] == lowestPoints {
				s.LastPlaceCount++
			}
		}
	}

	return stats
}

// Comparator orders two TeamStats for tie-break purposes. A negative
// result ranks a ahead of b; positive ranks b ahead of a; zero defers
// to the next comparator in the chain.
type Comparator func(a, b *TeamStats) int

// FewerLastPlaceFinishes favours the team that finished last fewer
// times.
func FewerLastPlaceFinishes(a, b *TeamStats) int {
	return a.LastPlaceCount - b.LastPlaceCount
}

// MoreWins favours the team with more outright match wins.
func MoreWins(a, b *TeamStats) int {
	return b.Wins - a.Wins
}

// MoreRawPoints favours the team with a higher cumulative raw
// (pre-normalisation) game point total.
func MoreRawPoints(a, b *TeamStats) int {
	return b.RawPointsSum - a.RawPointsSum
}

// DeclarationOrder resolves any remaining ties by the team's index in
// order (the facade passes the registry order, which the loader sorts
// by TeamID), the ultimate, always-distinguishing fallback.
func DeclarationOrder(order []compstate.TeamID) Comparator {
	index := make(map[compstate.TeamID]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	return func(a, b *TeamStats) int {
		return index[a.ID] - index[b.ID]
	}
}

// DefaultTieBreakChain is the tie-break chain resolving the Open
// Question in spec.md §9 ("exact tie-break chain after raw game
// points ... should be configurable per competition"): fewer last-place
// finishes, then more outright wins, then higher raw points, then
// declaration order.
func DefaultTieBreakChain(order []compstate.TeamID) []Comparator {
	return []Comparator{
		FewerLastPlaceFinishes,
		MoreWins,
		MoreRawPoints,
		DeclarationOrder(order),
	}
}

func compareByChain(a, b *TeamStats, chain []Comparator) int {
	for _, c := range chain {
		if r := c(a, b); r != 0 {
			return r
		}
	}
	return 0
}

// BuildStandings ranks teams by TotalPoints, descending, grouping
// strictly-equal-points teams into one Standing per spec.md §8's
// "Standings stability" invariant (strictly more points implies a
// strictly lower Position number). Within a tied-points group, Teams
// is ordered by chain purely for stable presentation — ties share one
// Position regardless of how the chain orders them.
func BuildStandings(stats map[compstate.TeamID]*TeamStats, chain []Comparator) []compstate.Standing {
	all := make([]*TeamStats, 0, len(stats))
	for _, s := range stats {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalPoints != all[j].TotalPoints {
			return all[i].TotalPoints > all[j].TotalPoints
		}
		return compareByChain(all[i], all[j], chain) < 0
	})

	var standings []compstate.Standing
	i := 0
	position := 1
	for i < len(all) {
		j := i
		for j < len(all) && all[j].TotalPoints == all[i].TotalPoints {
			j++
		}
		teams := make([]compstate.TeamID, 0, j-i)
		for k := i; k < j; k++ {
			teams = append(teams, all[k].ID)
		}
		standings = append(standings, compstate.Standing{
			Position: position,
			Teams:    teams,
			Points:   all[i].TotalPoints,
		})
		position += j - i
		i = j
	}
	return standings
}
