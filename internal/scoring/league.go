// Package scoring turns raw per-match scoresheets into normalised
// league points and accumulates them into season standings.
//
// Grounded on spec.md §4.5 and the literal normalisation scenarios in
// spec.md §8 (scenarios 3 and 4): participants of a match share a fixed
// descending points schedule (n, n-1, ..., 1 for n participants);
// disqualified teams are excluded from ranking and scored 0, silently
// withholding their schedule entry rather than redistributing it;
// teams tied on raw game points split the average of the schedule
// entries their tied group spans.
package scoring

import (
	"sort"

	"github.com/compcore/compcore/internal/compstate"
)

// fixedSchedule returns the descending points schedule for n
// participants: [n, n-1, ..., 1].
func fixedSchedule(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(n - i)
	}
	return out
}

// Normalize computes the LeaguePoints award for one match's ScoreReport.
func Normalize(report *compstate.ScoreReport) compstate.LeaguePoints {
	n := len(report.Teams)
	fixed := fixedSchedule(n)
	points := make(compstate.LeaguePoints, n)

	type rankable struct {
		id  compstate.TeamID
		raw int
	}
	var ranked []rankable
	for id, data := range report.Teams {
		if data.Disqualified || !data.Present {
			// Disqualified and absent teams both always score 0,
			// regardless of rank, and are excluded from the ranked
			// pool competing for the remaining fixed-schedule entries.
			points[id] = 0
			continue
		}
		ranked = append(ranked, rankable{id: id, raw: data.GamePoints})
	}

	// Deterministic ordering: raw points descending, then TeamID, so
	// that equal-points ties are grouped consistently regardless of map
	// iteration order.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].raw != ranked[j].raw {
			return ranked[i].raw > ranked[j].raw
		}
		return ranked[i].id < ranked[j].id
	})

	i := 0
	for i < len(ranked) {
		j := i
		for j < len(ranked) && ranked[j].raw == ranked[i].raw {
			j++
		}
		sum := 0.0
		for k := i; k < j; k++ {
			sum += fixed[k]
		}
		avg := sum / float64(j-i)
		for k := i; k < j; k++ {
			points[ranked[k].id] = avg
		}
		i = j
	}

	return points
}
