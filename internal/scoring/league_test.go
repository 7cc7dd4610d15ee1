package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compcore/compcore/internal/compstate"
)

func TestNormalizeFourTeamNoDQs(t *testing.T) {
	// Scenario 3 from spec.md §8.
	report := &compstate.ScoreReport{
		Teams: map[compstate.TeamID]compstate.ScoreTeamData{
			"A": {GamePoints: 10, Present: true},
			"B": {GamePoints: 8, Present: true},
			"C": {GamePoints: 8, Present: true},
			"D": {GamePoints: 2, Present: true},
		},
	}

	points := Normalize(report)
	assert.Equal(t, 4.0, points["A"])
	assert.Equal(t, 2.5, points["B"])
	assert.Equal(t, 2.5, points["C"])
	assert.Equal(t, 1.0, points["D"])
}

func TestNormalizeDisqualification(t *testing.T) {
	// Scenario 4 from spec.md §8.
	report := &compstate.ScoreReport{
		Teams: map[compstate.TeamID]compstate.ScoreTeamData{
			"A": {GamePoints: 10, Present: true},
			"B": {GamePoints: 8, Present: true},
			"C": {GamePoints: 0, Present: true},
			"D": {GamePoints: 5, Present: true, Disqualified: true},
		},
	}

	points := Normalize(report)
	assert.Equal(t, 4.0, points["A"])
	assert.Equal(t, 3.0, points["B"])
	assert.Equal(t, 2.0, points["C"])
	assert.Equal(t, 0.0, points["D"])
}

func TestNormalizeLeaguePointsSumInvariant(t *testing.T) {
	// League points sum invariant from spec.md §8: total distributed
	// equals the fixed schedule sum minus withheld DQ contributions.
	report := &compstate.ScoreReport{
		Teams: map[compstate.TeamID]compstate.ScoreTeamData{
			"A": {GamePoints: 10, Present: true},
			"B": {GamePoints: 8, Present: true},
			"C": {GamePoints: 0, Present: true},
			"D": {GamePoints: 5, Present: true, Disqualified: true},
		},
	}

	points := Normalize(report)
	sum := 0.0
	for _, p := range points {
		sum += p
	}
	// fixed schedule for 4 is [4,3,2,1] summing to 10; the disqualified
	// team's withheld entry is the bottom of the schedule, 1.
	assert.Equal(t, 9.0, sum)
}
