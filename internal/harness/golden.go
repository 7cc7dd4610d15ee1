package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/facade"
)

// matchSnapshot is the canonical, display-stable projection of a
// compstate.Match used in golden files: only the fields a snapshot
// needs to catch a regression, in a shape compstate.MarshalCanonical can
// encode (no time.Time, no float64 — see its doc comment).
func matchSnapshot(m *compstate.Match) map[string]any {
	teams := make([]any, len(m.Teams))
	for i, t := range m.Teams {
		if t == nil {
			teams[i] = nil
		} else {
			teams[i] = string(*t)
		}
	}
	return map[string]any{
		"num":          int(m.Num),
		"arena":        string(m.Arena),
		"type":         m.Type.String(),
		"display_name": m.DisplayName,
		"teams":        teams,
		"start_time":   m.StartTime.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func standingSnapshot(s compstate.Standing) map[string]any {
	teams := make([]any, len(s.Teams))
	for i, id := range s.Teams {
		teams[i] = string(id)
	}
	return map[string]any{
		"position": s.Position,
		"teams":    teams,
		"points":   fmt.Sprintf("%.2f", s.Points),
	}
}

// CompetitionSnapshot builds a canonical-JSON-encodable snapshot of a
// fully-evaluated Competition: every scheduled match, standings, and
// the resolved awards. Suitable as-is for compstate.MarshalCanonical,
// which AssertGolden uses under the hood.
func CompetitionSnapshot(c *facade.Competition) map[string]any {
	leagueMatches := make([]any, len(c.LeagueMatches))
	for i, m := range c.LeagueMatches {
		leagueMatches[i] = matchSnapshot(m)
	}
	knockoutMatches := make([]any, len(c.KnockoutMatches))
	for i, m := range c.KnockoutMatches {
		knockoutMatches[i] = matchSnapshot(m)
	}
	standings := make([]any, len(c.Standings))
	for i, s := range c.Standings {
		standings[i] = standingSnapshot(s)
	}

	awards := map[string]any{}
	for kind, teams := range c.Awards.All() {
		list := make([]any, len(teams))
		for i, id := range teams {
			list[i] = string(id)
		}
		awards[string(kind)] = list
	}

	return map[string]any{
		"league_matches":   leagueMatches,
		"knockout_matches": knockoutMatches,
		"standings":        standings,
		"awards":           awards,
	}
}

// AssertGolden compares name's snapshot against testdata/golden/<name>.golden,
// the same goldie fixture-directory convention the teacher's
// internal/harness/golden.go used. Run `go test ./internal/harness -update`
// to regenerate golden files after an intentional change.
func AssertGolden(t *testing.T, name string, snapshot map[string]any) {
	t.Helper()
	encoded, err := compstate.MarshalCanonical(snapshot)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, encoded)
}
