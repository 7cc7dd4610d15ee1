package facade

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/knockout"
	"github.com/compcore/compcore/internal/loader"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// eightTeamCompstate builds a compstate with one league match per arena
// (4 teams each, distinctly scored so no two teams end up with equal
// raw points within a match), and a knockout period wide enough for an
// automatic 8-team, 2-arena bracket (2 first-round matches + 1 final).
func eightTeamCompstate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "arenas.yaml", `
arenas:
  A:
    display_name: Arena A
  B:
    display_name: Arena B
teams_per_arena: 4
`)

	writeFile(t, dir, "teams.yaml", `
teams:
  T1: {name: Team One}
  T2: {name: Team Two}
  T3: {name: Team Three}
  T4: {name: Team Four}
  T5: {name: Team Five}
  T6: {name: Team Six}
  T7: {name: Team Seven}
  T8: {name: Team Eight}
`)

	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [T1, T2, T3, T4]
    B: [T5, T6, T7, T8]
`)

	writeFile(t, dir, "schedule.yaml", `
match_slot_length_seconds: 300
match_period_gap_seconds: 60
match_periods:
  - description: league
    start_time: "2020-01-01T09:00:00Z"
    end_time: "2020-01-01T09:30:00Z"
    max_end_time: "2020-01-01T09:30:00Z"
    type: league
  - description: knockout
    start_time: "2020-01-01T10:00:00Z"
    end_time: "2020-01-01T11:00:00Z"
    max_end_time: "2020-01-01T11:00:00Z"
    type: knockout
`)

	writeFile(t, dir, "league/A/0.yaml", `
teams: [T1, T2, T3, T4]
scores:
  game: {T1: 40, T2: 30, T3: 20, T4: 10}
  present: [T1, T2, T3, T4]
`)
	writeFile(t, dir, "league/B/0.yaml", `
teams: [T5, T6, T7, T8]
scores:
  game: {T5: 40, T6: 30, T7: 20, T8: 10}
  present: [T5, T6, T7, T8]
`)

	writeFile(t, dir, "awards.yaml", `
rookie_award: T3
`)

	return dir
}

func TestLoadBuildsLeagueAndSeededKnockoutBracket(t *testing.T) {
	dir := eightTeamCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)
	require.NotNil(t, c)

	require.Len(t, c.LeagueMatches, 2) // one match number, two arenas
	require.Len(t, c.Standings, 4)     // four point levels, two teams tied at each
	for _, s := range c.Standings {
		assert.Len(t, s.Teams, 2)
	}

	require.Len(t, c.KnockoutMatches, 3) // two first-round matches, one final
	require.Len(t, c.KnockoutRounds, 2)

	// Every seed from league play appears somewhere in the first round.
	seen := map[compstate.TeamID]bool{}
	for _, m := range c.KnockoutMatches[:2] {
		for _, slot := range m.Teams {
			if slot != nil {
				seen[*slot] = true
			}
		}
	}
	for _, id := range []compstate.TeamID{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8"} {
		assert.True(t, seen[id], "team %s should be seeded into the first round", id)
	}

	// The league standings are still tied at the top, so the league
	// winner cannot be determined, and the final hasn't been scored.
	assert.Nil(t, c.Awards.LeagueWinner)
	assert.Nil(t, c.Awards.KnockoutWinner)
	assert.Equal(t, []compstate.TeamID{"T3"}, c.Awards.Other["rookie_award"])
}

func TestStateAtReflectsMatchWindows(t *testing.T) {
	dir := eightTeamCompstate(t)
	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	leagueStart := c.LeagueMatches[0].StartTime
	mid := leagueStart.Add(1 * time.Minute)

	state := c.StateAt(mid)
	assert.Len(t, state.CurrentMatches, 2) // both arenas play match 0 simultaneously
	assert.NotEmpty(t, state.UpcomingMatches)
	assert.Equal(t, c.Standings, state.Standings)
	assert.Empty(t, state.MissingScores, "both arenas have scoresheets on file")
}

// missingLeagueScoreCompstate is eightTeamCompstate with arena B's
// scoresheet never filed (and without its awards.yaml), so its match
// completes without one.
func missingLeagueScoreCompstate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "arenas.yaml", `
arenas:
  A:
    display_name: Arena A
  B:
    display_name: Arena B
teams_per_arena: 4
`)

	writeFile(t, dir, "teams.yaml", `
teams:
  T1: {name: Team One}
  T2: {name: Team Two}
  T3: {name: Team Three}
  T4: {name: Team Four}
  T5: {name: Team Five}
  T6: {name: Team Six}
  T7: {name: Team Seven}
  T8: {name: Team Eight}
`)

	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [T1, T2, T3, T4]
    B: [T5, T6, T7, T8]
`)

	writeFile(t, dir, "schedule.yaml", `
match_slot_length_seconds: 300
match_period_gap_seconds: 60
match_periods:
  - description: league
    start_time: "2020-01-01T09:00:00Z"
    end_time: "2020-01-01T09:30:00Z"
    max_end_time: "2020-01-01T09:30:00Z"
    type: league
  - description: knockout
    start_time: "2020-01-01T10:00:00Z"
    end_time: "2020-01-01T11:00:00Z"
    max_end_time: "2020-01-01T11:00:00Z"
    type: knockout
`)

	writeFile(t, dir, "league/A/0.yaml", `
teams: [T1, T2, T3, T4]
scores:
  game: {T1: 40, T2: 30, T3: 20, T4: 10}
  present: [T1, T2, T3, T4]
`)

	return dir
}

func TestStateAtSurfacesMissingScoreAfterMatchEnds(t *testing.T) {
	dir := missingLeagueScoreCompstate(t)
	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	var arenaB *compstate.Match
	for _, m := range c.LeagueMatches {
		if m.Arena == "B" {
			arenaB = m
		}
	}
	require.NotNil(t, arenaB)

	beforeEnd := c.StateAt(arenaB.EndTime.Add(-time.Second))
	assert.Empty(t, beforeEnd.MissingScores, "arena B's match hasn't ended yet")

	afterEnd := c.StateAt(arenaB.EndTime.Add(time.Second))
	require.Len(t, afterEnd.MissingScores, 1)
	assert.Equal(t, arenaB.ID(), afterEnd.MissingScores[0].Match)

	// standings still degrade gracefully: arena B's teams just never
	// accumulate points, rather than the evaluation failing outright.
	for _, s := range c.Standings {
		for _, id := range s.Teams {
			assert.NotContains(t, []compstate.TeamID{"T5", "T6", "T7", "T8"}, id,
				"unscored teams should not appear in standings at all")
		}
	}
}

func TestNextMatchSlotReturnsEarliestSharedStart(t *testing.T) {
	dir := eightTeamCompstate(t)
	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	before := c.LeagueMatches[0].StartTime.Add(-time.Minute)
	start, matches, ok := c.NextMatchSlot(before)
	require.True(t, ok)
	assert.Equal(t, c.LeagueMatches[0].StartTime, start)
	assert.Len(t, matches, 2)
}

func TestNextMatchSlotNoneAfterLastMatch(t *testing.T) {
	dir := eightTeamCompstate(t)
	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	last := c.KnockoutMatches[len(c.KnockoutMatches)-1].EndTime.Add(time.Hour)
	_, _, ok := c.NextMatchSlot(last)
	assert.False(t, ok)
}

// staticKnockoutCompstate extends eightTeamCompstate with an explicit
// knockout.yaml plan referencing "seed:N" placeholders, exercising the
// static-bracket path instead of automatic seeding.
func staticKnockoutCompstate(t *testing.T) string {
	t.Helper()
	dir := eightTeamCompstate(t)

	writeFile(t, dir, "knockout.yaml", `
matches:
  100:
    A: [seed:1, seed:8]
    B: [seed:4, seed:5]
`)

	return dir
}

// droppedOutSeederCompstate schedules three arenas of four teams each
// (twelve teams total) in one league match number; the whole of arena
// C drops out right after that match, even though its top scorer (T9)
// outscores every other team in the competition. Keeping the dropped
// group's size a multiple of four leaves the eight surviving teams a
// power-of-two seed pool, so the automatic bracket builder's seed-fold
// pairing (which assumes one) still applies cleanly.
func droppedOutSeederCompstate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "arenas.yaml", `
arenas:
  A:
    display_name: Arena A
  B:
    display_name: Arena B
  C:
    display_name: Arena C
teams_per_arena: 4
`)

	writeFile(t, dir, "teams.yaml", `
teams:
  T1: {name: Team One}
  T2: {name: Team Two}
  T3: {name: Team Three}
  T4: {name: Team Four}
  T5: {name: Team Five}
  T6: {name: Team Six}
  T7: {name: Team Seven}
  T8: {name: Team Eight}
  T9: {name: Team Nine, dropped_out_after: 0}
  T10: {name: Team Ten, dropped_out_after: 0}
  T11: {name: Team Eleven, dropped_out_after: 0}
  T12: {name: Team Twelve, dropped_out_after: 0}
`)

	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [T1, T2, T3, T4]
    B: [T5, T6, T7, T8]
    C: [T9, T10, T11, T12]
`)

	writeFile(t, dir, "schedule.yaml", `
match_slot_length_seconds: 300
match_period_gap_seconds: 60
match_periods:
  - description: league
    start_time: "2020-01-01T09:00:00Z"
    end_time: "2020-01-01T09:30:00Z"
    max_end_time: "2020-01-01T09:30:00Z"
    type: league
  - description: knockout
    start_time: "2020-01-01T10:00:00Z"
    end_time: "2020-01-01T11:00:00Z"
    max_end_time: "2020-01-01T11:00:00Z"
    type: knockout
`)

	writeFile(t, dir, "league/A/0.yaml", `
teams: [T1, T2, T3, T4]
scores:
  game: {T1: 40, T2: 30, T3: 20, T4: 10}
  present: [T1, T2, T3, T4]
`)
	writeFile(t, dir, "league/B/0.yaml", `
teams: [T5, T6, T7, T8]
scores:
  game: {T5: 40, T6: 30, T7: 20, T8: 10}
  present: [T5, T6, T7, T8]
`)
	// T9 outscores every other team in the competition, but all of
	// arena C drops out right after this match.
	writeFile(t, dir, "league/C/0.yaml", `
teams: [T9, T10, T11, T12]
scores:
  game: {T9: 100, T10: 30, T11: 20, T12: 10}
  present: [T9, T10, T11, T12]
`)

	return dir
}

func TestSelectSeedsExcludesDroppedOutTeams(t *testing.T) {
	dir := droppedOutSeederCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)
	require.NotNil(t, c)

	dropped := []compstate.TeamID{"T9", "T10", "T11", "T12"}

	// T9 leads the entire competition on raw league points, but arena C
	// dropped out right after its only league match, so none of its
	// teams may appear in any knockout slot even though T9 would
	// otherwise be the top seed.
	for _, m := range c.KnockoutMatches {
		for _, slot := range m.Teams {
			if slot == nil {
				continue
			}
			for _, id := range dropped {
				assert.NotEqual(t, id, *slot, "dropped-out team must not be seeded")
			}
		}
	}

	seeds, _, _, _ := c.selectSeeds(c.Arenas)
	for _, id := range dropped {
		assert.NotContains(t, seeds, id)
	}
	assert.Len(t, seeds, 8)
}

func TestLoadWithStaticKnockoutPlan(t *testing.T) {
	dir := staticKnockoutCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)
	require.Len(t, c.KnockoutMatches, 2)

	for _, m := range c.KnockoutMatches {
		assert.Equal(t, compstate.Knockout, m.Type)
		for _, slot := range m.Teams {
			require.NotNil(t, slot)
		}
	}
}

// tiedFinalCompstate extends eightTeamCompstate with a one-match static
// knockout plan whose sole match (seed:1 vs seed:2, the top standings
// group's two teams, T1 and T5) is scored as an exact tie for first —
// exercising the final-has-no-next-round gap finalTieNeed closes.
func tiedFinalCompstate(t *testing.T) string {
	t.Helper()
	dir := eightTeamCompstate(t)

	writeFile(t, dir, "knockout.yaml", `
matches:
  100:
    A: [seed:1, seed:2]
`)
	writeFile(t, dir, "knockout/A/100.yaml", `
teams: [T1, T5]
scores:
  game: {T1: 10, T5: 10}
  present: [T1, T5]
`)

	return dir
}

func TestTiedFinalMaterializesTiebreakerAndLeavesWinnerUndetermined(t *testing.T) {
	dir := tiedFinalCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	require.Len(t, c.KnockoutMatches, 2, "the seed final plus one materialized tiebreaker")
	tb := c.KnockoutMatches[1]
	assert.Equal(t, compstate.Tiebreaker, tb.Type)
	assert.Equal(t, compstate.MatchNumber(101), tb.Num)
	assert.Equal(t, compstate.ArenaID("A"), tb.Arena)
	assert.Equal(t, "Tiebreaker for A#100", tb.DisplayName)
	require.Len(t, tb.Teams, 2)
	assert.ElementsMatch(t,
		[]compstate.TeamID{"T1", "T5"},
		[]compstate.TeamID{*tb.Teams[0], *tb.Teams[1]},
	)

	require.Len(t, c.TiebreakerNeeds, 1)
	assert.Equal(t, []compstate.TeamID{"T1", "T5"}, c.TiebreakerNeeds[0].Tied)
	assert.Nil(t, c.Awards.KnockoutWinner, "no winner until the tiebreaker itself is scored")
}

func TestTiedFinalResolvesOnceTiebreakerIsScored(t *testing.T) {
	dir := tiedFinalCompstate(t)
	writeFile(t, dir, "knockout/A/101.yaml", `
teams: [T1, T5]
scores:
  game: {T1: 10, T5: 5}
  present: [T1, T5]
`)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	assert.Empty(t, c.TiebreakerNeeds, "resolved ties no longer count as outstanding")
	require.NotNil(t, c.Awards.KnockoutWinner)
	assert.Equal(t, compstate.TeamID("T1"), *c.Awards.KnockoutWinner)
}

// midBracketTieCompstate extends eightTeamCompstate with a two-match
// static plan where the first match (seed:1 vs seed:2, T1 and T5) ties,
// and the second references its winner via "winner:100" — exercising
// progression-tie materialization for a non-final match.
func midBracketTieCompstate(t *testing.T) string {
	t.Helper()
	dir := eightTeamCompstate(t)

	writeFile(t, dir, "knockout.yaml", `
matches:
  100:
    A: [seed:1, seed:2]
  101:
    A: [winner:100, seed:3]
`)
	writeFile(t, dir, "knockout/A/100.yaml", `
teams: [T1, T5]
scores:
  game: {T1: 10, T5: 10}
  present: [T1, T5]
`)

	return dir
}

func TestMidBracketTieMaterializesTiebreakerBeforeWinnerIsKnown(t *testing.T) {
	dir := midBracketTieCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	require.Len(t, c.KnockoutMatches, 3, "both plan matches plus one materialized tiebreaker")
	final := c.KnockoutMatches[1]
	assert.Equal(t, knockout.UnknownTeam, *final.Teams[0], "winner:100 is ambiguous until the tiebreaker is scored")

	tb := c.KnockoutMatches[2]
	assert.Equal(t, compstate.Tiebreaker, tb.Type)
	assert.Equal(t, compstate.MatchNumber(102), tb.Num)
	assert.Equal(t, "Tiebreaker for A#100", tb.DisplayName)

	require.Len(t, c.TiebreakerNeeds, 1)
	assert.Equal(t, []compstate.TeamID{"T1", "T5"}, c.TiebreakerNeeds[0].Tied)
}

func TestMidBracketTieResolvesWinnerPlaceholderOnceScored(t *testing.T) {
	dir := midBracketTieCompstate(t)
	writeFile(t, dir, "knockout/A/102.yaml", `
teams: [T1, T5]
scores:
  game: {T1: 10, T5: 5}
  present: [T1, T5]
`)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	require.Empty(t, c.TiebreakerNeeds)
	final := c.KnockoutMatches[1]
	assert.Equal(t, compstate.TeamID("T1"), *final.Teams[0], "the tiebreaker's winner fills the winner:100 slot")
	assert.Equal(t, compstate.TeamID("T2"), *final.Teams[1], "seed:3 is unaffected by the tiebreaker")
}

// tiedSeedBoundaryCompstate sets up an automatic (non-static) bracket
// whose seed cutoff falls inside a tied standings group spanning the
// entire league field — spec.md §8 scenario 6: five teams finish a
// single league match in an exact raw-points tie, landing every one of
// them in one Position-1 Standing, but the single arena's first-round
// slot count (groupSize 4) only has room for four.
func tiedSeedBoundaryCompstate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "arenas.yaml", `
arenas:
  A:
    display_name: Arena A
teams_per_arena: 5
`)

	writeFile(t, dir, "teams.yaml", `
teams:
  T1: {name: Team One}
  T2: {name: Team Two}
  T3: {name: Team Three}
  T4: {name: Team Four}
  T5: {name: Team Five}
`)

	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [T1, T2, T3, T4, T5]
`)

	writeFile(t, dir, "schedule.yaml", `
match_slot_length_seconds: 300
match_period_gap_seconds: 60
match_periods:
  - description: league
    start_time: "2020-01-01T09:00:00Z"
    end_time: "2020-01-01T09:10:00Z"
    max_end_time: "2020-01-01T09:10:00Z"
    type: league
  - description: knockout
    start_time: "2020-01-01T10:00:00Z"
    end_time: "2020-01-01T11:00:00Z"
    max_end_time: "2020-01-01T11:00:00Z"
    type: knockout
`)

	writeFile(t, dir, "league/A/0.yaml", `
teams: [T1, T2, T3, T4, T5]
scores:
  game: {T1: 30, T2: 30, T3: 30, T4: 30, T5: 30}
  present: [T1, T2, T3, T4, T5]
`)

	return dir
}

func TestSeedBoundaryTieMaterializesSeedingTiebreaker(t *testing.T) {
	dir := tiedSeedBoundaryCompstate(t)

	c, err := Load(dir, loader.FailFast)
	require.NoError(t, err)

	require.NotNil(t, c.PendingSeedTiebreaker, "the cutoff falls inside a tied standings group")
	require.Len(t, c.KnockoutMatches, 1, "the seeding tiebreaker is materialized even with no bracket yet")
	tb := c.KnockoutMatches[0]
	assert.Equal(t, compstate.Tiebreaker, tb.Type)
	assert.Equal(t, "Seeding tiebreaker", tb.DisplayName)
	assert.Empty(t, c.KnockoutRounds)
}
