package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compcore/compcore/internal/compstate"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func minimalCompstate(t *testing.T) string {
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
  ABC:
    name: Team ABC
  XYZ:
    name: Team XYZ
    rookie: true
  DEF:
    name: Team DEF
    dropped_out_after: 3
`)

	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [ABC, XYZ]
    B: [DEF, null]
  1:
    A: [XYZ, DEF]
`)

	writeFile(t, dir, "schedule.yaml", `
match_slot_length_seconds: 300
match_period_gap_seconds: 180
match_periods:
  - description: league
    start_time: "2020-01-01T10:00:00Z"
    end_time: "2020-01-01T11:00:00Z"
    max_end_time: "2020-01-01T11:00:00Z"
    type: league
delays:
  - time: "2020-01-01T10:05:00Z"
    delay: 120
`)

	writeFile(t, dir, "league/A/0.yaml", `
times:
  start: "2020-01-01T10:00:00Z"
teams: [ABC, XYZ]
scores:
  game:
    ABC: 10
    XYZ: 8
  present: [ABC, XYZ]
`)

	writeFile(t, dir, "awards.yaml", `
league_winner: ABC
special_mention: [XYZ, DEF]
`)

	writeFile(t, dir, "shepherding.yaml", `
regions:
  - name: North
    colour: blue
    regions: [pit-1, pit-2]
`)

	return dir
}

func TestLoadMinimalCompstate(t *testing.T) {
	dir := minimalCompstate(t)

	result, errs := Load(dir, FailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Len(t, result.Arenas, 2)
	assert.Equal(t, 4, result.TeamsPerArena)
	assert.Equal(t, []compstate.ArenaID{"A", "B"}, result.ArenaOrder)

	assert.Equal(t, []compstate.TeamID{"ABC", "DEF", "XYZ"}, result.TeamOrder)
	def := result.Teams[1]
	assert.Equal(t, compstate.TeamID("DEF"), def.ID)
	require.NotNil(t, def.DroppedOutAfter)
	assert.Equal(t, compstate.MatchNumber(3), *def.DroppedOutAfter)

	require.Len(t, result.LeaguePlan.Numbers, 2)
	m0 := result.LeaguePlan.Matches[0]
	require.Contains(t, m0, compstate.ArenaID("A"))
	require.Contains(t, m0, compstate.ArenaID("B"))
	assert.Equal(t, compstate.TeamID("ABC"), *m0["A"][0])
	assert.Nil(t, m0["B"][1])

	assert.Equal(t, 300*time.Second, result.Schedule.SlotLength)
	require.Len(t, result.Schedule.Periods, 1)
	assert.Equal(t, compstate.League, result.Schedule.Periods[0].Type)
	require.Len(t, result.Schedule.Delays, 1)

	report, ok := result.LeagueScores[compstate.MatchID{Arena: "A", Num: 0}]
	require.True(t, ok)
	assert.Equal(t, 10, report.Teams["ABC"].GamePoints)
	assert.True(t, report.Teams["ABC"].Present)

	require.Contains(t, result.Awards, compstate.AwardKind("league_winner"))
	assert.Equal(t, []compstate.TeamID{"ABC"}, result.Awards["league_winner"])
	assert.Equal(t, []compstate.TeamID{"XYZ", "DEF"}, result.Awards["special_mention"])

	require.Len(t, result.Venue.Shepherds, 1)
	assert.Equal(t, "North", result.Venue.Shepherds[0].Name)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "nonexistent"), FailFast)
	require.Len(t, errs, 1)
	var schemaErr *compstate.SchemaError
	require.ErrorAs(t, errs[0], &schemaErr)
}

func TestLoadMalformedArenas(t *testing.T) {
	dir := minimalCompstate(t)
	writeFile(t, dir, "arenas.yaml", "arenas: [this, is, not, a, map]\n")

	_, errs := Load(dir, FailFast)
	require.Len(t, errs, 1)
	var schemaErr *compstate.SchemaError
	require.ErrorAs(t, errs[0], &schemaErr)
}

func TestLoadKnockoutDirOptional(t *testing.T) {
	dir := minimalCompstate(t)
	result, errs := Load(dir, FailFast)
	require.Empty(t, errs)
	assert.Nil(t, result.KnockoutPlan)
	assert.Empty(t, result.KnockoutScores)
}

func TestLoadRejectsInconsistentArenaCapacity(t *testing.T) {
	dir := minimalCompstate(t)
	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [ABC, XYZ]
    B: [DEF, null]
  1:
    A: [XYZ, DEF, ABC]
`)

	_, errs := Load(dir, FailFast)
	require.Len(t, errs, 1)
	var schemaErr *compstate.SchemaError
	require.ErrorAs(t, errs[0], &schemaErr)
	assert.Equal(t, compstate.ErrCodeSchema, schemaErr.Code)
	assert.Contains(t, schemaErr.Message, "arena A has inconsistent capacity")
}

func TestLoadRejectsArenaCapacityExceedingDeclaredLimit(t *testing.T) {
	dir := minimalCompstate(t)
	writeFile(t, dir, "league.yaml", `
matches:
  0:
    A: [ABC, XYZ, DEF, ABC, XYZ]
`)

	_, errs := Load(dir, FailFast)
	require.Len(t, errs, 1)
	var schemaErr *compstate.SchemaError
	require.ErrorAs(t, errs[0], &schemaErr)
	assert.Equal(t, compstate.ErrCodeSchema, schemaErr.Code)
	assert.Contains(t, schemaErr.Message, "exceeding the declared capacity")
}

func TestLoadRejectsScoresheetFiledUnderWrongArena(t *testing.T) {
	dir := minimalCompstate(t)
	// minimalCompstate's league.yaml places match 1 only in arena A, not B.
	writeFile(t, dir, "league/B/1.yaml", `
teams: [XYZ, DEF]
scores:
  game:
    XYZ: 10
    DEF: 8
  present: [XYZ, DEF]
`)

	_, errs := Load(dir, FailFast)
	require.Len(t, errs, 1)
	var mismatchErr *compstate.ScoresheetArenaMismatchError
	require.ErrorAs(t, errs[0], &mismatchErr)
	assert.Equal(t, compstate.ArenaID("B"), mismatchErr.Match.Arena)
	assert.Equal(t, compstate.MatchNumber(1), mismatchErr.Match.Num)
	assert.Equal(t, compstate.ArenaID("A"), mismatchErr.PlanArena)
}

func TestLoadCollectAllGathersEveryError(t *testing.T) {
	dir := minimalCompstate(t)
	writeFile(t, dir, "arenas.yaml", "arenas: not-a-map\n")
	writeFile(t, dir, "teams.yaml", "teams: not-a-map\n")

	_, errs := Load(dir, CollectAll)
	assert.GreaterOrEqual(t, len(errs), 2)
}
