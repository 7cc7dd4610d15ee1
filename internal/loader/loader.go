// Package loader deserialises a compstate directory (§6 of the
// specification) into the compstate package's domain types.
//
// It is grounded on the teacher codebase's internal/cli/loader.go and
// internal/compiler/concept.go: a directory scan, per-file decoding into
// typed records, and a Mode controlling whether the first error
// aborts the load (FailFast) or every error is collected (CollectAll) —
// generalised here from CUE-concept compilation to compstate YAML
// decoding via gopkg.in/yaml.v3.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/compcore/compcore/internal/compstate"
)

// Mode controls error handling during a Load.
type Mode int

const (
	// FailFast stops at the first error of any kind.
	FailFast Mode = iota
	// CollectAll gathers every error before returning.
	CollectAll
)

// Result is the fully-parsed, not-yet-scheduled compstate.
type Result struct {
	Arenas        map[compstate.ArenaID]compstate.Arena
	ArenaOrder    []compstate.ArenaID
	TeamsPerArena int

	Teams     []*compstate.Team
	TeamOrder []compstate.TeamID

	LeaguePlan   Plan
	KnockoutPlan *Plan // nil when the compstate uses seeded knockout scheduling

	Schedule ScheduleConfig

	LeagueScores   map[compstate.MatchID]*compstate.ScoreReport
	KnockoutScores map[compstate.MatchID]*compstate.ScoreReport

	Awards map[compstate.AwardKind][]compstate.TeamID

	Venue compstate.Venue
}

// Load reads every file of a compstate directory described in spec.md
// §6 and returns a Result, or the errors encountered.
//
// knockout.yaml and knockout/<arena>/*.yaml scoresheets are optional and
// their absence is not an error: without knockout.yaml the competition
// uses seeded (not static) knockout scheduling, and without knockout
// scoresheets no knockout match is scored yet.
func Load(dir string, mode Mode) (*Result, []error) {
	var errs []error
	collect := func(e error) bool {
		if e == nil {
			return false
		}
		errs = append(errs, e)
		return mode == FailFast
	}

	result := &Result{
		LeagueScores:   map[compstate.MatchID]*compstate.ScoreReport{},
		KnockoutScores: map[compstate.MatchID]*compstate.ScoreReport{},
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, []error{&compstate.SchemaError{
			Code:     compstate.ErrCodeSchema,
			Message:  fmt.Sprintf("compstate directory not found: %s", dir),
			Location: compstate.Location{Path: dir},
		}}
	}

	arenas, teamsPerArena, err := loadArenas(filepath.Join(dir, "arenas.yaml"))
	if collect(err) {
		return result, errs
	}
	result.Arenas = arenas
	result.TeamsPerArena = teamsPerArena
	result.ArenaOrder = sortedArenaIDs(arenas)

	teams, err := loadTeams(filepath.Join(dir, "teams.yaml"))
	if collect(err) {
		return result, errs
	}
	result.Teams = teams
	for _, t := range teams {
		result.TeamOrder = append(result.TeamOrder, t.ID)
	}
	sort.Slice(result.TeamOrder, func(i, j int) bool { return result.TeamOrder[i] < result.TeamOrder[j] })

	leaguePlan, err := loadPlan(filepath.Join(dir, "league.yaml"), teamsPerArena)
	if collect(err) {
		return result, errs
	}
	result.LeaguePlan = leaguePlan

	if _, statErr := os.Stat(filepath.Join(dir, "knockout.yaml")); statErr == nil {
		kPlan, err := loadPlan(filepath.Join(dir, "knockout.yaml"), teamsPerArena)
		if collect(err) {
			return result, errs
		}
		result.KnockoutPlan = &kPlan
	}

	sched, err := loadSchedule(filepath.Join(dir, "schedule.yaml"))
	if collect(err) {
		return result, errs
	}
	result.Schedule = sched

	leagueScores, err := loadScoreDir(filepath.Join(dir, "league"), result.LeaguePlan)
	if collect(err) {
		return result, errs
	}
	result.LeagueScores = leagueScores

	if info, statErr := os.Stat(filepath.Join(dir, "knockout")); statErr == nil && info.IsDir() {
		var knockoutPlan Plan
		if result.KnockoutPlan != nil {
			knockoutPlan = *result.KnockoutPlan
		}
		knockoutScores, err := loadScoreDir(filepath.Join(dir, "knockout"), knockoutPlan)
		if collect(err) {
			return result, errs
		}
		result.KnockoutScores = knockoutScores
	}

	awards, err := loadAwards(filepath.Join(dir, "awards.yaml"))
	if collect(err) {
		return result, errs
	}
	result.Awards = awards

	venue, err := loadVenue(filepath.Join(dir, "shepherding.yaml"))
	if collect(err) {
		return result, errs
	}
	result.Venue = venue

	return result, errs
}

func sortedArenaIDs(arenas map[compstate.ArenaID]compstate.Arena) []compstate.ArenaID {
	out := make([]compstate.ArenaID, 0, len(arenas))
	for id := range arenas {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// decodeYAMLFile is the shared "open, decode, wrap decode errors as
// SchemaError" helper every loader file in this package uses.
func decodeYAMLFile(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &compstate.SchemaError{
			Code:     compstate.ErrCodeSchema,
			Message:  err.Error(),
			Location: compstate.Location{Path: path},
		}
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return &compstate.SchemaError{
			Code:     compstate.ErrCodeSchema,
			Message:  fmt.Sprintf("malformed YAML: %v", err),
			Location: compstate.Location{Path: path},
		}
	}
	return nil
}
