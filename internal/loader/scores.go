package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/compcore/compcore/internal/compstate"
)

// scoresheetFile mirrors league/<ArenaId>/<MatchNumber>.yaml and
// knockout/<ArenaId>/<MatchNumber>.yaml, which share one shape per
// spec.md §6. Times is opaque bookkeeping the core never consumes.
type scoresheetFile struct {
	Times  map[string]any `yaml:"times"`
	Teams  []*string      `yaml:"teams"`
	Scores struct {
		Game         map[string]int `yaml:"game"`
		Disqualified []string       `yaml:"disqualified"`
		Present      []string       `yaml:"present"`
	} `yaml:"scores"`
}

// loadScoreDir walks a league/ or knockout/ directory tree of
// <ArenaId>/<MatchNumber>.yaml scoresheets into ScoreReports keyed by
// MatchID. plan is the bound plan for this same match set; when it
// places a match number in a different arena than the one the
// scoresheet was filed under, that's a ScoresheetArenaMismatchError.
// A zero Plan (no static plan to check against, e.g. a dynamically
// seeded knockout bracket built after the loader runs) skips the
// check entirely.
func loadScoreDir(dir string, plan Plan) (map[compstate.MatchID]*compstate.ScoreReport, error) {
	out := map[compstate.MatchID]*compstate.ScoreReport{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, &compstate.SchemaError{
			Code:     compstate.ErrCodeSchema,
			Message:  err.Error(),
			Location: compstate.Location{Path: dir},
		}
	}

	for _, arenaEntry := range entries {
		if !arenaEntry.IsDir() {
			continue
		}
		arenaID := compstate.ArenaID(arenaEntry.Name())
		arenaDir := filepath.Join(dir, arenaEntry.Name())

		matchFiles, err := os.ReadDir(arenaDir)
		if err != nil {
			return nil, &compstate.SchemaError{
				Code:     compstate.ErrCodeSchema,
				Message:  err.Error(),
				Location: compstate.Location{Path: arenaDir},
			}
		}

		for _, f := range matchFiles {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
				continue
			}
			numStr := strings.TrimSuffix(f.Name(), ".yaml")
			num, err := strconv.Atoi(numStr)
			if err != nil {
				return nil, &compstate.SchemaError{
					Code:     compstate.ErrCodeSchema,
					Message:  "scoresheet filename is not a match number: " + f.Name(),
					Location: compstate.Location{Path: filepath.Join(arenaDir, f.Name())},
				}
			}

			path := filepath.Join(arenaDir, f.Name())
			var raw scoresheetFile
			if err := decodeYAMLFile(path, &raw); err != nil {
				return nil, err
			}

			if err := checkScoresheetArena(plan, arenaID, compstate.MatchNumber(num)); err != nil {
				return nil, err
			}

			report := &compstate.ScoreReport{
				Arena: arenaID,
				Num:   compstate.MatchNumber(num),
				Teams: map[compstate.TeamID]compstate.ScoreTeamData{},
			}

			disqualified := make(map[string]bool, len(raw.Scores.Disqualified))
			for _, id := range raw.Scores.Disqualified {
				disqualified[id] = true
			}
			present := make(map[string]bool, len(raw.Scores.Present))
			hasPresentList := raw.Scores.Present != nil
			for _, id := range raw.Scores.Present {
				present[id] = true
			}

			for id, points := range raw.Scores.Game {
				report.Teams[compstate.TeamID(id)] = compstate.ScoreTeamData{
					GamePoints:   points,
					Disqualified: disqualified[id],
					Present:      !hasPresentList || present[id],
				}
			}
			// A disqualified team may be omitted from scores.game entirely;
			// still record it so standings can account for the DQ.
			for id := range disqualified {
				if _, ok := report.Teams[compstate.TeamID(id)]; !ok {
					report.Teams[compstate.TeamID(id)] = compstate.ScoreTeamData{
						Disqualified: true,
						Present:      !hasPresentList || present[id],
					}
				}
			}

			out[compstate.MatchID{Arena: arenaID, Num: compstate.MatchNumber(num)}] = report
		}
	}

	return out, nil
}

// checkScoresheetArena reports a ScoresheetArenaMismatchError when the
// plan places matchNum in a set of arenas that doesn't include arenaID.
// A match number the plan doesn't mention at all is not this check's
// concern — that's a reference error elsewhere, or a dynamically
// seeded knockout match plan.go never saw.
func checkScoresheetArena(plan Plan, arenaID compstate.ArenaID, matchNum compstate.MatchNumber) error {
	byArena, ok := plan.Matches[matchNum]
	if !ok {
		return nil
	}
	if _, ok := byArena[arenaID]; ok {
		return nil
	}

	planArenas := make([]string, 0, len(byArena))
	for a := range byArena {
		planArenas = append(planArenas, string(a))
	}
	sort.Strings(planArenas)
	var planArena compstate.ArenaID
	if len(planArenas) > 0 {
		planArena = compstate.ArenaID(planArenas[0])
	}

	return &compstate.ScoresheetArenaMismatchError{
		Match:     compstate.MatchID{Arena: arenaID, Num: matchNum},
		PlanArena: planArena,
	}
}
