package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeCompstate materialises files (paths relative to the compstate
// root) into a fresh temporary directory and returns its path.
func writeCompstate(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func twoTeamLeagueFiles() map[string]string {
	return map[string]string{
		"arenas.yaml": `
arenas:
  A:
    display_name: Arena A
teams_per_arena: 4
`,
		"teams.yaml": `
teams:
  T1: {name: Team One}
  T2: {name: Team Two}
  T3: {name: Team Three}
  T4: {name: Team Four}
`,
		"league.yaml": `
matches:
  0:
    A: [T1, T2, T3, T4]
`,
		"schedule.yaml": `
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
`,
		"league/A/0.yaml": `
teams: [T1, T2, T3, T4]
scores:
  game: {T1: 40, T2: 30, T3: 20, T4: 10}
  present: [T1, T2, T3, T4]
`,
	}
}

// twoTeamLeagueFilesNoScoresheet mirrors twoTeamLeagueFiles but omits
// the league/A/0.yaml scoresheet entirely.
func twoTeamLeagueFilesNoScoresheet() map[string]string {
	files := twoTeamLeagueFiles()
	delete(files, "league/A/0.yaml")
	return files
}
