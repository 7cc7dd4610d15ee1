package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/facade"
	"github.com/compcore/compcore/internal/loader"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	At string // RFC3339 timestamp; defaults to now
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state <compstate-dir>",
		Short: "Report current matches, upcoming matches, and delay at a point in time",
		Args:  cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "RFC3339 timestamp to query (default: now)")

	return cmd
}

func runState(opts *StateOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	at, err := parseAt(opts.At)
	if err != nil {
		return NewExitError(ExitSchemaError, err.Error())
	}

	c, err := facade.Load(dir, loader.FailFast)
	if err != nil {
		return WrapExitError(ExitCodeFor(err), "failed to evaluate compstate", err)
	}

	state := c.StateAt(at)
	return formatter.Success(stateView(state))
}

func parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func matchView(m *compstate.Match) map[string]any {
	teams := make([]any, len(m.Teams))
	for i, t := range m.Teams {
		if t == nil {
			teams[i] = nil
		} else {
			teams[i] = string(*t)
		}
	}
	return map[string]any{
		"num":        int(m.Num),
		"arena":      string(m.Arena),
		"type":       m.Type.String(),
		"teams":      teams,
		"start_time": m.StartTime.Format(time.RFC3339),
		"end_time":   m.EndTime.Format(time.RFC3339),
	}
}

func stateView(s facade.State) map[string]any {
	current := make([]any, len(s.CurrentMatches))
	for i, m := range s.CurrentMatches {
		current[i] = matchView(m)
	}
	upcoming := make([]any, len(s.UpcomingMatches))
	for i, m := range s.UpcomingMatches {
		upcoming[i] = matchView(m)
	}
	missingScores := make([]any, len(s.MissingScores))
	for i, m := range s.MissingScores {
		missingScores[i] = map[string]any{
			"arena": string(m.Match.Arena),
			"num":   int(m.Match.Num),
		}
	}
	return map[string]any{
		"current_matches":  current,
		"upcoming_matches": upcoming,
		"delayed_by":       s.DelayedBy.String(),
		"standings":        standingsView(s.Standings),
		"missing_scores":   missingScores,
	}
}

func standingsView(standings []compstate.Standing) []any {
	out := make([]any, len(standings))
	for i, st := range standings {
		teams := make([]any, len(st.Teams))
		for j, id := range st.Teams {
			teams[j] = string(id)
		}
		out[i] = map[string]any{
			"position": st.Position,
			"teams":    teams,
			"points":   fmt.Sprintf("%.2f", st.Points),
		}
	}
	return out
}
