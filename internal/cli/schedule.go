package cli

import (
	"github.com/spf13/cobra"

	"github.com/compcore/compcore/internal/facade"
	"github.com/compcore/compcore/internal/loader"
)

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <compstate-dir>",
		Short: "Report the full league and knockout match schedule",
		Args:  cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSchedule(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := facade.Load(dir, loader.FailFast)
	if err != nil {
		return WrapExitError(ExitCodeFor(err), "failed to evaluate compstate", err)
	}

	league := make([]any, len(c.LeagueMatches))
	for i, m := range c.LeagueMatches {
		league[i] = matchView(m)
	}
	knockout := make([]any, len(c.KnockoutMatches))
	for i, m := range c.KnockoutMatches {
		knockout[i] = matchView(m)
	}

	result := map[string]any{
		"league_matches":   league,
		"knockout_matches": knockout,
		"knockout_rounds":  len(c.KnockoutRounds),
	}
	if c.PendingSeedTiebreaker != nil {
		tied := make([]any, len(c.PendingSeedTiebreaker.Tied))
		for i, id := range c.PendingSeedTiebreaker.Tied {
			tied[i] = string(id)
		}
		result["pending_seed_tiebreaker"] = tied
	}

	return formatter.Success(result)
}
