package cli

import (
	"github.com/spf13/cobra"

	"github.com/compcore/compcore/internal/facade"
	"github.com/compcore/compcore/internal/loader"
)

// NewStandingsCommand creates the standings command.
func NewStandingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings <compstate-dir>",
		Short: "Report league standings and resolved awards",
		Args:  cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandings(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runStandings(opts *RootOptions, dir string, cmd *cobra.Command) error {
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

	awards := map[string]any{}
	for kind, teams := range c.Awards.All() {
		list := make([]any, len(teams))
		for i, id := range teams {
			list[i] = string(id)
		}
		awards[string(kind)] = list
	}

	return formatter.Success(map[string]any{
		"standings": standingsView(c.Standings),
		"awards":    awards,
	})
}
