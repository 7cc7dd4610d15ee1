package cli

import (
	"github.com/spf13/cobra"

	"github.com/compcore/compcore/internal/compstate"
	"github.com/compcore/compcore/internal/facade"
	"github.com/compcore/compcore/internal/loader"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <compstate-dir>",
		Short: "Load and evaluate a compstate, reporting a summary and its content hash",
		Args:  cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLoad(opts *RootOptions, dir string, cmd *cobra.Command) error {
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

	hash := compstate.StateHash(c.Registry.Order(), c.ArenaOrder)

	return formatter.Success(map[string]any{
		"eval_id":          c.EvalID,
		"state_hash":       hash,
		"teams":            len(c.Registry.Order()),
		"arenas":           len(c.ArenaOrder),
		"league_matches":   len(c.LeagueMatches),
		"knockout_matches": len(c.KnockoutMatches),
	})
}
