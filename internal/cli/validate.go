package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compcore/compcore/internal/facade"
	"github.com/compcore/compcore/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <compstate-dir>",
		Short: "Validate a compstate directory end to end",
		Long: `Validate every file in a compstate directory against the schema, check
every team/arena reference for existence, and confirm the league and
knockout plans fit their scheduled periods — without printing the
resulting schedule, standings, or awards.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("loading compstate from %s", dir)
	_, errs := loader.Load(dir, loader.CollectAll)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	formatter.VerboseLog("scheduling and scoring %s", dir)
	if _, err := facade.Load(dir, loader.FailFast); err != nil {
		return outputValidationErrors(formatter, []error{err})
	}

	return outputValidateSuccess(formatter)
}

func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "valid")
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []error) error {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}

	if formatter.Format == "json" {
		_ = formatter.Success(ValidationResult{Valid: false, Errors: messages})
	} else {
		fmt.Fprintln(formatter.Writer, "invalid")
		for _, m := range messages {
			fmt.Fprintf(formatter.Writer, "  %s\n", m)
		}
	}

	first := errs[0]
	return WrapExitError(ExitCodeFor(first), fmt.Sprintf("validation failed with %d error(s)", len(errs)), first)
}
