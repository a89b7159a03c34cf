package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Day string
	All bool
}

// ClearOutput reports what was cleared.
type ClearOutput struct {
	Namespace string `json:"namespace,omitempty"`
	Day       string `json:"day,omitempty"`
	All       bool   `json:"all"`
}

func (o ClearOutput) String() string {
	if o.All {
		return "cleared all signals"
	}
	return fmt.Sprintf("cleared %s %s", o.Namespace, o.Day)
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the records of one day, or of everything",
		Long: `Delete every record of one day in the current namespace. With --all,
delete every signal record in the store across days and namespaces.

Examples:
  onoff clear --day 2024-05-17
  onoff clear --all`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Day, "day", "", "UTC day YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "clear every day and namespace")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	if opts.All && cmd.Flags().Changed("day") {
		return NewExitError(ExitCommandError, "--day and --all cannot be used together")
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	if opts.All {
		if err := s.engine.ClearAll(s.ctx()); err != nil {
			return f.Fail(err)
		}
		return f.Success(ClearOutput{All: true})
	}

	if err := s.engine.ClearDay(s.ctx(), opts.Day); err != nil {
		return f.Fail(err)
	}
	return f.Success(ClearOutput{Namespace: s.engine.Namespace(), Day: resolveDay(opts.Day)})
}
