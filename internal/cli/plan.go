package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/onoff/internal/codec"
	"github.com/roach88/onoff/internal/daykey"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Base      int
	StartHour int
	Day       string
	Record    bool
}

// PlannedHour is the count to record at one hour.
type PlannedHour struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// PlanOutput lists the counts that spell a message.
type PlanOutput struct {
	Message  string        `json:"message"`
	Base     int           `json:"base"`
	Day      string        `json:"day,omitempty"`
	Hours    []PlannedHour `json:"hours"`
	Recorded bool          `json:"recorded"`
}

func (o PlanOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan %q base %d", o.Message, o.Base)
	if o.Recorded {
		fmt.Fprintf(&b, " (recorded %s)", o.Day)
	}
	for _, h := range o.Hours {
		fmt.Fprintf(&b, "\n  h%02d  %d", h.Hour, h.Count)
	}
	return b.String()
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <message>",
		Short: "Compute the hourly counts that spell a message",
		Long: `Compute one count per hour such that recording them from --start-hour
reconstructs the message. Letters are upper-cased; a space plans a gap.
With --record the counts are also written.

Examples:
  onoff plan HI --base 16
  onoff plan "GO 2" --base 6 --start-hour 0 --record`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Base, "base", "b", 0, "digit radix 2-36 (default from config)")
	cmd.Flags().IntVar(&opts.StartHour, "start-hour", 0, "hour of the first planned count")
	cmd.Flags().StringVar(&opts.Day, "day", "", "UTC day YYYY-MM-DD for --record (default today)")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the planned counts")

	return cmd
}

func runPlan(opts *PlanOptions, message string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	base := s.base(opts.Base)
	c, err := codec.New(base)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "invalid base", err))
	}
	counts, err := c.PlanCounts(message)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, "message cannot be planned", err))
	}
	if last := opts.StartHour + len(counts) - 1; opts.StartHour < 0 || last > daykey.MaxHour {
		return f.Fail(NewExitError(ExitCommandError,
			fmt.Sprintf("plan needs hours %d-%d, past the end of the day", opts.StartHour, last)))
	}

	out := PlanOutput{
		Message: strings.ToUpper(message),
		Base:    base,
		Hours:   make([]PlannedHour, len(counts)),
	}
	for i, count := range counts {
		out.Hours[i] = PlannedHour{Hour: opts.StartHour + i, Count: count}
	}

	if opts.Record {
		s.warnIfEphemeral()
		out.Day = resolveDay(opts.Day)
		for _, h := range out.Hours {
			if _, err := s.engine.RecordSignal(s.ctx(), base, h.Count, h.Hour, out.Day); err != nil {
				return f.Fail(err)
			}
		}
		out.Recorded = true
	}
	return f.Success(out)
}
