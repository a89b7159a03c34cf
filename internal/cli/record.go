package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/onoff/internal/daykey"
	"github.com/roach88/onoff/internal/store"
)

// SignalFlags are the hour/day selectors shared by the write commands.
type SignalFlags struct {
	Hour int
	Day  string
}

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	SignalFlags
	Base int
}

// RecordOutput is the stored record as the CLI reports it. Write ids and
// timestamps are left out so output is reproducible.
type RecordOutput struct {
	Namespace  string `json:"namespace"`
	Day        string `json:"day"`
	Hour       int    `json:"hour"`
	Kind       string `json:"kind"`
	Base       int    `json:"base,omitempty"`
	Symbol     string `json:"symbol"`
	DigitIndex int    `json:"digit_index"`
	Checksum   *int   `json:"checksum,omitempty"`
}

func (o RecordOutput) String() string { return o.describe("recorded") }

func (o RecordOutput) describe(verb string) string {
	if o.Kind == string(store.KindASCII) {
		sum := 0
		if o.Checksum != nil {
			sum = *o.Checksum
		}
		return fmt.Sprintf("%s %s %s h%02d ascii %q checksum %d", verb, o.Namespace, o.Day, o.Hour, o.Symbol, sum)
	}
	return fmt.Sprintf("%s %s %s h%02d base %d %q", verb, o.Namespace, o.Day, o.Hour, o.Base, o.Symbol)
}

func newRecordOutput(rec store.Record) RecordOutput {
	return RecordOutput{
		Namespace:  rec.Namespace,
		Day:        rec.Day,
		Hour:       rec.Hour,
		Kind:       string(rec.Kind),
		Base:       rec.Base,
		Symbol:     rec.Symbol,
		DigitIndex: rec.Raw.DigitIndex,
		Checksum:   rec.Checksum,
	}
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <count>",
		Short: "Record one hour's count as a base-N digit",
		Long: `Record one hour's raw count. The count maps to digit (count-1) mod base;
a count of 0 records a gap. Re-recording an hour replaces it.

Examples:
  onoff record 2 --hour 0 --base 16
  onoff record 11 --hour 3 --day 2024-05-17 --base 36`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	addSignalFlags(cmd, &opts.SignalFlags)
	cmd.Flags().IntVarP(&opts.Base, "base", "b", 0, "digit radix 2-36 (default from config)")

	return cmd
}

func runRecord(opts *RecordOptions, countArg string, cmd *cobra.Command) error {
	count, err := parseCount("count", countArg)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	hour := resolveHour(cmd, opts.Hour)
	s.warnIfEphemeral()
	rec, err := s.engine.RecordSignal(s.ctx(), s.base(opts.Base), count, hour, opts.Day)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(newRecordOutput(rec))
}

// RecordASCIIOptions holds flags for the record-ascii command.
type RecordASCIIOptions struct {
	*RootOptions
	SignalFlags
}

// NewRecordASCIICommand creates the record-ascii command.
func NewRecordASCIICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordASCIIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record-ascii <clones> <views>",
		Short: "Record one hour of the two-channel ascii variant",
		Long: `Record two counts for one hour. Each count maps to a 7-bit character
(count mod 128) and the record stores their XOR checksum.

Example:
  onoff record-ascii 200 256 --hour 13`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordASCII(opts, args[0], args[1], cmd)
		},
	}

	addSignalFlags(cmd, &opts.SignalFlags)

	return cmd
}

func runRecordASCII(opts *RecordASCIIOptions, clonesArg, viewsArg string, cmd *cobra.Command) error {
	clones, err := parseCount("clones", clonesArg)
	if err != nil {
		return err
	}
	views, err := parseCount("views", viewsArg)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	hour := resolveHour(cmd, opts.Hour)
	s.warnIfEphemeral()
	rec, err := s.engine.RecordASCII(s.ctx(), clones, views, hour, opts.Day)
	if err != nil {
		return f.Fail(err)
	}
	return f.Success(newRecordOutput(rec))
}

func addSignalFlags(cmd *cobra.Command, flags *SignalFlags) {
	cmd.Flags().IntVar(&flags.Hour, "hour", 0, "hour slot 0-23 (default current UTC hour)")
	cmd.Flags().StringVar(&flags.Day, "day", "", "UTC day YYYY-MM-DD (default today)")
}

// resolveHour returns the --hour flag, or the current UTC hour when the
// flag was not given.
func resolveHour(cmd *cobra.Command, flagValue int) int {
	if cmd.Flags().Changed("hour") {
		return flagValue
	}
	return daykey.SystemClock{}.Now().UTC().Hour()
}

// parseCount parses an integer count argument.
func parseCount(name, arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", name, arg), err)
	}
	return n, nil
}
