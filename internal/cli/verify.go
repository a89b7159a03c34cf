package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/onoff/internal/daykey"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	SignalFlags
}

// VerifyOutput is the checksum verdict for one hour.
type VerifyOutput struct {
	Day   string `json:"day"`
	Hour  int    `json:"hour"`
	Valid bool   `json:"valid"`
}

func (o VerifyOutput) String() string {
	verdict := "ok"
	if !o.Valid {
		verdict = "mismatch"
	}
	return fmt.Sprintf("checksum %s h%02d: %s", o.Day, o.Hour, verdict)
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the stored checksum of an ascii hour",
		Long: `Recompute the 7-bit checksum of an ascii record from its stored channel
bytes and compare it with the stored checksum.

Exit codes:
  0 - Checksum matches
  1 - Checksum mismatch, or no record at that hour
  2 - Invalid hour or day

Example:
  onoff verify --hour 13 --day 2024-05-17`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	addSignalFlags(cmd, &opts.SignalFlags)

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	hour := resolveHour(cmd, opts.Hour)
	ok, err := s.engine.Verify(s.ctx(), hour, opts.Day)
	if err != nil {
		return f.Fail(err)
	}

	out := VerifyOutput{Day: resolveDay(opts.Day), Hour: hour, Valid: ok}
	if err := f.Success(out); err != nil {
		return err
	}
	if !ok {
		return &ExitError{Code: ExitFailure, Message: "checksum mismatch", Reported: true}
	}
	return nil
}

// LookupOptions holds flags for the lookup command.
type LookupOptions struct {
	*RootOptions
	SignalFlags
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LookupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Show the record stored for one hour",
		Long: `Show the record stored for one hour of a day.

Example:
  onoff lookup --hour 4 --day 2024-05-17`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, cmd)
		},
	}

	addSignalFlags(cmd, &opts.SignalFlags)

	return cmd
}

func runLookup(opts *LookupOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	f := formatter(opts.RootOptions, cmd)
	hour := resolveHour(cmd, opts.Hour)
	rec, err := s.engine.Lookup(s.ctx(), hour, opts.Day)
	if err != nil {
		return f.Fail(err)
	}
	if rec == nil {
		msg := fmt.Sprintf("no record at %s h%02d", resolveDay(opts.Day), hour)
		if err := f.Error(CodeNotFound, msg, nil); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure, Message: msg, Reported: true}
	}
	out := newRecordOutput(*rec)
	return f.Success(lookupOutput{out})
}

// lookupOutput reuses RecordOutput with read-side wording.
type lookupOutput struct {
	RecordOutput
}

func (o lookupOutput) String() string { return o.describe("found") }

// resolveDay returns day, or today's UTC day when day is empty. The engine
// validates it.
func resolveDay(day string) string {
	if day != "" {
		return day
	}
	return daykey.Today(daykey.SystemClock{})
}
