package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/onoff/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Op)
			if event.Hour != nil {
				fmt.Fprintf(&buf, " %s h%02d %q", event.Day, *event.Hour, event.Symbol)
			} else if event.Day != "" {
				fmt.Fprintf(&buf, " %s", event.Day)
			}
			if event.Error != "" {
				fmt.Fprintf(&buf, " error=%q", event.Error)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Engine   *engine.Engine
	Scenario *Scenario
	Ctx      context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertMessage:
			err = assertMessage(actx, a, result.Trace)
		case AssertASCIIMessage:
			err = assertASCIIMessage(actx, a, result.Trace)
		case AssertVerify:
			err = assertVerify(actx, a)
		case AssertSymbol:
			err = assertSymbol(actx, a)
		case AssertAbsent:
			err = assertAbsent(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertMessage(actx *AssertionContext, a Assertion, trace []TraceEvent) error {
	day := actx.Scenario.dayOr(a.Day)
	got, err := actx.Engine.ReconstructMessage(actx.Ctx, a.Base, a.Start, a.End, day,
		engine.ReconstructOptions{Trim: a.Trim})
	if err != nil {
		return err
	}
	if got != a.Expect {
		return &AssertionError{
			Type:     AssertMessage,
			Expected: fmt.Sprintf("%q (base %d, hours %d-%d of %s)", a.Expect, a.Base, a.Start, a.End, day),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertASCIIMessage(actx *AssertionContext, a Assertion, trace []TraceEvent) error {
	day := actx.Scenario.dayOr(a.Day)
	got, err := actx.Engine.ReconstructASCII(actx.Ctx, a.Start, a.End, day,
		engine.ReconstructOptions{Trim: a.Trim})
	if err != nil {
		return err
	}
	if got != a.Expect {
		return &AssertionError{
			Type:     AssertASCIIMessage,
			Expected: fmt.Sprintf("%q (hours %d-%d of %s)", a.Expect, a.Start, a.End, day),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertVerify(actx *AssertionContext, a Assertion) error {
	day := actx.Scenario.dayOr(a.Day)
	ok, err := actx.Engine.Verify(actx.Ctx, a.Hour, day)
	if err != nil {
		return err
	}
	if ok != *a.Valid {
		return &AssertionError{
			Type:     AssertVerify,
			Expected: fmt.Sprintf("verify hour %d of %s = %t", a.Hour, day, *a.Valid),
			Actual:   fmt.Sprintf("%t", ok),
		}
	}
	return nil
}

func assertSymbol(actx *AssertionContext, a Assertion) error {
	day := actx.Scenario.dayOr(a.Day)
	rec, err := actx.Engine.Lookup(actx.Ctx, a.Hour, day)
	if err != nil {
		return err
	}
	if rec == nil {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("symbol %q at hour %d of %s", a.Expect, a.Hour, day),
			Actual:   "no record",
		}
	}
	if rec.Symbol != a.Expect {
		return &AssertionError{
			Type:     AssertSymbol,
			Expected: fmt.Sprintf("symbol %q at hour %d of %s", a.Expect, a.Hour, day),
			Actual:   fmt.Sprintf("%q", rec.Symbol),
		}
	}
	return nil
}

func assertAbsent(actx *AssertionContext, a Assertion) error {
	day := actx.Scenario.dayOr(a.Day)
	rec, err := actx.Engine.Lookup(actx.Ctx, a.Hour, day)
	if err != nil {
		return err
	}
	if rec != nil {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("no record at hour %d of %s", a.Hour, day),
			Actual:   fmt.Sprintf("%s record %q", rec.Kind, rec.Symbol),
		}
	}
	return nil
}
