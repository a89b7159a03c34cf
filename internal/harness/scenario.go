package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/onoff/internal/daykey"
)

// Scenario is one self-contained run: a list of write steps followed by
// assertions on what the engine then reads back.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Namespace is the engine namespace. Empty means "default".
	Namespace string `yaml:"namespace,omitempty"`

	// Day is the UTC day steps and assertions use unless they override it.
	Day string `yaml:"day"`

	// Now is the RFC 3339 instant of the fixed clock. Empty means noon of Day.
	Now string `yaml:"now,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine write.
type Step struct {
	// Op is one of record, record_ascii, clear, clear_all.
	Op string `yaml:"op"`

	Base int    `yaml:"base,omitempty"`
	Hour int    `yaml:"hour,omitempty"`
	Day  string `yaml:"day,omitempty"`

	// Count records a single hour; Counts records consecutive hours
	// starting at Hour. Exactly one is used by record.
	Count  *int64  `yaml:"count,omitempty"`
	Counts []int64 `yaml:"counts,omitempty"`

	Clones int64 `yaml:"clones,omitempty"`
	Views  int64 `yaml:"views,omitempty"`

	// ExpectError, when set, requires the step to fail with an error
	// containing this text.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion checks engine state after all steps ran.
type Assertion struct {
	Type string `yaml:"type"`

	Base  int    `yaml:"base,omitempty"`
	Start int    `yaml:"start,omitempty"`
	End   int    `yaml:"end,omitempty"`
	Hour  int    `yaml:"hour,omitempty"`
	Day   string `yaml:"day,omitempty"`
	Trim  bool   `yaml:"trim,omitempty"`

	// Expect is the expected message (message, ascii_message) or symbol.
	Expect string `yaml:"expect,omitempty"`

	// Valid is the expected Verify outcome (verify).
	Valid *bool `yaml:"valid,omitempty"`
}

// Step operations.
const (
	OpRecord      = "record"
	OpRecordASCII = "record_ascii"
	OpClear       = "clear"
	OpClearAll    = "clear_all"
)

// Assertion type constants.
const (
	AssertMessage      = "message"
	AssertASCIIMessage = "ascii_message"
	AssertVerify       = "verify"
	AssertSymbol       = "symbol"
	AssertAbsent       = "absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Engine-level validation (hour range, base range) is left to the engine so
// scenarios can assert on it through expect_error.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := daykey.ValidateDay(s.Day); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	if s.Now != "" {
		if _, err := time.Parse(time.RFC3339, s.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpRecord:
		if st.Count == nil && len(st.Counts) == 0 {
			return fmt.Errorf("steps[%d]: record needs count or counts", index)
		}
		if st.Count != nil && len(st.Counts) > 0 {
			return fmt.Errorf("steps[%d]: record takes count or counts, not both", index)
		}
	case OpRecordASCII, OpClear, OpClearAll:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertMessage:
		if a.Base == 0 {
			return fmt.Errorf("assertions[%d]: base is required for message", index)
		}
	case AssertASCIIMessage, AssertSymbol, AssertAbsent:
	case AssertVerify:
		if a.Valid == nil {
			return fmt.Errorf("assertions[%d]: valid is required for verify", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// dayOr returns override when set, else the scenario day.
func (s *Scenario) dayOr(override string) string {
	if override != "" {
		return override
	}
	return s.Day
}
