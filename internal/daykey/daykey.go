package daykey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Layout is the time layout of a calendar day string.
const Layout = "2006-01-02"

// GlobalPrefix selects every signal record in a store.
const GlobalPrefix = "signal:"

// DefaultNamespace is used when a caller does not choose a namespace.
const DefaultNamespace = "default"

// MaxHour is the last hour slot of a day.
const MaxHour = 23

var (
	// ErrInvalidDay indicates a malformed or non-existent calendar day.
	ErrInvalidDay = errors.New("invalid UTC day")

	// ErrDayRequired indicates a key was requested without a day.
	ErrDayRequired = errors.New("UTC day is required for keying (YYYY-MM-DD)")

	// ErrInvalidHour indicates an hour outside [0,23].
	ErrInvalidHour = errors.New("invalid hour")

	// ErrInvalidNamespace indicates an empty namespace or one containing ':'.
	ErrInvalidNamespace = errors.New("invalid namespace")
)

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDay formats t as its UTC calendar day.
func NormalizeDay(t time.Time) string {
	return t.UTC().Format(Layout)
}

// ValidateDay checks that s is a YYYY-MM-DD string naming a real UTC day.
//
// The year, month and day are fed back through the UTC calendar and the
// result must equal s, which rejects "2023-02-30" and "2023-13-01".
func ValidateDay(s string) error {
	if s == "" {
		return ErrDayRequired
	}
	if !dayPattern.MatchString(s) {
		return fmt.Errorf("%w: %q must be in YYYY-MM-DD format", ErrInvalidDay, s)
	}

	// The pattern guarantees three numeric fields.
	parts := strings.Split(s, "-")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	normalized := NormalizeDay(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	if normalized != s {
		return fmt.Errorf("%w: %q is not a calendar day", ErrInvalidDay, s)
	}
	return nil
}

// ValidateHour checks that h is an hour slot in [0,23].
func ValidateHour(h int) error {
	if h < 0 || h > MaxHour {
		return fmt.Errorf("%w: %d must be in [0, %d]", ErrInvalidHour, h, MaxHour)
	}
	return nil
}

// NormalizeNamespace returns the NFC form of ns with surrounding whitespace
// removed. An empty input selects DefaultNamespace.
//
// A namespace may not contain ':' because the separator would let one
// namespace's day prefix match keys of another namespace.
func NormalizeNamespace(ns string) (string, error) {
	ns = strings.TrimSpace(norm.NFC.String(ns))
	if ns == "" {
		return DefaultNamespace, nil
	}
	if strings.ContainsRune(ns, ':') {
		return "", fmt.Errorf("%w: %q must not contain ':'", ErrInvalidNamespace, ns)
	}
	return ns, nil
}

// Key builds the storage key for one hour of one day in a namespace.
func Key(hour int, day, namespace string) (string, error) {
	if day == "" {
		return "", ErrDayRequired
	}
	if err := ValidateHour(hour); err != nil {
		return "", err
	}
	if err := ValidateDay(day); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%s:%02d", GlobalPrefix, day, namespace, hour), nil
}

// DayPrefix returns the prefix covering every hour of day in namespace.
func DayPrefix(day, namespace string) (string, error) {
	if err := ValidateDay(day); err != nil {
		return "", err
	}
	return GlobalPrefix + day + ":" + namespace + ":", nil
}

// RangeEnd returns the exclusive upper bound of the range selected by prefix.
func RangeEnd(prefix string) string {
	return prefix + "\xff"
}

// InRange reports whether key falls in [prefix, RangeEnd(prefix)).
func InRange(key, prefix string) bool {
	return key >= prefix && key < RangeEnd(prefix)
}
