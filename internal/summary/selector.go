// Package summary implements the summarization pipeline: window selection,
// prompt rendering, and orchestration of the store and the AI client.
package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSelector indicates a window selector outside the supported grammar.
// Callers should reply with a usage hint; the store is never queried.
var ErrInvalidSelector = errors.New("invalid window selector")

// DefaultMaxCount is the largest count-based window honored when no limit is
// configured. Larger requests are clamped, not rejected.
const DefaultMaxCount = 10000

// Mode distinguishes the two ways a window can be selected.
type Mode int

const (
	// ByDuration selects all messages received within a trailing duration.
	ByDuration Mode = iota
	// ByCount selects the most recent N messages.
	ByCount
)

// Unit is the time unit of a duration selector.
type Unit int

const (
	Hours Unit = iota
	Days
	Weeks
)

func (u Unit) word() string {
	switch u {
	case Days:
		return "day"
	case Weeks:
		return "week"
	default:
		return "hour"
	}
}

// span returns the length of one unit.
func (u Unit) span() time.Duration {
	switch u {
	case Days:
		return 24 * time.Hour
	case Weeks:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// Selector is the typed form of a user-supplied window request, parsed and
// validated before any store interaction.
type Selector struct {
	Mode      Mode
	Magnitude int  // duration magnitude, valid when Mode == ByDuration
	Unit      Unit // duration unit, valid when Mode == ByDuration
	Count     int  // message count, valid when Mode == ByCount
}

// Duration converts a ByDuration selector into a concrete time.Duration.
// ParseSelector bounds the magnitude, so the product cannot overflow.
func (s Selector) Duration() time.Duration {
	return time.Duration(s.Magnitude) * s.Unit.span()
}

// String returns the human-readable window description used in replies,
// e.g. "last 12 hours" or "last 50 messages".
func (s Selector) String() string {
	if s.Mode == ByCount {
		return fmt.Sprintf("last %d %s", s.Count, pluralize("message", s.Count))
	}
	return fmt.Sprintf("last %d %s", s.Magnitude, pluralize(s.Unit.word(), s.Magnitude))
}

// ParseSelector parses a raw selector string into its typed form. The grammar
// is closed: "<N>hr", "<N>day", "<N>week" (plural unit forms accepted), or
// "last <N>". N must be a positive integer. Counts above maxCount are clamped;
// maxCount <= 0 falls back to DefaultMaxCount. Duration magnitudes that would
// not fit in a time.Duration are rejected. Anything else fails with
// ErrInvalidSelector.
func ParseSelector(raw string, maxCount int) (Selector, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}

	fields := strings.Fields(strings.ToLower(raw))
	switch len(fields) {
	case 1:
		return parseDurationSelector(fields[0])

	case 2:
		if fields[0] != "last" {
			return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return Selector{}, fmt.Errorf("%w: count must be a positive integer, got %q", ErrInvalidSelector, fields[1])
		}
		if n > maxCount {
			n = maxCount
		}
		return Selector{Mode: ByCount, Count: n}, nil

	default:
		return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
	}
}

func parseDurationSelector(token string) (Selector, error) {
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 || i == len(token) {
		return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, token)
	}

	n, err := strconv.Atoi(token[:i])
	if err != nil || n <= 0 {
		return Selector{}, fmt.Errorf("%w: magnitude must be a positive integer, got %q", ErrInvalidSelector, token[:i])
	}

	var unit Unit
	switch token[i:] {
	case "hr", "hrs":
		unit = Hours
	case "day", "days":
		unit = Days
	case "week", "weeks":
		unit = Weeks
	default:
		return Selector{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidSelector, token[i:])
	}

	if int64(n) > math.MaxInt64/int64(unit.span()) {
		return Selector{}, fmt.Errorf("%w: window %q is too large", ErrInvalidSelector, token)
	}

	return Selector{Mode: ByDuration, Magnitude: n, Unit: unit}, nil
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
