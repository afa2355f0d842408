package model

import (
	"fmt"
	"strings"
)

// Outcome is the judged result of a comparison between side A and side B.
type Outcome uint8

// Outcome values. The zero value is invalid.
const (
	OutcomeUnknown Outcome = iota
	OutcomeA
	OutcomeB
	OutcomeDraw
)

// Result is one side's view of an outcome.
type Result uint8

// Per-side results.
const (
	Loss Result = iota
	Draw
	Win
)

// ParseOutcome maps a wire code ("A", "B" or "D") to an Outcome.
func ParseOutcome(code string) (Outcome, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "A":
		return OutcomeA, nil
	case "B":
		return OutcomeB, nil
	case "D":
		return OutcomeDraw, nil
	}
	return OutcomeUnknown, fmt.Errorf("%w: %q", ErrInvalidOutcome, code)
}

// Valid reports whether o is one of A, B or draw.
func (o Outcome) Valid() bool {
	return o == OutcomeA || o == OutcomeB || o == OutcomeDraw
}

// String returns the wire code.
func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "A"
	case OutcomeB:
		return "B"
	case OutcomeDraw:
		return "D"
	}
	return "?"
}

// Label is the lower-case name used for metric labels.
func (o Outcome) Label() string {
	switch o {
	case OutcomeA:
		return "a"
	case OutcomeB:
		return "b"
	case OutcomeDraw:
		return "draw"
	}
	return "unknown"
}

// Results splits the outcome into the result for side A and side B.
func (o Outcome) Results() (a, b Result) {
	switch o {
	case OutcomeA:
		return Win, Loss
	case OutcomeB:
		return Loss, Win
	default:
		return Draw, Draw
	}
}

// Score is the actual score credited for a result: 1, 0.5 or 0.
func (r Result) Score() float64 {
	switch r {
	case Win:
		return 1
	case Draw:
		return 0.5
	}
	return 0
}

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Draw:
		return "draw"
	}
	return "loss"
}
