package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shibukawa/carbonparser/tokenizer"
)

// Sentinel errors
var (
	ErrInvalidSyntax   = errors.New("invalid syntax")
	ErrRuleMismatch    = errors.New("input does not match the requested rule")
	ErrDepthExceeded   = errors.New("expression nesting too deep")
	ErrUnsupportedRule = errors.New("rule is not a parse entry point")
)

// ParseError describes why and where a parse failed. Pos points at the
// furthest position any alternative reached before the whole parse gave
// up, Expected is the union of descriptions tried there, and Found is
// the offending text.
type ParseError struct {
	Err      error // sentinel classification for errors.Is
	Pos      tokenizer.Position
	Expected []string
	Found    string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s at line %d, column %d: expected %s, found %s",
		e.Err, e.Pos.Line, e.Pos.Column, joinExpected(e.Expected), e.Found)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 0:
		return "nothing"
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + ", or " + expected[len(expected)-1]
	}
}

// failureTracker implements furthest-failure reporting: every rejected
// token records what was expected there, and only the rightmost
// position survives backtracking.
type failureTracker struct {
	offset   int
	pos      tokenizer.Position
	found    string
	expected []string
}

func newFailureTracker() *failureTracker {
	return &failureTracker{offset: -1}
}

func (t *failureTracker) record(pos tokenizer.Position, found string, expected string) {
	if pos.Offset < t.offset {
		return
	}
	if pos.Offset > t.offset {
		t.offset = pos.Offset
		t.pos = pos
		t.found = found
		t.expected = t.expected[:0]
	}
	if !slices.Contains(t.expected, expected) {
		t.expected = append(t.expected, expected)
	}
}
