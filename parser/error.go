package parser

import (
	"fmt"
	"strings"

	state "github.com/BlackBuck/pcom-go/state"
	"github.com/fatih/color"
)

// ErrorKind distinguishes the four failure shapes a combinator can record.
// Expected/Unexpected are interchangeable in practice (both describe a
// mismatch); Custom is a domain author's explicit failure; Fatal is the only
// kind that short-circuits Or/Optional/Atomic.
type ErrorKind int

const (
	KindExpected ErrorKind = iota
	KindUnexpected
	KindCustom
	KindFatal
)

// Error represents an error that occurred during parsing.
// It contains a message, expected value, got value, snippet of the input string, and
// the position in the input string where the error occurred.
// It also has a cause field to chain errors together.
type Error struct {
	Kind     ErrorKind
	Message  string
	Expected string
	Got      string
	Snippet  string
	Position state.Position
	// Context is the label stack active when this error was recorded, e.g.
	// ["expression", "if statement", "condition"].
	Context []string
	// Hints holds edit-distance suggestions computed by the hint engine.
	Hints []string
	Cause *Error
}

// HasError checks if the error has a message.
func (e *Error) HasError() bool {
	return e != nil && e.Message != ""
}

// IsFatal reports whether this error is a Fatal variant, which must not be
// swallowed by Or, Optional, or a plain (non-absorbing) Atomic.
func (e *Error) IsFatal() bool {
	return e != nil && e.Kind == KindFatal
}

// Error implements the standard library error interface so a *Error can be
// returned from ParseOrError and composed with errors.Is/errors.As.
func (e *Error) Error() string {
	return e.FullTrace()
}

// String returns a string representation of the error.
// It includes the full trace of the error, which is useful for debugging.
func (e *Error) String() string {
	res := ""
	if e.HasError() {
		res += e.FullTrace()
	}

	return res
}

// FullTrace returns the full trace of the error, including the message, position, expected and got values, and the snippet.
// It formats the error in a way that is easy to read and understand.
// It also includes the cause of the error if it exists.
func (e *Error) FullTrace() string {
	trace := ""
	current := e
	for current != nil {
		trace += fmt.Sprintf(
			"%s\nAt: %s\n%s\n%s\t%s",
			color.HiRedString(current.Message),
			color.HiRedString(fmt.Sprintf("Line %d, Column %d, Offset %d", current.Position.Line, current.Position.Column, current.Position.Offset)),
			color.HiWhiteString(current.FormattedSnippet()),
			color.HiGreenString(fmt.Sprintf("Expected: %s", current.Expected)),
			color.HiRedString(fmt.Sprintf("Got: %s", current.Got)),
		)
		if len(current.Hints) > 0 {
			trace += "\n" + color.HiYellowString("Did you mean: "+strings.Join(current.Hints, ", ")+"?")
		}
		if len(current.Context) > 0 {
			trace += "\n" + color.HiCyanString("Context: "+strings.Join(current.Context, " > "))
		}
		current = current.Cause
	}

	return trace
}

// FormattedSnippet returns a formatted snippet of the input string where the error occurred.
// It highlights the position of the error with a caret (^) below the snippet.
// This is useful for pinpointing the exact location of the error in the input string.
func (e *Error) FormattedSnippet() string {
	res := fmt.Sprintf("%d| %s", e.Position.Line, e.Snippet)
	res += "\n"
	for range e.Position.Column + 2 {
		res += " "
	}
	res += "^ "

	return res
}
