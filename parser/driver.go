package parser

import (
	"fmt"

	state "github.com/BlackBuck/pcom-go/state"
)

func freshState(input string) state.State {
	return state.NewState(input, state.Position{Offset: 0, Line: 1, Column: 1})
}

// Parse runs p against input on the fast (mutable, in-place) path and
// returns the final state alongside the value or the accumulated error
// bundle. This is the teacher's existing `p.Run(&s)` call style, wrapped so
// every entry point goes through one function.
func Parse[T any](p Parser[T], input string) (T, *state.State, *ParseErrorBundle) {
	s := freshState(input)
	res, err := p.Run(&s)
	if err.HasError() {
		return res.Value, &s, NewBundle(input, &err)
	}
	return res.Value, &s, nil
}

// ParseFast is an alias for Parse kept for symmetry with ParseOrThrow/
// ParseOrError/RunImmutable - it already IS the fast path, named
// explicitly so callers can contrast it with the immutable driver.
func ParseFast[T any](p Parser[T], input string) (T, *state.State, *ParseErrorBundle) {
	return Parse(p, input)
}

// ParseOrError runs p and converts a failure into the stdlib error
// interface, via ParseErrorBundle's own Error() method.
func ParseOrError[T any](p Parser[T], input string) (T, error) {
	value, _, bundle := Parse(p, input)
	if bundle.HasError() {
		return value, bundle
	}
	return value, nil
}

// ParseOrThrow runs p and panics with the formatted error trace on failure -
// "throw" in Go terms, for callers (tests, REPLs, main packages) that would
// rather crash loudly than thread an error return through.
func ParseOrThrow[T any](p Parser[T], input string) T {
	value, err := ParseOrError(p, input)
	if err != nil {
		panic(fmt.Sprintf("parser: ParseOrThrow failed:\n%s", err.Error()))
	}
	return value
}
