package parser

import (
	"github.com/BlackBuck/pcom-go/parser/either"
	state "github.com/BlackBuck/pcom-go/state"
)

// RunImmutable is the slow path: it copies the incoming state.State by
// value before handing it to Run, so the caller's s is never mutated and the
// post-parse state is returned as a distinct value rather than threaded
// in-place. It is not a second combinator implementation - every Parser[T]
// built in this package already works here unmodified, because Run is a
// plain function over *state.State and a copy is just another *state.State.
// On success the two paths are observationally equivalent by construction
// (see driver_test.go's fast/slow property check): same value and same
// resulting offset, differing only in whether the caller's own state.State
// was mutated. On failure RunImmutable returns the error wrapped in a
// ParseErrorBundle together with s itself, not the state the failed run
// reached.
func (p Parser[T]) RunImmutable(s state.State) (either.Result[T, *ParseErrorBundle], state.State) {
	next := s
	res, err := p.Run(&next)
	if err.HasError() {
		return either.Failure[T, *ParseErrorBundle](NewBundle(s.Input, &err)), s
	}
	return either.Success[T, *ParseErrorBundle](res.Value), next
}

// ParseImmutable is RunImmutable's driver entry point, building a fresh
// state.State from input and discarding the final state (callers that need
// it should call RunImmutable directly).
func ParseImmutable[T any](p Parser[T], input string) either.Result[T, *ParseErrorBundle] {
	s := freshState(input)
	result, _ := p.RunImmutable(s)
	return result
}
