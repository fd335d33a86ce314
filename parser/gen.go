package parser

import (
	"fmt"

	state "github.com/BlackBuck/pcom-go/state"
)

// Yield runs a sub-parser against a Gen invocation's shared state, returning
// its value. Go has no coroutines to pause f mid-function the way a real
// generator would, so failure is signalled by unwinding: a failing p aborts
// the rest of f via panic/recover rather than returning an error value Yield
// callers would have to check by hand.
type Yield func(p Parser[any]) any

// genAbort is the sentinel panic value Gen's Run recovers; any other panic
// propagates untouched.
type genAbort struct{ err Error }

// YieldOf adapts a typed sub-parser to Yield's Parser[any] signature and
// type-asserts the result back, so generator bodies can write
// YieldOf(y, someParser) instead of juggling `any` at every call site.
func YieldOf[T any](y Yield, p Parser[T]) T {
	// Adapted by hand rather than through Map, which would roll a failed
	// step back; a failing step must leave the state where p left it.
	v := y(Parser[any]{
		Run: func(curState *state.State) (Result[any], Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return Result[any]{}, err
			}
			return Result[any]{Value: res.Value, NextState: res.NextState, Span: res.Span}, Error{}
		},
		Label: p.Label,
	})
	out, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("parser: Gen type mismatch for %q", p.Label))
	}
	return out
}

// Gen builds a Parser out of a generator-style function: f receives a Yield
// that threads a single shared state across however many sub-parsers it
// calls, short-circuiting the whole generator the instant one of them fails.
// This is sequencing sugar over chained FlatMap calls - it exists for rules
// that need several intermediate values in scope at once, which nested
// FlatMap closures make awkward to read. Gen(label, f) is always equivalent
// to the matching chain of FlatMap calls; see gen_test.go.
func Gen[T any](label string, f func(y Yield) T) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (result Result[T], err Error) {
			initialPos := state.NewPositionFromState(curState)
			y := func(p Parser[any]) any {
				res, perr := p.Run(curState)
				if perr.HasError() {
					panic(genAbort{err: perr})
				}
				return res.Value
			}

			// No rollback on failure, matching FlatMap's documented
			// contract (Gen is equivalence-tested against chained
			// FlatMap calls): the caller wraps in Atomic/Try if it wants
			// the attempt to leave no trace.
			defer func() {
				if r := recover(); r != nil {
					abort, ok := r.(genAbort)
					if !ok {
						panic(r)
					}
					result = Result[T]{}
					err = abort.err
				}
			}()

			value := f(y)
			return Result[T]{
				Value:     value,
				NextState: curState,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: label,
	}
}
