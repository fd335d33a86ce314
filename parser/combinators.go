package parser

import (
	state "github.com/BlackBuck/pcom-go/state"
)

// Sequence runs parsers in order, threading state: the first failure aborts
// and later parsers do not run. On success it yields every value in order.
// Unlike Zip/Then (which pair two possibly-different types), Sequence
// requires a single element type T - the common shape for a grammar rule
// built from a homogeneous list of sub-rules (e.g. a run of statements).
func Sequence[T any](label string, parsers ...Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results := make([]T, 0, len(parsers))
			cur := curState
			for _, p := range parsers {
				res, err := p.Run(cur)
				if err.HasError() {
					return Result[[]T]{}, err
				}
				cur = res.NextState
				results = append(results, res.Value)
			}
			return Result[[]T]{
				Value:     results,
				NextState: cur,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(cur)},
			}, Error{}
		},
		Label: label,
	}
}

// And performs a logical AND between parsers that must all match starting
// at the same offset: every alternative is tried from - and rolled back to -
// the same starting position, including the last one on success, so And
// never itself advances the input. It checks "does content here satisfy
// every one of these parsers" rather than consuming them one after another.
// The returned value is the last alternative's own parsed value; the state
// is left exactly where it started. Grounded directly on the teacher's And
// combinator (parser/parser.go), which rolls the state back after every
// alternative, successful or not, for exactly this reason.
func And[T any](label string, parsers ...Parser[T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			var lastRes Result[T]
			for _, p := range parsers {
				cp := curState.Save()
				res, err := p.Run(curState)
				if err.HasError() {
					curState.Rollback(cp)
					return Result[T]{}, Error{
						Kind:     err.Kind,
						Message:  "And combinator failed.",
						Expected: err.Expected,
						Got:      err.Got,
						Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
						Position: err.Position,
						Context:  err.Context,
						Cause:    &err,
					}
				}
				curState.Rollback(cp)
				lastRes = res
			}
			return lastRes, Error{}
		},
		Label: label,
	}
}

// Between parses open, then content, then close, yielding content's value.
// close is wrapped with Expect("closing delimiter") so a missing close
// produces a targeted error rather than a generic "expected )"-shaped one.
func Between[L, C, R any](label string, open Parser[L], content Parser[C], closeP Parser[R]) Parser[C] {
	wrappedClose := Expect("closing delimiter", closeP)
	return Parser[C]{
		Run: func(curState *state.State) (Result[C], Error) {
			cp := curState.Save()
			openRes, err := open.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[C]{}, err
			}

			contentRes, err := content.Run(openRes.NextState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[C]{}, err
			}

			closeRes, err := wrappedClose.Run(contentRes.NextState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[C]{}, err
			}

			return Result[C]{
				Value:     contentRes.Value,
				NextState: closeRes.NextState,
				Span:      state.Span{Start: cp.Pos, End: state.NewPositionFromState(closeRes.NextState)},
			}, Error{}
		},
		Label: label,
	}
}
