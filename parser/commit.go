package parser

import (
	"fmt"

	state "github.com/BlackBuck/pcom-go/state"
)

// Or performs a logical OR operation between the input parsers: it returns,
// lazily, the Result after the first alternative succeeds.
//
// Commit discipline (spec §4.6): before trying each alternative the state is
// snapshotted. If an alternative fails and it set Committed during its own
// attempt, Or stops trying further alternatives and propagates that failure
// instead of accumulating and falling through - this is the "cut" behavior.
// Otherwise the alternative's error is accumulated into the bundle and the
// state is rolled back before the next alternative runs.
func Or[T any](label string, parsers ...Parser[T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			var lastErr Error
			bundle := &ParseErrorBundle{Source: curState.Input}
			for _, p := range parsers {
				cp := curState.Save()
				res, err := p.Run(curState)
				if !err.HasError() {
					return res, Error{}
				}

				bundle.Add(&err)
				lastErr = err

				if err.IsFatal() {
					curState.Rollback(cp)
					return Result[T]{}, lastErr
				}

				if curState.Committed && !cp.Committed {
					// The alternative committed before failing: stop trying
					// further alternatives and propagate its failure. Offset
					// is left at the furthest point reached (for
					// furthest-failure reporting); only the label stack is
					// unwound to the depth active before this alternative.
					curState.LabelStack = curState.LabelStack[:cp.LabelDepth]
					return Result[T]{}, lastErr
				}

				curState.Rollback(cp)
			}

			primary := bundle.Primary()
			if primary == nil {
				primary = &lastErr
			}
			return Result[T]{}, Error{
				Kind:     primary.Kind,
				Message:  "Or combinator failed",
				Expected: primary.Expected,
				Got:      primary.Got,
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: primary.Position,
				Context:  primary.Context,
				Hints:    primary.Hints,
				Cause:    primary,
			}
		},
		Label: label,
	}
}

// Choice is the variadic form of Or.
func Choice[T any](label string, parsers ...Parser[T]) Parser[T] {
	return Or(label, parsers...)
}

// Or is the fluent two-alternative form of the free Or function.
func (p Parser[T]) Or(alt Parser[T]) Parser[T] {
	return Or(p.Label, p, alt)
}

// Optional runs p; on success it returns Some(value) and the advanced
// state - Optional only hides a failure, it does not hide the progress made
// by a successful inner parser. On an uncommitted, non-Fatal failure it
// returns None at the original offset. A committed failure or a Fatal error
// propagates.
func Optional[T any](p Parser[T]) Parser[Option[T]] {
	return Parser[Option[T]]{
		Run: func(curState *state.State) (Result[Option[T]], Error) {
			cp := curState.Save()
			res, err := p.Run(curState)
			if err.HasError() {
				if err.IsFatal() || (curState.Committed && !cp.Committed) {
					return Result[Option[T]]{}, err
				}
				curState.Rollback(cp)
				return Result[Option[T]]{
					Value:     None[T](),
					NextState: curState,
					Span:      state.Span{Start: cp.Pos, End: cp.Pos},
				}, Error{}
			}

			return Result[Option[T]]{
				Value:     Some(res.Value),
				NextState: res.NextState,
				Span:      res.Span,
			}, Error{}
		},
		Label: fmt.Sprintf("optional <%s>", p.Label),
	}
}

// Optional is the fluent form of the free Optional function.
func (p Parser[T]) Optional() Parser[Option[T]] {
	return Optional(p)
}

// Atomic runs p; on failure it rolls back position, the Committed flag, and
// the label stack depth to exactly what they were before the attempt - it
// intentionally absorbs any commit made inside p. Errors recorded during the
// attempt still contribute to the furthest-failure tracker via the returned
// Error itself (the caller, e.g. Or, still sees and accumulates it).
func Atomic[T any](p Parser[T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			cp := curState.Save()
			res, err := p.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[T]{}, err
			}
			return res, Error{}
		},
		Label: fmt.Sprintf("atomic <%s>", p.Label),
	}
}

// Atomic is the fluent form of the free Atomic function.
func (p Parser[T]) Atomic() Parser[T] {
	return Atomic(p)
}

// Commit sets Committed = true in the downstream state on success. On
// failure it is the identity (nothing to commit).
func Commit[T any](p Parser[T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return res, err
			}
			res.NextState.Committed = true
			return res, Error{}
		},
		Label: p.Label,
	}
}

// Commit is the fluent form of the free Commit function.
func (p Parser[T]) Commit() Parser[T] {
	return Commit(p)
}

// Cut is an alias for Commit.
func Cut[T any](p Parser[T]) Parser[T] { return Commit(p) }

// Cut is the fluent alias of Commit.
func (p Parser[T]) Cut() Parser[T] { return Commit(p) }

// CommitMarker is a zero-width parser that always succeeds and sets
// Committed = true, for use inside Sequence - spec scenario 4:
// Sequence([keyword("if"), commit(), char('(').Expect(...)]).
func CommitMarker() Parser[Unit] {
	return Parser[Unit]{
		Run: func(curState *state.State) (Result[Unit], Error) {
			curState.Committed = true
			return Result[Unit]{
				Value:     Unit{},
				NextState: curState,
				Span:      state.Span{Start: state.NewPositionFromState(curState), End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: "commit",
	}
}

// Label pushes name onto the active label stack for the duration of p's
// execution, popping it regardless of outcome. Any error recorded BY p
// carries the label stack snapshot active at record time (see
// state.LabelStackCopy, called from each primitive).
func Label[T any](name string, p Parser[T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			depth := len(curState.LabelStack)
			curState.PushLabel(name)
			res, err := p.Run(curState)
			curState.PopLabel(depth)
			return res, err
		},
		Label: p.Label,
	}
}

// WithLabel is the fluent form of the free Label function (named
// differently because Parser[T] already has a Label field).
func (p Parser[T]) WithLabel(name string) Parser[T] {
	return Label(name, p)
}

// Expect is equivalent to Label(description) plus a rewrite of any
// resulting error so its primary message reads "Expected <description>".
func Expect[T any](description string, p Parser[T]) Parser[T] {
	labeled := Label(description, p)
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			res, err := labeled.Run(curState)
			if err.HasError() {
				err.Message = fmt.Sprintf("Expected %s", description)
				err.Expected = description
				return Result[T]{}, err
			}
			return res, Error{}
		},
		Label: p.Label,
	}
}

// Expect is the fluent form of the free Expect function.
func (p Parser[T]) Expect(description string) Parser[T] {
	return Expect(description, p)
}

// MapErr rewrites the error returned by p through f, leaving success
// untouched.
func MapErr[T any](p Parser[T], f func(Error) Error) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return Result[T]{}, f(err)
			}
			return res, Error{}
		},
		Label: p.Label,
	}
}

// MapErr is the fluent form of the free MapErr function.
func (p Parser[T]) MapErr(f func(Error) Error) Parser[T] {
	return MapErr(p, f)
}
