package parser

import (
	"fmt"

	state "github.com/BlackBuck/pcom-go/state"
)

// NoProgressError is a non-recoverable runtime-style error (a genuine Go
// panic, not a *Error parse failure) raised when a repetition combinator's
// inner parser succeeds without advancing the offset. It signals a
// programming bug in the grammar, not a malformed input.
type NoProgressError struct {
	Label  string
	Offset int
}

func (e *NoProgressError) Error() string {
	return fmt.Sprintf("parser %q did not advance at offset %d", e.Label, e.Offset)
}

func manyLoop[T any](curState *state.State, label string, p Parser[T], sep *Parser[Unit]) ([]T, *state.State, Error, bool) {
	var results []T
	cur := curState
	first := true
	for {
		cp := cur.Save()
		if sep != nil && !first {
			sres, serr := sep.Run(cur)
			if serr.HasError() {
				if cur.Committed && !cp.Committed {
					return results, cur, serr, false
				}
				cur.Rollback(cp)
				break
			}
			cur = sres.NextState
		}

		elemCp := cur.Save()
		before := cur.Offset
		res, err := p.Run(cur)
		if err.HasError() {
			if cur.Committed && !elemCp.Committed {
				return results, cur, err, false
			}
			// Rewind a consumed separator: a failed element after a
			// successful separator must not leave the separator matched.
			cur.Rollback(cp)
			break
		}
		if res.NextState.Offset == before {
			panic(&NoProgressError{Label: label, Offset: before})
		}
		cur = res.NextState
		results = append(results, res.Value)
		first = false
	}
	return results, cur, Error{}, true
}

// Many0 checks for the presence of a parser zero or more times. It takes no
// separator; SepBy is the separated form. It stops at the first failure of p
// that is not committed and never fails itself (an uncommitted zero-count is
// success).
func Many0[T any](label string, p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, nil)
			if !ok {
				return Result[[]T]{}, err
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

// Many1 is like Many0 but fails if zero successes are found.
func Many1[T any](label string, p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, nil)
			if !ok {
				return Result[[]T]{}, err
			}
			if len(results) > 0 {
				return Result[[]T]{
					Value:     results,
					NextState: cur,
					Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(cur)},
				}, Error{}
			}

			return Result[[]T]{}, Error{
				Kind:     KindCustom,
				Message:  "Many1 parser failed.",
				Expected: fmt.Sprintf("<%s> at least once", p.Label),
				Got:      fmt.Sprintf("<%s> zero times", p.Label),
				Snippet:  state.GetSnippetStringFromCurrentContext(*cur),
				Position: state.NewPositionFromState(cur),
				Context:  cur.LabelStackCopy(),
			}
		},
		Label: label,
	}
}

// ManyN requires at least n successes and returns all of them.
func ManyN[T any](label string, n int, p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, nil)
			if !ok {
				return Result[[]T]{}, err
			}
			if len(results) < n {
				return Result[[]T]{}, Error{
					Kind:     KindCustom,
					Message:  "ManyN parser failed.",
					Expected: fmt.Sprintf("<%s> at least %d times", p.Label, n),
					Got:      fmt.Sprintf("<%s> %d times", p.Label, len(results)),
					Snippet:  state.GetSnippetStringFromCurrentContext(*cur),
					Position: state.NewPositionFromState(cur),
					Context:  cur.LabelStackCopy(),
				}
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

// ManyNExact collects via ManyN semantics but fails Fatal if the final count
// is not exactly n.
func ManyNExact[T any](label string, n int, p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, nil)
			if !ok {
				return Result[[]T]{}, err
			}
			if len(results) != n {
				return Result[[]T]{}, Error{
					Kind:     KindFatal,
					Message:  "ManyNExact parser failed.",
					Expected: fmt.Sprintf("<%s> exactly %d times", p.Label, n),
					Got:      fmt.Sprintf("<%s> %d times", p.Label, len(results)),
					Snippet:  state.GetSnippetStringFromCurrentContext(*cur),
					Position: state.NewPositionFromState(cur),
					Context:  cur.LabelStackCopy(),
				}
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

// Count runs p exactly n times; each failure is terminal (no backtracking
// to a lower count).
func Count[T any](label string, n int, p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results := make([]T, 0, n)
			cur := curState
			for i := 0; i < n; i++ {
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

// SkipMany0 is Many0 but discards the results, yielding Unit.
func SkipMany0[T any](label string, p Parser[T]) Parser[Unit] {
	return Map(label, Many0(label, p), func([]T) Unit { return Unit{} })
}

// SkipMany1 is Many1 but discards the results, yielding Unit.
func SkipMany1[T any](label string, p Parser[T]) Parser[Unit] {
	return Map(label, Many1(label, p), func([]T) Unit { return Unit{} })
}

// SkipManyN is ManyN but discards the results, yielding Unit.
func SkipManyN[T any](label string, n int, p Parser[T]) Parser[Unit] {
	return Map(label, ManyN(label, n, p), func([]T) Unit { return Unit{} })
}

// SepBy matches zero or more p separated by sep. It stops as soon as either
// sep or the following element fails; a failed element after a successful
// separator rewinds the separator, so the separator is never part of the
// match when its element didn't parse.
func SepBy[T, S any](label string, p Parser[T], sep Parser[S]) Parser[[]T] {
	unitSep := Map("", sep, func(S) Unit { return Unit{} })
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, &unitSep)
			if !ok {
				return Result[[]T]{}, err
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

// SepBy1 is SepBy but fails if zero elements were parsed.
func SepBy1[T, S any](label string, p Parser[T], sep Parser[S]) Parser[[]T] {
	unitSep := Map("", sep, func(S) Unit { return Unit{} })
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			results, cur, err, ok := manyLoop(curState, label, p, &unitSep)
			if !ok {
				return Result[[]T]{}, err
			}
			if len(results) > 0 {
				return Result[[]T]{
					Value:     results,
					NextState: cur,
					Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(cur)},
				}, Error{}
			}
			return Result[[]T]{}, Error{
				Kind:     KindCustom,
				Message:  "SepBy1 parser failed.",
				Expected: fmt.Sprintf("<%s> at least once", p.Label),
				Got:      "zero elements",
				Snippet:  state.GetSnippetStringFromCurrentContext(*cur),
				Position: state.NewPositionFromState(cur),
				Context:  cur.LabelStackCopy(),
			}
		},
		Label: label,
	}
}

// SepEndBy is like SepBy but tolerates (and consumes) a trailing separator
// with no following element.
func SepEndBy[T, S any](label string, p Parser[T], sep Parser[S]) Parser[[]T] {
	return Parser[[]T]{
		Run: func(curState *state.State) (Result[[]T], Error) {
			initialPos := state.NewPositionFromState(curState)
			var results []T
			cur := curState
			first := true
			for {
				if !first {
					sepCp := cur.Save()
					sres, serr := sep.Run(cur)
					if serr.HasError() {
						if cur.Committed && !sepCp.Committed {
							return Result[[]T]{}, serr
						}
						cur.Rollback(sepCp)
						break
					}
					cur = sres.NextState
				}

				elemCp := cur.Save()
				before := cur.Offset
				res, err := p.Run(cur)
				if err.HasError() {
					if cur.Committed && !elemCp.Committed {
						return Result[[]T]{}, err
					}
					// trailing separator: rewind to just after it, not
					// before it, since SepEndBy tolerates it.
					cur.Rollback(elemCp)
					break
				}
				if res.NextState.Offset == before {
					panic(&NoProgressError{Label: label, Offset: before})
				}
				cur = res.NextState
				results = append(results, res.Value)
				first = false
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
