package parser

import (
	"fmt"

	state "github.com/BlackBuck/pcom-go/state"
)

// Unit is the empty value returned by parsers that succeed but carry no
// interesting payload (EOF, skip-combinators, commit markers).
type Unit struct{}

// Pair bundles the results of two sequenced parsers.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Option is the result of Optional: Some(value) on success, None on an
// uncommitted failure.
type Option[T any] struct {
	value T
	ok    bool
}

// Some builds a populated Option.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None builds an empty Option.
func None[T any]() Option[T] { return Option[T]{} }

// IsSome reports whether the Option carries a value.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether the Option is empty.
func (o Option[T]) IsNone() bool { return !o.ok }

// Get returns the carried value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// OrElse returns the carried value, or fallback if the Option is empty.
func (o Option[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// Result stores the result of a parser.
// `Value` depends on the type of the parser.
// `NextState` stores the state after the parser has done its work.
// `Span` determines the start and end position of the result in the Input.
type Result[T any] struct {
	Value     T
	NextState *state.State
	Span      state.Span
}

// Parser carries the single mutable-context runner every combinator in this
// package is built from. There is no separate "slow path" type: the
// immutable/Either-based driver (see immutable.go) gets its independence by
// copying the state.State by value once before the run, not by duplicating
// every combinator body.
type Parser[T any] struct {
	Run   func(curState *state.State) (result Result[T], error Error)
	Label string
}

func NewResult[T any](value T, nextState *state.State, span state.Span) Result[T] {
	return Result[T]{value, nextState, span}
}

// RuneParser parses a single rune.
// It returns an EOF error if entire input had been parsed earlier.
// If it matches the input rune successfully, it returns it with the `Result` else returns an Error.
func RuneParser(label string, c rune) Parser[rune] {
	return Parser[rune]{
		Run: func(curState *state.State) (Result[rune], Error) {
			if !curState.InBounds(curState.Offset) {
				return Result[rune]{}, Error{
					Kind:     KindUnexpected,
					Message:  "Reached the end of file while parsing",
					Expected: string(c),
					Got:      "EOF",
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}
			if curState.Input[curState.Offset] == byte(c) {
				prev := curState.Save()
				curState.Consume(1)
				return NewResult(
					c,
					curState,
					state.Span{
						Start: prev.Pos,
						End:   state.NewPositionFromState(curState),
					}), Error{}
			}

			return Result[rune]{}, Error{
				Kind:     KindExpected,
				Message:  fmt.Sprintf("Failed to parse %s", label),
				Expected: string(c),
				Got:      string(curState.Input[curState.Offset]),
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: state.NewPositionFromState(curState),
				Context:  curState.LabelStackCopy(),
			}
		},
		Label: label,
	}
}

// StringParser parses a string(case-sensitive).
func StringParser(label string, s string) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			if !curState.InBounds(curState.Offset + len(s) - 1) {
				return Result[string]{}, Error{
					Kind:     KindUnexpected,
					Message:  "Reached the end of file while parsing",
					Expected: s,
					Got:      "EOF",
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}

			if curState.Input[curState.Offset:curState.Offset+len(s)] != s {
				return Result[string]{}, Error{
					Kind:     KindExpected,
					Message:  "Strings do not match.",
					Expected: s,
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Got:      curState.Input[curState.Offset : curState.Offset+len(s)],
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}

			prev := curState.Save()
			curState.Consume(len(s))
			return NewResult(
				s,
				curState,
				state.Span{
					Start: prev.Pos,
					End:   state.NewPositionFromState(curState),
				}), Error{}

		},
		Label: label,
	}
}

// Map parses the output of one parser(p1) to a function.
func Map[A, B any](label string, p1 Parser[A], f func(A) B) Parser[B] {
	return Parser[B]{
		Run: func(curState *state.State) (result Result[B], error Error) {
			cp := curState.Save()
			res, err := p1.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[B]{}, err
			}

			return Result[B]{
				Value:     f(res.Value),
				NextState: res.NextState,
				Span: state.Span{
					Start: cp.Pos,
					End:   state.NewPositionFromState(res.NextState),
				},
			}, Error{}
		},
		Label: label,
	}
}

// FlatMap runs p; on success calls f(value) to obtain the next parser and
// runs it from the resulting state. Failure in either phase propagates
// without rollback (the caller decides whether to wrap in Atomic/Try).
func FlatMap[A, B any](label string, p Parser[A], f func(A) Parser[B]) Parser[B] {
	return Parser[B]{
		Run: func(curState *state.State) (Result[B], Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return Result[B]{}, err
			}

			return f(res.Value).Run(res.NextState)
		},
		Label: label,
	}
}

// Zip runs p1 then p2 and yields the pair of both values. Both must succeed.
func Zip[A, B any](label string, p1 Parser[A], p2 Parser[B]) Parser[Pair[A, B]] {
	return Parser[Pair[A, B]]{
		Run: func(curState *state.State) (result Result[Pair[A, B]], error Error) {
			cp := curState.Save()
			leftRes, err := p1.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[Pair[A, B]]{}, err
			}

			rightRes, err := p2.Run(leftRes.NextState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[Pair[A, B]]{}, err
			}

			return Result[Pair[A, B]]{
				Value:     Pair[A, B]{leftRes.Value, rightRes.Value},
				NextState: rightRes.NextState,
				Span: state.Span{
					Start: cp.Pos,
					End:   state.NewPositionFromState(rightRes.NextState),
				},
			}, Error{}
		},
		Label: label,
	}
}

// Then is an alias for Zip kept for readability at call sites that sequence
// two parsers and want both values (spec: zip).
func Then[A, B any](label string, p1 Parser[A], p2 Parser[B]) Parser[Pair[A, B]] {
	return Zip(label, p1, p2)
}

// ThenDiscard runs p1 then p2, keeping only p1's value (spec: then,
// discarding the right value).
func ThenDiscard[A, B any](label string, p1 Parser[A], p2 Parser[B]) Parser[A] {
	return KeepLeft(label, Zip("", p1, p2))
}

// ThenKeepRight runs p1 then p2, keeping only p2's value (spec: thenDiscard,
// discarding the left value).
func ThenKeepRight[A, B any](label string, p1 Parser[A], p2 Parser[B]) Parser[B] {
	return KeepRight(label, Zip("", p1, p2))
}

// KeepLeft is used to keep the result of the Left parser and discard the Right part.
func KeepLeft[A, B any](label string, p Parser[Pair[A, B]]) Parser[A] {
	return Parser[A]{
		Run: func(curState *state.State) (result Result[A], error Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return Result[A]{}, err
			}

			return Result[A]{
				Value:     res.Value.Left,
				NextState: res.NextState,
				Span:      res.Span,
			}, Error{}
		},
		Label: label,
	}
}

// KeepRight is used to keep the result of the Right parser and discard the Left part.
func KeepRight[A, B any](label string, p Parser[Pair[A, B]]) Parser[B] {
	return Parser[B]{
		Run: func(curState *state.State) (result Result[B], error Error) {
			res, err := p.Run(curState)
			if err.HasError() {
				return Result[B]{}, err
			}

			return Result[B]{
				Value:     res.Value.Right,
				NextState: res.NextState,
				Span:      res.Span,
			}, Error{}
		},
		Label: label,
	}
}

// Lazy parser is used to lazily parse a parser.
// Useful for indirect (non-left) recursion.
func Lazy[T any](label string, f func() Parser[T]) Parser[T] {
	var p Parser[T]
	var built bool

	return Parser[T]{
		Run: func(curState *state.State) (Result[T], Error) {
			if !built {
				p = f()
				built = true
			}
			return p.Run(curState)
		},
		Label: label,
	}
}

// Chainl1 parses one or more p values separated by op, and folds them left-associatively.
func Chainl1[T any](label string, p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (result Result[T], error Error) {
			cp := curState.Save()
			left, err := p.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[T]{}, err
			}

			acc := left.Value
			cur := left.NextState
			for {
				opCp := cur.Save()
				f, err := op.Run(cur)
				if err.HasError() {
					cur.Rollback(opCp)
					break
				}

				right, err := p.Run(f.NextState)
				if err.HasError() {
					cur.Rollback(opCp)
					break
				}
				acc = f.Value(acc, right.Value)
				cur = right.NextState
			}

			return Result[T]{
				Value:     acc,
				NextState: cur,
				Span: state.Span{
					Start: cp.Pos,
					End:   state.NewPositionFromState(cur),
				},
			}, Error{}
		},
		Label: label,
	}
}

// Chainr1 parses one or more p values separated by op, and folds them right-associatively.
func Chainr1[T any](label string, p Parser[T], op Parser[func(T, T) T]) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (result Result[T], error Error) {
			var vals []T
			var fs []func(T, T) T
			cp := curState.Save()
			leftVal, err := p.Run(curState)
			if err.HasError() {
				curState.Rollback(cp)
				return Result[T]{}, err
			}

			vals = append(vals, leftVal.Value)
			cur := leftVal.NextState
			for {
				opCp := cur.Save()
				f, err := op.Run(cur)
				if err.HasError() {
					cur.Rollback(opCp)
					break
				}

				rightVal, err := p.Run(f.NextState)
				if err.HasError() {
					cur.Rollback(opCp)
					break
				}
				fs = append(fs, f.Value)
				vals = append(vals, rightVal.Value)
				cur = rightVal.NextState
			}

			for len(vals) > 1 {
				a := vals[len(vals)-1]
				b := vals[len(vals)-2]
				f := fs[len(fs)-1]
				fs = fs[:len(fs)-1]
				vals = vals[:len(vals)-2]
				vals = append(vals, f(b, a))
			}

			return Result[T]{
				Value:     vals[0],
				NextState: cur,
				Span: state.Span{
					Start: cp.Pos,
					End:   state.NewPositionFromState(cur),
				},
			}, Error{}
		},
		Label: label,
	}
}
