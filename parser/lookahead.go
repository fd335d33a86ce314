package parser

import (
	"fmt"
	"unicode/utf8"

	state "github.com/BlackBuck/pcom-go/state"
)

// Lookahead runs p and returns its value without advancing the state,
// regardless of whether p succeeded or failed. A failure is NOT recorded as
// a furthest failure (the caller only learns about it through the zero
// Error{} this function itself returns on failure - err.HasError() is
// false, matching spec's "on failure returns None WITHOUT recording it").
func Lookahead[T any](p Parser[T]) Parser[Option[T]] {
	return Parser[Option[T]]{
		Run: func(curState *state.State) (Result[Option[T]], Error) {
			cp := curState.Save()
			res, err := p.Run(curState)
			curState.Rollback(cp)
			if err.HasError() {
				return Result[Option[T]]{
					Value:     None[T](),
					NextState: curState,
					Span:      state.Span{Start: cp.Pos, End: cp.Pos},
				}, Error{}
			}
			return Result[Option[T]]{
				Value:     Some(res.Value),
				NextState: curState,
				Span:      state.Span{Start: cp.Pos, End: cp.Pos},
			}, Error{}
		},
		Label: fmt.Sprintf("lookahead <%s>", p.Label),
	}
}

// NotFollowedBy runs p from the current offset without consuming input; if
// p succeeds it fails with a targeted error, if p fails it succeeds with
// Unit and leaves the offset untouched.
func NotFollowedBy[T any](p Parser[T]) Parser[Unit] {
	return Parser[Unit]{
		Run: func(curState *state.State) (Result[Unit], Error) {
			cp := curState.Save()
			_, err := p.Run(curState)
			curState.Rollback(cp)
			if !err.HasError() {
				return Result[Unit]{}, Error{
					Kind:     KindUnexpected,
					Message:  fmt.Sprintf("Did not expect <%s> here.", p.Label),
					Expected: fmt.Sprintf("not <%s>", p.Label),
					Got:      p.Label,
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: cp.Pos,
					Context:  curState.LabelStackCopy(),
				}
			}
			return Result[Unit]{
				Value:     Unit{},
				NextState: curState,
				Span:      state.Span{Start: cp.Pos, End: cp.Pos},
			}, Error{}
		},
		Label: fmt.Sprintf("not followed by <%s>", p.Label),
	}
}

// scanUntil is the shared engine behind TakeUntil/SkipUntil/TakeUpto: it
// advances one character at a time until p succeeds at the current position
// (without consuming p's match), or EOF is reached.
func scanUntil[T any](curState *state.State, p Parser[T]) (collected string, matched bool) {
	start := curState.Offset
	for {
		cp := curState.Save()
		_, err := p.Run(curState)
		curState.Rollback(cp)
		if !err.HasError() {
			return curState.Input[start:curState.Offset], true
		}
		if !curState.InBounds(curState.Offset) {
			return curState.Input[start:curState.Offset], false
		}
		_, size := utf8.DecodeRuneInString(curState.Input[curState.Offset:])
		curState.Consume(size)
	}
}

// TakeUntil scans forward until p succeeds at the current position and
// returns the substring collected before the match, leaving the offset at
// the start of the match (p's own match is not consumed). Always succeeds,
// even at EOF, with whatever was collected.
func TakeUntil[T any](label string, p Parser[T]) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			initialPos := state.NewPositionFromState(curState)
			collected, _ := scanUntil(curState, p)
			return Result[string]{
				Value:     collected,
				NextState: curState,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: label,
	}
}

// SkipUntil is TakeUntil but discards the collected text, yielding Unit.
func SkipUntil[T any](label string, p Parser[T]) Parser[Unit] {
	return Map(label, TakeUntil(label, p), func(string) Unit { return Unit{} })
}

// TakeUpto is TakeUntil but additionally consumes p's own match before
// returning.
func TakeUpto[T any](label string, p Parser[T]) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			initialPos := state.NewPositionFromState(curState)
			collected, matched := scanUntil(curState, p)
			if matched {
				res, err := p.Run(curState)
				if err.HasError() {
					return Result[string]{}, err
				}
				curState = res.NextState
			}
			return Result[string]{
				Value:     collected,
				NextState: curState,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: label,
	}
}

// ParseUntilChar scans forward for the rune c; unlike TakeUntil/SkipUntil/
// TakeUpto it fails if c is never found before EOF.
func ParseUntilChar(c rune) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			initialPos := state.NewPositionFromState(curState)
			start := curState.Offset
			for curState.InBounds(curState.Offset) {
				r, size := utf8.DecodeRuneInString(curState.Input[curState.Offset:])
				if r == c {
					return Result[string]{
						Value:     curState.Input[start:curState.Offset],
						NextState: curState,
						Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
					}, Error{}
				}
				curState.Consume(size)
			}
			return Result[string]{}, Error{
				Kind:     KindUnexpected,
				Message:  "Reached the end of file while scanning for character.",
				Expected: string(c),
				Got:      "EOF",
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: state.NewPositionFromState(curState),
				Context:  curState.LabelStackCopy(),
			}
		},
		Label: fmt.Sprintf("characters up to %q", c),
	}
}
