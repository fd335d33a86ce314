package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	state "github.com/BlackBuck/pcom-go/state"
)

func Digit() Parser[rune] {
	var ret []Parser[rune]
	for r := '0'; r <= '9'; r++ {
		ret = append(ret, RuneParser(fmt.Sprintf("Digit %s", string(r)), r))
	}

	return Or("Digits", ret...)
}

func Alpha() Parser[rune] {
	var ret []Parser[rune]
	for r := 'A'; r <= 'Z'; r++ {
		ret = append(ret, RuneParser(fmt.Sprintf("char %s", string(r)), r))
	}

	for r := 'a'; r <= 'z'; r++ {
		ret = append(ret, RuneParser(fmt.Sprintf("char %s", string(r)), r))
	}

	return Or("Alphabet", ret...)
}

func AlphaNum() Parser[rune] {
	alpha := Alpha()
	num := Digit()

	return Or("Alphanumeric", []Parser[rune]{alpha, num}...)
}

func Whitespace() Parser[rune] {
	return OneOf(" \t\n\r")
}

// CharWhere succeeds on any rune satisfying predicate, advancing past it.
func CharWhere(predicate func(rune) bool, label string) Parser[rune] {
	return Parser[rune]{
		Run: func(curState *state.State) (Result[rune], Error) {
			if !curState.InBounds(curState.Offset) {
				return Result[rune]{}, Error{
					Kind:     KindUnexpected,
					Message:  "Char parser with predicate failed.",
					Expected: label,
					Got:      "EOF",
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}

			r, size := utf8.DecodeRuneInString(curState.Input[curState.Offset:])
			if predicate(r) {
				prev := curState.Save()
				curState.Consume(size)
				return Result[rune]{
					Value:     r,
					NextState: curState,
					Span: state.Span{
						Start: prev.Pos,
						End:   state.NewPositionFromState(curState),
					},
				}, Error{}
			}
			return Result[rune]{}, Error{
				Kind:     KindUnexpected,
				Message:  "Char parser with predicate failed.",
				Expected: label,
				Got:      string(r),
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: state.NewPositionFromState(curState),
				Context:  curState.LabelStackCopy(),
			}
		},
		Label: fmt.Sprintf("Char where <%s>", label),
	}
}

// AnyChar yields the next character and advances; fails at EOF.
func AnyChar() Parser[rune] {
	return CharWhere(func(rune) bool { return true }, "any character")
}

// NotChar succeeds on any character other than c, advancing.
func NotChar(c rune) Parser[rune] {
	return CharWhere(func(r rune) bool { return r != c }, fmt.Sprintf("not %q", c))
}

// EOF succeeds iff the state is at the end of input.
func EOF() Parser[Unit] {
	return Parser[Unit]{
		Run: func(curState *state.State) (Result[Unit], Error) {
			if curState.Offset == len(curState.Input) {
				return Result[Unit]{
					Value:     Unit{},
					NextState: curState,
					Span:      state.Span{Start: state.NewPositionFromState(curState), End: state.NewPositionFromState(curState)},
				}, Error{}
			}
			remaining := curState.Input[curState.Offset:]
			if len(remaining) > 10 {
				remaining = remaining[:10]
			}
			return Result[Unit]{}, Error{
				Kind:     KindExpected,
				Message:  "Expected end of input.",
				Expected: "end of input",
				Got:      remaining,
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: state.NewPositionFromState(curState),
				Context:  curState.LabelStackCopy(),
			}
		},
		Label: "end of input",
	}
}

// Position yields the current source position without advancing; never
// fails.
func Position() Parser[state.Position] {
	return Parser[state.Position]{
		Run: func(curState *state.State) (Result[state.Position], Error) {
			pos := state.NewPositionFromState(curState)
			return Result[state.Position]{
				Value:     pos,
				NextState: curState,
				Span:      state.Span{Start: pos, End: pos},
			}, Error{}
		},
		Label: "position",
	}
}

// SkipWhitespace consumes zero or more spaces, tabs, carriage returns, or
// newlines, yielding Unit. Never fails.
func SkipWhitespace() Parser[Unit] {
	return SkipMany0("whitespace", Whitespace())
}

// TakeWhileChar consumes characters while predicate holds, yielding the
// collected substring. Always succeeds (possibly with an empty string).
func TakeWhileChar(pred func(rune) bool) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			start := curState.Offset
			initialPos := state.NewPositionFromState(curState)
			for curState.InBounds(curState.Offset) {
				r, size := utf8.DecodeRuneInString(curState.Input[curState.Offset:])
				if !pred(r) {
					break
				}
				curState.Consume(size)
			}
			return Result[string]{
				Value:     curState.Input[start:curState.Offset],
				NextState: curState,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: "characters while predicate holds",
	}
}

// TakeUntilChar consumes characters until predicate holds (without
// consuming the matching character), yielding the collected substring.
// Always succeeds, even at EOF.
func TakeUntilChar(pred func(rune) bool) Parser[string] {
	return TakeWhileChar(func(r rune) bool { return !pred(r) })
}

// TakeN consumes exactly n characters, failing if fewer remain.
func TakeN(n int) Parser[string] {
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			initialPos := state.NewPositionFromState(curState)
			size, count := 0, 0
			for count < n && curState.InBounds(curState.Offset+size) {
				_, w := utf8.DecodeRuneInString(curState.Input[curState.Offset+size:])
				size += w
				count++
			}
			var consumed string
			var span state.Span
			ok := count == n
			if ok {
				consumed, span, ok = curState.Consume(size)
			}
			if !ok {
				return Result[string]{}, Error{
					Kind:     KindUnexpected,
					Message:  "Reached the end of file while parsing",
					Expected: fmt.Sprintf("%d characters", n),
					Got:      "EOF",
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: initialPos,
					Context:  curState.LabelStackCopy(),
				}
			}
			return Result[string]{
				Value:     consumed,
				NextState: curState,
				Span:      span,
			}, Error{}
		},
		Label: fmt.Sprintf("%d characters", n),
	}
}

// AnyOfStrings tries each candidate in longest-first order and succeeds
// with the first one that matches at the current offset.
func AnyOfStrings(candidates ...string) Parser[string] {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	parsers := make([]Parser[string], len(sorted))
	for i, s := range sorted {
		parsers[i] = StringParser(s, s)
	}
	return Or(fmt.Sprintf("any of %v", candidates), parsers...)
}

// Regex matches pattern anchored at the current offset ("sticky" matching -
// no scanning ahead). The pattern is compiled once per construction and
// reused across parses; regexp.Regexp has no mutable match cursor between
// FindStringIndex calls, so there is no shared state to reset.
func Regex(pattern string) Parser[string] {
	re := regexp.MustCompile(`\A(?:` + pattern + `)`)
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			initialPos := state.NewPositionFromState(curState)
			loc := re.FindStringIndex(curState.Input[curState.Offset:])
			if loc == nil || loc[0] != 0 {
				found := curState.Input[curState.Offset:]
				if len(found) > 10 {
					found = found[:10]
				}
				return Result[string]{}, Error{
					Kind:     KindExpected,
					Message:  "Regex did not match.",
					Expected: pattern,
					Got:      found,
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: initialPos,
					Context:  curState.LabelStackCopy(),
				}
			}
			matched, _, _ := curState.Consume(loc[1])
			return Result[string]{
				Value:     matched,
				NextState: curState,
				Span:      state.Span{Start: initialPos, End: state.NewPositionFromState(curState)},
			}, Error{}
		},
		Label: fmt.Sprintf("regex /%s/", pattern),
	}
}

// case-insensitive string matching
func StringCI(s string) Parser[string] {
	lower := strings.ToLower(s)
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			if !curState.InBounds(curState.Offset + len(lower) - 1) {
				return Result[string]{}, Error{
					Kind:     KindUnexpected,
					Message:  "Reached the end of file while parsing",
					Expected: fmt.Sprintf("String (case-insensitive) %s", s),
					Got:      "EOF",
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}

			got := curState.Input[curState.Offset : curState.Offset+len(lower)]
			if strings.ToLower(got) != lower {
				return Result[string]{}, Error{
					Kind:     KindExpected,
					Message:  "Strings do not match (case-insensitive).",
					Expected: fmt.Sprintf("String (case-insensitive) %s", s),
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Got:      got,
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			}

			prev := curState.Save()
			curState.Consume(len(lower))
			return NewResult(
				got,
				curState,
				state.Span{
					Start: prev.Pos,
					End:   state.NewPositionFromState(curState),
				}), Error{}

		},
		Label: fmt.Sprintf("The string (case-insensitive) <%s>", s),
	}
}

// OneOf succeeds on any rune present in chars.
func OneOf(chars string) Parser[rune] {
	set := make(map[rune]bool)
	for _, c := range chars {
		set[c] = true
	}

	return CharWhere(func(r rune) bool {
		return set[r]
	}, fmt.Sprintf("one of <%s>", chars))
}

// Debug prints a trace every time the wrapped parser runs.
func Debug[T any](p Parser[T], name string) Parser[T] {
	return Parser[T]{
		Run: func(curState *state.State) (result Result[T], error Error) {
			fmt.Printf("Trying %s at position %v\n", name, state.NewPositionFromState(curState))
			res, err := p.Run(curState)
			fmt.Printf("Parser %s returned with\nResult: %v\nError: %v\n", name, res.Value, err)
			return res, err
		},
		Label: p.Label,
	}
}

// Try runs p; on failure it restores the pre-call state so no input appears
// consumed (a convenience equivalent to Atomic, kept for the teacher's
// original naming).
func Try[T any](p Parser[T]) Parser[T] {
	return Atomic(p)
}

// Lexeme wraps p with trailing-whitespace skipping.
func Lexeme[T any](p Parser[T]) Parser[T] {
	return Parser[T]{
		Label: fmt.Sprintf("lexeme <%s>", p.Label),
		Run: func(s *state.State) (Result[T], Error) {
			res, err := p.Run(s)
			if err.HasError() {
				return res, err
			}
			_, _ = SkipWhitespace().Run(res.NextState)
			return res, Error{}
		},
	}
}

// Trim is the symmetric form of Lexeme, skipping whitespace both before and
// after p.
func Trim[T any](p Parser[T]) Parser[T] {
	return TrimLeft(Lexeme(p))
}

// TrimLeft skips leading whitespace before running p.
func TrimLeft[T any](p Parser[T]) Parser[T] {
	return Parser[T]{
		Label: fmt.Sprintf("trimmed <%s>", p.Label),
		Run: func(s *state.State) (Result[T], Error) {
			skipRes, _ := SkipWhitespace().Run(s)
			return p.Run(skipRes.NextState)
		},
	}
}

// TrimRight skips trailing whitespace after p (alias kept for the spec's
// trim_right naming; identical to Lexeme).
func TrimRight[T any](p Parser[T]) Parser[T] {
	return Lexeme(p)
}
