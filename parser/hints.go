package parser

import (
	"fmt"
	"sort"

	state "github.com/BlackBuck/pcom-go/state"
)

// Levenshtein computes the character-level (not byte-level) edit distance
// between a and b. No library in the retrieved example pack imports a
// fuzzy-matching dependency for a parser-combinator-shaped problem (see
// DESIGN.md), so this is a small, direct dynamic-programming routine -
// matching the overall no-allocation-unless-the-contract-demands-it style of
// the rest of this package's hot paths is not a concern here since hints are
// only ever computed once, on the failure path.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			deletion := prev[j] + 1
			insertion := cur[j-1] + 1
			substitution := prev[j-1] + cost
			best := deletion
			if insertion < best {
				best = insertion
			}
			if substitution < best {
				best = substitution
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

type hintCandidate struct {
	text     string
	distance int
	order    int
}

// Suggest returns the top-limit candidates whose Levenshtein distance from
// found is strictly positive and at most maxDistance, sorted by distance
// ascending and then by insertion order.
func Suggest(found string, candidates []string, limit, maxDistance int) []string {
	var scored []hintCandidate
	for i, c := range candidates {
		d := Levenshtein(found, c)
		if d > 0 && d <= maxDistance {
			scored = append(scored, hintCandidate{text: c, distance: d, order: i})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].distance != scored[j].distance {
			return scored[i].distance < scored[j].distance
		}
		return scored[i].order < scored[j].order
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.text
	}
	return out
}

const (
	defaultHintLimit    = 3
	defaultHintDistance = 2
)

func isIdentifierChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// identifierAt reads the identifier-shaped run of characters starting at the
// current offset, without advancing the state.
func identifierAt(curState *state.State) string {
	cp := curState.Save()
	ident, _ := TakeWhileChar(isIdentifierChar).Run(curState)
	curState.Rollback(cp)
	return ident.Value
}

// KeywordWithHints tries to match target literally; on failure it reads the
// identifier-shaped run at the current offset and reports an Unexpected
// error whose hints are computed against candidates.
func KeywordWithHints(candidates []string) func(target string) Parser[string] {
	return func(target string) Parser[string] {
		exact := StringParser(target, target)
		return Parser[string]{
			Run: func(curState *state.State) (Result[string], Error) {
				res, err := exact.Run(curState)
				if !err.HasError() {
					return res, Error{}
				}

				ident := identifierAt(curState)
				hints := Suggest(ident, candidates, defaultHintLimit, defaultHintDistance)
				return Result[string]{}, Error{
					Kind:     KindUnexpected,
					Message:  fmt.Sprintf("Unexpected %q.", ident),
					Expected: target,
					Got:      ident,
					Hints:    hints,
					Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
					Position: state.NewPositionFromState(curState),
					Context:  curState.LabelStackCopy(),
				}
			},
			Label: fmt.Sprintf("keyword %q", target),
		}
	}
}

// AnyKeywordWithHints succeeds if any candidate matches (longest first);
// otherwise it reports hints for the identifier-shaped run at the current
// offset.
func AnyKeywordWithHints(candidates []string) Parser[string] {
	any := AnyOfStrings(candidates...)
	return Parser[string]{
		Run: func(curState *state.State) (Result[string], Error) {
			res, err := any.Run(curState)
			if !err.HasError() {
				return res, Error{}
			}

			ident := identifierAt(curState)
			hints := Suggest(ident, candidates, defaultHintLimit, defaultHintDistance)
			return Result[string]{}, Error{
				Kind:     KindUnexpected,
				Message:  fmt.Sprintf("Unexpected %q.", ident),
				Expected: fmt.Sprintf("one of %v", candidates),
				Got:      ident,
				Hints:    hints,
				Snippet:  state.GetSnippetStringFromCurrentContext(*curState),
				Position: state.NewPositionFromState(curState),
				Context:  curState.LabelStackCopy(),
			}
		},
		Label: fmt.Sprintf("any keyword of %v", candidates),
	}
}
