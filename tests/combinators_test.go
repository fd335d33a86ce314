package parser_test

import (
	"testing"

	parser "github.com/BlackBuck/pcom-go/parser"
	state "github.com/BlackBuck/pcom-go/state"
)

func TestSequenceRunsInOrderAndCollectsValues(t *testing.T) {
	p := parser.Sequence("abc", parser.RuneParser("char a", 'a'), parser.RuneParser("char b", 'b'), parser.RuneParser("char c", 'c'))
	st := state.NewState("abcd", state.Position{Offset: 0, Line: 1, Column: 1})

	res, err := p.Run(&st)
	if err.HasError() {
		t.Fatalf("unexpected error: %s", err.String())
	}
	want := []rune{'a', 'b', 'c'}
	if len(res.Value) != len(want) {
		t.Fatalf("expected %v, got %v", want, res.Value)
	}
	for i := range want {
		if res.Value[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], res.Value[i])
		}
	}
	if st.Offset != 3 {
		t.Errorf("expected offset 3, got %d", st.Offset)
	}
}

func TestSequenceAbortsAtFirstFailureWithoutRunningLater(t *testing.T) {
	ran := false
	tracking := parser.Parser[rune]{
		Label: "tracking c",
		Run: func(cs *state.State) (parser.Result[rune], parser.Error) {
			ran = true
			return parser.RuneParser("char c", 'c').Run(cs)
		},
	}

	p := parser.Sequence("abc", parser.RuneParser("char a", 'a'), parser.RuneParser("char x", 'x'), tracking)
	st := state.NewState("abc", state.Position{Offset: 0, Line: 1, Column: 1})

	if _, err := p.Run(&st); !err.HasError() {
		t.Fatalf("expected failure: 'x' does not match 'b'")
	}
	if ran {
		t.Errorf("expected the third parser to never run after the second one failed")
	}
}

func TestAndRequiresEveryAlternativeFromTheSameOffsetAndNeverAdvances(t *testing.T) {
	// Each alternative is tried from - and rolled back to - the same starting
	// offset, including the last one: a successful And never itself consumes
	// input, it only checks that every alternative matches there.
	p := parser.And("both match an a-prefix", parser.Regex("a"), parser.Regex("ab"))
	st := state.NewState("abc", state.Position{Offset: 0, Line: 1, Column: 1})

	res, err := p.Run(&st)
	if err.HasError() {
		t.Fatalf("unexpected error: %s", err.String())
	}
	if res.Value != "ab" {
		t.Errorf("expected the last alternative's own value %q, got %q", "ab", res.Value)
	}
	if st.Offset != 0 {
		t.Errorf("expected And to leave the offset unconsumed, got %d", st.Offset)
	}
}

func TestAndFailsIfAnyAlternativeFails(t *testing.T) {
	p := parser.And("both must match", parser.Regex("a"), parser.Regex("z"))
	st := state.NewState("abc", state.Position{Offset: 0, Line: 1, Column: 1})

	if _, err := p.Run(&st); !err.HasError() {
		t.Fatalf("expected failure: %q does not match at offset 0", "z")
	}
}

func TestBetweenWrapsMissingCloseAsClosingDelimiter(t *testing.T) {
	p := parser.Between("parens", parser.RuneParser("open", '('), parser.Digit(), parser.RuneParser("close", ')'))
	st := state.NewState("(5", state.Position{Offset: 0, Line: 1, Column: 1})

	_, err := p.Run(&st)
	if !err.HasError() {
		t.Fatalf("expected failure: missing closing paren")
	}
	if err.Expected != "closing delimiter" {
		t.Errorf("expected the missing-close error to read %q, got %q", "closing delimiter", err.Expected)
	}
}

func TestBetweenYieldsContentValue(t *testing.T) {
	p := parser.Between("parens", parser.RuneParser("open", '('), parser.Digit(), parser.RuneParser("close", ')'))
	st := state.NewState("(5)rest", state.Position{Offset: 0, Line: 1, Column: 1})

	res, err := p.Run(&st)
	if err.HasError() {
		t.Fatalf("unexpected error: %s", err.String())
	}
	if res.Value != '5' {
		t.Errorf("expected '5', got %q", res.Value)
	}
	if st.Offset != 3 {
		t.Errorf("expected offset 3 (past the closing paren), got %d", st.Offset)
	}
}
