package parser_test

import (
	"testing"

	parser "github.com/BlackBuck/pcom-go/parser"
	state "github.com/BlackBuck/pcom-go/state"
)

func TestOptionalSomeOnSuccess(t *testing.T) {
	p := parser.Optional(parser.RuneParser("char a", 'a'))
	st := state.NewState("abc", state.Position{Offset: 0, Line: 1, Column: 1})

	res, err := p.Run(&st)
	if err.HasError() {
		t.Fatalf("unexpected error: %s", err.String())
	}
	v, ok := res.Value.Get()
	if !ok || v != 'a' {
		t.Errorf("expected Some('a'), got %+v", res.Value)
	}
	if st.Offset != 1 {
		t.Errorf("expected offset to advance past 'a', got %d", st.Offset)
	}
}

func TestOptionalNoneOnFailureWithoutAdvancing(t *testing.T) {
	p := parser.Optional(parser.RuneParser("char z", 'z'))
	st := state.NewState("abc", state.Position{Offset: 0, Line: 1, Column: 1})

	res, err := p.Run(&st)
	if err.HasError() {
		t.Fatalf("Optional should swallow an uncommitted failure, got %s", err.String())
	}
	if res.Value.IsSome() {
		t.Errorf("expected None")
	}
	if st.Offset != 0 {
		t.Errorf("expected no consumption on failure, got offset %d", st.Offset)
	}
}

func TestAtomicRollsBackFullyOnPartialMatch(t *testing.T) {
	p := parser.Atomic(parser.Then("a then b", parser.RuneParser("char a", 'a'), parser.RuneParser("char b", 'b')))
	st := state.NewState("ac", state.Position{Offset: 0, Line: 1, Column: 1})

	_, err := p.Run(&st)
	if !err.HasError() {
		t.Fatalf("expected failure since 'b' does not follow 'a'")
	}
	if st.Offset != 0 {
		t.Errorf("expected Atomic to roll back the partial 'a' match, got offset %d", st.Offset)
	}
}

func TestCommitMakesOrStopTryingFurtherAlternatives(t *testing.T) {
	// Once the first alternative commits (e.g. after matching a keyword that
	// fixes the grammar rule) and then fails, Or must propagate that failure
	// instead of falling through to an alternative that would otherwise
	// succeed. Composed directly with Sequence-style (no-rollback-on-failure)
	// semantics rather than Zip/Then, which roll the Committed flag back
	// along with position on failure - exactly why CommitMarker's own doc
	// comment pairs it with Sequence, not Then.
	committing := parser.Parser[rune]{
		Label: "commit then fail",
		Run: func(cs *state.State) (parser.Result[rune], parser.Error) {
			res, err := parser.Commit(parser.RuneParser("char a", 'a')).Run(cs)
			if err.HasError() {
				return parser.Result[rune]{}, err
			}
			return parser.RuneParser("char x", 'x').Run(res.NextState)
		},
	}
	fallback := parser.RuneParser("char a (fallback)", 'a')

	p := parser.Or("commit test", committing, fallback)
	st := state.NewState("ab", state.Position{Offset: 0, Line: 1, Column: 1})

	_, err := p.Run(&st)
	if !err.HasError() {
		t.Fatalf("expected the committed alternative's failure to propagate, not be masked by the fallback")
	}
}

func TestExpectRewritesErrorMessage(t *testing.T) {
	p := parser.Expect("a semicolon", parser.RuneParser("semicolon", ';'))
	st := state.NewState("x", state.Position{Offset: 0, Line: 1, Column: 1})

	_, err := p.Run(&st)
	if !err.HasError() {
		t.Fatalf("expected failure")
	}
	if err.Expected != "a semicolon" {
		t.Errorf("expected Expected field to read %q, got %q", "a semicolon", err.Expected)
	}
}

func TestMapErrRewritesFailureOnly(t *testing.T) {
	p := parser.MapErr(parser.RuneParser("char a", 'a'), func(e parser.Error) parser.Error {
		e.Message = "custom: " + e.Message
		return e
	})

	failSt := state.NewState("z", state.Position{Offset: 0, Line: 1, Column: 1})
	_, err := p.Run(&failSt)
	if !err.HasError() {
		t.Fatalf("expected failure")
	}
	if len(err.Message) < 7 || err.Message[:7] != "custom:" {
		t.Errorf("expected rewritten message to start with %q, got %q", "custom:", err.Message)
	}

	okSt := state.NewState("a", state.Position{Offset: 0, Line: 1, Column: 1})
	res, err := p.Run(&okSt)
	if err.HasError() {
		t.Fatalf("unexpected error on success path: %s", err.String())
	}
	if res.Value != 'a' {
		t.Errorf("expected 'a', got %q", res.Value)
	}
}

func TestLabelPushesAndPopsRegardlessOfOutcome(t *testing.T) {
	p := parser.Label("greeting", parser.RuneParser("char a", 'a'))
	st := state.NewState("b", state.Position{Offset: 0, Line: 1, Column: 1})

	_, err := p.Run(&st)
	if !err.HasError() {
		t.Fatalf("expected failure")
	}
	if len(st.LabelStack) != 0 {
		t.Errorf("expected the label stack to be popped back to empty, got %v", st.LabelStack)
	}
}
