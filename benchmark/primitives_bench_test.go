package parser_bench

import (
	"testing"

	parser "github.com/BlackBuck/pcom-go/parser"
	state "github.com/BlackBuck/pcom-go/state"
)

func BenchmarkDigit(b *testing.B) {
	parser := parser.Digit()
	s := state.NewState("1234567890", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkAlpha(b *testing.B) {
	parser := parser.Alpha()
	s := state.NewState("abcdefgXYZ", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkAlphaNum(b *testing.B) {
	parser := parser.AlphaNum()
	s := state.NewState("a1b2c3D4E5", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkWhitespace(b *testing.B) {
	parser := parser.Whitespace()
	s := state.NewState("     ", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkCharWhere(b *testing.B) {
	parser := parser.CharWhere(func(r rune) bool {
		return r == 'a' || r == 'z'
	}, "a or z")
	s := state.NewState("az", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkStringCI(b *testing.B) {
	parser := parser.StringCI("Hello")
	s := state.NewState("hElLo world", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = parser.Run(&s)
	}
}

func BenchmarkAnyChar(b *testing.B) {
	p := parser.AnyChar()
	s := state.NewState("héllo", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkNotChar(b *testing.B) {
	p := parser.NotChar(')')
	s := state.NewState("(expr)", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkEOF(b *testing.B) {
	p := parser.EOF()
	s := state.NewState("", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkSkipWhitespace(b *testing.B) {
	p := parser.SkipWhitespace()
	s := state.NewState("   \t\n  rest", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkTakeWhileChar(b *testing.B) {
	p := parser.TakeWhileChar(func(r rune) bool { return r != ';' })
	s := state.NewState("let x = 1 + 2;", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkTakeN(b *testing.B) {
	p := parser.TakeN(5)
	s := state.NewState("identifier", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

func BenchmarkAnyOfStrings(b *testing.B) {
	p := parser.AnyOfStrings("in", "instanceof", "if", "import")
	s := state.NewState("instanceof x", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}

// BenchmarkRegexUnicodeIdentifier exercises Regex (the one primitive with no
// teacher precedent, see DESIGN.md) against a multi-byte identifier, since
// the rest of this file's benchmarks are ASCII-only.
func BenchmarkRegexUnicodeIdentifier(b *testing.B) {
	p := parser.Regex(`[\p{L}_][\p{L}\p{N}_]*`)
	s := state.NewState("café_au_lait rest", state.Position{Offset: 0, Line: 1, Column: 1})
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(&s)
	}
}
