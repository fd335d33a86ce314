// Package format renders a *parser.ParseErrorBundle into a human-facing
// string: plain text, ANSI-colored terminal output, HTML, or JSON. It is a
// pure data-shaping layer over parser.Error/parser.ParseErrorBundle - it
// never mutates the bundle it is given (spec.md §4.9).
package format

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	parser "github.com/BlackBuck/pcom-go/parser"
	"github.com/fatih/color"
)

// Kind selects which renderer ErrorFormatter.Format dispatches to.
type Kind int

const (
	Plain Kind = iota
	ANSI
	HTML
	JSON
)

// Options controls how much context a rendering shows. A MaxContextLines of
// 0 or less is treated as 1. Colorize and TabSize are carried on the struct
// but no renderer reads them: color is chosen by Kind alone, and tabs are
// not expanded.
type Options struct {
	MaxContextLines int
	ShowHints       bool
	Colorize        bool
	ShowContext     bool
	TabSize         int
}

// DefaultOptions shows two source lines of context on each side of the
// error line, plus hints and the label-stack context. Colorize is left
// false; ANSI formatting is opted into via Kind.
func DefaultOptions() Options {
	return Options{
		MaxContextLines: 2,
		ShowHints:       true,
		ShowContext:     true,
		TabSize:         4,
	}
}

// ErrorFormatter pairs a rendering Kind with the Options that shape it.
type ErrorFormatter struct {
	Format  Kind
	Options Options
}

// NewErrorFormatter builds an ErrorFormatter for kind, filling in
// DefaultOptions for a zero-value Options argument.
func NewErrorFormatter(kind Kind, opts Options) ErrorFormatter {
	if opts.MaxContextLines == 0 && opts.TabSize == 0 {
		opts = DefaultOptions()
	}
	return ErrorFormatter{Format: kind, Options: opts}
}

// Format renders bundle according to f.Format/f.Options.
func (f ErrorFormatter) Format(bundle *parser.ParseErrorBundle) string {
	switch f.Format {
	case ANSI:
		return FormatANSI(bundle, f.Options)
	case HTML:
		return FormatHTML(bundle, f.Options)
	case JSON:
		return FormatJSON(bundle, f.Options)
	default:
		return FormatPlain(bundle, f.Options)
	}
}

// contextWindow returns up to opts.MaxContextLines source lines before and
// after the primary error's line (1-indexed), each prefixed with its line
// number, plus the index (within the returned slice) of the error's own
// line.
func contextWindow(source string, errLine, maxLines int) (lines []string, errIdx int) {
	if maxLines <= 0 {
		maxLines = 1
	}
	all := strings.Split(source, "\n")
	lo := errLine - 1 - maxLines
	if lo < 0 {
		lo = 0
	}
	hi := errLine - 1 + maxLines
	if hi > len(all)-1 {
		hi = len(all) - 1
	}
	width := gutterWidth(errLine, maxLines)
	for i := lo; i <= hi; i++ {
		lines = append(lines, fmt.Sprintf("%*d | %s", width, i+1, all[i]))
		if i+1 == errLine {
			errIdx = len(lines) - 1
		}
	}
	return lines, errIdx
}

// caretLine returns a line of spaces-then-caret aligned under column within
// a line prefixed the same way contextWindow prefixed its source lines
// (gutterWidth digits + " | ").
func caretLine(column, gutterWidth int) string {
	pad := strings.Repeat(" ", gutterWidth+3+max(column-1, 0))
	return pad + "^"
}

// humanMessage turns an error's Kind/Expected/Got into the one-line
// description every renderer leads with.
func humanMessage(e *parser.Error) string {
	switch e.Kind {
	case parser.KindExpected:
		return fmt.Sprintf("expected %s", e.Expected)
	case parser.KindUnexpected:
		return fmt.Sprintf("unexpected %s", e.Got)
	case parser.KindFatal:
		return e.Message
	default:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	}
}

func gutterWidth(errLine int, maxLines int) int {
	if maxLines <= 0 {
		maxLines = 1
	}
	hi := errLine + maxLines
	return len(fmt.Sprintf("%d", hi))
}

// FormatPlain renders bundle as uncolored text.
func FormatPlain(bundle *parser.ParseErrorBundle, opts Options) string {
	if bundle == nil || !bundle.HasError() {
		return ""
	}
	primary := bundle.Primary()
	var b strings.Builder

	fmt.Fprintf(&b, "error at line %d, column %d: %s\n", primary.Position.Line, primary.Position.Column, humanMessage(primary))

	if opts.ShowContext {
		lines, _ := contextWindow(bundle.Source, primary.Position.Line, opts.MaxContextLines)
		gw := gutterWidth(primary.Position.Line, opts.MaxContextLines)
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
		b.WriteString(caretLine(primary.Position.Column, gw))
		b.WriteByte('\n')
	}

	if opts.ShowHints && len(primary.Hints) > 0 {
		fmt.Fprintf(&b, "Did you mean: %s?\n", strings.Join(primary.Hints, ", "))
	}

	if opts.ShowContext && len(primary.Context) > 0 {
		fmt.Fprintf(&b, "Context: %s\n", strings.Join(primary.Context, " > "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatANSI renders bundle with fatih/color escape codes, the same
// palette parser.Error.FullTrace uses (red for the message/position/got,
// green for expected, yellow for hints, cyan for context). The escape codes
// are always emitted, whether or not stdout is a terminal.
func FormatANSI(bundle *parser.ParseErrorBundle, opts Options) string {
	if bundle == nil || !bundle.HasError() {
		return ""
	}
	paint := func(attr color.Attribute, s string) string {
		c := color.New(attr)
		c.EnableColor()
		return c.Sprint(s)
	}
	primary := bundle.Primary()
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", paint(color.FgHiRed, fmt.Sprintf("error at line %d, column %d: %s", primary.Position.Line, primary.Position.Column, humanMessage(primary))))

	if opts.ShowContext {
		lines, errIdx := contextWindow(bundle.Source, primary.Position.Line, opts.MaxContextLines)
		gw := gutterWidth(primary.Position.Line, opts.MaxContextLines)
		for i, l := range lines {
			if i == errIdx {
				b.WriteString(paint(color.FgHiWhite, l))
			} else {
				b.WriteString(l)
			}
			b.WriteByte('\n')
		}
		b.WriteString(paint(color.FgHiRed, caretLine(primary.Position.Column, gw)))
		b.WriteByte('\n')
	}

	if opts.ShowHints && len(primary.Hints) > 0 {
		b.WriteString(paint(color.FgHiYellow, "Did you mean: "+strings.Join(primary.Hints, ", ")+"?"))
		b.WriteByte('\n')
	}

	if opts.ShowContext && len(primary.Context) > 0 {
		b.WriteString(paint(color.FgHiCyan, "Context: "+strings.Join(primary.Context, " > ")))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatHTML renders bundle as a small self-contained HTML fragment,
// escaping every piece of source-derived text via html.EscapeString.
func FormatHTML(bundle *parser.ParseErrorBundle, opts Options) string {
	if bundle == nil || !bundle.HasError() {
		return ""
	}
	primary := bundle.Primary()
	var b strings.Builder

	b.WriteString(`<div class="parse-error">`)
	fmt.Fprintf(&b, `<p class="message">%s</p>`, html.EscapeString(fmt.Sprintf("line %d, column %d: %s", primary.Position.Line, primary.Position.Column, humanMessage(primary))))

	if opts.ShowContext {
		lines, errIdx := contextWindow(bundle.Source, primary.Position.Line, opts.MaxContextLines)
		b.WriteString(`<pre class="context">`)
		for i, l := range lines {
			if i == errIdx {
				fmt.Fprintf(&b, `<mark>%s</mark>`+"\n", html.EscapeString(l))
			} else {
				b.WriteString(html.EscapeString(l))
				b.WriteByte('\n')
			}
		}
		gw := gutterWidth(primary.Position.Line, opts.MaxContextLines)
		b.WriteString(html.EscapeString(caretLine(primary.Position.Column, gw)))
		b.WriteString(`</pre>`)
	}

	if opts.ShowHints && len(primary.Hints) > 0 {
		fmt.Fprintf(&b, `<p class="hints">Did you mean: %s?</p>`, html.EscapeString(strings.Join(primary.Hints, ", ")))
	}

	if opts.ShowContext && len(primary.Context) > 0 {
		fmt.Fprintf(&b, `<p class="context-stack">Context: %s</p>`, html.EscapeString(strings.Join(primary.Context, " > ")))
	}

	b.WriteString(`</div>`)
	return b.String()
}

// jsonError is the JSON-shaped projection of a single parser.Error.
type jsonError struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Offset   int      `json:"offset"`
	Context  []string `json:"context,omitempty"`
	Hints    []string `json:"hints,omitempty"`
}

type jsonBundle struct {
	Primary jsonError   `json:"primary"`
	Errors  []jsonError `json:"errors"`
}

func kindName(k parser.ErrorKind) string {
	switch k {
	case parser.KindExpected:
		return "expected"
	case parser.KindUnexpected:
		return "unexpected"
	case parser.KindCustom:
		return "custom"
	case parser.KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func toJSONError(e *parser.Error) jsonError {
	return jsonError{
		Kind:     kindName(e.Kind),
		Message:  humanMessage(e),
		Expected: e.Expected,
		Got:      e.Got,
		Line:     e.Position.Line,
		Column:   e.Position.Column,
		Offset:   e.Position.Offset,
		Context:  e.Context,
		Hints:    e.Hints,
	}
}

// FormatJSON renders bundle as a JSON object with the primary (furthest)
// error plus the full accumulated error list. Options.ShowHints/ShowContext
// still gate whether those fields are populated; MaxContextLines has no
// effect (JSON carries position data, not pre-sliced source lines - a
// consumer renders its own context from Offset/Line/Column).
func FormatJSON(bundle *parser.ParseErrorBundle, opts Options) string {
	if bundle == nil || !bundle.HasError() {
		return "{}"
	}
	primary := bundle.Primary()
	out := jsonBundle{Primary: toJSONError(primary)}
	for _, e := range bundle.Errors {
		out.Errors = append(out.Errors, toJSONError(e))
	}
	if !opts.ShowHints {
		out.Primary.Hints = nil
		for i := range out.Errors {
			out.Errors[i].Hints = nil
		}
	}
	if !opts.ShowContext {
		out.Primary.Context = nil
		for i := range out.Errors {
			out.Errors[i].Context = nil
		}
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
