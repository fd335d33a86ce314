package parser

import "sort"

// ParseErrorBundle aggregates every error recorded while trying a set of
// alternatives (or a single failed parse), and exposes the furthest-offset
// "primary" error the driver and formatter surface to the user.
type ParseErrorBundle struct {
	Errors []*Error
	Source string
}

// NewBundle wraps a single terminal error (the common case: one combinator
// failed outright, with no alternatives tried).
func NewBundle(source string, err *Error) *ParseErrorBundle {
	if err == nil || !err.HasError() {
		return &ParseErrorBundle{Source: source}
	}
	return &ParseErrorBundle{Errors: []*Error{err}, Source: source}
}

// Add appends another tried-alternative's error into the bundle.
func (b *ParseErrorBundle) Add(err *Error) {
	if err == nil || !err.HasError() {
		return
	}
	b.Errors = append(b.Errors, err)
}

// Merge folds another bundle's errors into this one.
func (b *ParseErrorBundle) Merge(other *ParseErrorBundle) {
	if other == nil {
		return
	}
	b.Errors = append(b.Errors, other.Errors...)
}

// Primary returns the error with the furthest span offset, ties broken by
// insertion order (the first one recorded at that offset wins).
func (b *ParseErrorBundle) Primary() *Error {
	if len(b.Errors) == 0 {
		return nil
	}
	primary := b.Errors[0]
	for _, e := range b.Errors[1:] {
		if e.Position.Offset > primary.Position.Offset {
			primary = e
		}
	}
	return primary
}

// PrimaryErrors returns every error tied for the furthest offset, in
// insertion order.
func (b *ParseErrorBundle) PrimaryErrors() []*Error {
	primary := b.Primary()
	if primary == nil {
		return nil
	}
	out := make([]*Error, 0, 1)
	for _, e := range b.Errors {
		if e.Position.Offset == primary.Position.Offset {
			out = append(out, e)
		}
	}
	return out
}

// sortedByOffsetDesc is used by formatters that want to show the furthest
// failures first without mutating the bundle's insertion-ordered Errors.
func (b *ParseErrorBundle) sortedByOffsetDesc() []*Error {
	out := make([]*Error, len(b.Errors))
	copy(out, b.Errors)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Offset > out[j].Position.Offset
	})
	return out
}

// HasError reports whether the bundle carries at least one real error.
func (b *ParseErrorBundle) HasError() bool {
	return b != nil && len(b.Errors) > 0
}

// Error implements the standard library error interface, delegating to the
// primary (furthest) error's trace.
func (b *ParseErrorBundle) Error() string {
	if p := b.Primary(); p != nil {
		return p.FullTrace()
	}
	return ""
}
