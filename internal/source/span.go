// Package source holds the lightweight position information threaded
// through the AST and diagnostics. The lexer and parser that produce these
// spans are external collaborators — this package only carries the shape
// of a location, not the scanner that assigns one.
package source

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // byte offset into the file
}

// IsValid reports whether p carries real location information.
func (p Pos) IsValid() bool { return p.Line > 0 && p.Column > 0 }

// Span is a half-open range [Start, End) within a single file.
type Span struct {
	File  string
	Start Pos
	End   Pos
}

// String renders the span the way diagnostics print it: file:line:col.
func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// IsValid reports whether s carries real location information.
func (s Span) IsValid() bool { return s.Start.IsValid() }

// Join returns the smallest span covering both a and b. If either span is
// invalid the other is returned unchanged.
func Join(a, b Span) Span {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	start, end := a.Start, a.End
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{File: a.File, Start: start, End: end}
}
