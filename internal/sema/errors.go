package sema

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/source"
)

// circularity is the internal signal ensure() raises when it re-enters a
// declaration that is already CheckingHeader: circular typedefs resolve
// to an error rather than looping forever. It is recovered by the nearest
// enclosing Ensure frame (which may belong to another declaration of a
// longer cycle) and turned into a diagnostic plus an error() type, never
// allowed to escape CheckTranslationUnit.
//
// pkg/errors is used here (and only here) for its stack-trace-carrying
// Errorf, for a comparable "this should be impossible to observe outside
// the package, but capture where it happened" internal signal.
type circularity struct {
	decl interface{}
	err  error
}

func newCircularity(decl ast.Decl) circularity {
	return circularity{decl: decl, err: errors.Errorf("circular dependency while checking %q", decl.Base().Name)}
}

func (c circularity) Error() string { return c.err.Error() }

// diagnose is the single routing function every checking rule calls to
// report a problem. It builds a diag.Diagnostic from a Code and a primary
// span and forwards it to the translation unit's sink; every other
// error-producing helper in this package is a thin wrapper around it.
func (c *Checker) diagnose(code diag.Code, span source.Span, format string, args ...interface{}) {
	if c.Sink == nil || c.noChecking {
		return
	}
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}.WithPrimarySpan(span, "")
	c.Sink.Report(d)
}

// diagnoseWithNote reports a diagnostic with a secondary labeled span, used
// for "previous declaration here"-style context.
func (c *Checker) diagnoseWithNote(code diag.Code, span source.Span, note string, noteSpan source.Span, format string, args ...interface{}) {
	if c.Sink == nil || c.noChecking {
		return
	}
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}.WithPrimarySpan(span, "").WithSecondarySpan(noteSpan, note)
	c.Sink.Report(d)
}
