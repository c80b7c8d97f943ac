// Package diag is the write-only diagnostic sink the semantic core reports
// to. It never influences control flow: emitting a diagnostic is a side
// effect, and checking always continues afterward with an error-typed
// expression.
package diag

import (
	"fmt"

	"github.com/shade-lang/shadec/internal/source"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic, one per error kind the
// checker can report.
type Code string

const (
	CodeAmbiguousReference       Code = "SEMA_AMBIGUOUS_REFERENCE"
	CodeNoApplicableOverload     Code = "SEMA_NO_APPLICABLE_OVERLOAD"
	CodeAmbiguousOverload        Code = "SEMA_AMBIGUOUS_OVERLOAD"
	CodeGenericInferenceFailed   Code = "SEMA_GENERIC_INFERENCE_FAILED"
	CodeTypeMismatch             Code = "SEMA_TYPE_MISMATCH"
	CodeExpectedType             Code = "SEMA_EXPECTED_TYPE"
	CodeExpectedFunction         Code = "SEMA_EXPECTED_FUNCTION"
	CodeUndefinedIdentifier      Code = "SEMA_UNDEFINED_IDENTIFIER"
	CodeInvalidArraySize         Code = "SEMA_INVALID_ARRAY_SIZE"
	CodeNoMember                 Code = "SEMA_NO_MEMBER"
	CodeSubscriptNonArray        Code = "SEMA_SUBSCRIPT_NON_ARRAY"
	CodeSubscriptIndexNonInteger Code = "SEMA_SUBSCRIPT_INDEX_NON_INTEGER"
	CodeVoidParameter            Code = "SEMA_VOID_PARAMETER"
	CodeParameterRedefined       Code = "SEMA_PARAMETER_REDEFINED"
	CodeMisplacedJump            Code = "SEMA_MISPLACED_JUMP"
	CodeReturnNeedsExpression    Code = "SEMA_RETURN_NEEDS_EXPRESSION"
	CodeExpectedIntegerConstant  Code = "SEMA_EXPECTED_INTEGER_CONSTANT"
	CodeRedeclarationMismatch    Code = "SEMA_REDECLARATION_MISMATCH"
	CodeFunctionRedefinition     Code = "SEMA_FUNCTION_REDEFINITION"
	CodeAssignToNonLValue        Code = "SEMA_ASSIGN_TO_NON_LVALUE"
	CodeArgumentExpectedLValue   Code = "SEMA_ARGUMENT_EXPECTED_LVALUE"
	CodeCircularDependency       Code = "SEMA_CIRCULAR_DEPENDENCY"
)

// LabeledSpan is a span with an optional label, used to build multi-span
// diagnostics (e.g. an overload's declaration site alongside the call
// site).
type LabeledSpan struct {
	Span  source.Span
	Label string
	Style string // "primary" or "secondary"
}

// ProofStep is one link in a reasoning chain explaining why an error fired,
// e.g. "because T must satisfy IArithmetic".
type ProofStep struct {
	Message string
	Span    source.Span
}

// Diagnostic is a single compiler message surfaced to the sink.
type Diagnostic struct {
	Severity     Severity
	Code         Code
	Message      string
	Span         source.Span
	LabeledSpans []LabeledSpan
	Notes        []string
	Help         string
	ProofChain   []ProofStep
}

func (d Diagnostic) WithPrimarySpan(span source.Span, label string) Diagnostic {
	return d.withLabeledSpan(span, label, "primary")
}

func (d Diagnostic) WithSecondarySpan(span source.Span, label string) Diagnostic {
	return d.withLabeledSpan(span, label, "secondary")
}

func (d Diagnostic) withLabeledSpan(span source.Span, label, style string) Diagnostic {
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{Span: span, Label: label, Style: style})
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

func (d Diagnostic) WithProofStep(message string, span source.Span) Diagnostic {
	d.ProofChain = append(d.ProofChain, ProofStep{Message: message, Span: span})
	return d
}

// String renders a one-line summary, used by the plain-text sink and by
// tests asserting on diagnostic content.
func (d Diagnostic) String() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink is the append-only stream the checker reports to. It never reports
// back whether an error occurred; callers that need a count (e.g. to
// short-circuit the exhaustive re-check) use Collector.ErrorCount.
type Sink interface {
	Report(d Diagnostic)
}

// Collector is the in-memory Sink implementation used by the checker's
// tests and by the driver when it wants to inspect diagnostics before
// formatting them.
type Collector struct {
	diags []Diagnostic
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Report(d Diagnostic) { c.diags = append(c.diags, d) }

func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// ErrorCount counts diagnostics at SeverityError, the signal module order
// step 7 uses to decide whether to stop before the exhaustive re-check.
func (c *Collector) ErrorCount() int {
	n := 0
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
