package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/source"
)

func TestCheckAssignExprToLocalSucceeds(t *testing.T) {
	c := newAccessChecker()
	target := declareLocalOfType(c, "x", floatTypeExpr())
	assign := &ast.AssignExpr{Target: target, Value: &ast.FloatLit{Text: "1.0"}}

	q := c.checkAssignExpr(assign)

	if !q.Type.Equal(TypeFloat) {
		t.Fatalf("assigning a float to a float local must yield float, got %v", q.Type)
	}
}

func TestCheckAssignExprToNonLValueDiagnoses(t *testing.T) {
	collector := diag.NewCollector()
	c := newAccessChecker()
	c.Sink = collector
	assign := &ast.AssignExpr{Target: &ast.FloatLit{Text: "1.0"}, Value: &ast.FloatLit{Text: "2.0"}}

	q := c.checkAssignExpr(assign)

	if !q.IsError() {
		t.Errorf("assigning to a non-lvalue must produce the error sentinel")
	}
	if len(collector.Diagnostics()) != 1 || collector.Diagnostics()[0].Code != diag.CodeAssignToNonLValue {
		t.Errorf("expected a single assign-to-non-lvalue diagnostic, got %v", collector.Diagnostics())
	}
}

func TestCheckAssignExprToErrorTargetSuppressesCascade(t *testing.T) {
	collector := diag.NewCollector()
	c := newAccessChecker()
	c.Sink = collector
	assign := &ast.AssignExpr{Target: ast.NewIdent("doesNotExist", source.Span{}), Value: &ast.FloatLit{Text: "1.0"}}

	q := c.checkAssignExpr(assign)

	if !q.IsError() {
		t.Errorf("assigning to an already-error-typed target must still yield the error sentinel")
	}
	if len(collector.Diagnostics()) != 1 || collector.Diagnostics()[0].Code != diag.CodeUndefinedIdentifier {
		t.Errorf("expected only the undefined-identifier diagnostic from resolving the target, got %v", collector.Diagnostics())
	}
}
