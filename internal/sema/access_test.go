package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/session"
	"github.com/shade-lang/shadec/internal/source"
)

func floatTypeExpr() ast.Type {
	return ast.NewNamedTypeExpr(ast.NewIdent("float", source.Span{}), source.Span{})
}

func vectorFloat3TypeExpr() ast.Type {
	base := ast.NewNamedTypeExpr(ast.NewIdent("Vector", source.Span{}), source.Span{})
	args := []ast.Node{floatTypeExpr(), ast.NewIntegerLit("3", source.Span{})}
	return ast.NewGenericAppTypeExpr(base, args, source.Span{})
}

// newAccessChecker builds a checker over a module that already declares
// the given top-level decls, so tests can resolve calls and member
// accesses against a real aggregate rather than just the stdlib.
func newAccessChecker(extra ...ast.Decl) *Checker {
	sess := session.NewSession(session.HLSL, nil)
	mod := ast.NewModuleDecl("m", source.Span{})
	mod.Decls = append(mod.Decls, extra...)
	c := &Checker{Sess: sess, typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	c.module = mod
	c.scope = c.buildModuleScope(mod)
	return c
}

// declareLocalOfType introduces a local variable of the given as-written
// type and returns an Ident referencing it, the same shape a real
// "T v; v.member" pair would produce.
func declareLocalOfType(c *Checker, name string, typ ast.Type) *ast.Ident {
	v := ast.NewVarDecl(name, typ, nil, source.Span{})
	c.declareLocal(v)
	return ast.NewIdent(name, source.Span{})
}

func TestCheckCallExprConstructorViaBareTypeName(t *testing.T) {
	c := newAccessChecker()
	call := ast.NewCallExpr(ast.NewIdent("float", source.Span{}), []ast.Expr{ast.NewIntegerLit("3", source.Span{})}, source.Span{})

	q := c.checkCallExpr(call)

	if !q.Type.Equal(TypeFloat) {
		t.Fatalf("calling float(3) must produce a float, got %v", q.Type)
	}
	if _, ok := c.lastCoerced.(*ast.InvokeExpr); !ok {
		t.Errorf("a resolved constructor call must rewrite the CallExpr into an InvokeExpr, got %T", c.lastCoerced)
	}
}

func TestCheckCallExprUndefinedNameIsDiagnosed(t *testing.T) {
	collector := diag.NewCollector()
	c := newAccessChecker()
	c.Sink = collector
	call := ast.NewCallExpr(ast.NewIdent("doesNotExist", source.Span{}), nil, source.Span{})

	q := c.checkCallExpr(call)

	if !q.IsError() {
		t.Errorf("calling an undefined name must produce the error sentinel")
	}
	if len(collector.Diagnostics()) != 1 || collector.Diagnostics()[0].Code != diag.CodeUndefinedIdentifier {
		t.Errorf("expected a single undefined-identifier diagnostic, got %v", collector.Diagnostics())
	}
}

func TestCheckMemberExprFieldAccess(t *testing.T) {
	agg := ast.NewAggregateDecl("Box", false, source.Span{})
	agg.AddField(ast.NewFieldDecl("x", floatTypeExpr(), source.Span{}))

	c := newAccessChecker(agg)
	boxType := ast.NewNamedTypeExpr(ast.NewIdent("Box", source.Span{}), source.Span{})
	target := declareLocalOfType(c, "b", boxType)
	me := ast.NewMemberExpr(target, "x", source.Span{})

	q := c.checkMemberExpr(me)

	if !q.Type.Equal(TypeFloat) {
		t.Fatalf("Box.x must resolve to float, got %v", q.Type)
	}
	if !q.IsLValue {
		t.Errorf("a field read through an lvalue target must itself be an lvalue")
	}
}

func TestCheckMemberExprUndefinedMemberDiagnoses(t *testing.T) {
	agg := ast.NewAggregateDecl("Box", false, source.Span{})
	agg.AddField(ast.NewFieldDecl("x", floatTypeExpr(), source.Span{}))

	collector := diag.NewCollector()
	c := newAccessChecker(agg)
	c.Sink = collector
	boxType := ast.NewNamedTypeExpr(ast.NewIdent("Box", source.Span{}), source.Span{})
	target := declareLocalOfType(c, "b", boxType)
	me := ast.NewMemberExpr(target, "y", source.Span{})

	q := c.checkMemberExpr(me)

	if !q.IsError() {
		t.Errorf("accessing an undeclared member must produce the error sentinel")
	}
	if len(collector.Diagnostics()) != 1 || collector.Diagnostics()[0].Code != diag.CodeNoMember {
		t.Errorf("expected a single no-member diagnostic, got %v", collector.Diagnostics())
	}
}

func TestCheckSwizzleSingleComponentIsLValue(t *testing.T) {
	c := newAccessChecker()
	target := declareLocalOfType(c, "v", vectorFloat3TypeExpr())
	me := ast.NewMemberExpr(target, "x", source.Span{})

	q := c.checkMemberExpr(me)

	if !q.Type.Equal(TypeFloat) || !q.IsLValue {
		t.Fatalf("vec.x must be a float lvalue, got type=%v lvalue=%v", q.Type, q.IsLValue)
	}
}

func TestCheckSwizzleDuplicateComponentIsNotLValue(t *testing.T) {
	c := newAccessChecker()
	target := declareLocalOfType(c, "v", vectorFloat3TypeExpr())
	me := ast.NewMemberExpr(target, "xx", source.Span{})

	q := c.checkMemberExpr(me)

	v, ok := q.Type.(*Vector)
	if !ok || v.Count != 2 || !v.Elem.Equal(TypeFloat) {
		t.Fatalf("vec.xx must produce a float2, got %v", q.Type)
	}
	if q.IsLValue {
		t.Errorf("a swizzle with a duplicate component must not be an lvalue")
	}
}

func TestCheckSwizzleInvalidComponentDiagnoses(t *testing.T) {
	collector := diag.NewCollector()
	c := newAccessChecker()
	c.Sink = collector
	target := declareLocalOfType(c, "v", vectorFloat3TypeExpr())
	me := ast.NewMemberExpr(target, "w", source.Span{})

	q := c.checkMemberExpr(me)

	if !q.IsError() {
		t.Errorf("a swizzle component out of range for the vector's width must produce the error sentinel")
	}
	if len(collector.Diagnostics()) != 1 || collector.Diagnostics()[0].Code != diag.CodeNoMember {
		t.Errorf("expected a single no-member diagnostic, got %v", collector.Diagnostics())
	}
}
