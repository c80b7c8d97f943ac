package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/session"
	"github.com/shade-lang/shadec/internal/source"
)

func newResolverChecker() *Checker {
	sess := session.NewSession(session.HLSL, nil)
	mod := ast.NewModuleDecl("m", source.Span{})
	c := &Checker{Sess: sess, typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	c.module = mod
	c.scope = c.buildModuleScope(mod)
	return c
}

func TestResolveTypeExprNamedScalar(t *testing.T) {
	c := newResolverChecker()
	got := c.resolveTypeExpr(ast.NewNamedTypeExpr(ast.NewIdent("float", source.Span{}), source.Span{}))
	if !got.Equal(TypeFloat) {
		t.Errorf("resolving \"float\" must produce TypeFloat, got %v", got)
	}
}

func TestResolveTypeExprUndefinedNameIsError(t *testing.T) {
	c := newResolverChecker()
	got := c.resolveTypeExpr(ast.NewNamedTypeExpr(ast.NewIdent("Nonexistent", source.Span{}), source.Span{}))
	if !IsError(got) {
		t.Errorf("resolving an undefined type name must produce the error sentinel, got %v", got)
	}
}

func TestResolveTypeExprMemoizes(t *testing.T) {
	c := newResolverChecker()
	node := ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{})
	first := c.resolveTypeExpr(node)
	second := c.resolveTypeExpr(node)
	if first != second {
		t.Errorf("resolving the same node twice must return the cached result, not a fresh allocation")
	}
}

func TestResolveTypeExprArraySized(t *testing.T) {
	c := newResolverChecker()
	elem := ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{})
	size := ast.NewIntegerLit("4", source.Span{})
	node := ast.NewArrayTypeExpr(elem, size, source.Span{})

	got := c.resolveTypeExpr(node)
	arr, ok := got.(*Array)
	if !ok || arr.Size != 4 || !arr.Elem.Equal(TypeInt) {
		t.Errorf("got %v, want int[4]", got)
	}
}

func TestResolveTypeExprArrayUnsized(t *testing.T) {
	c := newResolverChecker()
	elem := ast.NewNamedTypeExpr(ast.NewIdent("float", source.Span{}), source.Span{})
	node := ast.NewArrayTypeExpr(elem, nil, source.Span{})

	got := c.resolveTypeExpr(node)
	arr, ok := got.(*Array)
	if !ok || arr.Size != -1 {
		t.Errorf("got %v, want an unsized float[] (Size == -1)", got)
	}
}

func TestResolveTypeExprPointerLike(t *testing.T) {
	c := newResolverChecker()
	elem := ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{})
	node := &ast.PointerLikeTypeExpr{Elem: elem}

	got := c.resolveTypeExpr(node)
	ptr, ok := got.(*PointerLike)
	if !ok || !ptr.Elem.Equal(TypeInt) {
		t.Errorf("got %v, want int*", got)
	}
}

func TestResolveGenericAppTypeVector(t *testing.T) {
	c := newResolverChecker()
	base := ast.NewNamedTypeExpr(ast.NewIdent("Vector", source.Span{}), source.Span{})
	args := []ast.Node{
		ast.NewNamedTypeExpr(ast.NewIdent("float", source.Span{}), source.Span{}),
		ast.NewIntegerLit("3", source.Span{}),
	}
	node := ast.NewGenericAppTypeExpr(base, args, source.Span{})

	got := c.resolveTypeExpr(node)
	v, ok := got.(*Vector)
	if !ok || v.Count != 3 || !v.Elem.Equal(TypeFloat) {
		t.Errorf("got %v, want vector<float,3>", got)
	}
}

func TestResolveGenericAppTypeNonGenericBaseIsError(t *testing.T) {
	c := newResolverChecker()
	base := ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{})
	node := ast.NewGenericAppTypeExpr(base, nil, source.Span{})

	got := c.resolveTypeExpr(node)
	if !IsError(got) {
		t.Errorf("applying generic arguments to a non-generic base must produce the error sentinel, got %v", got)
	}
}
