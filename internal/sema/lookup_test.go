package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/session"
	"github.com/shade-lang/shadec/internal/source"
)

func TestBuildModuleScopeSeesStdlibAndModuleDecls(t *testing.T) {
	sess := session.NewSession(session.HLSL, nil)
	c := &Checker{Sess: sess}

	mod := ast.NewModuleDecl("m", source.Span{})
	fn := ast.NewFunctionDecl("main", nil, ast.NewNamedTypeExpr(ast.NewIdent("void", source.Span{}), source.Span{}), nil, source.Span{})
	mod.Decls = append(mod.Decls, fn)

	scope := c.buildModuleScope(mod)

	if d, _ := scope.Resolve("int"); d == nil {
		t.Errorf("the module scope must see the stdlib's builtin int type")
	}
	if d, _ := scope.Resolve("main"); d != ast.Decl(fn) {
		t.Errorf("the module scope must see the module's own top-level declarations")
	}
	if d, _ := scope.Resolve("nonexistent"); d != nil {
		t.Errorf("an undeclared name must not resolve")
	}
}

func TestLookupCollectsSameNameChain(t *testing.T) {
	c := &Checker{}
	c.scope = NewScope(nil)

	intType := func() ast.Type { return ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}) }
	f1 := ast.NewFunctionDecl("f", []*ast.ParamDecl{ast.NewParamDecl("a", intType(), nil, source.Span{})}, intType(), nil, source.Span{})
	f2 := ast.NewFunctionDecl("f", []*ast.ParamDecl{ast.NewParamDecl("a", intType(), nil, source.Span{}), ast.NewParamDecl("b", intType(), nil, source.Span{})}, intType(), nil, source.Span{})
	f2.Base().NextWithSameName = f1
	c.scope.Declare("f", f2)

	result := c.lookup("f")
	if len(result.Items) != 2 {
		t.Fatalf("expected both overloads of f, got %d", len(result.Items))
	}
	if result.Items[0].Decl != ast.Decl(f2) || result.Items[1].Decl != ast.Decl(f1) {
		t.Errorf("expected the chain head first, then its NextWithSameName link")
	}
	for _, it := range result.Items {
		if it.Category != CategoryFunction {
			t.Errorf("a FunctionDecl must be categorized as CategoryFunction")
		}
	}
}

func TestLookupUnboundNameReturnsEmptyResult(t *testing.T) {
	c := &Checker{}
	c.scope = NewScope(nil)
	result := c.lookup("nope")
	if len(result.Items) != 0 {
		t.Errorf("expected no items for an unbound name, got %d", len(result.Items))
	}
}

func TestDeclareLocalShadowsWithoutChaining(t *testing.T) {
	c := &Checker{}
	c.scope = NewScope(nil)

	intType := func() ast.Type { return ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}) }
	outer := ast.NewVarDecl("x", intType(), nil, source.Span{})
	c.declareLocal(outer)

	c.pushScope()
	inner := ast.NewVarDecl("x", intType(), nil, source.Span{})
	c.declareLocal(inner)

	if inner.Base().NextWithSameName != nil {
		t.Errorf("a local in a fresh inner scope must not chain onto an outer same-named local")
	}
	if d, _ := c.scope.Resolve("x"); d != ast.Decl(inner) {
		t.Errorf("the inner scope must resolve to the shadowing declaration")
	}

	c.popScope()
	if d, _ := c.scope.Resolve("x"); d != ast.Decl(outer) {
		t.Errorf("popping back to the outer scope must resolve to the outer declaration again")
	}
}

func TestDeclareLocalChainsWithinSameScope(t *testing.T) {
	c := &Checker{}
	c.scope = NewScope(nil)

	intType := func() ast.Type { return ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}) }
	f1 := ast.NewFunctionDecl("f", nil, intType(), nil, source.Span{})
	c.declareLocal(f1)
	f2 := ast.NewFunctionDecl("f", []*ast.ParamDecl{ast.NewParamDecl("a", intType(), nil, source.Span{})}, intType(), nil, source.Span{})
	c.declareLocal(f2)

	if f2.Base().NextWithSameName != ast.Decl(f1) {
		t.Errorf("declaring a second same-named local in the same scope must chain onto the first")
	}
}
