package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

func TestScopeResolveFindsInInnerThenOuter(t *testing.T) {
	outer := NewScope(nil)
	outerDecl := ast.NewVarDecl("x", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), nil, source.Span{})
	outer.Declare("x", outerDecl)

	inner := NewScope(outer)
	innerDecl := ast.NewVarDecl("y", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), nil, source.Span{})
	inner.Declare("y", innerDecl)

	if d, sc := inner.Resolve("y"); d != innerDecl || sc != inner {
		t.Errorf("expected y to resolve in the inner scope")
	}
	if d, sc := inner.Resolve("x"); d != outerDecl || sc != outer {
		t.Errorf("expected x to resolve by walking out to the outer scope")
	}
	if d, _ := inner.Resolve("z"); d != nil {
		t.Errorf("expected an unbound name to resolve to nil")
	}
}

func TestScopeResolveInnerShadowsOuter(t *testing.T) {
	outer := NewScope(nil)
	outerX := ast.NewVarDecl("x", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), nil, source.Span{})
	outer.Declare("x", outerX)

	inner := NewScope(outer)
	innerX := ast.NewVarDecl("x", ast.NewNamedTypeExpr(ast.NewIdent("float", source.Span{}), source.Span{}), nil, source.Span{})
	inner.Declare("x", innerX)

	d, sc := inner.Resolve("x")
	if d != innerX || sc != inner {
		t.Errorf("an inner declaration must shadow an outer one of the same name")
	}
}

func TestLookupResultFilterByMask(t *testing.T) {
	r := LookupResult{
		Name: "f",
		Items: []LookupResultItem{
			{Category: CategoryFunction},
			{Category: CategoryType},
			{Category: CategoryValue},
		},
	}
	if got := len(r.Filter(MaskFunction)); got != 1 {
		t.Errorf("expected 1 function-category item, got %d", got)
	}
	if got := len(r.Filter(MaskFunction | MaskType)); got != 2 {
		t.Errorf("expected 2 items, got %d", got)
	}
	if got := len(r.Filter(MaskAny)); got != 3 {
		t.Errorf("MaskAny must pass every item, got %d", got)
	}
}

func TestLookupResultSole(t *testing.T) {
	empty := LookupResult{Name: "f"}
	if _, ok := empty.Sole(); ok {
		t.Errorf("Sole must fail on an empty result")
	}

	one := LookupResult{Name: "f", Items: []LookupResultItem{{Category: CategoryValue}}}
	item, ok := one.Sole()
	if !ok || item.Category != CategoryValue {
		t.Errorf("Sole must return the single item")
	}

	two := LookupResult{Name: "f", Items: []LookupResultItem{{Category: CategoryFunction}, {Category: CategoryFunction}}}
	if _, ok := two.Sole(); ok {
		t.Errorf("Sole must fail when more than one item is present (ambiguous)")
	}
}
