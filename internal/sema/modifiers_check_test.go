package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

func TestCheckNumThreadsModifierFoldsArgs(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	m := &ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "numthreads",
		AttributeArgs: []ast.Expr{intLit("8"), intLit("4"), intLit("1")},
	}

	c.checkNumThreadsModifier(m)

	if m.Kind != ast.ModNumThreads {
		t.Fatalf("expected the modifier to be rewritten to ModNumThreads, got %v", m.Kind)
	}
	if m.NumThreadsX != 8 || m.NumThreadsY != 4 || m.NumThreadsZ != 1 {
		t.Errorf("got (%d,%d,%d), want (8,4,1)", m.NumThreadsX, m.NumThreadsY, m.NumThreadsZ)
	}
}

func TestCheckNumThreadsModifierWrongArityLeftUnchecked(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	m := &ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "numthreads",
		AttributeArgs: []ast.Expr{intLit("8"), intLit("4")},
	}

	c.checkNumThreadsModifier(m)

	if m.Kind != ast.ModUncheckedAttribute {
		t.Errorf("numthreads with the wrong arity must be left unchecked, got %v", m.Kind)
	}
}

func TestCheckLayoutBindingModifierWithSet(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	m := &ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "register",
		AttributeArgs: []ast.Expr{intLit("2"), intLit("1")},
	}

	c.checkLayoutBindingModifier(m)

	if m.Kind != ast.ModLayoutBinding || m.Binding != 2 || m.Set != 1 {
		t.Errorf("got Kind=%v Binding=%d Set=%d, want ModLayoutBinding Binding=2 Set=1", m.Kind, m.Binding, m.Set)
	}
}

func TestCheckLayoutBindingModifierDefaultsSetToZero(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	m := &ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "register",
		AttributeArgs: []ast.Expr{intLit("5")},
	}

	c.checkLayoutBindingModifier(m)

	if m.Kind != ast.ModLayoutBinding || m.Binding != 5 || m.Set != 0 {
		t.Errorf("got Kind=%v Binding=%d Set=%d, want ModLayoutBinding Binding=5 Set=0", m.Kind, m.Binding, m.Set)
	}
}

func TestCheckDeclModifiersDispatchesByAttributeName(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	fn := ast.NewFunctionDecl("cs_main", nil, ast.NewNamedTypeExpr(ast.NewIdent("void", source.Span{}), source.Span{}), nil, source.Span{})
	fn.Modifiers = append(fn.Modifiers, ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "numthreads",
		AttributeArgs: []ast.Expr{intLit("1"), intLit("1"), intLit("1")},
	})

	c.checkDeclModifiers(fn)

	if fn.Modifiers[0].Kind != ast.ModNumThreads {
		t.Errorf("checkDeclModifiers must route a numthreads attribute to checkNumThreadsModifier")
	}
}

func TestCheckDeclModifiersIgnoresUnrecognizedAttribute(t *testing.T) {
	c := &Checker{typeCache: make(map[ast.Type]Type), declTypes: make(map[ast.Decl]Type)}
	fn := ast.NewFunctionDecl("f", nil, ast.NewNamedTypeExpr(ast.NewIdent("void", source.Span{}), source.Span{}), nil, source.Span{})
	fn.Modifiers = append(fn.Modifiers, ast.Modifier{
		Kind:          ast.ModUncheckedAttribute,
		AttributeName: "earlydepthstencil",
	})

	c.checkDeclModifiers(fn)

	if fn.Modifiers[0].Kind != ast.ModUncheckedAttribute {
		t.Errorf("an unrecognized attribute must be left untouched")
	}
}
