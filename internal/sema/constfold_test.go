package sema

import (
	"strconv"
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

func intLit(n string) *ast.IntegerLit { return ast.NewIntegerLit(n, source.Span{}) }

func TestTryFoldValueIntegerLiteral(t *testing.T) {
	c := &Checker{}
	v, ok := c.tryFoldValue(intLit("42"))
	if !ok {
		t.Fatalf("expected a literal to fold")
	}
	if got, want := v, (ConstantInt{V: 42}); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTryFoldValueMalformedLiteral(t *testing.T) {
	c := &Checker{}
	if _, ok := c.tryFoldValue(intLit("not-a-number")); ok {
		t.Errorf("a malformed literal must not fold")
	}
}

func TestTryFoldValueParenUnwraps(t *testing.T) {
	c := &Checker{}
	p := &ast.ParenExpr{Inner: intLit("5")}
	v, ok := c.tryFoldValue(p)
	if !ok || !v.Equal(ConstantInt{V: 5}) {
		t.Errorf("a parenthesized literal must fold through to its inner value, got %v, %v", v, ok)
	}
}

func TestTryFoldValueImplicitCastUnwraps(t *testing.T) {
	c := &Checker{}
	ic := ast.NewImplicitCastExpr(intLit("9"), source.Span{})
	v, ok := c.tryFoldValue(ic)
	if !ok || !v.Equal(ConstantInt{V: 9}) {
		t.Errorf("an ImplicitCastExpr must fold through to its inner value, got %v, %v", v, ok)
	}
}

func TestTryFoldPrefixNegation(t *testing.T) {
	c := &Checker{}
	e := &ast.PrefixExpr{Op: "-", Operand: intLit("3")}
	v, ok := c.tryFoldValue(e)
	if !ok || !v.Equal(ConstantInt{V: -3}) {
		t.Errorf("got %v, %v, want -3, true", v, ok)
	}
}

func TestTryFoldPrefixUnaryPlusNotSupported(t *testing.T) {
	c := &Checker{}
	e := &ast.PrefixExpr{Op: "+", Operand: intLit("3")}
	if _, ok := c.tryFoldValue(e); ok {
		t.Errorf("unary + is not wired into the folder and must not fold")
	}
}

func TestTryFoldInfixArithmetic(t *testing.T) {
	c := &Checker{}
	tests := []struct {
		op       string
		lhs, rhs int64
		want     int64
		wantOk   bool
	}{
		{"+", 2, 3, 5, true},
		{"-", 5, 3, 2, true},
		{"*", 4, 3, 12, true},
		{"/", 10, 2, 5, true},
		{"/", 10, 0, 0, false},
		{"%", 10, 3, 1, true},
		{"%", 10, 0, 0, false},
	}
	for _, tt := range tests {
		e := ast.NewInfixExpr(tt.op, intLit(strconv.FormatInt(tt.lhs, 10)), intLit(strconv.FormatInt(tt.rhs, 10)), source.Span{})
		v, ok := c.tryFoldValue(e)
		if ok != tt.wantOk {
			t.Errorf("%d %s %d: ok = %v, want %v", tt.lhs, tt.op, tt.rhs, ok, tt.wantOk)
			continue
		}
		if ok && !v.Equal(ConstantInt{V: tt.want}) {
			t.Errorf("%d %s %d = %v, want %d", tt.lhs, tt.op, tt.rhs, v, tt.want)
		}
	}
}

func TestTryFoldInfixUnsupportedOpNotFoldable(t *testing.T) {
	c := &Checker{}
	e := ast.NewInfixExpr("&&", intLit("1"), intLit("0"), source.Span{})
	if _, ok := c.tryFoldValue(e); ok {
		t.Errorf("a non-arithmetic infix op must not fold")
	}
}

func TestTryFoldInvokeSymbolicArgumentBlocks(t *testing.T) {
	c := &Checker{}
	declN := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	c.scope = NewScope(nil)
	c.scope.Declare("N", declN)

	e := ast.NewInfixExpr("+", ast.NewIdent("N", source.Span{}), intLit("1"), source.Span{})
	if _, ok := c.tryFoldValue(e); ok {
		t.Errorf("folding an expression mixing a symbolic generic parameter must fail, not silently drop the symbol")
	}
}

func TestTryFoldIdentGenericValueParamStaysSymbolic(t *testing.T) {
	c := &Checker{}
	declN := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	c.scope = NewScope(nil)
	c.scope.Declare("N", declN)

	v, ok := c.tryFoldValue(ast.NewIdent("N", source.Span{}))
	if !ok {
		t.Fatalf("a generic value parameter reference must fold to a symbolic value")
	}
	if _, isSymbolic := v.(GenericParamInt); !isSymbolic {
		t.Errorf("expected a GenericParamInt, got %T", v)
	}
}

func TestTryFoldIntegerRejectsSymbolic(t *testing.T) {
	c := &Checker{}
	declN := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	c.scope = NewScope(nil)
	c.scope.Declare("N", declN)

	if _, ok := c.tryFoldInteger(ast.NewIdent("N", source.Span{})); ok {
		t.Errorf("tryFoldInteger must reject a symbolic result, an array size needs a fixed count")
	}
}

func TestTryFoldIntegerAcceptsConcrete(t *testing.T) {
	c := &Checker{}
	n, ok := c.tryFoldInteger(intLit("8"))
	if !ok || n != 8 {
		t.Errorf("got %d, %v, want 8, true", n, ok)
	}
}
