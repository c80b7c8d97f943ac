package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

func TestBasicEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"int equals int", TypeInt, TypeInt, true},
		{"int not equals float", TypeInt, TypeFloat, false},
		{"int not equals vector", TypeInt, NewVector(TypeInt, 3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestErrorTypeAbsorbs(t *testing.T) {
	if !TypeError.Equal(TypeInt) {
		t.Errorf("error type must compare equal to anything")
	}
	if !TypeInt.Equal(TypeError) {
		t.Errorf("error type must compare equal from either side; Equal is only guaranteed symmetric for the error sentinel")
	}
	if IsError(nil) != true {
		t.Errorf("nil must count as an error type")
	}
	if IsError(TypeInt) {
		t.Errorf("TypeInt is not an error type")
	}
}

func TestVectorEqual(t *testing.T) {
	v1 := NewVector(TypeFloat, 3)
	v2 := NewVector(TypeFloat, 3)
	v3 := NewVector(TypeFloat, 4)
	v4 := NewVector(TypeInt, 3)

	if !v1.Equal(v2) {
		t.Errorf("vectors with the same elem/count must be equal")
	}
	if v1.Equal(v3) {
		t.Errorf("vectors with different counts must not be equal")
	}
	if v1.Equal(v4) {
		t.Errorf("vectors with different element types must not be equal")
	}
	if got, want := v1.String(), "vector<float,3>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMatrixEqual(t *testing.T) {
	m1 := &Matrix{Elem: TypeFloat, Rows: 4, Cols: 4}
	m2 := &Matrix{Elem: TypeFloat, Rows: 4, Cols: 4}
	m3 := &Matrix{Elem: TypeFloat, Rows: 3, Cols: 3}

	if !m1.Equal(m2) {
		t.Errorf("matrices with the same shape must be equal")
	}
	if m1.Equal(m3) {
		t.Errorf("matrices with different shapes must not be equal")
	}
}

func TestArrayEqual(t *testing.T) {
	sized := NewArray(TypeInt, 4)
	sameSized := NewArray(TypeInt, 4)
	unsized := NewArray(TypeInt, -1)

	if !sized.Equal(sameSized) {
		t.Errorf("arrays with the same elem/size must be equal")
	}
	if sized.Equal(unsized) {
		t.Errorf("a sized array must not equal an unsized array of the same element type")
	}
	if got, want := unsized.String(), "int[]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := sized.String(), "int[4]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDeclRefTypeEqual(t *testing.T) {
	declA := ast.NewAggregateDecl("Foo", false, source.Span{})
	declB := ast.NewAggregateDecl("Bar", false, source.Span{})

	ta := NewDeclRefType(declA, nil)
	ta2 := NewDeclRefType(declA, nil)
	tb := NewDeclRefType(declB, nil)

	if !ta.Equal(ta2) {
		t.Errorf("two DeclRefType values over the same declaration and a nil Subst must be equal")
	}
	if ta.Equal(tb) {
		t.Errorf("DeclRefType values over different declarations must not be equal")
	}
	if got, want := ta.String(), "Foo"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDeclRefTypeEqualWithSubst(t *testing.T) {
	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	agg := ast.NewAggregateDecl("Box", false, source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{tParam}, agg, source.Span{})

	substFloat := NewSubst(wrapper, []Arg{TypeArg(TypeFloat)})
	substInt := NewSubst(wrapper, []Arg{TypeArg(TypeInt)})

	tFloat := NewDeclRefType(agg, substFloat)
	tFloat2 := NewDeclRefType(agg, NewSubst(wrapper, []Arg{TypeArg(TypeFloat)}))
	tInt := NewDeclRefType(agg, substInt)

	if !tFloat.Equal(tFloat2) {
		t.Errorf("DeclRefType values with equal Subst args must be equal")
	}
	if tFloat.Equal(tInt) {
		t.Errorf("DeclRefType values with different Subst args must not be equal")
	}
	if got, want := tFloat.String(), "Box<float>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFunctionTypeEqual(t *testing.T) {
	f1 := &FunctionType{Params: []Type{TypeInt, TypeFloat}, Return: TypeVoid}
	f2 := &FunctionType{Params: []Type{TypeInt, TypeFloat}, Return: TypeVoid}
	f3 := &FunctionType{Params: []Type{TypeInt}, Return: TypeVoid}
	f4 := &FunctionType{Params: []Type{TypeInt, TypeFloat}, Return: TypeInt}

	if !f1.Equal(f2) {
		t.Errorf("function types with equal signatures must be equal")
	}
	if f1.Equal(f3) {
		t.Errorf("function types with different arity must not be equal")
	}
	if f1.Equal(f4) {
		t.Errorf("function types with different return types must not be equal")
	}
}

func TestBasicIsNumericIsIntegral(t *testing.T) {
	if !TypeInt.IsNumeric() || !TypeInt.IsIntegral() {
		t.Errorf("int must be numeric and integral")
	}
	if !TypeFloat.IsNumeric() || TypeFloat.IsIntegral() {
		t.Errorf("float must be numeric but not integral")
	}
	if TypeBool.IsNumeric() || TypeBool.IsIntegral() {
		t.Errorf("bool must be neither numeric nor integral")
	}
	if TypeVoid.IsNumeric() {
		t.Errorf("void must not be numeric")
	}
}
