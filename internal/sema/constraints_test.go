package sema

import (
	"testing"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

func TestJoinBasicHigherRankWins(t *testing.T) {
	got, ok := joinBasic(&Basic{Kind: KindInt}, &Basic{Kind: KindFloat})
	if !ok || !got.Equal(TypeFloat) {
		t.Errorf("joinBasic(int, float) = %v, %v, want float, true", got, ok)
	}
	got, ok = joinBasic(&Basic{Kind: KindFloat}, &Basic{Kind: KindInt})
	if !ok || !got.Equal(TypeFloat) {
		t.Errorf("joinBasic(float, int) = %v, %v, want float, true (order must not matter)", got, ok)
	}
}

func TestJoinErrorAbsorbs(t *testing.T) {
	c := &Checker{}
	got, ok := c.join(TypeError, TypeInt)
	if !ok || !got.Equal(TypeInt) {
		t.Errorf("join(error, int) = %v, %v, want int, true", got, ok)
	}
	got, ok = c.join(TypeInt, TypeError)
	if !ok || !got.Equal(TypeInt) {
		t.Errorf("join(int, error) = %v, %v, want int, true", got, ok)
	}
}

func TestJoinVectorRecursesElement(t *testing.T) {
	c := &Checker{}
	l := NewVector(TypeInt, 3)
	r := NewVector(TypeFloat, 3)
	got, ok := c.join(l, r)
	if !ok {
		t.Fatalf("join of same-count vectors over joinable elements must succeed")
	}
	v, isVec := got.(*Vector)
	if !isVec || v.Count != 3 || !v.Elem.Equal(TypeFloat) {
		t.Errorf("got %v, want vector<float,3>", got)
	}
}

func TestJoinVectorCountMismatchFails(t *testing.T) {
	c := &Checker{}
	if _, ok := c.join(NewVector(TypeInt, 3), NewVector(TypeInt, 4)); ok {
		t.Errorf("vectors with different counts must not join")
	}
}

func TestJoinUnrelatedTypesFail(t *testing.T) {
	c := &Checker{}
	if _, ok := c.join(TypeBool, NewVector(TypeInt, 3)); ok {
		t.Errorf("bool and a vector share no join")
	}
}

func TestTryUnifyEqualTypesSucceedNoConstraints(t *testing.T) {
	c := &Checker{}
	cs := NewConstraintSystem(nil)
	if !c.tryUnify(cs, TypeInt, TypeInt) {
		t.Fatalf("unifying equal types must succeed")
	}
	if len(cs.constraints) != 0 {
		t.Errorf("unifying two concrete equal types must not emit a constraint")
	}
}

func TestTryUnifyTypeParamEmitsConstraint(t *testing.T) {
	c := &Checker{}
	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{tParam}, ast.NewAggregateDecl("Box", false, source.Span{}), source.Span{})
	cs := NewConstraintSystem(wrapper)

	ref := &TypeParamRef{Decl: tParam}
	if !c.tryUnify(cs, ref, TypeFloat) {
		t.Fatalf("unifying a type-param ref against a concrete type must succeed")
	}
	if len(cs.constraints) != 1 || cs.constraints[0].decl != tParam || !cs.constraints[0].typeVal.Equal(TypeFloat) {
		t.Errorf("expected one constraint binding T to float, got %+v", cs.constraints)
	}
}

func TestTryUnifyVectorScalarRecursesOnElement(t *testing.T) {
	c := &Checker{}
	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{tParam}, ast.NewAggregateDecl("Box", false, source.Span{}), source.Span{})
	cs := NewConstraintSystem(wrapper)

	vecOfParam := NewVector(&TypeParamRef{Decl: tParam}, 3)
	if !c.tryUnify(cs, vecOfParam, NewVector(TypeFloat, 3)) {
		t.Fatalf("unifying vector<T,3> against vector<float,3> must succeed")
	}
	if len(cs.constraints) != 1 || !cs.constraints[0].typeVal.Equal(TypeFloat) {
		t.Errorf("expected T bound to float, got %+v", cs.constraints)
	}
}

func TestTryUnifyVectorCountMismatchFails(t *testing.T) {
	c := &Checker{}
	cs := NewConstraintSystem(nil)
	if c.tryUnify(cs, NewVector(TypeFloat, 3), NewVector(TypeFloat, 4)) {
		t.Errorf("vectors with different counts must not unify")
	}
}

func TestTryUnifyValueConstantsMustMatch(t *testing.T) {
	c := &Checker{}
	cs := NewConstraintSystem(nil)
	if !c.tryUnifyValue(cs, ConstantInt{V: 3}, ConstantInt{V: 3}) {
		t.Errorf("equal constants must unify")
	}
	if c.tryUnifyValue(cs, ConstantInt{V: 3}, ConstantInt{V: 4}) {
		t.Errorf("different constants must not unify")
	}
}

func TestTryUnifyValueGenericParamEmitsIntConstraint(t *testing.T) {
	c := &Checker{}
	declN := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	cs := NewConstraintSystem(nil)

	if !c.tryUnifyValue(cs, GenericParamInt{Decl: declN}, ConstantInt{V: 5}) {
		t.Fatalf("unifying a symbolic generic value param against a constant must succeed")
	}
	if len(cs.constraints) != 1 || cs.constraints[0].kind != constraintIntParam || cs.constraints[0].decl != declN {
		t.Errorf("expected one int constraint on N, got %+v", cs.constraints)
	}
}

func TestSolveJoinsTypeConstraintsAcrossMultipleSites(t *testing.T) {
	c := &Checker{}
	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	nParam := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{tParam, nParam}, ast.NewAggregateDecl("Box", false, source.Span{}), source.Span{})

	cs := NewConstraintSystem(wrapper)
	cs.addTypeConstraint(tParam, TypeInt)
	cs.addTypeConstraint(tParam, TypeFloat) // joining int with float must widen to float
	cs.addIntConstraint(nParam, ConstantInt{V: 3})

	subst, ok := c.solve(cs)
	if !ok {
		t.Fatalf("solve must succeed when every bindable param has at least one constraint")
	}
	tArg, _ := subst.Lookup(0)
	if !tArg.Type.Equal(TypeFloat) {
		t.Errorf("T must solve to float (the join of int and float), got %v", tArg.Type)
	}
	nArg, _ := subst.Lookup(1)
	if !nArg.Value.Equal(ConstantInt{V: 3}) {
		t.Errorf("N must solve to 3, got %v", nArg.Value)
	}
}

func TestSolveFailsWhenParamHasNoConstraint(t *testing.T) {
	c := &Checker{}
	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{tParam}, ast.NewAggregateDecl("Box", false, source.Span{}), source.Span{})
	cs := NewConstraintSystem(wrapper)

	if _, ok := c.solve(cs); ok {
		t.Errorf("solve must fail when a bindable param was never constrained by the call site")
	}
}

func TestSolveFailsOnConflictingIntConstraints(t *testing.T) {
	c := &Checker{}
	nParam := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})
	wrapper := ast.NewGenericWrapperDecl([]ast.Decl{nParam}, ast.NewAggregateDecl("Box", false, source.Span{}), source.Span{})

	cs := NewConstraintSystem(wrapper)
	cs.addIntConstraint(nParam, ConstantInt{V: 3})
	cs.addIntConstraint(nParam, ConstantInt{V: 4})

	if _, ok := c.solve(cs); ok {
		t.Errorf("solve must fail when a value param is constrained to two disagreeing constants")
	}
}
