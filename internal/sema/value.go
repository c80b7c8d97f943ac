package sema

import "fmt"

// Value is a compile-time value: the result of constant folding or an
// as-yet-unresolved generic integer parameter.
type Value interface {
	String() string
	Equal(other Value) bool
	isValue()
}

// ConstantInt is a folded integer constant.
type ConstantInt struct {
	V int64
}

func (c ConstantInt) String() string { return fmt.Sprint(c.V) }
func (c ConstantInt) Equal(o Value) bool {
	oc, ok := o.(ConstantInt)
	return ok && oc.V == c.V
}
func (ConstantInt) isValue() {}

// GenericParamInt is a symbolic reference to an unresolved generic
// value-parameter: e.g. the N in "vector<T,N>" before instantiation, or a
// GLSL constant_id specialization constant that stays symbolic.
type GenericParamInt struct {
	Decl interface{} // *ast.GenericValueParamDecl
}

func (g GenericParamInt) String() string { return declName(g.Decl) }
func (g GenericParamInt) Equal(o Value) bool {
	og, ok := o.(GenericParamInt)
	return ok && og.Decl == g.Decl
}
func (GenericParamInt) isValue() {}

// ArithTree is an unfolded arithmetic expression over generic integer
// parameters: integer constant expressions that mix generic params with
// literals, e.g. "N + 1", are retained symbolically until instantiation
// substitutes concrete values.
type ArithTree struct {
	Op          string // "+", "-", "*", "/", "%", "neg"
	Left, Right Value // Right is nil for "neg"
}

func (t ArithTree) String() string {
	if t.Right == nil {
		return t.Op + t.Left.String()
	}
	return "(" + t.Left.String() + " " + t.Op + " " + t.Right.String() + ")"
}

func (t ArithTree) Equal(o Value) bool {
	ot, ok := o.(ArithTree)
	if !ok || t.Op != ot.Op {
		return false
	}
	if t.Left == nil || ot.Left == nil {
		if t.Left != ot.Left {
			return false
		}
	} else if !t.Left.Equal(ot.Left) {
		return false
	}
	if t.Right == nil || ot.Right == nil {
		return t.Right == ot.Right
	}
	return t.Right.Equal(ot.Right)
}
func (ArithTree) isValue() {}

// Arg is one entry in a generic instantiation's argument list: exactly one
// of Type or Value is set, matching whether the corresponding generic
// parameter is a GenericTypeParamDecl or a GenericValueParamDecl.
type Arg struct {
	Type  Type
	Value Value
}

func TypeArg(t Type) Arg   { return Arg{Type: t} }
func ValueArg(v Value) Arg { return Arg{Value: v} }

func (a Arg) String() string {
	if a.Type != nil {
		return a.Type.String()
	}
	if a.Value != nil {
		return a.Value.String()
	}
	return "<empty-arg>"
}

func (a Arg) Equal(o Arg) bool {
	if (a.Type == nil) != (o.Type == nil) {
		return false
	}
	if a.Type != nil {
		return a.Type.Equal(o.Type)
	}
	if (a.Value == nil) != (o.Value == nil) {
		return false
	}
	if a.Value == nil {
		return true
	}
	return a.Value.Equal(o.Value)
}
