// Package sema is the semantic analysis core: the declaration-check state
// machine, the type coercion engine, the overload resolver, the generic
// constraint solver, the constant folder, name lookup, the type system
// kernel, and the statement/expression visitor. It consumes an unchecked
// AST and a compile session and produces a checked tree plus diagnostics.
package sema

import (
	"fmt"
	"strings"
)

// Type is a structural value: two types are equal iff they are
// structurally equal. Basic is a primitive-kind-keyed singleton; every
// other variant is a plain struct compared field-by-field by Equal.
type Type interface {
	String() string
	Equal(other Type) bool
	isType()
}

// BasicKind enumerates the scalar types seeded by the standard library.
type BasicKind string

const (
	KindVoid  BasicKind = "void"
	KindBool  BasicKind = "bool"
	KindInt   BasicKind = "int"
	KindUint  BasicKind = "uint"
	KindFloat BasicKind = "float"
)

// basicRank orders basic numeric types for the join rule: between two
// basic numeric types, the higher-ranked one wins. Half->float promotion
// is future work; there is no Half kind yet.
var basicRank = map[BasicKind]int{
	KindBool:  0,
	KindInt:   1,
	KindUint:  2,
	KindFloat: 3,
}

// Basic is a scalar type.
type Basic struct {
	Kind BasicKind
}

func (b *Basic) String() string        { return string(b.Kind) }
func (b *Basic) Equal(o Type) bool     { ob, ok := o.(*Basic); return ok && ob.Kind == b.Kind }
func (*Basic) isType()                 {}
func (b *Basic) IsNumeric() bool       { _, ok := basicRank[b.Kind]; return ok && b.Kind != KindBool }
func (b *Basic) IsIntegral() bool      { return b.Kind == KindInt || b.Kind == KindUint }

var (
	TypeVoid  = &Basic{Kind: KindVoid}
	TypeBool  = &Basic{Kind: KindBool}
	TypeInt   = &Basic{Kind: KindInt}
	TypeUint  = &Basic{Kind: KindUint}
	TypeFloat = &Basic{Kind: KindFloat}
)

// Error is the absorbing sentinel type. There is exactly one instance;
// every Equal check against it (from either side) succeeds so cascades
// don't fire.
type Error struct{}

func (*Error) String() string    { return "<error>" }
func (*Error) Equal(Type) bool   { return true }
func (*Error) isType()           {}

var TypeError = &Error{}

// IsError reports whether t is the error sentinel (nil also counts, since
// a checked expression's Type must never be nil).
func IsError(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*Error)
	return ok
}

// DeclRef names a declaration together with the substitution chain active
// at the point of reference. It is the canonical form of every named type.
type DeclRef struct {
	Decl  interface{} // *ast.Decl-implementing value; interface{} avoids an ast<->sema cycle
	Subst *Subst
}

// DeclRefType is a type denoted by a declaration reference: structs,
// classes, interfaces, typedef targets once resolved, and generic
// instantiations of user declarations.
type DeclRefType struct {
	Ref DeclRef
}

func NewDeclRefType(decl interface{}, subst *Subst) *DeclRefType {
	return &DeclRefType{Ref: DeclRef{Decl: decl, Subst: subst}}
}

func (d *DeclRefType) String() string {
	name := declName(d.Ref.Decl)
	if d.Ref.Subst == nil || len(d.Ref.Subst.Args) == 0 {
		return name
	}
	parts := make([]string, len(d.Ref.Subst.Args))
	for i, a := range d.Ref.Subst.Args {
		parts[i] = fmt.Sprint(a)
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

func (d *DeclRefType) Equal(o Type) bool {
	od, ok := o.(*DeclRefType)
	if !ok {
		return false
	}
	if d.Ref.Decl != od.Ref.Decl {
		return false
	}
	return substEqual(d.Ref.Subst, od.Ref.Subst)
}
func (*DeclRefType) isType() {}

// declName extracts a Decl's Name field via the interface's Base() method.
// Kept as a tiny shim so types.go doesn't need to import ast directly,
// preserving the package's independence from the node model it checks.
func declName(d interface{}) string {
	type named interface{ DeclName() string }
	if n, ok := d.(named); ok {
		return n.DeclName()
	}
	return fmt.Sprintf("%v", d)
}

// Vector is an element type plus a compile-time element count.
type Vector struct {
	Elem  Type
	Count int
}

func NewVector(elem Type, count int) *Vector { return &Vector{Elem: elem, Count: count} }

func (v *Vector) String() string { return fmt.Sprintf("vector<%s,%d>", v.Elem, v.Count) }
func (v *Vector) Equal(o Type) bool {
	ov, ok := o.(*Vector)
	return ok && v.Count == ov.Count && v.Elem.Equal(ov.Elem)
}
func (*Vector) isType() {}

// Matrix is an element type plus row/column counts.
type Matrix struct {
	Elem       Type
	Rows, Cols int
}

func (m *Matrix) String() string { return fmt.Sprintf("matrix<%s,%d,%d>", m.Elem, m.Rows, m.Cols) }
func (m *Matrix) Equal(o Type) bool {
	om, ok := o.(*Matrix)
	return ok && m.Rows == om.Rows && m.Cols == om.Cols && m.Elem.Equal(om.Elem)
}
func (*Matrix) isType() {}

// Array is an element type with an optional compile-time size; Size < 0
// means unknown/unsized.
type Array struct {
	Elem Type
	Size int
}

func NewArray(elem Type, size int) *Array { return &Array{Elem: elem, Size: size} }

func (a *Array) String() string {
	if a.Size < 0 {
		return a.Elem.String() + "[]"
	}
	return fmt.Sprintf("%s[%d]", a.Elem, a.Size)
}
func (a *Array) Equal(o Type) bool {
	oa, ok := o.(*Array)
	return ok && a.Size == oa.Size && a.Elem.Equal(oa.Elem)
}
func (*Array) isType() {}

// PointerLike is the pointer/out-target wrapper.
type PointerLike struct {
	Elem Type
}

func (p *PointerLike) String() string { return p.Elem.String() + "*" }
func (p *PointerLike) Equal(o Type) bool {
	op, ok := o.(*PointerLike)
	return ok && p.Elem.Equal(op.Elem)
}
func (*PointerLike) isType() {}

// FunctionType is a function signature used when a function is referenced
// as a first-class value (e.g. in a LookupResult filtered to Function
// category).
type FunctionType struct {
	Params []Type
	Return Type
}

func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (f *FunctionType) Equal(o Type) bool {
	of, ok := o.(*FunctionType)
	if !ok || len(f.Params) != len(of.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(of.Params[i]) {
			return false
		}
	}
	if f.Return == nil || of.Return == nil {
		return f.Return == of.Return
	}
	return f.Return.Equal(of.Return)
}
func (*FunctionType) isType() {}

// OverloadGroup is the internal type assigned to an expression whose
// lookup produced more than one candidate and that has not yet been
// resolved against an argument list or a LookupMask.
type OverloadGroup struct {
	Items []LookupResultItem
}

func (o *OverloadGroup) String() string { return fmt.Sprintf("<overload-group:%d>", len(o.Items)) }
func (o *OverloadGroup) Equal(Type) bool { return false }
func (*OverloadGroup) isType()          {}

// TypeOfType is the type of a type-valued expression: e.g. the expression
// "int" used where a value is syntactically expected, such as the base of
// "int[3]".
type TypeOfType struct {
	Referenced Type
}

func (t *TypeOfType) String() string { return "typeof(" + t.Referenced.String() + ")" }
func (t *TypeOfType) Equal(o Type) bool {
	ot, ok := o.(*TypeOfType)
	return ok && t.Referenced.Equal(ot.Referenced)
}
func (*TypeOfType) isType() {}

// TypeParamRef is the symbolic stand-in for a generic type parameter,
// produced while checking the single header/body pass over the generic
// declaration that introduces it (module order step 5: generic wrappers
// are checked once, not once per instantiation). Every per-instantiation
// reference instead resolves through a Subst, which substitutes this node
// away, the same replace-by-name walk a simpler generics implementation
// would call replaceTypeParamsInType.
type TypeParamRef struct {
	Decl interface{} // *ast.GenericTypeParamDecl
}

func (t *TypeParamRef) String() string { return declName(t.Decl) }
func (t *TypeParamRef) Equal(o Type) bool {
	ot, ok := o.(*TypeParamRef)
	return ok && ot.Decl == t.Decl
}
func (*TypeParamRef) isType() {}

// InterfaceType names an interface declaration (kept distinct from
// DeclRefType so join's "either is an interface-declaration type" rule and
// the coercion engine's interface rule can pattern-match on it directly).
type InterfaceType struct {
	Ref DeclRef
}

func NewInterfaceType(decl interface{}) *InterfaceType {
	return &InterfaceType{Ref: DeclRef{Decl: decl}}
}

func (t *InterfaceType) String() string { return declName(t.Ref.Decl) }
func (t *InterfaceType) Equal(o Type) bool {
	ot, ok := o.(*InterfaceType)
	return ok && t.Ref.Decl == ot.Ref.Decl
}
func (*InterfaceType) isType() {}
