package ast

import "github.com/shade-lang/shadec/internal/source"

// NamedTypeExpr is a bare name used in type position, e.g. "float" or
// "MyStruct". Generic instantiation is carried separately by
// GenericAppTypeExpr so that "Vector" and "Vector<float, 3>" are distinct
// node shapes, matching how the checker's lookup resolves the base name
// first and then applies arguments.
type NamedTypeExpr struct {
	Name *Ident
	span source.Span
}

func NewNamedTypeExpr(name *Ident, span source.Span) *NamedTypeExpr {
	return &NamedTypeExpr{Name: name, span: span}
}
func (t *NamedTypeExpr) Span() source.Span { return t.span }
func (*NamedTypeExpr) typeNode()           {}

// GenericAppTypeExpr is a named type applied to type/value arguments, e.g.
// "vector<float, 3>". Arguments are themselves a mix of TypeExpr and Expr
// (value arguments, such as the element count); they are disambiguated
// during checking by the generic's declared parameter kinds.
type GenericAppTypeExpr struct {
	Base Type
	Args []Node // each is either a Type or an Expr
	span source.Span
}

func NewGenericAppTypeExpr(base Type, args []Node, span source.Span) *GenericAppTypeExpr {
	return &GenericAppTypeExpr{Base: base, Args: args, span: span}
}
func (t *GenericAppTypeExpr) Span() source.Span { return t.span }
func (*GenericAppTypeExpr) typeNode()           {}

// ArrayTypeExpr is "T[]" (size unspecified, inferred from an initializer)
// or "T[N]" (explicit size expression, constant-folded during checking).
type ArrayTypeExpr struct {
	Elem Type
	Size Expr // nil when unspecified
	span source.Span
}

func NewArrayTypeExpr(elem Type, size Expr, span source.Span) *ArrayTypeExpr {
	return &ArrayTypeExpr{Elem: elem, Size: size, span: span}
}
func (t *ArrayTypeExpr) Span() source.Span { return t.span }
func (*ArrayTypeExpr) typeNode()           {}

// PointerLikeTypeExpr covers the pointer-like type variants (e.g. "T*" /
// "out T" targets), generalized to a single wrapped-type annotation node.
type PointerLikeTypeExpr struct {
	Elem Type
	span source.Span
}

func (t *PointerLikeTypeExpr) Span() source.Span { return t.span }
func (*PointerLikeTypeExpr) typeNode()           {}
