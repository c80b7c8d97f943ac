package ast

import "github.com/shade-lang/shadec/internal/source"

// exprBase is embedded by every expression variant to supply Span() and to
// hold the checked QualType slot. The slot is declared here (as an
// interface{} to avoid an import cycle with sema) so that replacing an
// expression node during checking still preserves node identity where the
// checker chooses to mutate in place rather than allocate a replacement.
type exprBase struct {
	span     source.Span
	Resolved interface{} // set to a *sema.QualType once checked; nil before
}

func (e *exprBase) Span() source.Span { return e.span }
func (*exprBase) exprNode()           {}

// IsChecked reports whether this node already carries a resolved type,
// used by the idempotence check on re-checking an already-checked tree.
func (e *exprBase) IsChecked() bool { return e.Resolved != nil }

// GetResolved and SetResolved let sema attach and read a node's checked
// QualType through the Expr interface without either package importing
// the other's concrete type.
func (e *exprBase) GetResolved() interface{}    { return e.Resolved }
func (e *exprBase) SetResolved(v interface{})   { e.Resolved = v }

// Ident is a bare identifier reference, looked up against the enclosing
// scope chain. After checking it carries a DeclRef breadcrumb trail
// reconstructed into nested accesses if lookup needed implicit
// member/deref steps.
type Ident struct {
	exprBase
	Name string
}

func NewIdent(name string, span source.Span) *Ident {
	return &Ident{exprBase: exprBase{span: span}, Name: name}
}

// IntegerLit is an integer literal.
type IntegerLit struct {
	exprBase
	Text string
}

func NewIntegerLit(text string, span source.Span) *IntegerLit {
	return &IntegerLit{exprBase: exprBase{span: span}, Text: text}
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	exprBase
	Text string
}

// BoolLit is a boolean literal.
type BoolLit struct {
	exprBase
	Value bool
}

// ParenExpr is a parenthesized sub-expression, unwrapped by the constant
// folder and otherwise transparent to checking.
type ParenExpr struct {
	exprBase
	Inner Expr
}

// PrefixExpr is a prefix unary expression, e.g. "-x", "!x".
type PrefixExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// PostfixExpr is a postfix unary expression, e.g. "x++".
type PostfixExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// InfixExpr is a binary expression.
type InfixExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func NewInfixExpr(op string, left, right Expr, span source.Span) *InfixExpr {
	return &InfixExpr{exprBase: exprBase{span: span}, Op: op, Left: left, Right: right}
}

// AssignExpr is "target = value".
type AssignExpr struct {
	exprBase
	Target Expr
	Value  Expr
}

// CallExpr is a call or (before checking determines which) a generic
// application; the checker rewrites a resolved function or constructor
// call into an InvokeExpr, and leaves method and subscript calls as the
// CallExpr itself.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func NewCallExpr(callee Expr, args []Expr, span source.Span) *CallExpr {
	return &CallExpr{exprBase: exprBase{span: span}, Callee: callee, Args: args}
}

// MemberExpr is "base.name": swizzle, static member, or instance member
// depending on base's checked type.
type MemberExpr struct {
	exprBase
	Target Expr
	Name   string
}

func NewMemberExpr(target Expr, name string, span source.Span) *MemberExpr {
	return &MemberExpr{exprBase: exprBase{span: span}, Target: target, Name: name}
}

// IndexExpr is "base[index]".
type IndexExpr struct {
	exprBase
	Target Expr
	Index  Expr
}

func NewIndexExpr(target, index Expr, span source.Span) *IndexExpr {
	return &IndexExpr{exprBase: exprBase{span: span}, Target: target, Index: index}
}

// ThisExpr is "this" inside a method body, resolved to the enclosing
// aggregate's declaration-reference type with the current substitution.
type ThisExpr struct {
	exprBase
}

// CastExpr is an explicit cast "(T) expr". The checker first attempts an
// ordinary coercion and only falls back to a permissive reinterpret path
// on failure.
type CastExpr struct {
	exprBase
	Target Type
	Value  Expr
}

// InitializerListExpr is "{a, b, c}", interpreted against its target type
// by the coercion engine. Before checking its Resolved slot is nil; after
// coercion that slot carries the struct/array type it was coerced into and
// each Elems entry has been recursively coerced.
type InitializerListExpr struct {
	exprBase
	Elems []Expr
}

func NewInitializerListExpr(elems []Expr, span source.Span) *InitializerListExpr {
	return &InitializerListExpr{exprBase: exprBase{span: span}, Elems: elems}
}

// ImplicitCastExpr wraps an expression that underwent an implicit
// conversion. It is synthesized by the checker, never produced by the
// parser.
type ImplicitCastExpr struct {
	exprBase
	Inner Expr
}

func NewImplicitCastExpr(inner Expr, span source.Span) *ImplicitCastExpr {
	return &ImplicitCastExpr{exprBase: exprBase{span: span}, Inner: inner}
}

// InvokeExpr is a resolved call: Callee names the chosen candidate
// declaration directly (no further overload ambiguity), synthesized by
// the overload resolver's completion step.
type InvokeExpr struct {
	exprBase
	Callee Decl
	Args   []Expr
}

func NewInvokeExpr(callee Decl, args []Expr, span source.Span) *InvokeExpr {
	return &InvokeExpr{exprBase: exprBase{span: span}, Callee: callee, Args: args}
}

// GenericAppExpr is a resolved generic specialization applied as a value
// (e.g. a generic function instantiated and then called, or a generic
// type used as a constructor), carrying the solved substitution.
type GenericAppExpr struct {
	exprBase
	Callee   Decl
	TypeArgs []Node // resolved Type/Value arguments, one per generic parameter
	Args     []Expr
}

// SwizzleExpr is a resolved vector component-selection expression,
// synthesized from a MemberExpr once the base's type and the swizzle
// letters have been validated.
type SwizzleExpr struct {
	exprBase
	Target  Expr
	Indices []int
}

func NewSwizzleExpr(target Expr, indices []int, span source.Span) *SwizzleExpr {
	return &SwizzleExpr{exprBase: exprBase{span: span}, Target: target, Indices: indices}
}

// HasDuplicateIndex reports whether any swizzle index repeats, which makes
// the result non-lvalue.
func (s *SwizzleExpr) HasDuplicateIndex() bool {
	seen := make(map[int]bool, len(s.Indices))
	for _, idx := range s.Indices {
		if seen[idx] {
			return true
		}
		seen[idx] = true
	}
	return false
}

// ErrorExpr is the well-formed placeholder returned by every failing
// sub-check: its type is always the error sentinel, and it wraps whatever
// partial expression was being checked so that callers don't need null
// checks.
type ErrorExpr struct {
	exprBase
	Partial Expr
}

func NewErrorExpr(partial Expr, span source.Span) *ErrorExpr {
	return &ErrorExpr{exprBase: exprBase{span: span}, Partial: partial}
}

// TypeValueExpr is an expression that denotes a type itself, used where a
// type is referenced from a value position (e.g. the base of a static
// member lookup, or a type used as an array-type constructor in
// "int[3]"). Its Resolved slot carries a TypeOfType.
type TypeValueExpr struct {
	exprBase
	TypeExpr Type
}

func NewTypeValueExpr(t Type, span source.Span) *TypeValueExpr {
	return &TypeValueExpr{exprBase: exprBase{span: span}, TypeExpr: t}
}
