// Package ast is the node model for a single translation unit: a parsed
// but unchecked tree that the semantic core in internal/sema walks,
// annotates with types, and rewrites in place. The lexer and parser that
// build this tree are external collaborators — this package only fixes
// the shape they must produce.
package ast

import "github.com/shade-lang/shadec/internal/source"

// Node is any AST node with an associated source span.
type Node interface {
	Span() source.Span
}

// Expr is an expression node. Every checked Expr carries a QualType after
// checking; see sema.QualType.
type Expr interface {
	Node
	exprNode()
	GetResolved() interface{}
	SetResolved(v interface{})
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Type is a type annotation as written in source, before resolution. It is
// distinct from sema.Type, which is the resolved structural type.
type Type interface {
	Node
	typeNode()
}

// Decl is any declaration. All concrete declaration variants embed
// DeclBase, which carries the check-state machine's bookkeeping.
type Decl interface {
	Node
	declNode()
	Base() *DeclBase
}

// CheckState is a declaration's position in the state machine driven by
// sema.Checker.Ensure.
type CheckState int

const (
	Unchecked CheckState = iota
	CheckingHeader
	CheckedHeader
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Unchecked:
		return "Unchecked"
	case CheckingHeader:
		return "CheckingHeader"
	case CheckedHeader:
		return "CheckedHeader"
	case Checked:
		return "Checked"
	default:
		return "CheckState(?)"
	}
}

// DeclBase is embedded by every declaration variant. It holds the mutable
// check-state, the parent declaration, an intrusive same-name-sibling
// link used to scan overload candidates without rebuilding a member
// dictionary, and the modifier chain.
type DeclBase struct {
	Name      string
	Parent    Decl
	NextWithSameName Decl
	State     CheckState
	Modifiers []Modifier
	span      source.Span
}

func NewDeclBase(name string, span source.Span) DeclBase {
	return DeclBase{Name: name, span: span}
}

func (b *DeclBase) Span() source.Span { return b.span }
func (b *DeclBase) SetSpan(span source.Span) { b.span = span }
func (b *DeclBase) Base() *DeclBase { return b }
func (*DeclBase) declNode()          {}

// DeclName lets sema.declName print a declaration's name without importing
// ast (sema depends on ast only through this kind of narrow interface).
func (b *DeclBase) DeclName() string { return b.Name }

// HasModifier reports whether the declaration carries a modifier of the
// given kind.
func (b *DeclBase) HasModifier(kind ModifierKind) bool {
	for _, m := range b.Modifiers {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// Modifier returns the first modifier of the given kind, or nil.
func (b *DeclBase) Modifier(kind ModifierKind) *Modifier {
	for i := range b.Modifiers {
		if b.Modifiers[i].Kind == kind {
			return &b.Modifiers[i]
		}
	}
	return nil
}

// File is a single parsed translation unit: one module declaration plus
// whatever sits alongside it before checking splices imports in.
type File struct {
	Module *ModuleDecl
	span   source.Span
}

func (f *File) Span() source.Span { return f.span }

func NewFile(module *ModuleDecl, span source.Span) *File {
	return &File{Module: module, span: span}
}
