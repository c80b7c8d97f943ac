package ast

import "github.com/shade-lang/shadec/internal/source"

// ModuleDecl is the root declaration of a translation unit; module
// checking order operates over one of these.
type ModuleDecl struct {
	DeclBase
	Decls []Decl
}

func NewModuleDecl(name string, span source.Span) *ModuleDecl {
	return &ModuleDecl{DeclBase: NewDeclBase(name, span)}
}

// BuiltinTypeDecl is a standard-library scalar type (void, bool, int,
// uint, float, ...). It carries no fields or members of its own — the
// checker maps it directly to a Basic sema.Type — it exists purely so
// that "int" and friends are findable by ordinary lookup like any other
// declaration.
type BuiltinTypeDecl struct {
	DeclBase
	// Members carries the basic-to-basic implicit-conversion constructors
	// seeded by the standard library (scalar widening such as int->float),
	// so the coercion engine's constructor-based conversion rule can
	// enumerate them exactly as it enumerates constructors on any other
	// aggregate type.
	Members []Decl
}

func NewBuiltinTypeDecl(name string, span source.Span) *BuiltinTypeDecl {
	d := &BuiltinTypeDecl{DeclBase: NewDeclBase(name, span)}
	d.Modifiers = append(d.Modifiers, Modifier{Kind: ModBuiltin})
	return d
}

// AddMember appends d to Members and sets its Parent.
func (b *BuiltinTypeDecl) AddMember(d Decl) {
	d.Base().Parent = b
	b.Members = append(b.Members, d)
}

// ImportDecl is "import path;". Resolution splices the imported module's
// scope into the importing module's lookup chain; re-importing the same
// path is idempotent.
type ImportDecl struct {
	DeclBase
	Path     []string
	Resolved *ModuleDecl // filled in once the import loader returns
}

func NewImportDecl(path []string, span source.Span) *ImportDecl {
	return &ImportDecl{DeclBase: NewDeclBase(path[len(path)-1], span), Path: path}
}

// TypedefDecl is "typedef Target Name;". Target is re-resolved each time
// Ensure walks the header, so a typedef cycle surfaces as a circularity.
type TypedefDecl struct {
	DeclBase
	Target Type
}

func NewTypedefDecl(name string, target Type, span source.Span) *TypedefDecl {
	return &TypedefDecl{DeclBase: NewDeclBase(name, span), Target: target}
}

// AggregateDecl is a struct or class declaration: fields plus members
// (methods, constructors, subscripts, accessors, nested types). Generic
// aggregates are wrapped in a GenericWrapperDecl rather than carrying type
// parameters directly.
type AggregateDecl struct {
	DeclBase
	IsClass bool
	Bases   []*InheritanceDecl
	Fields  []*FieldDecl
	Members []Decl
}

func NewAggregateDecl(name string, isClass bool, span source.Span) *AggregateDecl {
	return &AggregateDecl{DeclBase: NewDeclBase(name, span), IsClass: isClass}
}

// AddMember appends d to Members and sets its Parent, so checker_decl.go's
// walk back up from a method/field to its owning aggregate (for "this" and
// for redeclaration scoping) always has a link to follow.
func (a *AggregateDecl) AddMember(d Decl) {
	d.Base().Parent = a
	a.Members = append(a.Members, d)
}

// AddField appends f to Fields and sets its Parent.
func (a *AggregateDecl) AddField(f *FieldDecl) {
	f.Base().Parent = a
	a.Fields = append(a.Fields, f)
}

// FieldDecl is a struct/class data member.
type FieldDecl struct {
	DeclBase
	Type Type
}

func NewFieldDecl(name string, typ Type, span source.Span) *FieldDecl {
	return &FieldDecl{DeclBase: NewDeclBase(name, span), Type: typ}
}

// InheritanceDecl records one base-type edge of a struct/class/interface;
// it is its own declaration because the base name is itself subject to
// on-demand checking.
type InheritanceDecl struct {
	DeclBase
	BaseType Type
}

func NewInheritanceDecl(base Type, span source.Span) *InheritanceDecl {
	return &InheritanceDecl{DeclBase: NewDeclBase("", span), BaseType: base}
}

// InterfaceDecl declares a set of member requirements a conforming
// aggregate must satisfy.
type InterfaceDecl struct {
	DeclBase
	Bases   []*InheritanceDecl
	Members []Decl
}

func NewInterfaceDecl(name string, span source.Span) *InterfaceDecl {
	return &InterfaceDecl{DeclBase: NewDeclBase(name, span)}
}

// AddMember appends d to Members and sets its Parent.
func (i *InterfaceDecl) AddMember(d Decl) {
	d.Base().Parent = i
	i.Members = append(i.Members, d)
}

// ExtensionDecl attaches members (constructors, methods) to an existing
// aggregate type without modifying its declaration. A generic extension
// is wrapped in a GenericWrapperDecl; applyExtensionToType unifies Target
// against a candidate type.
type ExtensionDecl struct {
	DeclBase
	Target  Type
	Members []Decl
}

func NewExtensionDecl(target Type, span source.Span) *ExtensionDecl {
	return &ExtensionDecl{DeclBase: NewDeclBase("", span), Target: target}
}

// AddMember appends d to Members and sets its Parent.
func (e *ExtensionDecl) AddMember(d Decl) {
	d.Base().Parent = e
	e.Members = append(e.Members, d)
}

// ParamDecl is a function/constructor/subscript parameter. Direction is
// carried via ModOut/ModInOut on Modifiers; absence means "in".
type ParamDecl struct {
	DeclBase
	Type    Type
	Default Expr // nil if the parameter has no default argument
}

func NewParamDecl(name string, typ Type, def Expr, span source.Span) *ParamDecl {
	return &ParamDecl{DeclBase: NewDeclBase(name, span), Type: typ, Default: def}
}

// IsOut reports whether the parameter is "out" or "inout" (the two are
// equivalent for redeclaration matching purposes).
func (p *ParamDecl) IsOut() bool {
	return p.HasModifier(ModOut) || p.HasModifier(ModInOut)
}

// FunctionDecl is a free function or method. Body is nil for a
// header-only declaration (e.g. an interface requirement or an
// unimplemented forward declaration).
type FunctionDecl struct {
	DeclBase
	Params     []*ParamDecl
	ReturnType Type
	Body       *BlockStmt
}

func NewFunctionDecl(name string, params []*ParamDecl, ret Type, body *BlockStmt, span source.Span) *FunctionDecl {
	return &FunctionDecl{DeclBase: NewDeclBase(name, span), Params: params, ReturnType: ret, Body: body}
}

// ConstructorDecl builds an instance of its enclosing aggregate. Its
// implicit-conversion-cost modifier (ModImplicitConvCost) drives the
// coercion engine's constructor-based conversion rule.
type ConstructorDecl struct {
	DeclBase
	Params []*ParamDecl
	Body   *BlockStmt
}

func NewConstructorDecl(params []*ParamDecl, body *BlockStmt, span source.Span) *ConstructorDecl {
	return &ConstructorDecl{DeclBase: NewDeclBase("init", span), Params: params, Body: body}
}

// AccessorKind distinguishes a subscript/property accessor's direction.
type AccessorKind int

const (
	AccessorGet AccessorKind = iota
	AccessorSet
)

// AccessorDecl is a get/set accessor body attached to a SubscriptDecl.
// Set-accessors are tagged ModSetter.
type AccessorDecl struct {
	DeclBase
	Kind AccessorKind
	Body *BlockStmt
}

func NewAccessorDecl(kind AccessorKind, body *BlockStmt, span source.Span) *AccessorDecl {
	d := &AccessorDecl{DeclBase: NewDeclBase("", span), Kind: kind, Body: body}
	if kind == AccessorSet {
		d.Modifiers = append(d.Modifiers, Modifier{Kind: ModSetter})
	}
	return d
}

// SubscriptDecl is "base[index]" support on an aggregate type, named
// "operator[]" so overload resolution can treat it like any other named
// candidate.
type SubscriptDecl struct {
	DeclBase
	Params     []*ParamDecl
	ReturnType Type
	Accessors  []*AccessorDecl
}

func NewSubscriptDecl(params []*ParamDecl, ret Type, accessors []*AccessorDecl, span source.Span) *SubscriptDecl {
	s := &SubscriptDecl{DeclBase: NewDeclBase("operator[]", span), Params: params, ReturnType: ret, Accessors: accessors}
	for _, a := range accessors {
		a.Base().Parent = s
	}
	return s
}

// HasSetter reports whether any accessor is a setter, used to decide
// whether a resolved subscript call is an lvalue.
func (s *SubscriptDecl) HasSetter() bool {
	for _, a := range s.Accessors {
		if a.Kind == AccessorSet {
			return true
		}
	}
	return false
}

// VarDecl is a variable declaration, local or global. Type may be an
// ArrayTypeExpr with no explicit size, in which case the checker infers
// it from Init.
type VarDecl struct {
	DeclBase
	Type Type
	Init Expr
}

func NewVarDecl(name string, typ Type, init Expr, span source.Span) *VarDecl {
	return &VarDecl{DeclBase: NewDeclBase(name, span), Type: typ, Init: init}
}

// GenericParamKind distinguishes the three generic parameter flavors.
type GenericParamKind int

const (
	GenericTypeParam GenericParamKind = iota
	GenericValueParam
	GenericConstraintParam
)

// GenericTypeParamDecl is a type-valued generic parameter, optionally
// bounded by interface constraints.
type GenericTypeParamDecl struct {
	DeclBase
	Bounds []Type
}

func NewGenericTypeParamDecl(name string, bounds []Type, span source.Span) *GenericTypeParamDecl {
	return &GenericTypeParamDecl{DeclBase: NewDeclBase(name, span), Bounds: bounds}
}

// GenericValueParamDecl is an integer-valued generic parameter (e.g. the
// vector width N in "vector<T, N>").
type GenericValueParamDecl struct {
	DeclBase
	Type Type
}

func NewGenericValueParamDecl(name string, typ Type, span source.Span) *GenericValueParamDecl {
	return &GenericValueParamDecl{DeclBase: NewDeclBase(name, span), Type: typ}
}

// GenericConstraintParamDecl is a free-standing conformance constraint not
// tied to introducing a new parameter, e.g. a "where T: IArithmetic"
// clause attached to the generic wrapper.
type GenericConstraintParamDecl struct {
	DeclBase
	Subject Type // the type parameter reference being constrained
	Bound   Type
}

func NewGenericConstraintParamDecl(subject, bound Type, span source.Span) *GenericConstraintParamDecl {
	return &GenericConstraintParamDecl{DeclBase: NewDeclBase("", span), Subject: subject, Bound: bound}
}

// GenericWrapperDecl attaches generic parameters to an inner declaration
// (function, aggregate, extension) without that declaration needing to
// know it is generic.
type GenericWrapperDecl struct {
	DeclBase
	Params []Decl // *GenericTypeParamDecl | *GenericValueParamDecl | *GenericConstraintParamDecl
	Inner  Decl
}

func NewGenericWrapperDecl(params []Decl, inner Decl, span source.Span) *GenericWrapperDecl {
	name := ""
	if inner != nil {
		name = inner.Base().Name
	}
	return &GenericWrapperDecl{DeclBase: NewDeclBase(name, span), Params: params, Inner: inner}
}

// TypeParams returns just the type-valued parameters, in declaration
// order, as the constraint solver walks them.
func (g *GenericWrapperDecl) TypeParams() []*GenericTypeParamDecl {
	var out []*GenericTypeParamDecl
	for _, p := range g.Params {
		if tp, ok := p.(*GenericTypeParamDecl); ok {
			out = append(out, tp)
		}
	}
	return out
}

// ValueParams returns just the value-valued parameters, in declaration
// order.
func (g *GenericWrapperDecl) ValueParams() []*GenericValueParamDecl {
	var out []*GenericValueParamDecl
	for _, p := range g.Params {
		if vp, ok := p.(*GenericValueParamDecl); ok {
			out = append(out, vp)
		}
	}
	return out
}

// ConstraintParams returns the free-standing where-clause constraints.
func (g *GenericWrapperDecl) ConstraintParams() []*GenericConstraintParamDecl {
	var out []*GenericConstraintParamDecl
	for _, p := range g.Params {
		if cp, ok := p.(*GenericConstraintParamDecl); ok {
			out = append(out, cp)
		}
	}
	return out
}

// BindableParams returns the type- and value-valued parameters in
// declaration order, skipping free-standing GenericConstraintParamDecl
// entries. A Subst's Args slice parallels this list, not the raw Params
// list, since a where-clause constraint never itself consumes an argument
// slot at an instantiation site.
func (g *GenericWrapperDecl) BindableParams() []Decl {
	var out []Decl
	for _, p := range g.Params {
		switch p.(type) {
		case *GenericTypeParamDecl, *GenericValueParamDecl:
			out = append(out, p)
		}
	}
	return out
}
