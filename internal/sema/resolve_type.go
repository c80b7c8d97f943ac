package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// resolveTypeExpr and typeOf turn an as-written ast.Type node into a
// resolved sema.Type, memoized per node so re-visiting a type expression
// (e.g. a parameter's type, referenced from both header checking and a
// later default-argument check) doesn't re-run lookup. Dispatches on the
// node's ast.Type variant rather than a switch on primitive name strings.
func (c *Checker) resolveTypeExpr(t ast.Type) Type {
	if t == nil {
		return TypeError
	}
	if cached, ok := c.typeCache[t]; ok {
		return cached
	}
	// Cache error up front so a self-referential type expression (should
	// not occur given typedefs are the only cyclical shape, and those are
	// guarded by Ensure's circularity check) can't recurse unboundedly.
	c.typeCache[t] = TypeError

	var resolved Type
	switch node := t.(type) {
	case *ast.NamedTypeExpr:
		resolved = c.resolveNamedType(node)
	case *ast.GenericAppTypeExpr:
		resolved = c.resolveGenericAppType(node)
	case *ast.ArrayTypeExpr:
		elem := c.resolveTypeExpr(node.Elem)
		size := -1
		if node.Size != nil {
			size = c.foldArraySize(node.Size)
		}
		resolved = NewArray(elem, size)
	case *ast.PointerLikeTypeExpr:
		resolved = &PointerLike{Elem: c.resolveTypeExpr(node.Elem)}
	default:
		resolved = TypeError
	}

	c.typeCache[t] = resolved
	return resolved
}

// typeOf returns the memoized resolution for t, resolving it first if
// necessary; safe to call after resolveTypeExpr has already run.
func (c *Checker) typeOf(t ast.Type) Type {
	return c.resolveTypeExpr(t)
}

func (c *Checker) resolveNamedType(node *ast.NamedTypeExpr) Type {
	name := node.Name.Name
	result := c.lookup(name)
	items := result.Filter(MaskType)
	if len(items) == 0 {
		c.diagnose(diag.CodeUndefinedIdentifier, node.Span(), "undefined type %q", name)
		return TypeError
	}
	if len(items) > 1 {
		c.diagnose(diag.CodeAmbiguousReference, node.Span(), "ambiguous reference to type %q", name)
		return TypeError
	}
	return c.typeFromDecl(items[0].Decl, nil)
}

// typeFromDecl maps a resolved type-category declaration to its sema.Type,
// special-casing the builtin scalars and the magic Vector/Matrix wrappers
// and otherwise producing a plain declaration-reference type.
func (c *Checker) typeFromDecl(d interface{}, subst *Subst) Type {
	decl, _ := d.(ast.Decl)
	switch dd := decl.(type) {
	case *ast.BuiltinTypeDecl:
		return basicFor(dd.Base().Name)
	case *ast.TypedefDecl:
		c.Ensure(dd, ast.CheckedHeader)
		return c.typeOf(dd.Target)
	case *ast.InterfaceDecl:
		return NewInterfaceType(dd)
	case *ast.GenericWrapperDecl:
		if subst == nil {
			// Bare reference to a generic wrapper's name, not yet applied to
			// arguments (e.g. the "Vector" in "Vector<float,3>" before the
			// application is resolved). Kept as an uninstantiated
			// declaration-reference so resolveGenericAppType's wrapperOf can
			// recover the wrapper declaration.
			return NewDeclRefType(dd, nil)
		}
		m := dd.Base().Modifier(ast.ModMagic)
		if m == nil && dd.Inner != nil {
			m = dd.Inner.Base().Modifier(ast.ModMagic)
		}
		if m != nil {
			return c.magicTypeFromWrapper(dd, m.MagicName, subst)
		}
		return NewDeclRefType(dd.Inner, subst)
	case *ast.AggregateDecl:
		return NewDeclRefType(dd, subst)
	case *ast.GenericTypeParamDecl:
		return &TypeParamRef{Decl: dd}
	default:
		return TypeError
	}
}

func basicFor(name string) Type {
	switch name {
	case "void":
		return TypeVoid
	case "bool":
		return TypeBool
	case "int":
		return TypeInt
	case "uint":
		return TypeUint
	case "float":
		return TypeFloat
	default:
		return TypeError
	}
}

// magicTypeFromWrapper builds a Vector/Matrix sema.Type directly from a
// solved substitution rather than a generic DeclRefType, per the magic
// declaration rule. Falls back to symbolic dimensions of 0 when the
// generic arguments haven't been solved yet (header-checking pass over an
// unapplied generic wrapper itself, not an instantiation site).
func (c *Checker) magicTypeFromWrapper(w *ast.GenericWrapperDecl, magicName string, subst *Subst) Type {
	elem := Type(TypeFloat)
	if subst != nil {
		if arg, ok := subst.Lookup(0); ok && arg.Type != nil {
			elem = arg.Type
		}
	}
	dim := func(idx int) int {
		if subst == nil {
			return 0
		}
		arg, ok := subst.Lookup(idx)
		if !ok || arg.Value == nil {
			return 0
		}
		if ci, ok := arg.Value.(ConstantInt); ok {
			return int(ci.V)
		}
		return 0
	}
	switch magicName {
	case "Vector":
		return NewVector(elem, dim(1))
	case "Matrix":
		return &Matrix{Elem: elem, Rows: dim(1), Cols: dim(2)}
	default:
		return TypeError
	}
}

// resolveGenericAppType resolves "Base<Args...>" type-position generic
// applications: the generic application entry point, reused for both
// type-position applications and, via checkExpr, value-position ones.
func (c *Checker) resolveGenericAppType(node *ast.GenericAppTypeExpr) Type {
	baseType := c.resolveTypeExpr(node.Base)
	wrapper, ok := wrapperOf(baseType)
	if !ok {
		// Base didn't resolve to a generic wrapper at all (e.g. it's already
		// an error, or a plain non-generic named type misused with args).
		if _, isErr := baseType.(*Error); !isErr {
			c.diagnose(diag.CodeExpectedType, node.Span(), "%q is not generic", node.Base.Span())
		}
		return TypeError
	}
	subst, ok := c.solveGenericArgs(wrapper, node.Args, node.Span())
	if !ok {
		return TypeError
	}
	return c.typeFromDecl(wrapperDecl(baseType), subst)
}

// wrapperOf and wrapperDecl bridge a not-yet-substituted DeclRefType
// (produced when a generic wrapper's bare name is looked up before
// application) back to its *ast.GenericWrapperDecl.
func wrapperOf(t Type) (*ast.GenericWrapperDecl, bool) {
	dr, ok := t.(*DeclRefType)
	if !ok {
		return nil, false
	}
	w, ok := dr.Ref.Decl.(*ast.GenericWrapperDecl)
	return w, ok
}

func wrapperDecl(t Type) interface{} {
	dr := t.(*DeclRefType)
	return dr.Ref.Decl
}

// foldArraySize constant-folds an array size expression, reporting
// CodeInvalidArraySize for non-integer or negative results.
func (c *Checker) foldArraySize(e ast.Expr) int {
	v, ok := c.tryFoldInteger(e)
	if !ok {
		c.diagnose(diag.CodeInvalidArraySize, e.Span(), "array size must be a constant integer expression")
		return 0
	}
	if v < 0 {
		c.diagnose(diag.CodeInvalidArraySize, e.Span(), "array size must be non-negative, got %d", v)
		return 0
	}
	return int(v)
}
