package session

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/source"
)

// BuildStdlib constructs the pre-loaded standard-library module the
// session owns. It seeds the builtin scalar types, the magic
// "Vector"/"Matrix" generic wrappers the type kernel special-cases, and
// the intrinsic arithmetic operators the constant folder dispatches on by
// name.
func BuildStdlib() *ast.ModuleDecl {
	mod := ast.NewModuleDecl("std", source.Span{})

	scalars := []string{"void", "bool", "int", "uint", "float"}
	bySameName := map[string]ast.Decl{}
	builtins := map[string]*ast.BuiltinTypeDecl{}
	for _, name := range scalars {
		d := ast.NewBuiltinTypeDecl(name, source.Span{})
		builtins[name] = d
		linkSameName(bySameName, d)
		mod.Decls = append(mod.Decls, d)
	}
	addScalarConversions(builtins)

	mod.Decls = append(mod.Decls, buildVector())
	mod.Decls = append(mod.Decls, buildMatrix())

	for _, op := range []string{"+", "-", "*", "/", "%"} {
		fn := buildIntrinsicBinaryOp(op)
		linkSameName(bySameName, fn)
		mod.Decls = append(mod.Decls, fn)
	}
	neg := buildIntrinsicUnaryOp("-")
	linkSameName(bySameName, neg)
	mod.Decls = append(mod.Decls, neg)

	return mod
}

// scalarRank mirrors sema's basic-type ranking: a conversion from a
// lower-ranked scalar to a higher-ranked one is an implicit widening,
// carrying ModImplicitConvCost; the reverse direction is explicit-only,
// matching the coercion engine's cost model.
var scalarRank = map[string]int{"bool": 0, "int": 1, "uint": 2, "float": 3}

// addScalarConversions seeds every basic-to-basic conversion constructor
// onto its target BuiltinTypeDecl's Members, so the coercion engine's
// constructor-based conversion rule can find, e.g., "float(int)" the same
// way it finds any other single-argument constructor.
func addScalarConversions(builtins map[string]*ast.BuiltinTypeDecl) {
	names := []string{"bool", "int", "uint", "float"}
	for _, target := range names {
		targetDecl := builtins[target]
		for _, from := range names {
			if from == target {
				continue
			}
			ctor := ast.NewConstructorDecl(
				[]*ast.ParamDecl{ast.NewParamDecl("value", ast.NewNamedTypeExpr(ast.NewIdent(from, source.Span{}), source.Span{}), nil, source.Span{})},
				nil, source.Span{})
			if scalarRank[from] < scalarRank[target] {
				cost := 1
				ctor.Modifiers = append(ctor.Modifiers, ast.Modifier{Kind: ast.ModImplicitConvCost, Cost: &cost})
			}
			targetDecl.Members = append(targetDecl.Members, ctor)
		}
	}
}

func linkSameName(bySameName map[string]ast.Decl, d ast.Decl) {
	name := d.Base().Name
	if prior, ok := bySameName[name]; ok {
		d.Base().NextWithSameName = prior
	}
	bySameName[name] = d
}

// buildVector constructs the magic "Vector" generic wrapper: Vector<T, N>.
// The type kernel special-cases lookups that resolve to this declaration
// and builds a Vector sema.Type directly rather than a generic
// declaration-reference.
func buildVector() *ast.GenericWrapperDecl {
	agg := ast.NewAggregateDecl("Vector", false, source.Span{})
	agg.Modifiers = append(agg.Modifiers, ast.Modifier{Kind: ast.ModMagic, MagicName: "Vector"})

	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	nParam := ast.NewGenericValueParamDecl("N", ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}), source.Span{})

	cost := 1
	ctor := ast.NewConstructorDecl(
		[]*ast.ParamDecl{ast.NewParamDecl("scalar", ast.NewNamedTypeExpr(ast.NewIdent("T", source.Span{}), source.Span{}), nil, source.Span{})},
		nil, source.Span{})
	ctor.Modifiers = append(ctor.Modifiers, ast.Modifier{Kind: ast.ModImplicitConvCost, Cost: &cost})
	agg.Members = append(agg.Members, ctor)

	return ast.NewGenericWrapperDecl([]ast.Decl{tParam, nParam}, agg, source.Span{})
}

// buildMatrix constructs the magic "Matrix" generic wrapper: Matrix<T, R, C>.
func buildMatrix() *ast.GenericWrapperDecl {
	agg := ast.NewAggregateDecl("Matrix", false, source.Span{})
	agg.Modifiers = append(agg.Modifiers, ast.Modifier{Kind: ast.ModMagic, MagicName: "Matrix"})

	tParam := ast.NewGenericTypeParamDecl("T", nil, source.Span{})
	intType := ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{})
	rParam := ast.NewGenericValueParamDecl("R", intType, source.Span{})
	cParam := ast.NewGenericValueParamDecl("C", intType, source.Span{})

	return ast.NewGenericWrapperDecl([]ast.Decl{tParam, rParam, cParam}, agg, source.Span{})
}

func buildIntrinsicBinaryOp(op string) *ast.FunctionDecl {
	intType := func() ast.Type { return ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}) }
	fn := ast.NewFunctionDecl("operator"+op,
		[]*ast.ParamDecl{
			ast.NewParamDecl("lhs", intType(), nil, source.Span{}),
			ast.NewParamDecl("rhs", intType(), nil, source.Span{}),
		},
		intType(), nil, source.Span{})
	fn.Modifiers = append(fn.Modifiers,
		ast.Modifier{Kind: ast.ModBuiltin},
		ast.Modifier{Kind: ast.ModIntrinsicOp, IntrinsicName: op},
	)
	return fn
}

func buildIntrinsicUnaryOp(op string) *ast.FunctionDecl {
	intType := func() ast.Type { return ast.NewNamedTypeExpr(ast.NewIdent("int", source.Span{}), source.Span{}) }
	fn := ast.NewFunctionDecl("operator"+op,
		[]*ast.ParamDecl{ast.NewParamDecl("operand", intType(), nil, source.Span{})},
		intType(), nil, source.Span{})
	fn.Modifiers = append(fn.Modifiers,
		ast.Modifier{Kind: ast.ModBuiltin},
		ast.Modifier{Kind: ast.ModPrefix},
		ast.Modifier{Kind: ast.ModIntrinsicOp, IntrinsicName: op},
	)
	return fn
}
