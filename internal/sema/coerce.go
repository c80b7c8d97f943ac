package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// Cost constants for the coercion engine's cost model. A
// constructor with no ModImplicitConvCost modifier is explicit-only: its
// cost is high enough to always lose against any other applicable
// candidate, but it is still a finite int so cost sums stay comparable.
const (
	costEqual           = 0
	costCastToInterface = 1 << 16
	costExplicitOnly    = 1 << 30
)

// conformsToInterface reports whether t's declaration chain contains an
// inheritance edge whose base resolves to iface's declaration, recursing
// through both aggregate base lists and interface base lists. Results are
// memoized on the session per (decl, interface) pair.
func (c *Checker) conformsToInterface(t Type, iface *InterfaceType) bool {
	switch tt := t.(type) {
	case *InterfaceType:
		return c.declConforms(tt.Ref.Decl, iface)
	case *DeclRefType:
		return c.declConforms(tt.Ref.Decl, iface)
	default:
		return false
	}
}

func (c *Checker) declConforms(d interface{}, iface *InterfaceType) bool {
	ifaceDecl, _ := iface.Ref.Decl.(*ast.InterfaceDecl)
	decl, ok := d.(ast.Decl)
	if !ok || ifaceDecl == nil {
		return false
	}
	if decl == ast.Decl(ifaceDecl) {
		return true
	}
	if c.Sess != nil {
		if cached, ok := c.Sess.CachedConformance(decl, ifaceDecl); ok {
			return cached
		}
	}
	result := c.declConformsUncached(decl, ifaceDecl)
	if c.Sess != nil {
		c.Sess.CacheConformance(decl, ifaceDecl, result)
	}
	return result
}

func (c *Checker) declConformsUncached(decl ast.Decl, ifaceDecl *ast.InterfaceDecl) bool {
	var bases []*ast.InheritanceDecl
	switch dd := decl.(type) {
	case *ast.AggregateDecl:
		bases = dd.Bases
	case *ast.InterfaceDecl:
		if dd == ifaceDecl {
			return true
		}
		bases = dd.Bases
	default:
		return false
	}
	for _, base := range bases {
		c.Ensure(base, ast.Checked)
		baseType := c.typeOf(base.BaseType)
		switch bt := baseType.(type) {
		case *InterfaceType:
			if bt.Ref.Decl == ast.Decl(ifaceDecl) {
				return true
			}
			if id, ok := bt.Ref.Decl.(*ast.InterfaceDecl); ok && c.declConformsUncached(id, ifaceDecl) {
				return true
			}
		case *DeclRefType:
			if baseDecl, ok := bt.Ref.Decl.(ast.Decl); ok && c.declConformsUncached(baseDecl, ifaceDecl) {
				return true
			}
		}
	}
	return false
}

// coerceOutcome is tryCoerceCore's result: ok plus, when ok, a replacement
// expression (nil meaning "use the original expression unchanged") and the
// conversion's cost.
type coerceOutcome struct {
	ok   bool
	expr ast.Expr
	cost int
}

// tryCoerce is the coercion engine's non-diagnosing entry point: it checks
// fromExpr, attempts the conversion, and leaves the (possibly rewritten)
// result in c.lastCoerced regardless of outcome, matching coerce's
// contract so callers can treat both uniformly.
func (c *Checker) tryCoerce(fromExpr ast.Expr, toType Type) QualType {
	if il, ok := fromExpr.(*ast.InitializerListExpr); ok && !il.IsChecked() {
		// Rule 3 needs the target type; checking the bare list would fail.
		out := c.tryCoerceInitializerList(il, toType)
		if !out.ok {
			c.lastCoerced = fromExpr
			return ErrorQual
		}
		il.SetResolved(RValue(toType))
		c.lastCoerced = il
		return RValue(toType)
	}
	fromQ := c.checkExpr(fromExpr)
	out := c.tryCoerceCore(fromExpr, fromQ, toType, false)
	if !out.ok {
		c.lastCoerced = fromExpr
		return ErrorQual
	}
	if out.expr != nil {
		c.lastCoerced = out.expr
	} else {
		c.lastCoerced = fromExpr
	}
	return RValue(toType)
}

// coerce is tryCoerce's diagnosing counterpart: on failure it reports a
// type-mismatch diagnostic and still produces a well-formed error-typed
// expression (an ImplicitCastExpr wrapping the original) so checking can
// continue without cascading.
func (c *Checker) coerce(fromExpr ast.Expr, toType Type) QualType {
	q := c.tryCoerce(fromExpr, toType)
	if q.IsError() {
		fromQ := c.checkExpr(fromExpr)
		if !fromQ.IsError() && !IsError(toType) {
			c.diagnose(diag.CodeTypeMismatch, fromExpr.Span(), "cannot convert %s to %s", fromQ.Type, toType)
		}
		c.lastCoerced = ast.NewImplicitCastExpr(fromExpr, fromExpr.Span())
		return ErrorQual
	}
	return q
}

// canCoerce is the coercion engine's pure predicate form, omitting
// expression construction, used by the overload resolver's per-argument
// type check.
// fromExpr may be nil when only a bare type is being tested (e.g. the
// result of join); passing the real argument expression lets the
// initializer-list rule apply.
func (c *Checker) canCoerce(fromExpr ast.Expr, fromType Type, toType Type, disallowNested bool) (bool, int) {
	fromQ := RValue(fromType)
	out := c.tryCoerceCore(fromExpr, fromQ, toType, disallowNested)
	return out.ok, out.cost
}

// tryCoerceCore implements the six coercion rules in precedence order.
// disallowNested forces exact-match-only behavior (rules 1-2 only), the
// recursion guard rule 5 requires of its own single-argument constructor
// candidates.
func (c *Checker) tryCoerceCore(fromExpr ast.Expr, fromQ QualType, toType Type, disallowNested bool) coerceOutcome {
	fromType := fromQ.Type

	// Rule 1: equal types.
	if fromType != nil && toType != nil && fromType.Equal(toType) {
		return coerceOutcome{ok: true, cost: costEqual}
	}

	// Rule 2: either side is the absorbing error sentinel.
	if IsError(fromType) || IsError(toType) {
		var expr ast.Expr
		if fromExpr != nil {
			expr = ast.NewImplicitCastExpr(fromExpr, fromExpr.Span())
		}
		return coerceOutcome{ok: true, expr: expr, cost: costEqual}
	}

	if disallowNested {
		return coerceOutcome{ok: false}
	}

	// Rule 3: an initializer list on the right.
	if il, ok := fromExpr.(*ast.InitializerListExpr); ok {
		return c.tryCoerceInitializerList(il, toType)
	}

	// Rule 4: target is an interface.
	if iface, ok := toType.(*InterfaceType); ok {
		if c.conformsToInterface(fromType, iface) {
			var expr ast.Expr
			if fromExpr != nil {
				expr = ast.NewImplicitCastExpr(fromExpr, fromExpr.Span())
			}
			return coerceOutcome{ok: true, expr: expr, cost: costCastToInterface}
		}
		return coerceOutcome{ok: false}
	}

	// Rule 5: constructor-based conversion.
	if fromExpr != nil {
		if out, ok := c.tryConstructorConversion(fromExpr, fromType, toType); ok {
			return out
		}
	}

	return coerceOutcome{ok: false}
}

// tryCoerceInitializerList implements rule 3: pairing list elements with
// struct fields in declaration order, or coercing each element to an
// array's element type.
func (c *Checker) tryCoerceInitializerList(il *ast.InitializerListExpr, toType Type) coerceOutcome {
	switch t := toType.(type) {
	case *DeclRefType:
		agg, ok := t.Ref.Decl.(*ast.AggregateDecl)
		if !ok {
			return coerceOutcome{ok: false}
		}
		c.Ensure(agg, ast.CheckedHeader)
		n := len(il.Elems)
		if n > len(agg.Fields) {
			n = len(agg.Fields) // extra arguments beyond field count are truncated silently
		}
		for i := 0; i < n; i++ {
			fieldType := substituteType(c.typeOf(agg.Fields[i].Type), t.Ref.Subst)
			c.coerce(il.Elems[i], fieldType)
			il.Elems[i] = c.lastCoerced
		}
		il.Elems = il.Elems[:n]
		return coerceOutcome{ok: true, expr: il, cost: costEqual}
	case *Array:
		for i, elem := range il.Elems {
			c.coerce(elem, t.Elem)
			il.Elems[i] = c.lastCoerced
		}
		return coerceOutcome{ok: true, expr: il, cost: costEqual}
	default:
		return coerceOutcome{ok: false}
	}
}

// tryConstructorConversion implements rule 5: every constructor visible on
// toType is treated as a single-argument overload candidate with
// disallowNestedConversions set, resolved through the ordinary overload
// resolver.
func (c *Checker) tryConstructorConversion(fromExpr ast.Expr, fromType, toType Type) (coerceOutcome, bool) {
	ctors := c.constructorsForType(toType)
	if len(ctors) == 0 {
		return coerceOutcome{}, false
	}
	ctx := newOverloadContext(c, []ast.Expr{fromExpr}, []Type{fromType}, []bool{false}, JustTrying, true, "")
	for _, ctor := range ctors {
		ctx.addCandidate(ctor)
	}
	switch {
	case ctx.best != nil:
		if ctx.best.status != statusApplicable || ctx.best.cost >= costExplicitOnly {
			return coerceOutcome{}, false
		}
		expr := ast.NewInvokeExpr(ctx.best.decl, []ast.Expr{fromExpr}, fromExpr.Span())
		return coerceOutcome{ok: true, expr: expr, cost: ctx.best.cost}, true
	case len(ctx.bestList) > 1:
		min := ctx.bestList[0].cost
		allApplicable := true
		for _, cand := range ctx.bestList {
			if cand.cost < min {
				min = cand.cost
			}
			if cand.status != statusApplicable {
				allApplicable = false
			}
		}
		if !allApplicable || min >= costExplicitOnly {
			return coerceOutcome{}, false
		}
		return coerceOutcome{ok: true, expr: nil, cost: min}, true
	default:
		return coerceOutcome{}, false
	}
}

// ctorCandidate pairs a constructor declaration with the substitution
// active at its owning type (nil for a non-generic owner), so
// constructorsForType can hand instantiated parameter types to the
// overload resolver for a generic target like Vector<float,3>.
type ctorCandidate struct {
	decl  *ast.ConstructorDecl
	subst *Subst
}

// constructorsForType enumerates the constructors visible on t: its own
// declaration's constructors plus those contributed by applicable
// extensions.
func (c *Checker) constructorsForType(t Type) []ctorCandidate {
	switch tt := t.(type) {
	case *Basic:
		return c.builtinCtors(tt)
	case *Vector, *Matrix:
		return c.magicCtors(t)
	case *DeclRefType:
		agg, ok := tt.Ref.Decl.(*ast.AggregateDecl)
		if !ok {
			return nil
		}
		c.Ensure(agg, ast.CheckedHeader)
		var out []ctorCandidate
		for _, m := range agg.Members {
			if ctor, ok := m.(*ast.ConstructorDecl); ok {
				out = append(out, ctorCandidate{decl: ctor, subst: tt.Ref.Subst})
			}
		}
		out = append(out, c.extensionCtors(agg, t)...)
		return out
	default:
		return nil
	}
}

func (c *Checker) builtinCtors(b *Basic) []ctorCandidate {
	decl := c.Sess.Stdlib.Decls
	var out []ctorCandidate
	for _, d := range decl {
		bt, ok := d.(*ast.BuiltinTypeDecl)
		if !ok || basicFor(bt.Base().Name) == nil || !basicFor(bt.Base().Name).Equal(b) {
			continue
		}
		for _, m := range bt.Members {
			if ctor, ok := m.(*ast.ConstructorDecl); ok {
				out = append(out, ctorCandidate{decl: ctor})
			}
		}
	}
	return out
}

// magicCtors recovers the Vector/Matrix magic wrapper's own constructors
// (registered on its inner aggregate) and rebuilds the Subst that would
// have produced the target Vector/Matrix type, so their single scalar
// parameter resolves to the right element type.
func (c *Checker) magicCtors(t Type) []ctorCandidate {
	var magicName string
	var elem Type
	var extra []Value
	switch tt := t.(type) {
	case *Vector:
		magicName, elem = "Vector", tt.Elem
		extra = []Value{ConstantInt{V: int64(tt.Count)}}
	case *Matrix:
		magicName, elem = "Matrix", tt.Elem
		extra = []Value{ConstantInt{V: int64(tt.Rows)}, ConstantInt{V: int64(tt.Cols)}}
	default:
		return nil
	}
	for _, d := range c.Sess.Stdlib.Decls {
		w, ok := d.(*ast.GenericWrapperDecl)
		if !ok {
			continue
		}
		m := w.Base().Modifier(ast.ModMagic)
		if m == nil || m.MagicName != magicName {
			continue
		}
		agg, ok := w.Inner.(*ast.AggregateDecl)
		if !ok {
			continue
		}
		args := make([]Arg, 0, 1+len(extra))
		args = append(args, TypeArg(elem))
		for _, v := range extra {
			args = append(args, ValueArg(v))
		}
		subst := NewSubst(w, args)
		var out []ctorCandidate
		for _, mem := range agg.Members {
			if ctor, ok := mem.(*ast.ConstructorDecl); ok {
				out = append(out, ctorCandidate{decl: ctor, subst: subst})
			}
		}
		return out
	}
	return nil
}

// extensionCtors finds ExtensionDecl constructors that apply to t,
// including generic extensions whose target unifies with t.
func (c *Checker) extensionCtors(agg *ast.AggregateDecl, t Type) []ctorCandidate {
	var out []ctorCandidate
	if c.module == nil {
		return out
	}
	for _, d := range c.module.Decls {
		ext, ok := d.(*ast.ExtensionDecl)
		var wrapper *ast.GenericWrapperDecl
		if !ok {
			if w, ok := d.(*ast.GenericWrapperDecl); ok {
				if e, ok := w.Inner.(*ast.ExtensionDecl); ok {
					ext, wrapper = e, w
				}
			}
		}
		if ext == nil {
			continue
		}
		subst, applies := c.applyExtensionToType(ext, wrapper, t)
		if !applies {
			continue
		}
		for _, m := range ext.Members {
			if ctor, ok := m.(*ast.ConstructorDecl); ok {
				out = append(out, ctorCandidate{decl: ctor, subst: subst})
			}
		}
	}
	return out
}

// applyExtensionToType implements the extension-applicability check: a
// non-generic extension requires its target to equal t exactly;
// a generic extension seeds a constraint system from unifying its target
// against t and solves it.
func (c *Checker) applyExtensionToType(ext *ast.ExtensionDecl, wrapper *ast.GenericWrapperDecl, t Type) (*Subst, bool) {
	target := c.typeOf(ext.Target)
	if wrapper == nil {
		if target.Equal(t) {
			return nil, true
		}
		return nil, false
	}
	cs := NewConstraintSystem(wrapper)
	if !c.tryUnify(cs, target, t) {
		return nil, false
	}
	subst, ok := c.solve(cs)
	if !ok {
		return nil, false
	}
	solvedTarget := substituteType(target, subst)
	if !solvedTarget.Equal(t) {
		return nil, false
	}
	return subst, true
}
