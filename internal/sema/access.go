package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// checkCallExpr resolves a call site: a bare name is looked up as a
// function or, failing that, as a type (a constructor call); a
// member-access callee goes through method resolution; anything else is
// checked as an ordinary expression and must land on a type-valued result
// to be callable.
func (c *Checker) checkCallExpr(e *ast.CallExpr) QualType {
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		return c.resolveNamedCall(e, callee.Name)
	case *ast.MemberExpr:
		return c.resolveMethodCall(e, callee)
	default:
		return c.resolveValueCall(e)
	}
}

func (c *Checker) resolveNamedCall(e *ast.CallExpr, name string) QualType {
	result := c.lookup(name)
	fnItems := result.Filter(MaskFunction)
	typeItems := result.Filter(MaskType)
	switch {
	case len(fnItems) > 0:
		return c.resolveFunctionCall(e, fnItems, nil, name)
	case len(typeItems) == 1:
		t := c.typeFromDecl(typeItems[0].Decl, nil)
		return c.resolveConstructorCall(e, t, name)
	case len(typeItems) > 1:
		c.diagnose(diag.CodeAmbiguousReference, e.Span(), "ambiguous reference to %q", name)
	default:
		c.diagnose(diag.CodeUndefinedIdentifier, e.Span(), "undefined identifier %q", name)
	}
	c.lastCoerced = e
	return ErrorQual
}

// checkCallArgs checks every argument of e with no target type context,
// writing each rewritten node back into e.Args, and returns the checked
// types the overload resolver ranks candidates against alongside each
// argument's l-valueness, consulted once more at call completion to
// validate out/inout parameter directions.
func (c *Checker) checkCallArgs(e *ast.CallExpr) ([]Type, []bool) {
	argTypes := make([]Type, len(e.Args))
	argLValue := make([]bool, len(e.Args))
	for i, a := range e.Args {
		q := c.checkExpr(a)
		argTypes[i] = q.Type
		argLValue[i] = q.IsLValue
		e.Args[i] = c.lastCoerced
	}
	return argTypes, argLValue
}

func (c *Checker) resolveFunctionCall(e *ast.CallExpr, items []LookupResultItem, ownerSubst *Subst, name string) QualType {
	argTypes, argLValue := c.checkCallArgs(e)
	ctx := newOverloadContext(c, e.Args, argTypes, argLValue, ForReal, false, "")
	for _, item := range items {
		ctx.addNamed(item, ownerSubst)
	}
	cand := c.pickApplicable(e, ctx, name)
	if cand == nil {
		c.lastCoerced = e
		return ErrorQual
	}
	return c.synthesizeInvoke(e, cand)
}

// resolveConstructorCall implements a call on a type-valued expression,
// "Base(args)" where Base names a type, reusing the same constructor
// enumeration the coercion engine's constructor-conversion rule draws on.
func (c *Checker) resolveConstructorCall(e *ast.CallExpr, t Type, name string) QualType {
	ctors := c.constructorsForType(t)
	if len(ctors) == 0 {
		c.diagnose(diag.CodeNoApplicableOverload, e.Span(), "type %s has no constructor", t)
		c.lastCoerced = e
		return ErrorQual
	}
	argTypes, argLValue := c.checkCallArgs(e)
	ctx := newOverloadContext(c, e.Args, argTypes, argLValue, ForReal, false, "")
	for _, ctor := range ctors {
		ctx.addConstructor(ctor, t)
	}
	cand := c.pickApplicable(e, ctx, name)
	if cand == nil {
		c.lastCoerced = e
		return ErrorQual
	}
	return c.synthesizeInvoke(e, cand)
}

// resolveValueCall handles a call whose callee is neither a bare name nor
// a member access: it is checked as an ordinary expression, and a
// TypeOfType result (e.g. a parenthesized or generic-applied type used as
// a constructor) is routed into resolveConstructorCall.
func (c *Checker) resolveValueCall(e *ast.CallExpr) QualType {
	q := c.checkExpr(e.Callee)
	e.Callee = c.lastCoerced
	if tot, ok := q.Type.(*TypeOfType); ok {
		return c.resolveConstructorCall(e, tot.Referenced, tot.Referenced.String())
	}
	c.lastCoerced = e
	if q.IsError() {
		return ErrorQual
	}
	c.diagnose(diag.CodeExpectedFunction, e.Callee.Span(), "expression is not callable")
	return ErrorQual
}

// resolveMethodCall resolves "target.name(args)". A chosen method's call
// keeps its original CallExpr/MemberExpr shape rather than
// being rewritten to an InvokeExpr, since InvokeExpr has no slot for the
// receiver expression; only the argument list is coerced in place and the
// QualType is recorded on the call node itself.
func (c *Checker) resolveMethodCall(e *ast.CallExpr, me *ast.MemberExpr) QualType {
	targetQ := c.checkExpr(me.Target)
	me.Target = c.lastCoerced
	if targetQ.IsError() {
		c.lastCoerced = e
		return ErrorQual
	}
	agg, subst, ok := aggregateOf(targetQ.Type)
	if !ok {
		c.diagnose(diag.CodeNoMember, e.Span(), "type %s has no member %q", targetQ.Type, me.Name)
		c.lastCoerced = e
		return ErrorQual
	}
	c.Ensure(agg, ast.CheckedHeader)
	items := c.membersNamed(agg, me.Name)
	if len(items) == 0 {
		c.diagnose(diag.CodeNoMember, e.Span(), "type %s has no member %q", targetQ.Type, me.Name)
		c.lastCoerced = e
		return ErrorQual
	}
	argTypes, argLValue := c.checkCallArgs(e)
	ctx := newOverloadContext(c, e.Args, argTypes, argLValue, ForReal, false, "")
	for _, m := range items {
		ctx.addMember(m, subst)
	}
	cand := c.pickApplicable(e, ctx, me.Name)
	if cand == nil {
		c.lastCoerced = e
		return ErrorQual
	}
	params, _ := paramsOf(cand.decl)
	for i := range e.Args {
		if i >= len(params) {
			break
		}
		c.coerce(e.Args[i], c.effectiveParamType(params[i].Type, cand))
		e.Args[i] = c.lastCoerced
	}
	c.lastCoerced = e
	return QualType{Type: c.resultTypeOf(cand)}
}

// synthesizeInvoke completes overload resolution for a free-function or
// constructor call by coercing every argument against the chosen
// candidate's parameter types for real and splicing in an InvokeExpr in
// place of the original CallExpr.
func (c *Checker) synthesizeInvoke(e *ast.CallExpr, cand *candidate) QualType {
	params, _ := paramsOf(cand.decl)
	args := make([]ast.Expr, len(e.Args))
	for i := range e.Args {
		if i < len(params) {
			c.coerce(e.Args[i], c.effectiveParamType(params[i].Type, cand))
			args[i] = c.lastCoerced
			continue
		}
		args[i] = e.Args[i]
	}
	node := ast.NewInvokeExpr(cand.decl, args, e.Span())
	q := QualType{Type: c.resultTypeOf(cand)}
	node.SetResolved(q)
	c.lastCoerced = node
	return q
}

// checkMemberExpr resolves "target.name" outside a call: swizzle on a
// vector, a field read, or an overload group standing for an
// as-yet-unresolved instance method (picked up by an enclosing CallExpr
// through resolveMethodCall instead of through this path).
func (c *Checker) checkMemberExpr(e *ast.MemberExpr) QualType {
	targetQ := c.checkExpr(e.Target)
	e.Target = c.lastCoerced
	if targetQ.IsError() {
		c.lastCoerced = e
		return ErrorQual
	}
	if v, ok := targetQ.Type.(*Vector); ok {
		return c.checkSwizzle(e, v, targetQ.IsLValue)
	}
	agg, subst, ok := aggregateOf(targetQ.Type)
	if !ok {
		c.diagnose(diag.CodeNoMember, e.Span(), "type %s has no member %q", targetQ.Type, e.Name)
		c.lastCoerced = e
		return ErrorQual
	}
	c.Ensure(agg, ast.CheckedHeader)
	for _, f := range agg.Fields {
		if f.Base().Name == e.Name {
			c.Ensure(f, ast.CheckedHeader)
			ft := substituteType(c.typeOf(f.Type), subst)
			c.lastCoerced = e
			return QualType{Type: ft, IsLValue: targetQ.IsLValue}
		}
	}
	items := c.membersNamed(agg, e.Name)
	if len(items) == 0 {
		c.diagnose(diag.CodeNoMember, e.Span(), "type %s has no member %q", targetQ.Type, e.Name)
		c.lastCoerced = e
		return ErrorQual
	}
	group := make([]LookupResultItem, len(items))
	for i, it := range items {
		group[i] = LookupResultItem{Decl: it, Category: CategoryFunction}
	}
	c.lastCoerced = e
	return RValue(&OverloadGroup{Items: group})
}

// checkSwizzle validates a vector member-access name as a swizzle and
// synthesizes a SwizzleExpr in the MemberExpr's place. A duplicate
// swizzle index (e.g. ".xx") makes the result non-lvalue.
func (c *Checker) checkSwizzle(e *ast.MemberExpr, v *Vector, baseLValue bool) QualType {
	indices := make([]int, len(e.Name))
	for i, ch := range e.Name {
		idx := swizzleIndex(ch)
		if idx < 0 || idx >= v.Count {
			c.diagnose(diag.CodeNoMember, e.Span(), "invalid swizzle component %q for %s", string(ch), v)
			c.lastCoerced = e
			return ErrorQual
		}
		indices[i] = idx
	}
	node := ast.NewSwizzleExpr(e.Target, indices, e.Span())
	resultType := Type(v.Elem)
	if len(indices) > 1 {
		resultType = &Vector{Elem: v.Elem, Count: len(indices)}
	}
	q := QualType{Type: resultType, IsLValue: baseLValue && !node.HasDuplicateIndex()}
	node.SetResolved(q)
	c.lastCoerced = node
	return q
}

func swizzleIndex(ch rune) int {
	switch ch {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	default:
		return -1
	}
}

// checkIndexExpr resolves "target[index]": native subscripting on an
// array, vector, matrix, or pointer-like target, or a rewrite into an
// "operator[]" overload resolution on a user-defined aggregate.
func (c *Checker) checkIndexExpr(e *ast.IndexExpr) QualType {
	targetQ := c.checkExpr(e.Target)
	e.Target = c.lastCoerced
	if targetQ.IsError() {
		c.lastCoerced = e
		return ErrorQual
	}
	switch t := targetQ.Type.(type) {
	case *Array:
		return c.checkNativeIndex(e, t.Elem, targetQ.IsLValue)
	case *Vector:
		return c.checkNativeIndex(e, t.Elem, targetQ.IsLValue)
	case *Matrix:
		return c.checkNativeIndex(e, &Vector{Elem: t.Elem, Count: t.Cols}, targetQ.IsLValue)
	case *PointerLike:
		return c.checkNativeIndex(e, t.Elem, true)
	default:
		return c.resolveSubscriptCall(e, targetQ.Type)
	}
}

func (c *Checker) checkNativeIndex(e *ast.IndexExpr, elem Type, isLValue bool) QualType {
	c.coerce(e.Index, TypeInt)
	e.Index = c.lastCoerced
	c.lastCoerced = e
	return QualType{Type: elem, IsLValue: isLValue}
}

// resolveSubscriptCall implements the "operator[]" rewrite for a
// user-defined aggregate. Like resolveMethodCall, the original IndexExpr
// node is kept, since InvokeExpr has no receiver slot; only the index
// expression is coerced for real once a candidate is chosen.
func (c *Checker) resolveSubscriptCall(e *ast.IndexExpr, t Type) QualType {
	agg, subst, ok := aggregateOf(t)
	if !ok {
		c.diagnose(diag.CodeSubscriptNonArray, e.Span(), "type %s cannot be subscripted", t)
		c.lastCoerced = e
		return ErrorQual
	}
	c.Ensure(agg, ast.CheckedHeader)
	var subs []ast.Decl
	for _, m := range agg.Members {
		if _, ok := m.(*ast.SubscriptDecl); ok {
			subs = append(subs, m)
		}
	}
	if len(subs) == 0 {
		c.diagnose(diag.CodeSubscriptNonArray, e.Span(), "type %s cannot be subscripted", t)
		c.lastCoerced = e
		return ErrorQual
	}
	indexQ := c.checkExpr(e.Index)
	e.Index = c.lastCoerced
	ctx := newOverloadContext(c, []ast.Expr{e.Index}, []Type{indexQ.Type}, []bool{indexQ.IsLValue}, ForReal, false, "")
	for _, s := range subs {
		ctx.addMember(s, subst)
	}
	cand := c.pickApplicable(e, ctx, "operator[]")
	if cand == nil {
		c.lastCoerced = e
		return ErrorQual
	}
	params, _ := paramsOf(cand.decl)
	if len(params) > 0 {
		c.coerce(e.Index, c.effectiveParamType(params[0].Type, cand))
		e.Index = c.lastCoerced
	}
	c.lastCoerced = e
	sub := cand.decl.(*ast.SubscriptDecl)
	return QualType{Type: c.resultTypeOf(cand), IsLValue: sub.HasSetter()}
}

// aggregateOf recovers the aggregate declaration and active substitution
// behind a resolved Type, if it names one.
func aggregateOf(t Type) (*ast.AggregateDecl, *Subst, bool) {
	dr, ok := t.(*DeclRefType)
	if !ok {
		return nil, nil, false
	}
	agg, ok := dr.Ref.Decl.(*ast.AggregateDecl)
	return agg, dr.Ref.Subst, ok
}

// membersNamed collects every declaration named name on agg, including
// those reached through its base-type chain: instance member lookup walks
// inheritance.
func (c *Checker) membersNamed(agg *ast.AggregateDecl, name string) []ast.Decl {
	var out []ast.Decl
	for _, m := range agg.Members {
		if m.Base().Name == name {
			out = append(out, m)
		}
	}
	for _, b := range agg.Bases {
		c.Ensure(b, ast.Checked)
		if dr, ok := c.typeOf(b.BaseType).(*DeclRefType); ok {
			if baseAgg, ok := dr.Ref.Decl.(*ast.AggregateDecl); ok {
				out = append(out, c.membersNamed(baseAgg, name)...)
			}
		}
	}
	return out
}
