package sema

import (
	"fmt"
	"strings"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// overloadMode distinguishes a resolution that must produce diagnostics on
// failure (ForReal, used by checkCallExpr/checkIndexExpr) from one that is
// only probing applicability (JustTrying, used by the coercion engine's
// constructor-conversion rule).
type overloadMode int

const (
	JustTrying overloadMode = iota
	ForReal
)

// candidateKind distinguishes a plain function/constructor/subscript
// candidate from one reached through a generic wrapper, which needs
// argument-type inference before it can be type-checked.
type candidateKind int

const (
	candidateFunction candidateKind = iota
	candidateGeneric
	candidateUnspecializedGeneric
)

// candidateStatus is the ladder a candidate climbs during tryCheckCandidate:
// a candidate stops advancing the moment a step fails, and its final rung
// both gates applicability and breaks ranking ties against candidates that
// failed earlier.
type candidateStatus int

const (
	statusUnchecked candidateStatus = iota
	statusArityChecked
	statusFixityChecked
	statusTypeChecked
	statusApplicable
)

// candidate is one declaration being considered for a call, member access,
// or constructor conversion.
type candidate struct {
	decl ast.Decl // *FunctionDecl | *ConstructorDecl | *SubscriptDecl

	// wrapper is non-nil when decl was reached by unwrapping a
	// GenericWrapperDecl; subst is the solved substitution once inference
	// succeeds.
	wrapper *ast.GenericWrapperDecl
	subst   *Subst

	// ownerSubst is the substitution active on decl's owning type (e.g.
	// the instance type of a method call, or a generic aggregate's own
	// instantiation for one of its constructors), applied to parameter and
	// return types ahead of (and independently from) subst.
	ownerSubst *Subst

	// resultType overrides the type computed from decl's own declared
	// return type, used for constructors, whose result is the owning
	// type rather than anything the ConstructorDecl itself names.
	resultType Type

	kind    candidateKind
	status  candidateStatus
	cost    int
	message string
}

// overloadContext is one overload-resolution attempt: a fixed argument
// list checked against every candidate added to it, tracking the single
// best candidate found so far or, on a tie, the list of co-best
// candidates.
type overloadContext struct {
	c         *Checker
	args      []ast.Expr
	argTypes  []Type
	argLValue []bool // parallel to args; consulted by checkArgumentDirections once resolution picks a winner
	mode      overloadMode

	disallowNestedConversions bool
	fixity                    string // "prefix", "postfix", or "" for none required

	best     *candidate
	bestList []*candidate
}

func newOverloadContext(c *Checker, args []ast.Expr, argTypes []Type, argLValue []bool, mode overloadMode, disallowNested bool, fixity string) *overloadContext {
	return &overloadContext{c: c, args: args, argTypes: argTypes, argLValue: argLValue, mode: mode, disallowNestedConversions: disallowNested, fixity: fixity}
}

// addCandidate admits a constructor found by the coercion engine's
// constructorsForType: cc.subst substitutes the owning type's generic
// parameters, not the constructor's own (constructors aren't separately
// generic in this language).
func (ctx *overloadContext) addCandidate(cc ctorCandidate) {
	ctx.addDecl(cc.decl, nil, cc.subst, nil)
}

// addNamed admits a candidate found by ordinary name lookup, unwrapping a
// generic wrapper so its inner declaration becomes the candidate and its
// wrapper drives inference.
func (ctx *overloadContext) addNamed(item LookupResultItem, ownerSubst *Subst) {
	decl, ok := item.Decl.(ast.Decl)
	if !ok {
		return
	}
	ctx.addMember(decl, ownerSubst)
}

// addMember admits a candidate found by scanning an aggregate/interface's
// Members list directly, unwrapping a generic wrapper the same way
// addNamed does.
func (ctx *overloadContext) addMember(decl ast.Decl, ownerSubst *Subst) {
	if w, ok := decl.(*ast.GenericWrapperDecl); ok {
		inner, ok := w.Inner.(ast.Decl)
		if !ok {
			return
		}
		ctx.addDecl(inner, w, ownerSubst, nil)
		return
	}
	ctx.addDecl(decl, nil, ownerSubst, nil)
}

// addConstructor admits a constructor reached via a type-value call (e.g.
// "float3(1,2,3)"), with resultType supplying the type the call produces
// (the owning aggregate/basic/vector/matrix type, not anything stored on
// the ConstructorDecl itself).
func (ctx *overloadContext) addConstructor(cc ctorCandidate, resultType Type) {
	ctx.addDecl(cc.decl, nil, cc.subst, resultType)
}

func (ctx *overloadContext) addDecl(decl ast.Decl, wrapper *ast.GenericWrapperDecl, ownerSubst *Subst, resultType Type) {
	cand := &candidate{decl: decl, wrapper: wrapper, ownerSubst: ownerSubst, resultType: resultType, kind: candidateFunction}
	if wrapper != nil {
		cand.kind = candidateGeneric
	}
	ctx.c.tryCheckCandidate(cand, ctx)
	ctx.rank(cand)
}

// rank folds cand into ctx.best/ctx.bestList, preserving the single-best
// vs tied-list invariant: ctx.best is set only while exactly one candidate
// leads; a newly discovered tie collapses it into ctx.bestList instead.
func (ctx *overloadContext) rank(cand *candidate) {
	switch {
	case ctx.best == nil && len(ctx.bestList) == 0:
		ctx.best = cand
	case ctx.best != nil:
		switch compareCandidates(cand, ctx.best) {
		case 1:
			ctx.best = cand
		case 0:
			ctx.bestList = []*candidate{ctx.best, cand}
			ctx.best = nil
		}
	default:
		switch compareCandidates(cand, ctx.bestList[0]) {
		case 1:
			ctx.best = cand
			ctx.bestList = nil
		case 0:
			ctx.bestList = append(ctx.bestList, cand)
		}
	}
}

// compareCandidates orders two candidates: a further-advanced status
// always wins; among two Applicable candidates, lower cost wins; anything
// else is a tie.
func compareCandidates(a, b *candidate) int {
	if a.status != b.status {
		if a.status > b.status {
			return 1
		}
		return -1
	}
	if a.status != statusApplicable {
		return 0
	}
	if a.cost != b.cost {
		if a.cost < b.cost {
			return 1
		}
		return -1
	}
	return 0
}

// constructorCost folds a ConstructorDecl's ModImplicitConvCost modifier
// into the candidate's ranking cost: present, it contributes its declared
// cost; absent, the constructor is explicit-only and contributes
// costExplicitOnly, which tryConstructorConversion refuses to accept as a
// winning implicit conversion. Non-constructor candidates are unaffected.
func constructorCost(decl ast.Decl) int {
	ctor, ok := decl.(*ast.ConstructorDecl)
	if !ok {
		return 0
	}
	m := ctor.Base().Modifier(ast.ModImplicitConvCost)
	if m == nil || m.Cost == nil {
		return costExplicitOnly
	}
	return *m.Cost
}

func paramsOf(decl ast.Decl) ([]*ast.ParamDecl, bool) {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		return d.Params, true
	case *ast.ConstructorDecl:
		return d.Params, true
	case *ast.SubscriptDecl:
		return d.Params, true
	default:
		return nil, false
	}
}

// tryCheckCandidate runs the arity -> fixity -> types -> (generic
// inference folded into the types step) ladder, advancing cand.status one
// rung at a time and stopping the moment a rung fails.
func (c *Checker) tryCheckCandidate(cand *candidate, ctx *overloadContext) {
	params, ok := paramsOf(cand.decl)
	if !ok {
		return
	}

	required, allowed := 0, len(params)
	for _, p := range params {
		if p.Default == nil {
			required++
		}
	}
	if len(ctx.args) < required || len(ctx.args) > allowed {
		return
	}
	cand.status = statusArityChecked

	if ctx.fixity != "" {
		need := ast.ModPrefix
		if ctx.fixity == "postfix" {
			need = ast.ModPostfix
		}
		if !cand.decl.Base().HasModifier(need) {
			return
		}
	}
	cand.status = statusFixityChecked

	// Out/inout parameter directions don't gate ranking here: an argument's
	// l-valueness has no effect on which candidate wins. checkArgumentDirections
	// re-applies the rule once pickApplicable has settled on a winner, so it
	// reports against the actual call rather than silently losing a candidate
	// with no diagnostic at all.

	if cand.wrapper != nil {
		subst, ok := c.inferGenericCandidate(cand.wrapper, params, ctx.argTypes, cand.ownerSubst)
		if !ok {
			cand.kind = candidateUnspecializedGeneric
			cand.message = "could not infer generic arguments from call site"
			return
		}
		cand.subst = subst
	}

	total := 0
	for i := range ctx.args {
		if i >= len(params) {
			break
		}
		paramType := c.effectiveParamType(params[i].Type, cand)
		ok, cost := c.canCoerce(ctx.args[i], ctx.argTypes[i], paramType, ctx.disallowNestedConversions)
		if !ok {
			return
		}
		total += cost
	}
	total += constructorCost(cand.decl)
	cand.cost = total
	cand.status = statusApplicable
}

// effectiveParamType resolves a declared parameter type through both of a
// candidate's substitution layers: the generic call's own solved subst (if
// any) and the owning instance's subst (e.g. a method on Vector<float,3>),
// composed in either order since each only touches TypeParamRefs bound to
// its own wrapper.
func (c *Checker) effectiveParamType(t ast.Type, cand *candidate) Type {
	resolved := c.typeOf(t)
	resolved = substituteType(resolved, cand.subst)
	resolved = substituteType(resolved, cand.ownerSubst)
	return resolved
}

// resultTypeOf resolves a candidate's result type: the override set by the
// caller for a constructor call, or the declared return type run through
// the same two substitution layers otherwise.
func (c *Checker) resultTypeOf(cand *candidate) Type {
	if cand.resultType != nil {
		return cand.resultType
	}
	switch d := cand.decl.(type) {
	case *ast.FunctionDecl:
		c.Ensure(d, ast.CheckedHeader)
		return c.effectiveParamType(d.ReturnType, cand)
	case *ast.SubscriptDecl:
		c.Ensure(d, ast.CheckedHeader)
		return c.effectiveParamType(d.ReturnType, cand)
	default:
		return TypeVoid
	}
}

// pickApplicable resolves ctx to a single applicable candidate or reports
// the matching diagnostic and returns nil: ambiguous when a cost tie
// survives among Applicable candidates,
// generic-inference-failed when the sole leader stopped before
// type-checking because its wrapper couldn't be solved, and
// no-applicable-overload otherwise.
func (c *Checker) pickApplicable(site ast.Node, ctx *overloadContext, name string) *candidate {
	switch {
	case ctx.best != nil && ctx.best.status == statusApplicable:
		c.checkArgumentDirections(ctx, ctx.best)
		return ctx.best
	case len(ctx.bestList) >= 2 && ctx.bestList[0].status == statusApplicable:
		sigs := make([]string, len(ctx.bestList))
		for i, cand := range ctx.bestList {
			sigs[i] = fmt.Sprintf("%s (cost %d)", c.declSignature(cand), cand.cost)
		}
		c.diagnose(diag.CodeAmbiguousOverload, site.Span(), "ambiguous overload for %q with args %s: %s", name, callSignature(ctx.argTypes), strings.Join(sigs, ", "))
		return nil
	case ctx.best != nil && ctx.best.kind == candidateUnspecializedGeneric:
		c.diagnose(diag.CodeGenericInferenceFailed, site.Span(), "could not infer generic arguments for %q: %s", name, ctx.best.message)
		return nil
	default:
		c.diagnose(diag.CodeNoApplicableOverload, site.Span(), "no applicable overload for %q with args %s", name, callSignature(ctx.argTypes))
		return nil
	}
}

// callSignature renders a checked argument list as the "(T1, T2)" string
// every overload diagnostic reports against.
func callSignature(argTypes []Type) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// declSignature renders a candidate's own declaration signature, its
// parameter types resolved through the same substitution layers ranking
// used, so an ambiguous-overload diagnostic shows what the call site
// actually saw rather than the as-written generic form.
func (c *Checker) declSignature(cand *candidate) string {
	params, _ := paramsOf(cand.decl)
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = c.effectiveParamType(p.Type, cand).String()
	}
	return cand.decl.Base().Name + "(" + strings.Join(parts, ", ") + ")"
}

// checkArgumentDirections runs the "Directions" rung for real: ranking
// itself never rejects a candidate for an out/inout parameter bound to a
// non-lvalue argument, so once resolution settles on a winner this walks
// its parameters once more and diagnoses any argument that doesn't satisfy
// its parameter's direction.
func (c *Checker) checkArgumentDirections(ctx *overloadContext, cand *candidate) {
	params, ok := paramsOf(cand.decl)
	if !ok {
		return
	}
	for i := range ctx.args {
		if i >= len(params) || i >= len(ctx.argLValue) {
			break
		}
		if params[i].IsOut() && !ctx.argLValue[i] {
			c.diagnose(diag.CodeArgumentExpectedLValue, ctx.args[i].Span(), "argument for %s parameter %q must be an lvalue", directionName(params[i]), params[i].Base().Name)
		}
	}
}

func directionName(p *ast.ParamDecl) string {
	if p.HasModifier(ast.ModInOut) {
		return "inout"
	}
	return "out"
}

// inferGenericCandidate unifies each parameter's declared type against the
// matching argument type and solves the resulting system. The owning
// instance's subst is applied to the declared type first, so a
// generic method on an already-instantiated generic aggregate only leaves
// the method's own parameters open for inference.
func (c *Checker) inferGenericCandidate(wrapper *ast.GenericWrapperDecl, params []*ast.ParamDecl, argTypes []Type, ownerSubst *Subst) (*Subst, bool) {
	cs := NewConstraintSystem(wrapper)
	n := len(params)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		declared := substituteType(c.typeOf(params[i].Type), ownerSubst)
		if !c.tryUnify(cs, declared, argTypes[i]) {
			return nil, false
		}
	}
	return c.solve(cs)
}
