package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/source"
)

// solveGenericArgs binds an explicit generic application "Base<Args...>"
// positionally against wrapper's bindable parameters, as opposed to the
// call-site inference inferGenericCandidate drives for an unapplied
// generic function. Each element of args is either an ast.Type (for a
// type parameter slot) or an ast.Expr folded through the constant folder
// (for a value parameter slot), matching how the parser leaves the two
// mixed in GenericAppTypeExpr.Args.
func (c *Checker) solveGenericArgs(wrapper *ast.GenericWrapperDecl, args []ast.Node, span source.Span) (*Subst, bool) {
	params := wrapper.BindableParams()
	if len(args) != len(params) {
		c.diagnose(diag.CodeGenericInferenceFailed, span, "expected %d generic argument(s), got %d", len(params), len(args))
		return nil, false
	}
	out := make([]Arg, len(params))
	ok := true
	for i, p := range params {
		switch pd := p.(type) {
		case *ast.GenericTypeParamDecl:
			t, isType := args[i].(ast.Type)
			if !isType {
				c.diagnose(diag.CodeExpectedType, span, "expected a type for generic parameter %q", pd.Base().Name)
				ok = false
				continue
			}
			resolved := c.resolveTypeExpr(t)
			if !c.satisfiesBounds(resolved, pd.Bounds, span) {
				ok = false
				continue
			}
			out[i] = TypeArg(resolved)
		case *ast.GenericValueParamDecl:
			e, isExpr := args[i].(ast.Expr)
			if !isExpr {
				c.diagnose(diag.CodeExpectedIntegerConstant, span, "expected a value for generic parameter %q", pd.Base().Name)
				ok = false
				continue
			}
			v, folded := c.tryFoldValue(e)
			if !folded {
				c.diagnose(diag.CodeExpectedIntegerConstant, span, "generic argument for %q must be a constant integer expression", pd.Base().Name)
				ok = false
				continue
			}
			out[i] = ValueArg(v)
		default:
			ok = false
		}
	}
	if !ok {
		return nil, false
	}
	return NewSubst(wrapper, out), true
}

// satisfiesBounds checks a solved type-parameter argument against its
// declared interface bounds, reusing the coercion engine's interface
// conformance check.
func (c *Checker) satisfiesBounds(t Type, bounds []ast.Type, span source.Span) bool {
	ok := true
	for _, b := range bounds {
		bound := c.resolveTypeExpr(b)
		iface, isIface := bound.(*InterfaceType)
		if !isIface {
			continue
		}
		if !c.conformsToInterface(t, iface) {
			c.diagnose(diag.CodeGenericInferenceFailed, span, "%s does not satisfy %s", t, iface)
			ok = false
		}
	}
	return ok
}
