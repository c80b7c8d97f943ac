package sema

import (
	"strconv"

	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/session"
)

// tryFoldValue is the constant folder's entry point: it evaluates expr as
// a compile-time integer Value, or fails (ok=false) if expr isn't
// foldable. It operates directly on the as-parsed tree (so it can run
// during header checking, before the statement/expression visitor has
// rewritten arithmetic into InvokeExpr nodes) but also understands the
// checked shapes (ImplicitCastExpr, InvokeExpr) so re-running it over an
// already-checked expression is a no-op.
func (c *Checker) tryFoldValue(e ast.Expr) (Value, bool) {
	switch expr := e.(type) {
	case nil:
		return nil, false
	case *ast.ParenExpr:
		return c.tryFoldValue(expr.Inner)
	case *ast.ImplicitCastExpr:
		return c.tryFoldValue(expr.Inner)
	case *ast.IntegerLit:
		n, err := strconv.ParseInt(expr.Text, 0, 64)
		if err != nil {
			return nil, false
		}
		return ConstantInt{V: n}, true
	case *ast.Ident:
		return c.tryFoldIdent(expr)
	case *ast.CastExpr:
		return c.tryFoldValue(expr.Value)
	case *ast.PrefixExpr:
		return c.tryFoldPrefix(expr)
	case *ast.InfixExpr:
		return c.tryFoldInfix(expr)
	case *ast.InvokeExpr:
		return c.tryFoldInvoke(expr.Callee, expr.Args)
	default:
		return nil, false
	}
}

// tryFoldIdent resolves name references during constant folding: a
// reference to a generic value parameter stays symbolic, a reference to a
// foldable static/GLSL const folds through its initializer, and anything
// else isn't foldable.
func (c *Checker) tryFoldIdent(id *ast.Ident) (Value, bool) {
	head, _ := c.scope.Resolve(id.Name)
	decl, ok := head.(ast.Decl)
	if !ok {
		return nil, false
	}
	switch d := decl.(type) {
	case *ast.GenericValueParamDecl:
		return GenericParamInt{Decl: d}, true
	case *ast.VarDecl:
		if d.Base().HasModifier(ast.ModConstantID) {
			// GLSL specialization constant: kept symbolic.
			return GenericParamInt{Decl: d}, true
		}
		if !c.isFoldableConstVar(d) || d.Init == nil {
			return nil, false
		}
		return c.tryFoldValue(d.Init)
	default:
		return nil, false
	}
}

// isFoldableConstVar reports whether d is the kind of variable declaration
// the constant folder may fold through: "static const" in HLSL/unified
// mode, plain "const" in GLSL mode.
func (c *Checker) isFoldableConstVar(d *ast.VarDecl) bool {
	if !d.Base().HasModifier(ast.ModConst) {
		return false
	}
	if c.Sess != nil && c.Sess.Language == session.GLSL {
		return true
	}
	return d.Base().HasModifier(ast.ModStatic)
}

func (c *Checker) tryFoldPrefix(e *ast.PrefixExpr) (Value, bool) {
	if e.Op != "-" {
		// Unary "+" is not implemented: it's only wired as a binary
		// operator here.
		return nil, false
	}
	v, ok := c.tryFoldValue(e.Operand)
	if !ok {
		return nil, false
	}
	ci, ok := v.(ConstantInt)
	if !ok {
		return nil, false
	}
	return ConstantInt{V: -ci.V}, true
}

func (c *Checker) tryFoldInfix(e *ast.InfixExpr) (Value, bool) {
	switch e.Op {
	case "+", "-", "*", "/", "%":
	default:
		return nil, false
	}
	return c.tryFoldInvoke(nil, []ast.Expr{e.Left, e.Right}, e.Op)
}

// tryFoldInvoke folds an intrinsic-operator call: every argument must fold
// to a concrete ConstantInt (no mixing with symbolic GenericParamInt
// values), up to eight arguments, dispatched by name. callee may be nil
// when called from tryFoldInfix, which already knows its op.
func (c *Checker) tryFoldInvoke(callee ast.Decl, args []ast.Expr, opOverride ...string) (Value, bool) {
	op := ""
	if len(opOverride) > 0 {
		op = opOverride[0]
	} else {
		fn, ok := callee.(*ast.FunctionDecl)
		if !ok || !fn.Base().HasModifier(ast.ModIntrinsicOp) {
			return nil, false
		}
		op = fn.Base().Modifier(ast.ModIntrinsicOp).IntrinsicName
	}
	if len(args) > 8 {
		return nil, false
	}
	vals := make([]int64, len(args))
	for i, a := range args {
		v, ok := c.tryFoldValue(a)
		if !ok {
			return nil, false
		}
		ci, ok := v.(ConstantInt)
		if !ok {
			return nil, false // a symbolic argument blocks evaluation
		}
		vals[i] = ci.V
	}
	switch op {
	case "-":
		if len(vals) == 1 {
			return ConstantInt{V: -vals[0]}, true
		}
		if len(vals) == 2 {
			return ConstantInt{V: vals[0] - vals[1]}, true
		}
	case "+":
		if len(vals) == 2 {
			return ConstantInt{V: vals[0] + vals[1]}, true
		}
	case "*":
		if len(vals) == 2 {
			return ConstantInt{V: vals[0] * vals[1]}, true
		}
	case "/":
		if len(vals) == 2 {
			if vals[1] == 0 {
				return nil, false
			}
			return ConstantInt{V: vals[0] / vals[1]}, true
		}
	case "%":
		if len(vals) == 2 {
			if vals[1] == 0 {
				return nil, false
			}
			return ConstantInt{V: vals[0] % vals[1]}, true
		}
	}
	return nil, false
}

// tryFoldInteger is the concrete-only convenience wrapper resolveTypeExpr's
// array-size folding uses: a symbolic result (GenericParamInt) is treated
// as not-yet-foldable here, since an array size must be a fixed count.
func (c *Checker) tryFoldInteger(e ast.Expr) (int64, bool) {
	v, ok := c.tryFoldValue(e)
	if !ok {
		return 0, false
	}
	ci, ok := v.(ConstantInt)
	if !ok {
		return 0, false
	}
	return ci.V, true
}

// checkIntegerConstantExpression coerces e to int and then folds it,
// diagnosing CodeExpectedIntegerConstant on either failure. Used by the
// numthreads and register modifier checks, which reuse this instead of a
// separate mini-evaluator.
func (c *Checker) checkIntegerConstantExpression(e ast.Expr) (int64, bool) {
	c.coerce(e, TypeInt)
	v, ok := c.tryFoldValue(c.lastCoerced)
	if !ok {
		c.diagnose(diag.CodeExpectedIntegerConstant, e.Span(), "expected an integer constant expression")
		return 0, false
	}
	ci, ok := v.(ConstantInt)
	if !ok {
		c.diagnose(diag.CodeExpectedIntegerConstant, e.Span(), "expected an integer constant expression")
		return 0, false
	}
	return ci.V, true
}
