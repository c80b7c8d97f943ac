package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// checkExpr dispatches expression checking and memoizes the result onto
// the node via ast.Expr.SetResolved, so re-checking the same node (e.g.
// the exhaustive re-check revisiting a function whose body already
// succeeded) is a no-op.
//
// Beyond memoizing the QualType, checkExpr also leaves c.lastCoerced set
// to whichever node should replace e in its parent's field: e itself for
// every non-rewriting check, or the node a handler like checkCallExpr
// synthesized in e's place. Callers that hold e through a field they can
// reassign (e.Left, e.Args[i], a statement's expression slot, ...) are
// expected to immediately read c.lastCoerced back into that field, the
// same convention coerce already established.
func (c *Checker) checkExpr(e ast.Expr) QualType {
	if e == nil {
		c.lastCoerced = e
		return ErrorQual
	}
	if q, ok := e.GetResolved().(QualType); ok {
		c.lastCoerced = e
		return q
	}
	q := c.checkExprUncached(e)
	result := c.lastCoerced
	if result == nil {
		result = e
	}
	result.SetResolved(q)
	c.lastCoerced = result
	return q
}

// checkExprUncached defaults c.lastCoerced to e (no rewrite) before
// dispatching, so only the handlers that actually synthesize a replacement
// node need to override it.
func (c *Checker) checkExprUncached(e ast.Expr) QualType {
	c.lastCoerced = e
	switch expr := e.(type) {
	case *ast.Ident:
		return c.checkIdent(expr)
	case *ast.IntegerLit:
		return RValue(TypeInt)
	case *ast.FloatLit:
		return RValue(TypeFloat)
	case *ast.BoolLit:
		return RValue(TypeBool)
	case *ast.ParenExpr:
		q := c.checkExpr(expr.Inner)
		expr.Inner = c.lastCoerced
		c.lastCoerced = expr
		return q
	case *ast.PrefixExpr:
		return c.checkPrefixExpr(expr)
	case *ast.PostfixExpr:
		return c.checkPostfixExpr(expr)
	case *ast.InfixExpr:
		return c.checkInfixExpr(expr)
	case *ast.AssignExpr:
		return c.checkAssignExpr(expr)
	case *ast.CallExpr:
		return c.checkCallExpr(expr)
	case *ast.MemberExpr:
		return c.checkMemberExpr(expr)
	case *ast.IndexExpr:
		return c.checkIndexExpr(expr)
	case *ast.ThisExpr:
		return c.checkThisExpr(expr)
	case *ast.CastExpr:
		return c.checkCastExpr(expr)
	case *ast.InitializerListExpr:
		// An initializer list with no target type context (e.g. used as a
		// bare statement) can't be typed; the coerce path handles the
		// contextual case.
		c.diagnose(diag.CodeExpectedType, expr.Span(), "initializer list requires a target type")
		return ErrorQual
	case *ast.TypeValueExpr:
		t := c.resolveTypeExpr(expr.TypeExpr)
		return RValue(&TypeOfType{Referenced: t})
	case *ast.ErrorExpr:
		return ErrorQual
	case *ast.ImplicitCastExpr:
		return c.checkExpr(expr.Inner)
	case *ast.InvokeExpr, *ast.GenericAppExpr, *ast.SwizzleExpr:
		// Already-resolved synthesized nodes; nothing further to do.
		return ErrorQual
	default:
		return ErrorQual
	}
}

func (c *Checker) checkIdent(id *ast.Ident) QualType {
	result := c.lookup(id.Name)
	items := result.Filter(MaskValue | MaskFunction | MaskType)
	if len(items) == 0 {
		c.diagnose(diag.CodeUndefinedIdentifier, id.Span(), "undefined identifier %q", id.Name)
		return ErrorQual
	}
	if len(items) == 1 {
		return c.qualForDeclRef(items[0].Decl)
	}
	// More than one candidate: surfaced as an OverloadGroup so a
	// surrounding CallExpr/GenericAppTypeExpr can pick among them;
	// referenced bare (e.g. "f;" with no call) it's an ambiguity error.
	return RValue(&OverloadGroup{Items: items})
}

func (c *Checker) qualForDeclRef(d interface{}) QualType {
	decl, ok := d.(ast.Decl)
	if !ok {
		return ErrorQual
	}
	switch dd := decl.(type) {
	case *ast.VarDecl, *ast.ParamDecl, *ast.FieldDecl:
		c.Ensure(decl, ast.CheckedHeader)
		if t, ok := c.declTypes[decl]; ok {
			return LValue(t)
		}
		return LValue(c.typeOf(fieldLikeType(decl)))
	case *ast.FunctionDecl:
		c.Ensure(decl, ast.CheckedHeader)
		return RValue(functionTypeOf(c, dd))
	case *ast.BuiltinTypeDecl, *ast.TypedefDecl, *ast.AggregateDecl, *ast.InterfaceDecl, *ast.GenericWrapperDecl:
		t := c.typeFromDecl(decl, nil)
		return RValue(&TypeOfType{Referenced: t})
	default:
		return ErrorQual
	}
}

func fieldLikeType(d ast.Decl) ast.Type {
	switch dd := d.(type) {
	case *ast.VarDecl:
		return dd.Type
	case *ast.ParamDecl:
		return dd.Type
	case *ast.FieldDecl:
		return dd.Type
	default:
		return nil
	}
}

func functionTypeOf(c *Checker, d *ast.FunctionDecl) Type {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.typeOf(p.Type)
	}
	return &FunctionType{Params: params, Return: c.typeOf(d.ReturnType)}
}

func (c *Checker) checkPrefixExpr(e *ast.PrefixExpr) QualType {
	operand := c.checkExpr(e.Operand)
	e.Operand = c.lastCoerced
	c.lastCoerced = e
	if operand.IsError() {
		return ErrorQual
	}
	if e.Op == "!" {
		c.coerce(e.Operand, TypeBool)
		e.Operand = c.lastCoerced
		c.lastCoerced = e
		return RValue(TypeBool)
	}
	q := c.resolveIntrinsicUnary(e, e.Op, operand)
	c.lastCoerced = e
	return q
}

func (c *Checker) checkPostfixExpr(e *ast.PostfixExpr) QualType {
	operand := c.checkExpr(e.Operand)
	e.Operand = c.lastCoerced
	c.lastCoerced = e
	if !operand.IsLValue {
		c.diagnose(diag.CodeAssignToNonLValue, e.Span(), "operand of %q must be an lvalue", e.Op)
	}
	return RValue(operand.Type)
}

func (c *Checker) checkInfixExpr(e *ast.InfixExpr) QualType {
	lhs := c.checkExpr(e.Left)
	e.Left = c.lastCoerced
	rhs := c.checkExpr(e.Right)
	e.Right = c.lastCoerced
	c.lastCoerced = e
	if lhs.IsError() || rhs.IsError() {
		return ErrorQual
	}
	var q QualType
	switch e.Op {
	case "&&", "||":
		c.coerce(e.Left, TypeBool)
		e.Left = c.lastCoerced
		c.coerce(e.Right, TypeBool)
		e.Right = c.lastCoerced
		q = RValue(TypeBool)
	case "==", "!=", "<", "<=", ">", ">=":
		c.resolveIntrinsicBinary(e, "+", lhs, rhs) // reuse arithmetic join for the comparison's operand type
		q = RValue(TypeBool)
	default:
		q = c.resolveIntrinsicBinary(e, e.Op, lhs, rhs)
	}
	c.lastCoerced = e
	return q
}

// resolveIntrinsicBinary applies join to find the common operand type for
// a built-in arithmetic operator, then reports a diagnostic if neither
// side is coercible to it.
func (c *Checker) resolveIntrinsicBinary(e *ast.InfixExpr, op string, lhs, rhs QualType) QualType {
	result, ok := c.join(lhs.Type, rhs.Type)
	if !ok {
		c.diagnose(diag.CodeNoApplicableOverload, e.Span(), "no applicable overload for operator%s(%s, %s)", op, lhs.Type, rhs.Type)
		return ErrorQual
	}
	c.coerce(e.Left, result)
	e.Left = c.lastCoerced
	c.coerce(e.Right, result)
	e.Right = c.lastCoerced
	return RValue(result)
}

func (c *Checker) resolveIntrinsicUnary(e *ast.PrefixExpr, op string, operand QualType) QualType {
	if b, ok := operand.Type.(*Basic); ok && b.IsNumeric() {
		return RValue(operand.Type)
	}
	if v, ok := operand.Type.(*Vector); ok {
		return RValue(v)
	}
	c.diagnose(diag.CodeNoApplicableOverload, e.Span(), "no applicable overload for operator%s(%s)", op, operand.Type)
	return ErrorQual
}

func (c *Checker) checkAssignExpr(e *ast.AssignExpr) QualType {
	target := c.checkExpr(e.Target)
	e.Target = c.lastCoerced
	c.lastCoerced = e
	if !target.IsLValue && !target.IsError() {
		c.diagnose(diag.CodeAssignToNonLValue, e.Target.Span(), "left operand of assignment must be an lvalue")
		c.checkExpr(e.Value)
		e.Value = c.lastCoerced
		c.lastCoerced = e
		return ErrorQual
	}
	result := c.coerce(e.Value, target.Type)
	e.Value = c.lastCoerced
	c.lastCoerced = e
	return RValue(result.Type)
}

func (c *Checker) checkThisExpr(e *ast.ThisExpr) QualType {
	t := c.currentThis()
	if t == nil {
		c.diagnose(diag.CodeUndefinedIdentifier, e.Span(), "'this' is not valid outside a method body")
		return ErrorQual
	}
	return LValue(t)
}

func (c *Checker) checkCastExpr(e *ast.CastExpr) QualType {
	target := c.resolveTypeExpr(e.Target)
	q := c.tryCoerce(e.Value, target)
	if q.IsError() {
		// Explicit cast falls back to a permissive reinterpret once ordinary
		// coercion fails.
		c.checkExpr(e.Value)
	}
	e.Value = c.lastCoerced
	c.lastCoerced = e
	return RValue(target)
}
