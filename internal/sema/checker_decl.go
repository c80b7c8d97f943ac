package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// checkHeader and checkBody dispatch by declaration variant, keeping a
// two-phase split (header vs body) per declaration kind, since that split
// is the spine of the declaration-check state machine.

func (c *Checker) checkHeader(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.BuiltinTypeDecl:
		// Nothing to resolve: mapped directly to a Basic type by resolveType.
	case *ast.TypedefDecl:
		c.checkTypedefHeader(decl)
	case *ast.AggregateDecl:
		c.checkAggregateHeader(decl)
	case *ast.FieldDecl:
		c.resolveTypeExpr(decl.Type)
	case *ast.InterfaceDecl:
		c.checkInterfaceHeader(decl)
	case *ast.ExtensionDecl:
		c.checkExtensionHeader(decl)
	case *ast.ParamDecl:
		c.checkParamHeader(decl)
	case *ast.FunctionDecl:
		c.checkFunctionHeader(decl)
	case *ast.ConstructorDecl:
		c.checkConstructorHeader(decl)
	case *ast.SubscriptDecl:
		c.checkSubscriptHeader(decl)
	case *ast.AccessorDecl:
		// Accessors share their owning subscript's header; nothing of their
		// own to resolve ahead of body checking.
	case *ast.VarDecl:
		c.checkVarDeclHeader(decl)
	case *ast.GenericTypeParamDecl:
		for _, b := range decl.Bounds {
			c.resolveTypeExpr(b)
		}
	case *ast.GenericValueParamDecl:
		c.resolveTypeExpr(decl.Type)
	case *ast.GenericConstraintParamDecl:
		c.resolveTypeExpr(decl.Subject)
		c.resolveTypeExpr(decl.Bound)
	case *ast.GenericWrapperDecl:
		c.checkGenericWrapperHeader(decl)
	case *ast.InheritanceDecl:
		c.resolveTypeExpr(decl.BaseType)
	case *ast.ModuleDecl:
		// Handled by CheckTranslationUnit's module order, not by Ensure.
	}
}

func (c *Checker) checkBody(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.AggregateDecl:
		for _, m := range decl.Members {
			c.Ensure(m, ast.Checked)
		}
	case *ast.InterfaceDecl:
		for _, m := range decl.Members {
			c.Ensure(m, ast.Checked)
		}
	case *ast.ExtensionDecl:
		for _, m := range decl.Members {
			c.Ensure(m, ast.Checked)
		}
	case *ast.FunctionDecl:
		c.checkFunctionBody(decl)
	case *ast.ConstructorDecl:
		c.checkConstructorBody(decl)
	case *ast.SubscriptDecl:
		for _, a := range decl.Accessors {
			c.Ensure(a, ast.Checked)
		}
	case *ast.AccessorDecl:
		c.checkAccessorBody(decl)
	case *ast.VarDecl:
		c.checkVarDeclBody(decl)
	case *ast.GenericWrapperDecl:
		c.Ensure(decl.Inner, ast.Checked)
	}
}

func (c *Checker) checkTypedefHeader(d *ast.TypedefDecl) {
	c.resolveTypeExpr(d.Target)
}

func (c *Checker) checkAggregateHeader(d *ast.AggregateDecl) {
	for _, base := range d.Bases {
		c.Ensure(base, ast.Checked)
	}
	for _, f := range d.Fields {
		c.Ensure(f, ast.CheckedHeader)
	}
}

func (c *Checker) checkInterfaceHeader(d *ast.InterfaceDecl) {
	for _, base := range d.Bases {
		c.Ensure(base, ast.Checked)
	}
}

func (c *Checker) checkExtensionHeader(d *ast.ExtensionDecl) {
	c.resolveTypeExpr(d.Target)
}

func (c *Checker) checkParamHeader(d *ast.ParamDecl) {
	c.resolveTypeExpr(d.Type)
	if d.Type != nil {
		if rt := c.typeOf(d.Type); rt != nil && rt.Equal(TypeVoid) {
			c.diagnose(diag.CodeVoidParameter, d.Span(), "parameter %q cannot have type void", d.Base().Name)
		}
	}
}

func (c *Checker) checkFunctionHeader(d *ast.FunctionDecl) {
	seen := map[string]bool{}
	for _, p := range d.Params {
		c.Ensure(p, ast.CheckedHeader)
		if seen[p.Base().Name] {
			c.diagnose(diag.CodeParameterRedefined, p.Span(), "parameter %q redefined", p.Base().Name)
		}
		seen[p.Base().Name] = true
	}
	if d.ReturnType != nil {
		c.resolveTypeExpr(d.ReturnType)
	}
	c.checkFunctionRedeclaration(d)
}

func (c *Checker) checkConstructorHeader(d *ast.ConstructorDecl) {
	seen := map[string]bool{}
	for _, p := range d.Params {
		c.Ensure(p, ast.CheckedHeader)
		if seen[p.Base().Name] {
			c.diagnose(diag.CodeParameterRedefined, p.Span(), "parameter %q redefined", p.Base().Name)
		}
		seen[p.Base().Name] = true
	}
}

func (c *Checker) checkSubscriptHeader(d *ast.SubscriptDecl) {
	for _, p := range d.Params {
		c.Ensure(p, ast.CheckedHeader)
	}
	if d.ReturnType != nil {
		c.resolveTypeExpr(d.ReturnType)
	}
}

func (c *Checker) checkVarDeclHeader(d *ast.VarDecl) {
	if d.Type != nil {
		if arr, ok := d.Type.(*ast.ArrayTypeExpr); ok && arr.Size == nil {
			// Unsized array type: size is inferred from Init during body
			// checking; resolve just the element type now.
			c.resolveTypeExpr(arr.Elem)
			return
		}
		c.resolveTypeExpr(d.Type)
	}
}

func (c *Checker) checkVarDeclBody(d *ast.VarDecl) {
	if d.Init == nil {
		return
	}
	if arr, ok := d.Type.(*ast.ArrayTypeExpr); ok && arr.Size == nil {
		if il, ok := d.Init.(*ast.InitializerListExpr); ok {
			elemType := c.typeOf(arr.Elem)
			for i, elem := range il.Elems {
				c.coerce(elem, elemType)
				il.Elems[i] = c.lastCoerced
			}
			inferred := NewArray(elemType, len(il.Elems))
			d.Type = nil // the written ArrayTypeExpr is now stale; inferred type lives in the checker's side table
			c.bindResolved(d, RValue(inferred))
			return
		}
		c.checkExpr(d.Init)
		d.Init = c.lastCoerced
		return
	}
	declared := c.typeOf(d.Type)
	c.coerce(d.Init, declared)
	d.Init = c.lastCoerced
}

func (c *Checker) checkFunctionBody(d *ast.FunctionDecl) {
	if d.Body == nil {
		return // forward declaration
	}
	c.pushScope()
	for _, p := range d.Params {
		c.declareLocal(p)
	}
	if owner, ok := d.Base().Parent.(*ast.AggregateDecl); ok {
		c.Ensure(owner, ast.CheckedHeader)
		c.pushThis(NewDeclRefType(owner, nil))
		defer c.popThis()
	}
	c.pushReturnType(c.typeOf(d.ReturnType))
	c.checkStmt(d.Body)
	c.popReturnType()
	c.popScope()
}

func (c *Checker) checkConstructorBody(d *ast.ConstructorDecl) {
	if d.Body == nil {
		return
	}
	c.pushScope()
	for _, p := range d.Params {
		c.declareLocal(p)
	}
	if owner, ok := d.Base().Parent.(*ast.AggregateDecl); ok {
		c.Ensure(owner, ast.CheckedHeader)
		c.pushThis(NewDeclRefType(owner, nil))
		defer c.popThis()
	}
	c.pushReturnType(TypeVoid)
	c.checkStmt(d.Body)
	c.popReturnType()
	c.popScope()
}

func (c *Checker) checkAccessorBody(d *ast.AccessorDecl) {
	if d.Body == nil {
		return
	}
	sub, _ := d.Base().Parent.(*ast.SubscriptDecl)
	c.pushScope()
	if sub != nil {
		for _, p := range sub.Params {
			c.declareLocal(p)
		}
	}
	ret := Type(TypeVoid)
	if sub != nil {
		if d.Kind == ast.AccessorGet {
			ret = c.typeOf(sub.ReturnType)
		}
		if owner, ok := sub.Base().Parent.(*ast.AggregateDecl); ok {
			c.pushThis(NewDeclRefType(owner, nil))
			defer c.popThis()
		}
	}
	c.pushReturnType(ret)
	c.checkStmt(d.Body)
	c.popReturnType()
	c.popScope()
}

func (c *Checker) checkGenericWrapperHeader(d *ast.GenericWrapperDecl) {
	for _, p := range d.Params {
		c.Ensure(p, ast.CheckedHeader)
	}
}

// checkFunctionRedeclaration implements the function redeclaration
// matching rule: two declarations with the same name in the same scope
// must agree on parameter count, types, and out/inout direction, or one
// must be a pure forward declaration (nil Body) completed by the other.
func (c *Checker) checkFunctionRedeclaration(d *ast.FunctionDecl) {
	for sib := d.Base().NextWithSameName; sib != nil; sib = sib.Base().NextWithSameName {
		other, ok := sib.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		c.Ensure(other, ast.CheckedHeader)
		if !c.signaturesMatch(d, other) {
			continue // different signature: a legitimate overload, not a redeclaration
		}
		dRet, oRet := c.typeOf(d.ReturnType), c.typeOf(other.ReturnType)
		if dRet != nil && oRet != nil && !dRet.Equal(oRet) {
			c.diagnoseWithNote(diag.CodeRedeclarationMismatch, d.Span(), "previous declaration here", other.Span(),
				"function %q redeclared with a different return type (%s, previously %s)", d.Base().Name, dRet, oRet)
			continue
		}
		if d.Body != nil && other.Body != nil {
			c.diagnose(diag.CodeFunctionRedefinition, d.Span(), "function %q redefined", d.Base().Name)
		}
	}
}

// signaturesMatch reports whether a and b are the same overload: same
// parameter count, types, and out/inout direction. Matching pairs must
// also share a return type; checkFunctionRedeclaration reports a mismatch
// there separately so it can distinguish "different overload" from "bad
// redeclaration of the same one".
func (c *Checker) signaturesMatch(a, b *ast.FunctionDecl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		pa, pb := a.Params[i], b.Params[i]
		ta, tb := c.typeOf(pa.Type), c.typeOf(pb.Type)
		if ta == nil || tb == nil || !ta.Equal(tb) {
			return false
		}
		if pa.IsOut() != pb.IsOut() {
			return false
		}
	}
	return true
}
