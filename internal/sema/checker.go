package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
	"github.com/shade-lang/shadec/internal/session"
)

// Checker drives the declaration-check state machine and owns the bits of
// mutable state every other file in this package needs: the current
// session, the diagnostic sink, the enclosing-statement stack used by
// break/continue/case, and the "this" type stack for method bodies.
type Checker struct {
	Sess *session.Session
	Sink diag.Sink

	enclosing []ast.Stmt // breakable/continuable/switch stack, innermost last
	thisType  []Type     // "this" type stack, innermost last
	returnType []Type    // enclosing function/accessor return type, innermost last

	typeCache map[ast.Type]Type // resolved sema.Type per ast.Type node
	declTypes map[ast.Decl]Type // overrides fieldLikeType's lookup for a decl whose type isn't (or is no longer) written as an ast.Type node, e.g. an array VarDecl whose size was inferred from its initializer
	scope     *Scope            // current lexical scope, innermost active
	module    *ast.ModuleDecl

	// lastCoerced is the (possibly ImplicitCastExpr-wrapped) expression
	// produced by the most recent coerce call; callers that need the
	// rewritten node read it immediately after calling coerce.
	lastCoerced ast.Expr

	// noChecking mirrors the translation unit's rewrite-mode flag: when
	// set, diagnose/diagnoseWithNote are
	// silenced so a no-checking pass can still run the rewriting side
	// effects of checking (coercions, constant folding) without surfacing
	// errors for code the caller already knows may be invalid.
	noChecking bool
}

// NewChecker builds a checker bound to a translation unit's session and
// sink.
func NewChecker(tu *session.TranslationUnit) *Checker {
	return &Checker{
		Sess: tu.Session, Sink: tu.Sink,
		typeCache:  make(map[ast.Type]Type),
		declTypes:  make(map[ast.Decl]Type),
		noChecking: tu.NoChecking,
	}
}

// bindResolved records an explicit resolved type for a declaration whose
// type can't be recovered by re-resolving an ast.Type node, e.g. a VarDecl
// whose array size was inferred from its initializer.
func (c *Checker) bindResolved(d ast.Decl, q QualType) {
	c.declTypes[d] = q.Type
}

// Ensure drives decl to at least targetState, checking it on demand.
// Declarations already at or past targetState return immediately.
// Re-entering a declaration that is currently CheckingHeader panics with a
// circularity, unwinding to the nearest enclosing Ensure frame, which
// recovers it and turns it into a diagnostic plus an error-typed header so
// the caller can keep going without special-casing a panic.
func (c *Checker) Ensure(decl ast.Decl, target ast.CheckState) {
	base := decl.Base()
	if base.State >= target {
		return
	}
	if base.State == ast.CheckingHeader {
		panic(newCircularity(decl))
	}

	defer func() {
		if r := recover(); r != nil {
			if circ, ok := r.(circularity); ok {
				c.diagnose(diagCodeForCircularity(), decl.Span(), "%s", circ.Error())
				base.State = ast.CheckedHeader
				return
			}
			panic(r)
		}
	}()

	if base.State < ast.CheckingHeader {
		base.State = ast.CheckingHeader
		c.checkHeader(decl)
		if base.State < ast.CheckedHeader {
			base.State = ast.CheckedHeader
		}
	}
	if target == ast.Checked && base.State < ast.Checked {
		c.checkBody(decl)
		base.State = ast.Checked
	}
}

func diagCodeForCircularity() diag.Code { return diag.CodeCircularDependency }

// CheckTranslationUnit runs the fixed nine-step module checking order over
// the whole module. Step 7 (function bodies) is skipped when the sink is a
// *diag.Collector that already holds errors; the remaining steps still
// run, and step 8 drives every declaration to Checked, which checks the
// skipped bodies there.
func CheckTranslationUnit(tu *session.TranslationUnit) {
	c := NewChecker(tu)
	mod := tu.Module
	c.module = mod
	c.scope = c.buildModuleScope(mod)

	c.registerBuiltinsAndMagics(mod)
	c.resolveImports(mod)
	c.checkAllOfKind(mod, func(d ast.Decl) bool { _, ok := d.(*ast.TypedefDecl); return ok })
	c.checkAggregateFieldsOnly(mod)
	c.checkAllOfKind(mod, func(d ast.Decl) bool { _, ok := d.(*ast.GenericWrapperDecl); return ok })
	c.checkFunctionHeaders(mod)

	if col, ok := c.Sink.(*diag.Collector); !ok || col.ErrorCount() == 0 {
		c.checkFunctionBodies(mod)
	}

	c.exhaustiveRecheck(mod)
	c.checkModifiers(mod)
}

func (c *Checker) registerBuiltinsAndMagics(mod *ast.ModuleDecl) {
	for _, d := range c.Sess.Stdlib.Decls {
		d.Base().State = ast.Unchecked
	}
}

func (c *Checker) resolveImports(mod *ast.ModuleDecl) {
	for _, d := range mod.Decls {
		imp, ok := d.(*ast.ImportDecl)
		if !ok {
			continue
		}
		if imp.Resolved != nil {
			continue
		}
		if c.Sess.Loader == nil {
			c.diagnose(diag.CodeUndefinedIdentifier, imp.Span(), "cannot resolve import %q: no loader configured", joinPath(imp.Path))
			continue
		}
		resolved, err := c.Sess.Loader.LoadModule(imp.Path)
		if err != nil {
			c.diagnose(diag.CodeUndefinedIdentifier, imp.Span(), "cannot resolve import %q: %s", joinPath(imp.Path), err)
			continue
		}
		imp.Resolved = resolved
	}
}

func joinPath(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func (c *Checker) checkAllOfKind(mod *ast.ModuleDecl, match func(ast.Decl) bool) {
	for _, d := range mod.Decls {
		if match(d) {
			c.Ensure(d, ast.Checked)
		}
	}
}

func (c *Checker) checkAggregateFieldsOnly(mod *ast.ModuleDecl) {
	for _, d := range mod.Decls {
		if agg, ok := d.(*ast.AggregateDecl); ok {
			c.Ensure(agg, ast.CheckedHeader)
		}
		if iface, ok := d.(*ast.InterfaceDecl); ok {
			c.Ensure(iface, ast.CheckedHeader)
		}
	}
}

func (c *Checker) checkFunctionHeaders(mod *ast.ModuleDecl) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			c.Ensure(decl, ast.CheckedHeader)
		case *ast.AggregateDecl:
			for _, m := range decl.Members {
				c.Ensure(m, ast.CheckedHeader)
			}
		case *ast.ExtensionDecl:
			c.Ensure(decl, ast.CheckedHeader)
		}
	}
}

func (c *Checker) checkFunctionBodies(mod *ast.ModuleDecl) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			c.Ensure(decl, ast.Checked)
		case *ast.AggregateDecl:
			for _, m := range decl.Members {
				c.Ensure(m, ast.Checked)
			}
		case *ast.ExtensionDecl:
			c.Ensure(decl, ast.Checked)
		}
	}
}

// exhaustiveRecheck is module order step 8: every declaration not yet
// Checked (headers checked but bodies skipped due to step-7 errors, or
// declarations nothing else reached, e.g. unused typedefs) is driven to
// Checked so every declaration in the module ends up in a terminal state,
// never stuck mid-check.
func (c *Checker) exhaustiveRecheck(mod *ast.ModuleDecl) {
	var walk func(d ast.Decl)
	walk = func(d ast.Decl) {
		c.Ensure(d, ast.Checked)
		switch decl := d.(type) {
		case *ast.AggregateDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.InterfaceDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.ExtensionDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.GenericWrapperDecl:
			walk(decl.Inner)
		}
	}
	for _, d := range mod.Decls {
		walk(d)
	}
}

// checkModifiers is module order step 9: numthreads/layout-binding and
// other attribute-shaped modifiers are validated last, once every type in
// the module is fully resolved.
func (c *Checker) checkModifiers(mod *ast.ModuleDecl) {
	var walk func(d ast.Decl)
	walk = func(d ast.Decl) {
		c.checkDeclModifiers(d)
		switch decl := d.(type) {
		case *ast.AggregateDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.InterfaceDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.ExtensionDecl:
			for _, m := range decl.Members {
				walk(m)
			}
		case *ast.GenericWrapperDecl:
			walk(decl.Inner)
		}
	}
	for _, d := range mod.Decls {
		walk(d)
	}
}

// pushEnclosing/popEnclosing/enclosingBreakable/enclosingSwitch implement
// the statement-stack lookups break/continue/case need.
func (c *Checker) pushEnclosing(s ast.Stmt) { c.enclosing = append(c.enclosing, s) }
func (c *Checker) popEnclosing()            { c.enclosing = c.enclosing[:len(c.enclosing)-1] }

func (c *Checker) enclosingBreakable() ast.Stmt {
	for i := len(c.enclosing) - 1; i >= 0; i-- {
		switch c.enclosing[i].(type) {
		case *ast.ForStmt, *ast.WhileStmt, *ast.SwitchStmt:
			return c.enclosing[i]
		}
	}
	return nil
}

func (c *Checker) enclosingLoop() ast.Stmt {
	for i := len(c.enclosing) - 1; i >= 0; i-- {
		switch c.enclosing[i].(type) {
		case *ast.ForStmt, *ast.WhileStmt:
			return c.enclosing[i]
		}
	}
	return nil
}

func (c *Checker) enclosingSwitch() *ast.SwitchStmt {
	for i := len(c.enclosing) - 1; i >= 0; i-- {
		if sw, ok := c.enclosing[i].(*ast.SwitchStmt); ok {
			return sw
		}
	}
	return nil
}

func (c *Checker) pushThis(t Type) { c.thisType = append(c.thisType, t) }
func (c *Checker) popThis()        { c.thisType = c.thisType[:len(c.thisType)-1] }

func (c *Checker) currentThis() Type {
	if len(c.thisType) == 0 {
		return nil
	}
	return c.thisType[len(c.thisType)-1]
}

func (c *Checker) pushReturnType(t Type) { c.returnType = append(c.returnType, t) }
func (c *Checker) popReturnType()        { c.returnType = c.returnType[:len(c.returnType)-1] }

func (c *Checker) currentReturnType() Type {
	if len(c.returnType) == 0 {
		return nil
	}
	return c.returnType[len(c.returnType)-1]
}
