package sema

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// checkStmt dispatches statement checking, threading the
// enclosing-statement stack so break/continue/case can validate their
// target without a separate pre-pass.
func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		c.checkBlockStmt(st)
	case *ast.VarDeclStmt:
		c.Ensure(st.Decl, ast.Checked)
		c.declareLocal(st.Decl)
	case *ast.ExprStmt:
		c.checkExpr(st.Expr)
		st.Expr = c.lastCoerced
	case *ast.ReturnStmt:
		c.checkReturnStmt(st)
	case *ast.IfStmt:
		c.checkCondition(&st.Cond)
		c.checkStmt(st.Then)
		if st.Else != nil {
			c.checkStmt(st.Else)
		}
	case *ast.ForStmt:
		c.pushScope()
		c.pushEnclosing(st)
		if st.Init != nil {
			c.checkStmt(st.Init)
		}
		if st.Cond != nil {
			c.checkCondition(&st.Cond)
		}
		if st.Post != nil {
			c.checkExpr(st.Post)
		}
		c.checkStmt(st.Body)
		c.popEnclosing()
		c.popScope()
	case *ast.WhileStmt:
		c.pushEnclosing(st)
		c.checkCondition(&st.Cond)
		c.checkStmt(st.Body)
		c.popEnclosing()
	case *ast.BreakStmt:
		c.checkBreakStmt(st)
	case *ast.ContinueStmt:
		c.checkContinueStmt(st)
	case *ast.SwitchStmt:
		c.checkSwitchStmt(st)
	case *ast.CaseStmt:
		c.checkCaseStmt(st)
	}
}

func (c *Checker) checkBlockStmt(b *ast.BlockStmt) {
	c.pushScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	c.popScope()
}

// checkCondition coerces a loop/if condition to bool in place: coerce may
// wrap the expression in an ImplicitCastExpr, and that rewritten node has
// to replace the caller's field, not just the local copy checkStmt's type
// switch extracted.
func (c *Checker) checkCondition(e *ast.Expr) {
	c.coerce(*e, TypeBool)
	*e = c.lastCoerced
}

func (c *Checker) checkReturnStmt(r *ast.ReturnStmt) {
	ret := c.currentReturnType()
	if r.Value == nil {
		if ret != nil && !ret.Equal(TypeVoid) {
			c.diagnose(diag.CodeReturnNeedsExpression, r.Span(), "function must return a value of type %s", ret)
		}
		return
	}
	if ret == nil {
		c.checkExpr(r.Value)
		r.Value = c.lastCoerced
		return
	}
	c.coerce(r.Value, ret)
	r.Value = c.lastCoerced
}

func (c *Checker) checkBreakStmt(b *ast.BreakStmt) {
	target := c.enclosingBreakable()
	if target == nil {
		c.diagnose(diag.CodeMisplacedJump, b.Span(), "break statement not within a loop or switch")
		return
	}
	b.Target = target
}

func (c *Checker) checkContinueStmt(ct *ast.ContinueStmt) {
	target := c.enclosingLoop()
	if target == nil {
		c.diagnose(diag.CodeMisplacedJump, ct.Span(), "continue statement not within a loop")
		return
	}
	ct.Target = target
}

func (c *Checker) checkSwitchStmt(sw *ast.SwitchStmt) {
	c.checkExpr(sw.Value)
	sw.Value = c.lastCoerced
	c.pushEnclosing(sw)
	for _, cs := range sw.Cases {
		cs.Host = sw
		c.checkStmt(cs)
	}
	c.popEnclosing()
}

func (c *Checker) checkCaseStmt(cs *ast.CaseStmt) {
	if c.enclosingSwitch() == nil {
		c.diagnose(diag.CodeMisplacedJump, cs.Span(), "case label not within a switch")
	}
	if cs.Value != nil {
		c.checkExpr(cs.Value)
		cs.Value = c.lastCoerced
	}
	for _, s := range cs.Body {
		c.checkStmt(s)
	}
}
