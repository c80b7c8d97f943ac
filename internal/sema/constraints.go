package sema

import "github.com/shade-lang/shadec/internal/ast"

// constraintKind distinguishes what a single constraint pins down: a type
// parameter's type, or a value parameter's integer.
type constraintKind int

const (
	constraintTypeParam constraintKind = iota
	constraintIntParam
)

// constraint is one equation collected while unifying a generic
// declaration's parameter types against supplied argument types. decl
// identifies which generic parameter the constraint targets; exactly one
// of typeVal/intVal is populated depending on kind.
type constraint struct {
	kind    constraintKind
	decl    interface{} // *ast.GenericTypeParamDecl | *ast.GenericValueParamDecl
	typeVal Type
	intVal  Value
}

// ConstraintSystem is an unordered list of constraints collected during
// generic inference, plus the wrapper they're being solved against so
// paramIndex lookups during solving know which BindableParams slot each
// constraint's decl occupies.
type ConstraintSystem struct {
	wrapper     *ast.GenericWrapperDecl
	constraints []constraint
}

// NewConstraintSystem starts an empty system for wrapper.
func NewConstraintSystem(wrapper *ast.GenericWrapperDecl) *ConstraintSystem {
	return &ConstraintSystem{wrapper: wrapper}
}

func (cs *ConstraintSystem) addTypeConstraint(decl interface{}, t Type) {
	cs.constraints = append(cs.constraints, constraint{kind: constraintTypeParam, decl: decl, typeVal: t})
}

func (cs *ConstraintSystem) addIntConstraint(decl interface{}, v Value) {
	cs.constraints = append(cs.constraints, constraint{kind: constraintIntParam, decl: decl, intVal: v})
}

// tryUnify is value-directed unification: comparing two Values
// directly (for integer-valued generic arguments) or two Types, emitting
// constraints onto cs wherever a generic parameter is encountered on either
// side rather than failing outright. It returns false only when the two
// sides are irreconcilably shaped.
func (c *Checker) tryUnify(cs *ConstraintSystem, a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if IsError(a) || IsError(b) {
		return true
	}
	if a.Equal(b) {
		return true
	}
	if tp, ok := a.(*TypeParamRef); ok {
		cs.addTypeConstraint(tp.Decl, b)
		return true
	}
	if tp, ok := b.(*TypeParamRef); ok {
		cs.addTypeConstraint(tp.Decl, a)
		return true
	}
	da, aIsDeclRef := a.(*DeclRefType)
	db, bIsDeclRef := b.(*DeclRefType)
	if aIsDeclRef && bIsDeclRef && da.Ref.Decl == db.Ref.Decl {
		return c.tryUnifySubst(cs, da.Ref.Subst, db.Ref.Subst)
	}
	av, aIsVec := a.(*Vector)
	bv, bIsVec := b.(*Vector)
	switch {
	case aIsVec && bIsVec:
		if av.Count != bv.Count {
			return false
		}
		return c.tryUnify(cs, av.Elem, bv.Elem)
	case aIsVec && !bIsVec:
		// Scalar-vs-vector: unify by recursing the
		// vector's element type against the scalar.
		return c.tryUnify(cs, av.Elem, b)
	case !aIsVec && bIsVec:
		return c.tryUnify(cs, a, bv.Elem)
	}
	return false
}

// tryUnifySubst unifies two substitutions pairwise, argument by argument;
// they must have the same number of arguments.
func (c *Checker) tryUnifySubst(cs *ConstraintSystem, a, b *Subst) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !c.tryUnifyArg(cs, a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

func (c *Checker) tryUnifyArg(cs *ConstraintSystem, a, b Arg) bool {
	if a.Type != nil || b.Type != nil {
		if a.Type == nil || b.Type == nil {
			return false
		}
		return c.tryUnify(cs, a.Type, b.Type)
	}
	return c.tryUnifyValue(cs, a.Value, b.Value)
}

// tryUnifyValue is tryUnify's dual for integer Values: both-constant
// equality decides, and a generic-parameter integer on either side emits
// an IntParam constraint instead of failing.
func (c *Checker) tryUnifyValue(cs *ConstraintSystem, a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ca, ok := a.(ConstantInt); ok {
		if cb, ok := b.(ConstantInt); ok {
			return ca.V == cb.V
		}
	}
	if gp, ok := a.(GenericParamInt); ok {
		cs.addIntConstraint(gp.Decl, b)
		return true
	}
	if gp, ok := b.(GenericParamInt); ok {
		cs.addIntConstraint(gp.Decl, a)
		return true
	}
	return a.Equal(b)
}

// solve walks every generic parameter of cs.wrapper in declaration order,
// collecting the constraints that target it, and resolves each to a
// concrete argument. Type parameters are joined across their constraints;
// value parameters require exact agreement. Any bindable parameter left
// with no constraint at all fails the system (inference couldn't pin it
// down from the call site).
func (c *Checker) solve(cs *ConstraintSystem) (*Subst, bool) {
	c.seedConstraintBounds(cs)

	params := cs.wrapper.BindableParams()
	args := make([]Arg, len(params))
	for i, p := range params {
		switch pd := p.(type) {
		case *ast.GenericTypeParamDecl:
			var running Type
			found := false
			for _, ct := range cs.constraints {
				if ct.kind != constraintTypeParam || ct.decl != pd {
					continue
				}
				found = true
				if running == nil {
					running = ct.typeVal
					continue
				}
				joined, ok := c.join(running, ct.typeVal)
				if !ok {
					return nil, false
				}
				running = joined
			}
			if !found {
				return nil, false
			}
			args[i] = TypeArg(running)
		case *ast.GenericValueParamDecl:
			var running Value
			found := false
			for _, ct := range cs.constraints {
				if ct.kind != constraintIntParam || ct.decl != pd {
					continue
				}
				if !found {
					running = ct.intVal
					found = true
					continue
				}
				if !running.Equal(ct.intVal) {
					return nil, false
				}
			}
			if !found {
				return nil, false
			}
			args[i] = ValueArg(running)
		}
	}
	return NewSubst(cs.wrapper, args), true
}

// seedConstraintBounds unifies the generic's own declared constraint
// parameters (where-clauses) into cs before solving, so they participate
// in the sweep.
func (c *Checker) seedConstraintBounds(cs *ConstraintSystem) {
	for _, cp := range cs.wrapper.ConstraintParams() {
		subject := c.resolveTypeExpr(cp.Subject)
		bound := c.resolveTypeExpr(cp.Bound)
		c.tryUnify(cs, subject, bound)
	}
}

// join computes the least upper bound of two types used while solving a
// type-parameter's constraints. ok=false means unsolvable.
func (c *Checker) join(l, r Type) (Type, bool) {
	if l == nil || r == nil {
		return nil, false
	}
	if l.Equal(r) {
		return l, true
	}
	if IsError(l) {
		return r, true
	}
	if IsError(r) {
		return l, true
	}
	if lb, ok := l.(*Basic); ok {
		if rb, ok := r.(*Basic); ok {
			return joinBasic(lb, rb)
		}
	}
	lv, lIsVec := l.(*Vector)
	rv, rIsVec := r.(*Vector)
	switch {
	case lIsVec && rIsVec:
		if lv.Count != rv.Count {
			return nil, false
		}
		elem, ok := c.join(lv.Elem, rv.Elem)
		if !ok {
			return nil, false
		}
		return &Vector{Elem: elem, Count: lv.Count}, true
	case lIsVec && !rIsVec:
		elem, ok := c.join(lv.Elem, r)
		if !ok {
			return nil, false
		}
		return &Vector{Elem: elem, Count: lv.Count}, true
	case !lIsVec && rIsVec:
		elem, ok := c.join(l, rv.Elem)
		if !ok {
			return nil, false
		}
		return &Vector{Elem: elem, Count: rv.Count}, true
	}
	if li, ok := l.(*InterfaceType); ok {
		if c.conformsToInterface(r, li) {
			return r, true
		}
		return nil, false
	}
	if ri, ok := r.(*InterfaceType); ok {
		if c.conformsToInterface(l, ri) {
			return l, true
		}
		return nil, false
	}
	return nil, false
}

// joinBasic ranks two basic numeric types, the higher-rank one winning.
// Half-to-float promotion is future work.
func joinBasic(l, r *Basic) (Type, bool) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return nil, false
	}
	lr, lok := basicRank[l.Kind]
	rr, rok := basicRank[r.Kind]
	if !lok || !rok {
		return nil, false
	}
	if lr >= rr {
		return l, true
	}
	return r, true
}
