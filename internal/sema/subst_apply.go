package sema

import "github.com/shade-lang/shadec/internal/ast"

// substituteType walks t replacing every TypeParamRef bound by wrapper with
// the corresponding argument in subst, recursing through every composite
// Type variant. Substitution chains preserve outer-scope bindings. A nil
// subst or a reference to a different wrapper's parameter is left
// untouched. Uses an index-keyed Subst rather than a name-keyed map, since
// substitution here is modeled as an ordered chain.
func substituteType(t Type, subst *Subst) Type {
	if subst == nil || t == nil {
		return t
	}
	switch tt := t.(type) {
	case *TypeParamRef:
		if idx := paramIndex(subst.Wrapper, tt.Decl); idx >= 0 {
			if arg, ok := subst.Lookup(idx); ok && arg.Type != nil {
				return arg.Type
			}
		}
		return t
	case *Vector:
		elem := substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return &Vector{Elem: elem, Count: tt.Count}
	case *Matrix:
		elem := substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return &Matrix{Elem: elem, Rows: tt.Rows, Cols: tt.Cols}
	case *Array:
		elem := substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return &Array{Elem: elem, Size: tt.Size}
	case *PointerLike:
		elem := substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return &PointerLike{Elem: elem}
	case *FunctionType:
		params := make([]Type, len(tt.Params))
		changed := false
		for i, p := range tt.Params {
			params[i] = substituteType(p, subst)
			if params[i] != p {
				changed = true
			}
		}
		ret := tt.Return
		if ret != nil {
			ret = substituteType(ret, subst)
			changed = changed || ret != tt.Return
		}
		if !changed {
			return t
		}
		return &FunctionType{Params: params, Return: ret}
	case *DeclRefType:
		if tt.Ref.Subst == nil {
			return t
		}
		args := make([]Arg, len(tt.Ref.Subst.Args))
		changed := false
		for i, a := range tt.Ref.Subst.Args {
			switch {
			case a.Type != nil:
				na := substituteType(a.Type, subst)
				args[i] = TypeArg(na)
				changed = changed || na != a.Type
			case a.Value != nil:
				nv := substituteValue(a.Value, subst)
				args[i] = ValueArg(nv)
				changed = changed || nv != a.Value
			default:
				args[i] = a
			}
		}
		if !changed {
			return t
		}
		return NewDeclRefType(tt.Ref.Decl, NewSubst(tt.Ref.Subst.Wrapper, args))
	default:
		return t
	}
}

// substituteValue is substituteType's counterpart for the Value side of a
// Subst: a GenericParamInt bound by wrapper resolves to its concrete
// argument; an ArithTree recurses into its operands.
func substituteValue(v Value, subst *Subst) Value {
	if subst == nil || v == nil {
		return v
	}
	switch vv := v.(type) {
	case GenericParamInt:
		if idx := paramIndex(subst.Wrapper, vv.Decl); idx >= 0 {
			if arg, ok := subst.Lookup(idx); ok && arg.Value != nil {
				return arg.Value
			}
		}
		return v
	case ArithTree:
		left := substituteValue(vv.Left, subst)
		var right Value
		if vv.Right != nil {
			right = substituteValue(vv.Right, subst)
		}
		if left == vv.Left && right == vv.Right {
			return v
		}
		return ArithTree{Op: vv.Op, Left: left, Right: right}
	default:
		return v
	}
}

// paramIndex finds decl's position among wrapper's BindableParams, the
// index space a Subst's Args slice parallels. Returns -1 if wrapper isn't
// a *ast.GenericWrapperDecl or decl isn't one of its bindable parameters.
func paramIndex(wrapper interface{}, decl interface{}) int {
	w, ok := wrapper.(*ast.GenericWrapperDecl)
	if !ok {
		return -1
	}
	for i, p := range w.BindableParams() {
		if p == decl {
			return i
		}
	}
	return -1
}
