package sema

import "github.com/shade-lang/shadec/internal/ast"

// buildModuleScope seeds the module-level scope with the standard library
// declarations and the module's own top-level declarations; builtins and
// magics are registered first so every later step can already see them.
// Same-named top-level declarations chain through NextWithSameName,
// matching how overload sets are discovered.
func (c *Checker) buildModuleScope(mod *ast.ModuleDecl) *Scope {
	s := NewScope(nil)
	for _, d := range c.Sess.Stdlib.Decls {
		declareCategorized(s, d)
	}
	for _, d := range mod.Decls {
		declareCategorized(s, d)
		if imp, ok := d.(*ast.ImportDecl); ok && imp.Resolved != nil {
			for _, id := range imp.Resolved.Decls {
				declareCategorized(s, id)
			}
		}
	}
	return s
}

func declareCategorized(s *Scope, d ast.Decl) {
	if prior, ok := s.byName[d.Base().Name]; ok {
		if priorDecl, ok := prior.(ast.Decl); ok && priorDecl != d && d.Base().NextWithSameName == nil {
			d.Base().NextWithSameName = priorDecl
		}
	}
	s.Declare(d.Base().Name, d)
}

func categoryOf(d ast.Decl) LookupCategory {
	switch d.(type) {
	case *ast.FunctionDecl, *ast.ConstructorDecl, *ast.SubscriptDecl:
		return CategoryFunction
	case *ast.BuiltinTypeDecl, *ast.TypedefDecl, *ast.AggregateDecl, *ast.InterfaceDecl, *ast.GenericWrapperDecl,
		*ast.GenericTypeParamDecl:
		return CategoryType
	case *ast.ImportDecl:
		return CategoryModule
	default:
		return CategoryValue
	}
}

// lookup resolves name against the current scope chain, collecting every
// declaration in the same-name-sibling chain found at the innermost
// matching scope, so all simultaneously-visible overloads of a name come
// back together.
func (c *Checker) lookup(name string) LookupResult {
	head, _ := c.scope.Resolve(name)
	if head == nil {
		return LookupResult{Name: name}
	}
	result := LookupResult{Name: name}
	for d := head; d != nil; {
		decl, ok := d.(ast.Decl)
		if !ok {
			break
		}
		result.Items = append(result.Items, LookupResultItem{
			Decl:     decl,
			Category: categoryOf(decl),
			Trail:    []Breadcrumb{{Via: "declared", From: decl}},
		})
		d = decl.Base().NextWithSameName
	}
	return result
}

// pushScope/popScope manage the lexical scope stack while walking into an
// aggregate, function, or block.
func (c *Checker) pushScope() *Scope {
	c.scope = NewScope(c.scope)
	return c.scope
}

func (c *Checker) popScope() {
	c.scope = c.scope.Parent
}

// declareLocal introduces a local declaration (parameter or local var) into
// the current innermost scope, chaining onto a same-named prior local if
// one exists in this exact scope (shadowing an outer one is allowed and
// does not chain).
func (c *Checker) declareLocal(d ast.Decl) {
	if prior, ok := c.scope.byName[d.Base().Name]; ok {
		if priorDecl, ok := prior.(ast.Decl); ok {
			d.Base().NextWithSameName = priorDecl
		}
	}
	c.scope.Declare(d.Base().Name, d)
}
