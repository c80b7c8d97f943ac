package sema

import "github.com/shade-lang/shadec/internal/ast"

// checkDeclModifiers is module order step 9: unchecked attribute-shaped
// modifiers attached during parsing are constant-folded now that every
// type in the module is resolved, and rewritten into their checked form.
// Only numthreads and register/binding layout attributes are recognized;
// any other unchecked attribute is left untouched, since the attribute
// grammar is open-ended and only these two are load-bearing for the rest
// of checking.
func (c *Checker) checkDeclModifiers(d ast.Decl) {
	base := d.Base()
	for i := range base.Modifiers {
		m := &base.Modifiers[i]
		if m.Kind != ast.ModUncheckedAttribute {
			continue
		}
		switch m.AttributeName {
		case "numthreads":
			c.checkNumThreadsModifier(m)
		case "register":
			c.checkLayoutBindingModifier(m)
		}
	}
}

func (c *Checker) checkNumThreadsModifier(m *ast.Modifier) {
	if len(m.AttributeArgs) != 3 {
		return
	}
	x, okX := c.checkIntegerConstantExpression(m.AttributeArgs[0])
	y, okY := c.checkIntegerConstantExpression(m.AttributeArgs[1])
	z, okZ := c.checkIntegerConstantExpression(m.AttributeArgs[2])
	if !okX || !okY || !okZ {
		return
	}
	m.Kind = ast.ModNumThreads
	m.NumThreadsX, m.NumThreadsY, m.NumThreadsZ = x, y, z
}

func (c *Checker) checkLayoutBindingModifier(m *ast.Modifier) {
	if len(m.AttributeArgs) == 0 {
		return
	}
	binding, ok := c.checkIntegerConstantExpression(m.AttributeArgs[0])
	if !ok {
		return
	}
	var set int64
	if len(m.AttributeArgs) > 1 {
		if s, ok := c.checkIntegerConstantExpression(m.AttributeArgs[1]); ok {
			set = s
		}
	}
	m.Kind = ast.ModLayoutBinding
	m.Binding, m.Set = binding, set
}
