package ast

import "github.com/shade-lang/shadec/internal/source"

// ModifierKind enumerates the modifier chain entries the checker cares
// about.
type ModifierKind int

const (
	ModStatic ModifierKind = iota
	ModConst
	ModOut
	ModInOut
	ModExported           // __exported on an import
	ModBuiltin            // builtin-tagged stdlib declaration
	ModMagic              // magic declaration, found by well-known name
	ModImplicitConvCost   // constructor's implicit-conversion-cost
	ModIntrinsicOp        // intrinsic operator, constant-foldable
	ModPrefix             // prefix operator fixity
	ModPostfix            // postfix operator fixity
	ModSetter             // accessor tagged as a setter
	ModUncheckedAttribute // HLSLUncheckedAttribute pending verification
	ModNumThreads         // checked [numthreads(x,y,z)] form
	ModLayoutBinding      // register/binding/set layout modifier
	ModConstantID         // GLSL constant_id specialization constant
)

// Modifier is one entry in a declaration's modifier chain. Not every field
// is meaningful for every Kind; see the comments on ModifierKind.
type Modifier struct {
	Kind ModifierKind

	// MagicName is the well-known name used to find a ModMagic declaration.
	MagicName string

	// Cost is the implicit-conversion-cost payload for ModImplicitConvCost.
	// Absent (nil) means "explicit only".
	Cost *int

	// IntrinsicName is the callee name ModIntrinsicOp dispatches constant
	// folding on: "+", "-", "*", "/", "%".
	IntrinsicName string

	// AttributeName/AttributeArgs back ModUncheckedAttribute and
	// ModLayoutBinding: the unchecked argument expressions (constant-folded
	// during modifier checking) and, once checked, their resolved values.
	AttributeName string
	AttributeArgs []Expr

	// NumThreadsX/Y/Z hold the constant-folded thread-group size once
	// ModUncheckedAttribute("numthreads", ...) has been translated to
	// ModNumThreads.
	NumThreadsX, NumThreadsY, NumThreadsZ int64

	// Binding/Set back ModLayoutBinding once its arguments are folded.
	Binding, Set int64

	span source.Span
}

func (m Modifier) Span() source.Span { return m.span }
