package sema

// QualType is the result every checked expression carries: a structural
// Type plus whether the expression denotes an assignable storage location
// (the left operand of an assignment must be an lvalue). This bundles the
// two since they are never needed apart in this domain.
type QualType struct {
	Type     Type
	IsLValue bool
}

// RValue builds a non-assignable QualType, the common case for computed
// values (arithmetic results, literals, call results without a reference
// return).
func RValue(t Type) QualType { return QualType{Type: t} }

// LValue builds an assignable QualType: locals, parameters, fields,
// subscript results with a setter accessor.
func LValue(t Type) QualType { return QualType{Type: t, IsLValue: true} }

// ErrorQual is the QualType assigned to any expression that failed to
// check: every failing sub-check yields a well-formed error-typed node.
var ErrorQual = QualType{Type: TypeError}

// IsError reports whether q carries the absorbing error type.
func (q QualType) IsError() bool { return IsError(q.Type) }
