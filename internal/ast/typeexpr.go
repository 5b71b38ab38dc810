package ast

import "github.com/asthra-lang/asthra-core/internal/source"

type baseTypeExpr struct {
	span source.Span
}

func (b *baseTypeExpr) Span() source.Span { return b.span }
func (b *baseTypeExpr) typeExprNode()     {}

// NamedTypeExpr is a reference to a primitive or a user-declared struct/enum/
// alias name, optionally with generic type arguments (spec.md §3 "Types
// (syntactic)": named, generic instantiation).
type NamedTypeExpr struct {
	baseTypeExpr
	Name string
	Args []TypeExpr // generic instantiation arguments; empty for a plain name
}

// PointerTypeExpr is `*T` or `*mut T`.
type PointerTypeExpr struct {
	baseTypeExpr
	Pointee TypeExpr
	Mutable bool
}

// SliceTypeExpr is `[]T` or `[]mut T`.
type SliceTypeExpr struct {
	baseTypeExpr
	Element TypeExpr
	Mutable bool
}

// ArrayTypeExpr is `[T; N]`.
type ArrayTypeExpr struct {
	baseTypeExpr
	Element TypeExpr
	Length  int64
}

// FuncTypeExpr is `fn(Params...) -> Ret`.
type FuncTypeExpr struct {
	baseTypeExpr
	Params []TypeExpr
	Return TypeExpr
}
