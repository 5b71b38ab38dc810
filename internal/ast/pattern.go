package ast

import "github.com/asthra-lang/asthra-core/internal/source"

type basePattern struct {
	span source.Span
}

func (b *basePattern) Span() source.Span { return b.span }
func (b *basePattern) patternNode()      {}

// VariantPattern matches an enum-variant constructor, optionally binding its
// payload: `Enum.Variant(binding)` (spec.md §3 "Patterns").
type VariantPattern struct {
	basePattern
	Enum    string // empty if the enum name was elided and inferred from context
	Variant string
	Binding string // empty if the variant carries no payload or it isn't bound
}

// IdentPattern binds the scrutinee (or sub-value) to a name.
type IdentPattern struct {
	basePattern
	Name string
}

// WildcardPattern is `_`, matching anything without binding.
type WildcardPattern struct {
	basePattern
}
