// Package symbols implements the symbol table and lexical scope chain
// (spec.md §3 "Symbol", "Scope"). Symbols live for the translation unit;
// scopes form a tree matching block/function/module nesting.
package symbols

import (
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
	"github.com/asthra-lang/asthra-core/internal/util"
)

// Kind tags what a Symbol names.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindType
	KindConstant
	KindModule
)

// Visibility mirrors ast.Visibility without importing the ast package
// (symbols sits below ast in the dependency order: Diagnostics -> Lexer ->
// AST model -> Parser -> Type system -> Semantic analyzer, spec.md §2).
type Visibility int

const (
	Priv Visibility = iota
	Pub
)

// Symbol is a named, declared entity: its kind, visibility, defining span,
// and, for functions, its resolved signature (spec.md §3 "Symbol").
type Symbol struct {
	Name       string
	Kind       Kind
	Visibility Visibility
	Span       source.Span
	Type       types.Type // resolved type/signature; zero value until pass 2 fills it in
	Module     string     // owning module/package name; no visibility check reads it

	// Mutable is set for a variable/parameter symbol declared `mut`,
	// permitting `&mut` borrows and reassignment (spec.md §4.3 "assignment
	// to immutable", "mutable borrow of immutable value").
	Mutable bool

	// Extern marks a function symbol declared `extern "ABI" fn ...;`. FFI
	// calls into such a symbol are only permitted inside an unsafe block
	// (spec.md §4.3 "FFI and unsafe").
	Extern bool
}

// Scope is one lexical scope: a name->Symbol mapping plus a parent pointer.
// Scopes form a tree matching block/function/module nesting (spec.md §3
// "Scope").
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
	// declaredHere tracks names bound directly in this scope, used to
	// enforce "rebinding let is allowed within nested scopes, not within the
	// same scope" (spec.md §3).
	declaredHere *util.SVSet[struct{}]
}

// NewScope creates a child scope of parent. Pass nil to create a root
// (module) scope.
func NewScope(parent *Scope) *Scope {
	set := util.NewSVSet[struct{}]()
	return &Scope{
		parent:       parent,
		symbols:      make(map[string]*Symbol),
		declaredHere: &set,
	}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare installs a new symbol in this scope. It reports whether the
// declaration succeeded: false means the name was already declared directly
// in this same scope (a duplicate-declaration error, spec.md §4.3 "detect
// duplicate names within a scope"). Shadowing a name from an enclosing scope
// is always permitted.
func (s *Scope) Declare(sym *Symbol) bool {
	if s.declaredHere.Has(sym.Name) {
		return false
	}
	s.symbols[sym.Name] = sym
	s.declaredHere.Add(sym.Name)
	return true
}

// Lookup resolves a name against this scope and its ancestors, innermost
// first, returning the symbol and whether it was found.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves a name directly in this scope only, without
// consulting ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Dominates reports whether declaration scope d is an ancestor of (or equal
// to) use scope u — i.e. whether a symbol declared in d is visible from a
// use in u. Used by the "scope discipline" property test (spec.md §8): for
// every resolved identifier use U, the declaration D that U resolves to
// dominates U in scope order.
func Dominates(d, u *Scope) bool {
	for cur := u; cur != nil; cur = cur.parent {
		if cur == d {
			return true
		}
	}
	return false
}
