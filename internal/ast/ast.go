// Package ast defines the Asthra abstract syntax tree: a tree of tagged
// nodes owned by a per-translation-unit Arena (spec.md §3 "AST", §9
// "AST ownership and back-edges", "Polymorphism over AST nodes").
//
// Nodes are tagged variants with a small capability set (Span, and, for
// expressions, a mutable Type slot) rather than a class hierarchy; visitors
// switch on Kind(). This mirrors tunascript/syntax/ast.go's ASTNode
// interface (Type() NodeType, AsXNode() accessors), generalized from
// TunaScript's seven expression kinds to Asthra's full declaration/
// statement/expression/pattern/type grammar.
package ast

import (
	"fmt"
	"strings"

	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// Visibility is the explicit visibility every declaration must carry
// (spec.md §3).
type Visibility int

const (
	Priv Visibility = iota
	Pub
)

func (v Visibility) String() string {
	if v == Pub {
		return "pub"
	}
	return "priv"
}

// Node is the capability every AST node implements: its source span. Nodes
// do not hold parent pointers (spec.md §9); traversal context is carried on
// the walker's call stack instead.
type Node interface {
	Span() source.Span
}

// Expr is any expression node. Every expression has a mutable Type slot,
// populated by the semantic analyzer (spec.md §3 "Expressions carry a
// mutable type slot").
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is any top-level or nested declaration node.
type Decl interface {
	Node
	declNode()
	DeclVisibility() Visibility
}

// TypeExpr is a syntactic (unresolved) type reference as written in source:
// named, pointer-to, slice-of, array-of-N, function, or generic
// instantiation (spec.md §3 "Types (syntactic)").
type TypeExpr interface {
	Node
	typeExprNode()
}

// Pattern is a match/if-let pattern: enum-variant constructor, identifier
// binding, or wildcard (spec.md §3 "Patterns").
type Pattern interface {
	Node
	patternNode()
}

// Arena owns every node of one translation unit. It is created at parse
// start and destroyed after IR generation completes; no AST pointers may
// outlive it (spec.md §3 "Lifecycle invariants"). In this implementation the
// arena is a bookkeeping handle, not a custom allocator — Go's GC already
// owns node lifetime, so Arena's only job is to anchor the package-level
// AST and let callers drop every node at once by dropping the Arena value.
type Arena struct {
	Package *PackageDecl
}

// NewArena creates an empty arena for one translation unit.
func NewArena() *Arena {
	return &Arena{}
}

// baseExpr factors the common Span + Type slot shared by every Expr variant.
type baseExpr struct {
	span source.Span
	typ  types.Type
}

func (b *baseExpr) Span() source.Span    { return b.span }
func (b *baseExpr) Type() types.Type     { return b.typ }
func (b *baseExpr) SetType(t types.Type) { b.typ = t }
func (b *baseExpr) exprNode()            {}

type baseStmt struct {
	span source.Span
}

func (b *baseStmt) Span() source.Span { return b.span }
func (b *baseStmt) stmtNode()         {}

type baseDecl struct {
	span source.Span
	vis  Visibility
}

func (b *baseDecl) Span() source.Span         { return b.span }
func (b *baseDecl) DeclVisibility() Visibility { return b.vis }
func (b *baseDecl) declNode()                  {}

// PackageDecl is the root node of every translation unit (spec.md §3
// "Declarations").
type PackageDecl struct {
	baseDecl
	Name    string
	Imports []*ImportDecl
	Decls   []Decl
}

// ImportDecl names a module path resolved out-of-band by the driver
// (spec.md §6 "Persisted state").
type ImportDecl struct {
	baseDecl
	Path string
}

// Param is one function parameter: name and required syntactic type.
type Param struct {
	Name string
	Type TypeExpr
	Span source.Span

	// Ownership is set for extern parameters annotated #[transfer_full],
	// #[transfer_none], or #[borrow] (spec.md §4.3 "FFI and unsafe"). Empty
	// for non-extern parameters.
	Ownership string

	// Mutable is set when the parameter is declared `mut name: T`, allowing
	// `&mut` borrows of it inside the function body.
	Mutable bool
}

// FuncDecl is a function declaration. Parameters and return type must be
// fully typed at the declaration (spec.md §4.3 "Purity of signatures").
type FuncDecl struct {
	baseDecl
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockExpr // nil for extern declarations
	Extern     bool
	ABI        string // e.g. "C", set when Extern is true
}

// StructField is one field of a StructDecl.
type StructField struct {
	Name string
	Type TypeExpr
	Span source.Span
}

// StructDecl declares a struct type and its fields.
type StructDecl struct {
	baseDecl
	Name   string
	Fields []StructField
}

// EnumVariant is one variant of an EnumDecl, with an optional payload type.
type EnumVariant struct {
	Name    string
	Payload TypeExpr // nil if the variant carries no payload
	Span    source.Span
}

// EnumDecl declares an enum type and its variants.
type EnumDecl struct {
	baseDecl
	Name     string
	Variants []EnumVariant
}

// TypeAliasDecl declares `type Name = T;`.
type TypeAliasDecl struct {
	baseDecl
	Name  string
	Alias TypeExpr
}

// String renders a node for debug/golden-output comparisons, generalized
// from tunascript/syntax/ast.go's String()/Tunascript() pretty-printers.
func (p *PackageDecl) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package %s\n", p.Name)
	for _, im := range p.Imports {
		fmt.Fprintf(&sb, "import %q\n", im.Path)
	}
	for _, d := range p.Decls {
		fmt.Fprintf(&sb, "%v\n", d)
	}
	return sb.String()
}
