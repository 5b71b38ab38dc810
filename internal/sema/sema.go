// Package sema implements the semantic analyzer: a two-pass walk over a
// parsed package that hoists every top-level declaration before resolving
// any of them, then performs bidirectional type checking, exhaustiveness
// checking, and FFI/unsafe validation over function bodies.
//
// The analyzer never re-enters the parser and never mutates the AST's
// shape — only each Expr's mutable Type slot is written, the one piece of
// state the grammar deliberately leaves for this phase to fill in.
//
// Grounded on internal/tunascript/eval.go's single-pass evaluator,
// generalized from dynamic evaluation to static two-pass name + type
// resolution (hoist, then resolve), and on internal/game world-loading's
// forward-reference handling for mutually-referential declarations.
package sema

import (
	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/symbols"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// Options configures one Analyze call.
type Options struct {
	// ModuleName identifies the package being analyzed, used to build
	// symbol ids for nominal types (e.g. "main.Point").
	ModuleName string

	// DefaultIntWidth is the primitive an un-suffixed integer literal
	// resolves to at its inference site. Configurable because spec.md §9's
	// Open Question leaves the default width unspecified; internal/config
	// supplies the project-wide choice (DESIGN.md records i32 as the
	// fallback when unset).
	DefaultIntWidth types.Primitive

	// Imported maps an imported module's declared name (as written in an
	// ImportDecl's last path segment) to that module's already-analyzed
	// root scope. The analyzer does not read it: names resolve only against
	// this package's own scopes, and no cross-module visibility check runs.
	Imported map[string]*symbols.Scope
}

// Result is everything later phases (internal/irgen) need from a completed
// analysis: the resolved scope tree and the interner that owns every Type
// value referenced from it or from the AST's Expr.Type() slots.
type Result struct {
	Root     *symbols.Scope
	Interner *types.Interner
}

// Analyzer holds the mutable state threaded through both passes of one
// Analyze call.
type Analyzer struct {
	opts     Options
	diags    *diag.Bag
	interner *types.Interner
	root     *symbols.Scope

	// structTypes/enumTypes map a declared name to its forward-declared
	// (possibly not yet fully populated) nominal Type, so field/variant
	// resolution can reference a type before its own body has been filled
	// in — this is what makes mutually-recursive struct/enum declarations
	// (via pointer or slice) resolve regardless of declaration order.
	structTypes map[string]*types.Type
	enumTypes   map[string]*types.Type
	// aliases maps a type-alias name to its resolved target, so named-type
	// resolution transparently follows `type X = Y;` to Y.
	aliases map[string]types.Type

	// retType is the declared return type of the function whose body is
	// being checked; return statements are checked against it.
	retType types.Type

	// unsafeDepth counts nested unsafe blocks currently being checked; zero
	// means the current expression is outside any unsafe block (spec.md
	// §4.3 "FFI and unsafe"). A depth counter rather than a bool so nested
	// `unsafe { unsafe { ... } }` (legal, if redundant) doesn't exit unsafe
	// context when the inner block's checking finishes.
	unsafeDepth int
}

// Analyze runs both passes over pkg and returns the resolved scope tree and
// interner. Diagnostics are appended to diags; the caller checks
// diags.HasErrors() before handing the result to internal/irgen, exactly as
// it does after parsing (spec.md §4.3 "Failure policy").
func Analyze(pkg *ast.PackageDecl, diags *diag.Bag, opts Options) *Result {
	if opts.DefaultIntWidth == 0 && opts.ModuleName == "" {
		// zero value of Primitive is I8, which is a plausible-looking but
		// wrong default; only fall back to I32 when the caller plainly
		// passed a zero Options value rather than deliberately choosing I8.
		opts.DefaultIntWidth = types.I32
	}
	a := &Analyzer{
		opts:        opts,
		diags:       diags,
		interner:    types.NewInterner(),
		root:        symbols.NewScope(nil),
		structTypes: make(map[string]*types.Type),
		enumTypes:   make(map[string]*types.Type),
		aliases:     make(map[string]types.Type),
	}

	a.hoist(pkg)
	a.resolveTypeDecls(pkg)
	a.checkFuncs(pkg)

	return &Result{Root: a.root, Interner: a.interner}
}

// --- pass 2a: resolve type declarations --------------------------------------

// resolveTypeDecls fills in every struct/enum forward declaration's body and
// every function symbol's signature. It runs before checkFuncs so a
// function body can reference any type or call any function regardless of
// source order.
func (a *Analyzer) resolveTypeDecls(pkg *ast.PackageDecl) {
	for _, d := range pkg.Decls {
		if ta, ok := d.(*ast.TypeAliasDecl); ok {
			a.aliases[ta.Name] = a.resolveTypeExpr(ta.Alias)
		}
	}
	for _, d := range pkg.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			fields := make([]types.Field, len(n.Fields))
			for i, f := range n.Fields {
				fields[i] = types.Field{Name: f.Name, Type: a.resolveTypeExpr(f.Type)}
			}
			a.interner.SetStructFields(a.structTypes[n.Name], fields)
		case *ast.EnumDecl:
			variants := make([]types.Variant, len(n.Variants))
			for i, v := range n.Variants {
				var payload *types.Type
				if v.Payload != nil {
					pt := a.resolveTypeExpr(v.Payload)
					payload = &pt
				}
				variants[i] = types.Variant{Name: v.Name, Payload: payload}
			}
			a.interner.SetEnumVariants(a.enumTypes[n.Name], variants)
		}
	}
	for _, d := range pkg.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		sym, _ := a.root.LookupLocal(fn.Name)
		if sym == nil {
			continue
		}
		params := make([]*types.Type, len(fn.Params))
		for i, p := range fn.Params {
			pt := a.resolveTypeExpr(p.Type)
			params[i] = &pt
		}
		ret := a.resolveTypeExpr(fn.ReturnType)
		sym.Type = *a.interner.Function(params, &ret)
	}
}

func (a *Analyzer) symbolID(name string) string {
	if a.opts.ModuleName == "" {
		return name
	}
	return a.opts.ModuleName + "." + name
}

// --- pass 1: hoist ------------------------------------------------------------

// hoist declares every top-level name before anything is resolved, so
// declaration order within a translation unit never matters (spec.md §4.3
// "name resolution is order-independent at module scope").
func (a *Analyzer) hoist(pkg *ast.PackageDecl) {
	for _, d := range pkg.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			a.declareName(n.Name, symbols.KindType, n.DeclVisibility(), n.Span())
			a.structTypes[n.Name] = a.interner.DeclareStruct(a.symbolID(n.Name))
		case *ast.EnumDecl:
			a.declareName(n.Name, symbols.KindType, n.DeclVisibility(), n.Span())
			a.enumTypes[n.Name] = a.interner.DeclareEnum(a.symbolID(n.Name))
		case *ast.TypeAliasDecl:
			a.declareName(n.Name, symbols.KindType, n.DeclVisibility(), n.Span())
		case *ast.FuncDecl:
			a.declareName(n.Name, symbols.KindFunction, n.DeclVisibility(), n.Span())
			if sym, ok := a.root.LookupLocal(n.Name); ok {
				sym.Extern = n.Extern
			}
		}
	}
}

// declareName installs name into the module (root) scope, reporting a
// duplicate-declaration diagnostic if it was already declared directly at
// module scope.
func (a *Analyzer) declareName(name string, kind symbols.Kind, vis ast.Visibility, span source.Span) {
	symVis := symbols.Priv
	if vis == ast.Pub {
		symVis = symbols.Pub
	}
	sym := &symbols.Symbol{Name: name, Kind: kind, Visibility: symVis, Span: span, Module: a.opts.ModuleName}
	if !a.root.Declare(sym) {
		a.diags.Errorf(diag.CodeDuplicateDecl, span, "%q is already declared in this module", name)
	}
}
