// Package pipeline orchestrates the compiler's four strictly staged phases —
// lexer, parser, semantic analyzer, IR generator — into the single
// input-artifact-to-(output,diagnostics) function spec.md §2/§6 describes.
// It is the only package that imports all four phase packages together; each
// phase package itself stays ignorant of its neighbors (spec.md §5: no phase
// reaches back into an earlier one).
//
// Re-exported as the module's root package (see asthra.go), mirroring how
// the teacher's engine.go was the single facade its cmd/ binaries and server/
// package both called through rather than reaching into internal/ subsystems
// directly.
package pipeline

import (
	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/config"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/ice"
	"github.com/asthra-lang/asthra-core/internal/ir"
	"github.com/asthra-lang/asthra-core/internal/irgen"
	"github.com/asthra-lang/asthra-core/internal/lexer"
	"github.com/asthra-lang/asthra-core/internal/parser"
	"github.com/asthra-lang/asthra-core/internal/sema"
	"github.com/asthra-lang/asthra-core/internal/source"
)

// Options configures one Compile call.
type Options struct {
	// ModuleName is recorded on the root scope and the lowered IR module. An
	// empty ModuleName defaults to "main".
	ModuleName string

	// Config supplies the target-dependent choices spec.md §9 leaves open
	// (default integer literal width, pointer width, endianness). A zero
	// Config is filled with config.DefaultConfig().FillDefaults().
	Config config.CompilerConfig
}

// Result is one Compile call's complete output: every diagnostic raised
// across all phases reached, plus the lowered IR module when semantic
// analysis found no errors (spec.md §7 "Propagation": IR generation never
// runs over a program sema rejected).
type Result struct {
	Diagnostics *diag.Bag
	Module      *ir.Module
}

// Ok reports whether the compilation reached IR generation without any
// phase raising an Error-severity diagnostic.
func (r *Result) Ok() bool {
	return !r.Diagnostics.HasErrors()
}

// Compile runs name/text through lexing, parsing, semantic analysis, and (if
// sema found no errors) IR generation, returning every diagnostic collected
// along the way. It never panics: a bug in the parser or lexer surfaces as a
// CodeInternal diagnostic rather than escaping to the caller, and a compile
// of invalid source still returns a non-nil, fully populated Result rather
// than a Go error — only irgen's own ice.Error class is a Go error, and even
// that is folded into the Result's diagnostics here.
func Compile(name, text string, opts Options) *Result {
	cfg := opts.Config.FillDefaults()
	diags := diag.NewBag()
	res := &Result{Diagnostics: diags}

	pkg, ok := parseUnit(name, text, diags)
	if !ok {
		return res
	}

	semaRes := sema.Analyze(pkg, diags, sema.Options{
		ModuleName:      moduleName(opts.ModuleName),
		DefaultIntWidth: cfg.Primitive(),
	})
	if diags.HasErrors() {
		return res
	}

	mod, err := irgen.Lower(pkg, semaRes)
	if err != nil {
		reportInternal(diags, "irgen", err)
		return res
	}
	res.Module = mod
	return res
}

func moduleName(name string) string {
	if name == "" {
		return "main"
	}
	return name
}

// parseUnit lexes and parses text, recovering any panic from either phase as
// a CodeInternal diagnostic — the lexer and parser predate internal/ice and
// are not expected to panic on well-formed Go, but a phase boundary is
// exactly where an unrecovered bug must stop before it reaches a caller that
// may be serving many compiles in one process (internal/langserver,
// internal/cache).
func parseUnit(name, text string, diags *diag.Bag) (pkg *ast.PackageDecl, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			reportInternal(diags, "parser", ice.Recover("parser", r))
			pkg, ok = nil, false
		}
	}()
	f := source.NewFile(name, text)
	lx := lexer.New(f, diags)
	p := parser.New(lx, f, diags)
	pkg = p.ParseUnit()
	return pkg, !diags.HasErrors()
}

func reportInternal(diags *diag.Bag, phase string, err error) {
	if err == nil {
		return
	}
	diags.Errorf(diag.CodeInternal, source.Span{}, "%s", err.Error())
}
