// Package asthra is the module's root facade: the single entry point a
// caller (cmd/asthra-devtool, internal/langserver, internal/cache, or an
// external importer) uses to run source text through the whole compiler
// pipeline, without reaching into internal/pipeline or any phase package
// directly (spec.md §2 "Pipeline", §6 "I/O contract").
//
// Grounded on the teacher's engine.go, which played the same role: a thin
// root-package wrapper around internal/ subsystems that every cmd/ binary
// and the server/ package called through rather than importing internal/
// packages piecemeal.
package asthra

import (
	"github.com/asthra-lang/asthra-core/internal/config"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/ir"
	"github.com/asthra-lang/asthra-core/internal/pipeline"
)

// Options configures one Compile call. See pipeline.Options for field docs.
type Options = pipeline.Options

// Result is one Compile call's complete output. See pipeline.Result.
type Result = pipeline.Result

// CompilerConfig is the decoded asthra.toml shape. See config.CompilerConfig.
type CompilerConfig = config.CompilerConfig

// Diagnostic is one reported condition. See diag.Diagnostic.
type Diagnostic = diag.Diagnostic

// Module is a lowered translation unit's IR. See ir.Module.
type Module = ir.Module

// LoadConfig reads and validates an optional asthra.toml at path, falling
// back to spec.md §9's defaults (64-bit little-endian, i32 literals) when
// path does not exist or is empty.
func LoadConfig(path string) (CompilerConfig, error) {
	return config.Load(path)
}

// Compile runs name/text through the full pipeline — lex, parse, analyze,
// lower — and returns every diagnostic collected plus the lowered IR module
// when analysis found no errors.
func Compile(name, text string, opts Options) *Result {
	return pipeline.Compile(name, text, opts)
}
