/*
Asthra-devtool is a development harness for exercising the compiler pipeline
by hand. It is not a build-system driver (spec.md §1 Non-goal: no option
parsing beyond which files to compile and how to print diagnostics, no
backend invocation) — it is the equivalent of cmd/tqi for this repository: a
thin wrapper that feeds source text to the pipeline and prints what comes
back.

Usage:

	asthra-devtool [flags] [file]

The flags are:

	-v, --version
		Print the compiler version and exit.

	-j, --json
		Print diagnostics in the stable JSON wire format (spec.md §6) instead
		of the human-readable rendering.

	-i, --interactive
		Start an interactive REPL that compiles each line entered as its own
		translation unit.

If a file argument is given, its contents are compiled and the result is
printed once. With neither a file argument nor --interactive, source is read
from stdin.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/asthra-lang/asthra-core"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/version"
)

const (
	// ExitSuccess indicates the program ran and the compiled source had no
	// errors.
	ExitSuccess = iota

	// ExitCompileError indicates the program ran but the compiled source
	// itself had one or more diagnostic errors.
	ExitCompileError

	// ExitUsageError indicates a problem reading input or flags, before any
	// compilation was attempted.
	ExitUsageError
)

var (
	returnCode      = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Print the compiler version and exit")
	flagJSON        = pflag.BoolP("json", "j", false, "Print diagnostics as stable JSON instead of human-readable text")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive REPL")
	flagConfig      = pflag.StringP("config", "c", "", "Path to an asthra.toml configuration file")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unrecoverable panic: %v\n", r)
			os.Exit(ExitUsageError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println(version.Current)
		return
	}

	cfg, err := asthra.LoadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}
	opts := asthra.Options{ModuleName: "main", Config: cfg}

	if *flagInteractive {
		runREPL(opts)
		return
	}

	var text []byte
	name := "<stdin>"
	if pflag.NArg() > 0 {
		name = pflag.Arg(0)
		text, err = os.ReadFile(name)
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	if !report(name, asthra.Compile(name, string(text), opts)) {
		returnCode = ExitCompileError
	}
}

// report prints a compile result's diagnostics (human-readable or JSON, per
// --json) and returns whether the compile was clean.
func report(name string, res *asthra.Result) bool {
	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, d := range diag.AllJSON(res.Diagnostics) {
			enc.Encode(d)
		}
	} else {
		for _, d := range res.Diagnostics.All() {
			fmt.Print(diag.Render(d))
		}
		if res.Ok() {
			fmt.Printf("%s: ok\n", name)
		}
	}
	return res.Ok()
}

// runREPL compiles each line of interactive input as its own translation
// unit, printing its diagnostics before prompting for the next line.
func runREPL(opts asthra.Options) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "asthra> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline: %s\n", err)
		returnCode = ExitUsageError
		return
	}
	defer rl.Close()

	for i := 0; ; i++ {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return
		}
		if line == "" {
			continue
		}
		name := fmt.Sprintf("<repl:%d>", i)
		report(name, asthra.Compile(name, line, opts))
	}
}
