// Package diag collects compiler diagnostics. The pipeline never throws on a
// recoverable condition; instead every phase appends to a shared, append-only
// Bag so that as many diagnostics as possible surface from a single run
// (spec.md §3 "Diagnostic", §7 "Propagation").
package diag

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/asthra-lang/asthra-core/internal/source"
)

// Severity classifies a Diagnostic. Only Error severity blocks IR generation
// (spec.md §4.3 "Failure policy").
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Code is a stable, fixed diagnostic identifier used in tests and across
// releases (spec.md §7 "User-visible failure").
type Code string

// Stable diagnostic codes, grouped by the taxonomy in spec.md §7.
const (
	// Lex errors
	CodeIllegalByte       Code = "E0001"
	CodeUnterminatedLit   Code = "E0002"
	CodeNumericOverflow   Code = "E0003"
	CodeUnterminatedBlock Code = "E0004"
	CodeMalformedEscape   Code = "E0005"

	// Parse errors
	CodeUnexpectedToken    Code = "E0100"
	CodeMissingToken       Code = "E0101"
	CodeMissingTypeAnnot   Code = "E0102"
	CodeChainedComparison  Code = "E0103"
	CodeDisallowedConstruct Code = "E0104"

	// Resolution errors
	CodeUnknownName       Code = "E0200"
	CodeDuplicateDecl     Code = "E0201"
	CodeVisibilityViolate Code = "E0202"

	// Type errors
	CodeTypeMismatch      Code = "E0300"
	CodeNonExhaustive     Code = "E0301"
	CodeArgCount          Code = "E0302"
	CodeImmutableAssign   Code = "E0303"
	CodeNonBoolCondition  Code = "E0304"
	CodeArrayLenMismatch  Code = "E0305"

	// Safety errors
	CodeFFIOutsideUnsafe  Code = "E0400"
	CodeMissingOwnership  Code = "E0401"
	CodeMutBorrowOfImmut  Code = "E0402"

	// Internal compiler errors
	CodeInternal Code = "E0900"
)

// Note is a secondary message attached to a Diagnostic, e.g. a suggested fix.
type Note struct {
	Span    source.Span
	Message string
}

// Diagnostic is one reported condition: severity, stable code, primary span,
// message, and optional notes (spec.md §3 "Diagnostic").
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     source.Span
	Message  string
	Notes    []Note
}

// Bag is a flat, append-only list of diagnostics. It is not safe for
// concurrent writes from multiple goroutines within one translation unit —
// per spec.md §5, the pipeline is single-threaded per unit.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic. Diagnostic order is stable and matches a
// depth-first, left-to-right traversal of declarations (spec.md §5
// "Ordering guarantees").
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Errorf appends an Error-severity diagnostic built from a format string.
func (b *Bag) Errorf(code Code, span source.Span, format string, a ...interface{}) {
	b.Add(Diagnostic{Severity: Error, Code: code, Span: span, Message: fmt.Sprintf(format, a...)})
}

// Warnf appends a Warning-severity diagnostic built from a format string.
func (b *Bag) Warnf(code Code, span source.Span, format string, a ...interface{}) {
	b.Add(Diagnostic{Severity: Warning, Code: code, Span: span, Message: fmt.Sprintf(format, a...)})
}

// All returns every diagnostic collected so far, in append order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any Error-severity diagnostic was collected. Per
// spec.md §4.3, any error-severity diagnostic blocks IR generation.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics collected.
func (b *Bag) Len() int {
	return len(b.items)
}

// consoleWidth is the wrap width used for rendered notes, matching the
// console width the teacher wraps in-game messages to.
const consoleWidth = 80

// Render produces a human-readable representation of a Diagnostic with a
// primary span and caret underline (spec.md §7 "User-visible failure"),
// generalized from internal/tunascript/error.go's SyntaxError.FullMessage.
func Render(d Diagnostic) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)

	if d.Span.Start.File != nil {
		f := d.Span.Start.File
		line := f.LineText(d.Span.Start.Line)
		fmt.Fprintf(&sb, "  --> %s:%d:%d\n", f.Name, d.Span.Start.Line, d.Span.Start.Col)
		sb.WriteString("   | " + line + "\n")
		sb.WriteString("   | " + strings.Repeat(" ", d.Span.Start.Col-1))
		caretLen := d.Span.Len
		if caretLen < 1 {
			caretLen = 1
		}
		sb.WriteString(strings.Repeat("^", caretLen))
		sb.WriteRune('\n')
	}

	for _, n := range d.Notes {
		wrapped := rosed.Edit("note: " + n.Message).Wrap(consoleWidth).String()
		sb.WriteString(wrapped)
		sb.WriteRune('\n')
	}

	return sb.String()
}

// RenderAll renders every diagnostic in the bag, in order, separated by blank
// lines.
func RenderAll(b *Bag) string {
	var sb strings.Builder
	for i, d := range b.items {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(Render(d))
	}
	return sb.String()
}

// JSON is the stable wire record for one diagnostic (spec.md §6 "Diagnostic
// format (stable)"). Rendering to human-readable text is the driver's
// responsibility; this type is the contract the core hands off.
type JSON struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Col      int      `json:"col"`
	Length   int      `json:"length"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes"`
}

// ToJSON converts a Diagnostic to its stable wire record.
func ToJSON(d Diagnostic) JSON {
	j := JSON{
		Severity: d.Severity.String(),
		Code:     string(d.Code),
		Message:  d.Message,
		Length:   d.Span.Len,
	}
	if d.Span.Start.File != nil {
		j.File = d.Span.Start.File.Name
		j.Line = d.Span.Start.Line
		j.Col = d.Span.Start.Col
	}
	for _, n := range d.Notes {
		j.Notes = append(j.Notes, n.Message)
	}
	return j
}

// AllJSON converts every diagnostic in the bag to its stable wire record, in
// order.
func AllJSON(b *Bag) []JSON {
	out := make([]JSON, 0, len(b.items))
	for _, d := range b.items {
		out = append(out, ToJSON(d))
	}
	return out
}
