package ast

import (
	"fmt"

	"github.com/asthra-lang/asthra-core/internal/util"
)

// Print renders the canonical source form of a package declaration's header,
// imports, and declaration signatures; coding style (original whitespace,
// comments) is not preserved, matching tunascript/syntax/ast.go's
// Tunascript() method. The output is not full source: a function body prints
// as `{ ... }`, a function type's parameter list as `fn(...)`, a function with
// no parameters as `(none)`, and parameter `mut`/ownership annotations and
// generic type arguments are omitted, so re-parsing output that contains
// any of these does not yield a structurally equal AST.
//
// The trailing-separator-trim idiom uses util.UndoableStringBuilder's Undo
// so a list printer doesn't need a lookahead "is this the last element"
// branch: write the separator unconditionally, then Undo it after the loop
// if nothing followed.
func Print(pkg *PackageDecl) string {
	sb := &util.UndoableStringBuilder{}
	sb.WriteString(fmt.Sprintf("package %s;\n", pkg.Name))
	for _, im := range pkg.Imports {
		sb.WriteString(fmt.Sprintf("import %q;\n", im.Path))
	}
	for _, d := range pkg.Decls {
		printDecl(sb, d)
		sb.WriteString("\n")
	}
	return sb.String()
}

func printDecl(sb *util.UndoableStringBuilder, d Decl) {
	switch n := d.(type) {
	case *FuncDecl:
		printFunc(sb, n)
	case *StructDecl:
		sb.WriteString(fmt.Sprintf("%s struct %s {", n.DeclVisibility(), n.Name))
		for _, f := range n.Fields {
			sb.WriteString(fmt.Sprintf("%s: %s", f.Name, printType(f.Type)))
			sb.WriteString(", ")
		}
		trimTrailingSep(sb, len(n.Fields))
		sb.WriteString("}")
	case *EnumDecl:
		sb.WriteString(fmt.Sprintf("%s enum %s {", n.DeclVisibility(), n.Name))
		for _, v := range n.Variants {
			if v.Payload != nil {
				sb.WriteString(fmt.Sprintf("%s(%s)", v.Name, printType(v.Payload)))
			} else {
				sb.WriteString(v.Name)
			}
			sb.WriteString(", ")
		}
		trimTrailingSep(sb, len(n.Variants))
		sb.WriteString("}")
	case *TypeAliasDecl:
		sb.WriteString(fmt.Sprintf("%s type %s = %s;", n.DeclVisibility(), n.Name, printType(n.Alias)))
	case *ImportDecl:
		sb.WriteString(fmt.Sprintf("import %q;", n.Path))
	}
}

// trimTrailingSep undoes the last ", " written by a list-printing loop. If
// the loop wrote nothing (count is zero), there is nothing to undo and this
// is a no-op.
func trimTrailingSep(sb *util.UndoableStringBuilder, count int) {
	if count > 0 {
		sb.Undo()
	}
}

func printFunc(sb *util.UndoableStringBuilder, f *FuncDecl) {
	vis := f.DeclVisibility()
	if f.Extern {
		sb.WriteString(fmt.Sprintf("%s extern %q fn %s(", vis, f.ABI, f.Name))
	} else {
		sb.WriteString(fmt.Sprintf("%s fn %s(", vis, f.Name))
	}
	if len(f.Params) == 0 {
		sb.WriteString("none")
	}
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", p.Name, printType(p.Type)))
	}
	sb.WriteString(fmt.Sprintf(") -> %s", printType(f.ReturnType)))
	if f.Body != nil {
		sb.WriteString(" { ... }")
	} else {
		sb.WriteString(";")
	}
}

func printType(t TypeExpr) string {
	switch n := t.(type) {
	case *NamedTypeExpr:
		return n.Name
	case *PointerTypeExpr:
		if n.Mutable {
			return "*mut " + printType(n.Pointee)
		}
		return "*" + printType(n.Pointee)
	case *SliceTypeExpr:
		if n.Mutable {
			return "[]mut " + printType(n.Element)
		}
		return "[]" + printType(n.Element)
	case *ArrayTypeExpr:
		return fmt.Sprintf("[%s; %d]", printType(n.Element), n.Length)
	case *FuncTypeExpr:
		return "fn(...) -> " + printType(n.Return)
	}
	return "<?>"
}
