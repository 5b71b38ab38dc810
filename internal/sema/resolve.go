package sema

import (
	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/types"
)

var primitiveNames = map[string]types.Primitive{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"f32": types.F32, "f64": types.F64, "bool": types.Bool, "char": types.Char,
	"string": types.String, "void": types.Void, "unit": types.Unit, "never": types.Never,
}

// resolveTypeExpr converts a syntactic type reference into an interned
// types.Type, following type aliases and looking up nominal struct/enum
// declarations from the forward-declaration registry built in pass 1.
// Unresolvable names produce an Error placeholder type and an E0200
// diagnostic rather than aborting the whole analysis.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) types.Type {
	switch n := te.(type) {
	case *ast.NamedTypeExpr:
		return a.resolveNamedType(n)
	case *ast.PointerTypeExpr:
		elem := a.resolveTypeExpr(n.Pointee)
		return *a.interner.Pointer(&elem, n.Mutable)
	case *ast.SliceTypeExpr:
		elem := a.resolveTypeExpr(n.Element)
		return *a.interner.Slice(&elem, n.Mutable)
	case *ast.ArrayTypeExpr:
		elem := a.resolveTypeExpr(n.Element)
		return *a.interner.Array(&elem, n.Length)
	case *ast.FuncTypeExpr:
		params := make([]*types.Type, len(n.Params))
		for i, p := range n.Params {
			pt := a.resolveTypeExpr(p)
			params[i] = &pt
		}
		ret := a.resolveTypeExpr(n.Return)
		return *a.interner.Function(params, &ret)
	}
	return *a.interner.Err("unrecognized type expression")
}

func (a *Analyzer) resolveNamedType(n *ast.NamedTypeExpr) types.Type {
	if prim, ok := primitiveNames[n.Name]; ok {
		return *a.interner.Prim(prim)
	}
	if n.Name == "Result" && len(n.Args) == 2 {
		ok := a.resolveTypeExpr(n.Args[0])
		errT := a.resolveTypeExpr(n.Args[1])
		return *a.interner.Result(&ok, &errT)
	}
	if n.Name == "Option" && len(n.Args) == 1 {
		inner := a.resolveTypeExpr(n.Args[0])
		return *a.interner.Option(&inner)
	}
	if st, ok := a.structTypes[n.Name]; ok {
		return *st
	}
	if et, ok := a.enumTypes[n.Name]; ok {
		return *et
	}
	if alias, ok := a.aliases[n.Name]; ok {
		return alias
	}
	a.diags.Errorf(diag.CodeUnknownName, n.Span(), "unknown type %q", n.Name)
	return *a.interner.Err("unknown type " + n.Name)
}
