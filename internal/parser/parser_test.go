package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/lexer"
	"github.com/asthra-lang/asthra-core/internal/source"
)

func parse(src string) (*ast.PackageDecl, *diag.Bag) {
	f := source.NewFile("<test>", src)
	diags := diag.NewBag()
	lx := lexer.New(f, diags)
	p := New(lx, f, diags)
	return p.ParseUnit(), diags
}

func Test_ParseUnit_packageHeader(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expectName string
		expectErr  bool
	}{
		{name: "bare package", input: "package main;", expectName: "main"},
		{name: "package with import", input: `package main; import "io";`, expectName: "main"},
		{name: "missing semicolon", input: "package main", expectName: "main", expectErr: true},
		{name: "missing name", input: "package ;", expectName: "<unknown>", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			pkg, diags := parse(tc.input)
			assert.Equal(tc.expectName, pkg.Name)
			assert.Equal(tc.expectErr, diags.HasErrors())
		})
	}
}

func Test_ParseUnit_imports(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main; import "fmt"; import "net/http";`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Imports, 2) {
		assert.Equal("fmt", pkg.Imports[0].Path)
		assert.Equal("net/http", pkg.Imports[1].Path)
	}
}

func Test_ParseUnit_funcDecl(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn add(a: i32, b: i32) -> i32 {
			return a + b;
		}
	`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Decls, 1) {
		fn, ok := pkg.Decls[0].(*ast.FuncDecl)
		if assert.True(ok) {
			assert.Equal("add", fn.Name)
			assert.Equal(ast.Pub, fn.DeclVisibility())
			assert.Len(fn.Params, 2)
			assert.NotNil(fn.Body)
			assert.False(fn.Extern)
		}
	}
}

func Test_ParseUnit_externFunc(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		priv extern "C" fn write_buf(#[borrow] p: *u8, len: usize) -> i32;
	`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Decls, 1) {
		fn, ok := pkg.Decls[0].(*ast.FuncDecl)
		if assert.True(ok) {
			assert.True(fn.Extern)
			assert.Equal("C", fn.ABI)
			assert.Nil(fn.Body)
			if assert.Len(fn.Params, 2) {
				assert.Equal("borrow", fn.Params[0].Ownership)
			}
		}
	}
}

func Test_ParseUnit_externFunc_missingOwnershipAnnotation(t *testing.T) {
	assert := assert.New(t)
	_, diags := parse(`package main;
		priv extern "C" fn write_buf(p: *u8, len: usize) -> i32;
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeMissingOwnership {
			found = true
		}
	}
	assert.True(found)
}

func Test_ParseUnit_structDecl(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub struct Point { x: i32, y: i32 }
	`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Decls, 1) {
		sd, ok := pkg.Decls[0].(*ast.StructDecl)
		if assert.True(ok) {
			assert.Equal("Point", sd.Name)
			assert.Len(sd.Fields, 2)
		}
	}
}

func Test_ParseUnit_enumDecl(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub enum Shape { Circle(f64), Square(f64), Point }
	`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Decls, 1) {
		ed, ok := pkg.Decls[0].(*ast.EnumDecl)
		if assert.True(ok) {
			assert.Len(ed.Variants, 3)
			assert.NotNil(ed.Variants[0].Payload)
			assert.Nil(ed.Variants[2].Payload)
		}
	}
}

func Test_ParseUnit_typeAlias(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main; pub type Byte = u8;`)
	assert.False(diags.HasErrors())
	if assert.Len(pkg.Decls, 1) {
		ta, ok := pkg.Decls[0].(*ast.TypeAliasDecl)
		if assert.True(ok) {
			assert.Equal("Byte", ta.Name)
		}
	}
}

func Test_parseExpr_precedence(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f() -> i32 {
			let x: i32 = 1 + 2 * 3;
			return x;
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	bin, ok := let.Init.(*ast.BinaryExpr)
	if assert.True(ok) {
		assert.Equal(ast.BinAdd, bin.Op)
		// right side should be the tighter-binding 2*3, not (1+2)
		_, rightIsMul := bin.Right.(*ast.BinaryExpr)
		assert.True(rightIsMul)
	}
}

func Test_parseExpr_chainedComparisonRejected(t *testing.T) {
	assert := assert.New(t)
	_, diags := parse(`package main;
		pub fn f() -> bool {
			return 1 < 2 < 3;
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeChainedComparison {
			found = true
		}
	}
	assert.True(found)
}

func Test_parseExpr_ifElseExpr(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f() -> i32 {
			let x: i32 = if true { 1 } else { 2 };
			return x;
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	ifE, ok := let.Init.(*ast.IfExpr)
	if assert.True(ok) {
		assert.NotNil(ifE.Then)
		assert.NotNil(ifE.Else)
	}
}

func Test_parseExpr_matchExpr(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f(s: Shape) -> i32 {
			return match s {
				Shape.Circle(r) => 1,
				Shape.Square(side) => 2,
				_ => 0
			};
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	match, ok := ret.Value.(*ast.MatchExpr)
	if assert.True(ok) {
		assert.Len(match.Arms, 3)
		vp, ok := match.Arms[0].Pattern.(*ast.VariantPattern)
		if assert.True(ok) {
			assert.Equal("Shape", vp.Enum)
			assert.Equal("Circle", vp.Variant)
			assert.Equal("r", vp.Binding)
		}
		_, isWildcard := match.Arms[2].Pattern.(*ast.WildcardPattern)
		assert.True(isWildcard)
	}
}

func Test_parseExpr_postfixChain(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f(p: Point) -> i32 {
			return p.pos[0].value as i32;
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	_, ok := ret.Value.(*ast.CastExpr)
	assert.True(ok)
}

func Test_parseExpr_unitReturn(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f() -> void {
			return ();
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	_, ok := ret.Value.(*ast.UnitExpr)
	assert.True(ok)
}

func Test_parseExpr_unsafeBlock(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		priv extern "C" fn write_buf(#[borrow] p: *u8, len: usize) -> i32;
		pub fn f(p: *u8, len: usize) -> i32 {
			return unsafe { write_buf(p, len) };
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[1].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	u, ok := ret.Value.(*ast.UnsafeExpr)
	if assert.True(ok) {
		assert.NotNil(u.Block)
		assert.NotNil(u.Block.Value)
	}
}

func Test_parseExpr_letMutAndAssign(t *testing.T) {
	assert := assert.New(t)
	pkg, diags := parse(`package main;
		pub fn f() -> i32 {
			let mut x: i32 = 1;
			x = 2;
			return x;
		}
	`)
	assert.False(diags.HasErrors())
	fn := pkg.Decls[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	assert.True(let.Mutable)
	_, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	assert.True(ok)
}

func Test_ParseUnit_missingVisibilityReported(t *testing.T) {
	assert := assert.New(t)
	_, diags := parse(`package main; fn f() -> void { return (); }`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeMissingToken {
			found = true
		}
	}
	assert.True(found)
}
