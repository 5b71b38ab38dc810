package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/lexer"
	"github.com/asthra-lang/asthra-core/internal/parser"
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

func analyze(src string) (*Result, *diag.Bag) {
	f := source.NewFile("<test>", src)
	diags := diag.NewBag()
	lx := lexer.New(f, diags)
	p := parser.New(lx, f, diags)
	pkg := p.ParseUnit()
	res := Analyze(pkg, diags, Options{ModuleName: "main", DefaultIntWidth: types.I32})
	return res, diags
}

func Test_Analyze_helloWorld(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn main() -> void { return (); }
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_letInferredFromDeclaredType(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let x: i32 = 42;
			return x;
		}
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_forwardReferenceAcrossDecls(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn usesLater() -> i32 { return later(); }
		priv fn later() -> i32 { return 1; }
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_mutuallyRecursiveStructs(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub struct Node { next: *Node, val: i32 }
		pub struct Tree { root: *Branch }
		pub struct Branch { owner: *Tree, val: i32 }
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_duplicateDeclaration(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> void { return (); }
		pub fn f() -> void { return (); }
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeDuplicateDecl {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_unknownName(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 { return y; }
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeUnknownName {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_typeMismatch(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let b: bool = true;
			return b;
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeTypeMismatch {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_argCountMismatch(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn add(a: i32, b: i32) -> i32 { return a + b; }
		pub fn f() -> i32 { return add(1); }
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeArgCount {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_ifElseArmsUnify(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn g(b: bool) -> i32 {
			let r: i32 = if b { 1 } else { 2 };
			return r;
		}
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_nonExhaustiveMatch(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub enum E { A, B, C }
		pub fn f(e: E) -> i32 {
			return match e {
				E.A => 1,
				E.B => 2
			};
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeNonExhaustive {
			assert.Contains(d.Message, "C")
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_exhaustiveMatchWithWildcard(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub enum E { A, B, C }
		pub fn f(e: E) -> i32 {
			return match e {
				E.A => 1,
				_ => 0
			};
		}
	`)
	assert.False(diags.HasErrors())
}

func Test_Analyze_ffiCallOutsideUnsafeRejected(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		priv extern "C" fn write_buf(#[borrow] p: *u8, len: u64) -> i32;
		pub fn f(p: *u8, len: u64) -> i32 {
			return write_buf(p, len);
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeFFIOutsideUnsafe {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_ffiCallInsideUnsafeAccepted(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		priv extern "C" fn write_buf(#[borrow] p: *u8, len: u64) -> i32;
		pub fn f(p: *u8, len: u64) -> i32 {
			return unsafe { write_buf(p, len) };
		}
	`)
	for _, d := range diags.All() {
		assert.NotEqual(diag.CodeFFIOutsideUnsafe, d.Code)
	}
}

func Test_Analyze_mutableBorrowOfImmutableRejected(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let x: i32 = 1;
			let p: *mut i32 = &mut x;
			return *p;
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeMutBorrowOfImmut {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_mutableBorrowOfMutableAccepted(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let mut x: i32 = 1;
			let p: *mut i32 = &mut x;
			return *p;
		}
	`)
	for _, d := range diags.All() {
		assert.NotEqual(diag.CodeMutBorrowOfImmut, d.Code)
	}
}

func Test_Analyze_assignToImmutableRejected(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let x: i32 = 1;
			x = 2;
			return x;
		}
	`)
	assert.True(diags.HasErrors())
	found := false
	for _, d := range diags.All() {
		if d.Code == diag.CodeImmutableAssign {
			found = true
		}
	}
	assert.True(found)
}

func Test_Analyze_assignToMutableAccepted(t *testing.T) {
	assert := assert.New(t)
	_, diags := analyze(`package main;
		pub fn f() -> i32 {
			let mut x: i32 = 1;
			x = 2;
			return x;
		}
	`)
	for _, d := range diags.All() {
		assert.NotEqual(diag.CodeImmutableAssign, d.Code)
	}
}
