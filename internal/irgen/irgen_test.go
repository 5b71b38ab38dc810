package irgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/ir"
	"github.com/asthra-lang/asthra-core/internal/lexer"
	"github.com/asthra-lang/asthra-core/internal/parser"
	"github.com/asthra-lang/asthra-core/internal/sema"
	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

func lower(t *testing.T, src string) *ir.Module {
	t.Helper()
	f := source.NewFile("<test>", src)
	diags := diag.NewBag()
	lx := lexer.New(f, diags)
	p := parser.New(lx, f, diags)
	pkg := p.ParseUnit()
	require.False(t, diags.HasErrors(), "parse errors: %v", diags.All())

	res := sema.Analyze(pkg, diags, sema.Options{ModuleName: "main", DefaultIntWidth: types.I32})
	require.False(t, diags.HasErrors(), "sema errors: %v", diags.All())

	mod, err := Lower(pkg, res)
	require.NoError(t, err)
	return mod
}

func findFunc(mod *ir.Module, name string) *ir.Function {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestLower_unitReturn(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn main() -> void { return (); }
	`)
	fn := findFunc(mod, "main")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		if assert.Len(fn.Blocks, 1) {
			ret, ok := fn.Blocks[0].Term.(*ir.RetTerm)
			if assert.True(ok) {
				assert.Equal(ir.Value(""), ret.Value)
			}
		}
	}
}

func TestLower_literalReturn(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn answer() -> i32 { return 42; }
	`)
	fn := findFunc(mod, "answer")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		entry := fn.Blocks[0]
		var foundConst bool
		for _, inst := range entry.Insts {
			if c, ok := inst.(*ir.ConstInst); ok && c.IntVal == 42 {
				foundConst = true
			}
		}
		assert.True(foundConst)
		ret, ok := entry.Term.(*ir.RetTerm)
		if assert.True(ok) {
			assert.NotEqual(ir.Value(""), ret.Value)
		}
	}
}

func TestLower_externFunctionHasNoBlocks(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		priv extern "C" fn write_buf(#[borrow] p: *u8, len: u64) -> i32;
		pub fn f(p: *u8, len: u64) -> i32 {
			return unsafe { write_buf(p, len) };
		}
	`)
	extern := findFunc(mod, "write_buf")
	if assert.NotNil(extern) {
		assert.True(extern.Extern)
		assert.Equal("C", extern.ABI)
		assert.Empty(extern.Blocks)
	}
	f := findFunc(mod, "f")
	if assert.NotNil(f) {
		var foundCall bool
		for _, blk := range f.Blocks {
			for _, inst := range blk.Insts {
				if c, ok := inst.(*ir.CallInst); ok && c.Callee == "write_buf" {
					foundCall = true
				}
			}
		}
		assert.True(foundCall)
	}
}

func TestLower_ifElseProducesCondBrAndPhi(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn g(b: bool) -> i32 {
			let r: i32 = if b { 1 } else { 2 };
			return r;
		}
	`)
	fn := findFunc(mod, "g")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		var sawCondBr, sawPhi bool
		for _, blk := range fn.Blocks {
			if _, ok := blk.Term.(*ir.CondBrTerm); ok {
				sawCondBr = true
			}
			for _, inst := range blk.Insts {
				if _, ok := inst.(*ir.PhiInst); ok {
					sawPhi = true
				}
			}
		}
		assert.True(sawCondBr)
		assert.True(sawPhi)
	}
}

func TestLower_matchProducesSequentialTestsAndJoin(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub enum Shape { Circle(f64), Square(f64), Point }
		pub fn area(s: Shape) -> f64 {
			return match s {
				Shape.Circle(r) => r,
				Shape.Square(side) => side,
				_ => 0.0
			};
		}
	`)
	fn := findFunc(mod, "area")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		var sawTag, sawPayload, sawPhi bool
		for _, blk := range fn.Blocks {
			for _, inst := range blk.Insts {
				switch inst.(type) {
				case *ir.TagInst:
					sawTag = true
				case *ir.PayloadInst:
					sawPayload = true
				case *ir.PhiInst:
					sawPhi = true
				}
			}
		}
		assert.True(sawTag)
		assert.True(sawPayload)
		assert.True(sawPhi)
	}
}

func TestLower_mutableLocalUsesAllocLoadStore(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn f() -> i32 {
			let mut x: i32 = 1;
			x = 2;
			return x;
		}
	`)
	fn := findFunc(mod, "f")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		var allocs, stores, loads int
		for _, blk := range fn.Blocks {
			for _, inst := range blk.Insts {
				switch inst.(type) {
				case *ir.AllocInst:
					allocs++
				case *ir.StoreInst:
					stores++
				case *ir.LoadInst:
					loads++
				}
			}
		}
		assert.GreaterOrEqual(allocs, 1)
		assert.GreaterOrEqual(stores, 2) // initial store + reassignment
		assert.GreaterOrEqual(loads, 1)
	}
}

func TestLower_shortCircuitAndProducesCondBr(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn f(a: bool, b: bool) -> bool {
			return a && b;
		}
	`)
	fn := findFunc(mod, "f")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		var sawCondBr bool
		for _, blk := range fn.Blocks {
			if _, ok := blk.Term.(*ir.CondBrTerm); ok {
				sawCondBr = true
			}
		}
		assert.True(sawCondBr)
	}
}

func TestLower_arrayIndexEmitsConstLengthBoundsCheck(t *testing.T) {
	assert := assert.New(t)
	mod := lower(t, `package main;
		pub fn first(a: [i32; 4]) -> i32 {
			return a[0];
		}
	`)
	fn := findFunc(mod, "first")
	if assert.NotNil(fn) {
		assert.NoError(ir.VerifySSA(fn))
		var sawBoundsCheck, sawIndex bool
		for _, blk := range fn.Blocks {
			for _, inst := range blk.Insts {
				switch inst.(type) {
				case *ir.BoundsCheckInst:
					sawBoundsCheck = true
				case *ir.IndexInst:
					sawIndex = true
				}
			}
		}
		assert.True(sawBoundsCheck)
		assert.True(sawIndex)
	}
}
