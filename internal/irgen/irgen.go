// Package irgen lowers a type-checked package (an *ast.PackageDecl plus the
// sema.Result that annotated it) into the SSA-form internal/ir module (spec.md
// §5 "IR Generation", §8 scenario 4). Every expression value and pointer
// address is a freshly numbered ir.Value; every mutable local lives in an
// ir.AllocInst stack slot so reassignment is an ordinary StoreInst rather
// than a dominance-tracked SSA rewrite (see ir.VerifySSA's doc comment for
// why that scope cut is sound here).
//
// Grounded on internal/ir (itself grounded on semetekare-rust2go/internal/ir/
// ir.go's tagged-node shape), generalized from that repo's single-pass
// tree-walking codegen to basic-block construction with explicit
// terminators, since Asthra's if/match are expressions whose join points
// need real control flow, not host-language if/switch.
package irgen

import (
	"fmt"

	"github.com/asthra-lang/asthra-core/internal/ast"
	"github.com/asthra-lang/asthra-core/internal/ice"
	"github.com/asthra-lang/asthra-core/internal/ir"
	"github.com/asthra-lang/asthra-core/internal/sema"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// Lower translates every bodied or extern function declaration in pkg into
// an ir.Function, using res for the symbol/type information sema already
// computed. It returns an *ice.Error (never a diag.Diagnostic — by this
// point the program is known to type-check) if it encounters an AST shape
// sema should already have rejected.
//
// Arithmetic lowers to plain BinOpInst instructions with no overflow trap or
// wrap instrumentation: overflow behaviour is a backend/runtime concern and
// is not encoded in the IR.
func Lower(pkg *ast.PackageDecl, res *sema.Result) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ice.Recover("irgen", r)
		}
	}()

	mod = &ir.Module{Name: pkg.Name}
	for _, d := range pkg.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		lowered, lerr := lowerFunc(fn, res)
		if lerr != nil {
			return nil, lerr
		}
		mod.Functions = append(mod.Functions, lowered)
	}
	return mod, nil
}

func lowerFunc(fn *ast.FuncDecl, res *sema.Result) (*ir.Function, error) {
	sym, ok := res.Root.LookupLocal(fn.Name)
	if !ok {
		return nil, ice.Newf("irgen", "function %q has no hoisted symbol", fn.Name)
	}
	params := loweredParams(fn, sym.Type)

	if fn.Extern {
		return &ir.Function{Name: fn.Name, Params: params, ReturnType: sym.Type.Return(), Extern: true, ABI: fn.ABI}, nil
	}

	b := newBuilder(res.Interner)
	b.startBlock(b.reserveLabel("entry"))

	paramTypes := sym.Type.Params()
	for i, p := range fn.Params {
		argVal := b.newValue()
		b.emit(ir.NewParamInst(p.Span, argVal, i, paramTypes[i]))
		slot := b.newValue()
		b.emit(ir.NewAllocInst(p.Span, slot, paramTypes[i]))
		b.emit(ir.NewStoreInst(p.Span, slot, argVal))
		b.declareLocal(p.Name, slot, paramTypes[i])
	}

	retVal, err := b.lowerBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	if b.cur.Term == nil {
		b.setTerm(ir.NewRetTerm(fn.Body.Span(), retVal))
	}

	return &ir.Function{Name: fn.Name, Params: params, ReturnType: sym.Type.Return(), Blocks: b.blocks}, nil
}

func loweredParams(fn *ast.FuncDecl, fnType types.Type) []ir.Param {
	paramTypes := fnType.Params()
	out := make([]ir.Param, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = ir.Param{Name: p.Name, Type: paramTypes[i]}
	}
	return out
}

// local is one binding's stack-slot address and declared type.
type local struct {
	slot ir.Value
	typ  types.Type
}

// localEnv is a stack of name->local maps, one per lexical scope, mirroring
// internal/symbols.Scope's chained-lookup shape so a nested block's `let` can
// shadow an outer one without corrupting the outer binding.
type localEnv struct {
	frames []map[string]local
}

func (e *localEnv) push() { e.frames = append(e.frames, make(map[string]local)) }

func (e *localEnv) pop() { e.frames = e.frames[:len(e.frames)-1] }

func (e *localEnv) declare(name string, slot ir.Value, typ types.Type) {
	e.frames[len(e.frames)-1][name] = local{slot: slot, typ: typ}
}

func (e *localEnv) lookup(name string) (local, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, true
		}
	}
	return local{}, false
}

// builder accumulates one function's basic blocks.
type builder struct {
	interner *types.Interner
	valueSeq int
	blockSeq int
	blocks   []*ir.Block
	cur      *ir.Block
	locals   localEnv
}

func newBuilder(in *types.Interner) *builder {
	b := &builder{interner: in}
	b.locals.push()
	return b
}

func (b *builder) newValue() ir.Value {
	v := ir.Value(fmt.Sprintf("v%d", b.valueSeq))
	b.valueSeq++
	return v
}

func (b *builder) emit(inst ir.Instruction) {
	b.cur.Insts = append(b.cur.Insts, inst)
}

func (b *builder) reserveLabel(hint string) string {
	lbl := fmt.Sprintf("%s%d", hint, b.blockSeq)
	b.blockSeq++
	return lbl
}

func (b *builder) startBlock(label string) *ir.Block {
	blk := &ir.Block{Label: label}
	b.blocks = append(b.blocks, blk)
	b.cur = blk
	return blk
}

func (b *builder) setTerm(t ir.Terminator) {
	if b.cur.Term == nil {
		b.cur.Term = t
	}
}

func (b *builder) declareLocal(name string, slot ir.Value, typ types.Type) {
	b.locals.declare(name, slot, typ)
}

func (b *builder) pushScope() { b.locals.push() }
func (b *builder) popScope()  { b.locals.pop() }

func (b *builder) boolType() types.Type { return *b.interner.Prim(types.Bool) }

func isUnitType(t types.Type) bool {
	return t.Kind() == types.KindPrimitive && t.Primitive() == types.Unit
}

// lowerBlock lowers every statement of blk in a fresh lexical scope and
// returns the SSA value of its trailing expression, or the empty Value for a
// block ending in a statement (unit).
func (b *builder) lowerBlock(blk *ast.BlockExpr) (ir.Value, error) {
	b.pushScope()
	defer b.popScope()
	for _, s := range blk.Stmts {
		if err := b.lowerStmt(s); err != nil {
			return "", err
		}
		if b.cur.Term != nil {
			// a return inside this block already terminated the current
			// block; anything syntactically after it is unreachable.
			break
		}
	}
	if blk.Value != nil {
		return b.lowerExpr(blk.Value)
	}
	return "", nil
}

func (b *builder) lowerStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.LetStmt:
		return b.lowerLet(n)
	case *ast.AssignStmt:
		return b.lowerAssignStmt(n)
	case *ast.ExprStmt:
		_, err := b.lowerExpr(n.X)
		return err
	case *ast.ReturnStmt:
		val, err := b.lowerExpr(n.Value)
		if err != nil {
			return err
		}
		b.setTerm(ir.NewRetTerm(n.Span(), val))
		return nil
	case *ast.BlockStmt:
		_, err := b.lowerBlock(n.Block)
		return err
	}
	return ice.Newf("irgen", "unrecognized statement node %T", s)
}

func (b *builder) lowerLet(n *ast.LetStmt) error {
	if n.Init == nil {
		return ice.Newf("irgen", "let binding %q has no initializer; uninitialized locals are not supported", n.Name)
	}
	val, err := b.lowerExpr(n.Init)
	if err != nil {
		return err
	}
	t := n.Init.Type()
	slot := b.newValue()
	b.emit(ir.NewAllocInst(n.Span(), slot, t))
	b.emit(ir.NewStoreInst(n.Span(), slot, val))
	b.declareLocal(n.Name, slot, t)
	return nil
}

func (b *builder) lowerAssignStmt(n *ast.AssignStmt) error {
	addr, err := b.lowerAddress(n.Target)
	if err != nil {
		return err
	}
	val, err := b.lowerExpr(n.Value)
	if err != nil {
		return err
	}
	b.emit(ir.NewStoreInst(n.Span(), addr, val))
	return nil
}

// lowerAddress computes the pointer value of an lvalue expression, for use as
// an assignment target or as the operand of `&`/`&mut`. Identifiers, field
// projections, index projections, and dereferences (`*p`, whose address is
// p's value) are supported. Neither the parser nor sema restricts the shape
// of an assignment target, so any other expression shape reaching here
// returns an internal compiler error.
func (b *builder) lowerAddress(e ast.Expr) (ir.Value, error) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		loc, ok := b.locals.lookup(n.Name)
		if !ok {
			return "", ice.Newf("irgen", "assignment to unknown local %q", n.Name)
		}
		return loc.slot, nil
	case *ast.FieldExpr:
		baseAddr, err := b.lowerAddress(n.Recv)
		if err != nil {
			return "", err
		}
		baseVal := b.newValue()
		b.emit(ir.NewLoadInst(n.Span(), baseVal, baseAddr, n.Recv.Type()))
		fieldAddr := b.newValue()
		b.emit(ir.NewFieldInst(n.Span(), fieldAddr, baseVal, n.Field, n.Type()))
		return fieldAddr, nil
	case *ast.IndexExpr:
		baseAddr, err := b.lowerAddress(n.Recv)
		if err != nil {
			return "", err
		}
		baseVal := b.newValue()
		b.emit(ir.NewLoadInst(n.Span(), baseVal, baseAddr, n.Recv.Type()))
		idxVal, err := b.lowerExpr(n.Index)
		if err != nil {
			return "", err
		}
		if err := b.emitBoundsCheck(n, baseVal, idxVal); err != nil {
			return "", err
		}
		elemAddr := b.newValue()
		b.emit(ir.NewIndexInst(n.Span(), elemAddr, baseVal, idxVal, n.Type()))
		return elemAddr, nil
	case *ast.UnaryExpr:
		if n.Op == ast.UnaryDeref {
			return b.lowerExpr(n.Operand)
		}
	}
	return "", ice.Newf("irgen", "expression %T is not a valid lvalue", e)
}

func (b *builder) emitBoundsCheck(n *ast.IndexExpr, baseVal, idxVal ir.Value) error {
	recvT := n.Recv.Type()
	var lenVal ir.Value
	switch recvT.Kind() {
	case types.KindArray:
		lenVal = b.newValue()
		c := ir.NewConstInst(n.Span(), lenVal, *b.interner.Prim(types.I64))
		c.IntVal = uint64(recvT.Length())
		b.emit(c)
	case types.KindSlice:
		lenVal = b.newValue()
		b.emit(ir.NewLenInst(n.Span(), lenVal, baseVal, *b.interner.Prim(types.I64)))
	default:
		return ice.Newf("irgen", "index of non-indexable type %s", recvT.String())
	}
	b.emit(ir.NewBoundsCheckInst(n.Span(), idxVal, lenVal))
	return nil
}

// lowerExpr lowers e and returns its SSA value.
func (b *builder) lowerExpr(e ast.Expr) (ir.Value, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return b.lowerLiteral(n)
	case *ast.UnitExpr:
		return "", nil
	case *ast.IdentExpr:
		loc, ok := b.locals.lookup(n.Name)
		if !ok {
			// a module-level function name referenced as a value (e.g. passed
			// to a higher-order parameter); irgen has no slot for it since
			// sema resolves it straight to a symbol, not a local binding.
			return "", ice.Newf("irgen", "identifier %q has no lowered binding", n.Name)
		}
		val := b.newValue()
		b.emit(ir.NewLoadInst(n.Span(), val, loc.slot, loc.typ))
		return val, nil
	case *ast.FieldExpr:
		baseVal, err := b.lowerExpr(n.Recv)
		if err != nil {
			return "", err
		}
		val := b.newValue()
		b.emit(ir.NewFieldInst(n.Span(), val, baseVal, n.Field, n.Type()))
		return val, nil
	case *ast.IndexExpr:
		baseVal, err := b.lowerExpr(n.Recv)
		if err != nil {
			return "", err
		}
		idxVal, err := b.lowerExpr(n.Index)
		if err != nil {
			return "", err
		}
		if err := b.emitBoundsCheck(n, baseVal, idxVal); err != nil {
			return "", err
		}
		val := b.newValue()
		b.emit(ir.NewIndexInst(n.Span(), val, baseVal, idxVal, n.Type()))
		return val, nil
	case *ast.CallExpr:
		return b.lowerCall(n)
	case *ast.UnaryExpr:
		return b.lowerUnary(n)
	case *ast.BinaryExpr:
		return b.lowerBinary(n)
	case *ast.CastExpr:
		operand, err := b.lowerExpr(n.Operand)
		if err != nil {
			return "", err
		}
		val := b.newValue()
		b.emit(ir.NewCastInst(n.Span(), val, operand, n.Type()))
		return val, nil
	case *ast.BlockExpr:
		return b.lowerBlock(n)
	case *ast.IfExpr:
		return b.lowerIf(n)
	case *ast.MatchExpr:
		return b.lowerMatch(n)
	case *ast.SpawnExpr:
		if _, err := b.lowerExpr(n.Call); err != nil {
			return "", err
		}
		return "", nil
	case *ast.AwaitExpr:
		return b.lowerExpr(n.Operand)
	case *ast.UnsafeExpr:
		return b.lowerBlock(n.Block)
	}
	return "", ice.Newf("irgen", "unrecognized expression node %T", e)
}

func (b *builder) lowerLiteral(lit *ast.LiteralExpr) (ir.Value, error) {
	val := b.newValue()
	c := ir.NewConstInst(lit.Span(), val, lit.Type())
	switch lit.Kind {
	case ast.LitInt:
		c.IntVal = lit.IntVal
	case ast.LitFloat:
		c.FloatVal = lit.FloatVal
	case ast.LitString:
		c.StringVal = lit.StringVal
	case ast.LitChar:
		c.CharVal = lit.CharVal
	case ast.LitBool:
		c.BoolVal = lit.BoolVal
	}
	b.emit(c)
	return val, nil
}

func (b *builder) lowerCall(n *ast.CallExpr) (ir.Value, error) {
	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := b.lowerExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = v
	}
	result := b.newValue()
	if id, ok := n.Callee.(*ast.IdentExpr); ok {
		if _, isLocal := b.locals.lookup(id.Name); !isLocal {
			b.emit(ir.NewCallInst(n.Span(), result, id.Name, args, n.Type()))
			return result, nil
		}
	}
	calleeVal, err := b.lowerExpr(n.Callee)
	if err != nil {
		return "", err
	}
	b.emit(ir.NewIndirectCallInst(n.Span(), result, calleeVal, args, n.Type()))
	return result, nil
}

var unaryOpNames = map[ast.UnaryOp]string{
	ast.UnaryNeg: "neg", ast.UnaryNot: "not", ast.UnaryDeref: "deref",
}

func (b *builder) lowerUnary(n *ast.UnaryExpr) (ir.Value, error) {
	switch n.Op {
	case ast.UnaryAddr, ast.UnaryAddrMut:
		return b.lowerAddress(n.Operand)
	case ast.UnaryDeref:
		addr, err := b.lowerExpr(n.Operand)
		if err != nil {
			return "", err
		}
		val := b.newValue()
		b.emit(ir.NewLoadInst(n.Span(), val, addr, n.Type()))
		return val, nil
	default:
		operand, err := b.lowerExpr(n.Operand)
		if err != nil {
			return "", err
		}
		val := b.newValue()
		b.emit(ir.NewUnaryOpInst(n.Span(), val, unaryOpNames[n.Op], operand, n.Type()))
		return val, nil
	}
}

var binaryOpNames = map[ast.BinaryOp]string{
	ast.BinOr: "or", ast.BinAnd: "and",
	ast.BinEq: "eq", ast.BinNe: "ne", ast.BinLt: "lt", ast.BinLe: "le", ast.BinGt: "gt", ast.BinGe: "ge",
	ast.BinBitOr: "bitor", ast.BinBitXor: "bitxor", ast.BinBitAnd: "bitand",
	ast.BinShl: "shl", ast.BinShr: "shr",
	ast.BinAdd: "add", ast.BinSub: "sub", ast.BinMul: "mul", ast.BinDiv: "div", ast.BinMod: "mod",
}

// lowerBinary lowers `&&`/`||` to real control flow (spec.md §4.3
// "short-circuit evaluation") and every other binary operator to a plain
// BinOpInst.
func (b *builder) lowerBinary(n *ast.BinaryExpr) (ir.Value, error) {
	if n.Op == ast.BinAnd || n.Op == ast.BinOr {
		return b.lowerShortCircuit(n)
	}
	left, err := b.lowerExpr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := b.lowerExpr(n.Right)
	if err != nil {
		return "", err
	}
	val := b.newValue()
	b.emit(ir.NewBinOpInst(n.Span(), val, binaryOpNames[n.Op], left, right, n.Type()))
	return val, nil
}

func (b *builder) lowerShortCircuit(n *ast.BinaryExpr) (ir.Value, error) {
	left, err := b.lowerExpr(n.Left)
	if err != nil {
		return "", err
	}
	rhsLabel := b.reserveLabel("scrhs")
	joinLabel := b.reserveLabel("scjoin")
	if n.Op == ast.BinAnd {
		b.setTerm(ir.NewCondBrTerm(n.Span(), left, rhsLabel, joinLabel))
	} else {
		b.setTerm(ir.NewCondBrTerm(n.Span(), left, joinLabel, rhsLabel))
	}
	leftEndLabel := b.cur.Label

	b.startBlock(rhsLabel)
	right, err := b.lowerExpr(n.Right)
	if err != nil {
		return "", err
	}
	rhsEndLabel := b.cur.Label
	b.setTerm(ir.NewBrTerm(n.Span(), joinLabel))

	b.startBlock(joinLabel)
	result := b.newValue()
	b.emit(ir.NewPhiInst(n.Span(), result, n.Type(), []ir.PhiEdge{
		{Value: left, Block: leftEndLabel},
		{Value: right, Block: rhsEndLabel},
	}))
	return result, nil
}

// lowerIf lowers an if/else chain to a condbr, two arm blocks, and a join
// block, emitting a phi at the join only when the expression's type is not
// unit (spec.md §8 scenario 4).
func (b *builder) lowerIf(n *ast.IfExpr) (ir.Value, error) {
	cond, err := b.lowerExpr(n.Cond)
	if err != nil {
		return "", err
	}

	thenLabel := b.reserveLabel("then")
	joinLabel := b.reserveLabel("join")

	if n.Else == nil {
		b.setTerm(ir.NewCondBrTerm(n.Span(), cond, thenLabel, joinLabel))
		b.startBlock(thenLabel)
		if _, err := b.lowerBlock(n.Then); err != nil {
			return "", err
		}
		b.setTerm(ir.NewBrTerm(n.Span(), joinLabel))
		b.startBlock(joinLabel)
		return "", nil
	}

	elseLabel := b.reserveLabel("else")
	b.setTerm(ir.NewCondBrTerm(n.Span(), cond, thenLabel, elseLabel))

	b.startBlock(thenLabel)
	thenVal, err := b.lowerBlock(n.Then)
	if err != nil {
		return "", err
	}
	thenEndLabel := b.cur.Label
	b.setTerm(ir.NewBrTerm(n.Span(), joinLabel))

	b.startBlock(elseLabel)
	elseVal, err := b.lowerElse(n.Else)
	if err != nil {
		return "", err
	}
	elseEndLabel := b.cur.Label
	b.setTerm(ir.NewBrTerm(n.Span(), joinLabel))

	b.startBlock(joinLabel)
	if isUnitType(n.Type()) {
		return "", nil
	}
	result := b.newValue()
	b.emit(ir.NewPhiInst(n.Span(), result, n.Type(), []ir.PhiEdge{
		{Value: thenVal, Block: thenEndLabel},
		{Value: elseVal, Block: elseEndLabel},
	}))
	return result, nil
}

func (b *builder) lowerElse(els ast.Expr) (ir.Value, error) {
	switch n := els.(type) {
	case *ast.BlockExpr:
		return b.lowerBlock(n)
	case *ast.IfExpr:
		return b.lowerIf(n)
	}
	return b.lowerExpr(els)
}

// lowerMatch lowers a match expression as a sequential chain of
// pattern-test blocks, each branching to its arm body on success or falling
// through to the next arm's test (or the join block, for the final arm) —
// this (rather than a single SwitchTerm) is what lets a guarded arm's extra
// boolean condition compose uniformly with the variant/wildcard test
// (spec.md §4.3 "guard clauses").
func (b *builder) lowerMatch(n *ast.MatchExpr) (ir.Value, error) {
	scrutinee, err := b.lowerExpr(n.Scrutinee)
	if err != nil {
		return "", err
	}
	scrType := n.Scrutinee.Type()

	joinLabel := b.reserveLabel("matchjoin")
	unit := isUnitType(n.Type())
	var edges []ir.PhiEdge

	for i, arm := range n.Arms {
		armLabel := b.reserveLabel(fmt.Sprintf("arm%d", i))
		isLast := i == len(n.Arms)-1
		var nextLabel string
		if isLast {
			nextLabel = joinLabel
		} else {
			nextLabel = b.reserveLabel(fmt.Sprintf("test%d", i+1))
		}

		b.pushScope()
		matched, err := b.emitPatternTest(arm.Pattern, scrutinee, scrType)
		if err != nil {
			b.popScope()
			return "", err
		}
		if arm.Guard != nil {
			guardVal, err := b.lowerExpr(arm.Guard)
			if err != nil {
				b.popScope()
				return "", err
			}
			if matched == "" {
				matched = guardVal
			} else {
				combined := b.newValue()
				b.emit(ir.NewBinOpInst(arm.Span, combined, "and", matched, guardVal, b.boolType()))
				matched = combined
			}
		}

		if matched == "" {
			b.setTerm(ir.NewBrTerm(arm.Span, armLabel))
		} else {
			b.setTerm(ir.NewCondBrTerm(arm.Span, matched, armLabel, nextLabel))
		}

		b.startBlock(armLabel)
		armVal, err := b.lowerExpr(arm.Body)
		if err != nil {
			b.popScope()
			return "", err
		}
		b.popScope()
		armEndLabel := b.cur.Label
		b.setTerm(ir.NewBrTerm(arm.Span, joinLabel))
		if !unit {
			edges = append(edges, ir.PhiEdge{Value: armVal, Block: armEndLabel})
		}

		if !isLast {
			b.startBlock(nextLabel)
		}
	}

	b.startBlock(joinLabel)
	if unit {
		return "", nil
	}
	result := b.newValue()
	b.emit(ir.NewPhiInst(n.Span(), result, n.Type(), edges))
	return result, nil
}

// emitPatternTest emits the instructions testing whether scrutinee matches
// pat, binding any name the pattern introduces into the current (innermost)
// scope, and returns the bool Value to branch on — or the empty Value when
// the pattern always matches (identifier/wildcard), so the caller emits an
// unconditional branch instead of a pointless comparison.
func (b *builder) emitPatternTest(pat ast.Pattern, scrutinee ir.Value, scrType types.Type) (ir.Value, error) {
	switch p := pat.(type) {
	case *ast.VariantPattern:
		tag := b.newValue()
		b.emit(ir.NewTagInst(pat.Span(), tag, scrutinee))
		wantTag := b.newValue()
		c := ir.NewConstInst(pat.Span(), wantTag, *b.interner.Prim(types.String))
		c.StringVal = p.Variant
		b.emit(c)
		matched := b.newValue()
		b.emit(ir.NewBinOpInst(pat.Span(), matched, "eq", tag, wantTag, b.boolType()))

		if p.Binding != "" {
			var payloadT types.Type
			if scrType.Kind() == types.KindEnum {
				for _, v := range scrType.Variants() {
					if v.Name == p.Variant && v.Payload != nil {
						payloadT = *v.Payload
					}
				}
			}
			payload := b.newValue()
			b.emit(ir.NewPayloadInst(pat.Span(), payload, scrutinee, p.Variant, payloadT))
			slot := b.newValue()
			b.emit(ir.NewAllocInst(pat.Span(), slot, payloadT))
			b.emit(ir.NewStoreInst(pat.Span(), slot, payload))
			b.declareLocal(p.Binding, slot, payloadT)
		}
		return matched, nil
	case *ast.IdentPattern:
		slot := b.newValue()
		b.emit(ir.NewAllocInst(pat.Span(), slot, scrType))
		b.emit(ir.NewStoreInst(pat.Span(), slot, scrutinee))
		b.declareLocal(p.Name, slot, scrType)
		return "", nil
	case *ast.WildcardPattern:
		return "", nil
	}
	return "", ice.Newf("irgen", "unrecognized pattern node %T", pat)
}
