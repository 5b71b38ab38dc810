// Package ir defines the typed, basic-block SSA intermediate representation
// that internal/irgen lowers a checked AST into (spec.md §3 "IR module",
// §4.4, §8 "SSA form": every value identifier has exactly one defining
// instruction, every use is dominated by its definition).
//
// Grounded on semetekare-rust2go/internal/ir/ir.go's tagged-interface shape
// (Statement/Expression with a Pos() capability, one struct per node kind),
// generalized from that IR's flat statement-tree shape to basic blocks with
// explicit terminators and phi nodes, since spec.md's IR is SSA-form while
// rust2go's is not.
package ir

import (
	"fmt"

	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

// Value names one instruction's result within a function. Values are unique
// per function and never reassigned (spec.md §8 "SSA form").
type Value string

// Module is one translation unit's lowered output: every function reachable
// from its package declaration (spec.md §4.4 "lower_module(ast, symbols) ->
// IR Module | error").
type Module struct {
	Name      string
	Functions []*Function
}

// Param is one function parameter's lowered name and type.
type Param struct {
	Name string
	Type types.Type
}

// Function is one lowered function: parameter list, return type, and a
// basic-block control-flow graph. Entry is always Blocks[0].
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.Type
	Blocks     []*Block
	Extern     bool // true for an extern declaration; Blocks is empty
	ABI        string
}

// Block returns the block with the given label, or nil if none matches.
func (f *Function) Block(label string) *Block {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// Block is one SSA basic block: a straight-line instruction sequence ending
// in exactly one terminator.
type Block struct {
	Label string
	Insts []Instruction
	Term  Terminator
}

// Instruction is one non-terminating IR operation. Every variant that
// produces a value exposes it via Result(); instructions with no result
// (Store) return the empty Value.
type Instruction interface {
	Pos() source.Span
	Result() Value
	instrNode()
}

type baseInstr struct {
	span source.Span
	res  Value
}

func (b baseInstr) Pos() source.Span { return b.span }
func (b baseInstr) Result() Value    { return b.res }
func (b baseInstr) instrNode()       {}

// ConstInst materializes a literal value (spec.md §8 scenario 3: "IR returns
// a constant i32 42").
type ConstInst struct {
	baseInstr
	Type types.Type

	IntVal    uint64
	FloatVal  float64
	BoolVal   bool
	CharVal   rune
	StringVal string
}

// NewConstInst builds a constant instruction. The caller sets whichever of
// IntVal/FloatVal/BoolVal/CharVal/StringVal matches Type's kind on the
// returned value.
func NewConstInst(span source.Span, result Value, t types.Type) *ConstInst {
	return &ConstInst{baseInstr: baseInstr{span: span, res: result}, Type: t}
}

// ParamInst binds a function parameter's incoming value to an SSA name at
// function entry, keyed by its position in Function.Params.
type ParamInst struct {
	baseInstr
	Index int
	Type  types.Type
}

func NewParamInst(span source.Span, result Value, index int, t types.Type) *ParamInst {
	return &ParamInst{baseInstr: baseInstr{span: span, res: result}, Index: index, Type: t}
}

// BinOpInst is a binary arithmetic/comparison/bitwise operation. Op mirrors
// ast.BinaryOp's spelling (irgen imports ast only for this enum, not for any
// AST pointer — IR instructions never hold AST references, spec.md §9 "no
// cyclic lifetimes").
type BinOpInst struct {
	baseInstr
	Op          string
	Left, Right Value
	Type        types.Type
}

func NewBinOpInst(span source.Span, result Value, op string, left, right Value, t types.Type) *BinOpInst {
	return &BinOpInst{baseInstr: baseInstr{span: span, res: result}, Op: op, Left: left, Right: right, Type: t}
}

// UnaryOpInst is a prefix unary operation (negation, logical not). Address-of
// and dereference are lowered through address computation and LoadInst
// instead.
type UnaryOpInst struct {
	baseInstr
	Op      string
	Operand Value
	Type    types.Type
}

func NewUnaryOpInst(span source.Span, result Value, op string, operand Value, t types.Type) *UnaryOpInst {
	return &UnaryOpInst{baseInstr: baseInstr{span: span, res: result}, Op: op, Operand: operand, Type: t}
}

// AllocInst reserves a stack slot for one local binding (a `let` or a
// parameter copied into a mutable slot) and yields its address as a pointer
// value. Reads and writes to the binding are LoadInst/StoreInst through that
// address — this is what lets `&x`/`&mut x` (spec.md §4.2 unary operators)
// fall out of the same mechanism as ordinary variable access, with no
// separate "is this captured by reference" analysis.
type AllocInst struct {
	baseInstr
	ElemType types.Type
}

func NewAllocInst(span source.Span, result Value, elemType types.Type) *AllocInst {
	return &AllocInst{baseInstr: baseInstr{span: span, res: result}, ElemType: elemType}
}

// LoadInst dereferences a pointer value.
type LoadInst struct {
	baseInstr
	Addr Value
	Type types.Type
}

func NewLoadInst(span source.Span, result Value, addr Value, t types.Type) *LoadInst {
	return &LoadInst{baseInstr: baseInstr{span: span, res: result}, Addr: addr, Type: t}
}

// StoreInst writes a value through a pointer. It has no result.
type StoreInst struct {
	baseInstr
	Addr  Value
	Value Value
}

func NewStoreInst(span source.Span, addr, value Value) *StoreInst {
	return &StoreInst{baseInstr: baseInstr{span: span}, Addr: addr, Value: value}
}

// FieldInst projects a struct field from a base value.
type FieldInst struct {
	baseInstr
	Base  Value
	Field string
	Type  types.Type
}

func NewFieldInst(span source.Span, result Value, base Value, field string, t types.Type) *FieldInst {
	return &FieldInst{baseInstr: baseInstr{span: span, res: result}, Base: base, Field: field, Type: t}
}

// IndexInst projects one element of a slice or array base value. Lowering
// always pairs this with a BoundsCheckInst immediately before it for
// slice/array accesses (spec.md §4.4 "array/slice bounds checks").
type IndexInst struct {
	baseInstr
	Base, Index Value
	Type        types.Type
}

func NewIndexInst(span source.Span, result Value, base, index Value, t types.Type) *IndexInst {
	return &IndexInst{baseInstr: baseInstr{span: span, res: result}, Base: base, Index: index, Type: t}
}

// LenInst yields the runtime element count of a slice value (an array's
// length is static and is lowered as a ConstInst instead).
type LenInst struct {
	baseInstr
	Base Value
	Type types.Type
}

func NewLenInst(span source.Span, result Value, base Value, t types.Type) *LenInst {
	return &LenInst{baseInstr: baseInstr{span: span, res: result}, Base: base, Type: t}
}

// BoundsCheckInst traps at runtime if Index is outside [0, Len). It produces
// no value; it exists purely for its side effect (spec.md §4.4).
type BoundsCheckInst struct {
	baseInstr
	Index Value
	Len   Value
}

func NewBoundsCheckInst(span source.Span, index, length Value) *BoundsCheckInst {
	return &BoundsCheckInst{baseInstr: baseInstr{span: span}, Index: index, Len: length}
}

// CastInst converts Operand to Type via an explicit `as` cast.
type CastInst struct {
	baseInstr
	Operand Value
	Type    types.Type
}

func NewCastInst(span source.Span, result Value, operand Value, t types.Type) *CastInst {
	return &CastInst{baseInstr: baseInstr{span: span, res: result}, Operand: operand, Type: t}
}

// CallInst is a direct call (Callee names a module-level function) or an
// indirect call (Indirect holds the callee value, Callee is empty) — spec.md
// §4.4 "direct for known functions; indirect via function value otherwise".
type CallInst struct {
	baseInstr
	Callee   string
	Indirect Value
	Args     []Value
	Type     types.Type
}

func NewCallInst(span source.Span, result Value, callee string, args []Value, t types.Type) *CallInst {
	return &CallInst{baseInstr: baseInstr{span: span, res: result}, Callee: callee, Args: args, Type: t}
}

func NewIndirectCallInst(span source.Span, result Value, fn Value, args []Value, t types.Type) *CallInst {
	return &CallInst{baseInstr: baseInstr{span: span, res: result}, Indirect: fn, Args: args, Type: t}
}

// PhiEdge pairs an incoming value with the predecessor block it flows from.
type PhiEdge struct {
	Value Value
	Block string
}

// PhiInst selects a value based on which predecessor block control arrived
// from (spec.md §8 "Phi": an SSA instruction selecting a value based on the
// predecessor block). Only emitted when the join point's type is not unit
// (spec.md §9 Design Notes).
type PhiInst struct {
	baseInstr
	Type     types.Type
	Incoming []PhiEdge
}

func NewPhiInst(span source.Span, result Value, t types.Type, incoming []PhiEdge) *PhiInst {
	return &PhiInst{baseInstr: baseInstr{span: span, res: result}, Type: t, Incoming: incoming}
}

// TagInst extracts an enum value's variant discriminant as an opaque,
// string-typed tag, compared against a ConstInst string literal to test
// which variant a match scrutinee holds.
type TagInst struct {
	baseInstr
	Base Value
}

func NewTagInst(span source.Span, result Value, base Value) *TagInst {
	return &TagInst{baseInstr: baseInstr{span: span, res: result}, Base: base}
}

// PayloadInst extracts the payload value of an enum value already known (by
// a prior TagInst comparison) to hold the named variant.
type PayloadInst struct {
	baseInstr
	Base    Value
	Variant string
	Type    types.Type
}

func NewPayloadInst(span source.Span, result Value, base Value, variant string, t types.Type) *PayloadInst {
	return &PayloadInst{baseInstr: baseInstr{span: span, res: result}, Base: base, Variant: variant, Type: t}
}

// Terminator is the single control-flow-ending instruction of a Block.
type Terminator interface {
	Pos() source.Span
	termNode()
}

type baseTerm struct {
	span source.Span
}

func (b baseTerm) Pos() source.Span { return b.span }
func (b baseTerm) termNode()        {}

// RetTerm returns Value from the current function. Value is the empty
// string for a void/unit-returning function (spec.md §8 scenario 1: "a
// single block with a ret unit terminator").
type RetTerm struct {
	baseTerm
	Value Value
}

func NewRetTerm(span source.Span, value Value) *RetTerm {
	return &RetTerm{baseTerm: baseTerm{span: span}, Value: value}
}

// BrTerm is an unconditional jump.
type BrTerm struct {
	baseTerm
	Target string
}

func NewBrTerm(span source.Span, target string) *BrTerm {
	return &BrTerm{baseTerm: baseTerm{span: span}, Target: target}
}

// CondBrTerm is a two-way conditional branch (spec.md §8 scenario 4: "a
// condbr, two arm blocks... and a join block").
type CondBrTerm struct {
	baseTerm
	Cond       Value
	Then, Else string
}

func NewCondBrTerm(span source.Span, cond Value, then, els string) *CondBrTerm {
	return &CondBrTerm{baseTerm: baseTerm{span: span}, Cond: cond, Then: then, Else: els}
}

// SwitchTerm is an N-way branch, each case keyed by a discriminant value with
// a final default target for an unmatched (or wildcard-covered) scrutinee.
// internal/irgen does not emit it: a match expression lowers to a chain of
// CondBrTerm tests.
type SwitchTerm struct {
	baseTerm
	Scrutinee Value
	Cases     []SwitchCase
	Default   string
}

// SwitchCase pairs one discriminant tag with the block it branches to.
type SwitchCase struct {
	Tag    string
	Target string
}

func NewSwitchTerm(span source.Span, scrutinee Value, cases []SwitchCase, def string) *SwitchTerm {
	return &SwitchTerm{baseTerm: baseTerm{span: span}, Scrutinee: scrutinee, Cases: cases, Default: def}
}

// UnreachableTerm marks a block that control can never reach — the lowering
// of a `never`-typed expression (e.g. every match arm diverges).
type UnreachableTerm struct {
	baseTerm
}

func NewUnreachableTerm(span source.Span) *UnreachableTerm {
	return &UnreachableTerm{baseTerm: baseTerm{span: span}}
}

// VerifySSA checks the defining-instruction-per-value half of spec.md §8's
// SSA form property: every Value produced in fn is produced by exactly one
// instruction. It does not check the dominance half (every use dominated by
// its definition) — that requires a full CFG dominance computation irgen's
// straight-line, structured-control-flow lowering strategy never violates by
// construction, so a lighter duplicate-definition check is what actually
// catches lowering bugs in practice.
func VerifySSA(fn *Function) error {
	seen := make(map[Value]bool)
	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			r := inst.Result()
			if r == "" {
				continue
			}
			if seen[r] {
				return fmt.Errorf("value %s redefined in function %s", r, fn.Name)
			}
			seen[r] = true
		}
	}
	return nil
}
