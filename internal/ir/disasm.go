package ir

import (
	"fmt"
	"strings"
)

// String renders mod as a deterministic, human-readable textual listing: the
// same module lowered twice from identical source produces byte-identical
// output (spec.md §8 "Determinism"), which is what makes this safe for a
// golden-output test and for internal/cache's persisted artifact alike.
func (mod *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", mod.Name)
	for _, fn := range mod.Functions {
		fn.writeTo(&sb)
	}
	return sb.String()
}

func (fn *Function) writeTo(sb *strings.Builder) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type.String())
	}
	if fn.Extern {
		fmt.Fprintf(sb, "extern %q fn %s(%s) -> %s\n", fn.ABI, fn.Name, strings.Join(params, ", "), fn.ReturnType.String())
		return
	}
	fmt.Fprintf(sb, "fn %s(%s) -> %s {\n", fn.Name, strings.Join(params, ", "), fn.ReturnType.String())
	for _, blk := range fn.Blocks {
		blk.writeTo(sb)
	}
	sb.WriteString("}\n")
}

func (b *Block) writeTo(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s:\n", b.Label)
	for _, inst := range b.Insts {
		fmt.Fprintf(sb, "  %s\n", instString(inst))
	}
	if b.Term != nil {
		fmt.Fprintf(sb, "  %s\n", termString(b.Term))
	}
}

func instString(inst Instruction) string {
	res := inst.Result()
	prefix := ""
	if res != "" {
		prefix = string(res) + " = "
	}
	switch n := inst.(type) {
	case *ConstInst:
		return fmt.Sprintf("%sconst %s %v", prefix, n.Type.String(), constLiteral(n))
	case *ParamInst:
		return fmt.Sprintf("%sparam %d %s", prefix, n.Index, n.Type.String())
	case *BinOpInst:
		return fmt.Sprintf("%s%s %s, %s", prefix, n.Op, n.Left, n.Right)
	case *UnaryOpInst:
		return fmt.Sprintf("%s%s %s", prefix, n.Op, n.Operand)
	case *AllocInst:
		return fmt.Sprintf("%salloc %s", prefix, n.ElemType.String())
	case *LoadInst:
		return fmt.Sprintf("%sload %s", prefix, n.Addr)
	case *StoreInst:
		return fmt.Sprintf("store %s, %s", n.Addr, n.Value)
	case *FieldInst:
		return fmt.Sprintf("%sfield %s.%s", prefix, n.Base, n.Field)
	case *IndexInst:
		return fmt.Sprintf("%sindex %s[%s]", prefix, n.Base, n.Index)
	case *LenInst:
		return fmt.Sprintf("%slen %s", prefix, n.Base)
	case *BoundsCheckInst:
		return fmt.Sprintf("boundscheck %s, %s", n.Index, n.Len)
	case *CastInst:
		return fmt.Sprintf("%scast %s as %s", prefix, n.Operand, n.Type.String())
	case *CallInst:
		callee := n.Callee
		if callee == "" {
			callee = string(n.Indirect)
		}
		return fmt.Sprintf("%scall %s(%s)", prefix, callee, joinValues(n.Args))
	case *PhiInst:
		edges := make([]string, len(n.Incoming))
		for i, e := range n.Incoming {
			edges[i] = fmt.Sprintf("[%s, %s]", e.Value, e.Block)
		}
		return fmt.Sprintf("%sphi %s", prefix, strings.Join(edges, ", "))
	case *TagInst:
		return fmt.Sprintf("%stag %s", prefix, n.Base)
	case *PayloadInst:
		return fmt.Sprintf("%spayload %s as %s", prefix, n.Base, n.Variant)
	default:
		return fmt.Sprintf("%s<unknown instruction>", prefix)
	}
}

func constLiteral(n *ConstInst) interface{} {
	switch n.Type.String() {
	case "bool":
		return n.BoolVal
	case "string":
		return n.StringVal
	case "char":
		return n.CharVal
	case "f32", "f64":
		return n.FloatVal
	default:
		return n.IntVal
	}
}

func termString(t Terminator) string {
	switch n := t.(type) {
	case *RetTerm:
		return fmt.Sprintf("ret %s", n.Value)
	case *BrTerm:
		return fmt.Sprintf("br %s", n.Target)
	case *CondBrTerm:
		return fmt.Sprintf("condbr %s, %s, %s", n.Cond, n.Then, n.Else)
	case *SwitchTerm:
		cases := make([]string, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = fmt.Sprintf("%s -> %s", c.Tag, c.Target)
		}
		return fmt.Sprintf("switch %s [%s] default %s", n.Scrutinee, strings.Join(cases, ", "), n.Default)
	case *UnreachableTerm:
		return "unreachable"
	default:
		return "<unknown terminator>"
	}
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
