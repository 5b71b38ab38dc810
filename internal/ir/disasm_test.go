package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

func TestModuleString_isDeterministic(t *testing.T) {
	in := types.NewInterner()
	i32 := *in.Prim(types.I32)

	build := func() *Module {
		fn := &Function{
			Name:       "f",
			ReturnType: i32,
			Blocks: []*Block{{
				Label: "entry",
				Insts: []Instruction{
					func() Instruction { c := NewConstInst(source.Span{}, "v0", i32); c.IntVal = 7; return c }(),
				},
				Term: NewRetTerm(source.Span{}, "v0"),
			}},
		}
		return &Module{Name: "m", Functions: []*Function{fn}}
	}

	a := build().String()
	b := build().String()
	assert.Equal(t, a, b)
	assert.Contains(t, a, "const i32 7")
	assert.Contains(t, a, "ret v0")
}
