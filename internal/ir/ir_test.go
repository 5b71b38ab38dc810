package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asthra-lang/asthra-core/internal/source"
	"github.com/asthra-lang/asthra-core/internal/types"
)

func source0() source.Span { return source.Span{} }

func TestVerifySSA_acceptsUniqueValues(t *testing.T) {
	assert := assert.New(t)
	in := types.NewInterner()
	i32 := *in.Prim(types.I32)

	entry := &Block{
		Label: "entry",
		Insts: []Instruction{
			NewConstInst(source0(), "v0", i32),
		},
		Term: NewRetTerm(source0(), "v0"),
	}
	fn := &Function{Name: "f", ReturnType: i32, Blocks: []*Block{entry}}
	assert.NoError(VerifySSA(fn))
}

func TestVerifySSA_rejectsRedefinition(t *testing.T) {
	assert := assert.New(t)
	in := types.NewInterner()
	i32 := *in.Prim(types.I32)

	entry := &Block{
		Label: "entry",
		Insts: []Instruction{
			NewConstInst(source0(), "v0", i32),
			NewConstInst(source0(), "v0", i32),
		},
		Term: NewRetTerm(source0(), "v0"),
	}
	fn := &Function{Name: "f", ReturnType: i32, Blocks: []*Block{entry}}
	assert.Error(VerifySSA(fn))
}

func TestFunction_Block_lookupByLabel(t *testing.T) {
	assert := assert.New(t)
	fn := &Function{Blocks: []*Block{
		{Label: "entry"},
		{Label: "then"},
	}}
	assert.NotNil(fn.Block("then"))
	assert.Nil(fn.Block("missing"))
}
