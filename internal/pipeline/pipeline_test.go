package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthra-core/internal/diag"
)

func TestCompile_validProgramProducesModule(t *testing.T) {
	res := Compile("<test>", `package main;
		pub fn answer() -> i32 { return 42; }
	`, Options{})
	require.True(t, res.Ok())
	require.NotNil(t, res.Module)
	assert.Empty(t, res.Diagnostics.All())
	var found bool
	for _, fn := range res.Module.Functions {
		if fn.Name == "answer" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompile_lexErrorStopsBeforeSema(t *testing.T) {
	res := Compile("<test>", "package main; pub fn f() -> i32 { return `unterminated; }", Options{})
	assert.False(t, res.Ok())
	assert.Nil(t, res.Module)
}

func TestCompile_semaErrorStopsBeforeIrgen(t *testing.T) {
	res := Compile("<test>", `package main;
		pub fn f() -> i32 { return "not an int"; }
	`, Options{})
	assert.False(t, res.Ok())
	assert.Nil(t, res.Module)
	var sawTypeMismatch bool
	for _, d := range res.Diagnostics.All() {
		if d.Code == diag.CodeTypeMismatch {
			sawTypeMismatch = true
		}
	}
	assert.True(t, sawTypeMismatch)
}

func TestCompile_defaultsModuleNameAndIntWidth(t *testing.T) {
	res := Compile("<test>", `package main;
		pub fn f() -> i32 { return 1; }
	`, Options{})
	require.True(t, res.Ok())
	assert.Equal(t, "main", res.Module.Name)
}

func TestCompile_resultIsDeterministic(t *testing.T) {
	src := `package main;
		pub fn f(a: i32, b: i32) -> i32 { return a + b; }
	`
	a := Compile("<test>", src, Options{})
	b := Compile("<test>", src, Options{})
	require.True(t, a.Ok())
	require.True(t, b.Ok())
	assert.Equal(t, len(a.Module.Functions), len(b.Module.Functions))
	assert.Equal(t, a.Module.Functions[0].Name, b.Module.Functions[0].Name)
	assert.Equal(t, a.Module.String(), b.Module.String())
}
