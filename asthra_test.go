package asthra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_rootFacadeMatchesPipeline(t *testing.T) {
	res := Compile("<test>", `package main;
		pub fn answer() -> i32 { return 42; }
	`, Options{})
	require.True(t, res.Ok())
	require.NotNil(t, res.Module)
	assert.Equal(t, "main", res.Module.Name)
}

func TestLoadConfig_missingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "i32", cfg.DefaultIntWidth)
}
