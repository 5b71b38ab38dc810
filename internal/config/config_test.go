package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthra-core/internal/types"
)

func TestLoad_missingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "asthra.toml"))
	require.NoError(t, err)
	assert.Equal(t, PointerWidth64, cfg.PointerWidth)
	assert.Equal(t, LittleEndian, cfg.Endianness)
	assert.Equal(t, "i32", cfg.DefaultIntWidth)
	assert.Equal(t, types.I32, cfg.Primitive())
}

func TestLoad_emptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, PointerWidth64, cfg.PointerWidth)
}

func TestLoad_decodesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_int_width = "i64"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "i64", cfg.DefaultIntWidth)
	assert.Equal(t, types.I64, cfg.Primitive())
	// Unset fields still fall back to defaults.
	assert.Equal(t, PointerWidth64, cfg.PointerWidth)
	assert.Equal(t, LittleEndian, cfg.Endianness)
}

func TestLoad_decodesFullOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
pointer_width = 32
endianness = "big"
default_int_width = "u8"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PointerWidth32, cfg.PointerWidth)
	assert.Equal(t, BigEndian, cfg.Endianness)
	assert.Equal(t, types.U8, cfg.Primitive())
}

func TestLoad_rejectsUnknownIntWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_int_width = "f64"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_rejectsBadPointerWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`pointer_width = 16`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_rejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asthra.toml")
	require.NoError(t, os.WriteFile(path, []byte(`not = [valid`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFillDefaults_doesNotOverrideSetFields(t *testing.T) {
	cfg := CompilerConfig{PointerWidth: PointerWidth32}.FillDefaults()
	assert.Equal(t, PointerWidth32, cfg.PointerWidth)
	assert.Equal(t, LittleEndian, cfg.Endianness)
}
