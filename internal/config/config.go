// Package config decodes the compiler's optional TOML project file into a
// CompilerConfig, giving a deployment a way to choose the two values spec.md
// §9 leaves as Open Questions — default integer literal width and the
// target's pointer width/endianness — rather than hard-coding them
// (SPEC_FULL.md §A "Configuration").
//
// Grounded on internal/tqw/marshaling.go's decode-then-validate shape (read
// the file, toml-unmarshal into a typed struct, check header fields),
// generalized from TunaQuest's world-file header check to a flat project
// config with its own defaulting rules (compare server/config.go's
// FillDefaults/Validate pair, which this package's FillDefaults/Validate
// also mirror).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/asthra-lang/asthra-core/internal/types"
)

// PointerWidth is the target's native pointer width in bits.
type PointerWidth int

const (
	PointerWidth32 PointerWidth = 32
	PointerWidth64 PointerWidth = 64
)

// Endianness is the target's byte order. It is decoded and validated, but
// neither the core pipeline (spec.md §5 purity) nor internal/cache's
// content-hash key derivation reads it.
type Endianness string

const (
	LittleEndian Endianness = "little"
	BigEndian    Endianness = "big"
)

// CompilerConfig is the decoded shape of an optional asthra.toml. Every field
// has a zero value that FillDefaults replaces with spec.md's stated default.
type CompilerConfig struct {
	// PointerWidth is the target's pointer width in bits; 32 or 64.
	PointerWidth PointerWidth `toml:"pointer_width"`

	// Endianness is the target's byte order.
	Endianness Endianness `toml:"endianness"`

	// DefaultIntWidth is the primitive an un-suffixed integer literal
	// resolves to (spec.md §9 Open Question, §4.3 literal typing), given as
	// its Asthra spelling ("i32", "i64", ...).
	DefaultIntWidth string `toml:"default_int_width"`
}

// Load reads and decodes path as a CompilerConfig, then fills in defaults and
// validates the result. A missing file is not an error — Load returns
// DefaultConfig().FillDefaults(), mirroring how a TunaQuest world file's absence
// of optional sections falls back silently to zero values.
func Load(path string) (CompilerConfig, error) {
	if path == "" {
		return DefaultConfig().FillDefaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig().FillDefaults(), nil
		}
		return CompilerConfig{}, fmt.Errorf("%q: reading config: %w", path, err)
	}

	var cfg CompilerConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return CompilerConfig{}, fmt.Errorf("%q: decoding config: %w", path, err)
	}
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return CompilerConfig{}, fmt.Errorf("%q: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig is the zero-value starting point FillDefaults fills in.
func DefaultConfig() CompilerConfig {
	return CompilerConfig{}
}

// FillDefaults returns a copy of cfg with every unset field replaced by
// spec.md's stated default: 64-bit little-endian target, i32 literal width
// (DESIGN.md Open Question decision #2).
func (cfg CompilerConfig) FillDefaults() CompilerConfig {
	out := cfg
	if out.PointerWidth == 0 {
		out.PointerWidth = PointerWidth64
	}
	if out.Endianness == "" {
		out.Endianness = LittleEndian
	}
	if out.DefaultIntWidth == "" {
		out.DefaultIntWidth = "i32"
	}
	return out
}

// Validate returns an error if cfg has a field set to a value the compiler
// cannot act on. Call it only after FillDefaults; an unset field is always
// invalid here since Validate does not itself apply defaults.
func (cfg CompilerConfig) Validate() error {
	if cfg.PointerWidth != PointerWidth32 && cfg.PointerWidth != PointerWidth64 {
		return fmt.Errorf("pointer_width: must be 32 or 64, found %d", cfg.PointerWidth)
	}
	if cfg.Endianness != LittleEndian && cfg.Endianness != BigEndian {
		return fmt.Errorf("endianness: must be %q or %q, found %q", LittleEndian, BigEndian, cfg.Endianness)
	}
	if _, ok := intWidthPrimitives[cfg.DefaultIntWidth]; !ok {
		return fmt.Errorf("default_int_width: must be an integer primitive (i8, i16, i32, i64, u8, u16, u32, u64), found %q", cfg.DefaultIntWidth)
	}
	return nil
}

var intWidthPrimitives = map[string]types.Primitive{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
}

// Primitive resolves cfg.DefaultIntWidth to the internal/types.Primitive
// internal/sema.Options.DefaultIntWidth expects. Call only after Validate
// has confirmed DefaultIntWidth names a real integer primitive.
func (cfg CompilerConfig) Primitive() types.Primitive {
	return intWidthPrimitives[cfg.DefaultIntWidth]
}
