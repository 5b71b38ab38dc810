// Package cache memoizes pipeline.Compile by content hash: compiling the
// same source text twice is a cache hit, returning the diagnostics and
// lowered-IR listing computed the first time instead of re-running the
// lexer/parser/sema/irgen chain (SPEC_FULL.md §C "Incremental compilation
// cache"). It never changes what a compile reports — internal/pipeline
// remains the sole source of truth — it only short-circuits redundant work.
//
// Grounded on server/dao/sqlite's repository pattern (a struct wrapping a
// *sql.DB, one init() creating its table, wrapped driver errors), adapted
// from a multi-table game-save store to a single-table content-addressed
// cache. Entry encoding is grounded on internal/tunascript/ast.go's
// MarshalBinary/UnmarshalBinary convention (sequential length-prefixed
// primitive fields) and handed to the sqlite driver through
// github.com/dekarrin/rezi's EncBinary/DecBinary, the same pairing
// server/dao/sqlite uses to persist a *game.State blob.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dekarrin/rezi"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/pipeline"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("cache: not found")

// Key returns the cache key for a translation unit: the blake2b-256 hash of
// its (moduleName, text, defaultIntWidth) triple, so two identical sources
// analyzed under different default integer widths never collide; the other
// configuration fields (pointer width, endianness) are not part of the
// key — replacing the
// teacher's bcrypt (a deliberately slow, salted password hash with no
// analogue here) with blake2b, the fast member of the same
// golang.org/x/crypto family appropriate for a non-adversarial content key.
func Key(moduleName, text string, defaultIntWidth string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key length, and nil is always
		// valid per its own doc comment; a failure here is a linked-library
		// bug, not a runtime condition this package can recover from.
		panic(fmt.Sprintf("cache: blake2b.New256: %v", err))
	}
	h.Write([]byte(moduleName))
	h.Write([]byte{0})
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(defaultIntWidth))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Entry is one cached compile's persisted result: whether it succeeded, its
// diagnostics in their stable JSON form, and the finalized IR module's
// deterministic textual listing (ir.Module.String()) when Ok is true.
type Entry struct {
	Ok          bool
	Diagnostics []diag.JSON
	IRText      string
}

// EntryFromResult converts a pipeline.Result into its cacheable form.
func EntryFromResult(res *pipeline.Result) Entry {
	e := Entry{
		Ok:          res.Ok(),
		Diagnostics: diag.AllJSON(res.Diagnostics),
	}
	if res.Module != nil {
		e.IRText = res.Module.String()
	}
	return e
}

// Store is a content-hash-keyed cache of Entry values backed by a pure-Go
// sqlite file, so a repeated invocation of the pipeline (an editor
// re-compiling on every keystroke) can skip redoing work for unchanged
// source.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path. An empty path opens an
// in-memory database, useful for tests and for a one-shot devtool run with
// no on-disk persistence.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const stmt = `CREATE TABLE IF NOT EXISTS compile_cache (
		content_hash TEXT NOT NULL PRIMARY KEY,
		entry        BLOB NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached Entry for key, or ErrNotFound if no entry is
// stored.
func (s *Store) Get(ctx context.Context, key string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT entry FROM compile_cache WHERE content_hash = ?;`, key)
	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("reading cache entry %q: %w", key, err)
	}
	var e Entry
	if _, err := rezi.DecBinary(blob, &e); err != nil {
		return Entry{}, fmt.Errorf("decoding cache entry %q: %w", key, err)
	}
	return e, nil
}

// Put stores e under key, replacing any existing entry.
func (s *Store) Put(ctx context.Context, key string, e Entry) error {
	blob := rezi.EncBinary(&e)
	_, err := s.db.ExecContext(ctx, `INSERT INTO compile_cache (content_hash, entry) VALUES (?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET entry = excluded.entry;`, key, blob)
	if err != nil {
		return fmt.Errorf("writing cache entry %q: %w", key, err)
	}
	return nil
}

// Compile is pipeline.Compile with a cache in front of it: on a hit it
// returns the stored Entry without running any compiler phase; on a miss it
// runs opts through pipeline.Compile, stores the result, and returns the
// freshly computed Entry. The hit bool reports which path was taken.
func (s *Store) Compile(ctx context.Context, name, text string, opts pipeline.Options) (e Entry, hit bool, err error) {
	key := Key(opts.ModuleName, text, opts.Config.FillDefaults().DefaultIntWidth)
	if cached, getErr := s.Get(ctx, key); getErr == nil {
		return cached, true, nil
	} else if !errors.Is(getErr, ErrNotFound) {
		return Entry{}, false, getErr
	}

	res := pipeline.Compile(name, text, opts)
	e = EntryFromResult(res)
	if err := s.Put(ctx, key, e); err != nil {
		return e, false, err
	}
	return e, false, nil
}
