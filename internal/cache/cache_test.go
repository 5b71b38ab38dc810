package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/pipeline"
)

func TestKey_stableForIdenticalInput(t *testing.T) {
	a := Key("main", "pub fn f() -> i32 { return 1; }", "i32")
	b := Key("main", "pub fn f() -> i32 { return 1; }", "i32")
	assert.Equal(t, a, b)
}

func TestKey_differsOnText(t *testing.T) {
	a := Key("main", "pub fn f() -> i32 { return 1; }", "i32")
	b := Key("main", "pub fn f() -> i32 { return 2; }", "i32")
	assert.NotEqual(t, a, b)
}

func TestEntry_marshalRoundTrips(t *testing.T) {
	e := Entry{
		Ok: true,
		Diagnostics: []diag.JSON{
			{Severity: "error", Code: "E0300", File: "<test>", Line: 1, Col: 2, Length: 3, Message: "bad", Notes: []string{"n1", "n2"}},
		},
		IRText: "module m\n",
	}
	data, err := e.MarshalBinary()
	require.NoError(t, err)

	var out Entry
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, e, out)
}

func TestEntry_marshalRoundTripsEmpty(t *testing.T) {
	e := Entry{Ok: false}
	data, err := e.MarshalBinary()
	require.NoError(t, err)

	var out Entry
	require.NoError(t, out.UnmarshalBinary(data))
	assert.Equal(t, false, out.Ok)
	assert.Empty(t, out.Diagnostics)
}

func TestStore_putThenGet(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	e := Entry{Ok: true, IRText: "module m\n"}
	require.NoError(t, s.Put(ctx, "k1", e))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestStore_getMissingReturnsErrNotFound(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_compileCachesSecondCallAsHit(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	src := `package main; pub fn answer() -> i32 { return 42; }`

	first, hit, err := s.Compile(ctx, "<test>", src, pipeline.Options{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, first.Ok)

	second, hit, err := s.Compile(ctx, "<test>", src, pipeline.Options{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
}
