package langserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asthra-lang/asthra-core/internal/cache"
)

func newTestServer(t *testing.T) (*Server, []byte) {
	t.Helper()
	store, err := cache.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	secret := []byte("test-secret")
	return New(store, secret, nil), secret
}

func doCompile(t *testing.T, s *Server, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/compile", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHandleCompile_rejectsMissingToken(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doCompile(t, s, "", `{"text":"package main; pub fn f() -> i32 { return 1; }"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCompile_rejectsWrongSecret(t *testing.T) {
	s, _ := newTestServer(t)
	tok, err := IssueToken([]byte("wrong-secret"), "editor", time.Hour)
	require.NoError(t, err)
	rec := doCompile(t, s, tok, `{"text":"package main; pub fn f() -> i32 { return 1; }"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCompile_validTokenCompilesSuccessfully(t *testing.T) {
	s, secret := newTestServer(t)
	tok, err := IssueToken(secret, "editor", time.Hour)
	require.NoError(t, err)

	rec := doCompile(t, s, tok, `{"module_name":"main","text":"package main; pub fn answer() -> i32 { return 42; }"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.Empty(t, resp.Diagnostics)
}

func TestHandleCompile_invalidSourceReturnsDiagnostics(t *testing.T) {
	s, secret := newTestServer(t)
	tok, err := IssueToken(secret, "editor", time.Hour)
	require.NoError(t, err)

	rec := doCompile(t, s, tok, `{"text":"package main; pub fn f() -> i32 { return \"nope\"; }"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Ok)
	assert.NotEmpty(t, resp.Diagnostics)
}

func TestHandleCompile_rejectsMalformedBody(t *testing.T) {
	s, secret := newTestServer(t)
	tok, err := IssueToken(secret, "editor", time.Hour)
	require.NoError(t, err)

	rec := doCompile(t, s, tok, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
