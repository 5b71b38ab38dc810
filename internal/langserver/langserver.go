// Package langserver is a small, read-only HTTP surface that publishes the
// stable diagnostic JSON format (spec.md §6 "Diagnostic format (stable)")
// for editor tooling, the way a language server's textDocument/
// publishDiagnostics notification does — spec.md §7 explicitly invites this:
// "downstream tools (editors, language servers) can reason about what did
// succeed". It is not "the driver" (spec.md §1 Non-goal): it never invokes a
// backend, only runs the pure pipeline and reports what it found.
//
// Grounded on server/server.go + server/token.go's chi-router-plus-JWT-
// bearer-middleware shape, trimmed from a full multi-entity game-session API
// down to a single POST /v1/compile route. The JWT here authenticates a
// caller as allowed to use the compile service at all; there being no user
// database in a compiler's domain, validation checks only that the token
// was signed with the server's own secret and has not expired, in place of
// the teacher's per-user password+logout-time signing key.
package langserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/asthra-lang/asthra-core/internal/cache"
	"github.com/asthra-lang/asthra-core/internal/diag"
	"github.com/asthra-lang/asthra-core/internal/pipeline"
)

// Server is the diagnostics-publication HTTP service. It is itself an
// http.Handler, so a caller mounts it under whatever path prefix it likes.
type Server struct {
	cache  *cache.Store
	secret []byte
	logger *log.Logger
	router chi.Router
}

// New builds a Server backed by store, authenticating requests against
// secret-signed bearer tokens. A nil logger discards log output, matching
// how the teacher's server/ package threads a single *log.Logger rather
// than writing to the global logger.
func New(store *cache.Store, secret []byte, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(discard{}, "", 0)
	}
	s := &Server{cache: store, secret: secret, logger: logger}

	r := chi.NewRouter()
	r.Use(s.authenticate)
	r.Post("/v1/compile", s.handleCompile)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// authKeyType is an unexported context key type, matching the teacher's
// AuthKey pattern of namespacing request-context values to this package.
type authKeyType int

const authSubjectKey authKeyType = 0

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := bearerToken(req)
		if err != nil {
			s.logger.Printf("auth rejected: %s", err)
			http.Error(w, "missing or malformed bearer token", http.StatusUnauthorized)
			return
		}
		subject, err := validateToken(tok, s.secret)
		if err != nil {
			s.logger.Printf("auth rejected: %s", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(req.Context(), authSubjectKey, subject)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func bearerToken(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func validateToken(tok string, secret []byte) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("asthra-langserver"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("token has no subject: %w", err)
	}
	return subject, nil
}

// IssueToken mints a bearer token bound to subject, signed with secret, for
// an operator to hand to an editor integration.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"iss": "asthra-langserver",
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// compileRequest is the JSON body of POST /v1/compile.
type compileRequest struct {
	ModuleName string `json:"module_name"`
	Text       string `json:"text"`
}

// compileResponse is the stable wire response: whether the compile reached
// IR generation cleanly, and every diagnostic collected along the way.
type compileResponse struct {
	Ok          bool        `json:"ok"`
	Diagnostics []diag.JSON `json:"diagnostics"`
}

func (s *Server) handleCompile(w http.ResponseWriter, req *http.Request) {
	var body compileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("malformed JSON body: %s", err), http.StatusBadRequest)
		return
	}
	name := body.ModuleName
	if name == "" {
		name = "main"
	}

	entry, _, err := s.cache.Compile(req.Context(), name, body.Text, pipeline.Options{ModuleName: name})
	if err != nil {
		s.logger.Printf("compile of %q failed: %s", name, err)
		http.Error(w, "an internal error occurred", http.StatusInternalServerError)
		return
	}

	resp := compileResponse{Ok: entry.Ok, Diagnostics: entry.Diagnostics}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("writing response for %q failed: %s", name, err)
	}
}
