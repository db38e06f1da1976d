package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/IdGo/internal/middleware"
	"github.com/vaughan-dsouza/IdGo/internal/models"
	"github.com/vaughan-dsouza/IdGo/internal/password"
	"github.com/vaughan-dsouza/IdGo/internal/store"
	"github.com/vaughan-dsouza/IdGo/internal/token"
)

// testEnv wires the handlers behind the same routes and middleware as the
// real server, backed by the in-memory store.
type testEnv struct {
	store  *store.Memory
	hasher *password.Hasher
	tokens *token.Manager
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemory()
	hasher := password.NewHasher(4)
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewHandler(st, hasher, tokens, log)

	r := chi.NewRouter()
	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		r.Put("/{id}", h.Users.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/metrics", h.Users.Metrics)
			r.Get("/{id}", h.Users.Get)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	return &testEnv{store: st, hasher: hasher, tokens: tokens, router: r}
}

// do sends a JSON request through the router; an empty bearer skips the header.
func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// seed inserts a user directly through the store.
func (e *testEnv) seed(t *testing.T, name, email, pw string, role models.Role) *models.User {
	t.Helper()

	hash, err := e.hasher.Hash(pw)
	require.NoError(t, err)

	u, err := e.store.Create(context.Background(), &models.User{
		Name: name, Email: email, PasswordHash: hash, Role: role,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()

	signed, _, err := e.tokens.Generate(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return signed
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}
