package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/IdGo/internal/models"
	"github.com/vaughan-dsouza/IdGo/internal/password"
)

func registerBody(name, email, pw, role string) map[string]string {
	return map[string]string{"name": name, "email": email, "password": pw, "role": role}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", "",
		registerBody("Ada Lovelace", "ada@example.com", "analytical1", "User"))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.NotZero(t, body["id"])
	assert.Equal(t, "Ada Lovelace", body["name"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "User", body["role"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	// The stored secret is a digest, never the plaintext.
	stored, err := env.store.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "analytical1", stored.PasswordHash)
	assert.True(t, password.Verify("analytical1", stored.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", "",
		registerBody("Ada Lovelace", "ada@example.com", "analytical1", "User"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/register", "",
		registerBody("Ada Again", "ada@example.com", "analytical2", "Admin"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", decodeBody(t, rec)["error"])
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    map[string]string
		wantErr string
	}{
		{"short name", registerBody("A", "ada@example.com", "analytical1", "User"), "name must be at least 2 characters"},
		{"missing name", registerBody("", "ada@example.com", "analytical1", "User"), "name must be at least 2 characters"},
		{"bad email", registerBody("Ada Lovelace", "not-an-email", "analytical1", "User"), "invalid email address"},
		{"short password", registerBody("Ada Lovelace", "ada@example.com", "short", "User"), "password must be at least 8 characters"},
		{"unknown role", registerBody("Ada Lovelace", "ada@example.com", "analytical1", "Superuser"), "invalid role"},
		{"missing role", registerBody("Ada Lovelace", "ada@example.com", "analytical1", ""), "invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, decodeBody(t, rec)["error"])
		})
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.seed(t, "Ada Lovelace", "ada@example.com", "analytical1", models.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/login", "",
		map[string]string{"email": "ada@example.com", "password": "analytical1"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Contains(t, body, "token")
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, user, "password_hash")

	// The minted token decodes back to the same subject and role.
	claims, err := env.tokens.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.SubjectInt())
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seed(t, "Ada Lovelace", "ada@example.com", "analytical1", models.RoleUser)

	rec := env.do(t, http.MethodPost, "/login", "",
		map[string]string{"email": "ada@example.com", "password": "analytical2"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// Unknown email answers exactly like a wrong password.
	rec := env.do(t, http.MethodPost, "/login", "",
		map[string]string{"email": "nobody@example.com", "password": "analytical1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])
}

func TestLogin_InvalidInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/login", "",
		map[string]string{"email": "not-an-email", "password": "analytical1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", "",
		map[string]string{"email": "ada@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
