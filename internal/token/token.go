// Package token mints and verifies the HS256 bearer tokens issued on login.
// The signing secret and validity window are explicit constructor state so
// tests can run with distinct keys.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaughan-dsouza/IdGo/internal/models"
)

var (
	ErrNoSecret = errors.New("secret not configured")
	ErrExpired  = errors.New("token expired")
)

// Claims carries the user identity encoded in a token: subject (user id),
// email and role.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SubjectInt decodes the subject claim back into a user id.
func (c *Claims) SubjectInt() int64 {
	v, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Generate signs a token for the given user, expiring ttl from now.
func (m *Manager) Generate(userID int64, email string, role models.Role) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}

	now := time.Now()
	expTime := now.Add(m.ttl)

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expTime, nil
}

// Verify parses and validates a token string, returning its claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSecret
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		return nil, ErrExpired
	}

	return &claims, nil
}
