// Package store is the sole interface to the persistence layer. It exposes a
// UserStore over the single users table; business rules live above it.
package store

import (
	"context"
	"errors"

	"github.com/vaughan-dsouza/IdGo/internal/models"
)

var (
	// ErrNotFound means the referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken means a write would violate email uniqueness.
	ErrEmailTaken = errors.New("email already exists")
)

// Metrics are aggregate user counts. Each count is correct at the instant of
// its own query; there is no snapshot guarantee across them.
type Metrics struct {
	TotalUsers int64 `db:"total_users" json:"total_users"`
	Admins     int64 `db:"admins" json:"admins"`
	Users      int64 `db:"users" json:"users"`
}

// UserStore executes parameterized queries against the users table.
//
// Create and Update rely on the table's unique email constraint as the
// integrity gate: there is no check-then-act read, a conflicting write
// surfaces as ErrEmailTaken.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
	Metrics(ctx context.Context) (*Metrics, error)
}
