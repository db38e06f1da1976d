package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/IdGo/internal/models"
)

const uniqueViolation = "23505"

type Postgres struct {
	db *sqlx.DB
}

var _ UserStore = (*Postgres)(nil)

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Postgres) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `

	err := s.db.QueryRowxContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("store: insert user: %w", err)
	}

	return u, nil
}

func (s *Postgres) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
        SELECT id, name, email, role, created_at
        FROM users
        WHERE id = $1
    `, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get user by id: %w", err)
	}
	return &u, nil
}

func (s *Postgres) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
        SELECT id, name, email, password_hash, role, created_at
        FROM users
        WHERE email = $1
    `, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get user by email: %w", err)
	}
	return &u, nil
}

func (s *Postgres) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, `
        SELECT id, name, email, role, created_at
        FROM users
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

func (s *Postgres) Update(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
        UPDATE users
        SET name = $1, email = $2, password_hash = $3, role = $4
        WHERE id = $5
        RETURNING created_at
    `

	err := s.db.QueryRowxContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.ID).
		Scan(&u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("store: update user: %w", err)
	}

	return u, nil
}

func (s *Postgres) Delete(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowxContext(ctx, `
        DELETE FROM users
        WHERE id = $1
        RETURNING id, name, email, role, created_at
    `, id).StructScan(&u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: delete user: %w", err)
	}
	return &u, nil
}

func (s *Postgres) Metrics(ctx context.Context) (*Metrics, error) {
	var m Metrics
	err := s.db.GetContext(ctx, &m, `
        SELECT
            COUNT(*) AS total_users,
            COUNT(*) FILTER (WHERE role = $1) AS admins,
            COUNT(*) FILTER (WHERE role = $2) AS users
        FROM users
    `, models.RoleAdmin, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("store: user metrics: %w", err)
	}
	return &m, nil
}
