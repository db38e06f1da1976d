package models

import (
	"errors"
	"regexp"
	"time"
	"unicode/utf8"
)

// Role is a closed enumeration: a user is either an Admin or a regular User.
// Anything else is rejected at the boundary by ParseRole.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a raw role value against the two known variants.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var (
	ErrInvalidName     = errors.New("name must be at least 2 characters")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateName(name string) error {
	if utf8.RuneCountInString(name) < 2 {
		return ErrInvalidName
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}
