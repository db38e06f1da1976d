package handlers

import (
	"log/slog"

	"github.com/vaughan-dsouza/IdGo/internal/password"
	"github.com/vaughan-dsouza/IdGo/internal/store"
	"github.com/vaughan-dsouza/IdGo/internal/token"
)

type Handler struct {
	Auth  *AuthHandler
	Users *UserHandler
}

func NewHandler(st store.UserStore, hasher *password.Hasher, tokens *token.Manager, log *slog.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(st, hasher, tokens, log),
		Users: NewUserHandler(st, hasher, log),
	}
}
