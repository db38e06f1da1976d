package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaughan-dsouza/IdGo/internal/models"
	"github.com/vaughan-dsouza/IdGo/internal/password"
	"github.com/vaughan-dsouza/IdGo/internal/store"
	"github.com/vaughan-dsouza/IdGo/internal/token"
	"github.com/vaughan-dsouza/IdGo/internal/utils"
)

type AuthHandler struct {
	store  store.UserStore
	hasher *password.Hasher
	tokens *token.Manager
	log    *slog.Logger
}

func NewAuthHandler(st store.UserStore, hasher *password.Hasher, tokens *token.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{store: st, hasher: hasher, tokens: tokens, log: log}
}

// ----------- Request/Response DTOs -------------

type userReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	u, ok := buildUser(w, &req, h.hasher, h.log)
	if !ok {
		return
	}

	created, err := h.store.Create(r.Context(), u)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			utils.JSONError(w, http.StatusBadRequest, "email already exists")
			return
		}
		h.log.Error("register: create user", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.JSON(w, http.StatusCreated, created)
}

// buildUser validates every field of a create/register/update payload and
// returns the user with its password hashed. On failure the response has
// already been written.
func buildUser(w http.ResponseWriter, req *userReq, hasher *password.Hasher, log *slog.Logger) (*models.User, bool) {
	if err := models.ValidateName(req.Name); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := models.ValidateEmail(req.Email); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		log.Error("hash password", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}, true
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := models.ValidateEmail(req.Email); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// Unknown email and wrong password answer identically.
		if errors.Is(err, store.ErrNotFound) {
			utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error("login: get user", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, _, err := h.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		h.log.Error("login: generate token", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	u.PasswordHash = ""
	utils.JSON(w, http.StatusOK, loginResp{User: u, Token: signed})
}
