package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/IdGo/internal/password"
	"github.com/vaughan-dsouza/IdGo/internal/store"
	"github.com/vaughan-dsouza/IdGo/internal/utils"
)

type UserHandler struct {
	store  store.UserStore
	hasher *password.Hasher
	log    *slog.Logger
}

func NewUserHandler(st store.UserStore, hasher *password.Hasher, log *slog.Logger) *UserHandler {
	return &UserHandler{store: st, hasher: hasher, log: log}
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// ---------------------- CREATE ----------------------

// Create shares Register's validation and uniqueness contract; it differs only
// in being admin-gated and answering 200.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
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
		h.log.Error("create user", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.JSON(w, http.StatusOK, created)
}

// ---------------------- LIST ----------------------

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("list users", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- METRICS ----------------------

func (h *UserHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Metrics(r.Context())
	if err != nil {
		h.log.Error("user metrics", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if m.TotalUsers == 0 {
		utils.JSONError(w, http.StatusNotFound, "no users found")
		return
	}

	utils.JSON(w, http.StatusOK, m)
}

// ---------------------- GET ONE ----------------------

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error("get user", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.JSON(w, http.StatusOK, u)
}

// ---------------------- UPDATE ----------------------

// Update re-validates every field and re-hashes the password unconditionally.
// The email uniqueness check excludes the row being updated.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req userReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	u, ok := buildUser(w, &req, h.hasher, h.log)
	if !ok {
		return
	}
	u.ID = id

	updated, err := h.store.Update(r.Context(), u)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.JSONError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, store.ErrEmailTaken):
			utils.JSONError(w, http.StatusBadRequest, "email already exists")
		default:
			h.log.Error("update user", "error", err)
			utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	utils.JSON(w, http.StatusOK, updated)
}

// ---------------------- DELETE ----------------------

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error("delete user", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.JSON(w, http.StatusOK, deleted)
}
