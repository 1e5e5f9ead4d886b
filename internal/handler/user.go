package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/echoserve/echoserve/internal/handler/dto"
	"github.com/echoserve/echoserve/internal/model"
	"github.com/echoserve/echoserve/internal/store"
)

// UserStore is the slice of the store the user handler needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (*store.InsertResult, error)
	UserExists(ctx context.Context, email string) (bool, error)
}

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	store  UserStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

// Create handles POST /users. A duplicate email is answered with a
// message rather than an error; only one record ever persists.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	res, err := h.store.CreateUser(r.Context(), &user)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "user already exists"})
			return
		}
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "email", user.Email)
	writeJSON(w, http.StatusOK, dto.ToInsertResponse(res))
}

// Exists handles GET /users?email=.
func (h *UserHandler) Exists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query required")
		return
	}

	exists, err := h.store.UserExists(r.Context(), email)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}
