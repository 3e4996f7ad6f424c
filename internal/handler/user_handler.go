package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finance-api/internal/model"
	"finance-api/internal/service"
)

type userService interface {
	Register(ctx context.Context, in service.RegisterInput) (service.LoginResult, error)
	Get(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, fields model.UpdateUserRequest) (model.User, error)
	Delete(ctx context.Context, id string) (model.User, error)
	ListByPeriod(ctx context.Context, filter string) ([]model.User, error)
}

type UserHandler struct {
	service userService
}

func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.LoginResponse{
		APIResponse: ok("User registered successfully"),
		User:        result.User,
		Token:       result.Token,
	})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{APIResponse: ok("User retrieved successfully"), User: user})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserListResponse{APIResponse: ok("Users retrieved successfully"), Users: users})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{APIResponse: ok("User updated successfully"), User: user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{APIResponse: ok("User deleted successfully"), User: user})
}

func (h *UserHandler) FilterByPeriod(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	users, err := h.service.ListByPeriod(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserListResponse{
		APIResponse: ok("Users created since " + filter + " retrieved"),
		Users:       users,
	})
}
