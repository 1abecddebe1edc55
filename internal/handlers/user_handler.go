package handlers

import (
	"net/http"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	user, err := h.Service.CreateUser(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	utils.JSON(w, http.StatusOK, users)
}

// ChangePassword handles PUT /api/users/{id}/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, r, models.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	var req models.ChangePasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), actor, id, &req); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "Password updated")
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, r, models.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	if err := h.Service.DeleteUser(r.Context(), actorID, id); err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "User deleted")
}
