package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fleetcheck/auth"
	"fleetcheck/middleware"
	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
)

type AdminHandler struct {
	users    *store.UserStore
	hashCost int
}

func NewAdminHandler(users *store.UserStore) *AdminHandler {
	return &AdminHandler{
		users:    users,
		hashCost: auth.BcryptCost,
	}
}

type CreateUserRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	NIP      string          `json:"nip"`
	Role     models.UserRole `json:"role"`
}

type UpdateUserRequest struct {
	UserID   string          `json:"user_id"`
	FullName *string         `json:"full_name"`
	NIP      *string         `json:"nip"`
	Role     models.UserRole `json:"role"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// GetUsers returns all users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		log.WithError(err).Error("❌ Failed to get users")
		writeError(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	public := make([]models.User, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	writeJSON(w, http.StatusOK, public)
}

// CreateUser creates a new user
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = models.RoleInspector
	}

	user, status, msg := createUser(r, h.users.Create, h.hashCost, req.Username, req.Password, req.FullName, req.NIP, req.Role)
	if user == nil {
		writeError(w, msg, status)
		return
	}

	middleware.Audit(r, "user.create", log.Fields{"target": user.Username, "role": user.Role})
	writeJSON(w, http.StatusCreated, user.Public())
}

// UpdateUser changes the profile or role of a user
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	adminUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		writeError(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if req.UserID == adminUser.UserID && req.Role != "" && req.Role != models.RoleAdmin {
		writeError(w, "Cannot demote your own account", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.NIP != nil {
		user.NIP = strings.TrimSpace(*req.NIP)
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		log.WithError(err).Error("❌ Failed to update user")
		writeError(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "user.update", log.Fields{"target": user.Username, "role": user.Role})
	writeJSON(w, http.StatusOK, user.Public())
}

// DeleteUser deletes a user
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	adminUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DeleteUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}
	if req.UserID == adminUser.UserID {
		writeError(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.users.Delete(r.Context(), req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("❌ Failed to delete user")
		writeError(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "user.delete", log.Fields{"target": req.UserID})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}

// ResetPassword sets a new password for any user
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.NewPassword == "" {
		writeError(w, "User ID and new password are required", http.StatusBadRequest)
		return
	}
	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	target, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	hash, err := auth.HashPasswordWithCost(req.NewPassword, h.hashCost)
	if err != nil {
		log.WithError(err).Error("❌ Failed to hash password")
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}
	target.PasswordHash = hash
	if err := h.users.Update(r.Context(), target); err != nil {
		log.WithError(err).Error("❌ Failed to store password")
		writeError(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	middleware.Audit(r, "user.reset_password", log.Fields{"target": target.Username})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}
