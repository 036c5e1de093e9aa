package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleetcheck/auth"
	"fleetcheck/models"
	"fleetcheck/store"

	"github.com/apex/log"
	"github.com/google/uuid"
)

type AuthHandler struct {
	users              *store.UserStore
	jwtManager         *auth.JWTManager
	enableRegistration bool
	hashCost           int
}

func NewAuthHandler(users *store.UserStore, jwtManager *auth.JWTManager, enableRegistration bool) *AuthHandler {
	return &AuthHandler{
		users:              users,
		jwtManager:         jwtManager,
		enableRegistration: enableRegistration,
		hashCost:           auth.BcryptCost,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	logger := log.WithField("username", req.Username)
	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		logger.WithError(err).Warn("Login failed: user not found")
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		logger.WithError(err).Warn("Login failed: invalid password")
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	user.LastLogin = time.Now().UTC()
	if err := h.users.Update(r.Context(), user); err != nil {
		logger.WithError(err).Warn("failed to update last login")
	}

	h.issueTokens(w, user, http.StatusOK)
	logger.WithField("role", user.Role).Info("✅ User logged in")
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	NIP      string `json:"nip"`
}

// Register creates an inspector account when self-registration is enabled.
// The very first account becomes the administrator.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	// fast path; Register rechecks under the store lock
	count, err := h.users.Count(r.Context())
	if err != nil {
		log.WithError(err).Error("❌ Failed to count users")
		writeError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}
	if !h.enableRegistration && count > 0 {
		writeError(w, "Registration is disabled", http.StatusForbidden)
		return
	}

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	register := func(ctx context.Context, u *models.User) error {
		return h.users.Register(ctx, u, h.enableRegistration)
	}
	user, status, msg := createUser(r, register, h.hashCost, req.Username, req.Password, req.FullName, req.NIP, models.RoleInspector)
	if user == nil {
		writeError(w, msg, status)
		return
	}

	log.WithFields(log.Fields{"username": user.Username, "role": user.Role}).Info("✅ User registered")
	h.issueTokens(w, user, http.StatusCreated)
}

// createUser validates and hashes an account, then hands it to create. The
// hash is computed before create runs. On failure it returns a nil user with
// the status and message to answer.
func createUser(r *http.Request, create func(context.Context, *models.User) error, cost int, username, password, fullName, nip string, role models.UserRole) (*models.User, int, string) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, http.StatusBadRequest, "Username and password are required"
	}
	if !role.Valid() {
		return nil, http.StatusBadRequest, "Invalid role"
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return nil, http.StatusBadRequest, err.Error()
	}

	hash, err := auth.HashPasswordWithCost(password, cost)
	if err != nil {
		log.WithError(err).Error("❌ Failed to hash password")
		return nil, http.StatusInternalServerError, "Failed to hash password"
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		NIP:          strings.TrimSpace(nip),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			return nil, http.StatusConflict, "Username already exists"
		case errors.Is(err, store.ErrRegistrationOff):
			return nil, http.StatusForbidden, "Registration is disabled"
		}
		log.WithError(err).Error("❌ Failed to create user")
		return nil, http.StatusInternalServerError, "Failed to create user"
	}
	return user, 0, ""
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req RefreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		log.WithError(err).WithField("username", user.Username).Error("Failed to generate token")
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RefreshTokenResponse{Token: token})
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, user *models.User, status int) {
	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		log.WithError(err).WithField("username", user.Username).Error("Failed to generate token")
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(user)
	if err != nil {
		log.WithError(err).WithField("username", user.Username).Error("Failed to generate refresh token")
		writeError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	public := user.Public()
	writeJSON(w, status, LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         &public,
	})
}
