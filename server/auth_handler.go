package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gspotify/core/auth"
	"gspotify/logger"
	"gspotify/model"
	"gspotify/repository"
)

type contextKey string

const claimsKey contextKey = "authClaims"

// SignupHandler registers a new account. Only the user and artist roles can
// be self-assigned; admins are created out of band.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username      string `json:"username"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		Role          string `json:"role"`
		AgreedToTerms bool   `json:"agreed_to_terms"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Role != model.RoleUser && req.Role != model.RoleArtist {
		respondError(w, http.StatusBadRequest, "role must be user or artist")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &model.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          req.Role,
		IsActive:      true,
		AgreedToTerms: req.AgreedToTerms,
	}
	id, err := h.userRepo.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusConflict, "username or email already registered")
			return
		}
		logger.Error("Failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	logger.Info("User registered",
		logger.Int64("userId", id),
		logger.String("username", user.Username),
		logger.String("role", user.Role),
	)
	respondJSON(w, http.StatusCreated, user)
}

// LoginHandler exchanges credentials for a bearer token.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		logger.Error("Failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "account is disabled")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		logger.Error("Failed to issue token", logger.Int64("userId", user.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// ChangePasswordHandler updates the caller's password after verifying the
// current one.
func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new password is required")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if err := h.userRepo.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		logger.Error("Failed to update password", logger.Int64("userId", user.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// AuthMiddleware checks for a valid bearer token and rejects disabled
// accounts before handing off to the wrapped handler.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			respondError(w, http.StatusUnauthorized, "authorization header must be a bearer token")
			return
		}

		claims, err := h.tokens.ParseToken(tokenString)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		// Role and activity come from the database, not the token, so a
		// demotion or ban takes effect on the next request.
		user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to load token user", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "authentication failed")
			return
		}
		if user == nil || !user.IsActive {
			respondError(w, http.StatusForbidden, "account is disabled")
			return
		}
		claims.Role = user.Role

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireRole wraps a handler so only callers with the given role reach it.
// AuthMiddleware must run first.
func (h *APIHandler) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != role {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// claimsFromContext returns the authenticated claims, or nil outside
// AuthMiddleware.
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
