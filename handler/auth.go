package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AnTengye/legalintel/config"
	"github.com/AnTengye/legalintel/middleware"
	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  *service.UserService
	config *config.AuthConfig
}

func NewAuthHandler(users *service.UserService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, config: cfg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
	ExpiresAt   string     `json:"expires_at"`
	User        model.User `json:"user"`
}

type UpdateUserRequest struct {
	FullName *string     `json:"full_name"`
	Role     *model.Role `json:"role"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Register creates a regular user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Register(req.Email, req.Password, req.FullName, model.RoleUser)
	switch {
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	case errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.Error(c.Request.Context(), "registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	logger.Info(c.Request.Context(), "user registered", "email", user.Email)
	c.JSON(http.StatusCreated, user)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInactiveUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user, h.config)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info(c.Request.Context(), "user logged in", "email", user.Email)
	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		User:        user,
	})
}

// GetCurrentUser returns the current user info
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.users.Get(middleware.GetEmail(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser changes the caller's profile. Only admins may change a role.
func (h *AuthHandler) UpdateCurrentUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	isAdmin := middleware.GetRole(c) == string(model.RoleAdmin)
	user, err := h.users.Update(middleware.GetEmail(c), service.UserUpdate{
		FullName: req.FullName,
		Role:     req.Role,
	}, isAdmin)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.users.ChangePassword(middleware.GetEmail(c), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect current password"})
		return
	case errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	case err != nil:
		logger.Error(c.Request.Context(), "password change failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	logger.Info(c.Request.Context(), "password changed")
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ListUsers returns every account. The route is guarded by RequireRole.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.List())
}

// SetUserActive enables or disables another account
func (h *AuthHandler) SetUserActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	email := c.Param("email")
	if strings.EqualFold(email, middleware.GetEmail(c)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own account status"})
		return
	}

	user, err := h.users.SetActive(email, *req.IsActive)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to update account status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	logger.Info(c.Request.Context(), "account status changed", "target", user.Email, "active", user.IsActive)
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes another account
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	email := c.Param("email")
	if strings.EqualFold(email, middleware.GetEmail(c)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	err := h.users.Delete(email)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	logger.Info(c.Request.Context(), "user deleted", "target", email)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
