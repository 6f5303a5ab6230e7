package api

import (
	"errors"
	"fmt"
	"net/http"

	"devcommunity/internal/repository"
	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService  service.AuthService
	cookieMaxAge int
	frontendURL  string
}

// NewAuthHandler creates a new AuthHandler. cookieMaxAge is the token cookie
// lifetime in seconds; frontendURL is the base for password reset links.
func NewAuthHandler(authService service.AuthService, cookieMaxAge int, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		frontendURL:  frontendURL,
	}
}

// --- Request Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=developer client"`
	Avatar   string `json:"avatar"` // Optional base64 data URL
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// --- Handler Methods ---

// Register creates a new developer or client account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role, req.Avatar)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			handleServiceError(c, err)
		}
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": user})
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			handleServiceError(c, err)
		}
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// Logout clears the token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(tokenCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// ForgotPassword mails a reset link to the account's address. An unknown
// address gets the same response so addresses cannot be probed.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err := h.authService.ForgotPassword(c.Request.Context(), req.Email, h.frontendURL)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		if errors.Is(err, service.ErrMailDelivery) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		} else {
			handleServiceError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("If an account exists for %s, a reset mail has been sent", req.Email)})
}

// ResetPassword consumes a mailed reset token and logs the user in with the
// new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Password != req.ConfirmPassword {
		abortWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, token, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// UpdatePassword changes the logged-in user's password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		abortWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(tokenCookieName, token, h.cookieMaxAge, "/", "", false, true)
}
