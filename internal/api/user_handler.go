package api

import (
	"context"
	"fmt"
	"net/http"

	"devcommunity/internal/domain"
	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user service dependency.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- Request Structs ---

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

type UpdateAboutRequest struct {
	About string `json:"about" binding:"required"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"` // base64 data URL
}

type UpdateBannerRequest struct {
	Banner string `json:"banner" binding:"required"` // base64 data URL
}

type AddEducationRequest struct {
	School    string `json:"school" binding:"required"`
	Degree    string `json:"degree"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Grade     string `json:"grade"`
}

type AddSkillRequest struct {
	Skill string `json:"skill" binding:"required"`
}

type AddLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type AddExperienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Certificate string `json:"certificate"`
}

type AddPortfolioRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
	GitLink     string `json:"gitLink"`
}

type UpdateUserRoleRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Role  string `json:"role" binding:"required,oneof=developer client admin"`
}

// --- Handler Methods ---

// GetMe returns the logged-in user's fully hydrated profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req.Name, req.Title, req.Location, req.Contact)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) UpdateAbout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateAboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateAbout(c.Request.Context(), userID, req.About)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) UpdateBanner(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateBanner(c.Request.Context(), userID, req.Banner)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) AddEducation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.AddEducation(c.Request.Context(), userID, domain.Education{
		School:    req.School,
		Degree:    req.Degree,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Grade:     req.Grade,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteEducation(c *gin.Context) {
	h.deleteEntry(c, h.userService.DeleteEducation)
}

func (h *UserHandler) AddSkill(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.AddSkill(c.Request.Context(), userID, req.Skill)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteSkill(c *gin.Context) {
	h.deleteEntry(c, h.userService.DeleteSkill)
}

func (h *UserHandler) AddLanguage(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.AddLanguage(c.Request.Context(), userID, req.Language)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteLanguage(c *gin.Context) {
	h.deleteEntry(c, h.userService.DeleteLanguage)
}

func (h *UserHandler) AddExperience(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.AddExperience(c.Request.Context(), userID, domain.Experience{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Certificate: req.Certificate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteExperience(c *gin.Context) {
	h.deleteEntry(c, h.userService.DeleteExperience)
}

func (h *UserHandler) AddPortfolio(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.AddPortfolio(c.Request.Context(), userID, domain.Portfolio{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		GitLink:     req.GitLink,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeletePortfolio(c *gin.Context) {
	h.deleteEntry(c, h.userService.DeletePortfolio)
}

// deleteEntry factors the shared shape of the profile sub-list deletes: the
// entry id comes from the path, the user from the token.
func (h *UserHandler) deleteEntry(c *gin.Context, del func(ctx context.Context, userID, entryID string) (*domain.User, error)) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	user, err := del(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetDevelopers lists every developer account for the directory.
func (h *UserHandler) GetDevelopers(c *gin.Context) {
	developers, err := h.userService.Developers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": developers})
}

// GetDeveloper returns one developer's public profile.
func (h *UserHandler) GetDeveloper(c *gin.Context) {
	profile, err := h.userService.Developer(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

// --- Admin ---

func (h *UserHandler) AdminListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *UserHandler) AdminGetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) AdminUpdateUser(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) AdminDeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

// AdminDeleteUserByBody removes the account named in the body and returns
// the remaining users, so the admin table can refresh in one round trip.
func (h *UserHandler) AdminDeleteUserByBody(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), req.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
