package api

import (
	"fmt"
	"net/http"

	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler holds the project service dependency.
type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// --- Request Structs ---

type CreateProjectRequest struct {
	Name      string   `json:"name" binding:"required"`
	About     string   `json:"about" binding:"required"`
	Time      string   `json:"time"`
	Label     string   `json:"label"`
	Price     int64    `json:"price" binding:"required,gt=0"`
	PriceType string   `json:"priceType"`
	Location  string   `json:"location"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Length    string   `json:"length"`
	Skills    []string `json:"skills"`
}

type ApplyProjectRequest struct {
	BidPrice    int64  `json:"bidPrice" binding:"required,gt=0"`
	ProjectTime string `json:"projectTime"`
	CoverLetter string `json:"coverLetter"`
}

type HireDeveloperRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	DeveloperID string `json:"developerId" binding:"required"`
}

type CompleteProjectRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	DeveloperID string `json:"developerId" binding:"required"`
}

// --- Handler Methods ---

// CreateProject stores a new freelance project posting.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, service.CreateProjectInput{
		Name:      req.Name,
		About:     req.About,
		Time:      req.Time,
		Label:     req.Label,
		Price:     req.Price,
		PriceType: req.PriceType,
		Location:  req.Location,
		Type:      req.Type,
		Category:  req.Category,
		Length:    req.Length,
		Skills:    req.Skills,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "project": project})
}

// GetProjects lists projects. Supports keyword search plus exact filters on
// category, type, priceType and length, and page/limit pagination.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context(), listOptionsFromQuery(c, "category", "type", "priceType", "length"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
}

// ApplyProject submits a proposal for the project in the path.
func (h *ProjectHandler) ApplyProject(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ApplyProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	proposal, err := h.projectService.ApplyProject(c.Request.Context(), userID, c.Param("id"), req.BidPrice, req.ProjectTime, req.CoverLetter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "proposal": proposal})
}

// HireDeveloper puts a proposing developer on the caller's project.
func (h *ProjectHandler) HireDeveloper(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req HireDeveloperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	project, err := h.projectService.HireDeveloper(c.Request.Context(), userID, req.ProjectID, req.DeveloperID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Developer hired", "project": project})
}

// CompleteProject settles the project: price moves from the caller's balance
// to the developer's and both sides' project lists are updated.
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CompleteProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	project, err := h.projectService.CompleteProject(c.Request.Context(), userID, req.ProjectID, req.DeveloperID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project completed", "project": project})
}
