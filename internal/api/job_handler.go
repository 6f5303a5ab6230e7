package api

import (
	"fmt"
	"net/http"
	"strconv"

	"devcommunity/internal/repository"
	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// JobHandler holds the job service dependency.
type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// --- Request Structs ---

type CreateJobRequest struct {
	Name          string `json:"name" binding:"required"`
	About         string `json:"about" binding:"required"`
	Time          string `json:"time"`
	Label         string `json:"label"`
	Salary        string `json:"salary"`
	Location      string `json:"location"`
	StartEmployee int    `json:"startEmployee"`
	EndEmployee   int    `json:"endEmployee"`
}

type ApplyJobRequest struct {
	CV string `json:"cv"` // base64 data URL
}

type MailApplicantsRequest struct {
	JobID   string `json:"jobId" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// --- Handler Methods ---

// CreateJob stores a new hiring post.
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), userID, service.CreateJobInput{
		Name:          req.Name,
		About:         req.About,
		Time:          req.Time,
		Label:         req.Label,
		Salary:        req.Salary,
		Location:      req.Location,
		StartEmployee: req.StartEmployee,
		EndEmployee:   req.EndEmployee,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "job": job})
}

// GetJobs lists jobs. Supports keyword search plus exact filters on time,
// label and location, and page/limit pagination.
func (h *JobHandler) GetJobs(c *gin.Context) {
	jobs, err := h.jobService.ListJobs(c.Request.Context(), listOptionsFromQuery(c, "time", "label", "location"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// ApplyJob submits an application with an optional CV upload.
func (h *JobHandler) ApplyJob(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ApplyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	job, err := h.jobService.ApplyJob(c.Request.Context(), userID, c.Param("id"), req.CV)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Applied", "job": job})
}

// MailApplicants sends a message to every applicant of the caller's job.
func (h *JobHandler) MailApplicants(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req MailApplicantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	count, err := h.jobService.MailApplicants(c.Request.Context(), userID, req.JobID, req.Subject, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Mail dispatched to %d applicants", count)})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Job deleted"})
}

// listOptionsFromQuery builds repository list options from the query string:
// keyword, page, limit, plus exact-match filters for the named parameters.
func listOptionsFromQuery(c *gin.Context, filterKeys ...string) repository.ListOptions {
	opts := repository.ListOptions{
		Keyword: c.Query("keyword"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	for _, key := range filterKeys {
		if value := c.Query(key); value != "" {
			if opts.Filters == nil {
				opts.Filters = make(map[string]string)
			}
			opts.Filters[key] = value
		}
	}
	return opts
}
