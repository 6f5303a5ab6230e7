package api

import (
	"fmt"
	"net/http"

	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// QuestionHandler holds the question service dependency.
type QuestionHandler struct {
	questionService service.QuestionService
}

func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// --- Request Structs ---

type CreateQuestionRequest struct {
	Question    string   `json:"question" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type AddAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

type UpdateAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// --- Handler Methods ---

// CreateQuestion opens a new Q&A thread.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), userID, req.Question, req.Description, req.Tags)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "question": question})
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questionService.ListQuestions(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.questionService.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": question})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Question deleted"})
}

func (h *QuestionHandler) LikeQuestion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	question, liked, err := h.questionService.LikeQuestion(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Question unliked"
	if liked {
		message = "Question liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "question": question})
}

// ViewQuestion records the caller in the view list once.
func (h *QuestionHandler) ViewQuestion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	question, err := h.questionService.ViewQuestion(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": question})
}

// AddAnswer attaches an answer to the question in the path.
func (h *QuestionHandler) AddAnswer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	question, err := h.questionService.AddAnswer(c.Request.Context(), userID, c.Param("id"), req.Answer)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "question": question})
}

func (h *QuestionHandler) UpdateAnswer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	answer, err := h.questionService.UpdateAnswer(c.Request.Context(), userID, c.Param("id"), req.Answer)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}

func (h *QuestionHandler) DeleteAnswer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.questionService.DeleteAnswer(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Answer deleted"})
}

func (h *QuestionHandler) LikeAnswer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	answer, liked, err := h.questionService.LikeAnswer(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Answer unliked"
	if liked {
		message = "Answer liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "answer": answer})
}
