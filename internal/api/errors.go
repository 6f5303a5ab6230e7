package api

import (
	"errors"
	"net/http"

	"devcommunity/internal/repository"
	"devcommunity/internal/service"
	"devcommunity/internal/storage"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps service and repository errors to HTTP responses.
// Anything unrecognized becomes a generic 500 so internals never leak.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, storage.ErrInvalidDataURL),
		errors.Is(err, service.ErrCommentNotInPost),
		errors.Is(err, service.ErrDeveloperNotHired):
		abortWithError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrResetTokenInvalid),
		errors.Is(err, service.ErrOldPasswordMismatch):
		abortWithError(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrNotCommentAuthor),
		errors.Is(err, service.ErrNotReplyAuthor),
		errors.Is(err, service.ErrNotQuestionOwner),
		errors.Is(err, service.ErrNotAnswerAuthor),
		errors.Is(err, service.ErrNotJobOwner),
		errors.Is(err, service.ErrNotProjectOwner):
		abortWithError(c, http.StatusForbidden, err.Error())

	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrReplyNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrAlreadyProposed),
		errors.Is(err, service.ErrAlreadyHired):
		abortWithError(c, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInsufficientBalance):
		abortWithError(c, http.StatusPaymentRequired, err.Error())

	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
