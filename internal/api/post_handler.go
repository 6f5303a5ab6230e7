package api

import (
	"fmt"
	"net/http"

	"devcommunity/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler holds the post service dependency.
type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// --- Request Structs ---

type CreatePostRequest struct {
	Caption string   `json:"caption"`
	Images  []string `json:"images"` // base64 data URLs
}

type UpdatePostRequest struct {
	Caption string `json:"caption" binding:"required"`
}

type AddCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
	Image   string `json:"image"` // Optional base64 data URL
}

type UpdateCommentRequest struct {
	CommentID string `json:"commentId" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

type DeleteCommentRequest struct {
	CommentID string `json:"commentId" binding:"required"`
}

type AddReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

type UpdateReplyRequest struct {
	ReplyID string `json:"replyId" binding:"required"`
	Reply   string `json:"reply" binding:"required"`
}

type LikeReplyRequest struct {
	CommentID string `json:"commentId" binding:"required"`
	ReplyID   string `json:"replyId" binding:"required"`
}

type ReplyPathRequest struct {
	ReplyID string `json:"replyId" binding:"required"`
}

// --- Handler Methods ---

// CreatePost stores a new feed post with its uploaded images.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.Caption == "" && len(req.Images) == 0 {
		abortWithError(c, http.StatusUnauthorized, "Please enter a caption or select images")
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID, req.Caption, req.Images)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// GetPosts returns the feed, newest first.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

// MyPosts returns the logged-in user's own posts.
func (h *PostHandler) MyPosts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	posts, err := h.postService.MyPosts(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

// LikePost toggles the caller's like on the post.
func (h *PostHandler) LikePost(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	post, liked, err := h.postService.LikePost(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "post": post})
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), userID, c.Param("id"), req.Caption)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}

// AddComment attaches a comment to the post in the path.
func (h *PostHandler) AddComment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	post, err := h.postService.AddComment(c.Request.Context(), userID, c.Param("id"), req.Comment, req.Image)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

func (h *PostHandler) UpdateComment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	comment, err := h.postService.UpdateComment(c.Request.Context(), userID, req.CommentID, req.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.postService.DeleteComment(c.Request.Context(), userID, req.CommentID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}

func (h *PostHandler) LikeComment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	comment, liked, err := h.postService.LikeComment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Comment unliked"
	if liked {
		message = "Comment liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "comment": comment})
}

// AddReply attaches a reply to the comment in the path.
func (h *PostHandler) AddReply(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	comment, err := h.postService.AddReply(c.Request.Context(), userID, c.Param("id"), req.Reply)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	reply := comment.Replies[len(comment.Replies)-1]
	c.JSON(http.StatusCreated, gin.H{"success": true, "reply": reply, "comment": comment})
}

// LikeReply toggles a like on a reply. The post comes from the path; the
// comment and reply ids come from the body.
func (h *PostHandler) LikeReply(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req LikeReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	liked, err := h.postService.LikeReply(c.Request.Context(), userID, c.Param("id"), req.CommentID, req.ReplyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Reply unliked"
	if liked {
		message = "Reply liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// UpdateReply edits a reply. The comment comes from the path; the reply id
// from the body.
func (h *PostHandler) UpdateReply(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	comment, err := h.postService.UpdateReply(c.Request.Context(), userID, c.Param("id"), req.ReplyID, req.Reply)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

// DeleteReply removes a reply. The comment comes from the path; the reply id
// from the body.
func (h *PostHandler) DeleteReply(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ReplyPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.postService.DeleteReply(c.Request.Context(), userID, c.Param("id"), req.ReplyID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reply deleted"})
}
