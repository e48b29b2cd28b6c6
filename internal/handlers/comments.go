package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/util"
)

// CreateComment adds a comment to a post or video
// POST /api/v1/posts/:id/comments, POST /api/v1/videos/:id/comments
func (h *Handlers) CreateComment(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, ok := util.GetUserFromContext(c)
		if !ok {
			return
		}

		contentID := c.Param("id")

		var req struct {
			Text string `json:"text" binding:"required,min=1,max=2200"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": err.Error(),
			})
			return
		}

		comment := &models.Comment{
			UserID:      currentUser.ID,
			ContentID:   contentID,
			ContentType: kind,
			Text:        req.Text,
		}

		if err := h.content.CreateComment(c.Request.Context(), comment); err != nil {
			if err == repository.ErrContentNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "not_found",
					"message": "Content not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "creation_failed",
				"message": "Failed to create comment",
			})
			return
		}

		metrics.Get().CommentsTotal.WithLabelValues(string(kind)).Inc()
		c.JSON(http.StatusCreated, gin.H{"comment": comment})
	}
}

// GetComments lists comments on a post or video, oldest first
// GET /api/v1/posts/:id/comments, GET /api/v1/videos/:id/comments
func (h *Handlers) GetComments(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentID := c.Param("id")

		limit := util.ParseInt(c.DefaultQuery("limit", "50"), 50)
		offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

		comments, err := h.content.ContentComments(c.Request.Context(), contentID, kind, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "query_failed",
				"message": "Failed to fetch comments",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"comments": comments,
			"count":    len(comments),
		})
	}
}

// DeleteComment removes the caller's own comment
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	commentID := c.Param("id")

	if err := h.content.DeleteComment(c.Request.Context(), commentID, currentUser.ID); err != nil {
		switch err {
		case repository.ErrContentNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Comment not found",
			})
		case repository.ErrInvalidInput:
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You can only delete your own comments",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "deletion_failed",
				"message": "Failed to delete comment",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
