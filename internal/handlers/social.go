package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/util"
)

// FollowUser creates a follow edge to the target user. Following someone
// already followed is a no-op.
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID == currentUser.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "self_follow",
			"message": "You cannot follow yourself",
		})
		return
	}

	created, err := h.social.Follow(c.Request.Context(), currentUser.ID, targetID)
	if err != nil {
		switch err {
		case repository.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "User not found",
			})
		case repository.ErrSelfFollow:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "self_follow",
				"message": "You cannot follow yourself",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "follow_failed",
				"message": "Failed to follow user",
			})
		}
		return
	}

	if created {
		metrics.Get().FollowsTotal.WithLabelValues("follow").Inc()
		// The follow graph changed, cached suggestions are stale.
		if h.suggestions != nil {
			h.suggestions.Invalidate(c.Request.Context(), currentUser.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"following": true,
		"created":   created,
	})
}

// UnfollowUser removes a follow edge. Unfollowing someone not followed is
// a no-op.
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")

	removed, err := h.social.Unfollow(c.Request.Context(), currentUser.ID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "unfollow_failed",
			"message": "Failed to unfollow user",
		})
		return
	}

	if removed {
		metrics.Get().FollowsTotal.WithLabelValues("unfollow").Inc()
		if h.suggestions != nil {
			h.suggestions.Invalidate(c.Request.Context(), currentUser.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"following": false,
		"removed":   removed,
	})
}

// LikeContent likes a post or video. Liking twice is a no-op.
// POST /api/v1/posts/:id/like, POST /api/v1/videos/:id/like
func (h *Handlers) LikeContent(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, ok := util.GetUserFromContext(c)
		if !ok {
			return
		}

		contentID := c.Param("id")

		created, err := h.social.LikeContent(c.Request.Context(), currentUser.ID, contentID, kind)
		if err != nil {
			if err == repository.ErrContentNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "not_found",
					"message": "Content not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "like_failed",
				"message": "Failed to like content",
			})
			return
		}

		if created {
			metrics.Get().LikesTotal.WithLabelValues("like", string(kind)).Inc()
		}

		c.JSON(http.StatusOK, gin.H{
			"liked":   true,
			"created": created,
		})
	}
}

// UnlikeContent removes a like. Unliking content not liked is a no-op.
// POST /api/v1/posts/:id/unlike, POST /api/v1/videos/:id/unlike
func (h *Handlers) UnlikeContent(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, ok := util.GetUserFromContext(c)
		if !ok {
			return
		}

		contentID := c.Param("id")

		removed, err := h.social.UnlikeContent(c.Request.Context(), currentUser.ID, contentID, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "unlike_failed",
				"message": "Failed to unlike content",
			})
			return
		}

		if removed {
			metrics.Get().LikesTotal.WithLabelValues("unlike", string(kind)).Inc()
		}

		c.JSON(http.StatusOK, gin.H{
			"liked":   false,
			"removed": removed,
		})
	}
}

// GetContentLikes lists the likes on a post or video
// GET /api/v1/posts/:id/likes, GET /api/v1/videos/:id/likes
func (h *Handlers) GetContentLikes(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentID := c.Param("id")

		likes, err := h.social.ContentLikes(c.Request.Context(), contentID, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "query_failed",
				"message": "Failed to fetch likes",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"likes": likes,
			"count": len(likes),
		})
	}
}
