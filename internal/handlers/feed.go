package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/socialfusion/backend/internal/middleware"
	"github.com/socialfusion/backend/internal/util"
)

// feedScopeAllowed rejects requests asking for another user's feed. The
// userId query param (user_id also accepted) must name the caller.
func feedScopeAllowed(c *gin.Context, viewerID string) bool {
	requested := c.Query("userId")
	if requested == "" {
		requested = c.Query("user_id")
	}
	if requested == "" || requested == viewerID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{
		"error":   "forbidden",
		"message": "Feeds are only available for the authenticated user",
	})
	return false
}

// GetFeed returns posts from the caller and everyone they follow,
// newest first
// GET /api/v1/feed
func (h *Handlers) GetFeed(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	if !feedScopeAllowed(c, currentUser.ID) {
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	start := time.Now()
	posts, err := h.content.FeedPosts(c.Request.Context(), currentUser.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch feed",
		})
		return
	}
	middleware.RecordFeedGeneration("posts", time.Since(start))

	c.JSON(http.StatusOK, h.postListResponse(c, posts))
}

// GetVideoFeed returns videos from the caller and everyone they follow
// GET /api/v1/feed/videos
func (h *Handlers) GetVideoFeed(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	if !feedScopeAllowed(c, currentUser.ID) {
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	start := time.Now()
	videos, err := h.content.FeedVideos(c.Request.Context(), currentUser.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch video feed",
		})
		return
	}
	middleware.RecordFeedGeneration("videos", time.Since(start))

	c.JSON(http.StatusOK, h.videoListResponse(c, videos))
}
