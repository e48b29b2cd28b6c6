package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/util"
)

// CreateStory publishes an ephemeral story. The expiry is stamped
// server-side; clients cannot extend it.
// POST /api/v1/stories
func (h *Handlers) CreateStory(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		MediaURL  string           `json:"media_url" binding:"required"`
		MediaType models.MediaType `json:"media_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if req.MediaType == "" {
		req.MediaType = models.MediaTypeImage
	}

	story := &models.Story{
		UserID:    currentUser.ID,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
	}

	if err := h.content.CreateStory(c.Request.Context(), story); err != nil {
		logger.Log.Error("Story creation failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "creation_failed",
			"message": "Failed to create story",
		})
		return
	}

	metrics.Get().ContentCreated.WithLabelValues("story").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"story":      story,
		"expires_at": story.ExpiresAt.Format(time.RFC3339),
	})
}

// GetStories returns active stories from followed users plus the caller's
// own, annotated with viewed state
// GET /api/v1/stories
func (h *Handlers) GetStories(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	if !feedScopeAllowed(c, currentUser.ID) {
		return
	}

	stories, err := h.content.FeedStories(c.Request.Context(), currentUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch stories",
		})
		return
	}

	viewedMap := map[string]bool{}
	if len(stories) > 0 {
		ids := make([]string, len(stories))
		for i, s := range stories {
			ids[i] = s.ID
		}
		if m, err := h.social.ViewedStoryIDs(c.Request.Context(), currentUser.ID, ids); err == nil {
			viewedMap = m
		}
	}

	type storyWithViewed struct {
		*models.Story
		Viewed bool `json:"viewed"`
	}

	annotated := make([]storyWithViewed, len(stories))
	for i, s := range stories {
		annotated[i] = storyWithViewed{Story: s, Viewed: viewedMap[s.ID]}
	}

	c.JSON(http.StatusOK, gin.H{
		"stories": annotated,
		"count":   len(annotated),
	})
}

// GetStory returns a single active story
// GET /api/v1/stories/:id
func (h *Handlers) GetStory(c *gin.Context) {
	storyID := c.Param("id")

	story, err := h.content.GetStory(c.Request.Context(), storyID)
	if err != nil {
		// Expired stories read as missing.
		if err == repository.ErrStoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Story not found or expired",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch story",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story":      story,
		"view_count": story.ViewCount,
	})
}

// GetUserStories returns a user's active stories
// GET /api/v1/users/:id/stories
func (h *Handlers) GetUserStories(c *gin.Context) {
	userID := c.Param("id")

	stories, err := h.content.UserStories(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch user stories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stories": stories,
		"count":   len(stories),
	})
}

// ViewStory marks a story viewed by the caller. Repeat views are no-ops.
// POST /api/v1/stories/:id/view
func (h *Handlers) ViewStory(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	storyID := c.Param("id")

	recorded, err := h.social.ViewStory(c.Request.Context(), storyID, currentUser.ID)
	if err != nil {
		if err == repository.ErrStoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Story not found or expired",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "view_failed",
			"message": "Failed to record view",
		})
		return
	}

	if recorded {
		metrics.Get().StoryViewsTotal.Inc()
	}

	story, err := h.content.GetStory(c.Request.Context(), storyID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"viewed": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewed":     true,
		"view_count": story.ViewCount,
	})
}

// GetStoryViewers lists who viewed a story. Owner only.
// GET /api/v1/stories/:id/viewers
func (h *Handlers) GetStoryViewers(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	storyID := c.Param("id")

	story, err := h.content.GetStory(c.Request.Context(), storyID)
	if err != nil {
		if err == repository.ErrStoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Story not found or expired",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch story",
		})
		return
	}

	if story.UserID != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Only the story owner can view the viewer list",
		})
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "50"), 50)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	viewers, err := h.social.StoryViewers(c.Request.Context(), storyID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch viewers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewers":    viewers,
		"view_count": story.ViewCount,
	})
}
