package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/util"
)

// CreateVideo publishes a new video
// POST /api/v1/videos
func (h *Handlers) CreateVideo(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Caption      string `json:"caption" binding:"max=2200"`
		VideoURL     string `json:"video_url" binding:"required"`
		ThumbnailURL string `json:"thumbnail_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	video := &models.Video{
		UserID:       currentUser.ID,
		Caption:      req.Caption,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
	}

	if err := h.content.CreateVideo(c.Request.Context(), video); err != nil {
		logger.Log.Error("Video creation failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "creation_failed",
			"message": "Failed to create video",
		})
		return
	}

	metrics.Get().ContentCreated.WithLabelValues("video").Inc()
	c.JSON(http.StatusCreated, gin.H{"video": video})
}

// GetVideo returns a single video with its author
// GET /api/v1/videos/:id
func (h *Handlers) GetVideo(c *gin.Context) {
	videoID := c.Param("id")

	video, err := h.content.GetVideo(c.Request.Context(), videoID)
	if util.HandleLookupError(c, err, "Video") {
		return
	}

	response := gin.H{"video": video}
	if viewer, exists := c.Get("user"); exists {
		if v, ok := viewer.(*models.User); ok {
			liked, err := h.social.IsLiked(c.Request.Context(), v.ID, video.ID, models.ContentKindVideo)
			if err == nil {
				response["liked"] = liked
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// DeleteVideo removes the caller's own video
// DELETE /api/v1/videos/:id
func (h *Handlers) DeleteVideo(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	videoID := c.Param("id")

	video, err := h.content.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		if err == repository.ErrContentNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Video not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch video",
		})
		return
	}

	if video.UserID != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You can only delete your own videos",
		})
		return
	}

	if err := h.content.DeleteVideo(c.Request.Context(), videoID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "deletion_failed",
			"message": "Failed to delete video",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

// GetUserVideos lists a user's videos, newest first
// GET /api/v1/users/:id/videos
func (h *Handlers) GetUserVideos(c *gin.Context) {
	userID := c.Param("id")
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	videos, err := h.content.UserVideos(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch videos",
		})
		return
	}

	c.JSON(http.StatusOK, h.videoListResponse(c, videos))
}

// videoListResponse annotates videos with the viewer's like state
func (h *Handlers) videoListResponse(c *gin.Context, videos []*models.Video) gin.H {
	likedMap := map[string]bool{}
	if viewer, exists := c.Get("user"); exists {
		if v, ok := viewer.(*models.User); ok && len(videos) > 0 {
			ids := make([]string, len(videos))
			for i, video := range videos {
				ids[i] = video.ID
			}
			if m, err := h.social.LikedContentIDs(c.Request.Context(), v.ID, models.ContentKindVideo, ids); err == nil {
				likedMap = m
			}
		}
	}

	type videoWithLiked struct {
		*models.Video
		Liked bool `json:"liked"`
	}

	annotated := make([]videoWithLiked, len(videos))
	for i, video := range videos {
		annotated[i] = videoWithLiked{Video: video, Liked: likedMap[video.ID]}
	}

	return gin.H{
		"videos": annotated,
		"count":  len(annotated),
	}
}

// ShareVideo bumps a video's share counter
// POST /api/v1/videos/:id/share
func (h *Handlers) ShareVideo(c *gin.Context) {
	if _, ok := util.GetUserFromContext(c); !ok {
		return
	}

	videoID := c.Param("id")

	if err := h.content.IncrementShareCount(c.Request.Context(), videoID); err != nil {
		if err == repository.ErrContentNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Video not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "share_failed",
			"message": "Failed to record share",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share recorded"})
}
