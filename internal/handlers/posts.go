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

// CreatePost publishes a new post
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Caption    string            `json:"caption" binding:"max=2200"`
		MediaURL   string            `json:"media_url" binding:"required"`
		MediaType  models.MediaType  `json:"media_type"`
		Visibility models.Visibility `json:"visibility"`
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
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPublic
	}

	post := &models.Post{
		UserID:     currentUser.ID,
		Caption:    req.Caption,
		MediaURL:   req.MediaURL,
		MediaType:  req.MediaType,
		Visibility: req.Visibility,
	}

	if err := h.content.CreatePost(c.Request.Context(), post); err != nil {
		logger.Log.Error("Post creation failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "creation_failed",
			"message": "Failed to create post",
		})
		return
	}

	metrics.Get().ContentCreated.WithLabelValues("post").Inc()
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPost returns a single post with its author
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	postID := c.Param("id")

	post, err := h.content.GetPost(c.Request.Context(), postID)
	if util.HandleLookupError(c, err, "Post") {
		return
	}

	response := gin.H{"post": post}
	if viewer, exists := c.Get("user"); exists {
		if v, ok := viewer.(*models.User); ok {
			liked, err := h.social.IsLiked(c.Request.Context(), v.ID, post.ID, models.ContentKindPost)
			if err == nil {
				response["liked"] = liked
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdatePost edits the caption or visibility of the caller's own post
// PUT /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	postID := c.Param("id")

	post, err := h.content.GetPost(c.Request.Context(), postID)
	if err != nil {
		if err == repository.ErrContentNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Post not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch post",
		})
		return
	}

	if post.UserID != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You can only edit your own posts",
		})
		return
	}

	var req struct {
		Caption    *string `json:"caption"`
		Visibility *string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	caption := post.Caption
	if req.Caption != nil {
		caption = *req.Caption
	}
	visibility := post.Visibility
	if req.Visibility != nil {
		switch models.Visibility(*req.Visibility) {
		case models.VisibilityPublic, models.VisibilityConnections:
			visibility = models.Visibility(*req.Visibility)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_visibility",
				"message": "Visibility must be 'public' or 'connections'",
			})
			return
		}
	}

	updated, err := h.content.UpdatePost(c.Request.Context(), postID, caption, visibility)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to update post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}

// DeletePost removes the caller's own post
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	postID := c.Param("id")

	post, err := h.content.GetPost(c.Request.Context(), postID)
	if err != nil {
		if err == repository.ErrContentNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Post not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch post",
		})
		return
	}

	if post.UserID != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You can only delete your own posts",
		})
		return
	}

	if err := h.content.DeletePost(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "deletion_failed",
			"message": "Failed to delete post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// GetUserPosts lists a user's posts, newest first
// GET /api/v1/users/:id/posts
func (h *Handlers) GetUserPosts(c *gin.Context) {
	userID := c.Param("id")
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	posts, err := h.content.UserPosts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch posts",
		})
		return
	}

	// Connections-only posts are visible to the owner and their followers.
	if !h.viewerConnected(c, userID) {
		public := posts[:0]
		for _, p := range posts {
			if p.Visibility == models.VisibilityPublic {
				public = append(public, p)
			}
		}
		posts = public
	}

	c.JSON(http.StatusOK, h.postListResponse(c, posts))
}

// viewerConnected reports whether the request's viewer is ownerID or
// follows them
func (h *Handlers) viewerConnected(c *gin.Context, ownerID string) bool {
	viewer, exists := c.Get("user")
	if !exists {
		return false
	}
	v, ok := viewer.(*models.User)
	if !ok {
		return false
	}
	if v.ID == ownerID {
		return true
	}
	following, err := h.social.IsFollowing(c.Request.Context(), v.ID, ownerID)
	return err == nil && following
}

// postListResponse annotates posts with the viewer's like state
func (h *Handlers) postListResponse(c *gin.Context, posts []*models.Post) gin.H {
	likedMap := map[string]bool{}
	if viewer, exists := c.Get("user"); exists {
		if v, ok := viewer.(*models.User); ok && len(posts) > 0 {
			ids := make([]string, len(posts))
			for i, p := range posts {
				ids[i] = p.ID
			}
			if m, err := h.social.LikedContentIDs(c.Request.Context(), v.ID, models.ContentKindPost, ids); err == nil {
				likedMap = m
			}
		}
	}

	type postWithLiked struct {
		*models.Post
		Liked bool `json:"liked"`
	}

	annotated := make([]postWithLiked, len(posts))
	for i, p := range posts {
		annotated[i] = postWithLiked{Post: p, Liked: likedMap[p.ID]}
	}

	return gin.H{
		"posts": annotated,
		"count": len(annotated),
	}
}
