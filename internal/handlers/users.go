package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/affinity"
	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/util"
)

// GetUser returns a user's public profile
// GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if util.HandleLookupError(c, err, "User") {
		return
	}

	response := gin.H{"user": user}

	// Include the relationship when the viewer is authenticated.
	if viewer, exists := c.Get("user"); exists {
		if v, ok := viewer.(*models.User); ok && v.ID != user.ID {
			following, err := h.social.IsFollowing(c.Request.Context(), v.ID, user.ID)
			if err == nil {
				response["is_following"] = following
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateProfileRequest holds the editable profile fields. Pointer fields
// distinguish "not sent" from "clear this value".
type UpdateProfileRequest struct {
	FullName       *string             `json:"full_name,omitempty"`
	Bio            *string             `json:"bio,omitempty"`
	Website        *string             `json:"website,omitempty"`
	Location       *string             `json:"location,omitempty"`
	Occupation     *string             `json:"occupation,omitempty"`
	Education      *string             `json:"education,omitempty"`
	Birthdate      *string             `json:"birthdate,omitempty"`
	ProfilePicture *string             `json:"profile_picture,omitempty"`
	SocialLinks    *models.SocialLinks `json:"social_links,omitempty"`

	Interests             *[]string `json:"interests,omitempty"`
	Skills                *[]string `json:"skills,omitempty"`
	Languages             *[]string `json:"languages,omitempty"`
	ConnectionPreferences *[]string `json:"connection_preferences,omitempty"`
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/v1/users/me
func (h *Handlers) UpdateProfile(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if req.FullName != nil {
		currentUser.FullName = *req.FullName
	}
	if req.Bio != nil {
		currentUser.Bio = *req.Bio
	}
	if req.Website != nil {
		currentUser.Website = *req.Website
	}
	if req.Location != nil {
		currentUser.Location = *req.Location
	}
	if req.Occupation != nil {
		currentUser.Occupation = *req.Occupation
	}
	if req.Education != nil {
		currentUser.Education = *req.Education
	}
	if req.Birthdate != nil {
		currentUser.Birthdate = *req.Birthdate
	}
	if req.ProfilePicture != nil {
		currentUser.ProfilePicture = *req.ProfilePicture
	}
	if req.SocialLinks != nil {
		currentUser.SocialLinks = req.SocialLinks
	}
	if req.Interests != nil {
		currentUser.Interests = *req.Interests
	}
	if req.Skills != nil {
		currentUser.Skills = *req.Skills
	}
	if req.Languages != nil {
		currentUser.Languages = *req.Languages
	}
	if req.ConnectionPreferences != nil {
		currentUser.ConnectionPreferences = *req.ConnectionPreferences
	}

	if err := h.users.UpdateUser(c.Request.Context(), currentUser); err != nil {
		logger.Log.Error("Profile update failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to update profile",
		})
		return
	}

	// Profile changes feed the suggestion scores.
	if h.suggestions != nil {
		h.suggestions.Invalidate(c.Request.Context(), currentUser.ID)
	}

	c.JSON(http.StatusOK, gin.H{"user": currentUser})
}

// SearchUsers finds users by username or full name
// GET /api/v1/users/search?q=...
func (h *Handlers) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_query",
			"message": "Search query 'q' is required",
		})
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	users, err := h.users.SearchUsers(c.Request.Context(), query, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "search_failed",
			"message": "Failed to search users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetFollowers lists the users following the given user
// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	userID := c.Param("id")
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	followers, err := h.users.GetFollowers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch followers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"count":     len(followers),
	})
}

// GetFollowing lists the users the given user follows
// GET /api/v1/users/:id/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	userID := c.Param("id")
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	offset := util.ParseInt(c.DefaultQuery("offset", "0"), 0)

	following, err := h.users.GetFollowing(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch following",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"count":     len(following),
	})
}

// GetSuggestedUsers returns profile-affinity ranked follow suggestions.
// The :id form only serves the caller's own suggestions.
// GET /api/v1/users/suggested?limit=5
// GET /api/v1/users/:id/suggested?limit=5
func (h *Handlers) GetSuggestedUsers(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if id := c.Param("id"); id != "" && id != currentUser.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Suggestions are only available for the authenticated user",
		})
		return
	}

	if h.suggestions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "suggestions_unavailable",
			"message": "Suggestion engine is not configured",
		})
		return
	}

	limit := util.ParseInt(c.DefaultQuery("limit", "0"), 0)
	if limit < 0 || limit > 50 {
		limit = affinity.DefaultLimit
	}

	start := time.Now()
	suggested, err := h.suggestions.SuggestedUsers(c.Request.Context(), currentUser, limit)
	if err != nil {
		logger.Log.Error("Suggestion lookup failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "suggestions_failed",
			"message": "Failed to compute suggestions",
		})
		return
	}
	metrics.Get().SuggestionDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{
		"users": suggested,
		"count": len(suggested),
	})
}
