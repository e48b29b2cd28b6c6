package util

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/socialfusion/backend/internal/repository"
)

// HandleLookupError translates a repository lookup failure into the
// standard JSON error shape. Missing rows, whether reported through a
// repository sentinel or raw gorm, become a 404; anything else is a
// 500. Returns true when a response was written.
func HandleLookupError(c *gin.Context, err error, resource string) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrContentNotFound),
		errors.Is(err, repository.ErrStoryNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": resource + " not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "query_failed",
			"message": "Failed to fetch " + strings.ToLower(resource),
		})
	}
	return true
}
