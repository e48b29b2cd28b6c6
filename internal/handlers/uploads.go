package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/util"
)

// maxUploadSize caps media uploads at 50MB
const maxUploadSize = 50 * 1024 * 1024

// UploadMedia stores a media file and returns its URL for use in posts,
// videos, and stories
// POST /api/v1/uploads
func (h *Handlers) UploadMedia(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "uploads_unavailable",
			"message": "Media storage is not configured",
		})
		return
	}

	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no_media_file",
			"message": "No media file provided in 'media' field",
		})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "file_too_large",
			"message": "Media must be under 50MB",
		})
		return
	}

	if err := util.ValidateFilename(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_filename",
			"message": err.Error(),
		})
		return
	}

	if !util.IsValidImageFile(file.Filename) && !util.IsValidVideoFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unsupported_media_type",
			"message": "File must be an image (jpg, png, gif, webp) or video (mp4, mov, webm, m4v)",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "file_open_failed",
			"message": "Failed to open media file",
		})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "file_read_failed",
			"message": "Failed to read media file",
		})
		return
	}

	result, err := h.uploader.UploadMedia(c.Request.Context(), data, currentUser.ID, file.Filename)
	if err != nil {
		logger.Log.Error("Media upload failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "upload_failed",
			"message": "Failed to upload media",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":        result.URL,
		"key":        result.Key,
		"size":       result.Size,
		"media_type": util.MediaTypeFromContentType(result.ContentType),
	})
}

// UploadProfilePicture stores a profile image and points the caller's
// profile at it
// POST /api/v1/uploads/profile
func (h *Handlers) UploadProfilePicture(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "uploads_unavailable",
			"message": "Media storage is not configured",
		})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no_image_file",
			"message": "No image file provided in 'image' field",
		})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "file_too_large",
			"message": "Image must be under 50MB",
		})
		return
	}

	if !util.IsValidImageFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unsupported_media_type",
			"message": "Profile picture must be an image (jpg, png, gif, webp)",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "file_open_failed",
			"message": "Failed to open image file",
		})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "file_read_failed",
			"message": "Failed to read image file",
		})
		return
	}

	result, err := h.uploader.UploadMedia(c.Request.Context(), data, currentUser.ID, file.Filename)
	if err != nil {
		logger.Log.Error("Profile picture upload failed",
			logger.WithUserID(currentUser.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "upload_failed",
			"message": "Failed to upload profile picture",
		})
		return
	}

	currentUser.ProfilePicture = result.URL
	if err := h.users.UpdateUser(c.Request.Context(), currentUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "update_failed",
			"message": "Failed to update profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  result.URL,
		"user": currentUser,
	})
}
