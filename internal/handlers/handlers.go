package handlers

import (
	"github.com/socialfusion/backend/internal/affinity"
	"github.com/socialfusion/backend/internal/auth"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/storage"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth          auth.AuthServiceInterface
	users         repository.UserRepository
	social        repository.SocialRepository
	content       repository.ContentRepository
	notifications repository.NotificationRepository
	suggestions   *affinity.Engine
	uploader      storage.MediaUploader
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	authService auth.AuthServiceInterface,
	users repository.UserRepository,
	social repository.SocialRepository,
	content repository.ContentRepository,
	notifications repository.NotificationRepository,
) *Handlers {
	return &Handlers{
		auth:          authService,
		users:         users,
		social:        social,
		content:       content,
		notifications: notifications,
	}
}

// SetSuggestionEngine wires in the suggested-users engine
func (h *Handlers) SetSuggestionEngine(engine *affinity.Engine) {
	h.suggestions = engine
}

// SetMediaUploader wires in media storage for uploads
func (h *Handlers) SetMediaUploader(uploader storage.MediaUploader) {
	h.uploader = uploader
}
