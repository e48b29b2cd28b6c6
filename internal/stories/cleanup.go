package stories

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/database"
	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/repository"
)

// FileDeleter removes an uploaded object from media storage.
type FileDeleter interface {
	DeleteFile(ctx context.Context, key string) error
}

// CleanupService periodically purges stories whose expiry has passed,
// along with their view records and media objects.
type CleanupService struct {
	content     repository.ContentRepository
	fileDeleter FileDeleter
	ctx         context.Context
	cancel      context.CancelFunc
	interval    time.Duration
}

// NewCleanupService creates a cleanup service that runs on the given interval.
func NewCleanupService(content repository.ContentRepository, fileDeleter FileDeleter, interval time.Duration) *CleanupService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CleanupService{
		content:     content,
		fileDeleter: fileDeleter,
		ctx:         ctx,
		cancel:      cancel,
		interval:    interval,
	}
}

// Start begins the periodic cleanup loop.
func (s *CleanupService) Start() {
	logger.InfoWithFields("Starting story cleanup service", zap.Duration("interval", s.interval))
	go s.run()
}

// Stop halts the cleanup loop.
func (s *CleanupService) Stop() {
	logger.InfoWithFields("Stopping story cleanup service")
	s.cancel()
}

func (s *CleanupService) run() {
	// Run once on startup, then on the interval.
	s.cleanupExpiredStories()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpiredStories()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *CleanupService) cleanupExpiredStories() {
	start := time.Now()
	now := time.Now().UTC()

	// Collect media URLs before the rows disappear so the objects can be
	// removed from storage afterwards.
	var mediaURLs []string
	if s.fileDeleter != nil {
		if err := database.DB.Model(&models.Story{}).
			Where("expires_at <= ?", now).
			Pluck("media_url", &mediaURLs).Error; err != nil {
			logger.ErrorWithFields("Failed to collect expired story media URLs", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	purged, err := s.content.DeleteExpiredStories(ctx, now)
	if err != nil {
		logger.ErrorWithFields("Story cleanup failed", err)
		return
	}
	if purged == 0 {
		return
	}

	mediaDeleted := 0
	for _, url := range mediaURLs {
		key := extractStorageKey(url)
		if key == "" {
			continue
		}
		if err := s.deleteMedia(key); err != nil {
			logger.Warn("Failed to delete story media object",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		mediaDeleted++
	}

	logger.InfoWithFields("Story cleanup completed",
		zap.Int64("stories_purged", purged),
		zap.Int("media_deleted", mediaDeleted),
		zap.Duration("duration", time.Since(start)))
}

func (s *CleanupService) deleteMedia(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.fileDeleter.DeleteFile(ctx, key)
}

// extractStorageKey pulls the object key out of a CDN or S3 URL.
// https://cdn.example.com/media/2026/01/user123/file.jpg -> media/2026/01/user123/file.jpg
func extractStorageKey(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 4 {
		return ""
	}
	for i, part := range parts {
		if part == "media" || part == "stories" {
			return strings.Join(parts[i:], "/")
		}
	}
	return ""
}
