package repository

import (
	"context"
	"errors"
	"time"

	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/notify"
	"gorm.io/gorm"
)

// ContentRepository handles posts, videos, stories, and comments.
// Feed queries return the caller's own content plus content from accounts
// they follow, newest first. Story reads never return expired rows.
type ContentRepository interface {
	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, caption string, visibility models.Visibility) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	UserPosts(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error)
	FeedPosts(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error)

	// Videos
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID string) error
	UserVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error)
	FeedVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error)
	IncrementShareCount(ctx context.Context, videoID string) error

	// Stories
	CreateStory(ctx context.Context, story *models.Story) error
	GetStory(ctx context.Context, storyID string) (*models.Story, error)
	UserStories(ctx context.Context, userID string) ([]*models.Story, error)
	FeedStories(ctx context.Context, userID string) ([]*models.Story, error)
	DeleteExpiredStories(ctx context.Context, before time.Time) (int64, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID, userID string) error
	ContentComments(ctx context.Context, contentID string, kind models.ContentKind, limit, offset int) ([]*models.Comment, error)
}

type contentRepository struct {
	db      *gorm.DB
	emitter *notify.Emitter
}

// NewContentRepository creates a content repository
func NewContentRepository(db *gorm.DB, emitter *notify.Emitter) ContentRepository {
	return &contentRepository{db: db, emitter: emitter}
}

// CreatePost inserts the post and bumps the author's post counter in the
// same transaction
func (r *contentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.UserID == "" || post.MediaURL == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", post.UserID).
			Update("post_count", gorm.Expr("post_count + 1")).Error
	})
}

// GetPost gets a post with its author preloaded
func (r *contentRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, "id = ?", postID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}

	return &post, err
}

// UpdatePost rewrites a post's caption and visibility and returns the
// updated row
func (r *contentRepository) UpdatePost(ctx context.Context, postID, caption string, visibility models.Visibility) (*models.Post, error) {
	if postID == "" {
		return nil, ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"caption":    caption,
			"visibility": visibility,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrContentNotFound
	}

	return r.GetPost(ctx, postID)
}

// DeletePost removes the post with its likes and comments and decrements
// the author's post counter, never below zero
func (r *contentRepository) DeletePost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		if err := tx.Where("content_id = ? AND content_type = ?", postID, models.ContentKindPost).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ? AND content_type = ?", postID, models.ContentKindPost).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, "id = ?", postID).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND post_count > 0", post.UserID).
			Update("post_count", gorm.Expr("post_count - 1")).Error
	})
}

// UserPosts lists a user's posts, newest first
func (r *contentRepository) UserPosts(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// FeedPosts lists the user's own posts plus posts from followed accounts
func (r *contentRepository) FeedPosts(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post

	followed := r.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// CreateVideo inserts a video
func (r *contentRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video == nil || video.UserID == "" || video.VideoURL == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(video).Error
}

// GetVideo gets a video with its author preloaded
func (r *contentRepository) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&video, "id = ?", videoID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContentNotFound
	}

	return &video, err
}

// DeleteVideo removes the video with its likes and comments
func (r *contentRepository) DeleteVideo(ctx context.Context, videoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.Select("id").First(&video, "id = ?", videoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}

		if err := tx.Where("content_id = ? AND content_type = ?", videoID, models.ContentKindVideo).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ? AND content_type = ?", videoID, models.ContentKindVideo).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, "id = ?", videoID).Error
	})
}

// UserVideos lists a user's videos, newest first
func (r *contentRepository) UserVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error

	return videos, err
}

// FeedVideos lists the user's own videos plus videos from followed accounts
func (r *contentRepository) FeedVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error) {
	var videos []*models.Video

	followed := r.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error

	return videos, err
}

// IncrementShareCount bumps a video's share counter
func (r *contentRepository) IncrementShareCount(ctx context.Context, videoID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", videoID).
		Update("share_count", gorm.Expr("share_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

// CreateStory inserts a story. Expiry is stamped by the model hook.
func (r *contentRepository) CreateStory(ctx context.Context, story *models.Story) error {
	if story == nil || story.UserID == "" || story.MediaURL == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(story).Error
}

// GetStory gets an unexpired story with its author preloaded
func (r *contentRepository) GetStory(ctx context.Context, storyID string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("expires_at > ?", time.Now().UTC()).
		First(&story, "id = ?", storyID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoryNotFound
	}

	return &story, err
}

// UserStories lists a user's unexpired stories, newest first
func (r *contentRepository) UserStories(ctx context.Context, userID string) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND expires_at > ?", userID, time.Now().UTC()).
		Order("created_at DESC").
		Find(&stories).Error

	return stories, err
}

// FeedStories lists unexpired stories from the user and followed accounts
func (r *contentRepository) FeedStories(ctx context.Context, userID string) ([]*models.Story, error) {
	var stories []*models.Story

	followed := r.db.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("expires_at > ?", time.Now().UTC()).
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC").
		Find(&stories).Error

	return stories, err
}

// DeleteExpiredStories removes stories past their expiry along with their
// view rows, returning how many stories were purged
func (r *contentRepository) DeleteExpiredStories(ctx context.Context, before time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expiredIDs []string
		if err := tx.Model(&models.Story{}).
			Where("expires_at <= ?", before).
			Pluck("id", &expiredIDs).Error; err != nil {
			return err
		}
		if len(expiredIDs) == 0 {
			return nil
		}

		if err := tx.Where("story_id IN ?", expiredIDs).
			Delete(&models.StoryView{}).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", expiredIDs).Delete(&models.Story{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})

	return purged, err
}

// CreateComment inserts the comment, bumps the content's comment counter,
// and notifies the content owner, all in one transaction
func (r *contentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil || comment.UserID == "" || comment.ContentID == "" || comment.Text == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownerID, err := contentOwner(tx, comment.ContentID, comment.ContentType)
		if err != nil {
			return err
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := incrementCounter(tx, comment.ContentType, comment.ContentID, "comment_count", 1); err != nil {
			return err
		}

		return r.emitter.Comment(tx, ownerID, comment.UserID, comment.ContentID, comment.ContentType)
	})
}

// DeleteComment removes a comment owned by userID and decrements the
// content's comment counter, never below zero
func (r *contentRepository) DeleteComment(ctx context.Context, commentID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContentNotFound
			}
			return err
		}
		if comment.UserID != userID {
			return ErrInvalidInput
		}

		if err := tx.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
			return err
		}

		return incrementCounter(tx, comment.ContentType, comment.ContentID, "comment_count", -1)
	})
}

// ContentComments lists comments on a content item, oldest first, with
// authors preloaded
func (r *contentRepository) ContentComments(ctx context.Context, contentID string, kind models.ContentKind, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error

	return comments, err
}
