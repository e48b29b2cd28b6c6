package repository

import (
	"context"
	"errors"
	"time"

	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialRepository handles follow, like, and story view edges. All
// mutations are idempotent: repeating one is a no-op and leaves every
// counter unchanged. The boolean result reports whether the edge was
// actually created or removed.
type SocialRepository interface {
	Follow(ctx context.Context, followerID, followingID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)

	LikeContent(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error)
	UnlikeContent(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error)
	IsLiked(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error)
	LikedContentIDs(ctx context.Context, userID string, kind models.ContentKind, contentIDs []string) (map[string]bool, error)
	ContentLikes(ctx context.Context, contentID string, kind models.ContentKind) ([]*models.Like, error)

	ViewStory(ctx context.Context, storyID, viewerID string) (bool, error)
	ViewedStoryIDs(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error)
	StoryViewers(ctx context.Context, storyID string, limit, offset int) ([]*models.User, error)
}

type socialRepository struct {
	db      *gorm.DB
	emitter *notify.Emitter
}

// NewSocialRepository creates a social graph repository
func NewSocialRepository(db *gorm.DB, emitter *notify.Emitter) SocialRepository {
	return &socialRepository{db: db, emitter: emitter}
}

// Follow creates a follow edge, bumps both counters, and notifies the
// followed user. Runs in one transaction keyed on the unique follow index
// so concurrent duplicates collapse to a single edge.
func (r *socialRepository) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, ErrInvalidInput
	}
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, "id = ?", followingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already following
			return nil
		}
		created = true

		if err := tx.Model(&models.User{}).Where("id = ?", followingID).
			Update("follower_count", gorm.Expr("follower_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			Update("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}

		return r.emitter.Follow(tx, followingID, followerID)
	})

	return created, err
}

// Unfollow removes a follow edge and decrements both counters, never
// below zero. Removing an absent edge is a no-op.
func (r *socialRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, ErrInvalidInput
	}

	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Model(&models.User{}).
			Where("id = ? AND follower_count > 0", followingID).
			Update("follower_count", gorm.Expr("follower_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND following_count > 0", followerID).
			Update("following_count", gorm.Expr("following_count - 1")).Error
	})

	return removed, err
}

// IsFollowing checks if follower follows following
func (r *socialRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error

	return count > 0, err
}

// FollowingIDs returns the IDs of every user the given user follows
func (r *socialRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error

	return ids, err
}

// LikeContent records a like, bumps the content's like counter, and
// notifies the owner. Liking already-liked content changes nothing.
func (r *socialRepository) LikeContent(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error) {
	if userID == "" || contentID == "" {
		return false, ErrInvalidInput
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownerID, err := contentOwner(tx, contentID, kind)
		if err != nil {
			return err
		}

		like := models.Like{UserID: userID, ContentID: contentID, ContentType: kind}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		if err := incrementCounter(tx, kind, contentID, "like_count", 1); err != nil {
			return err
		}

		return r.emitter.Like(tx, ownerID, userID, contentID, kind)
	})

	return created, err
}

// UnlikeContent removes a like and decrements the like counter, never
// below zero. Unliking content that was never liked is a no-op.
func (r *socialRepository) UnlikeContent(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error) {
	if userID == "" || contentID == "" {
		return false, ErrInvalidInput
	}

	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND content_id = ? AND content_type = ?", userID, contentID, kind).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		return incrementCounter(tx, kind, contentID, "like_count", -1)
	})

	return removed, err
}

// IsLiked checks whether the user has liked the content
func (r *socialRepository) IsLiked(ctx context.Context, userID, contentID string, kind models.ContentKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND content_id = ? AND content_type = ?", userID, contentID, kind).
		Count(&count).Error

	return count > 0, err
}

// LikedContentIDs returns which of the given content IDs the user has liked
func (r *socialRepository) LikedContentIDs(ctx context.Context, userID string, kind models.ContentKind, contentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(contentIDs))
	if len(contentIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND content_type = ? AND content_id IN ?", userID, kind, contentIDs).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ContentLikes lists the like rows for a content item
func (r *socialRepository) ContentLikes(ctx context.Context, contentID string, kind models.ContentKind) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND content_type = ?", contentID, kind).
		Order("created_at DESC").
		Find(&likes).Error

	return likes, err
}

// ViewStory records a story view and bumps the view counter. A viewer
// counts once per story no matter how many times they open it. Expired
// stories read as missing, and owners viewing their own story leave no
// trace.
func (r *socialRepository) ViewStory(ctx context.Context, storyID, viewerID string) (bool, error) {
	if storyID == "" || viewerID == "" {
		return false, ErrInvalidInput
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		if err := tx.Select("id", "user_id").
			Where("expires_at > ?", time.Now().UTC()).
			First(&story, "id = ?", storyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoryNotFound
			}
			return err
		}
		if story.UserID == viewerID {
			return nil
		}

		view := models.StoryView{StoryID: storyID, ViewerID: viewerID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&view)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		return tx.Model(&models.Story{}).Where("id = ?", storyID).
			Update("view_count", gorm.Expr("view_count + 1")).Error
	})

	return created, err
}

// ViewedStoryIDs returns which of the given stories the viewer has seen
func (r *socialRepository) ViewedStoryIDs(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	viewed := make(map[string]bool, len(storyIDs))
	if len(storyIDs) == 0 {
		return viewed, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.StoryView{}).
		Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		viewed[id] = true
	}
	return viewed, nil
}

// StoryViewers lists users who viewed a story, most recent first
func (r *socialRepository) StoryViewers(ctx context.Context, storyID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN story_views ON story_views.viewer_id = users.id").
		Where("story_views.story_id = ?", storyID).
		Order("story_views.viewed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error

	return users, err
}

// contentOwner resolves the owning user for a post or video
func contentOwner(tx *gorm.DB, contentID string, kind models.ContentKind) (string, error) {
	switch kind {
	case models.ContentKindPost:
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, "id = ?", contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrContentNotFound
			}
			return "", err
		}
		return post.UserID, nil
	case models.ContentKindVideo:
		var video models.Video
		if err := tx.Select("id", "user_id").First(&video, "id = ?", contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrContentNotFound
			}
			return "", err
		}
		return video.UserID, nil
	default:
		return "", ErrInvalidInput
	}
}

// incrementCounter adjusts a counter column on posts or videos. Negative
// deltas clamp at zero.
func incrementCounter(tx *gorm.DB, kind models.ContentKind, contentID, column string, delta int) error {
	var model interface{}
	switch kind {
	case models.ContentKindPost:
		model = &models.Post{}
	case models.ContentKindVideo:
		model = &models.Video{}
	default:
		return ErrInvalidInput
	}

	query := tx.Model(model).Where("id = ?", contentID)
	if delta < 0 {
		query = query.Where(column + " > 0")
	}
	return query.Update(column, gorm.Expr(column+" + ?", delta)).Error
}
