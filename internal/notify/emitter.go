package notify

import (
	"github.com/socialfusion/backend/internal/models"
	"gorm.io/gorm"
)

// Emitter writes notification rows for social events. Methods take the
// transaction handle of the operation that triggered the event so the
// notification commits or rolls back with it.
type Emitter struct{}

// NewEmitter creates a notification emitter
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Follow records that actor started following user. A self-event writes
// nothing.
func (e *Emitter) Follow(tx *gorm.DB, userID, actorID string) error {
	if userID == actorID {
		return nil
	}
	notification := models.Notification{
		UserID:  userID,
		Type:    models.NotificationFollow,
		ActorID: actorID,
	}
	return tx.Create(&notification).Error
}

// Like records that actor liked the owner's content. No notification is
// written when a user likes their own content.
func (e *Emitter) Like(tx *gorm.DB, ownerID, actorID, contentID string, kind models.ContentKind) error {
	if ownerID == actorID {
		return nil
	}
	notification := models.Notification{
		UserID:      ownerID,
		Type:        models.NotificationLike,
		ActorID:     actorID,
		ContentID:   &contentID,
		ContentType: &kind,
	}
	return tx.Create(&notification).Error
}

// Comment records that actor commented on the owner's content. Commenting
// on your own content produces no notification.
func (e *Emitter) Comment(tx *gorm.DB, ownerID, actorID, contentID string, kind models.ContentKind) error {
	if ownerID == actorID {
		return nil
	}
	notification := models.Notification{
		UserID:      ownerID,
		Type:        models.NotificationComment,
		ActorID:     actorID,
		ContentID:   &contentID,
		ContentType: &kind,
	}
	return tx.Create(&notification).Error
}
