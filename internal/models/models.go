package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaType classifies uploaded media attached to posts and stories.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// ContentKind identifies which table a comment or like points at.
type ContentKind string

const (
	ContentKindPost  ContentKind = "post"
	ContentKindVideo ContentKind = "video"
)

// Visibility controls who can see a post.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityConnections Visibility = "connections"
)

// NotificationType is the kind of event a notification records.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Connection preference values a user may list to boost suggestion scores.
const (
	PreferenceLocation     = "location"
	PreferenceEducation    = "education"
	PreferenceProfessional = "professional"
	PreferenceInterests    = "interests"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// SocialLinks holds a user's external profile URLs plus a WhatsApp
// contact number.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
}

// User is a registered account with its public profile and denormalized
// social counters.
type User struct {
	ID           string  `json:"id" gorm:"type:uuid;primary_key"`
	Username     string  `json:"username" gorm:"uniqueIndex;not null"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash *string `json:"-"`
	FullName     string  `json:"full_name" gorm:"not null"`

	Bio            string       `json:"bio"`
	ProfilePicture string       `json:"profile_picture"`
	Website        string       `json:"website"`
	Location       string       `json:"location"`
	Occupation     string       `json:"occupation"`
	Education      string       `json:"education"`
	Birthdate      string       `json:"birthdate"`
	SocialLinks    *SocialLinks `json:"social_links,omitempty" gorm:"type:jsonb;serializer:json"`

	Interests             []string `json:"interests" gorm:"type:jsonb;serializer:json"`
	Skills                []string `json:"skills" gorm:"type:jsonb;serializer:json"`
	Languages             []string `json:"languages" gorm:"type:jsonb;serializer:json"`
	ConnectionPreferences []string `json:"connection_preferences" gorm:"type:jsonb;serializer:json"`

	GoogleID   *string `json:"-" gorm:"uniqueIndex"`
	FacebookID *string `json:"-" gorm:"uniqueIndex"`

	FollowerCount  int `json:"follower_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostCount      int `json:"post_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

// Post is a feed entry with a single media attachment.
type Post struct {
	ID         string     `json:"id" gorm:"type:uuid;primary_key"`
	UserID     string     `json:"user_id" gorm:"type:uuid;not null;index"`
	User       User       `json:"user" gorm:"foreignKey:UserID"`
	Caption    string     `json:"caption"`
	MediaURL   string     `json:"media_url" gorm:"not null"`
	MediaType  MediaType  `json:"media_type" gorm:"not null;default:'image'"`
	Visibility Visibility `json:"visibility" gorm:"not null;default:'public'"`

	LikeCount    int `json:"like_count" gorm:"default:0"`
	CommentCount int `json:"comment_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

// Video is a short-form clip with its own engagement counters.
type Video struct {
	ID           string `json:"id" gorm:"type:uuid;primary_key"`
	UserID       string `json:"user_id" gorm:"type:uuid;not null;index"`
	User         User   `json:"user" gorm:"foreignKey:UserID"`
	Caption      string `json:"caption"`
	VideoURL     string `json:"video_url" gorm:"not null"`
	ThumbnailURL string `json:"thumbnail_url"`

	LikeCount    int `json:"like_count" gorm:"default:0"`
	CommentCount int `json:"comment_count" gorm:"default:0"`
	ShareCount   int `json:"share_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = generateUUID()
	}
	return nil
}

// Story is an ephemeral media item that disappears after StoryTTL.
type Story struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	MediaURL  string    `json:"media_url" gorm:"not null"`
	MediaType MediaType `json:"media_type" gorm:"not null;default:'image'"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	ViewCount int       `json:"view_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate stamps the expiry server-side; any caller-supplied value
// is overwritten.
func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	s.ExpiresAt = time.Now().UTC().Add(StoryTTL)
	return nil
}

// Expired reports whether the story is past its expiry at the given time.
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StoryView records that a viewer has seen a story, once per pair.
type StoryView struct {
	ID       string    `json:"id" gorm:"type:uuid;primary_key"`
	StoryID  string    `json:"story_id" gorm:"type:uuid;not null;uniqueIndex:idx_story_views_story_viewer"`
	ViewerID string    `json:"viewer_id" gorm:"type:uuid;not null;uniqueIndex:idx_story_views_story_viewer"`
	ViewedAt time.Time `json:"viewed_at"`
}

func (sv *StoryView) BeforeCreate(tx *gorm.DB) error {
	if sv.ID == "" {
		sv.ID = generateUUID()
	}
	if sv.ViewedAt.IsZero() {
		sv.ViewedAt = time.Now().UTC()
	}
	return nil
}

// Comment is attached to a post or video via ContentID/ContentType.
type Comment struct {
	ID          string      `json:"id" gorm:"type:uuid;primary_key"`
	UserID      string      `json:"user_id" gorm:"type:uuid;not null;index"`
	User        User        `json:"user" gorm:"foreignKey:UserID"`
	ContentID   string      `json:"content_id" gorm:"type:uuid;not null;index:idx_comments_content"`
	ContentType ContentKind `json:"content_type" gorm:"not null;index:idx_comments_content"`
	Text        string      `json:"text" gorm:"not null"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

// Follow is a directed edge from follower to followed user.
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	FollowerID  string    `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_follower_following"`
	FollowingID string    `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_follower_following;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

// Like marks that a user liked a post or video, once per triple.
type Like struct {
	ID          string      `json:"id" gorm:"type:uuid;primary_key"`
	UserID      string      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_content"`
	ContentID   string      `json:"content_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_content;index"`
	ContentType ContentKind `json:"content_type" gorm:"not null;uniqueIndex:idx_likes_user_content"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

// Notification tells a user that someone interacted with them or their
// content. Actor is the user who triggered it.
type Notification struct {
	ID          string           `json:"id" gorm:"type:uuid;primary_key"`
	UserID      string           `json:"user_id" gorm:"type:uuid;not null;index"`
	Type        NotificationType `json:"type" gorm:"not null"`
	ActorID     string           `json:"actor_id" gorm:"type:uuid;not null"`
	Actor       User             `json:"actor" gorm:"foreignKey:ActorID"`
	ContentID   *string          `json:"content_id,omitempty" gorm:"type:uuid"`
	ContentType *ContentKind     `json:"content_type,omitempty"`
	Read        bool             `json:"read" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}
