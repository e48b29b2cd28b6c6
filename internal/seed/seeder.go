package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/models"
)

// Seeder populates the database with realistic development data
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

var (
	interestPool = []string{
		"music", "photography", "travel", "cooking", "fitness", "reading",
		"gaming", "hiking", "painting", "cinema", "fashion", "technology",
		"yoga", "running", "coffee", "gardening",
	}
	skillPool = []string{
		"python", "graphic design", "public speaking", "copywriting",
		"video editing", "project management", "data analysis", "guitar",
		"spanish", "photography", "marketing", "ux design",
	}
	languagePool = []string{
		"english", "spanish", "french", "german", "italian", "portuguese",
		"mandarin", "japanese", "arabic", "hindi",
	}
	preferencePool = []string{
		models.PreferenceLocation,
		models.PreferenceEducation,
		models.PreferenceProfessional,
		models.PreferenceInterests,
	}
	educationPool = []string{
		"Stanford University", "MIT", "University of Milan", "NYU",
		"UC Berkeley", "Politecnico di Torino", "Columbia University",
		"University of Amsterdam",
	}
)

// SeedDev fills the database with a realistic development dataset
func (s *Seeder) SeedDev() error {
	logger.Log.Info("Seeding users...")
	users, err := s.seedUsers(100)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Seeding follows...")
	if err := s.seedFollows(users, 400); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Log.Info("Seeding posts...")
	posts, err := s.seedPosts(users, 300)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Seeding videos...")
	videos, err := s.seedVideos(users, 100)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Seeding stories...")
	if err := s.seedStories(users, 60); err != nil {
		return fmt.Errorf("failed to seed stories: %w", err)
	}

	logger.Log.Info("Seeding likes...")
	if err := s.seedLikes(users, posts, videos, 1500); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Seeding comments...")
	if err := s.seedComments(users, posts, videos, 600); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Seed complete",
		zap.Int("users", len(users)),
		zap.Int("posts", len(posts)),
		zap.Int("videos", len(videos)),
	)
	return nil
}

// SeedTest creates a small fixed set of accounts for end to end tests.
// All of them use the password "password123".
func (s *Seeder) SeedTest() error {
	testUserSpecs := []struct {
		username string
		email    string
		fullName string
		location string
	}{
		{"alice", "alice@example.com", "Alice Smith", "Milan"},
		{"bob", "bob@example.com", "Bob Johnson", "Milan"},
		{"charlie", "charlie@example.com", "Charlie Brown", "Berlin"},
		{"diana", "diana@example.com", "Diana Prince", "New York"},
		{"eve", "eve@example.com", "Eve Wilson", "London"},
	}

	for _, spec := range testUserSpecs {
		var existing models.User
		err := s.db.Where("username = ? OR email = ?", spec.username, spec.email).First(&existing).Error
		if err == nil {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashedStr := string(hashed)

		user := models.User{
			Email:          spec.email,
			Username:       spec.username,
			FullName:       spec.fullName,
			Location:       spec.location,
			PasswordHash:   &hashedStr,
			ProfilePicture: fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", spec.username),
			Interests:      []string{"music", "travel"},
			Languages:      []string{"english"},
		}

		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create test user %s: %w", spec.username, err)
		}
	}

	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)

		user := models.User{
			Email:          fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Username:       username,
			FullName:       gofakeit.Name(),
			PasswordHash:   &hashedStr,
			Bio:            gofakeit.Sentence(10),
			Location:       gofakeit.City(),
			Occupation:     gofakeit.JobTitle(),
			Education:      pick(educationPool),
			ProfilePicture: fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),

			Interests:             pickN(interestPool, 2+rand.Intn(4)),
			Skills:                pickN(skillPool, 1+rand.Intn(3)),
			Languages:             pickN(languagePool, 1+rand.Intn(2)),
			ConnectionPreferences: pickN(preferencePool, rand.Intn(3)),
		}

		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		follower := users[rand.Intn(len(users))]
		following := users[rand.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}

		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Follow{
			FollowerID:  follower.ID,
			FollowingID: following.ID,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}

		if err := s.db.Model(&models.User{}).Where("id = ?", follower.ID).
			Update("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		if err := s.db.Model(&models.User{}).Where("id = ?", following.ID).
			Update("follower_count", gorm.Expr("follower_count + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		post := models.Post{
			UserID:     author.ID,
			Caption:    gofakeit.Sentence(8 + rand.Intn(12)),
			MediaURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1080", gofakeit.UUID()),
			MediaType:  models.MediaTypeImage,
			Visibility: models.VisibilityPublic,
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.User{}).Where("id = ?", author.ID).
			Update("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedVideos(users []models.User, count int) ([]models.Video, error) {
	videos := make([]models.Video, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		video := models.Video{
			UserID:       author.ID,
			Caption:      gofakeit.Sentence(6 + rand.Intn(10)),
			VideoURL:     fmt.Sprintf("https://cdn.socialfusion.app/media/seed/%s.mp4", gofakeit.UUID()),
			ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/720", gofakeit.UUID()),
		}

		if err := s.db.Create(&video).Error; err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *Seeder) seedStories(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]

		story := models.Story{
			UserID:    author.ID,
			MediaURL:  fmt.Sprintf("https://cdn.socialfusion.app/media/seed/%s.jpg", gofakeit.UUID()),
			MediaType: models.MediaTypeImage,
		}
		if err := s.db.Create(&story).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLikes(users []models.User, posts []models.Post, videos []models.Video, count int) error {
	for i := 0; i < count; i++ {
		liker := users[rand.Intn(len(users))]

		var contentID string
		var kind models.ContentKind
		if len(videos) > 0 && rand.Intn(4) == 0 {
			contentID = videos[rand.Intn(len(videos))].ID
			kind = models.ContentKindVideo
		} else {
			contentID = posts[rand.Intn(len(posts))].ID
			kind = models.ContentKindPost
		}

		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{
			UserID:      liker.ID,
			ContentID:   contentID,
			ContentType: kind,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}

		table := "posts"
		if kind == models.ContentKindVideo {
			table = "videos"
		}
		if err := s.db.Exec(
			fmt.Sprintf("UPDATE %s SET like_count = like_count + 1 WHERE id = ?", table),
			contentID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, videos []models.Video, count int) error {
	for i := 0; i < count; i++ {
		commenter := users[rand.Intn(len(users))]

		var contentID string
		var kind models.ContentKind
		if len(videos) > 0 && rand.Intn(4) == 0 {
			contentID = videos[rand.Intn(len(videos))].ID
			kind = models.ContentKindVideo
		} else {
			contentID = posts[rand.Intn(len(posts))].ID
			kind = models.ContentKindPost
		}

		comment := models.Comment{
			UserID:      commenter.ID,
			ContentID:   contentID,
			ContentType: kind,
			Text:        gofakeit.Sentence(4 + rand.Intn(12)),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}

		table := "posts"
		if kind == models.ContentKindVideo {
			table = "videos"
		}
		if err := s.db.Exec(
			fmt.Sprintf("UPDATE %s SET comment_count = comment_count + 1 WHERE id = ?", table),
			contentID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// Clean removes all seed data. Order respects foreign keys.
func (s *Seeder) Clean() error {
	tables := []string{
		"notifications",
		"story_views",
		"stories",
		"likes",
		"comments",
		"follows",
		"videos",
		"posts",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func pick(pool []string) string {
	return pool[rand.Intn(len(pool))]
}

func pickN(pool []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n > len(pool) {
		n = len(pool)
	}
	idx := rand.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
