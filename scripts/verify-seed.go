package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/socialfusion/backend/internal/database"
	"github.com/socialfusion/backend/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Verifying seed data...")
	fmt.Println()

	var userCount, postCount, videoCount, storyCount int64
	var followCount, likeCount, commentCount, notificationCount int64

	database.DB.Model(&models.User{}).Count(&userCount)
	database.DB.Model(&models.Post{}).Count(&postCount)
	database.DB.Model(&models.Video{}).Count(&videoCount)
	database.DB.Model(&models.Story{}).Count(&storyCount)
	database.DB.Model(&models.Follow{}).Count(&followCount)
	database.DB.Model(&models.Like{}).Count(&likeCount)
	database.DB.Model(&models.Comment{}).Count(&commentCount)
	database.DB.Model(&models.Notification{}).Count(&notificationCount)

	fmt.Println("Record counts:")
	fmt.Printf("  Users:         %d\n", userCount)
	fmt.Printf("  Posts:         %d\n", postCount)
	fmt.Printf("  Videos:        %d\n", videoCount)
	fmt.Printf("  Stories:       %d\n", storyCount)
	fmt.Printf("  Follows:       %d\n", followCount)
	fmt.Printf("  Likes:         %d\n", likeCount)
	fmt.Printf("  Comments:      %d\n", commentCount)
	fmt.Printf("  Notifications: %d\n", notificationCount)
	fmt.Println()

	var users []models.User
	database.DB.Limit(3).Find(&users)
	fmt.Println("Sample users:")
	for _, u := range users {
		fmt.Printf("  - %s (@%s) - %d posts, %d followers\n",
			u.FullName, u.Username, u.PostCount, u.FollowerCount)
	}
	fmt.Println()

	// Counter integrity spot check
	var mismatched int64
	database.DB.Raw(`
		SELECT COUNT(*) FROM users u
		WHERE u.follower_count != (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id)
	`).Scan(&mismatched)
	if mismatched > 0 {
		fmt.Printf("WARNING: %d users have a follower_count out of sync with the follows table\n", mismatched)
	} else {
		fmt.Println("Follower counters consistent with follow edges")
	}
}
