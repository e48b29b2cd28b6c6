package repository

import (
	"context"
	"time"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *RepositoryTestSuite) TestCreatePostBumpsPostCount() {
	post := suite.createPost(suite.alice.ID)

	suite.NotEmpty(post.ID)
	suite.Equal(1, suite.reloadUser(suite.alice.ID).PostCount)
}

func (suite *RepositoryTestSuite) TestCreatePostRequiresMediaURL() {
	err := suite.content.CreatePost(context.Background(), &models.Post{UserID: suite.alice.ID})
	suite.ErrorIs(err, ErrInvalidInput)
}

func (suite *RepositoryTestSuite) TestGetUnknownPost() {
	_, err := suite.content.GetPost(context.Background(), "00000000-0000-0000-0000-000000000000")
	suite.ErrorIs(err, ErrContentNotFound)
}

func (suite *RepositoryTestSuite) TestUpdatePost() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	updated, err := suite.content.UpdatePost(ctx, post.ID, "new caption", models.VisibilityConnections)
	suite.NoError(err)
	suite.Equal("new caption", updated.Caption)
	suite.Equal(models.VisibilityConnections, updated.Visibility)
}

func (suite *RepositoryTestSuite) TestUpdateUnknownPost() {
	_, err := suite.content.UpdatePost(context.Background(),
		"00000000-0000-0000-0000-000000000000", "caption", models.VisibilityPublic)
	suite.ErrorIs(err, ErrContentNotFound)
}

func (suite *RepositoryTestSuite) TestDeletePostCascades() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	_, err := suite.social.LikeContent(ctx, suite.bob.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)
	err = suite.content.CreateComment(ctx, &models.Comment{
		UserID:      suite.bob.ID,
		ContentID:   post.ID,
		ContentType: models.ContentKindPost,
		Text:        "nice",
	})
	suite.NoError(err)

	suite.NoError(suite.content.DeletePost(ctx, post.ID))

	var likes, comments int64
	suite.db.Model(&models.Like{}).Where("content_id = ?", post.ID).Count(&likes)
	suite.db.Model(&models.Comment{}).Where("content_id = ?", post.ID).Count(&comments)
	suite.Equal(int64(0), likes)
	suite.Equal(int64(0), comments)
	suite.Equal(0, suite.reloadUser(suite.alice.ID).PostCount)
}

func (suite *RepositoryTestSuite) TestFeedPostsScope() {
	ctx := context.Background()

	own := suite.createPost(suite.alice.ID)
	followed := suite.createPost(suite.bob.ID)
	suite.createPost(suite.carol.ID)

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	feed, err := suite.content.FeedPosts(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(feed, 2)

	ids := []string{feed[0].ID, feed[1].ID}
	suite.ElementsMatch([]string{own.ID, followed.ID}, ids)
}

func (suite *RepositoryTestSuite) TestFeedPostsNewestFirst() {
	ctx := context.Background()

	older := suite.createPost(suite.alice.ID)
	newer := suite.createPost(suite.alice.ID)

	suite.Require().NoError(suite.db.Model(older).
		Update("created_at", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)).Error)
	suite.Require().NoError(suite.db.Model(newer).
		Update("created_at", time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)).Error)

	feed, err := suite.content.FeedPosts(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(feed, 2)
	suite.Equal(newer.ID, feed[0].ID)
	suite.Equal(older.ID, feed[1].ID)
}

func (suite *RepositoryTestSuite) TestIncrementShareCount() {
	ctx := context.Background()
	video := suite.createVideo(suite.alice.ID)

	suite.NoError(suite.content.IncrementShareCount(ctx, video.ID))
	suite.NoError(suite.content.IncrementShareCount(ctx, video.ID))

	reloaded, err := suite.content.GetVideo(ctx, video.ID)
	suite.NoError(err)
	suite.Equal(2, reloaded.ShareCount)
}

func (suite *RepositoryTestSuite) TestIncrementShareCountUnknownVideo() {
	err := suite.content.IncrementShareCount(context.Background(),
		"00000000-0000-0000-0000-000000000000")
	suite.ErrorIs(err, ErrContentNotFound)
}

func (suite *RepositoryTestSuite) TestStoryExpiryStampedOnCreate() {
	story := suite.createStory(suite.alice.ID)

	remaining := time.Until(story.ExpiresAt)
	suite.Greater(remaining, 23*time.Hour)
	suite.LessOrEqual(remaining, 24*time.Hour)
}

func (suite *RepositoryTestSuite) TestGetStoryHidesExpired() {
	ctx := context.Background()
	story := suite.createStory(suite.alice.ID)

	_, err := suite.content.GetStory(ctx, story.ID)
	suite.NoError(err)

	suite.expireStory(story)

	_, err = suite.content.GetStory(ctx, story.ID)
	suite.ErrorIs(err, ErrStoryNotFound)
}

func (suite *RepositoryTestSuite) TestFeedStoriesScope() {
	ctx := context.Background()

	own := suite.createStory(suite.alice.ID)
	followed := suite.createStory(suite.bob.ID)
	expired := suite.createStory(suite.bob.ID)
	suite.createStory(suite.carol.ID)
	suite.expireStory(expired)

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	feed, err := suite.content.FeedStories(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Require().Len(feed, 2)

	ids := []string{feed[0].ID, feed[1].ID}
	suite.ElementsMatch([]string{own.ID, followed.ID}, ids)
}

func (suite *RepositoryTestSuite) TestUserStoriesHideExpired() {
	ctx := context.Background()

	active := suite.createStory(suite.alice.ID)
	expired := suite.createStory(suite.alice.ID)
	suite.expireStory(expired)

	stories, err := suite.content.UserStories(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Require().Len(stories, 1)
	suite.Equal(active.ID, stories[0].ID)
}

func (suite *RepositoryTestSuite) TestDeleteExpiredStories() {
	ctx := context.Background()

	active := suite.createStory(suite.alice.ID)
	expired := suite.createStory(suite.alice.ID)
	_, err := suite.social.ViewStory(ctx, expired.ID, suite.bob.ID)
	suite.NoError(err)
	suite.expireStory(expired)

	purged, err := suite.content.DeleteExpiredStories(ctx, time.Now().UTC())
	suite.NoError(err)
	suite.Equal(int64(1), purged)

	var stories, views int64
	suite.db.Model(&models.Story{}).Count(&stories)
	suite.db.Model(&models.StoryView{}).Where("story_id = ?", expired.ID).Count(&views)
	suite.Equal(int64(1), stories)
	suite.Equal(int64(0), views)

	_, err = suite.content.GetStory(ctx, active.ID)
	suite.NoError(err)
}

func (suite *RepositoryTestSuite) TestDeleteExpiredStoriesNothingToPurge() {
	suite.createStory(suite.alice.ID)

	purged, err := suite.content.DeleteExpiredStories(context.Background(), time.Now().UTC())
	suite.NoError(err)
	suite.Equal(int64(0), purged)
}

func (suite *RepositoryTestSuite) TestCreateCommentBumpsCounterAndNotifies() {
	ctx := context.Background()
	post := suite.createPost(suite.bob.ID)

	err := suite.content.CreateComment(ctx, &models.Comment{
		UserID:      suite.alice.ID,
		ContentID:   post.ID,
		ContentType: models.ContentKindPost,
		Text:        "great shot",
	})
	suite.NoError(err)

	reloaded, err := suite.content.GetPost(ctx, post.ID)
	suite.NoError(err)
	suite.Equal(1, reloaded.CommentCount)

	unread, err := suite.notifications.UnreadCount(ctx, suite.bob.ID)
	suite.NoError(err)
	suite.Equal(int64(1), unread)
}

func (suite *RepositoryTestSuite) TestCommentOnOwnContentSkipsNotification() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	err := suite.content.CreateComment(ctx, &models.Comment{
		UserID:      suite.alice.ID,
		ContentID:   post.ID,
		ContentType: models.ContentKindPost,
		Text:        "first",
	})
	suite.NoError(err)

	unread, err := suite.notifications.UnreadCount(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Equal(int64(0), unread)
}

func (suite *RepositoryTestSuite) TestDeleteCommentRequiresOwner() {
	ctx := context.Background()
	post := suite.createPost(suite.bob.ID)

	comment := &models.Comment{
		UserID:      suite.alice.ID,
		ContentID:   post.ID,
		ContentType: models.ContentKindPost,
		Text:        "mine",
	}
	suite.Require().NoError(suite.content.CreateComment(ctx, comment))

	err := suite.content.DeleteComment(ctx, comment.ID, suite.carol.ID)
	suite.ErrorIs(err, ErrInvalidInput)

	suite.NoError(suite.content.DeleteComment(ctx, comment.ID, suite.alice.ID))

	reloaded, err := suite.content.GetPost(ctx, post.ID)
	suite.NoError(err)
	suite.Equal(0, reloaded.CommentCount)
}

func (suite *RepositoryTestSuite) TestContentCommentsOldestFirst() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	first := &models.Comment{
		UserID: suite.bob.ID, ContentID: post.ID,
		ContentType: models.ContentKindPost, Text: "first",
	}
	second := &models.Comment{
		UserID: suite.carol.ID, ContentID: post.ID,
		ContentType: models.ContentKindPost, Text: "second",
	}
	suite.Require().NoError(suite.content.CreateComment(ctx, first))
	suite.Require().NoError(suite.content.CreateComment(ctx, second))

	suite.Require().NoError(suite.db.Model(first).
		Update("created_at", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)).Error)
	suite.Require().NoError(suite.db.Model(second).
		Update("created_at", time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)).Error)

	comments, err := suite.content.ContentComments(ctx, post.ID, models.ContentKindPost, 10, 0)
	suite.NoError(err)
	suite.Require().Len(comments, 2)
	suite.Equal("first", comments[0].Text)
	suite.Equal("second", comments[1].Text)
}
