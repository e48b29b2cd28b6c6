package repository

import (
	"context"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *RepositoryTestSuite) TestFollowCreatesEdgeAndCounters() {
	ctx := context.Background()

	created, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.True(created)

	following, err := suite.social.IsFollowing(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.True(following)

	suite.Equal(1, suite.reloadUser(suite.alice.ID).FollowingCount)
	suite.Equal(1, suite.reloadUser(suite.bob.ID).FollowerCount)
}

func (suite *RepositoryTestSuite) TestFollowIsIdempotent() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	created, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.False(created)

	var edges int64
	suite.db.Model(&models.Follow{}).Count(&edges)
	suite.Equal(int64(1), edges)
	suite.Equal(1, suite.reloadUser(suite.bob.ID).FollowerCount)
}

func (suite *RepositoryTestSuite) TestFollowRejectsSelf() {
	_, err := suite.social.Follow(context.Background(), suite.alice.ID, suite.alice.ID)
	suite.ErrorIs(err, ErrSelfFollow)
}

func (suite *RepositoryTestSuite) TestFollowUnknownUser() {
	_, err := suite.social.Follow(context.Background(), suite.alice.ID, "00000000-0000-0000-0000-000000000000")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestUnfollowRestoresCounters() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	removed, err := suite.social.Unfollow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.True(removed)

	suite.Equal(0, suite.reloadUser(suite.alice.ID).FollowingCount)
	suite.Equal(0, suite.reloadUser(suite.bob.ID).FollowerCount)
}

func (suite *RepositoryTestSuite) TestUnfollowAbsentEdgeIsNoop() {
	ctx := context.Background()

	removed, err := suite.social.Unfollow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.False(removed)

	// Counters never go negative even if the no-op repeats.
	removed, err = suite.social.Unfollow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	suite.False(removed)
	suite.Equal(0, suite.reloadUser(suite.bob.ID).FollowerCount)
}

func (suite *RepositoryTestSuite) TestFollowWritesNotification() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	notifications, err := suite.notifications.ListForUser(ctx, suite.bob.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(notifications, 1)
	suite.Equal(models.NotificationFollow, notifications[0].Type)
	suite.Equal(suite.alice.ID, notifications[0].ActorID)
}

func (suite *RepositoryTestSuite) TestFollowingIDs() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)
	_, err = suite.social.Follow(ctx, suite.alice.ID, suite.carol.ID)
	suite.NoError(err)

	ids, err := suite.social.FollowingIDs(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.ElementsMatch([]string{suite.bob.ID, suite.carol.ID}, ids)
}

func (suite *RepositoryTestSuite) TestLikeContentOncePerUser() {
	ctx := context.Background()
	post := suite.createPost(suite.bob.ID)

	created, err := suite.social.LikeContent(ctx, suite.alice.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)
	suite.True(created)

	created, err = suite.social.LikeContent(ctx, suite.alice.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)
	suite.False(created)

	reloaded, err := suite.content.GetPost(ctx, post.ID)
	suite.NoError(err)
	suite.Equal(1, reloaded.LikeCount)
}

func (suite *RepositoryTestSuite) TestLikeUnknownContent() {
	_, err := suite.social.LikeContent(context.Background(), suite.alice.ID,
		"00000000-0000-0000-0000-000000000000", models.ContentKindPost)
	suite.ErrorIs(err, ErrContentNotFound)
}

func (suite *RepositoryTestSuite) TestUnlikeFloorsAtZero() {
	ctx := context.Background()
	video := suite.createVideo(suite.bob.ID)

	_, err := suite.social.LikeContent(ctx, suite.alice.ID, video.ID, models.ContentKindVideo)
	suite.NoError(err)

	removed, err := suite.social.UnlikeContent(ctx, suite.alice.ID, video.ID, models.ContentKindVideo)
	suite.NoError(err)
	suite.True(removed)

	removed, err = suite.social.UnlikeContent(ctx, suite.alice.ID, video.ID, models.ContentKindVideo)
	suite.NoError(err)
	suite.False(removed)

	reloaded, err := suite.content.GetVideo(ctx, video.ID)
	suite.NoError(err)
	suite.Equal(0, reloaded.LikeCount)
}

func (suite *RepositoryTestSuite) TestLikesAreScopedByKind() {
	ctx := context.Background()
	post := suite.createPost(suite.bob.ID)

	_, err := suite.social.LikeContent(ctx, suite.alice.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)

	liked, err := suite.social.IsLiked(ctx, suite.alice.ID, post.ID, models.ContentKindVideo)
	suite.NoError(err)
	suite.False(liked)

	liked, err = suite.social.IsLiked(ctx, suite.alice.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)
	suite.True(liked)
}

func (suite *RepositoryTestSuite) TestLikedContentIDs() {
	ctx := context.Background()
	liked := suite.createPost(suite.bob.ID)
	skipped := suite.createPost(suite.bob.ID)

	_, err := suite.social.LikeContent(ctx, suite.alice.ID, liked.ID, models.ContentKindPost)
	suite.NoError(err)

	result, err := suite.social.LikedContentIDs(ctx, suite.alice.ID, models.ContentKindPost,
		[]string{liked.ID, skipped.ID})
	suite.NoError(err)
	suite.True(result[liked.ID])
	suite.False(result[skipped.ID])
}

func (suite *RepositoryTestSuite) TestContentLikes() {
	ctx := context.Background()
	post := suite.createPost(suite.carol.ID)

	_, err := suite.social.LikeContent(ctx, suite.alice.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)
	_, err = suite.social.LikeContent(ctx, suite.bob.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)

	likes, err := suite.social.ContentLikes(ctx, post.ID, models.ContentKindPost)
	suite.NoError(err)
	suite.Len(likes, 2)
}

func (suite *RepositoryTestSuite) TestViewStoryCountsViewerOnce() {
	ctx := context.Background()
	story := suite.createStory(suite.alice.ID)

	created, err := suite.social.ViewStory(ctx, story.ID, suite.bob.ID)
	suite.NoError(err)
	suite.True(created)

	created, err = suite.social.ViewStory(ctx, story.ID, suite.bob.ID)
	suite.NoError(err)
	suite.False(created)

	created, err = suite.social.ViewStory(ctx, story.ID, suite.carol.ID)
	suite.NoError(err)
	suite.True(created)

	var reloaded models.Story
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", story.ID).Error)
	suite.Equal(2, reloaded.ViewCount)
}

func (suite *RepositoryTestSuite) TestOwnStoryViewLeavesNoTrace() {
	ctx := context.Background()
	story := suite.createStory(suite.alice.ID)

	created, err := suite.social.ViewStory(ctx, story.ID, suite.alice.ID)
	suite.NoError(err)
	suite.False(created)

	var views int64
	suite.db.Model(&models.StoryView{}).Where("story_id = ?", story.ID).Count(&views)
	suite.Equal(int64(0), views)

	var reloaded models.Story
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", story.ID).Error)
	suite.Equal(0, reloaded.ViewCount)
}

func (suite *RepositoryTestSuite) TestViewExpiredStory() {
	story := suite.createStory(suite.alice.ID)
	suite.expireStory(story)

	_, err := suite.social.ViewStory(context.Background(), story.ID, suite.bob.ID)
	suite.ErrorIs(err, ErrStoryNotFound)
}

func (suite *RepositoryTestSuite) TestViewUnknownStory() {
	_, err := suite.social.ViewStory(context.Background(),
		"00000000-0000-0000-0000-000000000000", suite.bob.ID)
	suite.ErrorIs(err, ErrStoryNotFound)
}

func (suite *RepositoryTestSuite) TestViewedStoryIDs() {
	ctx := context.Background()
	seen := suite.createStory(suite.alice.ID)
	unseen := suite.createStory(suite.alice.ID)

	_, err := suite.social.ViewStory(ctx, seen.ID, suite.bob.ID)
	suite.NoError(err)

	result, err := suite.social.ViewedStoryIDs(ctx, suite.bob.ID, []string{seen.ID, unseen.ID})
	suite.NoError(err)
	suite.True(result[seen.ID])
	suite.False(result[unseen.ID])
}

func (suite *RepositoryTestSuite) TestStoryViewers() {
	ctx := context.Background()
	story := suite.createStory(suite.alice.ID)

	_, err := suite.social.ViewStory(ctx, story.ID, suite.bob.ID)
	suite.NoError(err)
	_, err = suite.social.ViewStory(ctx, story.ID, suite.carol.ID)
	suite.NoError(err)

	viewers, err := suite.social.StoryViewers(ctx, story.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(viewers, 2)

	ids := []string{viewers[0].ID, viewers[1].ID}
	suite.ElementsMatch([]string{suite.bob.ID, suite.carol.ID}, ids)
}
