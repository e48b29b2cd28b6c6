package repository

import (
	"context"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *RepositoryTestSuite) TestNotificationsNewestFirstWithActor() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	_, err := suite.social.Follow(ctx, suite.bob.ID, suite.alice.ID)
	suite.NoError(err)
	_, err = suite.social.LikeContent(ctx, suite.carol.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)

	notifications, err := suite.notifications.ListForUser(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(notifications, 2)
	for _, n := range notifications {
		suite.Equal(suite.alice.ID, n.UserID)
		suite.NotEmpty(n.Actor.Username)
		suite.False(n.Read)
	}
}

func (suite *RepositoryTestSuite) TestMarkReadScopedToOwner() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.bob.ID, suite.alice.ID)
	suite.NoError(err)

	notifications, err := suite.notifications.ListForUser(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(notifications, 1)

	// Another user cannot mark someone else's notification read.
	updated, err := suite.notifications.MarkRead(ctx, suite.carol.ID, []string{notifications[0].ID})
	suite.NoError(err)
	suite.Equal(int64(0), updated)

	updated, err = suite.notifications.MarkRead(ctx, suite.alice.ID, []string{notifications[0].ID})
	suite.NoError(err)
	suite.Equal(int64(1), updated)

	unread, err := suite.notifications.UnreadCount(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Equal(int64(0), unread)
}

func (suite *RepositoryTestSuite) TestMarkReadEmptyIDs() {
	updated, err := suite.notifications.MarkRead(context.Background(), suite.alice.ID, nil)
	suite.NoError(err)
	suite.Equal(int64(0), updated)
}

func (suite *RepositoryTestSuite) TestMarkAllRead() {
	ctx := context.Background()
	post := suite.createPost(suite.alice.ID)

	_, err := suite.social.Follow(ctx, suite.bob.ID, suite.alice.ID)
	suite.NoError(err)
	_, err = suite.social.LikeContent(ctx, suite.bob.ID, post.ID, models.ContentKindPost)
	suite.NoError(err)

	updated, err := suite.notifications.MarkAllRead(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Equal(int64(2), updated)

	// Repeating is a no-op once everything is read.
	updated, err = suite.notifications.MarkAllRead(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Equal(int64(0), updated)
}
