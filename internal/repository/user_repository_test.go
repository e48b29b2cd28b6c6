package repository

import (
	"context"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *RepositoryTestSuite) TestGetUserByEmailIgnoresCase() {
	user, err := suite.users.GetUserByEmail(context.Background(), "ALICE@Example.com")
	suite.NoError(err)
	suite.Equal(suite.alice.ID, user.ID)
}

func (suite *RepositoryTestSuite) TestGetUserByUsernameIgnoresCase() {
	user, err := suite.users.GetUserByUsername(context.Background(), "Alice")
	suite.NoError(err)
	suite.Equal(suite.alice.ID, user.ID)
}

func (suite *RepositoryTestSuite) TestGetUnknownUserSentinel() {
	_, err := suite.users.GetUser(context.Background(), "00000000-0000-0000-0000-000000000000")
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.users.GetUserByEmail(context.Background(), "nobody@example.com")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestUpdateUserPersistsProfile() {
	ctx := context.Background()

	suite.alice.Bio = "touring this summer"
	suite.alice.Interests = []string{"music", "travel"}
	suite.NoError(suite.users.UpdateUser(ctx, suite.alice))

	reloaded := suite.reloadUser(suite.alice.ID)
	suite.Equal("touring this summer", reloaded.Bio)
	suite.Equal([]string{"music", "travel"}, reloaded.Interests)
}

func (suite *RepositoryTestSuite) TestSearchUsersMatchesNameAndRanksByFollowers() {
	ctx := context.Background()

	popular := suite.createUser("alina")
	suite.Require().NoError(suite.db.Model(popular).Update("follower_count", 50).Error)

	results, err := suite.users.SearchUsers(ctx, "ali", 10, 0)
	suite.NoError(err)
	suite.Require().Len(results, 2)
	suite.Equal(popular.ID, results[0].ID)
	suite.Equal(suite.alice.ID, results[1].ID)
}

func (suite *RepositoryTestSuite) TestSearchUsersMatchesFullName() {
	ctx := context.Background()

	user := suite.createUser("dmx99")
	suite.Require().NoError(suite.db.Model(user).Update("full_name", "Dario Rossi").Error)

	results, err := suite.users.SearchUsers(ctx, "rossi", 10, 0)
	suite.NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(user.ID, results[0].ID)
}

func (suite *RepositoryTestSuite) TestGetFollowersAndFollowing() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.bob.ID, suite.alice.ID)
	suite.NoError(err)
	_, err = suite.social.Follow(ctx, suite.carol.ID, suite.alice.ID)
	suite.NoError(err)
	_, err = suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	followers, err := suite.users.GetFollowers(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Len(followers, 2)

	following, err := suite.users.GetFollowing(ctx, suite.alice.ID, 10, 0)
	suite.NoError(err)
	suite.Require().Len(following, 1)
	suite.Equal(suite.bob.ID, following[0].ID)
}

func (suite *RepositoryTestSuite) TestGetSuggestionCandidatesExcludesSelfAndFollowed() {
	ctx := context.Background()

	_, err := suite.social.Follow(ctx, suite.alice.ID, suite.bob.ID)
	suite.NoError(err)

	candidates, err := suite.users.GetSuggestionCandidates(ctx, suite.alice.ID)
	suite.NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(suite.carol.ID, candidates[0].ID)
}

func (suite *RepositoryTestSuite) TestGetTotalUserCount() {
	count, err := suite.users.GetTotalUserCount(context.Background())
	suite.NoError(err)
	suite.Equal(int64(3), count)
}

func (suite *RepositoryTestSuite) TestDeleteUser() {
	ctx := context.Background()

	suite.NoError(suite.users.DeleteUser(ctx, suite.carol.ID))

	_, err := suite.users.GetUser(ctx, suite.carol.ID)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *RepositoryTestSuite) TestGetUsersByIDs() {
	users, err := suite.users.GetUsers(context.Background(), []string{suite.alice.ID, suite.bob.ID})
	suite.NoError(err)
	suite.Len(users, 2)
}

func (suite *RepositoryTestSuite) TestCreateUserRejectsNil() {
	var user *models.User
	suite.ErrorIs(suite.users.CreateUser(context.Background(), user), ErrInvalidInput)
}
