package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *HandlersTestSuite) expireStory(story *models.Story) {
	require.NoError(suite.T(),
		suite.db.Model(story).Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)
}

func (suite *HandlersTestSuite) TestCreateStoryStampsExpiry() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/stories", map[string]string{
		"media_url": "https://cdn.example.com/media/day.jpg",
	}, suite.alice)

	assert.Equal(t, http.StatusCreated, w.Code)

	response := suite.parseBody(w)
	expiresAt, err := time.Parse(time.RFC3339, response["expires_at"].(string))
	require.NoError(t, err)

	remaining := time.Until(expiresAt)
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, 24*time.Hour)
}

func (suite *HandlersTestSuite) TestClientCannotExtendStoryExpiry() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/stories", map[string]interface{}{
		"media_url":  "https://cdn.example.com/media/forever.jpg",
		"expires_at": time.Now().Add(90 * 24 * time.Hour).Format(time.RFC3339),
	}, suite.alice)

	assert.Equal(t, http.StatusCreated, w.Code)

	expiresAt, err := time.Parse(time.RFC3339, suite.parseBody(w)["expires_at"].(string))
	require.NoError(t, err)
	assert.LessOrEqual(t, time.Until(expiresAt), 24*time.Hour)
}

func (suite *HandlersTestSuite) TestGetStoryExpiredIs404() {
	t := suite.T()
	story := suite.createStory(suite.alice)

	w := suite.request("GET", "/api/v1/stories/"+story.ID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	suite.expireStory(story)

	w = suite.request("GET", "/api/v1/stories/"+story.ID, nil, suite.alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestStoriesFeedExcludesExpiredAndStrangers() {
	t := suite.T()

	own := suite.createStory(suite.alice)
	followed := suite.createStory(suite.bob)
	expired := suite.createStory(suite.bob)
	suite.expireStory(expired)
	suite.createStory(suite.carol) // not followed

	suite.request("POST", "/api/v1/users/"+suite.bob.ID+"/follow", nil, suite.alice)

	w := suite.request("GET", "/api/v1/feed/stories", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	stories := suite.parseBody(w)["stories"].([]interface{})
	assert.Len(t, stories, 2)

	ids := map[string]bool{}
	for _, raw := range stories {
		ids[raw.(map[string]interface{})["id"].(string)] = true
	}
	assert.True(t, ids[own.ID])
	assert.True(t, ids[followed.ID])
	assert.False(t, ids[expired.ID])
}

func (suite *HandlersTestSuite) TestViewStoryCountsOnce() {
	t := suite.T()
	story := suite.createStory(suite.bob)

	w := suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["view_count"])

	// Repeat view does not inflate the counter.
	w = suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["view_count"])

	w = suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.carol)
	assert.Equal(t, float64(2), suite.parseBody(w)["view_count"])
}

func (suite *HandlersTestSuite) TestViewExpiredStoryIs404() {
	t := suite.T()
	story := suite.createStory(suite.bob)
	suite.expireStory(story)

	w := suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestStoryViewersOwnerOnly() {
	t := suite.T()
	story := suite.createStory(suite.alice)

	suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.bob)

	w := suite.request("GET", "/api/v1/stories/"+story.ID+"/viewers", nil, suite.bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("GET", "/api/v1/stories/"+story.ID+"/viewers", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	viewers := suite.parseBody(w)["viewers"].([]interface{})
	assert.Len(t, viewers, 1)
	assert.Equal(t, suite.bob.ID, viewers[0].(map[string]interface{})["id"])
}

func (suite *HandlersTestSuite) TestGetUserStoriesOnlyActive() {
	t := suite.T()

	active := suite.createStory(suite.bob)
	expired := suite.createStory(suite.bob)
	suite.expireStory(expired)

	w := suite.request("GET", "/api/v1/users/"+suite.bob.ID+"/stories", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	stories := suite.parseBody(w)["stories"].([]interface{})
	assert.Len(t, stories, 1)
	assert.Equal(t, active.ID, stories[0].(map[string]interface{})["id"])
}

func (suite *HandlersTestSuite) TestStoriesFeedMarksViewed() {
	t := suite.T()

	seen := suite.createStory(suite.bob)
	unseen := suite.createStory(suite.bob)
	suite.request("POST", "/api/v1/users/"+suite.bob.ID+"/follow", nil, suite.alice)
	suite.request("POST", "/api/v1/stories/"+seen.ID+"/view", nil, suite.alice)

	w := suite.request("GET", "/api/v1/feed/stories", nil, suite.alice)
	stories := suite.parseBody(w)["stories"].([]interface{})

	viewedByID := map[string]bool{}
	for _, raw := range stories {
		s := raw.(map[string]interface{})
		viewedByID[s["id"].(string)] = s["viewed"].(bool)
	}
	assert.True(t, viewedByID[seen.ID])
	assert.False(t, viewedByID[unseen.ID])
}

func (suite *HandlersTestSuite) TestOwnStoryViewNotCounted() {
	t := suite.T()
	story := suite.createStory(suite.alice)

	w := suite.request("POST", "/api/v1/stories/"+story.ID+"/view", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), suite.parseBody(w)["view_count"])

	var views int64
	suite.db.Model(&models.StoryView{}).Where("story_id = ?", story.ID).Count(&views)
	assert.Equal(t, int64(0), views)
}
