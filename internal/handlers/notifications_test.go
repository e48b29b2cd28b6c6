package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

func (suite *HandlersTestSuite) TestNotificationInboxLifecycle() {
	t := suite.T()
	post := suite.createPost(suite.alice, "popular")

	suite.request("POST", "/api/v1/users/"+suite.alice.ID+"/follow", nil, suite.bob)
	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil, suite.carol)

	w := suite.request("GET", "/api/v1/notifications", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.parseBody(w)
	assert.Equal(t, float64(2), response["count"])
	assert.Equal(t, float64(2), response["unread_count"])

	notifications := response["notifications"].([]interface{})
	first := notifications[0].(map[string]interface{})
	assert.NotEmpty(t, first["type"])
	assert.NotNil(t, first["actor"])

	// Mark one read.
	id := first["id"].(string)
	w = suite.request("POST", "/api/v1/notifications/read", map[string]interface{}{
		"notification_ids": []string{id},
	}, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["updated"])

	w = suite.request("GET", "/api/v1/notifications/unread", nil, suite.alice)
	assert.Equal(t, float64(1), suite.parseBody(w)["unread_count"])

	// Then the rest.
	w = suite.request("POST", "/api/v1/notifications/read-all", nil, suite.alice)
	assert.Equal(t, float64(1), suite.parseBody(w)["updated"])

	w = suite.request("GET", "/api/v1/notifications/unread", nil, suite.alice)
	assert.Equal(t, float64(0), suite.parseBody(w)["unread_count"])
}

func (suite *HandlersTestSuite) TestMarkReadIgnoresOtherUsersNotifications() {
	t := suite.T()
	post := suite.createPost(suite.alice, "target")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil, suite.bob)

	w := suite.request("GET", "/api/v1/notifications", nil, suite.alice)
	notifications := suite.parseBody(w)["notifications"].([]interface{})
	id := notifications[0].(map[string]interface{})["id"].(string)

	// Carol cannot mark Alice's notification read.
	w = suite.request("POST", "/api/v1/notifications/read", map[string]interface{}{
		"notification_ids": []string{id},
	}, suite.carol)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), suite.parseBody(w)["updated"])

	w = suite.request("GET", "/api/v1/notifications/unread", nil, suite.alice)
	assert.Equal(t, float64(1), suite.parseBody(w)["unread_count"])
}

func (suite *HandlersTestSuite) TestMarkReadRequiresIDs() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/notifications/read", map[string]interface{}{
		"notification_ids": []string{},
	}, suite.alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestMarkSingleNotificationRead() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/users/"+suite.alice.ID+"/follow", nil, suite.bob)
	assert.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/notifications", nil, suite.alice)
	body := suite.parseBody(w)
	items := body["notifications"].([]interface{})
	suite.Require().Len(items, 1)
	notificationID := items[0].(map[string]interface{})["id"].(string)

	// Someone else's notification reads as missing.
	w = suite.request("POST", "/api/v1/notifications/"+notificationID+"/read", nil, suite.carol)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request("POST", "/api/v1/notifications/"+notificationID+"/read", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["updated"])

	w = suite.request("GET", "/api/v1/notifications/unread", nil, suite.alice)
	assert.Equal(t, float64(0), suite.parseBody(w)["unread_count"])
}
