package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/socialfusion/backend/internal/models"
)

func (suite *HandlersTestSuite) TestCreatePost() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/posts", map[string]string{
		"caption":   "first post",
		"media_url": "https://cdn.example.com/media/first.jpg",
	}, suite.alice)

	assert.Equal(t, http.StatusCreated, w.Code)

	post := suite.parseBody(w)["post"].(map[string]interface{})
	assert.Equal(t, "first post", post["caption"])
	assert.Equal(t, "image", post["media_type"])
	assert.Equal(t, "public", post["visibility"])

	assert.Equal(t, 1, suite.reloadUser(suite.alice.ID).PostCount)
}

func (suite *HandlersTestSuite) TestCreatePostRequiresMediaURL() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/posts", map[string]string{
		"caption": "no media",
	}, suite.alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetPostIncludesLikedState() {
	t := suite.T()
	post := suite.createPost(suite.bob, "lake")

	w := suite.request("GET", "/api/v1/posts/"+post.ID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, suite.parseBody(w)["liked"])

	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil, suite.alice)

	w = suite.request("GET", "/api/v1/posts/"+post.ID, nil, suite.alice)
	assert.Equal(t, true, suite.parseBody(w)["liked"])
}

func (suite *HandlersTestSuite) TestUpdatePost() {
	t := suite.T()
	post := suite.createPost(suite.alice, "draft")

	w := suite.request("PUT", "/api/v1/posts/"+post.ID, map[string]string{
		"caption":    "final",
		"visibility": "connections",
	}, suite.alice)

	assert.Equal(t, http.StatusOK, w.Code)
	updated := suite.parseBody(w)["post"].(map[string]interface{})
	assert.Equal(t, "final", updated["caption"])
	assert.Equal(t, "connections", updated["visibility"])
}

func (suite *HandlersTestSuite) TestUpdatePostRejectsBadVisibility() {
	t := suite.T()
	post := suite.createPost(suite.alice, "draft")

	w := suite.request("PUT", "/api/v1/posts/"+post.ID, map[string]string{
		"visibility": "secret",
	}, suite.alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdatePostOwnershipEnforced() {
	t := suite.T()
	post := suite.createPost(suite.bob, "bobs post")

	w := suite.request("PUT", "/api/v1/posts/"+post.ID, map[string]string{
		"caption": "hijacked",
	}, suite.alice)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePostRemovesLikesAndComments() {
	t := suite.T()
	post := suite.createPost(suite.alice, "doomed")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil, suite.bob)
	suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{
		"text": "nice",
	}, suite.bob)

	w := suite.request("DELETE", "/api/v1/posts/"+post.ID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	var likes, comments int64
	suite.db.Model(&models.Like{}).Where("content_id = ?", post.ID).Count(&likes)
	suite.db.Model(&models.Comment{}).Where("content_id = ?", post.ID).Count(&comments)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), comments)
}

func (suite *HandlersTestSuite) TestDeletePostOwnershipEnforced() {
	t := suite.T()
	post := suite.createPost(suite.bob, "protected")

	w := suite.request("DELETE", "/api/v1/posts/"+post.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestCreateComment() {
	t := suite.T()
	post := suite.createPost(suite.bob, "commentable")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{
		"text": "great shot",
	}, suite.alice)

	assert.Equal(t, http.StatusCreated, w.Code)

	var updated models.Post
	suite.db.First(&updated, "id = ?", post.ID)
	assert.Equal(t, 1, updated.CommentCount)

	// Comment notification reaches the owner.
	var count int64
	suite.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", suite.bob.ID, models.NotificationComment).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestCreateCommentRejectsEmptyText() {
	t := suite.T()
	post := suite.createPost(suite.bob, "strict")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{
		"text": "",
	}, suite.alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestGetCommentsOldestFirst() {
	t := suite.T()
	post := suite.createPost(suite.bob, "threaded")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{"text": "first"}, suite.alice)
	suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{"text": "second"}, suite.carol)

	w := suite.request("GET", "/api/v1/posts/"+post.ID+"/comments", nil, suite.bob)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.parseBody(w)
	comments := response["comments"].([]interface{})
	assert.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "second", comments[1].(map[string]interface{})["text"])
}

func (suite *HandlersTestSuite) TestDeleteCommentOwnCommentsOnly() {
	t := suite.T()
	post := suite.createPost(suite.bob, "moderated")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]string{"text": "mine"}, suite.alice)
	comment := suite.parseBody(w)["comment"].(map[string]interface{})
	commentID := comment["id"].(string)

	w = suite.request("DELETE", "/api/v1/comments/"+commentID, nil, suite.carol)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/comments/"+commentID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Post
	suite.db.First(&updated, "id = ?", post.ID)
	assert.Equal(t, 0, updated.CommentCount)
}

func (suite *HandlersTestSuite) TestCreateVideo() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/videos", map[string]string{
		"caption":   "my clip",
		"video_url": "https://cdn.example.com/media/clip.mp4",
	}, suite.alice)

	assert.Equal(t, http.StatusCreated, w.Code)
	video := suite.parseBody(w)["video"].(map[string]interface{})
	assert.Equal(t, "my clip", video["caption"])
}

func (suite *HandlersTestSuite) TestShareVideoIncrementsCount() {
	t := suite.T()
	video := suite.createVideo(suite.bob, "viral")

	suite.request("POST", "/api/v1/videos/"+video.ID+"/share", nil, suite.alice)
	suite.request("POST", "/api/v1/videos/"+video.ID+"/share", nil, suite.carol)

	var updated models.Video
	suite.db.First(&updated, "id = ?", video.ID)
	assert.Equal(t, 2, updated.ShareCount)
}

func (suite *HandlersTestSuite) TestFeedShowsOwnAndFollowedPostsOnly() {
	t := suite.T()

	suite.createPost(suite.alice, "mine")
	suite.createPost(suite.bob, "followed")
	suite.createPost(suite.carol, "stranger")

	suite.request("POST", "/api/v1/users/"+suite.bob.ID+"/follow", nil, suite.alice)

	w := suite.request("GET", "/api/v1/feed/posts", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.parseBody(w)
	posts := response["posts"].([]interface{})
	assert.Len(t, posts, 2)
	for _, raw := range posts {
		owner := raw.(map[string]interface{})["user_id"].(string)
		assert.NotEqual(t, suite.carol.ID, owner)
	}
}

func (suite *HandlersTestSuite) TestFeedNewestFirst() {
	t := suite.T()

	first := suite.createPost(suite.alice, "older")
	second := suite.createPost(suite.alice, "newer")
	// Force distinct ordering regardless of clock resolution.
	suite.db.Model(first).Update("created_at", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	suite.db.Model(second).Update("created_at", time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))

	w := suite.request("GET", "/api/v1/feed/posts", nil, suite.alice)
	posts := suite.parseBody(w)["posts"].([]interface{})
	assert.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].(map[string]interface{})["caption"])
}

func (suite *HandlersTestSuite) TestVideoFeed() {
	t := suite.T()

	suite.createVideo(suite.bob, "bobclip")
	suite.request("POST", "/api/v1/users/"+suite.bob.ID+"/follow", nil, suite.alice)

	w := suite.request("GET", "/api/v1/feed/videos", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["count"])
}

func (suite *HandlersTestSuite) TestUserPostsRespectVisibility() {
	t := suite.T()

	public := suite.createPost(suite.bob, "open")
	private := suite.createPost(suite.bob, "closed")
	suite.Require().NoError(suite.db.Model(public).
		Update("visibility", models.VisibilityPublic).Error)
	suite.Require().NoError(suite.db.Model(private).
		Update("visibility", models.VisibilityConnections).Error)

	// A stranger only sees public posts.
	w := suite.request("GET", "/api/v1/users/"+suite.bob.ID+"/posts", nil, suite.carol)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), suite.parseBody(w)["count"])

	// The owner sees everything.
	w = suite.request("GET", "/api/v1/users/"+suite.bob.ID+"/posts", nil, suite.bob)
	assert.Equal(t, float64(2), suite.parseBody(w)["count"])

	// So does a follower.
	w = suite.request("POST", "/api/v1/users/"+suite.bob.ID+"/follow", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)
	w = suite.request("GET", "/api/v1/users/"+suite.bob.ID+"/posts", nil, suite.alice)
	assert.Equal(t, float64(2), suite.parseBody(w)["count"])
}

func (suite *HandlersTestSuite) TestFeedScopedToCaller() {
	t := suite.T()

	suite.createPost(suite.alice, "mine")

	w := suite.request("GET", "/api/v1/feed/posts?user_id="+suite.alice.ID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/feed/posts?user_id="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("GET", "/api/v1/feed/videos?user_id="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("GET", "/api/v1/feed/stories?user_id="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestFeedRejectsForeignUserIdParam() {
	t := suite.T()

	suite.createPost(suite.alice, "mine")

	w := suite.request("GET", "/api/v1/feed/posts?userId="+suite.alice.ID, nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/feed/posts?userId="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := suite.parseBody(w)
	assert.Equal(t, "forbidden", body["error"])

	w = suite.request("GET", "/api/v1/feed/videos?userId="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request("GET", "/api/v1/feed/stories?userId="+suite.carol.ID, nil, suite.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
