package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

func (suite *HandlersTestSuite) TestRegisterCreatesAccount() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     "dave@example.com",
		"username":  "dave",
		"password":  "password123",
		"full_name": "Dave",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	response := suite.parseBody(w)
	assert.NotEmpty(t, response["token"])

	user, ok := response["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "dave", user["username"])
	assert.NotContains(t, user, "password_hash")
}

func (suite *HandlersTestSuite) TestRegisterDuplicateEmail() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     suite.alice.Email,
		"username":  "newalice",
		"password":  "password123",
		"full_name": "Alice Again",
	}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_taken", suite.parseBody(w)["error"])
}

func (suite *HandlersTestSuite) TestRegisterDuplicateUsername() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     "alice2@example.com",
		"username":  suite.alice.Username,
		"password":  "password123",
		"full_name": "Alice Again",
	}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "username_taken", suite.parseBody(w)["error"])
}

func (suite *HandlersTestSuite) TestRegisterRejectsShortPassword() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     "eve@example.com",
		"username":  "eve",
		"password":  "short",
		"full_name": "Eve",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestLoginWithEmailAndUsername() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     "frank@example.com",
		"username":  "frank",
		"password":  "password123",
		"full_name": "Frank",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	for _, identifier := range []string{"frank@example.com", "frank"} {
		w = suite.request("POST", "/api/v1/auth/login", map[string]string{
			"identifier": identifier,
			"password":   "password123",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code, "login with %q", identifier)
		assert.NotEmpty(t, suite.parseBody(w)["token"])
	}
}

func (suite *HandlersTestSuite) TestLoginWrongPassword() {
	t := suite.T()

	suite.request("POST", "/api/v1/auth/register", map[string]string{
		"email":     "grace@example.com",
		"username":  "grace",
		"password":  "password123",
		"full_name": "Grace",
	}, nil)

	w := suite.request("POST", "/api/v1/auth/login", map[string]string{
		"identifier": "grace",
		"password":   "wrongpassword",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", suite.parseBody(w)["error"])
}

func (suite *HandlersTestSuite) TestLoginUnknownUserSameResponse() {
	t := suite.T()

	w := suite.request("POST", "/api/v1/auth/login", map[string]string{
		"identifier": "nobody",
		"password":   "password123",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", suite.parseBody(w)["error"])
}

func (suite *HandlersTestSuite) TestMeReturnsOwnProfile() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/auth/me", nil, suite.alice)
	assert.Equal(t, http.StatusOK, w.Code)

	user := suite.parseBody(w)["user"].(map[string]interface{})
	assert.Equal(t, suite.alice.ID, user["id"])
	assert.Equal(t, "alice", user["username"])
}

func (suite *HandlersTestSuite) TestMeRequiresAuth() {
	t := suite.T()

	w := suite.request("GET", "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
