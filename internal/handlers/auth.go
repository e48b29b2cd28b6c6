package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/auth"
	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/util"
)

const oauthStateCookie = "oauth_state"

// Register creates a new account with email and password
// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	resp, err := h.auth.RegisterNativeUser(req)
	if err != nil {
		switch err {
		case auth.ErrUserExists:
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "An account with this email already exists",
			})
		case auth.ErrUsernameExists:
			c.JSON(http.StatusConflict, gin.H{
				"error":   "username_taken",
				"message": "This username is already in use",
			})
		default:
			logger.Log.Error("Registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "registration_failed",
				"message": "Failed to create account",
			})
		}
		return
	}

	metrics.Get().LoginAttemptsTotal.WithLabelValues("register", "success").Inc()
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with a username or email plus password
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	resp, err := h.auth.LoginNativeUser(req)
	if err != nil {
		metrics.Get().LoginAttemptsTotal.WithLabelValues("password", "failure").Inc()
		// Same response for unknown identifier and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid username/email or password",
		})
		return
	}

	metrics.Get().LoginAttemptsTotal.WithLabelValues("password", "success").Inc()
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user's own profile
// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	currentUser, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": currentUser})
}

// GoogleLogin redirects the client to Google's consent screen
// GET /api/v1/auth/google
func (h *Handlers) GoogleLogin(c *gin.Context) {
	state := generateOAuthState()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.auth.GetGoogleOAuthURL(state))
}

// GoogleCallback exchanges the authorization code for a session
// GET /api/v1/auth/google/callback
func (h *Handlers) GoogleCallback(c *gin.Context) {
	if !h.validOAuthState(c) {
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_code",
			"message": "No authorization code provided",
		})
		return
	}

	resp, err := h.auth.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		logger.Log.Error("Google OAuth callback failed", zap.Error(err))
		metrics.Get().LoginAttemptsTotal.WithLabelValues("google", "failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "oauth_failed",
			"message": "Google sign-in failed",
		})
		return
	}

	metrics.Get().LoginAttemptsTotal.WithLabelValues("google", "success").Inc()
	c.JSON(http.StatusOK, resp)
}

// FacebookLogin redirects the client to Facebook's consent screen
// GET /api/v1/auth/facebook
func (h *Handlers) FacebookLogin(c *gin.Context) {
	state := generateOAuthState()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.auth.GetFacebookOAuthURL(state))
}

// FacebookCallback exchanges the authorization code for a session
// GET /api/v1/auth/facebook/callback
func (h *Handlers) FacebookCallback(c *gin.Context) {
	if !h.validOAuthState(c) {
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_code",
			"message": "No authorization code provided",
		})
		return
	}

	resp, err := h.auth.HandleFacebookCallback(c.Request.Context(), code)
	if err != nil {
		logger.Log.Error("Facebook OAuth callback failed", zap.Error(err))
		metrics.Get().LoginAttemptsTotal.WithLabelValues("facebook", "failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "oauth_failed",
			"message": "Facebook sign-in failed",
		})
		return
	}

	metrics.Get().LoginAttemptsTotal.WithLabelValues("facebook", "success").Inc()
	c.JSON(http.StatusOK, resp)
}

// AuthMiddleware validates the Bearer token and loads the user into the
// request context
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		user, err := h.auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// validOAuthState checks the state query parameter against the cookie set
// at redirect time
func (h *Handlers) validOAuthState(c *gin.Context) bool {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_state",
			"message": "OAuth state mismatch",
		})
		return false
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	return true
}

func generateOAuthState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
