package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/socialfusion/backend/internal/models"
)

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []interface{}
}

// MockAuthService is a mock implementation of AuthServiceInterface for
// testing.
type MockAuthService struct {
	mu sync.Mutex

	// Call tracking
	Calls []MockCall

	// Configurable function overrides
	RegisterNativeUserFunc     func(req RegisterRequest) (*AuthResponse, error)
	LoginNativeUserFunc        func(req LoginRequest) (*AuthResponse, error)
	FindUserByEmailFunc        func(email string) (*models.User, error)
	ValidateTokenFunc          func(tokenString string) (*models.User, error)
	GenerateTokenForUserFunc   func(user *models.User) (*AuthResponse, error)
	GetGoogleOAuthURLFunc      func(state string) string
	GetFacebookOAuthURLFunc    func(state string) string
	HandleGoogleCallbackFunc   func(ctx context.Context, code string) (*AuthResponse, error)
	HandleFacebookCallbackFunc func(ctx context.Context, code string) (*AuthResponse, error)

	// Default error to return
	DefaultError error

	// Pre-configured users for testing, keyed by email
	Users map[string]*models.User
}

// NewMockAuthService creates a new mock auth service with sensible defaults
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Calls: make([]MockCall, 0),
		Users: make(map[string]*models.User),
	}
}

func (m *MockAuthService) recordCall(method string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

// GetCallsForMethod returns calls for a specific method
func (m *MockAuthService) GetCallsForMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []MockCall
	for _, call := range m.Calls {
		if call.Method == method {
			result = append(result, call)
		}
	}
	return result
}

// Reset clears all recorded calls
func (m *MockAuthService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = m.Calls[:0]
}

func (m *MockAuthService) defaultAuthResponse(user *models.User) *AuthResponse {
	return &AuthResponse{
		Token:     "mock_token_" + uuid.New().String(),
		User:      *user,
		ExpiresAt: time.Now().Add(tokenLifetime),
	}
}

// RegisterNativeUser mocks registration
func (m *MockAuthService) RegisterNativeUser(req RegisterRequest) (*AuthResponse, error) {
	m.recordCall("RegisterNativeUser", req)
	if m.RegisterNativeUserFunc != nil {
		return m.RegisterNativeUserFunc(req)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	if _, exists := m.Users[req.Email]; exists {
		return nil, ErrUserExists
	}
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
	}
	m.Users[req.Email] = user
	return m.defaultAuthResponse(user), nil
}

// LoginNativeUser mocks login
func (m *MockAuthService) LoginNativeUser(req LoginRequest) (*AuthResponse, error) {
	m.recordCall("LoginNativeUser", req)
	if m.LoginNativeUserFunc != nil {
		return m.LoginNativeUserFunc(req)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	for _, user := range m.Users {
		if user.Email == req.Identifier || user.Username == req.Identifier {
			return m.defaultAuthResponse(user), nil
		}
	}
	return nil, ErrInvalidCredentials
}

// FindUserByEmail mocks email lookup
func (m *MockAuthService) FindUserByEmail(email string) (*models.User, error) {
	m.recordCall("FindUserByEmail", email)
	if m.FindUserByEmailFunc != nil {
		return m.FindUserByEmailFunc(email)
	}
	if user, exists := m.Users[email]; exists {
		return user, nil
	}
	return nil, ErrUserNotFound
}

// ValidateToken mocks token validation
func (m *MockAuthService) ValidateToken(tokenString string) (*models.User, error) {
	m.recordCall("ValidateToken", tokenString)
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, ErrUserNotFound
}

// GenerateTokenForUser mocks token issuance
func (m *MockAuthService) GenerateTokenForUser(user *models.User) (*AuthResponse, error) {
	m.recordCall("GenerateTokenForUser", user)
	if m.GenerateTokenForUserFunc != nil {
		return m.GenerateTokenForUserFunc(user)
	}
	return m.defaultAuthResponse(user), nil
}

// GetGoogleOAuthURL mocks the Google OAuth URL
func (m *MockAuthService) GetGoogleOAuthURL(state string) string {
	m.recordCall("GetGoogleOAuthURL", state)
	if m.GetGoogleOAuthURLFunc != nil {
		return m.GetGoogleOAuthURLFunc(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

// GetFacebookOAuthURL mocks the Facebook OAuth URL
func (m *MockAuthService) GetFacebookOAuthURL(state string) string {
	m.recordCall("GetFacebookOAuthURL", state)
	if m.GetFacebookOAuthURLFunc != nil {
		return m.GetFacebookOAuthURLFunc(state)
	}
	return "https://www.facebook.com/dialog/oauth?state=" + state
}

// HandleGoogleCallback mocks the Google OAuth callback
func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	m.recordCall("HandleGoogleCallback", code)
	if m.HandleGoogleCallbackFunc != nil {
		return m.HandleGoogleCallbackFunc(ctx, code)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, ErrUserNotFound
}

// HandleFacebookCallback mocks the Facebook OAuth callback
func (m *MockAuthService) HandleFacebookCallback(ctx context.Context, code string) (*AuthResponse, error) {
	m.recordCall("HandleFacebookCallback", code)
	if m.HandleFacebookCallbackFunc != nil {
		return m.HandleFacebookCallbackFunc(ctx, code)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, ErrUserNotFound
}

// Ensure MockAuthService implements AuthServiceInterface
var _ AuthServiceInterface = (*MockAuthService)(nil)
