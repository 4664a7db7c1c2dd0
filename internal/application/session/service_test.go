package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-posts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error {
	return m.Called(ctx, sessionID, newToken, newExpiry).Error(0)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, role, sessionID string) (string, error) {
	args := m.Called(userID, role, sessionID)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func enabledUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		UserID:       "u1",
		Username:     "alice",
		Role:         domain.RoleUser,
		Enable:       true,
		PasswordHash: string(hash),
	}
}

// --- Login ---

func TestLogin_UnknownUser(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
	us.On("GetByEmail", mock.Anything, "ghost").Return(nil, nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "pw"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "alice").Return(enabledUser(t, "correct-pw"), nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong-pw"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	u := enabledUser(t, "pw")
	u.Enable = false
	us.On("GetByUsername", mock.Anything, "alice").Return(u, nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogin_Success(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	signer := &mockJWTSigner{}
	us.On("GetByUsername", mock.Anything, "alice").Return(enabledUser(t, "pw"), nil)
	ss.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == "u1" && s.Enable && s.RefreshToken != ""
	})).Return(nil)
	signer.On("Sign", "u1", domain.RoleUser, mock.Anything).Return("bearer-token", nil)

	svc := NewService(ss, us, signer, 30*24*time.Hour)
	result, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Bearer)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "u1", result.Session.UserID)
	ss.AssertExpectations(t)
	signer.AssertExpectations(t)
}

// --- Refresh ---

func TestRefresh_UnknownToken(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	ss.On("GetByRefreshToken", mock.Anything, "nope").Return(nil, nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, _, err := svc.Refresh(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	ss.On("GetByRefreshToken", mock.Anything, "old").Return(&domain.Session{
		SessionID:        "s1",
		UserID:           "u1",
		Enable:           true,
		RefreshToken:     "old",
		RefreshExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}, nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, _, err := svc.Refresh(context.Background(), "old")

	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	signer := &mockJWTSigner{}
	ss.On("GetByRefreshToken", mock.Anything, "current").Return(&domain.Session{
		SessionID:        "s1",
		UserID:           "u1",
		Enable:           true,
		RefreshToken:     "current",
		RefreshExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	ss.On("RotateRefreshToken", mock.Anything, "s1", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Role: domain.RoleUser}, nil)
	signer.On("Sign", "u1", domain.RoleUser, "s1").Return("new-bearer", nil)

	svc := NewService(ss, us, signer, 30*24*time.Hour)
	bearer, newToken, err := svc.Refresh(context.Background(), "current")

	require.NoError(t, err)
	assert.Equal(t, "new-bearer", bearer)
	assert.NotEqual(t, "current", newToken)
	ss.AssertExpectations(t)
}

// --- GetCurrent / Logout ---

func TestGetCurrent_AbsentSession_NotFound(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	ss.On("Get", mock.Anything, "missing").Return(nil, nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	_, err := svc.GetCurrent(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogout_DisablesSession(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	ss.On("Update", mock.Anything, "s1", map[string]interface{}{"enable": false}).Return(nil)

	svc := NewService(ss, us, nil, 30*24*time.Hour)
	require.NoError(t, svc.Logout(context.Background(), "s1"))
	ss.AssertExpectations(t)
}
