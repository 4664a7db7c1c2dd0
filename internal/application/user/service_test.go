package user

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-posts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

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
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) SoftDelete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) SoftDeleteByUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- helpers ---

func baseReq() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Username:  "alice",
		Password:  "password123",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

// --- Register ---

func TestRegister_UsernameConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "alice").Return(&domain.User{}, nil)

	svc := NewService(us, nil, nil)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertExpectations(t)
}

func TestRegister_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{}, nil)

	svc := NewService(us, nil, nil)
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_HashesPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)

	svc := NewService(us, nil, nil)
	u, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.Enable)
	assert.NotEmpty(t, u.UserID)
	us.AssertExpectations(t)
}

// --- Get ---

func TestGet_Absent_NotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "missing").Return(nil, nil)

	svc := NewService(us, nil, nil)
	_, err := svc.Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Update ---

func TestUpdate_OtherCaller_UserValidationError(t *testing.T) {
	us := &mockUserStore{}

	svc := NewService(us, nil, nil)
	name := "bob"
	_, err := svc.Update(context.Background(), "u1", "u2", false, domain.UpdateUserRequest{Username: &name})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUserValidation))
	assert.Equal(t, "The provided token does not match the current user ID", err.Error())
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OwnRecord(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"username": "bob"}).Return(nil)

	svc := NewService(us, nil, nil)
	name := "bob"
	_, err := svc.Update(context.Background(), "u1", "u1", false, domain.UpdateUserRequest{Username: &name})

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestUpdate_AdminCanEditOtherUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := NewService(us, nil, nil)
	name := "bob"
	_, err := svc.Update(context.Background(), "u1", "admin-id", true, domain.UpdateUserRequest{Username: &name})

	require.NoError(t, err)
}

// --- Delete ---

func TestDelete_OwnAccount_InvalidatesSessions(t *testing.T) {
	us := &mockUserStore{}
	ss := &mockSessionStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(nil)

	svc := NewService(us, ss, nil)
	require.NoError(t, svc.Delete(context.Background(), "u1", "u1", false))
	us.AssertExpectations(t)
	ss.AssertExpectations(t)
}

func TestDelete_RemovesAvatarObject(t *testing.T) {
	us := &mockUserStore{}
	ss := &mockSessionStore{}
	obj := &mockObjectStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", AvatarKey: "avatars/u1/a.png"}, nil)
	us.On("SoftDelete", mock.Anything, "u1").Return(nil)
	obj.On("Delete", mock.Anything, "avatars/u1/a.png").Return(nil)
	ss.On("SoftDeleteByUser", mock.Anything, "u1").Return(nil)

	svc := NewService(us, ss, obj)
	require.NoError(t, svc.Delete(context.Background(), "u1", "u1", false))
	obj.AssertExpectations(t)
}

func TestDelete_OtherCaller_UserValidationError(t *testing.T) {
	us := &mockUserStore{}

	svc := NewService(us, nil, nil)
	err := svc.Delete(context.Background(), "u1", "u2", false)

	assert.True(t, errors.Is(err, domain.ErrUserValidation))
	us.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

// --- UploadAvatar ---

func TestUploadAvatar_OtherCaller_UserValidationError(t *testing.T) {
	us := &mockUserStore{}
	obj := &mockObjectStore{}

	svc := NewService(us, nil, obj)
	_, err := svc.UploadAvatar(context.Background(), "u1", "u2", "a.png", strings.NewReader("img"), "image/png")

	assert.True(t, errors.Is(err, domain.ErrUserValidation))
	obj.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadAvatar_StoresKeyOnUser(t *testing.T) {
	us := &mockUserStore{}
	obj := &mockObjectStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	obj.On("Upload", mock.Anything, "avatars/u1/a.png", mock.Anything, "image/png").Return("s3://b/avatars/u1/a.png", nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"avatar_key": "avatars/u1/a.png"}).Return(nil)

	svc := NewService(us, nil, obj)
	_, err := svc.UploadAvatar(context.Background(), "u1", "u1", "a.png", strings.NewReader("img"), "image/png")

	require.NoError(t, err)
	us.AssertExpectations(t)
	obj.AssertExpectations(t)
	obj.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUploadAvatar_RemovesReplacedObject(t *testing.T) {
	us := &mockUserStore{}
	obj := &mockObjectStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", AvatarKey: "avatars/u1/old.png"}, nil)
	obj.On("Upload", mock.Anything, "avatars/u1/new.png", mock.Anything, "image/png").Return("s3://b/avatars/u1/new.png", nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"avatar_key": "avatars/u1/new.png"}).Return(nil)
	obj.On("Delete", mock.Anything, "avatars/u1/old.png").Return(nil)

	svc := NewService(us, nil, obj)
	_, err := svc.UploadAvatar(context.Background(), "u1", "u1", "new.png", strings.NewReader("img"), "image/png")

	require.NoError(t, err)
	obj.AssertExpectations(t)
}

// --- GetAvatar ---

func TestGetAvatar_StreamsStoredObject(t *testing.T) {
	us := &mockUserStore{}
	obj := &mockObjectStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", AvatarKey: "avatars/u1/a.png"}, nil)
	obj.On("Download", mock.Anything, "avatars/u1/a.png").Return(io.NopCloser(strings.NewReader("img-bytes")), nil)

	svc := NewService(us, nil, obj)
	rc, key, err := svc.GetAvatar(context.Background(), "u1")

	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "avatars/u1/a.png", key)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(b))
	obj.AssertExpectations(t)
}

func TestGetAvatar_NoAvatar_NotFound(t *testing.T) {
	us := &mockUserStore{}
	obj := &mockObjectStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(us, nil, obj)
	_, _, err := svc.GetAvatar(context.Background(), "u1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	obj.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}
