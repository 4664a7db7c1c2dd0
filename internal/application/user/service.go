package user

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-posts-api/internal/domain"
	"github.com/go-posts-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername  = "username"
	fieldEmail     = "email"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldAvatarKey = "avatar_key"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID, requesterID string, isAdmin bool, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID, requesterID string, isAdmin bool) error
	UploadAvatar(ctx context.Context, userID, requesterID, filename string, body io.Reader, contentType string) (*domain.User, error)
	GetAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type sessionStore interface {
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo        userStore
	sessionRepo sessionStore
	avatars     objectStore
}

func NewService(repo userStore, sessionRepo sessionStore, avatars objectStore) Service {
	return &service{repo: repo, sessionRepo: sessionRepo, avatars: avatars}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if existing, err := s.repo.GetByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleUser,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.RequireFound(u)
}

func (s *service) Update(ctx context.Context, userID, requesterID string, isAdmin bool, req domain.UpdateUserRequest) (*domain.User, error) {
	if !isAdmin {
		if err := domain.ValidateUser(requesterID, userID); err != nil {
			return nil, err
		}
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Username != nil {
		updates[fieldUsername] = *req.Username
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if len(updates) == 0 {
		return s.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, requesterID string, isAdmin bool) error {
	if !isAdmin {
		if err := domain.ValidateUser(requesterID, userID); err != nil {
			return err
		}
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if u.AvatarKey != "" {
		// Best-effort object cleanup. The record is already gone.
		_ = s.avatars.Delete(ctx, u.AvatarKey)
	}
	return s.sessionRepo.SoftDeleteByUser(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID, requesterID, filename string, body io.Reader, contentType string) (*domain.User, error) {
	if err := domain.ValidateUser(requesterID, userID); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%s/%s", userID, filename)
	if _, err := s.avatars.Upload(ctx, key, body, contentType); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldAvatarKey: key}); err != nil {
		return nil, err
	}
	if u.AvatarKey != "" && u.AvatarKey != key {
		_ = s.avatars.Delete(ctx, u.AvatarKey)
	}
	return s.Get(ctx, userID)
}

func (s *service) GetAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if u.AvatarKey == "" {
		return nil, "", domain.ErrNotFound
	}
	rc, err := s.avatars.Download(ctx, u.AvatarKey)
	if err != nil {
		return nil, "", err
	}
	return rc, u.AvatarKey, nil
}
