package http

import (
	"context"
	"io"

	"github.com/go-posts-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
// Lookups return (nil, nil) when no document matches; the services classify
// absence through the domain guards.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

// PostRepository is the minimal interface the router requires from a post store.
type PostRepository interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Update(ctx context.Context, postID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, postID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Post, string, error)
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	SoftDeleteByUser(ctx context.Context, userID string) error
}

// ObjectStore is the minimal interface the router requires from the avatar store.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
