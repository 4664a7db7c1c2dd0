package post

import (
	"context"
	"time"

	"github.com/go-posts-api/internal/domain"
	"github.com/go-posts-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle = "title"
	fieldBody  = "body"
)

type Service interface {
	Create(ctx context.Context, authorID string, req domain.CreatePostRequest) (*domain.Post, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Post, string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Update(ctx context.Context, postID, requesterID string, isAdmin bool, req domain.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, postID, requesterID string, isAdmin bool) error
}

type postStore interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Update(ctx context.Context, postID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, postID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Post, string, error)
}

type service struct {
	repo postStore
}

func NewService(repo postStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, authorID string, req domain.CreatePostRequest) (*domain.Post, error) {
	now := time.Now().UTC()
	p := &domain.Post{
		PostID:    id.New(),
		UserID:    authorID,
		Title:     req.Title,
		Body:      req.Body,
		Enable:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Post, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, postID string) (*domain.Post, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	return domain.RequireFound(p)
}

func (s *service) Update(ctx context.Context, postID, requesterID string, isAdmin bool, req domain.UpdatePostRequest) (*domain.Post, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		if err := domain.RequireOwnership(requesterID, p.UserID); err != nil {
			return nil, err
		}
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Body != nil {
		updates[fieldBody] = *req.Body
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := s.repo.Update(ctx, postID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, postID)
}

func (s *service) Delete(ctx context.Context, postID, requesterID string, isAdmin bool) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !isAdmin {
		if err := domain.RequireOwnership(requesterID, p.UserID); err != nil {
			return err
		}
	}
	return s.repo.SoftDelete(ctx, postID)
}
