package domain

import "time"

type Post struct {
	PostID    string     `json:"id" dynamodbav:"post_id"`
	UserID    string     `json:"user_id" dynamodbav:"user_id"`
	Title     string     `json:"title" dynamodbav:"title"`
	Body      string     `json:"body" dynamodbav:"body"`
	Enable    bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreatePostRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

type UpdatePostRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body"`
}
