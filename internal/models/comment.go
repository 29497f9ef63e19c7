package models

import (
	"time"
)

// Comment represents a comment on an article
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ArticleID string    `json:"article" db:"article_id"`
	Username  *string   `json:"username" db:"username"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_date" db:"created_date"`
}

// CommentInput is the writable subset of a comment accepted from clients.
// Username is only honoured for anonymous callers.
type CommentInput struct {
	ArticleID string  `json:"article"`
	Username  *string `json:"username"`
	Content   string  `json:"content"`
}
