package models

import (
	"time"
)

// Article represents a blog article
type Article struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	AuthorID  *string   `json:"-" db:"author_id"`
	Author    *string   `json:"author"` // Username of the author, null once the user is removed
	CreatedAt time.Time `json:"created_date" db:"created_date"`
	UpdatedAt time.Time `json:"last_modified_date" db:"last_modified_date"`
}

// MaxTitleLength is the maximum number of characters in an article title
const MaxTitleLength = 200

// ArticleInput is the writable subset of an article accepted from clients
type ArticleInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
