// Package memory provides an in-process implementation of the repository
// interfaces. It backs the server when STORAGE_DRIVER=memory and is the
// store used throughout the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
)

// Store holds every table behind a single lock, so a comment insert and the
// existence check of its article happen atomically, as do cascades.
// Rows are copied on the way in and out; callers never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	seq      uint64
	users    map[string]*models.User // keyed by username
	articles map[string]*articleRow
	comments map[string]*commentRow
}

type articleRow struct {
	article models.Article
	seq     uint64
}

type commentRow struct {
	comment models.Comment
	seq     uint64
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		articles: make(map[string]*articleRow),
		comments: make(map[string]*commentRow),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:    &userRepo{s},
		Article: &articleRepo{s},
		Comment: &commentRepo{s},
		Health:  s,
	}
}

// HealthCheck always succeeds; the store lives in the process
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// usernameByID resolves an author reference. Callers hold s.mu.
func (s *Store) usernameByID(id *string) *string {
	if id == nil {
		return nil
	}
	for _, user := range s.users {
		if user.ID == *id {
			name := user.Username
			return &name
		}
	}
	return nil
}

// === Users ===

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.Username]; ok {
		return fmt.Errorf("create user %q: %w", user.Username, repository.ErrDuplicate)
	}
	stored := *user
	r.s.users[user.Username] = &stored
	return nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := *stored
	return &user, nil
}

func (r *userRepo) Delete(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, username)

	// Articles outlive their author.
	for _, a := range r.s.articles {
		if a.article.AuthorID != nil && *a.article.AuthorID == user.ID {
			a.article.AuthorID = nil
		}
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

// === Articles ===

type articleRepo struct{ s *Store }

func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[article.ID]; ok {
		return fmt.Errorf("create article %s: %w", article.ID, repository.ErrDuplicate)
	}
	if article.AuthorID != nil && r.s.usernameByID(article.AuthorID) == nil {
		return fmt.Errorf("create article %s: %w", article.ID, repository.ErrInvalidReference)
	}

	row := &articleRow{article: *article, seq: r.s.next()}
	row.article.Author = nil
	if article.AuthorID != nil {
		id := *article.AuthorID
		row.article.AuthorID = &id
	}
	r.s.articles[article.ID] = row
	return nil
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.articleView(row), nil
}

func (r *articleRepo) List(ctx context.Context) ([]*models.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*articleRow, 0, len(r.s.articles))
	for _, row := range r.s.articles {
		rows = append(rows, row)
	}
	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].article.CreatedAt.Equal(rows[j].article.CreatedAt) {
			return rows[i].article.CreatedAt.After(rows[j].article.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	articles := make([]*models.Article, len(rows))
	for i, row := range rows {
		articles[i] = r.s.articleView(row)
	}
	return articles, nil
}

func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.article.Title = article.Title
	row.article.Content = article.Content
	row.article.UpdatedAt = article.UpdatedAt
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.articles, id)

	for cid, c := range r.s.comments {
		if c.comment.ArticleID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *articleRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.articles), nil
}

// articleView copies a row and fills in the author's username. Callers hold s.mu.
func (s *Store) articleView(row *articleRow) *models.Article {
	article := row.article
	if article.AuthorID != nil {
		id := *article.AuthorID
		article.AuthorID = &id
	}
	article.Author = s.usernameByID(article.AuthorID)
	return &article
}

// === Comments ===

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[comment.ArticleID]; !ok {
		return fmt.Errorf("create comment: article %s: %w", comment.ArticleID, repository.ErrInvalidReference)
	}
	if _, ok := r.s.comments[comment.ID]; ok {
		return fmt.Errorf("create comment %s: %w", comment.ID, repository.ErrDuplicate)
	}

	r.s.comments[comment.ID] = &commentRow{comment: copyComment(comment), seq: r.s.next()}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	comment := copyComment(&row.comment)
	return &comment, nil
}

func (r *commentRepo) List(ctx context.Context) ([]*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*commentRow, 0, len(r.s.comments))
	for _, row := range r.s.comments {
		rows = append(rows, row)
	}
	// Grouped by article in the order the articles were created, then oldest
	// comment first. Comments always have a live article (deletes cascade).
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].comment, rows[j].comment
		if a.ArticleID != b.ArticleID {
			return r.s.articleBefore(a.ArticleID, b.ArticleID)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	comments := make([]*models.Comment, len(rows))
	for i, row := range rows {
		comment := copyComment(&row.comment)
		comments[i] = &comment
	}
	return comments, nil
}

func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.articles[comment.ArticleID]; !ok {
		return fmt.Errorf("update comment %s: article %s: %w", comment.ID, comment.ArticleID, repository.ErrInvalidReference)
	}

	updated := copyComment(comment)
	updated.CreatedAt = row.comment.CreatedAt
	row.comment = updated
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.comments), nil
}

// articleBefore orders two articles by creation. Callers hold s.mu.
func (s *Store) articleBefore(a, b string) bool {
	ra, rb := s.articles[a], s.articles[b]
	if !ra.article.CreatedAt.Equal(rb.article.CreatedAt) {
		return ra.article.CreatedAt.Before(rb.article.CreatedAt)
	}
	return ra.seq < rb.seq
}

func copyComment(c *models.Comment) models.Comment {
	out := *c
	if c.Username != nil {
		name := *c.Username
		out.Username = &name
	}
	return out
}
