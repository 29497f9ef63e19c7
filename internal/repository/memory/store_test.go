package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with one user and one article for tests
func newTestStore(t *testing.T) (*repository.Repositories, *models.User, *models.Article) {
	t.Helper()
	repos := New().Repositories()
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Username: "superman", IsAdmin: true, CreatedAt: time.Now()}
	require.NoError(t, repos.User.Create(ctx, user))

	now := time.Now().UTC()
	article := &models.Article{
		ID:        uuid.NewString(),
		Title:     "test article",
		Content:   "this is some content",
		AuthorID:  &user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repos.Article.Create(ctx, article))
	return repos, user, article
}

func newComment(articleID, content string) *models.Comment {
	return &models.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_ArticleAuthorResolvedToUsername(t *testing.T) {
	repos, user, article := newTestStore(t)
	ctx := context.Background()

	retrieved, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.Author)
	assert.Equal(t, user.Username, *retrieved.Author)
	assert.Equal(t, article.Title, retrieved.Title)

	_, err = repos.Article.GetByID(ctx, "non-existent-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ArticleCreateUnknownAuthor(t *testing.T) {
	repos, _, _ := newTestStore(t)
	missing := uuid.NewString()

	err := repos.Article.Create(context.Background(), &models.Article{ID: uuid.NewString(), Title: "t", Content: "c", AuthorID: &missing})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestStore_DeleteUserNullsAuthor(t *testing.T) {
	repos, user, article := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, repos.User.Delete(ctx, user.Username))

	retrieved, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err, "article must survive its author")
	assert.Nil(t, retrieved.AuthorID)
	assert.Nil(t, retrieved.Author)

	assert.ErrorIs(t, repos.User.Delete(ctx, user.Username), repository.ErrNotFound)
}

func TestStore_DuplicateUsername(t *testing.T) {
	repos, user, _ := newTestStore(t)

	err := repos.User.Create(context.Background(), &models.User{ID: uuid.NewString(), Username: user.Username})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestStore_ArticleListNewestFirst(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		created := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.Article.Create(ctx, &models.Article{
			ID: uuid.NewString(), Title: title, Content: "c", CreatedAt: created, UpdatedAt: created,
		}))
	}

	articles, err := repos.Article.List(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "third", articles[0].Title)
	assert.Equal(t, "second", articles[1].Title)
	assert.Equal(t, "first", articles[2].Title)
}

func TestStore_ArticleListTiesUseInsertionOrder(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"older", "newer"} {
		require.NoError(t, repos.Article.Create(ctx, &models.Article{
			ID: uuid.NewString(), Title: title, Content: "c", CreatedAt: same, UpdatedAt: same,
		}))
	}

	articles, err := repos.Article.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newer", articles[0].Title)
}

func TestStore_ArticleUpdate(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()
	later := article.CreatedAt.Add(time.Minute)

	err := repos.Article.Update(ctx, &models.Article{ID: article.ID, Title: "changed", Content: "new", UpdatedAt: later})
	require.NoError(t, err)

	retrieved, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", retrieved.Title)
	assert.Equal(t, "new", retrieved.Content)
	assert.True(t, retrieved.CreatedAt.Equal(article.CreatedAt))
	assert.True(t, retrieved.UpdatedAt.Equal(later))

	err = repos.Article.Update(ctx, &models.Article{ID: uuid.NewString(), Title: "x", Content: "y"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ReturnedRowsAreCopies(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()

	retrieved, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err)
	retrieved.Title = "mutated"

	again, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "test article", again.Title)
}

func TestStore_CommentRequiresArticle(t *testing.T) {
	repos, _, _ := newTestStore(t)
	ctx := context.Background()

	err := repos.Comment.Create(ctx, newComment(uuid.NewString(), "orphan"))
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	count, err := repos.Comment.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_DeleteArticleCascades(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()

	other := &models.Article{ID: uuid.NewString(), Title: "other", Content: "c", CreatedAt: time.Now()}
	require.NoError(t, repos.Article.Create(ctx, other))

	require.NoError(t, repos.Comment.Create(ctx, newComment(article.ID, "one")))
	require.NoError(t, repos.Comment.Create(ctx, newComment(article.ID, "two")))
	kept := newComment(other.ID, "kept")
	require.NoError(t, repos.Comment.Create(ctx, kept))

	require.NoError(t, repos.Article.Delete(ctx, article.ID))

	comments, err := repos.Comment.List(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, kept.ID, comments[0].ID)

	assert.ErrorIs(t, repos.Article.Delete(ctx, article.ID), repository.ErrNotFound)
}

func TestStore_CommentListGroupedByArticle(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()

	// Ids sort opposite to creation order; groups must follow creation.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Article{ID: "00000000-0000-0000-0000-00000000000f", Title: "a", Content: "c", CreatedAt: base}
	b := &models.Article{ID: "00000000-0000-0000-0000-000000000001", Title: "b", Content: "c", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repos.Article.Create(ctx, a))
	require.NoError(t, repos.Article.Create(ctx, b))

	// Interleave creation across articles.
	require.NoError(t, repos.Comment.Create(ctx, newComment(b.ID, "b1")))
	require.NoError(t, repos.Comment.Create(ctx, newComment(a.ID, "a1")))
	require.NoError(t, repos.Comment.Create(ctx, newComment(b.ID, "b2")))
	require.NoError(t, repos.Comment.Create(ctx, newComment(a.ID, "a2")))

	comments, err := repos.Comment.List(ctx)
	require.NoError(t, err)

	var got []string
	for _, c := range comments {
		got = append(got, c.Content)
	}
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, got)
}

func TestStore_CommentUpdate(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()

	comment := newComment(article.ID, "this is a comment")
	require.NoError(t, repos.Comment.Create(ctx, comment))

	bad := *comment
	bad.ArticleID = uuid.NewString()
	bad.Content = "changed"
	assert.ErrorIs(t, repos.Comment.Update(ctx, &bad), repository.ErrInvalidReference)

	retrieved, err := repos.Comment.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "this is a comment", retrieved.Content, "rejected update must not apply")

	good := *comment
	good.Content = "changed"
	good.CreatedAt = time.Time{}
	require.NoError(t, repos.Comment.Update(ctx, &good))

	retrieved, err = repos.Comment.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", retrieved.Content)
	assert.True(t, retrieved.CreatedAt.Equal(comment.CreatedAt), "created date is immutable")

	missing := newComment(article.ID, "x")
	assert.ErrorIs(t, repos.Comment.Update(ctx, missing), repository.ErrNotFound)
}

func TestStore_ConcurrentCommentsAndDelete(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repos.Comment.Create(ctx, newComment(article.ID, fmt.Sprintf("comment %d", i)))
			if err != nil {
				assert.ErrorIs(t, err, repository.ErrInvalidReference)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, repos.Article.Delete(ctx, article.ID))
	}()
	wg.Wait()

	// Whatever interleaving happened, no comment may point at the deleted article.
	comments, err := repos.Comment.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestStore_Counts(t *testing.T) {
	repos, _, article := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repos.Comment.Create(ctx, newComment(article.ID, "hi")))

	users, _ := repos.User.Count(ctx)
	articles, _ := repos.Article.Count(ctx)
	comments, _ := repos.Comment.Count(ctx)
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, articles)
	assert.Equal(t, 1, comments)

	assert.NoError(t, repos.Health.HealthCheck(ctx))
}

func BenchmarkArticleList(b *testing.B) {
	repos := New().Repositories()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		repos.Article.Create(ctx, &models.Article{
			ID: uuid.NewString(), Title: fmt.Sprintf("article %d", i), Content: "c", CreatedAt: time.Now(),
		})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		repos.Article.List(ctx)
	}
	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}
