package service

import (
	"context"

	"github.com/blog-api/internal/repository"
)

// statusService is the concrete implementation of StatusService
type statusService struct {
	repos *repository.Repositories
}

// newStatusService creates a new StatusService
func newStatusService(repos *repository.Repositories) *statusService {
	return &statusService{repos: repos}
}

// HealthCheck verifies the backing store is reachable
func (s *statusService) HealthCheck(ctx context.Context) error {
	return s.repos.Health.HealthCheck(ctx)
}

// Counts returns the number of rows per resource
func (s *statusService) Counts(ctx context.Context) (map[string]int, error) {
	counters := map[string]func(context.Context) (int, error){
		"users":    s.repos.User.Count,
		"articles": s.repos.Article.Count,
		"comments": s.repos.Comment.Count,
	}

	counts := make(map[string]int, len(counters))
	for name, count := range counters {
		n, err := count(ctx)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}
