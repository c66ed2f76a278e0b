package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ErrNotFound is returned when an id does not resolve to a task.
var ErrNotFound = errors.New("task not found")

// DefaultSearchLimit caps search results when the caller supplies no limit.
const DefaultSearchLimit = 10

// QueryService serves the read side: filtered lists, single lookups,
// statistics and ranked search. It has no side effects on the store.
type QueryService struct {
	repo  *repository.TaskRepository
	nowFn func() time.Time
}

func NewQueryService(repo *repository.TaskRepository) *QueryService {
	return &QueryService{repo: repo, nowFn: time.Now}
}

// SetClock overrides the service clock. Intended for tests.
func (s *QueryService) SetClock(nowFn func() time.Time) {
	s.nowFn = nowFn
}

// Today returns the current date in canonical form.
func (s *QueryService) Today() string {
	return s.nowFn().Format(model.DateLayout)
}

// List returns tasks matching the filters; every row carries is_overdue.
func (s *QueryService) List(ctx context.Context, filters model.ListFilters) ([]model.Task, error) {
	return s.repo.List(ctx, filters, s.Today())
}

// Get returns one task or ErrNotFound.
func (s *QueryService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.repo.GetWithOverdue(ctx, id, s.Today())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Statistics computes the aggregate completion figures.
func (s *QueryService) Statistics(ctx context.Context) (model.Statistics, error) {
	return s.repo.Statistics(ctx, s.Today())
}

// Search returns up to limit tasks whose name contains keyword,
// exact-prefix matches first.
func (s *QueryService) Search(ctx context.Context, keyword string, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.repo.Search(ctx, keyword, limit, s.Today())
}
