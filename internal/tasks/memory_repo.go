package tasks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var errEmptyTitle = errors.New("title must not be blank")

// MemoryRepo is a mutex-guarded Repository used in tests. It mirrors the
// SQLite store's semantics, including the title check and list ordering.
type MemoryRepo struct {
	mu    sync.Mutex
	seq   int64
	store map[int64]Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]Task)}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, 0, len(r.store))
	for _, t := range r.store {
		out = append(out, t)
	}
	sortTasks(out)
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, in TaskInput) (Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Task{}, errEmptyTitle
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	t := Task{
		ID:        r.seq,
		Title:     in.Title,
		Notes:     in.Notes,
		DueDate:   in.DueDate,
		Completed: false,
		CreatedAt: time.Now().UTC(),
	}
	r.store[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Replace(ctx context.Context, id int64, in TaskInput, completed bool) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	existing.Title = in.Title
	existing.Notes = in.Notes
	existing.DueDate = in.DueDate
	existing.Completed = completed
	r.store[id] = existing
	return existing, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
	return nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error { return nil }

// sortTasks applies the collection ordering: due-dated tasks first ascending
// by date, undated tasks last, ties broken by creation time then id.
func sortTasks(ts []Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(b.DueDate.Time):
			return a.DueDate.Before(b.DueDate.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
