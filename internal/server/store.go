package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

var ErrNotFound = errors.New("todo not found")

// Store is an in-memory todo table. Ids start at 1 and are never reused.
type Store struct {
	mu     sync.RWMutex
	todos  map[int64]model.Todo
	nextID int64
	now    func() time.Time
}

// NewStore returns an empty store. A nil clock means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{todos: make(map[int64]model.Todo), nextID: 1, now: now}
}

// List returns todos newest first; ties on creation time go to the higher id.
func (s *Store) List() []model.Todo {
	s.mu.RLock()
	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) Create(title string) (model.Todo, error) {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		return model.Todo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := model.Timestamp{Time: s.now().UTC()}
	t := model.Todo{ID: s.nextID, Title: title, CreatedAt: now, UpdatedAt: now}
	s.todos[t.ID] = t
	s.nextID++
	return t, nil
}

func (s *Store) Update(id int64, patch model.TodoPatch) (model.Todo, error) {
	if patch.Empty() {
		return model.Todo{}, model.ErrEmptyTodoPatch
	}
	var title string
	if patch.Title != nil {
		var err error
		if title, err = model.NormalizeTitle(*patch.Title); err != nil {
			return model.Todo{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	if patch.Title != nil {
		t.Title = title
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	t.UpdatedAt = model.Timestamp{Time: s.now().UTC()}
	s.todos[id] = t
	return t, nil
}

func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}
