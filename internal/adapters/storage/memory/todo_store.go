package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/mul/internal/domain"
)

type TodoStore struct {
	mu    sync.RWMutex
	items []*domain.TodoItem // newest first
}

func NewTodoStore() *TodoStore {
	return &TodoStore{}
}

// PrependTodos puts a new batch above the existing todos, keeping the
// batch's own order.
func (s *TodoStore) PrependTodos(items []*domain.TodoItem) error {
	batch := make([]*domain.TodoItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cp := *it
		if cp.ID == "" {
			cp.ID = domain.TodoID(uuid.NewString())
		}
		batch = append(batch, &cp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(batch, s.items...)
	return nil
}

// ToggleTodo flips completion and returns the updated item.
func (s *TodoStore) ToggleTodo(id domain.TodoID) (*domain.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			it.Completed = !it.Completed
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrTodoNotFound
}

func (s *TodoStore) DeleteTodo(id domain.TodoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(it *domain.TodoItem) bool { return it.ID == id })
	if i < 0 {
		return domain.ErrTodoNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *TodoStore) ListTodos() ([]domain.TodoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TodoItem, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out, nil
}
