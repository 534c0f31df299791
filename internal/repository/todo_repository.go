package repository

import (
	"sync"

	"github.com/Tomlord1122/todo-memory/internal/domain"
)

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	Create(todo *domain.Todo) error
	FindByID(id uint64) (*domain.Todo, error)
	GetAll() ([]domain.Todo, error)
	Filter(keep func(domain.Todo) bool) ([]domain.Todo, error)
	Modify(id uint64, fn func(*domain.Todo) error) (*domain.Todo, error)
	Delete(id uint64) (*domain.Todo, error)
	Count() int
}

// memoryTodoRepository implements TodoRepository over an ordered slice.
// Records go in and out as copies, so callers never hold references into the
// collection.
type memoryTodoRepository struct {
	mu     sync.Mutex
	todos  []domain.Todo
	nextID uint64
}

// NewMemoryTodoRepository creates an empty store whose first id is 1.
func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{nextID: 1}
}

// Create assigns the next id to todo and appends a copy of it
func (r *memoryTodoRepository) Create(todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo.ID = r.nextID
	r.nextID++
	r.todos = append(r.todos, todo.Clone())
	return nil
}

// FindByID retrieves a todo by its ID
func (r *memoryTodoRepository) FindByID(id uint64) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTodoNotFound
	}
	todo := r.todos[i].Clone()
	return &todo, nil
}

// GetAll retrieves all todos in insertion order
func (r *memoryTodoRepository) GetAll() ([]domain.Todo, error) {
	return r.Filter(func(domain.Todo) bool { return true })
}

// Filter returns the todos for which keep reports true, in insertion order
func (r *memoryTodoRepository) Filter(keep func(domain.Todo) bool) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos := make([]domain.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if keep(t) {
			todos = append(todos, t.Clone())
		}
	}
	return todos, nil
}

// Modify runs fn on a copy of the todo with the given ID and stores the copy
// if fn succeeds. The lookup, fn and the store happen under one lock, so no
// other call can interleave. An error from fn leaves the stored todo unchanged.
func (r *memoryTodoRepository) Modify(id uint64, fn func(*domain.Todo) error) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTodoNotFound
	}
	todo := r.todos[i].Clone()
	if err := fn(&todo); err != nil {
		return nil, err
	}
	todo.ID = id
	r.todos[i] = todo.Clone()
	return &todo, nil
}

// Delete removes a todo by its ID and returns the removed record
func (r *memoryTodoRepository) Delete(id uint64) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTodoNotFound
	}
	removed := r.todos[i]
	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return &removed, nil
}

// Count returns the number of stored todos
func (r *memoryTodoRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.todos)
}

func (r *memoryTodoRepository) indexOf(id uint64) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}
	return -1
}
