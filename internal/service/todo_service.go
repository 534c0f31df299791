package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tomlord1122/todo-memory/internal/domain"
	"github.com/Tomlord1122/todo-memory/internal/repository"
)

// Messages returned to clients for rejected input.
const (
	msgTitleRequired    = "Title is required and must be a string."
	msgTitleNonEmpty    = "Title must be a non-empty string when provided."
	msgInvalidDueAt     = "Invalid dueAt date-time format."
	msgInvalidDesc      = "Description must be a string."
	msgInvalidDone      = "Done must be a boolean."
	healthStatusHealthy = "ok"
)

// TodoNotFoundMessage is the client-facing message for a missing todo.
const TodoNotFoundMessage = "Todo not found."

// Input/Output Structs (Data Transfer Objects - DTOs)

// CreateTodoRequest holds the data needed to create a new todo.
// A null or empty dueAt means the todo has no due time.
type CreateTodoRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	DueAt       Optional[string] `json:"dueAt"`
}

// UpdateTodoRequest holds a partial update. Absent fields are left unchanged;
// a null or empty dueAt clears the due time.
type UpdateTodoRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	DueAt       Optional[string] `json:"dueAt"`
	Done        Optional[bool]   `json:"done"`
}

// TodoResponse is the standard representation of a Todo returned by the service.
type TodoResponse struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueAt       *string `json:"dueAt"`
	Done        bool    `json:"done"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// --- Service Interface ---

// TodoService defines the operations for managing todos.
type TodoService interface {
	// CreateTodo validates the request and stores a new, not yet done todo.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// GetTodoByID retrieves a single todo item by its ID.
	GetTodoByID(ctx context.Context, id uint64) (*TodoResponse, error)

	// GetAllTodos returns every todo in insertion order.
	GetAllTodos(ctx context.Context) ([]TodoResponse, error)

	// UpdateTodo applies a partial update to an existing todo.
	UpdateTodo(ctx context.Context, id uint64, req UpdateTodoRequest) (*TodoResponse, error)

	// DeleteTodo removes a todo and returns it.
	DeleteTodo(ctx context.Context, id uint64) (*TodoResponse, error)

	// MarkTodoDone sets done on a todo. Calling it again still bumps updatedAt.
	MarkTodoDone(ctx context.Context, id uint64) (*TodoResponse, error)

	// GetRemainingTodos returns todos that are not done and not overdue.
	GetRemainingTodos(ctx context.Context) ([]TodoResponse, error)

	Health(ctx context.Context) HealthResponse
}

// Clock supplies the current time.
type Clock func() time.Time

// Option configures a todoService.
type Option func(*todoService)

// WithClock replaces time.Now as the service's time source.
func WithClock(clock Clock) Option {
	return func(s *todoService) {
		s.now = clock
	}
}

// --- Service Implementation ---

type todoService struct {
	repo repository.TodoRepository
	now  Clock
}

// NewTodoService creates a new instance of todoService backed by repo.
func NewTodoService(repo repository.TodoRepository, opts ...Option) TodoService {
	s := &todoService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *todoService) currentTime() time.Time {
	return normalizeTime(s.now())
}

// CreateTodo implements the logic to create a new todo.
func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	if !req.Title.HasValue() || req.Title.Value == "" {
		return nil, domain.NewValidationError("title", msgTitleRequired)
	}
	if req.Description.Invalid {
		return nil, domain.NewValidationError("description", msgInvalidDesc)
	}
	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		return nil, err
	}

	now := s.currentTime()
	newTodo := &domain.Todo{
		Title:       req.Title.Value,
		Description: req.Description.Value,
		DueAt:       dueAt,
		Done:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(newTodo); err != nil {
		slog.ErrorContext(ctx, "creating todo in repository", "error", err)
		return nil, fmt.Errorf("create todo: %w", err)
	}

	return toResponse(*newTodo), nil
}

// GetTodoByID implements the logic to retrieve a todo by ID.
func (s *todoService) GetTodoByID(ctx context.Context, id uint64) (*TodoResponse, error) {
	todo, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(*todo), nil
}

// GetAllTodos implements the logic to retrieve all todos.
func (s *todoService) GetAllTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.GetAll()
	if err != nil {
		slog.ErrorContext(ctx, "fetching all todos from repository", "error", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return toResponses(todos), nil
}

// UpdateTodo validates every provided field before changing anything, so a
// rejected request leaves the todo untouched. Validation runs only once the
// todo is known to exist, so a missing id is reported as not found.
func (s *todoService) UpdateTodo(ctx context.Context, id uint64, req UpdateTodoRequest) (*TodoResponse, error) {
	return s.modify(ctx, id, func(todo *domain.Todo) error {
		if req.Title.Set && (!req.Title.HasValue() || req.Title.Value == "") {
			return domain.NewValidationError("title", msgTitleNonEmpty)
		}
		if req.Description.Invalid {
			return domain.NewValidationError("description", msgInvalidDesc)
		}
		// done is a JSON boolean (null reads as false); numbers and strings
		// such as 1 or "true" are rejected rather than coerced.
		if req.Done.Invalid {
			return domain.NewValidationError("done", msgInvalidDone)
		}
		var dueAt *time.Time
		if req.DueAt.Set {
			var err error
			if dueAt, err = parseDueAt(req.DueAt); err != nil {
				return err
			}
		}

		if req.Title.Set {
			todo.Title = req.Title.Value
		}
		if req.Description.Set {
			todo.Description = req.Description.Value
		}
		if req.DueAt.Set {
			todo.DueAt = dueAt
		}
		if req.Done.Set {
			todo.Done = req.Done.Value
		}
		todo.UpdatedAt = s.currentTime()
		return nil
	})
}

// DeleteTodo implements the logic to delete a todo.
func (s *todoService) DeleteTodo(ctx context.Context, id uint64) (*TodoResponse, error) {
	removed, err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return nil, notFound(id)
		}
		slog.ErrorContext(ctx, "deleting todo from repository", "id", id, "error", err)
		return nil, fmt.Errorf("delete todo %d: %w", id, err)
	}
	return toResponse(*removed), nil
}

// MarkTodoDone implements the logic to complete a todo.
func (s *todoService) MarkTodoDone(ctx context.Context, id uint64) (*TodoResponse, error) {
	return s.modify(ctx, id, func(todo *domain.Todo) error {
		todo.Done = true
		todo.UpdatedAt = s.currentTime()
		return nil
	})
}

// GetRemainingTodos evaluates "remaining" against the time of the call.
func (s *todoService) GetRemainingTodos(ctx context.Context) ([]TodoResponse, error) {
	now := s.currentTime()
	todos, err := s.repo.Filter(func(t domain.Todo) bool {
		return t.IsRemaining(now)
	})
	if err != nil {
		slog.ErrorContext(ctx, "filtering remaining todos", "error", err)
		return nil, fmt.Errorf("list remaining todos: %w", err)
	}
	return toResponses(todos), nil
}

func (s *todoService) Health(ctx context.Context) HealthResponse {
	return HealthResponse{
		Status:    healthStatusHealthy,
		Timestamp: FormatTimestamp(s.currentTime()),
	}
}

func (s *todoService) find(ctx context.Context, id uint64) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return nil, notFound(id)
		}
		slog.ErrorContext(ctx, "fetching todo from repository", "id", id, "error", err)
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return todo, nil
}

// modify applies fn to the todo as one step of the store, so concurrent
// read-modify-write calls on the same todo never lose each other's changes.
func (s *todoService) modify(ctx context.Context, id uint64, fn func(*domain.Todo) error) (*TodoResponse, error) {
	todo, err := s.repo.Modify(id, fn)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTodoNotFound):
			return nil, notFound(id)
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		slog.ErrorContext(ctx, "modifying todo in repository", "id", id, "error", err)
		return nil, fmt.Errorf("modify todo %d: %w", id, err)
	}
	return toResponse(*todo), nil
}

// parseDueAt treats an absent, null or empty dueAt as "no due time".
func parseDueAt(field Optional[string]) (*time.Time, error) {
	if field.Invalid {
		return nil, domain.NewValidationError("dueAt", msgInvalidDueAt)
	}
	if !field.HasValue() || field.Value == "" {
		return nil, nil
	}
	t, ok := ParseDateTime(field.Value)
	if !ok {
		return nil, domain.NewValidationError("dueAt", msgInvalidDueAt)
	}
	return &t, nil
}

func notFound(id uint64) error {
	return fmt.Errorf("todo with ID %d: %w", id, domain.ErrTodoNotFound)
}

func toResponse(todo domain.Todo) *TodoResponse {
	resp := &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Done:        todo.Done,
		CreatedAt:   FormatTimestamp(todo.CreatedAt),
		UpdatedAt:   FormatTimestamp(todo.UpdatedAt),
	}
	if todo.DueAt != nil {
		due := FormatTimestamp(*todo.DueAt)
		resp.DueAt = &due
	}
	return resp
}

func toResponses(todos []domain.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, *toResponse(todo))
	}
	return responses
}
