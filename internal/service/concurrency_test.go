package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-memory/internal/domain"
	"github.com/Tomlord1122/todo-memory/internal/repository"
)

// interleavingRepository starts a competing call the first time Modify runs,
// while the outer call is in the middle of its read-modify-write.
type interleavingRepository struct {
	repository.TodoRepository
	once    sync.Once
	compete func()
	done    chan struct{}
}

func (r *interleavingRepository) Modify(id uint64, fn func(*domain.Todo) error) (*domain.Todo, error) {
	first := false
	r.once.Do(func() { first = true })
	if !first {
		return r.TodoRepository.Modify(id, fn)
	}

	todo, err := r.TodoRepository.Modify(id, func(t *domain.Todo) error {
		started := make(chan struct{})
		go func() {
			defer close(r.done)
			close(started)
			r.compete()
		}()
		<-started
		return fn(t)
	})
	<-r.done
	return todo, err
}

func TestUpdateTodoKeepsConcurrentMarkDone(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	repo := &interleavingRepository{
		TodoRepository: repository.NewMemoryTodoRepository(),
		done:           make(chan struct{}),
	}
	svc := NewTodoService(repo, WithClock(clock.Now))
	mustCreate(t, svc, CreateTodoRequest{Title: Some("a")})

	var marked *TodoResponse
	var markErr error
	repo.compete = func() {
		marked, markErr = svc.MarkTodoDone(context.Background(), 1)
	}

	updated, err := svc.UpdateTodo(context.Background(), 1, UpdateTodoRequest{Title: Some("b")})
	require.NoError(t, err)
	require.NoError(t, markErr)
	assert.True(t, marked.Done)

	final, err := svc.GetTodoByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "b", final.Title)
	assert.True(t, final.Done)
	assert.Equal(t, "b", updated.Title)
}

func TestConcurrentUpdatesAndMarkDone(t *testing.T) {
	svc := NewTodoService(repository.NewMemoryTodoRepository())
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		todo := mustCreate(t, svc, CreateTodoRequest{Title: Some("a")})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{Title: Some("b")})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.MarkTodoDone(ctx, todo.ID)
			assert.NoError(t, err)
		}()
		wg.Wait()

		final, err := svc.GetTodoByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", final.Title)
		assert.True(t, final.Done)
	}
}
