package server

import (
	"net/http"
	"time"

	"github.com/Tomlord1122/todo-memory/internal/config"
	"github.com/Tomlord1122/todo-memory/internal/service"
)

// TodoCounter reports how many todos are stored.
type TodoCounter interface {
	Count() int
}

type Server struct {
	cfg         *config.Config
	todoService service.TodoService
	metrics     *Metrics
}

// New builds the application server. counter feeds the todo_items gauge.
func New(cfg *config.Config, todoService service.TodoService, counter TodoCounter) *Server {
	return &Server{
		cfg:         cfg,
		todoService: todoService,
		metrics:     NewMetrics(counter),
	}
}

// NewServer wraps the application routes in an *http.Server listening on cfg.Addr().
func NewServer(cfg *config.Config, todoService service.TodoService, counter TodoCounter) *http.Server {
	appServer := New(cfg, todoService, counter)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
