package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-memory/internal/domain"
	"github.com/Tomlord1122/todo-memory/internal/service"
)

const maxBodyBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/health", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", s.createTodoHandler)
		r.Get("/", s.getAllTodosHandler)
		r.Get("/{id}", s.getTodoByIDHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
		r.Post("/{id}/done", s.markTodoDoneHandler)
	})
	r.Get("/todos-remaining", s.getRemainingTodosHandler)

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.todoService.Health(r.Context()))
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err, "create todo")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.GetAllTodos(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.GetTodoByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "retrieve todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, r, err, "update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "delete todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) markTodoDoneHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.MarkTodoDone(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "mark todo done")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) getRemainingTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.GetRemainingTodos(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "retrieve remaining todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

// todoID parses the {id} URL parameter as a plain decimal integer. Anything
// else, including "1.0", "+1" and "0", cannot name a stored todo and is
// answered as not found.
func todoID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusNotFound, service.TodoNotFoundMessage)
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON object into dst. An empty body decodes as {}.
// It writes the error response itself and reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		respondWithError(w, http.StatusBadRequest, "Request body must be a JSON object")
	case errors.As(err, &maxBytesError):
		msg := fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit)
		respondWithError(w, http.StatusRequestEntityTooLarge, msg)
	default:
		slog.ErrorContext(r.Context(), "decoding request body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var validationError *domain.ValidationError
	switch {
	case errors.As(err, &validationError):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationError.Message,
			"field": validationError.Field,
		})
	case errors.Is(err, domain.ErrTodoNotFound):
		respondWithError(w, http.StatusNotFound, service.TodoNotFoundMessage)
	default:
		slog.ErrorContext(r.Context(), "service call failed",
			"action", action,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
