// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// Errors returned (wrapped) by Service implementations.
var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Exchanger sends a single request and returns the raw reply.
// A non-2xx status is not an error; only transport failures are.
type Exchanger interface {
	// Exchange sends method+path with payload JSON-encoded (nil for no body).
	Exchange(ctx context.Context, method, path string, payload any) (Reply, error)
}

// Service defines the interface for task backend operations.
// Commands never build HTTP requests directly.
type Service interface {
	Exchanger

	// CreateTask creates a task and returns it as stored by the server.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) (TaskList, error)

	// UpdateTask replaces the non-empty fields of in on task id.
	UpdateTask(ctx context.Context, id string, in TaskInput) (Task, error)

	// DeleteTask deletes task id and returns the deleted task.
	DeleteTask(ctx context.Context, id string) (Task, error)
}
