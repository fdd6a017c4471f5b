// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"net/http"
	"time"
)

// Task represents a single task owned by the remote server.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// TaskInput is the writable part of a task.
// Empty fields are omitted from update requests.
type TaskInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// TaskList is the collection returned by the list endpoint.
type TaskList struct {
	Count int
	Tasks []Task
}

// Find returns the task with the given ID, if listed.
func (l TaskList) Find(id string) (Task, bool) {
	for _, t := range l.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Reply is a raw HTTP exchange as seen by the client.
type Reply struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
