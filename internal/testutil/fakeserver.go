// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Route patterns served by FakeServer. They double as keys for Fail and RawBody.
const (
	RouteRoot   = "GET /{$}"
	RouteCreate = "POST /tasks"
	RouteList   = "GET /tasks"
	RouteUpdate = "PUT /tasks/{id}"
	RouteDelete = "DELETE /tasks/{id}"
)

// FakeTask is a task as stored and rendered by FakeServer.
type FakeTask struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int       `json:"__v"`
}

// FakeServer is an in-memory implementation of the task CRUD API for testing.
// Tasks are listed newest first.
type FakeServer struct {
	mu    sync.Mutex
	tasks []FakeTask // newest first
	mux   *http.ServeMux
	seen  []string

	// Fail makes a route answer with the given status and a server error envelope.
	Fail map[string]int

	// RawBody makes a route answer 200 with a literal body.
	RawBody map[string]string

	// Token, when set, is the bearer token every request must carry.
	Token string

	// NewID generates task IDs. Defaults to 24 hex characters.
	NewID func() string

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewFakeServer creates an empty FakeServer.
func NewFakeServer() *FakeServer {
	f := &FakeServer{
		Fail:    make(map[string]int),
		RawBody: make(map[string]string),
		NewID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
		},
		Now: time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(RouteRoot, f.handleRoot)
	mux.HandleFunc(RouteCreate, f.handleCreate)
	mux.HandleFunc(RouteList, f.handleList)
	mux.HandleFunc(RouteUpdate, f.handleUpdate)
	mux.HandleFunc(RouteDelete, f.handleDelete)
	f.mux = mux
	return f
}

// SequentialIDs makes NewID return prefix1, prefix2, ...
func (f *FakeServer) SequentialIDs(prefix string) {
	n := 0
	f.NewID = func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// AddTask stores a task directly and returns its ID.
func (f *FakeServer) AddTask(title, description string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	t := FakeTask{ID: f.NewID(), Title: title, Description: description, CreatedAt: now, UpdatedAt: now}
	f.tasks = append([]FakeTask{t}, f.tasks...)
	return t.ID
}

// Tasks returns a copy of the stored tasks, newest first.
func (f *FakeServer) Tasks() []FakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeTask, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Requests returns "METHOD /path" for every request received, in order.
func (f *FakeServer) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.seen))
	copy(out, f.seen)
	return out
}

// ServeHTTP implements http.Handler.
func (f *FakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.seen = append(f.seen, r.Method+" "+r.URL.Path)
	token := f.Token
	f.mu.Unlock()

	if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
		return
	}
	f.mux.ServeHTTP(w, r)
}

// injected answers the request from Fail or RawBody when configured for its route.
func (f *FakeServer) injected(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	status, fail := f.Fail[r.Pattern]
	body, raw := f.RawBody[r.Pattern]
	f.mu.Unlock()

	switch {
	case fail:
		writeJSON(w, status, serverError("injected failure"))
		return true
	case raw:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
		return true
	}
	return false
}

func (f *FakeServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task CRUD API",
		"endpoints": []string{
			"POST /tasks - Create a task",
			"GET /tasks - Get all tasks",
			"PUT /tasks/:id - Update a task",
			"DELETE /tasks/:id - Delete a task",
		},
	})
}

type taskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (f *FakeServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, r) {
		return
	}
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid JSON body"})
		return
	}
	if body.Title == nil || *body.Title == "" || body.Description == nil || *body.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Title and description are required"})
		return
	}

	title, desc := strings.TrimSpace(*body.Title), strings.TrimSpace(*body.Description)
	if msg := validate(title, desc); msg != "" {
		writeJSON(w, http.StatusInternalServerError, serverError(msg))
		return
	}

	f.mu.Lock()
	now := f.Now()
	t := FakeTask{ID: f.NewID(), Title: title, Description: desc, CreatedAt: now, UpdatedAt: now}
	f.tasks = append([]FakeTask{t}, f.tasks...)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Task created successfully",
		"task":    t,
	})
}

func (f *FakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, r) {
		return
	}
	tasks := f.Tasks()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(tasks),
		"tasks":   tasks,
	})
}

func (f *FakeServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, r) {
		return
	}
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid JSON body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Task not found"})
		return
	}

	t := f.tasks[i]
	if body.Title != nil {
		t.Title = strings.TrimSpace(*body.Title)
	}
	if body.Description != nil {
		t.Description = strings.TrimSpace(*body.Description)
	}
	if msg := validate(t.Title, t.Description); msg != "" {
		writeJSON(w, http.StatusInternalServerError, serverError(msg))
		return
	}
	t.UpdatedAt = f.Now()
	f.tasks[i] = t

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (f *FakeServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if f.injected(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Task not found"})
		return
	}
	t := f.tasks[i]
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task deleted successfully",
		"task":    t,
	})
}

// indexOf must be called with f.mu held.
func (f *FakeServer) indexOf(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func validate(title, description string) string {
	switch {
	case title == "":
		return "Task validation failed: title: Title is required"
	case len(title) < 3:
		return "Task validation failed: title: Title must be at least 3 characters"
	case description == "":
		return "Task validation failed: description: Description is required"
	}
	return ""
}

func serverError(msg string) map[string]any {
	return map[string]any{"success": false, "message": "Server error", "error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
