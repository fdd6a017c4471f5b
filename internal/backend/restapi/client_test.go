package restapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskprobe/internal/backend/restapi"
	"taskprobe/internal/config"
	"taskprobe/internal/service"
	"taskprobe/internal/testutil"
)

func newTestClient(t *testing.T) (*restapi.Client, *testutil.FakeServer) {
	t.Helper()
	fake := testutil.NewFakeServer()
	fake.SequentialIDs("id-")
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return restapi.NewWithHTTPClient(srv.URL, srv.Client()), fake
}

func TestCreateTask(t *testing.T) {
	client, fake := newTestClient(t)

	task, err := client.CreateTask(context.Background(), service.TaskInput{Title: "Write docs", Description: "For the API"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, "For the API", task.Description)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Len(t, fake.Tasks(), 1)
}

func TestCreateTask_MissingDescription(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.CreateTask(context.Background(), service.TaskInput{Title: "Write docs"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Title and description are required")
	assert.Empty(t, fake.Tasks())
}

func TestCreateTask_ServerValidationError(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.CreateTask(context.Background(), service.TaskInput{Title: "A", Description: "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "Title must be at least 3 characters")
}

func TestListTasks(t *testing.T) {
	client, fake := newTestClient(t)
	fake.AddTask("First task", "one")
	fake.AddTask("Second task", "two")

	list, err := client.ListTasks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "Second task", list.Tasks[0].Title, "newest first")
	assert.Equal(t, "First task", list.Tasks[1].Title)
}

func TestListTasks_CountFallsBackToLength(t *testing.T) {
	client, fake := newTestClient(t)
	fake.RawBody[testutil.RouteList] = `{"tasks":[{"_id":"a","title":"x","description":"y"}]}`

	list, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestUpdateTask(t *testing.T) {
	client, fake := newTestClient(t)
	id := fake.AddTask("Old title", "Old description")
	other := fake.AddTask("Untouched", "Same")

	task, err := client.UpdateTask(context.Background(), id, service.TaskInput{Title: "New title"})
	require.NoError(t, err)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, "Old description", task.Description)

	list, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	got, ok := list.Find(other)
	require.True(t, ok)
	assert.Equal(t, "Untouched", got.Title)
}

func TestUpdateTask_NotFound(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.UpdateTask(context.Background(), "missing", service.TaskInput{Title: "New title"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	client, fake := newTestClient(t)
	id := fake.AddTask("Doomed", "Soon gone")

	task, err := client.DeleteTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Empty(t, fake.Tasks())

	_, err = client.DeleteTask(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteTask_EmptyID(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.DeleteTask(context.Background(), " ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Empty(t, fake.Requests(), "no request should be sent")
}

func TestDeleteTask_EscapesID(t *testing.T) {
	client, fake := newTestClient(t)

	_, err := client.DeleteTask(context.Background(), "a/b")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, []string{"DELETE /tasks/a/b"}, fake.Requests())
}

func TestExchange_NonSuccessIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t)

	reply, err := client.Exchange(context.Background(), http.MethodDelete, "/tasks/nope", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, reply.StatusCode)
	assert.False(t, reply.OK())
	assert.JSONEq(t, `{"success":false,"message":"Task not found"}`, string(reply.Body))
}

func TestExchange_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := restapi.NewWithHTTPClient(url, http.DefaultClient)
	_, err := client.Exchange(context.Background(), http.MethodGet, restapi.TasksPath, nil)
	assert.Error(t, err)
}

func TestExchange_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}
	client, err := restapi.New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timed out")
}

func TestNew_BearerToken(t *testing.T) {
	fake := testutil.NewFakeServer()
	fake.Token = "s3cret"
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{BaseURL: srv.URL, Token: "s3cret", Timeout: time.Second}
	client, err := restapi.New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background())
	require.NoError(t, err)

	cfg.Token = "wrong"
	client, err = restapi.New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := restapi.New(context.Background(), &config.Config{BaseURL: "not a url", Timeout: time.Second})
	assert.Error(t, err)
}
