// Package restapi implements the service.Service interface over the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskprobe/internal/config"
	"taskprobe/internal/service"
)

// TasksPath is the collection resource.
const TasksPath = "/tasks"

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a client for cfg.BaseURL.
// A configured token is sent as a bearer token on every request.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		})
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, tokenSource)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		timeout: cfg.Timeout,
	}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: config.DefaultTimeout,
	}
}

// Exchange implements service.Exchanger.
func (c *Client) Exchange(ctx context.Context, method, path string, payload any) (service.Reply, error) {
	log := logr.FromContextOrDiscard(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return service.Reply{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return service.Reply{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.V(1).Info("request failed", "method", method, "url", req.URL.String(), "error", err.Error())
		return service.Reply{}, wrapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return service.Reply{}, wrapError(fmt.Errorf("failed to read response body: %w", err))
	}

	log.V(1).Info("response",
		"method", method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start).String())

	return service.Reply{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// envelope is the server's response wrapper.
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Count   *int           `json:"count"`
	Task    *service.Task  `json:"task"`
	Tasks   []service.Task `json:"tasks"`
}

// call sends a request and decodes a 2xx envelope.
func (c *Client) call(ctx context.Context, method, path string, payload any) (envelope, error) {
	reply, err := c.Exchange(ctx, method, path, payload)
	if err != nil {
		return envelope{}, err
	}
	if err := checkReply(reply); err != nil {
		return envelope{}, wrapError(err)
	}

	var env envelope
	if err := json.Unmarshal(reply.Body, &env); err != nil {
		return envelope{}, fmt.Errorf("invalid response from %s %s: %w", method, path, err)
	}
	return env, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	env, err := c.call(ctx, http.MethodPost, TasksPath, in)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil || env.Task.ID == "" {
		return service.Task{}, fmt.Errorf("invalid response from POST %s: missing task", TasksPath)
	}
	return *env.Task, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) (service.TaskList, error) {
	env, err := c.call(ctx, http.MethodGet, TasksPath, nil)
	if err != nil {
		return service.TaskList{}, err
	}

	list := service.TaskList{Count: len(env.Tasks), Tasks: env.Tasks}
	if env.Count != nil {
		list.Count = *env.Count
	}
	return list, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.TaskInput) (service.Task, error) {
	if strings.TrimSpace(id) == "" {
		return service.Task{}, fmt.Errorf("%w: task id required", service.ErrInvalidInput)
	}

	path := taskPath(id)
	env, err := c.call(ctx, http.MethodPut, path, in)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil {
		return service.Task{}, fmt.Errorf("invalid response from PUT %s: missing task", path)
	}
	return *env.Task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) (service.Task, error) {
	if strings.TrimSpace(id) == "" {
		return service.Task{}, fmt.Errorf("%w: task id required", service.ErrInvalidInput)
	}

	env, err := c.call(ctx, http.MethodDelete, taskPath(id), nil)
	if err != nil {
		return service.Task{}, err
	}
	if env.Task == nil {
		return service.Task{ID: id}, nil
	}
	return *env.Task, nil
}

func taskPath(id string) string {
	return TasksPath + "/" + url.PathEscape(id)
}

// checkReply returns a *googleapi.Error for non-2xx replies.
func checkReply(r service.Reply) error {
	return googleapi.CheckResponse(&http.Response{
		StatusCode: r.StatusCode,
		Header:     r.Header,
		Body:       io.NopCloser(bytes.NewReader(r.Body)),
	})
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := serverMessage(apiErr)
	switch apiErr.Code {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	return fmt.Errorf("status %d: %s", apiErr.Code, msg)
}

// serverMessage extracts "message" (and "error", if a string) from a failure body.
func serverMessage(apiErr *googleapi.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}

	msg := gjson.Get(apiErr.Body, "message").String()
	if detail := gjson.Get(apiErr.Body, "error"); detail.Type == gjson.String && detail.String() != "" {
		if msg == "" {
			return detail.String()
		}
		return msg + ": " + detail.String()
	}
	if msg != "" {
		return msg
	}
	if body := strings.TrimSpace(apiErr.Body); body != "" {
		return body
	}
	return http.StatusText(apiErr.Code)
}
