// Package exerciser runs the fixed create/list/update/delete smoke sequence
// against a task API and prints every response for review.
package exerciser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"

	"taskprobe/internal/output"
	"taskprobe/internal/service"
)

const tasksPath = "/tasks"

// Fixtures are the payloads sent by the sequence.
type Fixtures struct {
	First  service.TaskInput
	Second service.TaskInput
	Update service.TaskInput
}

// DefaultFixtures returns the payloads used when none are configured.
func DefaultFixtures() Fixtures {
	return Fixtures{
		First: service.TaskInput{
			Title:       "Complete MongoDB Integration",
			Description: "Implement all CRUD operations with MongoDB",
		},
		Second: service.TaskInput{
			Title:       "Learn Express.js",
			Description: "Master Express.js framework fundamentals",
		},
		Update: service.TaskInput{
			Title:       "Complete Full MongoDB Integration",
			Description: "Implement and test all CRUD operations with MongoDB database",
		},
	}
}

// Options configures a run.
type Options struct {
	// Fixtures overrides DefaultFixtures when non-nil.
	Fixtures *Fixtures

	// Quiet suppresses response bodies.
	Quiet bool
}

// StepResult records one step of the sequence.
type StepResult struct {
	Number     int           `json:"number"`
	Title      string        `json:"title"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code,omitempty"`
	Skipped    bool          `json:"skipped,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Result is the state of a run.
type Result struct {
	Started  time.Time     `json:"started_at"`
	Duration time.Duration `json:"duration"`
	FirstID  string        `json:"first_id,omitempty"`
	SecondID string        `json:"second_id,omitempty"`
	Steps    []StepResult  `json:"steps"`
	Error    string        `json:"error,omitempty"`
}

// StepError reports a fault that aborted the run.
type StepError struct {
	Step   int
	Method string
	Path   string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s %s): %v", e.Step, e.Method, e.Path, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ErrMalformedBody is wrapped by StepError when a response is not JSON.
var ErrMalformedBody = errors.New("response body is not valid JSON")

// show controls what a step prints after its header.
type show int

const (
	showStatus show = 1 << iota
	showCount
	showBody
)

type runner struct {
	ex     service.Exchanger
	out    io.Writer
	quiet  bool
	log    logr.Logger
	result *Result
}

// Run executes the sequence. Steps run strictly in order; a step that needs
// an identifier the server never returned is skipped without output.
// Only transport failures and non-JSON bodies abort the run.
func Run(ctx context.Context, ex service.Exchanger, opts Options, out io.Writer) (Result, error) {
	fx := DefaultFixtures()
	if opts.Fixtures != nil {
		fx = *opts.Fixtures
	}

	result := Result{Started: time.Now()}
	r := &runner{
		ex:     ex,
		out:    out,
		quiet:  opts.Quiet,
		log:    logr.FromContextOrDiscard(ctx).WithName("exerciser"),
		result: &result,
	}

	err := r.sequence(ctx, fx)
	result.Duration = time.Since(result.Started)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

func (r *runner) sequence(ctx context.Context, fx Fixtures) error {
	output.FormatBanner(r.out, "Testing Task CRUD API")

	reply, err := r.step(ctx, 1, "Create Task", http.MethodPost, tasksPath, fx.First, showStatus|showBody)
	if err != nil {
		return err
	}
	r.result.FirstID = capturedID(reply.Body)

	if _, err := r.step(ctx, 2, "Get All Tasks", http.MethodGet, tasksPath, nil, showStatus|showBody); err != nil {
		return err
	}

	output.FormatStepHeader(r.out, 3, "Creating another task for testing...")
	reply, err = r.send(ctx, 3, "Create Another Task", http.MethodPost, tasksPath, fx.Second)
	if err != nil {
		return err
	}
	output.FormatStatus(r.out, reply.StatusCode)
	r.result.SecondID = capturedID(reply.Body)

	if id := r.result.FirstID; id != "" {
		if _, err := r.step(ctx, 4, "Update Task", http.MethodPut, taskPath(id), fx.Update, showStatus|showBody); err != nil {
			return err
		}
	} else {
		r.skip(4, "Update Task", http.MethodPut)
	}

	if _, err := r.step(ctx, 5, "Get All Tasks (after update)", http.MethodGet, tasksPath, nil, showStatus|showCount); err != nil {
		return err
	}

	if id := r.result.SecondID; id != "" {
		if _, err := r.step(ctx, 6, "Delete Task", http.MethodDelete, taskPath(id), nil, showStatus|showBody); err != nil {
			return err
		}
	} else {
		r.skip(6, "Delete Task", http.MethodDelete)
	}

	if _, err := r.step(ctx, 7, "Get All Tasks (after deletion)", http.MethodGet, tasksPath, nil, showStatus|showCount|showBody); err != nil {
		return err
	}

	fmt.Fprintln(r.out)
	output.FormatBanner(r.out, "All API tests completed successfully!")
	return nil
}

// step prints the standard header, sends the request and prints what s selects.
func (r *runner) step(ctx context.Context, num int, title, method, path string, payload any, s show) (service.Reply, error) {
	output.FormatStepHeader(r.out, num, fmt.Sprintf("Testing %s %s - %s", method, path, title))

	reply, err := r.send(ctx, num, title, method, path, payload)
	if err != nil {
		return reply, err
	}

	if s&showStatus != 0 {
		output.FormatStatus(r.out, reply.StatusCode)
	}
	if s&showCount != 0 {
		output.FormatCount(r.out, reply.Body)
	}
	if s&showBody != 0 && !r.quiet {
		output.FormatResponse(r.out, reply.Body)
	}
	return reply, nil
}

// send performs the exchange and records it.
func (r *runner) send(ctx context.Context, num int, title, method, path string, payload any) (service.Reply, error) {
	start := time.Now()
	reply, err := r.ex.Exchange(ctx, method, path, payload)
	rec := StepResult{
		Number:     num,
		Title:      title,
		Method:     method,
		Path:       path,
		StatusCode: reply.StatusCode,
		Duration:   time.Since(start),
	}
	r.result.Steps = append(r.result.Steps, rec)

	if err != nil {
		return reply, &StepError{Step: num, Method: method, Path: path, Err: err}
	}
	if !gjson.ValidBytes(reply.Body) {
		return reply, &StepError{Step: num, Method: method, Path: path, Err: ErrMalformedBody}
	}

	r.log.V(1).Info("step done", "step", num, "status", reply.StatusCode)
	return reply, nil
}

func (r *runner) skip(num int, title, method string) {
	r.result.Steps = append(r.result.Steps, StepResult{
		Number:  num,
		Title:   title,
		Method:  method,
		Skipped: true,
	})
	r.log.V(1).Info("step skipped, no identifier captured", "step", num)
}

// capturedID returns task._id when it is a non-empty string.
func capturedID(body []byte) string {
	id := gjson.GetBytes(body, "task._id")
	if id.Type != gjson.String {
		return ""
	}
	return id.Str
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}
