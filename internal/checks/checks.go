// Package checks verifies the observable CRUD properties of a task API.
//
// Every check creates its own tasks, tagged with a per-run marker, so checks
// tolerate data already on the server. Tasks left behind by a check are
// deleted when the run ends.
package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"taskprobe/internal/service"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report holds the results of a run, in execution order.
type Report struct {
	Marker  string        `json:"marker"`
	Results []CheckResult `json:"results"`
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return true
		}
	}
	return false
}

// PassedCount returns the number of passing checks.
func (r Report) PassedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

type check struct {
	name string
	run  func(c *checker, ctx context.Context) error
}

var all = []check{
	{"create-roundtrip", (*checker).createRoundtrip},
	{"count-delta", (*checker).countDelta},
	{"update-isolation", (*checker).updateIsolation},
	{"delete-removes", (*checker).deleteRemoves},
	{"delete-missing", (*checker).deleteMissing},
}

// Names returns the check names in execution order.
func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.name
	}
	return names
}

// ErrUnknownCheck is returned by Run for a name not in Names.
var ErrUnknownCheck = errors.New("unknown check")

// Run executes the named checks, or all of them when names is empty.
// A failing check does not stop later checks.
func Run(ctx context.Context, svc service.Service, names ...string) (Report, error) {
	selected, err := selectChecks(names)
	if err != nil {
		return Report{}, err
	}

	c := &checker{
		svc:    svc,
		marker: uuid.NewString()[:8],
		log:    logr.FromContextOrDiscard(ctx).WithName("checks"),
	}
	report := Report{Marker: c.marker}

	for _, chk := range selected {
		start := time.Now()
		err := chk.run(c, ctx)
		res := CheckResult{Name: chk.name, Passed: err == nil, Duration: time.Since(start)}
		if err != nil {
			res.Detail = err.Error()
		}
		c.log.V(1).Info("check done", "check", chk.name, "passed", res.Passed)
		report.Results = append(report.Results, res)

		if ctx.Err() != nil {
			break
		}
	}

	c.cleanup(context.WithoutCancel(ctx))
	return report, nil
}

func selectChecks(names []string) ([]check, error) {
	if len(names) == 0 {
		return all, nil
	}
	var out []check
	for _, name := range names {
		found := false
		for _, chk := range all {
			if chk.name == name {
				out = append(out, chk)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
		}
	}
	return out, nil
}

type checker struct {
	svc     service.Service
	marker  string
	log     logr.Logger
	created []string // ids not yet deleted
}

func (c *checker) input(label string) service.TaskInput {
	return service.TaskInput{
		Title:       fmt.Sprintf("probe %s %s", c.marker, label),
		Description: fmt.Sprintf("created by taskprobe check run %s", c.marker),
	}
}

func (c *checker) create(ctx context.Context, in service.TaskInput) (service.Task, error) {
	task, err := c.svc.CreateTask(ctx, in)
	if err != nil {
		return service.Task{}, fmt.Errorf("create %q: %w", in.Title, err)
	}
	c.created = append(c.created, task.ID)
	return task, nil
}

func (c *checker) delete(ctx context.Context, id string) error {
	if _, err := c.svc.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	c.forget(id)
	return nil
}

func (c *checker) forget(id string) {
	for i, v := range c.created {
		if v == id {
			c.created = append(c.created[:i], c.created[i+1:]...)
			return
		}
	}
}

func (c *checker) list(ctx context.Context) (service.TaskList, error) {
	list, err := c.svc.ListTasks(ctx)
	if err != nil {
		return service.TaskList{}, fmt.Errorf("list: %w", err)
	}
	return list, nil
}

// cleanup deletes every task created by the run and still present.
func (c *checker) cleanup(ctx context.Context) {
	for _, id := range append([]string(nil), c.created...) {
		if err := c.delete(ctx, id); err != nil && !errors.Is(err, service.ErrNotFound) {
			c.log.Error(err, "cleanup failed", "id", id)
		}
	}
}

func sameFields(t service.Task, in service.TaskInput) error {
	if t.Title != in.Title || t.Description != in.Description {
		return fmt.Errorf("task %s has {%q, %q}, want {%q, %q}", t.ID, t.Title, t.Description, in.Title, in.Description)
	}
	return nil
}

// createRoundtrip: a created task echoes what was sent, has an id, and lists
// with the same fields.
func (c *checker) createRoundtrip(ctx context.Context) error {
	in := c.input("roundtrip")
	task, err := c.create(ctx, in)
	if err != nil {
		return err
	}
	if task.ID == "" {
		return errors.New("created task has empty id")
	}
	if err := sameFields(task, in); err != nil {
		return fmt.Errorf("create response: %w", err)
	}

	list, err := c.list(ctx)
	if err != nil {
		return err
	}
	listed, ok := list.Find(task.ID)
	if !ok {
		return fmt.Errorf("task %s missing from list", task.ID)
	}
	if err := sameFields(listed, in); err != nil {
		return fmt.Errorf("list response: %w", err)
	}
	return nil
}

// countDelta: after N creations and M deletions the count moves by N-M.
func (c *checker) countDelta(ctx context.Context) error {
	const creations, deletions = 3, 2

	before, err := c.list(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, creations)
	for i := range creations {
		task, err := c.create(ctx, c.input(fmt.Sprintf("count %d", i+1)))
		if err != nil {
			return err
		}
		ids = append(ids, task.ID)
	}
	for _, id := range ids[:deletions] {
		if err := c.delete(ctx, id); err != nil {
			return err
		}
	}

	after, err := c.list(ctx)
	if err != nil {
		return err
	}
	if want := before.Count + creations - deletions; after.Count != want {
		return fmt.Errorf("count is %d after %d creations and %d deletions from %d, want %d",
			after.Count, creations, deletions, before.Count, want)
	}
	return nil
}

// updateIsolation: an update is visible on its task and nowhere else.
func (c *checker) updateIsolation(ctx context.Context) error {
	targetIn, otherIn := c.input("update target"), c.input("update bystander")
	target, err := c.create(ctx, targetIn)
	if err != nil {
		return err
	}
	other, err := c.create(ctx, otherIn)
	if err != nil {
		return err
	}

	changed := service.TaskInput{
		Title:       targetIn.Title + " (updated)",
		Description: targetIn.Description + " (updated)",
	}
	updated, err := c.svc.UpdateTask(ctx, target.ID, changed)
	if err != nil {
		return fmt.Errorf("update %s: %w", target.ID, err)
	}
	if err := sameFields(updated, changed); err != nil {
		return fmt.Errorf("update response: %w", err)
	}

	list, err := c.list(ctx)
	if err != nil {
		return err
	}
	got, ok := list.Find(target.ID)
	if !ok {
		return fmt.Errorf("updated task %s missing from list", target.ID)
	}
	if err := sameFields(got, changed); err != nil {
		return err
	}
	got, ok = list.Find(other.ID)
	if !ok {
		return fmt.Errorf("task %s missing from list", other.ID)
	}
	return sameFields(got, otherIn)
}

// deleteRemoves: a deleted task disappears and the count drops by one.
func (c *checker) deleteRemoves(ctx context.Context) error {
	task, err := c.create(ctx, c.input("delete"))
	if err != nil {
		return err
	}

	before, err := c.list(ctx)
	if err != nil {
		return err
	}
	if err := c.delete(ctx, task.ID); err != nil {
		return err
	}
	after, err := c.list(ctx)
	if err != nil {
		return err
	}

	if _, ok := after.Find(task.ID); ok {
		return fmt.Errorf("deleted task %s still listed", task.ID)
	}
	if after.Count != before.Count-1 {
		return fmt.Errorf("count is %d after deletion, want %d", after.Count, before.Count-1)
	}
	return nil
}

// deleteMissing: deleting an id that no longer exists is reported as not found.
func (c *checker) deleteMissing(ctx context.Context) error {
	task, err := c.create(ctx, c.input("delete twice"))
	if err != nil {
		return err
	}
	if err := c.delete(ctx, task.ID); err != nil {
		return err
	}

	_, err = c.svc.DeleteTask(ctx, task.ID)
	switch {
	case err == nil:
		return fmt.Errorf("second delete of %s succeeded", task.ID)
	case !errors.Is(err, service.ErrNotFound):
		return fmt.Errorf("second delete of %s: want not found, got: %w", task.ID, err)
	}
	return nil
}
