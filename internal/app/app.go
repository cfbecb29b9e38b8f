// Package app wires the form, the remote store client and the task store
// together. Each operation sends at most one mutating request, reconciles
// the store with the server's answer and reports the outcome as a Notice.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"taskdeck/internal/form"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
	"taskdeck/internal/view"
)

// ErrUnknownTask is returned when an operation names a task that is not in
// the collection.
var ErrUnknownTask = errors.New("task not found")

// ErrCategoryNameRequired is returned by CreateCategory for a blank name.
var ErrCategoryNameRequired = errors.New("category name is required")

// App coordinates task operations.
type App struct {
	svc      service.Service
	store    *store.Store
	logger   *log.Logger
	notifier Notifier
}

// Option configures an App.
type Option func(*App)

// WithStore uses s instead of a new empty store.
func WithStore(s *store.Store) Option {
	return func(a *App) { a.store = s }
}

// WithLogger sets the logger used for failures.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithNotifier sets the receiver of notices.
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// New creates an App backed by svc.
func New(svc service.Service, opts ...Option) *App {
	a := &App{
		svc:    svc,
		store:  store.New(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the underlying store.
func (a *App) Store() *store.Store { return a.store }

// State returns a snapshot of the current state.
func (a *App) State() store.State { return a.store.State() }

// Visible returns the current projection of the collection.
func (a *App) Visible() []service.Task { return a.store.State().Visible() }

// Load fetches categories and tasks and replaces the local collection.
func (a *App) Load(ctx context.Context) error {
	cats, err := a.svc.ListCategories(ctx)
	if err != nil {
		return a.fail("load categories", err)
	}
	a.store.Dispatch(store.CategoriesLoaded{Categories: cats})

	return a.reloadTasks(ctx)
}

func (a *App) reloadTasks(ctx context.Context) error {
	tasks, err := a.svc.ListTasks(ctx)
	if err != nil {
		return a.fail("load tasks", err)
	}
	a.store.Dispatch(store.TasksLoaded{Tasks: tasks})
	a.logger.Debug("tasks loaded", "count", len(tasks))
	return nil
}

// Submit validates the form and persists its contents. A validation error
// leaves the form open and sends nothing. On success the store holds the
// server's record and the form is reset.
func (a *App) Submit(ctx context.Context, f *form.Controller) (service.Task, error) {
	sub, err := f.Submit(a.store.State().Categories)
	if err != nil {
		a.notify(Error, err.Error())
		return service.Task{}, err
	}

	switch sub.Mode {
	case form.Creating:
		t, err := a.Create(ctx, sub.Draft)
		if err != nil {
			return service.Task{}, err
		}
		f.Reset()
		return t, nil
	default:
		t, err := a.Update(ctx, sub.Task)
		if err != nil {
			return service.Task{}, err
		}
		f.Reset()
		return t, nil
	}
}

// Create persists d and appends the server's record.
func (a *App) Create(ctx context.Context, d service.Draft) (service.Task, error) {
	local := d.ID.LocalID()
	a.store.Dispatch(store.CreateStarted{Draft: d})

	t, err := a.svc.CreateTask(ctx, d)
	if err != nil {
		a.store.Dispatch(store.CreateFailed{LocalID: local})
		return service.Task{}, a.fail("create task", err)
	}
	a.store.Dispatch(store.TaskCreated{LocalID: local, Task: t})
	a.logger.Info("task created", "id", t.ID, "title", t.Title)
	a.notify(Info, "Task added")
	return t, nil
}

// Update sends t in full and replaces the local record with the server's.
func (a *App) Update(ctx context.Context, t service.Task) (service.Task, error) {
	got, err := a.svc.UpdateTask(ctx, t)
	if err != nil {
		return service.Task{}, a.fail("update task", err)
	}
	a.store.Dispatch(store.TaskUpdated{Task: got})
	a.logger.Info("task updated", "id", got.ID)
	a.notify(Info, "Task updated")
	return got, nil
}

// Delete removes the task with the given id. On failure the collection is
// left unchanged.
func (a *App) Delete(ctx context.Context, id int64) error {
	if _, err := a.svc.DeleteTask(ctx, id); err != nil {
		return a.fail("delete task", err)
	}
	a.store.Dispatch(store.TaskDeleted{ID: id})
	a.logger.Info("task deleted", "id", id)
	a.notify(Info, "Task deleted")
	return nil
}

// Toggle flips the completion flag of a task. The flip is shown at once
// and reverted if the server rejects it.
func (a *App) Toggle(ctx context.Context, id int64) (service.Task, error) {
	t, ok := a.store.State().Find(id)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownTask, id)
		a.notify(Error, err.Error())
		return service.Task{}, err
	}

	want := t
	want.Completed = !t.Completed
	a.store.Dispatch(store.ToggleStarted{ID: id})

	got, err := a.svc.UpdateTask(ctx, want)
	if err != nil {
		a.store.Dispatch(store.ToggleFailed{ID: id})
		return service.Task{}, a.fail("update task", err)
	}
	a.store.Dispatch(store.TaskUpdated{Task: got})
	a.logger.Info("task toggled", "id", id, "completed", got.Completed)
	return got, nil
}

// CreateCategory creates a category and adds it to the known list.
func (a *App) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		a.notify(Error, ErrCategoryNameRequired.Error())
		return service.Category{}, ErrCategoryNameRequired
	}
	c, err := a.svc.CreateCategory(ctx, name)
	if err != nil {
		return service.Category{}, a.fail("create category", err)
	}
	a.store.Dispatch(store.CategoryCreated{Category: c})
	a.notify(Info, "Category added")
	return c, nil
}

// DeleteCategory deletes a category and detaches its tasks locally. Tasks
// are then reloaded to pick up the server's view; a failed reload is
// reported but does not fail the delete, which is already committed.
func (a *App) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := a.svc.DeleteCategory(ctx, id); err != nil {
		return a.fail("delete category", err)
	}
	a.store.Dispatch(store.CategoryDeleted{ID: id})
	a.notify(Info, "Category deleted")

	// reloadTasks logs and notifies its own failure.
	_ = a.reloadTasks(ctx)
	return nil
}

// CategoryTasks returns the tasks of one category as the server reports
// them, sorted by the current direction. The local collection is not changed.
func (a *App) CategoryTasks(ctx context.Context, id int64) ([]service.Task, error) {
	tasks, err := a.svc.ListCategoryTasks(ctx, id)
	if err != nil {
		return nil, a.fail("list category tasks", err)
	}
	q := view.Query{Direction: a.store.State().Query.Direction}
	return view.Project(tasks, q), nil
}

// SetFilter changes the category filter.
func (a *App) SetFilter(f view.Filter) {
	a.store.Dispatch(store.FilterChanged{Filter: f})
}

// SetSort changes the sort direction.
func (a *App) SetSort(d view.Direction) {
	a.store.Dispatch(store.SortChanged{Direction: d})
}

func (a *App) fail(op string, err error) error {
	a.logger.Error("operation failed", "op", op, "err", err)
	a.notify(Error, err.Error())
	return err
}

func (a *App) notify(level Level, msg string) {
	if a.notifier != nil {
		a.notifier.Notify(Notice{Level: level, Message: msg})
	}
}
