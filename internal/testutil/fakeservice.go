// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"taskdeck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It behaves like the reference server: ids are assigned sequentially,
// unknown ids answer 404 and deleting a category detaches its tasks.
type FakeService struct {
	mu         sync.Mutex
	tasks      []service.Task
	categories []service.Category
	nextTask   int64
	nextCat    int64
	calls      map[string]int

	// Now is the created_at value given to new tasks.
	Now string

	// Error injection for testing
	ListTasksErr         error
	CreateTaskErr        error
	UpdateTaskErr        error
	DeleteTaskErr        error
	ListCategoriesErr    error
	CreateCategoryErr    error
	DeleteCategoryErr    error
	ListCategoryTasksErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextTask: 1,
		nextCat:  1,
		calls:    make(map[string]int),
		Now:      "2024-01-01T00:00:00.000000Z",
	}
}

// AddCategory adds a category and returns it.
func (f *FakeService) AddCategory(name string) service.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := service.Category{ID: f.nextCat, Name: name}
	f.nextCat++
	f.categories = append(f.categories, c)
	return c
}

// AddTask adds a committed task with the given title and creation time.
// category may be empty.
func (f *FakeService) AddTask(title, createdAt, category string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        service.Committed(f.nextTask),
		Title:     title,
		CreatedAt: createdAt,
		Category:  service.CategoryByName(category),
	}
	f.nextTask++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of remote calls of any kind.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, d service.Draft) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, err := f.categoryName("create task", d.Category)
	if err != nil {
		return service.Task{}, err
	}
	t := service.Task{
		ID:          service.Committed(f.nextTask),
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   f.Now,
		Category:    cat,
	}
	f.nextTask++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	id, ok := t.ID.ServerID()
	if !ok {
		return service.Task{}, &service.TransportError{Op: "update task", Err: fmt.Errorf("task %s has no server identifier", t.ID)}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(id)
	if i < 0 {
		return service.Task{}, notFound("update task")
	}
	cur := f.tasks[i]
	cur.Title = t.Title
	cur.Description = t.Description
	cur.Completed = t.Completed
	if _, byID := t.Category.ID(); byID {
		cat, err := f.categoryName("update task", t.Category)
		if err != nil {
			return service.Task{}, err
		}
		cur.Category = cat
	}
	f.tasks[i] = cur
	return cur, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) (service.DeleteResult, error) {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return service.DeleteResult{}, f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(id)
	if i < 0 {
		return service.DeleteResult{}, notFound("delete task")
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return service.DeleteResult{}, nil
}

// ListCategories implements service.Service.
func (f *FakeService) ListCategories(ctx context.Context) ([]service.Category, error) {
	f.record("ListCategories")
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Category(nil), f.categories...), nil
}

// CreateCategory implements service.Service.
func (f *FakeService) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	f.record("CreateCategory")
	if f.CreateCategoryErr != nil {
		return service.Category{}, f.CreateCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == name {
			return service.Category{}, &service.TransportError{
				Op:      "create category",
				Status:  http.StatusConflict,
				Message: "category already exists",
			}
		}
	}
	c := service.Category{ID: f.nextCat, Name: name}
	f.nextCat++
	f.categories = append(f.categories, c)
	return c, nil
}

// DeleteCategory implements service.Service.
func (f *FakeService) DeleteCategory(ctx context.Context, id int64) (service.DeleteResult, error) {
	f.record("DeleteCategory")
	if f.DeleteCategoryErr != nil {
		return service.DeleteResult{}, f.DeleteCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.categories {
		if c.ID != id {
			continue
		}
		f.categories = append(f.categories[:i], f.categories[i+1:]...)
		for j := range f.tasks {
			if f.tasks[j].Category.Matches(c) {
				f.tasks[j].Category = service.Unassigned
			}
		}
		return service.DeleteResult{}, nil
	}
	return service.DeleteResult{}, notFound("delete category")
}

// ListCategoryTasks implements service.Service.
func (f *FakeService) ListCategoryTasks(ctx context.Context, categoryID int64) ([]service.Task, error) {
	f.record("ListCategoryTasks")
	if f.ListCategoryTasksErr != nil {
		return nil, f.ListCategoryTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID != categoryID {
			continue
		}
		var out []service.Task
		for _, t := range f.tasks {
			if t.Category.Matches(c) {
				out = append(out, t)
			}
		}
		return out, nil
	}
	return nil, notFound("list category tasks")
}

func (f *FakeService) indexOf(id int64) int {
	for i, t := range f.tasks {
		if sid, _ := t.ID.ServerID(); sid == id {
			return i
		}
	}
	return -1
}

// categoryName converts a ByID reference into the ByName form the server
// returns. Caller holds f.mu.
func (f *FakeService) categoryName(op string, r service.CategoryRef) (service.CategoryRef, error) {
	id, ok := r.ID()
	if !ok {
		return service.Unassigned, nil
	}
	for _, c := range f.categories {
		if c.ID == id {
			return service.CategoryByName(c.Name), nil
		}
	}
	return service.Unassigned, &service.TransportError{Op: op, Status: http.StatusNotFound, Message: "Category not found"}
}

func notFound(op string) error {
	return &service.TransportError{Op: op, Status: http.StatusNotFound, Message: "Resource not found"}
}

var _ service.Service = (*FakeService)(nil)
