package service

import "context"

// Service defines the interface for the remote task store.
// All HTTP calls go through this interface.
// Commands and the UI never talk to the transport directly.
type Service interface {
	// ListTasks returns the server-side task collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask persists a draft and returns the authoritative record,
	// carrying the server-assigned identifier and timestamp.
	CreateTask(ctx context.Context, draft Draft) (Task, error)

	// UpdateTask sends the full record and returns the authoritative
	// post-update record. The record must carry a committed identifier.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask deletes a task by server identifier.
	DeleteTask(ctx context.Context, id int64) (DeleteResult, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a category and returns it.
	CreateCategory(ctx context.Context, name string) (Category, error)

	// DeleteCategory deletes a category by identifier.
	DeleteCategory(ctx context.Context, id int64) (DeleteResult, error)

	// ListCategoryTasks returns the tasks filed under a category.
	ListCategoryTasks(ctx context.Context, categoryID int64) ([]Task, error)
}
