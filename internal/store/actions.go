package store

import (
	"taskdeck/internal/service"
	"taskdeck/internal/view"
)

// Action is a state mutation. Only the types in this file implement it.
type Action interface {
	action()
}

// TasksLoaded replaces the collection with a freshly listed one.
type TasksLoaded struct {
	Tasks []service.Task
}

// CategoriesLoaded replaces the known categories.
type CategoriesLoaded struct {
	Categories []service.Category
}

// CreateStarted records a draft whose create call is in flight.
type CreateStarted struct {
	Draft service.Draft
}

// CreateFailed drops a pending draft after its create call failed.
type CreateFailed struct {
	LocalID string
}

// TaskCreated appends the server-returned record and supersedes the
// provisional draft it came from.
type TaskCreated struct {
	LocalID string
	Task    service.Task
}

// TaskUpdated replaces the entry with the same identifier in full.
type TaskUpdated struct {
	Task service.Task
}

// TaskDeleted removes the entry with the given server identifier.
type TaskDeleted struct {
	ID int64
}

// ToggleStarted flips the completion flag locally and marks the task as
// pending confirmation.
type ToggleStarted struct {
	ID int64
}

// ToggleFailed reverts a pending toggle.
type ToggleFailed struct {
	ID int64
}

// CategoryCreated adds a category.
type CategoryCreated struct {
	Category service.Category
}

// CategoryDeleted removes a category.
type CategoryDeleted struct {
	ID int64
}

// FilterChanged selects the category filter of the projection.
type FilterChanged struct {
	Filter view.Filter
}

// SortChanged selects the sort direction of the projection.
type SortChanged struct {
	Direction view.Direction
}

func (TasksLoaded) action()      {}
func (CategoriesLoaded) action() {}
func (CreateStarted) action()    {}
func (CreateFailed) action()     {}
func (TaskCreated) action()      {}
func (TaskUpdated) action()      {}
func (TaskDeleted) action()      {}
func (ToggleStarted) action()    {}
func (ToggleFailed) action()     {}
func (CategoryCreated) action()  {}
func (CategoryDeleted) action()  {}
func (FilterChanged) action()    {}
func (SortChanged) action()      {}
