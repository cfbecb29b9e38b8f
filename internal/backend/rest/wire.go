package rest

import (
	"taskdeck/internal/service"
)

// taskJSON is the task representation returned by the server.
type taskJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	CreatedAt   *string `json:"created_at"`
	Category    *string `json:"category"`
	CategoryID  *int64  `json:"category_id"`
}

func (w taskJSON) toTask() service.Task {
	t := service.Task{
		ID:       service.Committed(w.ID),
		Title:    w.Title,
		Category: categoryRef(w.CategoryID, w.Category),
	}
	if w.Description != nil {
		t.Description = *w.Description
	}
	if w.Completed != nil {
		t.Completed = *w.Completed
	}
	if w.CreatedAt != nil {
		t.CreatedAt = *w.CreatedAt
	}
	return t
}

// categoryRef picks one representation: a non-zero id wins over a name.
func categoryRef(id *int64, name *string) service.CategoryRef {
	if id != nil && *id > 0 {
		return service.CategoryByID(*id)
	}
	if name != nil {
		return service.CategoryByName(*name)
	}
	return service.Unassigned
}

// taskPayload is the request body for create and update.
type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at,omitempty"`
	CategoryID  *int64 `json:"category_id,omitempty"`
}

// categoryID returns the id to send for r. Only ByID references are sent;
// the server leaves the category unchanged when the field is absent.
func categoryID(r service.CategoryRef) *int64 {
	if id, ok := r.ID(); ok {
		return &id
	}
	return nil
}

func draftPayload(d service.Draft) taskPayload {
	return taskPayload{
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		CategoryID:  categoryID(d.Category),
	}
}

func updatePayload(t service.Task) taskPayload {
	return taskPayload{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		CategoryID:  categoryID(t.Category),
	}
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (w categoryJSON) toCategory() service.Category {
	return service.Category{ID: w.ID, Name: w.Name}
}

type categoryPayload struct {
	Name string `json:"name"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
