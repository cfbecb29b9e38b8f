package form_test

import (
	"errors"
	"testing"
	"time"

	"taskdeck/internal/form"
	"taskdeck/internal/service"
)

var categories = []service.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "Home"}}

func TestController_StartsClosed(t *testing.T) {
	c := form.New()
	if c.IsOpen() {
		t.Error("expected closed form")
	}
	if _, err := c.Submit(nil); !errors.Is(err, form.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestController_CreateSubmit(t *testing.T) {
	c := form.New()
	c.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	c.NewID = func() string { return "local-1" }

	c.OpenCreate()
	if c.Mode() != form.Creating {
		t.Fatalf("expected create mode, got %v", c.Mode())
	}
	c.Title = "  Buy milk  "
	c.Description = "2 liters"
	c.Category = service.CategoryByName("Home")

	sub, err := c.Submit(categories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Mode != form.Creating {
		t.Errorf("expected create submission, got %v", sub.Mode)
	}
	d := sub.Draft
	if d.ID.IsCommitted() || d.ID.LocalID() != "local-1" {
		t.Errorf("expected provisional id local-1, got %v", d.ID)
	}
	if d.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", d.Title)
	}
	if id, ok := d.Category.ID(); !ok || id != 2 {
		t.Errorf("expected category resolved to id 2, got %v", d.Category)
	}
	if d.CreatedAt != "2024-03-01T12:00:00.000000Z" {
		t.Errorf("unexpected timestamp %q", d.CreatedAt)
	}
}

func TestController_EmptyTitleRejected(t *testing.T) {
	c := form.New()
	c.OpenCreate()
	c.Title = "   "
	c.Description = "keep me"

	_, err := c.Submit(categories)
	if !errors.Is(err, form.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if !c.IsOpen() {
		t.Error("form closed after rejected submit")
	}
	if c.Description != "keep me" {
		t.Error("buffer changed after rejected submit")
	}
}

func TestController_EditRetainsIdentityAndTimestamp(t *testing.T) {
	original := service.Task{
		ID:          service.Committed(7),
		Title:       "Old",
		Description: "desc",
		Completed:   true,
		CreatedAt:   "2024-01-01T00:00:00.000000Z",
		Category:    service.CategoryByName("Work"),
	}

	c := form.New()
	c.OpenEdit(original)
	if c.Title != "Old" || c.Description != "desc" {
		t.Fatalf("fields not seeded: %q %q", c.Title, c.Description)
	}
	c.Description = "new desc"

	sub, err := c.Submit(categories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := sub.Task
	if sub.Mode != form.Editing {
		t.Errorf("expected edit submission, got %v", sub.Mode)
	}
	if got.ID != original.ID {
		t.Errorf("id changed: %v", got.ID)
	}
	if got.CreatedAt != original.CreatedAt {
		t.Errorf("timestamp changed: %q", got.CreatedAt)
	}
	if !got.Completed {
		t.Error("completion flag dropped")
	}
	if got.Description != "new desc" {
		t.Errorf("expected edited description, got %q", got.Description)
	}
	if id, ok := got.Category.ID(); !ok || id != 1 {
		t.Errorf("expected category resolved to id 1, got %v", got.Category)
	}
}

func TestController_UnknownCategoryNameKept(t *testing.T) {
	c := form.New()
	c.OpenCreate()
	c.Title = "x"
	c.Category = service.CategoryByName("Nowhere")

	sub, err := c.Submit(categories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name, ok := sub.Draft.Category.Name(); !ok || name != "Nowhere" {
		t.Errorf("expected unresolved name, got %v", sub.Draft.Category)
	}
}

func TestController_CancelDiscards(t *testing.T) {
	c := form.New()
	c.OpenEdit(service.Task{ID: service.Committed(1), Title: "t"})
	c.Title = "changed"

	c.Cancel()

	if c.IsOpen() {
		t.Error("expected closed form")
	}
	if c.Title != "" {
		t.Errorf("expected empty buffer, got %q", c.Title)
	}
	if _, ok := c.Subject(); ok {
		t.Error("expected no bound subject")
	}
}

func TestController_OpenCreateAfterEditClearsSubject(t *testing.T) {
	c := form.New()
	c.OpenEdit(service.Task{ID: service.Committed(1), Title: "t"})
	c.OpenCreate()

	if c.Title != "" || c.Mode() != form.Creating {
		t.Errorf("expected fresh create form, got mode %v title %q", c.Mode(), c.Title)
	}
}
