// Package form implements the add/edit task form as a state machine.
// The buffer is independent of the committed collection until submit.
package form

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/service"
)

// ErrTitleRequired is returned by Submit when the title is empty.
var ErrTitleRequired = errors.New("title is required")

// ErrClosed is returned by Submit when the form is not open.
var ErrClosed = errors.New("form is not open")

// Mode is the form state.
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "create"
	case Editing:
		return "edit"
	default:
		return "closed"
	}
}

// Submission is the outcome of a valid submit: a Draft in create mode or a
// full Task in edit mode.
type Submission struct {
	Mode  Mode
	Draft service.Draft
	Task  service.Task
}

// Controller holds the form buffer.
type Controller struct {
	mode    Mode
	subject service.Task // bound record in edit mode

	Title       string
	Description string
	Category    service.CategoryRef

	// Now and NewID are hooks for tests.
	Now   func() time.Time
	NewID func() string
}

// New returns a closed form.
func New() *Controller {
	return &Controller{}
}

// Mode returns the current state.
func (c *Controller) Mode() Mode { return c.mode }

// IsOpen reports whether the form is in create or edit mode.
func (c *Controller) IsOpen() bool { return c.mode != Closed }

// Subject returns the record bound in edit mode.
func (c *Controller) Subject() (service.Task, bool) {
	return c.subject, c.mode == Editing
}

// OpenCreate opens the form with empty fields.
func (c *Controller) OpenCreate() {
	c.clear()
	c.mode = Creating
}

// OpenEdit opens the form seeded from t. The identifier, creation timestamp
// and completion flag of t are retained for the submit payload.
func (c *Controller) OpenEdit(t service.Task) {
	c.clear()
	c.mode = Editing
	c.subject = t
	c.Title = t.Title
	c.Description = t.Description
	c.Category = t.Category
}

// Cancel discards the buffer and closes the form.
func (c *Controller) Cancel() {
	c.clear()
}

// Reset closes the form after a successful submit.
func (c *Controller) Reset() {
	c.clear()
}

// Submit validates the buffer and builds the payload for the remote call.
// On error the form stays open and unchanged. categories are used to resolve
// a category given by name into its identifier.
func (c *Controller) Submit(categories []service.Category) (Submission, error) {
	if c.mode == Closed {
		return Submission{}, ErrClosed
	}
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Submission{}, ErrTitleRequired
	}
	category := c.Category.Resolve(categories)

	if c.mode == Creating {
		return Submission{
			Mode: Creating,
			Draft: service.Draft{
				ID:          service.Provisional(c.newID()),
				Title:       title,
				Description: c.Description,
				Category:    category,
				CreatedAt:   service.Timestamp(c.now()),
			},
		}, nil
	}

	t := c.subject
	t.Title = title
	t.Description = c.Description
	t.Category = category
	return Submission{Mode: Editing, Task: t}, nil
}

func (c *Controller) clear() {
	c.mode = Closed
	c.subject = service.Task{}
	c.Title = ""
	c.Description = ""
	c.Category = service.Unassigned
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}
