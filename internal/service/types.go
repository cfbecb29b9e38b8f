// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"strconv"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for proposed creation
// timestamps. Fixed width, so lexicographic order is chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp formats t in TimestampLayout (UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// TaskID identifies a task. It is either provisional (client-generated,
// not yet persisted) or committed (assigned by the server).
type TaskID struct {
	local  string
	server int64
}

// Provisional returns a client-side placeholder identifier.
func Provisional(localID string) TaskID {
	return TaskID{local: localID}
}

// Committed returns a server-assigned identifier.
func Committed(serverID int64) TaskID {
	return TaskID{server: serverID}
}

// IsCommitted reports whether the identifier was assigned by the server.
func (id TaskID) IsCommitted() bool {
	return id.server != 0
}

// IsZero reports whether the identifier is unset.
func (id TaskID) IsZero() bool {
	return id.server == 0 && id.local == ""
}

// ServerID returns the server identifier and true, or 0 and false for a
// provisional identifier.
func (id TaskID) ServerID() (int64, bool) {
	return id.server, id.server != 0
}

// LocalID returns the provisional identifier, or "" when committed.
func (id TaskID) LocalID() string {
	if id.server != 0 {
		return ""
	}
	return id.local
}

func (id TaskID) String() string {
	if id.server != 0 {
		return strconv.FormatInt(id.server, 10)
	}
	if id.local == "" {
		return "(none)"
	}
	return "~" + id.local
}

// CategoryRef is a task's category: unassigned, by identifier, or by name.
// Exactly one form is authoritative at a time.
type CategoryRef struct {
	id   int64
	name string
}

// Unassigned is the zero CategoryRef.
var Unassigned = CategoryRef{}

// CategoryByID references a category by its identifier.
func CategoryByID(id int64) CategoryRef {
	if id <= 0 {
		return Unassigned
	}
	return CategoryRef{id: id}
}

// CategoryByName references a category by its denormalized name.
func CategoryByName(name string) CategoryRef {
	if name == "" {
		return Unassigned
	}
	return CategoryRef{name: name}
}

// IsUnassigned reports whether no category is set.
func (r CategoryRef) IsUnassigned() bool {
	return r.id == 0 && r.name == ""
}

// ID returns the category identifier for a ByID reference.
func (r CategoryRef) ID() (int64, bool) {
	return r.id, r.id != 0
}

// Name returns the category name for a ByName reference.
func (r CategoryRef) Name() (string, bool) {
	return r.name, r.id == 0 && r.name != ""
}

// Matches reports whether the reference points at c.
func (r CategoryRef) Matches(c Category) bool {
	if r.id != 0 {
		return r.id == c.ID
	}
	if r.name != "" {
		return r.name == c.Name
	}
	return false
}

// Resolve converts a ByName reference into a ByID reference using the given
// categories. ByID and unassigned references are returned unchanged, as is a
// name with no matching category.
func (r CategoryRef) Resolve(categories []Category) CategoryRef {
	if r.id != 0 || r.name == "" {
		return r
	}
	for _, c := range categories {
		if c.Name == r.name {
			return CategoryByID(c.ID)
		}
	}
	return r
}

// Label returns a display name for the reference.
func (r CategoryRef) Label(categories []Category) string {
	if r.name != "" {
		return r.name
	}
	if r.id == 0 {
		return ""
	}
	for _, c := range categories {
		if c.ID == r.id {
			return c.Name
		}
	}
	return "#" + strconv.FormatInt(r.id, 10)
}

func (r CategoryRef) String() string {
	switch {
	case r.id != 0:
		return "id:" + strconv.FormatInt(r.id, 10)
	case r.name != "":
		return "name:" + r.name
	default:
		return "unassigned"
	}
}

// Task represents a single task record.
type Task struct {
	ID          TaskID
	Title       string
	Description string
	Completed   bool
	CreatedAt   string // ISO-8601, immutable after creation
	Category    CategoryRef
}

// Draft is a task that has not been persisted yet.
type Draft struct {
	ID          TaskID // always provisional
	Title       string
	Description string
	Category    CategoryRef
	CreatedAt   string
}

// Category represents a named label assignable to tasks.
type Category struct {
	ID   int64
	Name string
}

// DeleteResult holds the optional body returned by a delete call.
// Message is empty when the server answered 204 No Content.
type DeleteResult struct {
	Message string
}
