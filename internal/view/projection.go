// Package view derives the displayed task sequence from the committed
// collection. Nothing here mutates its input.
package view

import (
	"fmt"
	"sort"
	"strings"

	"taskdeck/internal/service"
)

// Direction is the sort direction over creation timestamps.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection parses "asc" or "desc" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction: %s", s)
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Filter selects tasks by category. The zero Filter selects all tasks.
type Filter struct {
	category *service.Category
}

// All is the filter that selects every task.
var All = Filter{}

// ByCategory selects tasks whose category reference matches c.
func ByCategory(c service.Category) Filter {
	return Filter{category: &c}
}

// Category returns the selected category, if any.
func (f Filter) Category() (service.Category, bool) {
	if f.category == nil {
		return service.Category{}, false
	}
	return *f.category, true
}

// Match reports whether t passes the filter.
func (f Filter) Match(t service.Task) bool {
	if f.category == nil {
		return true
	}
	return t.Category.Matches(*f.category)
}

func (f Filter) String() string {
	if f.category == nil {
		return "all"
	}
	return f.category.Name
}

// Query is the projection input besides the collection itself.
type Query struct {
	Filter    Filter
	Direction Direction
}

// Project filters tasks by q.Filter and orders them by creation timestamp.
// Timestamps are ISO-8601 strings, so string order is chronological order.
// The sort is stable; tasks with equal timestamps keep collection order.
func Project(tasks []service.Task, q Query) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Filter.Match(t) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.Direction == Descending {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Lookup returns the task shown at 1-based position num.
func Lookup(projected []service.Task, num int) (service.Task, error) {
	if num < 1 || num > len(projected) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return projected[num-1], nil
}

// Position returns the 1-based display position of the task with the given
// id, or 0 if it is not shown.
func Position(projected []service.Task, id service.TaskID) int {
	for i, t := range projected {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}
