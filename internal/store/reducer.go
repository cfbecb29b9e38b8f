package store

import (
	"taskdeck/internal/service"
	"taskdeck/internal/view"
)

// Reduce returns the state that results from applying a to s.
// s is not modified.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a := a.(type) {
	case TasksLoaded:
		next.Tasks = dedupe(a.Tasks)
		next.PendingToggles = make(map[int64]bool)

	case CategoriesLoaded:
		next.Categories = append([]service.Category(nil), a.Categories...)
		if c, ok := next.Query.Filter.Category(); ok && !hasCategory(next.Categories, c.ID) {
			next.Query.Filter = view.All
		}

	case CreateStarted:
		if local := a.Draft.ID.LocalID(); local != "" {
			next.PendingCreates[local] = a.Draft
		}

	case CreateFailed:
		delete(next.PendingCreates, a.LocalID)

	case TaskCreated:
		delete(next.PendingCreates, a.LocalID)
		id, ok := a.Task.ID.ServerID()
		if !ok {
			break
		}
		// Identifiers stay unique: a repeated id replaces the entry.
		if i := indexOf(next.Tasks, id); i >= 0 {
			next.Tasks[i] = a.Task
		} else {
			next.Tasks = append(next.Tasks, a.Task)
		}

	case TaskUpdated:
		id, ok := a.Task.ID.ServerID()
		if !ok {
			break
		}
		delete(next.PendingToggles, id)
		if i := indexOf(next.Tasks, id); i >= 0 {
			next.Tasks[i] = a.Task
		}

	case TaskDeleted:
		delete(next.PendingToggles, a.ID)
		if i := indexOf(next.Tasks, a.ID); i >= 0 {
			next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
		}

	case ToggleStarted:
		i := indexOf(next.Tasks, a.ID)
		if i < 0 {
			break
		}
		if _, pending := next.PendingToggles[a.ID]; !pending {
			next.PendingToggles[a.ID] = next.Tasks[i].Completed
		}
		next.Tasks[i].Completed = !next.Tasks[i].Completed

	case ToggleFailed:
		before, pending := next.PendingToggles[a.ID]
		if !pending {
			break
		}
		delete(next.PendingToggles, a.ID)
		if i := indexOf(next.Tasks, a.ID); i >= 0 {
			next.Tasks[i].Completed = before
		}

	case CategoryCreated:
		if !hasCategory(next.Categories, a.Category.ID) {
			next.Categories = append(next.Categories, a.Category)
		}

	case CategoryDeleted:
		for i, c := range next.Categories {
			if c.ID != a.ID {
				continue
			}
			next.Categories = append(next.Categories[:i], next.Categories[i+1:]...)
			for j := range next.Tasks {
				if next.Tasks[j].Category.Matches(c) {
					next.Tasks[j].Category = service.Unassigned
				}
			}
			break
		}
		if c, ok := next.Query.Filter.Category(); ok && c.ID == a.ID {
			next.Query.Filter = view.All
		}

	case FilterChanged:
		next.Query.Filter = a.Filter

	case SortChanged:
		next.Query.Direction = a.Direction
	}

	return next
}

func indexOf(tasks []service.Task, id int64) int {
	for i, t := range tasks {
		if sid, ok := t.ID.ServerID(); ok && sid == id {
			return i
		}
	}
	return -1
}

func hasCategory(categories []service.Category, id int64) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// dedupe copies tasks, keeping the last occurrence of a repeated id in the
// position of its first occurrence.
func dedupe(tasks []service.Task) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	seen := make(map[int64]int, len(tasks))
	for _, t := range tasks {
		id, ok := t.ID.ServerID()
		if !ok {
			continue
		}
		if i, dup := seen[id]; dup {
			out[i] = t
			continue
		}
		seen[id] = len(out)
		out = append(out, t)
	}
	return out
}
