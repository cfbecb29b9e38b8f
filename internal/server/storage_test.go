package server_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskdeck/internal/logging"
	"taskdeck/internal/server"
	"taskdeck/internal/service"
)

func openStorage(t *testing.T) *server.Storage {
	t.Helper()
	s, err := server.Open(filepath.Join(t.TempDir(), "tasks.sqlite3"), logging.Discard())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func TestStorage_CreateTask(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()

	got, err := s.CreateTask(ctx, "Buy milk", "2 liters", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID < 1 || got.Title != "Buy milk" || got.Description != "2 liters" || got.Completed {
		t.Errorf("unexpected task %+v", got)
	}
	if got.CategoryID.Valid || got.Category.Valid {
		t.Errorf("expected no category, got %+v", got)
	}
	if _, err := time.Parse(service.TimestampLayout, got.CreatedAt); err != nil {
		t.Errorf("unexpected timestamp %q: %v", got.CreatedAt, err)
	}
}

func TestStorage_CreateTaskValidation(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()

	if _, err := s.CreateTask(ctx, "  ", "", 0); !errors.Is(err, server.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := s.CreateTask(ctx, "x", "", 42); !errors.Is(err, server.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
	tasks, _ := s.ListTasks(ctx)
	if len(tasks) != 0 {
		t.Errorf("expected nothing stored, got %d tasks", len(tasks))
	}
}

func TestStorage_UpdateTaskKeepsCreatedAt(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()
	work, _ := s.CreateCategory(ctx, "Work")
	orig, _ := s.CreateTask(ctx, "Report", "", 0)

	got, err := s.UpdateTask(ctx, orig.ID, server.TaskChanges{
		Completed:  ptr(true),
		CategoryID: work.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Completed || got.Title != "Report" {
		t.Errorf("unexpected task %+v", got)
	}
	if got.Category.String != "Work" || got.CategoryID.Int64 != work.ID {
		t.Errorf("expected category Work, got %+v", got)
	}
	if got.CreatedAt != orig.CreatedAt {
		t.Errorf("timestamp changed from %q to %q", orig.CreatedAt, got.CreatedAt)
	}
}

func TestStorage_UpdateTaskErrors(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()
	task, _ := s.CreateTask(ctx, "x", "", 0)

	if _, err := s.UpdateTask(ctx, 99, server.TaskChanges{Title: ptr("y")}); !errors.Is(err, server.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateTask(ctx, task.ID, server.TaskChanges{CategoryID: 7}); !errors.Is(err, server.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := s.UpdateTask(ctx, task.ID, server.TaskChanges{Title: ptr("")}); !errors.Is(err, server.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}

func TestStorage_DeleteTask(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()
	task, _ := s.CreateTask(ctx, "x", "", 0)

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, server.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStorage_CategoryNamesUnique(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()

	if _, err := s.CreateCategory(ctx, "Work"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.CreateCategory(ctx, "Work"); !errors.Is(err, server.ErrCategoryExists) {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := s.CreateCategory(ctx, " "); !errors.Is(err, server.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestStorage_DeleteCategoryDetachesTasks(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()
	work, _ := s.CreateCategory(ctx, "Work")
	task, _ := s.CreateTask(ctx, "Report", "", work.ID)

	if err := s.DeleteCategory(ctx, work.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("expected task kept, got %+v", tasks)
	}
	if tasks[0].CategoryID.Valid {
		t.Errorf("expected task detached, got %+v", tasks[0])
	}
	if err := s.DeleteCategory(ctx, work.ID); !errors.Is(err, server.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_CategoryTasks(t *testing.T) {
	s := openStorage(t)
	ctx := context.Background()
	work, _ := s.CreateCategory(ctx, "Work")
	s.CreateTask(ctx, "Report", "", work.ID)
	s.CreateTask(ctx, "Milk", "", 0)

	tasks, err := s.CategoryTasks(ctx, work.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Report" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
	if _, err := s.CategoryTasks(ctx, 99); !errors.Is(err, server.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.sqlite3")
	s, err := server.Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	s.CreateTask(context.Background(), "persisted", "", 0)
	s.Close()

	s, err = server.Open(path, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	tasks, _ := s.ListTasks(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "persisted" {
		t.Errorf("unexpected tasks after reopen: %+v", tasks)
	}
}
