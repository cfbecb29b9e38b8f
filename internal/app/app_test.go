package app_test

import (
	"context"
	"errors"
	"testing"

	"taskdeck/internal/app"
	"taskdeck/internal/form"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
	"taskdeck/internal/view"
)

type recorder struct {
	notices []app.Notice
}

func (r *recorder) Notify(n app.Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() app.Notice {
	if len(r.notices) == 0 {
		return app.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func setup(t *testing.T) (*app.App, *testutil.FakeService, *recorder) {
	t.Helper()
	svc := testutil.NewFakeService()
	rec := &recorder{}
	a := app.New(svc, app.WithNotifier(rec))
	return a, svc, rec
}

func TestSubmit_CreateUsesServerID(t *testing.T) {
	a, _, rec := setup(t)
	ctx := context.Background()

	f := form.New()
	f.NewID = func() string { return "local-1" }
	f.OpenCreate()
	f.Title = "Buy milk"

	got, err := a.Submit(ctx, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := a.State().Tasks
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != got.ID || !tasks[0].ID.IsCommitted() {
		t.Errorf("expected server id, got %v", tasks[0].ID)
	}
	if tasks[0].ID.LocalID() == "local-1" {
		t.Error("collection kept the provisional id")
	}
	if len(a.State().PendingCreates) != 0 {
		t.Error("pending create not cleared")
	}
	if f.IsOpen() {
		t.Error("form not reset after success")
	}
	if rec.last().Level != app.Info {
		t.Errorf("expected success notice, got %+v", rec.last())
	}
}

func TestSubmit_EmptyTitleMakesNoRemoteCall(t *testing.T) {
	a, svc, rec := setup(t)
	svc.AddTask("existing", "2024-01-01T00:00:00Z", "")
	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := svc.TotalCalls()

	f := form.New()
	f.OpenCreate()
	f.Title = ""

	_, err := a.Submit(context.Background(), f)

	if !errors.Is(err, form.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if svc.Calls("CreateTask") != 0 || svc.TotalCalls() != before {
		t.Error("remote call made for invalid form")
	}
	if len(a.State().Tasks) != 1 {
		t.Errorf("collection changed: %d tasks", len(a.State().Tasks))
	}
	if !f.IsOpen() {
		t.Error("form closed after validation failure")
	}
	if rec.last().Level != app.Error {
		t.Errorf("expected error notice, got %+v", rec.last())
	}
}

func TestSubmit_EditKeepsCategory(t *testing.T) {
	a, svc, _ := setup(t)
	ctx := context.Background()
	svc.AddCategory("Work")
	task := svc.AddTask("Write report", "2024-01-01T00:00:00Z", "Work")
	if err := a.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	f := form.New()
	f.OpenEdit(task)
	f.Description = "with numbers"

	got, err := a.Submit(ctx, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, _ := task.ID.ServerID()
	stored, ok := a.State().Find(id)
	if !ok {
		t.Fatal("task missing after update")
	}
	if stored != got {
		t.Errorf("expected server record %+v, got %+v", got, stored)
	}
	if stored.Category.Label(a.State().Categories) != "Work" {
		t.Errorf("category dropped: %v", stored.Category)
	}
	if stored.CreatedAt != task.CreatedAt {
		t.Errorf("creation timestamp changed: %q", stored.CreatedAt)
	}
}

func TestSubmit_CreateFailureLeavesCollection(t *testing.T) {
	a, svc, rec := setup(t)
	svc.CreateTaskErr = &service.TransportError{Op: "create task", Status: 500}

	f := form.New()
	f.OpenCreate()
	f.Title = "x"

	if _, err := a.Submit(context.Background(), f); err == nil {
		t.Fatal("expected error")
	}
	if len(a.State().Tasks) != 0 || len(a.State().PendingCreates) != 0 {
		t.Errorf("unexpected state after failed create: %+v", a.State())
	}
	if !f.IsOpen() {
		t.Error("form should stay open so the user can retry")
	}
	if rec.last().Level != app.Error {
		t.Error("failure not surfaced")
	}
}

func TestDelete_AbsentIDSurfacesError(t *testing.T) {
	a, svc, rec := setup(t)
	svc.AddTask("a", "2024-01-01T00:00:00Z", "")
	svc.AddTask("b", "2024-01-02T00:00:00Z", "")
	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := a.State().Tasks

	err := a.Delete(context.Background(), 7)

	if !service.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	after := a.State().Tasks
	if len(after) != len(before) {
		t.Errorf("collection changed: %d -> %d", len(before), len(after))
	}
	if rec.last().Level != app.Error {
		t.Errorf("expected error notice, got %+v", rec.last())
	}
}

func TestDelete_RemovesTask(t *testing.T) {
	a, svc, _ := setup(t)
	task := svc.AddTask("a", "2024-01-01T00:00:00Z", "")
	a.Load(context.Background())

	id, _ := task.ID.ServerID()
	if err := a.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.State().Tasks) != 0 {
		t.Error("task not removed")
	}
}

func TestToggle_FailureIsSurfacedAndReverted(t *testing.T) {
	a, svc, rec := setup(t)
	task := svc.AddTask("a", "2024-01-01T00:00:00Z", "")
	a.Load(context.Background())
	svc.UpdateTaskErr = &service.TransportError{Op: "update task", Status: 503}

	id, _ := task.ID.ServerID()
	_, err := a.Toggle(context.Background(), id)

	if err == nil {
		t.Fatal("toggle failure reported as success")
	}
	if rec.last().Level != app.Error {
		t.Errorf("expected error notice, got %+v", rec.last())
	}
	got, _ := a.State().Find(id)
	if got.Completed {
		t.Error("local flag not reverted")
	}
	if a.State().IsPending(id) {
		t.Error("toggle still pending")
	}
}

func TestToggle_Success(t *testing.T) {
	a, svc, _ := setup(t)
	task := svc.AddTask("a", "2024-01-01T00:00:00Z", "")
	a.Load(context.Background())

	id, _ := task.ID.ServerID()
	got, err := a.Toggle(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Completed {
		t.Error("expected completed")
	}
	if stored, _ := a.State().Find(id); !stored.Completed {
		t.Error("store not updated")
	}
	if !svc.Tasks()[0].Completed {
		t.Error("server not updated")
	}
}

func TestToggle_UnknownTask(t *testing.T) {
	a, svc, _ := setup(t)

	_, err := a.Toggle(context.Background(), 3)

	if !errors.Is(err, app.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Error("unexpected remote call")
	}
}

func TestLoad_FailureLeavesState(t *testing.T) {
	a, svc, rec := setup(t)
	svc.ListTasksErr = errors.New("connection refused")

	if err := a.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if rec.last().Message != "connection refused" {
		t.Errorf("unexpected notice %+v", rec.last())
	}
}

func TestVisible_FilterAndSort(t *testing.T) {
	a, svc, _ := setup(t)
	work := svc.AddCategory("Work")
	svc.AddTask("a", "2024-03-01T00:00:00Z", "Work")
	svc.AddTask("b", "2024-01-01T00:00:00Z", "")
	svc.AddTask("c", "2024-02-01T00:00:00Z", "Work")
	a.Load(context.Background())

	a.SetFilter(view.ByCategory(work))
	a.SetSort(view.Descending)

	vis := a.Visible()
	if len(vis) != 2 || vis[0].Title != "a" || vis[1].Title != "c" {
		t.Errorf("unexpected projection: %+v", vis)
	}
	if len(a.State().Tasks) != 3 {
		t.Error("filter changed the collection")
	}
}

func TestCategories(t *testing.T) {
	a, svc, _ := setup(t)
	ctx := context.Background()
	svc.AddTask("a", "2024-01-01T00:00:00Z", "Errands")

	if _, err := a.CreateCategory(ctx, "  "); !errors.Is(err, app.ErrCategoryNameRequired) {
		t.Errorf("expected ErrCategoryNameRequired, got %v", err)
	}

	c, err := a.CreateCategory(ctx, "Errands")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, ok := a.State().FindCategory("Errands"); !ok {
		t.Error("category not stored")
	}
	a.Load(ctx)

	tasks, err := a.CategoryTasks(ctx, c.ID)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("CategoryTasks: %v %+v", err, tasks)
	}

	if err := a.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if len(a.State().Categories) != 0 {
		t.Error("category not removed")
	}
	if !a.State().Tasks[0].Category.IsUnassigned() {
		t.Error("tasks not reloaded after category delete")
	}
}

func TestDeleteCategory_ReloadFailureKeepsDelete(t *testing.T) {
	a, svc, rec := setup(t)
	ctx := context.Background()
	svc.AddCategory("Work")
	svc.AddTask("report", "2024-01-01T00:00:00Z", "Work")
	if err := a.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, _ := a.State().FindCategory("Work")
	svc.ListTasksErr = errors.New("boom")

	if err := a.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("expected committed delete to succeed, got %v", err)
	}
	if svc.Calls("DeleteCategory") != 1 {
		t.Errorf("expected 1 delete call, got %d", svc.Calls("DeleteCategory"))
	}
	if _, ok := a.State().FindCategory("Work"); ok {
		t.Error("category still stored")
	}
	if !a.State().Tasks[0].Category.IsUnassigned() {
		t.Error("task not detached locally")
	}
	if n := rec.last(); n.Level != app.Error || n.Message != "boom" {
		t.Errorf("expected reload failure notice, got %+v", n)
	}
}

func TestNoticeQueue_DropsOldest(t *testing.T) {
	q := app.NewNoticeQueue(2)
	q.Notify(app.Notice{Message: "1"})
	q.Notify(app.Notice{Message: "2"})
	q.Notify(app.Notice{Message: "3"})

	if got := (<-q.C()).Message; got != "2" {
		t.Errorf("expected 2, got %q", got)
	}
	if got := (<-q.C()).Message; got != "3" {
		t.Errorf("expected 3, got %q", got)
	}
}
