package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/service"
)

func newClient(t *testing.T, h http.Handler) *rest.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := rest.New(srv.URL + "/")
	if err != nil {
		t.Fatalf("rest.New: %v", err)
	}
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "ftp://host", "http://"} {
		if _, err := rest.New(u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestListTasks_DecodesCategoryForms(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[
			{"id": 1, "title": "a", "description": null, "completed": false, "created_at": "2024-01-01T00:00:00", "category": "Work"},
			{"id": 2, "title": "b", "description": "d", "completed": true, "created_at": "2024-01-02T00:00:00", "category": "Work", "category_id": 3},
			{"id": 3, "title": "c", "completed": false, "category": null}
		]`)
	}))

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if name, ok := tasks[0].Category.Name(); !ok || name != "Work" {
		t.Errorf("expected ByName Work, got %v", tasks[0].Category)
	}
	if id, ok := tasks[1].Category.ID(); !ok || id != 3 {
		t.Errorf("expected id to win over name, got %v", tasks[1].Category)
	}
	if !tasks[2].Category.IsUnassigned() {
		t.Errorf("expected unassigned, got %v", tasks[2].Category)
	}
	if !tasks[1].Completed || tasks[1].Description != "d" {
		t.Errorf("unexpected task: %+v", tasks[1])
	}
	if id, _ := tasks[0].ID.ServerID(); id != 1 {
		t.Errorf("expected id 1, got %v", tasks[0].ID)
	}
}

func TestListTasks_ServerErrorIsTransportError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "database is locked"}`)
	}))

	_, err := c.ListTasks(context.Background())

	var te *service.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if te.Status != 500 || te.Message != "database is locked" {
		t.Errorf("unexpected error fields: %+v", te)
	}
	if !strings.Contains(err.Error(), "failed to list tasks: 500 Internal Server Error") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestListTasks_SchemaViolation(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": "one", "title": "a"}]`)
	}))

	_, err := c.ListTasks(context.Background())

	if !service.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "/0/id") {
		t.Errorf("expected instance location in error, got %q", err.Error())
	}
}

func TestListTasks_FractionalIDRejected(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 3, "title": "a"}, {"id": 1.5, "title": "b"}]`)
	}))

	_, err := c.ListTasks(context.Background())

	if !service.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "/1/id") {
		t.Errorf("expected instance location in error, got %q", err.Error())
	}
}

func TestListTasks_MalformedJSON(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 1,`)
	}))

	_, err := c.ListTasks(context.Background())

	if !service.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("expected decode failure, got %q", err.Error())
	}
}

func TestCreateTask_SendsPayloadAndReturnsServerRecord(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/new" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["title"] != "Buy milk" {
			t.Errorf("unexpected title %v", body["title"])
		}
		if body["category_id"] != float64(2) {
			t.Errorf("expected category_id 2, got %v", body["category_id"])
		}
		if _, ok := body["id"]; ok {
			t.Error("provisional id leaked into payload")
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 42, "title": "Buy milk", "description": "", "completed": false, "created_at": "2024-03-01T12:00:00", "category": "Home"}`)
	}))

	got, err := c.CreateTask(context.Background(), service.Draft{
		ID:       service.Provisional("local-1"),
		Title:    "Buy milk",
		Category: service.CategoryByID(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := got.ID.ServerID(); !ok || id != 42 {
		t.Errorf("expected server id 42, got %v", got.ID)
	}
	if got.CreatedAt != "2024-03-01T12:00:00" {
		t.Errorf("expected server timestamp, got %q", got.CreatedAt)
	}
}

func TestCreateTask_BadRequestCarriesStatusText(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "Title is required"}`)
	}))

	_, err := c.CreateTask(context.Background(), service.Draft{Title: "x"})

	want := "failed to create task: 400 Bad Request: Title is required"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestUpdateTask_ProvisionalIDMakesNoCall(t *testing.T) {
	var calls int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	_, err := c.UpdateTask(context.Background(), service.Task{ID: service.Provisional("x"), Title: "t"})

	if !service.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/tasks/update/9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "Resource not found"}`)
	}))

	_, err := c.UpdateTask(context.Background(), service.Task{ID: service.Committed(9), Title: "t"})

	if !service.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateTask_SendsFullRecord(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["completed"] != true || body["created_at"] != "2024-01-01T00:00:00" {
			t.Errorf("unexpected body %v", body)
		}
		if _, ok := body["category_id"]; ok {
			t.Error("unresolved category name must not be sent")
		}
		io.WriteString(w, `{"id": 7, "title": "t", "description": "", "completed": true, "created_at": "2024-01-01T00:00:00", "category": "Work"}`)
	}))

	got, err := c.UpdateTask(context.Background(), service.Task{
		ID:        service.Committed(7),
		Title:     "t",
		Completed: true,
		CreatedAt: "2024-01-01T00:00:00",
		Category:  service.CategoryByName("Work"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Completed {
		t.Error("expected completed record")
	}
}

func TestDeleteTask_NoContent(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/tasks/delete/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	res, err := c.DeleteTask(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != "" {
		t.Errorf("expected empty result, got %q", res.Message)
	}
}

func TestDeleteTask_JSONBody(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message": "Task deleted successfully."}`)
	}))

	res, err := c.DeleteTask(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != "Task deleted successfully." {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "Resource not found"}`, http.StatusNotFound)
	}))

	_, err := c.DeleteTask(context.Background(), 7)

	if !service.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 1, "name": "Work", "tasks": []}, {"id": 2, "name": "Home"}]`)
	})
	mux.HandleFunc("POST /categories/new", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 3, "name": "`+body["name"]+`"}`)
	})
	mux.HandleFunc("DELETE /categories/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /categories/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 5, "title": "x", "category": "Work", "category_id": `+r.PathValue("id")+`}]`)
	})
	c := newClient(t, mux)
	ctx := context.Background()

	cats, err := c.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Work" {
		t.Errorf("unexpected categories %+v", cats)
	}

	created, err := c.CreateCategory(ctx, "Errands")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if created.ID != 3 || created.Name != "Errands" {
		t.Errorf("unexpected category %+v", created)
	}

	if _, err := c.DeleteCategory(ctx, 3); err != nil {
		t.Errorf("DeleteCategory: %v", err)
	}

	tasks, err := c.ListCategoryTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategoryTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if id, ok := tasks[0].Category.ID(); !ok || id != 1 {
		t.Errorf("expected category id 1, got %v", tasks[0].Category)
	}
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := rest.New(url)
	if err != nil {
		t.Fatalf("rest.New: %v", err)
	}
	_, err = c.ListCategories(context.Background())

	var te *service.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Status != 0 || te.Err == nil {
		t.Errorf("expected network error without status, got %+v", te)
	}
}
