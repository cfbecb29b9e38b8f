package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Repository is the storage used by the handlers.
type Repository interface {
	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, title, description string, categoryID int64) (Task, error)
	UpdateTask(ctx context.Context, id int64, ch TaskChanges) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryTasks(ctx context.Context, id int64) ([]Task, error)
}

type taskOut struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	Category    *string `json:"category"`
	CategoryID  *int64  `json:"category_id"`
}

func newTaskOut(t Task) taskOut {
	out := taskOut{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
	if t.Category.Valid {
		out.Category = &t.Category.String
	}
	if t.CategoryID.Valid {
		out.CategoryID = &t.CategoryID.Int64
	}
	return out
}

func newTaskList(tasks []Task) []taskOut {
	out := make([]taskOut, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskOut(t)
	}
	return out
}

type createTaskIn struct {
	Title       *string `json:"title"`
	Description string  `json:"description"`
	CategoryID  *int64  `json:"category_id"`
}

type updateTaskIn struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	CategoryID  *int64  `json:"category_id"`
}

type categoryIn struct {
	Name *string `json:"name"`
}

// NewHandler returns the REST API over repo. Each request gets timeout to
// finish its storage work.
func NewHandler(repo Repository, logger *log.Logger, timeout time.Duration) http.Handler {
	h := &handler{repo: repo, log: logger, timeout: timeout}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", h.listTasks)
	mux.HandleFunc("POST /tasks/new", h.createTask)
	mux.HandleFunc("PUT /tasks/update/{id}", h.updateTask)
	mux.HandleFunc("DELETE /tasks/delete/{id}", h.deleteTask)
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("POST /categories/new", h.createCategory)
	mux.HandleFunc("DELETE /categories/delete/{id}", h.deleteCategory)
	mux.HandleFunc("GET /categories/{id}/tasks", h.categoryTasks)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrNotFound.Error(), http.StatusNotFound)
	})
	return logRequests(logger, mux)
}

type handler struct {
	repo    Repository
	log     *log.Logger
	timeout time.Duration
}

func (h *handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	tasks, err := h.repo.ListTasks(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, newTaskList(tasks), http.StatusOK)
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == nil {
		h.writeErr(w, ErrTitleRequired)
		return
	}
	var categoryID int64
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}

	ctx, cancel := h.context(r)
	defer cancel()

	t, err := h.repo.CreateTask(ctx, *in.Title, in.Description, categoryID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, newTaskOut(t), http.StatusCreated)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeErr(w, ErrNotFound)
		return
	}
	var in updateTaskIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "No data provided", http.StatusBadRequest)
		return
	}
	ch := TaskChanges{Title: in.Title, Description: in.Description, Completed: in.Completed}
	if in.CategoryID != nil {
		ch.CategoryID = *in.CategoryID
	}

	ctx, cancel := h.context(r)
	defer cancel()

	t, err := h.repo.UpdateTask(ctx, id, ch)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, newTaskOut(t), http.StatusOK)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeErr(w, ErrNotFound)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.repo.DeleteTask(ctx, id); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	cats, err := h.repo.ListCategories(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, cats, http.StatusOK)
}

func (h *handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == nil {
		h.writeErr(w, ErrNameRequired)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	c, err := h.repo.CreateCategory(ctx, *in.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, c, http.StatusCreated)
}

func (h *handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeErr(w, ErrNotFound)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.repo.DeleteCategory(ctx, id); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) categoryTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeErr(w, ErrNotFound)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	tasks, err := h.repo.CategoryTasks(ctx, id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, newTaskList(tasks), http.StatusOK)
}

// pathID parses the {id} segment. Non-numeric ids are reported as missing
// resources, not bad requests.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *handler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrNameRequired), errors.Is(err, ErrBadRequest):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCategoryNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrCategoryExists):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("request failed", "err", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}
