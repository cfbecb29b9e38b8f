// Package server implements the task REST service on SQLite.
package server

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"taskdeck/internal/service"
)

//go:embed migrations/001_init.sql
var initSchema string

// Task is a stored task joined with its category name.
type Task struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Completed   bool           `db:"completed"`
	CreatedAt   string         `db:"created_at"`
	CategoryID  sql.NullInt64  `db:"category_id"`
	Category    sql.NullString `db:"category"`
}

// Category is a stored category.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TaskChanges holds the fields of an update. Nil fields keep their value;
// a CategoryID of zero keeps the category.
type TaskChanges struct {
	Title       *string
	Description *string
	Completed   *bool
	CategoryID  int64
}

// Storage is the SQLite task store.
type Storage struct {
	conn *sqlx.DB
	log  *log.Logger
	now  func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *log.Logger) (*Storage, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	s := &Storage{conn: conn, log: logger, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.conn.Close()
}

func (s *Storage) migrate() error {
	s.log.Debug("applying schema")
	if _, err := s.conn.Exec(initSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const selectTasks = `
	SELECT t.id, t.title, t.description, t.completed, t.created_at, t.category_id, c.name AS category
	FROM tasks t
	LEFT JOIN categories c ON c.id = t.category_id`

// ListTasks returns all tasks in insertion order.
func (s *Storage) ListTasks(ctx context.Context) ([]Task, error) {
	out := []Task{}
	if err := s.conn.SelectContext(ctx, &out, selectTasks+` ORDER BY t.id`); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// GetTask returns one task.
func (s *Storage) GetTask(ctx context.Context, id int64) (Task, error) {
	var t Task
	if err := s.conn.GetContext(ctx, &t, selectTasks+` WHERE t.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CreateTask inserts a task. The creation timestamp is assigned here.
// categoryID 0 means no category.
func (s *Storage) CreateTask(ctx context.Context, title, description string, categoryID int64) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, ErrTitleRequired
	}
	if categoryID != 0 {
		if _, err := s.getCategory(ctx, categoryID); err != nil {
			return Task{}, err
		}
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, created_at, category_id) VALUES (?, ?, 0, ?, ?)`,
		title, description, service.Timestamp(s.now()), nullID(categoryID))
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// UpdateTask applies ch to the task with the given id.
func (s *Storage) UpdateTask(ctx context.Context, id int64, ch TaskChanges) (Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if ch.Title != nil {
		if strings.TrimSpace(*ch.Title) == "" {
			return Task{}, ErrTitleRequired
		}
		t.Title = *ch.Title
	}
	if ch.Description != nil {
		t.Description = *ch.Description
	}
	if ch.Completed != nil {
		t.Completed = *ch.Completed
	}
	if ch.CategoryID != 0 {
		if _, err := s.getCategory(ctx, ch.CategoryID); err != nil {
			return Task{}, err
		}
		t.CategoryID = sql.NullInt64{Int64: ch.CategoryID, Valid: true}
	}

	_, err = s.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?, category_id = ? WHERE id = ?`,
		t.Title, t.Description, t.Completed, t.CategoryID, id)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task.
func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns all categories in insertion order.
func (s *Storage) ListCategories(ctx context.Context) ([]Category, error) {
	out := []Category{}
	if err := s.conn.SelectContext(ctx, &out, `SELECT id, name FROM categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// CreateCategory inserts a category. Names are unique.
func (s *Storage) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrNameRequired
	}
	res, err := s.conn.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrCategoryExists
		}
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return Category{ID: id, Name: name}, nil
}

// DeleteCategory removes a category and detaches its tasks.
func (s *Storage) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("detach tasks: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// CategoryTasks returns the tasks of one category.
func (s *Storage) CategoryTasks(ctx context.Context, id int64) ([]Task, error) {
	if _, err := s.getCategory(ctx, id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := []Task{}
	if err := s.conn.SelectContext(ctx, &out, selectTasks+` WHERE t.category_id = ? ORDER BY t.id`, id); err != nil {
		return nil, fmt.Errorf("list category tasks: %w", err)
	}
	return out, nil
}

func (s *Storage) getCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	if err := s.conn.GetContext(ctx, &c, `SELECT id, name FROM categories WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
