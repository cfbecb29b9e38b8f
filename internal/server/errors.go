package server

import "errors"

// Messages match the error bodies clients already expect.
var (
	ErrNotFound         = errors.New("Resource not found")
	ErrCategoryNotFound = errors.New("Category not found")
	ErrTitleRequired    = errors.New("Title is required")
	ErrNameRequired     = errors.New("Category name is required")
	ErrCategoryExists   = errors.New("Category already exists")
	ErrBadRequest       = errors.New("Bad request")
)
