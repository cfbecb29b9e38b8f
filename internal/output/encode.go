package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"taskdeck/internal/service"
)

// Format selects the list output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", Text:
		return Text, nil
	case JSON, YAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s", s)
	}
}

// TaskRecord is the machine-readable form of a task.
type TaskRecord struct {
	Num         int    `json:"num,omitempty" yaml:"num,omitempty"`
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// NewTaskRecord converts a task. num is its display number, 0 for none.
func NewTaskRecord(num int, t service.Task, categories []service.Category) TaskRecord {
	id, _ := t.ID.ServerID()
	return TaskRecord{
		Num:         num,
		ID:          id,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		Category:    t.Category.Label(categories),
	}
}

// Encode writes records in the given machine-readable format.
func Encode(w io.Writer, f Format, records []TaskRecord) error {
	if records == nil {
		records = []TaskRecord{}
	}
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not machine-readable", f)
	}
}
