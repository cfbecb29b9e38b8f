// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/service"
)

const (
	// Separator is the rule printed around section headers.
	Separator = "------------"
)

// FormatTask formats one task line.
// Format: "{N:>4}  [x] {TITLE}" followed by "  @{CATEGORY}" when set.
// A num below 1 prints "   -" in place of the number.
func FormatTask(w io.Writer, num int, task service.Task, categories []service.Category) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("%s  [%s] %s", number(num), mark, normalizeTitle(task.Title))
	if label := task.Category.Label(categories); label != "" {
		line += "  @" + label
	}
	fmt.Fprintln(w, line)
}

// FormatTaskLong formats a task line followed by its id, creation time and
// description, each indented under the title.
func FormatTaskLong(w io.Writer, num int, task service.Task, categories []service.Category) {
	FormatTask(w, num, task, categories)
	fmt.Fprintf(w, "          id: %s\n", task.ID)
	if task.CreatedAt != "" {
		fmt.Fprintf(w, "          created: %s\n", task.CreatedAt)
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		for _, l := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "          %s\n", strings.TrimRight(l, "\r"))
		}
	}
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, normalizeName(title))
	fmt.Fprintln(w, Separator)
}

// FormatCategory formats a category line with its task count.
func FormatCategory(w io.Writer, c service.Category, count int) {
	fmt.Fprintf(w, "%4d  %s (%d)\n", c.ID, normalizeName(c.Name), count)
}

func number(num int) string {
	if num < 1 {
		return "   -"
	}
	return fmt.Sprintf("%4d", num)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeName returns "(untitled)" for a blank category name.
func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
