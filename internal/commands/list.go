package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list [flags]`.
type ListCmd struct {
	category   string
	categoryID int64
	desc       bool
	format     string
	long       bool
}

// SetCategory sets the category filter (for testing).
func (c *ListCmd) SetCategory(name string) {
	c.category = name
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--category <name> | --category-id <id>] [--desc] [--long] [--format text|json|yaml]"
}
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
	fs.Int64Var(&c.categoryID, "category-id", 0, "")
	fs.BoolVar(&c.desc, "desc", false, "")
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.category != "" && c.categoryID != 0 {
		fmt.Fprintln(errOut, "error: cannot use both --category and --category-id")
		return exitcode.UserError
	}
	if c.categoryID < 0 {
		fmt.Fprintf(errOut, "error: invalid category id: %d\n", c.categoryID)
		return exitcode.UserError
	}

	a := newApp(cfg, svc)
	if err := a.Load(ctx); err != nil {
		return report(errOut, err)
	}
	st := a.State()
	numbers := numbered(st)

	header := ""
	var tasks []service.Task
	switch {
	case c.categoryID != 0:
		tasks, err = a.CategoryTasks(ctx, c.categoryID)
		if err != nil {
			if service.IsNotFound(err) {
				fmt.Fprintf(errOut, "error: category not found: %d\n", c.categoryID)
				return exitcode.UserError
			}
			return report(errOut, err)
		}
		header = fmt.Sprintf("#%d", c.categoryID)
		for _, cat := range st.Categories {
			if cat.ID == c.categoryID {
				header = cat.Name
			}
		}
	case strings.TrimSpace(c.category) != "":
		name := strings.TrimSpace(c.category)
		cat, ok := st.FindCategory(name)
		if !ok {
			fmt.Fprintf(errOut, "error: category not found: %s\n", name)
			return exitcode.UserError
		}
		a.SetFilter(view.ByCategory(cat))
		tasks = a.Visible()
		header = cat.Name
	default:
		tasks = a.Visible()
	}

	if c.desc {
		tasks = view.Project(tasks, view.Query{Direction: view.Descending})
	}

	if format != output.Text {
		records := make([]output.TaskRecord, len(tasks))
		for i, t := range tasks {
			records[i] = output.NewTaskRecord(view.Position(numbers, t.ID), t, st.Categories)
		}
		if err := output.Encode(out, format, records); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	if header != "" {
		output.FormatHeader(out, header)
	}
	for _, t := range tasks {
		num := view.Position(numbers, t.ID)
		if c.long {
			output.FormatTaskLong(out, num, t, st.Categories)
		} else {
			output.FormatTask(out, num, t, st.Categories)
		}
	}
	if len(tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

