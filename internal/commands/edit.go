package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/form"
	"taskdeck/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that records whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
	category    optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(s string) { c.title.Set(s) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(s string) { c.description.Set(s) }

// SetCategory sets the new category name (for testing).
func (c *EditCmd) SetCategory(s string) { c.category.Set(s) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <text>] [--description <text>] [--category <name>] <ref>"
}
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set && !c.category.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --description or --category)")
		return exitcode.UserError
	}

	a := newApp(cfg, svc)
	if err := a.Load(ctx); err != nil {
		return report(errOut, err)
	}
	st := a.State()
	task, err := lookupTask(st, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	f := form.New()
	f.OpenEdit(task)
	if c.title.set {
		f.Title = c.title.value
	}
	if c.description.set {
		f.Description = c.description.value
	}
	if c.category.set {
		name := strings.TrimSpace(c.category.value)
		if name == "" {
			fmt.Fprintln(errOut, "error: category name required")
			return exitcode.UserError
		}
		if _, ok := st.FindCategory(name); !ok {
			fmt.Fprintf(errOut, "error: category not found: %s\n", name)
			return exitcode.UserError
		}
		f.Category = service.CategoryByName(name)
	}

	if _, err := a.Submit(ctx, f); err != nil {
		return report(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
