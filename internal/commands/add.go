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
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// taskFlags are the fields shared by add and create.
type taskFlags struct {
	description string
	category    string
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.description, "description", "", "")
	fs.StringVar(&f.description, "d", "", "")
	fs.StringVar(&f.category, "category", "", "")
	fs.StringVar(&f.category, "c", "", "")
}

// AddCmd implements the add command.
type AddCmd struct {
	taskFlags
}

// SetCategory sets the category name (for testing).
func (c *AddCmd) SetCategory(name string) {
	c.category = name
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskdeck add [--category <name>] [--description <text>] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.taskFlags, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	taskFlags
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string {
	return "taskdeck create [--category <name>] [--description <text>] <title...>"
}
func (c *CreateCmd) NeedsService() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) { c.register(fs) }

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.taskFlags, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, flags taskFlags, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	a := newApp(cfg, svc)
	f := form.New()
	f.OpenCreate()
	f.Title = title
	f.Description = flags.description

	if name := strings.TrimSpace(flags.category); name != "" {
		if err := a.Load(ctx); err != nil {
			return report(errOut, err)
		}
		if _, ok := a.State().FindCategory(name); !ok {
			fmt.Fprintf(errOut, "error: category not found: %s\n", name)
			return exitcode.UserError
		}
		f.Category = service.CategoryByName(name)
	}

	task, err := a.Submit(ctx, f)
	if err != nil {
		return report(errOut, err)
	}
	cfg.Log().Debug("created", "id", task.ID)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
