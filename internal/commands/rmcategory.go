package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&RmCategoryCmd{})
}

// RmCategoryCmd implements the rmcategory command.
type RmCategoryCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmCategoryCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmCategoryCmd) Name() string       { return "rmcategory" }
func (c *RmCategoryCmd) Aliases() []string  { return nil }
func (c *RmCategoryCmd) Synopsis() string   { return "Delete a category" }
func (c *RmCategoryCmd) Usage() string      { return "taskdeck rmcategory [--force] <name>" }
func (c *RmCategoryCmd) NeedsService() bool { return true }

func (c *RmCategoryCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmCategoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: category name required")
		return exitcode.UserError
	}

	a := newApp(cfg, svc)
	if err := a.Load(ctx); err != nil {
		return report(errOut, err)
	}
	st := a.State()
	cat, ok := st.FindCategory(name)
	if !ok {
		fmt.Fprintf(errOut, "error: category not found: %s\n", name)
		return exitcode.UserError
	}

	// Tasks are detached by the service, not deleted.
	if !c.force && countTasks(st, cat) > 0 {
		fmt.Fprintln(errOut, "error: category not empty (use --force)")
		return exitcode.UserError
	}

	if err := a.DeleteCategory(ctx, cat.ID); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
