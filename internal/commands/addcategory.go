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
	Register(&AddCategoryCmd{})
	Register(&CreateCategoryCmd{})
}

// AddCategoryCmd implements the addcategory command.
type AddCategoryCmd struct{}

func (c *AddCategoryCmd) Name() string       { return "addcategory" }
func (c *AddCategoryCmd) Aliases() []string  { return nil }
func (c *AddCategoryCmd) Synopsis() string   { return "Create a category" }
func (c *AddCategoryCmd) Usage() string      { return "taskdeck addcategory [common flags] <name>" }
func (c *AddCategoryCmd) NeedsService() bool { return true }

func (c *AddCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCategoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAddCategory(ctx, cfg, svc, args, out, errOut)
}

// CreateCategoryCmd is an alias for AddCategoryCmd.
type CreateCategoryCmd struct{}

func (c *CreateCategoryCmd) Name() string       { return "createcategory" }
func (c *CreateCategoryCmd) Aliases() []string  { return nil }
func (c *CreateCategoryCmd) Synopsis() string   { return "Create a category (alias for addcategory)" }
func (c *CreateCategoryCmd) Usage() string      { return "taskdeck createcategory [common flags] <name>" }
func (c *CreateCategoryCmd) NeedsService() bool { return true }

func (c *CreateCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateCategoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAddCategory(ctx, cfg, svc, args, out, errOut)
}

func runAddCategory(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: category name required")
		return exitcode.UserError
	}

	a := newApp(cfg, svc)
	if err := a.Load(ctx); err != nil {
		return report(errOut, err)
	}
	if _, ok := a.State().FindCategory(name); ok {
		fmt.Fprintf(errOut, "error: category already exists: %s\n", name)
		return exitcode.UserError
	}

	if _, err := a.CreateCategory(ctx, name); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
