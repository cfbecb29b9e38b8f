package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string       { return "categories" }
func (c *CategoriesCmd) Aliases() []string  { return []string{"cats"} }
func (c *CategoriesCmd) Synopsis() string   { return "Print all categories" }
func (c *CategoriesCmd) Usage() string      { return "taskdeck categories [common flags]" }
func (c *CategoriesCmd) NeedsService() bool { return true }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	a := newApp(cfg, svc)
	if err := a.Load(ctx); err != nil {
		return report(errOut, err)
	}
	st := a.State()

	for _, cat := range st.Categories {
		output.FormatCategory(out, cat, countTasks(st, cat))
	}
	if len(st.Categories) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no categories found")
	}
	return exitcode.Success
}

func countTasks(st store.State, cat service.Category) int {
	n := 0
	for _, t := range st.Tasks {
		if t.Category.Matches(cat) {
			n++
		}
	}
	return n
}
