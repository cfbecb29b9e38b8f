package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
	"taskdeck/internal/ui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the tui command.
type TUICmd struct{}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return []string{"ui"} }
func (c *TUICmd) Synopsis() string   { return "Open the interactive task screen" }
func (c *TUICmd) Usage() string      { return "taskdeck tui [common flags]" }
func (c *TUICmd) NeedsService() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected arguments: %v\n", args)
		return exitcode.UserError
	}

	// Log lines would tear the alternate screen, so they are only kept
	// with --debug.
	logger := logging.Discard()
	if cfg.Debug {
		logger = cfg.Log()
	}

	notices := app.NewNoticeQueue(16)
	a := app.New(svc, app.WithLogger(logger), app.WithNotifier(notices))
	if d, err := cfg.SortDirection(); err == nil {
		a.SetSort(d)
	}

	if err := ui.Run(ctx, a, notices, out); err != nil {
		if errors.Is(err, ui.ErrNotTerminal) {
			fmt.Fprintln(errOut, "error: tui requires a terminal (use list)")
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
