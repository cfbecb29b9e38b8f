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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdeck help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-24s %s\n", name, cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                         List tasks
  taskdeck list [common flags] [--category <name> | --category-id <id>]
                [--desc] [--long] [--format text|json|yaml]
  taskdeck add [common flags] [--category <name>] [--description <text>] <title...>
  taskdeck create [common flags] [--category <name>] [--description <text>] <title...>
  taskdeck edit [common flags] [--title <text>] [--description <text>] [--category <name>] <ref>
  taskdeck toggle [common flags] <ref>
  taskdeck done [common flags] <ref>
  taskdeck rm [common flags] <ref>
  taskdeck categories [common flags]
  taskdeck addcategory [common flags] <name>
  taskdeck createcategory [common flags] <name>
  taskdeck rmcategory [common flags] [--force] <name>
  taskdeck tui [common flags]
  taskdeck help
  taskdeck version

Task references:
  <n>              Task number as shown by list
  #<id>            Task id on the server

Common flags:
  --config <dir>   Override config directory
  --url <url>      Task service URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
