// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args: list tasks.
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	// Flags require a command first.
	name := args[0]
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, name, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(name)
	if !ok {
		if hint := d.registry.Suggest(name); hint != "" {
			fmt.Fprintf(errOut, "error: unknown command: %s (did you mean %s?)\n", name, hint)
		} else {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		}
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var (
		configDir string
		baseURL   string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&baseURL, "url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading dash after parsing means a flag appeared after a positional.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	cfg.Logger = logging.FromConfig(errOut, level, cfg.LogFormat, config.AppName, false)

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.BackendError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: config error: %v\n", err)
			return exitcode.ConfigError
		}
	}

	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "args", positional, "url", cfg.BaseURL)
	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		return "flag needs an argument: " + name
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
		return "unknown flag: " + name
	default:
		return msg
	}
}
