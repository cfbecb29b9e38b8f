// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"taskdeck/internal/app"
)

// ErrNotTerminal is returned by Run when output is not a terminal.
var ErrNotTerminal = errors.New("tui requires a terminal")

// Run starts the interface and blocks until the user quits or ctx is
// cancelled. notices may be nil.
func Run(ctx context.Context, a *app.App, notices *app.NoticeQueue, out io.Writer) error {
	if !IsTTY(out) {
		return ErrNotTerminal
	}

	m := NewModel(ctx, a, notices)
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
