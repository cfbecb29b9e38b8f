package commands

import (
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/form"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
	"taskdeck/internal/view"
)

// newApp builds the orchestrator for one command run. The store starts
// with the configured sort direction so task numbers match `list`.
func newApp(cfg *config.Config, svc service.Service) *app.App {
	a := app.New(svc, app.WithLogger(cfg.Log()))
	if d, err := cfg.SortDirection(); err == nil {
		a.SetSort(d)
	}
	return a
}

// numbered returns the default projection used for task numbers.
func numbered(st store.State) []service.Task {
	return view.Project(st.Tasks, view.Query{Direction: st.Query.Direction})
}

// lookupTask resolves ref against the loaded collection.
func lookupTask(st store.State, ref TaskRef) (service.Task, error) {
	if ref.ID != 0 {
		t, ok := st.Find(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: #%d", ref.ID)
		}
		return t, nil
	}
	return view.Lookup(numbered(st), ref.Num)
}

// report prints err and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	var te *service.TransportError
	switch {
	case errors.As(err, &te):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	case errors.Is(err, form.ErrTitleRequired):
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}
