package ui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/app"
	"taskdeck/internal/form"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
	"taskdeck/internal/view"
)

type mode int

const (
	browsing mode = iota
	editing
	confirmingDelete
	addingCategory
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldCount
)

type (
	loadedMsg struct{ err error }
	savedMsg  struct{ err error }
	doneMsg   struct{ err error }
	stateMsg  struct{ state store.State }
	noticeMsg struct{ notice app.Notice }
	closedMsg struct{}
)

// Model is the bubbletea model for the task screen.
type Model struct {
	ctx     context.Context
	app     *app.App
	notices *app.NoticeQueue
	states  <-chan store.State
	stopped <-chan struct{}
	unwatch func()

	state   store.State
	form    *form.Controller
	inputs  []textinput.Model
	focus   int
	catName textinput.Model

	mode     mode
	cursor   int
	saving   bool
	loading  bool
	showHelp bool
	notice   app.Notice
	width    int
}

// NewModel creates a model over a. Call Close when done.
func NewModel(ctx context.Context, a *app.App, notices *app.NoticeQueue) *Model {
	states, stopped, unwatch := watch(a.Store())
	m := &Model{
		ctx:     ctx,
		app:     a,
		notices: notices,
		states:  states,
		stopped: stopped,
		unwatch: unwatch,
		state:   a.State(),
		form:    form.New(),
		loading: true,
	}

	m.inputs = make([]textinput.Model, fieldCount)
	for i, placeholder := range []string{"What needs doing?", "Optional details", "Category name"} {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 255
		in.Width = 40
		in.Prompt = ""
		m.inputs[i] = in
	}
	m.inputs[fieldTitle].CharLimit = 100

	m.catName = textinput.New()
	m.catName.Placeholder = "New category name"
	m.catName.CharLimit = 100
	m.catName.Width = 40
	m.catName.Prompt = ""
	return m
}

// Close stops watching the store.
func (m *Model) Close() {
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
}

// watch forwards store snapshots to a channel that holds only the latest.
// The returned stop function unsubscribes and closes the done channel.
func watch(s *store.Store) (<-chan store.State, <-chan struct{}, func()) {
	ch := make(chan store.State, 1)
	done := make(chan struct{})
	unsubscribe := s.Subscribe(func(st store.State) {
		for {
			select {
			case <-done:
				return
			default:
			}
			select {
			case ch <- st:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}
	return ch, done, stop
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd(), waitForState(m.states, m.stopped)}
	if m.notices != nil {
		cmds = append(cmds, waitForNotice(m.notices.C()))
	}
	return tea.Batch(cmds...)
}

func waitForState(ch <-chan store.State, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-ch:
			return stateMsg{state: st}
		case <-done:
			return closedMsg{}
		}
	}
}

func waitForNotice(ch <-chan app.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return noticeMsg{notice: n}
	}
}

func (m *Model) loadCmd() tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: a.Load(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case stateMsg:
		m.setState(msg.state)
		return m, waitForState(m.states, m.stopped)
	case noticeMsg:
		m.notice = msg.notice
		return m, waitForNotice(m.notices.C())
	case loadedMsg:
		m.loading = false
		m.setState(m.app.State())
		if msg.err != nil {
			m.showError(msg.err)
		}
		return m, nil
	case savedMsg:
		m.saving = false
		m.setState(m.app.State())
		if msg.err != nil {
			// The form stays open so the user can retry or cancel.
			m.showError(msg.err)
			return m, nil
		}
		m.closeForm()
		return m, nil
	case doneMsg:
		m.setState(m.app.State())
		if msg.err != nil {
			m.showError(msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case editing:
			return m.updateForm(msg)
		case confirmingDelete:
			return m.updateConfirm(msg)
		case addingCategory:
			return m.updateCategory(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "n", "a":
		m.form.OpenCreate()
		return m, m.openForm()
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.form.OpenEdit(t)
			return m, m.openForm()
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			id, _ := t.ID.ServerID()
			return m, m.toggleCmd(id)
		}
	case "d", "delete":
		if _, ok := m.selected(); ok {
			m.mode = confirmingDelete
		}
	case "f":
		m.app.SetFilter(m.nextFilter())
		m.setState(m.app.State())
	case "s":
		m.app.SetSort(m.state.Query.Direction.Toggle())
		m.setState(m.app.State())
	case "c":
		m.mode = addingCategory
		m.catName.Reset()
		return m, m.catName.Focus()
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "?", "h":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = browsing
		if t, ok := m.selected(); ok {
			id, _ := t.ID.ServerID()
			return m, m.deleteCmd(id)
		}
	case "n", "N", "esc", "q":
		m.mode = browsing
	}
	return m, nil
}

func (m *Model) updateCategory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.catName.Blur()
		return m, nil
	case "enter":
		name := m.catName.Value()
		m.mode = browsing
		m.catName.Blur()
		a, ctx := m.app, m.ctx
		return m, func() tea.Msg {
			_, err := a.CreateCategory(ctx, name)
			return doneMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.catName, cmd = m.catName.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit validates the form on the UI thread and sends the remote call in
// the background. A validation error keeps the form open and sends nothing.
func (m *Model) submit() tea.Cmd {
	m.form.Title = m.inputs[fieldTitle].Value()
	m.form.Description = m.inputs[fieldDescription].Value()
	m.form.Category = m.categoryInput()

	sub, err := m.form.Submit(m.state.Categories)
	if err != nil {
		m.showError(err)
		return nil
	}

	m.saving = true
	a, ctx := m.app, m.ctx
	if sub.Mode == form.Creating {
		return func() tea.Msg {
			_, err := a.Create(ctx, sub.Draft)
			return savedMsg{err: err}
		}
	}
	return func() tea.Msg {
		_, err := a.Update(ctx, sub.Task)
		return savedMsg{err: err}
	}
}

// categoryInput keeps the bound category when the field shows its
// unchanged label, so an id reference is not downgraded to a name.
func (m *Model) categoryInput() service.CategoryRef {
	name := strings.TrimSpace(m.inputs[fieldCategory].Value())
	if t, ok := m.form.Subject(); ok && name == t.Category.Label(m.state.Categories) {
		return t.Category
	}
	return service.CategoryByName(name)
}

func (m *Model) toggleCmd(id int64) tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		_, err := a.Toggle(ctx, id)
		return doneMsg{err: err}
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		return doneMsg{err: a.Delete(ctx, id)}
	}
}

func (m *Model) openForm() tea.Cmd {
	m.mode = editing
	m.inputs[fieldTitle].SetValue(m.form.Title)
	m.inputs[fieldDescription].SetValue(m.form.Description)
	m.inputs[fieldCategory].SetValue(m.form.Category.Label(m.state.Categories))
	return m.focusField(fieldTitle)
}

func (m *Model) closeForm() {
	m.form.Cancel()
	m.mode = browsing
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) nextFilter() view.Filter {
	cats := m.state.Categories
	cur, ok := m.state.Query.Filter.Category()
	if !ok {
		if len(cats) == 0 {
			return view.All
		}
		return view.ByCategory(cats[0])
	}
	for i, c := range cats {
		if c.ID == cur.ID && i+1 < len(cats) {
			return view.ByCategory(cats[i+1])
		}
	}
	return view.All
}

func (m *Model) setState(st store.State) {
	m.state = st
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) showError(err error) {
	m.notice = app.Notice{Level: app.Error, Message: err.Error()}
}

func (m *Model) visible() []service.Task {
	return m.state.Visible()
}

func (m *Model) selected() (service.Task, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return service.Task{}, false
	}
	return vis[m.cursor], true
}
