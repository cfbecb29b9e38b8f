package ui

import (
	"fmt"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/form"
	"taskdeck/internal/view"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString("\n")
	b.WriteString(barStyle.Render(m.statusBar()))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(helpText)
		return b.String()
	}

	m.writeTasks(&b)

	switch m.mode {
	case editing:
		b.WriteString("\n")
		b.WriteString(m.formView())
		b.WriteString("\n")
	case confirmingDelete:
		if t, ok := m.selected(); ok {
			fmt.Fprintf(&b, "\nDelete %q? (y/n)\n", t.Title)
		}
	case addingCategory:
		b.WriteString("\n")
		b.WriteString(dialogStyle.Render(titleStyle.Render("New category") + "\n\n" +
			m.catName.View() + "\n\n" + helpStyle.Render("enter: create • esc: cancel")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.noticeLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("n new • e edit • space toggle • d delete • f filter • s sort • c category • r reload • ? help • q quit"))
	return b.String()
}

func (m *Model) statusBar() string {
	filter := "All"
	if c, ok := m.state.Query.Filter.Category(); ok {
		filter = c.Name
	}
	order := "oldest first"
	if m.state.Query.Direction == view.Descending {
		order = "newest first"
	}
	return fmt.Sprintf("Category: %s │ Sort: %s │ %d of %d tasks",
		filter, order, len(m.visible()), len(m.state.Tasks))
}

func (m *Model) writeTasks(b *strings.Builder) {
	if m.loading && len(m.state.Tasks) == 0 {
		b.WriteString("Loading...\n")
		return
	}
	vis := m.visible()
	if len(vis) == 0 {
		b.WriteString(helpStyle.Render("No tasks. Press n to add one."))
		b.WriteString("\n")
		return
	}
	for i, t := range vis {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		title := t.Title
		switch {
		case t.Completed:
			title = doneStyle.Render(title)
		case i == m.cursor:
			title = selectedStyle.Render(title)
		}
		line := cursor + mark + " " + title
		if id, ok := t.ID.ServerID(); ok && m.state.IsPending(id) {
			line += pendingStyle.Render(" (saving)")
		}
		if label := t.Category.Label(m.state.Categories); label != "" {
			line += "  " + categoryStyle.Render("@"+label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) formView() string {
	heading := "New task"
	if m.form.Mode() == form.Editing {
		heading = "Edit task"
	}
	labels := []string{"Title", "Description", "Category"}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := labels[i]
		if i == m.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.saving {
		b.WriteString(pendingStyle.Render("Saving..."))
	} else {
		b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: cancel"))
	}
	return dialogStyle.Render(b.String())
}

func (m *Model) noticeLine() string {
	if m.notice.Message == "" {
		return ""
	}
	if m.notice.Level == app.Error {
		return errorStyle.Render("✗ " + m.notice.Message)
	}
	return infoStyle.Render("✓ " + m.notice.Message)
}

const helpText = `Keys
  j/k, up/down   move
  n, a           new task
  e, enter       edit task
  space, x       toggle completed
  d              delete task (asks first)
  f              cycle category filter
  s              flip sort order
  c              new category
  r              reload from server
  ?              close help
  q              quit
`
