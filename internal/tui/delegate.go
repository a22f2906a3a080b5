package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// todoItem adapts model.Todo to bubbles/list.Item.
type todoItem struct {
	model.Todo
}

func (i todoItem) FilterValue() string { return i.Title }

// itemDelegate renders one todo per line. The row being edited shows the
// edit buffer instead of its title; Model keeps editingID and editView
// current before every list render.
type itemDelegate struct {
	editingID int64
	editView  string
}

func (d *itemDelegate) Height() int                               { return 1 }
func (d *itemDelegate) Spacing() int                              { return 0 }
func (d *itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d *itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	if it.IsCompleted {
		box = successStyle.Render(boxChecked)
	}

	text := todoTitleStyle(it.Todo).Render(it.Title)
	if d.editingID != 0 && it.ID == d.editingID {
		text = d.editView
	}
	id := mutedStyle.Render(fmt.Sprintf("#%d", it.ID))

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, box, text, id)
}
