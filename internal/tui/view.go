package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	loadingText = "Loading todos…"
	emptyText   = "No todos yet."
	savingText  = "Saving…"
)

func (m Model) View() string {
	sections := []string{m.headerView(), m.inputView()}
	if n := m.noticeView(); n != "" {
		sections = append(sections, n)
	}
	sections = append(sections, "", m.bodyView())
	if m.submitting {
		sections = append(sections, mutedStyle.Render(savingText))
	}
	return frameStyle.Render(strings.Join(sections, "\n"))
}

// headerView shows the title with live counts.
func (m Model) headerView() string {
	done, pending := model.Stats(m.todos)
	counts := fmt.Sprintf("%s %d  %s %d  %s",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render(fmt.Sprintf("%d total", len(m.todos))),
	)
	head := titleStyle.Render("Todos") + "   " + counts
	if len(m.todos) > 0 {
		head += "\n" + mutedStyle.Render(ui.ProgressBar(done, len(m.todos), 28))
	}
	return head
}

func (m Model) inputView() string {
	label := mutedStyle.Render("New todo (a)")
	if m.mode == modeAdding {
		label = accentStyle.Render("New todo")
	}
	return label + "\n" + m.input.View()
}

func (m Model) noticeView() string {
	if m.notice == nil {
		return ""
	}
	style := noticeSuccessStyle
	if m.notice.Kind == NoticeError {
		style = noticeErrorStyle
	}
	return style.Render(m.notice.Message)
}

func (m Model) bodyView() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + mutedStyle.Render(loadingText)
	case len(m.todos) == 0:
		return mutedStyle.Render(emptyText)
	}

	m.delegate.editingID = m.editingID
	m.delegate.editView = ""
	if m.mode == modeEditing {
		m.delegate.editView = lipgloss.NewStyle().Underline(true).Render(m.edit.View()) +
			"  " + helpStyle.Render("enter save · esc cancel · ctrl+d delete")
	}
	return m.list.View()
}
