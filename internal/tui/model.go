// Package tui is the interactive todo screen. It keeps a read copy of the
// remote list and pushes every change through an api.Service.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// lines used by header, input box, notice and footer
	chromeHeight = 9
)

// Notice messages.
const (
	msgLoadFailed   = "Could not load todos."
	msgEmptyCreate  = "Please enter a todo title."
	msgEmptyEdit    = "Please enter a title to save."
	msgCreated      = "Todo added."
	msgCreateFailed = "Could not add the todo."
	msgToggled      = "Status updated."
	msgToggleFailed = "Could not update the status."
	msgRenamed      = "Todo updated."
	msgRenameFailed = "Could not update the todo."
	msgDeleted      = "Todo deleted."
	msgDeleteFailed = "Could not delete the todo."
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the transient message shown after an action.
type Notice struct {
	Kind    NoticeKind
	Message string
}

type mode int

const (
	modeBrowse mode = iota
	modeAdding
	modeEditing
)

type op int

const (
	opCreate op = iota
	opToggle
	opRename
	opDelete
)

// todosLoadedMsg carries the result of a list fetch. Silent fetches leave
// the loading indicator alone; settle releases the submission gate.
type todosLoadedMsg struct {
	items  []model.Todo
	err    error
	silent bool
	settle bool
}

type mutationDoneMsg struct {
	op  op
	id  int64
	err error
}

// Options configure a Model.
type Options struct {
	Logger *log.Logger
}

// Model is the Bubble Tea model for the todo screen.
type Model struct {
	svc api.Service
	ctx context.Context
	log *log.Logger

	todos    []model.Todo
	list     list.Model
	delegate *itemDelegate
	spinner  spinner.Model
	input    textinput.Model // new todo title
	edit     textinput.Model // edit buffer
	keys     keyMap

	mode       mode
	editingID  int64
	loading    bool
	submitting bool
	notice     *Notice

	width, height int
}

// New returns a model that starts in the loading state. ctx bounds every
// request the model issues.
func New(ctx context.Context, svc api.Service, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	keys := defaultKeyMap()

	d := &itemDelegate{}
	l := list.New(nil, d, defaultWidth-4, defaultHeight-chromeHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = keys.listKeys
	l.AdditionalFullHelpKeys = keys.listKeys

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "New todo title..."
	in.CharLimit = model.MaxTitleLength

	ed := textinput.New()
	ed.Prompt = ""
	ed.Placeholder = "Edit todo title..."
	ed.CharLimit = model.MaxTitleLength

	return Model{
		svc:      svc,
		ctx:      ctx,
		log:      opts.Logger,
		list:     l,
		delegate: d,
		spinner:  sp,
		input:    in,
		edit:     ed,
		keys:     keys,
		loading:  true,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Run starts the program in the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, svc api.Service, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(false, false))
}

// Todos returns the list currently displayed.
func (m Model) Todos() []model.Todo { return m.todos }

// Notice returns the current notice, or nil.
func (m Model) Notice() *Notice { return m.notice }

// Loading reports whether the blocking load indicator is showing.
func (m Model) Loading() bool { return m.loading }

// Submitting reports whether a mutation is in flight.
func (m Model) Submitting() bool { return m.submitting }

// Editing returns the id being edited, or 0.
func (m Model) Editing() int64 { return m.editingID }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(max(msg.Width-4, 20), max(msg.Height-chromeHeight, 3))
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case todosLoadedMsg:
		return m.loaded(msg)

	case mutationDoneMsg:
		return m.mutated(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var listCmd, inputCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	// Cursor blinks belong to whichever input has focus.
	switch m.mode {
	case modeAdding:
		m.input, inputCmd = m.input.Update(msg)
	case modeEditing:
		m.edit, inputCmd = m.edit.Update(msg)
	}
	return m, tea.Batch(listCmd, inputCmd)
}

func (m Model) loaded(msg todosLoadedMsg) (tea.Model, tea.Cmd) {
	if !msg.silent {
		m.loading = false
	}
	if msg.settle {
		m.submitting = false
	}
	if msg.err != nil {
		m.log.Warn("load todos", "err", msg.err)
		m.setNotice(NoticeError, errorText(msg.err, msgLoadFailed))
		return m, nil
	}
	return m, m.setTodos(msg.items)
}

func (m Model) mutated(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.submitting = false
		m.log.Warn("mutation failed", "op", msg.op, "id", msg.id, "err", msg.err)
		fallback := map[op]string{
			opCreate: msgCreateFailed,
			opToggle: msgToggleFailed,
			opRename: msgRenameFailed,
			opDelete: msgDeleteFailed,
		}[msg.op]
		m.setNotice(NoticeError, errorText(msg.err, fallback))
		return m, nil
	}

	m.log.Debug("mutation done", "op", msg.op, "id", msg.id)
	switch msg.op {
	case opCreate:
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeBrowse
		m.setNotice(NoticeSuccess, msgCreated)
	case opToggle:
		m.setNotice(NoticeSuccess, msgToggled)
	case opRename:
		m.cancelEdit()
		m.setNotice(NoticeSuccess, msgRenamed)
	case opDelete:
		if m.editingID == msg.id {
			m.cancelEdit()
		}
		m.setNotice(NoticeSuccess, msgDeleted)
	}
	// The gate stays closed until the silent reload lands.
	return m, m.fetch(true, true)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeAdding:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submitCreate()
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeBrowse
			m.input.Blur()
			return m, nil
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeEditing:
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.saveEdit()
		case key.Matches(msg, m.keys.Cancel):
			m.cancelEdit()
			return m, nil
		case key.Matches(msg, m.keys.DeleteEditing):
			return m.deleteTodo(m.editingID)
		}
		m.edit, cmd = m.edit.Update(msg)
		return m, cmd
	}

	// Typing into the list filter.
	if m.list.FilterState() == list.Filtering {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdding
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m.deleteTodo(t.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetch(false, false))
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	title, err := model.NormalizeTitle(m.input.Value())
	if err != nil {
		m.setNotice(NoticeError, validationText(err, msgEmptyCreate))
		return m, nil
	}
	m.submitting = true
	return m, m.mutate(opCreate, 0, func(ctx context.Context, svc api.Service) error {
		_, err := svc.CreateTodo(ctx, title)
		return err
	})
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.submitting = true
	patch := model.CompleteAs(!t.IsCompleted)
	return m, m.mutate(opToggle, t.ID, func(ctx context.Context, svc api.Service) error {
		_, err := svc.UpdateTodo(ctx, t.ID, patch)
		return err
	})
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.mode = modeEditing
	m.editingID = t.ID
	m.edit.SetValue(t.Title)
	m.edit.CursorEnd()
	m.notice = nil
	return m, m.edit.Focus()
}

func (m *Model) cancelEdit() {
	m.mode = modeBrowse
	m.editingID = 0
	m.edit.SetValue("")
	m.edit.Blur()
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	title, err := model.NormalizeTitle(m.edit.Value())
	if err != nil {
		m.setNotice(NoticeError, validationText(err, msgEmptyEdit))
		return m, nil
	}
	m.submitting = true
	id := m.editingID
	return m, m.mutate(opRename, id, func(ctx context.Context, svc api.Service) error {
		_, err := svc.UpdateTodo(ctx, id, model.RenameTo(title))
		return err
	})
}

func (m Model) deleteTodo(id int64) (tea.Model, tea.Cmd) {
	m.submitting = true
	return m, m.mutate(opDelete, id, func(ctx context.Context, svc api.Service) error {
		_, err := svc.DeleteTodo(ctx, id)
		return err
	})
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.Todo, true
}

func (m *Model) setTodos(items []model.Todo) tea.Cmd {
	m.todos = items
	li := make([]list.Item, 0, len(items))
	for _, t := range items {
		li = append(li, todoItem{Todo: t})
	}
	return m.list.SetItems(li)
}

func (m *Model) setNotice(kind NoticeKind, message string) {
	m.notice = &Notice{Kind: kind, Message: message}
}

func (m Model) fetch(silent, settle bool) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		items, err := svc.FetchTodos(ctx)
		return todosLoadedMsg{items: items, err: err, silent: silent, settle: settle}
	}
}

func (m Model) mutate(o op, id int64, call func(context.Context, api.Service) error) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{op: o, id: id, err: call(ctx, svc)}
	}
}

func errorText(err error, fallback string) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func validationText(err error, emptyMsg string) string {
	if errors.Is(err, model.ErrTitleTooLong) {
		return fmt.Sprintf("Titles can be at most %d characters.", model.MaxTitleLength)
	}
	return emptyMsg
}

func (o op) String() string {
	switch o {
	case opCreate:
		return "create"
	case opToggle:
		return "toggle"
	case opRename:
		return "rename"
	case opDelete:
		return "delete"
	}
	return "unknown"
}
