package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool   // list grouped by pending/done
	Addr  string // default listen address for serve
}

// Runner dispatches subcommands against a todo service.
type Runner struct {
	Service api.Service
	Printer *ui.Printer
	Options Options

	// Interactive starts the full-screen list.
	Interactive func(ctx context.Context) error
	// Serve runs the reference API server until ctx is done.
	Serve func(ctx context.Context, addr string) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return r.doInteractive(ctx)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Printer.Out)
		return 0

	case "tui", "ui":
		return r.doInteractive(ctx)

	case "ls":
		return r.doList(ctx)

	case "add":
		if len(a) == 0 {
			r.Printer.Fail("usage: tada add <title...>")
			return 2
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			r.Printer.Fail("usage: tada done <id>")
			return 2
		}
		id, ok := r.parseID("done", a[0])
		if !ok {
			return 2
		}
		return r.doToggle(ctx, id)

	case "edit":
		if len(a) < 2 {
			r.Printer.Fail("usage: tada edit <id> <title...>")
			return 2
		}
		id, ok := r.parseID("edit", a[0])
		if !ok {
			return 2
		}
		return r.doEdit(ctx, id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			r.Printer.Fail("usage: tada rm <id>")
			return 2
		}
		id, ok := r.parseID("rm", a[0])
		if !ok {
			return 2
		}
		return r.doRemove(ctx, id)

	case "serve":
		return r.doServe(ctx, a)
	}

	r.Printer.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.Printer.Err)
	PrintHelp(r.Printer.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `tada - a client for a remote todo list

Usage:
  tada [flags] [subcommand] [args]

Subcommands:
  (none), tui            Open the interactive list
  ls                     Print the list
  add <title...>         Add a new todo (title can be multiple words)
  done <id>              Toggle completion of todo <id>
  edit <id> <title...>   Rename todo <id>
  rm <id>                Delete todo <id>
  serve [-addr :8000]    Run an in-memory API server for local use

Flags:
  -api URL               API base URL (default http://localhost:8000/api/v1, env TADA_API_URL)
  -timeout 10s           Per-request timeout
  -theme NAME            classic, neon or mono
  -group                 Group ls output by pending/done
  -log-file PATH         Append logs to PATH
  -debug                 Log at debug level
  -color, -no-color      Force or disable colored output

Examples:
  tada add "Buy milk"
  tada ls
  tada done 2
  tada edit 2 "Buy oat milk"
  tada rm 3
`)
}

func (r *Runner) parseID(cmd, s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		r.Printer.Fail(cmd + ": not a todo id: " + s)
		return 0, false
	}
	return id, true
}

// -------------- subcommand impls ----------------

func (r *Runner) doInteractive(ctx context.Context) int {
	if r.Interactive == nil {
		r.Printer.Fail("interactive mode is not available")
		return 1
	}
	if err := r.Interactive(ctx); err != nil {
		r.Printer.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *Runner) doList(ctx context.Context) int {
	items, err := r.Service.FetchTodos(ctx)
	if err != nil {
		r.Printer.Fail("ls: " + err.Error())
		return 1
	}

	p, t := r.Printer, r.Printer.Theme()
	d, pending := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.C(t.Title, "Todos"),
		p.C(t.Success, t.SymDone), d,
		p.C(t.Pending, t.SymUnchecked), pending,
		p.C(t.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, p.C(t.Muted, ui.ProgressBar(d, d+pending, 28)))
	lines = append(lines, "")

	if r.Options.Group {
		lines = append(lines, r.groupLines(items)...)
	} else {
		lines = append(lines, r.flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, p.C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	p.Panel(lines)
	return 0
}

func (r *Runner) doAdd(ctx context.Context, title string) int {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		r.Printer.Fail("add: " + err.Error())
		return 2
	}
	t, err := r.Service.CreateTodo(ctx, title)
	if err != nil {
		r.Printer.Fail("add: " + err.Error())
		return 1
	}
	r.Printer.OK(fmt.Sprintf("added #%d", t.ID))
	return 0
}

func (r *Runner) doToggle(ctx context.Context, id int64) int {
	items, err := r.Service.FetchTodos(ctx)
	if err != nil {
		r.Printer.Fail("done: " + err.Error())
		return 1
	}
	cur, ok := findTodo(items, id)
	if !ok {
		r.notFound(id)
		return 2
	}
	t, err := r.Service.UpdateTodo(ctx, id, model.CompleteAs(!cur.IsCompleted))
	if err != nil {
		r.Printer.Fail("done: " + err.Error())
		return 1
	}
	if t.IsCompleted {
		r.Printer.OK(fmt.Sprintf("completed #%d", id))
	} else {
		r.Printer.OK(fmt.Sprintf("reopened #%d", id))
	}
	return 0
}

func (r *Runner) doEdit(ctx context.Context, id int64, title string) int {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		r.Printer.Fail("edit: " + err.Error())
		return 2
	}
	if _, err := r.Service.UpdateTodo(ctx, id, model.RenameTo(title)); err != nil {
		r.Printer.Fail("edit: " + err.Error())
		return 1
	}
	r.Printer.OK(fmt.Sprintf("renamed #%d", id))
	return 0
}

func (r *Runner) doRemove(ctx context.Context, id int64) int {
	deleted, err := r.Service.DeleteTodo(ctx, id)
	if err != nil {
		r.Printer.Fail("rm: " + err.Error())
		return 1
	}
	r.Printer.OK(fmt.Sprintf("removed #%d", deleted))
	return 0
}

func (r *Runner) doServe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(r.Printer.Err)
	addr := fs.String("addr", r.Options.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if r.Serve == nil {
		r.Printer.Fail("serve is not available")
		return 1
	}
	if err := r.Serve(ctx, *addr); err != nil {
		r.Printer.Fail("serve: " + err.Error())
		return 1
	}
	return 0
}

func (r *Runner) notFound(id int64) {
	r.Printer.Fail(fmt.Sprintf("no todo with id %d", id))
	r.Printer.Hint("run `tada ls` to see valid ids")
}

// -------------- rendering helpers --------------

const maxTitleCells = 80

func findTodo(items []model.Todo, id int64) (model.Todo, bool) {
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

func (r *Runner) flatLines(items []model.Todo) []string {
	p, t := r.Printer, r.Printer.Theme()
	if len(items) == 0 {
		return []string{p.C(t.Muted, "no todos")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("#%-3d", it.ID)
		box := t.BoxUnchecked
		color := t.Muted
		if it.IsCompleted {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s", p.Dim(idx), p.C(color, box), ui.Truncate(it.Title, maxTitleCells)))
	}
	return out
}

func (r *Runner) groupLines(items []model.Todo) []string {
	p, t := r.Printer, r.Printer.Theme()
	var pend, done []model.Todo
	for _, it := range items {
		if it.IsCompleted {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, p.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, r.flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, p.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, r.flatLines(done)...)
	}
	return lines
}
