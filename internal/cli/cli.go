// Package cli is an interactive terminal client for the tasks API. The
// server stays the source of truth: after create, toggle, and edit the full
// list is re-fetched; only delete removes locally.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"studyplanner/internal/client"
	"studyplanner/internal/tasks"
)

const (
	ExitSuccess    = 0
	ExitUsageError = 2
)

const defaultAPIBaseURL = "http://localhost:8080"

type InvocationError struct {
	Message  string
	ExitCode int
}

func (e *InvocationError) Error() string { return e.Message }

type Invocation struct {
	APIBaseURL string
}

// ParseInvocation canonicalizes CLI inputs before any client logic runs.
// The base URL comes from --api, then PLANNER_API_URL, then the default.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	api := fs.String("api", "", "base URL of the tasks API")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, &InvocationError{
			Message:  "usage: planner [--api URL]",
			ExitCode: ExitUsageError,
		}
	}

	base := strings.TrimSpace(*api)
	if base == "" {
		base = strings.TrimSpace(os.Getenv("PLANNER_API_URL"))
	}
	if base == "" {
		base = defaultAPIBaseURL
	}
	return Invocation{APIBaseURL: base}, nil
}

func Run(ctx context.Context, inv Invocation, in io.Reader, out, errOut io.Writer) int {
	app := &App{
		api:    client.New(inv.APIBaseURL),
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
	}
	return app.run(ctx)
}

// App holds the rendered list as plain local UI state, replaced wholesale
// on each fetch.
type App struct {
	api    *client.Client
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
	tasks  []tasks.Task
}

func (a *App) run(ctx context.Context) int {
	a.reload(ctx)

	for {
		a.render()
		fmt.Fprint(a.out, "[a]dd  [t]oggle ID  [e]dit ID  [d]elete ID  [r]efresh  [q]uit\n> ")

		line, ok := a.readLine()
		if !ok {
			return ExitSuccess
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return ExitSuccess
		case "r", "refresh":
			a.reload(ctx)
		case "a", "add":
			a.add(ctx)
		case "t", "toggle":
			if id, ok := a.parseID(arg); ok {
				a.toggle(ctx, id)
			}
		case "e", "edit":
			if id, ok := a.parseID(arg); ok {
				a.edit(ctx, id)
			}
		case "d", "delete":
			if id, ok := a.parseID(arg); ok {
				a.remove(ctx, id)
			}
		default:
			fmt.Fprintf(a.errOut, "unknown command %q\n", cmd)
		}
	}
}

// reload fetches the full list; on failure the prior state stays on screen.
func (a *App) reload(ctx context.Context) {
	list, err := a.api.List(ctx)
	if err != nil {
		fmt.Fprintf(a.errOut, "fetch tasks: %v\n", err)
		return
	}
	a.tasks = list
}

func (a *App) render() {
	fmt.Fprintln(a.out)
	if len(a.tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks yet. Add one!")
		return
	}
	for _, t := range a.tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(a.out, "%s %d. %s\n", box, t.ID, t.Title)
		if t.Notes != nil {
			fmt.Fprintf(a.out, "       %s\n", *t.Notes)
		}
		if t.DueDate != nil {
			fmt.Fprintf(a.out, "       Due: %s\n", t.DueDate)
		}
	}
}

// add blocks the request entirely when the trimmed title is empty.
func (a *App) add(ctx context.Context) {
	title := strings.TrimSpace(a.prompt("Title: "))
	if title == "" {
		fmt.Fprintln(a.errOut, "Title required")
		return
	}

	var due *tasks.Date
	if raw := strings.TrimSpace(a.prompt("Due date (YYYY-MM-DD, blank for none): ")); raw != "" {
		d, err := tasks.ParseDate(raw)
		if err != nil {
			fmt.Fprintf(a.errOut, "%v\n", err)
			return
		}
		due = &d
	}

	var notes *string
	if raw := strings.TrimSpace(a.prompt("Notes (blank for none): ")); raw != "" {
		notes = &raw
	}

	if _, err := a.api.Create(ctx, client.CreateRequest{Title: title, Notes: notes, DueDate: due}); err != nil {
		fmt.Fprintf(a.errOut, "create task: %v\n", err)
		return
	}
	a.reload(ctx)
}

// toggle sends the full task back with completed inverted, then re-fetches
// rather than trusting the single-row response.
func (a *App) toggle(ctx context.Context, id int64) {
	t, ok := a.find(id)
	if !ok {
		fmt.Fprintf(a.errOut, "no task with id %d\n", id)
		return
	}
	t.Completed = !t.Completed
	if _, err := a.api.Replace(ctx, t); err != nil {
		fmt.Fprintf(a.errOut, "update task: %v\n", err)
		return
	}
	a.reload(ctx)
}

// edit prompts for a new title; a blank line cancels and sends nothing.
func (a *App) edit(ctx context.Context, id int64) {
	t, ok := a.find(id)
	if !ok {
		fmt.Fprintf(a.errOut, "no task with id %d\n", id)
		return
	}
	title := a.prompt("New title (blank to cancel): ")
	if strings.TrimSpace(title) == "" {
		return
	}
	t.Title = title
	if _, err := a.api.Replace(ctx, t); err != nil {
		fmt.Fprintf(a.errOut, "update task: %v\n", err)
		return
	}
	a.reload(ctx)
}

// remove confirms, deletes, then drops the task from local state by id
// instead of re-fetching.
func (a *App) remove(ctx context.Context, id int64) {
	answer := strings.ToLower(strings.TrimSpace(a.prompt("Delete this task? [y/N]: ")))
	if answer != "y" && answer != "yes" {
		return
	}
	if err := a.api.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.errOut, "delete task: %v\n", err)
		return
	}
	kept := a.tasks[:0]
	for _, t := range a.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	a.tasks = kept
}

func (a *App) find(id int64) (tasks.Task, bool) {
	for _, t := range a.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return tasks.Task{}, false
}

func (a *App) parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		fmt.Fprintf(a.errOut, "expected a task id, got %q\n", arg)
		return 0, false
	}
	return id, true
}

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	line, _ := a.readLine()
	return line
}

func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}
