package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/shoplist/internal/item"
	"github.com/five82/shoplist/internal/logtail"
)

// dateLayout is a medium date with a short time.
const dateLayout = "Jan 2, 2006 at 3:04 PM"

const defaultLogLines = 50

// List is the part of the shopping list manager the subcommands use.
type List interface {
	Ready(ctx context.Context) error
	Items() []item.Item
	AddName(ctx context.Context, name string) (item.Item, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Rename(ctx context.Context, id uuid.UUID, name string) error
	ToggleOnCart(ctx context.Context, id uuid.UUID) error
	Flush(ctx context.Context) error
}

// Clearer wipes the stored list.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Options wire the subcommands to the list and to output.
type Options struct {
	List     List
	Store    Clearer
	Stdout   io.Writer
	Stderr   io.Writer
	Location *time.Location
	LogFile  string
}

// NeedsList reports whether subcommand name reads or changes the list.
// Run may be given Options without List and Store for any other name.
func NeedsList(name string) bool {
	switch name {
	case "ls", "add", "done", "rm", "rename", "clear":
		return true
	}
	return false
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	r := runner{opts: opts, p: newPrinter(opts.Stdout, opts.Stderr)}

	if len(args) == 0 {
		r.printHelp(opts.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.printHelp(opts.Stdout)
		return 0

	case "ls":
		return r.withList(ctx, r.doList)

	case "add":
		if len(a) == 0 {
			r.p.fail("usage: shoplist add <name...>")
			return 2
		}
		name := strings.Join(a, " ")
		return r.withList(ctx, func(ctx context.Context) int { return r.doAdd(ctx, name) })

	case "done", "rm":
		if len(a) != 1 {
			r.p.fail(fmt.Sprintf("usage: shoplist %s <n>", cmd))
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.p.fail(cmd + ": not a number: " + a[0])
			return 2
		}
		if cmd == "done" {
			return r.withList(ctx, func(ctx context.Context) int { return r.doToggle(ctx, n) })
		}
		return r.withList(ctx, func(ctx context.Context) int { return r.doRemove(ctx, n) })

	case "rename":
		if len(a) < 2 {
			r.p.fail("usage: shoplist rename <n> <name...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.p.fail("rename: not a number: " + a[0])
			return 2
		}
		name := strings.Join(a[1:], " ")
		return r.withList(ctx, func(ctx context.Context) int { return r.doRename(ctx, n, name) })

	case "clear":
		return r.doClear(ctx)

	case "log":
		n := defaultLogLines
		if len(a) > 1 {
			r.p.fail("usage: shoplist log [n]")
			return 2
		}
		if len(a) == 1 {
			v, err := strconv.Atoi(a[0])
			if err != nil {
				r.p.fail("log: not a number: " + a[0])
				return 2
			}
			n = v
		}
		return r.doLog(n)
	}

	r.p.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opts.Stderr)
	r.printHelp(opts.Stderr)
	return 2
}

type runner struct {
	opts Options
	p    printer
}

func (r runner) printHelp(w io.Writer) {
	fmt.Fprint(w, `shoplist - a shopping list for the terminal

Usage:
  shoplist [flags]                  Open the interactive list
  shoplist [flags] <subcommand> [args]

Subcommands:
  add <name...>        Add an item (name can be multiple words)
  ls                   List items; numbers are used by the commands below
  done <n>             Move item n to or from the cart
  rm <n>               Remove item n
  rename <n> <name...> Rename item n
  clear                Remove every item
  log [n]              Show the last n log lines (default 50, 0 for all)

Examples:
  shoplist add Oat milk
  shoplist ls
  shoplist done 2
`)
}

// withList waits for the stored list before running fn.
func (r runner) withList(ctx context.Context, fn func(context.Context) int) int {
	if err := r.opts.List.Ready(ctx); err != nil {
		r.p.fail("load: " + err.Error())
		return 1
	}
	return fn(ctx)
}

// settle waits for queued saves so the change is on disk before exit.
func (r runner) settle(ctx context.Context, done string) int {
	if err := r.opts.List.Flush(ctx); err != nil {
		r.p.fail("save: " + err.Error())
		return 1
	}
	r.p.ok(done)
	return 0
}

// -------------- subcommand impls ----------------

func (r runner) doList(context.Context) int {
	rows := ordered(r.opts.List.Items())
	p := r.p

	pending := 0
	for _, it := range rows {
		if !it.OnCart {
			pending++
		}
	}
	fmt.Fprintf(r.opts.Stdout, "%s  %d to buy  %d on cart\n",
		p.titleStyle.Render("Shopping List"), pending, len(rows)-pending)

	if len(rows) == 0 {
		fmt.Fprintln(r.opts.Stdout, p.mutedStyle.Render("Your list is empty. Tip: shoplist add Milk"))
		return 0
	}

	for idx, it := range rows {
		if idx == pending {
			fmt.Fprintln(r.opts.Stdout, p.titleStyle.Render("On Cart"))
		}
		check, name := "[ ]", it.Name
		if it.OnCart {
			check, name = "[x]", p.doneStyle.Render(it.Name)
		}
		date := p.mutedStyle.Render(it.CreatedAt.In(r.opts.Location).Format(dateLayout))
		fmt.Fprintf(r.opts.Stdout, "%3d. %s %s  %s\n", idx+1, check, name, date)
	}
	return 0
}

func (r runner) doAdd(ctx context.Context, name string) int {
	it, err := r.opts.List.AddName(ctx, name)
	if errors.Is(err, item.ErrBlankName) {
		r.p.fail("add: empty name")
		return 2
	}
	if err != nil {
		r.p.fail("add: " + err.Error())
		return 1
	}
	return r.settle(ctx, "added "+it.Name)
}

func (r runner) doToggle(ctx context.Context, n int) int {
	it, ok := r.pick(n)
	if !ok {
		return 2
	}
	if err := r.opts.List.ToggleOnCart(ctx, it.ID); err != nil {
		r.p.fail("done: " + err.Error())
		return 1
	}
	msg := "moved " + it.Name + " to the cart"
	if it.OnCart {
		msg = "moved " + it.Name + " back to the list"
	}
	return r.settle(ctx, msg)
}

func (r runner) doRemove(ctx context.Context, n int) int {
	it, ok := r.pick(n)
	if !ok {
		return 2
	}
	if err := r.opts.List.Remove(ctx, it.ID); err != nil {
		r.p.fail("rm: " + err.Error())
		return 1
	}
	return r.settle(ctx, "removed "+it.Name)
}

func (r runner) doRename(ctx context.Context, n int, name string) int {
	it, ok := r.pick(n)
	if !ok {
		return 2
	}
	err := r.opts.List.Rename(ctx, it.ID, name)
	if errors.Is(err, item.ErrBlankName) {
		r.p.fail("rename: empty name")
		return 2
	}
	if err != nil {
		r.p.fail("rename: " + err.Error())
		return 1
	}
	return r.settle(ctx, "renamed "+it.Name)
}

func (r runner) doClear(ctx context.Context) int {
	if err := r.opts.Store.Clear(ctx); err != nil {
		r.p.fail("clear: " + err.Error())
		return 1
	}
	r.p.ok("cleared")
	return 0
}

func (r runner) doLog(n int) int {
	if r.opts.LogFile == "" {
		r.p.fail("log: no log file configured")
		return 1
	}
	lines, err := logtail.Tail(r.opts.LogFile, n)
	if err != nil {
		r.p.fail("log: " + err.Error())
		return 1
	}
	if len(lines) == 0 {
		fmt.Fprintln(r.opts.Stdout, r.p.mutedStyle.Render("No log entries in "+r.opts.LogFile))
		return 0
	}
	for _, line := range lines {
		e := logtail.Parse(line)
		if e.Stamp == "" {
			fmt.Fprintln(r.opts.Stdout, e.Message)
			continue
		}
		fmt.Fprintln(r.opts.Stdout, r.p.mutedStyle.Render(e.Stamp)+" "+e.Message)
	}
	return 0
}

// pick resolves a 1-based index in ls order.
func (r runner) pick(n int) (item.Item, bool) {
	rows := ordered(r.opts.List.Items())
	if n < 1 || n > len(rows) {
		r.p.fail(fmt.Sprintf("index out of range: have %d, got %d", len(rows), n))
		r.p.hint("Hint: run `shoplist ls` to see valid numbers")
		return item.Item{}, false
	}
	return rows[n-1], true
}

func ordered(items []item.Item) []item.Item {
	pending, onCart := item.Split(items)
	return append(pending, onCart...)
}
