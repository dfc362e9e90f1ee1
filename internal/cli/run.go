// Package cli wires the oats log store, render engine and home resolver
// into the command surface listed in spec §6. It is a thin layer: every
// command opens a store, calls one or two pkg/oatslog functions, and
// prints. None of the domain logic lives here.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kalscium/oats/internal/home"
	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
	"github.com/kalscium/oats/pkg/oatslog/render"
)

// Run is the CLI's entry point. It returns a process exit code rather
// than calling os.Exit itself so cmd/oats/main.go (and tests) can capture
// output instead of tearing down the process.
func Run(stdout, stderr io.Writer, args []string) int {
	if len(args) < 1 {
		printUsage(stderr)

		return 1
	}

	primary, err := home.PrimaryPath()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)

		return 1
	}

	fsys := oatsfs.NewReal()

	cmd := args[0]
	rest := args[1:]

	var cmdErr error

	switch cmd {
	case "wipe":
		cmdErr = cmdWipe(fsys, primary, rest)
	case "push":
		cmdErr = cmdPush(fsys, primary, rest)
	case "img":
		cmdErr = cmdMedia(fsys, primary, rest, mediaImage)
	case "file":
		cmdErr = cmdMedia(fsys, primary, rest, mediaFile)
	case "vid":
		cmdErr = cmdMedia(fsys, primary, rest, mediaVideo)
	case "pop":
		cmdErr = cmdPop(stdout, fsys, primary, rest)
	case "tail":
		cmdErr = cmdTail(stdout, fsys, primary, rest)
	case "head":
		cmdErr = cmdHead(stdout, fsys, primary, rest)
	case "count":
		cmdErr = cmdCount(stdout, fsys, primary, rest)
	case "sort":
		cmdErr = cmdSort(fsys, primary, rest)
	case "markdown":
		cmdErr = cmdMarkdown(stdout, fsys, primary, rest)
	case "raw":
		cmdErr = cmdRaw(stdout, fsys, primary)
	case "import":
		cmdErr = cmdImport(stdout, fsys, primary, rest)
	case "trim":
		cmdErr = cmdTrim(stdout, fsys, primary, rest)
	case "filter":
		cmdErr = cmdFilter(stdout, fsys, primary, rest)
	case "session":
		cmdErr = cmdSession(stdout, fsys, primary, rest)
	case "dbgsetid":
		cmdErr = cmdDbgSetID(fsys, primary, rest)
	case "dbgsettime":
		cmdErr = cmdDbgSetTime(fsys, primary, rest)
	case "-h", "--help", "help":
		printUsage(stdout)

		return 0
	default:
		fmt.Fprintln(stderr, "error: unknown command:", cmd)
		printUsage(stderr)

		return 1
	}

	if cmdErr != nil {
		fmt.Fprintln(stderr, "error:", cmdErr)

		return 1
	}

	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `oats - a personal append-only notes log

Usage: oats <command> [args]

Commands:
  wipe [--everything]             Reinitialize the store (discarding it first)
  push <text>                     Push a text item
  img <paths...>                  Push one image item per path
  file <paths...>                 Push one file item per path
  vid [paths...]                  Push one video item per path (sniffed container)
  pop [n]                         Remove and print the n topmost items (default 1)
  tail [n]                        Print the n topmost items without removing them
  head [n]                        Print the n oldest items
  count [--not] [attrs...]        Count items matching (or not matching) attributes
  sort                            Rewrite the store with ascending ids, dropping stubs of live ids
  markdown <tz_minutes> [dir]     Export a grouped Markdown rendering
  raw                             Print every item's normal listing line, in order
  import <path>                   Merge items from another store, deduplicating by id
  trim <attrs...> <out>           Write out with matching items stubbed
  filter <attrs...> <out>         Write out with non-matching items stubbed
  session [id]                    Print items belonging to session id (or all with a session)
  dbgsetid <item_id> <new_id>     Debug: rewrite an item's id in place
  dbgsettime <item_id> <ms>       Debug: rewrite an item's timestamp in place

Common push flags (push, img, file, vid):
  --id N           Explicit item id (default: current time in nanoseconds)
  --session N      Attach to session N
  --mobile         Mark the item as pushed from a mobile client
  --no-timestamp   Omit the timestamp field`)
}

func nowID() uint64 {
	return uint64(time.Now().UnixNano()) //nolint:gosec // monotonic-enough id source for CLI use
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func parseCount(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", args[0], err)
	}

	return n, nil
}

func withStore(fsys oatsfs.FS, path string, fn func(*oatslog.Store) error) error {
	s, err := oatslog.Open(fsys, path)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}

func printNormal(w io.Writer, store *oatslog.Store, md oatslog.Metadata) error {
	if err := render.Normal(w, md, store); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)

	return err
}

func printItem(w io.Writer, item oatslog.Item) error {
	if err := render.NormalItem(w, item); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)

	return err
}
