package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Record(ctx context.Context) error
	Stop(ctx context.Context) error
	Discard(ctx context.Context) error
	Save(ctx context.Context) error
	List(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	New(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Play(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  record          start recording (discards an unsaved clip)
  stop            stop recording
  discard         drop the unsaved clip
  save            save the unsaved clip
  (l)ist          list saved videos
  select <n>      select video n
  new             clear the selection
  show            show the selected video or the recorder state
  delete [n]      delete video n or the selected one
  play [n]        play video n, the selected one or the unsaved clip
  history [n]     show the last n save/delete outcomes
  exit | quit     leave the program`

// runREPL reads lines from reader, parses the first token as the command and
// dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on EOF, on context cancellation or when the user
// types "exit" or "quit".
//
// The prompt shows the current status (from statusFn).
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("vk (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "record":
			_ = a.Record(ctx)

		case "stop":
			_ = a.Stop(ctx)

		case "discard":
			_ = a.Discard(ctx)

		case "save":
			_ = a.Save(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "select":
			if len(args) == 0 {
				printlnFn("Usage: select <n>")
				continue
			}
			_ = a.Select(ctx, args)

		case "new":
			_ = a.New(ctx)

		case "show":
			_ = a.Show(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "play":
			_ = a.Play(ctx, args)

		case "history":
			_ = a.History(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
