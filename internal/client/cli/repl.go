package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"unicode"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Pick(ctx context.Context, ref string) error
	Send(ctx context.Context) error
	Change(ctx context.Context) error
	History(ctx context.Context) error
	Retry(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Exams(ctx context.Context) error
	Exam(ctx context.Context, id string) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: pick <path>, send, change, history, retry <id>, clear, exams, exam <id>, status, exit"

// runREPL starts a simple read–eval–print loop for the ExamKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
//	help             show available commands
//	pick <path>      select a PDF
//	send             upload the selected file
//	change           drop the selected file
//	history          show recent uploads
//	retry <id>       resubmit a failed upload
//	clear            clear the upload history
//	exams            list exams known to the backend
//	exam <id>        show one exam
//	status           show connection mode and limits
//	exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ek %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}
		cmd, rest := splitCommand(scanner.Text())
		if cmd == "" {
			continue
		}
		args := strings.Fields(rest)

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "pick":
			if len(args) == 0 {
				printlnFn("Usage: pick <path>")
				continue
			}
			_ = a.Pick(ctx, rest)

		case "send":
			_ = a.Send(ctx)

		case "change":
			_ = a.Change(ctx)

		case "h", "history":
			_ = a.History(ctx)

		case "retry":
			if len(args) == 0 {
				printlnFn("Usage: retry <id>")
				continue
			}
			_ = a.Retry(ctx, args[0])

		case "clear":
			_ = a.Clear(ctx)

		case "exams":
			_ = a.Exams(ctx)

		case "exam":
			if len(args) == 0 {
				printlnFn("Usage: exam <id>")
				continue
			}
			_ = a.Exam(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// splitCommand returns the first word of line and the rest of the line with
// its surrounding blanks removed. Blanks inside the rest are kept, so a path
// such as "a  b.pdf" reaches the command intact.
func splitCommand(line string) (cmd, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}
