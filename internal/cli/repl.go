package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mikimauro/scanbiz/internal/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL drives.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	currentView() models.View

	ListContacts(ctx context.Context, filter string) error
	Find(ctx context.Context, query string) error
	Category(ctx context.Context, name string) error
	NewContact(ctx context.Context) error
	Scan(ctx context.Context, mode string) error
	Documents(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path string) error
	Intake(ctx context.Context, path string) error

	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Favorite(ctx context.Context) error
	Archive(ctx context.Context) error
	Delete(ctx context.Context) error
	Back(ctx context.Context) error

	Title(ctx context.Context) error
	Text(ctx context.Context) error
	Save(ctx context.Context) error
	Cancel(ctx context.Context) error
	ListDocuments(ctx context.Context) error
	ListArchivedDocuments(ctx context.Context) error
	ArchiveDocument(ctx context.Context, id string) error
}

var helpByView = map[models.View]string{
	models.ViewList:    "list, archived, favorites, find <text>, category <name>, new, scan card|text, docs, open <id>, export <file>, import <file>, intake <result.json>, exit",
	models.ViewDetails: "show, edit, fav, archive, delete, back, exit",
	models.ViewEdit:    "edit, show, save, cancel, exit",
	models.ViewScan:    "cancel, exit",
	models.ViewDocList: "list, archived, open <id>, archive <id>, back, exit",
	models.ViewDocEdit: "show, title, text, archive, save, cancel, delete, exit",
}

// runREPL starts the read-eval-print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches it according to the current view. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are printed and otherwise ignored, so
// the loop keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("scanbiz> %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands:", helpByView[a.currentView()])
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		handled, err := dispatch(ctx, a, cmd, args)
		if !handled {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) (bool, error) {
	arg := func(usage string) (string, bool) {
		if len(args) == 0 {
			printlnFn("Usage:", usage)
			return "", false
		}
		return args[0], true
	}

	switch a.currentView() {
	case models.ViewList:
		switch cmd {
		case "l", "list":
			return true, a.ListContacts(ctx, "")
		case "archived", "favorites":
			return true, a.ListContacts(ctx, cmd)
		case "find":
			if len(args) == 0 {
				printlnFn("Usage:", "find <text>")
				return true, nil
			}
			return true, a.Find(ctx, strings.Join(args, " "))
		case "category":
			if name, ok := arg("category <name>"); ok {
				return true, a.Category(ctx, name)
			}
			return true, nil
		case "new":
			return true, a.NewContact(ctx)
		case "scan":
			if mode, ok := arg("scan card|text"); ok {
				return true, a.Scan(ctx, mode)
			}
			return true, nil
		case "docs":
			return true, a.Documents(ctx)
		case "open":
			if id, ok := arg("open <id>"); ok {
				return true, a.Open(ctx, id)
			}
			return true, nil
		case "export":
			if path, ok := arg("export <file>"); ok {
				return true, a.Export(ctx, path)
			}
			return true, nil
		case "import":
			if path, ok := arg("import <file>"); ok {
				return true, a.Import(ctx, path)
			}
			return true, nil
		case "intake":
			if path, ok := arg("intake <result.json>"); ok {
				return true, a.Intake(ctx, path)
			}
			return true, nil
		}

	case models.ViewDetails:
		switch cmd {
		case "show":
			return true, a.Show(ctx)
		case "edit":
			return true, a.Edit(ctx)
		case "fav":
			return true, a.Favorite(ctx)
		case "archive":
			return true, a.Archive(ctx)
		case "delete":
			return true, a.Delete(ctx)
		case "back":
			return true, a.Back(ctx)
		}

	case models.ViewEdit:
		switch cmd {
		case "edit":
			return true, a.Edit(ctx)
		case "show":
			return true, a.Show(ctx)
		case "save":
			return true, a.Save(ctx)
		case "cancel":
			return true, a.Cancel(ctx)
		}

	case models.ViewScan:
		if cmd == "cancel" {
			return true, a.Cancel(ctx)
		}

	case models.ViewDocList:
		switch cmd {
		case "l", "list":
			return true, a.ListDocuments(ctx)
		case "archived":
			return true, a.ListArchivedDocuments(ctx)
		case "open":
			if id, ok := arg("open <id>"); ok {
				return true, a.Open(ctx, id)
			}
			return true, nil
		case "archive":
			if id, ok := arg("archive <id>"); ok {
				return true, a.ArchiveDocument(ctx, id)
			}
			return true, nil
		case "back":
			return true, a.Back(ctx)
		}

	case models.ViewDocEdit:
		switch cmd {
		case "show":
			return true, a.Show(ctx)
		case "title":
			return true, a.Title(ctx)
		case "text":
			return true, a.Text(ctx)
		case "archive":
			return true, a.Archive(ctx)
		case "save":
			return true, a.Save(ctx)
		case "cancel":
			return true, a.Cancel(ctx)
		case "delete":
			return true, a.Delete(ctx)
		}
	}
	return false, nil
}
