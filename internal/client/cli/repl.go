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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Langs(ctx context.Context) error
	MyLangs(ctx context.Context) error
	NewLang(ctx context.Context) error
	Use(ctx context.Context) error
	Words(ctx context.Context) error
	AddWord(ctx context.Context) error
	Show(ctx context.Context) error
	DeleteWord(ctx context.Context) error
	AddSection(ctx context.Context) error
	EditSection(ctx context.Context) error
	DeleteSection(ctx context.Context) error
	Reorder(ctx context.Context) error
	AddCategory(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop. It reads a line from the
// provided scanner, parses the first token as the command, and dispatches to
// methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Command errors are shown to the user and never terminate the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("forge> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: langs, mylangs, newlang, use, words, addword, show, delword,")
				printlnFn("  addsection, editsection, delsection, reorder, addcategory, logout, exit")
			} else {
				printlnFn("Available commands: register, login, langs, use, words, show, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "langs":
			err = a.Langs(ctx)

		case "mylangs":
			err = a.MyLangs(ctx)

		case "newlang":
			err = a.NewLang(ctx)

		case "use":
			err = a.Use(ctx)

		case "w", "words":
			err = a.Words(ctx)

		case "addword":
			err = a.AddWord(ctx)

		case "show":
			err = a.Show(ctx)

		case "delword":
			err = a.DeleteWord(ctx)

		case "addsection":
			err = a.AddSection(ctx)

		case "editsection":
			err = a.EditSection(ctx)

		case "delsection":
			err = a.DeleteSection(ctx)

		case "reorder":
			err = a.Reorder(ctx)

		case "addcategory":
			err = a.AddCategory(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
