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
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Fetch(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	Grant(ctx context.Context, args []string) error
	Revoke(ctx context.Context, args []string) error
	UserDel(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the CloudBox CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - fetch <link>     — download a publicly shared file
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help                   — show available commands
//	  - list [user_id]         — list files ([user_id] is admin-only)
//	  - upload <path> [note]   — upload a file with an optional comment
//	  - download <id> [dir]    — download a file
//	  - rename <id> [name]     — rename a file (prompts if name omitted)
//	  - comment <id>           — set or clear a file comment
//	  - share <id>             — print a file's public share URL
//	  - rm <id>                — delete a file
//	  - fetch <link> [dir]     — download a publicly shared file
//	  - whoami                 — show the current account
//	  - logout                 — log out
//	  - exit | quit            — leave the program
//
//	Administrators additionally get:
//	  - users            — list all accounts
//	  - grant <id>       — grant administrator rights
//	  - revoke <id>      — revoke administrator rights
//	  - userdel <id>     — delete an account
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("box> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				s := "Available commands: (l)ist, upload, download, rename, comment, share, rm, fetch, whoami, logout, exit"
				if a.isAdmin() {
					s += ", users, grant, revoke, userdel"
				}
				printlnFn(s)
			} else {
				printlnFn("Available commands: register, login, fetch, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [comment]")
				continue
			}
			_ = a.Upload(ctx, args)

		case "download":
			if len(args) == 0 {
				printlnFn("Usage: download <id> [dir]")
				continue
			}
			_ = a.Download(ctx, args)

		case "rename":
			if len(args) == 0 {
				printlnFn("Usage: rename <id> [new name]")
				continue
			}
			_ = a.Rename(ctx, args)

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <id>")
				continue
			}
			_ = a.Comment(ctx, args)

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <id>")
				continue
			}
			_ = a.Share(ctx, args)

		case "rm":
			if len(args) == 0 {
				printlnFn("Usage: rm <id>")
				continue
			}
			_ = a.Remove(ctx, args)

		case "fetch":
			if len(args) == 0 {
				printlnFn("Usage: fetch <link> [dir]")
				continue
			}
			_ = a.Fetch(ctx, args)

		case "users":
			if !a.isAdmin() {
				printlnFn("Administrator access required")
				continue
			}
			_ = a.Users(ctx)

		case "grant":
			if !a.isAdmin() {
				printlnFn("Administrator access required")
				continue
			}
			if len(args) == 0 {
				printlnFn("Usage: grant <user_id>")
				continue
			}
			_ = a.Grant(ctx, args)

		case "revoke":
			if !a.isAdmin() {
				printlnFn("Administrator access required")
				continue
			}
			if len(args) == 0 {
				printlnFn("Usage: revoke <user_id>")
				continue
			}
			_ = a.Revoke(ctx, args)

		case "userdel":
			if !a.isAdmin() {
				printlnFn("Administrator access required")
				continue
			}
			if len(args) == 0 {
				printlnFn("Usage: userdel <user_id>")
				continue
			}
			_ = a.UserDel(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
