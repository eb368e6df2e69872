package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	Signup(ctx context.Context) error
	Signin(ctx context.Context) error
	Google(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Picture(ctx context.Context) error
	Listings(ctx context.Context) error
	CreateListing(ctx context.Context) error
	SignOut(ctx context.Context) error
	Delete(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the realestate CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that need a session are refused
// while signed out and vice versa. The loop exits on EOF or when the user
// types "exit" or "quit".
//
//	Signed out:
//	  - signup | signin | google
//	Signed in:
//	  - profile | update | picture | listings | create | signout | delete
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("re %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if ctx.Err() != nil {
			return
		}

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: profile, update, picture, (l)istings, create, signout, delete, exit")
			} else {
				printlnFn("Available commands: signup, signin, google, exit")
			}

		case "signup", "signin", "google":
			if a.isSignedIn() {
				printlnFn("Already signed in, use signout first")
				continue
			}
			switch cmd {
			case "signup":
				_ = a.Signup(ctx)
			case "signin":
				_ = a.Signin(ctx)
			case "google":
				_ = a.Google(ctx)
			}

		case "profile", "update", "picture", "l", "listings", "create", "signout", "delete":
			if !a.isSignedIn() {
				printlnFn("Please sign in first")
				continue
			}
			switch cmd {
			case "profile":
				_ = a.Profile(ctx)
			case "update":
				_ = a.Update(ctx)
			case "picture":
				_ = a.Picture(ctx)
			case "l", "listings":
				_ = a.Listings(ctx)
			case "create":
				_ = a.CreateListing(ctx)
			case "signout":
				_ = a.SignOut(ctx)
			case "delete":
				_ = a.Delete(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
