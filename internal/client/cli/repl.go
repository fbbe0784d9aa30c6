package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Generate(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, generate [length], help, exit"
	helpLoggedIn  = "Available commands: (l)ist [-s], save, delete [# | id], generate [length], whoami, passwd, deleteaccount, logout, help, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Commands that need an account are refused
// while logged out. Errors from handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "pv %s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin(cmd) && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "passwd":
			err = a.ChangePassword(ctx)
		case "deleteaccount":
			err = a.DeleteAccount(ctx)
		case "generate", "gen":
			err = a.Generate(ctx, args)
		case "save":
			err = a.Save(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "delete", "rm":
			err = a.Delete(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "Error:", userMessage(err))
		}
	}
}

func needsLogin(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "passwd", "deleteaccount", "save", "l", "list", "delete", "rm":
		return true
	}
	return false
}
