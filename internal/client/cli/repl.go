package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/common"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Trips(ctx context.Context, args []string) error
	NewTrip(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Budget(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Cover(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, help, exit"
	helpUser  = "Available commands: trips [upcoming|ongoing|past], newtrip, show <id>, budget <id>, " +
		"calendar <id>, export <id> <csv|gpx|json> [file], cover <id> <file>, logout, help, exit"
)

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if s := statusFn(); s != "" {
			printlnFn(fmt.Sprintf("gt (%s)> ", s))
		} else {
			printlnFn("gt> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "trips", "ls":
			cmdErr = a.Trips(ctx, args)
		case "newtrip":
			cmdErr = a.NewTrip(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "budget":
			cmdErr = a.Budget(ctx, args)
		case "calendar":
			cmdErr = a.Calendar(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "cover":
			cmdErr = a.Cover(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}

// describe turns an error into a line for the user.
func describe(err error) string {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return "usage: " + string(usage)
	case errors.Is(err, client.ErrNotLoggedIn):
		return "not logged in, use 'login'"
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return "session expired, please login again"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	return err.Error()
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// needArgs checks that at least n arguments were given.
func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return usageError(usage)
	}
	return nil
}
