package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commands is what the loop dispatches to; App implements it.
type commands interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Chats(ctx context.Context) error
	OpenFeed(ctx context.Context) error
	Following(ctx context.Context, query string) error
	OpenChat(ctx context.Context, chatID string) error
	OpenTrip(ctx context.Context, tripID string) error
	Search(ctx context.Context, query string) error
	ToggleFollow(ctx context.Context, userID string) error
}

// runREPL reads one command per line and dispatches it until exit, quit or
// EOF. Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a commands, status func() string, in *bufio.Reader, out io.Writer) {
	for {
		line, err := readLine(in, out, fmt.Sprintf("tripmate %s> ", status()))
		if err != nil {
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
				fmt.Fprintln(out, "Commands: chats, chat <id>, trip <id>, feed, search <text>, following [text], follow <user id>, logout, exit")
			} else {
				fmt.Fprintln(out, "Commands: login, exit")
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "chats":
			cmdErr = a.Chats(ctx)
		case "feed":
			cmdErr = a.OpenFeed(ctx)
		case "following":
			cmdErr = a.Following(ctx, strings.Join(args, " "))
		case "chat", "trip", "follow":
			if len(args) != 1 {
				fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
				continue
			}
			switch cmd {
			case "chat":
				cmdErr = a.OpenChat(ctx, args[0])
			case "trip":
				cmdErr = a.OpenTrip(ctx, args[0])
			default:
				cmdErr = a.ToggleFollow(ctx, args[0])
			}
		case "search":
			cmdErr = a.Search(ctx, strings.Join(args, " "))
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
