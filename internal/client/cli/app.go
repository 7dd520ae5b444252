// Package cli is the interactive terminal client: log in, list chats, talk
// in a trip chat and manage a trip's join requests, all kept live through
// the server's realtime stream.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tripmate/internal/client/api"
	"tripmate/internal/client/notify"
	"tripmate/internal/client/social"
	resp "tripmate/internal/models/response_models"
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

type App struct {
	cfg      *Config
	api      *api.Client
	logger   *zap.Logger
	in       *bufio.Reader
	out      io.Writer
	notifier notify.Notifier

	self   *resp.UserResponse
	follow *social.FollowToggle
}

// lockedWriter serialises output from the prompt loop and stream readers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func NewApp(cfg *Config, client *api.Client, in io.Reader, out io.Writer, logger *zap.Logger) *App {
	w := &lockedWriter{w: out}
	return &App{
		cfg:      cfg,
		api:      client,
		logger:   logger,
		in:       bufio.NewReader(in),
		out:      w,
		notifier: notify.NewWriterNotifier(w),
	}
}

// Run greets the user and blocks in the command loop until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "tripmate chat (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.in, a.out)
}

func (a *App) status() string {
	if a.self == nil {
		return ""
	}
	return "@" + a.self.Username
}

func (a *App) isLoggedIn() bool {
	return a.self != nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := readLine(a.in, a.out, "Email: ")
	if err != nil {
		return err
	}
	password, err := readSecret(a.in, a.out, "Password: ")
	if err != nil {
		return err
	}

	out, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.notifier.Notify(notify.Destructive, "Login failed", err.Error())
		return err
	}
	a.self = &out.User

	following, err := a.api.ListFollowing(ctx, out.User.ID)
	if err != nil {
		a.logger.Warn("load following", zap.Error(err))
	}
	ids := make([]string, 0, len(following))
	for _, u := range following {
		ids = append(ids, u.ID)
	}
	a.follow = social.NewFollowToggle(a.api, a.notifier, ids)

	a.notifier.Notify(notify.Info, "Logged in", "welcome, "+displayName(out.User))
	return nil
}

func (a *App) Logout(context.Context) error {
	a.self = nil
	a.follow = nil
	a.api.SetToken("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Chats(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	chats, err := a.api.ListChats(ctx)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Fprintln(a.out, "No chats yet. Create or join a trip to get one.")
		return nil
	}
	for _, c := range chats {
		fmt.Fprintf(a.out, "  %s  %s (trip %s)\n", c.ID, c.TripTitle, c.TripID)
	}
	return nil
}

// Search prints the server's matches as returned. The server also matches
// on email, which it does not send back, so the list is not narrowed again
// here.
func (a *App) Search(ctx context.Context, query string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	users, err := a.api.SearchUsers(ctx, query)
	if err != nil {
		return err
	}
	a.printUsers(users)
	return nil
}

// Following lists the people the user follows, narrowed locally to those
// whose name, username or email contains query.
func (a *App) Following(ctx context.Context, query string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	users, err := a.api.ListFollowing(ctx, a.self.ID)
	if err != nil {
		return err
	}
	a.printUsers(social.FilterUsers(users, query))
	return nil
}

func (a *App) printUsers(users []resp.UserResponse) {
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return
	}
	for _, u := range users {
		mark := " "
		if a.follow.IsFollowing(u.ID) {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s  @%s  %s\n", mark, u.ID, u.Username, u.Name)
	}
}

// ToggleFollow follows userID, or unfollows when already following.
func (a *App) ToggleFollow(ctx context.Context, userID string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	following, err := a.follow.Toggle(ctx, userID)
	if err != nil {
		return err
	}
	if following {
		fmt.Fprintln(a.out, "Following", userID)
	} else {
		fmt.Fprintln(a.out, "Unfollowed", userID)
	}
	return nil
}

func displayName(u resp.UserResponse) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return "@" + u.Username
}
