package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCommands struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeCommands) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeCommands) isLoggedIn() bool { return f.loggedIn }
func (f *fakeCommands) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeCommands) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeCommands) Chats(context.Context) error    { return f.record("chats") }
func (f *fakeCommands) OpenFeed(context.Context) error { return f.record("feed") }
func (f *fakeCommands) Following(_ context.Context, q string) error {
	return f.record("following " + q)
}
func (f *fakeCommands) OpenChat(_ context.Context, id string) error {
	return f.record("chat " + id)
}
func (f *fakeCommands) OpenTrip(_ context.Context, id string) error {
	return f.record("trip " + id)
}
func (f *fakeCommands) Search(_ context.Context, q string) error {
	return f.record("search " + q)
}
func (f *fakeCommands) ToggleFollow(_ context.Context, id string) error {
	return f.record("follow " + id)
}

func run(t *testing.T, f *fakeCommands, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), f, func() string { return "" }, in, &out)
	return out.String()
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	f := &fakeCommands{}
	out := run(t, f,
		"help",
		"login",
		"help",
		"chats",
		"chat c1",
		"trip t1",
		"search ana lima",
		"feed",
		"following bru",
		"follow u1",
		"",
		"logout",
		"exit",
		"chats",
	)

	assert.Equal(t, []string{
		"login", "chats", "chat c1", "trip t1", "search ana lima", "feed", "following bru", "follow u1", "logout",
	}, f.calls)
	assert.Contains(t, out, "Commands: login, exit")
	assert.Contains(t, out, "chat <id>")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	f := &fakeCommands{}
	out := run(t, f, "chat", "trip a b", "dance")

	assert.Empty(t, f.calls)
	assert.Contains(t, out, "Usage: chat <id>")
	assert.Contains(t, out, "Usage: trip <id>")
	assert.Contains(t, out, "Unknown command: dance")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	f := &fakeCommands{err: errors.New("boom")}
	out := run(t, f, "chats", "search x")

	assert.Equal(t, []string{"chats", "search x"}, f.calls)
	assert.Equal(t, 2, strings.Count(out, "Error: boom"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TRIPMATE_SERVER_URL", "http://env:1")

	cfg, err := LoadConfig(nil)
	assert.NoError(t, err)
	assert.Equal(t, "http://env:1", cfg.ServerURL)
	assert.Equal(t, 100, cfg.HistoryLimit)

	cfg, err = LoadConfig([]string{"-a", "http://flag:2", "-n", "20", "-debug"})
	assert.NoError(t, err)
	assert.Equal(t, "http://flag:2", cfg.ServerURL)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.True(t, cfg.Debug)

	_, err = LoadConfig([]string{"-nope"})
	assert.Error(t, err)
}
