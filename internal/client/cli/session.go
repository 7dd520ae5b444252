package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"tripmate/internal/client/api"
	"tripmate/internal/client/chat"
	"tripmate/internal/client/trips"
	"tripmate/internal/realtime"
	"tripmate/pkg/utils"
)

const leaveCommand = "/leave"

// pump reads change events until ctx ends or the stream breaks, handing
// each to apply.
func (a *App) pump(ctx context.Context, stream *api.EventStream, apply func(realtime.Event)) {
	for {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) {
				a.logger.Warn("realtime stream ended", zap.Error(err))
			}
			return
		}
		apply(ev)
	}
}

// subscribe opens a realtime stream and starts reading it. The returned
// func closes the stream and waits for the reader to exit.
func (a *App) subscribe(ctx context.Context, resource, id string, apply func(realtime.Event)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := a.api.Stream(ctx, resource, id)
	if err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.pump(ctx, stream, apply)
	}()

	return func() {
		cancel()
		_ = stream.Close()
		<-done
	}, nil
}

// OpenChat shows the chat history, then sends every typed line until
// /leave. Messages from others appear as they arrive.
func (a *App) OpenChat(ctx context.Context, chatID string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	history, err := a.api.ListMessages(ctx, chatID, a.cfg.HistoryLimit)
	if err != nil {
		return err
	}

	room := chat.NewRoom(chatID, a.self.ID, a.api, a.notifier)
	room.Load(history)
	seen := make(map[string]bool)
	for _, m := range room.Messages() {
		seen[m.ID] = true
		a.printMessage(m)
	}
	room.OnScroll = func() {
		msgs := room.Messages()
		if n := len(msgs); n > 0 {
			a.printMessage(msgs[n-1])
		}
	}

	unsubscribe, err := a.subscribe(ctx, "chats", chatID, func(ev realtime.Event) {
		if ev.Partial {
			// too large for the change feed; fetch the text
			recent, err := a.api.ListMessages(ctx, chatID, a.cfg.HistoryLimit)
			if err != nil {
				a.logger.Warn("fetch partial message", zap.Error(err))
				return
			}
			if !room.Merge(recent) {
				return
			}
		} else if !room.Apply(ev) {
			return
		}
		// own messages were already shown when sent
		for _, m := range room.Messages() {
			if m.ID != "" && !seen[m.ID] && m.UserID != a.self.ID {
				a.printMessage(m)
			}
			seen[m.ID] = true
		}
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	fmt.Fprintf(a.out, "-- chat %s, type %s to go back --\n", chatID, leaveCommand)
	for {
		line, err := readLine(a.in, a.out, "")
		if err != nil {
			return nil
		}
		if line == leaveCommand {
			return nil
		}
		if err := room.Send(ctx, line); err != nil && !errors.Is(err, utils.ErrEmptyMessage) {
			a.logger.Debug("send failed", zap.Error(err))
		}
	}
}

func (a *App) printMessage(m chat.Message) {
	who := m.UserID
	if who == a.self.ID {
		who = "you"
	}
	state := ""
	if m.Pending {
		state = " (sending)"
	}
	fmt.Fprintf(a.out, "[%s] %s: %s%s\n", shortTime(m.CreatedAt), who, m.Text, state)
}

func shortTime(rfc string) string {
	if len(rfc) >= 16 {
		return rfc[11:16]
	}
	return "--:--"
}

// OpenTrip shows the participant board of a trip the user created and
// accepts approve, reject and remove commands until /leave.
func (a *App) OpenTrip(ctx context.Context, tripID string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	trip, err := a.api.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	participants, err := a.api.ListParticipants(ctx, tripID)
	if err != nil {
		return err
	}

	board := trips.NewBoard(*trip, participants, a.api, a.notifier)
	a.printBoard(board)

	unsubscribe, err := a.subscribe(ctx, "trips", tripID, func(ev realtime.Event) {
		if board.Apply(ev) {
			a.printBoard(board)
		}
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	fmt.Fprintf(a.out, "-- approve|reject|remove <participant id>, list, %s --\n", leaveCommand)
	for {
		line, err := readLine(a.in, a.out, "trip> ")
		if err != nil {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case leaveCommand, "back":
			return nil
		case "list":
			a.printBoard(board)
		case "approve", "reject", "remove":
			if len(parts) < 2 {
				fmt.Fprintf(a.out, "Usage: %s <participant id>\n", parts[0])
				continue
			}
			var err error
			switch parts[0] {
			case "approve":
				err = board.Approve(ctx, parts[1])
			case "reject":
				err = board.Reject(ctx, parts[1])
			default:
				err = board.Remove(ctx, parts[1])
			}
			if err == nil {
				a.printBoard(board)
			}
		default:
			fmt.Fprintln(a.out, "Unknown command:", parts[0])
		}
	}
}

func (a *App) printBoard(b *trips.Board) {
	trip := b.Trip()
	fmt.Fprintf(a.out, "%s  %d/%d spots filled\n", trip.Title, trip.SpotsFilled, trip.Spots)
	for _, p := range b.Participants() {
		fmt.Fprintf(a.out, "  %s  %-8s  user %s\n", p.ID, p.Status, p.UserID)
	}
}

// OpenFeed prints the latest feed page, then announces new trips and
// experiences from followed users until /leave.
func (a *App) OpenFeed(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	items, err := a.api.GetFeed(ctx, 20)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing here yet. Follow someone to fill your feed.")
	}
	for _, item := range items {
		switch {
		case item.Trip != nil:
			fmt.Fprintf(a.out, "  trip        %s  %s (%d/%d)\n", item.Trip.ID, item.Trip.Title, item.Trip.SpotsFilled, item.Trip.Spots)
		case item.Experience != nil:
			fmt.Fprintf(a.out, "  experience  %s  %s\n", item.Experience.ID, item.Experience.Title)
		}
	}

	unsubscribe, err := a.subscribe(ctx, "feed", a.self.ID, func(ev realtime.Event) {
		if line, ok := feedLine(ev, a.self.ID); ok {
			fmt.Fprintln(a.out, line)
		}
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	fmt.Fprintf(a.out, "-- feed, type %s to go back --\n", leaveCommand)
	for {
		line, err := readLine(a.in, a.out, "")
		if err != nil || line == leaveCommand {
			return nil
		}
	}
}

type feedRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

// feedLine renders a feed stream event, or reports false for changes the
// feed does not show.
func feedLine(ev realtime.Event, selfID string) (string, bool) {
	raw := ev.Record
	if ev.Type == realtime.EventDelete {
		raw = ev.Old
	}
	var row feedRow
	if err := json.Unmarshal(raw, &row); err != nil || row.ID == "" {
		return "", false
	}

	title := row.Title
	if title == "" {
		title = row.ID
	}

	switch ev.Table {
	case "trips", "experiences":
		if ev.Type != realtime.EventInsert {
			return "", false
		}
		kind := "trip"
		if ev.Table == "experiences" {
			kind = "experience"
		}
		return fmt.Sprintf("+ new %s: %s", kind, title), true
	case "follows":
		if row.FollowerID != selfID {
			return "", false
		}
		if ev.Type == realtime.EventInsert {
			return "* now following " + row.FollowingID + ", reopen the feed to see their posts", true
		}
		return "* unfollowed " + row.FollowingID, true
	}
	return "", false
}
