package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tripmate/internal/realtime"
)

// EventStream reads the server's realtime Server-Sent Events.
type EventStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
}

// Stream subscribes to one resource ("chats", "trips" or "users"). Cancel
// ctx or call Close to unsubscribe.
func (c *Client) Stream(ctx context.Context, resource, id string) (*EventStream, error) {
	path := "/realtime/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// the regular client's timeout would cut the stream
	streamClient := &http.Client{Transport: c.http.Transport}
	res, err := streamClient.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		var env envelope
		_ = json.NewDecoder(res.Body).Decode(&env)
		return nil, &Error{Status: res.StatusCode, Message: env.Message}
	}

	return &EventStream{body: res.Body, reader: bufio.NewReader(res.Body)}, nil
}

// Next blocks until the next change event. Keep-alive and ready frames are
// skipped. It returns io.EOF when the server closes the stream.
func (s *EventStream) Next() (realtime.Event, error) {
	for {
		name, data, err := s.frame()
		if err != nil {
			return realtime.Event{}, err
		}
		if name != "change" {
			continue
		}

		var ev realtime.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return realtime.Event{}, fmt.Errorf("decode change event: %w", err)
		}
		return ev, nil
	}
}

func (s *EventStream) Close() error {
	return s.body.Close()
}

// frame reads up to the blank line ending one event. Multiple data lines are
// joined with newlines.
func (s *EventStream) frame() (string, string, error) {
	var (
		name string
		data []string
	)
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if name == "" && len(data) == 0 {
				continue
			}
			return name, strings.Join(data, "\n"), nil
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
}
