// Package api is the HTTP client for the tripmate server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	resp "tripmate/internal/models/response_models"
)

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Login(ctx context.Context, email, password string) (*resp.AccountLoginResponse, error) {
	var out resp.AccountLoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/accounts/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) ListChats(ctx context.Context) ([]resp.ChatResponse, error) {
	var out []resp.ChatResponse
	err := c.do(ctx, http.MethodGet, "/chats", nil, &out)
	return out, err
}

func (c *Client) ListMessages(ctx context.Context, chatID string, limit int) ([]resp.ChatMessageResponse, error) {
	var out []resp.ChatMessageResponse
	path := "/chats/" + url.PathEscape(chatID) + "/messages?limit=" + strconv.Itoa(limit)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*resp.ChatMessageResponse, error) {
	var out resp.ChatMessageResponse
	path := "/chats/" + url.PathEscape(chatID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"message": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTrip(ctx context.Context, tripID string) (*resp.TripResponse, error) {
	var out resp.TripResponse
	if err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(tripID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListParticipants(ctx context.Context, tripID string) ([]resp.ParticipantResponse, error) {
	var out []resp.ParticipantResponse
	err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(tripID)+"/participants", nil, &out)
	return out, err
}

func (c *Client) UpdateParticipant(ctx context.Context, tripID, participantID, action string) (*resp.ParticipantResponse, error) {
	var out resp.ParticipantResponse
	path := "/trips/" + url.PathEscape(tripID) + "/participants/" + url.PathEscape(participantID)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"action": action}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/follow", nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID)+"/follow", nil, nil)
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]resp.UserResponse, error) {
	var out []resp.UserResponse
	err := c.do(ctx, http.MethodGet, "/users/search?q="+url.QueryEscape(query), nil, &out)
	return out, err
}

func (c *Client) ListFollowing(ctx context.Context, userID string) ([]resp.UserResponse, error) {
	var out []resp.UserResponse
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/following?pageSize=100", nil, &out)
	return out, err
}

func (c *Client) GetFeed(ctx context.Context, pageSize int) ([]resp.FeedItem, error) {
	var out []resp.FeedItem
	err := c.do(ctx, http.MethodGet, "/feed?page=1&pageSize="+strconv.Itoa(pageSize), nil, &out)
	return out, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends the request and decodes the envelope's data into out, if given.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode/100 != 2 {
			return &Error{Status: res.StatusCode, Message: res.Status}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode/100 != 2 {
		return &Error{Status: res.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
