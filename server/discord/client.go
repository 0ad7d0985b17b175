// Package discord implements app.Platform against the platform's REST API.
//
// Every delete-class response's rate-limit headers are reported to the
// injected app.RateLimit so the engine can pace subsequent calls.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/melodelete/autodelete/server/app"
	"github.com/melodelete/autodelete/server/bot"
)

const (
	// DefaultBaseURL is the platform's REST endpoint.
	DefaultBaseURL = "https://discord.com/api/v10"

	// historyPageSize is the largest page the history endpoint serves.
	historyPageSize = 100
)

// Client is the REST client. It implements app.Platform and the posting
// surface the bot needs.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *app.RateLimit
	log     bot.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different REST endpoint. Tests use it
// with httptest servers.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(token string, limiter *app.RateLimit, log bot.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
		token:   token,
		limiter: limiter,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wireMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Timestamp time.Time `json:"timestamp"`
	Pinned    bool      `json:"pinned"`
}

func (w wireMessage) toMessage() (app.Message, error) {
	id, err := parseSnowflake(w.ID)
	if err != nil {
		return app.Message{}, errors.Wrapf(err, "malformed message id %q", w.ID)
	}
	chID, err := parseSnowflake(w.ChannelID)
	if err != nil {
		return app.Message{}, errors.Wrapf(err, "malformed channel id %q", w.ChannelID)
	}
	return app.Message{
		ID:        id,
		ChannelID: chID,
		CreatedAt: w.Timestamp.UTC(),
		Pinned:    w.Pinned,
	}, nil
}

type wireChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role is a guild role, used by the command layer for permission checks.
type Role struct {
	ID   uint64
	Name string
}

// Guild carries the guild fields the service needs.
type Guild struct {
	ID      uint64
	Name    string
	OwnerID uint64
}

// Channel resolves a channel handle. app.ErrNotFound when the channel is
// gone.
func (c *Client) Channel(ctx context.Context, id uint64) (*app.Channel, error) {
	var wire wireChannel
	if err := c.get(ctx, fmt.Sprintf("/channels/%s", formatSnowflake(id)), &wire); err != nil {
		return nil, err
	}
	chID, err := parseSnowflake(wire.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed channel id %q", wire.ID)
	}
	return &app.Channel{ID: chID, Name: wire.Name}, nil
}

// History fetches the complete message history of a channel, one page of 100
// at a time. With OldestFirst it walks forward from the beginning of the
// channel; otherwise it walks backward from the newest message. A non-zero
// Before cutoff stops the oldest-first walk as soon as the cutoff is reached,
// which is what makes the time-threshold-only scan cheap.
func (c *Client) History(ctx context.Context, channelID uint64, opts app.HistoryOptions) ([]app.Message, error) {
	if opts.OldestFirst {
		return c.historyForward(ctx, channelID, opts.Before)
	}
	return c.historyBackward(ctx, channelID, opts.Before)
}

func (c *Client) historyForward(ctx context.Context, channelID uint64, before time.Time) ([]app.Message, error) {
	var (
		history []app.Message
		cursor  uint64
		cut     uint64
	)
	if !before.IsZero() {
		cut = timeToSnowflake(before)
	}

	for {
		page, err := c.historyPage(ctx, channelID, fmt.Sprintf("after=%s", formatSnowflake(cursor)))
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return history, nil
		}

		// The API serves pages newest-first; normalize to chronological.
		sort.Slice(page, func(i, j int) bool { return page[i].ID < page[j].ID })

		for _, m := range page {
			if cut != 0 && m.ID >= cut {
				// History is chronological, so nothing later qualifies.
				return history, nil
			}
			history = append(history, m)
		}

		cursor = page[len(page)-1].ID
		if len(page) < historyPageSize {
			return history, nil
		}
	}
}

func (c *Client) historyBackward(ctx context.Context, channelID uint64, before time.Time) ([]app.Message, error) {
	var history []app.Message

	cursor := uint64(0)
	if !before.IsZero() {
		cursor = timeToSnowflake(before)
	}

	for {
		query := ""
		if cursor != 0 {
			query = fmt.Sprintf("before=%s", formatSnowflake(cursor))
		}
		page, err := c.historyPage(ctx, channelID, query)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return history, nil
		}

		sort.Slice(page, func(i, j int) bool { return page[i].ID > page[j].ID })
		history = append(history, page...)

		cursor = page[len(page)-1].ID
		if len(page) < historyPageSize {
			return history, nil
		}
	}
}

func (c *Client) historyPage(ctx context.Context, channelID uint64, query string) ([]app.Message, error) {
	path := fmt.Sprintf("/channels/%s/messages?limit=%d", formatSnowflake(channelID), historyPageSize)
	if query != "" {
		path += "&" + query
	}

	var wire []wireMessage
	if err := c.get(ctx, path, &wire); err != nil {
		return nil, err
	}

	page := make([]app.Message, 0, len(wire))
	for _, w := range wire {
		m, err := w.toMessage()
		if err != nil {
			return nil, err
		}
		page = append(page, m)
	}
	return page, nil
}

// DeleteMessage deletes one message. app.ErrNotFound when it was already
// gone.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID uint64) error {
	path := fmt.Sprintf("/channels/%s/messages/%s", formatSnowflake(channelID), formatSnowflake(messageID))
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.observeRateLimit(resp)
	return c.checkStatus(resp)
}

// BulkDelete removes up to 100 messages in one call. A single id is routed
// through the single-delete endpoint, which the bulk endpoint would refuse.
func (c *Client) BulkDelete(ctx context.Context, channelID uint64, messageIDs []uint64) error {
	if len(messageIDs) == 1 {
		return c.DeleteMessage(ctx, channelID, messageIDs[0])
	}

	ids := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		ids[i] = formatSnowflake(id)
	}
	body, err := json.Marshal(map[string][]string{"messages": ids})
	if err != nil {
		return errors.Wrap(err, "failed to encode bulk delete body")
	}

	path := fmt.Sprintf("/channels/%s/messages/bulk-delete", formatSnowflake(channelID))
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.observeRateLimit(resp)

	if resp.StatusCode == http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Wrapf(app.ErrBadBatch, "status 400: %s", payload)
	}
	return c.checkStatus(resp)
}

// CreateMessage posts a message to a channel.
func (c *Client) CreateMessage(ctx context.Context, channelID uint64, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return errors.Wrap(err, "failed to encode message body")
	}

	path := fmt.Sprintf("/channels/%s/messages", formatSnowflake(channelID))
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

// Guild fetches a guild, mainly for its owner id.
func (c *Client) Guild(ctx context.Context, id uint64) (*Guild, error) {
	var wire struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		OwnerID string `json:"owner_id"`
	}
	if err := c.get(ctx, fmt.Sprintf("/guilds/%s", formatSnowflake(id)), &wire); err != nil {
		return nil, err
	}

	gid, err := parseSnowflake(wire.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed guild id %q", wire.ID)
	}
	owner, err := parseSnowflake(wire.OwnerID)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed owner id %q", wire.OwnerID)
	}
	return &Guild{ID: gid, Name: wire.Name, OwnerID: owner}, nil
}

// GuildRoles lists a guild's roles, for matching allowed roles by name.
func (c *Client) GuildRoles(ctx context.Context, guildID uint64) ([]Role, error) {
	var wire []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, fmt.Sprintf("/guilds/%s/roles", formatSnowflake(guildID)), &wire); err != nil {
		return nil, err
	}

	roles := make([]Role, 0, len(wire))
	for _, w := range wire {
		id, err := parseSnowflake(w.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed role id %q", w.ID)
		}
		roles = append(roles, Role{ID: id, Name: w.Name})
	}
	return roles, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response for %s", path)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s %s", method, path)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s %s failed", method, path)
	}
	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return app.ErrNotFound
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("unexpected status %d from %s: %s", resp.StatusCode, resp.Request.URL.Path, payload)
	}
}
