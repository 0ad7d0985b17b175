// Package gateway maintains the websocket session with the platform and
// surfaces the few events the service cares about: readiness, command
// messages and deletion notifications.
package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/melodelete/autodelete/server/bot"
)

// DefaultURL is the platform's gateway endpoint.
const DefaultURL = "wss://gateway.discord.gg/?v=10&encoding=json"

// reconnectDelay between connection attempts after a transport error.
const reconnectDelay = 60 * time.Second

const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatAck   = 11
)

// Guilds, guild messages and message content.
const identifyIntents = 1<<0 | 1<<9 | 1<<15

// MessageEvent is a received chat message, carrying just what the command
// layer needs.
type MessageEvent struct {
	GuildID   uint64
	ChannelID uint64
	AuthorID  uint64
	RoleIDs   []uint64
	Content   string
}

// Events are the callbacks the gateway dispatches into. Any of them may be
// nil. OnReady may fire more than once per process; the session resumes
// after reconnects and the platform replays readiness each time.
type Events struct {
	OnReady         func()
	OnMessage       func(ev MessageEvent)
	OnMessageDelete func(channelID uint64, count int)
}

// Gateway is the websocket session manager.
type Gateway struct {
	url    string
	token  string
	events Events
	log    bot.Logger
	dialer *websocket.Dialer

	writeMu sync.Mutex
	// seq is shared between the read loop and the heartbeat goroutine.
	seq atomic.Int64
}

func New(url, token string, events Events, log bot.Logger) *Gateway {
	if url == "" {
		url = DefaultURL
	}
	return &Gateway{
		url:    url,
		token:  token,
		events: events,
		log:    log,
		dialer: websocket.DefaultDialer,
	}
}

// Run connects and processes events until ctx is cancelled, reconnecting
// after transport errors.
func (g *Gateway) Run(ctx context.Context) {
	for {
		err := g.session(ctx)
		if ctx.Err() != nil {
			return
		}
		g.log.Errorf("transport error; reconnecting in %v: %v", reconnectDelay, err)

		timer := time.NewTimer(reconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

type payload struct {
	Op   int             `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
	Seq  int64           `json:"s,omitempty"`
	Type string          `json:"t,omitempty"`
}

func (g *Gateway) session(ctx context.Context) error {
	conn, _, err := g.dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to dial gateway")
	}
	defer conn.Close()

	// Tear the connection down when ctx is cancelled so ReadJSON unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	heartbeatStop := make(chan struct{})
	defer close(heartbeatStop)

	for {
		var p payload
		if err := conn.ReadJSON(&p); err != nil {
			return errors.Wrap(err, "failed to read gateway payload")
		}
		if p.Seq != 0 {
			g.seq.Store(p.Seq)
		}

		switch p.Op {
		case opHello:
			var hello struct {
				HeartbeatInterval int `json:"heartbeat_interval"`
			}
			if err := json.Unmarshal(p.Data, &hello); err != nil {
				return errors.Wrap(err, "malformed hello payload")
			}
			go g.heartbeat(conn, time.Duration(hello.HeartbeatInterval)*time.Millisecond, heartbeatStop)
			if err := g.identify(conn); err != nil {
				return err
			}

		case opHeartbeat:
			if err := g.sendHeartbeat(conn); err != nil {
				return err
			}

		case opHeartbeatAck:
			// nothing to do

		case opReconnect:
			return errors.New("gateway requested reconnect")

		case opInvalidSession:
			return errors.New("gateway invalidated the session")

		case opDispatch:
			g.dispatch(p)
		}
	}
}

func (g *Gateway) identify(conn *websocket.Conn) error {
	identify := map[string]interface{}{
		"op": opIdentify,
		"d": map[string]interface{}{
			"token":   g.token,
			"intents": identifyIntents,
			"properties": map[string]string{
				"os":      "linux",
				"browser": "autodelete",
				"device":  "autodelete",
			},
		},
	}
	return g.writeJSON(conn, identify)
}

func (g *Gateway) heartbeat(conn *websocket.Conn, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := g.sendHeartbeat(conn); err != nil {
				// The read loop will surface the broken connection.
				return
			}
		}
	}
}

func (g *Gateway) sendHeartbeat(conn *websocket.Conn) error {
	return g.writeJSON(conn, map[string]interface{}{"op": opHeartbeat, "d": g.seq.Load()})
}

func (g *Gateway) writeJSON(conn *websocket.Conn, v interface{}) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (g *Gateway) dispatch(p payload) {
	switch p.Type {
	case "READY":
		var ready struct {
			User struct {
				Username string `json:"username"`
				ID       string `json:"id"`
			} `json:"user"`
		}
		if err := json.Unmarshal(p.Data, &ready); err == nil {
			g.log.Infof("logged in as %s (ID: %s)", ready.User.Username, ready.User.ID)
		}
		if g.events.OnReady != nil {
			g.events.OnReady()
		}

	case "MESSAGE_CREATE":
		if g.events.OnMessage == nil {
			return
		}
		var msg struct {
			GuildID   string `json:"guild_id"`
			ChannelID string `json:"channel_id"`
			Content   string `json:"content"`
			Author    struct {
				ID string `json:"id"`
			} `json:"author"`
			Member struct {
				Roles []string `json:"roles"`
			} `json:"member"`
		}
		if err := json.Unmarshal(p.Data, &msg); err != nil {
			g.log.Warnf("malformed MESSAGE_CREATE payload: %v", err)
			return
		}
		ev := MessageEvent{
			GuildID:   parseID(msg.GuildID),
			ChannelID: parseID(msg.ChannelID),
			AuthorID:  parseID(msg.Author.ID),
			Content:   msg.Content,
		}
		for _, raw := range msg.Member.Roles {
			if id := parseID(raw); id != 0 {
				ev.RoleIDs = append(ev.RoleIDs, id)
			}
		}
		g.events.OnMessage(ev)

	case "MESSAGE_DELETE":
		if g.events.OnMessageDelete == nil {
			return
		}
		var del struct {
			ChannelID string `json:"channel_id"`
		}
		if err := json.Unmarshal(p.Data, &del); err != nil {
			return
		}
		g.events.OnMessageDelete(parseID(del.ChannelID), 1)

	case "MESSAGE_DELETE_BULK":
		if g.events.OnMessageDelete == nil {
			return
		}
		var del struct {
			IDs       []string `json:"ids"`
			ChannelID string   `json:"channel_id"`
		}
		if err := json.Unmarshal(p.Data, &del); err != nil {
			return
		}
		g.events.OnMessageDelete(parseID(del.ChannelID), len(del.IDs))
	}
}
