package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by Reply before Run has connected.
var ErrNotConnected = errors.New("rtm stream is not connected")

// RTMConfig configures the real-time messaging stream.
type RTMConfig struct {
	// URL is the websocket endpoint of the event stream.
	URL   string
	Token string
	// BotID is the bot's own user id. When empty it is taken from the
	// hello event, either from its self block or by matching BotName.
	BotID   string
	BotName string

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

// AuthInfo is what the stream reports about the workspace on connect.
type AuthInfo struct {
	SelfID   string
	SelfName string
	TeamName string
	// OwnerID is the workspace's primary owner.
	OwnerID string
}

// RTMClient reads message events from a websocket stream and dispatches
// each accepted message in its own goroutine. It doubles as the Replier
// for the same stream. Reconnection is left to the caller.
type RTMClient struct {
	cfg    RTMConfig
	dialer *websocket.Dialer
	logger *slog.Logger

	botID  atomic.Value
	nextID atomic.Int64
	onAuth func(AuthInfo)

	writeMu sync.Mutex
	conn    *websocket.Conn

	inflight sync.WaitGroup
}

// NewRTMClient creates an unconnected client.
func NewRTMClient(cfg RTMConfig, logger *slog.Logger) *RTMClient {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &RTMClient{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		logger: logger.With("component", "rtm"),
	}
	c.botID.Store(cfg.BotID)
	return c
}

// OnAuthenticated registers fn to receive the hello event's workspace
// details. It must be called before Run.
func (c *RTMClient) OnAuthenticated(fn func(AuthInfo)) {
	c.onAuth = fn
}

// BotID returns the bot's user id once known.
func (c *RTMClient) BotID() string {
	id, _ := c.botID.Load().(string)
	return id
}

type rtmUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsPrimaryOwner bool   `json:"is_primary_owner"`
}

type rtmEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
	BotID   string `json:"bot_id"`

	Self *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"self"`
	Team *struct {
		Name string `json:"name"`
	} `json:"team"`
	Users []rtmUser `json:"users"`
}

// Run connects and reads events until ctx is cancelled or the stream
// fails. It returns nil on cancellation. Messages already being handled
// are waited for before Run returns; they run on a context that is not
// cancelled with ctx so shutdown does not abort half-applied commands.
func (c *RTMClient) Run(ctx context.Context, h Handler) error {
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return fmt.Errorf("dialing rtm stream: %w", err)
	}

	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Unblock the reader but keep the socket writable for
			// replies from in-flight handlers.
			_ = conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	handlerCtx := context.WithoutCancel(ctx)
	err = c.readLoop(ctx, handlerCtx, conn, h)

	c.inflight.Wait()
	c.writeMu.Lock()
	c.conn = nil
	c.writeMu.Unlock()
	conn.Close()

	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *RTMClient) readLoop(ctx, handlerCtx context.Context, conn *websocket.Conn, h Handler) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading rtm stream: %w", err)
		}

		var ev rtmEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.logger.Warn("dropping undecodable event", "error", err)
			continue
		}

		switch ev.Type {
		case "hello":
			c.authenticated(ev)
		case "message":
			if ev.Subtype != "" || ev.BotID != "" {
				continue
			}
			msg, ok := Filter(Message{User: ev.User, Channel: ev.Channel, Text: ev.Text}, c.BotID())
			if !ok {
				continue
			}
			c.inflight.Add(1)
			go func() {
				defer c.inflight.Done()
				h.HandleMessage(handlerCtx, msg)
			}()
		}
	}
}

func (c *RTMClient) authenticated(ev rtmEvent) {
	info := AuthInfo{}
	if ev.Self != nil {
		info.SelfID = ev.Self.ID
		info.SelfName = ev.Self.Name
	}
	if ev.Team != nil {
		info.TeamName = ev.Team.Name
	}
	for _, u := range ev.Users {
		if u.IsPrimaryOwner && info.OwnerID == "" {
			info.OwnerID = u.ID
		}
		if info.SelfID == "" && c.cfg.BotName != "" && u.Name == c.cfg.BotName {
			info.SelfID = u.ID
			info.SelfName = u.Name
		}
	}

	if c.BotID() == "" && info.SelfID != "" {
		c.botID.Store(info.SelfID)
	}
	c.logger.Info("rtm authenticated",
		"bot_id", c.BotID(),
		"team", info.TeamName,
		"owner", info.OwnerID,
	)
	if c.onAuth != nil {
		c.onAuth(info)
	}
}

type rtmOutgoing struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Reply sends text to channel over the stream.
func (c *RTMClient) Reply(ctx context.Context, channel, text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}

	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	out := rtmOutgoing{
		ID:      c.nextID.Add(1),
		Type:    "message",
		Channel: channel,
		Text:    text,
	}
	if err := c.conn.WriteJSON(out); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}
