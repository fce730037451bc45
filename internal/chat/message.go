// Package chat connects the bot to a chat platform: the inbound message
// envelope, the reply sink, the real-time event stream and the user
// directory.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Message is one inbound chat message addressed to the bot.
type Message struct {
	User    string `json:"user"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Replier sends text back to a channel.
type Replier interface {
	Reply(ctx context.Context, channel, text string) error
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, channel, text string) error

func (f ReplierFunc) Reply(ctx context.Context, channel, text string) error {
	return f(ctx, channel, text)
}

// Handler consumes accepted messages.
type Handler interface {
	HandleMessage(ctx context.Context, msg Message)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg Message)

func (f HandlerFunc) HandleMessage(ctx context.Context, msg Message) { f(ctx, msg) }

// Mention formats a user mention the way the platform renders it.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// Filter decides whether a raw message is addressed to the bot. Messages
// written by the bot itself are dropped. In public channels (ids starting
// with C) the bot must be mentioned first; direct messages (ids starting
// with D) are always accepted. Every other channel kind is ignored. The
// returned message has its text trimmed and the leading mention removed.
func Filter(msg Message, botID string) (Message, bool) {
	if msg.User == "" || (botID != "" && msg.User == botID) {
		return Message{}, false
	}

	text := strings.TrimSpace(msg.Text)
	mentioned := false
	if botID != "" {
		var rest string
		rest, mentioned = stripMention(text, botID)
		if mentioned {
			text = rest
		}
	}

	switch {
	case strings.HasPrefix(msg.Channel, "C"):
		if !mentioned {
			return Message{}, false
		}
	case strings.HasPrefix(msg.Channel, "D"):
	default:
		return Message{}, false
	}

	msg.Text = text
	return msg, true
}

// stripMention removes a leading <@botID> or <@botID|name> token.
func stripMention(text, botID string) (string, bool) {
	prefix := "<@" + botID
	if !strings.HasPrefix(text, prefix) {
		return text, false
	}
	rest := text[len(prefix):]
	switch {
	case strings.HasPrefix(rest, ">"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "|"):
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return text, false
		}
		rest = rest[end+1:]
	default:
		return text, false
	}
	rest = strings.TrimLeft(rest, " \t:,")
	return strings.TrimSpace(rest), true
}

// Collector is a Replier that keeps replies in memory, in order.
type Collector struct {
	mu      sync.Mutex
	replies []string
}

func (c *Collector) Reply(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, text)
	return nil
}

// Replies returns a copy of the collected reply texts.
func (c *Collector) Replies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.replies...)
}

// WriterReplier prints every reply as one line on W.
type WriterReplier struct {
	W io.Writer
}

func (r WriterReplier) Reply(_ context.Context, _ string, text string) error {
	_, err := fmt.Fprintln(r.W, text)
	return err
}
