package command

import (
	"context"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/domain"
)

// Request is everything a handler needs to serve one command.
type Request struct {
	Caller  domain.Identity
	Message chat.Message
	Command Command

	replier chat.Replier
}

// Args is shorthand for the parsed command arguments.
func (r *Request) Args() string { return r.Command.Args }

// Reply sends text to the channel the command came from.
func (r *Request) Reply(ctx context.Context, text string) error {
	return r.replier.Reply(ctx, r.Message.Channel, text)
}

// Handler serves one command. It replies on success itself; any returned
// error is reported by the dispatcher.
type Handler interface {
	Handle(ctx context.Context, req *Request) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) error

func (f HandlerFunc) Handle(ctx context.Context, req *Request) error { return f(ctx, req) }
