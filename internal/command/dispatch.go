package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/domain"
)

// InternalErrorReply is the only text a user ever sees for a failure that
// is not their own doing.
const InternalErrorReply = "Problems captain!"

// IdentityResolver maps a chat user id to the caller identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, chatID string) (domain.Identity, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRegistrationRequired rejects callers that are neither registered nor
// the workspace owner.
func WithRegistrationRequired(required bool) Option {
	return func(d *Dispatcher) {
		d.requireRegistration = required
	}
}

// Dispatcher routes parsed messages to handlers and turns every failure
// into exactly one reply.
type Dispatcher struct {
	registry            *Registry
	identities          IdentityResolver
	replier             chat.Replier
	logger              *slog.Logger
	requireRegistration bool
}

// NewDispatcher creates a Dispatcher replying through replier.
func NewDispatcher(registry *Registry, identities IdentityResolver, replier chat.Replier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:   registry,
		identities: identities,
		replier:    replier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "dispatcher")
	return d
}

// HandleMessage implements chat.Handler.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg chat.Message) {
	_ = d.Dispatch(ctx, msg)
}

// Dispatch serves one message. The returned error has already been
// reported to the user; callers only need it for their own bookkeeping.
func (d *Dispatcher) Dispatch(ctx context.Context, msg chat.Message) error {
	return d.DispatchTo(ctx, msg, d.replier)
}

// DispatchTo is Dispatch with replies sent through replier instead of the
// dispatcher's own.
func (d *Dispatcher) DispatchTo(ctx context.Context, msg chat.Message, replier chat.Replier) error {
	cmd := Parse(msg.Text)
	err := d.run(ctx, msg, cmd, replier)
	if err == nil {
		d.logger.DebugContext(ctx, "command served", "user", msg.User, "command", cmd.Name())
		return nil
	}
	d.report(ctx, msg, cmd, replier, err)
	return err
}

func (d *Dispatcher) run(ctx context.Context, msg chat.Message, cmd Command, replier chat.Replier) (err error) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.ErrorContext(ctx, "command handler panicked",
				"user", msg.User,
				"command", cmd.Name(),
				"panic", fmt.Sprint(p),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("command %q panicked: %v", cmd.Name(), p)
		}
	}()

	h, ok := d.registry.Lookup(cmd.Keyword)
	if !ok {
		return &domain.CommandNotFoundError{Name: cmd.Name()}
	}

	caller, err := d.identities.ResolveIdentity(ctx, msg.User)
	if err != nil {
		return fmt.Errorf("resolving caller %s: %w", msg.User, err)
	}
	if d.requireRegistration && !caller.Registered && !caller.IsOwner {
		return domain.ErrNotRegistered
	}

	return h.Handle(ctx, &Request{
		Caller:  caller,
		Message: msg,
		Command: cmd,
		replier: replier,
	})
}

func (d *Dispatcher) report(ctx context.Context, msg chat.Message, cmd Command, replier chat.Replier, err error) {
	var text string
	switch domain.Classify(err) {
	case domain.KindCommandNotFound:
		var notFound *domain.CommandNotFoundError
		errors.As(err, &notFound)
		text = chat.Mention(msg.User) + ", " + notFound.Error()
		d.logger.InfoContext(ctx, "unknown command", "user", msg.User, "command", notFound.Name)
	case domain.KindDomain:
		var domainErr *domain.DomainError
		errors.As(err, &domainErr)
		text = chat.Mention(msg.User) + ", " + domainErr.Error()
		d.logger.InfoContext(ctx, "command rejected", "user", msg.User, "command", cmd.Name(), "reason", domainErr.Error())
	default:
		text = InternalErrorReply
		d.logger.ErrorContext(ctx, "command failed", "user", msg.User, "command", cmd.Name(), "error", err)
	}

	if replyErr := replier.Reply(ctx, msg.Channel, text); replyErr != nil {
		d.logger.ErrorContext(ctx, "sending error reply", "user", msg.User, "channel", msg.Channel, "error", replyErr)
	}
}
