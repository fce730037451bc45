package service

import (
	"context"

	"github.com/HKK13/hello-bott/internal/domain"
)

// WorkdayService runs the per-user workday state machine. Every mutating
// operation loads the owner's most recent workday, applies one transition
// and saves it atomically.
type WorkdayService interface {
	Start(ctx context.Context, owner, description string) (*domain.Workday, error)
	Break(ctx context.Context, owner, description string) (*domain.Workday, error)
	Continue(ctx context.Context, owner, description string) (*domain.Workday, error)
	End(ctx context.Context, owner string) (*domain.Workday, error)

	// Current returns the owner's most recent workday or domain.ErrNoWorkday.
	Current(ctx context.Context, owner string) (*domain.Workday, error)
	History(ctx context.Context, owner string, limit int) ([]*domain.Workday, error)
}

// UserService manages registered team members and resolves callers.
type UserService interface {
	Create(ctx context.Context, caller domain.Identity, chatID string) (*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, chatID string) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Identity, chatID string) error
	List(ctx context.Context) ([]*domain.User, error)

	// ResolveIdentity returns the normalized caller for a chat user id.
	ResolveIdentity(ctx context.Context, chatID string) (domain.Identity, error)
	// SetOwnerID records the chat platform's primary owner, who is
	// treated as an owner before being registered.
	SetOwnerID(chatID string)
}

// Directory looks up users in the chat platform's user directory.
type Directory interface {
	LookupUser(ctx context.Context, chatID string) (*domain.DirectoryEntry, error)
}
