package repository

import (
	"context"

	"github.com/HKK13/hello-bott/internal/domain"
)

// WorkdayRepo persists workdays together with their intervals.
type WorkdayRepo interface {
	// FindMostRecent returns the owner's workday with the latest
	// created_at, or ErrNotFound.
	FindMostRecent(ctx context.Context, owner string) (*domain.Workday, error)
	GetByID(ctx context.Context, id string) (*domain.Workday, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*domain.Workday, error)
	// Save inserts the workday when Version is zero and otherwise updates
	// it only if the stored version still matches, returning ErrConflict
	// when it does not. On success Version is advanced.
	Save(ctx context.Context, w *domain.Workday) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByChatID(ctx context.Context, chatID string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	DeleteByChatID(ctx context.Context, chatID string) error
}
