package testutil

import (
	"time"

	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference instant used by fixtures and fake clocks.
var FixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// Workday options
type WorkdayOption func(*domain.Workday)

// WithBreakAt closes the tail interval at t.
func WithBreakAt(t time.Time) WorkdayOption {
	return func(w *domain.Workday) {
		w.Intervals[len(w.Intervals)-1].End = &t
	}
}

// WithEndedAt closes the tail interval (if open) and the workday at t.
func WithEndedAt(t time.Time) WorkdayOption {
	return func(w *domain.Workday) {
		tail := &w.Intervals[len(w.Intervals)-1]
		if tail.End == nil {
			tail.End = &t
		}
		w.End = &t
	}
}

// WithCreatedAt overrides creation and begin time of the workday.
func WithCreatedAt(t time.Time) WorkdayOption {
	return func(w *domain.Workday) {
		w.Begin = t
		w.CreatedAt = t
		w.UpdatedAt = t
		w.Intervals[0].Begin = t
	}
}

// NewTestWorkday builds an unsaved open workday for owner starting at FixedNow.
func NewTestWorkday(owner, description string, opts ...WorkdayOption) *domain.Workday {
	w := domain.NewWorkday(uuid.New().String(), owner, description, FixedNow)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// User options
type UserOption func(*domain.User)

func WithOwner() UserOption {
	return func(u *domain.User) {
		u.IsOwner = true
	}
}

func WithAdmin() UserOption {
	return func(u *domain.User) {
		u.IsAdmin = true
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

// NewTestUser builds an unsaved regular user for chatID.
func NewTestUser(chatID string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		ChatName:  "user-" + chatID,
		FirstName: "Test",
		LastName:  chatID,
		CreatedAt: FixedNow,
		UpdatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}
