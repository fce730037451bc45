package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/db"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrOnlyOwnersCreate = domain.NewDomainError("only team owners can create users.")
	ErrOnlyOwnersDelete = domain.NewDomainError("only team owners can delete users.")
	ErrUserRegistered   = domain.NewDomainError("user is already registered.")
	ErrUserUnknown      = domain.NewDomainError("user is not registered.")
)

type userService struct {
	users     repository.UserRepo
	uow       db.UnitOfWork
	directory Directory
	clock     clock.Clock
	ownerID   atomic.Value
	observer  UseCaseObserver
}

// NewUserService wires user management. ownerID may be empty and set
// later with SetOwnerID once the chat connection reports it.
func NewUserService(
	users repository.UserRepo,
	uow db.UnitOfWork,
	directory Directory,
	clk clock.Clock,
	ownerID string,
	observers ...UseCaseObserver,
) UserService {
	if clk == nil {
		clk = clock.Real()
	}
	s := &userService{
		users:     users,
		uow:       uow,
		directory: directory,
		clock:     clk,
		observer:  useCaseObserverOrNoop(observers),
	}
	s.ownerID.Store(ownerID)
	return s
}

func (s *userService) SetOwnerID(chatID string) {
	s.ownerID.Store(chatID)
}

func (s *userService) owner() string {
	id, _ := s.ownerID.Load().(string)
	return id
}

func (s *userService) ResolveIdentity(ctx context.Context, chatID string) (domain.Identity, error) {
	isOwner := chatID != "" && chatID == s.owner()

	u, err := s.users.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{ID: chatID, IsOwner: isOwner}, nil
		}
		return domain.Identity{}, fmt.Errorf("resolving identity %s: %w", chatID, err)
	}
	id := u.Identity()
	id.IsOwner = id.IsOwner || isOwner
	return id, nil
}

func (s *userService) Create(ctx context.Context, caller domain.Identity, chatID string) (result *domain.User, err error) {
	defer s.observe(ctx, "create-user", caller, chatID, s.clock.Now(), &err)

	if !caller.CanManageUsers() {
		return nil, ErrOnlyOwnersCreate
	}
	entry, err := s.lookup(ctx, chatID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	u := entry.ToUser(uuid.New().String())
	u.CreatedAt = now
	u.UpdatedAt = now

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrUserRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, caller domain.Identity, chatID string) (result *domain.User, err error) {
	defer s.observe(ctx, "update-user", caller, chatID, s.clock.Now(), &err)

	if chatID != caller.ID && !caller.CanManageUsers() {
		return nil, domain.ErrPermissionDenied
	}
	entry, err := s.lookup(ctx, chatID)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		existing, err := txUsers.GetByChatID(ctx, chatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserUnknown
			}
			return err
		}

		updated := entry.ToUser(existing.ID)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = s.clock.Now()
		if err := txUsers.Update(ctx, updated); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrUserRegistered
			}
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *userService) Delete(ctx context.Context, caller domain.Identity, chatID string) (err error) {
	defer s.observe(ctx, "delete-user", caller, chatID, s.clock.Now(), &err)

	if !caller.IsOwner {
		return ErrOnlyOwnersDelete
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).DeleteByChatID(ctx, chatID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserUnknown
			}
			return err
		}
		return nil
	})
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) lookup(ctx context.Context, chatID string) (*domain.DirectoryEntry, error) {
	if s.directory == nil {
		return nil, errors.New("user directory is not configured")
	}
	entry, err := s.directory.LookupUser(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("looking up user %s: %w", chatID, err)
	}
	return entry, nil
}

func (s *userService) observe(ctx context.Context, name string, caller domain.Identity, target string, startedAt time.Time, errp *error) {
	err := *errp
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.clock.Now().Sub(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"caller": caller.ID, "target": target},
	})
}
