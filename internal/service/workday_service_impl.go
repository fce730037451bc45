package service

import (
	"context"
	"errors"
	"time"

	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/db"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/repository"
	"github.com/google/uuid"
)

type workdayService struct {
	workdays repository.WorkdayRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	locks    *userLocks
	observer UseCaseObserver
}

// NewWorkdayService wires the workday state machine. Reads go through
// workdays; mutations run inside uow with tx-scoped repositories.
func NewWorkdayService(
	workdays repository.WorkdayRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	observers ...UseCaseObserver,
) WorkdayService {
	if clk == nil {
		clk = clock.Real()
	}
	return &workdayService{
		workdays: workdays,
		uow:      uow,
		clock:    clk,
		locks:    newUserLocks(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *workdayService) Start(ctx context.Context, owner, description string) (*domain.Workday, error) {
	return s.mutate(ctx, "start-workday", owner, func(current *domain.Workday, now time.Time) (*domain.Workday, error) {
		if current != nil && !current.Ended() {
			return nil, domain.ErrUnfinishedWorkday
		}
		return domain.NewWorkday(uuid.New().String(), owner, description, now), nil
	})
}

func (s *workdayService) Break(ctx context.Context, owner, description string) (*domain.Workday, error) {
	return s.mutate(ctx, "break-workday", owner, func(current *domain.Workday, now time.Time) (*domain.Workday, error) {
		if current == nil {
			return nil, domain.ErrNoWorkday
		}
		if err := current.TakeBreak(now); err != nil {
			return nil, err
		}
		return current, nil
	})
}

func (s *workdayService) Continue(ctx context.Context, owner, description string) (*domain.Workday, error) {
	return s.mutate(ctx, "continue-workday", owner, func(current *domain.Workday, now time.Time) (*domain.Workday, error) {
		if current == nil {
			return nil, domain.ErrNoWorkday
		}
		if err := current.Continue(description, now); err != nil {
			return nil, err
		}
		return current, nil
	})
}

func (s *workdayService) End(ctx context.Context, owner string) (*domain.Workday, error) {
	return s.mutate(ctx, "end-workday", owner, func(current *domain.Workday, now time.Time) (*domain.Workday, error) {
		if current == nil {
			return nil, domain.ErrNoWorkday
		}
		if err := current.EndDay(now); err != nil {
			return nil, err
		}
		return current, nil
	})
}

func (s *workdayService) Current(ctx context.Context, owner string) (*domain.Workday, error) {
	w, err := s.workdays.FindMostRecent(ctx, owner)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrNoWorkday
	}
	return w, err
}

func (s *workdayService) History(ctx context.Context, owner string, limit int) ([]*domain.Workday, error) {
	return s.workdays.ListByOwner(ctx, owner, limit)
}

// transition computes the workday to persist from the owner's most recent
// one (nil when the owner has none).
type transition func(current *domain.Workday, now time.Time) (*domain.Workday, error)

// mutate runs one transition as load-mutate-save inside a transaction
// while holding the owner's lock. A version conflict on save means another
// process won the race; it surfaces as a domain error instead of
// overwriting the winner.
func (s *workdayService) mutate(ctx context.Context, name, owner string, apply transition) (result *domain.Workday, err error) {
	startedAt := s.clock.Now()
	fields := map[string]any{"user": owner}
	defer func() {
		if result != nil {
			fields["workday_id"] = result.ID
			fields["state"] = string(result.State())
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  s.clock.Now().Sub(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	unlock := s.locks.lock(owner)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkdays := repository.NewSQLiteWorkdayRepo(tx)

		current, err := txWorkdays.FindMostRecent(ctx, owner)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		next, err := apply(current, s.clock.Now())
		if err != nil {
			return err
		}
		if err := txWorkdays.Save(ctx, next); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.ErrConcurrentWorkday
			}
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
