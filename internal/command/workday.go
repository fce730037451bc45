package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/service"
)

// RegisterWorkdayCommands installs the start, break, continue, end and
// status built-ins.
func RegisterWorkdayCommands(r *Registry, workdays service.WorkdayService, clk clock.Clock) error {
	if clk == nil {
		clk = clock.Real()
	}
	h := workdayHandlers{workdays: workdays, clock: clk}
	for name, fn := range map[string]HandlerFunc{
		"start":    h.start,
		"break":    h.breakDay,
		"continue": h.continueDay,
		"end":      h.end,
		"status":   h.status,
	} {
		if err := r.RegisterBuiltin(name, fn); err != nil {
			return err
		}
	}
	return nil
}

type workdayHandlers struct {
	workdays service.WorkdayService
	clock    clock.Clock
}

func (h workdayHandlers) start(ctx context.Context, req *Request) error {
	if _, err := h.workdays.Start(ctx, req.Caller.ID, req.Args()); err != nil {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("%s's workday is just started with %s.", chat.Mention(req.Caller.ID), req.Args()))
}

func (h workdayHandlers) breakDay(ctx context.Context, req *Request) error {
	if _, err := h.workdays.Break(ctx, req.Caller.ID, req.Args()); err != nil {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("%s is giving a break. (%s)", chat.Mention(req.Caller.ID), req.Args()))
}

func (h workdayHandlers) continueDay(ctx context.Context, req *Request) error {
	if _, err := h.workdays.Continue(ctx, req.Caller.ID, req.Args()); err != nil {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("%s's workday continues with %s.", chat.Mention(req.Caller.ID), req.Args()))
}

func (h workdayHandlers) end(ctx context.Context, req *Request) error {
	if _, err := h.workdays.End(ctx, req.Caller.ID); err != nil {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("End of the workday for %s.", chat.Mention(req.Caller.ID)))
}

func (h workdayHandlers) status(ctx context.Context, req *Request) error {
	w, err := h.workdays.Current(ctx, req.Caller.ID)
	if err != nil {
		return err
	}
	return req.Reply(ctx, DescribeWorkday(chat.Mention(req.Caller.ID), w, h.clock.Now()))
}

// DescribeWorkday renders a one-line summary of w for who.
func DescribeWorkday(who string, w *domain.Workday, now time.Time) string {
	state := w.State()
	if state == domain.WorkdayNone {
		return fmt.Sprintf("%s has no workday on record.", who)
	}
	worked := FormatDuration(w.Worked(now))
	begin := w.Begin.UTC().Format("15:04")
	switch state {
	case domain.WorkdayActive:
		return fmt.Sprintf("%s is working on %s since %s UTC, %s worked today.", who, describe(w.Tail().Description), begin, worked)
	case domain.WorkdayOnBreak:
		return fmt.Sprintf("%s is on a break since %s UTC, %s worked today.", who, w.Tail().End.UTC().Format("15:04"), worked)
	case domain.WorkdayEnded:
		return fmt.Sprintf("%s's last workday ran %s to %s UTC, %s worked.", who, begin, w.End.UTC().Format("15:04"), worked)
	default:
		return fmt.Sprintf("%s's workday is in an unknown state %q.", who, state)
	}
}

func describe(text string) string {
	if strings.TrimSpace(text) == "" {
		return "something"
	}
	return text
}

// FormatDuration renders d as "2h05m" or "45m", rounded down to minutes.
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

type helpHandler struct {
	registry *Registry
}

func (h helpHandler) Handle(ctx context.Context, req *Request) error {
	return req.Reply(ctx, fmt.Sprintf("%s, available commands: %s.",
		chat.Mention(req.Caller.ID), strings.Join(h.registry.Names(), ", ")))
}
