package domain

import "time"

// WorkdayState is the derived lifecycle state of a user's workday.
type WorkdayState string

const (
	WorkdayNone    WorkdayState = "none"
	WorkdayActive  WorkdayState = "active"
	WorkdayOnBreak WorkdayState = "on_break"
	WorkdayEnded   WorkdayState = "ended"
)

// Interval is a contiguous span of work inside a Workday.
type Interval struct {
	Begin       time.Time
	End         *time.Time
	Description string
}

// Open reports whether the interval has not been closed yet.
func (i Interval) Open() bool { return i.End == nil }

// Workday tracks one user's work session and its intervals. Intervals are
// kept in chronological order and only the tail may be open.
type Workday struct {
	ID        string
	Owner     string
	Begin     time.Time
	End       *time.Time
	Intervals []Interval
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is the optimistic concurrency counter. Zero means the
	// workday has not been persisted yet.
	Version int
}

// NewWorkday opens a workday for owner seeded with its first interval.
func NewWorkday(id, owner, description string, now time.Time) *Workday {
	return &Workday{
		ID:        id,
		Owner:     owner,
		Begin:     now,
		Intervals: []Interval{{Begin: now, Description: description}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State derives the lifecycle state from End and the tail interval.
func (w *Workday) State() WorkdayState {
	if w == nil || len(w.Intervals) == 0 {
		return WorkdayNone
	}
	if w.End != nil {
		return WorkdayEnded
	}
	if w.tail().Open() {
		return WorkdayActive
	}
	return WorkdayOnBreak
}

// Ended reports whether the workday has been closed.
func (w *Workday) Ended() bool { return w.End != nil }

// Tail returns the most recent interval.
func (w *Workday) Tail() Interval { return *w.tail() }

func (w *Workday) tail() *Interval { return &w.Intervals[len(w.Intervals)-1] }

// TakeBreak closes the open tail interval. The workday itself stays open.
func (w *Workday) TakeBreak(now time.Time) error {
	if len(w.Intervals) == 0 {
		return ErrCorruptWorkday
	}
	if w.End != nil {
		return ErrBreakAfterEnd
	}
	tail := w.tail()
	if !tail.Open() {
		return ErrAlreadyOnBreak
	}
	tail.End = &now
	w.UpdatedAt = now
	return nil
}

// Continue appends a new open interval after a break. An ended workday is
// reopened: ending a day is not terminal while a later continue arrives.
func (w *Workday) Continue(description string, now time.Time) error {
	if len(w.Intervals) == 0 {
		return ErrCorruptWorkday
	}
	if w.tail().Open() {
		return ErrNoBreakToContinue
	}
	w.End = nil
	w.Intervals = append(w.Intervals, Interval{Begin: now, Description: description})
	w.UpdatedAt = now
	return nil
}

// EndDay closes the workday. When the tail is still open it is closed at
// now; when the user is on a break the workday end is back-dated to the
// moment the break began.
func (w *Workday) EndDay(now time.Time) error {
	if len(w.Intervals) == 0 {
		return ErrCorruptWorkday
	}
	if w.End != nil {
		return ErrAlreadyEnded
	}
	tail := w.tail()
	if tail.Open() {
		tail.End = &now
		end := now
		w.End = &end
	} else {
		end := *tail.End
		w.End = &end
	}
	w.UpdatedAt = now
	return nil
}

// Worked sums the closed and running interval durations up to now.
func (w *Workday) Worked(now time.Time) time.Duration {
	var total time.Duration
	for _, iv := range w.Intervals {
		end := now
		if iv.End != nil {
			end = *iv.End
		}
		if end.After(iv.Begin) {
			total += end.Sub(iv.Begin)
		}
	}
	return total
}
