package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dayStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestNewWorkday_SeedsOpenInterval(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)

	assert.Equal(t, dayStart, w.Begin)
	assert.Nil(t, w.End)
	require.Len(t, w.Intervals, 1)
	assert.Equal(t, Interval{Begin: dayStart, Description: "proj"}, w.Intervals[0])
	assert.Equal(t, WorkdayActive, w.State())
	assert.Equal(t, 0, w.Version, "unsaved workday has no version")
}

func TestState_NilWorkday(t *testing.T) {
	var w *Workday
	assert.Equal(t, WorkdayNone, w.State())
}

func TestTakeBreak_ClosesTail(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	at := dayStart.Add(2 * time.Hour)

	require.NoError(t, w.TakeBreak(at))
	require.NotNil(t, w.Intervals[0].End)
	assert.Equal(t, at, *w.Intervals[0].End)
	assert.Nil(t, w.End, "workday stays open during a break")
	assert.Equal(t, WorkdayOnBreak, w.State())
}

func TestTakeBreak_Twice(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	require.NoError(t, w.TakeBreak(dayStart.Add(time.Hour)))

	err := w.TakeBreak(dayStart.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyOnBreak)
	assert.Equal(t, dayStart.Add(time.Hour), *w.Intervals[0].End, "failed break must not move the tail end")
}

func TestTakeBreak_AfterEnd(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	require.NoError(t, w.EndDay(dayStart.Add(time.Hour)))

	err := w.TakeBreak(dayStart.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrBreakAfterEnd)
	assert.Equal(t, "cannot break that which is already ended", err.Error())
}

func TestContinue_WhileActive(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)

	err := w.Continue("more", dayStart.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNoBreakToContinue)
	assert.Len(t, w.Intervals, 1)
}

func TestContinue_AfterBreak(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	require.NoError(t, w.TakeBreak(dayStart.Add(time.Hour)))

	resume := dayStart.Add(90 * time.Minute)
	require.NoError(t, w.Continue("review", resume))
	require.Len(t, w.Intervals, 2)
	assert.Equal(t, Interval{Begin: resume, Description: "review"}, w.Intervals[1])
	assert.Equal(t, WorkdayActive, w.State())
}

func TestContinue_ReopensEndedDay(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	require.NoError(t, w.EndDay(dayStart.Add(time.Hour)))
	require.Equal(t, WorkdayEnded, w.State())

	require.NoError(t, w.Continue("overtime", dayStart.Add(3*time.Hour)))
	assert.Nil(t, w.End, "continue clears the workday end")
	require.Len(t, w.Intervals, 2)
	assert.True(t, w.Intervals[1].Open())
	assert.Equal(t, WorkdayActive, w.State())
}

func TestEndDay_WhileActive(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	at := dayStart.Add(8 * time.Hour)

	require.NoError(t, w.EndDay(at))
	require.NotNil(t, w.End)
	require.NotNil(t, w.Intervals[0].End)
	assert.Equal(t, at, *w.End)
	assert.Equal(t, *w.Intervals[0].End, *w.End)
}

func TestEndDay_WhileOnBreak_BackDates(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	breakAt := dayStart.Add(4 * time.Hour)
	require.NoError(t, w.TakeBreak(breakAt))

	require.NoError(t, w.EndDay(dayStart.Add(6*time.Hour)))
	require.NotNil(t, w.End)
	assert.Equal(t, breakAt, *w.End, "end is the break start, not the end command time")
	assert.Equal(t, *w.Tail().End, *w.End)
}

func TestEndDay_Twice(t *testing.T) {
	w := NewWorkday("w1", "U1", "proj", dayStart)
	require.NoError(t, w.EndDay(dayStart.Add(time.Hour)))

	err := w.EndDay(dayStart.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyEnded)
	assert.Equal(t, dayStart.Add(time.Hour), *w.End)
}

func TestRoundTrip_StartBreakContinueEnd(t *testing.T) {
	w := NewWorkday("w1", "U1", "x", dayStart)
	require.NoError(t, w.TakeBreak(dayStart.Add(time.Hour)))
	require.NoError(t, w.Continue("z", dayStart.Add(2*time.Hour)))
	require.NoError(t, w.EndDay(dayStart.Add(3*time.Hour)))

	require.Len(t, w.Intervals, 2)
	for i, iv := range w.Intervals {
		assert.False(t, iv.Open(), "interval %d should be closed", i)
	}
	require.NotNil(t, w.End)
	assert.Equal(t, 2*time.Hour, w.Worked(dayStart.Add(10*time.Hour)))
}

func TestWorked_CountsRunningInterval(t *testing.T) {
	w := NewWorkday("w1", "U1", "x", dayStart)
	require.NoError(t, w.TakeBreak(dayStart.Add(time.Hour)))
	require.NoError(t, w.Continue("y", dayStart.Add(2*time.Hour)))

	assert.Equal(t, 90*time.Minute, w.Worked(dayStart.Add(150*time.Minute)))
}

func TestTransitions_EmptyIntervalsIsInternal(t *testing.T) {
	w := &Workday{ID: "w1", Owner: "U1", Begin: dayStart}

	assert.ErrorIs(t, w.TakeBreak(dayStart), ErrCorruptWorkday)
	assert.ErrorIs(t, w.Continue("x", dayStart), ErrCorruptWorkday)
	assert.ErrorIs(t, w.EndDay(dayStart), ErrCorruptWorkday)
	assert.Equal(t, KindInternal, Classify(w.EndDay(dayStart)))
}

func TestDomainError_Lowercases(t *testing.T) {
	err := NewDomainError("Only team owners can delete users.")
	assert.Equal(t, "only team owners can delete users.", err.Error())
	assert.Equal(t, "x 3", Errorf("X %d", 3).Error())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"domain", ErrUnfinishedWorkday, KindDomain},
		{"wrapped domain", fmt.Errorf("starting: %w", ErrAlreadyEnded), KindDomain},
		{"not found", &CommandNotFoundError{Name: "dance"}, KindCommandNotFound},
		{"wrapped not found", fmt.Errorf("x: %w", &CommandNotFoundError{Name: "x"}), KindCommandNotFound},
		{"internal", errors.New("disk on fire"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestDomainError_IsMatchesByMessage(t *testing.T) {
	assert.ErrorIs(t, NewDomainError("Already in a break"), ErrAlreadyOnBreak)
	assert.NotErrorIs(t, ErrAlreadyOnBreak, ErrAlreadyEnded)
}

func TestSplitRealName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"", "", ""},
		{"Cher", "", "Cher"},
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Mary Ann  Evans", "Mary Ann", "Evans"},
	}
	for _, tc := range cases {
		first, last := SplitRealName(tc.in)
		assert.Equal(t, tc.first, first, "first of %q", tc.in)
		assert.Equal(t, tc.last, last, "last of %q", tc.in)
	}
}

func TestIdentity_CanManageUsers(t *testing.T) {
	assert.True(t, Identity{IsOwner: true}.CanManageUsers())
	assert.True(t, Identity{IsAdmin: true}.CanManageUsers())
	assert.False(t, Identity{ID: "U1"}.CanManageUsers())

	u := &User{ChatID: "U9", IsAdmin: true}
	assert.Equal(t, Identity{ID: "U9", IsAdmin: true, Registered: true}, u.Identity())
}
