package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/HKK13/hello-bott/internal/domain"
)

// FormatWorkday renders a single workday as a boxed timeline of its
// intervals, with breaks shown as the gaps between them.
func FormatWorkday(w *domain.Workday, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", StatePill(w.State()), Dim(DayLabel(w.Begin, now)))
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Worked:"), Bold(FormatWorked(w.Worked(now))))

	for i, iv := range w.Intervals {
		if i > 0 {
			prev := w.Intervals[i-1]
			if prev.End != nil && iv.Begin.After(*prev.End) {
				fmt.Fprintf(&b, "  %s\n", StyleYellow.Render(
					fmt.Sprintf("break %s", FormatWorked(iv.Begin.Sub(*prev.End)))))
			}
		}
		end := StyleGreen.Render("now")
		if iv.End != nil {
			end = ClockTime(*iv.End)
		}
		fmt.Fprintf(&b, "%s %s %s  %s\n", ClockTime(iv.Begin), Dim("→"), end, orDash(iv.Description))
	}
	if w.State() == domain.WorkdayOnBreak {
		fmt.Fprintf(&b, "  %s\n", StyleYellow.Render("on break since "+ClockTime(*w.Tail().End)))
	}

	return RenderBox("Workday "+w.Owner, strings.TrimRight(b.String(), "\n"))
}

// FormatWorkdayList renders workdays newest first as a table.
func FormatWorkdayList(workdays []*domain.Workday, now time.Time) string {
	if len(workdays) == 0 {
		return Dim("No workdays recorded.") + "\n"
	}

	rows := make([][]string, 0, len(workdays))
	for _, w := range workdays {
		end := "--"
		if w.End != nil {
			end = ClockTime(*w.End)
		}
		rows = append(rows, []string{
			TruncID(w.ID),
			DayLabel(w.Begin, now),
			ClockTime(w.Begin),
			end,
			FormatWorked(w.Worked(now)),
			fmt.Sprintf("%d", len(w.Intervals)),
			StatePill(w.State()),
		})
	}
	return RenderTable([]string{"ID", "DAY", "BEGIN", "END", "WORKED", "INTERVALS", "STATE"}, rows)
}

// FormatUsers renders registered users as a table.
func FormatUsers(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users are registered yet.") + "\n"
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		role := Dim("member")
		switch {
		case u.IsOwner:
			role = StyleRed.Render("owner")
		case u.IsAdmin:
			role = StyleYellow.Render("admin")
		}
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		rows = append(rows, []string{u.ChatID, orDash(u.ChatName), orDash(name), orDash(u.Email), role})
	}
	return RenderTable([]string{"CHAT ID", "HANDLE", "NAME", "EMAIL", "ROLE"}, rows)
}
