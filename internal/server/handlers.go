package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HKK13/hello-bott/internal/chat"
	"github.com/HKK13/hello-bott/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messageResponse struct {
	Replies []string `json:"replies"`
	// Outcome is ok, rejected, not_found or failed.
	Outcome string `json:"outcome"`
}

// postMessage runs one command as if it arrived over chat and returns the
// replies it produced.
func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	var msg chat.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	msg.User = strings.TrimSpace(msg.User)
	if msg.User == "" {
		respondError(w, http.StatusBadRequest, "user is required")
		return
	}
	if msg.Channel == "" {
		msg.Channel = "D" + msg.User
	}

	var replies chat.Collector
	err := h.deps.Dispatcher.DispatchTo(r.Context(), msg, &replies)

	resp := messageResponse{Replies: replies.Replies(), Outcome: outcome(err)}
	respondJSON(w, http.StatusOK, resp)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch domain.Classify(err) {
	case domain.KindDomain:
		return "rejected"
	case domain.KindCommandNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

type intervalView struct {
	Begin       time.Time  `json:"begin"`
	End         *time.Time `json:"end,omitempty"`
	Description string     `json:"description"`
}

type workdayView struct {
	ID            string         `json:"id"`
	Owner         string         `json:"owner"`
	State         string         `json:"state"`
	Begin         time.Time      `json:"begin"`
	End           *time.Time     `json:"end,omitempty"`
	WorkedMinutes int            `json:"worked_minutes"`
	Intervals     []intervalView `json:"intervals"`
}

func toWorkdayView(w *domain.Workday, now time.Time) workdayView {
	v := workdayView{
		ID:            w.ID,
		Owner:         w.Owner,
		State:         string(w.State()),
		Begin:         w.Begin,
		End:           w.End,
		WorkedMinutes: int(w.Worked(now) / time.Minute),
		Intervals:     make([]intervalView, len(w.Intervals)),
	}
	for i, iv := range w.Intervals {
		v.Intervals[i] = intervalView{Begin: iv.Begin, End: iv.End, Description: iv.Description}
	}
	return v
}

func (h *handlers) currentWorkday(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	wd, err := h.deps.Workdays.Current(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoWorkday) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "loading current workday", "user", user, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, toWorkdayView(wd, h.deps.Clock.Now()))
}

func (h *handlers) listWorkdays(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	days, err := h.deps.Workdays.History(r.Context(), user, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing workdays", "user", user, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	now := h.deps.Clock.Now()
	views := make([]workdayView, len(days))
	for i, d := range days {
		views[i] = toWorkdayView(d, now)
	}
	respondJSON(w, http.StatusOK, map[string]any{"workdays": views})
}
