package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/dashboard"
	"offboarding-dashboard/internal/http/dto"
	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/service"
)

type Session interface {
	View(ctx context.Context) (dashboard.View, error)
	Draft() model.Draft
	SetDraft(d model.Draft)
	Submit(ctx context.Context) (*model.Task, bool, error)
	BeginEdit(ctx context.Context, id uint) (bool, error)
	SetEditing(d model.Draft)
	SaveEdit(ctx context.Context) (bool, error)
	Toggle(ctx context.Context, id uint) (bool, error)
	Lookup(ctx context.Context, id uint) (*model.Task, error)
	SetSearch(term string)
	Month() calendar.Month
	ShowMonth(m calendar.Month)
	PrevMonth() calendar.Month
	NextMonth() calendar.Month
	SendReminders(ctx context.Context) ([]service.Reminder, error)
	Notification() string
	ExportICS(ctx context.Context) (string, error)
}

var errMissingFields = errors.New("missing required fields")

// DashboardHandler exposes one shared Session over HTTP.
type DashboardHandler struct {
	mu      sync.Mutex
	session Session
}

func New(session Session) *DashboardHandler {
	return &DashboardHandler{session: session}
}

// GET /dashboard
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	view, err := h.session.View(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed building dashboard")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /tasks
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.SetDraft(req.Draft())
	task, added, err := h.session.Submit(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed adding task")
		return
	}
	if !added {
		writeValidation(w, h.session.Draft().Validate())
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// GET /tasks?q=term
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.SetSearch(r.URL.Query().Get("q"))
	view, err := h.session.View(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed getting tasks")
		return
	}
	writeJSON(w, http.StatusOK, view.Tasks)
}

// PUT /tasks/{id}
func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	found, err := h.session.BeginEdit(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed getting task")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}

	draft := req.Draft()
	h.session.SetEditing(draft)
	saved, err := h.session.SaveEdit(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed updating task")
		return
	}
	if !saved {
		writeValidation(w, draft.Validate())
		return
	}

	h.writeTask(w, r, id)
}

// POST /tasks/{id}/toggle
func (h *DashboardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	found, err := h.session.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed toggling task")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}

	h.writeTask(w, r, id)
}

// GET /calendar?year=2025&month=3
func (h *DashboardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("year") != "" || q.Get("month") != "" {
		month, err := parseMonth(q.Get("year"), q.Get("month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.session.ShowMonth(month)
	}
	h.writeCalendar(w, r)
}

// POST /calendar/prev
func (h *DashboardHandler) PrevMonth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.PrevMonth()
	h.writeCalendar(w, r)
}

// POST /calendar/next
func (h *DashboardHandler) NextMonth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.NextMonth()
	h.writeCalendar(w, r)
}

// GET /calendar.ics
func (h *DashboardHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	body, err := h.session.ExportICS(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed exporting calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="offboarding.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// POST /reminders
func (h *DashboardHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent, err := h.session.SendReminders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed sending reminders")
		return
	}

	resp := dto.RemindersResponse{
		Sent:         len(sent),
		Reminders:    make([]dto.ReminderResponse, 0, len(sent)),
		Notification: h.session.Notification(),
	}
	for _, rem := range sent {
		resp.Reminders = append(resp.Reminders, dto.ReminderResponse{
			PersonToOffboard:  rem.PersonToOffboard,
			ResponsiblePerson: rem.ResponsiblePerson,
			OffboardingType:   rem.OffboardingType,
			Date:              rem.Date,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) writeTask(w http.ResponseWriter, r *http.Request, id uint) {
	task, err := h.session.Lookup(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed getting task")
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *DashboardHandler) writeCalendar(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.View(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed building calendar")
		return
	}
	writeJSON(w, http.StatusOK, dto.CalendarResponse{
		Title:    view.Calendar.Month.String(),
		Weekdays: calendar.Weekdays,
		Grid:     view.Calendar,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, service.ErrInvalidID.Error())
		return 0, false
	}
	return uint(id), true
}

func parseMonth(rawYear, rawMonth string) (calendar.Month, error) {
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return calendar.Month{}, errors.New("invalid year")
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return calendar.Month{}, errors.New("invalid month")
	}
	return calendar.Month{Year: year, Month: time.Month(month)}, nil
}

func writeValidation(w http.ResponseWriter, v model.Validation) {
	writeJSON(w, http.StatusUnprocessableEntity, dto.ValidationResponse{
		Error:   errMissingFields.Error(),
		Missing: v.Missing,
	})
}
