// Package dashboard holds the per-viewer state of the offboarding dashboard:
// the entry form, the task being edited, the search term, the displayed
// calendar month and the notification banner. Hosts drive a Session and
// render its View; a Session is not safe for concurrent use.
package dashboard

import (
	"context"
	"errors"
	"time"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/notify"
	"offboarding-dashboard/internal/service"
)

// Clock returns the current time.
type Clock func() time.Time

// Session is one viewer's dashboard.
type Session struct {
	tasks     *service.TaskService
	reminders *service.ReminderService
	banner    *notify.Banner
	notice    notify.Sink
	now       Clock

	draft   model.Draft
	editing *model.Task
	search  string
	month   calendar.Month
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now Clock) Option {
	return func(s *Session) { s.now = now }
}

// WithBanner replaces the notification banner.
func WithBanner(b *notify.Banner) Option {
	return func(s *Session) { s.banner = b }
}

// WithNotice adds a host sink that also receives notifications.
func WithNotice(sink notify.Sink) Option {
	return func(s *Session) { s.notice = sink }
}

// NewSession starts a dashboard showing the current month.
func NewSession(tasks *service.TaskService, reminders *service.ReminderService, opts ...Option) *Session {
	s := &Session{
		tasks:     tasks,
		reminders: reminders,
		banner:    notify.NewBanner(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.month = calendar.MonthOf(s.now())
	return s
}

// Draft returns the entry form values.
func (s *Session) Draft() model.Draft {
	return s.draft
}

// SetDraft replaces the entry form values.
func (s *Session) SetDraft(d model.Draft) {
	s.draft = d
}

// Submit adds the draft as a task. On success the form is reset; otherwise
// nothing changes and the form keeps its values.
func (s *Session) Submit(ctx context.Context) (*model.Task, bool, error) {
	task, added, err := s.tasks.AddTask(ctx, s.draft)
	if err != nil || !added {
		return nil, false, err
	}
	s.draft = model.Draft{}
	return task, true, nil
}

// BeginEdit opens inline editing for id. It reports false for unknown ids.
func (s *Session) BeginEdit(ctx context.Context, id uint) (bool, error) {
	task, err := s.tasks.GetTask(ctx, id)
	switch {
	case err == nil:
		s.editing = task
		return true, nil
	case isMissing(err):
		return false, nil
	default:
		return false, err
	}
}

// Editing returns the task under edit, or nil.
func (s *Session) Editing() *model.Task {
	if s.editing == nil {
		return nil
	}
	task := *s.editing
	return &task
}

// SetEditing replaces the edited values. The id under edit cannot change.
func (s *Session) SetEditing(d model.Draft) {
	if s.editing == nil {
		return
	}
	s.editing.Apply(d)
}

// SaveEdit stores the edited task and leaves edit mode. Invalid values and
// vanished ids keep the session in edit mode.
func (s *Session) SaveEdit(ctx context.Context) (bool, error) {
	if s.editing == nil {
		return false, nil
	}
	ok, err := s.tasks.UpdateTask(ctx, *s.editing)
	if err != nil || !ok {
		return false, err
	}
	s.editing = nil
	return true, nil
}

// CancelEdit leaves edit mode without saving.
func (s *Session) CancelEdit() {
	s.editing = nil
}

// Toggle flips completion of id. It reports false for unknown ids.
func (s *Session) Toggle(ctx context.Context, id uint) (bool, error) {
	task, err := s.tasks.ToggleCompletion(ctx, id)
	if err != nil {
		return false, err
	}
	return task != nil, nil
}

// Lookup returns the stored task, or nil for unknown ids.
func (s *Session) Lookup(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if isMissing(err) {
		return nil, nil
	}
	return task, err
}

// Search returns the current filter term.
func (s *Session) Search() string {
	return s.search
}

// SetSearch changes the filter term.
func (s *Session) SetSearch(term string) {
	s.search = term
}

// Month returns the displayed calendar month.
func (s *Session) Month() calendar.Month {
	return s.month
}

// PrevMonth moves the calendar back one month.
func (s *Session) PrevMonth() calendar.Month {
	s.month = s.month.Prev()
	return s.month
}

// NextMonth moves the calendar forward one month.
func (s *Session) NextMonth() calendar.Month {
	s.month = s.month.Next()
	return s.month
}

// ShowMonth jumps the calendar to m.
func (s *Session) ShowMonth(m calendar.Month) {
	s.month = m
}

// SendReminders runs the reminder stub and shows the notification.
func (s *Session) SendReminders(ctx context.Context) ([]service.Reminder, error) {
	sinks := notify.Fanout{s.banner}
	if s.notice != nil {
		sinks = append(sinks, s.notice)
	}
	return s.reminders.SendReminders(ctx, sinks)
}

// Notification returns the visible notification text.
func (s *Session) Notification() string {
	return s.banner.Message()
}

// ExportICS renders every task as an iCalendar document.
func (s *Session) ExportICS(ctx context.Context) (string, error) {
	all, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return "", err
	}
	return calendar.ExportICS(all, s.now()), nil
}

// View is everything a host needs to render the dashboard.
type View struct {
	Draft        model.Draft   `json:"draft"`
	CanSubmit    bool          `json:"canSubmit"`
	Editing      *model.Task   `json:"editing,omitempty"`
	Search       string        `json:"search"`
	Tasks        []TaskRow     `json:"tasks"`
	TaskCount    int           `json:"taskCount"`
	Calendar     calendar.Grid `json:"calendar"`
	Notification string        `json:"notification,omitempty"`
}

// TaskRow is a task in the filtered list.
type TaskRow struct {
	model.Task
	Tone    model.Tone `json:"tone"`
	Editing bool       `json:"editing"`
}

// View recomputes the filtered list and calendar from current state.
func (s *Session) View(ctx context.Context) (View, error) {
	all, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return View{}, err
	}

	rows := make([]TaskRow, 0, len(all))
	for _, task := range all {
		if !task.Matches(s.search) {
			continue
		}
		rows = append(rows, TaskRow{
			Task:    task,
			Tone:    model.ToneFor(task.OffboardingType),
			Editing: s.editing != nil && s.editing.ID == task.ID,
		})
	}

	return View{
		Draft:        s.draft,
		CanSubmit:    s.draft.Validate().OK(),
		Editing:      s.Editing(),
		Search:       s.search,
		Tasks:        rows,
		TaskCount:    len(all),
		Calendar:     calendar.Build(all, s.month, s.now()),
		Notification: s.banner.Message(),
	}, nil
}

func isMissing(err error) bool {
	return errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidID)
}
