package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/notify"
	"offboarding-dashboard/internal/repository"
	"offboarding-dashboard/internal/service"
)

type manualTimer struct {
	fns []func()
}

func (m *manualTimer) after(d time.Duration, fn func()) *time.Timer {
	m.fns = append(m.fns, fn)
	return nil
}

type discardSink struct{}

func (discardSink) Remind(service.Reminder) {}

type fixture struct {
	session *Session
	timer   *manualTimer
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()

	db, err := repository.NewDB(repository.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := repository.NewTaskRepository(db)

	timer := &manualTimer{}
	s := NewSession(
		service.NewTaskService(repo),
		service.NewReminderService(repo, discardSink{}, notify.DefaultTTL),
		WithClock(func() time.Time { return now }),
		WithBanner(notify.NewBannerWithTimer(timer.after)),
	)
	return fixture{session: s, timer: timer}
}

var today = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func alice() model.Draft {
	return model.Draft{
		Date:              "2025-03-15",
		PersonToOffboard:  "Alice",
		ResponsiblePerson: "Bob",
		OffboardingType:   model.TypeImmediate,
		Category:          "IT",
	}
}

func TestSession_StartsOnCurrentMonth(t *testing.T) {
	f := newFixture(t, today)
	assert.Equal(t, calendar.Month{Year: 2025, Month: time.March}, f.session.Month())
}

func TestSession_SubmitValidResetsDraft(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	task, added, err := f.session.Submit(ctx)
	require.NoError(t, err)
	require.True(t, added)
	assert.False(t, task.Completed)
	assert.Equal(t, model.Draft{}, f.session.Draft())

	view, err := f.session.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TaskCount)
	assert.False(t, view.CanSubmit)
}

func TestSession_SubmitInvalidKeepsDraft(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	d := alice()
	d.ResponsiblePerson = ""
	f.session.SetDraft(d)

	view, err := f.session.View(ctx)
	require.NoError(t, err)
	assert.False(t, view.CanSubmit)

	task, added, err := f.session.Submit(ctx)
	assert.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, task)
	assert.Equal(t, d, f.session.Draft())

	view, err = f.session.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TaskCount)
}

func TestSession_EditFlow(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	task, _, err := f.session.Submit(ctx)
	require.NoError(t, err)

	ok, err := f.session.BeginEdit(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	view, err := f.session.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.True(t, view.Tasks[0].Editing)

	invalid := alice()
	invalid.Date = ""
	f.session.SetEditing(invalid)
	saved, err := f.session.SaveEdit(ctx)
	require.NoError(t, err)
	assert.False(t, saved)
	require.NotNil(t, f.session.Editing(), "invalid save stays in edit mode")

	edited := alice()
	edited.PersonToOffboard = "Alicia"
	f.session.SetEditing(edited)
	saved, err = f.session.SaveEdit(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Nil(t, f.session.Editing())

	view, err = f.session.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", view.Tasks[0].PersonToOffboard)
	assert.Equal(t, task.ID, view.Tasks[0].ID)
}

func TestSession_BeginEditUnknown(t *testing.T) {
	f := newFixture(t, today)

	ok, err := f.session.BeginEdit(context.Background(), 77)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, f.session.Editing())

	saved, err := f.session.SaveEdit(context.Background())
	assert.NoError(t, err)
	assert.False(t, saved)
}

func TestSession_CancelEdit(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	task, _, err := f.session.Submit(ctx)
	require.NoError(t, err)

	_, err = f.session.BeginEdit(ctx, task.ID)
	require.NoError(t, err)
	f.session.SetEditing(model.Draft{})
	f.session.CancelEdit()

	view, err := f.session.View(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Editing)
	assert.Equal(t, "Alice", view.Tasks[0].PersonToOffboard)
}

func TestSession_ToggleAndSearch(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	first, _, err := f.session.Submit(ctx)
	require.NoError(t, err)
	f.session.SetDraft(model.Draft{Date: "2025-03-20", PersonToOffboard: "Carol", ResponsiblePerson: "Dan", OffboardingType: model.TypeLong})
	_, _, err = f.session.Submit(ctx)
	require.NoError(t, err)

	ok, err := f.session.Toggle(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.session.Toggle(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	f.session.SetSearch("LONG")
	view, err := f.session.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "Carol", view.Tasks[0].PersonToOffboard)
	assert.Equal(t, model.ToneOrange, view.Tasks[0].Tone)
	assert.Equal(t, 2, view.TaskCount)

	f.session.SetSearch("")
	view, err = f.session.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tasks, 2)
	assert.True(t, view.Tasks[0].Completed)
	assert.Equal(t, "Carol", view.Tasks[1].PersonToOffboard)
}

func TestSession_CalendarFollowsNavigation(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	_, _, err := f.session.Submit(ctx)
	require.NoError(t, err)

	view, err := f.session.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Calendar.Days[14].Markers, 1)
	assert.Equal(t, "Alice", view.Calendar.Days[14].Markers[0].Name)
	assert.Equal(t, model.ToneRed, view.Calendar.Days[14].Markers[0].Tone)
	assert.True(t, view.Calendar.Days[9].Today)

	f.session.SetSearch("nobody")
	view, err = f.session.View(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Calendar.Days[14].Markers, 1, "calendar is not filtered")

	assert.Equal(t, calendar.Month{Year: 2025, Month: time.April}, f.session.NextMonth())
	view, err = f.session.View(ctx)
	require.NoError(t, err)
	for _, day := range view.Calendar.Days {
		assert.Empty(t, day.Markers)
		assert.False(t, day.Today)
	}

	f.session.ShowMonth(calendar.Month{Year: 2025, Month: time.January})
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.December}, f.session.PrevMonth())
}

func TestSession_SendReminders(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	open, _, err := f.session.Submit(ctx)
	require.NoError(t, err)
	f.session.SetDraft(model.Draft{Date: "2025-03-20", PersonToOffboard: "Carol", ResponsiblePerson: "Dan", OffboardingType: model.TypeLong})
	done, _, err := f.session.Submit(ctx)
	require.NoError(t, err)
	_, err = f.session.Toggle(ctx, done.ID)
	require.NoError(t, err)

	sent, err := f.session.SendReminders(ctx)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, open.PersonToOffboard, sent[0].PersonToOffboard)

	assert.Equal(t, service.RemindersSentMessage, f.session.Notification())
	view, err := f.session.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.RemindersSentMessage, view.Notification)

	require.Len(t, f.timer.fns, 1)
	f.timer.fns[0]()
	assert.Empty(t, f.session.Notification())
}

type recordingNotice struct {
	messages []string
}

func (r *recordingNotice) Show(message string, ttl time.Duration) {
	r.messages = append(r.messages, message)
}

func TestSession_SendRemindersReachesHostNotice(t *testing.T) {
	f := newFixture(t, today)
	notice := &recordingNotice{}
	WithNotice(notice)(f.session)

	_, err := f.session.SendReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{service.RemindersSentMessage}, notice.messages)
}

func TestSession_ExportICS(t *testing.T) {
	f := newFixture(t, today)
	ctx := context.Background()

	f.session.SetDraft(alice())
	_, _, err := f.session.Submit(ctx)
	require.NoError(t, err)

	out, err := f.session.ExportICS(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250315")
	assert.Contains(t, out, "DTSTAMP:20250310T120000Z")
}
