package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/model"
	"offboarding-dashboard/internal/notify"
	"offboarding-dashboard/internal/repository"
)

// RemindersSentMessage is shown after a reminder run.
const RemindersSentMessage = "Email reminders have been sent for all incomplete tasks."

// Reminder is the notice produced for one incomplete task.
type Reminder struct {
	PersonToOffboard  string
	ResponsiblePerson string
	OffboardingType   string
	Date              string
}

// ReminderSink receives reminders. No response is expected.
type ReminderSink interface {
	Remind(r Reminder)
}

// LogSink writes reminders to a logger.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Remind(r Reminder) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("Sending reminder for offboarding: %s", r.PersonToOffboard)
	logger.Printf("To: %s", r.ResponsiblePerson)
	logger.Printf("Offboarding Type: %s", r.OffboardingType)
	logger.Printf("Due Date: %s", r.Date)
}

// ReminderService is a stub around reminder delivery: it logs a notice for
// every incomplete task and never sends email.
type ReminderService struct {
	taskRepo *repository.TaskRepository
	sink     ReminderSink
	ttl      time.Duration
}

func NewReminderService(taskRepo *repository.TaskRepository, sink ReminderSink, ttl time.Duration) *ReminderService {
	if sink == nil {
		sink = LogSink{}
	}
	if ttl <= 0 {
		ttl = notify.DefaultTTL
	}
	return &ReminderService{taskRepo: taskRepo, sink: sink, ttl: ttl}
}

// SendReminders emits one reminder per incomplete task and shows
// RemindersSentMessage on notice, which may be nil.
func (s *ReminderService) SendReminders(ctx context.Context, notice notify.Sink) ([]Reminder, error) {
	tasks, err := s.taskRepo.ListIncomplete(ctx)
	if err != nil {
		return nil, err
	}

	log.Printf("[info] sending reminders for %d incomplete tasks", len(tasks))
	sent := make([]Reminder, 0, len(tasks))
	for _, task := range tasks {
		r := Reminder{
			PersonToOffboard:  task.PersonToOffboard,
			ResponsiblePerson: task.ResponsiblePerson,
			OffboardingType:   task.OffboardingType,
			Date:              task.Date,
		}
		s.sink.Remind(r)
		sent = append(sent, r)
	}

	if notice != nil {
		notice.Show(RemindersSentMessage, s.ttl)
	}
	return sent, nil
}

// Summary builds a plain-text overview of the incomplete tasks.
func (s *ReminderService) Summary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.taskRepo.ListIncomplete(ctx)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📋 Offboarding summary\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format(calendar.DateLayout)))

	if len(tasks) == 0 {
		builder.WriteString("— no open offboarding tasks\n")
		return strings.TrimSpace(builder.String()), nil
	}
	for _, task := range tasks {
		builder.WriteString(formatDue(task, now))
	}
	return strings.TrimSpace(builder.String()), nil
}

func formatDue(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	due, err := calendar.ParseDate(task.Date)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysLeft := 0
	if err == nil {
		daysLeft = int(due.Sub(today).Hours() / 24)
		switch {
		case daysLeft < 0:
			icon = "⚠️"
		case daysLeft <= 2:
			icon = "⏳"
		}
	}

	sb.WriteString(fmt.Sprintf("%s %s (%s)", icon, task.PersonToOffboard, task.OffboardingType))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", task.Category))
	}
	sb.WriteString(fmt.Sprintf("\n   👤 %s", task.ResponsiblePerson))
	switch {
	case err != nil:
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s", task.Date))
	case daysLeft < 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, overdue", task.Date))
	default:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, %d days left", task.Date, daysLeft))
	}
	sb.WriteByte('\n')
	return sb.String()
}
