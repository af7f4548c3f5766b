package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/dashboard"
	"offboarding-dashboard/internal/model"
)

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, chat *chatState) error {
	view, err := chat.session.View(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load tasks: %s", escape(err.Error())))
	}

	text := taskListText(view)
	if len(view.Tasks) == 0 {
		return b.sendText(chatID, text)
	}
	return b.sendWithReplyMarkup(chatID, text, taskListKeyboard(view.Tasks))
}

// refreshTaskList redraws a task list message in place.
func (b *Bot) refreshTaskList(ctx context.Context, chatID int64, messageID int, chat *chatState) error {
	view, err := chat.session.View(ctx)
	if err != nil {
		return err
	}

	text := taskListText(view)
	var edit tgbotapi.EditMessageTextConfig
	if len(view.Tasks) == 0 {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	} else {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, taskListKeyboard(view.Tasks))
	}
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.out.Request(edit)
	return err
}

func (b *Bot) sendCalendar(ctx context.Context, chatID int64, chat *chatState) error {
	view, err := chat.session.View(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the calendar: %s", escape(err.Error())))
	}
	return b.sendWithReplyMarkup(chatID, calendarText(view.Calendar), calendarKeyboard(view.Calendar))
}

func (b *Bot) refreshCalendar(ctx context.Context, chatID int64, messageID int, chat *chatState) error {
	view, err := chat.session.View(ctx)
	if err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, calendarText(view.Calendar), calendarKeyboard(view.Calendar))
	edit.ParseMode = tgbotapi.ModeHTML
	_, err = b.out.Request(edit)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	chat := b.chat(chatID)
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		log.Printf("[info] callback toggle chat=%d task=%s", chatID, strings.TrimPrefix(data, cbTogglePrefix))
		id, err := parseTaskID(data, cbTogglePrefix)
		if err != nil {
			b.answer(cb, "")
			return nil
		}
		found, err := chat.session.Toggle(ctx, id)
		if err != nil {
			b.answer(cb, "")
			return err
		}
		if !found {
			b.answer(cb, "Task not found.")
			return nil
		}
		b.answer(cb, "")
		return b.refreshTaskList(ctx, chatID, messageID, chat)
	case strings.HasPrefix(data, cbEditPrefix):
		log.Printf("[info] callback edit chat=%d task=%s", chatID, strings.TrimPrefix(data, cbEditPrefix))
		b.answer(cb, "")
		id, err := parseTaskID(data, cbEditPrefix)
		if err != nil {
			return nil
		}
		return b.startEdit(ctx, chatID, chat, id)
	case data == cbCalPrev:
		b.answer(cb, "")
		chat.session.PrevMonth()
		return b.refreshCalendar(ctx, chatID, messageID, chat)
	case data == cbCalNext:
		b.answer(cb, "")
		chat.session.NextMonth()
		return b.refreshCalendar(ctx, chatID, messageID, chat)
	case strings.HasPrefix(data, cbCalDayPrefix):
		day, err := parseDay(data)
		if err != nil {
			b.answer(cb, "")
			return nil
		}
		return b.showDay(ctx, cb, chat, day)
	default:
		b.answer(cb, "")
		return nil
	}
}

func (b *Bot) showDay(ctx context.Context, cb *tgbotapi.CallbackQuery, chat *chatState, day int) error {
	view, err := chat.session.View(ctx)
	if err != nil {
		b.answer(cb, "")
		return err
	}
	if day > len(view.Calendar.Days) || len(view.Calendar.Days[day-1].Markers) == 0 {
		b.answer(cb, "No offboarding due that day.")
		return nil
	}
	b.answer(cb, "")
	return b.sendText(cb.Message.Chat.ID, dayText(view.Calendar, day))
}

func taskListText(view dashboard.View) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Offboarding tasks</b>\n")
	if view.Search != "" {
		builder.WriteString(fmt.Sprintf("🔍 %s: %d of %d\n", escape(view.Search), len(view.Tasks), view.TaskCount))
	}

	if len(view.Tasks) == 0 {
		if view.TaskCount == 0 {
			builder.WriteString("\nNo tasks yet. Add one with /newtask.")
		} else {
			builder.WriteString("\nNo tasks match the search.")
		}
		return builder.String()
	}

	builder.WriteString("Tap a task to toggle it, or Edit to change it.\n\n")
	for _, row := range view.Tasks {
		builder.WriteString(formatTask(row.Task))
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String())
}

func formatTask(task model.Task) string {
	var sb strings.Builder

	status := "⬜"
	if task.Completed {
		status = "✅"
	}
	sb.WriteString(fmt.Sprintf("%s %s <b>#%d %s</b> (%s)", status, toneEmoji(model.ToneFor(task.OffboardingType)), task.ID, escape(task.PersonToOffboard), escape(task.OffboardingType)))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", escape(task.Category)))
	}
	sb.WriteString(fmt.Sprintf("\n   👤 %s", escape(task.ResponsiblePerson)))
	sb.WriteString(fmt.Sprintf("\n   ⏰ %s\n", escape(task.Date)))
	return sb.String()
}

func calendarText(grid calendar.Grid) string {
	return fmt.Sprintf("🗓 <b>%s</b>\n🟥 Immediate  🟨 Short  🟧 Long  ⬜ Other", grid.Month)
}

func dayText(grid calendar.Grid, day int) string {
	var sb strings.Builder
	date := fmt.Sprintf("%04d-%02d-%02d", grid.Month.Year, int(grid.Month.Month), day)
	sb.WriteString(fmt.Sprintf("🗓 <b>%s</b>", date))
	for _, marker := range grid.Days[day-1].Markers {
		sb.WriteString(fmt.Sprintf("\n%s %s", toneEmoji(marker.Tone), escape(marker.Tooltip)))
	}
	return sb.String()
}
