package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/dashboard"
	"offboarding-dashboard/internal/model"
)

const (
	cbTogglePrefix = "toggle:"
	cbEditPrefix   = "edit:"
	cbCalPrev      = "cal:prev"
	cbCalNext      = "cal:next"
	cbCalDayPrefix = "cal:day:"
	cbNoop         = "noop"
)

const (
	btnSkip           = "⏭️ Skip"
	btnKeep           = "↪️ Keep"
	btnCancel         = "⏪ Cancel"
	menuLabelNewTask  = "➕ New task"
	menuLabelTasks    = "📋 Tasks"
	menuLabelCalendar = "🗓 Calendar"
	menuLabelRemind   = "🔔 Remind"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCalendar),
			tgbotapi.NewKeyboardButton(menuLabelRemind),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// formKeyboard offers Keep while editing and Skip for optional fields.
func formKeyboard(editing, optional bool) tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	if optional {
		row = append(row, tgbotapi.NewKeyboardButton(btnSkip))
	}
	if editing {
		row = append(row, tgbotapi.NewKeyboardButton(btnKeep))
	}
	row = append(row, tgbotapi.NewKeyboardButton(btnCancel))

	kb := tgbotapi.NewReplyKeyboard(row)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func typeKeyboard(editing bool) tgbotapi.ReplyKeyboardMarkup {
	types := make([]tgbotapi.KeyboardButton, 0, len(model.OffboardingTypes))
	for _, t := range model.OffboardingTypes {
		types = append(types, tgbotapi.NewKeyboardButton(t))
	}
	control := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnCancel)}
	if editing {
		control = append([]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(btnKeep)}, control...)
	}

	kb := tgbotapi.NewReplyKeyboard(types, control)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func taskListKeyboard(rows []dashboard.TaskRow) tgbotapi.InlineKeyboardMarkup {
	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		label := fmt.Sprintf("✅ #%d %s", row.ID, shortName(row.PersonToOffboard, 20))
		if row.Completed {
			label = fmt.Sprintf("↩️ #%d %s", row.ID, shortName(row.PersonToOffboard, 20))
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbTogglePrefix, row.ID)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", fmt.Sprintf("%s%d", cbEditPrefix, row.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

// calendarKeyboard lays the grid out as a header, a weekday row and one
// row of seven cells per week.
func calendarKeyboard(grid calendar.Grid) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️", cbCalPrev),
			tgbotapi.NewInlineKeyboardButtonData(grid.Month.String(), cbNoop),
			tgbotapi.NewInlineKeyboardButtonData("▶️", cbCalNext),
		),
	}

	header := make([]tgbotapi.InlineKeyboardButton, 0, len(calendar.Weekdays))
	for _, name := range calendar.Weekdays {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(name, cbNoop))
	}
	rows = append(rows, header)

	for _, week := range grid.Weeks() {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for _, day := range week {
			if day == nil {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", cbNoop))
				continue
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(dayLabel(*day), fmt.Sprintf("%s%d", cbCalDayPrefix, day.Number)))
		}
		for len(row) < 7 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", cbNoop))
		}
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dayLabel(day calendar.Day) string {
	label := strconv.Itoa(day.Number)
	if day.Today {
		label = "[" + label + "]"
	}
	if len(day.Markers) > 0 {
		label += toneEmoji(day.Markers[0].Tone)
	}
	if len(day.Markers) > 1 {
		label += "+"
	}
	return label
}

func toneEmoji(tone model.Tone) string {
	switch tone {
	case model.ToneRed:
		return "🟥"
	case model.ToneYellow:
		return "🟨"
	case model.ToneOrange:
		return "🟧"
	default:
		return "⬜"
	}
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseDay(data string) (int, error) {
	day, err := strconv.Atoi(strings.TrimPrefix(data, cbCalDayPrefix))
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid calendar day %q", data)
	}
	return day, nil
}

func shortName(name string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(name, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func isSkipInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == strings.ToLower(btnSkip) || lower == "skip" || lower == "-"
}

func isKeepInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == strings.ToLower(btnKeep) || lower == "keep"
}

func isCancelInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == strings.ToLower(btnCancel)
}
