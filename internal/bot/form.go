package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"offboarding-dashboard/internal/calendar"
	"offboarding-dashboard/internal/model"
)

type formStage int

const (
	stagePerson formStage = iota
	stageDate
	stageCategory
	stageResponsible
	stageType
)

// formState walks a chat through the task fields. The values themselves
// live in the session: the draft for new tasks, the editing copy otherwise.
type formState struct {
	stage   formStage
	editing bool
}

func (b *Bot) startNewTask(chatID int64, chat *chatState) error {
	chat.session.CancelEdit()
	chat.session.SetDraft(model.Draft{})
	chat.form = &formState{stage: stagePerson}
	log.Printf("[info] start new task form chat=%d", chatID)
	return b.promptStage(chatID, chat)
}

func (b *Bot) startEdit(ctx context.Context, chatID int64, chat *chatState, id uint) error {
	found, err := chat.session.BeginEdit(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return b.sendText(chatID, "Task not found.")
	}
	chat.form = &formState{stage: stagePerson, editing: true}
	log.Printf("[info] start edit form chat=%d task=%d", chatID, id)
	return b.promptStage(chatID, chat)
}

func (b *Bot) cancelForm(chat *chatState) {
	if chat.form != nil && !chat.form.editing {
		chat.session.SetDraft(model.Draft{})
	}
	chat.form = nil
	chat.session.CancelEdit()
}

func (b *Bot) handleForm(ctx context.Context, chatID int64, chat *chatState, raw string) error {
	form := chat.form
	text := strings.TrimSpace(raw)
	draft := formDraft(chat)
	keep := form.editing && isKeepInput(text)

	switch form.stage {
	case stagePerson:
		if !keep {
			if text == "" {
				return b.promptStage(chatID, chat)
			}
			draft.PersonToOffboard = text
		}
		form.stage = stageDate
	case stageDate:
		if !keep {
			if _, err := calendar.ParseDate(text); err != nil {
				return b.sendWithReplyMarkup(chatID, "I can't read that date. Use the format <code>2025-03-15</code>.", formKeyboard(form.editing, false))
			}
			draft.Date = text
		}
		form.stage = stageCategory
	case stageCategory:
		switch {
		case keep:
		case isSkipInput(text):
			draft.Category = ""
		default:
			draft.Category = text
		}
		form.stage = stageResponsible
	case stageResponsible:
		if !keep {
			if text == "" {
				return b.promptStage(chatID, chat)
			}
			draft.ResponsiblePerson = text
		}
		form.stage = stageType
	case stageType:
		if !keep {
			if text == "" {
				return b.promptStage(chatID, chat)
			}
			draft.OffboardingType = text
		}
		setFormDraft(chat, draft)
		return b.finishForm(ctx, chatID, chat)
	default:
		b.cancelForm(chat)
		return b.sendText(chatID, "The form was reset. Start again with /newtask.")
	}

	setFormDraft(chat, draft)
	return b.promptStage(chatID, chat)
}

func (b *Bot) finishForm(ctx context.Context, chatID int64, chat *chatState) error {
	editing := chat.form.editing
	chat.form = nil

	if editing {
		saved, err := chat.session.SaveEdit(ctx)
		if err != nil {
			return b.sendText(chatID, fmt.Sprintf("Could not update the task: %s", escape(err.Error())))
		}
		if !saved {
			var missing []string
			if task := chat.session.Editing(); task != nil {
				missing = task.Draft().Validate().Missing
			}
			chat.session.CancelEdit()
			if len(missing) == 0 {
				return b.sendText(chatID, "Task not found.")
			}
			return b.sendText(chatID, fmt.Sprintf("Nothing saved, missing: %s.", strings.Join(missing, ", ")))
		}
		if err := b.sendText(chatID, "✅ <b>Task updated</b>"); err != nil {
			return err
		}
		return b.sendTaskList(ctx, chatID, chat)
	}

	task, added, err := chat.session.Submit(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}
	if !added {
		missing := chat.session.Draft().Validate().Missing
		return b.sendText(chatID, fmt.Sprintf("Nothing saved, missing: %s.", strings.Join(missing, ", ")))
	}

	msg := tgbotapi.NewMessage(chatID, "✅ <b>Task saved</b>\n"+formatTask(*task))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := b.out.Send(msg); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, chat)
}

func (b *Bot) promptStage(chatID int64, chat *chatState) error {
	form := chat.form
	draft := formDraft(chat)

	var prompt, current string
	keyboard := formKeyboard(form.editing, false)
	switch form.stage {
	case stagePerson:
		prompt = "<b>Step 1/5:</b> who is being offboarded?"
		current = draft.PersonToOffboard
	case stageDate:
		prompt = "<b>Step 2/5:</b> due date, for example <code>2025-03-15</code>."
		current = draft.Date
	case stageCategory:
		prompt = "<b>Step 3/5:</b> category, or Skip."
		current = draft.Category
		keyboard = formKeyboard(form.editing, true)
	case stageResponsible:
		prompt = "<b>Step 4/5:</b> who is responsible?"
		current = draft.ResponsiblePerson
	case stageType:
		prompt = "<b>Step 5/5:</b> offboarding type."
		current = draft.OffboardingType
		keyboard = typeKeyboard(form.editing)
	}

	if form.stage == stagePerson {
		if form.editing {
			prompt = "✏️ Editing the task.\n" + prompt
		} else {
			prompt = "🆕 New offboarding task.\n" + prompt
		}
	}
	if form.editing && current != "" {
		prompt += fmt.Sprintf("\nCurrent: <b>%s</b>", escape(current))
	}
	return b.sendWithReplyMarkup(chatID, prompt, keyboard)
}

func formDraft(chat *chatState) model.Draft {
	if chat.form != nil && chat.form.editing {
		if task := chat.session.Editing(); task != nil {
			return task.Draft()
		}
	}
	return chat.session.Draft()
}

func setFormDraft(chat *chatState, draft model.Draft) {
	if chat.form != nil && chat.form.editing {
		chat.session.SetEditing(draft)
		return
	}
	chat.session.SetDraft(draft)
}
