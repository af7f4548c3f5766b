package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"offboarding-dashboard/internal/dashboard"
	"offboarding-dashboard/internal/notify"
	"offboarding-dashboard/internal/service"
)

// messenger is the part of the Telegram API the bot talks to.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// chatState is one chat's dashboard plus its pending form, if any.
type chatState struct {
	session *dashboard.Session
	form    *formState
}

// Bot serves the offboarding dashboard over Telegram. Every private chat
// gets its own Session over the shared task collection.
type Bot struct {
	api         *tgbotapi.BotAPI
	out         messenger
	taskSvc     *service.TaskService
	reminderSvc *service.ReminderService
	now         func() time.Time
	after       notify.AfterFunc
	chats       map[int64]*chatState
	mu          sync.Mutex
}

func New(token string, taskSvc *service.TaskService, reminderSvc *service.ReminderService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, taskSvc, reminderSvc)
	b.api = api
	return b, nil
}

func newBot(out messenger, taskSvc *service.TaskService, reminderSvc *service.ReminderService) *Bot {
	return &Bot{
		out:         out,
		taskSvc:     taskSvc,
		reminderSvc: reminderSvc,
		now:         time.Now,
		after:       time.AfterFunc,
		chats:       make(map[int64]*chatState),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("handle callback: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	chat := b.chat(chatID)

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.cancelForm(chat)
		return b.sendText(chatID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from chat %d: /%s %s", chatID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, chat, msg)
	}

	if chat.form != nil {
		log.Printf("[info] form step %d from chat %d", chat.form.stage, chatID)
		return b.handleForm(ctx, chatID, chat, msg.Text)
	}

	if handled, err := b.handleMenuAlias(ctx, chat, msg); handled {
		return err
	}

	return b.sendText(chatID, "I didn't get that. Send /newtask to add an offboarding task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, chat *chatState, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "newtask":
		return b.startNewTask(chatID, chat)
	case "tasks", "search":
		chat.session.SetSearch(args)
		return b.sendTaskList(ctx, chatID, chat)
	case "calendar":
		return b.sendCalendar(ctx, chatID, chat)
	case "remind":
		return b.handleRemind(ctx, chatID, chat)
	case "report":
		return b.handleReport(ctx, chatID)
	case "ics":
		return b.handleICS(ctx, chatID, chat)
	case "cancel":
		b.cancelForm(chat)
		return b.sendText(chatID, "⏪ Input cancelled.")
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := ""
	if msg.From != nil {
		name = strings.TrimSpace(msg.From.FirstName)
	}
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I track employee offboarding tasks.</b>\n\n"+
			"Add a task with /newtask, browse them with /tasks and see due dates with /calendar.\n"+
			"Send /help for the full command list.",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /newtask: add an offboarding task step by step\n" +
		"• /tasks [term]: list tasks, optionally filtered\n" +
		"• /search &lt;term&gt;: filter by person, category, responsible or type\n" +
		"• /calendar: month calendar of due dates\n" +
		"• /remind: send reminders for incomplete tasks\n" +
		"• /report: summary of open tasks by due date\n" +
		"• /ics: download the calendar as an .ics file\n" +
		"• /cancel: cancel the current input"
	return b.sendText(chatID, text)
}

func (b *Bot) handleRemind(ctx context.Context, chatID int64, chat *chatState) error {
	sent, err := chat.session.SendReminders(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not send reminders: %s", escape(err.Error())))
	}
	log.Printf("[info] chat %d sent %d reminders", chatID, len(sent))
	return nil
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	text, err := b.reminderSvc.Summary(ctx, b.now())
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not build the summary: %s", escape(err.Error())))
	}
	return b.sendText(chatID, escape(text))
}

func (b *Bot) handleICS(ctx context.Context, chatID int64, chat *chatState) error {
	body, err := chat.session.ExportICS(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not export the calendar: %s", escape(err.Error())))
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "offboarding.ics", Bytes: []byte(body)})
	doc.Caption = "🗓 Offboarding calendar"
	_, err = b.out.Send(doc)
	return err
}

func (b *Bot) handleMenuAlias(ctx context.Context, chat *chatState, msg *tgbotapi.Message) (bool, error) {
	chatID := msg.Chat.ID
	switch strings.ToLower(strings.TrimSpace(msg.Text)) {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTask(chatID, chat)
	case strings.ToLower(menuLabelTasks):
		chat.session.SetSearch("")
		return true, b.sendTaskList(ctx, chatID, chat)
	case strings.ToLower(menuLabelCalendar):
		return true, b.sendCalendar(ctx, chatID, chat)
	case strings.ToLower(menuLabelRemind):
		return true, b.handleRemind(ctx, chatID, chat)
	default:
		return false, nil
	}
}

// SendReminders runs a scheduled reminder pass and notifies every chat that
// has talked to the bot.
func (b *Bot) SendReminders(ctx context.Context) error {
	_, err := b.reminderSvc.SendReminders(ctx, b.Notice())
	return err
}

// Notice returns a sink that shows a message in every known chat.
func (b *Bot) Notice() notify.Sink {
	return broadcast{bot: b}
}

func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if chat, ok := b.chats[chatID]; ok {
		return chat
	}
	chat := &chatState{
		session: dashboard.NewSession(b.taskSvc, b.reminderSvc,
			dashboard.WithClock(b.now),
			dashboard.WithBanner(notify.NewBannerWithTimer(b.after)),
			dashboard.WithNotice(chatNotice{bot: b, chatID: chatID}),
		),
	}
	b.chats[chatID] = chat
	return chat
}

func (b *Bot) chatIDs() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		ids = append(ids, id)
	}
	return ids
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) answer(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}
