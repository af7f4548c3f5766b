package bot

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatNotice shows a notification as a chat message and deletes it once the
// ttl has passed.
type chatNotice struct {
	bot    *Bot
	chatID int64
}

func (n chatNotice) Show(message string, ttl time.Duration) {
	msg := tgbotapi.NewMessage(n.chatID, "🔔 "+escape(message))
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := n.bot.out.Send(msg)
	if err != nil {
		log.Printf("send notice to %d: %v", n.chatID, err)
		return
	}

	n.bot.after(ttl, func() {
		if _, err := n.bot.out.Request(tgbotapi.NewDeleteMessage(n.chatID, sent.MessageID)); err != nil {
			log.Printf("delete notice in %d: %v", n.chatID, err)
		}
	})
}

// broadcast shows a notification in every chat the bot knows.
type broadcast struct {
	bot *Bot
}

func (s broadcast) Show(message string, ttl time.Duration) {
	for _, id := range s.bot.chatIDs() {
		chatNotice{bot: s.bot, chatID: id}.Show(message, ttl)
	}
}
