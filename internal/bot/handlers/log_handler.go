package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/groupdigest/digestbot/internal/database"
)

// NewLogHandler returns the default handler. It records plain text messages
// from group chats into the message log so they can be summarized later.
// Private chats, commands, and non-text updates are ignored.
func NewLogHandler(deps HandlerDeps) bot.HandlerFunc {
	return logHandler{deps}.Handle
}

type logHandler struct {
	deps HandlerDeps
}

func (h logHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "log")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
		log.DebugContext(ctx, "Ignoring message outside group chat", "chat_id", msg.Chat.ID, "chat_type", msg.Chat.Type)
		return
	}

	// Commands are dispatched, not logged.
	if isCommand(msg) {
		return
	}

	record := &database.Message{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Sender:    senderName(msg.From),
		Content:   msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0).UTC(),
	}

	SaveMessageWithRetry(ctx, h.deps, record, "group message")
}
