package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatusHandler returns a handler for the /status command. It reports how
// many messages are currently logged for the chat.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /status command", "chat_id", chatID, "user_id", update.Message.From.ID)

	dbCtx, cancel := context.WithTimeout(ctx, dbQueryTimeout)
	defer cancel()

	count, err := h.deps.Store.CountMessages(dbCtx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count messages", "error", err, "chat_id", chatID)
		SendReply(ctx, b, h.deps, chatID, update.Message.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	SendReply(ctx, b, h.deps, chatID, update.Message.ID, fmt.Sprintf(h.deps.Config.Messages.Status, count))
}
