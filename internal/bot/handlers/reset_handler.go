package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const resetTimeout = 30 * time.Second

// NewResetHandler returns a handler for the /reset command. It deletes the
// stored message log for the chat it is invoked in.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	if update.Message == nil || update.Message.From == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Admin requested message log reset", "chat_id", chatID, "user_id", update.Message.From.ID)

	timeoutCtx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	deleted, err := h.deps.Store.DeleteChatMessages(timeoutCtx, chatID)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.WarnContext(ctx, "Reset operation timed out or was cancelled", "chat_id", chatID)
		SendReply(ctx, b, h.deps, chatID, update.Message.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	if err != nil {
		log.ErrorContext(ctx, "Failed to reset message log", "error", err, "chat_id", chatID)
		SendReply(ctx, b, h.deps, chatID, update.Message.ID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Deleted message log for chat", "chat_id", chatID, "deleted", deleted)
	SendReply(ctx, b, h.deps, chatID, update.Message.ID, fmt.Sprintf(h.deps.Config.Messages.Reset, deleted))
}
