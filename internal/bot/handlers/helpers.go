package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/groupdigest/digestbot/internal/database"
)

const (
	sendMessageTimeout = 10 * time.Second
	dbSaveTimeout      = 5 * time.Second
	dbQueryTimeout     = 15 * time.Second
)

// SendReply sends a text reply to the given message with a bounded timeout.
func SendReply(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, replyTo int, text string) {
	log := deps.Logger.With("component", "handlers")
	if b == nil || chatID == 0 || text == "" {
		log.ErrorContext(ctx, "Invalid parameters to SendReply", "chat_id", chatID, "reply_to", replyTo)
		return
	}
	if ctx.Err() != nil {
		log.ErrorContext(ctx, "Context cancelled before sending reply", "error", ctx.Err(), "chat_id", chatID)
		return
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if replyTo > 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: replyTo}
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	sent, err := b.SendMessage(sendCtx, params)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Sent reply", "chat_id", chatID, "message_id", sent.ID)
}

// SaveMessageWithRetry attempts to save a message to the database with retry logic.
// It handles failures and logs appropriate warning messages.
func SaveMessageWithRetry(ctx context.Context, deps HandlerDeps, msg *database.Message, msgType string) {
	log := deps.Logger.With("component", "handlers")
	const maxRetries = 3
	var err error

	for i := range [maxRetries]struct{}{} {
		// Check if the parent context was cancelled before retrying
		if ctx.Err() != nil {
			log.WarnContext(ctx, fmt.Sprintf("Context cancelled, aborting %s save attempts", msgType),
				"error", ctx.Err(), "chat_id", msg.ChatID, "attempt", i+1)
			return
		}

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		err = deps.Store.SaveMessage(dbCtx, msg)
		cancel()

		if err == nil {
			log.DebugContext(ctx, fmt.Sprintf("%s saved", msgType), "db_message_id", msg.ID, "chat_id", msg.ChatID)
			return
		}

		log.ErrorContext(ctx, fmt.Sprintf("Failed to save %s, retrying", msgType), "error", err, "chat_id", msg.ChatID, "attempt", i+1)
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	log.ErrorContext(ctx, fmt.Sprintf("Failed to save %s after %d retries", msgType, maxRetries), "error", err, "chat_id", msg.ChatID)
}

// commandArgs returns the text following the command token itself,
// e.g. "/summarize last 50" yields "last 50".
func commandArgs(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// senderName picks the display name stored with a message: username first,
// then first name, then a fixed fallback.
func senderName(u *models.User) string {
	if u.Username != "" {
		return u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "unknown"
}

// isCommand reports whether the message is a bot command.
func isCommand(msg *models.Message) bool {
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return strings.HasPrefix(msg.Text, "/")
}
