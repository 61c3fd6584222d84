package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/groupdigest/digestbot/internal/config"
	"github.com/groupdigest/digestbot/internal/summary"
)

// NewSummarizeHandler returns a handler for the /summarize command. It
// parses the requested window, runs the summarization pipeline, and replies
// with the generated summary.
func NewSummarizeHandler(deps HandlerDeps) bot.HandlerFunc {
	return summarizeHandler{deps}.Handle
}

type summarizeHandler struct {
	deps HandlerDeps
}

func (h summarizeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "summarize")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Summarize handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	log.InfoContext(ctx, "Handling /summarize command", "chat_id", chatID, "user_id", msg.From.ID, "text", msg.Text)

	args := commandArgs(msg.Text)
	if args == "" {
		SendReply(ctx, b, h.deps, chatID, msg.ID, h.deps.Config.Messages.ProvideSelector)
		return
	}

	maxCount := h.deps.Config.Summary.MaxCount
	if maxCount <= 0 {
		maxCount = summary.DefaultMaxCount
	}

	sel, err := summary.ParseSelector(args, maxCount)
	if err != nil {
		// Selector errors never touch the store or the model API.
		log.WarnContext(ctx, "Rejected window selector", "error", err, "args", args, "chat_id", chatID)
		SendReply(ctx, b, h.deps, chatID, msg.ID, h.deps.Config.Messages.InvalidSelector)
		return
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	aiCtx, cancel := context.WithTimeout(ctx, h.deps.Config.Gemini.Timeout)
	defer cancel()

	text, err := h.deps.Summarizer.Summarize(aiCtx, chatID, sel)
	switch {
	case errors.Is(err, summary.ErrEmptyWindow):
		log.InfoContext(ctx, "Nothing to summarize", "chat_id", chatID, "window", sel.String())
	case err != nil:
		// The user gets a generic failure message; the cause stays in the log.
		log.ErrorContext(ctx, "Failed to generate summary", "error", err, "chat_id", chatID, "window", sel.String())
	default:
		log.InfoContext(ctx, "Generated summary", "chat_id", chatID, "window", sel.String(), "summary_chars", len(text))
	}

	SendReply(ctx, b, h.deps, chatID, msg.ID, summaryReply(h.deps.Config.Messages, sel, text, err))
}

// summaryReply maps a summarization outcome to the user-facing reply text.
// The empty-window signal takes precedence over the generic failure message,
// and failure causes never reach the chat.
func summaryReply(msgs config.MessagesConfig, sel summary.Selector, text string, err error) string {
	switch {
	case errors.Is(err, summary.ErrEmptyWindow):
		return msgs.EmptyWindow
	case err != nil:
		return msgs.SummaryError
	default:
		return fmt.Sprintf(msgs.SummaryHeader, sel.String()) + "\n\n" + text
	}
}
