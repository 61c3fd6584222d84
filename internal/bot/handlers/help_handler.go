package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command. The reply combines
// the configured usage text with the advertised command menu, so /help always
// lists the same commands Telegram clients autocomplete.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /help command", "chat_id", chatID, "user_id", update.Message.From.ID)

	commands := BotCommands()
	helpMsg := helpText(h.deps.Config.Messages.Help, commands)
	if h.deps.Config.Telegram.BotInfo.Username != "" {
		helpMsg = strings.ReplaceAll(helpMsg, "@botname", "@"+h.deps.Config.Telegram.BotInfo.Username)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: helpMsg}); err != nil {
		log.ErrorContext(ctx, "Failed to send help message", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Sent help message", "chat_id", chatID, "commands", len(commands))
}

// helpText renders the /help reply: the configured usage text followed by one
// line per advertised command.
func helpText(usage string, commands []models.BotCommand) string {
	var sb strings.Builder
	sb.WriteString(usage)
	sb.WriteString("\n\nCommands:")
	for _, cmd := range commands {
		sb.WriteString("\n/")
		sb.WriteString(cmd.Command)
		sb.WriteString(" - ")
		sb.WriteString(cmd.Description)
	}
	return sb.String()
}
