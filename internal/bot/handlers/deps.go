package handlers

import (
	"context"
	"log/slog"

	"github.com/groupdigest/digestbot/internal/config"
	"github.com/groupdigest/digestbot/internal/database"
	"github.com/groupdigest/digestbot/internal/summary"
)

// Summarizer generates a chat summary for a parsed window selector.
// *summary.Service satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, chatID int64, sel summary.Selector) (string, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Summarizer Summarizer
}
