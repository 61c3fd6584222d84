// Package tasks implements scheduled tasks for the digestbot Telegram bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/groupdigest/digestbot/internal/config"
	"github.com/groupdigest/digestbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
// It provides access to logging, the message store, and configuration.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
