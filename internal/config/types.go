// Package config manages application configuration from default values,
// an optional YAML file, and BOT_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN) or
// through a YAML config file.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Retention RetentionConfig `mapstructure:"retention"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	File   string `mapstructure:"file"` // optional rotating log file path
}

// TelegramConfig holds the bot platform credentials and identity.
type TelegramConfig struct {
	Token   string `mapstructure:"token"    validate:"required"`
	AdminID int64  `mapstructure:"admin_id" validate:"omitempty,gt=0"`

	// BotInfo is resolved at startup via GetMe, not read from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds the summarization model settings.
type GeminiConfig struct {
	APIKey         string        `mapstructure:"api_key"          validate:"required"`
	ModelName      string        `mapstructure:"model"            validate:"required"`
	FallbackModels []string      `mapstructure:"fallback_models"` // tried in order when the primary model cannot serve a request
	Temperature    float32       `mapstructure:"temperature"      validate:"min=0,max=2"`
	Instruction    string        `mapstructure:"instruction"` // empty uses the built-in summary instruction
	MaxPromptChars int           `mapstructure:"max_prompt_chars" validate:"omitempty,min=1000,max=1000000"`
	Timeout        time.Duration `mapstructure:"timeout"          validate:"required,min=1s,max=10m"`
	MaxRetries     int           `mapstructure:"max_retries"      validate:"min=0,max=5"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"      validate:"min=100ms,max=1m"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SummaryConfig holds window selection limits.
type SummaryConfig struct {
	MaxCount int `mapstructure:"max_count" validate:"omitempty,min=1,max=100000"`
}

// RetentionConfig controls how long messages are kept. A zero MaxAge keeps
// messages indefinitely.
type RetentionConfig struct {
	MaxAge time.Duration `mapstructure:"max_age" validate:"min=0"`
}

// SchedulerConfig holds the scheduled task table, keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a named task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_with=Enabled"`
}

// MessagesConfig holds every user-visible reply string.
type MessagesConfig struct {
	Start           string `mapstructure:"start"            validate:"required"`
	Help            string `mapstructure:"help"             validate:"required"`
	SummaryHeader   string `mapstructure:"summary_header"   validate:"required"`
	ProvideSelector string `mapstructure:"provide_selector" validate:"required"`
	InvalidSelector string `mapstructure:"invalid_selector" validate:"required"`
	EmptyWindow     string `mapstructure:"empty_window"     validate:"required"`
	SummaryError    string `mapstructure:"summary_error"    validate:"required"`
	GeneralError    string `mapstructure:"general_error"    validate:"required"`
	NotAuthorized   string `mapstructure:"not_authorized"   validate:"required"`
	Reset           string `mapstructure:"reset"            validate:"required"`
	Status          string `mapstructure:"status"           validate:"required"`
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
