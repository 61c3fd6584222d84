package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at path (optional; a missing file is not an error)
// 3. BOT_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		// Missing config file is fine, defaults and environment apply
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every configuration key with its default value.
// Secrets get empty defaults so environment-only values still unmarshal.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")

	// Telegram defaults
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", 0)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.fallback_models", DefaultGeminiFallbackModels)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.instruction", "")
	v.SetDefault("gemini.max_prompt_chars", DefaultMaxPromptChars)
	v.SetDefault("gemini.timeout", DefaultGeminiTimeout)
	v.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	v.SetDefault("gemini.retry_delay", DefaultGeminiRetryDelay)

	// Database defaults
	v.SetDefault("database.path", DefaultDatabasePath)

	// Summary defaults
	v.SetDefault("summary.max_count", DefaultSummaryMaxCount)

	// Retention defaults (0 keeps messages indefinitely)
	v.SetDefault("retention.max_age", 0)

	// Scheduler defaults
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
	v.SetDefault("scheduler.tasks.retention_cleanup.enabled", false)
	v.SetDefault("scheduler.tasks.retention_cleanup.schedule", "30 4 * * *")

	// Message defaults
	v.SetDefault("messages.start", DefaultMessages.Start)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.summary_header", DefaultMessages.SummaryHeader)
	v.SetDefault("messages.provide_selector", DefaultMessages.ProvideSelector)
	v.SetDefault("messages.invalid_selector", DefaultMessages.InvalidSelector)
	v.SetDefault("messages.empty_window", DefaultMessages.EmptyWindow)
	v.SetDefault("messages.summary_error", DefaultMessages.SummaryError)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("messages.reset", DefaultMessages.Reset)
	v.SetDefault("messages.status", DefaultMessages.Status)
}
