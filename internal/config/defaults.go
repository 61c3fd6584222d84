package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Database defaults
	DefaultDatabasePath = "digestbot.db"

	// Gemini defaults
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiTemperature = 1.0
	DefaultGeminiTimeout     = 2 * time.Minute
	DefaultGeminiMaxRetries  = 1 // one bounded retry on transient API errors
	DefaultGeminiRetryDelay  = 2 * time.Second
	DefaultMaxPromptChars    = 200000

	// Summary defaults
	DefaultSummaryMaxCount = 10000
)

// DefaultGeminiFallbackModels are tried in order when the primary model
// rejects or cannot serve a request.
var DefaultGeminiFallbackModels = []string{"gemini-2.5-flash-lite", "gemini-1.5-flash"}

// Default bot messages
var DefaultMessages = MessagesConfig{
	Start: "👋 Hello! I log group messages and summarize them with Google Gemini AI.\n\n" +
		"Commands:\n" +
		"- /summarize <window> - Summarize recent messages\n" +
		"- /help - Show usage details\n\n" +
		"Windows: 12hr, 1day, 2days, 1week, or last <number>.\n" +
		"Example: /summarize last 50\n\n" +
		"Note: bots only see messages sent after they join the group.",
	Help: "ℹ️ Usage: /summarize <window>\n\n" +
		"Time windows: <N>hr, <N>day, <N>week (e.g. 12hr, 1day, 2days, 1week)\n" +
		"Count windows: last <N> (e.g. last 50, at most 10000)\n\n" +
		"Examples:\n" +
		"- /summarize 1day\n" +
		"- /summarize last 100",
	SummaryHeader:   "📊 Summary for %s:",
	ProvideSelector: "ℹ️ Please provide a window. Example: /summarize 1day",
	InvalidSelector: "❓ I didn't understand that window. Use <N>hr, <N>day, <N>week, or last <N>, e.g. /summarize 12hr",
	EmptyWindow:     "📭 No messages found in the selected window. Start chatting and try again.",
	SummaryError:    "❌ Unable to generate a summary right now. Please try again later.",
	GeneralError:    "❌ An error occurred. Please try again later.",
	NotAuthorized:   "🚫 Access denied. Please contact the administrator.",
	Reset:           "🔄 Message log cleared for this chat (%d messages removed).",
	Status:          "📈 %d messages logged for this chat.",
}
