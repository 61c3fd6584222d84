package summary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/groupdigest/digestbot/internal/database"
)

// ErrEmptyWindow signals that the selected window holds no messages. Callers
// should reply with a "nothing to summarize" message; the AI client is never
// invoked for such windows.
var ErrEmptyWindow = errors.New("no messages in window")

// Store is the read-only window-query surface of the message log.
// database.Store satisfies it.
type Store interface {
	MessagesSince(ctx context.Context, chatID int64, cutoff time.Time) ([]database.Message, error)
	LastMessages(ctx context.Context, chatID int64, limit int) ([]database.Message, error)
}

// Client generates a summary from a rendered prompt. gemini.Client satisfies it.
type Client interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Config carries the pipeline tunables.
type Config struct {
	Instruction    string // summary style instruction, prefixed to every prompt
	MaxPromptChars int    // rendered prompt size cap
}

// Service runs the summarize pipeline: select a window from the store, render
// the prompt, and call the model. The store is only ever read on this path.
type Service struct {
	store  Store
	client Client
	cfg    Config
	log    *slog.Logger
}

// NewService creates a summarization pipeline over the given store and client.
func NewService(store Store, client Client, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		client: client,
		cfg:    cfg,
		log:    log.With("component", "summary_service"),
	}
}

// Summarize selects the window described by sel from the chat's log and
// returns the model-generated summary. It returns ErrEmptyWindow when the
// window holds no messages.
func (s *Service) Summarize(ctx context.Context, chatID int64, sel Selector) (string, error) {
	var (
		messages []database.Message
		err      error
	)

	switch sel.Mode {
	case ByCount:
		messages, err = s.store.LastMessages(ctx, chatID, sel.Count)
	default:
		cutoff := time.Now().UTC().Add(-sel.Duration())
		messages, err = s.store.MessagesSince(ctx, chatID, cutoff)
	}
	if err != nil {
		return "", fmt.Errorf("failed to select window (%s): %w", sel, err)
	}

	if len(messages) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyWindow, sel)
	}

	prompt := BuildPrompt(s.cfg.Instruction, messages, s.cfg.MaxPromptChars)

	s.log.InfoContext(ctx, "Requesting summary",
		"chat_id", chatID, "window", sel.String(), "message_count", len(messages), "prompt_chars", len(prompt))

	text, err := s.client.Summarize(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary for %s: %w", sel, err)
	}

	return text, nil
}
