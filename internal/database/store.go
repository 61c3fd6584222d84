package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// duplicateWindow is the interval within which an identical message in the
// same chat is treated as a redelivery and silently skipped.
const duplicateWindow = time.Second

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new message record. Saving a message identical
	// to the chat's most recent one within duplicateWindow is a no-op.
	SaveMessage(ctx context.Context, message *Message) error

	// MessagesSince retrieves all messages for a chat with a timestamp at or
	// after cutoff, in the order they were received.
	MessagesSince(ctx context.Context, chatID int64, cutoff time.Time) ([]Message, error)

	// LastMessages retrieves the most recent 'limit' messages for a chat,
	// in the order they were received. Fewer rows than 'limit' is not an error.
	LastMessages(ctx context.Context, chatID int64, limit int) ([]Message, error)

	// CountMessages returns the number of logged messages for a chat.
	CountMessages(ctx context.Context, chatID int64) (int64, error)

	// DeleteChatMessages deletes all messages for a chat and returns the
	// number of rows removed (used by the reset command).
	DeleteChatMessages(ctx context.Context, chatID int64) (int64, error)

	// DeleteMessagesBefore deletes messages from all chats with a timestamp
	// strictly before cutoff and returns the number of rows removed
	// (used by the retention task).
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveMessage inserts a new message record.
// Includes parameter validation, duplicate suppression, and transaction support.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	// Validate input parameters
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}

	// Basic validation of required fields
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.Sender == "" {
		return fmt.Errorf("message must have a non-empty sender")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	message.CreatedAt = time.Now().UTC()

	// Start a transaction
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	// Telegram occasionally redelivers updates; an identical message landing
	// within duplicateWindow of an existing row is skipped.
	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT 1 FROM messages WHERE chat_id = ? AND content = ? AND timestamp BETWEEN ? AND ? LIMIT 1`,
		message.ChatID, message.Content,
		message.Timestamp.Add(-duplicateWindow), message.Timestamp.Add(duplicateWindow))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking for duplicate message",
			"chat_id", message.ChatID, "error", err)
		return fmt.Errorf("failed to check for duplicate message (chat %d): %w", message.ChatID, err)
	}
	if exists {
		s.logger.DebugContext(ctx, "Skipping duplicate message",
			"chat_id", message.ChatID, "user_id", message.UserID)
		return nil
	}

	query := `
        INSERT INTO messages (chat_id, user_id, sender, content, timestamp, created_at)
        VALUES (:chat_id, :user_id, :sender, :content, :timestamp, :created_at);
    `

	result, err := tx.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message (chat %d, user %d): %w", message.ChatID, message.UserID, err)
	}

	// Get the last inserted ID
	id, err := result.LastInsertId()
	if err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
	}

	// Check that we affected exactly one row
	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "affected", affected)
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	// Successfully committed, set tx to nil to avoid rollback
	tx = nil

	s.logger.DebugContext(ctx, "Message saved successfully",
		"chat_id", message.ChatID, "user_id", message.UserID, "message_id", message.ID)
	return nil
}

// MessagesSince retrieves all messages for a chat with a timestamp at or after
// cutoff. Results are in original receive order (timestamp, then insert order
// for equal timestamps). An empty window returns an empty slice, not an error.
func (s *sqlxStore) MessagesSince(ctx context.Context, chatID int64, cutoff time.Time) ([]Message, error) {
	// Parameter validation
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if cutoff.IsZero() {
		return nil, fmt.Errorf("cutoff cannot be zero")
	}

	// Check if context is already done
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []Message
	query := `
        SELECT id, chat_id, user_id, sender, content, timestamp, created_at
        FROM messages
        WHERE chat_id = ? AND timestamp >= ?
        ORDER BY timestamp ASC, id ASC;
    `

	s.logger.DebugContext(ctx, "Fetching messages since cutoff", "chat_id", chatID, "cutoff", cutoff)
	err := s.db.SelectContext(ctx, &messages, query, chatID, cutoff)

	// Check for timeout or cancellation
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"chat_id", chatID, "error", err)
		return nil, err
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting messages since cutoff", "chat_id", chatID, "cutoff", cutoff, "error", err)
		return nil, fmt.Errorf("failed to get messages since %s for chat %d: %w", cutoff.Format(time.RFC3339), chatID, err)
	}

	s.logger.DebugContext(ctx, "Fetched messages successfully", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

// LastMessages retrieves the most recent 'limit' messages for a chat.
// Results are returned in original receive order, oldest first, so callers can
// render them directly. Fewer rows than 'limit' yields a partial window.
func (s *sqlxStore) LastMessages(ctx context.Context, chatID int64, limit int) ([]Message, error) {
	// Parameter validation
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	// Check if context is already done
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var messages []Message
	query := `
        SELECT id, chat_id, user_id, sender, content, timestamp, created_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `

	s.logger.DebugContext(ctx, "Fetching last messages", "chat_id", chatID, "limit", limit)
	err := s.db.SelectContext(ctx, &messages, query, chatID, limit)

	// Check for timeout or cancellation
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching messages",
			"chat_id", chatID, "error", err)
		return nil, err
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting last messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get last %d messages for chat %d: %w", limit, chatID, err)
	}

	// The query returns newest first; flip back to receive order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	s.logger.DebugContext(ctx, "Fetched last messages successfully", "chat_id", chatID, "count", len(messages))
	return messages, nil
}

// CountMessages returns the number of logged messages for a chat.
func (s *sqlxStore) CountMessages(ctx context.Context, chatID int64) (int64, error) {
	if chatID == 0 {
		return 0, fmt.Errorf("chat_id cannot be zero")
	}

	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error counting messages", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to count messages for chat %d: %w", chatID, err)
	}

	return count, nil
}

// DeleteChatMessages deletes all messages for a chat (used by the reset command).
func (s *sqlxStore) DeleteChatMessages(ctx context.Context, chatID int64) (int64, error) {
	if chatID == 0 {
		return 0, fmt.Errorf("chat_id cannot be zero")
	}

	query := `DELETE FROM messages WHERE chat_id = ?`
	result, err := s.db.ExecContext(ctx, query, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting chat messages", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to delete messages for chat %d: %w", chatID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted chat messages", "chat_id", chatID, "count", count)
	return count, nil
}

// DeleteMessagesBefore deletes messages older than cutoff across all chats
// (used by the retention task). Rows with timestamp equal to cutoff are kept.
func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, fmt.Errorf("cutoff cannot be zero")
	}

	query := `DELETE FROM messages WHERE timestamp < ?`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting messages before cutoff", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete messages before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted messages before cutoff", "cutoff", cutoff, "count", count)
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	// Check if context is already done
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// Give concurrent writers a chance to finish before VACUUM takes the lock.
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// Execute VACUUM - must be outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
