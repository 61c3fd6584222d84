package database

import (
	"time"
)

// Message represents a message sent in a Telegram group chat.
// It stores the message content and sender information used to build
// summarization windows. Messages are immutable once inserted.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Sender    string    `db:"sender"` // display name used in summary prompts
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"` // when the message was sent, UTC
}
