package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/groupdigest/digestbot/internal/database"

	_ "modernc.org/sqlite"
)

// newTestStore opens a store over a fresh temporary database with the real
// migrations applied.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB(%q) returned error: %v", dbPath, err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func saveMessage(t *testing.T, store database.Store, chatID int64, sender, content string, ts time.Time) {
	t.Helper()

	msg := &database.Message{
		ChatID:    chatID,
		UserID:    100,
		Sender:    sender,
		Content:   content,
		Timestamp: ts,
	}
	if err := store.SaveMessage(context.Background(), msg); err != nil {
		t.Fatalf("SaveMessage(%q) returned error: %v", content, err)
	}
}

func TestLastMessages_ReturnsNewestInReceiveOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 42, "alice", "first", base)
	saveMessage(t, store, 42, "bob", "second", base.Add(1*time.Minute))
	saveMessage(t, store, 42, "carol", "third", base.Add(2*time.Minute))

	got, err := store.LastMessages(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("LastMessages() returned error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("LastMessages() returned %d messages, want 2", len(got))
	}
	if got[0].Content != "second" || got[1].Content != "third" {
		t.Errorf("LastMessages() = [%q, %q], want [\"second\", \"third\"]", got[0].Content, got[1].Content)
	}
}

func TestLastMessages_PartialWindow(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 1, "alice", "only one", base)
	saveMessage(t, store, 1, "bob", "and two", base.Add(time.Minute))

	got, err := store.LastMessages(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("LastMessages() returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LastMessages() returned %d messages, want 2", len(got))
	}
	if got[0].Content != "only one" || got[1].Content != "and two" {
		t.Errorf("LastMessages() = [%q, %q], want receive order", got[0].Content, got[1].Content)
	}
}

func TestLastMessages_Validation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.LastMessages(context.Background(), 0, 5); err == nil {
		t.Error("LastMessages() with zero chat ID should fail")
	}
	if _, err := store.LastMessages(context.Background(), 1, 0); err == nil {
		t.Error("LastMessages() with zero limit should fail")
	}
	if _, err := store.LastMessages(context.Background(), 1, -3); err == nil {
		t.Error("LastMessages() with negative limit should fail")
	}
}

func TestMessagesSince_CutoffIsInclusive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 7, "alice", "too old", base.Add(-time.Hour))
	saveMessage(t, store, 7, "bob", "right at the cutoff", base)
	saveMessage(t, store, 7, "carol", "recent", base.Add(time.Hour))

	got, err := store.MessagesSince(context.Background(), 7, base)
	if err != nil {
		t.Fatalf("MessagesSince() returned error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("MessagesSince() returned %d messages, want 2", len(got))
	}
	if got[0].Content != "right at the cutoff" || got[1].Content != "recent" {
		t.Errorf("MessagesSince() = [%q, %q], want cutoff row first", got[0].Content, got[1].Content)
	}
}

func TestMessagesSince_EmptyWindow(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 9, "alice", "ancient history", base.Add(-48*time.Hour))

	got, err := store.MessagesSince(context.Background(), 9, base)
	if err != nil {
		t.Fatalf("MessagesSince() returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("MessagesSince() returned %d messages, want 0", len(got))
	}
}

func TestMessagesSince_ChatIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 10, "alice", "in chat ten", base)
	saveMessage(t, store, 11, "bob", "in chat eleven", base)

	got, err := store.MessagesSince(context.Background(), 10, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("MessagesSince() returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("MessagesSince() returned %d messages, want 1", len(got))
	}
	if got[0].Content != "in chat ten" {
		t.Errorf("MessagesSince() leaked message from another chat: %q", got[0].Content)
	}
}

func TestSaveMessage_SkipsDuplicateWithinWindow(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 5, "alice", "same text", base)
	saveMessage(t, store, 5, "alice", "same text", base.Add(500*time.Millisecond))

	count, err := store.CountMessages(context.Background(), 5)
	if err != nil {
		t.Fatalf("CountMessages() returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("CountMessages() = %d, want 1 after duplicate save", count)
	}
}

func TestSaveMessage_KeepsRepeatOutsideWindow(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 6, "alice", "same text", base)
	saveMessage(t, store, 6, "alice", "same text", base.Add(5*time.Second))

	count, err := store.CountMessages(context.Background(), 6)
	if err != nil {
		t.Fatalf("CountMessages() returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("CountMessages() = %d, want 2 for repeats outside the window", count)
	}
}

func TestSaveMessage_DifferentChatsNotDeduplicated(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 20, "alice", "same text", base)
	saveMessage(t, store, 21, "alice", "same text", base)

	for _, chatID := range []int64{20, 21} {
		count, err := store.CountMessages(context.Background(), chatID)
		if err != nil {
			t.Fatalf("CountMessages(%d) returned error: %v", chatID, err)
		}
		if count != 1 {
			t.Errorf("CountMessages(%d) = %d, want 1", chatID, count)
		}
	}
}

func TestSaveMessage_Validation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		msg  *database.Message
	}{
		{name: "nil message", msg: nil},
		{name: "zero chat id", msg: &database.Message{Sender: "a", Content: "x", Timestamp: ts}},
		{name: "empty sender", msg: &database.Message{ChatID: 1, Content: "x", Timestamp: ts}},
		{name: "empty content", msg: &database.Message{ChatID: 1, Sender: "a", Timestamp: ts}},
		{name: "zero timestamp", msg: &database.Message{ChatID: 1, Sender: "a", Content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveMessage(context.Background(), tt.msg); err == nil {
				t.Errorf("SaveMessage(%s) succeeded, want error", tt.name)
			}
		})
	}
}

func TestDeleteChatMessages(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 30, "alice", "one", base)
	saveMessage(t, store, 30, "bob", "two", base.Add(time.Minute))
	saveMessage(t, store, 31, "carol", "elsewhere", base)

	deleted, err := store.DeleteChatMessages(context.Background(), 30)
	if err != nil {
		t.Fatalf("DeleteChatMessages() returned error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteChatMessages() = %d, want 2", deleted)
	}

	count, err := store.CountMessages(context.Background(), 30)
	if err != nil {
		t.Fatalf("CountMessages() returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("CountMessages(30) = %d, want 0 after delete", count)
	}

	other, err := store.CountMessages(context.Background(), 31)
	if err != nil {
		t.Fatalf("CountMessages() returned error: %v", err)
	}
	if other != 1 {
		t.Errorf("CountMessages(31) = %d, want 1; delete must not cross chats", other)
	}
}

func TestDeleteMessagesBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	cutoff := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saveMessage(t, store, 40, "alice", "stale", cutoff.Add(-time.Hour))
	saveMessage(t, store, 41, "bob", "also stale", cutoff.Add(-time.Minute))
	saveMessage(t, store, 40, "carol", "at the cutoff", cutoff)
	saveMessage(t, store, 40, "dave", "fresh", cutoff.Add(time.Hour))

	deleted, err := store.DeleteMessagesBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteMessagesBefore() returned error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteMessagesBefore() = %d, want 2", deleted)
	}

	remaining, err := store.MessagesSince(context.Background(), 40, cutoff.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("MessagesSince() returned error: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("MessagesSince() returned %d messages, want 2", len(remaining))
	}
	if remaining[0].Content != "at the cutoff" || remaining[1].Content != "fresh" {
		t.Errorf("rows kept = [%q, %q], want the cutoff row and newer", remaining[0].Content, remaining[1].Content)
	}
}

func TestCountMessages_EmptyChat(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	count, err := store.CountMessages(context.Background(), 999)
	if err != nil {
		t.Fatalf("CountMessages() returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("CountMessages() = %d, want 0 for unknown chat", count)
	}
}
