package summary_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/groupdigest/digestbot/internal/database"
	"github.com/groupdigest/digestbot/internal/summary"
)

type fakeStore struct {
	messages []database.Message
	err      error

	sinceCalls int
	lastCalls  int
	gotChatID  int64
	gotCutoff  time.Time
	gotLimit   int
}

func (f *fakeStore) MessagesSince(_ context.Context, chatID int64, cutoff time.Time) ([]database.Message, error) {
	f.sinceCalls++
	f.gotChatID = chatID
	f.gotCutoff = cutoff
	return f.messages, f.err
}

func (f *fakeStore) LastMessages(_ context.Context, chatID int64, limit int) ([]database.Message, error) {
	f.lastCalls++
	f.gotChatID = chatID
	f.gotLimit = limit
	return f.messages, f.err
}

type fakeClient struct {
	response string
	err      error

	calls     int
	gotPrompt string
}

func (f *fakeClient) Summarize(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.response, f.err
}

func TestServiceSummarize_EmptyWindowSkipsClient(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	client := &fakeClient{response: "should never be used"}
	svc := summary.NewService(store, client, summary.Config{}, nil)

	sel, err := summary.ParseSelector("1hr", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	_, err = svc.Summarize(context.Background(), 42, sel)
	if !errors.Is(err, summary.ErrEmptyWindow) {
		t.Errorf("Summarize() error = %v, want ErrEmptyWindow", err)
	}
	if client.calls != 0 {
		t.Errorf("client calls = %d, want 0 for empty window", client.calls)
	}
}

func TestServiceSummarize_ByCount(t *testing.T) {
	t.Parallel()

	store := &fakeStore{messages: []database.Message{
		{Sender: "alice", Content: "hello"},
		{Sender: "bob", Content: "world"},
	}}
	client := &fakeClient{response: "a summary"}
	svc := summary.NewService(store, client, summary.Config{}, nil)

	sel, err := summary.ParseSelector("last 2", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	text, err := svc.Summarize(context.Background(), 42, sel)
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	if text != "a summary" {
		t.Errorf("Summarize() = %q, want %q", text, "a summary")
	}
	if store.lastCalls != 1 || store.sinceCalls != 0 {
		t.Errorf("store calls: last=%d since=%d, want last=1 since=0", store.lastCalls, store.sinceCalls)
	}
	if store.gotChatID != 42 {
		t.Errorf("chat ID = %d, want 42", store.gotChatID)
	}
	if store.gotLimit != 2 {
		t.Errorf("limit = %d, want 2", store.gotLimit)
	}
	if client.calls != 1 {
		t.Errorf("client calls = %d, want 1", client.calls)
	}
	if !strings.Contains(client.gotPrompt, "alice: hello\nbob: world\n") {
		t.Errorf("prompt missing rendered messages: %q", client.gotPrompt)
	}
}

func TestServiceSummarize_ByDurationCutoff(t *testing.T) {
	t.Parallel()

	store := &fakeStore{messages: []database.Message{{Sender: "a", Content: "x"}}}
	client := &fakeClient{response: "ok"}
	svc := summary.NewService(store, client, summary.Config{}, nil)

	sel, err := summary.ParseSelector("12hr", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	before := time.Now().UTC().Add(-12 * time.Hour)
	if _, err := svc.Summarize(context.Background(), 7, sel); err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	after := time.Now().UTC().Add(-12 * time.Hour)

	if store.sinceCalls != 1 || store.lastCalls != 0 {
		t.Errorf("store calls: since=%d last=%d, want since=1 last=0", store.sinceCalls, store.lastCalls)
	}
	if store.gotCutoff.Before(before) || store.gotCutoff.After(after) {
		t.Errorf("cutoff = %v, want within [%v, %v]", store.gotCutoff, before, after)
	}
}

func TestServiceSummarize_StoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk on fire")
	store := &fakeStore{err: storeErr}
	client := &fakeClient{}
	svc := summary.NewService(store, client, summary.Config{}, nil)

	sel, err := summary.ParseSelector("1day", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	_, err = svc.Summarize(context.Background(), 42, sel)
	if !errors.Is(err, storeErr) {
		t.Errorf("Summarize() error = %v, want wrapped %v", err, storeErr)
	}
	if client.calls != 0 {
		t.Errorf("client calls = %d, want 0 on store error", client.calls)
	}
}

func TestServiceSummarize_ClientError(t *testing.T) {
	t.Parallel()

	clientErr := errors.New("api timeout")
	store := &fakeStore{messages: []database.Message{{Sender: "a", Content: "x"}}}
	client := &fakeClient{err: clientErr}
	svc := summary.NewService(store, client, summary.Config{}, nil)

	sel, err := summary.ParseSelector("1hr", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	_, err = svc.Summarize(context.Background(), 42, sel)
	if !errors.Is(err, clientErr) {
		t.Errorf("Summarize() error = %v, want wrapped %v", err, clientErr)
	}
	if errors.Is(err, summary.ErrEmptyWindow) {
		t.Errorf("Summarize() error should not report an empty window: %v", err)
	}
}

func TestServiceSummarize_UsesConfiguredInstruction(t *testing.T) {
	t.Parallel()

	store := &fakeStore{messages: []database.Message{{Sender: "a", Content: "x"}}}
	client := &fakeClient{response: "ok"}
	svc := summary.NewService(store, client, summary.Config{Instruction: "Be terse."}, nil)

	sel, err := summary.ParseSelector("1hr", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector() returned error: %v", err)
	}

	if _, err := svc.Summarize(context.Background(), 42, sel); err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	if !strings.HasPrefix(client.gotPrompt, "Be terse.") {
		t.Errorf("prompt should start with the configured instruction, got %q", client.gotPrompt)
	}
}
