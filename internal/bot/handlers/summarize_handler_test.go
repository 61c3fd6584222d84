package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/groupdigest/digestbot/internal/config"
	"github.com/groupdigest/digestbot/internal/summary"
)

var _ Summarizer = (*summary.Service)(nil)

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(context.Context, int64, summary.Selector) (string, error) {
	return s.text, s.err
}

func TestSummaryReply(t *testing.T) {
	t.Parallel()

	msgs := config.MessagesConfig{
		SummaryHeader: "Summary for %s:",
		EmptyWindow:   "nothing to summarize",
		SummaryError:  "summary unavailable",
	}
	sel, err := summary.ParseSelector("1day", summary.DefaultMaxCount)
	if err != nil {
		t.Fatalf("ParseSelector(1day) returned error: %v", err)
	}

	tests := []struct {
		name       string
		summarizer stubSummarizer
		want       string
	}{
		{
			name:       "successful summary",
			summarizer: stubSummarizer{text: "Alice planned the trip."},
			want:       "Summary for last 1 day:\n\nAlice planned the trip.",
		},
		{
			name:       "empty window",
			summarizer: stubSummarizer{err: fmt.Errorf("no messages: %w", summary.ErrEmptyWindow)},
			want:       "nothing to summarize",
		},
		{
			name:       "model API failure",
			summarizer: stubSummarizer{err: errors.New("gemini API call failed: service unavailable")},
			want:       "summary unavailable",
		},
		{
			name:       "timed out request",
			summarizer: stubSummarizer{err: fmt.Errorf("failed to generate summary for %s: %w", sel, context.DeadlineExceeded)},
			want:       "summary unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, gotErr := tt.summarizer.Summarize(context.Background(), 42, sel)
			if got := summaryReply(msgs, sel, text, gotErr); got != tt.want {
				t.Errorf("summaryReply() = %q, want %q", got, tt.want)
			}
		})
	}
}
