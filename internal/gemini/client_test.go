package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestBuildModelChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		primary   string
		fallbacks []string
		want      []string
	}{
		{
			name:    "no fallbacks",
			primary: "gemini-2.0-flash",
			want:    []string{"gemini-2.0-flash"},
		},
		{
			name:      "fallbacks keep configuration order",
			primary:   "gemini-2.0-flash",
			fallbacks: []string{"gemini-2.5-flash-lite", "gemini-1.5-flash"},
			want:      []string{"gemini-2.0-flash", "gemini-2.5-flash-lite", "gemini-1.5-flash"},
		},
		{
			name:      "duplicate of primary dropped",
			primary:   "gemini-2.0-flash",
			fallbacks: []string{"gemini-2.0-flash", "gemini-1.5-flash"},
			want:      []string{"gemini-2.0-flash", "gemini-1.5-flash"},
		},
		{
			name:      "blank entries dropped",
			primary:   "gemini-2.0-flash",
			fallbacks: []string{"", "gemini-1.5-flash", ""},
			want:      []string{"gemini-2.0-flash", "gemini-1.5-flash"},
		},
		{
			name:      "repeated fallback dropped",
			primary:   "gemini-2.0-flash",
			fallbacks: []string{"gemini-1.5-flash", "gemini-1.5-flash"},
			want:      []string{"gemini-2.0-flash", "gemini-1.5-flash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildModelChain(tt.primary, tt.fallbacks)
			if len(got) != len(tt.want) {
				t.Fatalf("buildModelChain() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("buildModelChain()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFallbackWorthwhile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "server error", err: &genai.APIError{Code: 500}, want: true},
		{name: "service unavailable", err: &genai.APIError{Code: 503}, want: true},
		{name: "model not found", err: &genai.APIError{Code: 404}, want: true},
		{name: "rate limited", err: &genai.APIError{Code: 429}, want: true},
		{name: "network failure", err: errors.New("connection refused"), want: true},
		{name: "wrapped server error", err: fmt.Errorf("call failed: %w", &genai.APIError{Code: 503}), want: true},
		{name: "invalid request", err: &genai.APIError{Code: 400}, want: false},
		{name: "bad credentials", err: &genai.APIError{Code: 401}, want: false},
		{name: "permission denied", err: &genai.APIError{Code: 403}, want: false},
		{name: "expired context", err: context.DeadlineExceeded, want: false},
		{name: "canceled context", err: context.Canceled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fallbackWorthwhile(tt.err); got != tt.want {
				t.Errorf("fallbackWorthwhile(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
