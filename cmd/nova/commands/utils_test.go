// ABOUTME: Tests for the table and reply helpers shared by nova subcommands
// ABOUTME: Covers fact-table truncation, relative times and reply rendering
package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harper/nova/internal/assistant"
	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/web"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"May 3", 40, "May 3"},
		{"favorite_restaurant_in_bangalore", 24, "favorite_restaurant_i..."},
		{"héllo wörld", 8, "héllo..."},
		{"ñandú", 2, "ña"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.at); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}

	old := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	if got := formatTime(old); got != "2025-03-14" {
		t.Errorf("formatTime(old) = %q, want 2025-03-14", got)
	}
}

func TestExportFormatCheck(t *testing.T) {
	if !containsString(exportFormats, "markdown") {
		t.Error("markdown should be an export format")
	}
	if containsString(exportFormats, "csv") {
		t.Error("csv should not be an export format")
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(3, "limit"); err != nil {
		t.Errorf("validatePositiveInt(3) error = %v", err)
	}
	err := validatePositiveInt(-1, "max")
	if err == nil || !strings.Contains(err.Error(), "max must be positive") {
		t.Errorf("validatePositiveInt(-1) error = %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"count": 2}); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"count": 2`) {
		t.Errorf("writeJSON() = %q", buf.String())
	}
}

func TestPrintReply(t *testing.T) {
	var buf bytes.Buffer
	printReply(&buf, "nova> ", assistant.Reply{
		Text:        "Morning! Sleep okay?",
		Headline:    &web.Headline{Title: "Rain expected", URL: "https://example.com/rain"},
		Links:       []web.Link{{Title: "Forecast", URL: "https://example.com/f"}},
		Suggestions: []core.QuickReply{{Text: "Yes"}, {Text: "Not really"}},
	})

	out := buf.String()
	for _, want := range []string{"nova> Morning! Sleep okay?", "Rain expected", "https://example.com/f", "[Yes] [Not really]"} {
		if !strings.Contains(out, want) {
			t.Errorf("printReply() output missing %q:\n%s", want, out)
		}
	}
}
