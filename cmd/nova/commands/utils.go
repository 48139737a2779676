// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Truncation, relative times, JSON output, and reply printing
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harper/nova/internal/assistant"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// containsString checks if a slice contains a string
func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printReply renders an assistant reply for a terminal
func printReply(w io.Writer, prefix string, reply assistant.Reply) {
	_, _ = fmt.Fprintf(w, "%s%s\n", prefix, reply.Text)

	if reply.Headline != nil {
		_, _ = fmt.Fprintf(w, "  📰 %s\n", reply.Headline.Title)
	}
	for _, link := range reply.Links {
		_, _ = fmt.Fprintf(w, "  🔗 %s %s\n", link.Title, link.URL)
	}
	if len(reply.Suggestions) > 0 {
		chips := make([]string, len(reply.Suggestions))
		for i, s := range reply.Suggestions {
			chips[i] = "[" + s.Text + "]"
		}
		_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(chips, " "))
	}
}
