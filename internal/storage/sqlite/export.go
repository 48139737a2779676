// ABOUTME: Export functionality for assistant data
// ABOUTME: Supports YAML and Markdown export formats
package sqlite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version       string       `yaml:"version" json:"version"`
	ExportedAt    string       `yaml:"exported_at" json:"exported_at"`
	Tool          string       `yaml:"tool" json:"tool"`
	Facts         []ExportFact `yaml:"facts,omitempty" json:"facts,omitempty"`
	Conversations []ExportTurn `yaml:"conversations,omitempty" json:"conversations,omitempty"`
	TemplateCount int          `yaml:"template_count" json:"template_count"`
}

// ExportTurn represents a turn for export
type ExportTurn struct {
	UserText  string `yaml:"user" json:"user"`
	BotText   string `yaml:"bot" json:"bot"`
	Mood      string `yaml:"mood" json:"mood"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}

// ExportFact represents a fact for export
type ExportFact struct {
	Subject   string `yaml:"subject" json:"subject"`
	Key       string `yaml:"key" json:"key"`
	Value     string `yaml:"value" json:"value"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
}

// Export collects the latest facts and the full conversation log
func (s *Storage) Export() (*ExportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: s.now().Format(time.RFC3339),
		Tool:       "nova",
	}

	facts, err := s.facts.LatestPerKey()
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	for _, f := range facts {
		data.Facts = append(data.Facts, ExportFact{
			Subject:   f.Subject,
			Key:       f.Key,
			Value:     f.Value,
			CreatedAt: f.CreatedAt.Format(time.RFC3339),
		})
	}

	turns, err := s.turns.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	for _, t := range turns {
		data.Conversations = append(data.Conversations, ExportTurn{
			UserText:  t.UserText,
			BotText:   t.BotText,
			Mood:      string(t.Mood),
			Timestamp: t.CreatedAt.Format(time.RFC3339),
		})
	}

	if data.TemplateCount, err = s.templates.Count(); err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	return data, nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	return s.exportToFile(outputPath, WriteYAML)
}

// ExportToMarkdown exports data to a Markdown file
func (s *Storage) ExportToMarkdown(outputPath string) error {
	return s.exportToFile(outputPath, WriteMarkdown)
}

func (s *Storage) exportToFile(outputPath string, write func(io.Writer, *ExportData) error) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}

// WriteYAML encodes data as YAML with two-space indentation
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown renders data as a Markdown document
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Nova Export\n\n")
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Facts) > 0 {
		_, _ = fmt.Fprintln(w, "## Facts")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| Subject | Key | Value |")
		_, _ = fmt.Fprintln(w, "|---------|-----|-------|")
		for _, fact := range data.Facts {
			_, _ = fmt.Fprintf(w, "| %s | %s | %s |\n", fact.Subject, fact.Key, fact.Value)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Conversations) > 0 {
		_, _ = fmt.Fprintln(w, "## Conversations")
		_, _ = fmt.Fprintln(w)
		for _, turn := range data.Conversations {
			_, _ = fmt.Fprintf(w, "*%s* (%s)\n\n", turn.Timestamp, turn.Mood)
			_, _ = fmt.Fprintf(w, "**User:** %s\n\n", turn.UserText)
			if turn.BotText != "" {
				_, _ = fmt.Fprintf(w, "**Nova:** %s\n\n", turn.BotText)
			}
		}
	}

	_, err := fmt.Fprintf(w, "_%d templates loaded_\n", data.TemplateCount)
	return err
}
