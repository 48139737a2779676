// ABOUTME: Debug commands for the language understanding layer
// ABOUTME: parse shows intent, mood and task; suggest prints quick replies
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/nlu"
)

// ParseResult is what parse prints
type ParseResult struct {
	Text   string        `json:"text"`
	Intent models.Intent `json:"intent"`
	Mood   models.Mood   `json:"mood"`
	Task   *models.Task  `json:"task"`
}

// NewParseCmd creates the parse command
func NewParseCmd() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show how Nova understands a message",
		Long: `Classify a message and parse it as an action task, printing JSON.

With --record, travel, order, ride, reminder and note tasks are added to
the activity feed.

Examples:
  nova parse "book a flight from delhi to mumbai tomorrow"
  nova parse "order biryani on swiggy"
  nova parse --record "remind me to pay rent on friday"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			nova, err := openApp(cmd, "cli")
			if err != nil {
				return err
			}
			defer func() { _ = nova.Close() }()

			result := ParseResult{
				Text:   text,
				Intent: nlu.ClassifyIntent(text),
				Mood:   nlu.DetectMood(text),
			}
			if record {
				result.Task = nova.Assistant.Act(cmd.Context(), text)
			} else {
				result.Task = nlu.ParseTask(cmd.Context(), text, nova.Resolver)
			}

			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "Log actionable tasks to the activity feed")
	return cmd
}

// NewSuggestCmd creates the suggest command
func NewSuggestCmd() *cobra.Command {
	var (
		channel string
		starter string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "suggest [message]",
		Short: "Suggest quick replies",
		Long: `Suggest short quick replies to a message, or to the recent
conversation when no message is given.

Examples:
  nova suggest "are we still on for dinner?"
  nova suggest --channel email --starter thanks
  nova suggest --max 5`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "max"); err != nil {
				return err
			}

			nova, err := openApp(cmd, channel)
			if err != nil {
				return err
			}
			defer func() { _ = nova.Close() }()

			opts := core.SuggestOptions{Channel: channel, Starter: starter, Max: limit}
			if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
				opts.LastTwo = []core.Message{{FromMe: false, Text: text}}
			} else {
				for _, t := range nova.Store.RecentTurns(2) {
					opts.LastTwo = append(opts.LastTwo, core.Message{FromMe: true, Text: t.UserText})
				}
			}

			suggestions := nova.Suggester.SuggestReplies(cmd.Context(), opts)
			if jsonOutput() {
				if suggestions == nil {
					suggestions = []core.QuickReply{}
				}
				return writeJSON(cmd.OutOrStdout(), suggestions)
			}
			for _, s := range suggestions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "• %s\n", s.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "sms", "Channel: sms, whatsapp or email")
	cmd.Flags().StringVar(&starter, "starter", "", "Starter: hi, thanks, confirm or followup")
	cmd.Flags().IntVar(&limit, "max", core.DefaultMaxSuggestions, "Maximum number of suggestions")
	return cmd
}
