// ABOUTME: CLI commands that read and write remembered data directly
// ABOUTME: remember, facts, history and activity work without an inference engine
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/nlu"
)

// NewRememberCmd creates the remember command
func NewRememberCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "remember <key> <value>",
		Short: "Save a fact",
		Long: `Save a fact about you or someone you know.

Keys are normalized ("Favourite Colour" becomes favorite_color). Saving
the same key again keeps the history; the newest value wins.

Examples:
  nova remember birthday "March 3"
  nova remember --subject mom phone "+1 555 0100"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemember(cmd, subject, args[0], strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", models.DefaultSubject, "Who the fact is about")
	return cmd
}

func runRemember(cmd *cobra.Command, subject, key, value string) error {
	fact, err := models.NewFact(nlu.NormalizeSubject(subject), nlu.SlugKey(key), nlu.CleanValue(value))
	if err != nil {
		return fmt.Errorf("invalid fact: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	store.RememberFact(fact.Subject, fact.Key, fact.Value)

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), fact)
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Remembered %s's %s = %s\n", fact.Subject, fact.Key, fact.Value)
	}
	return nil
}

// NewFactsCmd creates the facts command
func NewFactsCmd() *cobra.Command {
	var (
		subject string
		key     string
		limit   int
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "List remembered facts",
		Long: `List remembered facts, newest first.

Examples:
  nova facts
  nova facts --subject mom
  nova facts --key birthday --subject mom
  nova facts --all --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var facts []models.Fact
			switch {
			case all:
				facts = store.LatestFacts()
			case key != "":
				facts = store.FactsByKey(nlu.SlugKey(key), nlu.NormalizeSubject(subject))
			default:
				facts = store.AllFacts(limit, nlu.NormalizeSubject(subject))
			}
			if len(facts) > limit && !all {
				facts = facts[:limit]
			}

			return printFacts(cmd, facts)
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", models.DefaultSubject, "Who to list facts for")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Show the history of one key")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of facts")
	cmd.Flags().BoolVar(&all, "all", false, "Latest value of every key for every subject")
	return cmd
}

func printFacts(cmd *cobra.Command, facts []models.Fact) error {
	if len(facts) == 0 {
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), []models.Fact{})
		}
		if !quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No facts found")
		}
		return nil
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), facts)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "SUBJECT\tKEY\tVALUE\tSAVED\n")
	_, _ = fmt.Fprintf(w, "-------\t---\t-----\t-----\n")
	for _, f := range facts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncate(f.Subject, 20),
			truncate(f.Key, 24),
			truncate(f.Value, 40),
			formatTime(f.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d fact(s)\n", len(facts))
	}
	return nil
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversation turns",
		Long: `Show the most recent conversation turns, newest first.

Examples:
  nova history
  nova history --limit 50 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			turns := store.RecentTurns(limit)
			if jsonOutput() {
				if turns == nil {
					turns = []models.Turn{}
				}
				return writeJSON(cmd.OutOrStdout(), turns)
			}
			if len(turns) == 0 {
				if !quiet {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No conversation yet")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "WHEN\tMOOD\tYOU\tNOVA\n")
			_, _ = fmt.Fprintf(w, "----\t----\t---\t----\n")
			for _, t := range turns {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					formatTime(t.CreatedAt),
					t.Mood,
					truncate(t.UserText, 40),
					truncate(t.BotText, 50))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of turns to show")
	return cmd
}

// NewActivityCmd creates the activity command
func NewActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the recent activity feed",
		Long: `Show travel, order, ride, reminder and note tasks recorded by
"nova parse --record", newest first.

Examples:
  nova activity
  nova activity --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			activities := store.RecentActivities(limit)
			if jsonOutput() {
				if activities == nil {
					activities = []models.Activity{}
				}
				return writeJSON(cmd.OutOrStdout(), activities)
			}
			if len(activities) == 0 {
				if !quiet {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No activity yet")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "KIND\tTITLE\tWHEN\tLOGGED\n")
			_, _ = fmt.Fprintf(w, "----\t-----\t----\t------\n")
			for _, a := range activities {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					a.Kind,
					truncate(a.Title, 40),
					a.When,
					formatTime(a.CreatedAt))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of activities to show")
	return cmd
}
