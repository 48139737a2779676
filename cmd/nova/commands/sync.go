// ABOUTME: Sync commands for the Charm fact mirror
// ABOUTME: Provides status, push, pull-only sync, and listing of mirrored facts
package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/nova/internal/charm"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror facts to Charm cloud",
		Long: `Mirror remembered facts to Charm cloud.

Nova keeps everything in a local SQLite database. The sync commands copy
the latest value of every fact to Charm KV (authenticated by your SSH
key) so other devices linked to the same Charm account can read them.
Conversations and activities never leave the machine.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncFactsCmd())

	return cmd
}

func openMirror() (*charm.Mirror, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	m, err := charm.Open(charm.ConfigFrom(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return m, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			id, err := charm.ID()
			if err != nil {
				_, _ = fmt.Fprintln(out, "Status: Not connected")
				_, _ = fmt.Fprintf(out, "Reason: %v\n", err)
				return nil
			}

			_, _ = fmt.Fprintln(out, "Status: Connected")
			_, _ = fmt.Fprintf(out, "User ID: %s\n", id)
			_, _ = fmt.Fprintf(out, "Host: %s\n", charm.ConfigFrom(cfg).Host)
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMirror()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			if !quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			}
			if err := m.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			if !quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			}
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push the latest facts to Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			m, err := openMirror()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			n, err := m.PushFacts(store)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}
			if !quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Pushed %d changed fact(s)\n", n)
			}
			return nil
		},
	}
}

func newSyncFactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facts",
		Short: "List facts stored in Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMirror()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			facts, err := m.Facts()
			if err != nil {
				return err
			}
			sort.Slice(facts, func(i, j int) bool {
				if facts[i].Subject != facts[j].Subject {
					return facts[i].Subject < facts[j].Subject
				}
				return facts[i].Key < facts[j].Key
			})

			if jsonOutput() {
				if facts == nil {
					facts = []charm.MirroredFact{}
				}
				return writeJSON(cmd.OutOrStdout(), facts)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "SUBJECT\tKEY\tVALUE\tUPDATED\n")
			for _, f := range facts {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Subject, f.Key, truncate(f.Value, 40), formatTime(f.UpdatedAt))
			}
			return w.Flush()
		},
	}
}
