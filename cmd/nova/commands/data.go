// ABOUTME: Data management commands: template seeding and export
// ABOUTME: Export writes facts and conversations as YAML or Markdown
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/nova/internal/core"
	"github.com/harper/nova/internal/storage/sqlite"
)

var exportFormats = []string{"yaml", "markdown"}

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the built-in reply templates",
		Long: `Install the built-in greeting, check-in, birthday and festival
templates. Nothing happens if templates already exist.

Examples:
  nova seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			before := store.TemplateCount()
			if err := core.SeedAllIfEmpty(store); err != nil {
				return fmt.Errorf("failed to seed templates: %w", err)
			}
			after := store.TemplateCount()

			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]int{
					"added": after - before,
					"total": after,
				})
			}
			if !quiet {
				if after == before {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Templates already present (%d)\n", after)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d template(s)\n", after-before)
				}
			}
			return nil
		},
	}
}

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [yaml|markdown]",
		Short: "Export facts and conversations",
		Long: `Export the latest facts and the full conversation log.

The format defaults to yaml. Without --output the export is printed.

Examples:
  nova export
  nova export markdown --output nova.md
  nova export yaml -o backup.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "yaml"
			if len(args) == 1 {
				format = strings.ToLower(args[0])
			}
			if format == "md" {
				format = "markdown"
			}
			if !containsString(exportFormats, format) {
				return fmt.Errorf("unknown export format %q (want yaml or markdown)", format)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if output != "" {
				if format == "markdown" {
					err = store.ExportToMarkdown(output)
				} else {
					err = store.ExportToYAML(output)
				}
				if err != nil {
					return err
				}
				if !quiet {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", output)
				}
				return nil
			}

			data, err := store.Export()
			if err != nil {
				return err
			}
			if format == "markdown" {
				return sqlite.WriteMarkdown(cmd.OutOrStdout(), data)
			}
			return sqlite.WriteYAML(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
