// ABOUTME: nova version prints the build stamp and the database schema it writes
// ABOUTME: Honors --format json so release scripts can read it
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/nova/internal/storage/sqlite"
)

// VersionInfo is stamped by goreleaser through main.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Schema  int    `json:"schema"`
}

var versionInfo = VersionInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersion records build information from ldflags.
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo
			info.Schema = sqlite.SchemaVersion
			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Nova %s (%s, built %s, schema v%d)\n",
				info.Version, info.Commit, info.Date, info.Schema)
			return err
		},
	}
}
