// Root command for the birdlog CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/birdlog/internal/paths"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

var rootCmd = &cobra.Command{
	Use:           "birdlog",
	Short:         "Birdlog keeps a personal record of bird species and sightings",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "import/export as JSON instead of CSV")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(speciesCmd)
	rootCmd.AddCommand(sightingCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveConfigDir follows the precedence chain
// --config-dir flag > BIRDLOG_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
