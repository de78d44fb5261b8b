// Config commands for the birdlog CLI.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/birdlog/internal/settings"
	"github.com/mesh-intelligence/birdlog/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List every settings key and its current value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			for _, key := range settings.Keys() {
				fmt.Printf("%s = %s\n", key, s.settings.String(key))
			}
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Assign a value to a settings key",
	Long: `Assign a value to one of the recognized settings keys:
date_separator, backend, data_dir, last_species_viewed, last_sighting_viewed.
The backend key takes effect on the next invocation. Example:

  birdlog config set date_separator -`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			key := strings.TrimSpace(args[0])
			if err := s.settings.Set(key, args[1]); err != nil {
				if errors.Is(err, types.ErrKeyNotFound) {
					warnExit(fmt.Sprintf("unknown settings key %q", key))
				}
				return err
			}
			s.settingsDirty = true
			info("set %s to %s", key, args[1])
			return nil
		})
	},
}
