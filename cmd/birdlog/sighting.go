// Sighting commands for the birdlog CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/birdlog/internal/settings"
	"github.com/mesh-intelligence/birdlog/internal/store"
	"github.com/mesh-intelligence/birdlog/internal/textutil"
	"github.com/mesh-intelligence/birdlog/pkg/types"
)

var sightingCmd = &cobra.Command{
	Use:   "sighting",
	Short: "Manage the sighting records",
}

func init() {
	sightingCmd.AddCommand(sightingAddCmd)
	sightingCmd.AddCommand(sightingEditCmd)
	sightingCmd.AddCommand(sightingDeleteCmd)
	sightingCmd.AddCommand(sightingShowCmd)
	sightingCmd.AddCommand(sightingSearchCmd)
	sightingCmd.AddCommand(sightingLastCmd)
	sightingCmd.AddCommand(sightingImportCmd)
	sightingCmd.AddCommand(sightingExportCmd)
}

var sightingAddCmd = &cobra.Command{
	Use:   "add <flags#key=value#...>",
	Short: "Record a sighting",
	Long: `Record a sighting described by a flags-and-key=value string. The bare
term carries the observation attribute letters (S seen, H heard, R ringed,
B breeding, N nonbreeding, T nest, G eggs, C chicks, I immature, E dead,
M male, F female, A adult, P photo) and may carry one digit referencing an
entry of the last-10 location list. Keys: c (species code), d (date),
a (location), w (town), p (province/state), t (country), o (comments).
Example:

  birdlog sighting add "SM#c=swbl#d=22.01.01#a=delta park#w=durban#p=kzn#t=south africa"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			recent := types.RecentLocations(s.sightings)
			position, err := s.sightings.Add(args[0], recent, s.cat)
			if err != nil {
				return err
			}
			s.sightingsDirty = true

			rec, err := s.sightings.At(position - 1)
			if err != nil {
				return err
			}
			info("added sighting of %s on %s at position %d",
				rec.Sname, s.displayDate(rec), position)
			return nil
		})
	},
}

var sightingEditCmd = &cobra.Command{
	Use:   "edit <number> <flags#key=value#...>",
	Short: "Edit the sighting at a 1-based position",
	Long: `Edit the sighting identified by its 1-based position. Keyed terms
replace single fields; a bare flags term, when present, replaces the whole
attribute set. The record may move to a different position afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			_, index, err := s.sightings.ResolveNumber(args[0], s.cat)
			if err != nil {
				return err
			}
			position, err := s.sightings.Edit(args[1], index, s.cat)
			if err != nil {
				return err
			}
			s.sightingsDirty = true

			info("edited sighting, now at position %d", position)
			return nil
		})
	},
}

var sightingDeleteCmd = &cobra.Command{
	Use:   "delete <number>",
	Short: "Delete the sighting at a 1-based position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			rec, index, err := s.sightings.ResolveNumber(args[0], s.cat)
			if err != nil {
				return err
			}
			if err := s.sightings.Remove(index); err != nil {
				return err
			}
			s.sightingsDirty = true

			info("deleted sighting of %s on %s", rec.Sname, s.displayDate(rec))
			return nil
		})
	},
}

var sightingShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Display one sighting in full",
	Long: `Display the sighting at a 1-based position. With no argument the
sighting shown last time is displayed again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			var rec *types.Sighting
			var index int
			var err error
			if len(args) == 1 {
				rec, index, err = s.sightings.ResolveNumber(args[0], s.cat)
				if err != nil {
					return err
				}
			} else {
				position := s.settings.Number(settings.KeyLastSighting)
				if position < 1 || position > s.sightings.Len() {
					position = 1
				}
				index = position - 1
				rec, err = s.sightings.At(index)
				if err != nil {
					return err
				}
			}

			s.printSighting(rec, index+1)

			if err := s.settings.Set(settings.KeyLastSighting, index+1); err != nil {
				return err
			}
			s.settingsDirty = true
			return nil
		})
	},
}

var sightingSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the sightings",
	Long: `Search the sightings with an AND query. Bare upper-case letters demand
observation attributes; keyed terms match fields: a location, c species
code (exact), d date or date range (from-to), e alternate name, l list,
m family, n name, o comments, p province/state, r order, s scientific
name, t country, u status, w town. Example:

  birdlog sighting search "SB#a=delta park#d=2001.01.01-2020.03.31"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			positions, records, err := types.Search(args[0], s.cat, s.sightings)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				info("no sightings match")
				return nil
			}
			s.printSightingRows(positions, records)
			info("%d %s matched", len(records), textutil.Plural("sighting", len(records)))
			return nil
		})
	},
}

var sightingLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the last-10 location list",
	Long: `Show the ten most recent distinct locations. The leading digit of each
line can be used in "sighting add" to reuse that entry's location, town,
province, country, and date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			for _, entry := range types.RecentLocations(s.sightings) {
				fmt.Println(entry.Line())
			}
			return nil
		})
	},
}

var sightingImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sightings from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			added, err := store.ImportSightingsJSON(args[0], s.sightings, s.cat)
			if err != nil {
				return err
			}
			if added > 0 {
				s.sightingsDirty = true
			}
			info("imported %d %s", added, textutil.Plural("sighting", added))
			return nil
		})
	},
}

var sightingExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the sightings to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSightings()

			path := defaultExportName("sightings", "json")
			if len(args) == 1 {
				path = args[0]
			}
			if err := store.ExportSightingsJSON(path, s.sightings); err != nil {
				return err
			}
			info("exported %d %s to %s",
				s.sightings.Len(), textutil.Plural("sighting", s.sightings.Len()), path)
			return nil
		})
	},
}
