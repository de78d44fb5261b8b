// Species commands for the birdlog CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/birdlog/internal/settings"
	"github.com/mesh-intelligence/birdlog/internal/store"
	"github.com/mesh-intelligence/birdlog/internal/textutil"
	"github.com/mesh-intelligence/birdlog/pkg/types"
)

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "Manage the species catalog",
}

func init() {
	speciesCmd.AddCommand(speciesAddCmd)
	speciesCmd.AddCommand(speciesEditCmd)
	speciesCmd.AddCommand(speciesDeleteCmd)
	speciesCmd.AddCommand(speciesShowCmd)
	speciesCmd.AddCommand(speciesListCmd)
	speciesCmd.AddCommand(speciesImportCmd)
	speciesCmd.AddCommand(speciesExportCmd)
}

var speciesAddCmd = &cobra.Command{
	Use:   "add <key=value#...>",
	Short: "Add a species to the catalog",
	Long: `Add a species described by a key=value string. Required keys:
n (name), s (scientific name), m (family), r (order). Optional keys:
u (status), l (list), e (alternate name). Example:

  birdlog species add "n=black swan#s=cygnus atratus#m=ducks (anatidae)#r=anseriformes"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			sp, err := types.ParseSpeciesAdd(args[0], s.cat)
			if err != nil {
				return err
			}
			if err := s.cat.Insert(sp); err != nil {
				return err
			}
			s.speciesDirty = true

			index, err := s.cat.IndexOfCode(sp.Code)
			if err != nil {
				return err
			}
			info("added %s (%s) at position %d", sp.Name, sp.Code, index+1)
			return nil
		})
	},
}

var speciesEditCmd = &cobra.Command{
	Use:   "edit <code|number> <key=value#...>",
	Short: "Edit a species",
	Long: `Edit the species identified by its code or 1-based catalog position.
Keys: n (name), s (scientific name), m (family), o (order), u (status),
l (list), e (alternate name), c (explicit code). A changed scientific name
updates every sighting of the species; a code already held by another
species displaces that entry onto a freshly derived code.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			old, err := s.cat.Resolve(args[0])
			if err != nil {
				return err
			}
			result, err := types.EditSpecies(args[1], old, s.cat, s.sightings)
			if err != nil {
				return err
			}
			s.speciesDirty = true
			if len(result.UpdatedSightings) > 0 {
				s.sightingsDirty = true
			}

			info("edited %s (%s), now at position %d",
				result.Species.Name, result.Species.Code, result.NewPosition)
			if n := len(result.UpdatedSightings); n > 0 {
				info("updated %d %s", n, textutil.Plural("sighting", n))
			}
			if result.Displaced != nil {
				info("moved %s to code %s", result.Displaced.Name, result.Displaced.Code)
			}
			return nil
		})
	},
}

var speciesDeleteCmd = &cobra.Command{
	Use:   "delete <code|number>",
	Short: "Delete a species and every sighting of it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			r, err := s.cat.Resolve(args[0])
			if err != nil {
				return err
			}
			removed, err := types.DeleteSpecies(s.cat, s.sightings, r.Species)
			if err != nil {
				return err
			}
			s.speciesDirty = true
			if removed > 0 {
				s.sightingsDirty = true
			}

			info("deleted %s (%s) and %d %s",
				r.Species.Name, r.Code, removed, textutil.Plural("sighting", removed))
			return nil
		})
	},
}

var speciesShowCmd = &cobra.Command{
	Use:   "show [code|number]",
	Short: "Display one species in full",
	Long: `Display the species identified by its code or 1-based position. With no
argument the species shown last time is displayed again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			var r *types.Resolved
			var err error
			if len(args) == 1 {
				r, err = s.cat.Resolve(args[0])
			} else {
				r, err = s.lastViewedSpecies()
			}
			if err != nil {
				return err
			}

			s.printSpecies(r.Species, r.Index+1)

			if err := s.settings.Set(settings.KeyLastSpecies, r.Index+1); err != nil {
				return err
			}
			s.settingsDirty = true
			return nil
		})
	},
}

// lastViewedSpecies resolves the remembered catalog position, falling back
// to position 1 when the remembered one went stale.
func (s *session) lastViewedSpecies() (*types.Resolved, error) {
	position := s.settings.Number(settings.KeyLastSpecies)
	if position < 1 || position > s.cat.Len() {
		position = 1
	}
	sp, err := s.cat.ByIndex(position - 1)
	if err != nil {
		return nil, err
	}
	return &types.Resolved{Species: sp, Code: sp.Code, Index: position - 1, ByNumber: true}, nil
}

var speciesListCmd = &cobra.Command{
	Use:   "list [code-prefix]",
	Short: "List the catalog, optionally narrowed to a code prefix",
	Long: `List every species in code order. With a code prefix only species whose
codes fall in the prefix range are shown, e.g. "ga" lists codes from "ga"
up to "gb".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			species := s.cat.All()
			if len(args) == 1 {
				var err error
				species, err = s.cat.CodeRange(args[0])
				if err != nil {
					return err
				}
			}
			s.printSpeciesTable(species)
			return nil
		})
	},
}

var speciesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import species from a CSV file (--json for JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			var added int
			var err error
			if flagJSON {
				added, err = store.ImportCatalogJSON(args[0], s.cat)
			} else {
				added, err = store.ImportSpeciesCSV(args[0], s.cat)
			}
			if err != nil {
				return err
			}
			if added > 0 {
				s.speciesDirty = true
			}
			info("imported %d %s", added, textutil.Plural("species record", added))
			return nil
		})
	},
}

var speciesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the catalog to a CSV file (--json for JSON)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *session) error {
			s.requireSpecies()

			ext := "csv"
			if flagJSON {
				ext = "json"
			}
			path := defaultExportName("species", ext)
			if len(args) == 1 {
				path = args[0]
			}

			var err error
			if flagJSON {
				err = store.ExportCatalogJSON(path, s.cat)
			} else {
				err = store.ExportSpeciesCSV(path, s.cat)
			}
			if err != nil {
				return err
			}
			info("exported %d species to %s", s.cat.Len(), path)
			return nil
		})
	},
}
