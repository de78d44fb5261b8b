// Shared helpers for birdlog CLI commands: the per-invocation session, the
// tagged terminal feedback lines, and the record renderers.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/birdlog/internal/paths"
	"github.com/mesh-intelligence/birdlog/internal/settings"
	"github.com/mesh-intelligence/birdlog/internal/store"
	"github.com/mesh-intelligence/birdlog/internal/textutil"
	"github.com/mesh-intelligence/birdlog/pkg/types"
)

// session holds everything one invocation works with: the settings store,
// the storage backend, and both collections loaded into memory. Two dirty
// flags decide which collections are written back on close.
type session struct {
	settings  *settings.Settings
	store     store.Store
	cat       *types.Catalog
	sightings *types.SightingList

	speciesDirty   bool
	sightingsDirty bool
	settingsDirty  bool
}

// openSession resolves directories, loads settings, opens the configured
// backend, and loads both collections.
func openSession() (*session, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	st, err := settings.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, st.String(settings.KeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	s, err := store.Open(st.String(settings.KeyBackend), dataDir)
	if err != nil {
		return nil, err
	}

	cat, err := s.LoadCatalog()
	if err != nil {
		s.Close()
		return nil, err
	}
	l, err := s.LoadSightings()
	if err != nil {
		s.Close()
		return nil, err
	}

	return &session{settings: st, store: s, cat: cat, sightings: l}, nil
}

// close writes back every dirty collection and releases the backend. Called
// only after the command succeeded; a failed command leaves the files
// untouched.
func (s *session) close() error {
	defer s.store.Close()

	if s.speciesDirty {
		if err := s.store.SaveCatalog(s.cat); err != nil {
			return err
		}
	}
	if s.sightingsDirty {
		if err := s.store.SaveSightings(s.sightings); err != nil {
			return err
		}
	}
	if s.settingsDirty {
		if err := s.settings.Save(); err != nil {
			return err
		}
	}
	return nil
}

// run wraps a command body with session setup, save-back, and the exit-code
// policy: parse/validation/reference errors are user errors, IO and
// invariant failures are system errors.
func run(body func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		fail(err)
	}
	if err := body(s); err != nil {
		s.store.Close()
		fail(err)
	}
	if err := s.close(); err != nil {
		fail(err)
	}
	return nil
}

// fail prints a tagged error line and exits with the matching code.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if types.IsKind(err, types.IOFailure) || types.IsKind(err, types.StructuralInvariant) {
		os.Exit(exitSysError)
	}
	os.Exit(exitUserError)
}

// warnExit prints a tagged warning line and exits as a user error. Used by
// the empty-database guards.
func warnExit(msg string) {
	fmt.Fprintln(os.Stderr, "Warning:", msg)
	os.Exit(exitUserError)
}

func info(format string, args ...any) {
	fmt.Printf("Info: "+format+"\n", args...)
}

// requireSpecies guards commands that need a non-empty catalog.
func (s *session) requireSpecies() {
	if s.cat.Len() == 0 {
		warnExit(types.ErrEmptyCatalog.Error())
	}
}

// requireSightings guards commands that need at least one sighting.
func (s *session) requireSightings() {
	if s.sightings.Len() == 0 {
		warnExit(types.ErrEmptySightings.Error())
	}
}

// displayDate renders a timestamp with the user's preferred separator.
func (s *session) displayDate(rec *types.Sighting) string {
	sep := s.settings.String(settings.KeyDateSeparator)
	if sep == "" || sep == "." {
		return rec.DisplayDate()
	}
	return strings.ReplaceAll(rec.DisplayDate(), ".", sep)
}

// defaultExportName builds the timestamped default export file name.
func defaultExportName(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("20060102-150405"), ext)
}

// printSpecies renders one species with its catalog position and observation
// count.
func (s *session) printSpecies(sp *types.Species, position int) {
	count := len(s.sightings.IndicesForSname(sp.Sname))

	fmt.Printf("%d  %s  (%s)\n", position, sp.Name, sp.Code)
	fmt.Printf("    %-16s %s\n", "scientific name", sp.Sname)
	fmt.Printf("    %-16s %s\n", "order", sp.Order)
	fmt.Printf("    %-16s %s\n", "family", sp.Family)
	if sp.Status != "" {
		fmt.Printf("    %-16s %s\n", "status", sp.Status)
	}
	if sp.Aname != "" {
		fmt.Printf("    %-16s %s (%s)\n", "alternate name", sp.Aname, sp.Acode)
	}
	if sp.List != "" {
		fmt.Printf("    %-16s %s\n", "list", sp.List)
	}
	fmt.Printf("    %-16s %d %s\n", "observations", count, textutil.Plural("record", count))
}

// printSpeciesTable renders species rows with their 1-based positions.
func (s *session) printSpeciesTable(species []*types.Species) {
	for _, sp := range species {
		index, err := s.cat.IndexOfCode(sp.Code)
		if err != nil {
			continue
		}
		fmt.Printf("%4d  %s  %s  %s\n",
			index+1,
			textutil.Justify(sp.Code, 8, textutil.AlignLeft),
			textutil.Justify(sp.Name, textutil.NameLen, textutil.AlignLeft),
			sp.Sname)
	}
}

// printSighting renders one sighting in full.
func (s *session) printSighting(rec *types.Sighting, position int) {
	fmt.Printf("%d  %s  %s\n", position, s.displayDate(rec), rec.Sname)
	fmt.Printf("    %-16s %s\n", "location", rec.Location)
	fmt.Printf("    %-16s %s\n", "town", rec.Town)
	fmt.Printf("    %-16s %s\n", "province/state", rec.Province)
	fmt.Printf("    %-16s %s\n", "country", rec.Country)
	fmt.Printf("    %-16s %s\n", "observed", rec.FlagString())
	if rec.Comments != "" {
		fmt.Printf("    %-16s %s\n", "comments", rec.Comments)
	}
}

// printSightingRows renders sighting rows with their 1-based positions.
func (s *session) printSightingRows(positions []int, records []*types.Sighting) {
	for i, rec := range records {
		fmt.Printf("%4d  %s  %s  %s  %s\n",
			positions[i],
			s.displayDate(rec),
			textutil.Justify(rec.Sname, textutil.NameLen, textutil.AlignLeft),
			textutil.Justify(rec.Location, textutil.NameLen, textutil.AlignLeft),
			rec.FlagString())
	}
}
