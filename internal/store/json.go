package store

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

// ExportCatalogJSON writes the catalog as a pretty-printed JSON object keyed
// by species code.
func ExportCatalogJSON(path string, cat *types.Catalog) error {
	byCode := make(map[string]*types.Species, cat.Len())
	for _, sp := range cat.All() {
		byCode[sp.Code] = sp
	}
	data, err := json.MarshalIndent(byCode, "", "  ")
	if err != nil {
		return types.Wrap(types.IOFailure, err, "encoding species catalog")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return types.Wrap(types.IOFailure, err, "writing %s", path)
	}
	return nil
}

// ImportCatalogJSON reads a JSON object keyed by species code into the
// catalog. Records are taken in code order; a code or scientific name already
// present aborts the import. Returns how many species were added.
func ImportCatalogJSON(path string, cat *types.Catalog) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, types.Wrap(types.IOFailure, err, "reading %s", path)
	}

	byCode := make(map[string]*types.Species)
	if err := json.Unmarshal(data, &byCode); err != nil {
		return 0, types.Wrap(types.IOFailure, err, "decoding %s", path)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	added := 0
	for _, code := range codes {
		sp := byCode[code]
		sp.Code = code
		if cat.Has(sp.Code) {
			return added, types.Errf(types.UniquenessViolation, "code",
				"code %q is already in the database", sp.Code)
		}
		if cat.HasSname(sp.Sname) {
			return added, types.Errf(types.UniquenessViolation, "sname",
				"sname %q is already in the database", sp.Sname)
		}
		cat.Put(sp)
		added++
	}
	return added, nil
}

// ExportSightingsJSON writes the list as a pretty-printed JSON array in sort
// order.
func ExportSightingsJSON(path string, l *types.SightingList) error {
	data, err := json.MarshalIndent(l.All(), "", "  ")
	if err != nil {
		return types.Wrap(types.IOFailure, err, "encoding sightings")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return types.Wrap(types.IOFailure, err, "writing %s", path)
	}
	return nil
}

// ImportSightingsJSON reads a JSON array of sightings into the list. Each
// record is validated against the catalog; records without an ID get a fresh
// one. Returns how many sightings were added.
func ImportSightingsJSON(path string, l *types.SightingList, cat *types.Catalog) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, types.Wrap(types.IOFailure, err, "reading %s", path)
	}

	var records []*types.Sighting
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, types.Wrap(types.IOFailure, err, "decoding %s", path)
	}

	added := 0
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = types.NewSighting().ID
		}
		if err := rec.Validate(cat); err != nil {
			return added, types.Wrap(types.ValidationFailure, err,
				"problem converting record, around number %d", i+1)
		}
		l.Insert(rec)
		added++
	}
	return added, nil
}
