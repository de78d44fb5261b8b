package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

// Data file names inside the data directory.
const (
	speciesFile   = "species.jsonl"
	sightingsFile = "sightings.jsonl"
)

// JSONL is the flat-file store: one JSON record per line, whole files
// rewritten atomically on save. A missing file is an empty collection;
// a malformed line is fatal.
type JSONL struct {
	dataDir string
}

// NewJSONL returns a JSONL store rooted at the data directory.
func NewJSONL(dataDir string) *JSONL {
	return &JSONL{dataDir: dataDir}
}

// LoadCatalog reads species.jsonl into a catalog.
func (j *JSONL) LoadCatalog() (*types.Catalog, error) {
	records, err := readJSONL(filepath.Join(j.dataDir, speciesFile))
	if err != nil {
		return nil, err
	}

	cat := types.NewCatalog()
	for i, raw := range records {
		var sp types.Species
		if err := json.Unmarshal(raw, &sp); err != nil {
			return nil, types.Wrap(types.IOFailure, err,
				"decoding species record on line %d", i+1)
		}
		cat.Put(&sp)
	}
	return cat, nil
}

// SaveCatalog writes the catalog to species.jsonl in code order.
func (j *JSONL) SaveCatalog(cat *types.Catalog) error {
	records := make([]json.RawMessage, 0, cat.Len())
	for _, sp := range cat.All() {
		raw, err := json.Marshal(sp)
		if err != nil {
			return types.Wrap(types.IOFailure, err, "encoding species %q", sp.Code)
		}
		records = append(records, raw)
	}
	return writeJSONL(filepath.Join(j.dataDir, speciesFile), records)
}

// LoadSightings reads sightings.jsonl into a sorted list.
func (j *JSONL) LoadSightings() (*types.SightingList, error) {
	records, err := readJSONL(filepath.Join(j.dataDir, sightingsFile))
	if err != nil {
		return nil, err
	}

	sightings := make([]*types.Sighting, 0, len(records))
	for i, raw := range records {
		s := &types.Sighting{}
		if err := json.Unmarshal(raw, s); err != nil {
			return nil, types.Wrap(types.IOFailure, err,
				"decoding sighting record on line %d", i+1)
		}
		sightings = append(sightings, s)
	}
	return types.NewSightingList(sightings), nil
}

// SaveSightings writes the list to sightings.jsonl in sort order.
func (j *JSONL) SaveSightings(l *types.SightingList) error {
	records := make([]json.RawMessage, 0, l.Len())
	for _, s := range l.All() {
		raw, err := json.Marshal(s)
		if err != nil {
			return types.Wrap(types.IOFailure, err, "encoding sighting %s", s.ID)
		}
		records = append(records, raw)
	}
	return writeJSONL(filepath.Join(j.dataDir, sightingsFile), records)
}

// Close is a no-op; the JSONL store holds no open resources.
func (j *JSONL) Close() error { return nil }

// readJSONL returns each non-empty line of a JSONL file as a raw message. A
// missing file yields no records; a line that is not valid JSON is fatal.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, types.Wrap(types.IOFailure, err, "opening %s", path)
	}
	defer f.Close()

	var records []json.RawMessage
	line := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		if !json.Valid(b) {
			return nil, types.Errf(types.IOFailure, "",
				"malformed record on line %d of %s", line, path)
		}
		cp := make([]byte, len(b))
		copy(cp, b)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, types.Wrap(types.IOFailure, err, "scanning %s", path)
	}
	return records, nil
}

// writeJSONL atomically rewrites a JSONL file with the temp-file, fsync,
// rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return types.Wrap(types.IOFailure, err, "creating temp file in %s", dir)
	}
	tmpName := tmp.Name()

	fail := func(stage string, cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return types.Wrap(types.IOFailure, cause, "%s for %s", stage, path)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return types.Wrap(types.IOFailure, err, "closing temp file for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return types.Wrap(types.IOFailure, err, "renaming temp file to %s", path)
	}
	return nil
}
