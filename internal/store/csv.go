package store

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

// speciesColumns is the fixed tab-delimited schema shared by import and
// export. The header row is written on export and skipped on import.
var speciesColumns = []string{
	"sname", "name", "fname", "code", "order", "family",
	"status", "aname", "afname", "acode", "list",
}

// ExportSpeciesCSV writes the catalog as a tab-delimited file in code order,
// header first.
func ExportSpeciesCSV(path string, cat *types.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return types.Wrap(types.IOFailure, err, "creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(speciesColumns); err != nil {
		return types.Wrap(types.IOFailure, err, "writing header to %s", path)
	}
	for _, sp := range cat.All() {
		row := []string{sp.Sname, sp.Name, sp.Fname, sp.Code, sp.Order,
			sp.Family, sp.Status, sp.Aname, sp.Afname, sp.Acode, sp.List}
		if err := w.Write(row); err != nil {
			return types.Wrap(types.IOFailure, err, "writing species %q to %s", sp.Code, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return types.Wrap(types.IOFailure, err, "flushing %s", path)
	}
	return nil
}

// ImportSpeciesCSV reads a tab-delimited species file into the catalog,
// validating every row against the records already present. The first row is
// the header and is skipped. Returns how many species were added; the first
// bad row aborts the import.
func ImportSpeciesCSV(path string, cat *types.Catalog) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, types.Wrap(types.IOFailure, err, "opening %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = len(speciesColumns)

	added := 0
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return added, types.Wrap(types.IOFailure, err,
				"problem converting line, around number %d", line)
		}
		if line == 1 {
			continue
		}

		// Fname and afname are derived, not trusted from the file.
		sp, err := types.ValidateSpecies(cat, row[0], row[1], row[3], row[4],
			row[5], row[6], row[7], row[9], row[10])
		if err != nil {
			return added, types.Wrap(types.ValidationFailure, err,
				"problem converting line, around number %d", line)
		}
		if err := cat.Insert(sp); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
