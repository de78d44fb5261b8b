package store

import (
	"database/sql"
	_ "embed"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/birdlog/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// SQLite stores both collections in a single database file. Collections are
// replaced wholesale inside a transaction on save, matching the
// load-everything, write-everything lifecycle of the JSONL store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.Wrap(types.IOFailure, err, "opening database %s", path)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, types.Wrap(types.IOFailure, err, "applying schema to %s", path)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadCatalog reads every species row into a catalog.
func (s *SQLite) LoadCatalog() (*types.Catalog, error) {
	rows, err := s.db.Query(`SELECT code, sname, name, fname, "order", family,
		status, aname, afname, acode, list FROM species`)
	if err != nil {
		return nil, types.Wrap(types.IOFailure, err, "reading species table")
	}
	defer rows.Close()

	cat := types.NewCatalog()
	for rows.Next() {
		sp := &types.Species{}
		if err := rows.Scan(&sp.Code, &sp.Sname, &sp.Name, &sp.Fname, &sp.Order,
			&sp.Family, &sp.Status, &sp.Aname, &sp.Afname, &sp.Acode, &sp.List); err != nil {
			return nil, types.Wrap(types.IOFailure, err, "scanning species row")
		}
		cat.Put(sp)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Wrap(types.IOFailure, err, "iterating species table")
	}
	return cat, nil
}

// SaveCatalog replaces the species table with the catalog's contents.
func (s *SQLite) SaveCatalog(cat *types.Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return types.Wrap(types.IOFailure, err, "starting species transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM species`); err != nil {
		return types.Wrap(types.IOFailure, err, "clearing species table")
	}
	stmt, err := tx.Prepare(`INSERT INTO species (code, sname, name, fname,
		"order", family, status, aname, afname, acode, list)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return types.Wrap(types.IOFailure, err, "preparing species insert")
	}
	defer stmt.Close()

	for _, sp := range cat.All() {
		if _, err := stmt.Exec(sp.Code, sp.Sname, sp.Name, sp.Fname, sp.Order,
			sp.Family, sp.Status, sp.Aname, sp.Afname, sp.Acode, sp.List); err != nil {
			return types.Wrap(types.IOFailure, err, "inserting species %q", sp.Code)
		}
	}
	if err := tx.Commit(); err != nil {
		return types.Wrap(types.IOFailure, err, "committing species transaction")
	}
	return nil
}

// LoadSightings reads every sighting row into a sorted list.
func (s *SQLite) LoadSightings() (*types.SightingList, error) {
	rows, err := s.db.Query(`SELECT id, date, sname, location, town, province,
		country, seen, heard, ringed, dead, photo, male, female, adult,
		immature, breeding, eggs, nonbreeding, nest, chicks, comments
		FROM sightings`)
	if err != nil {
		return nil, types.Wrap(types.IOFailure, err, "reading sightings table")
	}
	defer rows.Close()

	var sightings []*types.Sighting
	for rows.Next() {
		rec := &types.Sighting{}
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Sname, &rec.Location,
			&rec.Town, &rec.Province, &rec.Country,
			&rec.Seen, &rec.Heard, &rec.Ringed, &rec.Dead, &rec.Photo,
			&rec.Male, &rec.Female, &rec.Adult, &rec.Immature,
			&rec.Breeding, &rec.Eggs, &rec.Nonbreeding, &rec.Nest, &rec.Chicks,
			&rec.Comments); err != nil {
			return nil, types.Wrap(types.IOFailure, err, "scanning sighting row")
		}
		sightings = append(sightings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Wrap(types.IOFailure, err, "iterating sightings table")
	}
	return types.NewSightingList(sightings), nil
}

// SaveSightings replaces the sightings table with the list's contents.
func (s *SQLite) SaveSightings(l *types.SightingList) error {
	tx, err := s.db.Begin()
	if err != nil {
		return types.Wrap(types.IOFailure, err, "starting sightings transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sightings`); err != nil {
		return types.Wrap(types.IOFailure, err, "clearing sightings table")
	}
	stmt, err := tx.Prepare(`INSERT INTO sightings (id, date, sname, location,
		town, province, country, seen, heard, ringed, dead, photo, male,
		female, adult, immature, breeding, eggs, nonbreeding, nest, chicks,
		comments) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return types.Wrap(types.IOFailure, err, "preparing sighting insert")
	}
	defer stmt.Close()

	for _, rec := range l.All() {
		if _, err := stmt.Exec(rec.ID, rec.Date, rec.Sname, rec.Location,
			rec.Town, rec.Province, rec.Country,
			rec.Seen, rec.Heard, rec.Ringed, rec.Dead, rec.Photo,
			rec.Male, rec.Female, rec.Adult, rec.Immature,
			rec.Breeding, rec.Eggs, rec.Nonbreeding, rec.Nest, rec.Chicks,
			rec.Comments); err != nil {
			return types.Wrap(types.IOFailure, err, "inserting sighting %s", rec.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return types.Wrap(types.IOFailure, err, "committing sightings transaction")
	}
	return nil
}
