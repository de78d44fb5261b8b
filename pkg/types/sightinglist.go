package types

import (
	"sort"
	"strconv"
	"strings"
)

// SightingList owns the ordered collection of sightings. Records stay sorted
// under the derived field order at all times; the 1-based rank of a record in
// this order is the stable index exposed to the user. Because the order is
// over all fields, adding or editing one record can shift the ordinals of
// unrelated records.
type SightingList struct {
	records []*Sighting
}

// NewSightingList builds a list from existing records, sorting them.
func NewSightingList(records []*Sighting) *SightingList {
	l := &SightingList{records: records}
	sort.Slice(l.records, func(i, j int) bool { return l.records[i].Less(l.records[j]) })
	return l
}

// Len returns the number of sightings.
func (l *SightingList) Len() int { return len(l.records) }

// At returns the sighting at the 0-based index.
func (l *SightingList) At(index int) (*Sighting, error) {
	if index < 0 || index >= len(l.records) {
		return nil, Errf(ReferenceNotFound, "index",
			"bird observation number is out of range from the sightings database")
	}
	return l.records[index], nil
}

// All returns the records in sort order. The slice is shared; callers must
// not reorder it.
func (l *SightingList) All() []*Sighting { return l.records }

// Insert places the sighting at its sort position and returns the 1-based
// rank, found directly by binary search.
func (l *SightingList) Insert(s *Sighting) int {
	pos := sort.Search(len(l.records), func(i int) bool {
		return !l.records[i].Less(s)
	})
	l.records = append(l.records, nil)
	copy(l.records[pos+1:], l.records[pos:])
	l.records[pos] = s
	return pos + 1
}

// Remove deletes the record at the 0-based index.
func (l *SightingList) Remove(index int) error {
	if index < 0 || index >= len(l.records) {
		return Errf(StructuralInvariant, "index",
			"no sighting at position %d to remove", index+1)
	}
	l.records = append(l.records[:index], l.records[index+1:]...)
	return nil
}

// PositionOf returns the 1-based rank of the record with the given ID.
func (l *SightingList) PositionOf(id string) (int, error) {
	for i, s := range l.records {
		if s.ID == id {
			return i + 1, nil
		}
	}
	return 0, Errf(StructuralInvariant, "id",
		"added sighting not found in database")
}

// Add builds a sighting from an argument string and inserts it. An optional
// last-10 shortcut pre-fills the place fields and date before the
// flags/places/validate pipeline runs. Returns the new record's 1-based
// position.
func (l *SightingList) Add(arg string, recent []RecentLocation, cat *Catalog) (int, error) {
	s := NewSighting()
	if err := l.resolveShortcut(recent, arg, s); err != nil {
		return 0, err
	}
	if err := s.ApplyAll(arg, false, cat); err != nil {
		return 0, err
	}
	return l.Insert(s), nil
}

// Edit applies an argument string to the record at the 0-based index, with
// flag replacement tolerated as absent. The record is re-inserted at its new
// sort position, which is returned 1-based and may differ from the old one.
func (l *SightingList) Edit(arg string, index int, cat *Catalog) (int, error) {
	existing, err := l.At(index)
	if err != nil {
		return 0, err
	}

	updated := *existing
	if err := updated.ApplyAll(arg, true, cat); err != nil {
		return 0, err
	}

	if err := l.Remove(index); err != nil {
		return 0, err
	}
	return l.Insert(&updated), nil
}

// IndicesForSname returns the 0-based indices of every sighting of the
// species, latest position first.
func (l *SightingList) IndicesForSname(sname string) []int {
	var out []int
	for i, s := range l.records {
		if s.Sname == sname {
			out = append([]int{i}, out...)
		}
	}
	return out
}

// ReplaceSname rewrites the denormalized scientific name on every sighting
// referencing old, returning the affected 0-based indices in ascending
// order. Sname participates in the sort order, so the list is re-sorted.
func (l *SightingList) ReplaceSname(old, updated string) []int {
	var changed []int
	for i, s := range l.records {
		if s.Sname == old {
			s.Sname = updated
			changed = append(changed, i)
		}
	}
	if len(changed) > 0 {
		sort.Slice(l.records, func(i, j int) bool { return l.records[i].Less(l.records[j]) })
	}
	return changed
}

// RemoveBySname cascade-deletes every sighting of the species, returning how
// many were removed.
func (l *SightingList) RemoveBySname(sname string) int {
	kept := l.records[:0]
	removed := 0
	for _, s := range l.records {
		if s.Sname == sname {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	l.records = kept
	return removed
}

// ResolveNumber interprets arg as a 1-based sighting position.
func (l *SightingList) ResolveNumber(arg string, cat *Catalog) (*Sighting, int, error) {
	trimmed := strings.TrimSpace(strings.ToLower(arg))
	given, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || given < 1 || given > int64(l.Len()) {
		return nil, 0, Errf(ReferenceNotFound, "",
			"no legitimate number was given (anything from 1 to the number of sightings is valid)")
	}
	index := int(given) - 1
	s := l.records[index]
	if _, ok := cat.GetBySname(s.Sname); !ok {
		return nil, 0, Errf(ReferenceNotFound, "sname",
			"bird scientific name associated with record number %d does not exist in species database", given)
	}
	return s, index, nil
}

// DeleteSpecies removes the species from the catalog together with every
// sighting referencing its scientific name, returning how many sightings
// were cascade-deleted.
func DeleteSpecies(cat *Catalog, l *SightingList, sp *Species) (int, error) {
	removed := l.RemoveBySname(sp.Sname)
	if _, ok := cat.Remove(sp.Code); !ok {
		return removed, Errf(StructuralInvariant, "code",
			"problems deleting species %q", sp.Code)
	}
	return removed, nil
}

// EditResult reports the outcome of a species edit for the command layer.
type EditResult struct {
	Species          *Species
	OldCode          string
	OldPosition      int // 1-based position before the edit
	NewPosition      int // 1-based position after the edit
	SnameChanged     bool
	CodeChanged      bool
	UpdatedSightings []int    // 0-based indices whose sname was rewritten
	Displaced        *Species // entry rebuilt after its code was taken over
}

// EditSpecies applies a mini-language edit to a species: fields are
// substituted and rebuilt, a changed sname cascades onto every sighting, and
// a changed code re-keys the catalog. An existing entry holding the new code
// is displaced and rebuilt with a freshly derived code.
func EditSpecies(arg string, old *Resolved, cat *Catalog, l *SightingList) (*EditResult, error) {
	edit, err := PrepareSpeciesEdit(arg, old.Species, cat)
	if err != nil {
		return nil, err
	}
	improved := edit.Species

	result := &EditResult{
		Species:      improved,
		OldCode:      old.Species.Code,
		OldPosition:  old.Index + 1,
		SnameChanged: edit.SnameChanged,
		CodeChanged:  improved.Code != old.Species.Code,
	}

	if result.SnameChanged {
		result.UpdatedSightings = l.ReplaceSname(old.Species.Sname, improved.Sname)
	}

	// A pre-existing entry under the new code gets displaced and rebuilt
	// once the edited record is in place.
	var displaced *Species
	if result.CodeChanged {
		displaced, _ = cat.Remove(improved.Code)
	}

	if _, ok := cat.Remove(old.Species.Code); !ok {
		return nil, Errf(StructuralInvariant, "code",
			"deletion error in editing bird with old key %q", old.Species.Code)
	}
	cat.Put(improved)

	if displaced != nil {
		rebuilt, err := BuildSpecies(cat, displaced.Sname, displaced.Name, displaced.Order,
			displaced.Family, displaced.Status, displaced.Aname, displaced.List)
		if err != nil {
			return nil, Wrap(StructuralInvariant, err,
				"error occurred in editing shuffled species")
		}
		if err := cat.Insert(rebuilt); err != nil {
			return nil, err
		}
		result.Displaced = rebuilt
	}

	index, err := cat.IndexOfCode(improved.Code)
	if err != nil {
		return nil, err
	}
	result.NewPosition = index + 1
	return result, nil
}
