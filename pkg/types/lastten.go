package types

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/birdlog/pkg/minilang"
)

// RecentLocation is one entry of the last-10 shortcut list: a slot number the
// user can reference with a single digit, the place fields and date of the
// source record, and the record's 1-based position for later resolution.
type RecentLocation struct {
	Slot     int
	Location string
	Town     string
	Province string
	Date     string
	Position int
}

// Line renders the entry the way the add prompt shows it.
func (r RecentLocation) Line() string {
	return fmt.Sprintf("  %d  %s  %s  %s  %s  # %d",
		r.Slot, r.Location, r.Town, r.Province, r.Date, r.Position)
}

// RecentLocations walks the sightings from the highest sort position downward
// and collects the ten most recent distinct locations. Distinctness follows
// the legacy ordered-set behavior: the effective dedup key is the location
// text, with town and province carried along on the entry.
func RecentLocations(l *SightingList) []RecentLocation {
	out := make([]RecentLocation, 0, 10)
	seen := make(map[string]bool)

	for i := l.Len() - 1; i >= 0 && len(out) < 10; i-- {
		s := l.records[i]
		if seen[s.Location] {
			continue
		}
		seen[s.Location] = true
		out = append(out, RecentLocation{
			Slot:     len(out),
			Location: s.Location,
			Town:     s.Town,
			Province: s.Province,
			Date:     s.DisplayDate(),
			Position: i + 1,
		})
	}
	return out
}

// resolveShortcut copies the place fields and date of a last-10 entry into
// the record under construction when the argument's bare segment carries
// exactly one digit. Zero digits means no shortcut; more than one is an
// error.
func (l *SightingList) resolveShortcut(recent []RecentLocation, arg string, s *Sighting) error {
	segments, err := minilang.Parse(arg)
	if err != nil {
		return Wrap(ParseFailure, err, "parsing sighting argument")
	}

	var digits string
	for _, seg := range minilang.BareSegments(segments) {
		digits += seg.Digits()
	}
	switch len(digits) {
	case 0:
		return nil
	case 1:
		// Fall through to resolve.
	default:
		return Errf(ParseFailure, "shortcut",
			"too many digits in the shortcut string")
	}

	slot, _ := strconv.Atoi(digits)
	if slot >= len(recent) {
		return Errf(ReferenceNotFound, "shortcut",
			"shortcut %d is not in the last-10 list", slot)
	}

	source, err := l.At(recent[slot].Position - 1)
	if err != nil {
		return err
	}
	s.Location = source.Location
	s.Town = source.Town
	s.Province = source.Province
	s.Country = source.Country
	s.Date = source.Date
	return nil
}
