package types

import (
	"strings"

	"github.com/mesh-intelligence/birdlog/internal/dates"
	"github.com/mesh-intelligence/birdlog/pkg/minilang"
)

// SearchField is one predicate of a parsed query: a key character selecting
// the field under test, a lower-cased substring for text fields, or an
// inclusive date window for the date field. Flag predicates carry the
// upper-case attribute letter and no value. D2 == 0 marks an exact-match
// date.
type SearchField struct {
	Key   byte
	Value string
	D1    int64
	D2    int64
}

// textSearchKeys lists the keyed terms the search grammar accepts besides
// the date key: location, code, alternate name, list, family, name,
// comments, province, order, scientific name, country, status, town.
var textSearchKeys = map[byte]bool{
	'a': true, 'c': true, 'e': true, 'l': true, 'm': true, 'n': true,
	'o': true, 'p': true, 'r': true, 's': true, 't': true, 'u': true, 'w': true,
}

// ParseQuery turns a query string into predicates. Bare terms expand to one
// predicate per flag letter; keyed terms to one predicate per key, with the
// date key taking an optional "from-to" range parsed leniently. A query with
// no predicates at all is rejected.
func ParseQuery(arg string) ([]SearchField, error) {
	segments, err := minilang.Parse(strings.TrimSpace(strings.ToLower(arg)))
	if err != nil {
		return nil, Wrap(ParseFailure, err, "parsing search query")
	}

	var fields []SearchField
	for _, seg := range segments {
		if seg.Kind == minilang.Bare {
			for _, letter := range seg.Letters() {
				ch := byte(letter)
				if _, ok := flagLetters[ch]; !ok {
					return nil, Errf(ParseFailure, "flags",
						"wrong characteristic for search term was included i.e. %s", string(ch))
				}
				fields = append(fields, SearchField{Key: ch})
			}
			continue
		}

		// Search keys are exactly one character; a longer key is not an
		// abbreviation of anything.
		if len(seg.KeyText) != 1 {
			return nil, Errf(ParseFailure, "",
				"wrong char for search term was included i.e. %s", seg.KeyText)
		}

		switch {
		case seg.Key == 'd':
			bounds := strings.Split(seg.Value, "-")
			switch len(bounds) {
			case 1:
				d1, err := dates.ParseAssumed(bounds[0])
				if err != nil {
					return nil, Wrap(ParseFailure, err, "problem parsing date text")
				}
				fields = append(fields, SearchField{Key: 'd', D1: d1})
			case 2:
				d1, err := dates.ParseAssumed(bounds[0])
				if err != nil {
					return nil, Wrap(ParseFailure, err, "problem parsing date text")
				}
				d2, err := dates.ParseAssumed(bounds[1])
				if err != nil {
					return nil, Wrap(ParseFailure, err, "problem parsing date text")
				}
				fields = append(fields, SearchField{Key: 'd', D1: d1, D2: d2})
			default:
				return nil, Errf(ParseFailure, "date",
					"wrong number of search terms in date string")
			}
		case textSearchKeys[seg.Key]:
			fields = append(fields, SearchField{Key: seg.Key, Value: seg.Value})
		default:
			return nil, Errf(ParseFailure, "",
				"wrong char for search term was included i.e. %s", string(seg.Key))
		}
	}

	if len(fields) == 0 {
		return nil, Errf(ParseFailure, "", "query contains no predicates")
	}
	return fields, nil
}

// matches evaluates a single predicate against a sighting and its resolved
// species. Text predicates are case-insensitive substring containment except
// the code, which compares exactly; flag predicates require the attribute to
// be set.
func (f SearchField) matches(s *Sighting, sp *Species) bool {
	contains := func(field string) bool {
		return strings.Contains(strings.ToLower(field), f.Value)
	}

	switch f.Key {
	case 'a':
		return contains(s.Location)
	case 'c':
		return sp.Code == f.Value
	case 'd':
		if f.D2 == 0 {
			return s.Date == f.D1
		}
		return s.Date >= f.D1 && s.Date <= f.D2
	case 'e':
		return contains(sp.Aname)
	case 'l':
		return contains(sp.List)
	case 'm':
		return contains(sp.Family)
	case 'n':
		return contains(sp.Name)
	case 'o':
		return contains(s.Comments)
	case 'p':
		return contains(s.Province)
	case 'r':
		return contains(sp.Order)
	case 's':
		return contains(s.Sname)
	case 't':
		return contains(s.Country)
	case 'u':
		return contains(sp.Status)
	case 'w':
		return contains(s.Town)
	}

	// Upper-case keys are observation attribute predicates.
	switch f.Key {
	case 'A':
		return s.Adult
	case 'B':
		return s.Breeding
	case 'C':
		return s.Chicks
	case 'E':
		return s.Dead
	case 'F':
		return s.Female
	case 'G':
		return s.Eggs
	case 'H':
		return s.Heard
	case 'I':
		return s.Immature
	case 'M':
		return s.Male
	case 'N':
		return s.Nonbreeding
	case 'P':
		return s.Photo
	case 'R':
		return s.Ringed
	case 'S':
		return s.Seen
	case 'T':
		return s.Nest
	}
	return false
}

// Search parses a query and evaluates every sighting against the AND of all
// predicates, short-circuiting on the first failure. Returns the 1-based
// positions and the matched records, index-aligned.
func Search(arg string, cat *Catalog, l *SightingList) ([]int, []*Sighting, error) {
	fields, err := ParseQuery(arg)
	if err != nil {
		return nil, nil, err
	}

	var positions []int
	var matched []*Sighting

	for i, s := range l.All() {
		sp, ok := cat.GetBySname(s.Sname)
		if !ok {
			return nil, nil, Errf(ReferenceNotFound, "sname",
				"the scientific name %q does not exist in species database", s.Sname)
		}
		all := true
		for _, f := range fields {
			if !f.matches(s, sp) {
				all = false
				break
			}
		}
		if all {
			positions = append(positions, i+1)
			matched = append(matched, s)
		}
	}
	return positions, matched, nil
}
