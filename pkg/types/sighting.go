package types

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/birdlog/internal/dates"
	"github.com/mesh-intelligence/birdlog/internal/textutil"
	"github.com/mesh-intelligence/birdlog/pkg/minilang"
)

// Sighting is one observation event. Sname is a denormalized copy of the
// observed species' scientific name, not a reference. The ID is assigned on
// creation and survives edits; it takes no part in the derived field
// ordering.
type Sighting struct {
	ID       string `json:"id"`
	Date     int64  `json:"date"`
	Sname    string `json:"sname"`
	Location string `json:"location"`
	Town     string `json:"town"`
	Province string `json:"province"`
	Country  string `json:"country"`

	Seen        bool `json:"seen"`
	Heard       bool `json:"heard"`
	Ringed      bool `json:"ringed"`
	Dead        bool `json:"dead"`
	Photo       bool `json:"photo"`
	Male        bool `json:"male"`
	Female      bool `json:"female"`
	Adult       bool `json:"adult"`
	Immature    bool `json:"immature"`
	Breeding    bool `json:"breeding"`
	Eggs        bool `json:"eggs"`
	Nonbreeding bool `json:"nonbreeding"`
	Nest        bool `json:"nest"`
	Chicks      bool `json:"chicks"`

	Comments string `json:"comments"`
}

// Flags bundles the fourteen observation attributes for the builder.
type Flags struct {
	Seen, Heard, Ringed, Dead, Photo, Male, Female,
	Adult, Immature, Breeding, Eggs, Nonbreeding, Nest, Chicks bool
}

// flagLetters maps the single-letter attribute codes of the mini-language
// onto setter functions. The letter set is shared with the search grammar.
var flagLetters = map[byte]func(*Sighting, bool){
	'S': func(s *Sighting, v bool) { s.Seen = v },
	'H': func(s *Sighting, v bool) { s.Heard = v },
	'R': func(s *Sighting, v bool) { s.Ringed = v },
	'B': func(s *Sighting, v bool) { s.Breeding = v },
	'N': func(s *Sighting, v bool) { s.Nonbreeding = v },
	'T': func(s *Sighting, v bool) { s.Nest = v },
	'G': func(s *Sighting, v bool) { s.Eggs = v },
	'C': func(s *Sighting, v bool) { s.Chicks = v },
	'I': func(s *Sighting, v bool) { s.Immature = v },
	'E': func(s *Sighting, v bool) { s.Dead = v },
	'M': func(s *Sighting, v bool) { s.Male = v },
	'F': func(s *Sighting, v bool) { s.Female = v },
	'A': func(s *Sighting, v bool) { s.Adult = v },
	'P': func(s *Sighting, v bool) { s.Photo = v },
}

// flagOrder fixes the display order of the attribute letters.
const flagOrder = "SHRBNTGCIEMFAP"

// FlagString renders the set observation attributes as their letters, in
// display order.
func (s *Sighting) FlagString() string {
	read := map[byte]func(*Sighting) bool{
		'S': func(s *Sighting) bool { return s.Seen },
		'H': func(s *Sighting) bool { return s.Heard },
		'R': func(s *Sighting) bool { return s.Ringed },
		'B': func(s *Sighting) bool { return s.Breeding },
		'N': func(s *Sighting) bool { return s.Nonbreeding },
		'T': func(s *Sighting) bool { return s.Nest },
		'G': func(s *Sighting) bool { return s.Eggs },
		'C': func(s *Sighting) bool { return s.Chicks },
		'I': func(s *Sighting) bool { return s.Immature },
		'E': func(s *Sighting) bool { return s.Dead },
		'M': func(s *Sighting) bool { return s.Male },
		'F': func(s *Sighting) bool { return s.Female },
		'A': func(s *Sighting) bool { return s.Adult },
		'P': func(s *Sighting) bool { return s.Photo },
	}
	var b strings.Builder
	for i := 0; i < len(flagOrder); i++ {
		if read[flagOrder[i]](s) {
			b.WriteByte(flagOrder[i])
		}
	}
	return b.String()
}

// NewSighting returns an empty sighting with a fresh record ID.
func NewSighting() *Sighting {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4.
		id = uuid.New()
	}
	return &Sighting{ID: id.String()}
}

// BuildSighting resolves the species code, parses the date strictly, and
// normalizes every place field, producing a validated sighting. At least one
// observation flag must be set.
func BuildSighting(cat *Catalog, code, date, location, town, province, country string,
	flags Flags, comments string) (*Sighting, error) {

	s := NewSighting()

	sp, ok := cat.Get(strings.TrimSpace(strings.ToLower(code)))
	if !ok {
		return nil, Errf(ReferenceNotFound, "code",
			"code %q does not exist in species database", code)
	}
	s.Sname = sp.Sname

	ts, err := dates.ParseText(date)
	if err != nil {
		return nil, Wrap(ParseFailure, err, "error in parsing the date string")
	}
	s.Date = ts

	place := func(field, value string) (string, error) {
		normalized := textutil.TitleCase(strings.TrimSpace(value))
		if normalized == "" {
			return "", Errf(ValidationFailure, field, "error in giving no %s", field)
		}
		return textutil.LimitLength(normalized, textutil.NameLen), nil
	}
	if s.Location, err = place("location", location); err != nil {
		return nil, err
	}
	if s.Town, err = place("town", town); err != nil {
		return nil, err
	}
	if s.Province, err = place("province/state", province); err != nil {
		return nil, err
	}
	if s.Country, err = place("country", country); err != nil {
		return nil, err
	}

	s.Comments = textutil.LimitLength(strings.TrimSpace(comments), textutil.CommentLen)
	s.setFlags(flags)

	if !s.AnyObservation() {
		return nil, Errf(ValidationFailure, "flags", "nothing has been observed")
	}
	return s, nil
}

func (s *Sighting) setFlags(f Flags) {
	s.Seen, s.Heard, s.Ringed, s.Dead, s.Photo = f.Seen, f.Heard, f.Ringed, f.Dead, f.Photo
	s.Male, s.Female, s.Adult, s.Immature = f.Male, f.Female, f.Adult, f.Immature
	s.Breeding, s.Eggs, s.Nonbreeding, s.Nest, s.Chicks = f.Breeding, f.Eggs, f.Nonbreeding, f.Nest, f.Chicks
}

// ClearFlags resets all fourteen observation attributes.
func (s *Sighting) ClearFlags() {
	s.setFlags(Flags{})
}

// AnyObservation reports whether at least one observation attribute is set.
func (s *Sighting) AnyObservation() bool {
	return s.Seen || s.Heard || s.Ringed || s.Dead || s.Photo ||
		s.Male || s.Female || s.Adult || s.Immature ||
		s.Breeding || s.Eggs || s.Nonbreeding || s.Nest || s.Chicks
}

// DisplayDate renders the sighting date in the canonical form.
func (s *Sighting) DisplayDate() string {
	return dates.Display(s.Date)
}

// ApplyBooleans decodes the bare-flags portion of an argument string. Exactly
// one bare segment replaces the flag set wholesale; none is tolerated only
// when allowEmpty is set (edits); more than one is always an error. Digits in
// the segment belong to the shortcut mechanism and are ignored here.
func (s *Sighting) ApplyBooleans(arg string, allowEmpty bool) error {
	segments, err := minilang.Parse(arg)
	if err != nil {
		return Wrap(ParseFailure, err, "parsing sighting argument")
	}
	bare := minilang.BareSegments(segments)

	switch len(bare) {
	case 0:
		if allowEmpty {
			return nil
		}
		return Errf(ValidationFailure, "flags",
			"no boolean attributes found in given string")
	case 1:
		// Fall through to decode.
	default:
		return Errf(ParseFailure, "flags",
			"too many boolean attribute strings given")
	}

	letters := bare[0].Letters()
	for i := 0; i < len(letters); i++ {
		if _, ok := flagLetters[letters[i]]; !ok {
			return Errf(ParseFailure, "flags",
				"wrong observation attribute letter %q", string(letters[i]))
		}
	}

	s.ClearFlags()
	for i := 0; i < len(letters); i++ {
		flagLetters[letters[i]](s, true)
	}
	return nil
}

// Mini-language keys for the sighting place grammar.
const (
	sightingKeyCode     = 'c'
	sightingKeyDate     = 'd'
	sightingKeyLocation = 'a'
	sightingKeyTown     = 'w'
	sightingKeyProvince = 'p'
	sightingKeyCountry  = 't'
	sightingKeyComments = 'o'
)

// ApplyPlaces assigns the keyed terms of an argument string: species code (by
// resolution to sname), lenient date, and the place and comment fields. Field
// values land raw; normalization happens in Validate.
func (s *Sighting) ApplyPlaces(arg string, cat *Catalog) error {
	segments, err := minilang.Parse(arg)
	if err != nil {
		return Wrap(ParseFailure, err, "parsing sighting argument")
	}

	for _, seg := range segments {
		if seg.Kind != minilang.Keyed {
			continue
		}
		switch seg.Key {
		case sightingKeyCode:
			sp, ok := cat.Get(strings.ToLower(seg.Value))
			if !ok {
				return Errf(ReferenceNotFound, "code",
					"code %q in string does not exist", seg.Value)
			}
			s.Sname = sp.Sname
		case sightingKeyDate:
			ts, err := dates.ParseAssumed(seg.Value)
			if err != nil {
				return Wrap(ParseFailure, err, "something wrong in the date string")
			}
			s.Date = ts
		case sightingKeyLocation:
			s.Location = seg.Value
		case sightingKeyTown:
			s.Town = seg.Value
		case sightingKeyProvince:
			s.Province = seg.Value
		case sightingKeyCountry:
			s.Country = seg.Value
		case sightingKeyComments:
			s.Comments = seg.Value
		default:
			return Errf(ParseFailure, "", "wrong key %q given", string(seg.Key))
		}
	}
	return nil
}

// Validate is the single gate both add and edit funnel through after parsing:
// the sname must resolve, the date must be set, town/province/country are
// re-normalized and must be non-empty, comments are re-capped, and at least
// one observation flag must remain set. Location is deliberately left as the
// user gave it.
func (s *Sighting) Validate(cat *Catalog) error {
	if _, ok := cat.GetBySname(s.Sname); !ok {
		return Errf(ReferenceNotFound, "sname",
			"sname %q does not exist in species database", s.Sname)
	}
	if s.Date == 0 {
		return Errf(ValidationFailure, "date", "no date given")
	}

	place := func(field, value string) (string, error) {
		normalized := textutil.TitleCase(strings.TrimSpace(value))
		if normalized == "" {
			return "", Errf(ValidationFailure, field, "error in giving no %s", field)
		}
		return textutil.LimitLength(normalized, textutil.NameLen), nil
	}
	var err error
	if s.Town, err = place("town", s.Town); err != nil {
		return err
	}
	if s.Province, err = place("province/state", s.Province); err != nil {
		return err
	}
	if s.Country, err = place("country", s.Country); err != nil {
		return err
	}
	s.Comments = textutil.LimitLength(strings.TrimSpace(s.Comments), textutil.CommentLen)

	if !s.AnyObservation() {
		return Errf(ValidationFailure, "flags", "nothing has been observed")
	}
	return nil
}

// ApplyAll runs the three-stage pipeline: flags, places, validation.
func (s *Sighting) ApplyAll(arg string, allowEmptyFlags bool, cat *Catalog) error {
	if err := s.ApplyBooleans(arg, allowEmptyFlags); err != nil {
		return err
	}
	if err := s.ApplyPlaces(arg, cat); err != nil {
		return err
	}
	return s.Validate(cat)
}

// Less defines the total order over sightings: every field compares in
// declaration order, with false sorting before true. The record ID is
// excluded.
func (s *Sighting) Less(other *Sighting) bool {
	if s.Date != other.Date {
		return s.Date < other.Date
	}
	if s.Sname != other.Sname {
		return s.Sname < other.Sname
	}
	if s.Location != other.Location {
		return s.Location < other.Location
	}
	if s.Town != other.Town {
		return s.Town < other.Town
	}
	if s.Province != other.Province {
		return s.Province < other.Province
	}
	if s.Country != other.Country {
		return s.Country < other.Country
	}
	for _, pair := range [][2]bool{
		{s.Seen, other.Seen}, {s.Heard, other.Heard}, {s.Ringed, other.Ringed},
		{s.Dead, other.Dead}, {s.Photo, other.Photo}, {s.Male, other.Male},
		{s.Female, other.Female}, {s.Adult, other.Adult}, {s.Immature, other.Immature},
		{s.Breeding, other.Breeding}, {s.Eggs, other.Eggs}, {s.Nonbreeding, other.Nonbreeding},
		{s.Nest, other.Nest}, {s.Chicks, other.Chicks},
	} {
		if pair[0] != pair[1] {
			return !pair[0]
		}
	}
	return s.Comments < other.Comments
}

// FieldsEqual reports structural equality over every field except the ID.
func (s *Sighting) FieldsEqual(other *Sighting) bool {
	return !s.Less(other) && !other.Less(s)
}
