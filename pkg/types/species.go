package types

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/birdlog/internal/textutil"
	"github.com/mesh-intelligence/birdlog/pkg/minilang"
)

// Species is one catalog entry for a bird taxon. Code is the catalog's
// primary key; Sname is a second unique key, stored denormalized on every
// sighting that references the species.
type Species struct {
	Sname  string `json:"sname"`
	Name   string `json:"name"`
	Fname  string `json:"fname"`
	Code   string `json:"code"`
	Order  string `json:"order"`
	Family string `json:"family"`
	Status string `json:"status"`
	Aname  string `json:"aname"`
	Afname string `json:"afname"`
	Acode  string `json:"acode"`
	List   string `json:"list"`
}

// MakeFname reorders a common name into its family-name form: the last word
// moves to the front and the whole is title-cased. "Old Blue Eyes" becomes
// "Eyes Old Blue". The family name is the sole input to code derivation.
func MakeFname(name string) string {
	words := textutil.Words(strings.ToLower(name))
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	reordered := strings.Join(append([]string{last}, words[:len(words)-1]...), " ")
	return textutil.TitleCase(textutil.LimitLength(reordered, textutil.NameLen))
}

// baseCode derives the unsuffixed code for a family name: the first two
// letters of the first two words plus the first letter of every subsequent
// word. One-letter words contribute their single letter.
func baseCode(fname string) string {
	var b strings.Builder
	for i, word := range textutil.Words(strings.ToLower(fname)) {
		runes := []rune(word)
		if i < 2 && len(runes) >= 2 {
			b.WriteRune(runes[0])
			b.WriteRune(runes[1])
		} else {
			b.WriteRune(runes[0])
		}
	}
	return b.String()
}

// makeCode derives a collision-free code from a family name by appending an
// increasing integer suffix until taken reports the candidate free.
func makeCode(fname string, taken func(string) bool) string {
	base := baseCode(fname)
	candidate := base
	for n := 1; taken(candidate); n++ {
		candidate = base + strconv.Itoa(n)
	}
	return textutil.LimitLength(candidate, textutil.NameLen)
}

// IsCodeValid reports whether a caller-supplied code is acceptable for the
// species' family name. The candidate must not parse as a plain integer, must
// be at least as long as the unsuffixed base code, and stripping its leading
// base-length prefix must leave either nothing or a remainder that parses as
// an integer once a trailing "1" is appended. The precise legacy rule is kept
// intact, permissive remainders included.
func IsCodeValid(code string, sp *Species) bool {
	base := baseCode(sp.Fname)

	if _, err := strconv.ParseUint(code, 10, 64); err == nil {
		return false
	}
	if len(base) > len(code) {
		return false
	}
	m := min(len(base), len(code))
	if m == 0 {
		return false
	}

	remainder := strings.ReplaceAll(code, code[:m], "")
	if remainder == "" {
		return true
	}
	_, err := strconv.ParseUint(remainder+"1", 10, 64)
	return err == nil
}

// validateSname canonicalizes a scientific name: exactly two words, sentence
// case ("Genus species").
func validateSname(input string) (string, error) {
	words := textutil.Words(input)
	if len(words) != 2 {
		return "", Errf(ValidationFailure, "sname",
			"scientific name has wrong number of terms -> %d", len(words))
	}
	return textutil.SentenceCase(strings.Join(words, " ")), nil
}

// validateName canonicalizes a common or alternate name: at most six words,
// title case.
func validateName(input string) (string, error) {
	words := textutil.Words(input)
	if len(words) > 6 {
		return "", Errf(ValidationFailure, "name",
			"the name seems a bit too long -> %d words", len(words))
	}
	return textutil.TitleCase(strings.Join(words, " ")), nil
}

// validateFamily canonicalizes a family string. The input is lower-cased and
// pre-capped at 60 runes, then rebuilt word by word: a leading "(" keeps its
// remainder title-cased, the word "and" stays lowercase, everything else is
// title-cased.
func validateFamily(input string) (string, error) {
	low := textutil.LimitLength(strings.ToLower(strings.TrimSpace(input)), 60)

	var b strings.Builder
	for _, word := range textutil.Words(low) {
		switch {
		case strings.HasPrefix(word, "("):
			if len(word) > 1 {
				b.WriteString("(" + textutil.UppercaseFirst(word[1:]) + " ")
			} else {
				b.WriteString("( ")
			}
		case word == "and":
			b.WriteString("and ")
		default:
			b.WriteString(textutil.TitleCase(word) + " ")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// BuildSpecies normalizes and validates every raw field, derives the family
// name and a unique code against the live catalog, and produces a fully
// validated Species. Any failure aborts with a descriptive error.
func BuildSpecies(cat *Catalog, sname, name, order, family, status, aname, list string) (*Species, error) {
	sp := &Species{}

	// Scientific name.
	trimmedSname := strings.ToLower(strings.TrimSpace(sname))
	if len([]rune(trimmedSname)) < 5 {
		return nil, Errf(ValidationFailure, "sname", "not a valid scientific name")
	}
	canonical, err := validateSname(trimmedSname)
	if err != nil {
		return nil, err
	}
	sp.Sname = textutil.LimitLength(canonical, textutil.NameLen)

	// Common name, family name, code.
	sp.Name, err = validateName(name)
	if err != nil {
		return nil, err
	}
	if len([]rune(sp.Name)) < 3 {
		return nil, Errf(ValidationFailure, "name", "not a valid name")
	}
	sp.Name = textutil.LimitLength(sp.Name, textutil.NameLen)
	sp.Fname = MakeFname(sp.Name)
	sp.Code = cat.DeriveCode(sp.Fname)

	// Taxonomic order.
	sp.Order = textutil.LimitLength(textutil.TitleCase(strings.TrimSpace(order)), textutil.NameLen)
	if len([]rune(sp.Order)) < 3 {
		return nil, Errf(ValidationFailure, "order", "not a valid order")
	}

	// Family.
	fam, err := validateFamily(family)
	if err != nil {
		return nil, err
	}
	sp.Family = textutil.LimitLength(fam, textutil.FamilyLen)
	if len([]rune(sp.Family)) < 3 {
		return nil, Errf(ValidationFailure, "family", "not a valid family")
	}

	// Optional alternate name with its own derived family name and code.
	if aname != "" {
		alt, err := validateName(aname)
		if err != nil {
			return nil, err
		}
		if len([]rune(alt)) < 3 {
			return nil, Errf(ValidationFailure, "aname", "not a valid alternative name")
		}
		sp.Aname = textutil.LimitLength(alt, textutil.NameLen)
		sp.Afname = textutil.LimitLength(MakeFname(sp.Aname), textutil.NameLen)
		sp.Acode = textutil.LimitLength(cat.DeriveAltCode(sp.Afname), textutil.NameLen)
	}

	// Optional status and list tag.
	if status != "" {
		sp.Status = textutil.LimitLength(strings.ToUpper(strings.TrimSpace(status)), textutil.NameLen)
	}
	if list != "" {
		sp.List = textutil.LimitLength(textutil.TitleCase(strings.TrimSpace(list)), textutil.NameLen)
	}

	return sp, nil
}

// ValidateSpecies builds a species from imported fields and then verifies the
// caller-supplied code and alternate code against the catalog: the code must
// be structurally valid for the derived family name and unused, the sname
// must be unused, and a supplied acode must be unused among alternate codes.
func ValidateSpecies(cat *Catalog, sname, name, code, order, family, status, aname, acode, list string) (*Species, error) {
	sp, err := BuildSpecies(cat, sname, name, order, family, status, aname, list)
	if err != nil {
		return nil, Wrap(ValidationFailure, err, "species cannot be built")
	}

	if !IsCodeValid(code, sp) {
		return nil, Errf(ValidationFailure, "code", "code %q is not valid", code)
	}
	if cat.Has(code) {
		return nil, Errf(UniquenessViolation, "code", "code %q is already in the database", code)
	}
	sp.Code = code

	if cat.HasSname(sp.Sname) {
		return nil, Errf(UniquenessViolation, "sname", "sname %q is already in the database", sp.Sname)
	}
	if acode != "" && cat.hasAcode(acode) {
		return nil, Errf(UniquenessViolation, "acode", "alt. code %q is already in the database", acode)
	}
	sp.Acode = acode

	return sp, nil
}

// Mini-language keys for the species add grammar.
const (
	speciesKeyName   = 'n'
	speciesKeySname  = 's'
	speciesKeyFamily = 'm'
	speciesKeyOrder  = 'r'
	speciesKeyStatus = 'u'
	speciesKeyList   = 'l'
	speciesKeyAname  = 'e'
	speciesKeyCode   = 'c'
	// The edit grammar addresses the order field with 'o' instead of 'r'.
	speciesEditKeyOrder = 'o'
)

// ParseSpeciesAdd deconstructs a species add argument. Name, scientific name,
// family, and order are required; status, list, and alternate name are
// optional. The scientific name must not already exist.
func ParseSpeciesAdd(arg string, cat *Catalog) (*Species, error) {
	segments, err := minilang.Parse(arg)
	if err != nil {
		return nil, Wrap(ParseFailure, err, "parsing species argument")
	}
	if len(minilang.BareSegments(segments)) > 0 {
		return nil, Errf(ParseFailure, "", "species argument takes only key=value terms")
	}

	required := func(key byte, field string) (string, error) {
		v, ok := minilang.Value(segments, key)
		if !ok || v == "" {
			return "", Errf(ValidationFailure, field,
				"the needed %s of the bird is required (either not given or malformed)", field)
		}
		return textutil.LimitLength(v, textutil.NameLen), nil
	}

	name, err := required(speciesKeyName, "name")
	if err != nil {
		return nil, err
	}
	sname, err := required(speciesKeySname, "scientific name")
	if err != nil {
		return nil, err
	}
	family, err := required(speciesKeyFamily, "family")
	if err != nil {
		return nil, err
	}
	family = textutil.LimitLength(family, textutil.FamilyLen)
	order, err := required(speciesKeyOrder, "order")
	if err != nil {
		return nil, err
	}

	status, _ := minilang.Value(segments, speciesKeyStatus)
	list, _ := minilang.Value(segments, speciesKeyList)
	aname, _ := minilang.Value(segments, speciesKeyAname)

	if cat.HasSname(textutil.SentenceCase(strings.TrimSpace(sname))) {
		return nil, Errf(UniquenessViolation, "sname",
			"the species with that scientific name exists already")
	}

	return BuildSpecies(cat, sname, name, order, family,
		textutil.LimitLength(status, textutil.NameLen),
		textutil.LimitLength(aname, textutil.NameLen),
		textutil.LimitLength(list, textutil.NameLen))
}

// SpeciesEdit is the outcome of preparing a species edit: the rebuilt record
// plus the flags callers need for cascading updates. A changed sname must be
// pushed onto every sighting referencing the old one; a changed code re-keys
// the catalog entry and may displace a colliding entry.
type SpeciesEdit struct {
	Species      *Species
	SnameChanged bool
	CodeChanged  bool
}

// PrepareSpeciesEdit substitutes any field supplied in the argument string,
// keeps the rest from the existing record, and re-runs the builder. An
// explicitly supplied code must pass validity; otherwise a changed name
// derives a fresh code and an unchanged name keeps the old one.
func PrepareSpeciesEdit(arg string, old *Species, cat *Catalog) (*SpeciesEdit, error) {
	segments, err := minilang.Parse(arg)
	if err != nil {
		return nil, Wrap(ParseFailure, err, "parsing species edit argument")
	}
	if len(minilang.BareSegments(segments)) > 0 {
		return nil, Errf(ParseFailure, "", "species edit takes only key=value terms")
	}

	pick := func(key byte, existing string) (string, bool) {
		if v, ok := minilang.Value(segments, key); ok {
			return v, true
		}
		return existing, false
	}

	name, nameChanged := pick(speciesKeyName, old.Name)
	sname, snameChanged := pick(speciesKeySname, old.Sname)
	family, _ := pick(speciesKeyFamily, old.Family)
	order, _ := pick(speciesEditKeyOrder, old.Order)
	status, _ := pick(speciesKeyStatus, old.Status)
	list, _ := pick(speciesKeyList, old.List)
	aname, _ := pick(speciesKeyAname, old.Aname)

	sp, err := BuildSpecies(cat, sname, name, order, family, status, aname, list)
	if err != nil {
		return nil, err
	}

	codeChanged := false
	if code, ok := minilang.Value(segments, speciesKeyCode); ok {
		if !IsCodeValid(code, sp) {
			return nil, Errf(ValidationFailure, "code", "the given code %q is not valid", code)
		}
		sp.Code = code
		codeChanged = true
	} else if nameChanged {
		// Builder already derived a fresh code for the new name.
		codeChanged = true
	} else {
		sp.Code = old.Code
	}

	return &SpeciesEdit{
		Species:      sp,
		SnameChanged: snameChanged && sp.Sname != old.Sname,
		CodeChanged:  codeChanged && sp.Code != old.Code,
	}, nil
}
