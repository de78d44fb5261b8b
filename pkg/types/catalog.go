package types

import (
	"sort"
	"strconv"
	"strings"
)

// Catalog exclusively owns the species records, keyed by code. The
// scientific-name view is derived on demand rather than kept in sync
// incrementally; positions exposed to users are 1-based ranks in code order.
type Catalog struct {
	byCode map[string]*Species
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byCode: make(map[string]*Species)}
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int { return len(c.byCode) }

// Has reports whether a code is taken.
func (c *Catalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Get returns the species with the given code.
func (c *Catalog) Get(code string) (*Species, bool) {
	sp, ok := c.byCode[code]
	return sp, ok
}

// Put inserts or replaces the species under its own code.
func (c *Catalog) Put(sp *Species) {
	c.byCode[sp.Code] = sp
}

// Insert adds a species whose code must be free.
func (c *Catalog) Insert(sp *Species) error {
	if c.Has(sp.Code) {
		return Errf(StructuralInvariant, "code",
			"adding species error -> code %q already present", sp.Code)
	}
	c.byCode[sp.Code] = sp
	return nil
}

// Remove deletes the species with the given code, returning it.
func (c *Catalog) Remove(code string) (*Species, bool) {
	sp, ok := c.byCode[code]
	if ok {
		delete(c.byCode, code)
	}
	return sp, ok
}

// Codes returns every code in sorted order. This order defines the catalog
// positions shown to the user.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.byCode))
	for code := range c.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns the species in code order.
func (c *Catalog) All() []*Species {
	codes := c.Codes()
	out := make([]*Species, len(codes))
	for i, code := range codes {
		out[i] = c.byCode[code]
	}
	return out
}

// ByIndex returns the species at the 0-based position in code order.
func (c *Catalog) ByIndex(index int) (*Species, error) {
	codes := c.Codes()
	if index < 0 || index >= len(codes) {
		return nil, Errf(ReferenceNotFound, "index",
			"no species at position %d", index+1)
	}
	return c.byCode[codes[index]], nil
}

// IndexOfCode returns the 0-based position of a code in code order.
func (c *Catalog) IndexOfCode(code string) (int, error) {
	for i, k := range c.Codes() {
		if k == code {
			return i, nil
		}
	}
	return 0, Errf(ReferenceNotFound, "code",
		"the species code %q was not found in the catalog", code)
}

// IndexOfSname returns the 0-based position of the species holding the
// scientific name, in code order.
func (c *Catalog) IndexOfSname(sname string) (int, error) {
	for i, k := range c.Codes() {
		if c.byCode[k].Sname == sname {
			return i, nil
		}
	}
	return 0, Errf(ReferenceNotFound, "sname",
		"sname %q was not found in the catalog", sname)
}

// SnameView builds the derived view keyed by scientific name.
func (c *Catalog) SnameView() map[string]*Species {
	view := make(map[string]*Species, len(c.byCode))
	for _, sp := range c.byCode {
		view[sp.Sname] = sp
	}
	return view
}

// HasSname reports whether a scientific name is taken.
func (c *Catalog) HasSname(sname string) bool {
	for _, sp := range c.byCode {
		if sp.Sname == sname {
			return true
		}
	}
	return false
}

// GetBySname returns the species holding the scientific name.
func (c *Catalog) GetBySname(sname string) (*Species, bool) {
	for _, sp := range c.byCode {
		if sp.Sname == sname {
			return sp, true
		}
	}
	return nil, false
}

// hasAcode reports whether an alternate code is taken among species that
// carry one.
func (c *Catalog) hasAcode(acode string) bool {
	for _, sp := range c.byCode {
		if sp.Acode != "" && sp.Acode == acode {
			return true
		}
	}
	return false
}

// DeriveCode derives a collision-free primary code for a family name.
func (c *Catalog) DeriveCode(fname string) string {
	return makeCode(fname, c.Has)
}

// DeriveAltCode derives a collision-free alternate code. The collision space
// holds only existing alternate codes; species without one are excluded.
func (c *Catalog) DeriveAltCode(afname string) string {
	return makeCode(afname, c.hasAcode)
}

// Resolved is the outcome of interpreting a user argument as either a
// species code or a 1-based catalog position.
type Resolved struct {
	Species  *Species
	Code     string
	Index    int  // 0-based position in code order
	ByNumber bool // true when resolved from a position, false from a code
}

// Resolve interprets arg as a code first and a 1-based position second.
func (c *Catalog) Resolve(arg string) (*Resolved, error) {
	trimmed := strings.TrimSpace(strings.ToLower(arg))

	if sp, ok := c.byCode[trimmed]; ok {
		index, err := c.IndexOfSname(sp.Sname)
		if err != nil {
			return nil, err
		}
		return &Resolved{Species: sp, Code: trimmed, Index: index}, nil
	}

	given, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || given < 1 || given > int64(c.Len()) {
		return nil, Errf(ReferenceNotFound, "",
			"no legitimate code or number was given as a sub-argument")
	}
	index := int(given) - 1
	sp, err := c.ByIndex(index)
	if err != nil {
		return nil, err
	}
	return &Resolved{Species: sp, Code: sp.Code, Index: index, ByNumber: true}, nil
}

// CodeRangeEnd computes the exclusive upper bound for a code-prefix listing:
// the last character shifts up one ("ga" yields "gb"), except a trailing 'z'
// which extends to "zz" instead.
func CodeRangeEnd(code string) string {
	trimmed := strings.TrimSpace(strings.ToLower(code))
	if trimmed == "" {
		return ""
	}
	head, tail := trimmed[:len(trimmed)-1], trimmed[len(trimmed)-1]
	if tail == 'z' {
		return head + "zz"
	}
	return head + string(tail+1)
}

// CodeRange returns the species whose codes fall in [start, CodeRangeEnd) in
// code order.
func (c *Catalog) CodeRange(start string) ([]*Species, error) {
	begin := strings.TrimSpace(strings.ToLower(start))
	end := CodeRangeEnd(begin)

	var out []*Species
	for _, code := range c.Codes() {
		if code >= begin && code < end {
			out = append(out, c.byCode[code])
		}
	}
	if len(out) == 0 {
		return nil, Errf(ReferenceNotFound, "code",
			"there is no bird species that contains a substring of the given code")
	}
	return out, nil
}
