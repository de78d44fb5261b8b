package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSighting(t *testing.T) {
	cat := testCatalog(t)

	s, err := BuildSighting(cat, "swbl", "2022-01-01",
		"gomers backyard", "munster", "nordrheinwestfalen", "germany",
		Flags{Seen: true, Male: true}, "  a fine bird  ")
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Cygnus atratus", s.Sname)
	assert.Equal(t, int64(1640995200), s.Date)
	assert.Equal(t, "2022.01.01", s.DisplayDate())
	assert.Equal(t, "Gomers Backyard", s.Location)
	assert.Equal(t, "Munster", s.Town)
	assert.Equal(t, "Nordrheinwestfalen", s.Province)
	assert.Equal(t, "Germany", s.Country)
	assert.Equal(t, "a fine bird", s.Comments)
	assert.True(t, s.Seen)
	assert.True(t, s.Male)
	assert.False(t, s.Heard)
}

func TestBuildSightingErrors(t *testing.T) {
	cat := testCatalog(t)
	flags := Flags{Seen: true}

	t.Run("unknown code", func(t *testing.T) {
		_, err := BuildSighting(cat, "zzzz", "2022-01-01", "a", "b", "c", "d", flags, "")
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceNotFound))
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := BuildSighting(cat, "swbl", "yesterday", "a", "b", "c", "d", flags, "")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("missing place", func(t *testing.T) {
		_, err := BuildSighting(cat, "swbl", "2022-01-01", "a", "  ", "c", "d", flags, "")
		require.Error(t, err)
		assert.True(t, IsKind(err, ValidationFailure))
		assert.Contains(t, err.Error(), "town")
	})

	t.Run("no observation", func(t *testing.T) {
		_, err := BuildSighting(cat, "swbl", "2022-01-01", "a", "b", "c", "d", Flags{}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing has been observed")
	})
}

func TestApplyBooleans(t *testing.T) {
	t.Run("replaces the whole flag set", func(t *testing.T) {
		s := NewSighting()
		s.Breeding = true

		err := s.ApplyBooleans("SHm#c=swbl", false)
		require.NoError(t, err)
		assert.True(t, s.Seen)
		assert.True(t, s.Heard)
		assert.True(t, s.Male)
		assert.False(t, s.Breeding)
	})

	t.Run("digits are left for the shortcut", func(t *testing.T) {
		s := NewSighting()
		require.NoError(t, s.ApplyBooleans("S3", false))
		assert.True(t, s.Seen)
	})

	t.Run("no bare segment", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyBooleans("c=swbl", false)
		require.Error(t, err)
		assert.True(t, IsKind(err, ValidationFailure))

		assert.NoError(t, s.ApplyBooleans("c=swbl", true))
	})

	t.Run("two bare segments", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyBooleans("SH#MF", false)
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("unknown letter", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyBooleans("SQ", false)
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
		assert.False(t, s.Seen, "flags must stay untouched on error")
	})
}

func TestApplyPlaces(t *testing.T) {
	cat := testCatalog(t)

	t.Run("full assignment", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyPlaces("S#c=swbl#d=2022.01.01#a=delta park#w=durban#p=kzn#t=south africa#o=pond", cat)
		require.NoError(t, err)
		assert.Equal(t, "Cygnus atratus", s.Sname)
		assert.Equal(t, int64(1640995200), s.Date)
		assert.Equal(t, "delta park", s.Location)
		assert.Equal(t, "durban", s.Town)
		assert.Equal(t, "kzn", s.Province)
		assert.Equal(t, "south africa", s.Country)
		assert.Equal(t, "pond", s.Comments)
	})

	t.Run("short date forms", func(t *testing.T) {
		s := NewSighting()
		require.NoError(t, s.ApplyPlaces("d=22.01.01", cat))
		assert.Equal(t, int64(1640995200), s.Date)
	})

	t.Run("unknown code", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyPlaces("c=zzzz", cat)
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceNotFound))
	})

	t.Run("unknown key", func(t *testing.T) {
		s := NewSighting()
		err := s.ApplyPlaces("x=whatever", cat)
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})
}

func TestSightingValidate(t *testing.T) {
	cat := testCatalog(t)

	base := func() *Sighting {
		s := NewSighting()
		s.Sname = "Cygnus atratus"
		s.Date = 1640995200
		s.Location = "delta park"
		s.Town = "durban"
		s.Province = "kzn"
		s.Country = "south africa"
		s.Seen = true
		return s
	}

	t.Run("normalizes everything but location", func(t *testing.T) {
		s := base()
		require.NoError(t, s.Validate(cat))
		assert.Equal(t, "delta park", s.Location)
		assert.Equal(t, "Durban", s.Town)
		assert.Equal(t, "Kzn", s.Province)
		assert.Equal(t, "South Africa", s.Country)
	})

	t.Run("unresolvable sname", func(t *testing.T) {
		s := base()
		s.Sname = "Anas undulata"
		err := s.Validate(cat)
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceNotFound))
	})

	t.Run("missing date", func(t *testing.T) {
		s := base()
		s.Date = 0
		require.Error(t, s.Validate(cat))
	})

	t.Run("no flags", func(t *testing.T) {
		s := base()
		s.ClearFlags()
		err := s.Validate(cat)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing has been observed")
	})
}

func TestFlagString(t *testing.T) {
	s := NewSighting()
	assert.Equal(t, "", s.FlagString())

	require.NoError(t, s.ApplyBooleans("mhs", false))
	assert.Equal(t, "SHM", s.FlagString(), "display order is fixed")
}

func TestSightingLess(t *testing.T) {
	a := &Sighting{Date: 100, Sname: "A a"}
	b := &Sighting{Date: 200, Sname: "A a"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	// Same date, sname decides.
	c := &Sighting{Date: 100, Sname: "B b"}
	assert.True(t, a.Less(c))

	// All text equal, false sorts before true.
	d := &Sighting{Date: 100, Sname: "A a", Seen: true}
	assert.True(t, a.Less(d))
	assert.False(t, d.Less(a))

	// IDs do not participate.
	e := &Sighting{ID: "zzz", Date: 100, Sname: "A a"}
	assert.True(t, a.FieldsEqual(e))
}
