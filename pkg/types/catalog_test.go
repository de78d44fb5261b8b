package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogInsertAndRemove(t *testing.T) {
	cat := testCatalog(t)
	require.Equal(t, 3, cat.Len())

	// Codes derived for the fixture: jabl, ru, swbl.
	assert.Equal(t, []string{"jabl", "ru", "swbl"}, cat.Codes())

	err := cat.Insert(&Species{Code: "swbl", Sname: "Cygnus other"})
	require.Error(t, err)
	assert.True(t, IsKind(err, StructuralInvariant))

	sp, ok := cat.Remove("ru")
	require.True(t, ok)
	assert.Equal(t, "Calidris pugnax", sp.Sname)
	assert.Equal(t, 2, cat.Len())

	_, ok = cat.Remove("ru")
	assert.False(t, ok)
}

func TestCatalogSnameView(t *testing.T) {
	cat := testCatalog(t)

	view := cat.SnameView()
	require.Len(t, view, 3)
	assert.Equal(t, "swbl", view["Cygnus atratus"].Code)

	assert.True(t, cat.HasSname("Cyanocitta cristata"))
	assert.False(t, cat.HasSname("Anas undulata"))

	sp, ok := cat.GetBySname("Calidris pugnax")
	require.True(t, ok)
	assert.Equal(t, "ru", sp.Code)
}

func TestCatalogResolve(t *testing.T) {
	cat := testCatalog(t)

	t.Run("by code", func(t *testing.T) {
		r, err := cat.Resolve(" SWBL ")
		require.NoError(t, err)
		assert.Equal(t, "swbl", r.Code)
		assert.Equal(t, "Cygnus atratus", r.Species.Sname)
		assert.Equal(t, 2, r.Index)
		assert.False(t, r.ByNumber)
	})

	t.Run("by number", func(t *testing.T) {
		r, err := cat.Resolve("1")
		require.NoError(t, err)
		assert.Equal(t, "jabl", r.Code)
		assert.Equal(t, 0, r.Index)
		assert.True(t, r.ByNumber)
	})

	t.Run("number out of range", func(t *testing.T) {
		_, err := cat.Resolve("4")
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceNotFound))
	})

	t.Run("neither code nor number", func(t *testing.T) {
		_, err := cat.Resolve("nope")
		require.Error(t, err)
		assert.True(t, IsKind(err, ReferenceNotFound))
	})
}

func TestCatalogIndexLookups(t *testing.T) {
	cat := testCatalog(t)

	i, err := cat.IndexOfCode("ru")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = cat.IndexOfCode("zz")
	require.Error(t, err)

	i, err = cat.IndexOfSname("Cygnus atratus")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	sp, err := cat.ByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "jabl", sp.Code)

	_, err = cat.ByIndex(3)
	require.Error(t, err)
	assert.True(t, IsKind(err, ReferenceNotFound))
}

func TestCodeRangeEnd(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ga", want: "gb"},
		{in: "s", want: "t"},
		{in: "sz", want: "szz"},
		{in: "z", want: "zz"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeRangeEnd(tt.in))
		})
	}
}

func TestCodeRange(t *testing.T) {
	cat := testCatalog(t)

	sw, err := cat.CodeRange("s")
	require.NoError(t, err)
	require.Len(t, sw, 1)
	assert.Equal(t, "swbl", sw[0].Code)

	all, err := cat.CodeRange("a")
	require.Error(t, err)
	assert.Nil(t, all)
	assert.True(t, IsKind(err, ReferenceNotFound))

	both, err := cat.CodeRange("j")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "jabl", both[0].Code)
}
