package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Run("bare flags expand one predicate each", func(t *testing.T) {
		fields, err := ParseQuery("SHm")
		require.NoError(t, err)
		require.Len(t, fields, 3)
		assert.Equal(t, byte('S'), fields[0].Key)
		assert.Equal(t, byte('H'), fields[1].Key)
		assert.Equal(t, byte('M'), fields[2].Key)
	})

	t.Run("text keys pass through lower-cased", func(t *testing.T) {
		fields, err := ParseQuery("a=Delta Park#t=South Africa")
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, byte('a'), fields[0].Key)
		assert.Equal(t, "delta park", fields[0].Value)
		assert.Equal(t, "south africa", fields[1].Value)
	})

	t.Run("single date", func(t *testing.T) {
		fields, err := ParseQuery("d=2022.01.01")
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, int64(1640995200), fields[0].D1)
		assert.Zero(t, fields[0].D2)
	})

	t.Run("date range", func(t *testing.T) {
		fields, err := ParseQuery("d=2001.01.01-2020.03.31")
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Less(t, fields[0].D1, fields[0].D2)
	})

	t.Run("three date bounds", func(t *testing.T) {
		_, err := ParseQuery("d=1-2-3")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("unknown flag letter", func(t *testing.T) {
		_, err := ParseQuery("SQ")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseQuery("z=whatever")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("multi-character key", func(t *testing.T) {
		_, err := ParseQuery("ab=delta")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("multi-character key starting with a date key", func(t *testing.T) {
		_, err := ParseQuery("date=2022.01.01")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})

	t.Run("no predicates", func(t *testing.T) {
		_, err := ParseQuery("   ")
		require.Error(t, err)
		assert.True(t, IsKind(err, ParseFailure))
	})
}

func TestSearchConjunction(t *testing.T) {
	cat := testCatalog(t)
	l := testList(t, cat)

	t.Run("location substring", func(t *testing.T) {
		positions, matched, err := Search("a=delta", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 4}, positions)
		require.Len(t, matched, 2)
		assert.Equal(t, "delta park", matched[0].Location)
	})

	t.Run("location and flag", func(t *testing.T) {
		positions, _, err := Search("P#a=delta", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{4}, positions, "only the photographed delta park record")
	})

	t.Run("conjunction can be empty", func(t *testing.T) {
		positions, matched, err := Search("G#a=delta", cat, l)
		require.NoError(t, err)
		assert.Empty(t, positions)
		assert.Empty(t, matched)
	})

	t.Run("species fields join through the sname", func(t *testing.T) {
		positions, _, err := Search("n=jay", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4}, positions)

		positions, _, err = Search("c=jabl#t=usa", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, positions)
	})

	t.Run("code matches exactly", func(t *testing.T) {
		positions, _, err := Search("c=ja", cat, l)
		require.NoError(t, err)
		assert.Empty(t, positions)
	})

	t.Run("date window is inclusive", func(t *testing.T) {
		positions, _, err := Search("d=2021.06.15-2022.01.01", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3, 4}, positions)
	})

	t.Run("exact date", func(t *testing.T) {
		positions, _, err := Search("d=2022.01.01", cat, l)
		require.NoError(t, err)
		assert.Equal(t, []int{4}, positions)
	})
}

func TestSearchDanglingSname(t *testing.T) {
	cat := testCatalog(t)
	l := testList(t, cat)
	cat.Remove("ru")

	_, _, err := Search("S", cat, l)
	require.Error(t, err)
	assert.True(t, IsKind(err, ReferenceNotFound))
}

func TestSearchFieldMatrix(t *testing.T) {
	cat := testCatalog(t)
	l := testList(t, cat)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "town", query: "w=velddrif", want: []int{5}},
		{name: "province", query: "p=kzn", want: []int{1, 2, 4}},
		{name: "sname", query: "s=cygnus", want: []int{1, 2}},
		{name: "family", query: "m=corvidae", want: []int{3, 4}},
		{name: "order", query: "r=anseriformes", want: []int{1, 2}},
		{name: "heard flag", query: "H", want: []int{2}},
		{name: "seen everywhere", query: "S", want: []int{1, 2, 3, 4, 5}},
		{name: "no match", query: "a=kruger", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, _, err := Search(tt.query, cat, l)
			require.NoError(t, err)
			assert.Equal(t, tt.want, positions)
		})
	}
}
