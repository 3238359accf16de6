package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

func TestByName(t *testing.T) {
	tbl := scenarioTable(t)

	t.Run("matches every year and sex in table order", func(t *testing.T) {
		got := query.ByName(tbl, "Mary")
		require.Len(t, got.Rows, 2)
		assert.Equal(t, 1900, got.Rows[0].Year)
		assert.Equal(t, 1901, got.Rows[1].Year)
		assert.Equal(t, int64(150), got.Total)
		assert.False(t, got.Empty())
	})

	t.Run("pct is the (year, sex) share", func(t *testing.T) {
		got := query.ByName(tbl, "Mary")
		assert.InDelta(t, 1.0, got.Rows[0].Pct, 1e-9)
		assert.InDelta(t, 1.0, got.Rows[1].Pct, 1e-9)

		john := query.ByName(tbl, "John")
		require.Len(t, john.Rows, 1)
		assert.InDelta(t, 1.0, john.Rows[0].Pct, 1e-9)
	})

	t.Run("year share spans both sexes", func(t *testing.T) {
		got := query.ByName(tbl, "Mary")
		assert.InDelta(t, 1.0, got.Rows[0].YearShare, 1e-9)
		assert.InDelta(t, 50.0/130.0, got.Rows[1].YearShare, 1e-9)

		john := query.ByName(tbl, "John")
		assert.InDelta(t, 80.0/130.0, john.Rows[0].YearShare, 1e-9)
	})

	t.Run("match is exact and case-sensitive", func(t *testing.T) {
		assert.True(t, query.ByName(tbl, "mary").Empty())
		assert.True(t, query.ByName(tbl, "Mar").Empty())
	})

	t.Run("absent or empty name is an empty result", func(t *testing.T) {
		for _, name := range []string{"", "Zebulon"} {
			got := query.ByName(tbl, name)
			assert.NotNil(t, got.Rows)
			assert.Empty(t, got.Rows)
			assert.Zero(t, got.Total)
		}
	})

	t.Run("a name used by both sexes returns both", func(t *testing.T) {
		got := query.ByName(sampleTable(t), "Anna")
		require.Len(t, got.Rows, 3)
		assert.Equal(t, model.Female, got.Rows[0].Sex)
		assert.Equal(t, model.Male, got.Rows[2].Sex)
	})

	t.Run("does not mutate the table", func(t *testing.T) {
		before := tbl.Records()
		_ = query.ByName(tbl, "Mary")
		assert.Equal(t, before, tbl.Records())
	})
}

func TestParseSexSelector(t *testing.T) {
	cases := map[string]model.Sex{
		"":       "",
		"F":      model.Female,
		"f":      model.Female,
		"Female": model.Female,
		" male ": model.Male,
		"M":      model.Male,
	}
	for in, want := range cases {
		got, err := query.ParseSexSelector(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := query.ParseSexSelector("X")
	assert.ErrorIs(t, err, query.ErrInvalidSex)
}
