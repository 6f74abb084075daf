package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlbstats/internal"
)

func row(cells ...internal.Cell) internal.RawRow {
	return internal.RawRow{Index: 1, Cells: cells}
}

func texts(values ...string) []internal.Cell {
	out := make([]internal.Cell, 0, len(values))
	for _, v := range values {
		out = append(out, internal.Cell{Text: v})
	}
	return out
}

func TestClassifySkipsUnknownShapes(t *testing.T) {
	for _, layouts := range []map[int]Layout{battingLayouts, homeRunLayouts, strikeoutLayouts} {
		for n := 0; n <= 10; n++ {
			if _, known := layouts[n]; known {
				continue
			}
			cells := make([]string, n)
			for i := range cells {
				cells[i] = "x" + strconv.Itoa(i)
			}
			_, err := Classify(row(texts(cells...)...), layouts)
			assert.ErrorIs(t, err, ErrSkip, "cells=%d", n)
		}
	}
}

func TestClassifyBattingShapes(t *testing.T) {
	six, err := Classify(row(texts("1", "NL", "Hugh Duffy", "Boston", ".440", "1894")...), battingLayouts)
	require.NoError(t, err)
	assert.Equal(t, internal.RawRecord{RowIndex: 1, League: "NL", Name: "Hugh Duffy", Team: "Boston", Value: ".440", Year: "1894"}, six)

	five, err := Classify(row(texts("AL", "Nap Lajoie", "Philadelphia", ".426", "1901")...), battingLayouts)
	require.NoError(t, err)
	assert.Equal(t, internal.RawRecord{RowIndex: 1, League: "AL", Name: "Nap Lajoie", Team: "Philadelphia", Value: ".426", Year: "1901"}, five)
}

func TestClassifyHomeRunShapesUseLinks(t *testing.T) {
	cases := []struct {
		cells []internal.Cell
	}{
		{cells: []internal.Cell{{Text: "1"}, {Text: "2"}, {Text: "Barry Bonds *", Links: []string{"Barry Bonds"}}, {Text: "a"}, {Text: "b"}, {Text: "762", Links: []string{"762"}}}},
		{cells: []internal.Cell{{Text: "1"}, {Text: "Barry Bonds *", Links: []string{"Barry Bonds"}}, {Text: "a"}, {Text: "b"}, {Text: "762"}}},
		{cells: []internal.Cell{{Text: "Barry Bonds *", Links: []string{"Barry Bonds"}}, {Text: "a"}, {Text: "b"}, {Text: "762"}}},
	}
	for _, tc := range cases {
		rec, err := Classify(row(tc.cells...), homeRunLayouts)
		require.NoError(t, err)
		assert.Equal(t, "Barry Bonds", rec.Name)
		assert.Equal(t, "762", rec.Value)
	}
}

func TestClassifyStrikeoutShapes(t *testing.T) {
	rec, err := Classify(row(
		internal.Cell{Text: "AL"},
		internal.Cell{Text: "Nolan Ryan (HOF)", Links: []string{"Nolan Ryan"}},
		internal.Cell{Text: "1966"}, internal.Cell{Text: "1993"},
		internal.Cell{Text: "5,714"},
	), strikeoutLayouts)
	require.NoError(t, err)
	assert.Equal(t, "AL", rec.League)
	assert.Equal(t, "Nolan Ryan", rec.Name)
	assert.Equal(t, "5,714", rec.Value)
}

func TestClassifyMalformedRows(t *testing.T) {
	_, err := Classify(row(texts("AL", "", "Detroit", ".420", "1911")...), battingLayouts)
	assert.ErrorIs(t, err, ErrMalformedRow)

	broken := map[int]Layout{2: {internal.FieldName: {Index: 4}}}
	_, err = Classify(row(texts("a", "b")...), broken)
	assert.ErrorIs(t, err, ErrMalformedRow)
}
