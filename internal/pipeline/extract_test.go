package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlbstats/internal"
)

func TestExtractValuePrefersFirstLink(t *testing.T) {
	cases := []struct {
		name string
		cell internal.Cell
		want string
	}{
		{name: "plain", cell: internal.Cell{Text: "  Hugh Duffy "}, want: "Hugh Duffy"},
		{name: "link differs from text", cell: internal.Cell{Text: "Babe Ruth (HOF)", Links: []string{"Babe Ruth"}}, want: "Babe Ruth"},
		{name: "first of several links", cell: internal.Cell{Text: "714 / 2,214", Links: []string{"714", "2,214"}}, want: "714"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractValue(tc.cell))
		})
	}
}

func TestRowsAfterCollectsCellsLinksAndClasses(t *testing.T) {
	doc := mustDoc(page(
		tr("", "1", link("Barry Bonds")+" *", "SF", "1986", "2007", link("762")),
		tr("banner top", "Leaders"),
	))
	loc, err := ParseLocator(anchorXPath)
	require.NoError(t, err)
	anchor, err := loc.Locate(doc)
	require.NoError(t, err)

	rows := RowsAfter(anchor)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 1, first.Index)
	require.Len(t, first.Cells, 6)
	assert.Equal(t, "Barry Bonds *", first.Cells[1].Text)
	assert.Equal(t, []string{"Barry Bonds"}, first.Cells[1].Links)
	assert.Equal(t, []string{"762"}, first.Cells[5].Links)
	assert.Empty(t, first.Classes)

	assert.Equal(t, []string{"banner", "top"}, rows[1].Classes)
	assert.True(t, HasClass(rows[1], "banner"))
	assert.False(t, HasClass(first, "banner"))
	assert.False(t, HasClass(rows[1], ""))
}
