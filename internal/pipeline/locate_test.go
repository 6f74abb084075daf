package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// almanacPage mimics the nesting of the source pages: the record table sits in the third
// div of the second div of the second top-level div, with nine preamble rows.
func almanacPage() string {
	var rows strings.Builder
	for i := 1; i <= 9; i++ {
		rows.WriteString(tr("", "preamble"))
	}
	rows.WriteString(tr("", "Header"))
	rows.WriteString(tr("", "AL", "Nap Lajoie", "Philadelphia", ".426", "1901"))
	return `<html><body><div>nav</div><div><div>left</div><div><div>a</div><div>b</div><div><table>` +
		rows.String() + `</table></div></div></div></body></html>`
}

func TestParseLocatorKinds(t *testing.T) {
	cases := map[string]string{
		"xpath:/html/body/table/tbody/tr[2]": "xpath:/html/body/table/tbody/tr[2]",
		"/html/body/table/tbody/tr[2]":       "xpath:/html/body/table/tbody/tr[2]",
		"css:table#records tr.header":        "css:table#records tr.header",
		"table#records tr:first-child":       "css:table#records tr:first-child",
		"text: Career Strikeouts":            "text:Career Strikeouts",
	}
	for raw, want := range cases {
		loc, err := ParseLocator(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, loc.String())
	}

	_, err := ParseLocator("xpath:  ")
	assert.Error(t, err)
}

func TestXPathLocatorMatchesAlmanacLayout(t *testing.T) {
	loc, err := ParseLocator("xpath:/html/body/div[2]/div[2]/div[3]/table/tbody/tr[10]")
	require.NoError(t, err)

	anchor, err := loc.Locate(mustDoc(almanacPage()))
	require.NoError(t, err)
	assert.Equal(t, "Header", strings.TrimSpace(anchor.Text()))

	rows := RowsAfter(anchor)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Cells, 5)
}

func TestLocatorsReportMissingAnchor(t *testing.T) {
	doc := mustDoc(`<html><body><p>maintenance</p></body></html>`)
	for _, raw := range []string{anchorXPath, "css:table#records tr", "text:Records"} {
		loc, err := ParseLocator(raw)
		require.NoError(t, err)
		_, err = loc.Locate(doc)
		assert.ErrorIs(t, err, ErrAnchorNotFound, raw)
	}
}

func TestCSSAndTextLocators(t *testing.T) {
	doc := mustDoc(page(tr("", "AL", "Ty Cobb", "Detroit", ".420", "1911")))

	css, err := ParseLocator("css:tr.header")
	require.NoError(t, err)
	anchor, err := css.Locate(doc)
	require.NoError(t, err)
	assert.Len(t, RowsAfter(anchor), 1)

	text, err := ParseLocator("text:records")
	require.NoError(t, err)
	anchor, err = text.Locate(doc)
	require.NoError(t, err)
	assert.Len(t, RowsAfter(anchor), 1)
}

func TestTextLocatorPrefersInnermostRow(t *testing.T) {
	inner := `<table>` + tr("", "Career Strikeouts Leaders") +
		tr("", "NL", link("Nolan Ryan"), "5,714") + `</table>`
	doc := mustDoc(`<html><body><table id="layout">` +
		tr("", "Career Strikeouts menu", inner) +
		tr("", "footer") + `</table></body></html>`)

	loc, err := ParseLocator("text:Career Strikeouts")
	require.NoError(t, err)
	anchor, err := loc.Locate(doc)
	require.NoError(t, err)
	assert.Equal(t, "Career Strikeouts Leaders", strings.TrimSpace(anchor.Text()))

	rows := RowsAfter(anchor)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Cells, 3)
	assert.Equal(t, []string{"Nolan Ryan"}, rows[0].Cells[1].Links)
}

func TestInvalidXPath(t *testing.T) {
	loc, err := ParseLocator("xpath://tr[")
	require.NoError(t, err)
	_, err = loc.Locate(mustDoc(page()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAnchorNotFound)
}
