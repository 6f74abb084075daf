package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mlbstats/internal"
	"mlbstats/internal/util"
)

// RowsAfter collects the tr siblings that follow the anchor row, in document order.
func RowsAfter(anchor *goquery.Selection) []internal.RawRow {
	siblings := anchor.First().NextAllFiltered("tr")
	out := make([]internal.RawRow, 0, siblings.Length())
	siblings.Each(func(i int, row *goquery.Selection) {
		out = append(out, toRawRow(i+1, row))
	})
	return out
}

func toRawRow(index int, row *goquery.Selection) internal.RawRow {
	class, _ := row.Attr("class")
	raw := internal.RawRow{
		Index:   index,
		Classes: strings.Fields(class),
	}
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		raw.Cells = append(raw.Cells, toCell(td))
	})
	return raw
}

func toCell(td *goquery.Selection) internal.Cell {
	cell := internal.Cell{Text: util.NormalizeSpaces(td.Text())}
	td.Find("a").Each(func(_ int, a *goquery.Selection) {
		cell.Links = append(cell.Links, util.NormalizeSpaces(a.Text()))
	})
	return cell
}

// ExtractValue returns the label of the first link in the cell, or the cell text when it has
// no link. Player pages are linked, while plain cell text can carry footnote markers.
func ExtractValue(cell internal.Cell) string {
	if len(cell.Links) > 0 {
		return cell.Links[0]
	}
	return strings.TrimSpace(cell.Text)
}

// HasClass reports whether any class of the row contains marker.
func HasClass(row internal.RawRow, marker string) bool {
	if marker == "" {
		return false
	}
	for _, c := range row.Classes {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}
