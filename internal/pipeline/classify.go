package pipeline

import (
	"errors"
	"fmt"

	"mlbstats/internal"
)

var (
	// ErrSkip marks a row whose cell count matches no layout: spacers, ads, sub-headers.
	ErrSkip         = errors.New("row shape not recognized")
	ErrMalformedRow = errors.New("malformed row")
)

// Column points a field at a cell. Link columns take the first link label over the cell text.
type Column struct {
	Index int
	Link  bool
}

// Layout maps fields to cells for rows of one cell count.
type Layout map[internal.Field]Column

// Classify picks the layout for the row's cell count and extracts the fields it maps.
func Classify(row internal.RawRow, layouts map[int]Layout) (internal.RawRecord, error) {
	layout, ok := layouts[len(row.Cells)]
	if !ok {
		return internal.RawRecord{}, ErrSkip
	}

	rec := internal.RawRecord{RowIndex: row.Index}
	for field, col := range layout {
		if col.Index < 0 || col.Index >= len(row.Cells) {
			return internal.RawRecord{}, fmt.Errorf("%w: %s at cell %d of %d", ErrMalformedRow, field, col.Index, len(row.Cells))
		}
		cell := row.Cells[col.Index]
		value := cell.Text
		if col.Link {
			value = ExtractValue(cell)
		}
		rec.Set(field, value)
	}

	if rec.Name == "" {
		return internal.RawRecord{}, fmt.Errorf("%w: empty name", ErrMalformedRow)
	}
	return rec, nil
}
