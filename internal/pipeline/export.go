package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"mlbstats/internal"
	"mlbstats/internal/util"
)

// Workbook collects exported categories into one XLSX file, a sheet per table. It is the
// interchange artifact between a scrape and a later import:xlsx.
type Workbook struct {
	f      *excelize.File
	sheets map[string]int
}

func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile(), sheets: map[string]int{}}
}

func (w *Workbook) Export(_ context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	if err := w.ensureSheet(table); err != nil {
		return internal.ExportResult{}, err
	}

	next := w.sheets[table.Name]
	written := 0
	for _, rec := range records {
		values := rec.Values()
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, next)
			if err := w.f.SetCellValue(table.Name, cell, cellValue(value)); err != nil {
				return internal.ExportResult{Written: written, Failed: len(records) - written}, err
			}
		}
		next++
		written++
	}
	w.sheets[table.Name] = next
	return internal.ExportResult{Written: written}, nil
}

// Reset drops the rows written so far for table.
func (w *Workbook) Reset(_ context.Context, table internal.Table) error {
	next, ok := w.sheets[table.Name]
	if !ok {
		return nil
	}
	for row := next - 1; row >= 2; row-- {
		if err := w.f.RemoveRow(table.Name, row); err != nil {
			return err
		}
	}
	w.sheets[table.Name] = 2
	return nil
}

// Replace drops the rows written so far for table and writes records in their place.
func (w *Workbook) Replace(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	if err := w.Reset(ctx, table); err != nil {
		return internal.ExportResult{}, err
	}
	return w.Export(ctx, table, records)
}

func (w *Workbook) ensureSheet(table internal.Table) error {
	if _, ok := w.sheets[table.Name]; ok {
		return nil
	}

	if len(w.sheets) == 0 && w.f.GetSheetName(0) == "Sheet1" {
		if err := w.f.SetSheetName("Sheet1", table.Name); err != nil {
			return err
		}
	} else if _, err := w.f.NewSheet(table.Name); err != nil {
		return err
	}

	for i, h := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.f.SetCellValue(table.Name, cell, h); err != nil {
			return err
		}
	}
	w.sheets[table.Name] = 2
	return nil
}

func (w *Workbook) SaveAs(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return w.f.SaveAs(outputPath)
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// cellValue writes nil pointers as empty cells.
func cellValue(v any) any {
	switch t := v.(type) {
	case *int:
		return util.DerefInt(t)
	case *float64:
		return util.DerefFloat(t)
	case *string:
		return util.DerefString(t)
	default:
		return v
	}
}

type ImportResult struct {
	Table     string
	Rows      int
	Malformed int
	Invalid   int
	Written   int
	Failed    int
}

// ImportWorkbook loads every category sheet found in an interchange workbook into sink.
// Short rows and rows whose required numbers do not parse are logged and skipped.
func ImportWorkbook(ctx context.Context, path string, sink Sink, log *zap.Logger) ([]ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	present := map[string]bool{}
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	var out []ImportResult
	for _, category := range internal.Categories {
		table, _ := internal.TableFor(category)
		if !present[table.Name] {
			log.Info("sheet not in workbook", zap.String("table", table.Name))
			continue
		}

		rows, err := f.GetRows(table.Name)
		if err != nil {
			return out, fmt.Errorf("read sheet %s: %w", table.Name, err)
		}

		result := ImportResult{Table: table.Name}
		records := make([]internal.Record, 0, len(rows))
		for i, row := range rows {
			if i == 0 {
				continue
			}
			result.Rows++
			if len(row) < table.Required {
				result.Malformed++
				log.Warn("malformed row ignored", zap.String("table", table.Name), zap.Int("row", i+1), zap.Strings("cells", row))
				continue
			}

			raw := internal.RawRecord{RowIndex: i + 1}
			for col, field := range table.Fields {
				if col < len(row) {
					raw.Set(field, strings.TrimSpace(row[col]))
				}
			}
			rec, err := BuildRecord(category, raw)
			if err != nil {
				result.Invalid++
				log.Warn("record skipped", zap.String("table", table.Name), zap.Int("row", i+1), zap.Error(err))
				continue
			}
			records = append(records, rec)
		}

		res, err := sink.Export(ctx, table, records)
		result.Written = res.Written
		result.Failed = res.Failed
		out = append(out, result)
		if err != nil {
			return out, fmt.Errorf("import %s: %w", table.Name, err)
		}
	}
	return out, nil
}

// RecordSource lists stored records per table, in insertion order.
type RecordSource interface {
	ListBatting(ctx context.Context) ([]internal.BattingRecord, error)
	ListHomeRuns(ctx context.Context) ([]internal.HomeRunRecord, error)
	ListStrikeouts(ctx context.Context) ([]internal.StrikeoutRecord, error)
}

// CopyRecords exports every stored table into sink, e.g. a database into a workbook.
func CopyRecords(ctx context.Context, src RecordSource, sink Sink) ([]ImportResult, error) {
	batting, err := src.ListBatting(ctx)
	if err != nil {
		return nil, err
	}
	homeRuns, err := src.ListHomeRuns(ctx)
	if err != nil {
		return nil, err
	}
	strikeouts, err := src.ListStrikeouts(ctx)
	if err != nil {
		return nil, err
	}

	tables := []struct {
		table   internal.Table
		records []internal.Record
	}{
		{internal.TableBatting, asRecords(batting)},
		{internal.TableHomeRuns, asRecords(homeRuns)},
		{internal.TableStrikeouts, asRecords(strikeouts)},
	}

	out := make([]ImportResult, 0, len(tables))
	for _, t := range tables {
		res, err := sink.Export(ctx, t.table, t.records)
		out = append(out, ImportResult{Table: t.table.Name, Rows: len(t.records), Written: res.Written, Failed: res.Failed})
		if err != nil {
			return out, fmt.Errorf("export %s: %w", t.table.Name, err)
		}
	}
	return out, nil
}

func asRecords[T internal.Record](items []T) []internal.Record {
	out := make([]internal.Record, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
