package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mlbstats/internal"
)

// Fetcher loads a page and returns it once ready reports the content is in place.
type Fetcher interface {
	Fetch(ctx context.Context, url string, ready func(*goquery.Document) bool) (*goquery.Document, error)
}

// Sink appends records to an export destination. Records that cannot be written are logged
// and counted as failed; an error means the destination itself is unusable.
type Sink interface {
	Export(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error)
}

// Replacer is implemented by sinks that can swap a table's rows for a new set in one step,
// keeping the previous rows when the write fails.
type Replacer interface {
	Replace(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error)
}

type ProcessingService struct {
	fetcher Fetcher
	sink    Sink
	log     *zap.Logger
	defs    []Definition
	replace bool
}

type Option func(*ProcessingService)

// WithReplace swaps each category's table contents for the run's records. The sink must be a Replacer.
func WithReplace(replace bool) Option {
	return func(s *ProcessingService) { s.replace = replace }
}

func NewProcessingService(fetcher Fetcher, sink Sink, log *zap.Logger, defs []Definition, opts ...Option) *ProcessingService {
	s := &ProcessingService{fetcher: fetcher, sink: sink, log: log, defs: defs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every category in order. A failing category is reported and the run moves on.
func (s *ProcessingService) Run(ctx context.Context) internal.RunReport {
	report := internal.RunReport{RunID: uuid.NewString()}
	log := s.log.With(zap.String("run", report.RunID))

	for _, def := range s.defs {
		start := time.Now()
		cr, err := s.runSafely(ctx, def)
		if err != nil {
			cr.Status = internal.StatusFailed
			cr.Error = err.Error()
			log.Error("category failed", zap.String("category", string(def.Category)), zap.Error(err))
		} else {
			cr.Status = internal.StatusOK
			log.Info("category exported",
				zap.String("category", string(def.Category)),
				zap.String("table", def.Table.Name),
				zap.Int("records", cr.Records),
				zap.Int("written", cr.Written),
				zap.Duration("took", time.Since(start)),
			)
		}
		report.Categories = append(report.Categories, cr)
	}
	return report
}

func (s *ProcessingService) runSafely(ctx context.Context, def Definition) (cr internal.CategoryReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", def.Category, r)
		}
	}()
	cr, err = s.RunCategory(ctx, def)
	if err != nil {
		err = fmt.Errorf("%s: %w", def.Category, err)
	}
	return cr, err
}

// RunCategory fetches one page, extracts its records and exports them.
func (s *ProcessingService) RunCategory(ctx context.Context, def Definition) (internal.CategoryReport, error) {
	cr := internal.CategoryReport{Category: def.Category}
	log := s.log.With(zap.String("category", string(def.Category)))

	ready := func(doc *goquery.Document) bool {
		_, err := def.Anchor.Locate(doc)
		return err == nil
	}
	doc, err := s.fetcher.Fetch(ctx, def.URL, ready)
	if err != nil {
		return cr, fmt.Errorf("fetch %s: %w", def.URL, err)
	}

	anchor, err := def.Anchor.Locate(doc)
	if err != nil {
		return cr, err
	}

	raw := s.classifyRows(log, def, RowsAfter(anchor), &cr)
	raw = ExcludeValues(raw, internal.FieldName, def.Exclude)
	raw = Finalize(raw, KeyOf(def.DedupeKey...), def.Window)

	records := make([]internal.Record, 0, len(raw))
	for _, r := range raw {
		rec, err := BuildRecord(def.Category, r)
		if err != nil {
			cr.Invalid++
			log.Warn("record skipped", zap.Int("row", r.RowIndex), zap.String("name", r.Name), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	cr.Records = len(records)

	write := s.sink.Export
	if s.replace {
		replacer, ok := s.sink.(Replacer)
		if !ok {
			return cr, fmt.Errorf("replace %s: sink does not support replace", def.Table.Name)
		}
		write = replacer.Replace
	}

	res, err := write(ctx, def.Table, records)
	cr.Written = res.Written
	cr.WriteFailures = res.Failed
	if err != nil {
		return cr, fmt.Errorf("export %s: %w", def.Table.Name, err)
	}
	return cr, nil
}

func (s *ProcessingService) classifyRows(log *zap.Logger, def Definition, rows []internal.RawRow, cr *internal.CategoryReport) []internal.RawRecord {
	out := make([]internal.RawRecord, 0, len(rows))
	for _, row := range rows {
		if HasClass(row, def.StopClass) {
			log.Debug("stop row reached", zap.Int("row", row.Index), zap.Strings("class", row.Classes))
			break
		}
		cr.RowsSeen++

		rec, err := Classify(row, def.Layouts)
		switch {
		case errors.Is(err, ErrSkip):
			cr.RowsSkipped++
			continue
		case err != nil:
			cr.RowsMalformed++
			log.Warn("malformed row skipped", zap.Int("row", row.Index), zap.Strings("cells", cellTexts(row)), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}

func cellTexts(row internal.RawRow) []string {
	out := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		out = append(out, c.Text)
	}
	return out
}

// Tee exports to every sink in turn. The result is the first sink's; errors from all sinks are joined.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Export(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	return t.each(func(sink Sink) (internal.ExportResult, error) {
		return sink.Export(ctx, table, records)
	})
}

// Replace replaces table in every sink that supports it and appends to the rest.
func (t teeSink) Replace(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	return t.each(func(sink Sink) (internal.ExportResult, error) {
		if replacer, ok := sink.(Replacer); ok {
			return replacer.Replace(ctx, table, records)
		}
		return sink.Export(ctx, table, records)
	})
}

func (t teeSink) each(write func(Sink) (internal.ExportResult, error)) (internal.ExportResult, error) {
	var first internal.ExportResult
	var errs []error
	for i, sink := range t {
		res, err := write(sink)
		if i == 0 {
			first = res
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return first, errors.Join(errs...)
}
