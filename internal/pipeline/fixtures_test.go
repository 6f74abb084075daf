package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mlbstats/internal"
)

const anchorXPath = "xpath://table[@id='records']/tbody/tr[1]"

// page wraps rows in a records table whose first row is the header anchor.
func page(rows ...string) string {
	return `<html><body><table id="records"><tr class="header"><td>Records</td></tr>` +
		strings.Join(rows, "") + `</table></body></html>`
}

func tr(class string, cells ...string) string {
	var b strings.Builder
	if class != "" {
		fmt.Fprintf(&b, `<tr class="%s">`, class)
	} else {
		b.WriteString("<tr>")
	}
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}

func link(label string) string {
	return `<a href="/players/` + strings.ReplaceAll(label, " ", "_") + `">` + label + `</a>`
}

func mustDoc(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(err)
	}
	return doc
}

// fakeFetcher serves canned pages by URL.
type fakeFetcher struct {
	pages  map[string]string
	errors map[string]error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, ready func(*goquery.Document) bool) (*goquery.Document, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errors[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	doc := mustDoc(html)
	if ready != nil && !ready(doc) {
		return nil, fmt.Errorf("not ready: %s", url)
	}
	return doc, nil
}

type memorySink struct {
	tables map[string][]internal.Record
}

func newMemorySink() *memorySink {
	return &memorySink{tables: map[string][]internal.Record{}}
}

func (m *memorySink) Export(_ context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	m.tables[table.Name] = append(m.tables[table.Name], records...)
	return internal.ExportResult{Written: len(records)}, nil
}

func (m *memorySink) Replace(_ context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	m.tables[table.Name] = append([]internal.Record(nil), records...)
	return internal.ExportResult{Written: len(records)}, nil
}

// appendOnlySink records exports but cannot replace.
type appendOnlySink struct {
	mem *memorySink
}

func (a appendOnlySink) Export(ctx context.Context, table internal.Table, records []internal.Record) (internal.ExportResult, error) {
	return a.mem.Export(ctx, table, records)
}
