package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"

	"mlbstats/internal/util"
)

var ErrAnchorNotFound = errors.New("anchor row not found")

// Locator finds the row that marks the start of data in a page. Records are read from the
// sibling rows that follow it.
type Locator interface {
	Locate(doc *goquery.Document) (*goquery.Selection, error)
	String() string
}

// ParseLocator builds a locator from its configured form:
//
//	xpath:/html/body/div[2]/table/tbody/tr[2]
//	css:table.records tr.header
//	text:Career Strikeouts
//
// A locator without a prefix is treated as XPath when it starts with "/" and as CSS otherwise.
func ParseLocator(raw string) (Locator, error) {
	raw = strings.TrimSpace(raw)
	kind, expr, found := strings.Cut(raw, ":")
	kind = strings.ToLower(kind)
	if !found || (kind != "xpath" && kind != "css" && kind != "text") {
		kind, expr = "css", raw
		if strings.HasPrefix(raw, "/") {
			kind = "xpath"
		}
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty locator: %q", raw)
	}

	switch kind {
	case "xpath":
		return xpathLocator{expr: expr}, nil
	case "text":
		return textLocator{needle: expr}, nil
	default:
		return cssLocator{selector: expr}, nil
	}
}

type xpathLocator struct {
	expr string
}

func (l xpathLocator) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, ErrAnchorNotFound
	}
	node, err := htmlquery.Query(doc.Nodes[0], l.expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", l.expr, err)
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrAnchorNotFound, l)
	}
	return doc.FindNodes(node), nil
}

func (l xpathLocator) String() string { return "xpath:" + l.expr }

type cssLocator struct {
	selector string
}

func (l cssLocator) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	if doc == nil {
		return nil, ErrAnchorNotFound
	}
	sel := doc.Find(l.selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAnchorNotFound, l)
	}
	return sel, nil
}

func (l cssLocator) String() string { return "css:" + l.selector }

// textLocator matches the first table row whose text contains the needle, so a header row can
// be found by its caption instead of its position. Rows of layout tables wrapping a matching
// row are skipped in favour of the innermost match.
type textLocator struct {
	needle string
}

func (l textLocator) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	if doc == nil {
		return nil, ErrAnchorNotFound
	}
	needle := strings.ToLower(util.NormalizeSpaces(l.needle))
	matches := func(_ int, row *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(util.NormalizeSpaces(row.Text())), needle)
	}
	sel := doc.Find("tr").FilterFunction(matches).FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Find("tr").FilterFunction(matches).Length() == 0
	}).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAnchorNotFound, l)
	}
	return sel, nil
}

func (l textLocator) String() string { return "text:" + l.needle }
