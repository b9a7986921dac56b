package mep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotFound is returned when the page has no entry for the marker
var ErrNotFound = errors.New("quote not found")

var errUnknownLayout = errors.New("unknown layout")

// Extractor locates the raw quote text in a fetched page
type Extractor interface {
	// Extract returns the raw value string, or ErrNotFound
	Extract(*goquery.Document) (string, error)
}

// Layout is the page structure a source uses to list its quotes
type Layout string

const (
	LayoutList  Layout = "list"  // <li> entries with name/value spans
	LayoutTable Layout = "table" // <tr> rows with a label and numeric cells
	LayoutTiles Layout = "tiles" // standalone value blocks (buy, sell)
)

// NewExtractor creates the extractor for the given layout,
// using the default selectors for that layout.
// Tiles are scoped to the tile mentioning the marker, if one is given
func NewExtractor(layout Layout, marker string) (Extractor, error) {
	switch layout {
	case LayoutList:
		return &ListExtractor{
			Items:  "ul#market-scrll-1 li",
			Label:  "span.name",
			Value:  "span.value",
			Marker: marker,
		}, nil
	case LayoutTable:
		return &TableExtractor{
			Rows:   "tr",
			Label:  "strong",
			Cells:  "td.tar",
			Marker: marker,
			Index:  1, // the second numeric column is the sell price
		}, nil
	case LayoutTiles:
		e := &TilesExtractor{
			Values: "div.value",
			Index:  1, // buy comes first, then sell
		}

		if marker != "" {
			e.Scope = "div.tile"
			e.Marker = marker
		}

		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLayout, layout)
	}
}

// ListExtractor reads the value span of the first list item
// whose label contains the marker
type ListExtractor struct {
	Items  string
	Label  string
	Value  string
	Marker string
}

func (e *ListExtractor) Extract(doc *goquery.Document) (string, error) {
	var raw string

	doc.Find(e.Items).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		label := item.Find(e.Label).First()
		if label.Length() == 0 || !strings.Contains(strings.TrimSpace(label.Text()), e.Marker) {
			return true
		}

		value := item.Find(e.Value).First()
		if value.Length() == 0 {
			return true
		}

		raw = strings.TrimSpace(value.Text())

		return raw == ""
	})

	if raw == "" {
		return "", fmt.Errorf("%w: no %q item", ErrNotFound, e.Marker)
	}

	return raw, nil
}

// TableExtractor reads the Index-th numeric cell of the first row
// whose label contains the marker. Rows with too few cells are skipped
type TableExtractor struct {
	Rows   string
	Label  string
	Cells  string
	Marker string
	Index  int
}

func (e *TableExtractor) Extract(doc *goquery.Document) (string, error) {
	var raw string

	doc.Find(e.Rows).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := row.Find(e.Label).First()
		if label.Length() == 0 || !strings.Contains(label.Text(), e.Marker) {
			return true
		}

		cells := row.Find(e.Cells)
		if cells.Length() <= e.Index {
			return true
		}

		raw = strings.TrimSpace(cells.Eq(e.Index).Text())

		return raw == ""
	})

	if raw == "" {
		return "", fmt.Errorf("%w: no %q row with %d cells", ErrNotFound, e.Marker, e.Index+1)
	}

	return raw, nil
}

// TilesExtractor reads the Index-th value block of the page.
// When Scope is set, only blocks inside the first container
// containing the Marker text are considered
type TilesExtractor struct {
	Scope  string
	Marker string
	Values string
	Index  int
}

func (e *TilesExtractor) Extract(doc *goquery.Document) (string, error) {
	root := doc.Selection

	if e.Scope != "" {
		root = doc.Find(e.Scope).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(s.Text(), e.Marker)
		}).First()
	}

	values := root.Find(e.Values)
	if values.Length() <= e.Index {
		return "", fmt.Errorf("%w: found %d value blocks", ErrNotFound, values.Length())
	}

	raw := strings.TrimSpace(values.Eq(e.Index).Text())
	if raw == "" {
		return "", fmt.Errorf("%w: empty value block", ErrNotFound)
	}

	return raw, nil
}
