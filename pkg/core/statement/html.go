package statement

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// =============================================================================
// HTML INGEST - Parse collaborator table exports into candidates
// =============================================================================

// ParseHTMLTable parses the first <table> in an HTML export. The table
// collaborator writes one table per file, so a missing table is an error.
func ParseHTMLTable(html string, source string) (*Table, error) {
	tables, err := ParseHTMLTables(html, source)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no table found in %s", source)
	}
	return tables[0], nil
}

// ParseHTMLTables parses every <table> element in an HTML document.
func ParseHTMLTables(html string, source string) ([]*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", source, err)
	}

	var tables []*Table
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		var cellRows [][]string
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				cellRows = append(cellRows, cells)
			}
		})
		tables = append(tables, NewTable(source, i, cellRows))
	})
	return tables, nil
}
