package statement

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// =============================================================================
// MARKDOWN INGEST - Parse collaborator Markdown table exports
// =============================================================================

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseMarkdownTable parses the first pipe table in a Markdown export.
func ParseMarkdownTable(src string, source string) (*Table, error) {
	tables, err := ParseMarkdownTables(src, source)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no table found in %s", source)
	}
	return tables[0], nil
}

// ParseMarkdownTables extracts every pipe table from a Markdown document.
func ParseMarkdownTables(src string, source string) ([]*Table, error) {
	data := []byte(src)
	doc := markdownParser.Parser().Parse(text.NewReader(data))

	var tables []*Table
	position := 0
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}

		var cellRows [][]string
		for row := table.FirstChild(); row != nil; row = row.NextSibling() {
			switch row.(type) {
			case *east.TableHeader, *east.TableRow:
			default:
				continue
			}
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, nodeText(cell, data))
			}
			if len(cells) > 0 {
				cellRows = append(cellRows, cells)
			}
		}

		tables = append(tables, NewTable(source, position, cellRows))
		position++
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse markdown %s: %w", source, err)
	}
	return tables, nil
}

// nodeText collects the plain text under a node.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
