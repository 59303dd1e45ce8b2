// Package statement implements the statement extraction engine: page
// classification to find the target financial results page, candidate table
// scoring, and row/column resolution of configured line items.
package statement

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// TABLE CANDIDATE - Structured table handed over by the OCR/table collaborator
// =============================================================================

// Row is one table row with its ordered cell texts.
type Row struct {
	Index int      `json:"index"`
	Cells []string `json:"cells"`
}

// Text returns the row's cells joined into one string.
func (r Row) Text() string {
	return strings.TrimSpace(strings.Join(r.Cells, " "))
}

// Table is a candidate table for one page/section. It is ephemeral: built per
// request and discarded after resolution.
type Table struct {
	ID       string `json:"id"`     // SHA-256 fingerprint
	Source   string `json:"source"` // e.g. "report-table-3.html"
	Position int    `json:"position"`
	Rows     []Row  `json:"rows"`
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Text returns a flattened rendering of the whole table, used for keyword and
// numeric scans.
func (t *Table) Text() string {
	parts := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		parts = append(parts, row.Text())
	}
	return strings.Join(parts, "\n")
}

// NewTable builds a table from raw cell rows and fingerprints it.
func NewTable(source string, position int, cellRows [][]string) *Table {
	rows := make([]Row, 0, len(cellRows))
	for i, cells := range cellRows {
		rows = append(rows, Row{Index: i, Cells: cells})
	}
	return &Table{
		ID:       generateTableID(source, position, len(rows)),
		Source:   source,
		Position: position,
		Rows:     rows,
	}
}

// generateTableID creates a short fingerprint for a table.
func generateTableID(source string, position int, rowCount int) string {
	data := source + strconv.Itoa(position) + strconv.Itoa(rowCount)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}

// =============================================================================
// VALUE NORMALIZATION - Numeric contract for rendering consumers
// =============================================================================

var thousandsSeparator = regexp.MustCompile(`,`)

// ParseNumeric converts a raw cell string to a number. Empty input is the "no
// data" sentinel and parses to zero. Parenthesized values are negative,
// thousands separators are stripped, and anything still unparseable is zero,
// never an error.
func ParseNumeric(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		value = "-" + value[1:len(value)-1]
	}
	value = thousandsSeparator.ReplaceAllString(value, "")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// FormatNumeric renders a number the way the statements print them: zero as
// "-", negatives in parentheses, thousands separated.
func FormatNumeric(value float64, decimals int) string {
	if value == 0 {
		return "-"
	}
	negative := value < 0
	if negative {
		value = -value
	}
	formatted := groupThousands(strconv.FormatFloat(value, 'f', decimals, 64))
	if negative {
		return "(" + formatted + ")"
	}
	return formatted
}

// groupThousands inserts comma separators into the integer part of a plain
// decimal string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	if len(intPart) <= 3 {
		return intPart + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}
