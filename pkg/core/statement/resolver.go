package statement

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"statement_extractor/pkg/config"
)

// =============================================================================
// ROW RESOLUTION STRATEGIES
// =============================================================================

// RowStrategy places a configured field onto a table row. Strategies are
// tried in order; the first that resolves wins.
type RowStrategy interface {
	Name() string
	Resolve(t *Table, field config.FieldSpec) (rowIndex int, ok bool)
}

// directStrategy uses the configured 1-based tr_number when it is set and in
// range.
type directStrategy struct{}

func (directStrategy) Name() string { return string(MethodDirect) }

func (directStrategy) Resolve(t *Table, field config.FieldSpec) (int, bool) {
	if field.RowIndex >= 1 && field.RowIndex <= t.RowCount() {
		return field.RowIndex - 1, true
	}
	return 0, false
}

// fuzzyStrategy scans rows for a normalized label match: either the label is
// a substring of the row text, or the row text starts with the label's first
// 15 normalized characters (truncated/garbled OCR prefixes).
type fuzzyStrategy struct{}

func (fuzzyStrategy) Name() string { return string(MethodFuzzy) }

const fuzzyPrefixLen = 15

var nonWordChars = regexp.MustCompile(`[^\w\s]`)

// normalizeText lowercases and strips punctuation, keeping word characters
// and whitespace.
func normalizeText(s string) string {
	return nonWordChars.ReplaceAllString(strings.ToLower(s), "")
}

func (fuzzyStrategy) Resolve(t *Table, field config.FieldSpec) (int, bool) {
	for i, row := range t.Rows {
		rowText := normalizeText(row.Text())
		if rowText == "" {
			continue
		}
		for _, label := range field.Labels {
			labelText := normalizeText(label)
			if labelText == "" {
				continue
			}
			prefix := labelText
			if chars := []rune(labelText); len(chars) > fuzzyPrefixLen {
				prefix = string(chars[:fuzzyPrefixLen])
			}
			if strings.Contains(rowText, labelText) || strings.HasPrefix(rowText, prefix) {
				return i, true
			}
		}
	}
	return 0, false
}

// =============================================================================
// FIELD RESOLVER - Resolve configured fields against the selected table
// =============================================================================

// FieldResolver extracts a company's configured line items from a table.
type FieldResolver struct {
	registry   *config.Registry
	strategies []RowStrategy
}

// NewFieldResolver builds a resolver. When useFuzzy is false only the direct
// tr_number strategy runs.
func NewFieldResolver(registry *config.Registry, useFuzzy bool) *FieldResolver {
	strategies := []RowStrategy{directStrategy{}}
	if useFuzzy {
		strategies = append(strategies, fuzzyStrategy{})
	}
	return &FieldResolver{registry: registry, strategies: strategies}
}

// Resolve runs all configured fields for a company against the table and
// returns the extraction record plus per-field diagnostics. Fields no
// strategy can place are omitted from the record, not errors; only an unknown
// company is.
func (fr *FieldResolver) Resolve(t *Table, companyName string) (*Record, []FieldDiagnostic, error) {
	company, err := fr.registry.Company(companyName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve: %w", err)
	}

	record := &Record{
		CompanyName:   companyName,
		FinancialData: make([]LineItem, 0, len(company.FinancialData)),
	}
	diagnostics := make([]FieldDiagnostic, 0, len(company.FinancialData))
	sawDirect, sawFuzzy := false, false

	for _, field := range company.FinancialData {
		layout := fr.registry.LayoutFor(company, field)

		rowIndex, strategy := fr.resolveRow(t, field)
		if strategy == "" {
			log.Printf("[FieldResolver] No row for key %q (tr_number: %d, labels: %v)",
				field.Key, field.RowIndex, field.Labels)
			diagnostics = append(diagnostics, FieldDiagnostic{
				Key:        field.Key,
				Strategy:   StrategyUnresolved,
				Suggestion: suggestNearestRow(t, field.Labels),
			})
			continue
		}

		switch strategy {
		case string(MethodDirect):
			sawDirect = true
		case string(MethodFuzzy):
			sawFuzzy = true
			log.Printf("[FieldResolver] Fuzzy matched %q at row %d", field.Key, rowIndex+1)
		}

		record.FinancialData = append(record.FinancialData, extractItem(t.Rows[rowIndex], field, layout))
		diagnostics = append(diagnostics, FieldDiagnostic{
			Key:      field.Key,
			Strategy: strategy,
			RowIndex: rowIndex + 1,
		})
	}

	record.Method = overallMethod(sawDirect, sawFuzzy)
	return record, diagnostics, nil
}

// resolveRow tries each strategy in order and reports which one succeeded.
func (fr *FieldResolver) resolveRow(t *Table, field config.FieldSpec) (int, string) {
	for _, strategy := range fr.strategies {
		if rowIndex, ok := strategy.Resolve(t, field); ok {
			return rowIndex, strategy.Name()
		}
	}
	return 0, ""
}

// extractItem pulls the display label and per-period raw values out of a
// resolved row using the active column layout. Values pass through untouched
// apart from whitespace trimming.
func extractItem(row Row, field config.FieldSpec, layout config.ColumnLayout) LineItem {
	particular := ""
	if labelCol := layout.LabelColumn(); labelCol >= 1 && labelCol <= len(row.Cells) {
		particular = strings.TrimSpace(row.Cells[labelCol-1])
	}
	if particular == "" {
		if len(field.Labels) > 0 {
			particular = field.Labels[0]
		} else {
			particular = field.Key
		}
	}

	values := make(map[string]string, len(layout))
	for period, col := range layout {
		if period == config.LabelColumnKey {
			continue
		}
		if col <= len(row.Cells) {
			values[period] = strings.TrimSpace(row.Cells[col-1])
		} else {
			// Period legitimately absent in older statements.
			values[period] = ""
		}
	}

	return LineItem{Particular: particular, Key: field.Key, Values: values}
}

// overallMethod reduces the per-field strategies to the record-level tag.
func overallMethod(sawDirect, sawFuzzy bool) ExtractionMethod {
	switch {
	case sawDirect && sawFuzzy:
		return MethodMixed
	case sawFuzzy:
		return MethodFuzzy
	default:
		return MethodDirect
	}
}

// suggestNearestRow produces a diagnostic hint for an unresolved field: the
// row whose text ranks closest to any of the configured labels. It never
// influences resolution itself.
func suggestNearestRow(t *Table, labels []string) string {
	bestRank := -1
	bestRow := -1
	for i, row := range t.Rows {
		text := row.Text()
		if text == "" {
			continue
		}
		for _, label := range labels {
			rank := fuzzy.RankMatchNormalizedFold(label, text)
			if rank >= 0 && (bestRank < 0 || rank < bestRank) {
				bestRank = rank
				bestRow = i
			}
		}
	}
	if bestRow < 0 {
		return ""
	}
	text := t.Rows[bestRow].Text()
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	return fmt.Sprintf("closest row %d: %q", bestRow+1, text)
}
