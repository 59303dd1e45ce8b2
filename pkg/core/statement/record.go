package statement

// =============================================================================
// EXTRACTION RECORD - Normalized output value object
// =============================================================================

// ExtractionMethod summarizes which row-resolution strategies produced a
// record's fields.
type ExtractionMethod string

const (
	MethodDirect ExtractionMethod = "direct"
	MethodFuzzy  ExtractionMethod = "fuzzy"
	MethodMixed  ExtractionMethod = "mixed"
)

// LineItem is one resolved financial line: the display label as printed in
// the statement, the configured field key, and the raw per-period values.
type LineItem struct {
	Particular string            `json:"particular"`
	Key        string            `json:"key"`
	Values     map[string]string `json:"values"`
}

// Record is the normalized extraction result. It is immutable once returned;
// downstream renderers and storage treat it as a value object.
type Record struct {
	CompanyName   string           `json:"company_name"`
	FinancialData []LineItem       `json:"financial_data"`
	Method        ExtractionMethod `json:"extraction_method"`
}

// Item returns the line item for a field key, if present.
func (r *Record) Item(key string) (LineItem, bool) {
	for _, item := range r.FinancialData {
		if item.Key == key {
			return item, true
		}
	}
	return LineItem{}, false
}

// =============================================================================
// RESOLUTION DIAGNOSTICS
// =============================================================================

// StrategyUnresolved marks a field no strategy could place.
const StrategyUnresolved = "unresolved"

// FieldDiagnostic records how (or whether) one field was resolved.
type FieldDiagnostic struct {
	Key        string `json:"key"`
	Strategy   string `json:"strategy"`             // "direct", "fuzzy" or "unresolved"
	RowIndex   int    `json:"row_index,omitempty"`  // 1-based, 0 when unresolved
	Suggestion string `json:"suggestion,omitempty"` // nearest-row hint for unresolved fields
}

// DiagnosticsSummary aggregates per-field outcomes for user-facing reporting.
type DiagnosticsSummary struct {
	Direct     int `json:"direct"`
	Fuzzy      int `json:"fuzzy"`
	Unresolved int `json:"unresolved"`
}

// Summarize counts per-strategy outcomes.
func Summarize(diags []FieldDiagnostic) DiagnosticsSummary {
	var summary DiagnosticsSummary
	for _, d := range diags {
		switch d.Strategy {
		case string(MethodDirect):
			summary.Direct++
		case string(MethodFuzzy):
			summary.Fuzzy++
		default:
			summary.Unresolved++
		}
	}
	return summary
}
