// Package pipeline wires the extraction stages together: page
// classification, table selection and field resolution, returning one result
// envelope per document-processing request.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"statement_extractor/pkg/config"
	"statement_extractor/pkg/core/statement"
)

// Selection method labels reported in TableInfo.
const (
	SelectionDefault     = "default"
	SelectionSingleTable = "single_table"
	SelectionHeuristic   = "heuristic"
)

// Options control optional stages.
type Options struct {
	UseFuzzyMatching bool
}

// Request carries one document's pre-extracted inputs: the page texts from
// the PDF collaborator and the structured tables from the OCR/table
// collaborator. Failed table loads arrive as nil entries and are skipped.
type Request struct {
	CompanyName string
	Pages       []string
	Tables      []*statement.Table
}

// TableInfo describes how the statement table was chosen.
type TableInfo struct {
	TotalTables     int    `json:"total_tables"`
	SelectedTable   int    `json:"selected_table"` // 1-based
	SelectionMethod string `json:"selection_method"`
}

// Result is the per-request envelope returned to the enclosing service.
type Result struct {
	RequestID   string                       `json:"request_id"`
	Success     bool                         `json:"success"`
	Message     string                       `json:"message"`
	Record      *statement.Record            `json:"record,omitempty"`
	Diagnostics []statement.FieldDiagnostic  `json:"diagnostics,omitempty"`
	Summary     statement.DiagnosticsSummary `json:"summary"`
	TableInfo   TableInfo                    `json:"table_info"`
	TargetPage  int                          `json:"target_page"` // 1-based, 0 when not identified
	Elapsed     time.Duration                `json:"elapsed"`
}

// Orchestrator runs the extraction stages for one company at a time. It is
// stateless between requests and safe for concurrent use.
type Orchestrator struct {
	classifier *statement.PageClassifier
	scorer     *statement.TableScorer
	resolver   *statement.FieldResolver
}

// New builds an orchestrator over a validated configuration registry.
func New(registry *config.Registry, opts Options) *Orchestrator {
	return &Orchestrator{
		classifier: statement.NewPageClassifier(),
		scorer:     statement.NewTableScorer(),
		resolver:   statement.NewFieldResolver(registry, opts.UseFuzzyMatching),
	}
}

// Process runs one request end to end. Missing tables and unknown companies
// are hard failures; unresolved individual fields are not.
func (o *Orchestrator) Process(req Request) (*Result, error) {
	start := time.Now()
	result := &Result{
		RequestID: uuid.New().String(),
		TableInfo: TableInfo{TotalTables: len(req.Tables), SelectionMethod: SelectionDefault},
	}

	if pageIndex, found := o.classifier.Classify(req.Pages); found {
		result.TargetPage = pageIndex + 1
		log.Printf("[Pipeline] Target page identified: %d", result.TargetPage)
	} else {
		log.Printf("[Pipeline] No target page found, processing entire document")
	}

	selected, ok := o.selectTable(req.Tables, result)
	if !ok {
		result.Message = "no tables extracted from document"
		result.Elapsed = time.Since(start)
		return result, fmt.Errorf("process %s: no tables", req.CompanyName)
	}

	record, diagnostics, err := o.resolver.Resolve(selected, req.CompanyName)
	if err != nil {
		result.Message = err.Error()
		result.Elapsed = time.Since(start)
		return result, err
	}

	result.Success = true
	result.Record = record
	result.Diagnostics = diagnostics
	result.Summary = statement.Summarize(diagnostics)
	result.Elapsed = time.Since(start)
	result.Message = fmt.Sprintf(
		"Extracted %d of %d fields (direct: %d, fuzzy: %d, unresolved: %d) from table %d of %d",
		len(record.FinancialData), len(diagnostics),
		result.Summary.Direct, result.Summary.Fuzzy, result.Summary.Unresolved,
		result.TableInfo.SelectedTable, result.TableInfo.TotalTables)
	return result, nil
}

// selectTable picks the statement table among the candidates and records the
// selection method.
func (o *Orchestrator) selectTable(tables []*statement.Table, result *Result) (*statement.Table, bool) {
	switch {
	case len(tables) == 0:
		return nil, false
	case len(tables) == 1:
		if tables[0] == nil {
			return nil, false
		}
		result.TableInfo.SelectedTable = 1
		result.TableInfo.SelectionMethod = SelectionSingleTable
		return tables[0], true
	default:
		index, ok := o.scorer.SelectBest(tables)
		if !ok {
			return nil, false
		}
		result.TableInfo.SelectedTable = index + 1
		result.TableInfo.SelectionMethod = SelectionHeuristic
		return tables[index], true
	}
}
