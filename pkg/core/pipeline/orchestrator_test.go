package pipeline

import (
	"strings"
	"testing"

	"statement_extractor/pkg/config"
	"statement_extractor/pkg/core/statement"
)

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()
	registry, err := config.NewRegistry(config.File{
		Companies: map[string]config.CompanyConfig{
			"britannia": {
				ColumnLayout: "standard",
				FinancialData: []config.FieldSpec{
					{Key: "sale_of_goods", RowIndex: 2, Labels: []string{"Sale of goods"}},
					{Key: "finance_costs", Labels: []string{"Finance costs"}},
					{Key: "exceptional_items", Labels: []string{"Exceptional items"}},
				},
			},
		},
		ColumnLayouts: map[string]config.ColumnLayout{
			"standard": {"label": 1, "30.06.2025": 2, "31.03.2025": 3},
		},
		CompanyAliases: map[string]string{"BRITANNIA": "britannia"},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

// statementTable is large enough to outscore the cover-sheet table.
func statementTable() *statement.Table {
	rows := [][]string{{"Particulars", "30.06.2025", "31.03.2025"}}
	rows = append(rows, []string{"Sale of goods", "4,357.64", "4,218.90"})
	rows = append(rows, []string{"Finance costs", "12.10", "11.95"})
	for i := 0; i < 12; i++ {
		rows = append(rows, []string{"Other line", "1.00", "2.00"})
	}
	rows = append(rows, []string{"Profit before tax and total comprehensive income", "(75.25)", "890.00"})
	return statement.NewTable("report-table-2.html", 1, rows)
}

func coverTable() *statement.Table {
	return statement.NewTable("report-table-1.html", 0, [][]string{
		{"To", "BSE Limited"},
		{"Scrip", "500825"},
	})
}

func TestProcessSelectsStatementTable(t *testing.T) {
	orchestrator := New(testRegistry(t), Options{UseFuzzyMatching: true})

	result, err := orchestrator.Process(Request{
		CompanyName: "BRITANNIA",
		Pages: []string{
			"Outcome of board meeting",
			"Statement of Standalone Unaudited Financial Results for the quarter ended 30 June 2025",
		},
		Tables: []*statement.Table{coverTable(), statementTable()},
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if !result.Success {
		t.Fatalf("Success = false: %s", result.Message)
	}
	if result.TargetPage != 2 {
		t.Errorf("TargetPage = %d, want 2", result.TargetPage)
	}
	if result.TableInfo.SelectedTable != 2 || result.TableInfo.SelectionMethod != SelectionHeuristic {
		t.Errorf("TableInfo = %+v", result.TableInfo)
	}
	if result.Record == nil {
		t.Fatal("Record is nil")
	}
	if result.Record.Method != statement.MethodMixed {
		t.Errorf("Method = %q, want mixed", result.Record.Method)
	}
	if result.Summary.Direct != 1 || result.Summary.Fuzzy != 1 || result.Summary.Unresolved != 1 {
		t.Errorf("Summary = %+v", result.Summary)
	}
	if result.RequestID == "" {
		t.Error("RequestID empty")
	}
	if !strings.Contains(result.Message, "direct: 1") {
		t.Errorf("Message = %q", result.Message)
	}

	item, ok := result.Record.Item("sale_of_goods")
	if !ok {
		t.Fatal("sale_of_goods missing")
	}
	if item.Values["30.06.2025"] != "4,357.64" {
		t.Errorf("value = %q", item.Values["30.06.2025"])
	}
}

func TestProcessSingleTable(t *testing.T) {
	orchestrator := New(testRegistry(t), Options{UseFuzzyMatching: true})
	result, err := orchestrator.Process(Request{
		CompanyName: "BRITANNIA",
		Tables:      []*statement.Table{statementTable()},
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if result.TableInfo.SelectionMethod != SelectionSingleTable || result.TableInfo.SelectedTable != 1 {
		t.Errorf("TableInfo = %+v", result.TableInfo)
	}
	if result.TargetPage != 0 {
		t.Errorf("TargetPage = %d, want 0 without pages", result.TargetPage)
	}
}

func TestProcessNoTables(t *testing.T) {
	orchestrator := New(testRegistry(t), Options{UseFuzzyMatching: true})
	result, err := orchestrator.Process(Request{CompanyName: "BRITANNIA"})
	if err == nil {
		t.Fatal("expected hard failure without tables")
	}
	if result.Success {
		t.Error("Success must be false")
	}
}

func TestProcessUnknownCompany(t *testing.T) {
	orchestrator := New(testRegistry(t), Options{UseFuzzyMatching: true})
	result, err := orchestrator.Process(Request{
		CompanyName: "RELIANCE",
		Tables:      []*statement.Table{statementTable()},
	})
	if err == nil {
		t.Fatal("expected error for unknown company")
	}
	if result.Success {
		t.Error("Success must be false")
	}
}

func TestProcessSkipsFailedCandidates(t *testing.T) {
	orchestrator := New(testRegistry(t), Options{UseFuzzyMatching: true})
	result, err := orchestrator.Process(Request{
		CompanyName: "BRITANNIA",
		Tables:      []*statement.Table{nil, statementTable()},
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if result.TableInfo.SelectedTable != 2 {
		t.Errorf("SelectedTable = %d, want 2", result.TableInfo.SelectedTable)
	}
}
