package config

import (
	"strings"
	"testing"
)

const validConfig = `{
  company_aliases: {
    BRITANNIA: britannia
  }
  column_layouts: {
    standard: {
      label: 2
      "30.06.2025": 3
      "31.03.2025": 4
    }
    swapped: {
      label: 2
      "30.06.2025": 4
      "31.03.2025": 3
    }
  }
  companies: {
    britannia: {
      column_layout: standard
      financial_data: [
        {key: "sale_of_goods", tr_number: 4, labels: ["Sale of goods"]}
        {key: "finance_costs", labels: ["Finance costs"], column_layout: "swapped"}
      ]
    }
  }
}`

func TestParseValidConfig(t *testing.T) {
	registry, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	company, err := registry.Company("BRITANNIA")
	if err != nil {
		t.Fatalf("Company() error: %v", err)
	}
	if company.ColumnLayout != "standard" {
		t.Errorf("ColumnLayout = %q", company.ColumnLayout)
	}
	if len(company.FinancialData) != 2 {
		t.Fatalf("got %d fields", len(company.FinancialData))
	}
	if company.FinancialData[0].RowIndex != 4 {
		t.Errorf("tr_number = %d, want 4", company.FinancialData[0].RowIndex)
	}

	// Lookup also works by config key, case-insensitively.
	if _, err := registry.Company("Britannia"); err != nil {
		t.Errorf("Company(key) error: %v", err)
	}
	if _, err := registry.Company("RELIANCE"); err == nil {
		t.Error("expected error for unknown company")
	}

	layout, ok := registry.Layout("standard")
	if !ok {
		t.Fatal("standard layout missing")
	}
	if layout.LabelColumn() != 2 {
		t.Errorf("LabelColumn() = %d", layout.LabelColumn())
	}
	if periods := layout.Periods(); len(periods) != 2 || periods[0] != "30.06.2025" {
		t.Errorf("Periods() = %v", periods)
	}
}

func TestLayoutFor(t *testing.T) {
	registry, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	company, _ := registry.Company("BRITANNIA")

	defaultLayout := registry.LayoutFor(company, company.FinancialData[0])
	if defaultLayout["30.06.2025"] != 3 {
		t.Errorf("default layout = %v", defaultLayout)
	}
	overridden := registry.LayoutFor(company, company.FinancialData[1])
	if overridden["30.06.2025"] != 4 {
		t.Errorf("override layout = %v", overridden)
	}
}

func TestValidationFailures(t *testing.T) {
	base := func() File {
		return File{
			Companies: map[string]CompanyConfig{
				"acme": {ColumnLayout: "standard", FinancialData: []FieldSpec{
					{Key: "revenue", RowIndex: 3, Labels: []string{"Revenue"}},
				}},
			},
			ColumnLayouts: map[string]ColumnLayout{
				"standard": {LabelColumnKey: 2, "30.06.2025": 3},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(f *File)
		wantErr string
	}{
		{
			name:    "no companies",
			mutate:  func(f *File) { f.Companies = nil },
			wantErr: "no companies",
		},
		{
			name:    "no layouts",
			mutate:  func(f *File) { f.ColumnLayouts = nil },
			wantErr: "no column_layouts",
		},
		{
			name: "company references unknown layout",
			mutate: func(f *File) {
				c := f.Companies["acme"]
				c.ColumnLayout = "missing"
				f.Companies["acme"] = c
			},
			wantErr: "unknown column_layout",
		},
		{
			name: "field references unknown layout",
			mutate: func(f *File) {
				c := f.Companies["acme"]
				c.FinancialData[0].ColumnLayout = "missing"
				f.Companies["acme"] = c
			},
			wantErr: "unknown column_layout",
		},
		{
			name: "field without tr_number or labels",
			mutate: func(f *File) {
				c := f.Companies["acme"]
				c.FinancialData = []FieldSpec{{Key: "revenue"}}
				f.Companies["acme"] = c
			},
			wantErr: "needs tr_number or labels",
		},
		{
			name: "duplicate field key",
			mutate: func(f *File) {
				c := f.Companies["acme"]
				c.FinancialData = append(c.FinancialData, FieldSpec{Key: "revenue", RowIndex: 5})
				f.Companies["acme"] = c
			},
			wantErr: "duplicate field key",
		},
		{
			name: "layout without label column",
			mutate: func(f *File) {
				f.ColumnLayouts["standard"] = ColumnLayout{"30.06.2025": 3}
			},
			wantErr: "missing reserved",
		},
		{
			name: "layout without periods",
			mutate: func(f *File) {
				f.ColumnLayouts["standard"] = ColumnLayout{LabelColumnKey: 2}
			},
			wantErr: "at least one period",
		},
		{
			name: "non-positive ordinal",
			mutate: func(f *File) {
				f.ColumnLayouts["standard"] = ColumnLayout{LabelColumnKey: 2, "30.06.2025": 0}
			},
			wantErr: "must be positive",
		},
		{
			name: "alias to unknown company",
			mutate: func(f *File) {
				f.CompanyAliases = map[string]string{"ACME": "ghost"}
			},
			wantErr: "unknown company key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := base()
			tt.mutate(&file)
			_, err := NewRegistry(file)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("{ not valid")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSupportedCompanies(t *testing.T) {
	registry, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	companies := registry.SupportedCompanies()
	if len(companies) != 1 || companies[0] != "BRITANNIA" {
		t.Errorf("SupportedCompanies() = %v", companies)
	}
}
