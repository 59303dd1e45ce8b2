// Package render converts extraction records into the Excel and CSV outputs
// consumed by analysts. Records are treated strictly as value objects; all
// numeric interpretation happens here, on the way out.
package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"statement_extractor/pkg/core/statement"
)

// PeriodColumn maps a record period key onto a worksheet column with its
// display captions.
type PeriodColumn struct {
	Key     string
	Column  string
	Title   string
	Caption string
}

// DefaultPeriods is the standard reporting-period grid: latest quarter first,
// then trailing quarters and fiscal years. The _Y suffix marks annual
// (12-month) figures for a date that also appears as a quarter end.
func DefaultPeriods() []PeriodColumn {
	return []PeriodColumn{
		{Key: "30.06.2025", Column: "B", Title: "Unaudited Q1", Caption: "3M-30th Jun 2025"},
		{Key: "31.03.2025_Y", Column: "C", Title: "FY 2025", Caption: "12M"},
		{Key: "31.03.2025", Column: "D", Title: "Q4", Caption: "3M-31st Mar 2025"},
		{Key: "31.12.2024", Column: "E", Title: "Q3", Caption: "3M-31st Dec 2024"},
		{Key: "30.09.2024", Column: "F", Title: "Q2", Caption: "3M-30th Sept 2024"},
		{Key: "30.06.2024", Column: "G", Title: "Unaudited Q1 FY 2024", Caption: "3M-30th Jun 2024"},
		{Key: "31.03.2024_Y", Column: "H", Title: "FY 2024", Caption: "12M"},
		{Key: "31.03.2024", Column: "I", Title: "Q4 FY 2024", Caption: "3M-31st Mar 2024"},
		{Key: "31.12.2023", Column: "J", Title: "Q3 FY 2024", Caption: "3M-31st Dec 2023"},
		{Key: "30.09.2023", Column: "K", Title: "Q2 FY 2024", Caption: "3M-30th Sept 2023"},
		{Key: "30.06.2023", Column: "L", Title: "Q1 FY 2024", Caption: "3M-30th Jun 2023"},
	}
}

// keyAliases reconciles field-key naming drift between company configs.
var keyAliases = map[string]string{
	"sale_of_products": "sale_of_goods",
}

func normalizeKey(key string) string {
	if alias, ok := keyAliases[key]; ok {
		return alias
	}
	return key
}

// TotalRow is a derived row computed by summing other fields per period.
type TotalRow struct {
	Label string
	Keys  []string
}

// DefaultTotals returns the derived rows appended after the extracted items.
func DefaultTotals() []TotalRow {
	return []TotalRow{
		{Label: "Total Income", Keys: []string{"revenue_from_operations", "other_income"}},
		{Label: "Total Expenses", Keys: []string{
			"cost_of_materials", "purchases_stock_in_trade", "changes_in_inventories",
			"employee_benefits", "finance_costs", "depreciation_amortisation", "other_expenses",
		}},
	}
}

// Generator renders extraction records.
type Generator struct {
	periods []PeriodColumn
	totals  []TotalRow
}

// NewGenerator creates a generator with the default period grid and derived
// totals.
func NewGenerator() *Generator {
	return &Generator{periods: DefaultPeriods(), totals: DefaultTotals()}
}

// dataMap indexes raw values by normalized field key for total computation.
func (g *Generator) dataMap(rec *statement.Record) map[string]map[string]string {
	m := make(map[string]map[string]string, len(rec.FinancialData))
	for _, item := range rec.FinancialData {
		m[normalizeKey(item.Key)] = item.Values
	}
	return m
}

// value parses one (key, period) cell to a number; absent data is zero.
func (g *Generator) value(data map[string]map[string]string, key, period string) float64 {
	values, ok := data[normalizeKey(key)]
	if !ok {
		return 0
	}
	return statement.ParseNumeric(values[period])
}

const sheetName = "Financial Data"

// GenerateExcel writes a formatted workbook for one record.
func (g *Generator) GenerateExcel(rec *statement.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	// Rows 1-3: company title and the period header grid.
	f.SetCellValue(sheetName, "A1", rec.CompanyName)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	lastCol := "A"
	if len(g.periods) > 0 {
		lastCol = g.periods[len(g.periods)-1].Column
	}
	f.MergeCell(sheetName, "A1", lastCol+"1")

	f.SetCellValue(sheetName, "A2", "Particulars")
	for _, period := range g.periods {
		f.SetCellValue(sheetName, period.Column+"2", period.Title)
		f.SetCellValue(sheetName, period.Column+"3", period.Caption)
	}
	f.SetCellStyle(sheetName, "A2", lastCol+"3", headerStyle)

	f.SetColWidth(sheetName, "A", "A", 42)
	if len(g.periods) > 0 {
		f.SetColWidth(sheetName, g.periods[0].Column, lastCol, 16)
	}

	// Extracted line items, in record order.
	data := g.dataMap(rec)
	rowNum := 4
	for _, item := range rec.FinancialData {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), item.Particular)
		for _, period := range g.periods {
			value := statement.ParseNumeric(item.Values[period.Key])
			cell := fmt.Sprintf("%s%d", period.Column, rowNum)
			f.SetCellValue(sheetName, cell, statement.FormatNumeric(value, 2))
		}
		rowNum++
	}

	// Derived totals.
	for _, total := range g.totals {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), total.Label)
		for _, period := range g.periods {
			sum := 0.0
			for _, key := range total.Keys {
				sum += g.value(data, key, period.Key)
			}
			cell := fmt.Sprintf("%s%d", period.Column, rowNum)
			f.SetCellValue(sheetName, cell, statement.FormatNumeric(sum, 2))
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), totalStyle)
		rowNum++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: save %s: %w", path, err)
	}
	return nil
}
