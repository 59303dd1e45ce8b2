package render

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"statement_extractor/pkg/core/statement"
)

// CSVRow is one (line item, period) cell in long form. Raw values pass
// through untouched so the CSV round-trips what the statement printed.
type CSVRow struct {
	Particular string `csv:"particular"`
	Key        string `csv:"key"`
	Period     string `csv:"period"`
	Value      string `csv:"value"`
}

// CSVRows flattens a record into long-form rows, ordered by record position
// then by the generator's period grid.
func (g *Generator) CSVRows(rec *statement.Record) []CSVRow {
	rows := make([]CSVRow, 0, len(rec.FinancialData)*len(g.periods))
	for _, item := range rec.FinancialData {
		for _, period := range g.periods {
			value, ok := item.Values[period.Key]
			if !ok {
				continue
			}
			rows = append(rows, CSVRow{
				Particular: item.Particular,
				Key:        item.Key,
				Period:     period.Key,
				Value:      value,
			})
		}
	}
	return rows
}

// GenerateCSV writes the record as a long-form CSV file.
func (g *Generator) GenerateCSV(rec *statement.Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create %s: %w", path, err)
	}
	defer file.Close()

	rows := g.CSVRows(rec)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("csv: write %s: %w", path, err)
	}
	return nil
}
