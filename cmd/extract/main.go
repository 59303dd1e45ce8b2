// Command extract runs the statement extraction pipeline for one document:
// it reads the page texts and table exports produced by the upstream
// OCR/table collaborator, resolves the configured line items for a company,
// and writes JSON, Excel and CSV outputs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"statement_extractor/pkg/config"
	"statement_extractor/pkg/core/pipeline"
	"statement_extractor/pkg/core/statement"
	"statement_extractor/pkg/render"
)

// JobConfig is the per-run job description, loaded from YAML.
type JobConfig struct {
	Company          string `yaml:"company"`
	ConfigPath       string `yaml:"config"`
	PagesFile        string `yaml:"pages_file"` // page texts separated by form feeds
	TablesDir        string `yaml:"tables_dir"` // *.html / *.md table exports
	OutputDir        string `yaml:"output_dir"`
	UseFuzzyMatching bool   `yaml:"use_fuzzy_matching"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	jobPath := flag.String("job", "", "path to job YAML")
	company := flag.String("company", "", "company display name (overrides job)")
	configPath := flag.String("config", "", "path to companies config (overrides job)")
	outputDir := flag.String("out", "", "output directory (overrides job)")
	flag.Parse()

	job := JobConfig{
		ConfigPath:       envDefault("STATEMENT_CONFIG", "config/companies.hjson"),
		OutputDir:        "output",
		UseFuzzyMatching: true,
	}
	if *jobPath != "" {
		data, err := os.ReadFile(*jobPath)
		if err != nil {
			log.Fatalf("read job %s: %v", *jobPath, err)
		}
		if err := yaml.Unmarshal(data, &job); err != nil {
			log.Fatalf("parse job %s: %v", *jobPath, err)
		}
	}
	if *company != "" {
		job.Company = *company
	}
	if *configPath != "" {
		job.ConfigPath = *configPath
	}
	if *outputDir != "" {
		job.OutputDir = *outputDir
	}

	registry, err := config.Load(job.ConfigPath)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	if job.Company == "" {
		log.Fatalf("no company given; supported: %s", strings.Join(registry.SupportedCompanies(), ", "))
	}

	pages := loadPages(job.PagesFile)
	tables := loadTables(job.TablesDir)

	orchestrator := pipeline.New(registry, pipeline.Options{UseFuzzyMatching: job.UseFuzzyMatching})
	result, err := orchestrator.Process(pipeline.Request{
		CompanyName: job.Company,
		Pages:       pages,
		Tables:      tables,
	})
	if err != nil {
		log.Fatalf("extraction failed: %v", err)
	}
	log.Printf("[Extract] %s", result.Message)

	if err := writeOutputs(&job, result); err != nil {
		log.Fatalf("write outputs: %v", err)
	}
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// loadPages reads the collaborator's page-text dump, one page per form feed.
func loadPages(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Extract] No pages file (%v), skipping page classification", err)
		return nil
	}
	return strings.Split(string(data), "\f")
}

// loadTables reads every table export in the directory, in filename order.
// A file that fails to parse becomes a nil candidate and is skipped by the
// scorer instead of aborting the run.
func loadTables(dir string) []*statement.Table {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[Extract] Read tables dir %s: %v", dir, err)
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".html", ".htm", ".md":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	tables := make([]*statement.Table, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[Extract] Read %s: %v", path, err)
			tables = append(tables, nil)
			continue
		}
		var table *statement.Table
		if filepath.Ext(name) == ".md" {
			table, err = statement.ParseMarkdownTable(string(data), name)
		} else {
			table, err = statement.ParseHTMLTable(string(data), name)
		}
		if err != nil {
			log.Printf("[Extract] Parse %s: %v", path, err)
			tables = append(tables, nil)
			continue
		}
		tables = append(tables, table)
	}
	return tables
}

// writeOutputs persists the result envelope as JSON plus the rendered Excel
// and CSV files, stamped with the request id.
func writeOutputs(job *JobConfig, result *pipeline.Result) error {
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return err
	}
	stem := fmt.Sprintf("%s-%s", strings.ToLower(job.Company), result.RequestID[:8])

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(job.OutputDir, stem+"-financial-data.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return err
	}
	log.Printf("[Extract] Wrote %s", jsonPath)

	if result.Record == nil {
		return nil
	}
	generator := render.NewGenerator()

	excelPath := filepath.Join(job.OutputDir, stem+".xlsx")
	if err := generator.GenerateExcel(result.Record, excelPath); err != nil {
		return err
	}
	log.Printf("[Extract] Wrote %s", excelPath)

	csvPath := filepath.Join(job.OutputDir, stem+".csv")
	if err := generator.GenerateCSV(result.Record, csvPath); err != nil {
		return err
	}
	log.Printf("[Extract] Wrote %s", csvPath)
	return nil
}
