// Package config holds the static extraction configuration: per-company field
// specifications, named column layouts, and the immutable registry that serves
// them to the extraction engine.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
)

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// LabelColumnKey is the reserved column-layout entry that points at the
// row-label ("particulars") column instead of a reporting period.
const LabelColumnKey = "label"

// FieldSpec describes one financial line item to extract.
type FieldSpec struct {
	Key          string   `json:"key"`
	Labels       []string `json:"labels"`
	RowIndex     int      `json:"tr_number,omitempty"`     // 1-based direct row reference
	ColumnLayout string   `json:"column_layout,omitempty"` // per-field layout override
}

// ColumnLayout maps period keys (e.g. "30.06.2025") to 1-based column
// ordinals. The reserved LabelColumnKey entry locates the label column.
type ColumnLayout map[string]int

// LabelColumn returns the 1-based ordinal of the label column.
func (l ColumnLayout) LabelColumn() int {
	return l[LabelColumnKey]
}

// Periods returns the layout's period keys in a stable (sorted) order.
func (l ColumnLayout) Periods() []string {
	periods := make([]string, 0, len(l))
	for key := range l {
		if key == LabelColumnKey {
			continue
		}
		periods = append(periods, key)
	}
	sort.Strings(periods)
	return periods
}

// CompanyConfig is the per-company extraction recipe.
type CompanyConfig struct {
	ColumnLayout  string      `json:"column_layout"` // default layout name
	FinancialData []FieldSpec `json:"financial_data"`
}

// File is the on-disk configuration schema (HJSON).
type File struct {
	Companies      map[string]CompanyConfig `json:"companies"`
	ColumnLayouts  map[string]ColumnLayout  `json:"column_layouts"`
	CompanyAliases map[string]string        `json:"company_aliases,omitempty"` // display name -> company key
}

// =============================================================================
// REGISTRY - Immutable company/layout lookup, built once at startup
// =============================================================================

// Registry is the validated, read-only view of the configuration. It is safe
// to share across concurrent requests.
type Registry struct {
	companies map[string]CompanyConfig
	layouts   map[string]ColumnLayout
	aliases   map[string]string
}

// Load reads and validates an HJSON configuration file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Registry from raw HJSON bytes.
func Parse(data []byte) (*Registry, error) {
	var file File
	if err := hjson.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return NewRegistry(file)
}

// NewRegistry validates the configuration and freezes it into a Registry.
// Schema violations fail here, at load time, never during request handling.
func NewRegistry(file File) (*Registry, error) {
	if len(file.Companies) == 0 {
		return nil, fmt.Errorf("config: no companies defined")
	}
	if len(file.ColumnLayouts) == 0 {
		return nil, fmt.Errorf("config: no column_layouts defined")
	}

	for name, layout := range file.ColumnLayouts {
		if err := validateLayout(name, layout); err != nil {
			return nil, err
		}
	}

	for key, company := range file.Companies {
		if company.ColumnLayout == "" {
			return nil, fmt.Errorf("config: company %q: missing column_layout", key)
		}
		if _, ok := file.ColumnLayouts[company.ColumnLayout]; !ok {
			return nil, fmt.Errorf("config: company %q: unknown column_layout %q", key, company.ColumnLayout)
		}
		seen := make(map[string]bool, len(company.FinancialData))
		for _, field := range company.FinancialData {
			if field.Key == "" {
				return nil, fmt.Errorf("config: company %q: field with empty key", key)
			}
			if seen[field.Key] {
				return nil, fmt.Errorf("config: company %q: duplicate field key %q", key, field.Key)
			}
			seen[field.Key] = true
			if field.RowIndex < 0 {
				return nil, fmt.Errorf("config: company %q: field %q: negative tr_number", key, field.Key)
			}
			if field.RowIndex == 0 && len(field.Labels) == 0 {
				return nil, fmt.Errorf("config: company %q: field %q: needs tr_number or labels", key, field.Key)
			}
			if field.ColumnLayout != "" {
				if _, ok := file.ColumnLayouts[field.ColumnLayout]; !ok {
					return nil, fmt.Errorf("config: company %q: field %q: unknown column_layout %q",
						key, field.Key, field.ColumnLayout)
				}
			}
		}
	}

	aliases := make(map[string]string, len(file.CompanyAliases))
	for display, key := range file.CompanyAliases {
		if _, ok := file.Companies[key]; !ok {
			return nil, fmt.Errorf("config: alias %q: unknown company key %q", display, key)
		}
		aliases[strings.ToUpper(display)] = key
	}

	return &Registry{
		companies: file.Companies,
		layouts:   file.ColumnLayouts,
		aliases:   aliases,
	}, nil
}

func validateLayout(name string, layout ColumnLayout) error {
	labelCol, ok := layout[LabelColumnKey]
	if !ok {
		return fmt.Errorf("config: layout %q: missing reserved %q column", name, LabelColumnKey)
	}
	if len(layout) < 2 {
		return fmt.Errorf("config: layout %q: needs at least one period column", name)
	}
	if labelCol < 1 {
		return fmt.Errorf("config: layout %q: label column ordinal must be positive", name)
	}
	for period, col := range layout {
		if col < 1 {
			return fmt.Errorf("config: layout %q: column ordinal for %q must be positive", name, period)
		}
	}
	return nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Company resolves a company by display name (via aliases) or by config key.
func (r *Registry) Company(name string) (CompanyConfig, error) {
	if key, ok := r.aliases[strings.ToUpper(name)]; ok {
		return r.companies[key], nil
	}
	if company, ok := r.companies[strings.ToLower(name)]; ok {
		return company, nil
	}
	return CompanyConfig{}, fmt.Errorf("unknown company: %q", name)
}

// Layout returns a named column layout.
func (r *Registry) Layout(name string) (ColumnLayout, bool) {
	layout, ok := r.layouts[name]
	return layout, ok
}

// LayoutFor returns the active layout for a field: the field's override when
// set, otherwise the company default. Both were validated at load time.
func (r *Registry) LayoutFor(company CompanyConfig, field FieldSpec) ColumnLayout {
	if field.ColumnLayout != "" {
		return r.layouts[field.ColumnLayout]
	}
	return r.layouts[company.ColumnLayout]
}

// SupportedCompanies returns the configured display names, sorted.
func (r *Registry) SupportedCompanies() []string {
	byKey := make(map[string]string, len(r.aliases))
	for display, key := range r.aliases {
		byKey[key] = display
	}
	names := make([]string, 0, len(r.companies))
	for key := range r.companies {
		if display, ok := byKey[key]; ok {
			names = append(names, display)
		} else {
			names = append(names, strings.ToUpper(key))
		}
	}
	sort.Strings(names)
	return names
}
