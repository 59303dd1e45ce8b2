package statement

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

// =============================================================================
// PAGE CLASSIFIER - Locate the standalone results page among filing pages
// =============================================================================

// consolidatedMarker gates the generic heading rules: a page carrying it is
// assumed to be the consolidated variant and never matches generically.
const consolidatedMarker = "consolidated"

// Default heading rule sets. Explicit-standalone patterns win outright;
// generic patterns apply only to pages without the consolidated marker. The
// last generic entry matches a known OCR-corrupted heading (Cyrillic
// look-alike glyphs) seen in scanned filings.
var (
	defaultStandalonePatterns = []string{
		`standalone.*financial.*result.*30.*june.*2025`,
		`statement of.*standalone.*30.*june.*2025`,
	}

	defaultGenericPatterns = []string{
		`statement of unaudited.*financial.*result.*30.*june.*2025`,
		`unaudited.*financial.*result.*30.*june.*2025`,
		`financial.*result.*quarter.*30.*june.*2025`,
		`sfatement of unaudiтed.*financial.*re5ulтs.*for тне quarter ended.*]une.*30,.*2025`,
	}
)

// PageClassifier scans page texts for the target statement heading.
type PageClassifier struct {
	standalone []*regexp.Regexp
	generic    []*regexp.Regexp
}

// NewPageClassifier builds a classifier with the default heading rules.
func NewPageClassifier() *PageClassifier {
	classifier, err := NewPageClassifierWithPatterns(defaultStandalonePatterns, defaultGenericPatterns)
	if err != nil {
		// Default patterns are compile-checked by tests.
		panic(err)
	}
	return classifier
}

// NewPageClassifierWithPatterns builds a classifier from custom rule sets.
// Patterns are matched against lowercased page text.
func NewPageClassifierWithPatterns(standalone, generic []string) (*PageClassifier, error) {
	compile := func(patterns []string) ([]*regexp.Regexp, error) {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			// (?s) lets gaps span line breaks in extracted page text.
			re, err := regexp.Compile("(?s)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("heading pattern %q: %w", pattern, err)
			}
			compiled = append(compiled, re)
		}
		return compiled, nil
	}

	standaloneRes, err := compile(standalone)
	if err != nil {
		return nil, err
	}
	genericRes, err := compile(generic)
	if err != nil {
		return nil, err
	}
	return &PageClassifier{standalone: standaloneRes, generic: genericRes}, nil
}

// Classify returns the 0-based index of the first page matching the heading
// rules, in document order. The second return is false when no page matches;
// callers then fall back to processing the whole document. Empty or malformed
// page text simply never matches.
func (pc *PageClassifier) Classify(pages []string) (int, bool) {
	for index, page := range pages {
		text := strings.ToLower(page)

		for _, re := range pc.standalone {
			if re.MatchString(text) {
				log.Printf("[PageClassifier] Page %d: standalone financial results (explicit)", index+1)
				return index, true
			}
		}

		if strings.Contains(text, consolidatedMarker) {
			log.Printf("[PageClassifier] Page %d: skipping, contains %q", index+1, consolidatedMarker)
			continue
		}
		for _, re := range pc.generic {
			if re.MatchString(text) {
				log.Printf("[PageClassifier] Page %d: financial results (no consolidated marker, assuming standalone)", index+1)
				return index, true
			}
		}
	}
	return -1, false
}
