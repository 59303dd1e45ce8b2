package statement

import "testing"

const (
	standalonePage   = "Statement of Standalone Unaudited Financial Results for the quarter ended 30 June 2025"
	consolidatedPage = "Statement of Unaudited Consolidated Financial Results for the quarter ended 30 June 2025"
	genericPage      = "Statement of Unaudited Financial Results for the quarter ended 30 June 2025"
	coverPage        = "Board meeting outcome and press release"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		pages     []string
		wantIndex int
		wantFound bool
	}{
		{
			name:      "explicit standalone page",
			pages:     []string{coverPage, standalonePage},
			wantIndex: 1,
			wantFound: true,
		},
		{
			name:      "standalone wins over earlier consolidated",
			pages:     []string{consolidatedPage, standalonePage},
			wantIndex: 1,
			wantFound: true,
		},
		{
			name:      "generic heading accepted without consolidated marker",
			pages:     []string{coverPage, genericPage},
			wantIndex: 1,
			wantFound: true,
		},
		{
			name:      "generic heading rejected when page mentions consolidated",
			pages:     []string{consolidatedPage},
			wantIndex: -1,
			wantFound: false,
		},
		{
			name:      "no matching heading anywhere",
			pages:     []string{coverPage, "Notes to the accounts", ""},
			wantIndex: -1,
			wantFound: false,
		},
		{
			name:      "empty page list",
			pages:     nil,
			wantIndex: -1,
			wantFound: false,
		},
		{
			name: "line noise between heading words",
			pages: []string{
				"STANDALONE   unaudited\nfinancial\n results for the period ended 30th June 2025",
			},
			wantIndex: 0,
			wantFound: true,
		},
		{
			name: "explicit standalone even on page mentioning consolidated",
			pages: []string{
				standalonePage + " (refer consolidated results on page 7)",
			},
			wantIndex: 0,
			wantFound: true,
		},
		{
			name:      "first matching page wins in document order",
			pages:     []string{standalonePage, standalonePage},
			wantIndex: 0,
			wantFound: true,
		},
	}

	classifier := NewPageClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, found := classifier.Classify(tt.pages)
			if found != tt.wantFound {
				t.Fatalf("Classify() found = %v, want %v", found, tt.wantFound)
			}
			if found && index != tt.wantIndex {
				t.Errorf("Classify() index = %d, want %d", index, tt.wantIndex)
			}
		})
	}
}

func TestClassifyGarbledOCRHeading(t *testing.T) {
	// A known OCR corruption substitutes Cyrillic look-alikes and digits.
	page := "sfatement of unaudiтed financial re5ulтs for тне quarter ended ]une 30, 2025"
	index, found := NewPageClassifier().Classify([]string{page})
	if !found || index != 0 {
		t.Errorf("Classify() = (%d, %v), want (0, true)", index, found)
	}
}

func TestNewPageClassifierWithPatterns(t *testing.T) {
	if _, err := NewPageClassifierWithPatterns([]string{`valid.*pattern`}, nil); err != nil {
		t.Errorf("valid pattern rejected: %v", err)
	}
	if _, err := NewPageClassifierWithPatterns([]string{`broken[`}, nil); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if _, err := NewPageClassifierWithPatterns(nil, []string{`broken[`}); err == nil {
		t.Error("expected error for invalid generic pattern")
	}
}
