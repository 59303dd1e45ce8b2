package statement

import (
	"log"
	"regexp"
	"strings"
)

// =============================================================================
// TABLE SCORER - Rank candidate tables to find the main statement
// =============================================================================

// financialKeywords is the fixed vocabulary rewarded by the keyword rule.
var financialKeywords = []string{
	"revenue", "income", "expense", "profit", "loss", "tax",
	"total", "net", "eps", "earnings per share", "comprehensive",
	"depreciation", "amortisation", "finance cost",
}

var numericToken = regexp.MustCompile(`\d+[,.]?\d*`)

// ScoringRule is one named heuristic: it inspects a candidate and contributes
// a (possibly negative) score. Rules are independent and order-insensitive.
type ScoringRule struct {
	Name  string
	Score func(t *Table) int
}

// DefaultScoringRules returns the baseline scoring policy for financial
// statement tables.
func DefaultScoringRules() []ScoringRule {
	return []ScoringRule{
		{
			// Financial statements are detailed; reward completeness, capped.
			Name: "row_count",
			Score: func(t *Table) int {
				rows := t.RowCount()
				if rows > 50 {
					rows = 50
				}
				return rows * 2
			},
		},
		{
			Name: "financial_keywords",
			Score: func(t *Table) int {
				text := strings.ToLower(t.Text())
				score := 0
				for _, keyword := range financialKeywords {
					if strings.Contains(text, keyword) {
						score += 10
					}
				}
				return score
			},
		},
		{
			Name: "has_numbers",
			Score: func(t *Table) int {
				if numericToken.MatchString(t.Text()) {
					return 20
				}
				return 0
			},
		},
		{
			// Small tables are rarely the main statement.
			Name: "small_table_penalty",
			Score: func(t *Table) int {
				if t.RowCount() < 10 {
					return -30
				}
				return 0
			},
		},
	}
}

// TableScorer ranks candidate tables.
type TableScorer struct {
	rules []ScoringRule
}

// NewTableScorer creates a scorer with the default rule set.
func NewTableScorer() *TableScorer {
	return &TableScorer{rules: DefaultScoringRules()}
}

// NewTableScorerWithRules creates a scorer with a custom policy.
func NewTableScorerWithRules(rules []ScoringRule) *TableScorer {
	return &TableScorer{rules: rules}
}

// Score computes the total score for one candidate.
func (s *TableScorer) Score(t *Table) int {
	total := 0
	for _, rule := range s.rules {
		total += rule.Score(t)
	}
	return total
}

// SelectBest returns the index of the highest-scoring candidate. Ties go to
// the earliest index. A single candidate is returned without scoring, an
// empty list returns false, and nil candidates (failed loads) are skipped.
func (s *TableScorer) SelectBest(tables []*Table) (int, bool) {
	if len(tables) == 0 {
		return -1, false
	}
	if len(tables) == 1 {
		if tables[0] == nil {
			return -1, false
		}
		return 0, true
	}

	bestScore := -1 << 31
	bestIndex := -1
	for i, table := range tables {
		if table == nil {
			continue
		}
		score := s.Score(table)
		log.Printf("[TableScorer] Table %d score: %d (rows: %d)", i+1, score, table.RowCount())
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return -1, false
	}
	log.Printf("[TableScorer] Selected table %d with score %d", bestIndex+1, bestScore)
	return bestIndex, true
}
