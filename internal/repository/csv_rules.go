package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Dan9191/credit-service/internal/models"
)

// CSVRuleStore reads the score rule table from a CSV file
type CSVRuleStore struct {
	path string
}

// NewCSVRuleStore initializes a rule store over path
func NewCSVRuleStore(path string) *CSVRuleStore {
	return &CSVRuleStore{path: path}
}

// LoadRules returns the rules in file order
func (s *CSVRuleStore) LoadRules(ctx context.Context) ([]models.ScoreRule, error) {
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	if err := t.require(s.path, "min_score", "max_score", "max_limite"); err != nil {
		return nil, err
	}

	minCol, _ := t.column("min_score")
	maxCol, _ := t.column("max_score")
	limitCol, _ := t.column("max_limite")

	rules := make([]models.ScoreRule, 0, len(t.rows))
	for i, row := range t.rows {
		var (
			rule models.ScoreRule
			err  error
		)
		if rule.MinScore, err = strconv.ParseFloat(t.cell(row, minCol), 64); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: invalid min_score: %v", models.ErrIO, s.path, i+2, err)
		}
		if rule.MaxScore, err = strconv.ParseFloat(t.cell(row, maxCol), 64); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: invalid max_score: %v", models.ErrIO, s.path, i+2, err)
		}
		if rule.MaxLimit, err = strconv.ParseFloat(t.cell(row, limitCol), 64); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: invalid max_limite: %v", models.ErrIO, s.path, i+2, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
