// Package limits decides limit-increase requests against the score rule table.
//
// Rules are scanned in the order they were loaded and the first rule whose
// inclusive range contains the score wins. A score no rule covers gets a zero
// ceiling, so every request above zero is rejected.
package limits

import (
	"github.com/Dan9191/credit-service/internal/models"
)

// Evaluator holds an immutable snapshot of the rule table
type Evaluator struct {
	rules []models.ScoreRule
}

// NewEvaluator copies rules so later changes to the slice do not leak in
func NewEvaluator(rules []models.ScoreRule) *Evaluator {
	cp := make([]models.ScoreRule, len(rules))
	copy(cp, rules)
	return &Evaluator{rules: cp}
}

// Rules returns a copy of the loaded rule table
func (e *Evaluator) Rules() []models.ScoreRule {
	cp := make([]models.ScoreRule, len(e.rules))
	copy(cp, e.rules)
	return cp
}

// CeilingFor returns the max limit of the first matching rule, or 0
func (e *Evaluator) CeilingFor(score int) float64 {
	s := float64(score)
	for _, r := range e.rules {
		if r.Matches(s) {
			return r.MaxLimit
		}
	}
	return 0
}

// Evaluate approves when requested does not exceed the ceiling
func (e *Evaluator) Evaluate(score int, requested float64) models.Decision {
	ceiling := e.CeilingFor(score)
	if requested <= ceiling {
		return models.Decision{Status: models.StatusApproved, Score: score, Ceiling: ceiling}
	}
	return models.Decision{Status: models.StatusRejected, Score: score, Ceiling: ceiling, OfferInterview: true}
}
