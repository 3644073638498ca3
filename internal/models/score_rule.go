package models

// ScoreRule maps an inclusive score range to the maximum approvable limit
type ScoreRule struct {
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`
	MaxLimit float64 `json:"max_limite"`
}

// Matches reports whether score falls inside the rule range, bounds included
func (r ScoreRule) Matches(score float64) bool {
	return r.MinScore <= score && score <= r.MaxScore
}
