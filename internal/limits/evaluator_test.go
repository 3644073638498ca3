package limits

import (
	"testing"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRules() []models.ScoreRule {
	return []models.ScoreRule{
		{MinScore: 0, MaxScore: 299, MaxLimit: 500},
		{MinScore: 300, MaxScore: 599, MaxLimit: 2000},
		{MinScore: 600, MaxScore: 700, MaxLimit: 5000},
		{MinScore: 701, MaxScore: 1000, MaxLimit: 15000},
	}
}

func TestEvaluator_CeilingFor(t *testing.T) {
	e := NewEvaluator(defaultRules())

	assert.Equal(t, 500.0, e.CeilingFor(0))
	assert.Equal(t, 2000.0, e.CeilingFor(300))
	assert.Equal(t, 5000.0, e.CeilingFor(659))
	assert.Equal(t, 5000.0, e.CeilingFor(700))
	assert.Equal(t, 15000.0, e.CeilingFor(1000))
}

func TestEvaluator_NoMatchDeniesByDefault(t *testing.T) {
	e := NewEvaluator([]models.ScoreRule{{MinScore: 600, MaxScore: 700, MaxLimit: 5000}})

	assert.Equal(t, 0.0, e.CeilingFor(100))
	d := e.Evaluate(100, 1)
	assert.Equal(t, models.StatusRejected, d.Status)
	assert.True(t, d.OfferInterview)

	empty := NewEvaluator(nil)
	assert.Equal(t, 0.0, empty.CeilingFor(500))
}

func TestEvaluator_FirstMatchWins(t *testing.T) {
	e := NewEvaluator([]models.ScoreRule{
		{MinScore: 500, MaxScore: 800, MaxLimit: 3000},
		{MinScore: 600, MaxScore: 700, MaxLimit: 9000},
	})
	assert.Equal(t, 3000.0, e.CeilingFor(650))
}

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator(defaultRules())

	tests := []struct {
		name      string
		requested float64
		status    models.RequestStatus
	}{
		{"below ceiling", 4000, models.StatusApproved},
		{"at ceiling is inclusive", 5000, models.StatusApproved},
		{"above ceiling", 6000, models.StatusRejected},
		{"just above ceiling", 5000.01, models.StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(659, tt.requested)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, 5000.0, d.Ceiling)
			assert.Equal(t, tt.status == models.StatusRejected, d.OfferInterview)
		})
	}
}

func TestEvaluator_CopiesRules(t *testing.T) {
	rules := defaultRules()
	e := NewEvaluator(rules)
	rules[2].MaxLimit = 1

	assert.Equal(t, 5000.0, e.CeilingFor(659))
	got := e.Rules()
	got[0].MaxLimit = 0
	assert.Equal(t, 500.0, e.CeilingFor(10))
}

func TestValidate_CleanTable(t *testing.T) {
	assert.Empty(t, Validate(defaultRules()))
}

func TestValidate_ReportsProblems(t *testing.T) {
	issues := Validate([]models.ScoreRule{
		{MinScore: 0, MaxScore: 300, MaxLimit: 500},
		{MinScore: 300, MaxScore: 599, MaxLimit: 2000},
		{MinScore: 650, MaxScore: 900, MaxLimit: -1},
		{MinScore: 900, MaxScore: 800, MaxLimit: 100},
	})

	kinds := map[IssueKind]int{}
	for _, is := range issues {
		kinds[is.Kind]++
	}
	require.Equal(t, 1, kinds[IssueOverlap])
	assert.Equal(t, 2, kinds[IssueGap], JoinIssues(issues))
	assert.Equal(t, 1, kinds[IssueNegative])
	assert.Equal(t, 1, kinds[IssueInverted])

	for _, is := range issues {
		if is.Kind == IssueOverlap {
			assert.Equal(t, []int{0, 1}, is.Rows)
		}
	}
}
