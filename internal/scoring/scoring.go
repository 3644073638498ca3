// Package scoring computes the credit score from interview answers.
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
)

const incomeWeight = 30

var jobWeights = map[models.JobType]float64{
	models.JobFormal:     300,
	models.JobAutonomous: 200,
	models.JobUnemployed: 0,
}

var dependentsWeights = map[models.Dependents]float64{
	models.DependentsNone:        100,
	models.DependentsOne:         80,
	models.DependentsTwo:         60,
	models.DependentsThreeOrMore: 30,
}

// Score maps interview answers to a score in [0,1000].
//
// The +1 on expenses keeps the ratio defined when expenses are zero.
func Score(in models.InterviewInput) int {
	incomeFactor := (in.Income / (in.Expenses + 1)) * incomeWeight
	debtFactor := 100.0
	if in.HasDebts {
		debtFactor = -100
	}

	raw := incomeFactor + jobWeights[in.JobType] + dependentsWeights[models.NormalizeDependents(int(in.Dependents))] + debtFactor

	// Clamp before converting so huge ratios cannot overflow int.
	truncated := math.Trunc(raw)
	switch {
	case math.IsNaN(truncated) || truncated < models.MinScore:
		return models.MinScore
	case truncated > models.MaxScore:
		return models.MaxScore
	}
	return int(truncated)
}

// Validate rejects answers the formula cannot take
func Validate(in models.InterviewInput) error {
	if err := checkAmount("income", in.Income); err != nil {
		return err
	}
	if err := checkAmount("expenses", in.Expenses); err != nil {
		return err
	}
	if _, ok := jobWeights[in.JobType]; !ok {
		return fmt.Errorf("%w: unknown job type %q", models.ErrValidation, in.JobType)
	}
	return nil
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite non-negative number", models.ErrValidation, field)
	}
	return nil
}

// ParseJobType accepts the menu option (1, 2, 3) or the category name.
// Anything else is treated as unemployed.
func ParseJobType(raw string) models.JobType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "formal":
		return models.JobFormal
	case "2", "autonomous", "autônomo", "autonomo":
		return models.JobAutonomous
	default:
		return models.JobUnemployed
	}
}

// ParseDependents accepts 0, 1, 2 or any count of three or more. Unparseable text
// counts as "3+", the lowest-weighted answer.
func ParseDependents(raw string) models.Dependents {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return models.DependentsThreeOrMore
	}
	return models.NormalizeDependents(n)
}

// ParseYesNo reads "s"/"sim"/"y"/"yes" as true, anything else as false
func ParseYesNo(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(s, "s") || strings.HasPrefix(s, "y")
}
