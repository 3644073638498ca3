package models

import "strconv"

// JobType is the employment category answered during the credit interview
type JobType string

const (
	JobFormal     JobType = "formal"
	JobAutonomous JobType = "autonomous"
	JobUnemployed JobType = "unemployed"
)

// Dependents holds the normalized dependents answer. DependentsThreeOrMore stands for "3+".
type Dependents int

const (
	DependentsNone        Dependents = 0
	DependentsOne         Dependents = 1
	DependentsTwo         Dependents = 2
	DependentsThreeOrMore Dependents = 3
)

// NormalizeDependents folds any count of three or more into DependentsThreeOrMore
func NormalizeDependents(n int) Dependents {
	if n >= int(DependentsThreeOrMore) || n < 0 {
		return DependentsThreeOrMore
	}
	return Dependents(n)
}

func (d Dependents) String() string {
	if d >= DependentsThreeOrMore {
		return "3+"
	}
	return strconv.Itoa(int(d))
}

// InterviewInput carries the answers of one credit interview
type InterviewInput struct {
	Income     float64    `json:"income"`
	JobType    JobType    `json:"job_type"`
	Expenses   float64    `json:"expenses"`
	Dependents Dependents `json:"dependents"`
	HasDebts   bool       `json:"has_debts"`
}
