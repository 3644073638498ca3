package limits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
)

// IssueKind classifies a rule table data-quality problem
type IssueKind string

const (
	IssueInverted IssueKind = "inverted_range"
	IssueNegative IssueKind = "negative_ceiling"
	IssueOverlap  IssueKind = "overlap"
	IssueGap      IssueKind = "gap"
)

// Issue describes one problem found in the rule table. Rows are zero-based load positions.
type Issue struct {
	Kind    IssueKind
	Rows    []int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// Validate checks that rules partition [0,1000]. Scores are integers, so two ranges
// that leave no integer uncovered between them are contiguous.
func Validate(rules []models.ScoreRule) []Issue {
	var issues []Issue

	type indexed struct {
		row int
		models.ScoreRule
	}
	valid := make([]indexed, 0, len(rules))
	for i, r := range rules {
		if r.MinScore > r.MaxScore {
			issues = append(issues, Issue{
				Kind:    IssueInverted,
				Rows:    []int{i},
				Message: fmt.Sprintf("row %d: min_score %.2f > max_score %.2f", i, r.MinScore, r.MaxScore),
			})
			continue
		}
		if r.MaxLimit < 0 {
			issues = append(issues, Issue{
				Kind:    IssueNegative,
				Rows:    []int{i},
				Message: fmt.Sprintf("row %d: max_limite %.2f is negative", i, r.MaxLimit),
			})
		}
		valid = append(valid, indexed{row: i, ScoreRule: r})
	}

	sort.SliceStable(valid, func(a, b int) bool { return valid[a].MinScore < valid[b].MinScore })

	next := float64(models.MinScore)
	covered := float64(models.MinScore) - 1
	coverRow := -1
	for _, r := range valid {
		if coverRow >= 0 && r.MinScore <= covered {
			issues = append(issues, Issue{
				Kind:    IssueOverlap,
				Rows:    []int{coverRow, r.row},
				Message: fmt.Sprintf("rows %d and %d overlap; row %d wins for shared scores", coverRow, r.row, min(coverRow, r.row)),
			})
		}
		if r.MinScore > next {
			issues = append(issues, Issue{
				Kind:    IssueGap,
				Rows:    []int{r.row},
				Message: fmt.Sprintf("scores %.0f..%.0f are not covered", next, r.MinScore-1),
			})
		}
		if r.MaxScore > covered {
			covered = r.MaxScore
			coverRow = r.row
			next = r.MaxScore + 1
		}
	}
	if next <= models.MaxScore {
		issues = append(issues, Issue{
			Kind:    IssueGap,
			Message: fmt.Sprintf("scores %.0f..%d are not covered", next, models.MaxScore),
		})
	}
	return issues
}

// JoinIssues renders issues for a single log line or error
func JoinIssues(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = is.String()
	}
	return strings.Join(parts, "; ")
}
