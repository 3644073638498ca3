package repository

import (
	"context"

	"github.com/Dan9191/credit-service/internal/models"
)

// ClientStore provides keyed access to client records
type ClientStore interface {
	// FindByCPF returns the record whose cpf matches exactly, or models.ErrNotFound.
	FindByCPF(ctx context.Context, cpf string) (*models.Client, error)

	// UpdateScore changes the score of one client and nothing else.
	UpdateScore(ctx context.Context, cpf string, score int) error
}

// RuleStore loads the score rule table in its defined order
type RuleStore interface {
	LoadRules(ctx context.Context) ([]models.ScoreRule, error)
}

// Ledger appends limit-increase decisions. There is no read side.
type Ledger interface {
	Record(ctx context.Context, req models.LimitRequest) error
}

// Stores groups the backing stores used by the service
type Stores struct {
	Clients ClientStore
	Rules   RuleStore
	Ledger  Ledger
}
