package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/utils"
)

// PostgresRepository provides database operations for clients, score rules and the ledger
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository initializes a new repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Stores exposes the repository through the store interfaces
func (r *PostgresRepository) Stores() Stores {
	return Stores{Clients: r, Rules: r, Ledger: r}
}

// FindByCPF retrieves a client by cpf
func (r *PostgresRepository) FindByCPF(ctx context.Context, cpf string) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT cpf, nome, data_nascimento, limite_atual, score
		FROM credit.clients
		WHERE cpf = $1`
	err := r.db.QueryRowContext(ctx, query, cpf).
		Scan(&client.CPF, &client.Name, &client.BirthDate, &client.CurrentLimit, &client.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", utils.MaskCPF(cpf), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find client: %v", models.ErrIO, err)
	}
	return client, nil
}

// UpdateScore sets the score of a single client
func (r *PostgresRepository) UpdateScore(ctx context.Context, cpf string, score int) error {
	query := `
		UPDATE credit.clients
		SET score = $2, updated_at = CURRENT_TIMESTAMP
		WHERE cpf = $1`
	res, err := r.db.ExecContext(ctx, query, cpf, score)
	if err != nil {
		return fmt.Errorf("%w: failed to update score: %v", models.ErrIO, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to update score: %v", models.ErrIO, err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", utils.MaskCPF(cpf), models.ErrNotFound)
	}
	return nil
}

// LoadRules returns the score rules ordered by their position
func (r *PostgresRepository) LoadRules(ctx context.Context) ([]models.ScoreRule, error) {
	query := `
		SELECT min_score, max_score, max_limite
		FROM credit.score_rules
		ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load score rules: %v", models.ErrIO, err)
	}
	defer rows.Close()

	var rules []models.ScoreRule
	for rows.Next() {
		var rule models.ScoreRule
		if err := rows.Scan(&rule.MinScore, &rule.MaxScore, &rule.MaxLimit); err != nil {
			return nil, fmt.Errorf("%w: failed to scan score rule: %v", models.ErrIO, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to load score rules: %v", models.ErrIO, err)
	}
	return rules, nil
}

// Record inserts a ledger entry
func (r *PostgresRepository) Record(ctx context.Context, req models.LimitRequest) error {
	query := `
		INSERT INTO credit.limit_requests
			(cpf_cliente, data_hora_solicitacao, limite_atual, novo_limite_solicitado, status_pedido)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, req.CPF, req.RequestedAt, req.CurrentLimit, req.RequestedLimit, string(req.Status))
	if err != nil {
		return fmt.Errorf("%w: failed to record limit request: %v", models.ErrIO, err)
	}
	return nil
}
