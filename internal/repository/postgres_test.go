package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_FindByCPF(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"cpf", "nome", "data_nascimento", "limite_atual", "score"}).
		AddRow("12345678901", "Ana Souza", "15/03/1985", 3000.0, 659)
	mock.ExpectQuery(`SELECT cpf, nome, data_nascimento, limite_atual, score\s+FROM credit.clients\s+WHERE cpf = \$1`).
		WithArgs("12345678901").
		WillReturnRows(rows)

	client, err := repo.FindByCPF(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.Equal(t, &models.Client{CPF: "12345678901", Name: "Ana Souza", BirthDate: "15/03/1985", CurrentLimit: 3000, Score: 659}, client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByCPFErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"no rows", sql.ErrNoRows, models.ErrNotFound},
		{"connection failure", errors.New("connection refused"), models.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupMockDB(t)
			mock.ExpectQuery(`FROM credit.clients`).WithArgs("1").WillReturnError(tt.err)

			_, err := repo.FindByCPF(context.Background(), "1")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_UpdateScore(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(`UPDATE credit.clients\s+SET score = \$2`).
		WithArgs("12345678901", 720).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateScore(context.Background(), "12345678901", 720))

	mock.ExpectExec(`UPDATE credit.clients`).
		WithArgs("000", 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateScore(context.Background(), "000", 10), models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LoadRules(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"min_score", "max_score", "max_limite"}).
		AddRow(0.0, 299.0, 500.0).
		AddRow(300.0, 1000.0, 5000.0)
	mock.ExpectQuery(`SELECT min_score, max_score, max_limite\s+FROM credit.score_rules\s+ORDER BY position, id`).
		WillReturnRows(rows)

	rules, err := repo.LoadRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ScoreRule{
		{MinScore: 0, MaxScore: 299, MaxLimit: 500},
		{MinScore: 300, MaxScore: 1000, MaxLimit: 5000},
	}, rules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Record(t *testing.T) {
	repo, mock := setupMockDB(t)
	at := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO credit.limit_requests`).
		WithArgs("12345678901", at, 3000.0, 6000.0, "rejeitado").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Record(context.Background(), models.LimitRequest{
		CPF: "12345678901", RequestedAt: at, CurrentLimit: 3000, RequestedLimit: 6000, Status: models.StatusRejected,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_RecordFailure(t *testing.T) {
	repo, mock := setupMockDB(t)
	mock.ExpectExec(`INSERT INTO credit.limit_requests`).WillReturnError(errors.New("disk full"))

	err := repo.Record(context.Background(), models.LimitRequest{CPF: "1", Status: models.StatusApproved})
	assert.ErrorIs(t, err, models.ErrIO)
}
