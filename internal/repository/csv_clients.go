package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/utils"
)

const (
	colCPF          = "cpf"
	colName         = "nome"
	colBirthDate    = "data_nascimento"
	colCurrentLimit = "limite_atual"
	colScore        = "score"
)

// CSVClientStore keeps client records in a CSV file. It assumes a single writer process.
type CSVClientStore struct {
	path string
}

// NewCSVClientStore initializes a client store over path
func NewCSVClientStore(path string) *CSVClientStore {
	return &CSVClientStore{path: path}
}

// FindByCPF scans the file for an exact cpf match
func (s *CSVClientStore) FindByCPF(ctx context.Context, cpf string) (*models.Client, error) {
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	if err := t.require(s.path, colCPF, colName, colBirthDate, colCurrentLimit); err != nil {
		return nil, err
	}

	cpfCol, _ := t.column(colCPF)
	for _, row := range t.rows {
		if t.cell(row, cpfCol) == cpf {
			return s.toClient(t, row)
		}
	}
	return nil, fmt.Errorf("client %s: %w", utils.MaskCPF(cpf), models.ErrNotFound)
}

func (s *CSVClientStore) toClient(t *table, row []string) (*models.Client, error) {
	cpfCol, _ := t.column(colCPF)
	nameCol, _ := t.column(colName)
	dobCol, _ := t.column(colBirthDate)
	limitCol, _ := t.column(colCurrentLimit)

	client := &models.Client{
		CPF:       t.cell(row, cpfCol),
		Name:      t.cell(row, nameCol),
		BirthDate: t.cell(row, dobCol),
	}

	if raw := t.cell(row, limitCol); raw != "" {
		limit, err := utils.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed limite_atual for client %s: %v", models.ErrIO, utils.MaskCPF(client.CPF), err)
		}
		client.CurrentLimit = limit
	}

	if scoreCol, ok := t.column(colScore); ok {
		if raw := t.cell(row, scoreCol); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed score for client %s: %v", models.ErrIO, utils.MaskCPF(client.CPF), err)
			}
			client.Score = int(math.Trunc(score))
		}
	}
	return client, nil
}

// UpdateScore rewrites the file with only the score cell of the matching row changed.
// A missing score column is appended to the header. Nothing is written when the cpf is unknown.
func (s *CSVClientStore) UpdateScore(ctx context.Context, cpf string, score int) error {
	t, err := readTable(s.path)
	if err != nil {
		return err
	}
	if err := t.require(s.path, colCPF); err != nil {
		return err
	}

	scoreCol, ok := t.column(colScore)
	if !ok {
		t.header = append(t.header, colScore)
		scoreCol = len(t.header) - 1
	}

	cpfCol, _ := t.column(colCPF)
	updated := false
	for i, row := range t.rows {
		if t.cell(row, cpfCol) != cpf {
			continue
		}
		for len(row) <= scoreCol {
			row = append(row, "")
		}
		row[scoreCol] = strconv.Itoa(score)
		t.rows[i] = row
		updated = true
	}
	if !updated {
		return fmt.Errorf("client %s: %w", utils.MaskCPF(cpf), models.ErrNotFound)
	}

	if !ok {
		for i, row := range t.rows {
			for len(row) < len(t.header) {
				row = append(row, "")
			}
			t.rows[i] = row
		}
	}

	return replaceFile(s.path, t.write)
}
