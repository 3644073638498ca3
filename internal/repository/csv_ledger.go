package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Dan9191/credit-service/internal/models"
)

// LedgerHeader is the column layout of the request ledger
var LedgerHeader = []string{
	"cpf_cliente",
	"data_hora_solicitacao",
	"limite_atual",
	"novo_limite_solicitado",
	"status_pedido",
}

// CSVLedger appends limit requests to a CSV file, writing the header on first use
type CSVLedger struct {
	path string
}

// NewCSVLedger initializes a ledger over path. The file is created on the first Record.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Record appends one entry
func (l *CSVLedger) Record(ctx context.Context, req models.LimitRequest) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create ledger directory: %v", models.ErrIO, err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to open ledger %s: %v", models.ErrIO, l.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: failed to stat ledger %s: %v", models.ErrIO, l.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(LedgerHeader); err != nil {
			return fmt.Errorf("%w: failed to write ledger header: %v", models.ErrIO, err)
		}
	}
	if err := w.Write(ledgerRow(req)); err != nil {
		return fmt.Errorf("%w: failed to write ledger entry: %v", models.ErrIO, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush ledger: %v", models.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to close ledger: %v", models.ErrIO, err)
	}
	return nil
}

func ledgerRow(req models.LimitRequest) []string {
	return []string{
		req.CPF,
		req.RequestedAt.Format(time.RFC3339Nano),
		ledgerAmount(req.CurrentLimit),
		ledgerAmount(req.RequestedLimit),
		string(req.Status),
	}
}

// ledgerAmount writes two decimals unless that would round the value
func ledgerAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if parsed, err := strconv.ParseFloat(s, 64); err == nil && parsed == v {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
