package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Dan9191/credit-service/internal/metrics"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// ConsultLimit returns the session client's record with its current limit and score
func (s *Service) ConsultLimit(ctx context.Context, sess *models.Session) (*models.Client, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.GetClient(ctx, sess.CPF)
}

// LogLimitRequest appends one ledger entry stamped with the current time
func (s *Service) LogLimitRequest(ctx context.Context, cpf string, current, requested float64, status models.RequestStatus) error {
	return s.record(ctx, models.LimitRequest{
		CPF:            cpf,
		RequestedAt:    s.now(),
		CurrentLimit:   current,
		RequestedLimit: requested,
		Status:         status,
	})
}

func (s *Service) record(ctx context.Context, req models.LimitRequest) error {
	if err := s.ledger.Record(ctx, req); err != nil {
		metrics.LedgerFailures.Inc()
		return fmt.Errorf("failed to log limit request: %w", err)
	}
	return nil
}

// RequestLimitIncrease evaluates requested against the client's current score and
// records exactly one ledger entry with the client's current limit as the snapshot.
// Approved limits are not applied to the client record.
func (s *Service) RequestLimitIncrease(ctx context.Context, sess *models.Session, requested float64) (*models.Decision, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if err := validateRequested(requested); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, sess.CPF)
	if err != nil {
		return nil, err
	}

	e, err := s.currentEvaluator(ctx)
	if err != nil {
		return nil, err
	}
	decision := e.Evaluate(client.Score, requested)

	req := models.LimitRequest{
		CPF:            client.CPF,
		RequestedAt:    s.now(),
		CurrentLimit:   client.CurrentLimit,
		RequestedLimit: requested,
		Status:         decision.Status,
	}
	if err := s.record(ctx, req); err != nil {
		return nil, err
	}
	metrics.LimitDecisions.WithLabelValues(string(decision.Status)).Inc()

	s.log.WithFields(logrus.Fields{
		"cpf":       utils.MaskCPF(client.CPF),
		"score":     client.Score,
		"requested": requested,
		"ceiling":   decision.Ceiling,
		"status":    decision.Status,
	}).Info("Limit request decided")

	if decision.Approved() {
		if err := s.notifier.LimitApproved(client, req); err != nil {
			s.log.WithFields(clientFields(client.CPF)).Warnf("Approval notice not sent: %v", err)
		}
	}
	return &decision, nil
}

func validateRequested(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: requested limit must be a finite non-negative amount", models.ErrValidation)
	}
	// Amounts are in centavos; anything finer could not be recorded as decided.
	cents := v * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9*math.Max(1, cents) {
		return fmt.Errorf("%w: requested limit %v has more than two decimal places", models.ErrValidation, v)
	}
	return nil
}
