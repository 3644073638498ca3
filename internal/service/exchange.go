package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/metrics"
	"github.com/Dan9191/credit-service/internal/models"
)

// FXRate returns the price of one US dollar in the quote currency
func (s *Service) FXRate(ctx context.Context, quote string) (*fx.Quote, error) {
	code, err := fx.NormalizeCode(quote)
	if err != nil {
		return nil, err
	}
	if s.rates == nil {
		return nil, fmt.Errorf("%w: no rate provider configured", models.ErrExternalUnavailable)
	}

	q, err := s.rates.Rate(ctx, fx.DefaultBase, code)
	if err != nil {
		metrics.FXLookups.WithLabelValues("unavailable").Inc()
		s.log.Warnf("FX lookup %s/%s failed: %v", fx.DefaultBase, code, err)
		return nil, err
	}
	metrics.FXLookups.WithLabelValues("ok").Inc()
	return q, nil
}
