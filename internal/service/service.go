package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/limits"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/notify"
	"github.com/Dan9191/credit-service/internal/repository"
	"github.com/Dan9191/credit-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// Service is the single decision core shared by the console and web shells
type Service struct {
	clients  repository.ClientStore
	rules    repository.RuleStore
	ledger   repository.Ledger
	rates    fx.Provider
	notifier notify.Notifier
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time

	mu        sync.RWMutex
	evaluator *limits.Evaluator

	// ended holds logged-out session ids until their tokens expire
	endedMu sync.Mutex
	ended   map[string]time.Time
}

// NewService initializes a new service. A nil notifier disables approval notices.
func NewService(stores repository.Stores, rates fx.Provider, notifier notify.Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		clients:  stores.Clients,
		rules:    stores.Rules,
		ledger:   stores.Ledger,
		rates:    rates,
		notifier: notifier,
		log:      log,
		config:   cfg,
		now:      time.Now,
		ended:    make(map[string]time.Time),
	}
}

// GetClient returns the client record for cpf
func (s *Service) GetClient(ctx context.Context, cpf string) (*models.Client, error) {
	client, err := s.clients.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ReloadRules replaces the rule table snapshot. Rules are applied first match in
// load order; overlaps and gaps are reported and only refused in strict mode.
// On error the previous snapshot stays active.
func (s *Service) ReloadRules(ctx context.Context) error {
	rules, err := s.rules.LoadRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load score rules: %w", err)
	}

	if issues := limits.Validate(rules); len(issues) > 0 {
		if s.config.RulesStrict {
			return fmt.Errorf("%w: score rule table rejected: %s", models.ErrValidation, limits.JoinIssues(issues))
		}
		s.log.Warnf("Score rule table has %d issue(s), first match in file order applies: %s", len(issues), limits.JoinIssues(issues))
	}

	s.mu.Lock()
	s.evaluator = limits.NewEvaluator(rules)
	s.mu.Unlock()

	s.log.Infof("Loaded %d score rules", len(rules))
	return nil
}

func (s *Service) currentEvaluator(ctx context.Context) (*limits.Evaluator, error) {
	s.mu.RLock()
	e := s.evaluator
	s.mu.RUnlock()
	if e != nil {
		return e, nil
	}
	if err := s.ReloadRules(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator, nil
}

func requireSession(sess *models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: no authenticated session", models.ErrInvalidCredentials)
	}
	return nil
}

func clientFields(cpf string) logrus.Fields {
	return logrus.Fields{"cpf": utils.MaskCPF(cpf)}
}
