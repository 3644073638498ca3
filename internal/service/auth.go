package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/credit-service/internal/metrics"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/google/uuid"
)

// ErrGateClosed is returned when credentials are submitted to a gate that already finished
var ErrGateClosed = errors.New("authentication gate is closed")

// Authenticate checks cpf and birth date against the client record. Both must match
// the stored values exactly.
func (s *Service) Authenticate(ctx context.Context, cpf, dob string) (*models.Session, error) {
	client, err := s.clients.FindByCPF(ctx, cpf)
	if errors.Is(err, models.ErrNotFound) {
		metrics.AuthAttempts.WithLabelValues("mismatch").Inc()
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if client.BirthDate != dob {
		metrics.AuthAttempts.WithLabelValues("mismatch").Inc()
		return nil, models.ErrInvalidCredentials
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	sess := &models.Session{
		ID:              uuid.NewString(),
		CPF:             client.CPF,
		Name:            client.Name,
		AuthenticatedAt: s.now(),
	}
	s.log.WithFields(clientFields(cpf)).Infof("Client authenticated, session %s", sess.ID)
	return sess, nil
}

// GateState is the position of an AuthGate
type GateState int

const (
	GateAwaitingCredentials GateState = iota
	GateAuthenticated
	GateRejected
)

func (g GateState) String() string {
	switch g {
	case GateAwaitingCredentials:
		return "awaiting_credentials"
	case GateAuthenticated:
		return "authenticated"
	case GateRejected:
		return "rejected"
	}
	return fmt.Sprintf("GateState(%d)", int(g))
}

// AuthGate bounds one login session to a fixed number of consecutive failed attempts.
// It holds no state beyond the session that created it.
type AuthGate struct {
	svc         *Service
	maxAttempts int
	attempts    int
	state       GateState
	session     *models.Session
}

// NewAuthGate starts a login session using the configured attempt limit
func (s *Service) NewAuthGate() *AuthGate {
	return &AuthGate{svc: s, maxAttempts: s.config.AuthMaxAttempts}
}

// State returns the current gate state
func (g *AuthGate) State() GateState { return g.state }

// Attempts returns the number of failed submissions so far
func (g *AuthGate) Attempts() int { return g.attempts }

// MaxAttempts returns the attempt limit
func (g *AuthGate) MaxAttempts() int { return g.maxAttempts }

// Remaining returns how many submissions are left
func (g *AuthGate) Remaining() int { return g.maxAttempts - g.attempts }

// Session returns the authenticated session, or nil before success
func (g *AuthGate) Session() *models.Session { return g.session }

// Submit tries one (cpf, dob) pair. A failure that exhausts the attempts moves the
// gate to GateRejected and the error wraps models.ErrAuthRejected.
func (g *AuthGate) Submit(ctx context.Context, cpf, dob string) (*models.Session, error) {
	switch g.state {
	case GateAuthenticated:
		return nil, ErrGateClosed
	case GateRejected:
		return nil, fmt.Errorf("%w: %w", ErrGateClosed, models.ErrAuthRejected)
	}

	sess, err := g.svc.Authenticate(ctx, cpf, dob)
	if err == nil {
		g.state = GateAuthenticated
		g.session = sess
		return sess, nil
	}

	g.attempts++
	if g.attempts >= g.maxAttempts {
		g.state = GateRejected
		g.svc.log.WithFields(clientFields(cpf)).Warnf("Authentication rejected after %d attempts", g.attempts)
		return nil, fmt.Errorf("%w: %w", models.ErrAuthRejected, err)
	}
	return nil, err
}
