package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/credit-service/internal/metrics"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/scoring"
)

// ScoreInterview computes the score for the answers. It has no side effects.
func (s *Service) ScoreInterview(in models.InterviewInput) int {
	return scoring.Score(in)
}

// PersistScore stores score as the client's new score
func (s *Service) PersistScore(ctx context.Context, cpf string, score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return fmt.Errorf("%w: score %d outside [%d,%d]", models.ErrValidation, score, models.MinScore, models.MaxScore)
	}
	if err := s.clients.UpdateScore(ctx, cpf, score); err != nil {
		return fmt.Errorf("failed to persist score: %w", err)
	}
	return nil
}

// RunInterview scores the answers and saves the result for the session client.
// Invalid answers abort before anything is written. The limit is never touched.
func (s *Service) RunInterview(ctx context.Context, sess *models.Session, in models.InterviewInput) (int, error) {
	if err := requireSession(sess); err != nil {
		return 0, err
	}
	if err := scoring.Validate(in); err != nil {
		return 0, err
	}

	score := s.ScoreInterview(in)
	if err := s.PersistScore(ctx, sess.CPF, score); err != nil {
		return 0, err
	}

	metrics.InterviewsCompleted.Inc()
	metrics.InterviewScores.Observe(float64(score))
	s.log.WithFields(clientFields(sess.CPF)).Infof("Interview completed, new score %d", score)
	return score, nil
}
