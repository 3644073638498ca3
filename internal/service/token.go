package service

import (
	"fmt"
	"time"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken signs sess into a bearer token valid for the configured TTL
func (s *Service) IssueToken(sess *models.Session) (string, time.Time, error) {
	if err := requireSession(sess); err != nil {
		return "", time.Time{}, err
	}

	expiresAt := s.now().Add(s.config.JWTTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Name: sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.CPF,
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(sess.AuthenticatedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies a bearer token and restores the session it carries
func (s *Service) ParseToken(tokenString string) (*models.Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", models.ErrInvalidCredentials, err)
	}

	if s.sessionEnded(claims.ID) {
		return nil, fmt.Errorf("%w: session has ended", models.ErrInvalidCredentials)
	}

	sess := &models.Session{ID: claims.ID, CPF: claims.Subject, Name: claims.Name}
	if claims.IssuedAt != nil {
		sess.AuthenticatedAt = claims.IssuedAt.Time
	}
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: token does not carry a session", models.ErrInvalidCredentials)
	}
	return sess, nil
}

// EndSession terminates sess. Tokens issued for it are refused until they would have expired.
func (s *Service) EndSession(sess *models.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	now := s.now()
	s.endedMu.Lock()
	for id, until := range s.ended {
		if !until.After(now) {
			delete(s.ended, id)
		}
	}
	s.ended[sess.ID] = now.Add(s.config.JWTTTL)
	s.endedMu.Unlock()

	s.log.WithFields(clientFields(sess.CPF)).Infof("Session %s ended", sess.ID)
	return nil
}

func (s *Service) sessionEnded(id string) bool {
	s.endedMu.Lock()
	defer s.endedMu.Unlock()
	_, ok := s.ended[id]
	return ok
}
