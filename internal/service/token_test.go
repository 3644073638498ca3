package service

import (
	"testing"
	"time"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	f := newFixture(t)
	f.svc.config.JWTSecret = "test-secret"
	f.svc.config.JWTTTL = 30 * time.Minute
	sess := f.login(t, "12345678901", "15/03/1985")

	token, expiresAt, err := f.svc.IssueToken(sess)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(30*time.Minute), expiresAt)

	got, err := f.svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.CPF, got.CPF)
	assert.Equal(t, sess.Name, got.Name)
	assert.True(t, sess.AuthenticatedAt.Equal(got.AuthenticatedAt))
}

func TestParseToken_Rejects(t *testing.T) {
	f := newFixture(t)
	f.svc.config.JWTSecret = "test-secret"
	f.svc.config.JWTTTL = time.Minute
	sess := f.login(t, "12345678901", "15/03/1985")
	token, _, err := f.svc.IssueToken(sess)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		f.svc.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }
		defer func() { f.svc.now = func() time.Time { return fixedNow } }()
		_, err := f.svc.ParseToken(token)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("other secret", func(t *testing.T) {
		f.svc.config.JWTSecret = "rotated"
		defer func() { f.svc.config.JWTSecret = "test-secret" }()
		_, err := f.svc.ParseToken(token)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("no session", func(t *testing.T) {
		_, _, err := f.svc.IssueToken(nil)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestEndSession_RefusesToken(t *testing.T) {
	f := newFixture(t)
	f.svc.config.JWTSecret = "test-secret"
	f.svc.config.JWTTTL = time.Minute
	sess := f.login(t, "12345678901", "15/03/1985")
	other := f.login(t, "98765432100", "01/12/1990")

	token, _, err := f.svc.IssueToken(sess)
	require.NoError(t, err)
	otherToken, _, err := f.svc.IssueToken(other)
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(sess))

	_, err = f.svc.ParseToken(token)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = f.svc.ParseToken(otherToken)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.EndSession(nil), models.ErrInvalidCredentials)
}

func TestEndSession_ForgetsExpiredEntries(t *testing.T) {
	f := newFixture(t)
	f.svc.config.JWTTTL = time.Minute
	first := f.login(t, "12345678901", "15/03/1985")
	require.NoError(t, f.svc.EndSession(first))

	f.svc.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }
	second := f.login(t, "98765432100", "01/12/1990")
	require.NoError(t, f.svc.EndSession(second))

	assert.False(t, f.svc.sessionEnded(first.ID))
	assert.True(t, f.svc.sessionEnded(second.ID))
}
