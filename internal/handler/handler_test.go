package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/repository"
	"github.com/Dan9191/credit-service/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct{}

func (stubRates) Rate(ctx context.Context, base, quote string) (*fx.Quote, error) {
	switch quote {
	case "BRL":
	case "EUR":
		return nil, fmt.Errorf("%w: request timed out", models.ErrExternalUnavailable)
	default:
		return nil, fmt.Errorf("%w: %w: %s", models.ErrExternalUnavailable, fx.ErrCurrencyNotFound, quote)
	}
	return &fx.Quote{Base: base, Currency: quote, Rate: 5.43, Source: "test"}, nil
}

type apiFixture struct {
	router http.Handler
	ledger string
}

func setup(t *testing.T) *apiFixture {
	t.Helper()
	dir := t.TempDir()
	clients := filepath.Join(dir, "clientes.csv")
	rules := filepath.Join(dir, "score_limite.csv")
	ledger := filepath.Join(dir, "solicitacoes_aumento_limite.csv")
	require.NoError(t, os.WriteFile(clients, []byte("cpf,nome,data_nascimento,limite_atual,score\n12345678901,Ana Souza,15/03/1985,3000.00,659\n"), 0o644))
	require.NoError(t, os.WriteFile(rules, []byte("min_score,max_score,max_limite\n0,599,1000\n600,700,5000\n701,1000,15000\n"), 0o644))

	log := logrus.New()
	log.SetOutput(io.Discard)
	stores := repository.Stores{
		Clients: repository.NewCSVClientStore(clients),
		Rules:   repository.NewCSVRuleStore(rules),
		Ledger:  repository.NewCSVLedger(ledger),
	}
	cfg := &config.Config{AuthMaxAttempts: 3, JWTSecret: "test-secret", JWTTTL: time.Hour}
	svc := service.NewService(stores, stubRates{}, nil, log, cfg)
	return &apiFixture{router: NewRouter(NewHandler(svc, log)), ledger: ledger}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) login(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/sessions", "", map[string]string{"cpf": "12345678901", "data_nascimento": "15/03/1985"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Ana Souza", resp.Name)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLogin(t *testing.T) {
	f := setup(t)
	f.login(t)

	rec := f.do(t, http.MethodPost, "/sessions", "", map[string]string{"cpf": "12345678901", "data_nascimento": "1985-03-15"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	f := setup(t)
	token := f.login(t)
	other := f.login(t)

	rec := f.do(t, http.MethodDelete, "/sessions", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/me", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodDelete, "/sessions", token, nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/me", other, nil).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := setup(t)
	for _, path := range []string{"/me", "/fx/BRL"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := f.do(t, http.MethodPost, "/limit-requests", "forged", map[string]float64{"novo_limite": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, err := os.Stat(f.ledger)
	assert.True(t, os.IsNotExist(err))
}

func TestMe(t *testing.T) {
	f := setup(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "12345678901", resp["cpf"])
	assert.Equal(t, 3000.0, resp["limite_atual"])
	assert.Equal(t, 659.0, resp["score"])
	assert.NotContains(t, resp, "data_nascimento")
}

func TestRequestLimit(t *testing.T) {
	f := setup(t)
	token := f.login(t)

	tests := []struct {
		name   string
		body   interface{}
		code   int
		status models.RequestStatus
		offer  bool
	}{
		{"approved", map[string]float64{"novo_limite": 4000}, http.StatusOK, models.StatusApproved, false},
		{"rejected", map[string]float64{"novo_limite": 6000}, http.StatusOK, models.StatusRejected, true},
		{"negative", map[string]float64{"novo_limite": -10}, http.StatusBadRequest, "", false},
		{"missing amount", map[string]string{}, http.StatusBadRequest, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/limit-requests", token, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			var d models.Decision
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, 5000.0, d.Ceiling)
			assert.Equal(t, tt.offer, d.OfferInterview)
		})
	}

	raw, err := os.ReadFile(f.ledger)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(raw), "\n"))
}

func TestInterview(t *testing.T) {
	f := setup(t)
	token := f.login(t)

	rec := f.do(t, http.MethodPost, "/interviews", token, map[string]interface{}{
		"income": 3000, "job_type": "formal", "expenses": 500, "dependents": 1, "has_debts": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 659, resp["score"])

	rec = f.do(t, http.MethodPost, "/interviews", token, map[string]interface{}{
		"income": -1, "job_type": "formal", "expenses": 500, "dependents": 1, "has_debts": false,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (f *apiFixture) score(t *testing.T, token string) float64 {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp["score"].(float64)
}

func TestInterview_MissingAnswersKeepScore(t *testing.T) {
	f := setup(t)
	token := f.login(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", map[string]interface{}{}},
		{"no income", map[string]interface{}{"job_type": "formal", "expenses": 500, "dependents": 1, "has_debts": false}},
		{"no job type", map[string]interface{}{"income": 3000, "expenses": 500, "dependents": 1, "has_debts": false}},
		{"no expenses", map[string]interface{}{"income": 3000, "job_type": "formal", "dependents": 1, "has_debts": false}},
		{"no dependents", map[string]interface{}{"income": 3000, "job_type": "formal", "expenses": 500, "has_debts": false}},
		{"no debts answer", map[string]interface{}{"income": 3000, "job_type": "formal", "expenses": 500, "dependents": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/interviews", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, 659.0, f.score(t, token))
		})
	}
}

func TestFXRate(t *testing.T) {
	f := setup(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/fx/brl", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var q fx.Quote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&q))
	assert.Equal(t, 5.43, q.Rate)
	assert.Equal(t, "USD", q.Base)

	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodGet, "/fx/EUR", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/fx/XYZ", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/fx/EURO", token, nil).Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	f := setup(t)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "", nil).Code)
	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", models.ErrValidation), http.StatusBadRequest},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", models.ErrAuthRejected, models.ErrInvalidCredentials), http.StatusUnauthorized},
		{fmt.Errorf("client: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: timeout", models.ErrExternalUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: disk", models.ErrIO), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
