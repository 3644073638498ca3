package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/middleware"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/scoring"
	"github.com/Dan9191/credit-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type loginRequest struct {
	CPF       string `json:"cpf"`
	BirthDate string `json:"data_nascimento"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Name      string    `json:"nome"`
	ExpiresAt time.Time `json:"expires_at"`
}

type clientResponse struct {
	CPF          string  `json:"cpf"`
	Name         string  `json:"nome"`
	CurrentLimit float64 `json:"limite_atual"`
	Score        int     `json:"score"`
}

type limitRequest struct {
	RequestedLimit *float64 `json:"novo_limite"`
}

// interviewRequest uses pointers so a missing answer is told apart from a zero one
type interviewRequest struct {
	Income     *float64 `json:"income"`
	JobType    *string  `json:"job_type"`
	Expenses   *float64 `json:"expenses"`
	Dependents *int     `json:"dependents"`
	HasDebts   *bool    `json:"has_debts"`
}

func (r interviewRequest) complete() bool {
	return r.Income != nil && r.JobType != nil && r.Expenses != nil && r.Dependents != nil && r.HasDebts != nil
}

// Login authenticates one (cpf, birth date) pair and returns a session token.
// Each call is a single attempt.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, models.ErrValidation)
		return
	}

	sess, err := h.svc.Authenticate(r.Context(), req.CPF, req.BirthDate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	token, expiresAt, err := h.svc.IssueToken(sess)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{Token: token, Name: sess.Name, ExpiresAt: expiresAt})
}

// Logout ends the session behind the bearer token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	if err := h.svc.EndSession(sess); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated client's limit and score
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	client, err := h.svc.ConsultLimit(r.Context(), sess)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clientResponse{
		CPF:          client.CPF,
		Name:         client.Name,
		CurrentLimit: client.CurrentLimit,
		Score:        client.Score,
	})
}

// RequestLimit evaluates and records a limit increase request
func (h *Handler) RequestLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RequestedLimit == nil {
		h.writeError(w, models.ErrValidation)
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	decision, err := h.svc.RequestLimitIncrease(r.Context(), sess, *req.RequestedLimit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// Interview scores the answers and stores the new score
func (h *Handler) Interview(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.complete() {
		h.writeError(w, fmt.Errorf("%w: income, job_type, expenses, dependents and has_debts are required", models.ErrValidation))
		return
	}

	sess, _ := middleware.SessionFromContext(r.Context())
	score, err := h.svc.RunInterview(r.Context(), sess, models.InterviewInput{
		Income:     *req.Income,
		JobType:    scoring.ParseJobType(*req.JobType),
		Expenses:   *req.Expenses,
		Dependents: models.NormalizeDependents(*req.Dependents),
		HasDebts:   *req.HasDebts,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"score": score})
}

// FXRate returns the USD quote for the currency in the path
func (h *Handler) FXRate(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.FXRate(r.Context(), mux.Vars(r)["currency"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Healthz reports liveness
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrAuthRejected):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound), errors.Is(err, fx.ErrCurrencyNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrExternalUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
