package handler

import (
	"net/http"

	"github.com/Dan9191/credit-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public and session-protected routes
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/sessions", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(h.svc))
	authRouter.HandleFunc("/sessions", h.Logout).Methods(http.MethodDelete)
	authRouter.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	authRouter.HandleFunc("/limit-requests", h.RequestLimit).Methods(http.MethodPost)
	authRouter.HandleFunc("/interviews", h.Interview).Methods(http.MethodPost)
	authRouter.HandleFunc("/fx/{currency}", h.FXRate).Methods(http.MethodGet)
	return r
}
