package models

import "time"

// RequestStatus is the persisted outcome of a limit-increase request
type RequestStatus string

const (
	StatusApproved RequestStatus = "aprovado"
	StatusRejected RequestStatus = "rejeitado"
)

// LimitRequest is one ledger entry. Entries are never modified after being recorded.
type LimitRequest struct {
	CPF            string        `json:"cpf_cliente"`
	RequestedAt    time.Time     `json:"data_hora_solicitacao"`
	CurrentLimit   float64       `json:"limite_atual"`
	RequestedLimit float64       `json:"novo_limite_solicitado"`
	Status         RequestStatus `json:"status_pedido"`
}

// Decision is the evaluator verdict for a requested limit
type Decision struct {
	Status         RequestStatus `json:"status"`
	Score          int           `json:"score"`
	Ceiling        float64       `json:"ceiling"`
	OfferInterview bool          `json:"offer_interview"`
}

// Approved is a shorthand for Status == StatusApproved
func (d Decision) Approved() bool {
	return d.Status == StatusApproved
}
