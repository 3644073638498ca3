package models

import "time"

// Session is the authenticated identity threaded through every client-facing core call
type Session struct {
	ID              string    `json:"id"`
	CPF             string    `json:"cpf"`
	Name            string    `json:"nome"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}

// Valid reports whether the session came out of a successful authentication
func (s *Session) Valid() bool {
	return s != nil && s.ID != "" && s.CPF != "" && !s.AuthenticatedAt.IsZero()
}
