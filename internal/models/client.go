package models

// Client represents a client record as seeded in the clients table
type Client struct {
	CPF          string  `json:"cpf"`
	Name         string  `json:"nome"`
	BirthDate    string  `json:"data_nascimento"` // DD/MM/YYYY, compared verbatim
	CurrentLimit float64 `json:"limite_atual"`
	Score        int     `json:"score"`
}

// Score bounds shared by the scorer and the rule validation
const (
	MinScore = 0
	MaxScore = 1000
)
