package console

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/credit-service/internal/integrations/fx"
	"github.com/Dan9191/credit-service/internal/models"
)

func (s *Shell) exchangeFlow(ctx context.Context, sess *models.Session) error {
	s.println("\n=== Agente de Câmbio ===")
	s.println("Posso consultar a cotação do Dólar (USD) para diversas moedas.")

	for {
		raw, err := s.readLine("\nPara qual moeda você deseja ver a cotação? (ex: BRL, EUR, JPY) ou 'sair' para voltar: ")
		if err != nil {
			return err
		}
		code := strings.ToUpper(raw)
		if code == "SAIR" {
			s.println("Encerrando consulta de câmbio.")
			return nil
		}
		if code == "" {
			continue
		}

		s.printf("Buscando cotação atual para %s -> %s...\n", fx.DefaultBase, code)
		q, err := s.svc.FXRate(ctx, code)
		switch {
		case err == nil:
			updated := q.UpdatedAt
			if updated == "" {
				updated = "Desconhecido"
			}
			s.println("\nCotação Atual:")
			s.printf("1 %s = %.4f %s\n", q.Base, q.Rate, q.Currency)
			s.printf("Última atualização: %s\n", updated)
		case errors.Is(err, models.ErrValidation), errors.Is(err, fx.ErrCurrencyNotFound):
			s.printf("Moeda '%s' não encontrada na base de dados.\n", code)
		default:
			s.println("Não foi possível acessar o serviço de cotação no momento.")
		}
	}
}
