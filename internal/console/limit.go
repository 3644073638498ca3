package console

import (
	"context"
	"errors"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/scoring"
	"github.com/Dan9191/credit-service/internal/utils"
)

func (s *Shell) limitFlow(ctx context.Context, sess *models.Session) error {
	for {
		s.println("\n=== Agente de Limite de Crédito ===")
		s.println("1. Consultar Limite Atual")
		s.println("2. Solicitar Aumento de Limite")
		s.println("0. Voltar ao Menu Principal")

		choice, err := s.readLine("Escolha uma opção: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			s.consultLimit(ctx, sess)
		case "2":
			handOff, err := s.requestIncrease(ctx, sess)
			if err != nil || handOff {
				return err
			}
		case "0":
			return nil
		default:
			s.println("Opção inválida.")
		}
	}
}

func (s *Shell) consultLimit(ctx context.Context, sess *models.Session) {
	client, err := s.svc.ConsultLimit(ctx, sess)
	if errors.Is(err, models.ErrNotFound) {
		s.println("\nCliente não encontrado.")
		return
	}
	if err != nil {
		s.log.Errorf("Consult limit failed: %v", err)
		s.println("Erro ao recuperar dados do cliente.")
		return
	}
	s.printf("\nSeu limite atual é: %s\n", utils.FormatBRL(client.CurrentLimit))
}

// requestIncrease reports true when the client was handed to the interview and the
// flow should go back Home
func (s *Shell) requestIncrease(ctx context.Context, sess *models.Session) (bool, error) {
	client, err := s.svc.ConsultLimit(ctx, sess)
	if err != nil {
		s.log.Errorf("Load client failed: %v", err)
		s.println("Erro ao recuperar dados do cliente.")
		return false, nil
	}
	s.printf("\nSeu limite atual: %s\n", utils.FormatBRL(client.CurrentLimit))
	s.printf("Seu score atual: %d\n", client.Score)

	raw, err := s.readLine("Qual o novo limite desejado? (apenas números): ")
	if err != nil {
		return false, err
	}
	requested, err := utils.ParseAmount(raw)
	if err != nil {
		s.println("Valor inválido.")
		return false, nil
	}

	decision, err := s.svc.RequestLimitIncrease(ctx, sess, requested)
	if errors.Is(err, models.ErrValidation) {
		s.println("Valor inválido.")
		return false, nil
	}
	if err != nil {
		s.log.Errorf("Limit request failed: %v", err)
		s.printf("Erro ao registrar solicitação: %v\n", err)
		return false, nil
	}

	if decision.Approved() {
		s.println("\nParabéns! Sua solicitação foi APROVADA.")
		s.printf("Novo limite solicitado: %s\n", utils.FormatBRL(requested))
		s.println("Solicitação registrada com sucesso.")
		return false, nil
	}

	s.println("\nSua solicitação foi REJEITADA com base no seu score atual.")
	s.printf("Para o seu score (%d), o limite máximo permitido é %s\n", decision.Score, utils.FormatBRL(decision.Ceiling))
	s.println("Solicitação registrada com sucesso.")
	if !decision.OfferInterview {
		return false, nil
	}

	s.println("\n--- Sugestão ---")
	s.println("Gostaria de realizar uma Entrevista de Crédito para tentar atualizar seu score?")
	s.println("Isso pode ajudar a aumentar seu limite no futuro.")
	answer, err := s.readLine("Deseja realizar a entrevista agora? (s/n): ")
	if err != nil {
		return false, err
	}
	if !scoring.ParseYesNo(answer) {
		s.println("Entendido. Retornando ao menu.")
		return true, nil
	}
	return true, s.interviewFlow(ctx, sess)
}
