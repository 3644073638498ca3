package console

import (
	"context"
	"errors"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/scoring"
	"github.com/Dan9191/credit-service/internal/utils"
)

func (s *Shell) interviewFlow(ctx context.Context, sess *models.Session) error {
	s.println("\n=== Entrevista de Crédito ===")
	s.println("Vamos coletar alguns dados para calcular seu novo score de crédito.")

	in, ok, err := s.askInterview()
	if err != nil {
		return err
	}
	if ok {
		score, err := s.svc.RunInterview(ctx, sess, in)
		switch {
		case err == nil:
			s.printf("\nSeu novo score calculado é: %d\n", score)
			s.println("Seu score foi atualizado com sucesso na nossa base de dados.")
		case errors.Is(err, models.ErrValidation):
			s.println("\nErro: Valor inválido inserido. A entrevista foi cancelada.")
		default:
			s.log.Errorf("Interview failed: %v", err)
			s.println("Houve um erro ao atualizar seu score na base de dados.")
		}
	}

	s.println("\nRedirecionando de volta ao menu principal...")
	return nil
}

// askInterview collects the five answers. ok is false when a numeric answer was
// invalid and the interview was cancelled.
func (s *Shell) askInterview() (models.InterviewInput, bool, error) {
	var in models.InterviewInput
	s.println("\nPor favor, responda as seguintes perguntas:")

	raw, err := s.readLine("1. Qual sua renda mensal? (apenas números): ")
	if err != nil {
		return in, false, err
	}
	if in.Income, err = utils.ParseAmount(raw); err != nil {
		s.println("\nErro: Valor inválido inserido. A entrevista foi cancelada.")
		return in, false, nil
	}

	s.println("2. Qual seu tipo de emprego?")
	s.println("   [1] Formal")
	s.println("   [2] Autônomo")
	s.println("   [3] Desempregado")
	raw, err = s.readLine("   Opção: ")
	if err != nil {
		return in, false, err
	}
	in.JobType = scoring.ParseJobType(raw)
	if raw != "1" && raw != "2" && raw != "3" && in.JobType == models.JobUnemployed {
		s.println("Opção inválida. Considerando 'desempregado' por segurança.")
	}

	raw, err = s.readLine("3. Quais suas despesas fixas mensais? (apenas números): ")
	if err != nil {
		return in, false, err
	}
	if in.Expenses, err = utils.ParseAmount(raw); err != nil {
		s.println("\nErro: Valor inválido inserido. A entrevista foi cancelada.")
		return in, false, nil
	}

	raw, err = s.readLine("4. Quantos dependentes você tem? (0, 1, 2, 3+): ")
	if err != nil {
		return in, false, err
	}
	in.Dependents = scoring.ParseDependents(raw)

	raw, err = s.readLine("5. Possui dívidas ativas? (s/n): ")
	if err != nil {
		return in, false, err
	}
	in.HasDebts = scoring.ParseYesNo(raw)
	return in, true, nil
}
