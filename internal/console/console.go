// Package console is the interactive terminal front end. It owns prompts and
// parsing only; every decision is delegated to the service.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/service"
	"github.com/Dan9191/credit-service/internal/triage"
	"github.com/sirupsen/logrus"
)

// Shell runs one attendance: login, then the triage menu until the client leaves
type Shell struct {
	svc *service.Service
	in  *bufio.Reader
	out io.Writer
	log *logrus.Logger
}

// New creates a shell reading answers from in and writing prompts to out
func New(svc *service.Service, in io.Reader, out io.Writer, log *logrus.Logger) *Shell {
	return &Shell{svc: svc, in: bufio.NewReader(in), out: out, log: log}
}

// Run greets, authenticates and routes the client. A rejected login ends the
// attendance without error.
func (s *Shell) Run(ctx context.Context) error {
	s.println("\n=== Bem-vindo ao Sistema de Atendimento ===")
	s.println("Olá! Eu sou o seu assistente virtual de triagem.")

	sess, err := s.Login(ctx)
	if errors.Is(err, models.ErrAuthRejected) || errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	flows := map[triage.State]triage.Flow{
		triage.LimitFlow:     triage.FlowFunc(s.limitFlow),
		triage.InterviewFlow: triage.FlowFunc(s.interviewFlow),
		triage.ExchangeFlow:  triage.FlowFunc(s.exchangeFlow),
	}
	router, err := triage.New(sess, flows, s, s.log)
	if err != nil {
		return err
	}
	if err := router.Run(ctx); err != nil {
		return err
	}

	s.println("\nSolicitação de encerramento recebida.")
	s.println("Foi um prazer atender você. Até a próxima!")
	return nil
}

// Login asks for cpf and birth date until the gate authenticates or rejects
func (s *Shell) Login(ctx context.Context) (*models.Session, error) {
	gate := s.svc.NewAuthGate()
	for gate.State() == service.GateAwaitingCredentials {
		s.printf("\nTentativa %d de %d\n", gate.Attempts()+1, gate.MaxAttempts())
		cpf, err := s.readLine("Por favor, digite seu CPF (apenas números): ")
		if err != nil {
			return nil, err
		}
		dob, err := s.readLine("Por favor, digite sua data de nascimento (DD/MM/AAAA): ")
		if err != nil {
			return nil, err
		}

		sess, err := gate.Submit(ctx, cpf, dob)
		switch {
		case err == nil:
			s.println("\nAutenticação realizada com sucesso!")
			s.printf("Bem-vindo(a), %s!\n", sess.Name)
			return sess, nil
		case errors.Is(err, models.ErrAuthRejected):
			s.printf("\nNão foi possível realizar a autenticação após %d tentativas.\n", gate.MaxAttempts())
			s.println("Por favor, entre em contato com o suporte ou tente novamente mais tarde.")
			s.println("Encerrando atendimento. Tenha um bom dia!")
			return nil, err
		case errors.Is(err, models.ErrInvalidCredentials):
			s.println("Dados incorretos. Verifique o CPF e a data de nascimento.")
		default:
			s.log.Errorf("Authentication failed: %v", err)
			s.println("Erro ao ler base de dados. Tente novamente.")
		}
	}
	return nil, fmt.Errorf("%w: gate %s", models.ErrAuthRejected, gate.State())
}

// Choose prints the home menu and parses the answer
func (s *Shell) Choose(ctx context.Context) (triage.Choice, error) {
	s.println("\n------------------------------------------------")
	s.println("Como posso ajudar você agora?")
	s.println("1. Gostaria de ver ou aumentar meu Limite de Crédito")
	s.println("2. Quero atualizar meu cadastro (Entrevista de Crédito)")
	s.println("3. Preciso consultar a cotação de moedas")
	s.println("0. Encerrar atendimento")

	line, err := s.readLine("\nDigite o número da opção desejada: ")
	if err != nil {
		return 0, err
	}
	choice, err := triage.ParseChoice(line)
	if err != nil {
		s.println("\nDesculpe, não entendi. Poderia escolher uma das opções abaixo?")
		return 0, err
	}
	return choice, nil
}

// readLine prints prompt and returns the trimmed answer. io.EOF is returned only
// when the input ended with nothing left to read.
func (s *Shell) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}
