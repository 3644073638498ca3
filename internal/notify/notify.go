package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/utils"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Notifier is told about limit decisions that need a human follow-up
type Notifier interface {
	LimitApproved(client *models.Client, req models.LimitRequest) error
}

// Nop drops every notification. Used when SMTP is not configured.
type Nop struct{}

func (Nop) LimitApproved(*models.Client, models.LimitRequest) error { return nil }

// sendFunc matches (*email.Email).Send
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending back-office emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// LimitApproved asks the back office to apply an approved limit. The client's
// limite_atual is not changed by the service itself.
func (s *Sender) LimitApproved(client *models.Client, req models.LimitRequest) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = fmt.Sprintf("Limit increase approved for client %s", utils.MaskCPF(req.CPF))

	body := fmt.Sprintf(
		"Client: %s (CPF %s)\n"+
			"Requested at: %s\n"+
			"Current limit: %s\n"+
			"Approved limit: %s\n"+
			"Score at decision: %d\n\n",
		client.Name, req.CPF,
		req.RequestedAt.Format(time.RFC3339),
		utils.FormatBRL(req.CurrentLimit),
		utils.FormatBRL(req.RequestedLimit),
		client.Score,
	)
	body += "The new limit has been recorded in the request ledger only.\n" +
		"Please apply it to the client's account.\n\nCredit Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send approval notice for %s: %v", utils.MaskCPF(req.CPF), err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.NotifyEmail, e.Subject)
	return nil
}
