package notify

import (
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"

	"github.com/shanehull/trendscan/internal/report"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// Dialer sends a composed message. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg    EmailConfig
	dialer Dialer
	log    *zap.SugaredLogger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig, log *zap.SugaredLogger) *EmailSender {
	d := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.Timeout = 10 * time.Second
	return newEmailSender(cfg, d, log)
}

func newEmailSender(cfg EmailConfig, d Dialer, log *zap.SugaredLogger) *EmailSender {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &EmailSender{cfg: cfg, dialer: d, log: log}
}

// Compose builds the MIME message for a rendered report.
func (s *EmailSender) Compose(msg *report.RenderedMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// Send delivers an email with HTML body and plain text fallback. A disabled
// sender does nothing.
func (s *EmailSender) Send(msg *report.RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	if err := s.dialer.DialAndSend(s.Compose(msg)); err != nil {
		s.log.Errorw("failed to send email", "to", s.cfg.ToEmail, "subject", msg.Subject, "error", err)
		return err
	}

	s.log.Infow("email sent", "subject", msg.Subject)
	return nil
}
