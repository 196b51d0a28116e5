package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/cuentas-api/pkg/config"
)

// EmailSender envío de correos de notificación vía SMTP.
type EmailSender struct {
	cfg config.SMTPConfig
}

// NewEmailSender construye el sender.
func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Send envía un correo de texto plano. Síncrono; quien llama decide si el
// fallo es fatal (en la sincronización nunca lo es).
func (s *EmailSender) Send(to, subject, body string) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("smtp: sin configurar")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", to, err)
	}
	return nil
}
