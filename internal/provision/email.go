package provision

import (
	"crypto/tls"
	"fmt"
	"sync"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/cuentas/internal/observability/logger"
)

// Sender es la interfaz de transporte de email saliente.
type Sender interface {
	// Send envía un email con cuerpo HTML y texto plano.
	// El destinatario recibe ambas versiones como multipart/alternative.
	Send(to string, subject string, htmlBody string, textBody string) error
}

// EmailTransport retorna el Sender según el contexto.
// Cloud: SMTP real (go-mail). Local: CaptureSender, que nunca sale del
// proceso — los tests y el dev loop inspeccionan lo "enviado".
func (p *Provisioner) EmailTransport() Sender {
	defer p.provisioned("email")
	if p.rc.IsCloud() {
		smtp := p.cfg.Email.SMTP
		return &SMTPSender{
			Host:    smtp.Host,
			Port:    smtp.Port,
			From:    smtp.From,
			User:    smtp.User,
			Pass:    smtp.Pass,
			TLSMode: "auto",
		}
	}
	return NewCaptureSender()
}

// SMTPSender envía por SMTP usando go-mail.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "ssl" | "none"
	InsecureSkipVerify bool
}

func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	log := logger.Named("email")

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	// Preferimos multipart/alternative (txt + html)
	if textBody != "" {
		m.SetBody("text/plain", textBody)
	}
	if htmlBody != "" {
		if textBody == "" {
			m.SetBody("text/html", htmlBody)
		} else {
			m.AddAlternative("text/html", htmlBody)
		}
	}

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // sólo dev
	}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
	default:
		// "auto": go-mail negocia STARTTLS si corresponde
	}

	if err := d.DialAndSend(m); err != nil {
		log.Error("smtp send falló", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("smtp send ok")
	return nil
}

// CapturedMessage es un email retenido por el CaptureSender.
type CapturedMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// CaptureSender retiene los mensajes en memoria. Nunca abre sockets.
type CaptureSender struct {
	mu       sync.Mutex
	messages []CapturedMessage
}

func NewCaptureSender() *CaptureSender {
	return &CaptureSender{}
}

func (c *CaptureSender) Send(to, subject, htmlBody, textBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, CapturedMessage{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	return nil
}

// Messages retorna una copia de lo capturado hasta ahora.
func (c *CaptureSender) Messages() []CapturedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CapturedMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
