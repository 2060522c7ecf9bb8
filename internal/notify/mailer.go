package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SendResult is the structured outcome of one email attempt. Transport
// problems land here as Success=false, never as an error return.
type SendResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
}

// Mailer is the email transport boundary.
type Mailer interface {
	Send(to, subject, htmlBody, textBody string, eventID int) SendResult
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Enabled  bool
}

type SMTPMailer struct {
	cfg SMTPConfig
	log *zerolog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send delivers one message over SMTP. When the transport is disabled it
// short-circuits to a successful no-op so callers keep their logic.
func (m *SMTPMailer) Send(to, subject, htmlBody, textBody string, eventID int) SendResult {
	if !m.cfg.Enabled {
		m.log.Debug().Str("to", to).Msg("mailer disabled, skipping send")
		return SendResult{Success: true, Message: "email disabled, skipped"}
	}

	messageID := uuid.NewString()
	msg := m.buildMessage(to, subject, htmlBody, textBody, messageID)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		m.log.Warn().Err(err).Str("to", to).Int("event_id", eventID).Msg("failed to send email")
		return SendResult{Success: false, Message: fmt.Sprintf("send email: %v", err)}
	}

	m.log.Info().Str("to", to).Int("event_id", eventID).Str("message_id", messageID).Msg("email sent")
	return SendResult{Success: true, Message: "email sent", ProviderMessageID: messageID}
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody, textBody, messageID string) []byte {
	boundary := "clubhub-" + messageID

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	fmt.Fprintf(&sb, "Message-ID: <%s@%s>\r\n", messageID, m.cfg.Host)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(textBody)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s--\r\n", boundary)
	return []byte(sb.String())
}
