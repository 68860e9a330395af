// internal/mailer/smtp.go
package mailer

import (
    "context"
    "fmt"
    "net/smtp"
    "strings"

    "github.com/google/uuid"

    "github.com/phishsim/phishsim-backend/internal/config"
)

// Ensure SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)

// SMTPSender delivers HTML mail over a plain SMTP relay (Mailtrap in
// development, a real relay in production).
type SMTPSender struct {
    cfg config.SMTP
}

// NewSMTPSender validates the transport configuration up front so a broken
// config fails process startup instead of every recipient.
func NewSMTPSender(cfg config.SMTP) (*SMTPSender, error) {
    if cfg.Host == "" || cfg.Port == 0 {
        return nil, fmt.Errorf("mailer: SMTP host/port not configured")
    }
    if cfg.From == "" {
        cfg.From = cfg.User
    }
    if cfg.From == "" {
        return nil, fmt.Errorf("mailer: no from-address configured")
    }
    return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
    if err := ctx.Err(); err != nil {
        return "", err
    }

    transportID := fmt.Sprintf("<%s@%s>", uuid.NewString(), fromDomain(s.cfg.From))

    var msg strings.Builder
    fmt.Fprintf(&msg, "From: %q <%s>\r\n", s.cfg.FromName, s.cfg.From)
    fmt.Fprintf(&msg, "To: %s\r\n", to)
    fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
    fmt.Fprintf(&msg, "Message-ID: %s\r\n", transportID)
    msg.WriteString("MIME-Version: 1.0\r\n")
    msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
    msg.WriteString("\r\n")
    msg.WriteString(htmlBody)
    msg.WriteString("\r\n")

    addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
    var auth smtp.Auth
    if s.cfg.User != "" {
        auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
    }

    if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
        return "", fmt.Errorf("send to %s: %w", to, err)
    }
    return transportID, nil
}

func fromDomain(from string) string {
    if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
        return from[i+1:]
    }
    return "phishsim.local"
}
