package mail

import (
	"fmt"
	"net/smtp"
	"sync"
)

// Mailer delivers the password-reset link out of band.
type Mailer interface {
	SendResetLink(to, token string) error
}

// SMTPMailer sends reset links through a plain SMTP relay.
type SMTPMailer struct {
	Addr     string
	From     string
	Password string
	Host     string
	ResetURL string
}

func (m *SMTPMailer) SendResetLink(to, token string) error {
	resetURL := fmt.Sprintf("%s?token=%s", m.ResetURL, token)
	msg := fmt.Sprintf("Subject: Password Reset\n\nClick here to reset: %s", resetURL)

	return smtp.SendMail(m.Addr,
		smtp.PlainAuth("", m.From, m.Password, m.Host),
		m.From, []string{to}, []byte(msg))
}

// Recorder keeps sent tokens in memory so tests can redeem them.
type Recorder struct {
	mu   sync.Mutex
	Sent map[string]string // recipient -> last token
}

func NewRecorder() *Recorder {
	return &Recorder{Sent: make(map[string]string)}
}

func (r *Recorder) SendResetLink(to, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent[to] = token
	return nil
}

// LastToken returns the most recent token sent to an address.
func (r *Recorder) LastToken(to string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Sent[to]
}
