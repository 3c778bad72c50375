// Package mail delivers transactional email over SMTP.
package mail

import "gopkg.in/gomail.v2"

// Sender delivers messages through a single SMTP endpoint.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender constructs a Sender. Empty credentials skip authentication,
// which suits local catch-all servers.
func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a plain-text message to a single recipient.
func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
