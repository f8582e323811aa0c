package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// VerificationSubject is the subject line of the verification email.
const VerificationSubject = "Your Verification Code"

var verificationHTML = template.Must(template.New("verification").Parse(
	`<p>Hi there {{.Name}},</p><p>Your verification code is: <strong>{{.Code}}</strong></p>`,
))

// Message is a rendered email ready for delivery.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to string, msg Message) error
}

// VerificationMessage renders the email carrying a verification code.
func VerificationMessage(name, code string) (Message, error) {
	var buf bytes.Buffer
	data := struct{ Name, Code string }{Name: name, Code: code}
	if err := verificationHTML.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{
		Subject: VerificationSubject,
		Text:    fmt.Sprintf("Hi there %s, Your verification code is: %s", name, code),
		HTML:    buf.String(),
	}, nil
}

// Sender delivers mail over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

// Ensure Sender implements Mailer
var _ Mailer = (*Sender)(nil)

// NewSender creates an SMTP sender. Empty credentials skip authentication.
func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send dials the SMTP server and delivers msg to the recipient.
func (s *Sender) Send(ctx context.Context, to string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.message(to, msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (s *Sender) message(to string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}
