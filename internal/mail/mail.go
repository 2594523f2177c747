// Package mail renders and sends reservation emails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notice holds what a reservation email shows.
type Notice struct {
	Name         string
	Email        string
	SeatNumber   string
	LocationArea string
	Date         string
}

// Kinds of notice.
const (
	KindConfirmed = "confirmed"
	KindCancelled = "cancelled"
)

var templates = map[string]struct {
	subject string
	body    *template.Template
}{
	KindConfirmed: {
		subject: "Your Seat Reservation is Confirmed!",
		body: template.Must(template.New(KindConfirmed).Parse(`<p>Hello {{.Name}},</p>
<p>Your reservation for seat <strong>{{.SeatNumber}}</strong> ({{.LocationArea}}) on <strong>{{.Date}}</strong> is confirmed.</p>
<p>Have a productive day!</p>`)),
	},
	KindCancelled: {
		subject: "Your Seat Reservation has been Cancelled",
		body: template.Must(template.New(KindCancelled).Parse(`<p>Hello {{.Name}},</p>
<p>Your reservation for seat <strong>{{.SeatNumber}}</strong> ({{.LocationArea}}) on <strong>{{.Date}}</strong> has been cancelled.</p>
<p>You can book another seat at any time.</p>`)),
	},
}

// Render builds the email for a notice of the given kind.
func Render(kind string, n Notice) (Message, error) {
	t, ok := templates[kind]
	if !ok {
		return Message{}, errors.Errorf("unknown notice kind %q", kind)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, n); err != nil {
		return Message{}, errors.Wrap(err, "render email")
	}
	return Message{To: n.Email, Subject: t.subject, HTML: buf.String()}, nil
}

// SMTPMailer sends messages through an SMTP relay.
type SMTPMailer struct {
	Addr string
	From string
	Auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for host:port.  Authentication is used
// only when user is set.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	m := &SMTPMailer{Addr: fmt.Sprintf("%s:%d", host, port), From: from, send: smtp.SendMail}
	if user != "" {
		m.Auth = smtp.PlainAuth("", user, pass, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	if err := m.send(m.Addr, m.Auth, m.From, []string{msg.To}, []byte(b.String())); err != nil {
		return errors.Wrapf(err, "smtp send to %s", msg.To)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Log.Info("email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTML)))
	return nil
}
