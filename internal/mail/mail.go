// Package mail delivers the rendered digest over SMTP, the way the
// newsletter has always gone out: STARTTLS, PLAIN auth, one
// multipart/alternative message carrying the HTML.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	netmail "net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/ksasanka/ai-newsletter/internal/config"
	"github.com/ksasanka/ai-newsletter/internal/digest"
)

// Mailer sends digests to the configured recipients.
type Mailer struct {
	cfg config.EmailConfig
	now func() time.Time
}

func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg, now: time.Now}
}

// Subject is the issue subject line: the expanded prefix, then the
// issue date the way the newsletter header shows it.
func (m *Mailer) Subject() string {
	now := m.now()
	return digest.ExpandVars(m.cfg.SubjectPrefix, now) + " - " + now.Format("January 02, 2006")
}

// Send delivers the HTML to every configured recipient. The context
// deadline, when set, bounds the whole SMTP session.
func (m *Mailer) Send(ctx context.Context, subject, html string) error {
	if m.cfg.SMTPHost == "" {
		return errors.New("mail: smtp_host is not configured")
	}
	if m.cfg.Sender == "" {
		return errors.New("mail: sender is not configured")
	}
	if len(m.cfg.Recipients) == 0 {
		return errors.New("mail: no recipients configured")
	}

	msg, err := BuildMessage(m.cfg.SenderName, m.cfg.Sender, m.cfg.Recipients, subject, html, m.now())
	if err != nil {
		return fmt.Errorf("mail: build message: %w", err)
	}

	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))
	d := &net.Dialer{Timeout: 30 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(2 * time.Minute))
	}

	c, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return fmt.Errorf("mail: server %s does not offer STARTTLS", m.cfg.SMTPHost)
	}
	if err := c.StartTLS(&tls.Config{ServerName: m.cfg.SMTPHost}); err != nil {
		return fmt.Errorf("mail: starttls: %w", err)
	}
	if m.cfg.Password != "" {
		user := m.cfg.Username
		if user == "" {
			user = m.cfg.Sender
		}
		auth := smtp.PlainAuth("", user, m.cfg.Password, m.cfg.SMTPHost)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth as %s: %w", user, err)
		}
	}

	if err := c.Mail(m.cfg.Sender); err != nil {
		return fmt.Errorf("mail: from %s: %w", m.cfg.Sender, err)
	}
	for _, rcpt := range m.cfg.Recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("mail: write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: finish message: %w", err)
	}

	slog.Info("mail: sent", "recipients", len(m.cfg.Recipients), "bytes", len(msg))
	return c.Quit()
}

// BuildMessage assembles the multipart/alternative MIME message:
// UTF-8 subject, named sender, base64-encoded HTML part.
func BuildMessage(senderName, sender string, recipients []string, subject, html string, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="utf-8"`},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(wrapBase64([]byte(html))); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := netmail.Address{Name: senderName, Address: sender}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

// wrapBase64 encodes b and folds the output at 76 columns per RFC 2045.
func wrapBase64(b []byte) []byte {
	enc := base64.StdEncoding.EncodeToString(b)
	var out bytes.Buffer
	for len(enc) > 76 {
		out.WriteString(enc[:76])
		out.WriteString("\r\n")
		enc = enc[76:]
	}
	out.WriteString(enc)
	return out.Bytes()
}
