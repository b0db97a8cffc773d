package mail

import (
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net"
	netmail "net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasanka/ai-newsletter/internal/config"
)

func TestBuildMessageRoundTrip(t *testing.T) {
	html := "<html><body><h1>🤖 This Week in AI</h1></body></html>"
	now := time.Date(2026, time.August, 21, 9, 0, 0, 0, time.UTC)

	raw, err := BuildMessage("AI Digest", "digest@example.test",
		[]string{"a@example.test", "b@example.test"},
		"🤖 This Week in AI - August 21, 2026", html, now)
	require.NoError(t, err)

	msg, err := netmail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	from, err := netmail.ParseAddress(msg.Header.Get("From"))
	require.NoError(t, err)
	assert.Equal(t, "AI Digest", from.Name)
	assert.Equal(t, "digest@example.test", from.Address)
	assert.Equal(t, "a@example.test, b@example.test", msg.Header.Get("To"))
	assert.Equal(t, "1.0", msg.Header.Get("MIME-Version"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "🤖 This Week in AI - August 21, 2026", subject)

	mt, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mt)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, `text/html; charset="utf-8"`, part.Header.Get("Content-Type"))
	assert.Equal(t, "base64", part.Header.Get("Content-Transfer-Encoding"))

	encoded, err := io.ReadAll(part)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, html, string(decoded))

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestBuildMessageFoldsLongBodies(t *testing.T) {
	html := strings.Repeat("<p>very long content</p>", 200)
	raw, err := BuildMessage("", "digest@example.test", []string{"a@example.test"},
		"subject", html, time.Now())
	require.NoError(t, err)

	_, body, found := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, found)
	for _, line := range strings.Split(body, "\r\n") {
		assert.LessOrEqual(t, len(line), 78, "line too long for SMTP: %q", line)
	}
}

func TestSubjectExpandsPrefixAndAppendsDate(t *testing.T) {
	m := New(config.EmailConfig{SubjectPrefix: "AI Weekly {.CurrentDate}"})
	m.now = func() time.Time { return time.Date(2026, time.August, 21, 9, 0, 0, 0, time.UTC) }
	assert.Equal(t, "AI Weekly 2026-08-21 - August 21, 2026", m.Subject())
}

func TestSendConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.EmailConfig
		want string
	}{
		{"no host", config.EmailConfig{Sender: "s@x.test", Recipients: []string{"r@x.test"}}, "smtp_host"},
		{"no sender", config.EmailConfig{SMTPHost: "smtp.x.test", Recipients: []string{"r@x.test"}}, "sender"},
		{"no recipients", config.EmailConfig{SMTPHost: "smtp.x.test", Sender: "s@x.test"}, "recipients"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := New(c.cfg).Send(context.Background(), "subject", "<html></html>")
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

// fakeSMTP accepts one connection and speaks just enough ESMTP to get
// past the greeting, without offering STARTTLS.
func fakeSMTP(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tc := textproto.NewConn(conn)
		tc.PrintfLine("220 test ESMTP")
		for {
			line, err := tc.ReadLine()
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				tc.PrintfLine("250-test greets you")
				tc.PrintfLine("250 AUTH PLAIN")
			case strings.HasPrefix(line, "QUIT"):
				tc.PrintfLine("221 bye")
				return
			default:
				tc.PrintfLine("250 OK")
			}
		}
	}()
	return ln.Addr().String()
}

func TestSendRequiresStartTLS(t *testing.T) {
	addr := fakeSMTP(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)
	cfg := config.EmailConfig{
		SMTPHost:   host,
		SMTPPort:   portNum,
		Sender:     "digest@example.test",
		Recipients: []string{"reader@example.test"},
	}

	err = New(cfg).Send(context.Background(), "subject", "<html></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}

func TestSendDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cfg := config.EmailConfig{
		SMTPHost:   "127.0.0.1",
		SMTPPort:   1, // nothing listens here
		Sender:     "digest@example.test",
		Recipients: []string{"reader@example.test"},
	}
	err := New(cfg).Send(ctx, "subject", "<html></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}
