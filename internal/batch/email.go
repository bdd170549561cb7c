package batch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/config"
)

// Sender delivers the compiled digest by email. Delivery is optional: when
// credentials are unset the send is skipped with a warning, never an error.
type Sender struct {
	cfg config.SMTPConfig
}

// NewSender creates a Sender from SMTP configuration.
func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Enabled reports whether delivery credentials are fully configured.
func (s *Sender) Enabled() bool {
	return s.cfg.User != "" && s.cfg.Pass != "" && s.cfg.To != ""
}

// SendFile reads a markdown file and sends it as a styled HTML email with a
// plain-text alternative.
func (s *Sender) SendFile(ctx context.Context, subject, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "email: read %s", path)
	}
	return s.Send(ctx, subject, string(body))
}

// Send delivers a markdown body. Skips (with a warning) when credentials
// are missing.
func (s *Sender) Send(ctx context.Context, subject, markdown string) error {
	if !s.Enabled() {
		zap.L().Warn("email: configuration missing (user, pass, to), skipping delivery")
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	msg := buildMessage(from, s.cfg.To, subject, markdown, renderHTML(markdown))
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	var sendErr error
	if s.cfg.Port == 465 {
		sendErr = s.sendTLS(addr, auth, from, msg)
	} else {
		sendErr = smtp.SendMail(addr, auth, from, []string{s.cfg.To}, msg)
	}
	if sendErr != nil {
		return eris.Wrap(sendErr, "email: send")
	}

	zap.L().Info("email: digest sent", zap.String("to", s.cfg.To))
	return nil
}

// sendTLS delivers over an implicit-TLS connection (port 465).
func (s *Sender) sendTLS(addr string, auth smtp.Auth, from string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return eris.Wrap(err, "email: tls dial")
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return eris.Wrap(err, "email: smtp client")
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return eris.Wrap(err, "email: auth")
	}
	if err := client.Mail(from); err != nil {
		return eris.Wrap(err, "email: mail from")
	}
	if err := client.Rcpt(s.cfg.To); err != nil {
		return eris.Wrap(err, "email: rcpt to")
	}
	w, err := client.Data()
	if err != nil {
		return eris.Wrap(err, "email: data")
	}
	if _, err := w.Write(msg); err != nil {
		return eris.Wrap(err, "email: write body")
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "email: close body")
	}
	return client.Quit()
}

// buildMessage assembles a multipart/alternative message with the raw
// markdown as the plain-text fallback.
func buildMessage(from, to, subject, plain, html string) []byte {
	const boundary = "selfletter-boundary"
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(plain)
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

var (
	mdH3Re   = regexp.MustCompile(`(?m)^### (.*)$`)
	mdH2Re   = regexp.MustCompile(`(?m)^## (.*)$`)
	mdH1Re   = regexp.MustCompile(`(?m)^# (.*)$`)
	mdHrRe   = regexp.MustCompile(`(?m)^---\s*$`)
	mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdBoldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdEmRe   = regexp.MustCompile(`\*([^*]+)\*`)
)

// renderHTML converts the digest markdown into a minimally styled HTML
// document. Headings, links, emphasis, and rules only; anything fancier
// belongs to a real renderer and the digest doesn't use it.
func renderHTML(markdown string) string {
	body := markdown
	body = mdH3Re.ReplaceAllString(body, "<h3>$1</h3>")
	body = mdH2Re.ReplaceAllString(body, "<h2>$1</h2>")
	body = mdH1Re.ReplaceAllString(body, "<h1>$1</h1>")
	body = mdHrRe.ReplaceAllString(body, "<hr>")
	body = mdLinkRe.ReplaceAllString(body, `<a href="$2">$1</a>`)
	body = mdBoldRe.ReplaceAllString(body, "<strong>$1</strong>")
	body = mdEmRe.ReplaceAllString(body, "<em>$1</em>")

	var out strings.Builder
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if strings.HasPrefix(block, "<h") || strings.HasPrefix(block, "<hr") {
			out.WriteString(block)
		} else {
			out.WriteString("<p>" + strings.ReplaceAll(block, "\n", "<br>") + "</p>")
		}
		out.WriteString("\n")
	}

	return `<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
h1 { color: #1a1a1a; border-bottom: 2px solid #eee; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; border-bottom: 1px solid #eee; }
h3 { color: #34495e; margin-top: 20px; }
a { color: #3498db; text-decoration: none; }
hr { border: 0; border-top: 1px solid #eee; margin: 30px 0; }
</style>
</head>
<body>
` + out.String() + `</body>
</html>`
}
