// Package notify delivers the finished report: email via SMTP and a
// JSON sidecar file for downstream consumers.
package notify

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"gopkg.in/gomail.v2"

	"safescout/pkg/config"
	"safescout/pkg/model"
)

const mailSubject = "Location Safety Report"

// Attachments lists the optional files to attach to the report mail.
// Empty paths are skipped; missing files are logged and omitted, they
// never fail the send.
type Attachments struct {
	Image string
	Audio string
	Video string
}

// Mailer sends the safety report over SMTP with STARTTLS.
type Mailer struct {
	cfg  config.MailConfig
	send func(m *gomail.Message) error
}

// NewMailer creates a Mailer for the given transport settings.
func NewMailer(cfg config.MailConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = func(msg *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password)
		return d.DialAndSend(msg)
	}
	return m
}

// Send renders the markdown report to HTML and mails it with the
// verdict banner and any available attachments.
func (m *Mailer) Send(report string, verdict model.Verdict, att Attachments) error {
	if m.cfg.Sender == "" || m.cfg.Password == "" {
		return fmt.Errorf("mail credentials are missing")
	}
	recipient := m.cfg.Recipient
	if recipient == "" {
		recipient = m.cfg.Sender
	}

	msg, err := m.buildMessage(report, verdict, recipient, att)
	if err != nil {
		return err
	}

	if err := m.send(msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	slog.Info("Mail: report sent", "to", recipient)
	return nil
}

func (m *Mailer) buildMessage(report string, verdict model.Verdict, recipient string, att Attachments) (*gomail.Message, error) {
	var htmlBuf bytes.Buffer
	if err := goldmark.Convert([]byte(report), &htmlBuf); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}

	body := fmt.Sprintf(`<html>
  <head></head>
  <body>
    <p><b>Report:</b></p>
    %s
    <p><b>Safe or Danger:</b> %s</p>
  </body>
</html>
`, htmlBuf.String(), verdict)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", mailSubject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@safescout>", uuid.New().String()))
	msg.SetBody("text/html", body)

	attach(msg, att.Image, "image")
	attach(msg, att.Audio, "audio")
	attach(msg, att.Video, "video")

	return msg, nil
}

// attach adds the file at path to the message. The bytes are read up
// front so an unreadable file degrades to a warning instead of
// aborting the send mid-dial.
func attach(msg *gomail.Message, path, kind string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Mail: attachment unreadable, omitting", "kind", kind, "path", path, "error", err)
		return
	}
	msg.Attach(filepath.Base(path), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))
}
