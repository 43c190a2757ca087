package notify

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"safescout/pkg/config"
	"safescout/pkg/model"
)

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Sender:    "scout@example.com",
		Password:  "app-password",
		Recipient: "traveler@example.com",
	}
}

// capture replaces the transport and records the built message.
func capture(m *Mailer) **gomail.Message {
	var captured *gomail.Message
	m.send = func(msg *gomail.Message) error {
		captured = msg
		return nil
	}
	return &captured
}

func messageBytes(t *testing.T, msg *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	return buf.String()
}

func TestSendBuildsHTMLBody(t *testing.T) {
	m := NewMailer(testMailConfig())
	captured := capture(m)

	report := "**Location-Based Safety Report**\n\nAll quiet."
	if err := m.Send(report, model.VerdictSafe, Attachments{}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if *captured == nil {
		t.Fatal("no message sent")
	}

	if got := (*captured).GetHeader("Subject"); len(got) != 1 || got[0] != "Location Safety Report" {
		t.Errorf("Subject = %v", got)
	}
	if got := (*captured).GetHeader("To"); len(got) != 1 || got[0] != "traveler@example.com" {
		t.Errorf("To = %v", got)
	}
	if got := (*captured).GetHeader("Message-ID"); len(got) != 1 || got[0] == "" {
		t.Errorf("Message-ID = %v", got)
	}

	raw := messageBytes(t, *captured)
	for _, fragment := range []string{
		"<p><b>Report:</b></p>",
		"<strong>Location-Based Safety Report</strong>",
		"<p><b>Safe or Danger:</b> Safe</p>",
	} {
		if !strings.Contains(raw, fragment) {
			t.Errorf("body missing fragment %q", fragment)
		}
	}
}

func TestSendDefaultsRecipientToSender(t *testing.T) {
	cfg := testMailConfig()
	cfg.Recipient = ""
	m := NewMailer(cfg)
	captured := capture(m)

	if err := m.Send("report", model.VerdictDanger, Attachments{}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := (*captured).GetHeader("To"); len(got) != 1 || got[0] != "scout@example.com" {
		t.Errorf("To = %v, want sender", got)
	}
}

func TestSendAttachesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "scene.jpg")
	if err := os.WriteFile(img, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewMailer(testMailConfig())
	captured := capture(m)

	att := Attachments{
		Image: img,
		Audio: filepath.Join(dir, "missing.mp3"),
	}
	if err := m.Send("report", model.VerdictSafe, att); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	raw := messageBytes(t, *captured)
	if !strings.Contains(raw, "scene.jpg") {
		t.Error("existing image not attached")
	}
	if strings.Contains(raw, "missing.mp3") {
		t.Error("missing audio must be omitted, not attached")
	}
}

func TestSendMissingCredentials(t *testing.T) {
	cfg := testMailConfig()
	cfg.Password = ""
	m := NewMailer(cfg)
	m.send = func(_ *gomail.Message) error {
		t.Fatal("send must not be reached without credentials")
		return nil
	}

	if err := m.Send("report", model.VerdictSafe, Attachments{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestSendPropagatesTransportError(t *testing.T) {
	m := NewMailer(testMailConfig())
	m.send = func(_ *gomail.Message) error {
		return errors.New("connection refused")
	}

	err := m.Send("report", model.VerdictSafe, Attachments{})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
}
