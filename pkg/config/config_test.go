package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TTS.Engine != "gtrans" {
		t.Errorf("default TTS engine = %q, want gtrans", cfg.TTS.Engine)
	}
	if cfg.TTS.Output != "summary_audio.mp3" {
		t.Errorf("default audio output = %q, want summary_audio.mp3", cfg.TTS.Output)
	}
	if cfg.Sidecar.Path != "output.json" {
		t.Errorf("default sidecar path = %q, want output.json", cfg.Sidecar.Path)
	}
	if cfg.Assessor.Variant != "verdict" {
		t.Errorf("default assessor variant = %q, want verdict", cfg.Assessor.Variant)
	}
	if time.Duration(cfg.Request.Timeout) <= 0 {
		t.Error("default request timeout must be positive")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safescout.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mail.Host != "smtp.gmail.com" {
		t.Errorf("Mail.Host = %q, want smtp.gmail.com", cfg.Mail.Host)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Load did not create config file: %v", err)
	}
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safescout.yaml")

	content := []byte("tts:\n  engine: edge-tts\n  language: en-US\nmail:\n  sender: a@example.com\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TTS.Engine != "edge-tts" {
		t.Errorf("TTS.Engine = %q, want edge-tts", cfg.TTS.Engine)
	}
	// Defaults survive a partial file.
	if cfg.Sidecar.Path != "output.json" {
		t.Errorf("Sidecar.Path = %q, want default output.json", cfg.Sidecar.Path)
	}
	// Recipient defaults to sender.
	if cfg.Mail.Recipient != "a@example.com" {
		t.Errorf("Mail.Recipient = %q, want sender fallback", cfg.Mail.Recipient)
	}
}

func TestLoadRejectsBadLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safescout.yaml")

	content := []byte("tts:\n  language: english\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted invalid language, want error")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "k-genai")
	t.Setenv("GMAPS_API_KEY", "k-gmaps")
	t.Setenv("EMAIL_SENDER", "env@example.com")
	t.Setenv("EMAIL_PASSWORD", "hunter2")

	cfg := DefaultConfig()
	applyEnvFallbacks(cfg)

	if cfg.LLM.Key != "k-genai" {
		t.Errorf("LLM.Key = %q, want k-genai", cfg.LLM.Key)
	}
	if cfg.Geocode.Key != "k-gmaps" {
		t.Errorf("Geocode.Key = %q, want k-gmaps", cfg.Geocode.Key)
	}
	if cfg.Mail.Recipient != "env@example.com" {
		t.Errorf("Mail.Recipient = %q, want sender fallback from env", cfg.Mail.Recipient)
	}
	if cfg.Mail.Password != "hunter2" {
		t.Errorf("Mail.Password not taken from env")
	}
}
