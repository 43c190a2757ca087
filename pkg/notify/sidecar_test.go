package notify

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readSidecar(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	return out
}

func TestSidecarWriteWithAudio(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "summary_audio.mp3")
	if err := os.WriteFile(audio, []byte("mp3-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "output.json")
	s := NewSidecar(path)
	if err := s.Write("Safe", audio); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := readSidecar(t, path)
	if got["safe_or_danger"] != "Safe" {
		t.Errorf("safe_or_danger = %v", got["safe_or_danger"])
	}
	want := base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))
	if got["audio_base64"] != want {
		t.Errorf("audio_base64 = %v, want %v", got["audio_base64"], want)
	}
}

func TestSidecarWriteWithoutAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	s := NewSidecar(path)
	if err := s.Write("Danger", ""); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := readSidecar(t, path)
	if got["safe_or_danger"] != "Danger" {
		t.Errorf("safe_or_danger = %v", got["safe_or_danger"])
	}
	if _, ok := got["audio_base64"]; ok {
		t.Error("audio_base64 must be omitted without audio")
	}
}

func TestSidecarWriteUnreadableAudio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.json")
	s := NewSidecar(path)
	if err := s.Write("Error", filepath.Join(dir, "nope.mp3")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := readSidecar(t, path)
	if _, ok := got["audio_base64"]; ok {
		t.Error("audio_base64 must be omitted for unreadable audio")
	}
}

func TestSidecarOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	s := NewSidecar(path)
	if err := s.Write("Safe", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("Danger", ""); err != nil {
		t.Fatal(err)
	}

	got := readSidecar(t, path)
	if got["safe_or_danger"] != "Danger" {
		t.Errorf("safe_or_danger = %v, want latest verdict", got["safe_or_danger"])
	}
}
