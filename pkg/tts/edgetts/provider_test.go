package edgetts

import (
	"bytes"
	"os"
	"testing"

	"safescout/pkg/config"
)

func testProvider() *Provider {
	return NewProvider(config.EdgeTTSConfig{
		VoiceID:            "en-US-AvaMultilingualNeural",
		TrustedClientToken: "token",
	}, nil)
}

func TestHandleBinaryMessage(t *testing.T) {
	p := testProvider()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test_audio_*.mp3")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	// Valid message: 2-byte header length, header, audio payload
	header := []byte("info")
	audio := []byte{0x01, 0x02, 0x03, 0x04}
	data := append([]byte{0x00, 0x04}, header...)
	data = append(data, audio...)

	if err := p.handleBinaryMessage(data, tmpFile); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	content, _ := os.ReadFile(tmpFile.Name())
	if !bytes.Equal(content, audio) {
		t.Errorf("Expected audio data %v, got %v", audio, content)
	}

	// Too short messages are ignored
	if err := p.handleBinaryMessage([]byte{0x00}, tmpFile); err != nil {
		t.Errorf("Too short message should be ignored, got %v", err)
	}
}

func TestGenerateSecMSGec(t *testing.T) {
	p := testProvider()
	token := p.generateSecMSGec()
	// SHA256 hex string is 64 chars
	if len(token) != 64 {
		t.Errorf("Expected token length 64, got %d", len(token))
	}
}

func TestDialRequiresSettings(t *testing.T) {
	p := NewProvider(config.EdgeTTSConfig{VoiceID: "x"}, nil)
	if _, err := p.dial(t.Context()); err == nil {
		t.Fatal("expected error for incomplete endpoint settings")
	}
}
