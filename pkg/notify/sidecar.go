package notify

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// sidecarPayload is the on-disk shape of the JSON sidecar.
type sidecarPayload struct {
	SafeOrDanger string `json:"safe_or_danger"`
	AudioBase64  string `json:"audio_base64,omitempty"`
}

// Sidecar writes the machine-readable result file. The file is
// overwritten on every run so consumers always see the latest verdict.
type Sidecar struct {
	path string
}

// NewSidecar creates a Sidecar writing to path.
func NewSidecar(path string) *Sidecar {
	return &Sidecar{path: path}
}

// Write persists the verdict and, when audioPath is set and readable,
// the base64-encoded audio. An unreadable audio file is logged and the
// key omitted; the sidecar itself is still written.
func (s *Sidecar) Write(verdict, audioPath string) error {
	payload := sidecarPayload{SafeOrDanger: verdict}

	if audioPath != "" {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			slog.Warn("Sidecar: audio unreadable, omitting", "path", audioPath, "error", err)
		} else {
			payload.AudioBase64 = base64.StdEncoding.EncodeToString(data)
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sidecar: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	slog.Info("Sidecar: written", "path", s.path)
	return nil
}
