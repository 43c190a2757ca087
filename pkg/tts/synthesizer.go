package tts

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"safescout/pkg/audio"
)

// Synthesizer turns the assessment summary into a speech file at a
// fixed output path. Absence of audio is a valid outcome: a blank
// summary or any synthesis failure yields an empty path, never an
// error, and the run continues without audio.
type Synthesizer struct {
	provider Provider
	voice    string
	output   string
}

// NewSynthesizer creates a Synthesizer writing to output. The voice is
// passed through to the engine.
func NewSynthesizer(p Provider, voice, output string) *Synthesizer {
	return &Synthesizer{provider: p, voice: voice, output: output}
}

// Render synthesizes summary and returns the audio file path, or an
// empty string when no audio was produced. The output file is
// overwritten on every call.
func (s *Synthesizer) Render(ctx context.Context, summary string) string {
	if strings.TrimSpace(summary) == "" {
		slog.Warn("TTS: summary is blank, skipping audio")
		return ""
	}
	if s.provider == nil {
		slog.Warn("TTS: no engine configured, skipping audio")
		return ""
	}

	format, err := s.provider.Synthesize(ctx, summary, s.voice, s.output)
	if err != nil {
		slog.Warn("TTS: synthesis failed", "error", err)
		return ""
	}

	info, err := os.Stat(s.output)
	if err != nil {
		slog.Warn("TTS: output file missing after synthesis", "path", s.output, "error", err)
		return ""
	}
	if info.Size() < MinAudioSize {
		slog.Warn("TTS: output suspiciously small, discarding", "path", s.output, "size", info.Size())
		return ""
	}

	if d, err := audio.GetDuration(s.output); err == nil {
		slog.Info("TTS: audio ready", "path", s.output, "format", format, "duration", d.Round(100*time.Millisecond))
	} else {
		slog.Info("TTS: audio ready", "path", s.output, "format", format, "size", info.Size())
	}
	return s.output
}
