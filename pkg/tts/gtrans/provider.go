// Package gtrans implements tts.Provider on the Google Translate
// speech frontend. No API key is needed; the endpoint caps the text
// length per request, so long summaries are synthesized in chunks and
// the MP3 segments concatenated.
package gtrans

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"safescout/pkg/request"
	"safescout/pkg/tts"
)

const (
	endpoint = "https://translate.google.com/translate_tts"

	// maxChunkRunes is the longest text fragment the endpoint accepts
	// reliably per request.
	maxChunkRunes = 200
)

// Provider implements tts.Provider for the Translate TTS endpoint.
type Provider struct {
	client *request.Client
}

// NewProvider creates a Translate TTS provider on top of the shared
// request client, which serializes and retries the calls.
func NewProvider(c *request.Client) *Provider {
	return &Provider{client: c}
}

// Synthesize generates an .mp3 file. The voice parameter is the
// language code ("en", "en-US").
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	if voice == "" {
		return "", fmt.Errorf("language code is required")
	}

	chunks := splitChunks(text, maxChunkRunes)
	if len(chunks) == 0 {
		return "", fmt.Errorf("no text to synthesize")
	}

	var audio []byte
	for i, chunk := range chunks {
		data, err := p.fetchChunk(ctx, chunk, voice, i, len(chunks))
		if err != nil {
			tts.Log("GTRANS", text, 0, err)
			return "", fmt.Errorf("chunk %d/%d failed: %w", i+1, len(chunks), err)
		}
		audio = append(audio, data...)
	}
	tts.Log("GTRANS", text, 200, nil)

	fullPath := outputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".mp3") {
		fullPath += ".mp3"
	}
	if err := os.WriteFile(fullPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return "mp3", nil
}

func (p *Provider) fetchChunk(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)
	q.Set("textlen", fmt.Sprintf("%d", len([]rune(chunk))))
	q.Set("idx", fmt.Sprintf("%d", idx))
	q.Set("total", fmt.Sprintf("%d", total))

	headers := map[string]string{
		"Referer":    "https://translate.google.com/",
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
	return p.client.GetWithHeaders(ctx, endpoint+"?"+q.Encode(), headers)
}

// splitChunks breaks text into fragments of at most maxRunes runes,
// preferring whitespace boundaries. Oversized single words are split
// hard.
func splitChunks(text string, maxRunes int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > maxRunes {
			flush()
			chunks = append(chunks, string(runes[:maxRunes]))
			runes = runes[maxRunes:]
		}
		if len(current)+1+len(runes) > maxRunes {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()

	return chunks
}
