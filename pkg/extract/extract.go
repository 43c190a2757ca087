// Package extract coerces free-text generator output into a structured
// result. This is the most failure-prone boundary in the system: the
// upstream model promises a JSON object but frequently wraps it in
// markdown fences or returns prose. Every function here is total: for
// any input string the caller gets a usable (possibly fallback) result,
// never a panic or an error.
package extract

import (
	"encoding/json"
	"strings"
)

const (
	fenceOpen = "```json"
	fence     = "```"
)

// Result is the outcome of parsing raw generator output. Accessors
// return their named defaults when parsing failed or a key is absent,
// so a structurally valid but incomplete object degrades per-field.
type Result struct {
	// OK is false when the whole-object fallback applies.
	OK bool
	// Reason holds the parse failure detail when OK is false.
	Reason string

	fields map[string]any
}

// Fenced returns the candidate JSON substring of raw: the text between
// the first ```json marker and the following fence. Without a marker the
// entire input is the candidate; without a closing fence, the remainder
// after the marker is.
func Fenced(raw string) string {
	start := strings.Index(raw, fenceOpen)
	if start == -1 {
		return strings.TrimSpace(raw)
	}

	rest := raw[start+len(fenceOpen):]
	if end := strings.Index(rest, fence); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// Object parses the JSON object embedded in raw.
func Object(raw string) Result {
	candidate := Fenced(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return Result{Reason: err.Error()}
	}

	return Result{OK: true, fields: fields}
}

// String returns the string value under key, or def when the key is
// missing, the value has a different type, or parsing failed.
func (r Result) String(key, def string) string {
	v, ok := r.fields[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// StringList returns the string entries under key, or an empty list when
// the key is missing, not a list, or parsing failed. Non-string entries
// are skipped.
func (r Result) StringList(key string) []string {
	v, ok := r.fields[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
