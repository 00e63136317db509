package formatter

import (
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flemzord/tgrelay/internal/escape"
)

func init() {
	Register("plain", Func(formatPlain))
	Register("markdown", Func(formatMarkdown))
}

// routingFields steer delivery and are never printed.
var routingFields = map[string]bool{
	"chat_id":       true,
	"chat_ids":      true,
	"parse_mode":    true,
	"image_url":     true,
	"image_urls":    true,
	"document_url":  true,
	"video_url":     true,
	"audio_url":     true,
	"voice_url":     true,
	"location":      true,
	"thumbnail_url": true,
}

// formatPlain returns the message field when present, else one
// "key: value" line per field in key order.
func formatPlain(payload map[string]any, _ Options) (string, error) {
	if msg, ok := payload["message"]; ok && msg != nil {
		return escape.ToString(msg), nil
	}
	lines := make([]string, 0, len(payload))
	for _, key := range fieldKeys(payload, nil) {
		lines = append(lines, key+": "+value(payload[key]))
	}
	return strings.Join(lines, "\n"), nil
}

// formatMarkdown renders a bold title, the message body, then one
// "*Label*: value" line per remaining field.
func formatMarkdown(payload map[string]any, opts Options) (string, error) {
	var parts []string
	if title := escape.ToString(payload["title"]); title != "" {
		parts = append(parts, "*"+title+"*")
	}
	if msg := escape.ToString(payload["message"]); msg != "" {
		parts = append(parts, msg)
	}

	skip := map[string]bool{"title": true, "message": true}
	var lines []string
	for _, key := range fieldKeys(payload, skip) {
		lines = append(lines, "*"+label(key, opts.Labels)+"*: "+value(payload[key]))
	}
	if len(lines) > 0 {
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n"), nil
}

func fieldKeys(payload map[string]any, skip map[string]bool) []string {
	keys := make([]string, 0, len(payload))
	for k, v := range payload {
		if routingFields[k] || skip[k] || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// label returns the configured label for key, or the key humanized
// ("order_id" becomes "Order Id").
func label(key string, labels map[string]string) string {
	if l, ok := labels[key]; ok && l != "" {
		return l
	}
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// value prints nested objects and lists as JSON.
func value(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}
	return escape.ToString(v)
}
