// Package escape prepares text for the Telegram parse modes.
package escape

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Parse modes understood by the Bot API. The empty mode means plain text.
const (
	ModeNone       = ""
	ModeMarkdown   = "Markdown"
	ModeMarkdownV2 = "MarkdownV2"
	ModeHTML       = "HTML"
)

// markdownV2Replacer escapes _ * [ ] ( ) ~ ` > # + - = | { } . !
var markdownV2Replacer = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`~`, `\~`,
	"`", "\\`",
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// markdownReplacer escapes the legacy Markdown set: _ * ` [
var markdownReplacer = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// EscapeMarkdownV2 escapes every MarkdownV2 special character.
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// EscapeMarkdown escapes the legacy Markdown special characters.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// Sanitize converts value to text and escapes it for mode. Nil becomes "".
// HTML and plain text pass through; an unknown mode is logged and passed through.
func Sanitize(value any, mode string) string {
	text := ToString(value)
	if text == "" {
		return ""
	}
	switch mode {
	case ModeMarkdownV2:
		return EscapeMarkdownV2(text)
	case ModeMarkdown:
		return EscapeMarkdown(text)
	case ModeHTML, ModeNone:
		return text
	default:
		slog.Warn("unknown parse_mode, returning text as-is", "parse_mode", mode)
		return text
	}
}

// ToString renders a payload value the way it should appear in a message.
// Floats use the shortest representation (99.99, not 99.990000), so a JSON
// 1.0 prints as 1. Booleans print as true and false, the JSON spelling.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatLink renders a clickable link for mode. Text and URL are not escaped.
func FormatLink(text, url, mode string) string {
	if text == "" || url == "" {
		return text
	}
	switch mode {
	case ModeHTML:
		return `<a href="` + url + `">` + text + `</a>`
	case ModeMarkdown, ModeMarkdownV2:
		return "[" + text + "](" + url + ")"
	default:
		return text + " (" + url + ")"
	}
}

// ValidParseMode reports whether mode is a Bot API parse mode.
func ValidParseMode(mode string) bool {
	switch mode {
	case ModeMarkdown, ModeMarkdownV2, ModeHTML:
		return true
	}
	return false
}

var usernamePattern = regexp.MustCompile(`^@[A-Za-z0-9_]+$`)

// ValidChatID reports whether id is an integer or an @username.
func ValidChatID(id string) bool {
	if usernamePattern.MatchString(id) {
		return true
	}
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}

// CheckChatID returns a human-readable warning for a suspicious chat id,
// or "" when it looks fine.
func CheckChatID(id string) string {
	if !ValidChatID(id) {
		return fmt.Sprintf("chat_id %q is neither an integer nor an @username", id)
	}
	if !strings.HasPrefix(id, "-") && !strings.HasPrefix(id, "@") && len(id) >= 13 {
		return fmt.Sprintf("chat_id %s looks like a channel id without its prefix; did you mean -100%s?", id, id)
	}
	return ""
}
