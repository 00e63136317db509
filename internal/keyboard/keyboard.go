// Package keyboard turns configured buttons into Bot API reply markup.
package keyboard

import (
	"fmt"
	"strings"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// ValidationError reports a keyboard the Bot API would reject.
type ValidationError struct {
	Row, Col int
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("keyboard: button [%d][%d]: %s", e.Row, e.Col, e.Reason)
}

// Builder renders button labels and assembles markup.
type Builder struct {
	renderer render.Renderer
}

// New creates a Builder rendering labels with r.
func New(r render.Renderer) *Builder {
	return &Builder{renderer: r}
}

// Inline builds an inline keyboard, or returns nil when there are no rows.
// Text is rendered against data when data is non-nil. A pay or
// callback_game button anywhere but the first position of the first row is
// a ValidationError.
func (b *Builder) Inline(rows [][]config.ButtonConfig, data map[string]any) (*telegram.InlineKeyboardMarkup, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	for r, row := range rows {
		for c, btn := range row {
			if r == 0 && c == 0 {
				continue
			}
			if btn.Pay {
				return nil, &ValidationError{Row: r, Col: c, Reason: "pay button must be the first button in the first row"}
			}
			if btn.CallbackGame {
				return nil, &ValidationError{Row: r, Col: c, Reason: "callback_game button must be the first button in the first row"}
			}
		}
	}

	out := make([][]telegram.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			button, err := b.inlineButton(btn, data)
			if err != nil {
				return nil, err
			}
			line = append(line, button)
		}
		out = append(out, line)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: out}, nil
}

// starGlyphs normalizes the Telegram Stars sign in pay button labels.
func starGlyphs(text string) string {
	text = strings.ReplaceAll(text, "\u2b50\ufe0f", "\u2b50")
	return strings.ReplaceAll(text, "XTR", "\u2b50")
}

// fieldRenderer renders several fields of one button and keeps the first error.
type fieldRenderer struct {
	r    render.Renderer
	data map[string]any
	err  error
}

func (f *fieldRenderer) str(tmpl string) string {
	if f.err != nil || tmpl == "" {
		return tmpl
	}
	out, err := f.r.Render(tmpl, f.data)
	if err != nil {
		f.err = err
		return ""
	}
	return out
}

func (f *fieldRenderer) ptr(tmpl *string) *string {
	if tmpl == nil {
		return nil
	}
	out := f.str(*tmpl)
	return &out
}

// inlineButton renders the label and maps the first set action in
// precedence order. Free-text action fields are rendered too.
func (b *Builder) inlineButton(btn config.ButtonConfig, data map[string]any) (telegram.InlineKeyboardButton, error) {
	f := &fieldRenderer{r: b.renderer, data: data}

	text := f.str(btn.Text)
	if btn.Pay {
		text = starGlyphs(text)
	}
	out := telegram.InlineKeyboardButton{Text: text}

	switch {
	case btn.URL != "":
		out.URL = f.str(btn.URL)
	case btn.CallbackData != "":
		out.CallbackData = f.str(btn.CallbackData)
	case btn.WebApp != "":
		out.WebApp = &telegram.WebAppInfo{URL: f.str(btn.WebApp)}
	case btn.LoginURL != nil:
		out.LoginURL = &telegram.LoginURL{
			URL:                f.str(btn.LoginURL.URL),
			ForwardText:        f.str(btn.LoginURL.ForwardText),
			BotUsername:        btn.LoginURL.BotUsername,
			RequestWriteAccess: btn.LoginURL.RequestWriteAccess,
		}
	case btn.SwitchInlineQuery != nil:
		out.SwitchInlineQuery = f.ptr(btn.SwitchInlineQuery)
	case btn.SwitchInlineQueryCurrentChat != nil:
		out.SwitchInlineQueryCurrentChat = f.ptr(btn.SwitchInlineQueryCurrentChat)
	case btn.SwitchInlineQueryChosenChat != nil:
		sc := btn.SwitchInlineQueryChosenChat
		out.SwitchInlineQueryChosenChat = &telegram.SwitchInlineQueryChosenChat{
			Query:             f.ptr(sc.Query),
			AllowUserChats:    sc.AllowUserChats,
			AllowBotChats:     sc.AllowBotChats,
			AllowGroupChats:   sc.AllowGroupChats,
			AllowChannelChats: sc.AllowChannelChats,
		}
	case btn.CopyText != "":
		out.CopyText = &telegram.CopyTextButton{Text: f.str(btn.CopyText)}
	case btn.CallbackGame:
		out.CallbackGame = &telegram.CallbackGame{}
	case btn.Pay:
		out.Pay = true
	}

	if f.err != nil {
		return telegram.InlineKeyboardButton{}, fmt.Errorf("keyboard: rendering button %q: %w", btn.Text, f.err)
	}
	return out, nil
}

// Reply builds a reply keyboard. Button texts and the placeholder are rendered.
func (b *Builder) Reply(cfg *config.ReplyKeyboardConfig, data map[string]any) (*telegram.ReplyKeyboardMarkup, error) {
	rows := make([][]telegram.KeyboardButton, 0, len(cfg.Keyboard))
	for _, row := range cfg.Keyboard {
		line := make([]telegram.KeyboardButton, 0, len(row))
		for _, cell := range row {
			text, err := b.renderer.Render(cell.Text, data)
			if err != nil {
				return nil, fmt.Errorf("keyboard: rendering reply button: %w", err)
			}
			kb := telegram.KeyboardButton{
				Text:            text,
				RequestContact:  cell.RequestContact,
				RequestLocation: cell.RequestLocation,
			}
			if cell.RequestPoll != nil {
				kb.RequestPoll = &telegram.KeyboardButtonPollType{Type: cell.RequestPoll.Type}
			}
			if cell.WebApp != "" {
				kb.WebApp = &telegram.WebAppInfo{URL: cell.WebApp}
			}
			line = append(line, kb)
		}
		rows = append(rows, line)
	}

	placeholder, err := b.placeholder(cfg.InputFieldPlaceholder, data)
	if err != nil {
		return nil, err
	}
	return &telegram.ReplyKeyboardMarkup{
		Keyboard:              rows,
		IsPersistent:          cfg.IsPersistent,
		ResizeKeyboard:        cfg.ResizeKeyboard,
		OneTimeKeyboard:       cfg.OneTimeKeyboard,
		InputFieldPlaceholder: placeholder,
		Selective:             cfg.Selective,
	}, nil
}

// Remove builds a ReplyKeyboardRemove.
func (b *Builder) Remove(cfg *config.ReplyKeyboardRemoveConfig) *telegram.ReplyKeyboardRemove {
	return &telegram.ReplyKeyboardRemove{RemoveKeyboard: true, Selective: cfg.Selective}
}

// ForceReply builds a ForceReply with a rendered placeholder.
func (b *Builder) ForceReply(cfg *config.ForceReplyConfig, data map[string]any) (*telegram.ForceReply, error) {
	placeholder, err := b.placeholder(cfg.InputFieldPlaceholder, data)
	if err != nil {
		return nil, err
	}
	return &telegram.ForceReply{
		ForceReply:            true,
		InputFieldPlaceholder: placeholder,
		Selective:             cfg.Selective,
	}, nil
}

func (b *Builder) placeholder(tmpl *string, data map[string]any) (*string, error) {
	if tmpl == nil {
		return nil, nil
	}
	out, err := b.renderer.Render(*tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("keyboard: rendering placeholder: %w", err)
	}
	return &out, nil
}

// ForEndpoint picks the endpoint's markup: buttons, then reply keyboard,
// then keyboard removal, then force reply. It returns nil when none is set.
func (b *Builder) ForEndpoint(ep config.EndpointConfig, data map[string]any) (telegram.ReplyMarkup, error) {
	switch {
	case len(ep.Buttons) > 0:
		m, err := b.Inline(ep.Buttons, data)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ep.ReplyKeyboard != nil:
		m, err := b.Reply(ep.ReplyKeyboard, data)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ep.ReplyKeyboardRemove != nil:
		return b.Remove(ep.ReplyKeyboardRemove), nil
	case ep.ForceReply != nil:
		m, err := b.ForceReply(ep.ForceReply, data)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, nil
}
