package keyboard

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	r, err := render.New(16)
	if err != nil {
		t.Fatal(err)
	}
	return New(r)
}

func ptr[T any](v T) *T { return &v }

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestInline_Serialization(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	rows := [][]config.ButtonConfig{
		{{Text: "Pay {{ amount }} XTR", Pay: true}},
		{{Text: "Open", URL: "https://example.com"}, {Text: "Ack", CallbackData: "ack"}},
		{{Text: "Share", SwitchInlineQuery: ptr("")}, {Text: "Here", SwitchInlineQueryCurrentChat: ptr("q")}},
		{{Text: "App", WebApp: "https://app.example.com"}, {Text: "Copy", CopyText: "CODE-1"}},
		{{Text: "Login", LoginURL: &config.LoginURLConfig{URL: "https://login", RequestWriteAccess: ptr(true)}}},
		{{Text: "Pick", SwitchInlineQueryChosenChat: &config.SwitchInlineQueryChosenChatConfig{AllowUserChats: ptr(true)}}},
	}

	markup, err := b.Inline(rows, map[string]any{"amount": 100})
	if err != nil {
		t.Fatalf("Inline() error: %v", err)
	}

	want := `{"inline_keyboard":[` +
		"[{\"text\":\"Pay 100 \u2b50\",\"pay\":true}]," +
		`[{"text":"Open","url":"https://example.com"},{"text":"Ack","callback_data":"ack"}],` +
		`[{"text":"Share","switch_inline_query":""},{"text":"Here","switch_inline_query_current_chat":"q"}],` +
		`[{"text":"App","web_app":{"url":"https://app.example.com"}},{"text":"Copy","copy_text":{"text":"CODE-1"}}],` +
		`[{"text":"Login","login_url":{"url":"https://login","request_write_access":true}}],` +
		`[{"text":"Pick","switch_inline_query_chosen_chat":{"allow_user_chats":true}}]]}`

	got := mustJSON(t, markup)
	if got != want {
		t.Errorf("JSON =\n%s\nwant\n%s", got, want)
	}

	again, err := b.Inline(rows, map[string]any{"amount": 100})
	if err != nil {
		t.Fatal(err)
	}
	if mustJSON(t, again) != got {
		t.Error("serialization is not deterministic")
	}
}

func TestInline_CallbackGameSerializesEmptyObject(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	markup, err := b.Inline([][]config.ButtonConfig{{{Text: "Play", CallbackGame: true}}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"inline_keyboard":[[{"text":"Play","callback_game":{}}]]}`
	if got := mustJSON(t, markup); got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestInline_Placement(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)
	link := config.ButtonConfig{Text: "x", URL: "https://x"}

	tests := []struct {
		name    string
		rows    [][]config.ButtonConfig
		wantErr bool
	}{
		{"pay first", [][]config.ButtonConfig{{{Text: "Pay", Pay: true}, link}}, false},
		{"game first", [][]config.ButtonConfig{{{Text: "Play", CallbackGame: true}}, {link}}, false},
		{"pay second in row", [][]config.ButtonConfig{{link, {Text: "Pay", Pay: true}}}, true},
		{"pay in second row", [][]config.ButtonConfig{{link}, {{Text: "Pay", Pay: true}}}, true},
		{"game in second row", [][]config.ButtonConfig{{link}, {{Text: "Play", CallbackGame: true}}}, true},
		{"pay first and again later", [][]config.ButtonConfig{{{Text: "Pay", Pay: true}}, {{Text: "Pay", Pay: true}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := b.Inline(tt.rows, nil)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestStarGlyphs(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"Pay 50 XTR", "Pay 50 \u2b50"},
		{"Pay \u2b50\ufe0f 50", "Pay \u2b50 50"},
		{"Pay \u2b50 50", "Pay \u2b50 50"},
		{"Pay $5", "Pay $5"},
	}
	for _, tt := range tests {
		if got := starGlyphs(tt.in); got != tt.want {
			t.Errorf("starGlyphs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInline_NoRows(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	tests := []struct {
		name string
		rows [][]config.ButtonConfig
		data map[string]any
	}{
		{"nil rows", nil, map[string]any{"a": 1}},
		{"empty rows", [][]config.ButtonConfig{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			markup, err := b.Inline(tt.rows, tt.data)
			if err != nil {
				t.Fatalf("Inline() error: %v", err)
			}
			if markup != nil {
				t.Errorf("Inline() = %+v, want nil", markup)
			}
		})
	}
}

func TestInline_TextLiteralWithoutContext(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)
	markup, err := b.Inline([][]config.ButtonConfig{{{Text: "Hi {{ name }}", CallbackData: "hi"}}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := markup.InlineKeyboard[0][0].Text; got != "Hi {{ name }}" {
		t.Errorf("Text = %q, want literal", got)
	}
}

func TestInline_RendersActionFields(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	rows := [][]config.ButtonConfig{
		{{Text: "Open", URL: "https://shop/orders/{{ id }}"}},
		{{Text: "Ack", CallbackData: "ack:{{ id }}"}, {Text: "Copy", CopyText: "order {{ id }}"}},
		{{Text: "Any", SwitchInlineQuery: ptr("")}, {Text: "Find", SwitchInlineQueryCurrentChat: ptr("#{{ id }}")}},
	}
	markup, err := b.Inline(rows, map[string]any{"id": "A7"})
	if err != nil {
		t.Fatal(err)
	}

	want := `{"inline_keyboard":[` +
		`[{"text":"Open","url":"https://shop/orders/A7"}],` +
		`[{"text":"Ack","callback_data":"ack:A7"},{"text":"Copy","copy_text":{"text":"order A7"}}],` +
		`[{"text":"Any","switch_inline_query":""},{"text":"Find","switch_inline_query_current_chat":"#A7"}]]}`
	if got := mustJSON(t, markup); got != want {
		t.Errorf("JSON =\n%s\nwant\n%s", got, want)
	}
}

func TestReply(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	cfg := &config.ReplyKeyboardConfig{
		Keyboard: [][]config.KeyboardCell{
			{{Text: "Yes"}, {Text: "No"}},
			{{Text: "Where", RequestLocation: ptr(true)}, {Text: "Quiz", RequestPoll: &config.PollTypeConfig{Type: "quiz"}}},
		},
		ResizeKeyboard:        ptr(true),
		InputFieldPlaceholder: ptr("Reply to {{ name }}"),
	}

	markup, err := b.Reply(cfg, map[string]any{"name": "Amy"})
	if err != nil {
		t.Fatalf("Reply() error: %v", err)
	}
	want := `{"keyboard":[[{"text":"Yes"},{"text":"No"}],` +
		`[{"text":"Where","request_location":true},{"text":"Quiz","request_poll":{"type":"quiz"}}]],` +
		`"resize_keyboard":true,"input_field_placeholder":"Reply to Amy"}`
	if got := mustJSON(t, markup); got != want {
		t.Errorf("JSON =\n%s\nwant\n%s", got, want)
	}
}

func TestRemoveAndForceReply(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	if got := mustJSON(t, b.Remove(&config.ReplyKeyboardRemoveConfig{Selective: ptr(true)})); got != `{"remove_keyboard":true,"selective":true}` {
		t.Errorf("Remove JSON = %s", got)
	}

	fr, err := b.ForceReply(&config.ForceReplyConfig{InputFieldPlaceholder: ptr("")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := mustJSON(t, fr); got != `{"force_reply":true,"input_field_placeholder":""}` {
		t.Errorf("ForceReply JSON = %s", got)
	}
}

func TestForEndpoint_Priority(t *testing.T) {
	t.Parallel()
	b := newBuilder(t)

	buttons := [][]config.ButtonConfig{{{Text: "a", CallbackData: "a"}}}
	reply := &config.ReplyKeyboardConfig{Keyboard: [][]config.KeyboardCell{{{Text: "r"}}}}
	remove := &config.ReplyKeyboardRemoveConfig{}
	force := &config.ForceReplyConfig{}

	tests := []struct {
		name string
		ep   config.EndpointConfig
		want string
	}{
		{"all set", config.EndpointConfig{Buttons: buttons, ReplyKeyboard: reply, ReplyKeyboardRemove: remove, ForceReply: force}, "inline"},
		{"reply over remove", config.EndpointConfig{ReplyKeyboard: reply, ReplyKeyboardRemove: remove, ForceReply: force}, "reply"},
		{"remove over force", config.EndpointConfig{ReplyKeyboardRemove: remove, ForceReply: force}, "remove"},
		{"force only", config.EndpointConfig{ForceReply: force}, "force"},
		{"none", config.EndpointConfig{}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := b.ForEndpoint(tt.ep, nil)
			if err != nil {
				t.Fatal(err)
			}
			var got string
			switch m.(type) {
			case *telegram.InlineKeyboardMarkup:
				got = "inline"
			case *telegram.ReplyKeyboardMarkup:
				got = "reply"
			case *telegram.ReplyKeyboardRemove:
				got = "remove"
			case *telegram.ForceReply:
				got = "force"
			case nil:
				got = "none"
			}
			if got != tt.want {
				t.Errorf("markup = %s, want %s", got, tt.want)
			}
		})
	}
}
