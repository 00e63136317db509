package render

import "testing"

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(8)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestRender(t *testing.T) {
	t.Parallel()
	e := newEngine(t)

	tests := []struct {
		name string
		tmpl string
		data map[string]any
		want string
	}{
		{"substitution", "Hi {{first_name}}", map[string]any{"first_name": "Amy"}, "Hi Amy"},
		{"spaces", "Order {{ order_id }} paid", map[string]any{"order_id": "A-1"}, "Order A-1 paid"},
		{"missing variable", "Hi {{ name }}!", map[string]any{"other": 1}, "Hi !"},
		{"nested", "{{ user.first_name }}", map[string]any{"user": map[string]any{"first_name": "Bo"}}, "Bo"},
		{"no autoescape", "{{ html }}", map[string]any{"html": "<b>x</b>"}, "<b>x</b>"},
		{"int filter float", "{{ total|int }}", map[string]any{"total": 12.9}, "12"},
		{"int filter string", "{{ total|int }}", map[string]any{"total": "250"}, "250"},
		{"link filter", "{{ title|link:url }}", map[string]any{"title": "Docs", "url": "https://x.io"}, "Docs (https://x.io)"},
		{"nil context literal", "Hi {{first_name}}", nil, "Hi {{first_name}}"},
		{"empty context renders", "Hi {{first_name}}", map[string]any{}, "Hi "},
		{"non-identifier keys ignored", "Hello {{ name }}", map[string]any{"name": "Amy", "event-type": "push", "@timestamp": "t", "X-Id": 1}, "Hello Amy"},
		{"no placeholders", "static", map[string]any{"a": 1}, "static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Render(tt.tmpl, tt.data)
			if err != nil {
				t.Fatalf("Render(%q) error: %v", tt.tmpl, err)
			}
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestRender_CachesCompiledTemplates(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	data := map[string]any{"n": 1}

	for range 3 {
		if _, err := e.Render("n={{ n }}", data); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.cache.Len(); got != 1 {
		t.Errorf("cache.Len() = %d, want 1", got)
	}
}

func TestRender_SyntaxError(t *testing.T) {
	t.Parallel()
	e := newEngine(t)
	if _, err := e.Render("{{ unclosed", map[string]any{"a": 1}); err == nil {
		t.Fatal("expected compile error")
	}
}
