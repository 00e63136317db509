package outbound

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestText_Escapes(t *testing.T) {
	t.Parallel()
	req := Text("1", "Total: 99.99!", "MarkdownV2", nil)
	if req.Text != `Total: 99\.99\!` {
		t.Errorf("Text = %q", req.Text)
	}
	if got := mustJSON(t, req); got != `{"chat_id":"1","text":"Total: 99\\.99\\!","parse_mode":"MarkdownV2"}` {
		t.Errorf("JSON = %s", got)
	}
}

func TestMediaGroup(t *testing.T) {
	t.Parallel()

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img/%d.jpg", i)
	}
	req := MediaGroup(Common{ChatID: "1", Caption: "a.b", ParseMode: "MarkdownV2"}, urls)

	if len(req.Media) != telegram.MaxMediaGroup {
		t.Fatalf("len(Media) = %d, want %d", len(req.Media), telegram.MaxMediaGroup)
	}
	if req.Media[0].Caption != `a\.b` || req.Media[0].ParseMode != "MarkdownV2" {
		t.Errorf("first item = %+v", req.Media[0])
	}
	for i, m := range req.Media[1:] {
		if m.Caption != "" || m.ParseMode != "" {
			t.Errorf("item %d carries caption %q / mode %q", i+1, m.Caption, m.ParseMode)
		}
		if m.Type != "photo" {
			t.Errorf("item %d type = %q", i+1, m.Type)
		}
	}
}

func TestVideo_OmitsUnsetOptions(t *testing.T) {
	t.Parallel()
	width := 640
	req := Video(Common{ChatID: "1"}, "https://v.mp4", VideoOptions{Width: &width, Thumbnail: "https://t.jpg"})
	want := `{"chat_id":"1","video":"https://v.mp4","thumbnail":"https://t.jpg","width":640}`
	if got := mustJSON(t, req); got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()
	acc := 5.5
	req := Location("1", 48.85, 2.35, LocationOptions{HorizontalAccuracy: &acc}, nil)
	want := `{"chat_id":"1","latitude":48.85,"longitude":2.35,"horizontal_accuracy":5.5}`
	if got := mustJSON(t, req); got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func newInvoiceBuilder(t *testing.T) *InvoiceBuilder {
	t.Helper()
	r, err := render.New(8)
	if err != nil {
		t.Fatal(err)
	}
	return NewInvoiceBuilder(r)
}

func TestInvoice_RendersTemplates(t *testing.T) {
	t.Parallel()
	b := newInvoiceBuilder(t)

	tip := config.IntOrTemplate{Template: "{{ tip }}"}
	inv := &config.InvoiceConfig{
		Title:       "Order {{ order_id }}",
		Description: "Thanks {{ name }}",
		Payload:     "order-{{ order_id }}",
		Currency:    "XTR",
		Prices: []config.LabeledPriceConfig{
			{Label: "Total", Amount: config.IntOrTemplate{Template: "{{ total|int }}"}},
			{Label: "Fee", Amount: config.IntOrTemplate{Value: 5}},
		},
		MaxTipAmount: &tip,
	}
	data := map[string]any{"order_id": "A1", "name": "Amy", "total": 150.0, "tip": 20}

	req, err := b.Build("1", inv, data, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := `{"chat_id":"1","title":"Order A1","description":"Thanks Amy","payload":"order-A1",` +
		`"provider_token":"","currency":"XTR","prices":[{"label":"Total","amount":150},{"label":"Fee","amount":5}],` +
		`"max_tip_amount":20}`
	if got := mustJSON(t, req); got != want {
		t.Errorf("JSON =\n%s\nwant\n%s", got, want)
	}
}

func TestInvoice_NonNumericAmount(t *testing.T) {
	t.Parallel()
	b := newInvoiceBuilder(t)

	inv := &config.InvoiceConfig{
		Title:    "t",
		Currency: "XTR",
		Prices:   []config.LabeledPriceConfig{{Label: "x", Amount: config.IntOrTemplate{Template: "{{ total }}"}}},
	}
	_, err := b.Build("1", inv, map[string]any{"total": "lots"}, nil)

	var amountErr *AmountError
	if !errors.As(err, &amountErr) {
		t.Fatalf("error = %v, want *AmountError", err)
	}
	if amountErr.Field != "prices[0].amount" || amountErr.Rendered != "lots" {
		t.Errorf("AmountError = %+v", amountErr)
	}
}
