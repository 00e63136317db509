package outbound

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/render"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// AmountError reports an invoice amount template that did not render an integer.
type AmountError struct {
	Field    string
	Rendered string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("outbound: invoice %s rendered %q, want an integer", e.Field, e.Rendered)
}

// InvoiceBuilder renders invoice templates against the request payload.
type InvoiceBuilder struct {
	renderer render.Renderer
}

// NewInvoiceBuilder creates an InvoiceBuilder using r.
func NewInvoiceBuilder(r render.Renderer) *InvoiceBuilder {
	return &InvoiceBuilder{renderer: r}
}

// Build renders inv for chatID. Text fields are rendered; amounts given as
// templates must render to integers.
func (b *InvoiceBuilder) Build(chatID string, inv *config.InvoiceConfig, data map[string]any, markup telegram.ReplyMarkup) (telegram.SendInvoiceRequest, error) {
	var firstErr error
	text := func(tmpl string) string {
		out, err := b.renderer.Render(tmpl, data)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return out
	}
	amount := func(field string, v config.IntOrTemplate) int {
		n, err := b.amount(field, v, data)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return n
	}

	req := telegram.SendInvoiceRequest{
		ChatID:                    chatID,
		Title:                     text(inv.Title),
		Description:               text(inv.Description),
		Payload:                   text(inv.Payload),
		ProviderToken:             inv.ProviderToken,
		Currency:                  inv.Currency,
		StartParameter:            inv.StartParameter,
		ProviderData:              inv.ProviderData,
		PhotoURL:                  text(inv.PhotoURL),
		PhotoSize:                 inv.PhotoSize,
		PhotoWidth:                inv.PhotoWidth,
		PhotoHeight:               inv.PhotoHeight,
		NeedName:                  inv.NeedName,
		NeedPhoneNumber:           inv.NeedPhoneNumber,
		NeedEmail:                 inv.NeedEmail,
		NeedShippingAddress:       inv.NeedShippingAddress,
		SendPhoneNumberToProvider: inv.SendPhoneNumberToProvider,
		SendEmailToProvider:       inv.SendEmailToProvider,
		IsFlexible:                inv.IsFlexible,
		ReplyMarkup:               markup,
	}

	req.Prices = make([]telegram.LabeledPrice, 0, len(inv.Prices))
	for i, p := range inv.Prices {
		req.Prices = append(req.Prices, telegram.LabeledPrice{
			Label:  text(p.Label),
			Amount: amount(fmt.Sprintf("prices[%d].amount", i), p.Amount),
		})
	}
	if inv.MaxTipAmount != nil {
		n := amount("max_tip_amount", *inv.MaxTipAmount)
		req.MaxTipAmount = &n
	}
	for i, tip := range inv.SuggestedTipAmounts {
		req.SuggestedTipAmounts = append(req.SuggestedTipAmounts, amount(fmt.Sprintf("suggested_tip_amounts[%d]", i), tip))
	}

	if firstErr != nil {
		return telegram.SendInvoiceRequest{}, firstErr
	}
	return req, nil
}

func (b *InvoiceBuilder) amount(field string, v config.IntOrTemplate, data map[string]any) (int, error) {
	if !v.IsTemplate() {
		return v.Value, nil
	}
	out, err := b.renderer.Render(v.Template, data)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, &AmountError{Field: field, Rendered: out}
	}
	return n, nil
}
