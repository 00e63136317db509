package telegram

// Bot API method names.
const (
	MethodSendMessage         = "sendMessage"
	MethodSendPhoto           = "sendPhoto"
	MethodSendMediaGroup      = "sendMediaGroup"
	MethodSendDocument        = "sendDocument"
	MethodSendVideo           = "sendVideo"
	MethodSendAudio           = "sendAudio"
	MethodSendVoice           = "sendVoice"
	MethodSendLocation        = "sendLocation"
	MethodSendInvoice         = "sendInvoice"
	MethodSetWebhook          = "setWebhook"
	MethodDeleteWebhook       = "deleteWebhook"
	MethodGetWebhookInfo      = "getWebhookInfo"
	MethodAnswerCallbackQuery = "answerCallbackQuery"
)

// MaxMediaGroup is the largest album the Bot API accepts.
const MaxMediaGroup = 10

// SendRequest is an outbound message ready to be posted to the Bot API.
type SendRequest interface {
	Method() string
}

// SendMessageRequest is the request body for the sendMessage method.
type SendMessageRequest struct {
	ChatID      string      `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendPhotoRequest is the request body for the sendPhoto method.
type SendPhotoRequest struct {
	ChatID      string      `json:"chat_id"`
	Photo       string      `json:"photo"`
	Caption     string      `json:"caption,omitempty"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup ReplyMarkup `json:"reply_markup,omitempty"`
}

// InputMediaPhoto is one photo of a media group.
type InputMediaPhoto struct {
	Type      string `json:"type"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// SendMediaGroupRequest is the request body for the sendMediaGroup method.
// The Bot API does not accept reply markup on albums.
type SendMediaGroupRequest struct {
	ChatID string            `json:"chat_id"`
	Media  []InputMediaPhoto `json:"media"`
}

// SendDocumentRequest is the request body for the sendDocument method.
type SendDocumentRequest struct {
	ChatID      string      `json:"chat_id"`
	Document    string      `json:"document"`
	Caption     string      `json:"caption,omitempty"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	Filename    string      `json:"filename,omitempty"`
	ReplyMarkup ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendVideoRequest is the request body for the sendVideo method.
type SendVideoRequest struct {
	ChatID            string      `json:"chat_id"`
	Video             string      `json:"video"`
	Caption           string      `json:"caption,omitempty"`
	ParseMode         string      `json:"parse_mode,omitempty"`
	Thumbnail         string      `json:"thumbnail,omitempty"`
	Width             *int        `json:"width,omitempty"`
	Height            *int        `json:"height,omitempty"`
	Duration          *int        `json:"duration,omitempty"`
	SupportsStreaming *bool       `json:"supports_streaming,omitempty"`
	ReplyMarkup       ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendAudioRequest is the request body for the sendAudio method.
type SendAudioRequest struct {
	ChatID      string      `json:"chat_id"`
	Audio       string      `json:"audio"`
	Caption     string      `json:"caption,omitempty"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Performer   string      `json:"performer,omitempty"`
	Title       string      `json:"title,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	ReplyMarkup ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendVoiceRequest is the request body for the sendVoice method.
type SendVoiceRequest struct {
	ChatID      string      `json:"chat_id"`
	Voice       string      `json:"voice"`
	Caption     string      `json:"caption,omitempty"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	ReplyMarkup ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendLocationRequest is the request body for the sendLocation method.
type SendLocationRequest struct {
	ChatID               string      `json:"chat_id"`
	Latitude             float64     `json:"latitude"`
	Longitude            float64     `json:"longitude"`
	HorizontalAccuracy   *float64    `json:"horizontal_accuracy,omitempty"`
	LivePeriod           *int        `json:"live_period,omitempty"`
	Heading              *int        `json:"heading,omitempty"`
	ProximityAlertRadius *int        `json:"proximity_alert_radius,omitempty"`
	ReplyMarkup          ReplyMarkup `json:"reply_markup,omitempty"`
}

// LabeledPrice is an invoice line item in the smallest currency unit.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// SendInvoiceRequest is the request body for the sendInvoice method.
// ProviderToken is always sent; it is empty for Telegram Stars.
type SendInvoiceRequest struct {
	ChatID                    string         `json:"chat_id"`
	Title                     string         `json:"title"`
	Description               string         `json:"description"`
	Payload                   string         `json:"payload"`
	ProviderToken             string         `json:"provider_token"`
	Currency                  string         `json:"currency"`
	Prices                    []LabeledPrice `json:"prices"`
	MaxTipAmount              *int           `json:"max_tip_amount,omitempty"`
	SuggestedTipAmounts       []int          `json:"suggested_tip_amounts,omitempty"`
	StartParameter            string         `json:"start_parameter,omitempty"`
	ProviderData              string         `json:"provider_data,omitempty"`
	PhotoURL                  string         `json:"photo_url,omitempty"`
	PhotoSize                 *int           `json:"photo_size,omitempty"`
	PhotoWidth                *int           `json:"photo_width,omitempty"`
	PhotoHeight               *int           `json:"photo_height,omitempty"`
	NeedName                  *bool          `json:"need_name,omitempty"`
	NeedPhoneNumber           *bool          `json:"need_phone_number,omitempty"`
	NeedEmail                 *bool          `json:"need_email,omitempty"`
	NeedShippingAddress       *bool          `json:"need_shipping_address,omitempty"`
	SendPhoneNumberToProvider *bool          `json:"send_phone_number_to_provider,omitempty"`
	SendEmailToProvider       *bool          `json:"send_email_to_provider,omitempty"`
	IsFlexible                *bool          `json:"is_flexible,omitempty"`
	ReplyMarkup               ReplyMarkup    `json:"reply_markup,omitempty"`
}

// SetWebhookRequest is the request body for the setWebhook method.
type SetWebhookRequest struct {
	URL            string   `json:"url"`
	SecretToken    string   `json:"secret_token,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// DeleteWebhookRequest is the request body for the deleteWebhook method.
type DeleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates,omitempty"`
}

// AnswerCallbackQueryRequest is the request body for the answerCallbackQuery method.
type AnswerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

func (SendMessageRequest) Method() string    { return MethodSendMessage }
func (SendPhotoRequest) Method() string      { return MethodSendPhoto }
func (SendMediaGroupRequest) Method() string { return MethodSendMediaGroup }
func (SendDocumentRequest) Method() string   { return MethodSendDocument }
func (SendVideoRequest) Method() string      { return MethodSendVideo }
func (SendAudioRequest) Method() string      { return MethodSendAudio }
func (SendVoiceRequest) Method() string      { return MethodSendVoice }
func (SendLocationRequest) Method() string   { return MethodSendLocation }
func (SendInvoiceRequest) Method() string    { return MethodSendInvoice }
