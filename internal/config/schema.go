package config

import "time"

// Config is the root configuration structure for tgrelay.
type Config struct {
	Bot       BotConfig         `yaml:"bot"`
	Endpoints []EndpointConfig  `yaml:"endpoints"`
	Templates map[string]string `yaml:"templates,omitempty"`
	Callbacks []CallbackConfig  `yaml:"callbacks,omitempty"`
	Commands  []CommandConfig   `yaml:"commands,omitempty"`
	Server    ServerConfig      `yaml:"server"`
	Logging   LoggingConfig     `yaml:"logging"`
	Metrics   MetricsConfig     `yaml:"metrics"`
	Tracing   TracingConfig     `yaml:"tracing"`
}

// BotConfig holds the Telegram Bot API connection settings.
type BotConfig struct {
	Token         string        `yaml:"token"`
	TestMode      bool          `yaml:"test_mode,omitempty"`
	WebhookURL    string        `yaml:"webhook_url,omitempty"`
	WebhookPath   string        `yaml:"webhook_path,omitempty"`
	WebhookSecret string        `yaml:"webhook_secret,omitempty"`
	APIURL        string        `yaml:"api_url,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
}

// EndpointConfig describes one inbound HTTP route and how its payloads
// become Telegram messages.
type EndpointConfig struct {
	Path         string            `yaml:"path"`
	ChatID       string            `yaml:"chat_id,omitempty"`
	ChatIDs      []string          `yaml:"chat_ids,omitempty"`
	Formatter    string            `yaml:"formatter,omitempty"`
	Template     string            `yaml:"template,omitempty"`
	ParseMode    string            `yaml:"parse_mode,omitempty"`
	PluginConfig map[string]any    `yaml:"plugin_config,omitempty"`
	Labels       map[string]string `yaml:"labels,omitempty"`
	FieldMap     map[string]string `yaml:"field_map,omitempty"`

	Buttons             [][]ButtonConfig           `yaml:"buttons,omitempty"`
	ReplyKeyboard       *ReplyKeyboardConfig       `yaml:"reply_keyboard,omitempty"`
	ReplyKeyboardRemove *ReplyKeyboardRemoveConfig `yaml:"reply_keyboard_remove,omitempty"`
	ForceReply          *ForceReplyConfig          `yaml:"force_reply,omitempty"`

	Invoice *InvoiceConfig `yaml:"invoice,omitempty"`
}

// StaticChatIDs returns the configured destinations, chat_id first.
func (e EndpointConfig) StaticChatIDs() []string {
	var ids []string
	if e.ChatID != "" {
		ids = append(ids, e.ChatID)
	}
	return append(ids, e.ChatIDs...)
}

// ButtonConfig is an inline keyboard button. Exactly one action is set.
// The switch_* fields are pointers because an empty query is meaningful.
type ButtonConfig struct {
	Text                         string                             `yaml:"text"`
	URL                          string                             `yaml:"url,omitempty"`
	CallbackData                 string                             `yaml:"callback_data,omitempty"`
	WebApp                       string                             `yaml:"web_app,omitempty"`
	LoginURL                     *LoginURLConfig                    `yaml:"login_url,omitempty"`
	SwitchInlineQuery            *string                            `yaml:"switch_inline_query,omitempty"`
	SwitchInlineQueryCurrentChat *string                            `yaml:"switch_inline_query_current_chat,omitempty"`
	SwitchInlineQueryChosenChat  *SwitchInlineQueryChosenChatConfig `yaml:"switch_inline_query_chosen_chat,omitempty"`
	CopyText                     string                             `yaml:"copy_text,omitempty"`
	CallbackGame                 bool                               `yaml:"callback_game,omitempty"`
	Pay                          bool                               `yaml:"pay,omitempty"`
}

// Actions returns the names of the actions set on the button.
func (b ButtonConfig) Actions() []string {
	var set []string
	add := func(ok bool, name string) {
		if ok {
			set = append(set, name)
		}
	}
	add(b.URL != "", "url")
	add(b.CallbackData != "", "callback_data")
	add(b.WebApp != "", "web_app")
	add(b.LoginURL != nil, "login_url")
	add(b.SwitchInlineQuery != nil, "switch_inline_query")
	add(b.SwitchInlineQueryCurrentChat != nil, "switch_inline_query_current_chat")
	add(b.SwitchInlineQueryChosenChat != nil, "switch_inline_query_chosen_chat")
	add(b.CopyText != "", "copy_text")
	add(b.CallbackGame, "callback_game")
	add(b.Pay, "pay")
	return set
}

// LoginURLConfig configures a login_url button.
type LoginURLConfig struct {
	URL                string `yaml:"url"`
	ForwardText        string `yaml:"forward_text,omitempty"`
	BotUsername        string `yaml:"bot_username,omitempty"`
	RequestWriteAccess *bool  `yaml:"request_write_access,omitempty"`
}

// SwitchInlineQueryChosenChatConfig configures a switch_inline_query_chosen_chat button.
type SwitchInlineQueryChosenChatConfig struct {
	Query             *string `yaml:"query,omitempty"`
	AllowUserChats    *bool   `yaml:"allow_user_chats,omitempty"`
	AllowBotChats     *bool   `yaml:"allow_bot_chats,omitempty"`
	AllowGroupChats   *bool   `yaml:"allow_group_chats,omitempty"`
	AllowChannelChats *bool   `yaml:"allow_channel_chats,omitempty"`
}

// ReplyKeyboardConfig configures a custom reply keyboard.
type ReplyKeyboardConfig struct {
	Keyboard              [][]KeyboardCell `yaml:"keyboard"`
	IsPersistent          *bool            `yaml:"is_persistent,omitempty"`
	ResizeKeyboard        *bool            `yaml:"resize_keyboard,omitempty"`
	OneTimeKeyboard       *bool            `yaml:"one_time_keyboard,omitempty"`
	InputFieldPlaceholder *string          `yaml:"input_field_placeholder,omitempty"`
	Selective             *bool            `yaml:"selective,omitempty"`
}

// PollTypeConfig restricts the poll a request_poll button may create.
type PollTypeConfig struct {
	Type string `yaml:"type,omitempty"`
}

// ReplyKeyboardRemoveConfig hides the current reply keyboard.
type ReplyKeyboardRemoveConfig struct {
	RemoveKeyboard bool  `yaml:"remove_keyboard,omitempty"`
	Selective      *bool `yaml:"selective,omitempty"`
}

// ForceReplyConfig asks the client to show a reply interface.
type ForceReplyConfig struct {
	ForceReply            bool    `yaml:"force_reply,omitempty"`
	InputFieldPlaceholder *string `yaml:"input_field_placeholder,omitempty"`
	Selective             *bool   `yaml:"selective,omitempty"`
}

// InvoiceConfig configures an endpoint that sends payment invoices.
// Templated fields are rendered against the request payload.
type InvoiceConfig struct {
	Title                     string               `yaml:"title"`
	Description               string               `yaml:"description"`
	Payload                   string               `yaml:"payload"`
	Currency                  string               `yaml:"currency"`
	Prices                    []LabeledPriceConfig `yaml:"prices"`
	ProviderToken             string               `yaml:"provider_token,omitempty"`
	MaxTipAmount              *IntOrTemplate       `yaml:"max_tip_amount,omitempty"`
	SuggestedTipAmounts       []IntOrTemplate      `yaml:"suggested_tip_amounts,omitempty"`
	StartParameter            string               `yaml:"start_parameter,omitempty"`
	ProviderData              string               `yaml:"provider_data,omitempty"`
	PhotoURL                  string               `yaml:"photo_url,omitempty"`
	PhotoSize                 *int                 `yaml:"photo_size,omitempty"`
	PhotoWidth                *int                 `yaml:"photo_width,omitempty"`
	PhotoHeight               *int                 `yaml:"photo_height,omitempty"`
	NeedName                  *bool                `yaml:"need_name,omitempty"`
	NeedPhoneNumber           *bool                `yaml:"need_phone_number,omitempty"`
	NeedEmail                 *bool                `yaml:"need_email,omitempty"`
	NeedShippingAddress       *bool                `yaml:"need_shipping_address,omitempty"`
	SendPhoneNumberToProvider *bool                `yaml:"send_phone_number_to_provider,omitempty"`
	SendEmailToProvider       *bool                `yaml:"send_email_to_provider,omitempty"`
	IsFlexible                *bool                `yaml:"is_flexible,omitempty"`
}

// LabeledPriceConfig is one invoice line item in the smallest currency unit.
type LabeledPriceConfig struct {
	Label  string        `yaml:"label"`
	Amount IntOrTemplate `yaml:"amount"`
}

// CallbackConfig maps callback_data to an answer and an optional forward URL.
type CallbackConfig struct {
	Data     string `yaml:"data"`
	Response string `yaml:"response,omitempty"`
	URL      string `yaml:"url,omitempty"`
}

// CommandConfig maps a bot command such as /start to a templated reply.
type CommandConfig struct {
	Command   string           `yaml:"command"`
	Response  string           `yaml:"response"`
	ParseMode string           `yaml:"parse_mode,omitempty"`
	Buttons   [][]ButtonConfig `yaml:"buttons,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host,omitempty"`
	Port            int           `yaml:"port,omitempty"`
	APIKey          string        `yaml:"api_key,omitempty"`
	CORSOrigins     []string      `yaml:"cors_origins,omitempty"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty"`
	// WriteTimeout is unset by default: a dispatch may wait out long
	// rate-limit retries before it can respond.
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
	Admin           AdminConfig   `yaml:"admin,omitempty"`
}

// AdminConfig protects the /admin routes. Bearer takes precedence over basic auth.
// The routes are not mounted when neither is set.
type AdminConfig struct {
	BearerToken string `yaml:"bearer_token,omitempty"`
	BasicUser   string `yaml:"basic_user,omitempty"`
	BasicPass   string `yaml:"basic_pass,omitempty"`
}

// Enabled reports whether any admin credential is configured.
func (a AdminConfig) Enabled() bool {
	return a.BearerToken != "" || (a.BasicUser != "" && a.BasicPass != "")
}

// LoggingConfig selects the log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// On reports whether metrics are exposed. Defaults to true.
func (m MetricsConfig) On() bool {
	return m.Enabled == nil || *m.Enabled
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	Insecure    bool   `yaml:"insecure,omitempty"`
	ServiceName string `yaml:"service_name,omitempty"`
}
