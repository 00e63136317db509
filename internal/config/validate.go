package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flemzord/tgrelay/internal/escape"
)

// reservedPaths cannot be used by endpoints.
var reservedPaths = []string{"/", "/health", "/admin"}

// Validate checks the structural validity of a Config. All problems are
// reported together.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token is required"))
	}

	if len(cfg.Endpoints) == 0 {
		errs = append(errs, errors.New("at least one endpoint must be configured"))
	}

	seen := make(map[string]int, len(cfg.Endpoints))
	for i, ep := range cfg.Endpoints {
		errs = append(errs, validateEndpoint(cfg, i, ep)...)
		if prev, dup := seen[ep.Path]; dup {
			errs = append(errs, fmt.Errorf("endpoints[%d]: path %q already used by endpoints[%d]", i, ep.Path, prev))
		} else {
			seen[ep.Path] = i
		}
	}

	for i, cb := range cfg.Callbacks {
		if cb.Data == "" {
			errs = append(errs, fmt.Errorf("callbacks[%d]: data is required", i))
		}
	}

	for i, cmd := range cfg.Commands {
		if !strings.HasPrefix(cmd.Command, "/") {
			errs = append(errs, fmt.Errorf("commands[%d]: command %q must start with /", i, cmd.Command))
		}
		if err := validateParseMode(cmd.ParseMode); err != nil {
			errs = append(errs, fmt.Errorf("commands[%d]: %w", i, err))
		}
		errs = append(errs, validateButtons(fmt.Sprintf("commands[%d]", i), cmd.Buttons)...)
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", cfg.Server.Port))
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of text, json", cfg.Logging.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return &Error{Err: err}
	}
	return nil
}

func validateEndpoint(cfg *Config, i int, ep EndpointConfig) []error {
	var errs []error
	where := fmt.Sprintf("endpoints[%d]", i)

	for _, r := range reservedPaths {
		if ep.Path == r || (r != "/" && strings.HasPrefix(ep.Path, r+"/")) {
			errs = append(errs, fmt.Errorf("%s: path %q is reserved", where, ep.Path))
		}
	}
	if ep.Path == cfg.Bot.WebhookPath || (cfg.Metrics.On() && ep.Path == cfg.Metrics.Path) {
		errs = append(errs, fmt.Errorf("%s: path %q collides with a built-in route", where, ep.Path))
	}

	if err := validateParseMode(ep.ParseMode); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", where, err))
	}

	if ep.Template != "" {
		if _, ok := cfg.Templates[ep.Template]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown template %q", where, ep.Template))
		}
	}

	errs = append(errs, validateButtons(where, ep.Buttons)...)

	if ep.ReplyKeyboard != nil && len(ep.ReplyKeyboard.Keyboard) == 0 {
		errs = append(errs, fmt.Errorf("%s: reply_keyboard.keyboard must have at least one row", where))
	}

	if inv := ep.Invoice; inv != nil {
		if inv.Title == "" {
			errs = append(errs, fmt.Errorf("%s: invoice.title is required", where))
		}
		if inv.Currency == "" {
			errs = append(errs, fmt.Errorf("%s: invoice.currency is required", where))
		}
		if len(inv.Prices) == 0 {
			errs = append(errs, fmt.Errorf("%s: invoice.prices must not be empty", where))
		}
	}

	return errs
}

func validateButtons(where string, rows [][]ButtonConfig) []error {
	var errs []error
	for r, row := range rows {
		for c, b := range row {
			switch actions := b.Actions(); len(actions) {
			case 0:
				errs = append(errs, fmt.Errorf("%s: buttons[%d][%d]: one action is required", where, r, c))
			case 1:
			default:
				errs = append(errs, fmt.Errorf("%s: buttons[%d][%d]: only one action allowed, got %s",
					where, r, c, strings.Join(actions, ", ")))
			}
		}
	}
	return errs
}

func validateParseMode(mode string) error {
	if mode == "" || escape.ValidParseMode(mode) {
		return nil
	}
	return fmt.Errorf("invalid parse_mode %q (want Markdown, MarkdownV2 or HTML)", mode)
}

// Warnings returns non-fatal notices about suspicious settings.
func Warnings(cfg *Config) []string {
	var out []string
	for i, ep := range cfg.Endpoints {
		for _, id := range ep.StaticChatIDs() {
			if msg := escape.CheckChatID(id); msg != "" {
				out = append(out, fmt.Sprintf("endpoints[%d]: %s", i, msg))
			}
		}
	}
	if cfg.Server.APIKey == "" {
		out = append(out, "server.api_key is empty: endpoints accept unauthenticated requests")
	}
	if cfg.Bot.WebhookURL != "" && cfg.Bot.WebhookSecret == "" {
		out = append(out, "bot.webhook_secret is empty: webhook updates are not authenticated")
	}
	return out
}
