package config

import (
	"strings"
	"time"
)

// Default values applied by Defaults.
const (
	DefaultAPIURL          = "https://api.telegram.org"
	DefaultWebhookPath     = "/bot/webhook"
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultFormatter       = "plain"
	DefaultMetricsPath     = "/metrics"
	DefaultServiceName     = "tgrelay"
	defaultBotTimeout      = 60 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Defaults fills zero-valued settings and normalizes endpoint paths.
func (c *Config) Defaults() {
	if c.Bot.APIURL == "" {
		c.Bot.APIURL = DefaultAPIURL
	}
	c.Bot.APIURL = strings.TrimRight(c.Bot.APIURL, "/")
	if c.Bot.WebhookPath == "" {
		c.Bot.WebhookPath = DefaultWebhookPath
	}
	c.Bot.WebhookPath = normalizePath(c.Bot.WebhookPath)
	if c.Bot.Timeout == 0 {
		c.Bot.Timeout = defaultBotTimeout
	}

	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		ep.Path = normalizePath(ep.Path)
		if ep.Formatter == "" {
			ep.Formatter = DefaultFormatter
		}
	}

	s := &c.Server
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{"*"}
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultServiceName
	}
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
