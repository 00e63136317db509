// Package outbound constructs Bot API send requests. Text and captions are
// escaped for the request's parse mode here, so callers pass raw text.
package outbound

import (
	"github.com/flemzord/tgrelay/internal/escape"
	"github.com/flemzord/tgrelay/internal/telegram"
)

// Common holds the fields shared by every media request.
type Common struct {
	ChatID    string
	Caption   string
	ParseMode string
	Markup    telegram.ReplyMarkup
}

func (c Common) caption() string {
	return escape.Sanitize(c.Caption, c.ParseMode)
}

// VideoOptions are the optional sendVideo fields.
type VideoOptions struct {
	Thumbnail         string
	Width             *int
	Height            *int
	Duration          *int
	SupportsStreaming *bool
}

// AudioOptions are the optional sendAudio fields.
type AudioOptions struct {
	Duration  *int
	Performer string
	Title     string
	Thumbnail string
}

// LocationOptions are the optional sendLocation fields.
type LocationOptions struct {
	HorizontalAccuracy   *float64
	LivePeriod           *int
	Heading              *int
	ProximityAlertRadius *int
}

// Text builds a sendMessage request.
func Text(chatID, text, parseMode string, markup telegram.ReplyMarkup) telegram.SendMessageRequest {
	return telegram.SendMessageRequest{
		ChatID:      chatID,
		Text:        escape.Sanitize(text, parseMode),
		ParseMode:   parseMode,
		ReplyMarkup: markup,
	}
}

// Photo builds a sendPhoto request.
func Photo(c Common, url string) telegram.SendPhotoRequest {
	return telegram.SendPhotoRequest{
		ChatID:      c.ChatID,
		Photo:       url,
		Caption:     c.caption(),
		ParseMode:   c.ParseMode,
		ReplyMarkup: c.Markup,
	}
}

// MediaGroup builds a sendMediaGroup request from at most ten photo URLs.
// Only the first photo carries the caption and parse mode. Markup is ignored.
func MediaGroup(c Common, urls []string) telegram.SendMediaGroupRequest {
	if len(urls) > telegram.MaxMediaGroup {
		urls = urls[:telegram.MaxMediaGroup]
	}
	media := make([]telegram.InputMediaPhoto, 0, len(urls))
	for i, u := range urls {
		item := telegram.InputMediaPhoto{Type: "photo", Media: u}
		if i == 0 {
			item.Caption = c.caption()
			if item.Caption != "" {
				item.ParseMode = c.ParseMode
			}
		}
		media = append(media, item)
	}
	return telegram.SendMediaGroupRequest{ChatID: c.ChatID, Media: media}
}

// Document builds a sendDocument request.
func Document(c Common, url, filename string) telegram.SendDocumentRequest {
	return telegram.SendDocumentRequest{
		ChatID:      c.ChatID,
		Document:    url,
		Caption:     c.caption(),
		ParseMode:   c.ParseMode,
		Filename:    filename,
		ReplyMarkup: c.Markup,
	}
}

// Video builds a sendVideo request.
func Video(c Common, url string, o VideoOptions) telegram.SendVideoRequest {
	return telegram.SendVideoRequest{
		ChatID:            c.ChatID,
		Video:             url,
		Caption:           c.caption(),
		ParseMode:         c.ParseMode,
		Thumbnail:         o.Thumbnail,
		Width:             o.Width,
		Height:            o.Height,
		Duration:          o.Duration,
		SupportsStreaming: o.SupportsStreaming,
		ReplyMarkup:       c.Markup,
	}
}

// Audio builds a sendAudio request.
func Audio(c Common, url string, o AudioOptions) telegram.SendAudioRequest {
	return telegram.SendAudioRequest{
		ChatID:      c.ChatID,
		Audio:       url,
		Caption:     c.caption(),
		ParseMode:   c.ParseMode,
		Duration:    o.Duration,
		Performer:   o.Performer,
		Title:       o.Title,
		Thumbnail:   o.Thumbnail,
		ReplyMarkup: c.Markup,
	}
}

// Voice builds a sendVoice request.
func Voice(c Common, url string, duration *int) telegram.SendVoiceRequest {
	return telegram.SendVoiceRequest{
		ChatID:      c.ChatID,
		Voice:       url,
		Caption:     c.caption(),
		ParseMode:   c.ParseMode,
		Duration:    duration,
		ReplyMarkup: c.Markup,
	}
}

// Location builds a sendLocation request.
func Location(chatID string, lat, lon float64, o LocationOptions, markup telegram.ReplyMarkup) telegram.SendLocationRequest {
	return telegram.SendLocationRequest{
		ChatID:               chatID,
		Latitude:             lat,
		Longitude:            lon,
		HorizontalAccuracy:   o.HorizontalAccuracy,
		LivePeriod:           o.LivePeriod,
		Heading:              o.Heading,
		ProximityAlertRadius: o.ProximityAlertRadius,
		ReplyMarkup:          markup,
	}
}
