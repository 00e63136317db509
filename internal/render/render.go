// Package render substitutes {{ name }} placeholders in message templates.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/flemzord/tgrelay/internal/escape"
)

// Renderer renders a template against a context. With a nil context the
// template is returned as literal text.
type Renderer interface {
	Render(tmpl string, data map[string]any) (string, error)
}

const defaultCacheSize = 256

// pongo2 refuses to execute when any context key is not identifier-shaped.
var identifier = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func init() {
	// Messages are not HTML documents.
	pongo2.SetAutoescape(false)

	if !pongo2.FilterExists("int") {
		_ = pongo2.RegisterFilter("int", filterInt)
	}
	if !pongo2.FilterExists("link") {
		_ = pongo2.RegisterFilter("link", filterLink)
	}
}

// Engine is a pongo2 Renderer that caches compiled templates.
type Engine struct {
	cache *lru.Cache[string, *pongo2.Template]
}

// New creates an Engine keeping up to size compiled templates.
func New(size int) (*Engine, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *pongo2.Template](size)
	if err != nil {
		return nil, fmt.Errorf("render: creating cache: %w", err)
	}
	return &Engine{cache: cache}, nil
}

// Render implements Renderer.
func (e *Engine) Render(tmpl string, data map[string]any) (string, error) {
	if data == nil || !strings.Contains(tmpl, "{") {
		return tmpl, nil
	}

	compiled, ok := e.cache.Get(tmpl)
	if !ok {
		var err error
		compiled, err = pongo2.FromString(tmpl)
		if err != nil {
			return "", fmt.Errorf("render: compiling template: %w", err)
		}
		e.cache.Add(tmpl, compiled)
	}

	out, err := compiled.Execute(templateContext(data))
	if err != nil {
		return "", fmt.Errorf("render: executing template: %w", err)
	}
	return out, nil
}

// templateContext keeps the keys a template can reference. Keys such as
// "event-type" or "@timestamp" are dropped.
func templateContext(data map[string]any) pongo2.Context {
	ctx := make(pongo2.Context, len(data))
	for k, v := range data {
		if identifier.MatchString(k) {
			ctx[k] = v
		}
	}
	return ctx
}

// filterInt converts numbers and numeric strings to an integer.
func filterInt(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch {
	case in.IsFloat():
		return pongo2.AsValue(int(in.Float())), nil
	case in.IsString():
		f, err := strconv.ParseFloat(strings.TrimSpace(in.String()), 64)
		if err != nil {
			return pongo2.AsValue(0), nil
		}
		return pongo2.AsValue(int(f)), nil
	default:
		return pongo2.AsValue(in.Integer()), nil
	}
}

// filterLink renders {{ text|link:url }} as plain "text (url)".
func filterLink(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(escape.FormatLink(in.String(), param.String(), escape.ModeNone)), nil
}
