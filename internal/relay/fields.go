package relay

import (
	"strconv"
	"strings"

	"github.com/flemzord/tgrelay/internal/escape"
)

// fields resolves named payload fields. A field_map entry is a dot-path
// into the payload; otherwise the field is read from the top level.
type fields struct {
	payload  map[string]any
	fieldMap map[string]string
}

// get returns the field value or nil when absent.
func (f fields) get(name string) any {
	path, ok := f.fieldMap[name]
	if !ok || path == "" {
		return f.payload[name]
	}
	var cur any = f.payload
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func (f fields) str(name string) string {
	return escape.ToString(f.get(name))
}

func (f fields) strings(name string) []string {
	list, ok := f.get(name).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s := escape.ToString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (f fields) intPtr(name string) *int {
	return toIntPtr(f.get(name))
}

func (f fields) boolPtr(name string) *bool {
	b, ok := f.get(name).(bool)
	if !ok {
		return nil
	}
	return &b
}

func toIntPtr(v any) *int {
	var n int
	switch x := v.(type) {
	case float64:
		n = int(x)
	case int:
		n = x
	case string:
		parsed, err := strconv.Atoi(x)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func toFloatPtr(v any) *float64 {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}
