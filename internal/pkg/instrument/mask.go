package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Redacted replaces every masked value.
const Redacted = "***"

// Masker redacts values stored under sensitive keys, at any depth of a
// decoded JSON document or slog group. Keys match case-insensitively.
type Masker struct {
	keys map[string]struct{}
}

func NewMasker(fields []string) Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return Masker{keys: keys}
}

func (m Masker) Empty() bool {
	return len(m.keys) == 0
}

func (m Masker) Sensitive(key string) bool {
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Value masks maps and slices produced by encoding/json, and string maps.
// Other values are returned as is.
func (m Masker) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = Redacted
				continue
			}
			out[k] = m.Value(v2)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = Redacted
				continue
			}
			out[k] = v2
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.Value(v2)
		}
		return out
	default:
		return v
	}
}

// JSON decodes payload and masks it. ok is false when payload is not JSON.
func (m Masker) JSON(payload []byte) (v any, ok bool) {
	if len(payload) == 0 || json.Unmarshal(payload, &v) != nil {
		return nil, false
	}
	return m.Value(v), true
}

func (m Masker) Attr(attr slog.Attr) slog.Attr {
	if m.Sensitive(attr.Key) {
		return slog.String(attr.Key, Redacted)
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = m.Attr(ga)
		}
		attr.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if s := attr.Value.String(); s != "" && (s[0] == '{' || s[0] == '[') {
			if v, ok := m.marshalMasked([]byte(s)); ok {
				attr.Value = slog.StringValue(v)
			}
		}
	case slog.KindAny:
		switch val := attr.Value.Any().(type) {
		case map[string]any, map[string]string, []any:
			attr.Value = slog.AnyValue(m.Value(val))
		case []byte:
			if v, ok := m.marshalMasked(val); ok {
				attr.Value = slog.StringValue(v)
			}
		}
	}

	return attr
}

func (m Masker) marshalMasked(payload []byte) (string, bool) {
	v, ok := m.JSON(payload)
	if !ok {
		return "", false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(out), true
}
