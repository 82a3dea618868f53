package dokploy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IndentJSON renders v as two-space indented JSON without HTML escaping.
// Values that cannot be encoded fall back to their %v form.
func IndentJSON(v any) string {
	raw, err := encodeJSON(v, "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return raw
}

// CompactJSON renders v on a single line without HTML escaping.
func CompactJSON(v any) string {
	raw, err := encodeJSON(v, "")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return raw
}

func encodeJSON(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// indentRaw reindents a JSON document keeping its key order and string bytes.
func indentRaw(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// header is one request header; the slice order is the display order.
type header struct {
	name  string
	value string
}

// headersJSON renders headers as an indented object in slice order.
func headersJSON(headers []header) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := encodeJSON(h.name, "")
		value, _ := encodeJSON(h.value, "")
		buf.WriteString(name)
		buf.WriteByte(':')
		buf.WriteString(value)
	}
	buf.WriteByte('}')

	out, err := indentRaw(buf.Bytes())
	if err != nil {
		return buf.String()
	}
	return out
}
