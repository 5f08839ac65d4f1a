package llm

import (
	"bytes"
	"encoding/json"
)

// ErrorDetail extracts a message from an upstream error body, trying the
// `error` key, then `detail`, then falling back to the raw body text.
// OpenAI-style `{"error":{"message":...}}` objects yield the nested message.
func ErrorDetail(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail"} {
			if d := describe(payload[key]); d != "" {
				return d
			}
		}
	}
	return string(body)
}

func describe(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
			return ""
		}
		if msg := describe(obj["message"]); msg != "" {
			return msg
		}
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return ""
		}
	}

	switch string(raw) {
	case "null", "false", "0":
		return ""
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
