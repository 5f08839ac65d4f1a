package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultSystemPrompt is used when neither SYSTEM_PROMPT nor the prompt file is set.
const DefaultSystemPrompt = `
You are a helpful customer support assistant for an online store called 'ShopEasy'.
You help customers with product inquiries, order status, return policies, and general shopping assistance.
Keep responses brief, friendly, and helpful. If you don't know something, admit it and offer to connect the customer with a human agent.

Store information:
- Name: ShopEasy
- Products: Electronics, clothing, home goods, toys
- Return policy: 30-day returns on most items
- Shipping: Free on orders over $35
`

// resolveSystemPrompt picks the inline prompt, then the prompt file, then the default.
func resolveSystemPrompt(inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return DefaultSystemPrompt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSystemPrompt, nil
		}
		return "", fmt.Errorf("reading system prompt file %s: %w", path, err)
	}
	return string(data), nil
}

// resolveStop returns the stop sequences sent upstream. LLM_STOP_WORD wins when
// set; otherwise LLM_STOP is read as a JSON array, a JSON string, or a bare string.
func resolveStop(word, raw string) []string {
	if word != "" {
		return []string{word}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		return list
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []string{single}
	}

	return []string{raw}
}
