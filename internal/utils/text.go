package utils

import (
	"encoding/json"
	"fmt"
)

// Prefix returns the first n characters of s, unmodified. Rune-aware so
// multibyte text is never cut mid-character.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[:n])
}

// Ellipsize bounds s to n characters for previews, appending "..." when
// anything was dropped.
func Ellipsize(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || n >= len(runes) {
		return s
	}
	return string(runes[:n]) + "..."
}

// CountTokens estimates the number of model tokens in the given text,
// approximating 1 token ~= 4 characters.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}
