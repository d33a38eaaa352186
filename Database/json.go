package database

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeList serialises a slice for a JSON text column. nil encodes as "[]".
func EncodeList(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	if string(raw) == "null" {
		return "[]", nil
	}
	return string(raw), nil
}

// DecodeList parses a JSON text column into dst. Empty and null columns
// leave dst untouched.
func DecodeList(raw string, dst interface{}) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}
