package db

import (
	"encoding/json"
	"strings"
)

// EncodeList serializes an ordered list for a TEXT column. Nil encodes as "[]".
func EncodeList[T any](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeList parses a stored list. Empty, null or malformed text yields an empty list.
func DecodeList[T any](raw string) []T {
	out := []T{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return out
	}
	return items
}
